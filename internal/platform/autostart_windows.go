//go:build windows

package platform

import (
	"fmt"
	"os/exec"
	"strings"
)

const registryRunKey = `HKCU\Software\Microsoft\Windows\CurrentVersion\Run`

func (autostart *Autostart) enable() error {
	quoted := fmt.Sprintf(`"%s"`, strings.Trim(autostart.execPath, `"`))
	return runReg("add", registryRunKey, "/v", autostart.appName, "/t", "REG_SZ", "/d", quoted, "/f")
}

func (autostart *Autostart) disable() error {
	return runReg("delete", registryRunKey, "/v", autostart.appName, "/f")
}

func runReg(args ...string) error {
	output, err := exec.Command("reg", args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("reg %s: %w: %s", args[0], err, strings.TrimSpace(string(output)))
	}
	return nil
}
