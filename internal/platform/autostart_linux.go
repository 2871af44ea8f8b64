//go:build linux

package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (autostart *Autostart) enable() error {
	entryPath, err := autostart.entryPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(entryPath), 0o755); err != nil {
		return fmt.Errorf("create autostart dir: %w", err)
	}
	if err := os.WriteFile(entryPath, []byte(desktopEntry(autostart.appName, autostart.execPath)), 0o644); err != nil {
		return fmt.Errorf("write desktop entry: %w", err)
	}
	return nil
}

func (autostart *Autostart) disable() error {
	entryPath, err := autostart.entryPath()
	if err != nil {
		return err
	}
	if err := os.Remove(entryPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove desktop entry: %w", err)
	}
	return nil
}

func (autostart *Autostart) entryPath() (string, error) {
	baseDir := autostart.baseDir
	if baseDir == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("resolve user config dir: %w", err)
		}
		baseDir = filepath.Join(configDir, "autostart")
	}
	return filepath.Join(baseDir, slugName(autostart.appName)+".desktop"), nil
}

func desktopEntry(appName, execPath string) string {
	execLine := execPath
	if strings.Contains(execLine, " ") && !strings.HasPrefix(execLine, `"`) {
		execLine = `"` + execLine + `"`
	}

	return fmt.Sprintf(`[Desktop Entry]
Type=Application
Name=%s
Comment=Work and break timer
Exec=%s
X-GNOME-Autostart-enabled=true
Terminal=false
`, appName, execLine)
}
