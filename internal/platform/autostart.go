package platform

import (
	"fmt"
	"strings"
)

// Autostart registers the application to launch at login.
type Autostart struct {
	appName  string
	execPath string
	// baseDir replaces the per-user OS location when set.
	baseDir string
}

// NewAutostart creates an autostart registration for execPath.
func NewAutostart(appName, execPath string) *Autostart {
	return &Autostart{appName: appName, execPath: execPath}
}

// Apply enables or disables launching at login.
func (autostart *Autostart) Apply(enabled bool) error {
	if strings.TrimSpace(autostart.appName) == "" {
		return fmt.Errorf("autostart: app name is empty")
	}
	if enabled {
		if autostart.execPath == "" {
			return fmt.Errorf("enable autostart: exec path is empty")
		}
		if err := autostart.enable(); err != nil {
			return fmt.Errorf("enable autostart: %w", err)
		}
		return nil
	}
	if err := autostart.disable(); err != nil {
		return fmt.Errorf("disable autostart: %w", err)
	}
	return nil
}

func slugName(appName string) string {
	name := strings.ToLower(strings.TrimSpace(appName))
	return strings.ReplaceAll(name, " ", "-")
}
