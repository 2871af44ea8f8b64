package platform

import (
	"errors"
	"log/slog"

	"resty/internal/core/timekeeper"
)

// ErrPowerMonitorUnsupported is returned by PowerMonitor.Run on platforms
// without a power signal source.
var ErrPowerMonitorUnsupported = errors.New("power monitor unsupported")

const (
	login1Interface       = "org.freedesktop.login1.Manager"
	prepareForSleepMember = "PrepareForSleep"
	screenSaverInterface  = "org.freedesktop.ScreenSaver"
	activeChangedMember   = "ActiveChanged"
)

// PowerMonitor forwards OS suspend and display signals to a listener.
type PowerMonitor struct {
	listener timekeeper.PowerListener
	logger   *slog.Logger
}

// NewPowerMonitor creates a monitor delivering to listener.
func NewPowerMonitor(listener timekeeper.PowerListener, logger *slog.Logger) *PowerMonitor {
	if logger == nil {
		logger = slog.Default()
	}
	return &PowerMonitor{listener: listener, logger: logger}
}

// deliver maps a boolean power signal onto the listener. Unknown signals
// are ignored and reported as false.
func (monitor *PowerMonitor) deliver(name string, value bool) bool {
	switch name {
	case login1Interface + "." + prepareForSleepMember:
		if value {
			monitor.logger.Info("system suspending")
			monitor.listener.HandleSystemSuspend()
		} else {
			monitor.logger.Info("system resumed")
			monitor.listener.HandleSystemResume()
		}
	case screenSaverInterface + "." + activeChangedMember:
		// An active screensaver means the display is off.
		monitor.logger.Debug("screensaver changed", "active", value)
		monitor.listener.HandleDisplayPowerState(!value)
	default:
		return false
	}
	return true
}
