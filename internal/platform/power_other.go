//go:build !linux

package platform

import "context"

// Run reports ErrPowerMonitorUnsupported; only Linux signals are wired.
func (monitor *PowerMonitor) Run(ctx context.Context) error {
	return ErrPowerMonitorUnsupported
}
