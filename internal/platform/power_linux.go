//go:build linux

package platform

import (
	"context"
	"fmt"

	"github.com/godbus/dbus/v5"
)

// Run listens for logind sleep signals on the system bus and screensaver
// changes on the session bus until ctx is cancelled. A missing session bus
// only disables display tracking.
func (monitor *PowerMonitor) Run(ctx context.Context) error {
	system, err := dbus.ConnectSystemBus()
	if err != nil {
		return fmt.Errorf("connect system bus: %w", err)
	}
	defer system.Close()

	sleepSignals, err := subscribe(system, login1Interface, prepareForSleepMember)
	if err != nil {
		return fmt.Errorf("watch %s: %w", prepareForSleepMember, err)
	}

	var displaySignals chan *dbus.Signal
	session, err := dbus.ConnectSessionBus()
	if err != nil {
		monitor.logger.Warn("session bus unavailable, display tracking disabled", "error", err)
	} else {
		defer session.Close()
		displaySignals, err = subscribe(session, screenSaverInterface, activeChangedMember)
		if err != nil {
			monitor.logger.Warn("watch screensaver", "error", err)
			displaySignals = nil
		}
	}

	monitor.logger.Info("power monitor started")
	for {
		select {
		case <-ctx.Done():
			return nil
		case signal, ok := <-sleepSignals:
			if !ok {
				return nil
			}
			monitor.handle(signal)
		case signal, ok := <-displaySignals:
			if !ok {
				displaySignals = nil
				continue
			}
			monitor.handle(signal)
		}
	}
}

func subscribe(conn *dbus.Conn, iface, member string) (chan *dbus.Signal, error) {
	if err := conn.AddMatchSignal(
		dbus.WithMatchInterface(iface),
		dbus.WithMatchMember(member),
	); err != nil {
		return nil, err
	}
	signals := make(chan *dbus.Signal, 16)
	conn.Signal(signals)
	return signals, nil
}

func (monitor *PowerMonitor) handle(signal *dbus.Signal) {
	if signal == nil || len(signal.Body) == 0 {
		return
	}
	value, ok := signal.Body[0].(bool)
	if !ok {
		monitor.logger.Debug("unexpected power signal body", "name", signal.Name)
		return
	}
	monitor.deliver(signal.Name, value)
}
