package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type recordingListener struct {
	calls []string
}

func (listener *recordingListener) HandleDisplayPowerState(displayOn bool) {
	if displayOn {
		listener.calls = append(listener.calls, "display-on")
		return
	}
	listener.calls = append(listener.calls, "display-off")
}

func (listener *recordingListener) HandleSystemSuspend() {
	listener.calls = append(listener.calls, "suspend")
}

func (listener *recordingListener) HandleSystemResume() {
	listener.calls = append(listener.calls, "resume")
}

func TestPowerMonitorDeliver(t *testing.T) {
	listener := &recordingListener{}
	monitor := NewPowerMonitor(listener, nil)

	assert.True(t, monitor.deliver("org.freedesktop.login1.Manager.PrepareForSleep", true))
	assert.True(t, monitor.deliver("org.freedesktop.login1.Manager.PrepareForSleep", false))
	assert.True(t, monitor.deliver("org.freedesktop.ScreenSaver.ActiveChanged", true))
	assert.True(t, monitor.deliver("org.freedesktop.ScreenSaver.ActiveChanged", false))
	assert.False(t, monitor.deliver("org.freedesktop.login1.Manager.SessionNew", true))

	assert.Equal(t, []string{"suspend", "resume", "display-off", "display-on"}, listener.calls)
}
