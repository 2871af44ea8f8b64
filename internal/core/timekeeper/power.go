package timekeeper

// PowerListener receives OS power signals. Platform monitors depend on this
// interface only; TimeKeeper implements it.
type PowerListener interface {
	HandleDisplayPowerState(displayOn bool)
	HandleSystemSuspend()
	HandleSystemResume()
}

var _ PowerListener = (*TimeKeeper)(nil)

// HandleDisplayPowerState pauses a running timer when the display turns off
// and resumes it when the display comes back, but only if the display was
// the reason for the pause.
func (keeper *TimeKeeper) HandleDisplayPowerState(displayOn bool) {
	var fx effects
	keeper.mu.Lock()
	now := keeper.now()
	state := &keeper.state
	if displayOn {
		if state.run == StatePaused && state.pausedDueToDisplayOff {
			keeper.resumeLocked(now, &fx)
		}
		state.pausedDueToDisplayOff = false
	} else if keeper.pauseLocked(now, &fx) {
		state.pausedDueToDisplayOff = true
	}
	keeper.mu.Unlock()
	keeper.dispatch(fx)
}

// HandleSystemSuspend pauses a running timer before the machine sleeps.
func (keeper *TimeKeeper) HandleSystemSuspend() {
	var fx effects
	keeper.mu.Lock()
	if keeper.pauseLocked(keeper.now(), &fx) {
		keeper.state.pausedDueToSystemSuspend = true
	}
	keeper.mu.Unlock()
	keeper.dispatch(fx)
}

// HandleSystemResume resumes the timer if the suspend paused it.
func (keeper *TimeKeeper) HandleSystemResume() {
	var fx effects
	keeper.mu.Lock()
	state := &keeper.state
	if state.run == StatePaused && state.pausedDueToSystemSuspend {
		keeper.resumeLocked(keeper.now(), &fx)
	}
	state.pausedDueToSystemSuspend = false
	keeper.mu.Unlock()
	keeper.dispatch(fx)
}
