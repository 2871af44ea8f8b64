package timekeeper

import "time"

// Phase represents the activity the timer is tracking.
type Phase string

const (
	PhaseWork  Phase = "work"
	PhaseBreak Phase = "break"
	PhaseIdle  Phase = "idle"
)

// RunState represents whether the current phase is counting down.
type RunState string

const (
	StateRunning RunState = "running"
	StatePaused  RunState = "paused"
	StateStopped RunState = "stopped"
)

// EventType defines the type of TimeKeeper event.
type EventType string

const (
	EventTimerUpdate   EventType = "timer_update"
	EventPhaseChange   EventType = "phase_change"
	EventTimerFinished EventType = "timer_finished"
	EventBreakReminder EventType = "show_break_reminder"
)

// Event represents a TimeKeeper update for observers.
type Event struct {
	Type  EventType
	Phase Phase
	Info  Info
	At    time.Time
}

// Info is a read-only snapshot of the timer.
type Info struct {
	Phase     Phase
	State     RunState
	Remaining time.Duration
	Total     time.Duration
	// NextTransition is the current phase deadline; zero unless running.
	NextTransition time.Time
	// NextBreak is when a break will actually begin, honoring suppression.
	// Zero in flow mode or while idle.
	NextBreak time.Time
	// SuppressedUntil is zero unless a suppression window is still open.
	SuppressedUntil time.Time
	FlowMode        bool

	SegmentIndex     int
	SegmentIteration int
}

// RemainingSeconds returns the remaining time in whole seconds.
func (info Info) RemainingSeconds() int64 {
	return int64(info.Remaining / time.Second)
}

// TotalSeconds returns the phase length in whole seconds.
func (info Info) TotalSeconds() int64 {
	return int64(info.Total / time.Second)
}
