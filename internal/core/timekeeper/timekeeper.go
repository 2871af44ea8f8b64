package timekeeper

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"resty/internal/core/model"
)

// Config contains runtime options for TimeKeeper.
type Config struct {
	Clock Clock
	// Sessions receives start placeholders and the skipped-break record
	// produced by a flow mode switch. Finished and skipped records are
	// returned by Tick and Skip instead.
	Sessions SessionSink
	Logger   *slog.Logger
	// Location resolves "tomorrow morning"; defaults to time.Local.
	Location *time.Location
}

// engineState is the single mutable aggregate guarded by TimeKeeper.mu.
type engineState struct {
	phase     Phase
	run       RunState
	remaining time.Duration
	total     time.Duration
	extended  time.Duration

	plan             segmentPlan
	flowMode         bool
	segmentIndex     int
	segmentIteration int

	// deadline is set while running and zero otherwise.
	deadline     time.Time
	sessionID    string
	sessionStart time.Time
	autoCycle    bool

	suppressUntil time.Time

	pausedDueToDisplayOff    bool
	pausedDueToSystemSuspend bool
}

// TimeKeeper is the work/break state machine.
type TimeKeeper struct {
	mu      sync.Mutex
	state   engineState
	options Config

	subscribersMu sync.Mutex
	events        []chan Event
	closed        bool
}

// effects collects the notifications and records produced while the state
// lock is held; they are dispatched once it is released.
type effects struct {
	events   []Event
	sessions []model.Session
}

func (fx *effects) emit(event Event) {
	fx.events = append(fx.events, event)
}

func (fx *effects) persist(session model.Session) {
	fx.sessions = append(fx.sessions, session)
}

// New creates an idle TimeKeeper with the provided configuration.
func New(config model.TimerConfig, options Config) *TimeKeeper {
	if options.Clock == nil {
		options.Clock = SystemClock
	}
	if options.Logger == nil {
		options.Logger = slog.Default()
	}
	if options.Location == nil {
		options.Location = time.Local
	}

	return &TimeKeeper{
		options: options,
		state: engineState{
			phase:     PhaseIdle,
			run:       StateStopped,
			plan:      newSegmentPlan(config.WorkMinutes, config.BreakMinutes, config.SegmentedEnabled, config.Segments),
			flowMode:  config.FlowMode,
			autoCycle: true,
		},
	}
}

// Subscribe registers a new observer channel.
func (keeper *TimeKeeper) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	keeper.subscribersMu.Lock()
	defer keeper.subscribersMu.Unlock()
	if keeper.closed {
		close(ch)
		return ch
	}
	keeper.events = append(keeper.events, ch)
	return ch
}

// Close closes all observer channels. Commands keep working afterwards but
// no longer notify anyone.
func (keeper *TimeKeeper) Close() {
	keeper.subscribersMu.Lock()
	defer keeper.subscribersMu.Unlock()
	if keeper.closed {
		return
	}
	keeper.closed = true
	for _, ch := range keeper.events {
		close(ch)
	}
	keeper.events = nil
}

// StartWork begins a work phase using the current segment's work length.
func (keeper *TimeKeeper) StartWork() {
	var fx effects
	keeper.mu.Lock()
	keeper.startPhaseLocked(PhaseWork, keeper.now(), &fx)
	keeper.mu.Unlock()
	keeper.dispatch(fx)
}

// StartBreak begins a break phase using the current segment's break length.
func (keeper *TimeKeeper) StartBreak() {
	var fx effects
	keeper.mu.Lock()
	keeper.startPhaseLocked(PhaseBreak, keeper.now(), &fx)
	keeper.mu.Unlock()
	keeper.dispatch(fx)
}

// Pause freezes the remaining time. It is a no-op unless running.
func (keeper *TimeKeeper) Pause() {
	var fx effects
	keeper.mu.Lock()
	keeper.pauseLocked(keeper.now(), &fx)
	keeper.mu.Unlock()
	keeper.dispatch(fx)
}

// Resume restarts a paused phase with a fresh deadline. An explicit resume
// clears every automatic pause cause.
func (keeper *TimeKeeper) Resume() {
	var fx effects
	keeper.mu.Lock()
	keeper.resumeLocked(keeper.now(), &fx)
	keeper.mu.Unlock()
	keeper.dispatch(fx)
}

// Extend adds between one minute and one day to the current phase in any
// run state.
func (keeper *TimeKeeper) Extend(extraMinutes int) {
	var fx effects
	keeper.mu.Lock()
	now := keeper.now()
	extra := minutes(clampInt(extraMinutes, 1, maxExtendMinutes))
	state := &keeper.state
	state.remaining += extra
	state.total += extra
	state.extended += extra
	if !state.deadline.IsZero() {
		state.deadline = state.deadline.Add(extra)
	}
	keeper.emitUpdateLocked(now, &fx)
	keeper.mu.Unlock()
	keeper.dispatch(fx)
}

// Stop returns to idle and forgets the in-flight session without recording it.
func (keeper *TimeKeeper) Stop() {
	var fx effects
	keeper.mu.Lock()
	keeper.stopLocked(keeper.now(), &fx)
	keeper.mu.Unlock()
	keeper.dispatch(fx)
}

// Skip ends the current phase early and starts the opposite one. It returns
// the skipped session and whether a break reminder should be shown; ok is
// false when idle.
func (keeper *TimeKeeper) Skip() (session model.Session, showReminder bool, ok bool) {
	var fx effects
	keeper.mu.Lock()
	if keeper.state.phase == PhaseIdle {
		keeper.mu.Unlock()
		return model.Session{}, false, false
	}
	session, showReminder = keeper.skipLocked(keeper.now(), &fx)
	keeper.mu.Unlock()
	keeper.dispatch(fx)
	return session, showReminder, true
}

// Tick compares the deadline with the clock and, once it has passed, closes
// the phase and chains into the next one. The finished session is returned
// for persistence.
func (keeper *TimeKeeper) Tick() (model.Session, bool) {
	var fx effects
	keeper.mu.Lock()
	session, finished := keeper.tickLocked(keeper.now(), &fx)
	keeper.mu.Unlock()
	keeper.dispatch(fx)
	return session, finished
}

// UpdateTimerConfiguration replaces the durations and the segment plan. A
// running phase keeps its deadline; the change applies from the next phase.
func (keeper *TimeKeeper) UpdateTimerConfiguration(workMinutes, breakMinutes int, segmented bool, segments []model.WorkSegment) {
	var fx effects
	keeper.mu.Lock()
	state := &keeper.state
	state.plan = newSegmentPlan(workMinutes, breakMinutes, segmented, segments)
	if !state.plan.validCursor(state.segmentIndex, state.segmentIteration) {
		state.segmentIndex = 0
		state.segmentIteration = 0
	}
	keeper.emitUpdateLocked(keeper.now(), &fx)
	keeper.mu.Unlock()
	keeper.dispatch(fx)
}

// UpdateFlowMode toggles flow mode. Enabling it during a break skips the
// break and records the skipped session.
func (keeper *TimeKeeper) UpdateFlowMode(enabled bool) {
	var fx effects
	keeper.mu.Lock()
	state := &keeper.state
	if state.flowMode == enabled {
		keeper.mu.Unlock()
		return
	}
	state.flowMode = enabled
	now := keeper.now()
	if enabled && state.phase == PhaseBreak {
		session, _ := keeper.skipLocked(now, &fx)
		fx.persist(session)
	} else {
		keeper.emitUpdateLocked(now, &fx)
	}
	keeper.mu.Unlock()
	keeper.dispatch(fx)
}

// Info returns a snapshot of the timer.
func (keeper *TimeKeeper) Info() Info {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	return keeper.infoLocked(keeper.now())
}

func (keeper *TimeKeeper) now() time.Time {
	return keeper.options.Clock.Now()
}

func (keeper *TimeKeeper) startPhaseLocked(phase Phase, now time.Time, fx *effects) {
	state := &keeper.state
	work, brk := state.plan.durationsFor(state.segmentIndex)
	length := work
	if phase == PhaseBreak {
		length = brk
	}

	state.phase = phase
	state.run = StateRunning
	state.total = length
	state.remaining = length
	state.extended = 0
	state.deadline = deadlineAfter(now, length)
	state.sessionID = uuid.NewString()
	state.sessionStart = now
	state.pausedDueToDisplayOff = false
	state.pausedDueToSystemSuspend = false

	keeper.emitUpdateLocked(now, fx)
	fx.emit(Event{Type: EventPhaseChange, Phase: phase, Info: keeper.infoLocked(now), At: now})
	fx.persist(startPlaceholder(state))
}

func (keeper *TimeKeeper) stopLocked(now time.Time, fx *effects) {
	state := &keeper.state
	state.phase = PhaseIdle
	state.run = StateStopped
	state.remaining = 0
	state.total = 0
	state.extended = 0
	state.deadline = time.Time{}
	state.sessionID = ""
	state.sessionStart = time.Time{}
	state.pausedDueToDisplayOff = false
	state.pausedDueToSystemSuspend = false
	keeper.emitUpdateLocked(now, fx)
}

func (keeper *TimeKeeper) pauseLocked(now time.Time, fx *effects) bool {
	state := &keeper.state
	if state.run != StateRunning {
		return false
	}
	state.remaining = clampDuration(remainingUntil(state.deadline, now), state.total)
	state.run = StatePaused
	state.deadline = time.Time{}
	keeper.emitUpdateLocked(now, fx)
	return true
}

func (keeper *TimeKeeper) resumeLocked(now time.Time, fx *effects) bool {
	state := &keeper.state
	if state.run != StatePaused {
		return false
	}
	state.run = StateRunning
	state.deadline = deadlineAfter(now, state.remaining)
	state.pausedDueToDisplayOff = false
	state.pausedDueToSystemSuspend = false
	keeper.emitUpdateLocked(now, fx)
	return true
}

func (keeper *TimeKeeper) skipLocked(now time.Time, fx *effects) (model.Session, bool) {
	state := &keeper.state
	session := finishedRecord(state, now, true)
	previous := state.phase

	keeper.stopLocked(now, fx)
	switch previous {
	case PhaseWork:
		keeper.startPhaseLocked(PhaseBreak, now, fx)
		fx.emit(Event{Type: EventBreakReminder, Phase: PhaseBreak, Info: keeper.infoLocked(now), At: now})
		return session, true
	case PhaseBreak:
		keeper.advanceSegmentLocked()
		keeper.startPhaseLocked(PhaseWork, now, fx)
	}
	return session, false
}

func (keeper *TimeKeeper) tickLocked(now time.Time, fx *effects) (model.Session, bool) {
	state := &keeper.state
	if state.run != StateRunning {
		return model.Session{}, false
	}

	suppressed := !state.suppressUntil.IsZero() && now.Before(state.suppressUntil)
	if !suppressed {
		state.suppressUntil = time.Time{}
	}

	if now.Before(state.deadline) {
		state.remaining = clampDuration(remainingUntil(state.deadline, now), state.total)
		keeper.emitUpdateLocked(now, fx)
		return model.Session{}, false
	}

	state.remaining = 0
	session := finishedRecord(state, now, false)
	state.deadline = time.Time{}
	finishedPhase := state.phase
	fx.emit(Event{Type: EventTimerFinished, Phase: finishedPhase, Info: keeper.infoLocked(now), At: now})

	if !state.autoCycle {
		keeper.stopLocked(now, fx)
		return session, true
	}

	switch finishedPhase {
	case PhaseWork:
		if suppressed || state.flowMode {
			keeper.advanceSegmentLocked()
			keeper.startPhaseLocked(PhaseWork, now, fx)
		} else {
			keeper.startPhaseLocked(PhaseBreak, now, fx)
			fx.emit(Event{Type: EventBreakReminder, Phase: PhaseBreak, Info: keeper.infoLocked(now), At: now})
		}
	case PhaseBreak:
		keeper.advanceSegmentLocked()
		keeper.startPhaseLocked(PhaseWork, now, fx)
	}
	return session, true
}

func (keeper *TimeKeeper) advanceSegmentLocked() {
	state := &keeper.state
	state.segmentIndex, state.segmentIteration = state.plan.advance(state.segmentIndex, state.segmentIteration)
}

func (keeper *TimeKeeper) infoLocked(now time.Time) Info {
	state := &keeper.state
	remaining := state.remaining
	if state.run == StateRunning {
		remaining = clampDuration(remainingUntil(state.deadline, now), state.total)
	}

	info := Info{
		Phase:            state.phase,
		State:            state.run,
		Remaining:        remaining,
		Total:            state.total,
		NextTransition:   state.deadline,
		FlowMode:         state.flowMode,
		SegmentIndex:     state.segmentIndex,
		SegmentIteration: state.segmentIteration,
	}
	if !state.suppressUntil.IsZero() && now.Before(state.suppressUntil) {
		info.SuppressedUntil = state.suppressUntil
	}
	if !state.flowMode {
		if next, ok := predictNextBreak(state, now); ok {
			info.NextBreak = next
		}
	}
	return info
}

func (keeper *TimeKeeper) emitUpdateLocked(now time.Time, fx *effects) {
	fx.emit(Event{Type: EventTimerUpdate, Phase: keeper.state.phase, Info: keeper.infoLocked(now), At: now})
}

// dispatch delivers collected effects. It must be called without holding mu.
func (keeper *TimeKeeper) dispatch(fx effects) {
	for _, event := range fx.events {
		keeper.emit(event)
	}
	if keeper.options.Sessions == nil {
		return
	}
	for _, session := range fx.sessions {
		keeper.options.Sessions.Persist(session)
	}
}

func (keeper *TimeKeeper) emit(event Event) {
	keeper.subscribersMu.Lock()
	defer keeper.subscribersMu.Unlock()
	if len(keeper.events) == 0 {
		keeper.options.Logger.Debug("timekeeper event has no listeners", "type", event.Type)
		return
	}
	for _, ch := range keeper.events {
		select {
		case ch <- event:
		default:
			keeper.options.Logger.Debug("timekeeper event dropped", "type", event.Type)
		}
	}
}
