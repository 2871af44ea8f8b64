package timekeeper

import "time"

// predictNextBreak computes when a break will actually begin, walking past
// any suppression window. It never mutates state.
func predictNextBreak(state *engineState, now time.Time) (time.Time, bool) {
	if state.phase == PhaseIdle {
		return time.Time{}, false
	}

	allowFrom := now
	if !state.suppressUntil.IsZero() && state.suppressUntil.After(now) {
		allowFrom = state.suppressUntil
	}
	phaseEnd := state.deadline
	if phaseEnd.IsZero() {
		phaseEnd = now.Add(max(state.remaining, time.Minute))
	}

	plan := state.plan
	if !plan.hasSegments() {
		candidate := phaseEnd
		if state.phase == PhaseBreak {
			candidate = candidate.Add(plan.baseWork)
		}
		if candidate.Before(allowFrom) {
			gap := allowFrom.Sub(candidate)
			cycles := (gap + plan.baseWork - 1) / plan.baseWork
			candidate = candidate.Add(time.Duration(cycles) * plan.baseWork)
		}
		return candidate, true
	}

	index, iteration := state.segmentIndex, state.segmentIteration
	candidate := phaseEnd
	if state.phase == PhaseBreak {
		index, iteration = plan.advance(index, iteration)
		candidate = candidate.Add(plan.workFor(index))
	}
	for candidate.Before(allowFrom) {
		breakLength := plan.breakFor(index)
		index, iteration = plan.advance(index, iteration)
		candidate = candidate.Add(breakLength + plan.workFor(index))
	}
	return candidate, true
}
