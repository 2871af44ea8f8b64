package timekeeper

import "time"

// maxExtendMinutes caps a single Extend call at one day.
const maxExtendMinutes = 24 * 60

// Clock provides the wall-clock time used for every deadline comparison.
type Clock interface {
	Now() time.Time
}

// SystemClock is the default Clock backed by time.Now.
var SystemClock Clock = systemClock{}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

// deadlineAfter converts a phase length into an absolute deadline.
func deadlineAfter(now time.Time, length time.Duration) time.Time {
	return now.Add(length)
}

// remainingUntil reports how much of a phase is left, never negative.
func remainingUntil(deadline, now time.Time) time.Duration {
	if !now.Before(deadline) {
		return 0
	}
	return deadline.Sub(now)
}

func minutes(value int) time.Duration {
	return time.Duration(value) * time.Minute
}

func clampDuration(value, upper time.Duration) time.Duration {
	if value < 0 {
		return 0
	}
	if value > upper {
		return upper
	}
	return value
}
