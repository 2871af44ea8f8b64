package timekeeper

import (
	"sort"
	"time"
)

const (
	morningHour = 8
	// Longest suppression accepted, one year.
	maxSuppressHours = 24 * 365
	// Wall-clock offsets searched around a local time when resolving DST
	// folds; covers every transition in the tz database.
	foldSearchWindow = 3 * time.Hour
	foldSearchStep   = 15 * time.Minute
)

// SuppressBreaksForHours bypasses breaks for hours from now, clamped to
// between one hour and one year.
func (keeper *TimeKeeper) SuppressBreaksForHours(hours int) {
	var fx effects
	keeper.mu.Lock()
	now := keeper.now()
	keeper.state.suppressUntil = now.Add(time.Duration(clampInt(hours, 1, maxSuppressHours)) * time.Hour)
	keeper.emitUpdateLocked(now, &fx)
	keeper.mu.Unlock()
	keeper.dispatch(fx)
}

// SuppressBreaksUntilTomorrowMorning bypasses breaks until 08:00 local time
// on the next calendar day.
func (keeper *TimeKeeper) SuppressBreaksUntilTomorrowMorning() {
	var fx effects
	keeper.mu.Lock()
	now := keeper.now()
	keeper.state.suppressUntil = tomorrowMorning(now, keeper.options.Location)
	keeper.emitUpdateLocked(now, &fx)
	keeper.mu.Unlock()
	keeper.dispatch(fx)
}

// tomorrowMorning resolves 08:00 tomorrow in loc. A wall time repeated by a
// DST fold resolves to its earliest instant; one skipped by a DST gap falls
// back to 24 hours from now.
func tomorrowMorning(now time.Time, loc *time.Location) time.Time {
	local := now.In(loc)
	year, month, day := time.Date(local.Year(), local.Month(), local.Day()+1, 12, 0, 0, 0, loc).Date()
	candidates := localInstants(year, month, day, morningHour, loc)
	if len(candidates) == 0 {
		return now.Add(24 * time.Hour)
	}
	return candidates[0]
}

// localInstants returns, in ascending order, every instant whose wall clock
// in loc reads year-month-day hour:00:00.
func localInstants(year int, month time.Month, day, hour int, loc *time.Location) []time.Time {
	guess := time.Date(year, month, day, hour, 0, 0, 0, loc)
	seen := make(map[int64]bool)
	var instants []time.Time
	for offset := -foldSearchWindow; offset <= foldSearchWindow; offset += foldSearchStep {
		candidate := guess.Add(offset)
		wall := candidate.In(loc)
		y, m, d := wall.Date()
		if y != year || m != month || d != day || wall.Hour() != hour || wall.Minute() != 0 || wall.Second() != 0 {
			continue
		}
		if seen[candidate.Unix()] {
			continue
		}
		seen[candidate.Unix()] = true
		instants = append(instants, candidate)
	}
	sort.Slice(instants, func(i, j int) bool { return instants[i].Before(instants[j]) })
	return instants
}
