package timekeeper

import (
	"time"

	"resty/internal/core/model"
)

// segmentPlan is the cyclic work/break plan plus the flat fallback durations.
type segmentPlan struct {
	enabled   bool
	segments  []model.WorkSegment
	baseWork  time.Duration
	baseBreak time.Duration
}

func newSegmentPlan(workMinutes, breakMinutes int, enabled bool, segments []model.WorkSegment) segmentPlan {
	sanitized := SanitizeSegments(segments)
	return segmentPlan{
		enabled:   enabled && len(sanitized) > 0,
		segments:  sanitized,
		baseWork:  minutes(max(workMinutes, 1)),
		baseBreak: minutes(max(breakMinutes, 1)),
	}
}

func (plan segmentPlan) hasSegments() bool {
	return plan.enabled && len(plan.segments) > 0
}

func (plan segmentPlan) normalize(index int) int {
	if len(plan.segments) == 0 || index < 0 {
		return 0
	}
	return min(index, len(plan.segments)-1)
}

// durationsFor returns the work and break lengths of the segment at index.
func (plan segmentPlan) durationsFor(index int) (time.Duration, time.Duration) {
	if !plan.hasSegments() {
		return plan.baseWork, plan.baseBreak
	}
	segment := plan.segments[plan.normalize(index)]
	return minutes(segment.WorkMinutes), minutes(segment.BreakMinutes)
}

func (plan segmentPlan) workFor(index int) time.Duration {
	work, _ := plan.durationsFor(index)
	return work
}

func (plan segmentPlan) breakFor(index int) time.Duration {
	_, brk := plan.durationsFor(index)
	return brk
}

// advance moves the cursor one work/break cycle forward. Segments form a
// ring: after the last repeat of the last segment the cursor wraps to 0.
func (plan segmentPlan) advance(index, iteration int) (int, int) {
	if !plan.hasSegments() {
		return 0, 0
	}
	index = plan.normalize(index)
	repeat := max(plan.segments[index].Repeat, model.MinSegmentRepeat)
	if iteration+1 < repeat {
		return index, iteration + 1
	}
	return (index + 1) % len(plan.segments), 0
}

// validCursor reports whether (index, iteration) still addresses the plan.
func (plan segmentPlan) validCursor(index, iteration int) bool {
	if !plan.hasSegments() {
		return index == 0 && iteration == 0
	}
	if index < 0 || index >= len(plan.segments) {
		return false
	}
	return iteration >= 0 && iteration < max(plan.segments[index].Repeat, model.MinSegmentRepeat)
}

// SanitizeSegments clamps every segment into the supported ranges and drops
// segments left without a usable length.
func SanitizeSegments(segments []model.WorkSegment) []model.WorkSegment {
	sanitized := make([]model.WorkSegment, 0, len(segments))
	for _, segment := range segments {
		segment.WorkMinutes = clampInt(segment.WorkMinutes, model.MinSegmentMinutes, model.MaxSegmentMinutes)
		segment.BreakMinutes = clampInt(segment.BreakMinutes, model.MinSegmentMinutes, model.MaxSegmentMinutes)
		segment.Repeat = clampInt(segment.Repeat, model.MinSegmentRepeat, model.MaxSegmentRepeat)
		if segment.WorkMinutes <= 0 || segment.BreakMinutes <= 0 {
			continue
		}
		sanitized = append(sanitized, segment)
	}
	return sanitized
}

func clampInt(value, lower, upper int) int {
	if value < lower {
		return lower
	}
	if value > upper {
		return upper
	}
	return value
}
