package timekeeper

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resty/internal/core/model"
)

func TestSegmentPlanAdvanceWalksRing(t *testing.T) {
	plan := newSegmentPlan(25, 5, true, []model.WorkSegment{
		{WorkMinutes: 50, BreakMinutes: 10, Repeat: 2},
		{WorkMinutes: 25, BreakMinutes: 5, Repeat: 1},
	})

	type cursor struct{ index, iteration int }
	got := []cursor{{0, 0}}
	index, iteration := 0, 0
	for i := 0; i < 3; i++ {
		index, iteration = plan.advance(index, iteration)
		got = append(got, cursor{index, iteration})
	}

	assert.Equal(t, []cursor{{0, 0}, {0, 1}, {1, 0}, {0, 0}}, got)
}

func TestSegmentPlanAdvanceAlwaysValid(t *testing.T) {
	plan := newSegmentPlan(25, 5, true, []model.WorkSegment{
		{WorkMinutes: 10, BreakMinutes: 2, Repeat: 3},
		{WorkMinutes: 20, BreakMinutes: 4, Repeat: 1},
		{WorkMinutes: 30, BreakMinutes: 6, Repeat: 2},
	})

	index, iteration := 0, 0
	for i := 0; i < 60; i++ {
		index, iteration = plan.advance(index, iteration)
		require.True(t, plan.validCursor(index, iteration), "cursor (%d, %d)", index, iteration)
	}
	// 60 steps over a 6-step ring lands back at the start.
	assert.Equal(t, 0, index)
	assert.Equal(t, 0, iteration)
}

func TestSegmentPlanWithoutSegmentsUsesBase(t *testing.T) {
	tests := []struct {
		name     string
		enabled  bool
		segments []model.WorkSegment
	}{
		{name: "disabled", enabled: false, segments: model.DefaultWorkSegments()},
		{name: "empty", enabled: true, segments: nil},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			plan := newSegmentPlan(30, 7, test.enabled, test.segments)

			assert.False(t, plan.hasSegments())
			work, brk := plan.durationsFor(3)
			assert.Equal(t, 30*time.Minute, work)
			assert.Equal(t, 7*time.Minute, brk)
			index, iteration := plan.advance(2, 1)
			assert.Zero(t, index)
			assert.Zero(t, iteration)
			assert.True(t, plan.validCursor(0, 0))
			assert.False(t, plan.validCursor(0, 1))
		})
	}
}

func TestSegmentPlanBaseDurationsAtLeastOneMinute(t *testing.T) {
	plan := newSegmentPlan(0, -4, false, nil)
	work, brk := plan.durationsFor(0)
	assert.Equal(t, time.Minute, work)
	assert.Equal(t, time.Minute, brk)
}

func TestSegmentPlanDurationsNormalizeIndex(t *testing.T) {
	plan := newSegmentPlan(25, 5, true, []model.WorkSegment{
		{WorkMinutes: 50, BreakMinutes: 10, Repeat: 1},
		{WorkMinutes: 15, BreakMinutes: 3, Repeat: 1},
	})

	assert.Equal(t, 15*time.Minute, plan.workFor(9))
	assert.Equal(t, 10*time.Minute, plan.breakFor(-1))
}

func TestSegmentPlanValidCursor(t *testing.T) {
	plan := newSegmentPlan(25, 5, true, []model.WorkSegment{
		{WorkMinutes: 50, BreakMinutes: 10, Repeat: 2},
	})

	assert.True(t, plan.validCursor(0, 1))
	assert.False(t, plan.validCursor(0, 2))
	assert.False(t, plan.validCursor(1, 0))
	assert.False(t, plan.validCursor(-1, 0))
	assert.False(t, plan.validCursor(0, -1))
}

func TestSanitizeSegmentsClampsRanges(t *testing.T) {
	sanitized := SanitizeSegments([]model.WorkSegment{
		{WorkMinutes: 0, BreakMinutes: 500, Repeat: 0},
		{WorkMinutes: 45, BreakMinutes: 15, Repeat: 40},
	})

	assert.Equal(t, []model.WorkSegment{
		{WorkMinutes: 1, BreakMinutes: 120, Repeat: 1},
		{WorkMinutes: 45, BreakMinutes: 15, Repeat: 12},
	}, sanitized)
}

func TestSanitizeSegmentsDoesNotAliasInput(t *testing.T) {
	input := []model.WorkSegment{{WorkMinutes: 200, BreakMinutes: 5, Repeat: 1}}
	SanitizeSegments(input)
	assert.Equal(t, 200, input[0].WorkMinutes)
}
