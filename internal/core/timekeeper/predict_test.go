package timekeeper

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"resty/internal/core/model"
)

func TestNextBreakDuringWorkIsPhaseEnd(t *testing.T) {
	keeper, _, _ := newTestKeeper(t, flatConfig())
	keeper.StartWork()

	assert.Equal(t, testEpoch.Add(25*time.Minute), keeper.Info().NextBreak)
}

func TestNextBreakDuringBreakSkipsFollowingWork(t *testing.T) {
	keeper, _, _ := newTestKeeper(t, flatConfig())
	keeper.StartBreak()

	assert.Equal(t, testEpoch.Add(30*time.Minute), keeper.Info().NextBreak)
}

func TestNextBreakRoundsUpPastSuppression(t *testing.T) {
	keeper, _, _ := newTestKeeper(t, flatConfig())
	keeper.StartWork()
	keeper.SuppressBreaksForHours(1)

	// 25m + two more 25m work blocks is the first boundary after 60m.
	assert.Equal(t, testEpoch.Add(75*time.Minute), keeper.Info().NextBreak)
}

func TestNextBreakWalksSegmentsPastSuppression(t *testing.T) {
	keeper, _, _ := newTestKeeper(t, segmentedConfig(
		model.WorkSegment{WorkMinutes: 50, BreakMinutes: 10, Repeat: 2},
		model.WorkSegment{WorkMinutes: 25, BreakMinutes: 5, Repeat: 1},
	))
	keeper.StartWork()
	keeper.SuppressBreaksForHours(2)

	// 50 -> 50+10+50=110 -> 110+10+25=145.
	assert.Equal(t, testEpoch.Add(145*time.Minute), keeper.Info().NextBreak)
}

func TestNextBreakSegmentedBreakUsesNextWork(t *testing.T) {
	keeper, _, _ := newTestKeeper(t, segmentedConfig(
		model.WorkSegment{WorkMinutes: 50, BreakMinutes: 10, Repeat: 1},
		model.WorkSegment{WorkMinutes: 25, BreakMinutes: 5, Repeat: 1},
	))
	keeper.StartBreak()

	assert.Equal(t, testEpoch.Add(35*time.Minute), keeper.Info().NextBreak)
}

func TestNextBreakWhilePausedUsesRemaining(t *testing.T) {
	keeper, clock, _ := newTestKeeper(t, flatConfig())
	keeper.StartWork()
	clock.Advance(5 * time.Minute)
	keeper.Pause()
	clock.Advance(time.Hour)

	assert.Equal(t, clock.Now().Add(20*time.Minute), keeper.Info().NextBreak)
}

func TestNextBreakAbsentWhenIdleOrFlow(t *testing.T) {
	keeper, _, _ := newTestKeeper(t, flatConfig())
	assert.True(t, keeper.Info().NextBreak.IsZero())

	keeper.StartWork()
	keeper.UpdateFlowMode(true)
	assert.True(t, keeper.Info().NextBreak.IsZero())
}

func TestPredictNextBreakDoesNotMutateState(t *testing.T) {
	keeper, _, _ := newTestKeeper(t, segmentedConfig(
		model.WorkSegment{WorkMinutes: 10, BreakMinutes: 2, Repeat: 3},
	))
	keeper.StartWork()
	keeper.SuppressBreaksForHours(3)
	before := keeper.state

	_, ok := predictNextBreak(&keeper.state, testEpoch)

	assert.True(t, ok)
	assert.Equal(t, before.segmentIndex, keeper.state.segmentIndex)
	assert.Equal(t, before.segmentIteration, keeper.state.segmentIteration)
	assert.Equal(t, before.deadline, keeper.state.deadline)
}
