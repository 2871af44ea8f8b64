package timekeeper

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTomorrowMorningUTC(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{
			name: "morning",
			now:  testEpoch,
			want: time.Date(2026, time.October, 15, 8, 0, 0, 0, time.UTC),
		},
		{
			name: "just before midnight",
			now:  time.Date(2026, time.October, 14, 23, 59, 0, 0, time.UTC),
			want: time.Date(2026, time.October, 15, 8, 0, 0, 0, time.UTC),
		},
		{
			name: "end of month",
			now:  time.Date(2026, time.October, 31, 6, 0, 0, 0, time.UTC),
			want: time.Date(2026, time.November, 1, 8, 0, 0, 0, time.UTC),
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.want, tomorrowMorning(test.now, time.UTC))
		})
	}
}

func TestTomorrowMorningAcrossDSTChange(t *testing.T) {
	newYork, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	now := time.Date(2026, time.October, 31, 12, 0, 0, 0, newYork)
	got := tomorrowMorning(now, newYork)

	// Clocks fall back overnight, so 08:00 EST is 13:00 UTC.
	assert.True(t, got.Equal(time.Date(2026, time.November, 1, 13, 0, 0, 0, time.UTC)), "got %s", got)
}

func TestLocalInstantsFoldAndGap(t *testing.T) {
	newYork, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	fold := localInstants(2026, time.November, 1, 1, newYork)
	require.Len(t, fold, 2)
	assert.True(t, fold[0].Equal(time.Date(2026, time.November, 1, 5, 0, 0, 0, time.UTC)))
	assert.True(t, fold[1].Equal(time.Date(2026, time.November, 1, 6, 0, 0, 0, time.UTC)))

	gap := localInstants(2026, time.March, 8, 2, newYork)
	assert.Empty(t, gap)

	regular := localInstants(2026, time.March, 9, 8, newYork)
	assert.Len(t, regular, 1)
}

func TestSuppressBreaksUntilTomorrowMorningUsesLocation(t *testing.T) {
	keeper, _, _ := newTestKeeper(t, flatConfig())
	keeper.StartWork()

	keeper.SuppressBreaksUntilTomorrowMorning()

	assert.Equal(t, time.Date(2026, time.October, 15, 8, 0, 0, 0, time.UTC), keeper.Info().SuppressedUntil)
}

func TestSuppressBreaksForHoursHasOneHourMinimum(t *testing.T) {
	keeper, clock, _ := newTestKeeper(t, flatConfig())

	keeper.SuppressBreaksForHours(0)
	assert.Equal(t, testEpoch.Add(time.Hour), keeper.Info().SuppressedUntil)

	clock.Advance(time.Hour)
	assert.True(t, keeper.Info().SuppressedUntil.IsZero(), "suppression ends exactly at its deadline")
}

func TestSuppressionReplacesEarlierWindow(t *testing.T) {
	keeper, _, _ := newTestKeeper(t, flatConfig())

	keeper.SuppressBreaksForHours(5)
	keeper.SuppressBreaksForHours(1)

	assert.Equal(t, testEpoch.Add(time.Hour), keeper.Info().SuppressedUntil)
}

func TestSuppressBreaksForHoursCapsAtOneYear(t *testing.T) {
	keeper, _, _ := newTestKeeper(t, flatConfig())

	keeper.SuppressBreaksForHours(3_000_000)

	info := keeper.Info()
	assert.Equal(t, testEpoch.Add(365*24*time.Hour), info.SuppressedUntil)
	assert.True(t, info.SuppressedUntil.After(testEpoch))
}
