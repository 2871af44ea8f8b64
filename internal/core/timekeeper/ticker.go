package timekeeper

import (
	"context"
	"time"
)

// DefaultTickInterval is the cadence at which phase completion is checked.
const DefaultTickInterval = time.Second

// Ticker periodically drives TimeKeeper.Tick and forwards finished sessions.
// time.Ticker drops ticks for a slow receiver, so a stalled process resumes
// with one tick rather than a burst; Tick compares against an absolute
// deadline, so a late tick still detects completion.
type Ticker struct {
	keeper   *TimeKeeper
	sessions SessionSink
	interval time.Duration
}

// NewTicker creates a driver for keeper. A non-positive interval selects
// DefaultTickInterval.
func NewTicker(keeper *TimeKeeper, sessions SessionSink, interval time.Duration) *Ticker {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	return &Ticker{
		keeper:   keeper,
		sessions: sessions,
		interval: interval,
	}
}

// Run ticks until ctx is cancelled.
func (ticker *Ticker) Run(ctx context.Context) {
	timeTicker := time.NewTicker(ticker.interval)
	defer timeTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timeTicker.C:
			ticker.Step()
		}
	}
}

// Step performs a single tick.
func (ticker *Ticker) Step() {
	session, finished := ticker.keeper.Tick()
	if finished && ticker.sessions != nil {
		ticker.sessions.Persist(session)
	}
}
