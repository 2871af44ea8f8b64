package timekeeper

import (
	"sync"
	"testing"
	"time"

	"resty/internal/core/model"
)

var testEpoch = time.Date(2026, time.October, 14, 9, 0, 0, 0, time.UTC)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: testEpoch}
}

func (clock *fakeClock) Now() time.Time {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	return clock.now
}

func (clock *fakeClock) Advance(delta time.Duration) {
	clock.mu.Lock()
	clock.now = clock.now.Add(delta)
	clock.mu.Unlock()
}

type memorySink struct {
	mu       sync.Mutex
	sessions []model.Session
}

func (sink *memorySink) Persist(session model.Session) {
	sink.mu.Lock()
	sink.sessions = append(sink.sessions, session)
	sink.mu.Unlock()
}

func (sink *memorySink) all() []model.Session {
	sink.mu.Lock()
	defer sink.mu.Unlock()
	return append([]model.Session(nil), sink.sessions...)
}

func (sink *memorySink) skipped() []model.Session {
	var result []model.Session
	for _, session := range sink.all() {
		if session.IsSkipped {
			result = append(result, session)
		}
	}
	return result
}

func flatConfig() model.TimerConfig {
	return model.TimerConfig{WorkMinutes: 25, BreakMinutes: 5}
}

func segmentedConfig(segments ...model.WorkSegment) model.TimerConfig {
	return model.TimerConfig{
		WorkMinutes:      25,
		BreakMinutes:     5,
		SegmentedEnabled: true,
		Segments:         segments,
	}
}

func newTestKeeper(t *testing.T, config model.TimerConfig) (*TimeKeeper, *fakeClock, *memorySink) {
	t.Helper()
	clock := newFakeClock()
	sink := &memorySink{}
	keeper := New(config, Config{Clock: clock, Sessions: sink, Location: time.UTC})
	t.Cleanup(keeper.Close)
	return keeper, clock, sink
}

func drain(events <-chan Event) []Event {
	var drained []Event
	for {
		select {
		case event, ok := <-events:
			if !ok {
				return drained
			}
			drained = append(drained, event)
		default:
			return drained
		}
	}
}

func countType(events []Event, eventType EventType) int {
	count := 0
	for _, event := range events {
		if event.Type == eventType {
			count++
		}
	}
	return count
}
