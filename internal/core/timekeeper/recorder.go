package timekeeper

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"resty/internal/core/model"
)

const defaultPersistTimeout = 5 * time.Second

// SessionStore persists session records, inserting or replacing by ID.
type SessionStore interface {
	SaveOrUpdateSession(ctx context.Context, session model.Session) error
}

// SessionSink receives session records produced by the engine.
type SessionSink interface {
	Persist(session model.Session)
}

// SessionRecorder hands session snapshots to a SessionStore. Storage
// failures are logged and never reach the engine.
type SessionRecorder struct {
	store   SessionStore
	timeout time.Duration
	logger  *slog.Logger
}

// NewSessionRecorder creates a recorder writing to store.
func NewSessionRecorder(store SessionStore, logger *slog.Logger) *SessionRecorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionRecorder{
		store:   store,
		timeout: defaultPersistTimeout,
		logger:  logger,
	}
}

// Persist upserts the session.
func (recorder *SessionRecorder) Persist(session model.Session) {
	if recorder == nil || recorder.store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), recorder.timeout)
	defer cancel()

	if err := recorder.store.SaveOrUpdateSession(ctx, session); err != nil {
		recorder.logger.Error("persist session",
			"error", err,
			"session_id", session.ID,
			"type", session.Type,
		)
		return
	}
	recorder.logger.Debug("session persisted",
		"session_id", session.ID,
		"type", session.Type,
		"skipped", session.IsSkipped,
		"duration_seconds", session.DurationSeconds,
	)
}

// startPlaceholder builds the zero-duration record written when a phase starts.
func startPlaceholder(state *engineState) model.Session {
	return model.Session{
		ID:                     state.sessionIDOrNew(),
		Type:                   sessionTypeFor(state.phase),
		StartTime:              state.sessionStart,
		EndTime:                state.sessionStart,
		PlannedDurationSeconds: seconds(state.total),
	}
}

// finishedRecord builds the final record of the phase in progress.
func finishedRecord(state *engineState, now time.Time, skipped bool) model.Session {
	start := state.sessionStart
	if start.IsZero() || start.After(now) {
		start = now
	}
	return model.Session{
		ID:                     state.sessionIDOrNew(),
		Type:                   sessionTypeFor(state.phase),
		StartTime:              start,
		EndTime:                now,
		DurationSeconds:        seconds(now.Sub(start)),
		PlannedDurationSeconds: seconds(state.total),
		IsSkipped:              skipped,
		ExtendedSeconds:        seconds(state.extended),
	}
}

func (state *engineState) sessionIDOrNew() string {
	if state.sessionID != "" {
		return state.sessionID
	}
	return uuid.NewString()
}

func sessionTypeFor(phase Phase) model.SessionType {
	if phase == PhaseBreak {
		return model.SessionBreak
	}
	return model.SessionWork
}

func seconds(value time.Duration) int64 {
	return int64(value / time.Second)
}
