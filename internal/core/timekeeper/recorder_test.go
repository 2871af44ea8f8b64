package timekeeper

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resty/internal/core/model"
)

type stubStore struct {
	mu          sync.Mutex
	sessions    []model.Session
	err         error
	hadDeadline bool
}

func (store *stubStore) SaveOrUpdateSession(ctx context.Context, session model.Session) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	_, store.hadDeadline = ctx.Deadline()
	if store.err != nil {
		return store.err
	}
	store.sessions = append(store.sessions, session)
	return nil
}

func TestSessionRecorderPersists(t *testing.T) {
	store := &stubStore{}
	recorder := NewSessionRecorder(store, nil)

	recorder.Persist(model.Session{ID: "a", Type: model.SessionWork})

	require.Len(t, store.sessions, 1)
	assert.Equal(t, "a", store.sessions[0].ID)
	assert.True(t, store.hadDeadline)
}

func TestSessionRecorderLogsStoreErrors(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	store := &stubStore{err: errors.New("disk full")}
	recorder := NewSessionRecorder(store, logger)

	recorder.Persist(model.Session{ID: "b", Type: model.SessionBreak})

	assert.Contains(t, buf.String(), "persist session")
	assert.Contains(t, buf.String(), "disk full")
	assert.Contains(t, buf.String(), "session_id=b")
}

func TestSessionRecorderNilIsNoop(t *testing.T) {
	var recorder *SessionRecorder
	assert.NotPanics(t, func() { recorder.Persist(model.Session{ID: "c"}) })
	assert.NotPanics(t, func() { NewSessionRecorder(nil, nil).Persist(model.Session{ID: "d"}) })
}

func TestFinishedRecordKeepsPhaseIdentity(t *testing.T) {
	start := testEpoch
	state := &engineState{
		phase:        PhaseBreak,
		total:        7 * time.Minute,
		extended:     2 * time.Minute,
		sessionID:    "fixed",
		sessionStart: start,
	}

	record := finishedRecord(state, start.Add(90*time.Second), true)

	assert.Equal(t, "fixed", record.ID)
	assert.Equal(t, model.SessionBreak, record.Type)
	assert.Equal(t, int64(90), record.DurationSeconds)
	assert.Equal(t, int64(420), record.PlannedDurationSeconds)
	assert.Equal(t, int64(120), record.ExtendedSeconds)
	assert.True(t, record.IsSkipped)
}

func TestFinishedRecordClampsFutureStart(t *testing.T) {
	state := &engineState{phase: PhaseWork, sessionStart: testEpoch.Add(time.Hour)}

	record := finishedRecord(state, testEpoch, false)

	assert.Zero(t, record.DurationSeconds)
	assert.Equal(t, testEpoch, record.StartTime)
	assert.NotEmpty(t, record.ID)
}

func TestPlaceholderAndFinalShareID(t *testing.T) {
	keeper, clock, sink := newTestKeeper(t, flatConfig())
	keeper.StartBreak()
	clock.Advance(5 * time.Minute)

	final, finished := keeper.Tick()

	require.True(t, finished)
	placeholders := sink.all()
	require.Len(t, placeholders, 2, "break placeholder plus the next work placeholder")
	assert.Equal(t, placeholders[0].ID, final.ID)
	assert.NotEqual(t, placeholders[1].ID, final.ID)
	assert.Equal(t, model.SessionWork, placeholders[1].Type)
}
