package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"resty/internal/core/model"
)

const sessionsFileName = "sessions.db"

// SessionStore keeps session records and unlocked achievements in a SQLite
// database.
type SessionStore struct {
	db     *sql.DB
	logger *slog.Logger
	now    func() time.Time

	mu       sync.Mutex
	onUnlock AchievementListener
}

// OpenSessionStore opens (creating if needed) the database at path with WAL
// journaling. Call Migrate before use.
func OpenSessionStore(path string, logger *slog.Logger) (*SessionStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}
	if _, err := db.ExecContext(context.Background(), "PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	// A single connection serializes writers from the ticker and the UI.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &SessionStore{db: db, logger: logger, now: time.Now}, nil
}

// DefaultSessionsPath returns the database location under the user config dir.
func DefaultSessionsPath(appName string) (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, appName, sessionsFileName), nil
}

// Migrate applies pending schema migrations.
func (store *SessionStore) Migrate(ctx context.Context) error {
	return runMigrations(ctx, store.db, store.logger)
}

// Close releases the database.
func (store *SessionStore) Close() error {
	return store.db.Close()
}

// SaveOrUpdateSession inserts the session or replaces the row with the same
// ID, then unlocks any achievements the new history reaches.
func (store *SessionStore) SaveOrUpdateSession(ctx context.Context, session model.Session) error {
	if session.ID == "" {
		return fmt.Errorf("save session: empty id")
	}
	_, err := store.db.ExecContext(ctx,
		`INSERT INTO sessions (id, session_type, start_ms, end_ms, duration_seconds,
		 planned_duration_seconds, is_skipped, extended_seconds, notes)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		 session_type = excluded.session_type,
		 start_ms = excluded.start_ms,
		 end_ms = excluded.end_ms,
		 duration_seconds = excluded.duration_seconds,
		 planned_duration_seconds = excluded.planned_duration_seconds,
		 is_skipped = excluded.is_skipped,
		 extended_seconds = excluded.extended_seconds,
		 notes = excluded.notes`,
		session.ID, string(session.Type),
		toMillis(session.StartTime), toMillis(session.EndTime),
		session.DurationSeconds, session.PlannedDurationSeconds,
		session.IsSkipped, session.ExtendedSeconds, nullableString(session.Notes),
	)
	if err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}

	unlocked, err := store.checkSessionAchievements(ctx, session)
	if err != nil {
		return fmt.Errorf("check achievements: %w", err)
	}
	store.notify(unlocked)
	return nil
}

// GetSession returns the session with id or model.ErrNotFound.
func (store *SessionStore) GetSession(ctx context.Context, id string) (model.Session, error) {
	row := store.db.QueryRowContext(ctx,
		`SELECT id, session_type, start_ms, end_ms, duration_seconds,
		 planned_duration_seconds, is_skipped, extended_seconds, notes
		 FROM sessions WHERE id = ?`, id)
	session, err := scanSession(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Session{}, model.ErrNotFound
		}
		return model.Session{}, fmt.Errorf("get session: %w", err)
	}
	return session, nil
}

// Analytics aggregates the sessions overlapping [from, to].
func (store *SessionStore) Analytics(ctx context.Context, from, to time.Time) (model.Analytics, error) {
	rows, err := store.db.QueryContext(ctx,
		`SELECT id, session_type, start_ms, end_ms, duration_seconds,
		 planned_duration_seconds, is_skipped, extended_seconds, notes
		 FROM sessions
		 WHERE end_ms >= ? AND start_ms <= ?
		 ORDER BY start_ms`, toMillis(from), toMillis(to))
	if err != nil {
		return model.Analytics{}, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var analytics model.Analytics
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return model.Analytics{}, fmt.Errorf("scan session: %w", err)
		}
		switch session.Type {
		case model.SessionWork:
			analytics.TotalWorkSeconds += session.DurationSeconds
		case model.SessionBreak:
			analytics.TotalBreakSeconds += session.DurationSeconds
			analytics.BreakCount++
			if session.IsSkipped {
				analytics.SkippedBreaks++
			} else {
				analytics.CompletedBreaks++
			}
		}
		analytics.Sessions = append(analytics.Sessions, session)
	}
	if err := rows.Err(); err != nil {
		return model.Analytics{}, fmt.Errorf("iterate sessions: %w", err)
	}
	return analytics, nil
}

// Bounds returns the earliest start and latest end over all sessions, or
// model.ErrNotFound when there are none.
func (store *SessionStore) Bounds(ctx context.Context) (model.SessionBounds, error) {
	var earliest, latest sql.NullInt64
	err := store.db.QueryRowContext(ctx,
		"SELECT MIN(start_ms), MAX(end_ms) FROM sessions",
	).Scan(&earliest, &latest)
	if err != nil {
		return model.SessionBounds{}, fmt.Errorf("query bounds: %w", err)
	}
	if !earliest.Valid || !latest.Valid {
		return model.SessionBounds{}, model.ErrNotFound
	}
	return model.SessionBounds{
		EarliestStart: fromMillis(earliest.Int64),
		LatestEnd:     fromMillis(latest.Int64),
	}, nil
}

// ClearSessions deletes every session record. Unlocked achievements are kept.
func (store *SessionStore) ClearSessions(ctx context.Context) error {
	if _, err := store.db.ExecContext(ctx, "DELETE FROM sessions"); err != nil {
		return fmt.Errorf("clear sessions: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (model.Session, error) {
	var (
		session        model.Session
		sessionType    string
		startMs, endMs int64
		notes          sql.NullString
	)
	if err := row.Scan(&session.ID, &sessionType, &startMs, &endMs,
		&session.DurationSeconds, &session.PlannedDurationSeconds,
		&session.IsSkipped, &session.ExtendedSeconds, &notes); err != nil {
		return model.Session{}, err
	}
	session.Type = model.SessionType(sessionType)
	session.StartTime = fromMillis(startMs)
	session.EndTime = fromMillis(endMs)
	if notes.Valid {
		session.Notes = &notes.String
	}
	return session, nil
}

func nullableString(value *string) sql.NullString {
	if value == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *value, Valid: true}
}

func toMillis(value time.Time) int64 {
	return value.UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}
