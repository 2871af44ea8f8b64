package model

import "time"

// SessionType identifies the phase a session record belongs to.
type SessionType string

const (
	SessionWork  SessionType = "work"
	SessionBreak SessionType = "break"
)

// Session is a persisted snapshot of one work or break phase instance.
// A zero-duration placeholder is written when the phase starts and is
// replaced by the final record when the phase finishes or is skipped.
type Session struct {
	ID                     string      `json:"id"`
	Type                   SessionType `json:"type"`
	StartTime              time.Time   `json:"startTime"`
	EndTime                time.Time   `json:"endTime"`
	DurationSeconds        int64       `json:"duration"`
	PlannedDurationSeconds int64       `json:"plannedDuration"`
	IsSkipped              bool        `json:"isSkipped"`
	ExtendedSeconds        int64       `json:"extendedSeconds"`
	Notes                  *string     `json:"notes,omitempty"`
}

// Analytics aggregates the sessions overlapping a time range.
type Analytics struct {
	TotalWorkSeconds  int64
	TotalBreakSeconds int64
	BreakCount        int
	CompletedBreaks   int
	SkippedBreaks     int
	Sessions          []Session
}

// SessionBounds holds the earliest start and latest end over all sessions.
type SessionBounds struct {
	EarliestStart time.Time
	LatestEnd     time.Time
}
