package storage

import (
	"context"
	"fmt"

	"resty/internal/core/model"
)

// AchievementListener receives achievements as they are unlocked.
type AchievementListener func(model.Achievement)

// OnAchievementUnlocked registers the listener called after each new unlock.
func (store *SessionStore) OnAchievementUnlocked(listener AchievementListener) {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.onUnlock = listener
}

// Achievements returns every unlocked achievement, oldest first.
func (store *SessionStore) Achievements(ctx context.Context) ([]model.Achievement, error) {
	rows, err := store.db.QueryContext(ctx,
		"SELECT id, unlocked_at_ms FROM achievements ORDER BY unlocked_at_ms, id")
	if err != nil {
		return nil, fmt.Errorf("query achievements: %w", err)
	}
	defer rows.Close()

	var achievements []model.Achievement
	for rows.Next() {
		var (
			id         string
			unlockedMs int64
		)
		if err := rows.Scan(&id, &unlockedMs); err != nil {
			return nil, fmt.Errorf("scan achievement: %w", err)
		}
		achievements = append(achievements, model.Achievement{
			ID:         model.AchievementID(id),
			UnlockedAt: fromMillis(unlockedMs),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate achievements: %w", err)
	}
	return achievements, nil
}

// UnlockAchievement records id if it is not unlocked yet. The bool reports
// whether this call unlocked it.
func (store *SessionStore) UnlockAchievement(ctx context.Context, id model.AchievementID) (model.Achievement, bool, error) {
	unlocked, err := store.unlockAll(ctx, []model.AchievementID{id})
	if err != nil {
		return model.Achievement{}, false, err
	}
	store.notify(unlocked)
	if len(unlocked) == 0 {
		return model.Achievement{}, false, nil
	}
	return unlocked[0], true, nil
}

// ReconcileAchievements unlocks everything the stored history and the
// autostart setting already qualify for, returning the new unlocks.
func (store *SessionStore) ReconcileAchievements(ctx context.Context, autostart bool) ([]model.Achievement, error) {
	var ids []model.AchievementID
	if autostart {
		ids = append(ids, model.AchievementEnableAutostart)
	}

	for _, check := range []struct {
		sessionType model.SessionType
		first       model.AchievementID
		milestones  []model.HourMilestone
	}{
		{model.SessionWork, model.AchievementFirstWork, model.WorkHourMilestones},
		{model.SessionBreak, model.AchievementFirstBreak, model.BreakHourMilestones},
	} {
		completed, err := store.hasCompleted(ctx, check.sessionType)
		if err != nil {
			return nil, err
		}
		if completed {
			ids = append(ids, check.first)
		}
		reached, err := store.reachedMilestones(ctx, check.sessionType, check.milestones)
		if err != nil {
			return nil, err
		}
		ids = append(ids, reached...)
	}

	unlocked, err := store.unlockAll(ctx, ids)
	if err != nil {
		return nil, err
	}
	store.notify(unlocked)
	return unlocked, nil
}

func (store *SessionStore) checkSessionAchievements(ctx context.Context, session model.Session) ([]model.Achievement, error) {
	var (
		ids        []model.AchievementID
		milestones []model.HourMilestone
	)
	completed := !session.IsSkipped && session.DurationSeconds > 0
	switch session.Type {
	case model.SessionWork:
		if completed {
			ids = append(ids, model.AchievementFirstWork)
		}
		milestones = model.WorkHourMilestones
	case model.SessionBreak:
		if completed {
			ids = append(ids, model.AchievementFirstBreak)
		}
		milestones = model.BreakHourMilestones
	}

	reached, err := store.reachedMilestones(ctx, session.Type, milestones)
	if err != nil {
		return nil, err
	}
	return store.unlockAll(ctx, append(ids, reached...))
}

func (store *SessionStore) hasCompleted(ctx context.Context, sessionType model.SessionType) (bool, error) {
	var found bool
	err := store.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM sessions
		 WHERE session_type = ? AND is_skipped = 0 AND duration_seconds > 0)`,
		string(sessionType),
	).Scan(&found)
	if err != nil {
		return false, fmt.Errorf("query completed %s sessions: %w", sessionType, err)
	}
	return found, nil
}

// totalSeconds sums recorded durations, falling back to the wall-clock span
// for rows without one.
func (store *SessionStore) totalSeconds(ctx context.Context, sessionType model.SessionType) (int64, error) {
	var total int64
	err := store.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(CASE WHEN duration_seconds > 0 THEN duration_seconds
		 ELSE MAX((end_ms - start_ms) / 1000, 0) END), 0)
		 FROM sessions WHERE session_type = ?`,
		string(sessionType),
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum %s seconds: %w", sessionType, err)
	}
	return total, nil
}

func (store *SessionStore) reachedMilestones(ctx context.Context, sessionType model.SessionType, milestones []model.HourMilestone) ([]model.AchievementID, error) {
	if len(milestones) == 0 {
		return nil, nil
	}
	total, err := store.totalSeconds(ctx, sessionType)
	if err != nil {
		return nil, err
	}
	var reached []model.AchievementID
	for _, milestone := range milestones {
		if total >= milestone.Seconds() {
			reached = append(reached, milestone.ID)
		}
	}
	return reached, nil
}

func (store *SessionStore) unlockAll(ctx context.Context, ids []model.AchievementID) ([]model.Achievement, error) {
	var unlocked []model.Achievement
	for _, id := range ids {
		at := store.now()
		result, err := store.db.ExecContext(ctx,
			"INSERT OR IGNORE INTO achievements (id, unlocked_at_ms) VALUES (?, ?)",
			string(id), toMillis(at))
		if err != nil {
			return unlocked, fmt.Errorf("unlock %s: %w", id, err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return unlocked, fmt.Errorf("unlock %s: %w", id, err)
		}
		if affected == 0 {
			continue
		}
		achievement := model.Achievement{ID: id, UnlockedAt: fromMillis(toMillis(at))}
		store.logger.Info("achievement unlocked", "achievement", string(id))
		unlocked = append(unlocked, achievement)
	}
	return unlocked, nil
}

func (store *SessionStore) notify(unlocked []model.Achievement) {
	if len(unlocked) == 0 {
		return
	}
	store.mu.Lock()
	listener := store.onUnlock
	store.mu.Unlock()
	if listener == nil {
		return
	}
	for _, achievement := range unlocked {
		listener(achievement)
	}
}
