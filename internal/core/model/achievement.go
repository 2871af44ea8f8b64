package model

import (
	"fmt"
	"time"
)

// AchievementID names an unlockable milestone.
type AchievementID string

const (
	AchievementFirstWork       AchievementID = "first_work"
	AchievementFirstBreak      AchievementID = "first_break"
	AchievementEnableAutostart AchievementID = "enable_autostart"
	AchievementWork10Hours     AchievementID = "work_10_hours"
	AchievementWork100Hours    AchievementID = "work_100_hours"
	AchievementWork500Hours    AchievementID = "work_500_hours"
	AchievementWork1000Hours   AchievementID = "work_1000_hours"
	AchievementBreak10Hours    AchievementID = "break_10_hours"
	AchievementBreak100Hours   AchievementID = "break_100_hours"
	AchievementBreak200Hours   AchievementID = "break_200_hours"
	AchievementBreak300Hours   AchievementID = "break_300_hours"
	AchievementBreak400Hours   AchievementID = "break_400_hours"
	AchievementBreak500Hours   AchievementID = "break_500_hours"
	AchievementBreak750Hours   AchievementID = "break_750_hours"
	AchievementBreak1000Hours  AchievementID = "break_1000_hours"
)

// Achievement is an unlocked milestone.
type Achievement struct {
	ID         AchievementID `json:"id"`
	UnlockedAt time.Time     `json:"unlockedAt"`
}

// HourMilestone unlocks ID once the accumulated time reaches Hours.
type HourMilestone struct {
	ID    AchievementID
	Hours int64
}

// Seconds returns the milestone threshold in seconds.
func (milestone HourMilestone) Seconds() int64 {
	return milestone.Hours * 3600
}

var (
	WorkHourMilestones = []HourMilestone{
		{ID: AchievementWork10Hours, Hours: 10},
		{ID: AchievementWork100Hours, Hours: 100},
		{ID: AchievementWork500Hours, Hours: 500},
		{ID: AchievementWork1000Hours, Hours: 1000},
	}
	BreakHourMilestones = []HourMilestone{
		{ID: AchievementBreak10Hours, Hours: 10},
		{ID: AchievementBreak100Hours, Hours: 100},
		{ID: AchievementBreak200Hours, Hours: 200},
		{ID: AchievementBreak300Hours, Hours: 300},
		{ID: AchievementBreak400Hours, Hours: 400},
		{ID: AchievementBreak500Hours, Hours: 500},
		{ID: AchievementBreak750Hours, Hours: 750},
		{ID: AchievementBreak1000Hours, Hours: 1000},
	}
)

// Title returns a human readable name for the achievement.
func (id AchievementID) Title() string {
	switch id {
	case AchievementFirstWork:
		return "First work session"
	case AchievementFirstBreak:
		return "First break"
	case AchievementEnableAutostart:
		return "Start at login"
	}
	for _, milestone := range WorkHourMilestones {
		if milestone.ID == id {
			return fmt.Sprintf("%d hours of work", milestone.Hours)
		}
	}
	for _, milestone := range BreakHourMilestones {
		if milestone.ID == id {
			return fmt.Sprintf("%d hours of rest", milestone.Hours)
		}
	}
	return string(id)
}
