package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"

	"resty/internal/core/model"
	"resty/internal/core/timekeeper"
	"resty/internal/platform"
	"resty/internal/storage"
	"resty/internal/ui/preferences"
	"resty/internal/ui/reminder"
	"resty/internal/ui/tray"
)

const historyTimeout = 3 * time.Second

// history is the part of the session store used by the tray.
type history interface {
	Analytics(ctx context.Context, from, to time.Time) (model.Analytics, error)
	ClearSessions(ctx context.Context) error
	Achievements(ctx context.Context) ([]model.Achievement, error)
	UnlockAchievement(ctx context.Context, id model.AchievementID) (model.Achievement, bool, error)
}

// controller binds the engine to the tray, reminder and preferences
// windows. Its methods run on the Fyne main goroutine.
type controller struct {
	fyneApp   fyne.App
	keeper    *timekeeper.TimeKeeper
	recorder  *timekeeper.SessionRecorder
	history   history
	settings  preferences.Settings
	autostart *platform.Autostart
	logger    *slog.Logger

	tray         *tray.Manager
	reminder     *reminder.Window
	prefs        *preferences.Window
	achievements []model.Achievement
}

func newController(
	fyneApp fyne.App,
	desktopApp desktop.App,
	keeper *timekeeper.TimeKeeper,
	recorder *timekeeper.SessionRecorder,
	sessions history,
	settings preferences.Settings,
	logger *slog.Logger,
) *controller {
	ctrl := &controller{
		fyneApp:  fyneApp,
		keeper:   keeper,
		recorder: recorder,
		history:  sessions,
		settings: settings,
		logger:   logger,
	}
	if execPath, err := os.Executable(); err == nil {
		ctrl.autostart = platform.NewAutostart(appName, execPath)
	}

	ctrl.reminder = reminder.New(fyneApp, reminderConfig(settings), reminder.Callbacks{
		OnSkip:   ctrl.skip,
		OnExtend: keeper.Extend,
	})
	ctrl.prefs = preferences.New(fyneApp, settings, ctrl.saveSettings)
	ctrl.tray = tray.New(desktopApp, tray.Callbacks{
		OnStartWork:       keeper.StartWork,
		OnStartBreak:      keeper.StartBreak,
		OnTogglePause:     ctrl.togglePause,
		OnSkip:            ctrl.skip,
		OnExtend:          keeper.Extend,
		OnSuppressHours:   keeper.SuppressBreaksForHours,
		OnSuppressMorning: keeper.SuppressBreaksUntilTomorrowMorning,
		OnToggleFlow:      ctrl.toggleFlowMode,
		OnClearHistory:    ctrl.clearHistory,
		OnImportSettings:  ctrl.importSettings,
		OnExportSettings:  ctrl.exportSettings,
		OnPreferences:     ctrl.prefs.Show,
		OnQuit:            fyneApp.Quit,
	})
	ctrl.loadAchievements()
	return ctrl
}

// forwardEvents moves engine events onto the UI goroutine until the
// channel is closed.
func (ctrl *controller) forwardEvents(events <-chan timekeeper.Event) {
	for event := range events {
		event := event
		fyne.Do(func() {
			ctrl.handleEvent(event)
		})
	}
}

func (ctrl *controller) handleEvent(event timekeeper.Event) {
	info := event.Info
	switch event.Type {
	case timekeeper.EventTimerUpdate:
		ctrl.tray.Update(info)
		if ctrl.reminder.Visible() && info.Phase == timekeeper.PhaseBreak {
			ctrl.reminder.SetRemaining(info.Remaining)
			ctrl.reminder.SetNextBreak(info.NextBreak)
		}
	case timekeeper.EventPhaseChange:
		ctrl.tray.Update(info)
		ctrl.refreshSummary()
		if event.Phase != timekeeper.PhaseBreak {
			ctrl.reminder.Hide()
		}
	case timekeeper.EventBreakReminder:
		ctrl.reminder.SetNextBreak(info.NextBreak)
		ctrl.reminder.Show(info.Remaining)
	case timekeeper.EventTimerFinished:
		ctrl.logger.Debug("phase finished", "phase", event.Phase)
	}
}

func (ctrl *controller) skip() {
	session, _, ok := ctrl.keeper.Skip()
	if ok {
		ctrl.recorder.Persist(session)
	}
}

// refreshSummary loads today's totals into the tray.
func (ctrl *controller) refreshSummary() {
	if ctrl.history == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), historyTimeout)
	defer cancel()

	now := time.Now()
	year, month, day := now.Date()
	midnight := time.Date(year, month, day, 0, 0, 0, 0, now.Location())
	analytics, err := ctrl.history.Analytics(ctx, midnight, now)
	if err != nil {
		ctrl.logger.Warn("load today's analytics", "error", err)
		return
	}
	ctrl.tray.SetSummary(analytics)
}

func (ctrl *controller) clearHistory() {
	if ctrl.history == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), historyTimeout)
	defer cancel()

	if err := ctrl.history.ClearSessions(ctx); err != nil {
		ctrl.logger.Error("clear session history", "error", err)
		return
	}
	ctrl.logger.Info("session history cleared")
	ctrl.tray.SetSummary(model.Analytics{})
}

func (ctrl *controller) loadAchievements() {
	if ctrl.history == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), historyTimeout)
	defer cancel()

	achievements, err := ctrl.history.Achievements(ctx)
	if err != nil {
		ctrl.logger.Warn("load achievements", "error", err)
		return
	}
	ctrl.achievements = achievements
	ctrl.tray.SetAchievements(achievements)
}

// achievementUnlocked lists and announces a new unlock.
func (ctrl *controller) achievementUnlocked(achievement model.Achievement) {
	for _, known := range ctrl.achievements {
		if known.ID == achievement.ID {
			return
		}
	}
	ctrl.achievements = append(ctrl.achievements, achievement)
	ctrl.tray.SetAchievements(ctrl.achievements)
	ctrl.fyneApp.SendNotification(fyne.NewNotification("Achievement unlocked", achievement.ID.Title()))
}

func (ctrl *controller) exportSettings() {
	ctrl.prefs.ShowExport(func(w io.Writer) error {
		return storage.ExportSettings(w, ctrl.settings)
	})
}

func (ctrl *controller) importSettings() {
	ctrl.prefs.ShowImport(func(r io.Reader) error {
		imported, err := storage.ImportSettings(r)
		if err != nil {
			return err
		}
		if err := ctrl.saveSettings(imported); err != nil {
			return err
		}
		ctrl.prefs.UpdateSettings(imported)
		ctrl.logger.Info("settings imported")
		return nil
	})
}

func (ctrl *controller) togglePause() {
	if ctrl.keeper.Info().State == timekeeper.StatePaused {
		ctrl.keeper.Resume()
		return
	}
	ctrl.keeper.Pause()
}

func (ctrl *controller) toggleFlowMode() {
	updated := ctrl.settings
	updated.FlowMode = !updated.FlowMode
	if err := ctrl.saveSettings(updated); err != nil {
		ctrl.logger.Error("toggle flow mode", "error", err)
		return
	}
	ctrl.prefs.UpdateSettings(updated)
}

func (ctrl *controller) saveSettings(updated preferences.Settings) error {
	if err := storage.SaveSettings(appName, updated); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	if updated.Autostart != ctrl.settings.Autostart && ctrl.autostart != nil {
		if err := ctrl.autostart.Apply(updated.Autostart); err != nil {
			ctrl.logger.Warn("update autostart", "error", err)
		}
	}
	if updated.Autostart && ctrl.history != nil {
		ctx, cancel := context.WithTimeout(context.Background(), historyTimeout)
		if _, _, err := ctrl.history.UnlockAchievement(ctx, model.AchievementEnableAutostart); err != nil {
			ctrl.logger.Warn("unlock autostart achievement", "error", err)
		}
		cancel()
	}

	ctrl.keeper.UpdateTimerConfiguration(updated.WorkMinutes, updated.BreakMinutes, updated.SegmentedEnabled, updated.Segments)
	ctrl.keeper.UpdateFlowMode(updated.FlowMode)
	ctrl.reminder.UpdateConfig(reminderConfig(updated))
	ctrl.settings = updated
	ctrl.logger.Info("settings saved",
		"work_minutes", updated.WorkMinutes,
		"break_minutes", updated.BreakMinutes,
		"segmented", updated.SegmentedEnabled,
		"flow_mode", updated.FlowMode,
	)
	return nil
}

func reminderConfig(settings preferences.Settings) reminder.Config {
	return reminder.Config{
		Fullscreen: settings.ReminderFullscreen,
		ForceBreak: settings.ForceBreak,
	}
}
