package tray

import (
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"

	"resty/internal/core/model"
	"resty/internal/core/timekeeper"
)

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnStartWork       func()
	OnStartBreak      func()
	OnTogglePause     func()
	OnSkip            func()
	OnExtend          func(minutes int)
	OnSuppressHours   func(hours int)
	OnSuppressMorning func()
	OnToggleFlow      func()
	OnClearHistory    func()
	OnImportSettings  func()
	OnExportSettings  func()
	OnPreferences     func()
	OnQuit            func()
}

// Manager handles system tray state.
type Manager struct {
	app        desktop.App
	callbacks  Callbacks
	statusItem *fyne.MenuItem
	nextItem   *fyne.MenuItem
	pauseItem  *fyne.MenuItem
	skipItem   *fyne.MenuItem
	extendItem *fyne.MenuItem
	flowItem   *fyne.MenuItem
	todayItem  *fyne.MenuItem
	awardsItem *fyne.MenuItem
	menu       *fyne.Menu
}

// New creates a tray manager with the provided callbacks.
func New(app desktop.App, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:       app,
		callbacks: callbacks,
	}

	manager.statusItem = fyne.NewMenuItem("Idle", nil)
	manager.statusItem.Disabled = true
	manager.nextItem = fyne.NewMenuItem("No break scheduled", nil)
	manager.nextItem.Disabled = true
	manager.todayItem = fyne.NewMenuItem(SummaryLine(model.Analytics{}), nil)
	manager.todayItem.Disabled = true

	startWork := fyne.NewMenuItem("Start work", func() { call(manager.callbacks.OnStartWork) })
	startBreak := fyne.NewMenuItem("Take a break now", func() { call(manager.callbacks.OnStartBreak) })
	manager.pauseItem = fyne.NewMenuItem("Pause", func() { call(manager.callbacks.OnTogglePause) })
	manager.skipItem = fyne.NewMenuItem("Skip", func() { call(manager.callbacks.OnSkip) })
	manager.extendItem = fyne.NewMenuItem("Add 5 minutes", func() {
		if manager.callbacks.OnExtend != nil {
			manager.callbacks.OnExtend(5)
		}
	})

	suppress := fyne.NewMenuItem("Skip breaks for...", nil)
	suppress.ChildMenu = fyne.NewMenu("",
		manager.suppressFor(1),
		manager.suppressFor(2),
		fyne.NewMenuItem("Until tomorrow morning", func() { call(manager.callbacks.OnSuppressMorning) }),
	)

	manager.flowItem = fyne.NewMenuItem("Flow mode", func() { call(manager.callbacks.OnToggleFlow) })
	manager.awardsItem = fyne.NewMenuItem("Achievements", nil)
	manager.awardsItem.ChildMenu = fyne.NewMenu("")
	manager.setAchievementItems(nil)
	clearHistory := fyne.NewMenuItem("Clear history", func() { call(manager.callbacks.OnClearHistory) })
	importSettings := fyne.NewMenuItem("Import settings...", func() { call(manager.callbacks.OnImportSettings) })
	exportSettings := fyne.NewMenuItem("Export settings...", func() { call(manager.callbacks.OnExportSettings) })
	preferences := fyne.NewMenuItem("Preferences", func() { call(manager.callbacks.OnPreferences) })
	quit := fyne.NewMenuItem("Quit", func() { call(manager.callbacks.OnQuit) })
	quit.IsQuit = true

	manager.menu = fyne.NewMenu("RESTY",
		manager.statusItem,
		manager.nextItem,
		fyne.NewMenuItemSeparator(),
		startWork,
		startBreak,
		manager.pauseItem,
		manager.skipItem,
		manager.extendItem,
		fyne.NewMenuItemSeparator(),
		suppress,
		manager.flowItem,
		fyne.NewMenuItemSeparator(),
		manager.todayItem,
		manager.awardsItem,
		clearHistory,
		fyne.NewMenuItemSeparator(),
		importSettings,
		exportSettings,
		preferences,
		quit,
	)
	manager.Update(timekeeper.Info{Phase: timekeeper.PhaseIdle, State: timekeeper.StateStopped})
	return manager
}

// Update reflects a timer snapshot in the menu.
func (manager *Manager) Update(info timekeeper.Info) {
	manager.statusItem.Label = StatusLine(info)
	manager.nextItem.Label = NextBreakLine(info, time.Local)

	idle := info.Phase == timekeeper.PhaseIdle
	manager.skipItem.Disabled = idle
	manager.extendItem.Disabled = idle
	manager.pauseItem.Disabled = idle
	if info.State == timekeeper.StatePaused {
		manager.pauseItem.Label = "Resume"
	} else {
		manager.pauseItem.Label = "Pause"
	}
	if info.Phase == timekeeper.PhaseBreak {
		manager.skipItem.Label = "Skip break"
	} else {
		manager.skipItem.Label = "Skip to break"
	}
	manager.flowItem.Checked = info.FlowMode

	manager.refreshMenu()
}

// SetSummary shows today's totals.
func (manager *Manager) SetSummary(analytics model.Analytics) {
	manager.todayItem.Label = SummaryLine(analytics)
	manager.refreshMenu()
}

// SetAchievements lists the unlocked achievements.
func (manager *Manager) SetAchievements(achievements []model.Achievement) {
	manager.setAchievementItems(achievements)
	manager.refreshMenu()
}

func (manager *Manager) setAchievementItems(achievements []model.Achievement) {
	if len(achievements) == 0 {
		empty := fyne.NewMenuItem("None yet", nil)
		empty.Disabled = true
		manager.awardsItem.ChildMenu.Items = []*fyne.MenuItem{empty}
		return
	}
	items := make([]*fyne.MenuItem, 0, len(achievements))
	for _, achievement := range achievements {
		item := fyne.NewMenuItem(AchievementLine(achievement, time.Local), nil)
		item.Disabled = true
		items = append(items, item)
	}
	manager.awardsItem.ChildMenu.Items = items
}

func (manager *Manager) suppressFor(hours int) *fyne.MenuItem {
	label := "1 hour"
	if hours != 1 {
		label = fmt.Sprintf("%d hours", hours)
	}
	return fyne.NewMenuItem(label, func() {
		if manager.callbacks.OnSuppressHours != nil {
			manager.callbacks.OnSuppressHours(hours)
		}
	})
}

func (manager *Manager) refreshMenu() {
	if manager.app == nil {
		return
	}
	manager.app.SetSystemTrayMenu(manager.menu)
}

// StatusLine summarizes the current phase for the tray.
func StatusLine(info timekeeper.Info) string {
	if info.Phase == timekeeper.PhaseIdle {
		return "Idle"
	}
	phase := "Working"
	if info.Phase == timekeeper.PhaseBreak {
		phase = "On break"
	}
	status := fmt.Sprintf("%s: %s left", phase, formatRemaining(info.Remaining))
	if info.State == timekeeper.StatePaused {
		status += " (paused)"
	}
	return status
}

// NextBreakLine describes when the next break starts, in loc.
func NextBreakLine(info timekeeper.Info, loc *time.Location) string {
	switch {
	case info.FlowMode:
		return "Flow mode: breaks off"
	case info.NextBreak.IsZero():
		return "No break scheduled"
	case !info.SuppressedUntil.IsZero():
		return fmt.Sprintf("Breaks skipped until %s, next at %s",
			info.SuppressedUntil.In(loc).Format("15:04"),
			info.NextBreak.In(loc).Format("15:04"))
	default:
		return "Next break at " + info.NextBreak.In(loc).Format("15:04")
	}
}

// SummaryLine renders work time and break adherence.
func SummaryLine(analytics model.Analytics) string {
	work := time.Duration(analytics.TotalWorkSeconds) * time.Second
	return fmt.Sprintf("Today: %dh%02dm work, %d/%d breaks taken",
		int(work.Hours()), int(work.Minutes())%60,
		analytics.CompletedBreaks, analytics.BreakCount)
}

// AchievementLine renders an achievement with its unlock date in loc.
func AchievementLine(achievement model.Achievement, loc *time.Location) string {
	return fmt.Sprintf("%s (%s)", achievement.ID.Title(), achievement.UnlockedAt.In(loc).Format(time.DateOnly))
}

func formatRemaining(remaining time.Duration) string {
	if remaining < 0 {
		remaining = 0
	}
	seconds := int(remaining.Seconds())
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

func call(action func()) {
	if action != nil {
		action()
	}
}
