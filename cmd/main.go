package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"resty/internal/core/model"
	"resty/internal/core/timekeeper"
	"resty/internal/platform"
	"resty/internal/storage"
	"resty/internal/ui/preferences"
)

const appName = "RESTY"

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel()}))
	slog.SetDefault(logger)

	guard, err := platform.AcquireSingleInstance(appName)
	if err != nil {
		if errors.Is(err, platform.ErrAlreadyRunning) {
			if notifyErr := platform.NotifyRunning(appName); notifyErr != nil {
				logger.Warn("notify running instance", "error", notifyErr)
			}
			logger.Info("another instance is already running")
			return
		}
		logger.Error("single instance", "error", err)
		os.Exit(1)
	}
	defer func() {
		_ = guard.Release()
	}()

	settings, err := storage.LoadSettings(appName)
	if err != nil {
		logger.Warn("load settings, using defaults", "error", err)
	}

	var (
		sessions timekeeper.SessionStore
		past     history
	)
	store, err := openSessionStore(settings, logger)
	if err != nil {
		logger.Error("session history disabled", "error", err)
	} else {
		defer store.Close()
		sessions = store
		past = store
	}

	recorder := timekeeper.NewSessionRecorder(sessions, logger)
	keeper := timekeeper.New(settings.TimerConfig(), timekeeper.Config{
		Sessions: recorder,
		Logger:   logger,
	})
	defer keeper.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	go timekeeper.NewTicker(keeper, recorder, timekeeper.DefaultTickInterval).Run(ctx)
	go runPowerMonitor(ctx, keeper, logger)

	fyneApp := app.NewWithID("com.resty.app")
	fyneApp.SetIcon(theme.HistoryIcon())
	desktopApp, ok := fyneApp.(desktop.App)
	if !ok {
		logger.Error("system tray unsupported on this platform")
		return
	}

	trayWindow := fyneApp.NewWindow(appName)
	trayWindow.SetContent(widget.NewLabel("RESTY is running in the system tray."))
	trayWindow.SetCloseIntercept(func() {
		trayWindow.Hide()
	})
	trayWindow.Hide()
	desktopApp.SetSystemTrayWindow(trayWindow)
	desktopApp.SetSystemTrayIcon(theme.HistoryIcon())

	ctrl := newController(fyneApp, desktopApp, keeper, recorder, past, settings, logger)
	if store != nil {
		store.OnAchievementUnlocked(func(achievement model.Achievement) {
			fyne.Do(func() {
				ctrl.achievementUnlocked(achievement)
			})
		})
	}

	go func() {
		<-ctx.Done()
		fyne.Do(fyneApp.Quit)
	}()
	go guard.Serve(ctx, func() {
		fyne.Do(ctrl.prefs.Show)
	}, logger)
	go ctrl.forwardEvents(keeper.Subscribe(32))

	keeper.StartWork()
	logger.Info("resty started", "work_minutes", settings.WorkMinutes, "break_minutes", settings.BreakMinutes)
	fyneApp.Run()
}

func openSessionStore(settings preferences.Settings, logger *slog.Logger) (*storage.SessionStore, error) {
	path := settings.DatabasePath
	if path == "" {
		defaultPath, err := storage.DefaultSessionsPath(appName)
		if err != nil {
			return nil, err
		}
		path = defaultPath
	}

	store, err := storage.OpenSessionStore(path, logger)
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(context.Background()); err != nil {
		store.Close()
		return nil, err
	}
	if _, err := store.ReconcileAchievements(context.Background(), settings.Autostart); err != nil {
		logger.Warn("reconcile achievements", "error", err)
	}
	bounds, err := store.Bounds(context.Background())
	switch {
	case errors.Is(err, model.ErrNotFound):
		logger.Info("session store ready", "path", path, "sessions", 0)
	case err != nil:
		logger.Warn("read session bounds", "error", err)
	default:
		logger.Info("session store ready", "path", path,
			"since", bounds.EarliestStart.Local().Format(time.DateOnly),
			"last", bounds.LatestEnd.Local().Format(time.DateTime))
	}
	return store, nil
}

func runPowerMonitor(ctx context.Context, keeper *timekeeper.TimeKeeper, logger *slog.Logger) {
	err := platform.NewPowerMonitor(keeper, logger).Run(ctx)
	switch {
	case errors.Is(err, platform.ErrPowerMonitorUnsupported):
		logger.Info("power monitoring unavailable on this platform")
	case err != nil:
		logger.Warn("power monitor stopped", "error", err)
	}
}

func logLevel() slog.Level {
	switch strings.ToLower(os.Getenv("RESTY_LOG_LEVEL")) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
