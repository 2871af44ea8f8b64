package reminder

import (
	"fmt"
	"image/color"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// Config defines reminder visuals and behavior.
type Config struct {
	Fullscreen bool
	// ForceBreak disables the skip button.
	ForceBreak bool
}

// Callbacks defines reminder action handlers.
type Callbacks struct {
	OnSkip   func()
	OnExtend func(minutes int)
}

// Window is the break reminder shown when a break starts.
type Window struct {
	window       fyne.Window
	config       Config
	callbacks    Callbacks
	background   *canvas.Rectangle
	titleLabel   *canvas.Text
	nextLabel    *canvas.Text
	timerLabel   *canvas.Text
	skipButton   *widget.Button
	extendButton *widget.Button
	visible      bool
}

const (
	extendMinutes     = 5
	floatingWidth     = float32(360)
	floatingHeight    = float32(220)
	backgroundAlpha   = uint8(235)
	timerTextSize     = float32(48)
	titleTextSize     = float32(24)
	secondaryTextSize = float32(14)
)

type splashWindowDriver interface {
	CreateSplashWindow() fyne.Window
}

// New creates a hidden reminder window.
func New(app fyne.App, config Config, callbacks Callbacks) *Window {
	window := app.NewWindow("RESTY")
	if driver, ok := app.Driver().(splashWindowDriver); ok {
		// Splash window is undecorated (no native frame/buttons).
		window = driver.CreateSplashWindow()
	}
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}
	window.SetPadded(false)

	white := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	background := canvas.NewRectangle(color.NRGBA{R: 18, G: 32, B: 28, A: backgroundAlpha})

	titleLabel := canvas.NewText("Time for a break", white)
	titleLabel.Alignment = fyne.TextAlignCenter
	titleLabel.TextStyle = fyne.TextStyle{Bold: true}
	titleLabel.TextSize = titleTextSize

	timerLabel := canvas.NewText("--:--", color.NRGBA{R: 134, G: 239, B: 172, A: 255})
	timerLabel.Alignment = fyne.TextAlignCenter
	timerLabel.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
	timerLabel.TextSize = timerTextSize

	nextLabel := canvas.NewText("", white)
	nextLabel.Alignment = fyne.TextAlignCenter
	nextLabel.TextSize = secondaryTextSize

	reminder := &Window{
		window:     window,
		config:     config,
		callbacks:  callbacks,
		background: background,
		titleLabel: titleLabel,
		nextLabel:  nextLabel,
		timerLabel: timerLabel,
	}

	reminder.skipButton = widget.NewButtonWithIcon("Skip", theme.MediaSkipNextIcon(), func() {
		if reminder.callbacks.OnSkip != nil {
			reminder.callbacks.OnSkip()
		}
	})
	reminder.extendButton = widget.NewButtonWithIcon(fmt.Sprintf("+%d min", extendMinutes), theme.ContentAddIcon(), func() {
		if reminder.callbacks.OnExtend != nil {
			reminder.callbacks.OnExtend(extendMinutes)
		}
	})

	buttons := container.NewHBox(layout.NewSpacer(), reminder.extendButton, reminder.skipButton, layout.NewSpacer())
	content := container.NewVBox(
		layout.NewSpacer(),
		titleLabel,
		timerLabel,
		nextLabel,
		buttons,
		layout.NewSpacer(),
	)
	window.SetContent(container.NewStack(background, container.NewPadded(content)))
	window.SetCloseIntercept(func() {
		reminder.Hide()
	})

	reminder.applyConfig()
	return reminder
}

// Show displays the reminder with the remaining break time.
func (reminder *Window) Show(remaining time.Duration) {
	reminder.SetRemaining(remaining)
	reminder.applyWindowMode()
	reminder.visible = true
	reminder.window.Show()
	reminder.window.RequestFocus()
}

// Hide closes the reminder.
func (reminder *Window) Hide() {
	if reminder.config.Fullscreen {
		reminder.window.SetFullScreen(false)
	}
	reminder.visible = false
	reminder.window.Hide()
}

// Visible reports whether the reminder is on screen.
func (reminder *Window) Visible() bool {
	return reminder.visible
}

// SetRemaining updates the countdown.
func (reminder *Window) SetRemaining(remaining time.Duration) {
	reminder.timerLabel.Text = FormatCountdown(remaining)
	reminder.timerLabel.Refresh()
}

// SetNextBreak shows when the following break is due, or clears the hint.
func (reminder *Window) SetNextBreak(next time.Time) {
	if next.IsZero() {
		reminder.nextLabel.Text = ""
	} else {
		reminder.nextLabel.Text = "Next break at " + next.Local().Format("15:04")
	}
	reminder.nextLabel.Refresh()
}

// UpdateConfig replaces reminder options.
func (reminder *Window) UpdateConfig(config Config) {
	reminder.config = config
	reminder.applyConfig()
	if reminder.visible {
		reminder.applyWindowMode()
	}
}

func (reminder *Window) applyConfig() {
	if reminder.config.ForceBreak {
		reminder.skipButton.Disable()
	} else {
		reminder.skipButton.Enable()
	}
}

func (reminder *Window) applyWindowMode() {
	if reminder.config.Fullscreen {
		reminder.window.SetFullScreen(true)
		return
	}
	reminder.window.SetFullScreen(false)

	width, height := floatingWidth, floatingHeight
	minSize := reminder.window.Content().MinSize()
	width = max(width, minSize.Width)
	height = max(height, minSize.Height)
	reminder.window.Resize(fyne.NewSize(width, height))
	reminder.window.CenterOnScreen()
}

// FormatCountdown renders a duration as MM:SS, rounding partial seconds up
// so the display reaches 00:00 only when the phase ends.
func FormatCountdown(value time.Duration) string {
	if value < 0 {
		value = 0
	}
	seconds := int((value + time.Second - 1) / time.Second)
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
