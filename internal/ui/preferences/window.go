package preferences

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// Window handles the preferences UI.
type Window struct {
	window     fyne.Window
	settings   Settings
	onSave     func(Settings) error
	workMin    *widget.Entry
	breakMin   *widget.Entry
	flowMode   *widget.Check
	segmented  *widget.Check
	segments   *widget.Entry
	forceBreak *widget.Check
	fullscreen *widget.Check
	autostart  *widget.Check
	errorLabel *widget.Label
}

// New creates a preferences window. onSave may reject the settings by
// returning an error, which is shown in the window.
func New(app fyne.App, settings Settings, onSave func(Settings) error) *Window {
	window := app.NewWindow("RESTY Settings")

	prefs := &Window{
		window:     window,
		onSave:     onSave,
		workMin:    widget.NewEntry(),
		breakMin:   widget.NewEntry(),
		flowMode:   widget.NewCheck("Flow mode (never interrupt work)", nil),
		segmented:  widget.NewCheck("Segmented work plan", nil),
		segments:   widget.NewEntry(),
		forceBreak: widget.NewCheck("Force breaks (hide skip)", nil),
		fullscreen: widget.NewCheck("Fullscreen reminder", nil),
		autostart:  widget.NewCheck("Start at login", nil),
		errorLabel: widget.NewLabel(""),
	}
	prefs.segments.SetPlaceHolder("50/10x2, 25/5x1")
	prefs.segmented.OnChanged = func(enabled bool) {
		if enabled {
			prefs.segments.Enable()
		} else {
			prefs.segments.Disable()
		}
	}
	prefs.errorLabel.Wrapping = fyne.TextWrapWord
	prefs.errorLabel.Hide()

	form := container.NewVBox(
		widget.NewLabelWithStyle("Timer", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(widget.NewLabel("Work for"), prefs.workMin, widget.NewLabel("min")),
		container.NewHBox(widget.NewLabel("Break for"), prefs.breakMin, widget.NewLabel("min")),
		prefs.flowMode,
		prefs.segmented,
		widget.NewLabel("Segments (work/break x repeat)"),
		prefs.segments,
		widget.NewLabelWithStyle("Reminder", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		prefs.forceBreak,
		prefs.fullscreen,
		widget.NewLabelWithStyle("System", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		prefs.autostart,
		prefs.errorLabel,
	)

	saveButton := widget.NewButton("Save", prefs.handleSave)
	cancelButton := widget.NewButton("Cancel", func() {
		prefs.UpdateSettings(prefs.settings)
		window.Hide()
	})
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), cancelButton)

	window.SetContent(container.NewBorder(nil, buttons, nil, nil, form))
	window.Resize(fyne.NewSize(420, 480))
	window.SetCloseIntercept(func() {
		window.Hide()
	})

	prefs.UpdateSettings(settings)
	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// UpdateSettings replaces window values.
func (prefs *Window) UpdateSettings(settings Settings) {
	prefs.settings = settings
	prefs.workMin.SetText(strconv.Itoa(settings.WorkMinutes))
	prefs.breakMin.SetText(strconv.Itoa(settings.BreakMinutes))
	prefs.flowMode.SetChecked(settings.FlowMode)
	prefs.segments.SetText(FormatSegments(settings.Segments))
	prefs.segmented.SetChecked(settings.SegmentedEnabled)
	prefs.segmented.OnChanged(settings.SegmentedEnabled)
	prefs.forceBreak.SetChecked(settings.ForceBreak)
	prefs.fullscreen.SetChecked(settings.ReminderFullscreen)
	prefs.autostart.SetChecked(settings.Autostart)
	prefs.showError(nil)
}

// ShowExport opens a save dialog and hands the chosen file to write.
func (prefs *Window) ShowExport(write func(io.Writer) error) {
	prefs.Show()
	save := dialog.NewFileSave(func(file fyne.URIWriteCloser, err error) {
		prefs.handleExport(file, err, write)
	}, prefs.window)
	save.SetFileName("resty-settings.yaml")
	save.Show()
}

// ShowImport opens a file dialog and hands the chosen file to read.
func (prefs *Window) ShowImport(read func(io.Reader) error) {
	prefs.Show()
	dialog.ShowFileOpen(func(file fyne.URIReadCloser, err error) {
		prefs.handleImport(file, err, read)
	}, prefs.window)
}

func (prefs *Window) handleExport(file io.WriteCloser, err error, write func(io.Writer) error) {
	if err == nil && file == nil {
		return
	}
	if err == nil {
		err = write(file)
		if closeErr := file.Close(); err == nil {
			err = closeErr
		}
	}
	if err != nil {
		prefs.showError(fmt.Errorf("export settings: %w", err))
	}
}

func (prefs *Window) handleImport(file io.ReadCloser, err error, read func(io.Reader) error) {
	if err == nil && file == nil {
		return
	}
	if err == nil {
		err = read(file)
		_ = file.Close()
	}
	if err != nil {
		prefs.showError(fmt.Errorf("import settings: %w", err))
	}
}

// Settings returns the last saved settings.
func (prefs *Window) Settings() Settings {
	return prefs.settings
}

func (prefs *Window) handleSave() {
	settings, err := prefs.collect()
	if err == nil {
		err = settings.Validate()
	}
	if err == nil && prefs.onSave != nil {
		err = prefs.onSave(settings)
	}
	if err != nil {
		prefs.showError(err)
		return
	}

	prefs.settings = settings
	prefs.showError(nil)
	prefs.window.Hide()
}

func (prefs *Window) collect() (Settings, error) {
	settings := prefs.settings

	workMinutes, err := parseMinutes("work", prefs.workMin.Text)
	if err != nil {
		return settings, err
	}
	breakMinutes, err := parseMinutes("break", prefs.breakMin.Text)
	if err != nil {
		return settings, err
	}
	settings.WorkMinutes = workMinutes
	settings.BreakMinutes = breakMinutes
	settings.FlowMode = prefs.flowMode.Checked
	settings.SegmentedEnabled = prefs.segmented.Checked
	settings.ForceBreak = prefs.forceBreak.Checked
	settings.ReminderFullscreen = prefs.fullscreen.Checked
	settings.Autostart = prefs.autostart.Checked

	if strings.TrimSpace(prefs.segments.Text) != "" || settings.SegmentedEnabled {
		segments, err := ParseSegments(prefs.segments.Text)
		if err != nil {
			return settings, err
		}
		settings.Segments = segments
	}
	return settings, nil
}

func (prefs *Window) showError(err error) {
	if err == nil {
		prefs.errorLabel.SetText("")
		prefs.errorLabel.Hide()
		return
	}
	prefs.errorLabel.SetText(err.Error())
	prefs.errorLabel.Show()
}

func parseMinutes(name, value string) (int, error) {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("%s minutes must be a number", name)
	}
	return parsed, nil
}
