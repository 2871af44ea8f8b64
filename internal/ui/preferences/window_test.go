package preferences

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resty/internal/core/model"
)

func TestWindowSavesEditedSettings(t *testing.T) {
	var saved []Settings
	prefs := New(test.NewApp(), DefaultSettings(), func(settings Settings) error {
		saved = append(saved, settings)
		return nil
	})
	assert.True(t, prefs.segments.Disabled())

	prefs.workMin.SetText("40")
	prefs.breakMin.SetText(" 8 ")
	prefs.segmented.SetChecked(true)
	prefs.segments.SetText("30/5x2")
	prefs.autostart.SetChecked(true)
	prefs.handleSave()

	require.Len(t, saved, 1)
	assert.Equal(t, 40, saved[0].WorkMinutes)
	assert.Equal(t, 8, saved[0].BreakMinutes)
	assert.True(t, saved[0].SegmentedEnabled)
	assert.True(t, saved[0].Autostart)
	assert.Equal(t, []model.WorkSegment{{WorkMinutes: 30, BreakMinutes: 5, Repeat: 2}}, saved[0].Segments)
	assert.Equal(t, saved[0], prefs.Settings())
	assert.False(t, prefs.errorLabel.Visible())
}

func TestWindowRejectsInvalidInput(t *testing.T) {
	var saved int
	prefs := New(test.NewApp(), DefaultSettings(), func(Settings) error {
		saved++
		return nil
	})

	prefs.workMin.SetText("abc")
	prefs.handleSave()
	assert.True(t, prefs.errorLabel.Visible())

	prefs.workMin.SetText("500")
	prefs.handleSave()
	assert.Contains(t, prefs.errorLabel.Text, model.ErrInvalidDuration.Error())

	assert.Zero(t, saved)
	assert.Equal(t, DefaultSettings(), prefs.Settings())
}

func TestWindowShowsSaveError(t *testing.T) {
	prefs := New(test.NewApp(), DefaultSettings(), func(Settings) error {
		return errors.New("disk full")
	})

	prefs.handleSave()

	assert.Equal(t, "disk full", prefs.errorLabel.Text)
	assert.Equal(t, DefaultSettings(), prefs.Settings())
}

type closingBuffer struct {
	bytes.Buffer
	closed bool
}

func (buf *closingBuffer) Close() error {
	buf.closed = true
	return nil
}

func TestWindowExportWritesAndCloses(t *testing.T) {
	prefs := New(test.NewApp(), DefaultSettings(), nil)
	file := &closingBuffer{}

	prefs.handleExport(file, nil, func(w io.Writer) error {
		_, err := io.WriteString(w, "work_minutes: 25\n")
		return err
	})

	assert.Equal(t, "work_minutes: 25\n", file.String())
	assert.True(t, file.closed)
	assert.False(t, prefs.errorLabel.Visible())
}

func TestWindowImportReportsErrors(t *testing.T) {
	prefs := New(test.NewApp(), DefaultSettings(), nil)

	prefs.handleImport(io.NopCloser(strings.NewReader("x")), nil, func(io.Reader) error {
		return model.ErrInvalidDuration
	})
	assert.Contains(t, prefs.errorLabel.Text, "import settings")

	var read string
	prefs.handleImport(io.NopCloser(strings.NewReader("break_minutes: 7")), nil, func(r io.Reader) error {
		data, err := io.ReadAll(r)
		read = string(data)
		return err
	})
	assert.Equal(t, "break_minutes: 7", read)
}

func TestWindowIgnoresCancelledDialogs(t *testing.T) {
	prefs := New(test.NewApp(), DefaultSettings(), nil)
	called := false

	prefs.handleExport(nil, nil, func(io.Writer) error { called = true; return nil })
	prefs.handleImport(nil, nil, func(io.Reader) error { called = true; return nil })

	assert.False(t, called)
	assert.False(t, prefs.errorLabel.Visible())
}
