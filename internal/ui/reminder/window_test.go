package reminder

import (
	"testing"
	"time"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
)

func TestFormatCountdown(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{in: -time.Second, want: "00:00"},
		{in: 0, want: "00:00"},
		{in: 300 * time.Millisecond, want: "00:01"},
		{in: 59 * time.Second, want: "00:59"},
		{in: 5 * time.Minute, want: "05:00"},
		{in: 4*time.Minute + 59*time.Second + 10*time.Millisecond, want: "05:00"},
		{in: 125 * time.Minute, want: "125:00"},
	}
	for _, test := range tests {
		assert.Equal(t, test.want, FormatCountdown(test.in), "input %s", test.in)
	}
}

func TestReminderButtons(t *testing.T) {
	var skipped int
	var extended []int
	reminder := New(test.NewApp(), Config{}, Callbacks{
		OnSkip:   func() { skipped++ },
		OnExtend: func(minutes int) { extended = append(extended, minutes) },
	})

	reminder.Show(5 * time.Minute)
	assert.True(t, reminder.Visible())
	assert.Equal(t, "05:00", reminder.timerLabel.Text)

	test.Tap(reminder.skipButton)
	test.Tap(reminder.extendButton)
	assert.Equal(t, 1, skipped)
	assert.Equal(t, []int{5}, extended)

	reminder.UpdateConfig(Config{ForceBreak: true})
	assert.True(t, reminder.skipButton.Disabled())
	test.Tap(reminder.skipButton)
	assert.Equal(t, 1, skipped)

	reminder.Hide()
	assert.False(t, reminder.Visible())
}

func TestReminderNextBreakHint(t *testing.T) {
	reminder := New(test.NewApp(), Config{}, Callbacks{})

	reminder.SetNextBreak(time.Time{})
	assert.Empty(t, reminder.nextLabel.Text)

	reminder.SetNextBreak(time.Date(2026, time.October, 14, 10, 30, 0, 0, time.Local))
	assert.Equal(t, "Next break at 10:30", reminder.nextLabel.Text)
}
