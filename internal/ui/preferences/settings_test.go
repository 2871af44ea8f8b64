package preferences

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resty/internal/core/model"
)

func TestDefaultSettingsAreValid(t *testing.T) {
	settings := DefaultSettings()

	require.NoError(t, settings.Validate())
	assert.Equal(t, 25, settings.WorkMinutes)
	assert.Equal(t, 5, settings.BreakMinutes)
	assert.False(t, settings.SegmentedEnabled)
	assert.Equal(t, model.DefaultWorkSegments(), settings.Segments)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr error
	}{
		{name: "zero work", mutate: func(s *Settings) { s.WorkMinutes = 0 }, wantErr: model.ErrInvalidDuration},
		{name: "long break", mutate: func(s *Settings) { s.BreakMinutes = 121 }, wantErr: model.ErrInvalidDuration},
		{name: "upper bound ok", mutate: func(s *Settings) { s.WorkMinutes = 120 }},
		{
			name: "empty segments",
			mutate: func(s *Settings) {
				s.SegmentedEnabled = true
				s.Segments = nil
			},
			wantErr: model.ErrInvalidWorkSegments,
		},
		{
			name: "segment length",
			mutate: func(s *Settings) {
				s.SegmentedEnabled = true
				s.Segments = []model.WorkSegment{{WorkMinutes: 200, BreakMinutes: 5, Repeat: 1}}
			},
			wantErr: model.ErrInvalidDuration,
		},
		{
			name: "segment repeat",
			mutate: func(s *Settings) {
				s.SegmentedEnabled = true
				s.Segments = []model.WorkSegment{{WorkMinutes: 20, BreakMinutes: 5, Repeat: 13}}
			},
			wantErr: model.ErrInvalidWorkSegments,
		},
		{
			name:   "bad segments ignored when disabled",
			mutate: func(s *Settings) { s.Segments = []model.WorkSegment{{Repeat: 0}} },
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			settings := DefaultSettings()
			test.mutate(&settings)

			err := settings.Validate()
			if test.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, test.wantErr)
		})
	}
}

func TestTimerConfigCopiesSegments(t *testing.T) {
	settings := DefaultSettings()
	settings.SegmentedEnabled = true
	settings.FlowMode = true

	config := settings.TimerConfig()
	config.Segments[0].WorkMinutes = 1

	assert.True(t, config.SegmentedEnabled)
	assert.True(t, config.FlowMode)
	assert.Equal(t, 50, settings.Segments[0].WorkMinutes)
}

func TestParseSegments(t *testing.T) {
	segments, err := ParseSegments(" 50/10x2, 25/5 ;15 / 3 X 4")

	require.NoError(t, err)
	assert.Equal(t, []model.WorkSegment{
		{WorkMinutes: 50, BreakMinutes: 10, Repeat: 2},
		{WorkMinutes: 25, BreakMinutes: 5, Repeat: 1},
		{WorkMinutes: 15, BreakMinutes: 3, Repeat: 4},
	}, segments)
}

func TestParseSegmentsErrors(t *testing.T) {
	for _, input := range []string{"", " , ", "50", "a/5", "50/b", "50/10xq"} {
		t.Run(input, func(t *testing.T) {
			_, err := ParseSegments(input)
			assert.ErrorIs(t, err, model.ErrInvalidWorkSegments)
		})
	}
}

func TestFormatSegmentsRoundTrips(t *testing.T) {
	text := FormatSegments(model.DefaultWorkSegments())
	assert.Equal(t, "50/10x2, 25/5x1", text)

	parsed, err := ParseSegments(text)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultWorkSegments(), parsed)
}
