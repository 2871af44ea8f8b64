package preferences

import (
	"fmt"
	"strconv"
	"strings"

	"resty/internal/core/model"
)

// Settings defines editable user preferences.
type Settings struct {
	WorkMinutes  int
	BreakMinutes int
	FlowMode     bool

	SegmentedEnabled bool
	Segments         []model.WorkSegment

	// ForceBreak hides the skip button on the break reminder.
	ForceBreak         bool
	ReminderFullscreen bool

	Autostart bool

	// DatabasePath overrides the default sessions database location.
	DatabasePath string
}

// DefaultSettings returns default settings for RESTY.
func DefaultSettings() Settings {
	return Settings{
		WorkMinutes:        25,
		BreakMinutes:       5,
		Segments:           model.DefaultWorkSegments(),
		ReminderFullscreen: true,
	}
}

// Validate rejects values the timer would otherwise have to clamp.
func (settings Settings) Validate() error {
	if !validMinutes(settings.WorkMinutes) {
		return fmt.Errorf("work duration %d: %w", settings.WorkMinutes, model.ErrInvalidDuration)
	}
	if !validMinutes(settings.BreakMinutes) {
		return fmt.Errorf("break duration %d: %w", settings.BreakMinutes, model.ErrInvalidDuration)
	}
	if !settings.SegmentedEnabled {
		return nil
	}
	if len(settings.Segments) == 0 {
		return fmt.Errorf("segmented work needs at least one segment: %w", model.ErrInvalidWorkSegments)
	}
	for i, segment := range settings.Segments {
		if !validMinutes(segment.WorkMinutes) || !validMinutes(segment.BreakMinutes) {
			return fmt.Errorf("segment %d: %w", i+1, model.ErrInvalidDuration)
		}
		if segment.Repeat < model.MinSegmentRepeat || segment.Repeat > model.MaxSegmentRepeat {
			return fmt.Errorf("segment %d repeat %d: %w", i+1, segment.Repeat, model.ErrInvalidWorkSegments)
		}
	}
	return nil
}

// TimerConfig converts settings to the engine configuration.
func (settings Settings) TimerConfig() model.TimerConfig {
	return model.TimerConfig{
		WorkMinutes:      settings.WorkMinutes,
		BreakMinutes:     settings.BreakMinutes,
		FlowMode:         settings.FlowMode,
		SegmentedEnabled: settings.SegmentedEnabled,
		Segments:         append([]model.WorkSegment(nil), settings.Segments...),
	}
}

// ParseSegments reads the "50/10x2, 25/5" form: work/break minutes with an
// optional repeat count. Range checks are left to Validate.
func ParseSegments(text string) ([]model.WorkSegment, error) {
	var segments []model.WorkSegment
	for _, field := range strings.FieldsFunc(text, func(r rune) bool { return r == ',' || r == ';' || r == '\n' }) {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		segment, err := parseSegment(field)
		if err != nil {
			return nil, err
		}
		segments = append(segments, segment)
	}
	if len(segments) == 0 {
		return nil, fmt.Errorf("no segments in %q: %w", text, model.ErrInvalidWorkSegments)
	}
	return segments, nil
}

func parseSegment(field string) (model.WorkSegment, error) {
	lengths, repeatText, hasRepeat := strings.Cut(strings.ToLower(field), "x")
	workText, breakText, ok := strings.Cut(lengths, "/")
	if !ok {
		return model.WorkSegment{}, fmt.Errorf("segment %q: want work/break: %w", field, model.ErrInvalidWorkSegments)
	}

	segment := model.WorkSegment{Repeat: 1}
	var err error
	if segment.WorkMinutes, err = strconv.Atoi(strings.TrimSpace(workText)); err != nil {
		return model.WorkSegment{}, fmt.Errorf("segment %q work minutes: %w", field, model.ErrInvalidWorkSegments)
	}
	if segment.BreakMinutes, err = strconv.Atoi(strings.TrimSpace(breakText)); err != nil {
		return model.WorkSegment{}, fmt.Errorf("segment %q break minutes: %w", field, model.ErrInvalidWorkSegments)
	}
	if hasRepeat {
		if segment.Repeat, err = strconv.Atoi(strings.TrimSpace(repeatText)); err != nil {
			return model.WorkSegment{}, fmt.Errorf("segment %q repeat: %w", field, model.ErrInvalidWorkSegments)
		}
	}
	return segment, nil
}

// FormatSegments renders segments in the form accepted by ParseSegments.
func FormatSegments(segments []model.WorkSegment) string {
	parts := make([]string, 0, len(segments))
	for _, segment := range segments {
		parts = append(parts, fmt.Sprintf("%d/%dx%d", segment.WorkMinutes, segment.BreakMinutes, segment.Repeat))
	}
	return strings.Join(parts, ", ")
}

func validMinutes(value int) bool {
	return value >= model.MinSegmentMinutes && value <= model.MaxSegmentMinutes
}
