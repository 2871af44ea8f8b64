package model

// WorkSegment is one entry of a segmented work plan: a work length, the
// break that follows it and how many times the pair repeats before the
// plan moves on.
type WorkSegment struct {
	WorkMinutes  int `yaml:"work_minutes" json:"workMinutes"`
	BreakMinutes int `yaml:"break_minutes" json:"breakMinutes"`
	Repeat       int `yaml:"repeat" json:"repeat"`
}

// Segment limits. Values outside these ranges are clamped by the engine.
const (
	MinSegmentMinutes = 1
	MaxSegmentMinutes = 120
	MinSegmentRepeat  = 1
	MaxSegmentRepeat  = 12
)

// TimerConfig contains runtime settings for the TimeKeeper state machine.
type TimerConfig struct {
	WorkMinutes  int
	BreakMinutes int
	FlowMode     bool

	SegmentedEnabled bool
	Segments         []WorkSegment
}

// DefaultWorkSegments returns the plan offered when segmentation is first enabled.
func DefaultWorkSegments() []WorkSegment {
	return []WorkSegment{
		{WorkMinutes: 50, BreakMinutes: 10, Repeat: 2},
		{WorkMinutes: 25, BreakMinutes: 5, Repeat: 1},
	}
}
