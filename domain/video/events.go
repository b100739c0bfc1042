package video

// Stage is a step of a single trim invocation
type Stage int

const (
	StageIdle Stage = iota
	StageValidating
	StageTimeParsed
	StageProbed
	StageRangeValidated
	StageConfirming
	StageTrimming
	StageVerifying
	StageDone
	StageFailed
)

var stageNames = map[Stage]string{
	StageIdle:           "idle",
	StageValidating:     "validating",
	StageTimeParsed:     "time_parsed",
	StageProbed:         "probed",
	StageRangeValidated: "range_validated",
	StageConfirming:     "confirming",
	StageTrimming:       "trimming",
	StageVerifying:      "verifying",
	StageDone:           "done",
	StageFailed:         "failed",
}

func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return "unknown"
}

// Terminal reports whether no further transition can follow s
func (s Stage) Terminal() bool {
	return s == StageDone || s == StageFailed
}

// Event is emitted on every stage transition
type Event struct {
	Stage   Stage
	Message string
	Err     error // set only for StageFailed

	// Populated once known; zero before.
	Request *TrimRequest
	Media   *MediaInfo
	Plan    *TrimPlan
	Result  *TrimResult
	Warning *DriftWarning
}

// Observer receives stage events. It must not block.
type Observer func(Event)

// NopObserver discards events
func NopObserver(Event) {}
