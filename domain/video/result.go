package video

import (
	"fmt"
	"math"
)

// DefaultDriftTolerance is the output-duration drift, in seconds, above which
// a warning is raised
const DefaultDriftTolerance = 1.0

// TrimResult describes the produced file
type TrimResult struct {
	OutputPath               string
	OutputSizeBytes          int64
	OutputDurationSeconds    float64
	RequestedDurationSeconds float64
}

// Drift returns the absolute difference between actual and requested duration
func (r *TrimResult) Drift() float64 {
	return math.Abs(r.OutputDurationSeconds - r.RequestedDurationSeconds)
}

// SizeMB returns the output size in mebibytes
func (r *TrimResult) SizeMB() float64 {
	return float64(r.OutputSizeBytes) / (1024 * 1024)
}

// DriftWarning is the only non-fatal anomaly of a trim
type DriftWarning struct {
	Drift      float64
	Tolerance  float64
	Suggestion string // empty unless the trim ran in fast mode
}

func (w *DriftWarning) String() string {
	msg := fmt.Sprintf("output duration differs from the requested duration by %.2fs (tolerance %.2fs)", w.Drift, w.Tolerance)
	if w.Suggestion != "" {
		msg += "; " + w.Suggestion
	}
	return msg
}

// CheckDrift returns a warning when the result drifts beyond tolerance
func CheckDrift(result *TrimResult, tolerance float64, mode Mode) *DriftWarning {
	drift := result.Drift()
	if drift <= tolerance {
		return nil
	}

	w := &DriftWarning{Drift: drift, Tolerance: tolerance}
	if mode == ModeFast {
		w.Suggestion = "use --accurate for a frame-accurate cut"
	}
	return w
}
