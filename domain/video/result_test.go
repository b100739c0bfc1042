package video

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckDrift(t *testing.T) {
	tests := []struct {
		name           string
		actual         float64
		mode           Mode
		wantWarning    bool
		wantSuggestion bool
	}{
		{name: "small drift accurate", actual: 30.2, mode: ModeAccurate},
		{name: "small drift fast", actual: 30.2, mode: ModeFast},
		{name: "drift at tolerance", actual: 31.0, mode: ModeFast},
		{name: "large drift accurate", actual: 32, mode: ModeAccurate, wantWarning: true},
		{name: "large drift fast", actual: 32, mode: ModeFast, wantWarning: true, wantSuggestion: true},
		{name: "short output fast", actual: 27.5, mode: ModeFast, wantWarning: true, wantSuggestion: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := &TrimResult{OutputDurationSeconds: tt.actual, RequestedDurationSeconds: 30}

			w := CheckDrift(result, DefaultDriftTolerance, tt.mode)
			if !tt.wantWarning {
				assert.Nil(t, w)
				return
			}
			require.NotNil(t, w)
			assert.InDelta(t, result.Drift(), w.Drift, 1e-9)
			assert.Equal(t, tt.wantSuggestion, w.Suggestion != "")
		})
	}
}

func TestTrimResult_SizeMB(t *testing.T) {
	r := &TrimResult{OutputSizeBytes: 3 * 1024 * 1024}
	assert.Equal(t, 3.0, r.SizeMB())
}

func TestDriftWarning_String(t *testing.T) {
	w := &DriftWarning{Drift: 2, Tolerance: 1, Suggestion: "use --accurate for a frame-accurate cut"}
	assert.Contains(t, w.String(), "2.00s")
	assert.Contains(t, w.String(), "--accurate")
}

func TestStage_String(t *testing.T) {
	assert.Equal(t, "range_validated", StageRangeValidated.String())
	assert.True(t, StageDone.Terminal())
	assert.True(t, StageFailed.Terminal())
	assert.False(t, StageTrimming.Terminal())
}
