package video

import (
	"context"
	"fmt"

	"video-trimmer/domain/video"
)

// OutputVerifier re-probes a produced file and measures its drift from the
// requested duration
type OutputVerifier struct {
	checker   video.FileChecker
	prober    video.DurationProber
	tolerance float64
}

// NewOutputVerifier creates a verifier. A non-positive tolerance selects
// video.DefaultDriftTolerance.
func NewOutputVerifier(checker video.FileChecker, prober video.DurationProber, tolerance float64) *OutputVerifier {
	if tolerance <= 0 {
		tolerance = video.DefaultDriftTolerance
	}
	return &OutputVerifier{
		checker:   checker,
		prober:    prober,
		tolerance: tolerance,
	}
}

// Verify checks that outputPath exists and reports its size, duration and any
// drift warning. A missing file is fatal whatever ffmpeg reported.
func (v *OutputVerifier) Verify(ctx context.Context, outputPath string, requested float64, mode video.Mode) (*video.TrimResult, *video.DriftWarning, error) {
	if !v.checker.Exists(outputPath) {
		return nil, nil, fmt.Errorf("%w: %s", video.ErrOutputMissing, outputPath)
	}

	size, err := v.checker.Size(outputPath)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s: %v", video.ErrOutputMissing, outputPath, err)
	}

	info, err := v.prober.Probe(ctx, outputPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to verify output: %w", err)
	}

	result := &video.TrimResult{
		OutputPath:               outputPath,
		OutputSizeBytes:          size,
		OutputDurationSeconds:    info.DurationSeconds,
		RequestedDurationSeconds: requested,
	}

	return result, video.CheckDrift(result, v.tolerance, mode), nil
}
