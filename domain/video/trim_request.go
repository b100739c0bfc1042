package video

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Mode selects how the requested interval is cut out of the source
type Mode int

const (
	// ModeAccurate re-encodes the interval for frame-accurate boundaries
	ModeAccurate Mode = iota
	// ModeFast stream-copies the interval; the start may snap to a keyframe
	ModeFast
)

// String returns the lowercase mode name used in flags and logs
func (m Mode) String() string {
	switch m {
	case ModeAccurate:
		return "accurate"
	case ModeFast:
		return "fast"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// TrimRequest represents a request to trim a video
type TrimRequest struct {
	InputPath  string
	OutputPath string
	Start      Timestamp
	End        Timestamp
	Mode       Mode
}

// NewTrimRequest creates a validated TrimRequest. An empty outputPath is
// replaced by DefaultOutputPath(inputPath).
func NewTrimRequest(inputPath, outputPath string, start, end Timestamp, mode Mode) (*TrimRequest, error) {
	if outputPath == "" {
		outputPath = DefaultOutputPath(inputPath)
	}

	req := &TrimRequest{
		InputPath:  inputPath,
		OutputPath: outputPath,
		Start:      start,
		End:        end,
		Mode:       mode,
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}

	return req, nil
}

// Validate checks that the trim request is valid
func (r *TrimRequest) Validate() error {
	if r.InputPath == "" {
		return fmt.Errorf("input path is required")
	}
	if r.OutputPath == "" {
		return fmt.Errorf("output path is required")
	}

	if !r.End.After(r.Start) {
		return fmt.Errorf("%w: end time %s must be after start time %s", ErrInvalidRange, r.End, r.Start)
	}

	if r.Mode != ModeAccurate && r.Mode != ModeFast {
		return fmt.Errorf("unknown trim mode %s", r.Mode)
	}

	return nil
}

// Duration returns the requested length of the trimmed segment in seconds
func (r *TrimRequest) Duration() float64 {
	return r.End.Offset() - r.Start.Offset()
}

// DefaultOutputPath derives <input-without-extension>_trimmed<ext>
func DefaultOutputPath(inputPath string) string {
	ext := filepath.Ext(inputPath)
	return strings.TrimSuffix(inputPath, ext) + "_trimmed" + ext
}
