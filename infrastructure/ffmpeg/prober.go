package ffmpeg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"video-trimmer/domain/video"

	"github.com/rs/zerolog"
)

// probeOutput matches the subset of ffprobe's JSON output that is used
type probeOutput struct {
	Streams []struct {
		Index     int    `json:"index"`
		CodecType string `json:"codec_type"`
		CodecName string `json:"codec_name"`
		Width     int    `json:"width,omitempty"`
		Height    int    `json:"height,omitempty"`
	} `json:"streams"`
	Format struct {
		Filename string `json:"filename"`
		Duration string `json:"duration"`
	} `json:"format"`
}

// Prober implements video.DurationProber using ffprobe
type Prober struct {
	ffprobePath string
	runner      CommandRunner
	timeout     time.Duration
	logger      zerolog.Logger
}

// ProberOption is a functional option for configuring Prober
type ProberOption func(*Prober)

// WithFFprobePath sets a custom ffprobe executable path
func WithFFprobePath(path string) ProberOption {
	return func(p *Prober) {
		if path != "" {
			p.ffprobePath = path
		}
	}
}

// WithProberCommandRunner sets a custom command runner (for testing)
func WithProberCommandRunner(runner CommandRunner) ProberOption {
	return func(p *Prober) {
		p.runner = runner
	}
}

// WithProbeTimeout bounds a single ffprobe run. Zero means no limit.
func WithProbeTimeout(d time.Duration) ProberOption {
	return func(p *Prober) {
		p.timeout = d
	}
}

// WithProberLogger sets the logger used for command tracing
func WithProberLogger(logger zerolog.Logger) ProberOption {
	return func(p *Prober) {
		p.logger = logger.With().Str("component", "ffprobe").Logger()
	}
}

// NewProber creates a new ffprobe-based prober
func NewProber(opts ...ProberOption) *Prober {
	p := &Prober{
		ffprobePath: "ffprobe",
		runner:      &ExecCommandRunner{},
		logger:      zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Probe implements video.DurationProber. The file must report a container
// duration and carry at least one video stream.
func (p *Prober) Probe(ctx context.Context, path string) (*video.MediaInfo, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: path is required", video.ErrProbeFailed)
	}

	runCtx := ctx
	if p.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	args := []string{
		"-v", "error",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	}
	p.logger.Debug().Str("cmd", p.ffprobePath).Strs("args", args).Msg("executing ffprobe")

	out, err := p.runner.Output(runCtx, p.ffprobePath, args...)
	if err != nil {
		switch {
		case errors.Is(runCtx.Err(), context.DeadlineExceeded):
			return nil, fmt.Errorf("%w: ffprobe did not finish within %s", video.ErrTimeout, p.timeout)
		case errors.Is(ctx.Err(), context.Canceled):
			return nil, fmt.Errorf("%w: ffprobe interrupted", video.ErrUserCancelled)
		}
		if detail := stderrOf(err); detail != "" {
			return nil, fmt.Errorf("%w: ffprobe %s: %v: %s", video.ErrProbeFailed, path, err, detail)
		}
		return nil, fmt.Errorf("%w: ffprobe %s: %v", video.ErrProbeFailed, path, err)
	}

	return parseProbeOutput(path, out)
}

func parseProbeOutput(path string, out []byte) (*video.MediaInfo, error) {
	var raw probeOutput
	if err := json.Unmarshal(out, &raw); err != nil {
		return nil, fmt.Errorf("%w: failed to parse ffprobe output: %v", video.ErrProbeFailed, err)
	}

	if raw.Format.Duration == "" {
		return nil, fmt.Errorf("%w: %s reports no duration", video.ErrProbeFailed, path)
	}
	duration, err := strconv.ParseFloat(raw.Format.Duration, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: unparseable duration %q", video.ErrProbeFailed, raw.Format.Duration)
	}
	if duration < 0 {
		return nil, fmt.Errorf("%w: negative duration %q", video.ErrProbeFailed, raw.Format.Duration)
	}

	info := &video.MediaInfo{
		Path:            path,
		DurationSeconds: duration,
	}
	for _, s := range raw.Streams {
		info.Streams = append(info.Streams, video.Stream{
			Index:     s.Index,
			CodecType: s.CodecType,
			CodecName: s.CodecName,
			Width:     s.Width,
			Height:    s.Height,
		})
	}

	if len(info.VideoStreams()) == 0 {
		return nil, fmt.Errorf("%w: %s has no video stream", video.ErrProbeFailed, path)
	}

	return info, nil
}

// Ensure Prober implements video.DurationProber
var _ video.DurationProber = (*Prober)(nil)
