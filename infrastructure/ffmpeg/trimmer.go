package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"video-trimmer/domain/video"

	"github.com/rs/zerolog"
)

// Trimmer implements video.Trimmer using ffmpeg
type Trimmer struct {
	ffmpegPath string
	runner     CommandRunner
	timeout    time.Duration
	logger     zerolog.Logger
}

// TrimmerOption is a functional option for configuring Trimmer
type TrimmerOption func(*Trimmer)

// WithFFmpegPath sets a custom ffmpeg executable path
func WithFFmpegPath(path string) TrimmerOption {
	return func(t *Trimmer) {
		if path != "" {
			t.ffmpegPath = path
		}
	}
}

// WithCommandRunner sets a custom command runner (for testing)
func WithCommandRunner(runner CommandRunner) TrimmerOption {
	return func(t *Trimmer) {
		t.runner = runner
	}
}

// WithTimeout bounds a single ffmpeg run. Zero means no limit.
func WithTimeout(d time.Duration) TrimmerOption {
	return func(t *Trimmer) {
		t.timeout = d
	}
}

// WithLogger sets the logger used for command tracing
func WithLogger(logger zerolog.Logger) TrimmerOption {
	return func(t *Trimmer) {
		t.logger = logger.With().Str("component", "ffmpeg").Logger()
	}
}

// NewTrimmer creates a new FFmpeg-based trimmer
func NewTrimmer(opts ...TrimmerOption) *Trimmer {
	t := &Trimmer{
		ffmpegPath: "ffmpeg",
		runner:     &ExecCommandRunner{},
		logger:     zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// BuildArgs returns the ffmpeg arguments that execute plan into outputPath.
//
// Accurate mode seeks on the input and re-encodes the interval. Fast mode
// seeks and limits the duration on the input and stream-copies it.
func BuildArgs(plan video.TrimPlan, outputPath string) []string {
	seek := formatSeconds(plan.Seek)
	duration := formatSeconds(plan.Duration)

	args := []string{"-hide_banner", "-v", "error"}

	switch p := plan.Params.(type) {
	case video.CopyParams:
		args = append(args,
			"-ss", seek,
			"-t", duration,
			"-i", plan.InputPath,
			"-c", "copy",
		)
		if p.AvoidNegativeTS != "" {
			args = append(args, "-avoid_negative_ts", p.AvoidNegativeTS)
		}
	case video.EncodeParams:
		args = append(args,
			"-ss", seek,
			"-i", plan.InputPath,
			"-t", duration,
			"-c:v", p.VideoCodec,
			"-c:a", p.AudioCodec,
			"-crf", strconv.Itoa(p.CRF),
			"-preset", p.Preset,
		)
	}

	args = append(args,
		"-movflags", "+faststart",
		"-y", // the temporary file is ours to overwrite
		outputPath,
	)
	return args
}

// Execute implements video.Trimmer. ffmpeg writes to a temporary file next to
// the destination, which is renamed onto plan.OutputPath only after a
// successful exit.
func (t *Trimmer) Execute(ctx context.Context, plan video.TrimPlan) error {
	if plan.Params == nil {
		return fmt.Errorf("trim plan has no parameters")
	}

	tmpPath, err := reserveTempPath(plan.OutputPath)
	if err != nil {
		return fmt.Errorf("failed to prepare output: %w", err)
	}

	runCtx := ctx
	if t.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	args := BuildArgs(plan, tmpPath)
	t.logger.Debug().
		Str("cmd", t.ffmpegPath).
		Strs("args", args).
		Str("mode", plan.Mode().String()).
		Msg("executing ffmpeg")

	start := time.Now()
	stderr, err := t.runner.Run(runCtx, t.ffmpegPath, args...)
	if err != nil {
		os.Remove(tmpPath)
		switch {
		case errors.Is(runCtx.Err(), context.DeadlineExceeded):
			return fmt.Errorf("%w: ffmpeg did not finish within %s", video.ErrTimeout, t.timeout)
		case errors.Is(ctx.Err(), context.Canceled):
			return fmt.Errorf("%w: ffmpeg interrupted", video.ErrUserCancelled)
		}
		return &video.ExecutionError{
			Stderr: strings.TrimSpace(string(stderr)),
			Err:    err,
		}
	}

	// Whatever already sits at plan.OutputPath is not this run's output.
	if _, err := os.Stat(tmpPath); err != nil {
		t.logger.Warn().Str("path", tmpPath).Msg("ffmpeg exited cleanly but produced no file")
		return fmt.Errorf("%w: ffmpeg exited cleanly but wrote nothing for %s", video.ErrOutputMissing, plan.OutputPath)
	}

	if err := os.Rename(tmpPath, plan.OutputPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to move output into place: %w", err)
	}

	t.logger.Debug().
		Str("output", plan.OutputPath).
		Dur("elapsed", time.Since(start)).
		Msg("ffmpeg execution completed")
	return nil
}

// VerifyInstalled checks that ffmpeg is available
func (t *Trimmer) VerifyInstalled(ctx context.Context) error {
	_, err := t.runner.Output(ctx, t.ffmpegPath, "-version")
	if err != nil {
		return fmt.Errorf("ffmpeg not found or not executable: %w", err)
	}
	return nil
}

// reserveTempPath picks an unused hidden path in the destination directory
// and keeps the destination extension so ffmpeg selects the same muxer. The
// file itself is not left behind; ffmpeg creates it.
func reserveTempPath(outputPath string) (string, error) {
	dir := filepath.Dir(outputPath)
	ext := filepath.Ext(outputPath)
	if ext == "" {
		ext = ".mp4"
	}
	stem := strings.TrimSuffix(filepath.Base(outputPath), filepath.Ext(outputPath))

	f, err := os.CreateTemp(dir, "."+stem+".partial-*"+ext)
	if err != nil {
		return "", err
	}
	name := f.Name()
	f.Close()
	if err := os.Remove(name); err != nil {
		return "", err
	}
	return name, nil
}

func formatSeconds(s float64) string {
	return strconv.FormatFloat(s, 'f', 3, 64)
}

// Ensure Trimmer implements video.Trimmer
var _ video.Trimmer = (*Trimmer)(nil)
