package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	appvideo "video-trimmer/application/video"
	"video-trimmer/domain/video"
	"video-trimmer/infrastructure/config"
	"video-trimmer/infrastructure/ffmpeg"
	"video-trimmer/infrastructure/filesystem"

	"github.com/spf13/cobra"
)

var (
	trimOutputPath     string
	trimAccurate       bool
	trimFast           bool
	trimForce          bool
	trimCRF            int
	trimPreset         string
	trimDriftTolerance float64
	trimTimeout        time.Duration
)

func addTrimFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&trimOutputPath, "output", "o", "", "output path (default <input>_trimmed<ext>)")
	flags.BoolVar(&trimAccurate, "accurate", false, "re-encode for frame-accurate boundaries (default)")
	flags.BoolVar(&trimFast, "fast", false, "stream copy without re-encoding; may snap to a keyframe")
	flags.BoolVarP(&trimForce, "force", "f", false, "overwrite an existing output without asking")
	flags.IntVar(&trimCRF, "crf", video.DefaultCRF, "accurate-mode quality, 0-51 (lower is better)")
	flags.StringVar(&trimPreset, "preset", video.DefaultPreset, "accurate-mode x264 preset")
	flags.Float64Var(&trimDriftTolerance, "drift-tolerance", video.DefaultDriftTolerance, "seconds of output duration drift tolerated before warning")
	flags.DurationVar(&trimTimeout, "timeout", 0, "abort ffmpeg/ffprobe after this long (0 = no limit)")
	cmd.MarkFlagsMutuallyExclusive("accurate", "fast")
}

func runTrim(cmd *cobra.Command, args []string) error {
	settings, err := applyFlagOverrides(cmd, GetConfig())
	if err != nil {
		return err
	}

	// Create dependencies using production implementations
	trimmer := ffmpeg.NewTrimmer(
		ffmpeg.WithFFmpegPath(settings.FFmpeg.FFmpegPath),
		ffmpeg.WithTimeout(settings.FFmpeg.Timeout),
		ffmpeg.WithLogger(logger),
	)
	prober := ffmpeg.NewProber(
		ffmpeg.WithFFprobePath(settings.FFmpeg.FFprobePath),
		ffmpeg.WithProbeTimeout(settings.FFmpeg.Timeout),
		ffmpeg.WithProberLogger(logger),
	)

	input := appvideo.TrimInput{
		InputPath:  args[0],
		StartTime:  args[1],
		EndTime:    args[2],
		OutputPath: trimOutputPath,
		Mode:       resolveMode(trimFast),
	}
	opts := appvideo.Options{
		Encode:         settings.EncodeSettings(),
		DriftTolerance: settings.Verify.DriftTolerance,
		Force:          trimForce,
		Confirm:        confirmOverwrite(DefaultPrompter),
		Logger:         &logger,
	}

	return RunTrimWithDependencies(
		cmd.Context(),
		filesystem.NewValidator(),
		prober,
		trimmer,
		filesystem.NewChecker(),
		input,
		opts,
		os.Stdout,
	)
}

// applyFlagOverrides layers explicitly set flags over the loaded config
func applyFlagOverrides(cmd *cobra.Command, base *config.Config) (*config.Config, error) {
	merged := *base
	flags := cmd.Flags()

	if flags.Changed("crf") {
		merged.Encoding.CRF = trimCRF
	}
	if flags.Changed("preset") {
		merged.Encoding.Preset = trimPreset
	}
	if flags.Changed("drift-tolerance") {
		merged.Verify.DriftTolerance = trimDriftTolerance
	}
	if flags.Changed("timeout") {
		merged.FFmpeg.Timeout = trimTimeout
	}

	if err := merged.Validate(); err != nil {
		return nil, fmt.Errorf("invalid option: %w", err)
	}
	return &merged, nil
}

// RunTrimWithDependencies runs the trim command with injected dependencies (for testing)
func RunTrimWithDependencies(
	ctx context.Context,
	validator video.FileValidator,
	prober video.DurationProber,
	trimmer video.Trimmer,
	fileChecker video.FileChecker,
	input appvideo.TrimInput,
	opts appvideo.Options,
	output io.Writer,
) error {
	if err := verifyInstalled(ctx, trimmer); err != nil {
		return err
	}

	if opts.Observer == nil {
		opts.Observer = progressPrinter(output)
	}

	service := appvideo.NewTrimService(validator, prober, trimmer, fileChecker, opts)

	_, err := service.Trim(ctx, input)
	return err
}
