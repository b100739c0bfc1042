package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"video-trimmer/domain/video"
	"video-trimmer/infrastructure/config"
	"video-trimmer/infrastructure/logging"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
	cfg     *config.Config
	logger  zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "trim <input> <start> <end>",
	Short: "Trim a segment out of an MP4 video",
	Long: `trim cuts the segment between two HH:MM:SS timestamps out of an MP4 file
using ffmpeg, then re-probes the result and reports its size and duration.

Modes:
  --accurate  re-encode the segment (H.264/AAC) for frame-accurate boundaries (default)
  --fast      stream copy; near instant, but the start may snap to the previous keyframe

The output defaults to <input>_trimmed.mp4 next to the input. An existing
output is only replaced after confirmation or with --force.

Examples:
  trim input.mp4 00:01:30 00:03:45
  trim input.mp4 00:01:30 00:03:45 -o clip.mp4
  trim video.mp4 00:00:00 00:00:30 --fast --force`,
	Args:              cobra.ExactArgs(3),
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: initRuntime,
	RunE:              runTrim,
}

// Execute runs the root command and is the only place that exits the process
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	os.Exit(ExitCode(err))
}

// ExitCode maps a run result to the process exit status
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return 1
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "optional YAML config file (built-in defaults when omitted)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log ffmpeg invocations and stage transitions")
	addTrimFlags(rootCmd)
}

// initRuntime sets up logging and loads configuration before any command
func initRuntime(cmd *cobra.Command, args []string) error {
	logger = logging.Init(verbose)

	if cfgFile == "" {
		cfg = config.Default()
		return nil
	}

	loaded, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	cfg = loaded
	configLog := logging.WithComponent("config")
	configLog.Debug().Str("path", cfgFile).Msg("configuration loaded")
	return nil
}

// GetConfig returns the loaded configuration
func GetConfig() *config.Config {
	if cfg == nil {
		return config.Default()
	}
	return cfg
}

// verifyInstalled checks a tool that supports it, bounded to a few seconds
func verifyInstalled(ctx context.Context, tool any) error {
	verifiable, ok := tool.(interface{ VerifyInstalled(context.Context) error })
	if !ok {
		return nil
	}
	verifyCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := verifiable.VerifyInstalled(verifyCtx); err != nil {
		return fmt.Errorf("ffmpeg verification failed: %w", err)
	}
	return nil
}

// resolveMode maps the mode flags. --accurate and --fast are mutually
// exclusive at parse time and accurate is the default, so only --fast matters.
func resolveMode(fast bool) video.Mode {
	if fast {
		return video.ModeFast
	}
	return video.ModeAccurate
}
