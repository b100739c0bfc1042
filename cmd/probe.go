package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"video-trimmer/domain/video"
	"video-trimmer/infrastructure/ffmpeg"
	"video-trimmer/infrastructure/filesystem"

	"github.com/spf13/cobra"
)

var probeCmd = &cobra.Command{
	Use:   "probe <input>",
	Short: "Print the duration and streams of an MP4 file",
	Long: `Run the same validation and ffprobe pass that trim uses on its input and
print what was found.

Example:
  trim probe input.mp4`,
	Args: cobra.ExactArgs(1),
	RunE: runProbe,
}

func init() {
	rootCmd.AddCommand(probeCmd)
}

func runProbe(cmd *cobra.Command, args []string) error {
	settings := GetConfig()

	prober := ffmpeg.NewProber(
		ffmpeg.WithFFprobePath(settings.FFmpeg.FFprobePath),
		ffmpeg.WithProbeTimeout(settings.FFmpeg.Timeout),
		ffmpeg.WithProberLogger(logger),
	)

	return RunProbeWithDependencies(cmd.Context(), filesystem.NewValidator(), prober, args[0], os.Stdout)
}

// RunProbeWithDependencies runs the probe command with injected dependencies (for testing)
func RunProbeWithDependencies(
	ctx context.Context,
	validator video.FileValidator,
	prober video.DurationProber,
	path string,
	output io.Writer,
) error {
	if err := validator.Validate(path); err != nil {
		return err
	}

	info, err := prober.Probe(ctx, path)
	if err != nil {
		return err
	}

	fmt.Fprintf(output, "File:     %s\n", info.Path)
	fmt.Fprintf(output, "Duration: %.3fs (%s)\n", info.DurationSeconds, video.TimestampFromSeconds(int(info.DurationSeconds)))
	for _, s := range info.Streams {
		if s.Width > 0 {
			fmt.Fprintf(output, "Stream %d: %s %s %dx%d\n", s.Index, s.CodecType, s.CodecName, s.Width, s.Height)
			continue
		}
		fmt.Fprintf(output, "Stream %d: %s %s\n", s.Index, s.CodecType, s.CodecName)
	}
	return nil
}
