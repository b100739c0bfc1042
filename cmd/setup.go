package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"video-trimmer/infrastructure/config"
	"video-trimmer/infrastructure/logging"

	"github.com/spf13/cobra"
)

// DefaultConfigPath is where setup writes when --config is not given
const DefaultConfigPath = "trim.yaml"

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactively write a configuration file",
	Long: `Ask for ffmpeg locations and accurate-mode encode settings, then write
them as YAML. Pass the file to later runs with --config.

Example:
  trim setup --config ~/.config/trim.yaml`,
	Args: cobra.NoArgs,
	// The file usually does not exist yet, so it must not be loaded first.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = logging.Init(verbose)
		return nil
	},
	RunE: runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	path := cfgFile
	if path == "" {
		path = DefaultConfigPath
	}
	return RunSetupWithPrompter(DefaultPrompter, path, os.Stdout)
}

// RunSetupWithPrompter runs the setup with a given prompter (for testing)
func RunSetupWithPrompter(prompter Prompter, configPath string, out io.Writer) error {
	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil {
		overwrite, err := prompter.Confirm(fmt.Sprintf("%s already exists. Overwrite?", configPath), false)
		if err != nil {
			return fmt.Errorf("prompt cancelled")
		}
		if !overwrite {
			fmt.Fprintln(out, "Setup cancelled.")
			return nil
		}
	}

	fmt.Fprintln(out, "Welcome to trim setup!")
	fmt.Fprintln(out)

	cfg := config.Default()

	if err := promptTools(prompter, cfg); err != nil {
		return err
	}
	if err := promptEncoding(prompter, cfg); err != nil {
		return err
	}
	if err := promptVerify(prompter, cfg); err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if dir := filepath.Dir(configPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	if err := config.Save(cfg, configPath); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Configuration saved to %s\n", configPath)
	return nil
}

func promptTools(prompter Prompter, cfg *config.Config) error {
	ffmpegPath, err := prompter.Input("Path to ffmpeg?", cfg.FFmpeg.FFmpegPath)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if ffmpegPath != "" {
		cfg.FFmpeg.FFmpegPath = ffmpegPath
	}

	ffprobePath, err := prompter.Input("Path to ffprobe?", cfg.FFmpeg.FFprobePath)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if ffprobePath != "" {
		cfg.FFmpeg.FFprobePath = ffprobePath
	}

	timeout, err := prompter.Input("Abort ffmpeg after (e.g. 30m, 0 for no limit)?", "0")
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if timeout != "" && timeout != "0" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return fmt.Errorf("invalid timeout %q: %w", timeout, err)
		}
		cfg.FFmpeg.Timeout = d
	}

	return nil
}

func promptEncoding(prompter Prompter, cfg *config.Config) error {
	crf, err := prompter.Input("Accurate-mode CRF (0-51, lower is better)?", strconv.Itoa(cfg.Encoding.CRF))
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if crf != "" {
		n, err := strconv.Atoi(crf)
		if err != nil {
			return fmt.Errorf("invalid CRF %q: must be a whole number", crf)
		}
		cfg.Encoding.CRF = n
	}

	preset, err := prompter.Input("Accurate-mode x264 preset?", cfg.Encoding.Preset)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if preset != "" {
		cfg.Encoding.Preset = preset
	}

	return nil
}

func promptVerify(prompter Prompter, cfg *config.Config) error {
	tolerance, err := prompter.Input("Warn when output duration drifts by more than (seconds)?",
		strconv.FormatFloat(cfg.Verify.DriftTolerance, 'g', -1, 64))
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if tolerance != "" {
		f, err := strconv.ParseFloat(tolerance, 64)
		if err != nil {
			return fmt.Errorf("invalid drift tolerance %q", tolerance)
		}
		cfg.Verify.DriftTolerance = f
	}
	return nil
}
