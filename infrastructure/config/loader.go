package config

import (
	"fmt"
	"os"
	"time"

	"video-trimmer/domain/video"

	"gopkg.in/yaml.v3"
)

// Presets accepted by libx264
var validPresets = map[string]bool{
	"ultrafast": true,
	"superfast": true,
	"veryfast":  true,
	"faster":    true,
	"fast":      true,
	"medium":    true,
	"slow":      true,
	"slower":    true,
	"veryslow":  true,
	"placebo":   true,
}

// Config represents the complete application configuration
type Config struct {
	FFmpeg   FFmpegConfig   `yaml:"ffmpeg"`
	Encoding EncodingConfig `yaml:"encoding"`
	Verify   VerifyConfig   `yaml:"verify"`
}

// FFmpegConfig locates the external tools and bounds their runtime
type FFmpegConfig struct {
	FFmpegPath  string        `yaml:"ffmpeg_path"`
	FFprobePath string        `yaml:"ffprobe_path"`
	Timeout     time.Duration `yaml:"timeout"` // 0 disables the limit
}

// EncodingConfig contains accurate-mode encode settings
type EncodingConfig struct {
	VideoCodec string `yaml:"video_codec"`
	AudioCodec string `yaml:"audio_codec"`
	CRF        int    `yaml:"crf"`
	Preset     string `yaml:"preset"`
}

// VerifyConfig contains output verification settings
type VerifyConfig struct {
	DriftTolerance float64 `yaml:"drift_tolerance"` // seconds, > 0
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		FFmpeg: FFmpegConfig{
			FFmpegPath:  "ffmpeg",
			FFprobePath: "ffprobe",
		},
		Encoding: EncodingConfig{
			VideoCodec: video.DefaultVideoCodec,
			AudioCodec: video.DefaultAudioCodec,
			CRF:        video.DefaultCRF,
			Preset:     video.DefaultPreset,
		},
		Verify: VerifyConfig{
			DriftTolerance: video.DefaultDriftTolerance,
		},
	}
}

// Load reads the YAML file at path over the defaults. Keys missing from the
// file keep their default value.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return cfg, nil
}

// Save writes the configuration to the specified YAML file
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks value ranges
func (c *Config) Validate() error {
	if c.Encoding.CRF < 0 || c.Encoding.CRF > 51 {
		return fmt.Errorf("encoding.crf must be 0-51, got %d", c.Encoding.CRF)
	}
	if !validPresets[c.Encoding.Preset] {
		return fmt.Errorf("encoding.preset %q is not a known x264 preset", c.Encoding.Preset)
	}
	if c.Verify.DriftTolerance <= 0 {
		return fmt.Errorf("verify.drift_tolerance must be positive")
	}
	if c.FFmpeg.Timeout < 0 {
		return fmt.Errorf("ffmpeg.timeout cannot be negative")
	}
	return nil
}

// EncodeSettings converts the encoding section for plan construction
func (c *Config) EncodeSettings() video.EncodeSettings {
	return video.EncodeSettings{
		VideoCodec: c.Encoding.VideoCodec,
		AudioCodec: c.Encoding.AudioCodec,
		CRF:        c.Encoding.CRF,
		Preset:     c.Encoding.Preset,
	}
}
