package video

import "fmt"

// Default encode settings for accurate mode
const (
	DefaultVideoCodec = "libx264"
	DefaultAudioCodec = "aac"
	DefaultCRF        = 18
	DefaultPreset     = "medium"
)

// Parameter tags identifying which strategy a plan carries
const (
	TagReencode = "reencode"
	TagCopy     = "copy"
)

// EncodeSettings are the caller-configurable quality parameters used when
// building an accurate-mode plan.
type EncodeSettings struct {
	VideoCodec string
	AudioCodec string
	CRF        int
	Preset     string
}

// DefaultEncodeSettings returns H.264/AAC at CRF 18 with the medium preset
func DefaultEncodeSettings() EncodeSettings {
	return EncodeSettings{
		VideoCodec: DefaultVideoCodec,
		AudioCodec: DefaultAudioCodec,
		CRF:        DefaultCRF,
		Preset:     DefaultPreset,
	}
}

// withDefaults fills zero-valued fields. CRF 0 (lossless) is kept; only a
// negative CRF is replaced.
func (s EncodeSettings) withDefaults() EncodeSettings {
	if s.VideoCodec == "" {
		s.VideoCodec = DefaultVideoCodec
	}
	if s.AudioCodec == "" {
		s.AudioCodec = DefaultAudioCodec
	}
	if s.CRF < 0 {
		s.CRF = DefaultCRF
	}
	if s.Preset == "" {
		s.Preset = DefaultPreset
	}
	return s
}

// PlanParams is the mode-specific half of a TrimPlan. It is implemented only
// by EncodeParams and CopyParams.
type PlanParams interface {
	Tag() string
	isPlanParams()
}

// EncodeParams re-encodes the interval
type EncodeParams struct {
	VideoCodec string
	AudioCodec string
	CRF        int
	Preset     string
}

// Tag implements PlanParams
func (EncodeParams) Tag() string { return TagReencode }

func (EncodeParams) isPlanParams() {}

// CopyParams stream-copies the interval
type CopyParams struct {
	// AvoidNegativeTS is passed to ffmpeg's -avoid_negative_ts
	AvoidNegativeTS string
}

// Tag implements PlanParams
func (CopyParams) Tag() string { return TagCopy }

func (CopyParams) isPlanParams() {}

// TrimPlan is the immutable description of one external trim invocation
type TrimPlan struct {
	InputPath  string
	OutputPath string
	Seek       float64 // seconds
	Duration   float64 // seconds
	Params     PlanParams
}

// NewTrimPlan derives the plan for a request. Settings only apply to
// accurate mode.
func NewTrimPlan(req *TrimRequest, settings EncodeSettings) TrimPlan {
	plan := TrimPlan{
		InputPath:  req.InputPath,
		OutputPath: req.OutputPath,
		Seek:       req.Start.Offset(),
		Duration:   req.Duration(),
	}

	switch req.Mode {
	case ModeFast:
		plan.Params = CopyParams{AvoidNegativeTS: "make_zero"}
	default:
		s := settings.withDefaults()
		plan.Params = EncodeParams{
			VideoCodec: s.VideoCodec,
			AudioCodec: s.AudioCodec,
			CRF:        s.CRF,
			Preset:     s.Preset,
		}
	}

	return plan
}

// Mode reports which strategy the plan carries
func (p TrimPlan) Mode() Mode {
	if _, ok := p.Params.(CopyParams); ok {
		return ModeFast
	}
	return ModeAccurate
}

func (p TrimPlan) String() string {
	return fmt.Sprintf("%s [%s] seek=%.3fs duration=%.3fs -> %s", p.InputPath, p.Params.Tag(), p.Seek, p.Duration, p.OutputPath)
}
