package video

import (
	"testing"
)

func TestNewTrimPlan_SeekAndDurationMatchAcrossModes(t *testing.T) {
	start := TimestampFromSeconds(30)
	end := TimestampFromSeconds(60)

	accurateReq, err := NewTrimRequest("in.mp4", "out.mp4", start, end, ModeAccurate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fastReq, err := NewTrimRequest("in.mp4", "out.mp4", start, end, ModeFast)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	accurate := NewTrimPlan(accurateReq, DefaultEncodeSettings())
	fast := NewTrimPlan(fastReq, DefaultEncodeSettings())

	for _, p := range []TrimPlan{accurate, fast} {
		if p.Seek != 30 {
			t.Errorf("%s plan Seek = %v, want 30", p.Mode(), p.Seek)
		}
		if p.Duration != 30 {
			t.Errorf("%s plan Duration = %v, want 30", p.Mode(), p.Duration)
		}
	}

	if accurate.Params.Tag() != TagReencode {
		t.Errorf("accurate plan tag = %q, want %q", accurate.Params.Tag(), TagReencode)
	}
	if fast.Params.Tag() != TagCopy {
		t.Errorf("fast plan tag = %q, want %q", fast.Params.Tag(), TagCopy)
	}
	if accurate.Mode() != ModeAccurate || fast.Mode() != ModeFast {
		t.Errorf("Mode() mismatch: accurate=%v fast=%v", accurate.Mode(), fast.Mode())
	}
}

func TestNewTrimPlan_AccurateUsesSettings(t *testing.T) {
	req := &TrimRequest{
		InputPath:  "in.mp4",
		OutputPath: "out.mp4",
		Start:      Timestamp{0, 0, 5},
		End:        Timestamp{0, 0, 15},
		Mode:       ModeAccurate,
	}

	plan := NewTrimPlan(req, EncodeSettings{CRF: 23, Preset: "slow"})

	params, ok := plan.Params.(EncodeParams)
	if !ok {
		t.Fatalf("expected EncodeParams, got %T", plan.Params)
	}
	want := EncodeParams{VideoCodec: "libx264", AudioCodec: "aac", CRF: 23, Preset: "slow"}
	if params != want {
		t.Errorf("EncodeParams = %+v, want %+v", params, want)
	}
}

func TestNewTrimPlan_FastAvoidsNegativeTimestamps(t *testing.T) {
	req := &TrimRequest{
		InputPath:  "in.mp4",
		OutputPath: "out.mp4",
		Start:      Timestamp{0, 0, 5},
		End:        Timestamp{0, 0, 15},
		Mode:       ModeFast,
	}

	plan := NewTrimPlan(req, DefaultEncodeSettings())

	params, ok := plan.Params.(CopyParams)
	if !ok {
		t.Fatalf("expected CopyParams, got %T", plan.Params)
	}
	if params.AvoidNegativeTS != "make_zero" {
		t.Errorf("AvoidNegativeTS = %q, want make_zero", params.AvoidNegativeTS)
	}
}

func TestEncodeSettings_NegativeCRFFallsBackToDefault(t *testing.T) {
	s := EncodeSettings{CRF: -1}.withDefaults()
	if s.CRF != DefaultCRF {
		t.Errorf("CRF = %d, want %d", s.CRF, DefaultCRF)
	}
	if s.Preset != DefaultPreset {
		t.Errorf("Preset = %q, want %q", s.Preset, DefaultPreset)
	}
}
