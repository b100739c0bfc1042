package video

import (
	"errors"
	"testing"
)

func TestNewTrimRequest(t *testing.T) {
	tests := []struct {
		name        string
		inputPath   string
		outputPath  string
		start       Timestamp
		end         Timestamp
		mode        Mode
		wantOutput  string
		wantErr     bool
		errContains string
	}{
		{
			name:       "valid request with explicit output",
			inputPath:  "/videos/talk.mp4",
			outputPath: "/clips/intro.mp4",
			start:      Timestamp{0, 5, 30},
			end:        Timestamp{1, 45, 0},
			wantOutput: "/clips/intro.mp4",
		},
		{
			name:       "default output path",
			inputPath:  "/videos/talk.mp4",
			start:      Timestamp{0, 0, 0},
			end:        Timestamp{0, 0, 30},
			mode:       ModeFast,
			wantOutput: "/videos/talk_trimmed.mp4",
		},
		{
			name:        "missing input",
			start:       Timestamp{0, 0, 0},
			end:         Timestamp{0, 0, 30},
			wantErr:     true,
			errContains: "input path is required",
		},
		{
			name:        "end before start",
			inputPath:   "/videos/talk.mp4",
			start:       Timestamp{1, 0, 0},
			end:         Timestamp{0, 30, 0},
			wantErr:     true,
			errContains: "must be after start time",
		},
		{
			name:        "end equals start",
			inputPath:   "/videos/talk.mp4",
			start:       Timestamp{1, 0, 0},
			end:         Timestamp{1, 0, 0},
			wantErr:     true,
			errContains: "must be after start time",
		},
		{
			name:        "unknown mode",
			inputPath:   "/videos/talk.mp4",
			start:       Timestamp{0, 0, 0},
			end:         Timestamp{0, 0, 1},
			mode:        Mode(7),
			wantErr:     true,
			errContains: "unknown trim mode",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewTrimRequest(tt.inputPath, tt.outputPath, tt.start, tt.end, tt.mode)

			if tt.wantErr {
				if err == nil {
					t.Errorf("NewTrimRequest() expected error, got nil")
					return
				}
				if tt.errContains != "" && !contains(err.Error(), tt.errContains) {
					t.Errorf("NewTrimRequest() error = %v, want error containing %q", err, tt.errContains)
				}
				return
			}

			if err != nil {
				t.Fatalf("NewTrimRequest() unexpected error: %v", err)
			}
			if got.OutputPath != tt.wantOutput {
				t.Errorf("OutputPath = %q, want %q", got.OutputPath, tt.wantOutput)
			}
			if got.Mode != tt.mode {
				t.Errorf("Mode = %v, want %v", got.Mode, tt.mode)
			}
		})
	}
}

func TestNewTrimRequest_EndNotAfterStartIsInvalidRange(t *testing.T) {
	_, err := NewTrimRequest("a.mp4", "", Timestamp{0, 1, 0}, Timestamp{0, 0, 59}, ModeAccurate)
	if !errors.Is(err, ErrInvalidRange) {
		t.Errorf("expected ErrInvalidRange, got %v", err)
	}
}

func TestTrimRequest_Duration(t *testing.T) {
	req := &TrimRequest{
		Start: Timestamp{0, 0, 10},
		End:   Timestamp{0, 0, 40},
	}
	if got := req.Duration(); got != 30 {
		t.Errorf("Duration() = %v, want 30", got)
	}
}

func TestDefaultOutputPath(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"video.mp4", "video_trimmed.mp4"},
		{"/a/b/My Clip.MP4", "/a/b/My Clip_trimmed.MP4"},
		{"dir.with.dots/video.mp4", "dir.with.dots/video_trimmed.mp4"},
		{"noext", "noext_trimmed"},
	}

	for _, tt := range tests {
		if got := DefaultOutputPath(tt.input); got != tt.want {
			t.Errorf("DefaultOutputPath(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestMode_String(t *testing.T) {
	if ModeAccurate.String() != "accurate" {
		t.Errorf("ModeAccurate.String() = %q", ModeAccurate.String())
	}
	if ModeFast.String() != "fast" {
		t.Errorf("ModeFast.String() = %q", ModeFast.String())
	}
}
