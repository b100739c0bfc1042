package ffmpeg

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"video-trimmer/domain/video"
)

// mockRunner records invocations. By default Run behaves like a successful
// ffmpeg: it writes a small file at the last argument.
type mockRunner struct {
	calls     [][]string
	runFn     func(ctx context.Context, args []string) ([]byte, error)
	output    []byte
	outputErr error
}

func (m *mockRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	m.calls = append(m.calls, append([]string{name}, args...))
	if m.runFn != nil {
		return m.runFn(ctx, args)
	}
	return nil, os.WriteFile(args[len(args)-1], []byte("trimmed"), 0644)
}

func (m *mockRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	m.calls = append(m.calls, append([]string{name}, args...))
	return m.output, m.outputErr
}

func newPlan(t *testing.T, dir string, mode video.Mode) video.TrimPlan {
	t.Helper()
	req, err := video.NewTrimRequest(
		filepath.Join(dir, "in.mp4"),
		filepath.Join(dir, "out.mp4"),
		video.TimestampFromSeconds(30),
		video.TimestampFromSeconds(60),
		mode,
	)
	if err != nil {
		t.Fatalf("NewTrimRequest() unexpected error: %v", err)
	}
	return video.NewTrimPlan(req, video.DefaultEncodeSettings())
}

func indexOf(args []string, s string) int {
	for i, a := range args {
		if a == s {
			return i
		}
	}
	return -1
}

func TestBuildArgs_Accurate(t *testing.T) {
	plan := newPlan(t, "/videos", video.ModeAccurate)
	args := BuildArgs(plan, "/videos/tmp.mp4")

	want := []string{
		"-hide_banner", "-v", "error",
		"-ss", "30.000",
		"-i", "/videos/in.mp4",
		"-t", "30.000",
		"-c:v", "libx264",
		"-c:a", "aac",
		"-crf", "18",
		"-preset", "medium",
		"-movflags", "+faststart",
		"-y", "/videos/tmp.mp4",
	}
	if strings.Join(args, " ") != strings.Join(want, " ") {
		t.Errorf("BuildArgs() =\n  %v\nwant\n  %v", args, want)
	}
}

func TestBuildArgs_Fast(t *testing.T) {
	plan := newPlan(t, "/videos", video.ModeFast)
	args := BuildArgs(plan, "/videos/tmp.mp4")

	// seek and duration are input options in fast mode
	if indexOf(args, "-ss") > indexOf(args, "-i") || indexOf(args, "-t") > indexOf(args, "-i") {
		t.Errorf("expected -ss and -t before -i, got %v", args)
	}
	for _, expected := range []string{"copy", "make_zero", "30.000"} {
		if indexOf(args, expected) < 0 {
			t.Errorf("expected argument %q in %v", expected, args)
		}
	}
	if indexOf(args, "-crf") >= 0 || indexOf(args, "libx264") >= 0 {
		t.Errorf("fast mode must not re-encode: %v", args)
	}
}

func TestTrimmer_Execute_MovesOutputIntoPlace(t *testing.T) {
	dir := t.TempDir()
	plan := newPlan(t, dir, video.ModeAccurate)
	runner := &mockRunner{}

	trimmer := NewTrimmer(WithCommandRunner(runner), WithFFmpegPath("/opt/ffmpeg"))
	if err := trimmer.Execute(context.Background(), plan); err != nil {
		t.Fatalf("Execute() unexpected error: %v", err)
	}

	if len(runner.calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(runner.calls))
	}
	call := runner.calls[0]
	if call[0] != "/opt/ffmpeg" {
		t.Errorf("expected custom ffmpeg path, got %q", call[0])
	}

	tmp := call[len(call)-1]
	if tmp == plan.OutputPath {
		t.Error("ffmpeg must not write to the destination directly")
	}
	if filepath.Dir(tmp) != dir || filepath.Ext(tmp) != ".mp4" {
		t.Errorf("unexpected temporary path %q", tmp)
	}
	if _, err := os.Stat(tmp); !os.IsNotExist(err) {
		t.Errorf("temporary file should be gone, stat err = %v", err)
	}

	data, err := os.ReadFile(plan.OutputPath)
	if err != nil {
		t.Fatalf("expected output file: %v", err)
	}
	if string(data) != "trimmed" {
		t.Errorf("output content = %q", data)
	}
}

func TestTrimmer_Execute_OverwritesExistingOutput(t *testing.T) {
	dir := t.TempDir()
	plan := newPlan(t, dir, video.ModeFast)
	if err := os.WriteFile(plan.OutputPath, []byte("old"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := NewTrimmer(WithCommandRunner(&mockRunner{})).Execute(context.Background(), plan); err != nil {
		t.Fatalf("Execute() unexpected error: %v", err)
	}

	data, _ := os.ReadFile(plan.OutputPath)
	if string(data) != "trimmed" {
		t.Errorf("output content = %q, want replaced content", data)
	}
}

func TestTrimmer_Execute_FailureKeepsDestinationAndSurfacesStderr(t *testing.T) {
	dir := t.TempDir()
	plan := newPlan(t, dir, video.ModeAccurate)
	if err := os.WriteFile(plan.OutputPath, []byte("previous"), 0644); err != nil {
		t.Fatal(err)
	}

	stderr := "[mp4 @ 0x1] moov atom not found\nin.mp4: Invalid data found when processing input"
	runner := &mockRunner{
		runFn: func(ctx context.Context, args []string) ([]byte, error) {
			// partial output before failing
			os.WriteFile(args[len(args)-1], []byte("half"), 0644)
			return []byte(stderr + "\n"), errors.New("exit status 1")
		},
	}

	err := NewTrimmer(WithCommandRunner(runner)).Execute(context.Background(), plan)
	if !errors.Is(err, video.ErrExecutionFailed) {
		t.Fatalf("Execute() error = %v, want ErrExecutionFailed", err)
	}

	var execErr *video.ExecutionError
	if !errors.As(err, &execErr) {
		t.Fatalf("expected *video.ExecutionError, got %T", err)
	}
	if execErr.Stderr != stderr {
		t.Errorf("Stderr = %q, want %q", execErr.Stderr, stderr)
	}

	data, _ := os.ReadFile(plan.OutputPath)
	if string(data) != "previous" {
		t.Errorf("destination was modified: %q", data)
	}

	entries, _ := os.ReadDir(dir)
	for _, e := range entries {
		if strings.Contains(e.Name(), ".partial-") {
			t.Errorf("temporary file left behind: %s", e.Name())
		}
	}
}

func TestTrimmer_Execute_Timeout(t *testing.T) {
	dir := t.TempDir()
	plan := newPlan(t, dir, video.ModeAccurate)
	runner := &mockRunner{
		runFn: func(ctx context.Context, args []string) ([]byte, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}

	err := NewTrimmer(WithCommandRunner(runner), WithTimeout(10*time.Millisecond)).Execute(context.Background(), plan)
	if !errors.Is(err, video.ErrTimeout) {
		t.Errorf("Execute() error = %v, want ErrTimeout", err)
	}
	if _, statErr := os.Stat(plan.OutputPath); !os.IsNotExist(statErr) {
		t.Error("no output should exist after a timeout")
	}
}

func TestTrimmer_Execute_Cancelled(t *testing.T) {
	dir := t.TempDir()
	plan := newPlan(t, dir, video.ModeFast)

	ctx, cancel := context.WithCancel(context.Background())
	runner := &mockRunner{
		runFn: func(ctx context.Context, args []string) ([]byte, error) {
			os.WriteFile(args[len(args)-1], []byte("half"), 0644)
			cancel()
			return nil, errors.New("signal: killed")
		},
	}

	err := NewTrimmer(WithCommandRunner(runner)).Execute(ctx, plan)
	if !errors.Is(err, video.ErrUserCancelled) {
		t.Errorf("Execute() error = %v, want ErrUserCancelled", err)
	}
	if _, statErr := os.Stat(plan.OutputPath); !os.IsNotExist(statErr) {
		t.Error("no output should exist after cancellation")
	}
}

func TestTrimmer_Execute_CleanExitWithoutOutput(t *testing.T) {
	dir := t.TempDir()
	plan := newPlan(t, dir, video.ModeFast)
	runner := &mockRunner{
		runFn: func(ctx context.Context, args []string) ([]byte, error) {
			return nil, nil
		},
	}

	err := NewTrimmer(WithCommandRunner(runner)).Execute(context.Background(), plan)
	if !errors.Is(err, video.ErrOutputMissing) {
		t.Fatalf("Execute() error = %v, want ErrOutputMissing", err)
	}
	if _, err := os.Stat(plan.OutputPath); !os.IsNotExist(err) {
		t.Error("expected no output file")
	}
}

func TestTrimmer_Execute_CleanExitKeepsExistingOutput(t *testing.T) {
	dir := t.TempDir()
	plan := newPlan(t, dir, video.ModeAccurate)
	if err := os.WriteFile(plan.OutputPath, []byte("earlier trim"), 0644); err != nil {
		t.Fatal(err)
	}
	runner := &mockRunner{
		runFn: func(ctx context.Context, args []string) ([]byte, error) {
			return nil, nil
		},
	}

	err := NewTrimmer(WithCommandRunner(runner)).Execute(context.Background(), plan)
	if !errors.Is(err, video.ErrOutputMissing) {
		t.Fatalf("Execute() error = %v, want ErrOutputMissing", err)
	}

	data, readErr := os.ReadFile(plan.OutputPath)
	if readErr != nil {
		t.Fatalf("existing output was removed: %v", readErr)
	}
	if string(data) != "earlier trim" {
		t.Errorf("existing output was modified: %q", data)
	}
}

func TestTrimmer_VerifyInstalled(t *testing.T) {
	ok := NewTrimmer(WithCommandRunner(&mockRunner{output: []byte("ffmpeg version 6.1")}))
	if err := ok.VerifyInstalled(context.Background()); err != nil {
		t.Errorf("VerifyInstalled() unexpected error: %v", err)
	}

	missing := NewTrimmer(WithCommandRunner(&mockRunner{outputErr: errors.New("executable file not found")}))
	if err := missing.VerifyInstalled(context.Background()); err == nil {
		t.Error("VerifyInstalled() expected error")
	}
}
