//go:build integration

package steps

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	appvideo "video-trimmer/application/video"
	"video-trimmer/cmd"
	"video-trimmer/domain/video"
	"video-trimmer/infrastructure/ffmpeg"

	"github.com/cucumber/godog"
)

// mockTrimmer records executed plans and the ffmpeg arguments they map to
type mockTrimmer struct {
	calls       []trimCall
	failStderr  string
	writeOutput bool
	outDuration float64
	fileChecker *mockFileChecker
	prober      *mockProber
}

type trimCall struct {
	plan video.TrimPlan
	args []string
}

func (m *mockTrimmer) Execute(ctx context.Context, plan video.TrimPlan) error {
	m.calls = append(m.calls, trimCall{plan: plan, args: ffmpeg.BuildArgs(plan, plan.OutputPath)})
	if m.failStderr != "" {
		return &video.ExecutionError{Stderr: m.failStderr, Err: errors.New("exit status 1")}
	}
	if !m.writeOutput {
		return fmt.Errorf("%w: ffmpeg exited cleanly but wrote nothing for %s", video.ErrOutputMissing, plan.OutputPath)
	}
	m.fileChecker.existingFiles[plan.OutputPath] = true
	m.prober.durations[plan.OutputPath] = m.outDuration
	return nil
}

// mockFileChecker simulates file existence
type mockFileChecker struct {
	existingFiles map[string]bool
}

func (m *mockFileChecker) Exists(path string) bool {
	return m.existingFiles[path]
}

func (m *mockFileChecker) Size(path string) (int64, error) {
	if !m.existingFiles[path] {
		return 0, video.ErrNotFound
	}
	return 8 * 1024 * 1024, nil
}

// mockValidator accepts whatever the file checker knows about
type mockValidator struct {
	fileChecker *mockFileChecker
}

func (m *mockValidator) Validate(path string) error {
	if !m.fileChecker.existingFiles[path] {
		return fmt.Errorf("%w: %s", video.ErrNotFound, path)
	}
	if !strings.HasSuffix(strings.ToLower(path), ".mp4") {
		return fmt.Errorf("%w: %s", video.ErrUnsupportedFormat, path)
	}
	return nil
}

// mockProber reports a configured duration per path
type mockProber struct {
	durations map[string]float64
}

func (m *mockProber) Probe(ctx context.Context, path string) (*video.MediaInfo, error) {
	d, ok := m.durations[path]
	if !ok {
		return nil, fmt.Errorf("%w: %s", video.ErrProbeFailed, path)
	}
	return &video.MediaInfo{
		Path:            path,
		DurationSeconds: d,
		Streams:         []video.Stream{{CodecType: "video", CodecName: "h264"}},
	}, nil
}

// trimContext holds test state for trim scenarios
type trimContext struct {
	sourcePath  string
	outputPath  string
	mode        video.Mode
	force       bool
	confirm     *bool
	trimmer     *mockTrimmer
	fileChecker *mockFileChecker
	prober      *mockProber
	output      *bytes.Buffer
	events      []video.Event
	err         error
}

// SharedTrimContext is reset before each scenario via Before hook
var SharedTrimContext *trimContext

func getTrimContext() *trimContext {
	return SharedTrimContext
}

func InitializeTrimScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		fileChecker := &mockFileChecker{existingFiles: make(map[string]bool)}
		prober := &mockProber{durations: make(map[string]float64)}
		SharedTrimContext = &trimContext{
			trimmer: &mockTrimmer{
				fileChecker: fileChecker,
				prober:      prober,
				writeOutput: true,
			},
			fileChecker: fileChecker,
			prober:      prober,
			output:      &bytes.Buffer{},
		}
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		SharedTrimContext = nil
		return c, nil
	})

	ctx.Step(`^a source video at "([^"]*)" lasting (\d+(?:\.\d+)?) seconds$`, aSourceVideoAtLasting)
	ctx.Step(`^no source video exists at "([^"]*)"$`, noSourceVideoExistsAt)
	ctx.Step(`^a file already exists at "([^"]*)"$`, aFileAlreadyExistsAt)
	ctx.Step(`^the output is "([^"]*)"$`, theOutputIs)
	ctx.Step(`^fast mode is selected$`, fastModeIsSelected)
	ctx.Step(`^overwriting is forced$`, overwritingIsForced)
	ctx.Step(`^the user answers "(yes|no)" to the overwrite prompt$`, theUserAnswersToTheOverwritePrompt)
	ctx.Step(`^ffmpeg produces an output lasting (\d+(?:\.\d+)?) seconds$`, ffmpegProducesAnOutputLasting)
	ctx.Step(`^ffmpeg exits cleanly without writing the output$`, ffmpegExitsCleanlyWithoutWritingTheOutput)
	ctx.Step(`^ffmpeg fails with "([^"]*)"$`, ffmpegFailsWith)
	ctx.Step(`^I trim the video from "([^"]*)" to "([^"]*)"$`, iTrimTheVideoFromTo)
	ctx.Step(`^the trim should succeed$`, theTrimShouldSucceed)
	ctx.Step(`^the trim should not be reported as done$`, theTrimShouldNotBeReportedAsDone)
	ctx.Step(`^the output file should be "([^"]*)"$`, theOutputFileShouldBe)
	ctx.Step(`^the plan should seek to (\d+(?:\.\d+)?) seconds for (\d+(?:\.\d+)?) seconds$`, thePlanShouldSeekTo)
	ctx.Step(`^the plan tag should be "([^"]*)"$`, thePlanTagShouldBe)
	ctx.Step(`^ffmpeg should have been called with arguments:$`, ffmpegShouldHaveBeenCalledWithArguments)
	ctx.Step(`^ffmpeg should not have been called$`, ffmpegShouldNotHaveBeenCalled)
	ctx.Step(`^a drift warning should be reported$`, aDriftWarningShouldBeReported)
	ctx.Step(`^no drift warning should be reported$`, noDriftWarningShouldBeReported)
	ctx.Step(`^the warning should suggest accurate mode$`, theWarningShouldSuggestAccurateMode)
	ctx.Step(`^the trim should fail with "([^"]*)"$`, theTrimShouldFailWith)
	ctx.Step(`^the error message should mention "([^"]*)"$`, theErrorMessageShouldMention)
	ctx.Step(`^the last stage before failing should be "([^"]*)"$`, theLastStageBeforeFailingShouldBe)
	ctx.Step(`^the exit code should be (\d+)$`, theExitCodeShouldBe)
}

func aSourceVideoAtLasting(path string, seconds float64) error {
	t := getTrimContext()
	t.sourcePath = path
	t.fileChecker.existingFiles[path] = true
	t.prober.durations[path] = seconds
	return nil
}

func noSourceVideoExistsAt(path string) error {
	t := getTrimContext()
	t.sourcePath = path
	t.fileChecker.existingFiles[path] = false
	return nil
}

func aFileAlreadyExistsAt(path string) error {
	getTrimContext().fileChecker.existingFiles[path] = true
	return nil
}

func theOutputIs(path string) error {
	getTrimContext().outputPath = path
	return nil
}

func fastModeIsSelected() error {
	getTrimContext().mode = video.ModeFast
	return nil
}

func overwritingIsForced() error {
	getTrimContext().force = true
	return nil
}

func theUserAnswersToTheOverwritePrompt(answer string) error {
	yes := answer == "yes"
	getTrimContext().confirm = &yes
	return nil
}

func ffmpegProducesAnOutputLasting(seconds float64) error {
	getTrimContext().trimmer.outDuration = seconds
	return nil
}

func ffmpegExitsCleanlyWithoutWritingTheOutput() error {
	getTrimContext().trimmer.writeOutput = false
	return nil
}

func ffmpegFailsWith(stderr string) error {
	getTrimContext().trimmer.failStderr = stderr
	return nil
}

func iTrimTheVideoFromTo(start, end string) error {
	t := getTrimContext()

	opts := appvideo.Options{
		Force: t.force,
		Observer: func(e video.Event) {
			t.events = append(t.events, e)
		},
	}
	if t.confirm != nil {
		answer := *t.confirm
		opts.Confirm = func(string) (bool, error) { return answer, nil }
	}

	t.err = cmd.RunTrimWithDependencies(
		context.Background(),
		&mockValidator{fileChecker: t.fileChecker},
		t.prober,
		t.trimmer,
		t.fileChecker,
		appvideo.TrimInput{
			InputPath:  t.sourcePath,
			OutputPath: t.outputPath,
			StartTime:  start,
			EndTime:    end,
			Mode:       t.mode,
		},
		opts,
		t.output,
	)
	return nil
}

func lastEvent() (video.Event, error) {
	t := getTrimContext()
	if len(t.events) == 0 {
		return video.Event{}, fmt.Errorf("no events were emitted")
	}
	return t.events[len(t.events)-1], nil
}

func theTrimShouldSucceed() error {
	t := getTrimContext()
	if t.err != nil {
		return fmt.Errorf("unexpected error: %v", t.err)
	}
	return nil
}

func theTrimShouldNotBeReportedAsDone() error {
	for _, e := range getTrimContext().events {
		if e.Stage == video.StageDone {
			return fmt.Errorf("trim was reported as done: %s", e.Message)
		}
	}
	return nil
}

func theOutputFileShouldBe(expected string) error {
	t := getTrimContext()
	if len(t.trimmer.calls) == 0 {
		return fmt.Errorf("ffmpeg was not called")
	}
	if got := t.trimmer.calls[0].plan.OutputPath; got != expected {
		return fmt.Errorf("expected output path %q, got %q", expected, got)
	}
	return nil
}

func thePlanShouldSeekTo(seek, duration float64) error {
	t := getTrimContext()
	if len(t.trimmer.calls) == 0 {
		return fmt.Errorf("ffmpeg was not called")
	}
	plan := t.trimmer.calls[0].plan
	if plan.Seek != seek || plan.Duration != duration {
		return fmt.Errorf("expected seek %g duration %g, got seek %g duration %g", seek, duration, plan.Seek, plan.Duration)
	}
	return nil
}

func thePlanTagShouldBe(tag string) error {
	t := getTrimContext()
	if len(t.trimmer.calls) == 0 {
		return fmt.Errorf("ffmpeg was not called")
	}
	if got := t.trimmer.calls[0].plan.Params.Tag(); got != tag {
		return fmt.Errorf("expected plan tag %q, got %q", tag, got)
	}
	return nil
}

func ffmpegShouldHaveBeenCalledWithArguments(table *godog.Table) error {
	t := getTrimContext()
	if len(t.trimmer.calls) == 0 {
		return fmt.Errorf("ffmpeg was not called")
	}

	call := t.trimmer.calls[0]

	for i, row := range table.Rows {
		if i == 0 {
			continue // Skip header row
		}
		expectedArg := row.Cells[0].Value
		found := false
		for _, arg := range call.args {
			if arg == expectedArg {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("expected argument %q not found in ffmpeg call: %v", expectedArg, call.args)
		}
	}
	return nil
}

func ffmpegShouldNotHaveBeenCalled() error {
	t := getTrimContext()
	if len(t.trimmer.calls) != 0 {
		return fmt.Errorf("expected no ffmpeg call, got %d", len(t.trimmer.calls))
	}
	return nil
}

func aDriftWarningShouldBeReported() error {
	e, err := lastEvent()
	if err != nil {
		return err
	}
	if e.Stage != video.StageDone || e.Warning == nil {
		return fmt.Errorf("expected a drift warning on the done event, got stage %s warning %v", e.Stage, e.Warning)
	}
	return nil
}

func noDriftWarningShouldBeReported() error {
	e, err := lastEvent()
	if err != nil {
		return err
	}
	if e.Warning != nil {
		return fmt.Errorf("expected no drift warning, got %s", e.Warning)
	}
	return nil
}

func theWarningShouldSuggestAccurateMode() error {
	e, err := lastEvent()
	if err != nil {
		return err
	}
	if e.Warning == nil || !strings.Contains(e.Warning.Suggestion, "--accurate") {
		return fmt.Errorf("expected a suggestion to use --accurate, got %v", e.Warning)
	}
	return nil
}

var errorKinds = map[string]error{
	"InvalidFormat":     video.ErrInvalidFormat,
	"NotFound":          video.ErrNotFound,
	"UnsupportedFormat": video.ErrUnsupportedFormat,
	"ProbeFailed":       video.ErrProbeFailed,
	"InvalidRange":      video.ErrInvalidRange,
	"ExecutionFailed":   video.ErrExecutionFailed,
	"OutputMissing":     video.ErrOutputMissing,
	"UserCancelled":     video.ErrUserCancelled,
	"OutputIsInput":     video.ErrOutputIsInput,
}

func theTrimShouldFailWith(kind string) error {
	t := getTrimContext()
	target, ok := errorKinds[kind]
	if !ok {
		return fmt.Errorf("unknown error kind %q", kind)
	}
	if t.err == nil {
		return fmt.Errorf("expected %s error but got none", kind)
	}
	if !errors.Is(t.err, target) {
		return fmt.Errorf("expected %s error, got: %v", kind, t.err)
	}
	return nil
}

func theErrorMessageShouldMention(text string) error {
	t := getTrimContext()
	if t.err == nil {
		return fmt.Errorf("expected an error but got none")
	}
	if !strings.Contains(t.err.Error(), text) {
		return fmt.Errorf("expected error to mention %q, got: %v", text, t.err)
	}
	return nil
}

func theLastStageBeforeFailingShouldBe(stage string) error {
	t := getTrimContext()
	if len(t.events) < 2 {
		return fmt.Errorf("expected at least two events, got %d", len(t.events))
	}
	if final := t.events[len(t.events)-1].Stage; final != video.StageFailed {
		return fmt.Errorf("expected final stage failed, got %s", final)
	}
	if got := t.events[len(t.events)-2].Stage.String(); got != stage {
		return fmt.Errorf("expected last stage %q before failing, got %q", stage, got)
	}
	return nil
}

func theExitCodeShouldBe(code int) error {
	if got := cmd.ExitCode(getTrimContext().err); got != code {
		return fmt.Errorf("expected exit code %d, got %d", code, got)
	}
	return nil
}
