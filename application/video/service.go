package video

import (
	"context"
	"fmt"
	"path/filepath"

	"video-trimmer/domain/video"

	"github.com/rs/zerolog"
)

// Options tunes a TrimService. The zero value is usable: default encode
// settings and drift tolerance, no overwrite confirmation.
type Options struct {
	Encode         video.EncodeSettings
	DriftTolerance float64

	// Force allows overwriting an existing output without asking
	Force bool
	// Confirm is asked before overwriting when Force is false. A nil
	// Confirm refuses every overwrite.
	Confirm video.ConfirmFunc

	Observer video.Observer
	Logger   *zerolog.Logger
}

// TrimInput represents the input for a trim operation
type TrimInput struct {
	InputPath  string
	OutputPath string // empty selects video.DefaultOutputPath
	StartTime  string // HH:MM:SS
	EndTime    string // HH:MM:SS
	Mode       video.Mode
}

// Outcome is everything learned by a successful trim
type Outcome struct {
	Request *video.TrimRequest
	Source  *video.MediaInfo
	Plan    video.TrimPlan
	Result  *video.TrimResult
	Warning *video.DriftWarning // nil when within tolerance
}

// TrimService coordinates video trimming operations
type TrimService struct {
	validator video.FileValidator
	prober    video.DurationProber
	trimmer   video.Trimmer
	checker   video.FileChecker
	verifier  *OutputVerifier
	opts      Options
	logger    zerolog.Logger
}

// NewTrimService creates a new TrimService
func NewTrimService(
	validator video.FileValidator,
	prober video.DurationProber,
	trimmer video.Trimmer,
	checker video.FileChecker,
	opts Options,
) *TrimService {
	if opts.Encode == (video.EncodeSettings{}) {
		opts.Encode = video.DefaultEncodeSettings()
	}
	if opts.Observer == nil {
		opts.Observer = video.NopObserver
	}

	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = opts.Logger.With().Str("component", "trim").Logger()
	}

	return &TrimService{
		validator: validator,
		prober:    prober,
		trimmer:   trimmer,
		checker:   checker,
		verifier:  NewOutputVerifier(checker, prober, opts.DriftTolerance),
		opts:      opts,
		logger:    logger,
	}
}

// Trim runs validate → parse → probe → range check → overwrite gate → trim
// → verify, reporting each transition to the observer. Every failure aborts
// the run; nothing is retried.
func (s *TrimService) Trim(ctx context.Context, input TrimInput) (outcome *Outcome, err error) {
	ev := video.Event{}
	defer func() {
		if err != nil {
			ev.Stage = video.StageFailed
			ev.Message = err.Error()
			ev.Err = err
			s.logger.Debug().Err(err).Msg("trim failed")
			s.opts.Observer(ev)
		}
	}()

	s.emit(&ev, video.StageValidating, fmt.Sprintf("Validating input file %s", input.InputPath))
	if err := s.validator.Validate(input.InputPath); err != nil {
		return nil, err
	}

	start, err := video.ParseTimestamp(input.StartTime)
	if err != nil {
		return nil, fmt.Errorf("invalid start time: %w", err)
	}
	end, err := video.ParseTimestamp(input.EndTime)
	if err != nil {
		return nil, fmt.Errorf("invalid end time: %w", err)
	}
	s.emit(&ev, video.StageTimeParsed, fmt.Sprintf("Start %s (%gs), end %s (%gs), segment %gs",
		start, start.Offset(), end, end.Offset(), end.Offset()-start.Offset()))

	source, err := s.prober.Probe(ctx, input.InputPath)
	if err != nil {
		return nil, err
	}
	ev.Media = source
	s.emit(&ev, video.StageProbed, fmt.Sprintf("Source duration %.2fs", source.DurationSeconds))

	if err := video.ValidateRange(start.Offset(), end.Offset(), source.DurationSeconds); err != nil {
		return nil, err
	}

	req, err := video.NewTrimRequest(input.InputPath, input.OutputPath, start, end, input.Mode)
	if err != nil {
		return nil, err
	}
	if samePath(req.InputPath, req.OutputPath) {
		return nil, fmt.Errorf("%w: %s", video.ErrOutputIsInput, req.OutputPath)
	}
	ev.Request = req
	s.emit(&ev, video.StageRangeValidated, "Time range is valid")

	if err := s.confirmOverwrite(&ev, req.OutputPath); err != nil {
		return nil, err
	}

	plan := video.NewTrimPlan(req, s.opts.Encode)
	ev.Plan = &plan
	s.emit(&ev, video.StageTrimming, fmt.Sprintf("Trimming in %s mode", req.Mode))
	if err := s.trimmer.Execute(ctx, plan); err != nil {
		return nil, err
	}

	s.emit(&ev, video.StageVerifying, fmt.Sprintf("Verifying %s", req.OutputPath))
	result, warning, err := s.verifier.Verify(ctx, req.OutputPath, req.Duration(), req.Mode)
	if err != nil {
		return nil, err
	}
	ev.Result = result
	ev.Warning = warning

	if warning != nil {
		s.logger.Warn().
			Float64("drift", warning.Drift).
			Float64("tolerance", warning.Tolerance).
			Str("mode", req.Mode.String()).
			Msg("output duration drift")
	}
	s.emit(&ev, video.StageDone, fmt.Sprintf("Saved %s", result.OutputPath))

	return &Outcome{
		Request: req,
		Source:  source,
		Plan:    plan,
		Result:  result,
		Warning: warning,
	}, nil
}

// confirmOverwrite gates writing over an existing output file
func (s *TrimService) confirmOverwrite(ev *video.Event, outputPath string) error {
	if !s.checker.Exists(outputPath) || s.opts.Force {
		return nil
	}

	s.emit(ev, video.StageConfirming, fmt.Sprintf("Output %s already exists", outputPath))
	if s.opts.Confirm == nil {
		return fmt.Errorf("%w: %s already exists (use --force to overwrite)", video.ErrUserCancelled, outputPath)
	}

	ok, err := s.opts.Confirm(outputPath)
	if err != nil {
		return fmt.Errorf("%w: overwrite prompt failed: %v", video.ErrUserCancelled, err)
	}
	if !ok {
		return fmt.Errorf("%w: not overwriting %s", video.ErrUserCancelled, outputPath)
	}
	return nil
}

func (s *TrimService) emit(ev *video.Event, stage video.Stage, msg string) {
	ev.Stage = stage
	ev.Message = msg
	s.logger.Debug().Str("stage", stage.String()).Msg(msg)
	s.opts.Observer(*ev)
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}
