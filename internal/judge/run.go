package judge

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/danmuck/chessjudge/internal/candidate"
	"github.com/danmuck/chessjudge/internal/generator"
	"github.com/danmuck/chessjudge/internal/observability"
	"github.com/danmuck/chessjudge/internal/protocol"
	"github.com/danmuck/chessjudge/internal/puzzle"
	"github.com/danmuck/chessjudge/internal/scorer"
	"github.com/danmuck/chessjudge/internal/validator"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var ErrNoCandidate = errors.New("judge: no candidate command configured")

// Exchanger is one live candidate. candidate.Process satisfies it.
type Exchanger interface {
	Exchange(ctx context.Context, tc puzzle.TestCase) (protocol.Response, error)
	Close() error
}

// Launcher starts a fresh candidate for a run.
type Launcher func(ctx context.Context) (Exchanger, error)

// CommandLauncher starts cfg.Command as a subprocess for every run.
func CommandLauncher(cfg candidate.Config) Launcher {
	return func(context.Context) (Exchanger, error) {
		return candidate.Start(cfg)
	}
}

// Run is the immutable description of one judging run. The zero Params
// value is replaced with generator.DefaultParams.
type Run struct {
	Seed   int64
	Params generator.Params
	Launch Launcher
	Logger *zerolog.Logger
}

// Execute runs every stage in order and stops at the first failure. The
// candidate is always closed before Execute returns.
func (r Run) Execute(ctx context.Context) Outcome {
	start := time.Now()
	runID := uuid.NewString()
	base := observability.ComponentLogger("judge")
	if r.Logger != nil {
		base = *r.Logger
	}
	logger := base.With().Str("run", runID).Int64("seed", r.Seed).Logger()

	out := r.execute(ctx, logger)
	out.RunID = runID
	out.Seed = r.Seed
	out.Duration = time.Since(start)

	observability.RecordRun(string(out.Verdict), out.Score)
	event := logger.Info()
	if out.Fatal() {
		event = logger.Warn().Str("diagnostic", out.Diagnostic)
	}
	event.Str("verdict", string(out.Verdict)).Int("score", out.Score).Dur("duration", out.Duration).Msg("run finished")
	return out
}

func (r Run) execute(ctx context.Context, logger zerolog.Logger) Outcome {
	params := r.Params
	if params == (generator.Params{}) {
		params = generator.DefaultParams()
	}
	tc, err := generator.Generate(r.Seed, params)
	if err != nil {
		return fatal(GenerationError, err)
	}
	logger.Debug().Int("n", tc.N).Int("c", tc.C).Msg("test case generated")

	if r.Launch == nil {
		out := fatal(ProtocolError, ErrNoCandidate)
		out.Case = &tc
		return out
	}
	resp, err := r.exchange(ctx, tc)
	if err != nil {
		out := fatal(ProtocolError, err)
		out.Case = &tc
		return out
	}
	return Evaluate(tc, resp)
}

func (r Run) exchange(ctx context.Context, tc puzzle.TestCase) (protocol.Response, error) {
	proc, err := r.Launch(ctx)
	if err != nil {
		return nil, err
	}
	defer proc.Close()

	begin := time.Now()
	resp, err := proc.Exchange(ctx, tc)
	observability.RecordExchange(exchangeOutcome(err), time.Since(begin))
	return resp, err
}

func exchangeOutcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, candidate.ErrTimeout):
		return "timeout"
	default:
		return "error"
	}
}

// Evaluate validates and scores a response that was obtained elsewhere.
// Only the verdict, score and placement fields are set.
func Evaluate(tc puzzle.TestCase, resp protocol.Response) Outcome {
	placement, err := validator.Validate(tc, resp)
	if err != nil {
		out := fatal(ValidationError, err)
		out.Seed = tc.Seed
		out.Case = &tc
		return out
	}
	result := scorer.Score(tc, placement)
	return Outcome{
		Seed:      tc.Seed,
		Verdict:   Accepted,
		Score:     result.Final,
		Scores:    result.Scores,
		Case:      &tc,
		Placement: &placement,
	}
}

// Describe renders the outcome the way the command line reports it.
func (o Outcome) Describe() string {
	if o.Fatal() {
		return fmt.Sprintf("%s: %s", o.Verdict, o.Diagnostic)
	}
	return fmt.Sprintf("%s: scores %v", o.Verdict, o.Scores)
}

// EvaluateText parses a wire-format response and evaluates it. Parse
// failures are protocol errors, as they would be for a live candidate.
func EvaluateText(tc puzzle.TestCase, text string) Outcome {
	resp, err := protocol.ParseResponse(text, tc.N)
	if err != nil {
		out := fatal(ProtocolError, err)
		out.Seed = tc.Seed
		out.Case = &tc
		return out
	}
	return Evaluate(tc, resp)
}
