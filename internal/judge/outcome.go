package judge

import (
	"time"

	"github.com/danmuck/chessjudge/internal/puzzle"
)

// Verdict is the terminal state of a run.
type Verdict string

const (
	Accepted        Verdict = "accepted"
	GenerationError Verdict = "generation_error"
	ProtocolError   Verdict = "protocol_error"
	ValidationError Verdict = "validation_error"
)

// FatalScore is reported for every verdict other than Accepted.
const FatalScore = -1

// Outcome is the result of one run. Scores is nil unless the verdict is
// Accepted.
type Outcome struct {
	RunID      string        `json:"run_id,omitempty"`
	Seed       int64         `json:"seed"`
	Verdict    Verdict       `json:"verdict"`
	Score      int           `json:"score"`
	Scores     []int         `json:"scores,omitempty"`
	Diagnostic string        `json:"diagnostic,omitempty"`
	Duration   time.Duration `json:"duration_ns"`

	Err       error             `json:"-"`
	Case      *puzzle.TestCase  `json:"-"`
	Placement *puzzle.Placement `json:"-"`
}

func (o Outcome) Fatal() bool {
	return o.Verdict != Accepted
}

func fatal(verdict Verdict, err error) Outcome {
	return Outcome{Verdict: verdict, Score: FatalScore, Diagnostic: err.Error(), Err: err}
}

// Snapshot is a detached copy of everything a renderer may draw. Board and
// Players are nil when no placement was accepted.
type Snapshot struct {
	Seed    int64
	N       int
	C       int
	Grid    [][]puzzle.Symbol
	Board   [][]puzzle.Symbol
	Players [][]int
	Points  [puzzle.PieceCount]int
	Scores  []int
	Score   int
	Verdict Verdict
}

// Snapshot deep-copies the run state so consumers can never alias it.
func (o Outcome) Snapshot() Snapshot {
	snap := Snapshot{
		Seed:    o.Seed,
		Score:   o.Score,
		Verdict: o.Verdict,
		Scores:  append([]int(nil), o.Scores...),
	}
	if o.Case != nil {
		snap.N = o.Case.N
		snap.C = o.Case.C
		snap.Grid = puzzle.CloneGrid(o.Case.Grid)
		snap.Points = o.Case.Points
	}
	if o.Placement != nil {
		p := o.Placement.Clone()
		snap.Board = p.Board
		snap.Players = p.Players
	}
	return snap
}
