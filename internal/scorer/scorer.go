// Package scorer turns a validated placement into per-color totals and the
// maximin final score.
package scorer

import (
	"math"

	"github.com/danmuck/chessjudge/internal/puzzle"
)

// Result holds the per-color totals and their minimum.
type Result struct {
	Scores []int `json:"scores"`
	Final  int   `json:"final"`
}

// Score adds each piece's point value to its color and takes the minimum
// across all tc.C colors. A color with no pieces scores 0.
func Score(tc puzzle.TestCase, p puzzle.Placement) Result {
	scores := make([]int, tc.C)
	for r, row := range p.Board {
		for c, s := range row {
			if !s.IsPiece() {
				continue
			}
			scores[p.Players[r][c]] += tc.PointsFor(s)
		}
	}
	return Result{Scores: scores, Final: Min(scores)}
}

// Min returns the smallest total, or 0 for no colors.
func Min(scores []int) int {
	if len(scores) == 0 {
		return 0
	}
	best := math.MaxInt
	for _, v := range scores {
		best = min(best, v)
	}
	return best
}
