package generator

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/danmuck/chessjudge/internal/puzzle"
	"github.com/rs/zerolog/log"
)

var (
	ErrGeneration    = errors.New("generator: test case generation failed")
	ErrInvalidParams = errors.New("generator: invalid parameters")
)

const (
	// MinBoundarySeed forces the smallest board and a fixed wall density.
	MinBoundarySeed int64 = 1
	// MaxBoundarySeed forces the largest board.
	MaxBoundarySeed int64 = 2

	boundaryWallP = 0.19962386685404293

	// Colors travel as one decimal digit on the wire.
	maxColors = 10
)

// Params bounds the random draws.
type Params struct {
	MinN     int
	MaxN     int
	MinC     int
	MaxC     int
	MinWallP float64
	MaxWallP float64
}

func DefaultParams() Params {
	return Params{
		MinN:     8,
		MaxN:     50,
		MinC:     2,
		MaxC:     8,
		MinWallP: 0.15,
		MaxWallP: 0.65,
	}
}

func (p Params) Validate() error {
	switch {
	case p.MinN < 1 || p.MaxN < p.MinN:
		return fmt.Errorf("%w: n range [%d,%d]", ErrInvalidParams, p.MinN, p.MaxN)
	case p.MinC < 1 || p.MaxC < p.MinC || p.MaxC > maxColors:
		return fmt.Errorf("%w: color range [%d,%d]", ErrInvalidParams, p.MinC, p.MaxC)
	case p.MinWallP < 0 || p.MaxWallP > 1 || p.MaxWallP < p.MinWallP:
		return fmt.Errorf("%w: wall probability range [%g,%g]", ErrInvalidParams, p.MinWallP, p.MaxWallP)
	}
	return nil
}

// Generate builds the test case for seed. The sequence and count of random
// draws is fixed; changing it breaks every previously published seed.
func Generate(seed int64, params Params) (tc puzzle.TestCase, err error) {
	if err := params.Validate(); err != nil {
		return puzzle.TestCase{}, fmt.Errorf("%w: %w", ErrGeneration, err)
	}
	defer func() {
		if r := recover(); r != nil {
			tc = puzzle.TestCase{}
			err = fmt.Errorf("%w: seed=%d: %v", ErrGeneration, seed, r)
		}
	}()

	rng := newSHA1PRNG(seed)

	n := rng.intRange(params.MinN, params.MaxN)
	switch seed {
	case MinBoundarySeed:
		n = params.MinN
	case MaxBoundarySeed:
		n = params.MaxN
	}

	c := rng.intRange(params.MinC, params.MaxC)

	wallP := wallProbability(seed, params, rng.nextDouble())

	grid := make([][]puzzle.Symbol, n)
	for r := range grid {
		grid[r] = make([]puzzle.Symbol, n)
		for k := range grid[r] {
			if rng.nextDouble() < wallP {
				grid[r][k] = puzzle.Wall
			} else {
				grid[r][k] = puzzle.Empty
			}
		}
	}

	var points [puzzle.PieceCount]int
	for i, piece := range puzzle.Pieces {
		lo, hi := pointRange(piece, n)
		points[i] = rng.intRange(lo, hi)
	}

	tc = puzzle.TestCase{Seed: seed, N: n, C: c, Grid: grid, Points: points}
	log.Debug().
		Int64("seed", seed).
		Int("n", n).
		Int("c", c).
		Float64("wall_p", wallP).
		Ints("points", points[:]).
		Msg("test case generated")
	return tc, nil
}

// wallProbability scales the uniform draw u into the configured range. The
// draw is consumed even when seed overrides it.
func wallProbability(seed int64, params Params, u float64) float64 {
	if seed == MinBoundarySeed {
		return boundaryWallP
	}
	return u*(params.MaxWallP-params.MinWallP) + params.MinWallP
}

// pointRange is the inclusive point range of a piece type on an n-sized board.
func pointRange(piece puzzle.Symbol, n int) (int, int) {
	switch piece {
	case puzzle.King:
		return 3, 8
	case puzzle.Queen:
		return 3 * n, 4 * n
	case puzzle.Rook:
		return n * 3 / 2, n * 5 / 2
	case puzzle.Bishop:
		return n, 2 * n
	case puzzle.Knight:
		return 2, 8
	}
	panic(fmt.Sprintf("generator: no point range for %v", piece))
}

// WriteSummary prints a human-readable dump of tc.
func WriteSummary(w io.Writer, tc puzzle.TestCase) error {
	var b strings.Builder
	fmt.Fprintf(&b, "seed = %d\n", tc.Seed)
	fmt.Fprintf(&b, "N = %d\n", tc.N)
	fmt.Fprintf(&b, "C = %d\n", tc.C)
	b.WriteString("Points:")
	for _, p := range tc.Points {
		fmt.Fprintf(&b, " %d", p)
	}
	b.WriteString("\nGrid:\n")
	b.WriteString(puzzle.GridString(tc.Grid))
	_, err := io.WriteString(w, b.String())
	return err
}
