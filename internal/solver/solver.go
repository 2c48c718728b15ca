// Package solver is a sample candidate: it grows one separated region per
// color and greedily packs the most valuable safe pieces into each region.
package solver

import (
	"context"
	"math/rand/v2"
	"sort"
	"time"

	"github.com/danmuck/chessjudge/internal/protocol"
	"github.com/danmuck/chessjudge/internal/puzzle"
	"github.com/danmuck/chessjudge/internal/scorer"
	"github.com/danmuck/chessjudge/internal/validator"
)

const unclaimed = -1

type Options struct {
	// Budget bounds the restart loop. Zero means MaxRestarts alone decides.
	Budget time.Duration
	// MaxRestarts caps region-growing restarts. Zero means no cap, in which
	// case Budget must be set.
	MaxRestarts int
	Seed        uint64
}

func (o Options) done(start time.Time, restarts int) bool {
	if o.MaxRestarts > 0 && restarts >= o.MaxRestarts {
		return true
	}
	if o.Budget > 0 && time.Since(start) >= o.Budget {
		return true
	}
	return o.MaxRestarts <= 0 && o.Budget <= 0
}

// Solve returns the best attack-free placement found before ctx is done or
// the options stop it. The result always validates; the bare grid is the
// fallback.
func Solve(ctx context.Context, tc puzzle.TestCase, opts Options) puzzle.Placement {
	best := puzzle.NewPlacement(tc.Grid)
	bestScore := 0
	open := openCells(tc)
	if len(open) == 0 || tc.C < 1 {
		return best
	}

	rng := rand.New(rand.NewPCG(opts.Seed, uint64(tc.Seed)))
	order := piecesByValue(tc)
	start := time.Now()
	for restarts := 0; ; restarts++ {
		if ctx.Err() != nil || (restarts > 0 && opts.done(start, restarts)) {
			break
		}
		region := growRegions(tc, open, rng)
		p := pack(tc, region, order)
		if score := scorer.Score(tc, p).Final; score > bestScore || restarts == 0 {
			best, bestScore = p, score
		}
	}

	if _, err := validator.Validate(tc, Encode(tc, best)); err != nil {
		return puzzle.NewPlacement(tc.Grid)
	}
	return best
}

// Encode turns a placement into the response a candidate prints.
func Encode(tc puzzle.TestCase, p puzzle.Placement) protocol.Response {
	cells := tc.Cells()
	resp := make(protocol.Response, 2*cells)
	for r := 0; r < tc.N; r++ {
		for c := 0; c < tc.N; c++ {
			i := r*tc.N + c
			resp[i] = byte(p.Board[r][c])
			resp[cells+i] = '.'
			if p.Board[r][c].IsPiece() {
				resp[cells+i] = byte('0' + p.Players[r][c])
			}
		}
	}
	return resp
}

func openCells(tc puzzle.TestCase) []puzzle.Coord {
	var open []puzzle.Coord
	for r, row := range tc.Grid {
		for c, s := range row {
			if s == puzzle.Empty {
				open = append(open, puzzle.Coord{Row: r, Col: c})
			}
		}
	}
	return open
}

// piecesByValue orders piece types by descending points, breaking ties by
// enumeration order.
func piecesByValue(tc puzzle.TestCase) []puzzle.Symbol {
	order := append([]puzzle.Symbol(nil), puzzle.Pieces[:]...)
	sort.SliceStable(order, func(i, j int) bool {
		return tc.Points[order[i].Index()] > tc.Points[order[j].Index()]
	})
	return order
}

// growRegions floods one region per color from random open cells, one cell
// per color per round. A cell joins a region only if none of its eight
// neighbours belongs to another color, so regions never touch. Walls may be
// claimed to let a region pass through them but never hold a piece.
func growRegions(tc puzzle.TestCase, open []puzzle.Coord, rng *rand.Rand) [][]int {
	region := make([][]int, tc.N)
	for r := range region {
		region[r] = make([]int, tc.N)
		for c := range region[r] {
			region[r][c] = unclaimed
		}
	}

	queues := make([][]puzzle.Coord, tc.C)
	for color := range queues {
		queues[color] = []puzzle.Coord{open[rng.IntN(len(open))]}
	}

	canClaim := func(at puzzle.Coord, color int) bool {
		if region[at.Row][at.Col] != unclaimed {
			return false
		}
		if tc.Grid[at.Row][at.Col] == puzzle.Wall {
			return true
		}
		for _, n := range neighbours(tc, at) {
			if owner := region[n.Row][n.Col]; owner != unclaimed && owner != color {
				return false
			}
		}
		return true
	}

	for {
		grown := false
		for color := range queues {
			for len(queues[color]) > 0 {
				at := queues[color][0]
				queues[color] = queues[color][1:]
				if !canClaim(at, color) {
					continue
				}
				region[at.Row][at.Col] = color
				queues[color] = append(queues[color], neighbours(tc, at)...)
				if tc.Grid[at.Row][at.Col] == puzzle.Wall {
					continue
				}
				grown = true
				break
			}
		}
		if !grown {
			return region
		}
	}
}

func neighbours(tc puzzle.TestCase, at puzzle.Coord) []puzzle.Coord {
	out := make([]puzzle.Coord, 0, 8)
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			r, c := at.Row+dr, at.Col+dc
			if (dr != 0 || dc != 0) && tc.InGrid(r, c) {
				out = append(out, puzzle.Coord{Row: r, Col: c})
			}
		}
	}
	return out
}

// pack places the best safe piece on every open region cell, then offers the
// leftover cells to the poorest colors first.
func pack(tc puzzle.TestCase, region [][]int, order []puzzle.Symbol) puzzle.Placement {
	p := puzzle.NewPlacement(tc.Grid)
	scores := make([]int, tc.C)

	for r := 0; r < tc.N; r++ {
		for c := 0; c < tc.N; c++ {
			color := region[r][c]
			if color == unclaimed || tc.Grid[r][c] != puzzle.Empty {
				continue
			}
			if piece, ok := placeBest(&p, puzzle.Coord{Row: r, Col: c}, color, order); ok {
				scores[color] += tc.PointsFor(piece)
			}
		}
	}

	colors := make([]int, tc.C)
	for r := 0; r < tc.N; r++ {
		for c := 0; c < tc.N; c++ {
			if tc.Grid[r][c] != puzzle.Empty || p.Board[r][c] != puzzle.Empty {
				continue
			}
			for i := range colors {
				colors[i] = i
			}
			sort.SliceStable(colors, func(i, j int) bool { return scores[colors[i]] < scores[colors[j]] })
			for _, color := range colors {
				if piece, ok := placeBest(&p, puzzle.Coord{Row: r, Col: c}, color, order); ok {
					scores[color] += tc.PointsFor(piece)
					break
				}
			}
		}
	}
	return p
}

// placeBest puts the first piece of order that neither attacks nor is
// attacked by another color. The board is unchanged when nothing fits.
func placeBest(p *puzzle.Placement, at puzzle.Coord, color int, order []puzzle.Symbol) (puzzle.Symbol, bool) {
	p.Players[at.Row][at.Col] = color
	for _, piece := range order {
		p.Board[at.Row][at.Col] = piece
		if _, hit := validator.Attacks(*p, at); hit {
			continue
		}
		if attackedFrom(*p, at) {
			continue
		}
		return piece, true
	}
	p.Board[at.Row][at.Col] = puzzle.Empty
	p.Players[at.Row][at.Col] = 0
	return puzzle.Empty, false
}

// attackedFrom reports whether any piece of another color attacks at.
func attackedFrom(p puzzle.Placement, at puzzle.Coord) bool {
	color := p.Players[at.Row][at.Col]
	rays, _ := puzzle.MovementOf(puzzle.Queen)
	for _, d := range rays.Offsets {
		back := puzzle.Offset{DR: -d.DR, DC: -d.DC}
		r, c := at.Row+d.DR, at.Col+d.DC
		for dist := 1; p.InGrid(r, c) && p.Board[r][c] != puzzle.Wall; dist++ {
			s := p.Board[r][c]
			if s.IsPiece() {
				if p.Players[r][c] != color && (puzzle.SlidesAlong(s, back) || (dist == 1 && s == puzzle.King)) {
					return true
				}
				break
			}
			r += d.DR
			c += d.DC
		}
	}
	jumps, _ := puzzle.MovementOf(puzzle.Knight)
	for _, d := range jumps.Offsets {
		r, c := at.Row+d.DR, at.Col+d.DC
		if p.InGrid(r, c) && p.Board[r][c] == puzzle.Knight && p.Players[r][c] != color {
			return true
		}
	}
	return false
}
