package validator

import (
	"github.com/danmuck/chessjudge/internal/protocol"
	"github.com/danmuck/chessjudge/internal/puzzle"
)

// Validate checks resp against tc and returns the derived placement. Checks
// run in a fixed order and stop at the first failure, which is returned as
// *Error.
func Validate(tc puzzle.TestCase, resp protocol.Response) (puzzle.Placement, error) {
	if len(resp) != tc.ResponseLen() {
		return puzzle.Placement{}, &Error{Rule: RuleLength, Got: len(resp), Want: tc.ResponseLen()}
	}

	placement, err := readBoard(tc, resp)
	if err != nil {
		return puzzle.Placement{}, err
	}
	if err := readColors(tc, resp, placement); err != nil {
		return puzzle.Placement{}, err
	}
	if err := checkAttacks(placement); err != nil {
		return puzzle.Placement{}, err
	}
	return placement, nil
}

func readBoard(tc puzzle.TestCase, resp protocol.Response) (puzzle.Placement, error) {
	placement := puzzle.NewPlacement(tc.Grid)
	for r := 0; r < tc.N; r++ {
		for c := 0; c < tc.N; c++ {
			tok := resp.Board(r*tc.N + c)
			s := puzzle.Symbol(tok)
			at := puzzle.Coord{Row: r, Col: c}
			if !s.IsLegal() {
				return puzzle.Placement{}, &Error{Rule: RuleIllegalSymbol, At: at, Token: tok}
			}
			if tc.Grid[r][c] == puzzle.Wall && s != puzzle.Wall {
				return puzzle.Placement{}, &Error{Rule: RuleWallRemoved, At: at, Token: tok}
			}
			if tc.Grid[r][c] == puzzle.Empty && s == puzzle.Wall {
				return puzzle.Placement{}, &Error{Rule: RuleWallAdded, At: at, Token: tok}
			}
			placement.Board[r][c] = s
		}
	}
	return placement, nil
}

func readColors(tc puzzle.TestCase, resp protocol.Response, placement puzzle.Placement) error {
	for r := 0; r < tc.N; r++ {
		for c := 0; c < tc.N; c++ {
			if !placement.Board[r][c].IsPiece() {
				continue
			}
			tok := resp.Color(tc.N, r*tc.N+c)
			if tok < '0' || int(tok) >= '0'+tc.C {
				return &Error{Rule: RuleIllegalColor, At: puzzle.Coord{Row: r, Col: c}, Token: tok}
			}
			placement.Players[r][c] = int(tok - '0')
		}
	}
	return nil
}

func checkAttacks(p puzzle.Placement) error {
	for r := 0; r < p.N; r++ {
		for c := 0; c < p.N; c++ {
			at := puzzle.Coord{Row: r, Col: c}
			if target, ok := Attacks(p, at); ok {
				return &Error{Rule: RuleAttack, At: at, Target: target, Piece: p.Board[r][c]}
			}
		}
	}
	return nil
}

// Attacks reports the first differently colored piece attacked by the piece
// at `at`, scanning offsets in table order. Non-piece cells attack nothing.
func Attacks(p puzzle.Placement, at puzzle.Coord) (puzzle.Coord, bool) {
	piece := p.Board[at.Row][at.Col]
	move, ok := puzzle.MovementOf(piece)
	if !ok {
		return puzzle.Coord{}, false
	}
	color := p.Players[at.Row][at.Col]
	for _, off := range move.Offsets {
		var target puzzle.Coord
		var hit bool
		if move.Sliding {
			target, hit = slide(p, at, off, color)
		} else {
			target, hit = step(p, at, off, color)
		}
		if hit {
			return target, true
		}
	}
	return puzzle.Coord{}, false
}

// step tests the single destination cell; cells in between are irrelevant.
func step(p puzzle.Placement, at puzzle.Coord, off puzzle.Offset, color int) (puzzle.Coord, bool) {
	r, c := at.Row+off.DR, at.Col+off.DC
	if !p.InGrid(r, c) || !p.Board[r][c].IsPiece() {
		return puzzle.Coord{}, false
	}
	return puzzle.Coord{Row: r, Col: c}, p.Players[r][c] != color
}

// slide walks the ray until the edge or a wall. The first piece on the ray
// resolves it: own color blocks, another color is attacked.
func slide(p puzzle.Placement, at puzzle.Coord, off puzzle.Offset, color int) (puzzle.Coord, bool) {
	r, c := at.Row+off.DR, at.Col+off.DC
	for p.InGrid(r, c) && p.Board[r][c] != puzzle.Wall {
		if p.Board[r][c].IsPiece() {
			return puzzle.Coord{Row: r, Col: c}, p.Players[r][c] != color
		}
		r += off.DR
		c += off.DC
	}
	return puzzle.Coord{}, false
}
