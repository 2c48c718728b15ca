package validator

import (
	"fmt"

	"github.com/danmuck/chessjudge/internal/puzzle"
)

// Rule names the check a response failed.
type Rule string

const (
	RuleLength        Rule = "length"
	RuleIllegalSymbol Rule = "illegal_symbol"
	RuleWallRemoved   Rule = "wall_removed"
	RuleWallAdded     Rule = "wall_added"
	RuleIllegalColor  Rule = "illegal_color"
	RuleAttack        Rule = "attack"
)

// Error is a fatal validation failure. At is the offending cell; Target is
// the attacked cell for RuleAttack.
type Error struct {
	Rule   Rule
	At     puzzle.Coord
	Target puzzle.Coord
	Piece  puzzle.Symbol
	Token  byte
	Got    int
	Want   int
}

func (e *Error) Error() string {
	switch e.Rule {
	case RuleLength:
		return fmt.Sprintf("Your return did not contain %d elements.", e.Want)
	case RuleIllegalSymbol:
		return fmt.Sprintf("Cell %v has illegal character %c", e.At, e.Token)
	case RuleWallRemoved:
		return fmt.Sprintf("You cannot remove the wall at cell %v (found %c)", e.At, e.Token)
	case RuleWallAdded:
		return fmt.Sprintf("You cannot add a wall to cell %v (found %c)", e.At, e.Token)
	case RuleIllegalColor:
		return fmt.Sprintf("Illegal colour %c at cell %v", e.Token, e.At)
	case RuleAttack:
		return fmt.Sprintf("%v at %v attacks piece at %v", e.Piece, e.At, e.Target)
	}
	return fmt.Sprintf("validator: rule %s failed at %v", e.Rule, e.At)
}
