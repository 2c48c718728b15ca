package render

import (
	"bufio"
	"fmt"
	"io"

	"github.com/danmuck/chessjudge/internal/judge"
	"github.com/danmuck/chessjudge/internal/puzzle"
)

// WriteText dumps the received board and color layers, one row per line,
// followed by the per-color totals.
func WriteText(w io.Writer, snap judge.Snapshot) error {
	bw := bufio.NewWriter(w)
	if snap.Board == nil {
		fmt.Fprintf(bw, "No placement (%s).\n", snap.Verdict)
		return bw.Flush()
	}

	fmt.Fprintln(bw, "Board:")
	bw.WriteString(puzzle.GridString(snap.Board))
	fmt.Fprintln(bw, "Colors:")
	for r, row := range snap.Board {
		for c, s := range row {
			if s.IsPiece() {
				bw.WriteByte(byte('0' + snap.Players[r][c]))
			} else {
				bw.WriteByte('.')
			}
		}
		bw.WriteByte('\n')
	}
	for i, score := range snap.Scores {
		fmt.Fprintf(bw, "Player %d: %d\n", i+1, score)
	}
	return bw.Flush()
}
