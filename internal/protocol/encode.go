package protocol

import (
	"bufio"
	"io"
	"strconv"

	"github.com/danmuck/chessjudge/internal/puzzle"
)

// WriteRequest writes tc to w: N, C, the grid row-major one cell per line,
// then the point value of each piece type in enumeration order.
func WriteRequest(w io.Writer, tc puzzle.TestCase) error {
	bw := bufio.NewWriter(w)
	writeInt(bw, tc.N)
	writeInt(bw, tc.C)
	for _, row := range tc.Grid {
		for _, s := range row {
			bw.WriteByte(byte(s))
			bw.WriteByte('\n')
		}
	}
	for _, p := range tc.Points {
		writeInt(bw, p)
	}
	return bw.Flush()
}

// WriteResponse writes resp to w: its length, then one token per line.
func WriteResponse(w io.Writer, resp Response) error {
	bw := bufio.NewWriter(w)
	writeInt(bw, len(resp))
	for _, tok := range resp {
		bw.WriteByte(tok)
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// bufio.Writer keeps the first error and reports it on Flush.
func writeInt(bw *bufio.Writer, v int) {
	bw.WriteString(strconv.Itoa(v))
	bw.WriteByte('\n')
}
