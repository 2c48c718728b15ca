package protocol

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/danmuck/chessjudge/internal/puzzle"
)

// ReadResponse reads one candidate response for an n-sized board. The
// declared length must be exactly 2*n*n; a mismatch is rejected before any
// token is read.
func ReadResponse(r io.Reader, n int) (Response, error) {
	br := asBufio(r)
	want := 2 * n * n

	length, err := readInt(br)
	if err != nil {
		return nil, err
	}
	if length != want {
		return nil, fmt.Errorf("%w: declared %d, want %d", ErrLengthMismatch, length, want)
	}

	resp := make(Response, length)
	for i := range resp {
		tok, err := readToken(br)
		if err != nil {
			return nil, fmt.Errorf("token %d of %d: %w", i, length, err)
		}
		resp[i] = tok
	}
	return resp, nil
}

// ParseResponse decodes a response held in memory.
func ParseResponse(text string, n int) (Response, error) {
	return ReadResponse(strings.NewReader(text), n)
}

// ReadRequest decodes the request a candidate receives on stdin.
func ReadRequest(r io.Reader) (puzzle.TestCase, error) {
	br := asBufio(r)
	n, err := readInt(br)
	if err != nil {
		return puzzle.TestCase{}, fmt.Errorf("read N: %w", err)
	}
	c, err := readInt(br)
	if err != nil {
		return puzzle.TestCase{}, fmt.Errorf("read C: %w", err)
	}
	if n < 1 || c < 1 {
		return puzzle.TestCase{}, fmt.Errorf("%w: N=%d C=%d", ErrInvalidRequest, n, c)
	}

	tc := puzzle.TestCase{N: n, C: c, Grid: make([][]puzzle.Symbol, n)}
	for row := range tc.Grid {
		tc.Grid[row] = make([]puzzle.Symbol, n)
		for col := range tc.Grid[row] {
			tok, err := readToken(br)
			if err != nil {
				return puzzle.TestCase{}, fmt.Errorf("read cell (%d,%d): %w", row, col, err)
			}
			s := puzzle.Symbol(tok)
			if s != puzzle.Empty && s != puzzle.Wall {
				return puzzle.TestCase{}, fmt.Errorf("%w: cell (%d,%d) is %q", ErrInvalidRequest, row, col, tok)
			}
			tc.Grid[row][col] = s
		}
	}
	for i := range tc.Points {
		v, err := readInt(br)
		if err != nil {
			return puzzle.TestCase{}, fmt.Errorf("read %v points: %w", puzzle.Pieces[i], err)
		}
		tc.Points[i] = v
	}
	return tc, nil
}

func asBufio(r io.Reader) *bufio.Reader {
	if br, ok := r.(*bufio.Reader); ok {
		return br
	}
	return bufio.NewReader(r)
}

// readLine returns the next line without its terminator. A final line
// without a newline is accepted; nothing at all is ErrTruncated.
func readLine(br *bufio.Reader) (string, error) {
	line, err := br.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r"), nil
		}
		if errors.Is(err, io.EOF) {
			return "", ErrTruncated
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func readInt(br *bufio.Reader) (int, error) {
	line, err := readLine(br)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNumber, line)
	}
	return v, nil
}

func readToken(br *bufio.Reader) (byte, error) {
	line, err := readLine(br)
	if err != nil {
		return 0, err
	}
	if line == "" {
		return 0, ErrEmptyToken
	}
	return line[0], nil
}
