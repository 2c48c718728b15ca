package render

import (
	"bytes"
	"errors"
	"image/color"
	"image/png"
	"path/filepath"
	"strings"
	"testing"

	"github.com/danmuck/chessjudge/internal/judge"
	"github.com/danmuck/chessjudge/internal/puzzle"
	"github.com/danmuck/chessjudge/internal/testutil/testlog"
)

func sampleSnapshot() judge.Snapshot {
	grid := [][]puzzle.Symbol{
		[]puzzle.Symbol(".#."),
		[]puzzle.Symbol("..."),
		[]puzzle.Symbol("..#"),
	}
	board := [][]puzzle.Symbol{
		[]puzzle.Symbol("K#."),
		[]puzzle.Symbol("..N"),
		[]puzzle.Symbol("..#"),
	}
	players := [][]int{{0, 0, 0}, {0, 0, 1}, {0, 0, 0}}
	return judge.Snapshot{
		N:       3,
		C:       2,
		Grid:    grid,
		Board:   board,
		Players: players,
		Points:  [puzzle.PieceCount]int{5, 10, 6, 4, 3},
		Scores:  []int{5, 3},
		Score:   3,
		Verdict: judge.Accepted,
	}
}

func sameRGB(got color.Color, want color.RGBA) bool {
	r, g, b, _ := got.RGBA()
	return uint8(r>>8) == want.R && uint8(g>>8) == want.G && uint8(b>>8) == want.B
}

func TestImageLayout(t *testing.T) {
	testlog.Start(t)
	img, err := Image(sampleSnapshot(), Options{CellSize: 30})
	if err != nil {
		t.Fatalf("image: %v", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() != 3*30+panelWidth {
		t.Fatalf("unexpected width %d", bounds.Dx())
	}
	if bounds.Dy() != 200+lineHeight*3 {
		t.Fatalf("unexpected height %d", bounds.Dy())
	}

	// Sample near the top-left corner of each cell, away from the letter.
	at := func(r, c int) color.Color {
		return img.At(margin+c*30+3, margin+r*30+3)
	}
	if !sameRGB(at(0, 1), wallColor) {
		t.Fatalf("wall cell not gray: %v", at(0, 1))
	}
	if !sameRGB(at(0, 0), PlayerColor(0)) {
		t.Fatalf("player 0 piece not drawn in its color: %v", at(0, 0))
	}
	if !sameRGB(at(1, 2), PlayerColor(1)) {
		t.Fatalf("player 1 piece not drawn in its color: %v", at(1, 2))
	}
	if !sameRGB(at(1, 0), color.RGBA{0xff, 0xff, 0xff, 0xff}) {
		t.Fatalf("empty cell not white: %v", at(1, 0))
	}
}

func TestImageFallsBackToGrid(t *testing.T) {
	testlog.Start(t)
	snap := sampleSnapshot()
	snap.Board, snap.Players, snap.Scores = nil, nil, nil
	snap.Verdict, snap.Score = judge.ValidationError, judge.FatalScore

	img, err := Image(snap, Options{})
	if err != nil {
		t.Fatalf("image: %v", err)
	}
	if !sameRGB(img.At(margin+2*DefaultCellSize+3, margin+2*DefaultCellSize+3), wallColor) {
		t.Fatalf("grid wall missing from fallback rendering")
	}
}

func TestImageRejectsEmptySnapshot(t *testing.T) {
	testlog.Start(t)
	if _, err := Image(judge.Snapshot{}, Options{}); !errors.Is(err, ErrEmptySnapshot) {
		t.Fatalf("expected ErrEmptySnapshot, got %v", err)
	}
}

func TestWritePNGAndSave(t *testing.T) {
	testlog.Start(t)
	var buf bytes.Buffer
	if err := WritePNG(&buf, sampleSnapshot(), Options{}); err != nil {
		t.Fatalf("write png: %v", err)
	}
	if _, err := png.Decode(&buf); err != nil {
		t.Fatalf("decode png: %v", err)
	}

	path := filepath.Join(t.TempDir(), "run.png")
	if err := SavePNG(path, sampleSnapshot(), Options{CellSize: BoundaryCellSize}); err != nil {
		t.Fatalf("save png: %v", err)
	}
}

func TestPlayerColorWraps(t *testing.T) {
	testlog.Start(t)
	if PlayerColor(8) != PlayerColor(0) || PlayerColor(9) != PlayerColor(1) {
		t.Fatalf("palette should wrap after %d colors", len(playerColors))
	}
}

func TestWriteText(t *testing.T) {
	testlog.Start(t)
	var buf bytes.Buffer
	if err := WriteText(&buf, sampleSnapshot()); err != nil {
		t.Fatalf("write text: %v", err)
	}
	want := "Board:\nK#.\n..N\n..#\nColors:\n0..\n..1\n...\nPlayer 1: 5\nPlayer 2: 3\n"
	if buf.String() != want {
		t.Fatalf("unexpected text:\n%s", buf.String())
	}

	buf.Reset()
	snap := sampleSnapshot()
	snap.Board = nil
	snap.Verdict = judge.ProtocolError
	WriteText(&buf, snap)
	if !strings.Contains(buf.String(), "protocol_error") {
		t.Fatalf("expected verdict in text, got %q", buf.String())
	}
}
