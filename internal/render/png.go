package render

import (
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/danmuck/chessjudge/internal/judge"
	"github.com/danmuck/chessjudge/internal/puzzle"
	"github.com/fogleman/gg"
)

const (
	DefaultCellSize = 20
	// BoundaryCellSize is used for the smallest boundary case so it stays
	// readable.
	BoundaryCellSize = 50

	margin     = 10
	panelWidth = 230
	lineHeight = 20
)

var ErrEmptySnapshot = errors.New("render: snapshot has no grid")

type Options struct {
	CellSize int
}

func (o Options) cellSize() int {
	if o.CellSize <= 0 {
		return DefaultCellSize
	}
	return o.CellSize
}

// Image draws the board with its side panel. The board shows the accepted
// placement when there is one and the bare grid otherwise.
func Image(snap judge.Snapshot, opts Options) (image.Image, error) {
	if snap.N == 0 || len(snap.Grid) == 0 {
		return nil, ErrEmptySnapshot
	}
	sz := float64(opts.cellSize())
	n := float64(snap.N)
	board := snap.Board
	if board == nil {
		board = snap.Grid
	}

	width := int(n*sz) + panelWidth
	height := max(int(n*sz)+40, 200+lineHeight*(snap.C+1))
	dc := gg.NewContext(width, height)
	dc.SetColor(background)
	dc.Clear()

	dc.SetRGB(1, 1, 1)
	dc.DrawRectangle(margin, margin, n*sz, n*sz)
	dc.Fill()

	dc.SetRGB(0, 0, 0)
	dc.SetLineWidth(1)
	for i := 0; i <= snap.N; i++ {
		off := float64(i) * sz
		dc.DrawLine(margin, margin+off, margin+n*sz, margin+off)
		dc.DrawLine(margin+off, margin, margin+off, margin+n*sz)
	}
	dc.Stroke()

	for r, row := range board {
		for c, s := range row {
			x := margin + float64(c)*sz
			y := margin + float64(r)*sz
			switch {
			case s == puzzle.Wall:
				dc.SetColor(wallColor)
				dc.DrawRectangle(x+1, y+1, sz-1, sz-1)
				dc.Fill()
			case s.IsPiece():
				player := 0
				if snap.Players != nil {
					player = snap.Players[r][c]
				}
				dc.SetColor(PlayerColor(player))
				dc.DrawRectangle(x+1, y+1, sz-1, sz-1)
				dc.Fill()
				dc.SetRGB(0, 0, 0)
				dc.DrawStringAnchored(string(byte(s)), x+sz/2, y+sz/2, 0.5, 0.5)
			}
		}
	}

	panelX := n*sz + 25
	dc.SetRGB(0, 0, 0)
	dc.DrawString(fmt.Sprintf("SCORE %d", snap.Score), panelX, 30)
	for i, p := range puzzle.Pieces {
		dc.DrawString(fmt.Sprintf("%v: %d points", p, snap.Points[i]), panelX, float64(70+lineHeight*i))
	}
	for i, score := range snap.Scores {
		dc.SetColor(PlayerColor(i))
		dc.DrawString(fmt.Sprintf("Player %d: %d", i+1, score), panelX, float64(200+lineHeight*i))
	}
	return dc.Image(), nil
}

// WritePNG encodes Image as PNG.
func WritePNG(w io.Writer, snap judge.Snapshot, opts Options) error {
	img, err := Image(snap, opts)
	if err != nil {
		return err
	}
	dc := gg.NewContextForImage(img)
	return dc.EncodePNG(w)
}

// SavePNG writes the rendering to path.
func SavePNG(path string, snap judge.Snapshot, opts Options) error {
	img, err := Image(snap, opts)
	if err != nil {
		return err
	}
	if err := gg.SavePNG(path, img); err != nil {
		return fmt.Errorf("render: save %s: %w", path, err)
	}
	return nil
}
