package protocol

// Response is the flat token sequence returned by a candidate: the board
// layer row-major followed by the color layer row-major.
type Response []byte

// Board returns the board-layer token of cell i (row-major).
func (r Response) Board(i int) byte {
	return r[i]
}

// Color returns the color-layer token of cell i for an n-sized board.
func (r Response) Color(n, i int) byte {
	return r[n*n+i]
}
