package editor

// CursorState tracks the cursor and the scroll offsets of the viewport.
type CursorState struct {
	// x is the byte index of the cursor within the current row's chars.
	x int
	// y is the row index. It may equal the number of rows: that is the
	// valid "past the last row" position used while appending.
	y int
	// roff and coff are the row and column offsets of the viewport.
	roff, coff int
}

func (c *CursorState) moveToNextLine() {
	c.y++
	c.x = 0
}

// scroll clamps the viewport offsets so the cursor stays visible. After it
// returns, roff <= y <= roff+screenRows-1 and coff <= rx <= coff+screenCols-1
// whenever the window is non-empty.
func (c *CursorState) scroll(rx, screenRows, screenCols int) {
	c.roff = clamp(c.roff, c.y-max(screenRows-1, 0), c.y)
	c.coff = clamp(c.coff, rx-max(screenCols-1, 0), rx)
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
