package editor

import "unicode/utf8"

// Row is one line of the document: raw bytes plus data derived from them
// (rendered columns, per-column highlighting, byte<->column maps). Derived
// data is only valid after update has run; the document engine re-runs it
// after every mutation.
type Row struct {
	// chars is the raw content of the line, without a trailing newline.
	chars []byte
	// render is the displayed form: tabs expanded to the tab stop, invalid
	// or control bytes replaced with '?'.
	render []rune
	// hl classifies each render column.
	hl []HlKind
	// cx2rx maps a byte index (0..=len(chars)) to a render column. All
	// bytes of a multi-byte character map to the character's first column.
	cx2rx []int
	// rx2cx maps a render column (0..=len(render)) back to the byte index
	// of the character occupying it.
	rx2cx []int
	// hlState is the tokenizer state at the end of this row, as computed by
	// the last update.
	hlState HlState
	// matchStart/matchEnd delimit the current search match in render
	// columns. matchStart is -1 when there is no match on this row.
	matchStart, matchEnd int
}

func newRow(chars []byte) *Row {
	return &Row{chars: chars, matchStart: -1}
}

// update recomputes render, cx2rx, rx2cx and hl from the current bytes,
// starting the tokenizer in state `in`. It returns the state at the end of
// the row so the caller can decide whether following rows need updating too.
func (r *Row) update(syntax *SyntaxConf, in HlState, tabStop int) HlState {
	r.render = r.render[:0]
	r.cx2rx = r.cx2rx[:0]
	r.rx2cx = r.rx2cx[:0]
	rx := 0
	for i := 0; i < len(r.chars); {
		c, size := utf8.DecodeRune(r.chars[i:])
		var cols []rune
		switch {
		case c == '\t':
			n := tabStop - rx%tabStop
			cols = make([]rune, n)
			for k := range cols {
				cols[k] = ' '
			}
		case c == utf8.RuneError && size == 1, c < 0x20, c == 0x7f:
			cols = []rune{'?'}
		default:
			cols = []rune{c}
		}
		for k := 0; k < size; k++ {
			r.cx2rx = append(r.cx2rx, rx)
		}
		for _, col := range cols {
			r.render = append(r.render, col)
			r.rx2cx = append(r.rx2cx, i)
		}
		rx += len(cols)
		i += size
	}
	r.cx2rx = append(r.cx2rx, rx)
	r.rx2cx = append(r.rx2cx, len(r.chars))
	r.hl, r.hlState = syntax.Scan(r.render, in)
	return r.hlState
}

// charSize returns the byte length (1-4) of the UTF-8 character occupying
// the given render column. Cursor motion and deletion move by characters,
// never by raw bytes.
func (r *Row) charSize(rx int) int {
	cx := r.rx2cx[rx]
	if cx >= len(r.chars) {
		return 1
	}
	_, size := utf8.DecodeRune(r.chars[cx:])
	return size
}
