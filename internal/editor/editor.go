// Package editor implements the document and render engine: the row buffer
// model, the incremental syntax-highlighting state machine, the raw-input
// decoder, the cursor/viewport model, and the edit operations.
package editor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"math/bits"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/xonecas/scrib/internal/config"
	"github.com/xonecas/scrib/internal/history"
	"github.com/xonecas/scrib/internal/shell"
	"github.com/xonecas/scrib/internal/terminal"
)

const helpMessage = "Ctrl-S = save | Ctrl-Q = quit | Ctrl-F = find | Ctrl-G = go to | Ctrl-D = duplicate | Ctrl-E = execute | Ctrl-R = remove line"

const (
	keyQuit         Key = 'q' & 0x1f
	keyBackspaceBis Key = 'h' & 0x1f
	keyRefresh      Key = 'l' & 0x1f
	keySave         Key = 's' & 0x1f
	keyFind         Key = 'f' & 0x1f
	keyGoTo         Key = 'g' & 0x1f
	keyDuplicate    Key = 'd' & 0x1f
	keyExecute      Key = 'e' & 0x1f
	keyRemoveLine   Key = 'r' & 0x1f
	keyEnter        Key = '\r'
	keyBackspace    Key = 127
)

// Editor owns the document, the cursor, and everything derived from them.
// It is single-threaded: every mutation happens on the main loop.
type Editor struct {
	term *terminal.Terminal
	cfg  *config.Config
	sh   *shell.Shell
	hist *history.Store

	// prompt is non-nil while a prompt (save/find/goto/execute) is active.
	prompt *promptState
	cursor CursorState
	// lnPad is the left padding used for line numbers.
	lnPad       int
	windowWidth int
	// screenRows and screenCols are the usable text area, excluding the
	// status and message bars and the line-number gutter.
	screenRows int
	screenCols int
	rows       []*Row
	dirty      bool
	// quitTimes counts the remaining unsaved-quit confirmations.
	quitTimes int
	fileName  string
	statusMsg string
	// statusTime is when statusMsg was set; messages expire after the
	// configured duration, checked at render time.
	statusTime time.Time
	syntax     *SyntaxConf
	// nBytes is the document size: the sum of row lengths, excluding line
	// terminators.
	nBytes uint64
	theme  *theme
	// matchRow is the row currently carrying a search-match segment, or -1.
	matchRow int
}

// New constructs an editor bound to a terminal. The document starts as a
// single empty row; Open replaces it with file content.
func New(term *terminal.Terminal, cfg *config.Config, sh *shell.Shell, hist *history.Store) (*Editor, error) {
	e := &Editor{
		term:      term,
		cfg:       cfg,
		sh:        sh,
		hist:      hist,
		quitTimes: cfg.QuitTimes,
		theme:     newTheme(cfg.SyntaxTheme),
		matchRow:  -1,
		rows:      []*Row{newRow(nil)},
	}
	if err := e.updateWindowSize(); err != nil {
		return nil, err
	}
	e.setStatus(helpMessage)
	return e, nil
}

// Open loads a file into the editor, selects a highlighting rule set for its
// extension, and restores the last recorded cursor position. A missing file
// is not an error: the document starts empty with the name pending.
func (e *Editor) Open(path string) error {
	e.fileName = path
	e.syntax = FindSyntax(path)
	e.rows = e.rows[:0]
	if err := e.load(path); err != nil {
		return err
	}
	if line, col, ok := e.hist.Get(path); ok {
		e.cursor.y = clamp(line, 0, len(e.rows)-1)
		e.cursor.x = col
		e.updateCursorX()
		log.Debug().Str("path", path).Int("line", line).Msg("restored cursor position")
	}
	return nil
}

func (e *Editor) currentRow() *Row {
	if e.cursor.y < len(e.rows) {
		return e.rows[e.cursor.y]
	}
	return nil
}

// rx returns the cursor position in render columns, as opposed to cursor.x
// which counts bytes.
func (e *Editor) rx() int {
	if row := e.currentRow(); row != nil {
		return row.cx2rx[e.cursor.x]
	}
	return 0
}

// isEmpty reports whether the document has no content at all. Two empty
// rows are not empty: the text contains a newline.
func (e *Editor) isEmpty() bool {
	return len(e.rows) <= 1 && e.nBytes == 0
}

func (e *Editor) setStatus(format string, args ...any) {
	e.statusMsg = fmt.Sprintf(format, args...)
	e.statusTime = time.Now()
}

// formatSize pretty-prints a byte count with binary prefixes, two decimals
// rounded down: formatSize(1536) == "1.50kB".
func formatSize(n uint64) string {
	if n < 1024 {
		return fmt.Sprintf("%dB", n)
	}
	// i is the largest value such that 1024^i <= n.
	i := (64 - bits.LeadingZeros64(n) + 9) / 10 - 1
	// The size with two decimal places, scaled by 100 to avoid floats.
	q := 100 * n / (1024 << ((i - 1) * 10))
	return fmt.Sprintf("%d.%02d%cB", q/100, q%100, " kMGTPEZ"[i])
}

// --- Window geometry ---

func (e *Editor) updateWindowSize() error {
	rows, cols, err := e.term.Size()
	if err != nil {
		return err
	}
	e.screenRows = max(rows-2, 0) // status bar and message bar
	e.windowWidth = cols
	e.updateScreenCols()
	return nil
}

// updateScreenCols recomputes the line-number padding, which depends on the
// digit count of the last line number, and the columns left for text.
func (e *Editor) updateScreenCols() {
	nDigits := 1
	for u := len(e.rows); u >= 10; u /= 10 {
		nDigits++
	}
	show := e.cfg.ShowLineNumbers && nDigits+2 < e.windowWidth/4
	if show {
		e.lnPad = nDigits + 2
	} else {
		e.lnPad = 0
	}
	e.screenCols = max(e.windowWidth-e.lnPad, 0)
}

// --- Highlight propagation ---

// updateRow recomputes row y's derived data. If ignoreFollowing is false and
// the row's outgoing highlight state changed, following rows are recomputed
// in order until one's outgoing state is unchanged: state equality is the
// termination signal, not a fixed lookahead.
func (e *Editor) updateRow(y int, ignoreFollowing bool) {
	state := HlState{}
	if y > 0 {
		state = e.rows[y-1].hlState
	}
	for _, row := range e.rows[y:] {
		prev := row.hlState
		state = row.update(e.syntax, state, e.cfg.TabStop)
		if ignoreFollowing || state == prev {
			return
		}
	}
}

func (e *Editor) updateAllRows() {
	state := HlState{}
	for _, row := range e.rows {
		state = row.update(e.syntax, state, e.cfg.TabStop)
	}
}

// --- Cursor motion ---

func (e *Editor) moveCursor(k Key) {
	row := e.currentRow()
	switch k {
	case keyArrowLeft:
		switch {
		case row != nil && e.cursor.x > 0:
			e.cursor.x -= row.charSize(row.cx2rx[e.cursor.x] - 1)
		case e.cursor.y > 0:
			// At the start of a line: move to the end of the previous
			// one. The clamp below fixes up x.
			e.cursor.y--
			e.cursor.x = math.MaxInt
		}
	case keyArrowRight:
		switch {
		case row != nil && e.cursor.x < len(row.chars):
			e.cursor.x += row.charSize(row.cx2rx[e.cursor.x])
		case row != nil:
			e.cursor.moveToNextLine()
		}
	case keyArrowUp:
		if e.cursor.y > 0 {
			e.cursor.y--
		}
	case keyArrowDown:
		if row != nil {
			e.cursor.y++
		}
	}
	e.updateCursorX()
}

// updateCursorX clamps x to the length of the current row: after a vertical
// move the previous column may be past the new row's end.
func (e *Editor) updateCursorX() {
	maxX := 0
	if row := e.currentRow(); row != nil {
		maxX = len(row.chars)
	}
	e.cursor.x = min(e.cursor.x, maxX)
}

// moveCursorWord moves left or right to the next word start.
func (e *Editor) moveCursorWord(k Key) {
	for {
		prev := e.cursor
		e.moveCursor(k)
		if e.cursor == prev {
			return
		}
		row := e.currentRow()
		if row == nil || e.cursor.x == 0 || e.cursor.x >= len(row.chars) {
			return
		}
		if !isSeparator(rune(row.chars[e.cursor.x])) && isSeparator(rune(row.chars[e.cursor.x-1])) {
			return
		}
	}
}

// moveCursorParagraph moves up or down to the next blank row.
func (e *Editor) moveCursorParagraph(down bool) {
	for {
		if down {
			if e.cursor.y >= len(e.rows) {
				break
			}
			e.cursor.y++
		} else {
			if e.cursor.y == 0 {
				break
			}
			e.cursor.y--
		}
		if e.cursor.y < len(e.rows) && len(e.rows[e.cursor.y].chars) == 0 {
			break
		}
	}
	e.updateCursorX()
}

// --- Edit operations ---

// insertByte inserts one byte at the cursor. Multi-byte characters arrive as
// several decoded Char keys and are inserted byte by byte.
func (e *Editor) insertByte(c byte) {
	if row := e.currentRow(); row != nil {
		row.chars = append(row.chars[:e.cursor.x], append([]byte{c}, row.chars[e.cursor.x:]...)...)
	} else {
		e.rows = append(e.rows, newRow([]byte{c}))
		// The number of rows changed: the left padding may need to grow.
		e.updateScreenCols()
	}
	e.updateRow(e.cursor.y, false)
	e.cursor.x++
	e.nBytes++
	e.dirty = true
}

// insertNewLine inserts a line break at the cursor and moves to the start of
// the new line. In the middle of a row, the row is split.
func (e *Editor) insertNewLine() {
	pos := e.cursor.y
	var newChars []byte
	if e.cursor.x > 0 {
		// rows[cursor.y] exists: x is always 0 when the cursor is past
		// the last row.
		row := e.rows[e.cursor.y]
		newChars = bytes.Clone(row.chars[e.cursor.x:])
		row.chars = row.chars[:e.cursor.x]
		e.updateRow(e.cursor.y, false)
		pos = e.cursor.y + 1
	}
	e.rows = append(e.rows[:pos], append([]*Row{newRow(newChars)}, e.rows[pos:]...)...)
	e.updateRow(pos, false)
	e.updateScreenCols()
	e.cursor.moveToNextLine()
	e.dirty = true
}

// deleteChar deletes the character before the cursor. At the start of an
// interior row it merges the row into the previous one; past the last row it
// degrades to a left move.
func (e *Editor) deleteChar() {
	switch {
	case e.cursor.x > 0:
		row := e.rows[e.cursor.y]
		n := row.charSize(row.cx2rx[e.cursor.x] - 1)
		row.chars = append(row.chars[:e.cursor.x-n], row.chars[e.cursor.x:]...)
		e.updateRow(e.cursor.y, false)
		e.cursor.x -= n
		e.nBytes -= uint64(n)
		// Deleting the last byte of an unnamed scratch document makes it
		// pristine again.
		if e.isEmpty() {
			e.dirty = e.fileName != ""
		} else {
			e.dirty = true
		}
	case e.cursor.y < len(e.rows) && e.cursor.y > 0:
		row := e.rows[e.cursor.y]
		e.rows = append(e.rows[:e.cursor.y], e.rows[e.cursor.y+1:]...)
		prev := e.rows[e.cursor.y-1]
		e.cursor.x = len(prev.chars)
		prev.chars = append(prev.chars, row.chars...)
		e.updateRow(e.cursor.y-1, true)
		e.updateRow(e.cursor.y, false)
		// The number of rows changed: the left padding may need to shrink.
		e.updateScreenCols()
		e.dirty = true
		e.cursor.y--
	case e.cursor.y == len(e.rows):
		// Past the last row, backspace is just a left move.
		e.moveCursor(keyArrowLeft)
	}
}

// deleteCurrentRow clears the row then folds it away with one backward
// delete: a composition of the two primitives, not a separate code path.
func (e *Editor) deleteCurrentRow() {
	if e.cursor.y >= len(e.rows) {
		return
	}
	row := e.rows[e.cursor.y]
	e.nBytes -= uint64(len(row.chars))
	row.chars = row.chars[:0]
	e.updateRow(e.cursor.y, false)
	if e.isEmpty() {
		e.dirty = e.fileName != ""
	} else {
		e.dirty = true
	}
	e.cursor.moveToNextLine()
	e.deleteChar()
}

func (e *Editor) duplicateCurrentRow() {
	row := e.currentRow()
	if row == nil {
		return
	}
	clone := newRow(bytes.Clone(row.chars))
	e.nBytes += uint64(len(clone.chars))
	pos := e.cursor.y + 1
	e.rows = append(e.rows[:pos], append([]*Row{clone}, e.rows[pos:]...)...)
	e.updateRow(pos, false)
	e.dirty = true
	// The number of rows changed.
	e.updateScreenCols()
}

// --- Load and save ---

// load reads the file into rows, splitting on '\n'. An empty stream or a
// stream ending in '\n' produces a trailing empty row, so that terminator
// handling round-trips through save exactly.
func (e *Editor) load(path string) error {
	fi, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		e.rows = append(e.rows, newRow(nil))
		return nil
	}
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if fi.IsDir() {
		return fmt.Errorf("%s: not a regular file", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	for _, line := range bytes.Split(data, []byte{'\n'}) {
		e.rows = append(e.rows, newRow(bytes.Clone(line)))
	}
	e.updateAllRows()
	e.updateScreenCols()
	var n uint64
	for _, row := range e.rows {
		n += uint64(len(row.chars))
	}
	e.nBytes = n
	log.Debug().Str("path", path).Int("rows", len(e.rows)).Uint64("bytes", n).Msg("loaded file")
	return nil
}

// save writes the rows joined by single '\n' bytes, with no terminator after
// the last row, and returns the number of bytes written.
func (e *Editor) save(fileName string) (int, error) {
	var buf bytes.Buffer
	for i, row := range e.rows {
		buf.Write(row.chars)
		if i != len(e.rows)-1 {
			buf.WriteByte('\n')
		}
	}
	if err := os.WriteFile(fileName, buf.Bytes(), 0o644); err != nil {
		return 0, fmt.Errorf("write %s: %w", fileName, err)
	}
	return buf.Len(), nil
}

// saveAndReport saves and routes the outcome to the status bar. The dirty
// flag is cleared only on success.
func (e *Editor) saveAndReport(fileName string) bool {
	written, err := e.save(fileName)
	if err != nil {
		log.Error().Err(err).Str("path", fileName).Msg("save failed")
		e.setStatus("Can't save! I/O error: %v", err)
		return false
	}
	e.setStatus("%s written to %s", formatSize(uint64(written)), fileName)
	e.dirty = false
	return true
}

// saveAs saves under a new name; on success the editor adopts the name and
// re-highlights for the new extension.
func (e *Editor) saveAs(fileName string) {
	if e.saveAndReport(fileName) {
		e.fileName = fileName
		e.syntax = FindSyntax(fileName)
		e.updateAllRows()
	}
}

// --- Search ---

// clearMatch removes the search-match overlay, if any.
func (e *Editor) clearMatch() {
	if e.matchRow >= 0 && e.matchRow < len(e.rows) {
		e.rows[e.matchRow].matchStart = -1
		e.rows[e.matchRow].matchEnd = -1
	}
	e.matchRow = -1
}

// search moves the cursor to the next occurrence of query from (y, x),
// wrapping around the document, and marks its render columns. Returns false
// when the query matches nowhere.
func (e *Editor) search(query []byte, y, x int, forward bool) bool {
	e.clearMatch()
	if len(query) == 0 || len(e.rows) == 0 {
		return false
	}
	n := len(e.rows)
	y = clamp(y, 0, n-1)
	for range n + 1 {
		row := e.rows[y]
		idx := -1
		if forward {
			if x <= len(row.chars) {
				if i := bytes.Index(row.chars[x:], query); i >= 0 {
					idx = x + i
				}
			}
		} else {
			end := min(x, len(row.chars))
			idx = bytes.LastIndex(row.chars[:end], query)
		}
		if idx >= 0 {
			e.cursor.x, e.cursor.y = idx, y
			row.matchStart = row.cx2rx[idx]
			row.matchEnd = row.cx2rx[min(idx+len(query), len(row.chars))]
			e.matchRow = y
			return true
		}
		if forward {
			y = (y + 1) % n
			x = 0
		} else {
			y--
			if y < 0 {
				y = n - 1
			}
			x = math.MaxInt
		}
	}
	return false
}

// --- Execute command ---

// executeCommand runs a command line through the in-process shell and
// inserts its combined output at the cursor, as if typed.
func (e *Editor) executeCommand(command string) {
	start := time.Now()
	out, err := e.sh.Exec(context.Background(), command)
	log.Debug().Str("command", command).Dur("took", time.Since(start)).Err(err).Msg("executed command")
	for i := 0; i < len(out); i++ {
		switch out[i] {
		case '\n':
			e.insertNewLine()
		case '\r':
			// Normalize \r\n to \n.
		default:
			e.insertByte(out[i])
		}
	}
	if err != nil {
		e.setStatus("Command failed: %v", err)
	} else {
		e.setStatus("Executed: %s", command)
	}
}

// --- Key handling ---

// processKeypress applies one decoded key and reports whether the editor
// should exit.
func (e *Editor) processKeypress(k Key) bool {
	if e.prompt != nil {
		e.processPromptKeypress(k)
		return false
	}
	switch k {
	case keyQuit:
		if e.dirty && e.quitTimes > 0 {
			e.setStatus("WARNING: file has unsaved changes. Press Ctrl-Q %d more time(s) to quit.", e.quitTimes)
			e.quitTimes--
			return false
		}
		return true
	case keyEnter:
		e.insertNewLine()
	case keyBackspace, keyBackspaceBis:
		e.deleteChar()
	case keyDelete:
		e.moveCursor(keyArrowRight)
		e.deleteChar()
	case keySave:
		if e.fileName == "" {
			e.startPrompt(promptSave)
		} else {
			e.saveAndReport(e.fileName)
		}
	case keyFind:
		e.startPrompt(promptFind)
	case keyGoTo:
		e.startPrompt(promptGoTo)
	case keyExecute:
		e.startPrompt(promptExec)
	case keyDuplicate:
		e.duplicateCurrentRow()
	case keyRemoveLine:
		e.deleteCurrentRow()
	case keyRefresh, keyEscape:
		// The screen redraws on every iteration anyway.
	case keyArrowLeft, keyArrowRight, keyArrowUp, keyArrowDown:
		e.moveCursor(k)
	case keyCtrlArrowLeft:
		e.moveCursorWord(keyArrowLeft)
	case keyCtrlArrowRight:
		e.moveCursorWord(keyArrowRight)
	case keyCtrlArrowUp:
		e.moveCursorParagraph(false)
	case keyCtrlArrowDown:
		e.moveCursorParagraph(true)
	case keyPageUp:
		e.cursor.y = max(e.cursor.roff-e.screenRows, 0)
		e.updateCursorX()
	case keyPageDown:
		e.cursor.y = min(e.cursor.roff+2*e.screenRows-1, len(e.rows))
		e.updateCursorX()
	case keyHome:
		e.cursor.x = 0
	case keyEnd:
		if row := e.currentRow(); row != nil {
			e.cursor.x = len(row.chars)
		}
	default:
		if k == '\t' || (k >= 0x20 && k < 256) {
			e.insertByte(byte(k))
		}
	}
	if k != keyQuit && e.quitTimes != e.cfg.QuitTimes {
		e.quitTimes = e.cfg.QuitTimes
		e.statusMsg = ""
	}
	return false
}

// readKey blocks for the next logical key, servicing the resize flag while
// the read times out with nothing pressed.
func (e *Editor) readKey() (Key, error) {
	for {
		b, ok, err := e.term.ReadByte()
		if err != nil {
			return 0, err
		}
		if !ok {
			if e.term.Resized() {
				if err := e.updateWindowSize(); err != nil {
					return 0, err
				}
				if err := e.refreshScreen(); err != nil {
					return 0, err
				}
			}
			continue
		}
		return decodeKey(b, e.term)
	}
}

// Run drives the main loop until the user quits or an error escapes.
func (e *Editor) Run() error {
	for {
		if e.term.Resized() {
			if err := e.updateWindowSize(); err != nil {
				return err
			}
		}
		if err := e.refreshScreen(); err != nil {
			return err
		}
		k, err := e.readKey()
		if err != nil {
			return err
		}
		if e.processKeypress(k) {
			if e.fileName != "" {
				e.hist.Put(e.fileName, e.cursor.y, e.cursor.x)
			}
			return nil
		}
	}
}
