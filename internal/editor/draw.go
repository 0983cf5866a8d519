package editor

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
)

// Version is stamped by the build; the welcome banner shows it.
var Version = "dev"

const (
	resetFmt    = "\x1b[0m"
	clearLine   = "\x1b[K"
	reverseFmt  = "\x1b[7m"
	gutterColor = "\x1b[38;5;240m"
)

// refreshScreen reconciles scrolling, composes the whole frame into one
// buffer, and writes it to the terminal in a single call. No diffing against
// the previous frame: one rendering pass per refresh.
func (e *Editor) refreshScreen() error {
	e.cursor.scroll(e.rx(), e.screenRows, e.screenCols)
	var buf bytes.Buffer
	buf.WriteString("\x1b[?25l\x1b[H") // hide cursor, go home
	e.drawRows(&buf)
	e.drawStatusBar(&buf)
	e.drawMessageBar(&buf)
	row, col := e.cursorScreenPosition()
	fmt.Fprintf(&buf, "\x1b[%d;%dH\x1b[?25h", row, col)
	_, err := e.term.Write(buf.Bytes())
	return err
}

// cursorScreenPosition converts the logical cursor to 1-based screen
// coordinates. While a prompt is active the cursor sits in the message bar,
// after the prompt text.
func (e *Editor) cursorScreenPosition() (row, col int) {
	if e.prompt != nil {
		return e.screenRows + 2, runewidth.StringWidth(e.prompt.text()) + 1
	}
	return e.cursor.y - e.cursor.roff + 1, e.rx() - e.cursor.coff + e.lnPad + 1
}

// drawGutter writes the line-number padding: the value right-aligned, a
// space, and a vertical bar, in dark grey.
func (e *Editor) drawGutter(buf *bytes.Buffer, val any) {
	if e.lnPad >= 2 {
		fmt.Fprintf(buf, "%s%*v │%s", gutterColor, e.lnPad-2, val, resetFmt)
	}
}

// drawRows writes the visible document rows, and '~' rows past the document
// end. The welcome banner appears on a blank document only.
func (e *Editor) drawRows(buf *bytes.Buffer) {
	for i := e.cursor.roff; i < e.cursor.roff+e.screenRows; i++ {
		buf.WriteString(clearLine)
		if i < len(e.rows) {
			e.drawGutter(buf, i+1)
			e.drawRow(buf, e.rows[i])
		} else {
			e.drawGutter(buf, "~")
			if e.isEmpty() && i == e.screenRows/3 {
				welcome := runewidth.Truncate("scrib editor -- version "+Version, e.screenCols, "")
				pad := (e.screenCols - runewidth.StringWidth(welcome)) / 2
				buf.WriteString(strings.Repeat(" ", max(pad, 0)))
				buf.WriteString(welcome)
			}
		}
		buf.WriteString("\r\n")
	}
}

// drawRow writes one row's visible column window with highlight colors,
// switching SGR sequences only when the highlight kind changes. The row is
// clipped to the text area with an ANSI-aware truncation so styled content
// can never overflow the window.
func (e *Editor) drawRow(buf *bytes.Buffer, row *Row) {
	start := min(e.cursor.coff, len(row.render))
	end := min(e.cursor.coff+e.screenCols, len(row.render))
	if start >= end {
		return
	}
	var line strings.Builder
	current := HlKind(255)
	for j := start; j < end; j++ {
		kind := row.hl[j]
		if row.matchStart >= 0 && j >= row.matchStart && j < row.matchEnd {
			kind = HlMatch
		}
		if kind != current {
			line.WriteString(resetFmt)
			line.WriteString(e.theme.seq(kind))
			current = kind
		}
		line.WriteRune(row.render[j])
	}
	buf.WriteString(ansi.Truncate(line.String(), e.screenCols, ""))
	buf.WriteString(resetFmt)
}

// drawStatusBar writes the inverted status line: file name, size, dirty
// marker on the left; syntax name and cursor position on the right.
func (e *Editor) drawStatusBar(buf *bytes.Buffer) {
	name := e.fileName
	if name == "" {
		name = "[No Name]"
	}
	modified := ""
	if e.dirty {
		modified = " (modified)"
	}
	left := fmt.Sprintf("%.30s - %s%s", name, formatSize(e.nBytes), modified)
	syntaxName := "no ft"
	if e.syntax != nil {
		syntaxName = e.syntax.Name
	}
	right := fmt.Sprintf("%s | %d:%d", syntaxName, e.cursor.y+1, e.rx()+1)

	left = runewidth.Truncate(left, e.windowWidth, "")
	lw, rw := runewidth.StringWidth(left), runewidth.StringWidth(right)
	if lw+rw+1 > e.windowWidth {
		right = ""
		rw = 0
	}
	buf.WriteString(reverseFmt)
	buf.WriteString(left)
	buf.WriteString(strings.Repeat(" ", max(e.windowWidth-lw-rw, 0)))
	buf.WriteString(right)
	buf.WriteString(resetFmt)
	buf.WriteString("\r\n")
}

// drawMessageBar writes the prompt line when a prompt is active, otherwise
// the status message until it expires. Expiry is checked here, at render
// time: there is no timer.
func (e *Editor) drawMessageBar(buf *bytes.Buffer) {
	buf.WriteString(clearLine)
	switch {
	case e.prompt != nil:
		buf.WriteString(runewidth.Truncate(e.prompt.text(), e.windowWidth, ""))
	case e.statusMsg != "" && time.Since(e.statusTime) < e.cfg.MessageDuration():
		buf.WriteString(runewidth.Truncate(e.statusMsg, e.windowWidth, ""))
	}
}
