package editor

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

type promptKind uint8

const (
	promptSave promptKind = iota
	promptFind
	promptGoTo
	promptExec
)

// promptState is the transient state of an active prompt. Find mode also
// remembers where the cursor was when the prompt opened, so Escape can put
// it back.
type promptState struct {
	kind  promptKind
	input []byte
	// saved is the cursor state at prompt start (find mode only).
	saved CursorState
	// matched reports whether the current query has a match (find mode).
	matched bool
}

func (p *promptState) label() string {
	switch p.kind {
	case promptSave:
		return "Save as"
	case promptFind:
		return "Search (Use ESC/Arrows/Enter)"
	case promptGoTo:
		return "Go to line[:column]"
	case promptExec:
		return "Command to execute"
	}
	return ""
}

// text is the full prompt line shown in the message bar.
func (p *promptState) text() string {
	return p.label() + ": " + string(p.input)
}

func (e *Editor) startPrompt(kind promptKind) {
	e.prompt = &promptState{kind: kind, saved: e.cursor}
}

// processPromptKeypress edits the prompt input and dispatches on Enter. All
// other special keys are swallowed, except the find-mode arrows which step
// between matches.
func (e *Editor) processPromptKeypress(k Key) {
	p := e.prompt
	switch {
	case k == keyEscape:
		if p.kind == promptFind {
			e.cursor = p.saved
			e.clearMatch()
		}
		e.prompt = nil
		e.statusMsg = ""
		return
	case k == keyEnter:
		e.prompt = nil
		e.statusMsg = ""
		e.submitPrompt(p)
		return
	case k == keyBackspace || k == keyBackspaceBis:
		p.input = trimLastRune(p.input)
	case k == '\t' || (k >= 0x20 && k < 256):
		p.input = append(p.input, byte(k))
	}
	if p.kind == promptFind {
		switch {
		case p.matched && (k == keyArrowRight || k == keyArrowDown):
			p.matched = e.search(p.input, e.cursor.y, e.cursor.x+1, true)
		case p.matched && (k == keyArrowLeft || k == keyArrowUp):
			p.matched = e.search(p.input, e.cursor.y, e.cursor.x, false)
		default:
			// The query changed: search again from where find started.
			p.matched = e.search(p.input, p.saved.y, p.saved.x, true)
		}
	}
}

func (e *Editor) submitPrompt(p *promptState) {
	input := strings.TrimSpace(string(p.input))
	switch p.kind {
	case promptSave:
		if input != "" {
			e.saveAs(input)
		}
	case promptFind:
		// Enter keeps the cursor on the match; only the overlay goes.
		e.clearMatch()
	case promptGoTo:
		e.goTo(input)
	case promptExec:
		if input != "" {
			e.executeCommand(input)
		}
	}
}

// goTo interprets "line" or "line:column", both 1-based, clamping out-of-
// range values instead of rejecting them.
func (e *Editor) goTo(input string) {
	if input == "" {
		return
	}
	lineStr, colStr, hasCol := strings.Cut(input, ":")
	line, err := strconv.Atoi(lineStr)
	if err != nil {
		e.setStatus("Invalid line number: %s", lineStr)
		return
	}
	col := 1
	if hasCol {
		if col, err = strconv.Atoi(colStr); err != nil {
			e.setStatus("Invalid column number: %s", colStr)
			return
		}
	}
	e.cursor.y = clamp(line-1, 0, max(len(e.rows)-1, 0))
	e.cursor.x = max(col-1, 0)
	e.updateCursorX()
}

// trimLastRune removes the final UTF-8 character from b.
func trimLastRune(b []byte) []byte {
	if len(b) == 0 {
		return b
	}
	_, size := utf8.DecodeLastRune(b)
	return b[:len(b)-size]
}
