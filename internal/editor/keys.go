package editor

// Key is one decoded logical input event. Values below 256 are the raw byte
// that was read (printable characters, control codes, backspace); the named
// values starting at 1000 are keys that arrive as ANSI escape sequences.
type Key int32

const keyEscape Key = 0x1b

const (
	keyArrowLeft Key = iota + 1000
	keyArrowRight
	keyArrowUp
	keyArrowDown
	keyCtrlArrowLeft
	keyCtrlArrowRight
	keyCtrlArrowUp
	keyCtrlArrowDown
	keyPageUp
	keyPageDown
	keyHome
	keyEnd
	keyDelete
)

// byteSource supplies the bytes following a lone escape byte. ok reports
// whether a byte was available: escape sequences arrive back-to-back, so a
// byte that does not show up within the read timeout means the escape byte
// stood alone.
type byteSource interface {
	ReadByte() (b byte, ok bool, err error)
}

// decodeEscape consumes the remainder of an escape sequence after the
// initial 0x1b byte and returns the logical key it encodes. Unrecognized or
// truncated sequences collapse to keyEscape; malformed input is swallowed,
// never surfaced as an error.
func decodeEscape(src byteSource) (Key, error) {
	b1, ok, err := src.ReadByte()
	if err != nil || !ok {
		return keyEscape, err
	}
	switch b1 {
	case '[':
		return decodeCSI(src)
	case 'O':
		b2, ok, err := src.ReadByte()
		if err != nil || !ok {
			return keyEscape, err
		}
		switch b2 {
		case 'H':
			return keyHome, nil
		case 'F':
			return keyEnd, nil
		case 'a':
			return keyCtrlArrowUp, nil
		case 'b':
			return keyCtrlArrowDown, nil
		case 'c':
			return keyCtrlArrowRight, nil
		case 'd':
			return keyCtrlArrowLeft, nil
		}
		return keyEscape, nil
	}
	return keyEscape, nil
}

func decodeCSI(src byteSource) (Key, error) {
	b, ok, err := src.ReadByte()
	if err != nil || !ok {
		return keyEscape, err
	}
	if k := arrowKey(b); k != keyEscape {
		return k, nil
	}
	switch b {
	case 'H':
		return keyHome, nil
	case 'F':
		return keyEnd, nil
	}
	if b < '0' || b > '9' {
		return keyEscape, nil
	}
	c, ok, err := src.ReadByte()
	if err != nil || !ok {
		return keyEscape, err
	}
	if c == ';' {
		// <ESC>[<digit>;<modifier><letter>: modifier 5 is Ctrl, modifier 1
		// is the default and equivalent to the unmodified sequence.
		mod, ok, err := src.ReadByte()
		if err != nil || !ok {
			return keyEscape, err
		}
		letter, ok, err := src.ReadByte()
		if err != nil || !ok {
			return keyEscape, err
		}
		switch mod {
		case '5':
			if k := ctrlArrowKey(letter); k != keyEscape {
				return k, nil
			}
		case '1':
			if k := arrowKey(letter); k != keyEscape {
				return k, nil
			}
			switch letter {
			case 'H':
				return keyHome, nil
			case 'F':
				return keyEnd, nil
			}
		}
		return keyEscape, nil
	}
	if c == '~' {
		switch b {
		case '1', '7':
			return keyHome, nil
		case '4', '8':
			return keyEnd, nil
		case '3':
			return keyDelete, nil
		case '5':
			return keyPageUp, nil
		case '6':
			return keyPageDown, nil
		}
		return keyEscape, nil
	}
	if b == '5' {
		if k := ctrlArrowKey(c); k != keyEscape {
			return k, nil
		}
	}
	return keyEscape, nil
}

func arrowKey(b byte) Key {
	switch b {
	case 'A':
		return keyArrowUp
	case 'B':
		return keyArrowDown
	case 'C':
		return keyArrowRight
	case 'D':
		return keyArrowLeft
	}
	return keyEscape
}

func ctrlArrowKey(b byte) Key {
	switch b {
	case 'A':
		return keyCtrlArrowUp
	case 'B':
		return keyCtrlArrowDown
	case 'C':
		return keyCtrlArrowRight
	case 'D':
		return keyCtrlArrowLeft
	}
	return keyEscape
}

// decodeKey turns the first byte of an input event, plus any continuation
// bytes available from src, into a logical key.
func decodeKey(b byte, src byteSource) (Key, error) {
	if b != 0x1b {
		return Key(b), nil
	}
	return decodeEscape(src)
}
