package editor

import "testing"

// sliceSource feeds a fixed byte sequence to the decoder; running out of
// bytes behaves like a read timeout.
type sliceSource struct {
	data []byte
	i    int
}

func (s *sliceSource) ReadByte() (byte, bool, error) {
	if s.i >= len(s.data) {
		return 0, false, nil
	}
	b := s.data[s.i]
	s.i++
	return b, true, nil
}

func TestDecodeKey(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  Key
	}{
		{"plain char", "a", 'a'},
		{"ctrl-q", "\x11", keyQuit},
		{"lone escape", "\x1b", keyEscape},
		{"arrow up", "\x1b[A", keyArrowUp},
		{"arrow down", "\x1b[B", keyArrowDown},
		{"arrow right", "\x1b[C", keyArrowRight},
		{"arrow left", "\x1b[D", keyArrowLeft},
		{"home csi", "\x1b[H", keyHome},
		{"end csi", "\x1b[F", keyEnd},
		{"home ss3", "\x1bOH", keyHome},
		{"end ss3", "\x1bOF", keyEnd},
		{"delete", "\x1b[3~", keyDelete},
		{"home 1~", "\x1b[1~", keyHome},
		{"home 7~", "\x1b[7~", keyHome},
		{"end 4~", "\x1b[4~", keyEnd},
		{"end 8~", "\x1b[8~", keyEnd},
		{"page up", "\x1b[5~", keyPageUp},
		{"page down", "\x1b[6~", keyPageDown},
		{"ctrl-right modifier", "\x1b[1;5C", keyCtrlArrowRight},
		{"ctrl-up modifier", "\x1b[5;5A", keyCtrlArrowUp},
		{"default modifier", "\x1b[1;1A", keyArrowUp},
		{"ctrl-up short", "\x1b[5A", keyCtrlArrowUp},
		{"ctrl-up alternate", "\x1bOa", keyCtrlArrowUp},
		{"ctrl-down alternate", "\x1bOb", keyCtrlArrowDown},
		{"ctrl-right alternate", "\x1bOc", keyCtrlArrowRight},
		{"ctrl-left alternate", "\x1bOd", keyCtrlArrowLeft},
		{"unknown csi", "\x1b[Z", keyEscape},
		{"unknown continuation", "\x1bx", keyEscape},
		{"unknown tilde code", "\x1b[9~", keyEscape},
		{"unknown modifier", "\x1b[1;2C", keyEscape},
		{"truncated csi", "\x1b[", keyEscape},
		{"truncated tilde", "\x1b[3", keyEscape},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			src := &sliceSource{data: []byte(tc.input[1:])}
			if tc.input == "" {
				t.Fatal("empty input")
			}
			got, err := decodeKey(tc.input[0], src)
			if err != nil {
				t.Fatalf("decodeKey(%q) returned error: %v", tc.input, err)
			}
			if got != tc.want {
				t.Errorf("decodeKey(%q) = %d, want %d", tc.input, got, tc.want)
			}
		})
	}
}

func TestDecodeKeyConsumesWholeSequence(t *testing.T) {
	src := &sliceSource{data: []byte("[3~x")}
	got, err := decodeKey(0x1b, src)
	if err != nil {
		t.Fatal(err)
	}
	if got != keyDelete {
		t.Fatalf("got %d, want keyDelete", got)
	}
	if rest := len(src.data) - src.i; rest != 1 {
		t.Errorf("decoder left %d bytes unconsumed, want 1", rest)
	}
}
