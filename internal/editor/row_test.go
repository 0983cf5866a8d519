package editor

import "testing"

func TestRowUpdateTabExpansion(t *testing.T) {
	cases := []struct {
		chars      string
		tabStop    int
		wantRender string
		wantCx2rx  []int
	}{
		{"ab", 4, "ab", []int{0, 1, 2}},
		{"\thello", 4, "    hello", []int{0, 4, 5, 6, 7, 8, 9}},
		{"ab\tc", 4, "ab  c", []int{0, 1, 2, 4, 5}},
		{"\t\t", 8, "                ", []int{0, 8, 16}},
		{"", 4, "", []int{0}},
	}
	for _, tc := range cases {
		r := newRow([]byte(tc.chars))
		r.update(nil, HlState{}, tc.tabStop)
		if got := string(r.render); got != tc.wantRender {
			t.Errorf("render(%q) = %q, want %q", tc.chars, got, tc.wantRender)
		}
		if len(r.cx2rx) != len(tc.wantCx2rx) {
			t.Fatalf("cx2rx(%q) has len %d, want %d", tc.chars, len(r.cx2rx), len(tc.wantCx2rx))
		}
		for i, want := range tc.wantCx2rx {
			if r.cx2rx[i] != want {
				t.Errorf("cx2rx(%q)[%d] = %d, want %d", tc.chars, i, r.cx2rx[i], want)
			}
		}
	}
}

func TestRowCx2rxInvariants(t *testing.T) {
	inputs := []string{
		"", "hello", "a\tb\tc", "héllo wörld", "日本語", "mixed\tté日xt",
		"\x01control\x7f",
	}
	for _, in := range inputs {
		r := newRow([]byte(in))
		r.update(nil, HlState{}, 4)
		if len(r.cx2rx) != len(r.chars)+1 {
			t.Errorf("cx2rx(%q): len = %d, want len(chars)+1 = %d", in, len(r.cx2rx), len(r.chars)+1)
		}
		for i := 1; i < len(r.cx2rx); i++ {
			if r.cx2rx[i] < r.cx2rx[i-1] {
				t.Errorf("cx2rx(%q) decreases at %d: %v", in, i, r.cx2rx)
			}
		}
		if len(r.rx2cx) != len(r.render)+1 {
			t.Errorf("rx2cx(%q): len = %d, want len(render)+1 = %d", in, len(r.rx2cx), len(r.render)+1)
		}
	}
}

func TestRowMultibyteRender(t *testing.T) {
	r := newRow([]byte("aé日"))
	r.update(nil, HlState{}, 4)
	// One render column per character, not per byte.
	if got := string(r.render); got != "aé日" {
		t.Errorf("render = %q, want %q", got, "aé日")
	}
	// 'a' is 1 byte, 'é' is 2, '日' is 3: all bytes of a character map to
	// the character's column.
	want := []int{0, 1, 1, 2, 2, 2, 3}
	for i, w := range want {
		if r.cx2rx[i] != w {
			t.Errorf("cx2rx[%d] = %d, want %d", i, r.cx2rx[i], w)
		}
	}
}

func TestRowCharSize(t *testing.T) {
	r := newRow([]byte("aé日\tz"))
	r.update(nil, HlState{}, 4)
	cases := []struct {
		rx   int
		want int
	}{
		{0, 1}, // 'a'
		{1, 2}, // 'é'
		{2, 3}, // '日'
		{3, 1}, // tab
		{4, 1}, // 'z'
	}
	for _, tc := range cases {
		if got := r.charSize(tc.rx); got != tc.want {
			t.Errorf("charSize(%d) = %d, want %d", tc.rx, got, tc.want)
		}
	}
}

func TestRowControlBytesEscaped(t *testing.T) {
	r := newRow([]byte{'a', 0x01, 'b', 0x7f})
	r.update(nil, HlState{}, 4)
	if got := string(r.render); got != "a?b?" {
		t.Errorf("render = %q, want %q", got, "a?b?")
	}
}
