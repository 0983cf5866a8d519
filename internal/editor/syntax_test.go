package editor

import "testing"

func scanString(conf *SyntaxConf, s string, in HlState) ([]HlKind, HlState) {
	return conf.Scan([]rune(s), in)
}

func kindAt(hl []HlKind, i int) HlKind {
	if i < len(hl) {
		return hl[i]
	}
	return HlNormal
}

func TestScanKeywords(t *testing.T) {
	goConf := FindSyntax("main.go")
	if goConf == nil {
		t.Fatal("no Go syntax conf")
	}
	hl, out := scanString(goConf, "func main() int", HlState{})
	if out != (HlState{}) {
		t.Errorf("out state = %+v, want normal", out)
	}
	for i := 0; i < 4; i++ { // "func"
		if hl[i] != HlKeyword1 {
			t.Errorf("hl[%d] = %d, want HlKeyword1", i, hl[i])
		}
	}
	if kindAt(hl, 5) != HlNormal { // "main" is not a keyword
		t.Errorf("hl[5] = %d, want HlNormal", hl[5])
	}
	for i := 12; i < 15; i++ { // "int"
		if hl[i] != HlKeyword2 {
			t.Errorf("hl[%d] = %d, want HlKeyword2", i, hl[i])
		}
	}
}

func TestScanKeywordNeedsBoundary(t *testing.T) {
	goConf := FindSyntax("main.go")
	hl, _ := scanString(goConf, "iffy funcs", HlState{})
	for i, k := range hl {
		if k != HlNormal {
			t.Errorf("hl[%d] = %d, want HlNormal (no keyword inside identifiers)", i, k)
		}
	}
}

func TestScanNumbers(t *testing.T) {
	goConf := FindSyntax("main.go")
	hl, _ := scanString(goConf, "x := 42.5; y9 := 1", HlState{})
	for i := 5; i < 9; i++ { // "42.5"
		if hl[i] != HlNumber {
			t.Errorf("hl[%d] = %d, want HlNumber", i, hl[i])
		}
	}
	if kindAt(hl, 12) == HlNumber { // '9' of "y9" is part of an identifier
		t.Error("digit inside identifier highlighted as number")
	}
	if kindAt(hl, 17) != HlNumber { // final "1"
		t.Errorf("hl[17] = %d, want HlNumber", kindAt(hl, 17))
	}
}

func TestScanStrings(t *testing.T) {
	goConf := FindSyntax("main.go")
	hl, out := scanString(goConf, `a := "b\"c" + 'd'`, HlState{})
	if out != (HlState{}) {
		t.Errorf("out state = %+v, want normal", out)
	}
	for i := 5; i < 11; i++ { // "b\"c" including the escaped quote
		if hl[i] != HlString {
			t.Errorf("hl[%d] = %d, want HlString", i, hl[i])
		}
	}
}

func TestScanUnterminatedStringCarries(t *testing.T) {
	goConf := FindSyntax("main.go")
	_, out := scanString(goConf, `a := "unterminated`, HlState{})
	want := HlState{kind: hlStateString, quote: '"'}
	if out != want {
		t.Errorf("out state = %+v, want %+v", out, want)
	}
	// The next row continues in the string until the closing quote.
	hl, out2 := scanString(goConf, `still" x`, out)
	if out2 != (HlState{}) {
		t.Errorf("second row out state = %+v, want normal", out2)
	}
	for i := 0; i < 6; i++ {
		if hl[i] != HlString {
			t.Errorf("hl[%d] = %d, want HlString", i, hl[i])
		}
	}
	if kindAt(hl, 7) == HlString {
		t.Error("content after closing quote still highlighted as string")
	}
}

func TestScanSingleLineComment(t *testing.T) {
	goConf := FindSyntax("main.go")
	hl, out := scanString(goConf, "x // trailing comment", HlState{})
	if out != (HlState{}) {
		t.Errorf("out state = %+v, want normal (line comments do not carry)", out)
	}
	for i := 2; i < len(hl); i++ {
		if hl[i] != HlComment {
			t.Errorf("hl[%d] = %d, want HlComment", i, hl[i])
		}
	}
}

func TestScanMultilineComment(t *testing.T) {
	goConf := FindSyntax("main.go")
	hl, out := scanString(goConf, "a /* open", HlState{})
	if out != (HlState{kind: hlStateMlComment}) {
		t.Errorf("out state = %+v, want ml-comment", out)
	}
	for i := 2; i < len(hl); i++ {
		if hl[i] != HlMlComment {
			t.Errorf("hl[%d] = %d, want HlMlComment", i, hl[i])
		}
	}

	hl, out = scanString(goConf, "inside */ after", out)
	if out != (HlState{}) {
		t.Errorf("out state after close = %+v, want normal", out)
	}
	for i := 0; i < 9; i++ { // "inside */"
		if hl[i] != HlMlComment {
			t.Errorf("hl[%d] = %d, want HlMlComment", i, hl[i])
		}
	}
	if kindAt(hl, 10) == HlMlComment {
		t.Error("content after comment close still highlighted")
	}
}

func TestScanMultilineString(t *testing.T) {
	goConf := FindSyntax("main.go")
	_, out := scanString(goConf, "s := `raw", HlState{})
	if out != (HlState{kind: hlStateMlString}) {
		t.Errorf("out state = %+v, want ml-string", out)
	}
	hl, out := scanString(goConf, "still ` done", out)
	if out != (HlState{}) {
		t.Errorf("out state = %+v, want normal", out)
	}
	for i := 0; i < 7; i++ { // "still `"
		if hl[i] != HlMlString {
			t.Errorf("hl[%d] = %d, want HlMlString", i, hl[i])
		}
	}
}

func TestScanWhitespaceRowDeterministic(t *testing.T) {
	goConf := FindSyntax("main.go")
	in := HlState{kind: hlStateMlComment}
	_, out1 := scanString(goConf, "   ", in)
	_, out2 := scanString(goConf, "   ", in)
	if out1 != out2 || out1 != in {
		t.Errorf("whitespace row: out1=%+v out2=%+v, want both %+v", out1, out2, in)
	}
}

func TestScanNilConf(t *testing.T) {
	var conf *SyntaxConf
	hl, out := conf.Scan([]rune("anything at all"), HlState{kind: hlStateMlComment})
	if out != (HlState{}) {
		t.Errorf("nil conf out state = %+v, want normal", out)
	}
	for i, k := range hl {
		if k != HlNormal {
			t.Errorf("hl[%d] = %d, want HlNormal", i, k)
		}
	}
}

func TestFindSyntax(t *testing.T) {
	cases := []struct {
		path string
		want string
	}{
		{"main.go", "Go"},
		{"lib.rs", "Rust"},
		{"x.c", "C"},
		{"x.hpp", "C"},
		{"tool.py", "Python"},
		{"README.md", ""},
		{"Makefile", ""},
	}
	for _, tc := range cases {
		conf := FindSyntax(tc.path)
		got := ""
		if conf != nil {
			got = conf.Name
		}
		if got != tc.want {
			t.Errorf("FindSyntax(%q) = %q, want %q", tc.path, got, tc.want)
		}
	}
}
