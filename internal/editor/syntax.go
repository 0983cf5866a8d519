package editor

import (
	"path/filepath"
	"strings"
	"unicode"
)

// HlKind classifies one rendered column for coloring purposes. It is purely
// advisory: highlighting never alters row content.
type HlKind uint8

const (
	HlNormal HlKind = iota
	HlNumber
	HlString
	HlMlString
	HlComment
	HlMlComment
	HlKeyword1
	HlKeyword2
	// HlMatch marks the current search match. It is never produced by Scan;
	// the find prompt overlays it at draw time.
	HlMatch
)

type hlStateKind uint8

const (
	hlStateNormal hlStateKind = iota
	hlStateString
	hlStateMlComment
	hlStateMlString
)

// HlState is the tokenizer state carried from the end of one row into the
// next. It is a comparable value: state equality after a re-scan is what
// stops highlight propagation through the document.
type HlState struct {
	kind  hlStateKind
	quote byte // active quote character, set only for hlStateString
}

// SyntaxConf is an immutable highlighting rule set selected by file
// extension. A nil *SyntaxConf disables highlighting.
type SyntaxConf struct {
	Name             string
	Extensions       []string
	Keywords1        []string
	Keywords2        []string
	SLCommentStart   string
	MLCommentStart   string
	MLCommentEnd     string
	MLStringDelim    string
	Quotes           string
	HighlightNumbers bool
}

var syntaxDB = []*SyntaxConf{
	{
		Name:       "Go",
		Extensions: []string{".go"},
		Keywords1: []string{
			"break", "case", "chan", "const", "continue", "default", "defer",
			"else", "fallthrough", "for", "func", "go", "goto", "if", "import",
			"interface", "map", "package", "range", "return", "select",
			"struct", "switch", "type", "var",
		},
		Keywords2: []string{
			"any", "bool", "byte", "complex64", "complex128", "error",
			"float32", "float64", "int", "int8", "int16", "int32", "int64",
			"rune", "string", "uint", "uint8", "uint16", "uint32", "uint64",
			"uintptr", "true", "false", "iota", "nil",
		},
		SLCommentStart:   "//",
		MLCommentStart:   "/*",
		MLCommentEnd:     "*/",
		MLStringDelim:    "`",
		Quotes:           `"'`,
		HighlightNumbers: true,
	},
	{
		Name:       "C",
		Extensions: []string{".c", ".h", ".cpp", ".cc", ".hpp"},
		Keywords1: []string{
			"break", "case", "continue", "default", "do", "else", "enum",
			"extern", "for", "goto", "if", "register", "return", "sizeof",
			"static", "struct", "switch", "typedef", "union", "volatile",
			"while",
		},
		Keywords2: []string{
			"char", "const", "double", "float", "int", "long", "short",
			"signed", "unsigned", "void",
		},
		SLCommentStart:   "//",
		MLCommentStart:   "/*",
		MLCommentEnd:     "*/",
		Quotes:           `"'`,
		HighlightNumbers: true,
	},
	{
		Name:       "Rust",
		Extensions: []string{".rs"},
		Keywords1: []string{
			"as", "break", "const", "continue", "crate", "dyn", "else",
			"enum", "extern", "fn", "for", "if", "impl", "in", "let", "loop",
			"match", "mod", "move", "mut", "pub", "ref", "return", "static",
			"struct", "trait", "type", "unsafe", "use", "where", "while",
		},
		Keywords2: []string{
			"bool", "char", "f32", "f64", "i8", "i16", "i32", "i64", "i128",
			"isize", "str", "u8", "u16", "u32", "u64", "u128", "usize",
			"self", "Self", "true", "false",
		},
		SLCommentStart:   "//",
		MLCommentStart:   "/*",
		MLCommentEnd:     "*/",
		Quotes:           `"`,
		HighlightNumbers: true,
	},
	{
		Name:       "Python",
		Extensions: []string{".py"},
		Keywords1: []string{
			"and", "as", "assert", "async", "await", "break", "class",
			"continue", "def", "del", "elif", "else", "except", "finally",
			"for", "from", "global", "if", "import", "in", "is", "lambda",
			"nonlocal", "not", "or", "pass", "raise", "return", "try",
			"while", "with", "yield",
		},
		Keywords2: []string{
			"bool", "bytes", "dict", "float", "int", "list", "set", "str",
			"tuple", "True", "False", "None", "self",
		},
		SLCommentStart:   "#",
		MLStringDelim:    `"""`,
		Quotes:           `"'`,
		HighlightNumbers: true,
	},
}

// FindSyntax returns the rule set matching the path's extension, or nil when
// no rules are known for it.
func FindSyntax(path string) *SyntaxConf {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return nil
	}
	for _, conf := range syntaxDB {
		for _, e := range conf.Extensions {
			if e == ext {
				return conf
			}
		}
	}
	return nil
}

func isSeparator(c rune) bool {
	return unicode.IsSpace(c) || c == 0 || strings.ContainsRune(",.()+-/*=~%<>[]{};:&|^!?\"'", c)
}

func runesHavePrefix(rs []rune, prefix string) bool {
	p := []rune(prefix)
	if len(rs) < len(p) {
		return false
	}
	for i, r := range p {
		if rs[i] != r {
			return false
		}
	}
	return true
}

func fillHl(hl []HlKind, kind HlKind) {
	for i := range hl {
		hl[i] = kind
	}
}

// Scan classifies each rendered column of a row, starting from the carried
// state `in`, and returns the state at end of row. The out state is a pure
// function of (in, render, conf): an unterminated string or multi-line
// construct carries into the next row.
func (conf *SyntaxConf) Scan(render []rune, in HlState) ([]HlKind, HlState) {
	hl := make([]HlKind, len(render))
	if conf == nil {
		return hl, HlState{}
	}
	state := in
	prevSep := true
	i := 0
	for i < len(render) {
		switch state.kind {
		case hlStateMlComment:
			if conf.MLCommentEnd != "" && runesHavePrefix(render[i:], conf.MLCommentEnd) {
				n := len([]rune(conf.MLCommentEnd))
				fillHl(hl[i:i+n], HlMlComment)
				i += n
				state = HlState{}
				prevSep = true
			} else {
				hl[i] = HlMlComment
				i++
			}
		case hlStateMlString:
			if runesHavePrefix(render[i:], conf.MLStringDelim) {
				n := len([]rune(conf.MLStringDelim))
				fillHl(hl[i:i+n], HlMlString)
				i += n
				state = HlState{}
				prevSep = true
			} else {
				hl[i] = HlMlString
				i++
			}
		case hlStateString:
			hl[i] = HlString
			if render[i] == '\\' && i+1 < len(render) {
				hl[i+1] = HlString
				i += 2
				continue
			}
			if render[i] == rune(state.quote) {
				state = HlState{}
			}
			i++
			prevSep = true
		default: // hlStateNormal
			if conf.SLCommentStart != "" && runesHavePrefix(render[i:], conf.SLCommentStart) {
				fillHl(hl[i:], HlComment)
				i = len(render)
				continue
			}
			if conf.MLCommentStart != "" && runesHavePrefix(render[i:], conf.MLCommentStart) {
				n := len([]rune(conf.MLCommentStart))
				fillHl(hl[i:i+n], HlMlComment)
				i += n
				state = HlState{kind: hlStateMlComment}
				continue
			}
			if conf.MLStringDelim != "" && runesHavePrefix(render[i:], conf.MLStringDelim) {
				n := len([]rune(conf.MLStringDelim))
				fillHl(hl[i:i+n], HlMlString)
				i += n
				state = HlState{kind: hlStateMlString}
				continue
			}
			c := render[i]
			if strings.ContainsRune(conf.Quotes, c) {
				hl[i] = HlString
				state = HlState{kind: hlStateString, quote: byte(c)}
				i++
				continue
			}
			if conf.HighlightNumbers &&
				(unicode.IsDigit(c) && (prevSep || (i > 0 && hl[i-1] == HlNumber)) ||
					c == '.' && i > 0 && hl[i-1] == HlNumber) {
				hl[i] = HlNumber
				prevSep = false
				i++
				continue
			}
			if prevSep {
				if n := matchKeyword(render[i:], conf.Keywords1); n > 0 {
					fillHl(hl[i:i+n], HlKeyword1)
					i += n
					prevSep = false
					continue
				}
				if n := matchKeyword(render[i:], conf.Keywords2); n > 0 {
					fillHl(hl[i:i+n], HlKeyword2)
					i += n
					prevSep = false
					continue
				}
			}
			prevSep = isSeparator(c)
			i++
		}
	}
	return hl, state
}

// matchKeyword returns the length of the keyword starting at rs[0], or 0.
// A keyword only matches when followed by a separator or end of row; the
// caller checks the leading boundary.
func matchKeyword(rs []rune, keywords []string) int {
	for _, kw := range keywords {
		if !runesHavePrefix(rs, kw) {
			continue
		}
		n := len([]rune(kw))
		if n == len(rs) || isSeparator(rs[n]) {
			return n
		}
	}
	return 0
}
