package editor

import (
	"fmt"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"
)

// theme maps highlight categories to SGR sequences derived from a Chroma
// style, so the editor's colors follow the same theme names users know from
// other tools. Chroma only supplies colors here: the tokenizer is the
// carried-state engine in syntax.go.
type theme struct {
	sgr [HlMatch + 1]string
}

func newTheme(name string) *theme {
	sty := styles.Get(name) // falls back to a default style for unknown names
	th := &theme{}
	set := func(k HlKind, tt chroma.TokenType) {
		entry := sty.Get(tt)
		if entry.Colour.IsSet() {
			c := entry.Colour
			th.sgr[k] = fmt.Sprintf("\x1b[38;2;%d;%d;%dm", c.Red(), c.Green(), c.Blue())
		} else {
			th.sgr[k] = "\x1b[39m"
		}
	}
	set(HlNormal, chroma.Text)
	set(HlNumber, chroma.LiteralNumber)
	set(HlString, chroma.LiteralString)
	set(HlMlString, chroma.LiteralString)
	set(HlComment, chroma.Comment)
	set(HlMlComment, chroma.CommentMultiline)
	set(HlKeyword1, chroma.Keyword)
	set(HlKeyword2, chroma.KeywordType)
	th.sgr[HlMatch] = "\x1b[7m" // reverse video
	return th
}

func (t *theme) seq(k HlKind) string { return t.sgr[k] }
