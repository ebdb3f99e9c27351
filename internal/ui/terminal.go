package ui

import (
	"io"
	"os"

	"golang.org/x/term"
)

// ANSIEnabled reports whether styled output should be written to w.
func ANSIEnabled(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// MarkdownStyle picks the glamour style for w: the theme's style on a
// terminal, plain ASCII otherwise.
func MarkdownStyle(w io.Writer, theme Theme) string {
	if ANSIEnabled(w) {
		return theme.Markdown
	}
	return "ascii"
}
