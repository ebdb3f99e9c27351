package ui

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
)

type markdownRenderer interface {
	Render(string) (string, error)
}

type rendererKey struct {
	style string
	width int
}

var (
	rendererMu sync.Mutex
	renderers  = map[rendererKey]markdownRenderer{}
)

// RenderMarkdown formats a task description for the terminal. style is
// "light", "dark" or "ascii". On any renderer failure the plain text is
// returned.
func RenderMarkdown(style string, width int, input string) (out string) {
	value := strings.TrimRight(strings.ReplaceAll(input, "\r\n", "\n"), "\n")
	if strings.TrimSpace(value) == "" {
		return ""
	}
	if width < 20 {
		width = 20
	}

	defer func() {
		if recover() != nil {
			out = value
		}
	}()

	renderer := rendererFor(style, width)
	if renderer == nil {
		return value
	}
	rendered, err := renderer.Render(value)
	if err != nil {
		return value
	}
	return strings.Trim(rendered, "\n")
}

func rendererFor(style string, width int) markdownRenderer {
	key := rendererKey{style: style, width: width}

	rendererMu.Lock()
	defer rendererMu.Unlock()
	if cached, ok := renderers[key]; ok {
		return cached
	}

	var cfg ansi.StyleConfig
	switch style {
	case "dark":
		cfg = styles.DarkStyleConfig
	case "light":
		cfg = styles.LightStyleConfig
	default:
		cfg = styles.ASCIIStyleConfig
	}

	created, err := glamour.NewTermRenderer(
		glamour.WithStyles(cfg),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil
	}
	renderers[key] = created
	return created
}
