package notify

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// ConsoleSink writes one styled line per reminder.
type ConsoleSink struct {
	mu    sync.Mutex
	out   io.Writer
	style lipgloss.Style
}

func NewConsoleSink(out io.Writer, style lipgloss.Style) *ConsoleSink {
	return &ConsoleSink{out: out, style: style}
}

func (s *ConsoleSink) Deliver(_ context.Context, r Reminder) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := fmt.Fprintln(s.out, s.style.Render(r.Message()))
	return err
}
