package notify

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type collectingSink struct {
	mu   sync.Mutex
	got  []Reminder
	seen chan struct{}
}

func newCollectingSink() *collectingSink {
	return &collectingSink{seen: make(chan struct{}, 16)}
}

func (s *collectingSink) Deliver(_ context.Context, r Reminder) error {
	s.mu.Lock()
	s.got = append(s.got, r)
	s.mu.Unlock()
	s.seen <- struct{}{}
	return nil
}

func (s *collectingSink) wait(t *testing.T) {
	t.Helper()
	select {
	case <-s.seen:
	case <-time.After(2 * time.Second):
		t.Fatal("sink never received a reminder")
	}
}

func TestPump_DeliversUntilCancelled(t *testing.T) {
	bus := NewBus()
	sink := newCollectingSink()

	ctx, cancel := context.WithCancel(context.Background())
	wait := Pump(ctx, bus, "collect", sink)

	bus.Publish(testReminder("one"))
	sink.wait(t)
	bus.Publish(testReminder("two"))
	sink.wait(t)

	cancel()
	wait()

	sink.mu.Lock()
	defer sink.mu.Unlock()
	require.Len(t, sink.got, 2)
	assert.Equal(t, "one", sink.got[0].Task.Title)
	assert.Equal(t, "two", sink.got[1].Task.Title)
}

func TestPump_SurvivesFailingSink(t *testing.T) {
	bus := NewBus()
	calls := make(chan string, 4)

	sink := SinkFunc(func(_ context.Context, r Reminder) error {
		calls <- r.Task.Title
		switch r.Task.Title {
		case "panic":
			panic("boom")
		case "error":
			return errors.New("unreachable")
		}
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wait := Pump(ctx, bus, "flaky", sink)

	for _, title := range []string{"panic", "error", "ok"} {
		bus.Publish(testReminder(title))
		select {
		case got := <-calls:
			assert.Equal(t, title, got)
		case <-time.After(2 * time.Second):
			t.Fatalf("pump stopped before %q", title)
		}
	}

	bus.Close()
	wait()
}

func TestDeliver_RecoversPanic(t *testing.T) {
	err := deliver(context.Background(), SinkFunc(func(context.Context, Reminder) error {
		panic("display went away")
	}), testReminder("x"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "display went away")
}

func TestConsoleSink(t *testing.T) {
	var out bytes.Buffer
	sink := NewConsoleSink(&out, lipgloss.NewStyle())

	require.NoError(t, sink.Deliver(context.Background(), testReminder("Pay bills")))
	assert.Equal(t, "Reminder: Task 'Pay bills' is due at 2025-01-10\n", out.String())
}
