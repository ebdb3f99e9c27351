package notify

import (
	"sync"
)

const subscriberBuffer = 64

// Bus fans reminders out to every subscriber. Publish never blocks: a
// subscriber that has fallen behind misses reminders instead of stalling the
// timer goroutine.
type Bus struct {
	mu     sync.RWMutex
	subs   map[chan Reminder]struct{}
	closed bool
}

func NewBus() *Bus {
	return &Bus{subs: make(map[chan Reminder]struct{})}
}

func (b *Bus) Publish(r Reminder) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for ch := range b.subs {
		select {
		case ch <- r:
		default:
		}
	}
}

// Subscribe returns a buffered channel receiving every reminder published
// after the call. The channel is closed by Unsubscribe or Close.
func (b *Bus) Subscribe() <-chan Reminder {
	ch := make(chan Reminder, subscriberBuffer)

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		close(ch)
		return ch
	}
	b.subs[ch] = struct{}{}
	return ch
}

func (b *Bus) Unsubscribe(sub <-chan Reminder) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for ch := range b.subs {
		if ch == sub {
			delete(b.subs, ch)
			close(ch)
			return
		}
	}
}

// Close detaches and closes every subscriber channel.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for ch := range b.subs {
		close(ch)
	}
	b.subs = make(map[chan Reminder]struct{})
}
