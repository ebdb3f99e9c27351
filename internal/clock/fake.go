package clock

import (
	"sort"
	"sync"
	"time"
)

// FakeClock is deterministic and test-friendly. Timers and tickers only move
// when Advance or Set is called.
type FakeClock struct {
	mu      sync.Mutex
	t       time.Time
	timers  []*fakeTimer
	tickers []*fakeTicker
}

func NewFakeClock(start time.Time) *FakeClock {
	return &FakeClock{t: start}
}

func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *FakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	timer := &fakeTimer{clock: c, at: c.t.Add(d), f: f}
	c.timers = append(c.timers, timer)
	return timer
}

func (c *FakeClock) NewTicker(d time.Duration) Ticker {
	if d <= 0 {
		panic("clock: non-positive interval for NewTicker")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	ticker := &fakeTicker{clock: c, ch: make(chan time.Time, 1), period: d, next: c.t.Add(d)}
	c.tickers = append(c.tickers, ticker)
	return ticker
}

func (c *FakeClock) Set(t time.Time) {
	c.mu.Lock()
	c.t = t
	due := c.collectDue()
	c.mu.Unlock()

	for _, timer := range due {
		timer.f()
	}
}

// Advance moves the clock forward, fires every timer that came due (in due
// order, on the caller's goroutine) and delivers ticks to live tickers.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	t := c.t.Add(d)
	c.mu.Unlock()
	c.Set(t)
}

// PendingTimers counts timers that have neither fired nor been stopped.
func (c *FakeClock) PendingTimers() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.timers)
}

// collectDue must be called with c.mu held.
func (c *FakeClock) collectDue() []*fakeTimer {
	var due, waiting []*fakeTimer
	for _, timer := range c.timers {
		if !timer.at.After(c.t) {
			due = append(due, timer)
		} else {
			waiting = append(waiting, timer)
		}
	}
	c.timers = waiting
	sort.SliceStable(due, func(i, j int) bool { return due[i].at.Before(due[j].at) })

	for _, ticker := range c.tickers {
		ticker.deliver(c.t)
	}
	return due
}

func (c *FakeClock) removeTimer(target *fakeTimer) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, timer := range c.timers {
		if timer == target {
			c.timers = append(c.timers[:i], c.timers[i+1:]...)
			return true
		}
	}
	return false
}

func (c *FakeClock) removeTicker(target *fakeTicker) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, ticker := range c.tickers {
		if ticker == target {
			c.tickers = append(c.tickers[:i], c.tickers[i+1:]...)
			return
		}
	}
}

type fakeTimer struct {
	clock *FakeClock
	at    time.Time
	f     func()
}

func (t *fakeTimer) Stop() bool {
	return t.clock.removeTimer(t)
}

type fakeTicker struct {
	clock  *FakeClock
	ch     chan time.Time
	period time.Duration
	next   time.Time
}

func (t *fakeTicker) C() <-chan time.Time { return t.ch }

func (t *fakeTicker) Stop() {
	t.clock.removeTicker(t)
}

// deliver behaves like time.Ticker: ticks that cannot be delivered are dropped.
func (t *fakeTicker) deliver(now time.Time) {
	for !t.next.After(now) {
		select {
		case t.ch <- t.next:
		default:
		}
		t.next = t.next.Add(t.period)
	}
}
