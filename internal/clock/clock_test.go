package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2025, 1, 9, 23, 0, 0, 0, time.UTC)

func TestFakeClock_TimersFireInDueOrder(t *testing.T) {
	c := NewFakeClock(epoch)

	var fired []string
	c.AfterFunc(2*time.Minute, func() { fired = append(fired, "second") })
	c.AfterFunc(time.Minute, func() { fired = append(fired, "first") })
	c.AfterFunc(time.Hour, func() { fired = append(fired, "later") })

	c.Advance(5 * time.Minute)

	assert.Equal(t, []string{"first", "second"}, fired)
	assert.Equal(t, 1, c.PendingTimers())
	assert.Equal(t, epoch.Add(5*time.Minute), c.Now())
}

func TestFakeClock_StoppedTimerDoesNotFire(t *testing.T) {
	c := NewFakeClock(epoch)

	fired := false
	timer := c.AfterFunc(time.Minute, func() { fired = true })

	assert.True(t, timer.Stop())
	assert.False(t, timer.Stop())

	c.Advance(time.Hour)
	assert.False(t, fired)
}

func TestFakeClock_TickerDropsMissedTicks(t *testing.T) {
	c := NewFakeClock(epoch)
	ticker := c.NewTicker(time.Minute)

	c.Advance(3 * time.Minute)

	select {
	case tick := <-ticker.C():
		assert.Equal(t, epoch.Add(time.Minute), tick)
	default:
		t.Fatal("expected a tick")
	}

	select {
	case <-ticker.C():
		t.Fatal("buffered more than one tick")
	default:
	}
}

func TestFakeClock_StoppedTickerIsSilent(t *testing.T) {
	c := NewFakeClock(epoch)
	ticker := c.NewTicker(time.Minute)
	ticker.Stop()

	c.Advance(10 * time.Minute)

	select {
	case <-ticker.C():
		t.Fatal("stopped ticker ticked")
	default:
	}
}

func TestRealClock_AfterFunc(t *testing.T) {
	done := make(chan struct{})
	RealClock{}.AfterFunc(time.Millisecond, func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		require.Fail(t, "real timer never fired")
	}
}
