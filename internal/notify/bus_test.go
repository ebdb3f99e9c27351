package notify

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	model "task-manager.com/task-manager/internal/models"
)

func testReminder(title string) Reminder {
	d := model.NewDate(2025, time.January, 10)
	task := model.Task{ID: 7, Title: title, Deadline: &d}
	at := time.Date(2025, 1, 9, 23, 30, 0, 0, time.UTC)
	return NewReminder(task, at, at)
}

func TestBus_FanOut(t *testing.T) {
	bus := NewBus()
	a := bus.Subscribe()
	b := bus.Subscribe()

	r := testReminder("Pay bills")
	bus.Publish(r)

	assert.Equal(t, r, <-a)
	assert.Equal(t, r, <-b)
}

func TestBus_SlowSubscriberDoesNotBlock(t *testing.T) {
	bus := NewBus()
	_ = bus.Subscribe()

	done := make(chan struct{})
	go func() {
		for i := 0; i < subscriberBuffer*3; i++ {
			bus.Publish(testReminder("flood"))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on a full subscriber")
	}
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := NewBus()
	sub := bus.Subscribe()
	bus.Unsubscribe(sub)

	_, ok := <-sub
	assert.False(t, ok)

	bus.Unsubscribe(sub)
	assert.NotPanics(t, func() { bus.Publish(testReminder("after")) })
}

func TestBus_Close(t *testing.T) {
	bus := NewBus()
	sub := bus.Subscribe()
	bus.Close()
	bus.Close()

	_, ok := <-sub
	assert.False(t, ok)

	late := bus.Subscribe()
	_, ok = <-late
	assert.False(t, ok, "subscribing to a closed bus yields a closed channel")
}

func TestBus_ConcurrentPublishSubscribe(t *testing.T) {
	bus := NewBus()
	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			bus.Publish(testReminder("x"))
		}()
		go func() {
			defer wg.Done()
			sub := bus.Subscribe()
			bus.Unsubscribe(sub)
		}()
	}
	wg.Wait()
	bus.Close()
}

func TestReminder_Message(t *testing.T) {
	r := testReminder("Pay bills")

	assert.Equal(t, "Reminder: Task 'Pay bills' is due at 2025-01-10", r.Message())
	require.NotEmpty(t, r.ID)
	assert.NotEqual(t, r.ID, testReminder("Pay bills").ID)
}
