package notify

import (
	"context"
	"fmt"
	"log"
	"sync"
)

// Sink delivers a reminder somewhere outside the process or to the user.
type Sink interface {
	Deliver(ctx context.Context, r Reminder) error
}

type SinkFunc func(ctx context.Context, r Reminder) error

func (f SinkFunc) Deliver(ctx context.Context, r Reminder) error {
	return f(ctx, r)
}

// Pump subscribes sink to bus and delivers until ctx is done or the bus is
// closed. Delivery failures and panics are logged and do not stop the pump.
// The returned wait function blocks until the pump has exited.
func Pump(ctx context.Context, bus *Bus, name string, sink Sink) (wait func()) {
	sub := bus.Subscribe()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer bus.Unsubscribe(sub)

		for {
			select {
			case <-ctx.Done():
				return
			case r, ok := <-sub:
				if !ok {
					return
				}
				if err := deliver(ctx, sink, r); err != nil {
					log.Printf("[notify] %s: reminder %s for task %d: %v", name, r.ID, r.Task.ID, err)
				}
			}
		}
	}()

	return wg.Wait
}

func deliver(ctx context.Context, sink Sink, r Reminder) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("sink panicked: %v", p)
		}
	}()
	return sink.Deliver(ctx, r)
}
