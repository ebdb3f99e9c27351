package cmd

import (
	"context"
	"log"
	"os"

	config "task-manager.com/task-manager/internal/configs"
	"task-manager.com/task-manager/internal/notify"
	"task-manager.com/task-manager/internal/services"
)

// reminderPipeline is the scheduler plus the bus and sinks its reminders flow
// through.
type reminderPipeline struct {
	scheduler *services.NotificationService
	bus       *notify.Bus
	waits     []func()
	closers   []func()
}

func startReminders(ctx context.Context, a *app) (*reminderPipeline, error) {
	p := &reminderPipeline{bus: notify.NewBus()}

	console := notify.NewConsoleSink(os.Stdout, a.theme().Reminder)
	p.waits = append(p.waits, notify.Pump(ctx, p.bus, "console", console))

	if a.cfg.RedisAddr != "" {
		client, err := config.NewRedisClient(a.cfg.RedisAddr)
		if err != nil {
			log.Printf("redis reminders disabled: %v", err)
		} else {
			sink := notify.NewRedisSink(client, a.cfg.RedisReminderChannel)
			p.waits = append(p.waits, notify.Pump(ctx, p.bus, "redis", sink))
			p.closers = append(p.closers, client.Close)
			log.Printf("publishing reminders to redis %s channel %q", a.cfg.RedisAddr, a.cfg.RedisReminderChannel)
		}
	}

	p.scheduler = services.NewNotificationService(a.tasks, p.bus, services.NotificationOptions{
		Interval: a.cfg.PollInterval(),
		Lead:     a.cfg.ReminderLead(),
	})
	if err := p.scheduler.Start(ctx); err != nil {
		p.Stop()
		return nil, err
	}
	return p, nil
}

// Stop halts the scheduler first so nothing new is published, then drains the
// sinks.
func (p *reminderPipeline) Stop() {
	if p.scheduler != nil {
		p.scheduler.Stop()
	}
	p.bus.Close()
	for _, wait := range p.waits {
		wait()
	}
	for _, closeFn := range p.closers {
		closeFn()
	}
}
