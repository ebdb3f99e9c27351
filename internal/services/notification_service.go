package services

import (
	"context"
	"errors"
	"log"
	"sort"
	"sync"
	"time"

	"task-manager.com/task-manager/internal/clock"
	model "task-manager.com/task-manager/internal/models"
	"task-manager.com/task-manager/internal/notify"
)

const (
	DefaultPollInterval = 60 * time.Second
	DefaultReminderLead = 30 * time.Minute
)

var ErrSchedulerRunning = errors.New("notification scheduler already running")

// TaskLister is the read-only view of tasks the scheduler polls.
type TaskLister interface {
	GetAllTasks(ctx context.Context) ([]model.Task, error)
}

// Publisher receives reminders when their timers fire.
type Publisher interface {
	Publish(r notify.Reminder)
}

type NotificationOptions struct {
	Interval time.Duration
	Lead     time.Duration
	Clock    clock.Clock
	// Location is the zone deadlines are interpreted in (midnight local time).
	Location *time.Location
}

// ReminderKey identifies one armed reminder. A task whose deadline moves gets
// a new key.
type ReminderKey struct {
	TaskID   uint
	RemindAt time.Time
}

// NotificationService polls tasks on a fixed interval and arms a one-shot
// timer per pending task that fires Lead before the task's deadline.
// Each (task, remindAt) pair is armed at most once.
type NotificationService struct {
	tasks     TaskLister
	publisher Publisher
	clock     clock.Clock
	interval  time.Duration
	lead      time.Duration
	location  *time.Location

	mu      sync.Mutex
	armed   map[ReminderKey]clock.Timer
	running bool
	stop    chan struct{}
	wg      sync.WaitGroup
}

func NewNotificationService(tasks TaskLister, publisher Publisher, opts NotificationOptions) *NotificationService {
	if opts.Interval <= 0 {
		opts.Interval = DefaultPollInterval
	}
	if opts.Lead <= 0 {
		opts.Lead = DefaultReminderLead
	}
	if opts.Clock == nil {
		opts.Clock = clock.RealClock{}
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}

	return &NotificationService{
		tasks:     tasks,
		publisher: publisher,
		clock:     opts.Clock,
		interval:  opts.Interval,
		lead:      opts.Lead,
		location:  opts.Location,
		armed:     make(map[ReminderKey]clock.Timer),
	}
}

// Start launches the poll loop on its own goroutine. The first poll happens
// immediately.
func (n *NotificationService) Start(ctx context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.running {
		return ErrSchedulerRunning
	}
	n.running = true
	n.stop = make(chan struct{})

	ticker := n.clock.NewTicker(n.interval)
	n.wg.Add(1)
	go n.pollLoop(ctx, ticker, n.stop)

	log.Printf("[scheduler] started, interval %s, lead %s", n.interval, n.lead)
	return nil
}

// Stop ends the poll loop and cancels reminders that have not fired yet. It
// is safe to call from any goroutine and more than once.
func (n *NotificationService) Stop() {
	n.mu.Lock()
	if !n.running {
		n.mu.Unlock()
		return
	}
	n.running = false
	close(n.stop)
	n.mu.Unlock()

	n.wg.Wait()

	n.mu.Lock()
	cancelled := n.cancelArmedLocked()
	n.mu.Unlock()

	log.Printf("[scheduler] stopped, %d pending reminders cancelled", cancelled)
}

// stopOnContextDone is Stop for a loop whose context ended. It does nothing
// if Stop already ran or a newer loop owns the scheduler.
func (n *NotificationService) stopOnContextDone(stop <-chan struct{}) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if !n.running || n.stop != stop {
		return
	}
	n.running = false
	cancelled := n.cancelArmedLocked()
	log.Printf("[scheduler] context done, %d pending reminders cancelled", cancelled)
}

func (n *NotificationService) cancelArmedLocked() int {
	cancelled := len(n.armed)
	for key, timer := range n.armed {
		timer.Stop()
		delete(n.armed, key)
	}
	return cancelled
}

func (n *NotificationService) Running() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.running
}

// Armed lists reminders that are scheduled and have not fired, soonest first.
func (n *NotificationService) Armed() []ReminderKey {
	n.mu.Lock()
	keys := make([]ReminderKey, 0, len(n.armed))
	for key := range n.armed {
		keys = append(keys, key)
	}
	n.mu.Unlock()

	sort.Slice(keys, func(i, j int) bool {
		if keys[i].RemindAt.Equal(keys[j].RemindAt) {
			return keys[i].TaskID < keys[j].TaskID
		}
		return keys[i].RemindAt.Before(keys[j].RemindAt)
	})
	return keys
}

func (n *NotificationService) pollLoop(ctx context.Context, ticker clock.Ticker, stop <-chan struct{}) {
	defer n.wg.Done()
	defer ticker.Stop()

	n.PollOnce(ctx)

	for {
		select {
		case <-stop:
			return
		case <-ctx.Done():
			n.stopOnContextDone(stop)
			return
		case <-ticker.C():
			select {
			case <-stop:
				return
			default:
			}
			n.PollOnce(ctx)
		}
	}
}

// PollOnce runs a single scan and returns how many reminders it armed.
func (n *NotificationService) PollOnce(ctx context.Context) int {
	tasks, err := n.tasks.GetAllTasks(ctx)
	if err != nil {
		log.Printf("[scheduler] failed to list tasks: %v", err)
		return 0
	}

	now := n.clock.Now()
	live := make(map[ReminderKey]struct{}, len(tasks))
	armedCount := 0

	for _, task := range tasks {
		key, armed, ok := n.scheduleTask(task, now)
		if !ok {
			continue
		}
		live[key] = struct{}{}
		if armed {
			armedCount++
		}
	}

	n.prune(live)

	if armedCount > 0 {
		log.Printf("[scheduler] armed %d reminder(s)", armedCount)
	}
	return armedCount
}

// scheduleTask arms a reminder for task if it needs one. ok reports whether
// task currently wants a reminder at key; armed reports whether a new timer
// was created for it on this call.
func (n *NotificationService) scheduleTask(task model.Task, now time.Time) (key ReminderKey, armed, ok bool) {
	defer func() {
		if p := recover(); p != nil {
			log.Printf("[scheduler] task %d: scheduling panicked: %v", task.ID, p)
			armed, ok = false, false
		}
	}()

	if !task.IsPending() || !task.HasDeadline() {
		return ReminderKey{}, false, false
	}

	remindAt := n.RemindAt(task)
	if !remindAt.After(now) {
		return ReminderKey{}, false, false
	}

	key = ReminderKey{TaskID: task.ID, RemindAt: remindAt}

	n.mu.Lock()
	defer n.mu.Unlock()

	if _, exists := n.armed[key]; exists {
		return key, false, true
	}

	snapshot := task
	n.armed[key] = n.clock.AfterFunc(remindAt.Sub(now), func() {
		n.fire(key, snapshot)
	})
	return key, true, true
}

// RemindAt is the instant a reminder for task should fire: midnight at the
// start of its deadline day, minus the lead time.
func (n *NotificationService) RemindAt(task model.Task) time.Time {
	return task.Deadline.StartIn(n.location).Add(-n.lead)
}

// prune forgets reminders for tasks that are gone, completed or rescheduled.
func (n *NotificationService) prune(live map[ReminderKey]struct{}) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for key, timer := range n.armed {
		if _, ok := live[key]; ok {
			continue
		}
		timer.Stop()
		delete(n.armed, key)
	}
}

func (n *NotificationService) fire(key ReminderKey, snapshot model.Task) {
	n.mu.Lock()
	if _, ok := n.armed[key]; !ok {
		n.mu.Unlock()
		return
	}
	delete(n.armed, key)
	n.mu.Unlock()

	defer func() {
		if p := recover(); p != nil {
			log.Printf("[scheduler] reminder for task %d panicked: %v", key.TaskID, p)
		}
	}()

	n.publisher.Publish(notify.NewReminder(snapshot, key.RemindAt, n.clock.Now()))
}
