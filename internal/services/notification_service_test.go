package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-manager.com/task-manager/internal/clock"
	"task-manager.com/task-manager/internal/constants"
	model "task-manager.com/task-manager/internal/models"
	"task-manager.com/task-manager/internal/notify"
)

// 45 minutes before midnight of 2025-01-10.
var lateEvening = time.Date(2025, 1, 9, 23, 15, 0, 0, time.UTC)

type stubLister struct {
	mu    sync.Mutex
	tasks []model.Task
	err   error
	polls chan struct{}
}

func newStubLister(tasks ...model.Task) *stubLister {
	return &stubLister{tasks: tasks, polls: make(chan struct{}, 100)}
}

func (s *stubLister) GetAllTasks(context.Context) ([]model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.polls <- struct{}{}
	if s.err != nil {
		return nil, s.err
	}
	return append([]model.Task(nil), s.tasks...), nil
}

func (s *stubLister) set(tasks ...model.Task) {
	s.mu.Lock()
	s.tasks = tasks
	s.mu.Unlock()
}

func (s *stubLister) waitPoll(t *testing.T) {
	t.Helper()
	select {
	case <-s.polls:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not poll")
	}
}

type recordingPublisher struct {
	mu        sync.Mutex
	reminders []notify.Reminder
}

func (p *recordingPublisher) Publish(r notify.Reminder) {
	p.mu.Lock()
	p.reminders = append(p.reminders, r)
	p.mu.Unlock()
}

func (p *recordingPublisher) all() []notify.Reminder {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]notify.Reminder(nil), p.reminders...)
}

func pendingTask(id uint, title, deadline string) model.Task {
	d, err := model.ParseDate(deadline)
	if err != nil {
		panic(err)
	}
	return model.Task{
		ID:       id,
		Title:    title,
		Deadline: &d,
		Priority: constants.PriorityLow,
		Status:   constants.StatusPending,
	}
}

func newTestScheduler(lister TaskLister, pub Publisher, c clock.Clock) *NotificationService {
	return NewNotificationService(lister, pub, NotificationOptions{
		Interval: time.Minute,
		Lead:     30 * time.Minute,
		Clock:    c,
		Location: time.UTC,
	})
}

func TestNotificationService_ArmsReminderBeforeDeadline(t *testing.T) {
	c := clock.NewFakeClock(lateEvening)
	lister := newStubLister(pendingTask(1, "Pay bills", "2025-01-10"))
	pub := &recordingPublisher{}
	n := newTestScheduler(lister, pub, c)

	armed := n.PollOnce(context.Background())

	assert.Equal(t, 1, armed)
	assert.Equal(t, []ReminderKey{{TaskID: 1, RemindAt: lateEvening.Add(15 * time.Minute)}}, n.Armed())
	assert.Equal(t, 1, c.PendingTimers())

	c.Advance(14 * time.Minute)
	assert.Empty(t, pub.all())

	c.Advance(time.Minute)
	reminders := pub.all()
	require.Len(t, reminders, 1)
	assert.Equal(t, uint(1), reminders[0].Task.ID)
	assert.Equal(t, "Pay bills", reminders[0].Task.Title)
	assert.Equal(t, lateEvening.Add(15*time.Minute), reminders[0].RemindAt)
	assert.Equal(t, lateEvening.Add(15*time.Minute), reminders[0].FiredAt)
	assert.NotEmpty(t, reminders[0].ID)
	assert.Empty(t, n.Armed())
}

func TestNotificationService_SkipsReminderAlreadyPast(t *testing.T) {
	// deadline is ten minutes away, so remindAt was twenty minutes ago
	c := clock.NewFakeClock(time.Date(2025, 1, 9, 23, 50, 0, 0, time.UTC))
	lister := newStubLister(pendingTask(1, "Pay bills", "2025-01-10"))
	n := newTestScheduler(lister, &recordingPublisher{}, c)

	assert.Equal(t, 0, n.PollOnce(context.Background()))
	assert.Empty(t, n.Armed())
	assert.Equal(t, 0, c.PendingTimers())
}

func TestNotificationService_SkipsCompletedAndUndatedTasks(t *testing.T) {
	c := clock.NewFakeClock(lateEvening)

	completed := pendingTask(1, "Done already", "2025-01-10")
	completed.MarkComplete()
	undated := model.Task{ID: 2, Title: "Someday", Status: constants.StatusPending}

	n := newTestScheduler(newStubLister(completed, undated), &recordingPublisher{}, c)

	assert.Equal(t, 0, n.PollOnce(context.Background()))
	assert.Equal(t, 0, c.PendingTimers())
}

func TestNotificationService_DoesNotRearmOnLaterPolls(t *testing.T) {
	c := clock.NewFakeClock(lateEvening.Add(-2 * time.Hour))
	lister := newStubLister(pendingTask(1, "Pay bills", "2025-01-10"))
	pub := &recordingPublisher{}
	n := newTestScheduler(lister, pub, c)

	ctx := context.Background()
	assert.Equal(t, 1, n.PollOnce(ctx))
	for i := 0; i < 5; i++ {
		c.Advance(time.Minute)
		assert.Equal(t, 0, n.PollOnce(ctx))
	}
	assert.Equal(t, 1, c.PendingTimers())

	c.Advance(3 * time.Hour)
	assert.Len(t, pub.all(), 1)
}

func TestNotificationService_RearmsWhenDeadlineMoves(t *testing.T) {
	c := clock.NewFakeClock(lateEvening)
	lister := newStubLister(pendingTask(1, "Pay bills", "2025-01-10"))
	n := newTestScheduler(lister, &recordingPublisher{}, c)
	ctx := context.Background()

	require.Equal(t, 1, n.PollOnce(ctx))

	lister.set(pendingTask(1, "Pay bills", "2025-01-12"))
	require.Equal(t, 1, n.PollOnce(ctx))

	assert.Equal(t, []ReminderKey{{TaskID: 1, RemindAt: time.Date(2025, 1, 11, 23, 30, 0, 0, time.UTC)}}, n.Armed())
	assert.Equal(t, 1, c.PendingTimers())
}

func TestNotificationService_PrunesCompletedAndDeletedTasks(t *testing.T) {
	c := clock.NewFakeClock(lateEvening)
	lister := newStubLister(
		pendingTask(1, "Pay bills", "2025-01-10"),
		pendingTask(2, "Walk dog", "2025-01-10"),
	)
	pub := &recordingPublisher{}
	n := newTestScheduler(lister, pub, c)
	ctx := context.Background()

	require.Equal(t, 2, n.PollOnce(ctx))

	done := pendingTask(1, "Pay bills", "2025-01-10")
	done.MarkComplete()
	lister.set(done)
	n.PollOnce(ctx)

	assert.Empty(t, n.Armed())
	c.Advance(time.Hour)
	assert.Empty(t, pub.all())
}

func TestNotificationService_FiresWithSnapshot(t *testing.T) {
	c := clock.NewFakeClock(lateEvening)
	lister := newStubLister(pendingTask(1, "Pay bills", "2025-01-10"))
	pub := &recordingPublisher{}
	n := newTestScheduler(lister, pub, c)

	n.PollOnce(context.Background())
	lister.set(pendingTask(1, "Pay ALL the bills", "2025-01-10"))

	c.Advance(15 * time.Minute)

	reminders := pub.all()
	require.Len(t, reminders, 1)
	assert.Equal(t, "Pay bills", reminders[0].Task.Title)
}

func TestNotificationService_ListErrorDoesNotArm(t *testing.T) {
	c := clock.NewFakeClock(lateEvening)
	lister := newStubLister()
	lister.err = errors.New("database is locked")
	n := newTestScheduler(lister, &recordingPublisher{}, c)

	assert.Equal(t, 0, n.PollOnce(context.Background()))
}

type panickyPublisher struct{}

func (panickyPublisher) Publish(notify.Reminder) { panic("display went away") }

func TestNotificationService_PublisherPanicIsContained(t *testing.T) {
	c := clock.NewFakeClock(lateEvening)
	lister := newStubLister(
		pendingTask(1, "Pay bills", "2025-01-10"),
		pendingTask(2, "Walk dog", "2025-01-10"),
	)
	n := newTestScheduler(lister, panickyPublisher{}, c)

	require.Equal(t, 2, n.PollOnce(context.Background()))
	assert.NotPanics(t, func() { c.Advance(time.Hour) })
	assert.Empty(t, n.Armed())
}

func TestNotificationService_StopHaltsPolling(t *testing.T) {
	c := clock.NewFakeClock(lateEvening.Add(-2 * time.Hour))
	lister := newStubLister(pendingTask(1, "Pay bills", "2025-01-10"))
	n := newTestScheduler(lister, &recordingPublisher{}, c)

	require.NoError(t, n.Start(context.Background()))
	assert.ErrorIs(t, n.Start(context.Background()), ErrSchedulerRunning)
	assert.True(t, n.Running())

	lister.waitPoll(t)
	c.Advance(time.Minute)
	lister.waitPoll(t)

	n.Stop()
	assert.False(t, n.Running())
	assert.Empty(t, n.Armed(), "stop cancels reminders that have not fired")
	assert.Equal(t, 0, c.PendingTimers())

	lister.set(pendingTask(2, "Walk dog", "2025-01-10"))
	c.Advance(5 * time.Minute)

	select {
	case <-lister.polls:
		t.Fatal("scheduler polled after Stop")
	case <-time.After(50 * time.Millisecond):
	}
	assert.Empty(t, n.Armed())
	assert.Equal(t, 0, c.PendingTimers())

	n.Stop()
}

func TestNotificationService_StopsWhenContextCancelled(t *testing.T) {
	c := clock.NewFakeClock(lateEvening)
	lister := newStubLister(pendingTask(1, "Pay bills", "2025-01-10"))
	publisher := &recordingPublisher{}
	n := newTestScheduler(lister, publisher, c)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, n.Start(ctx))
	lister.waitPoll(t)
	require.Eventually(t, func() bool { return len(n.Armed()) == 1 }, 2*time.Second, 5*time.Millisecond)

	cancel()
	require.Eventually(t, func() bool { return !n.Running() }, 2*time.Second, 5*time.Millisecond)
	assert.Empty(t, n.Armed())

	c.Advance(time.Hour)
	assert.Empty(t, publisher.all())

	restart, stop := context.WithCancel(context.Background())
	defer stop()
	require.NoError(t, n.Start(restart))
	lister.waitPoll(t)
	assert.True(t, n.Running())

	n.Stop()
	assert.False(t, n.Running())
}

func TestNotificationService_RemindAtUsesLocation(t *testing.T) {
	zone := time.FixedZone("UTC+2", 2*60*60)
	n := NewNotificationService(newStubLister(), &recordingPublisher{}, NotificationOptions{Location: zone})

	task := pendingTask(1, "Pay bills", "2025-01-10")
	assert.Equal(t, time.Date(2025, 1, 9, 23, 30, 0, 0, zone), n.RemindAt(task))
}

func TestNotificationService_WithTaskService(t *testing.T) {
	service := setupTestService(t)
	ctx := context.Background()

	require.NoError(t, service.AddTask(ctx, TaskInput{Title: "Pay bills", Deadline: mustDate(t, "2025-01-10")}))
	require.NoError(t, service.AddTask(ctx, TaskInput{Title: "No date"}))

	c := clock.NewFakeClock(lateEvening)
	bus := notify.NewBus()
	sub := bus.Subscribe()
	n := newTestScheduler(service, bus, c)

	require.Equal(t, 1, n.PollOnce(ctx))
	c.Advance(15 * time.Minute)

	select {
	case r := <-sub:
		assert.Equal(t, "Reminder: Task 'Pay bills' is due at 2025-01-10", r.Message())
	default:
		t.Fatal("reminder was not published on the bus")
	}
}
