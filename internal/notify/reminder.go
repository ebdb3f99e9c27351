package notify

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	model "task-manager.com/task-manager/internal/models"
)

// Reminder is a fired alert. Task is the snapshot captured when the reminder
// was armed, so it may be stale by the time the reminder fires.
type Reminder struct {
	ID       string     `json:"id"`
	Task     model.Task `json:"task"`
	RemindAt time.Time  `json:"remind_at"`
	FiredAt  time.Time  `json:"fired_at"`
}

func NewReminder(task model.Task, remindAt, firedAt time.Time) Reminder {
	return Reminder{
		ID:       uuid.NewString(),
		Task:     task,
		RemindAt: remindAt,
		FiredAt:  firedAt,
	}
}

func (r Reminder) Message() string {
	return fmt.Sprintf("Reminder: Task '%s' is due at %s", r.Task.Title, r.Task.DeadlineText())
}
