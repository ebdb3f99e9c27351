package model

import (
	"task-manager.com/task-manager/internal/constants"
)

// Task is one row of the tasks table. ID is zero until the store assigns it.
type Task struct {
	ID          uint                   `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string                 `gorm:"type:text;not null;check:chk_tasks_title,title <> ''" json:"title"`
	Description string                 `gorm:"type:text" json:"description"`
	Deadline    *Date                  `gorm:"type:text" json:"deadline,omitempty"`
	Priority    constants.TaskPriority `gorm:"type:text;default:'Low'" json:"priority"`
	Status      constants.TaskStatus   `gorm:"type:text;default:'Pending'" json:"status"`
}

func (Task) TableName() string {
	return "tasks"
}

func (t *Task) MarkComplete() {
	t.Status = constants.StatusCompleted
}

func (t Task) IsPending() bool {
	return t.Status == constants.StatusPending
}

func (t Task) HasDeadline() bool {
	return t.Deadline != nil && !t.Deadline.IsZero()
}

// DeadlineText returns the stored textual deadline or "" when unset.
func (t Task) DeadlineText() string {
	if !t.HasDeadline() {
		return ""
	}
	return t.Deadline.String()
}
