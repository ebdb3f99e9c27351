package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"task-manager.com/task-manager/internal/constants"
)

func task(id uint, priority constants.TaskPriority, deadline string) Task {
	t := Task{ID: id, Title: "t", Priority: priority, Status: constants.StatusPending}
	if deadline != "" {
		d, err := ParseDate(deadline)
		if err != nil {
			panic(err)
		}
		t.Deadline = &d
	}
	return t
}

func ids(tasks []Task) []uint {
	out := make([]uint, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func TestTask_Helpers(t *testing.T) {
	tk := task(1, constants.PriorityHigh, "2025-01-10")
	assert.True(t, tk.IsPending())
	assert.True(t, tk.HasDeadline())
	assert.Equal(t, "2025-01-10", tk.DeadlineText())

	tk.MarkComplete()
	assert.False(t, tk.IsPending())
	assert.Equal(t, constants.StatusCompleted, tk.Status)

	undated := task(2, constants.PriorityLow, "")
	assert.False(t, undated.HasDeadline())
	assert.Empty(t, undated.DeadlineText())

	zero := Date{}
	undated.Deadline = &zero
	assert.False(t, undated.HasDeadline())
}

func TestSortByPriority(t *testing.T) {
	tasks := []Task{
		task(1, constants.PriorityLow, ""),
		task(2, constants.PriorityHigh, ""),
		task(3, "Someday", ""),
		task(4, constants.PriorityMedium, ""),
		task(5, constants.PriorityHigh, ""),
	}

	SortByPriority(tasks)
	assert.Equal(t, []uint{2, 5, 4, 1, 3}, ids(tasks))
}

func TestSortByDate(t *testing.T) {
	tasks := []Task{
		task(1, constants.PriorityLow, ""),
		task(2, constants.PriorityLow, "2025-03-01"),
		task(3, constants.PriorityLow, "2025-01-15"),
		task(4, constants.PriorityLow, ""),
		task(5, constants.PriorityLow, "2025-01-15"),
	}

	SortByDate(tasks)
	assert.Equal(t, []uint{3, 5, 2, 1, 4}, ids(tasks))
}

func TestNewStats(t *testing.T) {
	stats := NewStats([]PriorityCount{
		{Priority: constants.PriorityLow, Count: 1},
		{Priority: constants.PriorityHigh, Count: 2},
		{Priority: "Urgent", Count: 1},
	}, 3)

	assert.Equal(t, int64(4), stats.Total)
	assert.Equal(t, int64(3), stats.Pending)
	assert.Equal(t, int64(1), stats.Completed)
	assert.Equal(t, []PriorityCount{
		{Priority: constants.PriorityHigh, Count: 2},
		{Priority: constants.PriorityMedium, Count: 0},
		{Priority: constants.PriorityLow, Count: 1},
	}, stats.ByPriority)

	empty := NewStats(nil, 0)
	assert.Len(t, empty.ByPriority, 3)
	assert.Zero(t, empty.Total)
	assert.Zero(t, empty.Completed)
}

func TestNewDate(t *testing.T) {
	assert.Equal(t, time.UTC, NewDate(2025, time.January, 1).Location())
}
