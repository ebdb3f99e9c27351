package constants

import (
	"fmt"
	"strings"
)

// DateLayout is the textual form deadlines are stored and exchanged in.
const DateLayout = "2006-01-02"

type TaskStatus string

const (
	StatusPending   TaskStatus = "Pending"
	StatusCompleted TaskStatus = "Completed"
)

type TaskPriority string

const (
	PriorityHigh   TaskPriority = "High"
	PriorityMedium TaskPriority = "Medium"
	PriorityLow    TaskPriority = "Low"
)

// Priorities lists every priority from most to least urgent.
var Priorities = []TaskPriority{PriorityHigh, PriorityMedium, PriorityLow}

// Rank orders priorities for sorting. Unknown values sort after Low.
func (p TaskPriority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	default:
		return 3
	}
}

func (p TaskPriority) Valid() bool {
	return p.Rank() < 3
}

// ParsePriority accepts any casing of High, Medium or Low and returns the
// canonical value.
func ParsePriority(s string) (TaskPriority, error) {
	for _, p := range Priorities {
		if strings.EqualFold(strings.TrimSpace(s), string(p)) {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown priority %q (expected High, Medium or Low)", s)
}

func (s TaskStatus) Valid() bool {
	return s == StatusPending || s == StatusCompleted
}

func ParseStatus(s string) (TaskStatus, error) {
	for _, st := range []TaskStatus{StatusPending, StatusCompleted} {
		if strings.EqualFold(strings.TrimSpace(s), string(st)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown status %q (expected Pending or Completed)", s)
}
