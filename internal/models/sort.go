package model

import "sort"

// SortByPriority orders tasks High, Medium, Low, then anything else. Ties keep
// their current order.
func SortByPriority(tasks []Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].Priority.Rank() < tasks[j].Priority.Rank()
	})
}

// SortByDate orders tasks by ascending deadline. Tasks without a deadline go last.
func SortByDate(tasks []Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		switch {
		case !a.HasDeadline():
			return false
		case !b.HasDeadline():
			return true
		default:
			return a.Deadline.Before(b.Deadline.Time)
		}
	})
}
