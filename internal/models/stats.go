package model

import "task-manager.com/task-manager/internal/constants"

type PriorityCount struct {
	Priority constants.TaskPriority `json:"priority"`
	Count    int64                  `json:"count"`
}

type Stats struct {
	Total      int64           `json:"total"`
	Pending    int64           `json:"pending"`
	Completed  int64           `json:"completed"`
	ByPriority []PriorityCount `json:"by_priority"`
}

// NewStats builds the summary from grouped priority counts. Every known
// priority is present in ByPriority, in High, Medium, Low order, even when the
// store returned no row for it. Total includes rows with unknown priorities.
func NewStats(counts []PriorityCount, pending int64) Stats {
	byPriority := make(map[constants.TaskPriority]int64, len(counts))
	var stats Stats

	for _, c := range counts {
		byPriority[c.Priority] += c.Count
		stats.Total += c.Count
	}
	stats.Pending = pending
	stats.Completed = stats.Total - pending

	for _, p := range constants.Priorities {
		stats.ByPriority = append(stats.ByPriority, PriorityCount{Priority: p, Count: byPriority[p]})
	}
	return stats
}
