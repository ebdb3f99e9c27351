package dto

import model "task-manager.com/task-manager/internal/models"

type CreateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Deadline    string `json:"deadline"`
	Priority    string `json:"priority"`
}

// UpdateTaskRequest is a partial update. Nil fields are left untouched; an
// empty Deadline clears it.
type UpdateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Deadline    *string `json:"deadline"`
	Priority    *string `json:"priority"`
	Status      *string `json:"status"`
}

type TaskListResponse struct {
	Count int          `json:"count"`
	Tasks []model.Task `json:"tasks"`
}
