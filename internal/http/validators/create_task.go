package validators

import (
	"fmt"
	"strings"

	dto "task-manager.com/task-manager/internal/data_models"
	apperrors "task-manager.com/task-manager/internal/errors"
	"task-manager.com/task-manager/internal/services"
)

// ValidateCreateTaskRequest checks the request and converts it to service
// input. Priority may be empty; the service defaults it.
func ValidateCreateTaskRequest(r *dto.CreateTaskRequest) (services.TaskInput, error) {
	if strings.TrimSpace(r.Title) == "" {
		return services.TaskInput{}, fmt.Errorf("%w: title is required", apperrors.ErrValidation)
	}

	deadline, err := services.ParseDeadline(r.Deadline)
	if err != nil {
		return services.TaskInput{}, err
	}

	input := services.TaskInput{
		Title:       r.Title,
		Description: r.Description,
		Deadline:    deadline,
	}
	if strings.TrimSpace(r.Priority) != "" {
		if input.Priority, err = services.ParsePriority(r.Priority); err != nil {
			return services.TaskInput{}, err
		}
	}
	return input, nil
}
