package validators

import (
	"fmt"

	dto "task-manager.com/task-manager/internal/data_models"
	apperrors "task-manager.com/task-manager/internal/errors"
	repository "task-manager.com/task-manager/internal/repositories"
)

// ValidateUpdateTaskRequest turns the set fields of r into a patch. Values are
// normalised by the service.
func ValidateUpdateTaskRequest(r *dto.UpdateTaskRequest) (map[string]any, error) {
	patch := make(map[string]any)
	if r.Title != nil {
		patch[repository.FieldTitle] = *r.Title
	}
	if r.Description != nil {
		patch[repository.FieldDescription] = *r.Description
	}
	if r.Deadline != nil {
		patch[repository.FieldDeadline] = *r.Deadline
	}
	if r.Priority != nil {
		patch[repository.FieldPriority] = *r.Priority
	}
	if r.Status != nil {
		patch[repository.FieldStatus] = *r.Status
	}

	if len(patch) == 0 {
		return nil, fmt.Errorf("%w: no fields to update", apperrors.ErrValidation)
	}
	return patch, nil
}
