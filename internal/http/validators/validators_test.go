package validators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-manager.com/task-manager/internal/constants"
	dto "task-manager.com/task-manager/internal/data_models"
	apperrors "task-manager.com/task-manager/internal/errors"
)

func TestValidateCreateTaskRequest(t *testing.T) {
	input, err := ValidateCreateTaskRequest(&dto.CreateTaskRequest{
		Title:    "Pay bills",
		Deadline: "2025-01-10",
		Priority: "high",
	})
	require.NoError(t, err)
	assert.Equal(t, "Pay bills", input.Title)
	assert.Equal(t, "2025-01-10", input.Deadline.String())
	assert.Equal(t, constants.PriorityHigh, input.Priority)

	input, err = ValidateCreateTaskRequest(&dto.CreateTaskRequest{Title: "no extras"})
	require.NoError(t, err)
	assert.Nil(t, input.Deadline)
	assert.Empty(t, input.Priority)

	cases := map[string]dto.CreateTaskRequest{
		"empty title":  {Title: "  "},
		"bad deadline": {Title: "x", Deadline: "10/01/2025"},
		"bad priority": {Title: "x", Priority: "Critical"},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ValidateCreateTaskRequest(&req)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
		})
	}
}

func TestValidateUpdateTaskRequest(t *testing.T) {
	title := "New"
	none := ""

	patch, err := ValidateUpdateTaskRequest(&dto.UpdateTaskRequest{Title: &title, Deadline: &none})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"title": "New", "deadline": ""}, patch)

	_, err = ValidateUpdateTaskRequest(&dto.UpdateTaskRequest{})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}
