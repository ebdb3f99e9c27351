package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	dto "task-manager.com/task-manager/internal/data_models"
	apperrors "task-manager.com/task-manager/internal/errors"
	"task-manager.com/task-manager/internal/http/validators"
	model "task-manager.com/task-manager/internal/models"
	"task-manager.com/task-manager/internal/notify"
	"task-manager.com/task-manager/internal/preferences"
	"task-manager.com/task-manager/internal/services"
)

// ReminderSource reports reminders that are armed but have not fired.
type ReminderSource interface {
	Armed() []services.ReminderKey
}

type Handler struct {
	taskService *services.TaskService
	preferences *preferences.Store
	reminders   ReminderSource
	bus         *notify.Bus
}

func NewHandler(taskService *services.TaskService, prefs *preferences.Store, reminders ReminderSource, bus *notify.Bus) *Handler {
	return &Handler{
		taskService: taskService,
		preferences: prefs,
		reminders:   reminders,
		bus:         bus,
	}
}

func httpError(err error) error {
	return echo.NewHTTPError(apperrors.StatusCode(err), apperrors.PublicMessage(err))
}

func taskID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, httpError(apperrors.ErrInvalidTaskID)
	}
	return uint(id), nil
}

// loadTask returns the task or a 404 so mutating routes do not silently
// succeed on missing ids.
func (h *Handler) loadTask(c echo.Context, id uint) (model.Task, error) {
	task, found, err := h.taskService.GetTaskByID(c.Request().Context(), id)
	if err != nil {
		return model.Task{}, httpError(err)
	}
	if !found {
		return model.Task{}, httpError(apperrors.ErrTaskNotFound)
	}
	return task, nil
}

func (h *Handler) CreateTask(c echo.Context) error {
	var req dto.CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		return httpError(apperrors.ErrInvalidJSON)
	}
	input, err := validators.ValidateCreateTaskRequest(&req)
	if err != nil {
		return httpError(err)
	}

	task, err := h.taskService.CreateTask(c.Request().Context(), input)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, task)
}

func (h *Handler) GetTask(c echo.Context) error {
	id, err := taskID(c)
	if err != nil {
		return err
	}
	task, err := h.loadTask(c, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, task)
}

func (h *Handler) ListTasks(c echo.Context) error {
	filter, err := listFilter(c)
	if err != nil {
		return httpError(err)
	}

	tasks, err := h.taskService.ListTasks(c.Request().Context(), filter)
	if err != nil {
		return httpError(err)
	}
	if tasks == nil {
		tasks = []model.Task{}
	}

	return c.JSON(http.StatusOK, dto.TaskListResponse{
		Count: len(tasks),
		Tasks: tasks,
	})
}

func listFilter(c echo.Context) (services.ListFilter, error) {
	var (
		filter services.ListFilter
		err    error
	)
	if v := c.QueryParam("priority"); v != "" {
		if filter.Priority, err = services.ParsePriority(v); err != nil {
			return filter, err
		}
	}
	if v := c.QueryParam("status"); v != "" {
		if filter.Status, err = services.ParseStatus(v); err != nil {
			return filter, err
		}
	}
	if v := c.QueryParam("date"); v != "" {
		if filter.Date, err = services.ParseDeadline(v); err != nil {
			return filter, err
		}
	}
	filter.Sort = strings.ToLower(strings.TrimSpace(c.QueryParam("sort")))
	return filter, nil
}

func (h *Handler) UpdateTask(c echo.Context) error {
	id, err := taskID(c)
	if err != nil {
		return err
	}

	var req dto.UpdateTaskRequest
	if err := c.Bind(&req); err != nil {
		return httpError(apperrors.ErrInvalidJSON)
	}
	patch, err := validators.ValidateUpdateTaskRequest(&req)
	if err != nil {
		return httpError(err)
	}

	if _, err := h.loadTask(c, id); err != nil {
		return err
	}
	if err := h.taskService.EditTask(c.Request().Context(), id, patch); err != nil {
		return httpError(err)
	}
	return h.GetTask(c)
}

func (h *Handler) CompleteTask(c echo.Context) error {
	id, err := taskID(c)
	if err != nil {
		return err
	}
	if _, err := h.loadTask(c, id); err != nil {
		return err
	}
	if err := h.taskService.MarkComplete(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return h.GetTask(c)
}

// DeleteTask is idempotent: deleting a missing id is still a 204.
func (h *Handler) DeleteTask(c echo.Context) error {
	id, err := taskID(c)
	if err != nil {
		return err
	}
	if err := h.taskService.DeleteTask(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) Stats(c echo.Context) error {
	stats, err := h.taskService.Stats(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, stats)
}

func (h *Handler) GetPreferences(c echo.Context) error {
	return c.JSON(http.StatusOK, h.preferences.Get())
}

func (h *Handler) UpdatePreferences(c echo.Context) error {
	var req dto.UpdatePreferencesRequest
	if err := c.Bind(&req); err != nil {
		return httpError(apperrors.ErrInvalidJSON)
	}

	var theme preferences.Theme
	if req.Theme != nil {
		t, err := preferences.ParseTheme(*req.Theme)
		if err != nil {
			return httpError(err)
		}
		theme = t
	}

	saved, err := h.preferences.Update(func(p *preferences.Preferences) {
		if req.Theme != nil {
			p.Theme = theme
		}
		if req.FontSize != nil {
			p.FontSize = *req.FontSize
		}
		if req.ColorScheme != nil {
			p.ColorScheme = strings.TrimSpace(*req.ColorScheme)
		}
	})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, saved)
}

func (h *Handler) ListReminders(c echo.Context) error {
	keys := h.reminders.Armed()
	resp := dto.ArmedRemindersResponse{
		Count:     len(keys),
		Reminders: make([]dto.ArmedReminder, 0, len(keys)),
	}
	for _, k := range keys {
		resp.Reminders = append(resp.Reminders, dto.ArmedReminder{TaskID: k.TaskID, RemindAt: k.RemindAt})
	}
	return c.JSON(http.StatusOK, resp)
}
