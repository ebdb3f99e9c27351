package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"task-manager.com/task-manager/internal/constants"
	apperrors "task-manager.com/task-manager/internal/errors"
	model "task-manager.com/task-manager/internal/models"
	repository "task-manager.com/task-manager/internal/repositories"
)

const (
	SortPriority = "priority"
	SortDate     = "date"
)

// TaskInput is what a caller supplies to create a task. Status is always
// forced to Pending; an empty Priority means Low.
type TaskInput struct {
	Title       string
	Description string
	Deadline    *model.Date
	Priority    constants.TaskPriority
}

// TaskService is the only write path presentation code uses. It validates and
// normalises input, then delegates to the store.
type TaskService struct {
	repo repository.TaskStore
}

func NewTaskService(repo repository.TaskStore) *TaskService {
	return &TaskService{repo: repo}
}

func (s *TaskService) AddTask(ctx context.Context, input TaskInput) error {
	_, err := s.CreateTask(ctx, input)
	return err
}

// CreateTask is AddTask returning the stored task. Adapters that report the new
// id use it, since re-reading the table races with other writers.
func (s *TaskService) CreateTask(ctx context.Context, input TaskInput) (model.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return model.Task{}, fmt.Errorf("%w: title is required", apperrors.ErrValidation)
	}

	priority := input.Priority
	if priority == "" {
		priority = constants.PriorityLow
	}
	priority, err := normalizePriority(priority)
	if err != nil {
		return model.Task{}, err
	}

	task, err := s.repo.Create(ctx, model.Task{
		Title:       title,
		Description: input.Description,
		Deadline:    input.Deadline,
		Priority:    priority,
		Status:      constants.StatusPending,
	})
	if err != nil {
		log.Printf("task service: add task %q failed: %v", title, err)
		return model.Task{}, err
	}
	return task, nil
}

// EditTask applies a partial update. It does not check that id exists.
func (s *TaskService) EditTask(ctx context.Context, id uint, patch map[string]any) error {
	normalized, err := normalizePatch(patch)
	if err != nil {
		return err
	}

	if err := s.repo.Update(ctx, id, normalized); err != nil {
		log.Printf("task service: edit task %d failed: %v", id, err)
		return err
	}
	return nil
}

func (s *TaskService) MarkComplete(ctx context.Context, id uint) error {
	return s.EditTask(ctx, id, map[string]any{repository.FieldStatus: constants.StatusCompleted})
}

func (s *TaskService) DeleteTask(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		log.Printf("task service: delete task %d failed: %v", id, err)
		return err
	}
	return nil
}

func (s *TaskService) GetAllTasks(ctx context.Context) ([]model.Task, error) {
	tasks, err := s.repo.FindAll(ctx)
	return s.logRead("list tasks", tasks, err)
}

func (s *TaskService) GetTasksByDate(ctx context.Context, date model.Date) ([]model.Task, error) {
	tasks, err := s.repo.FindByDeadline(ctx, date)
	return s.logRead("list tasks by date", tasks, err)
}

func (s *TaskService) GetTasksByPriority(ctx context.Context, priority constants.TaskPriority) ([]model.Task, error) {
	tasks, err := s.repo.FindByPriority(ctx, priority)
	return s.logRead("list tasks by priority", tasks, err)
}

func (s *TaskService) GetTasksByStatus(ctx context.Context, status constants.TaskStatus) ([]model.Task, error) {
	tasks, err := s.repo.FindByStatus(ctx, status)
	return s.logRead("list tasks by status", tasks, err)
}

// ListFilter narrows and orders a task listing. Zero fields mean "any".
type ListFilter struct {
	Priority constants.TaskPriority
	Date     *model.Date
	Status   constants.TaskStatus
	// Sort is "", "priority" or "date".
	Sort string
}

// ListTasks returns tasks matching every set field of f. The most selective
// filter is pushed down to the store and the rest are applied in memory.
func (s *TaskService) ListTasks(ctx context.Context, f ListFilter) ([]model.Task, error) {
	switch f.Sort {
	case "", SortPriority, SortDate:
	default:
		return nil, fmt.Errorf("%w: unknown sort %q (expected priority or date)", apperrors.ErrValidation, f.Sort)
	}

	var (
		tasks []model.Task
		err   error
	)
	switch {
	case f.Date != nil:
		tasks, err = s.GetTasksByDate(ctx, *f.Date)
	case f.Priority != "":
		tasks, err = s.GetTasksByPriority(ctx, f.Priority)
	case f.Status != "":
		tasks, err = s.GetTasksByStatus(ctx, f.Status)
	default:
		tasks, err = s.GetAllTasks(ctx)
	}
	if err != nil {
		return nil, err
	}

	filtered := tasks[:0]
	for _, t := range tasks {
		if f.Priority != "" && t.Priority != f.Priority {
			continue
		}
		if f.Status != "" && t.Status != f.Status {
			continue
		}
		if f.Date != nil && (!t.HasDeadline() || !t.Deadline.Equal(*f.Date)) {
			continue
		}
		filtered = append(filtered, t)
	}

	switch f.Sort {
	case SortPriority:
		model.SortByPriority(filtered)
	case SortDate:
		model.SortByDate(filtered)
	}
	return filtered, nil
}

// GetTaskByID reports found=false rather than an error when no row matches.
func (s *TaskService) GetTaskByID(ctx context.Context, id uint) (model.Task, bool, error) {
	task, found, err := s.repo.FindByID(ctx, id)
	if err != nil {
		log.Printf("task service: get task %d failed: %v", id, err)
	}
	return task, found, err
}

func (s *TaskService) ClearAllTasks(ctx context.Context) error {
	if err := s.repo.ClearAll(ctx); err != nil {
		log.Printf("task service: clear tasks failed: %v", err)
		return err
	}
	return nil
}

func (s *TaskService) Stats(ctx context.Context) (model.Stats, error) {
	counts, err := s.repo.CountByPriority(ctx)
	if err != nil {
		log.Printf("task service: count tasks failed: %v", err)
		return model.Stats{}, err
	}
	pending, err := s.GetTasksByStatus(ctx, constants.StatusPending)
	if err != nil {
		return model.Stats{}, err
	}
	return model.NewStats(counts, int64(len(pending))), nil
}

func (s *TaskService) logRead(op string, tasks []model.Task, err error) ([]model.Task, error) {
	if err != nil {
		log.Printf("task service: %s failed: %v", op, err)
		return nil, err
	}
	return tasks, nil
}

// ParseDeadline converts user text into a deadline. Empty text means no
// deadline.
func ParseDeadline(text string) (*model.Date, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	d, err := model.ParseDate(text)
	if err != nil {
		return nil, fmt.Errorf("%w: deadline %q must use YYYY-MM-DD", apperrors.ErrValidation, text)
	}
	return &d, nil
}

func ParsePriority(text string) (constants.TaskPriority, error) {
	p, err := constants.ParsePriority(text)
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	return p, nil
}

func ParseStatus(text string) (constants.TaskStatus, error) {
	st, err := constants.ParseStatus(text)
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	return st, nil
}

func normalizePriority(p constants.TaskPriority) (constants.TaskPriority, error) {
	if p.Valid() {
		return p, nil
	}
	return ParsePriority(string(p))
}

// normalizePatch converts edit payload values into the forms the store
// persists. Unknown keys pass through so the store can reject them.
func normalizePatch(patch map[string]any) (map[string]any, error) {
	normalized := make(map[string]any, len(patch))

	for key, value := range patch {
		switch key {
		case repository.FieldTitle:
			title, ok := value.(string)
			if !ok || strings.TrimSpace(title) == "" {
				return nil, fmt.Errorf("%w: title must be non-empty text", apperrors.ErrValidation)
			}
			normalized[key] = strings.TrimSpace(title)

		case repository.FieldDescription:
			description, ok := value.(string)
			if !ok && value != nil {
				return nil, fmt.Errorf("%w: description must be text", apperrors.ErrValidation)
			}
			normalized[key] = description

		case repository.FieldDeadline:
			deadline, err := normalizeDeadline(value)
			if err != nil {
				return nil, err
			}
			normalized[key] = deadline

		case repository.FieldPriority:
			text, err := enumText(key, value)
			if err != nil {
				return nil, err
			}
			p, err := ParsePriority(text)
			if err != nil {
				return nil, err
			}
			normalized[key] = string(p)

		case repository.FieldStatus:
			text, err := enumText(key, value)
			if err != nil {
				return nil, err
			}
			st, err := ParseStatus(text)
			if err != nil {
				return nil, err
			}
			normalized[key] = string(st)

		default:
			normalized[key] = value
		}
	}

	return normalized, nil
}

// normalizeDeadline returns the value to store: nil clears the deadline.
func normalizeDeadline(value any) (any, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case string:
		d, err := ParseDeadline(v)
		if err != nil || d == nil {
			return nil, err
		}
		return *d, nil
	case model.Date:
		if v.IsZero() {
			return nil, nil
		}
		return v, nil
	case *model.Date:
		if v == nil || v.IsZero() {
			return nil, nil
		}
		return *v, nil
	case time.Time:
		if v.IsZero() {
			return nil, nil
		}
		return model.DateOf(v), nil
	default:
		return nil, fmt.Errorf("%w: unsupported deadline value %T", apperrors.ErrValidation, value)
	}
}

func enumText(key string, value any) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case constants.TaskPriority:
		return string(v), nil
	case constants.TaskStatus:
		return string(v), nil
	default:
		return "", fmt.Errorf("%w: %s must be text", apperrors.ErrValidation, key)
	}
}
