package repository

import (
	"context"
	"fmt"
	"sort"

	"gorm.io/gorm"

	"task-manager.com/task-manager/internal/constants"
	apperrors "task-manager.com/task-manager/internal/errors"
	model "task-manager.com/task-manager/internal/models"
)

// TaskStore is the data-access contract over the tasks table. Every write is
// a single statement committed on return.
type TaskStore interface {
	CreateTable(ctx context.Context) error
	Insert(ctx context.Context, task model.Task) error
	Create(ctx context.Context, task model.Task) (model.Task, error)
	Update(ctx context.Context, id uint, patch map[string]any) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (model.Task, bool, error)
	FindByDeadline(ctx context.Context, date model.Date) ([]model.Task, error)
	FindByPriority(ctx context.Context, priority constants.TaskPriority) ([]model.Task, error)
	FindByStatus(ctx context.Context, status constants.TaskStatus) ([]model.Task, error)
	FindAll(ctx context.Context) ([]model.Task, error)
	CountByPriority(ctx context.Context) ([]model.PriorityCount, error)
	ClearAll(ctx context.Context) error
}

// Patch keys accepted by Update.
const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldDeadline    = "deadline"
	FieldPriority    = "priority"
	FieldStatus      = "status"
)

var patchableFields = map[string]struct{}{
	FieldTitle:       {},
	FieldDescription: {},
	FieldDeadline:    {},
	FieldPriority:    {},
	FieldStatus:      {},
}

type TaskRepository struct {
	db *gorm.DB
}

var _ TaskStore = (*TaskRepository)(nil)

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// CreateTable is idempotent.
func (r *TaskRepository) CreateTable(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(&model.Task{}); err != nil {
		return persistenceError("create tasks table", err)
	}
	return nil
}

// Insert writes task as a new row. Any ID on task is ignored.
func (r *TaskRepository) Insert(ctx context.Context, task model.Task) error {
	_, err := r.Create(ctx, task)
	return err
}

// Create is Insert that also returns the stored row, including the id sqlite
// assigned to it.
func (r *TaskRepository) Create(ctx context.Context, task model.Task) (model.Task, error) {
	task.ID = 0
	if task.Deadline != nil && task.Deadline.IsZero() {
		task.Deadline = nil
	}

	if err := r.db.WithContext(ctx).Create(&task).Error; err != nil {
		return model.Task{}, persistenceError("insert task", err)
	}
	return task, nil
}

// Update applies patch to the row with id. Unknown keys are rejected before
// the statement runs; a missing id is not an error.
func (r *TaskRepository) Update(ctx context.Context, id uint, patch map[string]any) error {
	if len(patch) == 0 {
		return nil
	}

	for key := range patch {
		if _, ok := patchableFields[key]; !ok {
			return fmt.Errorf("update task %d: %w: %w: unknown field %q", id, apperrors.ErrPersistence, apperrors.ErrMalformedPatch, key)
		}
	}

	res := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("id = ?", id).
		Updates(patch)

	if res.Error != nil {
		return persistenceError(fmt.Sprintf("update task %d", id), res.Error)
	}
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&model.Task{}, id).Error; err != nil {
		return persistenceError(fmt.Sprintf("delete task %d", id), err)
	}
	return nil
}

func (r *TaskRepository) FindByID(ctx context.Context, id uint) (model.Task, bool, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&tasks).Error
	if err != nil {
		return model.Task{}, false, persistenceError(fmt.Sprintf("find task %d", id), err)
	}
	if len(tasks) == 0 {
		return model.Task{}, false, nil
	}
	return tasks[0], true, nil
}

// FindByDeadline matches the stored text exactly; it is not a range query.
func (r *TaskRepository) FindByDeadline(ctx context.Context, date model.Date) ([]model.Task, error) {
	return r.findWhere(ctx, "find tasks by deadline", "deadline = ?", date.String())
}

func (r *TaskRepository) FindByPriority(ctx context.Context, priority constants.TaskPriority) ([]model.Task, error) {
	return r.findWhere(ctx, "find tasks by priority", "priority = ?", string(priority))
}

func (r *TaskRepository) FindByStatus(ctx context.Context, status constants.TaskStatus) ([]model.Task, error) {
	return r.findWhere(ctx, "find tasks by status", "status = ?", string(status))
}

// FindAll returns every task in insertion order.
func (r *TaskRepository) FindAll(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).Order("id asc").Find(&tasks).Error; err != nil {
		return nil, persistenceError("find all tasks", err)
	}
	return tasks, nil
}

func (r *TaskRepository) CountByPriority(ctx context.Context) ([]model.PriorityCount, error) {
	var counts []model.PriorityCount
	err := r.db.WithContext(ctx).Model(&model.Task{}).
		Select("priority, count(*) as count").
		Group("priority").
		Scan(&counts).Error
	if err != nil {
		return nil, persistenceError("count tasks by priority", err)
	}

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Priority.Rank() < counts[j].Priority.Rank()
	})
	return counts, nil
}

// ClearAll deletes every row. Ids stay monotonic afterwards.
func (r *TaskRepository) ClearAll(ctx context.Context) error {
	if err := r.db.WithContext(ctx).Where("1 = 1").Delete(&model.Task{}).Error; err != nil {
		return persistenceError("clear tasks", err)
	}
	return nil
}

func (r *TaskRepository) findWhere(ctx context.Context, op, query string, args ...any) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).Where(query, args...).Order("id asc").Find(&tasks).Error; err != nil {
		return nil, persistenceError(op, err)
	}
	return tasks, nil
}

func persistenceError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, apperrors.ErrPersistence, err)
}
