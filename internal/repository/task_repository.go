package repository

import (
	"context"
	"errors"

	"github.com/bitzerlab/ordertrack/internal/entity"
	"gorm.io/gorm"
)

// TaskRepository persists work tasks.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// FindByID looks a task up by id with its operator preloaded.
func (r *TaskRepository) FindByID(ctx context.Context, id int64) (*entity.Task, error) {
	var task entity.Task
	err := r.db.WithContext(ctx).
		Preload("OperatorUser").
		Where("id = ?", id).
		First(&task).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &task, nil
}

// ListByOperationID returns the tasks under an operation.
func (r *TaskRepository) ListByOperationID(ctx context.Context, operationID int64) ([]entity.Task, error) {
	var tasks []entity.Task
	err := r.db.WithContext(ctx).
		Preload("OperatorUser").
		Where("operation_id = ?", operationID).
		Order("id ASC").
		Find(&tasks).Error
	return tasks, err
}

// Create inserts a new task.
func (r *TaskRepository) Create(ctx context.Context, task *entity.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

// Updates applies a partial column update.
func (r *TaskRepository) Updates(ctx context.Context, id int64, values map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&entity.Task{}).
		Where("id = ?", id).
		Updates(values).Error
}
