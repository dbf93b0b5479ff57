package repository

import (
	"context"
	"errors"

	"github.com/bitzerlab/ordertrack/internal/entity"
	"gorm.io/gorm"
)

// OperationRepository persists operations and their piece summaries.
type OperationRepository struct {
	db *gorm.DB
}

func NewOperationRepository(db *gorm.DB) *OperationRepository {
	return &OperationRepository{db: db}
}

// List returns all operations with machine and tasks preloaded.
func (r *OperationRepository) List(ctx context.Context) ([]entity.Operation, error) {
	var operations []entity.Operation
	err := r.db.WithContext(ctx).
		Preload("Machine").
		Preload("Tasks").
		Order("id ASC").
		Find(&operations).Error
	return operations, err
}

// FindByID looks an operation up by id.
func (r *OperationRepository) FindByID(ctx context.Context, id int64) (*entity.Operation, error) {
	var operation entity.Operation
	err := r.db.WithContext(ctx).
		Preload("Machine").
		Preload("Tasks").
		Where("id = ?", id).
		First(&operation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &operation, nil
}

// FindByOrderAndCode looks an operation up by owning order id and code.
func (r *OperationRepository) FindByOrderAndCode(ctx context.Context, orderID int64, code string) (*entity.Operation, error) {
	var operation entity.Operation
	err := r.db.WithContext(ctx).
		Where("order_id = ? AND operation_code = ?", orderID, code).
		First(&operation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &operation, nil
}

// ListByOrderID returns the operations under an order.
func (r *OperationRepository) ListByOrderID(ctx context.Context, orderID int64) ([]entity.Operation, error) {
	var operations []entity.Operation
	err := r.db.WithContext(ctx).
		Preload("Machine").
		Preload("Tasks").
		Where("order_id = ?", orderID).
		Order("operation_code ASC").
		Find(&operations).Error
	return operations, err
}

// Create inserts a new operation.
func (r *OperationRepository) Create(ctx context.Context, operation *entity.Operation) error {
	return r.db.WithContext(ctx).Create(operation).Error
}

// Updates applies a partial column update.
func (r *OperationRepository) Updates(ctx context.Context, id int64, values map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&entity.Operation{}).
		Where("id = ?", id).
		Updates(values).Error
}

// PieceSummary sums good/bad pieces over the operation's tasks. Tasks with
// null counts contribute zero.
func (r *OperationRepository) PieceSummary(ctx context.Context, operationID int64) (*entity.PieceSummary, error) {
	summary := entity.PieceSummary{OperationID: operationID}
	err := r.db.WithContext(ctx).
		Model(&entity.Task{}).
		Select("COALESCE(SUM(good_pieces), 0) AS good_pieces, COALESCE(SUM(bad_pieces), 0) AS bad_pieces").
		Where("operation_id = ?", operationID).
		Scan(&summary).Error
	if err != nil {
		return nil, err
	}
	return &summary, nil
}
