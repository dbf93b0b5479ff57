package repository

import (
	"context"
	"errors"

	"github.com/bitzerlab/ordertrack/internal/entity"
	"gorm.io/gorm"
)

// OrderRepository persists production orders.
type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// List returns all orders with their operations preloaded.
func (r *OrderRepository) List(ctx context.Context) ([]entity.Order, error) {
	var orders []entity.Order
	err := r.db.WithContext(ctx).
		Preload("Operations").
		Order("order_number ASC").
		Find(&orders).Error
	return orders, err
}

// FindByID looks an order up by internal id.
func (r *OrderRepository) FindByID(ctx context.Context, id int64) (*entity.Order, error) {
	var order entity.Order
	err := r.db.WithContext(ctx).
		Preload("Operations").
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindByOrderNumber looks an order up by its human order number.
func (r *OrderRepository) FindByOrderNumber(ctx context.Context, orderNumber int64) (*entity.Order, error) {
	var order entity.Order
	err := r.db.WithContext(ctx).
		Preload("Operations").
		Where("order_number = ?", orderNumber).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// Resolve accepts either an internal id or an order number; ids win on
// collision. The legacy client passed both through the same path segment.
func (r *OrderRepository) Resolve(ctx context.Context, ref int64) (*entity.Order, error) {
	order, err := r.FindByID(ctx, ref)
	if err == nil {
		return order, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	return r.FindByOrderNumber(ctx, ref)
}

// ExistsByOrderNumber reports whether an order number is taken.
func (r *OrderRepository) ExistsByOrderNumber(ctx context.Context, orderNumber int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Order{}).
		Where("order_number = ?", orderNumber).
		Count(&count).Error
	return count > 0, err
}

// Create inserts a new order.
func (r *OrderRepository) Create(ctx context.Context, order *entity.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

// Updates applies a partial column update and returns nothing; callers
// re-fetch for the canonical row.
func (r *OrderRepository) Updates(ctx context.Context, id int64, values map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&entity.Order{}).
		Where("id = ?", id).
		Updates(values).Error
}
