package repository

import (
	"context"
	"errors"

	"github.com/bitzerlab/ordertrack/internal/entity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MachineRepository persists work centers.
type MachineRepository struct {
	db *gorm.DB
}

func NewMachineRepository(db *gorm.DB) *MachineRepository {
	return &MachineRepository{db: db}
}

// List returns machines, optionally only active ones.
func (r *MachineRepository) List(ctx context.Context, activeOnly bool) ([]entity.Machine, error) {
	var machines []entity.Machine
	query := r.db.WithContext(ctx)
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	err := query.Order("machine_location ASC").Find(&machines).Error
	return machines, err
}

// FindByID looks a machine up by id.
func (r *MachineRepository) FindByID(ctx context.Context, id int64) (*entity.Machine, error) {
	var machine entity.Machine
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&machine).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &machine, nil
}

// Upsert inserts or updates a machine keyed on its location label. The
// shop-floor export re-sends the full machine list, so imports must be
// idempotent.
func (r *MachineRepository) Upsert(ctx context.Context, machine *entity.Machine) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "machine_location"}},
			DoUpdates: clause.AssignmentColumns([]string{"description", "machine_id", "machine_type", "active"}),
		}).
		Create(machine).Error
}

// Updates applies a partial column update.
func (r *MachineRepository) Updates(ctx context.Context, id int64, values map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&entity.Machine{}).
		Where("id = ?", id).
		Updates(values).Error
}
