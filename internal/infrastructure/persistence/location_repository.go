package persistence

import (
	"context"
	"errors"

	"github.com/erp/stockledger/internal/domain/partner"
	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormLocationRepository implements partner.LocationRepository. partner.Location
// carries its own gorm tags, so this needs no separate persistence model.
type GormLocationRepository struct {
	db *gorm.DB
}

// NewGormLocationRepository creates a new GormLocationRepository.
func NewGormLocationRepository(db *gorm.DB) *GormLocationRepository {
	return &GormLocationRepository{db: db}
}

func (r *GormLocationRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*partner.Location, error) {
	var loc partner.Location
	if err := r.db.WithContext(ctx).Where("tenant_id = ? AND id = ?", tenantID, id).First(&loc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &loc, nil
}

func (r *GormLocationRepository) FindByCode(ctx context.Context, tenantID, warehouseID uuid.UUID, code string) (*partner.Location, error) {
	var loc partner.Location
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND warehouse_id = ? AND code = ?", tenantID, warehouseID, code).
		First(&loc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &loc, nil
}

func (r *GormLocationRepository) FindByWarehouse(ctx context.Context, tenantID, warehouseID uuid.UUID) ([]partner.Location, error) {
	var locs []partner.Location
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND warehouse_id = ?", tenantID, warehouseID).
		Find(&locs).Error; err != nil {
		return nil, err
	}
	return locs, nil
}

func (r *GormLocationRepository) Save(ctx context.Context, location *partner.Location) error {
	return r.db.WithContext(ctx).Save(location).Error
}

func (r *GormLocationRepository) SaveBatch(ctx context.Context, locations []*partner.Location) error {
	if len(locations) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Save(locations).Error
}

var _ partner.LocationRepository = (*GormLocationRepository)(nil)
