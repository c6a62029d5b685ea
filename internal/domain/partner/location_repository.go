package partner

import (
	"context"

	"github.com/google/uuid"
)

// LocationRepository defines the interface for warehouse location persistence
type LocationRepository interface {
	// FindByID finds a location by its ID within a tenant
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Location, error)

	// FindByCode finds a location by its code within a warehouse
	FindByCode(ctx context.Context, tenantID, warehouseID uuid.UUID, code string) (*Location, error)

	// FindByWarehouse finds every location belonging to a warehouse
	FindByWarehouse(ctx context.Context, tenantID, warehouseID uuid.UUID) ([]Location, error)

	// Save creates or updates a location
	Save(ctx context.Context, location *Location) error

	// SaveBatch creates or updates multiple locations in one call, used when
	// seeding a warehouse's ROOT/RECEIVING/PICKING/STAGING tree.
	SaveBatch(ctx context.Context, locations []*Location) error
}
