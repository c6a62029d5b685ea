package persistence

import (
	"context"

	"github.com/erp/stockledger/internal/domain/catalog"
	"github.com/erp/stockledger/internal/domain/partner"
	stockdomain "github.com/erp/stockledger/internal/domain/stock"
	"github.com/google/uuid"
)

// CatalogItemLookup adapts the catalog persistence repositories to
// stockdomain.ItemLookup, the narrow read contract resolveItemWarehouseBatch
// needs. It composes the product and product-unit repositories rather than
// duplicating their queries.
type CatalogItemLookup struct {
	products *GormProductRepository
	units    *GormProductUnitRepository
}

// NewCatalogItemLookup creates a new CatalogItemLookup.
func NewCatalogItemLookup(products *GormProductRepository, units *GormProductUnitRepository) *CatalogItemLookup {
	return &CatalogItemLookup{products: products, units: units}
}

func (l *CatalogItemLookup) FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*catalog.Product, error) {
	return l.products.FindByCode(ctx, tenantID, code)
}

func (l *CatalogItemLookup) FindUnit(ctx context.Context, tenantID, productID uuid.UUID, unitCode string) (*catalog.ProductUnit, error) {
	return l.units.FindByProductIDAndCode(ctx, tenantID, productID, unitCode)
}

var _ stockdomain.ItemLookup = (*CatalogItemLookup)(nil)

// WarehouseLocationLookup adapts the warehouse and location persistence
// repositories to stockdomain.WarehouseLookup.
type WarehouseLocationLookup struct {
	warehouses *GormWarehouseRepository
	locations  *GormLocationRepository
}

// NewWarehouseLocationLookup creates a new WarehouseLocationLookup.
func NewWarehouseLocationLookup(warehouses *GormWarehouseRepository, locations *GormLocationRepository) *WarehouseLocationLookup {
	return &WarehouseLocationLookup{warehouses: warehouses, locations: locations}
}

func (l *WarehouseLocationLookup) FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*partner.Warehouse, error) {
	return l.warehouses.FindByCode(ctx, tenantID, code)
}

func (l *WarehouseLocationLookup) FindLocationByID(ctx context.Context, tenantID, id uuid.UUID) (*partner.Location, error) {
	return l.locations.FindByID(ctx, tenantID, id)
}

func (l *WarehouseLocationLookup) FindLocationByCode(ctx context.Context, tenantID, warehouseID uuid.UUID, code string) (*partner.Location, error) {
	return l.locations.FindByCode(ctx, tenantID, warehouseID, code)
}

var _ stockdomain.WarehouseLookup = (*WarehouseLocationLookup)(nil)
