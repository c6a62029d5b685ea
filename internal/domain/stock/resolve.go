package stock

import (
	"context"
	"time"

	"github.com/erp/stockledger/internal/domain/catalog"
	"github.com/erp/stockledger/internal/domain/partner"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemLookup resolves a (tenant, code) item reference. Implemented by the
// catalog persistence adapter; kept as a narrow interface here so the stock
// package never imports catalog's repository package, only its entity.
type ItemLookup interface {
	FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*catalog.Product, error)
	FindUnit(ctx context.Context, tenantID, productID uuid.UUID, unitCode string) (*catalog.ProductUnit, error)
}

// WarehouseLookup resolves a (tenant, code) warehouse reference and its
// child locations.
type WarehouseLookup interface {
	FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*partner.Warehouse, error)
	FindLocationByID(ctx context.Context, tenantID, id uuid.UUID) (*partner.Location, error)
	FindLocationByCode(ctx context.Context, tenantID, warehouseID uuid.UUID, code string) (*partner.Location, error)
}

// ResolvedReference is the outcome of resolveItemWarehouseBatch: internal
// identifiers for an item, a warehouse, and — for batch-tracked items — the
// batch row (created lazily if it did not already exist).
type ResolvedReference struct {
	Item      *catalog.Product
	Warehouse *partner.Warehouse
	Batch     *Batch
}

// ResolveItemWarehouseBatch is §4.1's resolveItemWarehouseBatch: it maps a
// voucher line's (itemCode, warehouseCode, batchNo?) to internal entities,
// creating the batch row on demand when the item is batch-tracked.
func ResolveItemWarehouseBatch(
	ctx context.Context,
	items ItemLookup,
	warehouses WarehouseLookup,
	batches BatchRepository,
	tenantID uuid.UUID,
	itemCode, warehouseCode string,
	batchNo string,
	expiry *time.Time,
) (*ResolvedReference, error) {
	item, err := items.FindByCode(ctx, tenantID, itemCode)
	if err != nil {
		return nil, ErrUnknownItem
	}
	warehouse, err := warehouses.FindByCode(ctx, tenantID, warehouseCode)
	if err != nil {
		return nil, ErrUnknownWarehouse
	}

	if batchNo == "" {
		if item.HasBatch {
			return nil, ErrBatchOnNonBatchItem
		}
		return &ResolvedReference{Item: item, Warehouse: warehouse}, nil
	}
	if !item.HasBatch {
		return nil, ErrBatchOnNonBatchItem
	}

	batch, err := batches.GetOrCreate(ctx, tenantID, item.ID, batchNo, expiry)
	if err != nil {
		return nil, err
	}
	return &ResolvedReference{Item: item, Warehouse: warehouse, Batch: batch}, nil
}

// ResolveReceivingLocation picks the explicit location if given, else the
// warehouse's default receiving location; fails with ErrNoReceivingLocation
// if neither is set.
func ResolveReceivingLocation(ctx context.Context, warehouses WarehouseLookup, tenantID uuid.UUID, warehouse *partner.Warehouse, explicitLocationID *uuid.UUID) (*partner.Location, error) {
	if explicitLocationID != nil {
		return warehouses.FindLocationByID(ctx, tenantID, *explicitLocationID)
	}
	if warehouse.DefaultReceivingLocationID == nil {
		return nil, ErrNoReceivingLocation
	}
	return warehouses.FindLocationByID(ctx, tenantID, *warehouse.DefaultReceivingLocationID)
}

// ResolvePickingLocation picks the explicit location if given, else the
// warehouse's default picking location. Unlike receiving, a picking
// location may remain unset: callers interpret a nil result as "layer
// selection spans locations" per §4.3.
func ResolvePickingLocation(ctx context.Context, warehouses WarehouseLookup, tenantID uuid.UUID, warehouse *partner.Warehouse, explicitLocationID *uuid.UUID) (*partner.Location, error) {
	if explicitLocationID != nil {
		return warehouses.FindLocationByID(ctx, tenantID, *explicitLocationID)
	}
	if warehouse.DefaultPickingLocationID == nil {
		return nil, nil
	}
	return warehouses.FindLocationByID(ctx, tenantID, *warehouse.DefaultPickingLocationID)
}

// ResolveStockQty is §4.1's resolveStockQty: it converts a document
// quantity/rate into the item's canonical stock UOM, returning the
// converted (stockQty, rate, factor). If uomCode is empty or matches the
// item's stock UOM, factor is 1. A caller-supplied conversionFactor
// overrides the item-UOM table; otherwise the table row must exist, else
// MissingUomConversion. Rate is divided by the factor so ledger valuation
// is always per stock unit.
func ResolveStockQty(
	ctx context.Context,
	items ItemLookup,
	tenantID uuid.UUID,
	item *catalog.Product,
	qty, rate decimal.Decimal,
	uomCode string,
	conversionFactor *decimal.Decimal,
) (stockQty, stockRate, factor decimal.Decimal, err error) {
	if uomCode == "" || uomCode == item.Unit {
		return qty, rate, decimal.NewFromInt(1), nil
	}

	if conversionFactor != nil {
		if !conversionFactor.GreaterThan(decimal.Zero) {
			return decimal.Zero, decimal.Zero, decimal.Zero, ErrInvalidQuantity
		}
		factor = *conversionFactor
	} else {
		unit, uerr := items.FindUnit(ctx, tenantID, item.ID, uomCode)
		if uerr != nil || unit == nil {
			return decimal.Zero, decimal.Zero, decimal.Zero, ErrMissingUomConversion
		}
		if !unit.ConversionRate.GreaterThan(decimal.Zero) {
			return decimal.Zero, decimal.Zero, decimal.Zero, ErrMissingUomConversion
		}
		factor = unit.ConversionRate
	}

	stockQty = qty.Mul(factor)
	stockRate = rate.Div(factor)
	return stockQty, stockRate, factor, nil
}
