package stock

import (
	"time"

	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WarehouseItemBalance is the per-(item, warehouse) aggregate of §3/§4.4: it
// tracks ActualQty, ReservedQty, and a moving weighted-average ValuationRate.
// AvailableQty is derived, never stored.
type WarehouseItemBalance struct {
	shared.TenantAggregateRoot
	ItemID         uuid.UUID       `gorm:"type:uuid;not null;index;uniqueIndex:idx_wh_balance,priority:2"`
	WarehouseID    uuid.UUID       `gorm:"type:uuid;not null;index;uniqueIndex:idx_wh_balance,priority:3"`
	ActualQty      decimal.Decimal `gorm:"type:decimal(18,6);not null;default:0"`
	ReservedQty    decimal.Decimal `gorm:"type:decimal(18,6);not null;default:0"`
	ValuationRate  decimal.Decimal `gorm:"type:decimal(18,6);not null;default:0"`
	AllowNegative  bool            `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (WarehouseItemBalance) TableName() string {
	return "warehouse_item_balances"
}

// NewWarehouseItemBalance creates a zeroed balance row. allowNegative mirrors
// the tenant/item setting resolved by the caller at creation time.
func NewWarehouseItemBalance(tenantID, itemID, warehouseID uuid.UUID, allowNegative bool) *WarehouseItemBalance {
	return &WarehouseItemBalance{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ItemID:              itemID,
		WarehouseID:         warehouseID,
		ActualQty:           decimal.Zero,
		ReservedQty:         decimal.Zero,
		ValuationRate:       decimal.Zero,
		AllowNegative:       allowNegative,
	}
}

// AvailableQty is ActualQty minus ReservedQty; never persisted.
func (b *WarehouseItemBalance) AvailableQty() decimal.Decimal {
	return b.ActualQty.Sub(b.ReservedQty)
}

// Receive increases ActualQty and recomputes the moving weighted-average
// ValuationRate, mirroring InventoryItem.IncreaseStock's weighted-average
// formula.
func (b *WarehouseItemBalance) Receive(qty, incomingRate decimal.Decimal) error {
	if qty.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidQuantity
	}
	if incomingRate.IsNegative() {
		return shared.NewDomainError("INVALID_RATE", "incoming rate cannot be negative")
	}
	oldQty := b.ActualQty
	if oldQty.IsZero() {
		b.ValuationRate = incomingRate
	} else {
		totalValue := oldQty.Mul(b.ValuationRate).Add(qty.Mul(incomingRate))
		newQty := oldQty.Add(qty)
		b.ValuationRate = totalValue.Div(newQty).Round(6)
	}
	b.ActualQty = b.ActualQty.Add(qty)
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
	return nil
}

// Issue decreases ActualQty by qty at the FIFO engine's weighted consumption
// rate. It does not touch ValuationRate: outgoing legs are costed by the
// FIFO/FEFO engine, not by the moving average. Fails below zero unless
// AllowNegative is set.
func (b *WarehouseItemBalance) Issue(qty decimal.Decimal) error {
	if qty.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidQuantity
	}
	if !b.AllowNegative && b.ActualQty.LessThan(qty) {
		return ErrBalanceWouldGoNegative
	}
	b.ActualQty = b.ActualQty.Sub(qty)
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
	return nil
}

// Reserve moves qty from available into ReservedQty. Fails if insufficient
// available quantity exists, regardless of AllowNegative (reservations never
// go negative).
func (b *WarehouseItemBalance) Reserve(qty decimal.Decimal) error {
	if qty.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidQuantity
	}
	if b.AvailableQty().LessThan(qty) {
		return ErrInsufficientBinStock
	}
	b.ReservedQty = b.ReservedQty.Add(qty)
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
	return nil
}

// Unreserve moves qty from ReservedQty back to available, clamped at the
// currently reserved quantity (mirrors StockBatch.Deduct's cap-at-available
// idiom; see DESIGN.md Open Question 3).
func (b *WarehouseItemBalance) Unreserve(qty decimal.Decimal) decimal.Decimal {
	taken := decimal.Min(b.ReservedQty, qty)
	b.ReservedQty = b.ReservedQty.Sub(taken)
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
	return taken
}

// ConsumeReservation releases a reservation and removes the stock in one
// step (actual shipment against a prior reservation): ReservedQty and
// ActualQty both drop by min(ReservedQty, qty).
func (b *WarehouseItemBalance) ConsumeReservation(qty decimal.Decimal) (decimal.Decimal, error) {
	if qty.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, ErrInvalidQuantity
	}
	taken := decimal.Min(b.ReservedQty, qty)
	if taken.IsZero() {
		return decimal.Zero, ErrInsufficientReserved
	}
	if !b.AllowNegative && b.ActualQty.LessThan(taken) {
		return decimal.Zero, ErrBalanceWouldGoNegative
	}
	b.ReservedQty = b.ReservedQty.Sub(taken)
	b.ActualQty = b.ActualQty.Sub(taken)
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
	return taken, nil
}

// IsBelowThreshold reports whether ActualQty has dropped below the supplied
// reorder threshold (resolved by the caller from item/warehouse settings).
func (b *WarehouseItemBalance) IsBelowThreshold(threshold decimal.Decimal) bool {
	return threshold.GreaterThan(decimal.Zero) && b.ActualQty.LessThan(threshold)
}

// BinBalance is the per-(item, warehouse, location, batch) granular balance
// of §4.4. BatchID is nil for non-batch items; two bin balances differing
// only by BatchID are distinct rows.
type BinBalance struct {
	shared.TenantAggregateRoot
	ItemID      uuid.UUID       `gorm:"type:uuid;not null;index;uniqueIndex:idx_bin_balance,priority:2"`
	WarehouseID uuid.UUID       `gorm:"type:uuid;not null;index;uniqueIndex:idx_bin_balance,priority:3"`
	LocationID  uuid.UUID       `gorm:"type:uuid;not null;index;uniqueIndex:idx_bin_balance,priority:4"`
	BatchID     *uuid.UUID      `gorm:"type:uuid;index;uniqueIndex:idx_bin_balance,priority:5"`
	ActualQty   decimal.Decimal `gorm:"type:decimal(18,6);not null;default:0"`
	ReservedQty decimal.Decimal `gorm:"type:decimal(18,6);not null;default:0"`
}

// TableName returns the table name for GORM
func (BinBalance) TableName() string {
	return "bin_balances"
}

// NewBinBalance creates a zeroed bin-level balance row.
func NewBinBalance(tenantID, itemID, warehouseID, locationID uuid.UUID, batchID *uuid.UUID) *BinBalance {
	return &BinBalance{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ItemID:              itemID,
		WarehouseID:         warehouseID,
		LocationID:          locationID,
		BatchID:             batchID,
		ActualQty:           decimal.Zero,
		ReservedQty:         decimal.Zero,
	}
}

// AvailableQty is ActualQty minus ReservedQty at this bin.
func (b *BinBalance) AvailableQty() decimal.Decimal {
	return b.ActualQty.Sub(b.ReservedQty)
}

// UpsertReceive increases ActualQty at this bin (upsertBinBalance of §4.4).
func (b *BinBalance) UpsertReceive(qty decimal.Decimal) error {
	if qty.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidQuantity
	}
	b.ActualQty = b.ActualQty.Add(qty)
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
	return nil
}

// Issue decreases ActualQty at this bin, failing if it would go negative:
// bin balances never allow negative stock regardless of tenant/item policy,
// since a bin can only ship what is physically present.
func (b *BinBalance) Issue(qty decimal.Decimal) error {
	if qty.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidQuantity
	}
	if b.ActualQty.LessThan(qty) {
		return ErrInsufficientBinStock
	}
	b.ActualQty = b.ActualQty.Sub(qty)
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
	return nil
}

// Reserve moves qty from available into ReservedQty at this bin
// (upsertBinReservation of §4.4).
func (b *BinBalance) Reserve(qty decimal.Decimal) error {
	if qty.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidQuantity
	}
	if b.AvailableQty().LessThan(qty) {
		return ErrInsufficientBinStock
	}
	b.ReservedQty = b.ReservedQty.Add(qty)
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
	return nil
}

// Unreserve moves qty from ReservedQty back to available at this bin,
// clamped at the currently reserved quantity.
func (b *BinBalance) Unreserve(qty decimal.Decimal) decimal.Decimal {
	taken := decimal.Min(b.ReservedQty, qty)
	b.ReservedQty = b.ReservedQty.Sub(taken)
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
	return taken
}

// IsEmpty reports whether this bin row now holds no stock and no
// reservation, signalling it is a candidate for pruning.
func (b *BinBalance) IsEmpty() bool {
	return b.ActualQty.IsZero() && b.ReservedQty.IsZero()
}
