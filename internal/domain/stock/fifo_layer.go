package stock

import (
	"time"

	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockFifoLayer is an append-only cost stratum for a quantity acquired at a
// given rate. It is never mutated except for QtyRemaining (decremented on
// consumption) and IsCancelled (set by the cancellation engine); both are
// the only fields a repository Update call is allowed to touch.
type StockFifoLayer struct {
	shared.BaseEntity
	TenantID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	WarehouseID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	LocationID    *uuid.UUID      `gorm:"type:uuid;index"`
	BatchID       *uuid.UUID      `gorm:"type:uuid;index"`
	QtyOriginal   decimal.Decimal `gorm:"type:decimal(18,6);not null"`
	QtyRemaining  decimal.Decimal `gorm:"type:decimal(18,6);not null"`
	IncomingRate  decimal.Decimal `gorm:"type:decimal(18,6);not null"`
	PostingTs     time.Time       `gorm:"not null;index"`
	VoucherType   string          `gorm:"type:varchar(50);not null;index"`
	VoucherNo     string          `gorm:"type:varchar(50);not null;index"`
	SourceLayerID *uuid.UUID      `gorm:"type:uuid;index"`
	IsCancelled   bool            `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (StockFifoLayer) TableName() string {
	return "stock_fifo_layers"
}

// NewStockFifoLayer creates a fresh layer with QtyRemaining == QtyOriginal.
func NewStockFifoLayer(
	tenantID, itemID, warehouseID uuid.UUID,
	locationID, batchID *uuid.UUID,
	qty, incomingRate decimal.Decimal,
	postingTs time.Time,
	voucherType, voucherNo string,
	sourceLayerID *uuid.UUID,
) (*StockFifoLayer, error) {
	if qty.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidQuantity
	}
	if incomingRate.IsNegative() {
		return nil, shared.NewDomainError("INVALID_RATE", "incoming rate cannot be negative")
	}
	return &StockFifoLayer{
		BaseEntity:    shared.NewBaseEntity(),
		TenantID:      tenantID,
		ItemID:        itemID,
		WarehouseID:   warehouseID,
		LocationID:    locationID,
		BatchID:       batchID,
		QtyOriginal:   qty,
		QtyRemaining:  qty,
		IncomingRate:  incomingRate,
		PostingTs:     postingTs,
		VoucherType:   voucherType,
		VoucherNo:     voucherNo,
		SourceLayerID: sourceLayerID,
	}, nil
}

// Consume decrements QtyRemaining by min(QtyRemaining, demand) and returns
// the amount actually consumed.
func (l *StockFifoLayer) Consume(demand decimal.Decimal) decimal.Decimal {
	taken := decimal.Min(l.QtyRemaining, demand)
	l.QtyRemaining = l.QtyRemaining.Sub(taken)
	l.UpdatedAt = time.Now()
	return taken
}

// Restore returns a previously consumed quantity to the layer, capped so
// QtyRemaining never exceeds QtyOriginal. Returns an error if the requested
// restoration would exceed that cap.
func (l *StockFifoLayer) Restore(qty decimal.Decimal) error {
	if l.IsCancelled {
		return ErrLayerCancelled
	}
	if l.QtyRemaining.Add(qty).GreaterThan(l.QtyOriginal) {
		return ErrReturnExceedsOriginal
	}
	l.QtyRemaining = l.QtyRemaining.Add(qty)
	l.UpdatedAt = time.Now()
	return nil
}

// Cancel marks the layer fully cancelled. Callers must have already
// verified QtyRemaining == QtyOriginal (no downstream consumption).
func (l *StockFifoLayer) Cancel() error {
	if !l.QtyRemaining.Equal(l.QtyOriginal) {
		return ErrDownstreamConsumed
	}
	l.QtyRemaining = decimal.Zero
	l.IsCancelled = true
	l.UpdatedAt = time.Now()
	return nil
}

// IsConsumed reports whether any quantity has been taken from this layer.
func (l *StockFifoLayer) IsConsumed() bool {
	return l.QtyRemaining.LessThan(l.QtyOriginal)
}
