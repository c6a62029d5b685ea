package stock

import (
	"time"

	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockLedgerEntry is an append-only movement leg. Qty is signed: negative
// for outgoing legs, positive for incoming. It is never updated in place;
// corrections are additional rows with the opposite sign.
type StockLedgerEntry struct {
	shared.BaseEntity
	TenantID             uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemID               uuid.UUID       `gorm:"type:uuid;not null;index"`
	WarehouseID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	Qty                  decimal.Decimal `gorm:"type:decimal(18,6);not null"`
	ValuationRate        decimal.Decimal `gorm:"type:decimal(18,6);not null"`
	StockValueDifference decimal.Decimal `gorm:"type:decimal(18,6);not null"`
	FromLocationID       *uuid.UUID      `gorm:"type:uuid;index"`
	ToLocationID         *uuid.UUID      `gorm:"type:uuid;index"`
	BatchID              *uuid.UUID      `gorm:"type:uuid;index"`
	FifoLayerID           *uuid.UUID     `gorm:"type:uuid;index"`
	VoucherType          string          `gorm:"type:varchar(50);not null;index"`
	VoucherNo            string          `gorm:"type:varchar(50);not null;index"`
	PostingDate          time.Time       `gorm:"type:date;not null"`
	PostingTs            time.Time       `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (StockLedgerEntry) TableName() string {
	return "stock_ledger_entries"
}

// NewStockLedgerEntry creates one append-only ledger leg.
func NewStockLedgerEntry(
	tenantID, itemID, warehouseID uuid.UUID,
	qty, valuationRate decimal.Decimal,
	fromLocationID, toLocationID, batchID, fifoLayerID *uuid.UUID,
	voucherType, voucherNo string,
	postingDate, postingTs time.Time,
) *StockLedgerEntry {
	return &StockLedgerEntry{
		BaseEntity:           shared.NewBaseEntity(),
		TenantID:             tenantID,
		ItemID:               itemID,
		WarehouseID:          warehouseID,
		Qty:                  qty,
		ValuationRate:        valuationRate,
		StockValueDifference: qty.Mul(valuationRate),
		FromLocationID:       fromLocationID,
		ToLocationID:         toLocationID,
		BatchID:              batchID,
		FifoLayerID:          fifoLayerID,
		VoucherType:          voucherType,
		VoucherNo:            voucherNo,
		PostingDate:          postingDate,
		PostingTs:            postingTs,
	}
}

// StockLedgerEntrySerial is the many-to-many join between a ledger entry
// and the serial numbers it moved.
type StockLedgerEntrySerial struct {
	shared.BaseEntity
	TenantID        uuid.UUID `gorm:"type:uuid;not null;index"`
	LedgerEntryID   uuid.UUID `gorm:"type:uuid;not null;index"`
	SerialID        uuid.UUID `gorm:"type:uuid;not null;index"`
}

// TableName returns the table name for GORM
func (StockLedgerEntrySerial) TableName() string {
	return "stock_ledger_entry_serials"
}

// NewStockLedgerEntrySerial links a serial to the ledger entry that moved it.
func NewStockLedgerEntrySerial(tenantID, ledgerEntryID, serialID uuid.UUID) *StockLedgerEntrySerial {
	return &StockLedgerEntrySerial{
		BaseEntity:    shared.NewBaseEntity(),
		TenantID:      tenantID,
		LedgerEntryID: ledgerEntryID,
		SerialID:      serialID,
	}
}
