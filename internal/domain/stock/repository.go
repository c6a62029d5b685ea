package stock

import (
	"context"
	"time"

	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/google/uuid"
)

// BalanceRepository persists WarehouseItemBalance rows, one per
// (tenant, item, warehouse). GetOrCreate is the entry point every stock
// mutation uses so a balance row always exists before it is locked and
// updated within a transaction.
type BalanceRepository interface {
	FindByItemWarehouse(ctx context.Context, tenantID, itemID, warehouseID uuid.UUID) (*WarehouseItemBalance, error)

	// FindByItemWarehouseForUpdate locks the row (SELECT ... FOR UPDATE) for
	// the duration of the caller's transaction.
	FindByItemWarehouseForUpdate(ctx context.Context, tenantID, itemID, warehouseID uuid.UUID) (*WarehouseItemBalance, error)

	GetOrCreate(ctx context.Context, tenantID, itemID, warehouseID uuid.UUID, allowNegative bool) (*WarehouseItemBalance, error)

	FindByWarehouse(ctx context.Context, tenantID, warehouseID uuid.UUID, filter shared.Filter) ([]WarehouseItemBalance, error)

	FindBelowThreshold(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]WarehouseItemBalance, error)

	Save(ctx context.Context, balance *WarehouseItemBalance) error

	SaveWithLock(ctx context.Context, balance *WarehouseItemBalance) error
}

// BinBalanceRepository persists BinBalance rows keyed by
// (tenant, item, warehouse, location, batch).
type BinBalanceRepository interface {
	FindByBin(ctx context.Context, tenantID, itemID, warehouseID, locationID uuid.UUID, batchID *uuid.UUID) (*BinBalance, error)

	FindByBinForUpdate(ctx context.Context, tenantID, itemID, warehouseID, locationID uuid.UUID, batchID *uuid.UUID) (*BinBalance, error)

	GetOrCreate(ctx context.Context, tenantID, itemID, warehouseID, locationID uuid.UUID, batchID *uuid.UUID) (*BinBalance, error)

	FindByLocation(ctx context.Context, tenantID, warehouseID, locationID uuid.UUID) ([]BinBalance, error)

	FindByItemWarehouse(ctx context.Context, tenantID, itemID, warehouseID uuid.UUID) ([]BinBalance, error)

	Save(ctx context.Context, bin *BinBalance) error

	// DeleteEmpty prunes bin rows with zero actual and reserved quantity.
	DeleteEmpty(ctx context.Context, tenantID uuid.UUID) (int64, error)
}

// BatchRepository persists Batch lot identifiers.
type BatchRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Batch, error)

	FindByItemAndNo(ctx context.Context, tenantID, itemID uuid.UUID, batchNo string) (*Batch, error)

	// GetOrCreate looks up a batch by (item, batchNo), creating it with the
	// supplied expiry if absent; if present, the expiry is reconciled via
	// Batch.ReconcileExpiry.
	GetOrCreate(ctx context.Context, tenantID, itemID uuid.UUID, batchNo string, expiryDate *time.Time) (*Batch, error)

	FindByItem(ctx context.Context, tenantID, itemID uuid.UUID, filter shared.Filter) ([]Batch, error)

	FindExpiringWithin(ctx context.Context, tenantID uuid.UUID, window time.Duration, filter shared.Filter) ([]Batch, error)

	Save(ctx context.Context, batch *Batch) error
}

// SerialRepository persists Serial units.
type SerialRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Serial, error)

	FindBySerialNo(ctx context.Context, tenantID, itemID uuid.UUID, serialNo string) (*Serial, error)

	FindBySerialNoForUpdate(ctx context.Context, tenantID, itemID uuid.UUID, serialNo string) (*Serial, error)

	FindAvailableByBin(ctx context.Context, tenantID, itemID, warehouseID, locationID uuid.UUID) ([]Serial, error)

	ExistsBySerialNo(ctx context.Context, tenantID, itemID uuid.UUID, serialNo string) (bool, error)

	Save(ctx context.Context, serial *Serial) error

	SaveBatch(ctx context.Context, serials []Serial) error

	// Delete removes a serial row outright, used when cancelling a receipt
	// that created it (the serial never existed from the ledger's point of
	// view once its originating layer is cancelled).
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// FifoLayerRepository persists StockFifoLayer strata.
type FifoLayerRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*StockFifoLayer, error)

	// FindAvailableForUpdate returns non-cancelled layers with remaining
	// quantity for (item, warehouse), locked for update and ordered oldest
	// first, ready to hand to ConsumeFifo.
	FindAvailableForUpdate(ctx context.Context, tenantID, itemID, warehouseID uuid.UUID) ([]*StockFifoLayer, error)

	FindByVoucher(ctx context.Context, tenantID uuid.UUID, voucherType, voucherNo string) ([]StockFifoLayer, error)

	FindBySourceLayer(ctx context.Context, tenantID, sourceLayerID uuid.UUID) ([]StockFifoLayer, error)

	Create(ctx context.Context, layer *StockFifoLayer) error

	// UpdateRemaining persists only QtyRemaining and IsCancelled, the two
	// mutable fields of an otherwise append-only row.
	UpdateRemaining(ctx context.Context, layer *StockFifoLayer) error
}

// LedgerEntryRepository persists append-only StockLedgerEntry rows.
type LedgerEntryRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*StockLedgerEntry, error)

	FindByVoucher(ctx context.Context, tenantID uuid.UUID, voucherType, voucherNo string) ([]StockLedgerEntry, error)

	FindByItemWarehouse(ctx context.Context, tenantID, itemID, warehouseID uuid.UUID, filter shared.Filter) ([]StockLedgerEntry, error)

	FindByDateRange(ctx context.Context, tenantID uuid.UUID, start, end time.Time, filter shared.Filter) ([]StockLedgerEntry, error)

	Create(ctx context.Context, entry *StockLedgerEntry) error

	CreateBatch(ctx context.Context, entries []*StockLedgerEntry) error
}

// LedgerEntrySerialRepository persists the ledger-entry-to-serial join rows.
type LedgerEntrySerialRepository interface {
	FindByLedgerEntry(ctx context.Context, tenantID, ledgerEntryID uuid.UUID) ([]StockLedgerEntrySerial, error)

	Create(ctx context.Context, link *StockLedgerEntrySerial) error

	CreateBatch(ctx context.Context, links []*StockLedgerEntrySerial) error
}

// PostingRepository persists the idempotency marker rows of §4.2. Create
// must surface a uniqueness violation as shared.ErrAlreadyExists so the
// engine can treat a duplicate posting attempt as a no-op rather than an
// unexpected failure.
type PostingRepository interface {
	Create(ctx context.Context, posting *StockPosting) error

	Exists(ctx context.Context, tenantID uuid.UUID, postingKey string) (bool, error)
}
