package stock

import (
	"time"

	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/google/uuid"
)

// Batch is a `(item, batchNo)` lot identifier with an optional expiry date.
// It is created lazily the first time a batch-tracked item is received under
// a batch number that has not been seen before for that item.
type Batch struct {
	shared.TenantAggregateRoot
	ItemID     uuid.UUID  `gorm:"type:uuid;not null;index;uniqueIndex:idx_batch_item_no,priority:2"`
	BatchNo    string     `gorm:"type:varchar(100);not null;uniqueIndex:idx_batch_item_no,priority:3"`
	ExpiryDate *time.Time `gorm:"type:date"`
}

// TableName returns the table name for GORM
func (Batch) TableName() string {
	return "stock_batches"
}

// NewBatch creates a batch for an item, with an optional expiry date.
func NewBatch(tenantID, itemID uuid.UUID, batchNo string, expiryDate *time.Time) (*Batch, error) {
	if batchNo == "" {
		return nil, shared.NewDomainError("INVALID_BATCH_NO", "batch number cannot be empty")
	}
	return &Batch{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ItemID:              itemID,
		BatchNo:             batchNo,
		ExpiryDate:          expiryDate,
	}, nil
}

// ReconcileExpiry rejects a conflicting non-null expiry date for an already
// existing batch; a batch found with a nil expiry may still be stamped with
// one later (the first non-null expiry wins and is then immutable).
func (b *Batch) ReconcileExpiry(expiryDate *time.Time) error {
	if b.ExpiryDate == nil {
		b.ExpiryDate = expiryDate
		return nil
	}
	if expiryDate != nil && !expiryDate.Equal(*b.ExpiryDate) {
		return ErrBatchExpiryMismatch
	}
	return nil
}
