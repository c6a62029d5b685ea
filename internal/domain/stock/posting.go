package stock

import (
	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/google/uuid"
)

// StockPosting is the idempotency marker row of §4.2: a unique
// `(tenant, postingKey)` inserted before any ledger mutation in the same
// transaction as that mutation, so a rolled-back operation leaves no marker
// and a duplicate insert short-circuits the caller as a no-op.
type StockPosting struct {
	shared.BaseEntity
	TenantID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_posting_tenant_key,priority:1"`
	PostingKey string    `gorm:"type:varchar(300);not null;uniqueIndex:idx_posting_tenant_key,priority:2"`
}

// TableName returns the table name for GORM
func (StockPosting) TableName() string {
	return "stock_postings"
}

// NewStockPosting constructs the marker row; callers persist it with a
// unique-constraint-aware repository method, never a plain upsert.
func NewStockPosting(tenantID uuid.UUID, postingKey string) *StockPosting {
	return &StockPosting{
		BaseEntity: shared.NewBaseEntity(),
		TenantID:   tenantID,
		PostingKey: postingKey,
	}
}

// BuildPostingKey forms the posting key of §4.2: `voucherType:voucherNo:lineDiscriminator`.
func BuildPostingKey(voucherType, voucherNo, lineDiscriminator string) string {
	return voucherType + ":" + voucherNo + ":" + lineDiscriminator
}

// BuildCancelPostingKey forms the `CANCEL:` prefixed key used by the
// cancellation engine, scoped per voucher rather than per line.
func BuildCancelPostingKey(voucherType, voucherNo string) string {
	return "CANCEL:" + voucherType + ":" + voucherNo
}
