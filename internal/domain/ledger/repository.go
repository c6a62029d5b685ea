package ledger

import (
	"context"
	"time"

	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountRepository persists the tenant's chart of accounts.
type AccountRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Account, error)

	FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*Account, error)

	// GetOrCreateDefault looks up an account by code, creating it from
	// DefaultAccountTemplates when absent; returns ErrUnknownAccount if the
	// code is neither found nor in the fallback table.
	GetOrCreateDefault(ctx context.Context, tenantID uuid.UUID, code string) (*Account, error)

	FindByRootType(ctx context.Context, tenantID uuid.UUID, rootType RootType, filter shared.Filter) ([]Account, error)

	FindChildren(ctx context.Context, tenantID uuid.UUID, parentAccountCode string) ([]Account, error)

	Save(ctx context.Context, account *Account) error
}

// GlEntryRepository persists append-only GlEntry rows.
type GlEntryRepository interface {
	FindByVoucher(ctx context.Context, tenantID uuid.UUID, voucherType, voucherNo string) ([]GlEntry, error)

	FindByAccount(ctx context.Context, tenantID, accountID uuid.UUID, start, end *time.Time, filter shared.Filter) ([]GlEntry, error)

	FindByDateRange(ctx context.Context, tenantID uuid.UUID, start, end time.Time, filter shared.Filter) ([]GlEntry, error)

	// SumByAccount returns (totalDebit, totalCredit) for an account,
	// optionally bounded by a date window, for the Trial Balance and
	// Balance Sheet read models.
	SumByAccount(ctx context.Context, tenantID, accountID uuid.UUID, start, end *time.Time) (debit, credit decimal.Decimal, err error)

	Create(ctx context.Context, entry *GlEntry) error

	CreateBatch(ctx context.Context, entries []*GlEntry) error

	// CancelByVoucher marks every entry for a voucher cancelled; the caller
	// is responsible for inserting the mirrored reversal rows in the same
	// transaction.
	CancelByVoucher(ctx context.Context, tenantID uuid.UUID, voucherType, voucherNo string) error
}
