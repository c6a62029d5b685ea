package ledger

import (
	"time"

	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GlEntry is an append-only double-entry row. Exactly one of DebitBc,
// CreditBc is non-zero; it is never updated in place, only ever inserted or
// marked cancelled (see Cancel). Voucher cancellation posts a mirrored
// reversal built by the application ledger package's Reverse.
type GlEntry struct {
	shared.BaseEntity
	TenantID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	AccountID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	DebitBc      decimal.Decimal `gorm:"type:decimal(18,6);not null;default:0"`
	CreditBc     decimal.Decimal `gorm:"type:decimal(18,6);not null;default:0"`
	Currency     string          `gorm:"type:varchar(3);not null"`
	ExchangeRate decimal.Decimal `gorm:"type:decimal(18,6);not null;default:1"`
	VoucherType  string          `gorm:"type:varchar(50);not null;index"`
	VoucherNo    string          `gorm:"type:varchar(50);not null;index"`
	PostingDate  time.Time       `gorm:"type:date;not null"`
	PostingTs    time.Time       `gorm:"not null;index"`
	IsCancelled  bool            `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (GlEntry) TableName() string {
	return "gl_entries"
}

// NewDebitEntry creates a debit-side GL row.
func NewDebitEntry(tenantID, accountID uuid.UUID, amount decimal.Decimal, currency string, exchangeRate decimal.Decimal, voucherType, voucherNo string, postingDate, postingTs time.Time) (*GlEntry, error) {
	return newGlEntry(tenantID, accountID, amount, decimal.Zero, currency, exchangeRate, voucherType, voucherNo, postingDate, postingTs)
}

// NewCreditEntry creates a credit-side GL row.
func NewCreditEntry(tenantID, accountID uuid.UUID, amount decimal.Decimal, currency string, exchangeRate decimal.Decimal, voucherType, voucherNo string, postingDate, postingTs time.Time) (*GlEntry, error) {
	return newGlEntry(tenantID, accountID, decimal.Zero, amount, currency, exchangeRate, voucherType, voucherNo, postingDate, postingTs)
}

func newGlEntry(tenantID, accountID uuid.UUID, debit, credit decimal.Decimal, currency string, exchangeRate decimal.Decimal, voucherType, voucherNo string, postingDate, postingTs time.Time) (*GlEntry, error) {
	if !debit.IsZero() && !credit.IsZero() {
		return nil, ErrBothDebitAndCredit
	}
	if debit.IsZero() && credit.IsZero() {
		return nil, ErrZeroAmountEntry
	}
	if debit.IsNegative() || credit.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "debit and credit amounts cannot be negative")
	}
	return &GlEntry{
		BaseEntity:   shared.NewBaseEntity(),
		TenantID:     tenantID,
		AccountID:    accountID,
		DebitBc:      debit,
		CreditBc:     credit,
		Currency:     currency,
		ExchangeRate: exchangeRate,
		VoucherType:  voucherType,
		VoucherNo:    voucherNo,
		PostingDate:  postingDate,
		PostingTs:    postingTs,
	}, nil
}

// Cancel marks the row cancelled; callers also insert a mirrored reversal
// row so historical running balances stay append-only.
func (e *GlEntry) Cancel() {
	e.IsCancelled = true
	e.UpdatedAt = time.Now()
}

// AssertBalanced enforces the invariant of §3: for a given
// (voucherType, voucherNo), the sum of debits must equal the sum of
// credits within a one-cent tolerance.
func AssertBalanced(entries []*GlEntry) error {
	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	for _, e := range entries {
		totalDebit = totalDebit.Add(e.DebitBc)
		totalCredit = totalCredit.Add(e.CreditBc)
	}
	if totalDebit.Sub(totalCredit).Abs().GreaterThan(decimal.NewFromFloat(0.01)) {
		return ErrUnbalancedVoucher
	}
	return nil
}
