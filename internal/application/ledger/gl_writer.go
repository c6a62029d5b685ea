package ledger

import (
	"context"
	"time"

	"github.com/erp/stockledger/internal/domain/ledger"
	"github.com/erp/stockledger/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PostingLine is one `(accountCode, debit, credit, remarks?)` tuple of the
// GL writer's input, per §4.9.
type PostingLine struct {
	AccountCode string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	Remarks     string
}

// PostingRequest is the GL writer's input: a balanced set of lines for one
// voucher, posted in the tenant's base currency at exchange rate 1.
type PostingRequest struct {
	TenantID    uuid.UUID
	Currency    string
	PostingDate time.Time
	PostingTs   time.Time
	VoucherType string
	VoucherNo   string
	Lines       []PostingLine
}

// AccountRepo is the narrow slice of ledger.AccountRepository the writer
// needs, named locally so callers can supply a transaction-scoped
// implementation without importing the wider repository interface.
type AccountRepo interface {
	GetOrCreateDefault(ctx context.Context, tenantID uuid.UUID, code string) (*ledger.Account, error)
}

// EntryRepo is the narrow slice of ledger.GlEntryRepository the writer needs.
type EntryRepo interface {
	CreateBatch(ctx context.Context, entries []*ledger.GlEntry) error
}

// Reverse swaps each line's debit and credit amounts, leaving the account
// and voucher identity unchanged. Cancelling a voucher's GL effect is a
// balanced swap of sides, not a sign flip — GlEntry rejects negative
// amounts outright, so a cancellation posts the mirror image of the
// original entries rather than their negation.
func Reverse(req PostingRequest) PostingRequest {
	reversed := req
	reversed.Lines = make([]PostingLine, len(req.Lines))
	for i, l := range req.Lines {
		reversed.Lines[i] = PostingLine{AccountCode: l.AccountCode, Debit: l.Credit, Credit: l.Debit, Remarks: l.Remarks}
	}
	return reversed
}

// Writer implements §4.9's GL writer: it resolves each line's account
// (falling back to the default chart templates, §4.9 step 2), builds one
// balanced GlEntry per non-zero line, and writes them in a single batch.
type Writer struct {
	accounts AccountRepo
	entries  EntryRepo
}

// NewWriter creates a Writer.
func NewWriter(accounts AccountRepo, entries EntryRepo) *Writer {
	return &Writer{accounts: accounts, entries: entries}
}

// Post writes one GL row per non-zero line. It fails ErrUnknownAccount if a
// line's account is neither found nor in the fallback table, ErrAccountIsGroup
// if it resolves to a non-postable group account, and ErrUnbalancedVoucher
// if the resulting entries do not balance within the 0.01 tolerance.
func (w *Writer) Post(ctx context.Context, req PostingRequest) (_ []*ledger.GlEntry, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "gl_writer", "post")
	telemetry.SetAttribute(span, "voucher_type", req.VoucherType)
	telemetry.SetAttribute(span, "voucher_no", req.VoucherNo)
	defer func() {
		if err != nil {
			telemetry.RecordError(span, err)
		} else {
			telemetry.SetOK(span)
		}
		span.End()
	}()

	entries := make([]*ledger.GlEntry, 0, len(req.Lines))
	for _, line := range req.Lines {
		if line.Debit.IsZero() && line.Credit.IsZero() {
			continue
		}
		account, err := w.accounts.GetOrCreateDefault(ctx, req.TenantID, line.AccountCode)
		if err != nil {
			return nil, err
		}
		if err := account.AssertPostable(); err != nil {
			return nil, err
		}

		var entry *ledger.GlEntry
		if !line.Debit.IsZero() {
			entry, err = ledger.NewDebitEntry(req.TenantID, account.ID, line.Debit, req.Currency, decimal.NewFromInt(1), req.VoucherType, req.VoucherNo, req.PostingDate, req.PostingTs)
		} else {
			entry, err = ledger.NewCreditEntry(req.TenantID, account.ID, line.Credit, req.Currency, decimal.NewFromInt(1), req.VoucherType, req.VoucherNo, req.PostingDate, req.PostingTs)
		}
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	if err := ledger.AssertBalanced(entries); err != nil {
		return nil, err
	}
	if err := w.entries.CreateBatch(ctx, entries); err != nil {
		return nil, err
	}
	return entries, nil
}
