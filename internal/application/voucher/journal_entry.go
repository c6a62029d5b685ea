package voucher

import (
	"context"

	ledgerapp "github.com/erp/stockledger/internal/application/ledger"
	stockapp "github.com/erp/stockledger/internal/application/stock"
	"github.com/erp/stockledger/internal/domain/shared"
	stockdomain "github.com/erp/stockledger/internal/domain/stock"
	voucherdomain "github.com/erp/stockledger/internal/domain/voucher"
)

// JournalEntryOrchestrator wires voucherdomain.JournalEntry to the GL
// writer, passing its lines straight through per §4.9.
type JournalEntryOrchestrator struct {
	txScope  stockapp.TransactionScope
	currency string
}

// NewJournalEntryOrchestrator creates a JournalEntryOrchestrator.
func NewJournalEntryOrchestrator(txScope stockapp.TransactionScope, currency string) *JournalEntryOrchestrator {
	return &JournalEntryOrchestrator{txScope: txScope, currency: currency}
}

// BeforeSave auto-names the document and validates, per §4.8, that
// |Σdebit − Σcredit| < 0.01.
func (o *JournalEntryOrchestrator) BeforeSave(ctx context.Context, doc any, user voucherdomain.ActingUser) error {
	j := doc.(*voucherdomain.JournalEntry)
	if j.Name == "" {
		j.Name = voucherdomain.GenerateVoucherName(voucherdomain.PrefixJournalEntry, j.PostingTs)
	}
	if !j.IsBalanced() {
		return shared.NewDomainError("UNBALANCED_JOURNAL_ENTRY", "journal entry debits and credits must balance within 0.01")
	}
	return nil
}

// OnSubmit posts the entry's lines to the GL unchanged.
func (o *JournalEntryOrchestrator) OnSubmit(ctx context.Context, doc any, user voucherdomain.ActingUser) error {
	j := doc.(*voucherdomain.JournalEntry)
	if err := requireTransition(j.Status, voucherdomain.StatusSubmitted); err != nil {
		return err
	}

	lines := make([]ledgerapp.JournalLine, 0, len(j.Lines))
	for _, l := range j.Lines {
		lines = append(lines, ledgerapp.JournalLine{Account: l.Account, Debit: l.Debit, Credit: l.Credit})
	}
	req := ledgerapp.BuildJournalEntryPosting(ledgerapp.JournalEntryRequest{
		PostingDate: j.PostingDate,
		PostingTs:   j.PostingTs,
		VoucherType: "Journal Entry",
		VoucherNo:   j.Name,
		Lines:       lines,
	})
	postingKey := stockdomain.BuildPostingKey("Journal Entry", j.Name, "gl")
	if _, err := postGL(ctx, o.txScope, j.TenantID, postingKey, o.currency, req); err != nil {
		return err
	}

	j.Status = voucherdomain.StatusSubmitted
	return nil
}

// OnCancel reverses the posted lines by swapping debit and credit sides.
func (o *JournalEntryOrchestrator) OnCancel(ctx context.Context, doc any, user voucherdomain.ActingUser) error {
	j := doc.(*voucherdomain.JournalEntry)
	if err := requireTransition(j.Status, voucherdomain.StatusCancelled); err != nil {
		return err
	}

	lines := make([]ledgerapp.JournalLine, 0, len(j.Lines))
	for _, l := range j.Lines {
		lines = append(lines, ledgerapp.JournalLine{Account: l.Account, Debit: l.Debit, Credit: l.Credit})
	}
	req := ledgerapp.Reverse(ledgerapp.BuildJournalEntryPosting(ledgerapp.JournalEntryRequest{
		PostingDate: j.PostingDate,
		PostingTs:   j.PostingTs,
		VoucherType: "Journal Entry",
		VoucherNo:   j.Name,
		Lines:       lines,
	}))
	postingKey := stockdomain.BuildCancelPostingKey("Journal Entry", j.Name) + ":gl"
	if _, err := postGL(ctx, o.txScope, j.TenantID, postingKey, o.currency, req); err != nil {
		return err
	}

	j.Status = voucherdomain.StatusCancelled
	return nil
}
