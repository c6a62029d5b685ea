package voucher

import (
	"context"

	voucherdomain "github.com/erp/stockledger/internal/domain/voucher"
)

// QuotationOrchestrator wires voucherdomain.Quotation's lifecycle. A
// Quotation has no stock or GL side effect on submit; it is a non-binding
// price quote later copied into a Sales Order.
type QuotationOrchestrator struct{}

// NewQuotationOrchestrator creates a QuotationOrchestrator.
func NewQuotationOrchestrator() *QuotationOrchestrator {
	return &QuotationOrchestrator{}
}

// BeforeSave auto-names the document and recomputes totals.
func (o *QuotationOrchestrator) BeforeSave(ctx context.Context, doc any, user voucherdomain.ActingUser) error {
	q := doc.(*voucherdomain.Quotation)
	if q.Name == "" {
		q.Name = voucherdomain.GenerateVoucherName(voucherdomain.PrefixQuotation, q.TransactionDate)
	}
	q.Recalculate()
	return nil
}

// OnSubmit transitions the quotation to Submitted; no other side effect.
func (o *QuotationOrchestrator) OnSubmit(ctx context.Context, doc any, user voucherdomain.ActingUser) error {
	q := doc.(*voucherdomain.Quotation)
	if err := requireTransition(q.Status, voucherdomain.StatusSubmitted); err != nil {
		return err
	}
	q.Status = voucherdomain.StatusSubmitted
	return nil
}

// OnCancel transitions the quotation to Cancelled.
func (o *QuotationOrchestrator) OnCancel(ctx context.Context, doc any, user voucherdomain.ActingUser) error {
	q := doc.(*voucherdomain.Quotation)
	if err := requireTransition(q.Status, voucherdomain.StatusCancelled); err != nil {
		return err
	}
	q.Status = voucherdomain.StatusCancelled
	return nil
}
