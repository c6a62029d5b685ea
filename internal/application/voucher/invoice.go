package voucher

import (
	"context"

	ledgerapp "github.com/erp/stockledger/internal/application/ledger"
	stockapp "github.com/erp/stockledger/internal/application/stock"
	stockdomain "github.com/erp/stockledger/internal/domain/stock"
	voucherdomain "github.com/erp/stockledger/internal/domain/voucher"
)

// InvoiceOrchestrator wires voucherdomain.Invoice to the GL writer's
// Invoice posting template (§4.9) and §4.10's payment-status derivation.
type InvoiceOrchestrator struct {
	txScope  stockapp.TransactionScope
	currency string
}

// NewInvoiceOrchestrator creates an InvoiceOrchestrator.
func NewInvoiceOrchestrator(txScope stockapp.TransactionScope, currency string) *InvoiceOrchestrator {
	return &InvoiceOrchestrator{txScope: txScope, currency: currency}
}

// BeforeSave auto-names the document and recomputes totals and
// outstanding_amount, per §4.8.
func (o *InvoiceOrchestrator) BeforeSave(ctx context.Context, doc any, user voucherdomain.ActingUser) error {
	inv := doc.(*voucherdomain.Invoice)
	if inv.Name == "" {
		inv.Name = voucherdomain.GenerateVoucherName(voucherdomain.PrefixInvoice, inv.PostingTs)
	}
	inv.Recalculate()
	return nil
}

// OnSubmit posts `Dr debit_to grand_total; Cr per-item income account;
// Cr taxes` to the GL.
func (o *InvoiceOrchestrator) OnSubmit(ctx context.Context, doc any, user voucherdomain.ActingUser) error {
	inv := doc.(*voucherdomain.Invoice)
	if err := requireTransition(inv.Status, voucherdomain.StatusSubmitted); err != nil {
		return err
	}

	items := make([]ledgerapp.InvoiceLine, 0, len(inv.Lines))
	for _, l := range inv.Lines {
		items = append(items, ledgerapp.InvoiceLine{Account: l.IncomeAccount, Amount: l.Amount})
	}
	taxes := make([]ledgerapp.TaxLine, 0, len(inv.Taxes))
	for _, t := range inv.Taxes {
		taxes = append(taxes, ledgerapp.TaxLine{AccountHead: t.AccountHead, TaxAmount: t.TaxAmount})
	}
	req := ledgerapp.BuildInvoicePosting(ledgerapp.InvoiceRequest{
		PostingDate: inv.PostingDate,
		PostingTs:   inv.PostingTs,
		VoucherType: "Invoice",
		VoucherNo:   inv.Name,
		DebitTo:     inv.DebitTo,
		GrandTotal:  inv.GrandTotal,
		Items:       items,
		Taxes:       taxes,
	})
	postingKey := stockdomain.BuildPostingKey("Invoice", inv.Name, "gl")
	if _, err := postGL(ctx, o.txScope, inv.TenantID, postingKey, o.currency, req); err != nil {
		return err
	}

	inv.Status = voucherdomain.StatusSubmitted
	return nil
}

// OnCancel refuses if any payment has already been allocated against
// this invoice (outstanding < grand total), otherwise reverses the GL
// posting.
func (o *InvoiceOrchestrator) OnCancel(ctx context.Context, doc any, user voucherdomain.ActingUser) error {
	inv := doc.(*voucherdomain.Invoice)
	if err := requireTransition(inv.Status, voucherdomain.StatusCancelled); err != nil {
		return err
	}
	if inv.OutstandingAmount.LessThan(inv.GrandTotal) {
		return stockdomain.ErrDownstreamConsumed
	}

	items := make([]ledgerapp.InvoiceLine, 0, len(inv.Lines))
	for _, l := range inv.Lines {
		items = append(items, ledgerapp.InvoiceLine{Account: l.IncomeAccount, Amount: l.Amount})
	}
	taxes := make([]ledgerapp.TaxLine, 0, len(inv.Taxes))
	for _, t := range inv.Taxes {
		taxes = append(taxes, ledgerapp.TaxLine{AccountHead: t.AccountHead, TaxAmount: t.TaxAmount})
	}
	req := ledgerapp.Reverse(ledgerapp.BuildInvoicePosting(ledgerapp.InvoiceRequest{
		PostingDate: inv.PostingDate,
		PostingTs:   inv.PostingTs,
		VoucherType: "Invoice",
		VoucherNo:   inv.Name,
		DebitTo:     inv.DebitTo,
		GrandTotal:  inv.GrandTotal,
		Items:       items,
		Taxes:       taxes,
	}))
	postingKey := stockdomain.BuildCancelPostingKey("Invoice", inv.Name) + ":gl"
	if _, err := postGL(ctx, o.txScope, inv.TenantID, postingKey, o.currency, req); err != nil {
		return err
	}

	inv.Status = voucherdomain.StatusCancelled
	return nil
}
