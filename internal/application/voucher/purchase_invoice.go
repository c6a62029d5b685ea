package voucher

import (
	"context"

	ledgerapp "github.com/erp/stockledger/internal/application/ledger"
	stockapp "github.com/erp/stockledger/internal/application/stock"
	stockdomain "github.com/erp/stockledger/internal/domain/stock"
	voucherdomain "github.com/erp/stockledger/internal/domain/voucher"
)

// PurchaseInvoiceOrchestrator wires voucherdomain.PurchaseInvoice to the
// GL writer's Purchase Invoice posting template (§4.9) and §4.10's
// payment-status derivation.
type PurchaseInvoiceOrchestrator struct {
	txScope  stockapp.TransactionScope
	currency string
}

// NewPurchaseInvoiceOrchestrator creates a PurchaseInvoiceOrchestrator.
func NewPurchaseInvoiceOrchestrator(txScope stockapp.TransactionScope, currency string) *PurchaseInvoiceOrchestrator {
	return &PurchaseInvoiceOrchestrator{txScope: txScope, currency: currency}
}

// BeforeSave auto-names the document and recomputes totals and
// outstanding_amount.
func (o *PurchaseInvoiceOrchestrator) BeforeSave(ctx context.Context, doc any, user voucherdomain.ActingUser) error {
	inv := doc.(*voucherdomain.PurchaseInvoice)
	if inv.Name == "" {
		inv.Name = voucherdomain.GenerateVoucherName(voucherdomain.PrefixPurchaseInvoice, inv.PostingTs)
	}
	inv.Recalculate()
	return nil
}

func (o *PurchaseInvoiceOrchestrator) buildRequest(inv *voucherdomain.PurchaseInvoice) ledgerapp.PostingRequest {
	items := make([]ledgerapp.PurchaseInvoiceLine, 0, len(inv.Lines))
	for _, l := range inv.Lines {
		items = append(items, ledgerapp.PurchaseInvoiceLine{
			IsStockItem:    l.IsStockItem,
			StockAccount:   l.StockAccount,
			ExpenseAccount: l.ExpenseAccount,
			Amount:         l.Amount,
		})
	}
	taxes := make([]ledgerapp.TaxLine, 0, len(inv.Taxes))
	for _, t := range inv.Taxes {
		taxes = append(taxes, ledgerapp.TaxLine{AccountHead: t.AccountHead, TaxAmount: t.TaxAmount})
	}
	return ledgerapp.BuildPurchaseInvoicePosting(ledgerapp.PurchaseInvoiceRequest{
		PostingDate: inv.PostingDate,
		PostingTs:   inv.PostingTs,
		VoucherType: "Purchase Invoice",
		VoucherNo:   inv.Name,
		CreditTo:    inv.CreditTo,
		GrandTotal:  inv.GrandTotal,
		Items:       items,
		Taxes:       taxes,
	})
}

// OnSubmit posts `Dr per item stock/expense account; Cr credit_to
// grand_total; Cr taxes` to the GL.
func (o *PurchaseInvoiceOrchestrator) OnSubmit(ctx context.Context, doc any, user voucherdomain.ActingUser) error {
	inv := doc.(*voucherdomain.PurchaseInvoice)
	if err := requireTransition(inv.Status, voucherdomain.StatusSubmitted); err != nil {
		return err
	}

	postingKey := stockdomain.BuildPostingKey("Purchase Invoice", inv.Name, "gl")
	if _, err := postGL(ctx, o.txScope, inv.TenantID, postingKey, o.currency, o.buildRequest(inv)); err != nil {
		return err
	}

	inv.Status = voucherdomain.StatusSubmitted
	return nil
}

// OnCancel refuses if any payment has already been allocated against this
// invoice, otherwise reverses the GL posting.
func (o *PurchaseInvoiceOrchestrator) OnCancel(ctx context.Context, doc any, user voucherdomain.ActingUser) error {
	inv := doc.(*voucherdomain.PurchaseInvoice)
	if err := requireTransition(inv.Status, voucherdomain.StatusCancelled); err != nil {
		return err
	}
	if inv.OutstandingAmount.LessThan(inv.GrandTotal) {
		return stockdomain.ErrDownstreamConsumed
	}

	postingKey := stockdomain.BuildCancelPostingKey("Purchase Invoice", inv.Name) + ":gl"
	if _, err := postGL(ctx, o.txScope, inv.TenantID, postingKey, o.currency, ledgerapp.Reverse(o.buildRequest(inv))); err != nil {
		return err
	}

	inv.Status = voucherdomain.StatusCancelled
	return nil
}
