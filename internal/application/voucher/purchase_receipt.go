package voucher

import (
	"context"
	"fmt"

	stockapp "github.com/erp/stockledger/internal/application/stock"
	ledgerapp "github.com/erp/stockledger/internal/application/ledger"
	stockdomain "github.com/erp/stockledger/internal/domain/stock"
	voucherdomain "github.com/erp/stockledger/internal/domain/voucher"
)

// PurchaseReceiptOrchestrator wires voucherdomain.PurchaseReceipt to the
// stock engine's receiveStock primitive and the GL writer's Purchase
// Receipt posting template, per §4.8/§4.9.
type PurchaseReceiptOrchestrator struct {
	engine   *stockapp.Engine
	canceller *stockapp.CancellationEngine
	txScope  stockapp.TransactionScope
	currency string
}

// NewPurchaseReceiptOrchestrator creates a PurchaseReceiptOrchestrator.
func NewPurchaseReceiptOrchestrator(engine *stockapp.Engine, canceller *stockapp.CancellationEngine, txScope stockapp.TransactionScope, currency string) *PurchaseReceiptOrchestrator {
	return &PurchaseReceiptOrchestrator{engine: engine, canceller: canceller, txScope: txScope, currency: currency}
}

// BeforeSave auto-names the document (if absent) and recomputes line
// amounts and the grand total.
func (o *PurchaseReceiptOrchestrator) BeforeSave(ctx context.Context, doc any, user voucherdomain.ActingUser) error {
	r := doc.(*voucherdomain.PurchaseReceipt)
	if r.Name == "" {
		r.Name = voucherdomain.GenerateVoucherName(voucherdomain.PrefixPurchaseReceipt, r.PostingTs)
	}
	r.Recalculate()
	return nil
}

// OnSubmit receives each line's quantity into its warehouse and posts the
// Dr stockAccount / Cr Creditors GL entry for the receipt total.
func (o *PurchaseReceiptOrchestrator) OnSubmit(ctx context.Context, doc any, user voucherdomain.ActingUser) error {
	r := doc.(*voucherdomain.PurchaseReceipt)
	if err := requireTransition(r.Status, voucherdomain.StatusSubmitted); err != nil {
		return err
	}

	voucher := stockapp.VoucherRef{Type: "Purchase Receipt", No: r.Name, PostingTs: r.PostingTs}
	for i, line := range r.Lines {
		in := stockapp.ReceiveStockInput{
			TenantID: r.TenantID,
			Voucher:  voucher,
			Line:     stockapp.LineRef{Discriminator: fmt.Sprintf("line:%d", i)},
			Ref: stockapp.ItemWarehouseRef{
				ItemCode:      line.ItemCode,
				WarehouseCode: line.WarehouseCode,
				BatchNo:       line.BatchNo,
				UomCode:       line.UomCode,
			},
			Qty:          line.Qty,
			IncomingRate: line.Rate,
		}
		if err := o.engine.ReceiveStock(ctx, in); err != nil {
			return err
		}
	}

	glLines := make([]ledgerapp.ReceiptLine, 0, len(r.Lines))
	for _, line := range r.Lines {
		glLines = append(glLines, ledgerapp.ReceiptLine{Amount: line.Amount})
	}
	req := ledgerapp.BuildPurchaseReceiptPosting(ledgerapp.PurchaseReceiptRequest{
		PostingDate: r.PostingDate,
		PostingTs:   r.PostingTs,
		VoucherType: "Purchase Receipt",
		VoucherNo:   r.Name,
		Lines:       glLines,
	})
	postingKey := stockdomain.BuildPostingKey("Purchase Receipt", r.Name, "gl")
	if _, err := postGL(ctx, o.txScope, r.TenantID, postingKey, o.currency, req); err != nil {
		return err
	}

	r.Status = voucherdomain.StatusSubmitted
	return nil
}

// OnCancel refuses if any receipt layer has downstream consumption,
// otherwise reverses the receive and the GL posting via the cancellation
// engine and a reversing Journal-style GL entry pair.
func (o *PurchaseReceiptOrchestrator) OnCancel(ctx context.Context, doc any, user voucherdomain.ActingUser) error {
	r := doc.(*voucherdomain.PurchaseReceipt)
	if err := requireTransition(r.Status, voucherdomain.StatusCancelled); err != nil {
		return err
	}
	if err := o.canceller.CancelPurchaseReceipt(ctx, stockapp.CancelPurchaseReceiptInput{
		TenantID:    r.TenantID,
		VoucherType: "Purchase Receipt",
		VoucherNo:   r.Name,
	}); err != nil {
		return err
	}

	glLines := make([]ledgerapp.ReceiptLine, 0, len(r.Lines))
	for _, line := range r.Lines {
		glLines = append(glLines, ledgerapp.ReceiptLine{Amount: line.Amount})
	}
	req := ledgerapp.Reverse(ledgerapp.BuildPurchaseReceiptPosting(ledgerapp.PurchaseReceiptRequest{
		PostingDate: r.PostingDate,
		PostingTs:   r.PostingTs,
		VoucherType: "Purchase Receipt",
		VoucherNo:   r.Name,
		Lines:       glLines,
	}))
	postingKey := stockdomain.BuildCancelPostingKey("Purchase Receipt", r.Name) + ":gl"
	if _, err := postGL(ctx, o.txScope, r.TenantID, postingKey, o.currency, req); err != nil {
		return err
	}

	r.Status = voucherdomain.StatusCancelled
	return nil
}
