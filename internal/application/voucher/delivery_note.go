package voucher

import (
	"context"
	"fmt"

	stockapp "github.com/erp/stockledger/internal/application/stock"
	ledgerapp "github.com/erp/stockledger/internal/application/ledger"
	stockdomain "github.com/erp/stockledger/internal/domain/stock"
	voucherdomain "github.com/erp/stockledger/internal/domain/voucher"
)

// DeliveryNoteOrchestrator wires voucherdomain.DeliveryNote to the stock
// engine's issueStock primitive and the GL writer's COGS posting template.
type DeliveryNoteOrchestrator struct {
	engine    *stockapp.Engine
	canceller *stockapp.CancellationEngine
	txScope   stockapp.TransactionScope
	currency  string
}

// NewDeliveryNoteOrchestrator creates a DeliveryNoteOrchestrator.
func NewDeliveryNoteOrchestrator(engine *stockapp.Engine, canceller *stockapp.CancellationEngine, txScope stockapp.TransactionScope, currency string) *DeliveryNoteOrchestrator {
	return &DeliveryNoteOrchestrator{engine: engine, canceller: canceller, txScope: txScope, currency: currency}
}

// BeforeSave auto-names the document and recomputes line amounts.
func (o *DeliveryNoteOrchestrator) BeforeSave(ctx context.Context, doc any, user voucherdomain.ActingUser) error {
	n := doc.(*voucherdomain.DeliveryNote)
	if n.Name == "" {
		n.Name = voucherdomain.GenerateVoucherName(voucherdomain.PrefixDeliveryNote, n.PostingTs)
	}
	n.Recalculate()
	return nil
}

// OnSubmit issues each line's quantity out of its warehouse (FIFO order,
// stock must not go negative) and posts the Dr COGS / Cr stockAccount GL
// entry, valued at the line's sale amount per §4.9's `valuationAmount ??
// amount` fallback.
func (o *DeliveryNoteOrchestrator) OnSubmit(ctx context.Context, doc any, user voucherdomain.ActingUser) error {
	n := doc.(*voucherdomain.DeliveryNote)
	if err := requireTransition(n.Status, voucherdomain.StatusSubmitted); err != nil {
		return err
	}

	voucher := stockapp.VoucherRef{Type: "Delivery Note", No: n.Name, PostingTs: n.PostingTs}
	for i, line := range n.Lines {
		in := stockapp.IssueStockInput{
			TenantID: n.TenantID,
			Voucher:  voucher,
			Line:     stockapp.LineRef{Discriminator: fmt.Sprintf("line:%d", i)},
			Ref: stockapp.ItemWarehouseRef{
				ItemCode:      line.ItemCode,
				WarehouseCode: line.WarehouseCode,
				BatchNo:       line.BatchNo,
				UomCode:       line.UomCode,
			},
			Qty:      line.Qty,
			Strategy: stockapp.StrategyFifo,
		}
		if err := o.engine.IssueStock(ctx, in, false); err != nil {
			return err
		}
	}

	glLines := make([]ledgerapp.DeliveryLine, 0, len(n.Lines))
	for _, line := range n.Lines {
		glLines = append(glLines, ledgerapp.DeliveryLine{Amount: line.Amount})
	}
	req := ledgerapp.BuildDeliveryNotePosting(ledgerapp.DeliveryNoteRequest{
		PostingDate: n.PostingDate,
		PostingTs:   n.PostingTs,
		VoucherType: "Delivery Note",
		VoucherNo:   n.Name,
		Lines:       glLines,
	})
	postingKey := stockdomain.BuildPostingKey("Delivery Note", n.Name, "gl")
	if _, err := postGL(ctx, o.txScope, n.TenantID, postingKey, o.currency, req); err != nil {
		return err
	}

	n.Status = voucherdomain.StatusSubmitted
	return nil
}

// OnCancel restores each issued line's quantity to its originating FIFO
// layer via the cancellation engine and reverses the COGS GL posting.
func (o *DeliveryNoteOrchestrator) OnCancel(ctx context.Context, doc any, user voucherdomain.ActingUser) error {
	n := doc.(*voucherdomain.DeliveryNote)
	if err := requireTransition(n.Status, voucherdomain.StatusCancelled); err != nil {
		return err
	}
	if err := o.canceller.CancelDeliveryNote(ctx, stockapp.CancelDeliveryNoteInput{
		TenantID:    n.TenantID,
		VoucherType: "Delivery Note",
		VoucherNo:   n.Name,
	}); err != nil {
		return err
	}

	glLines := make([]ledgerapp.DeliveryLine, 0, len(n.Lines))
	for _, line := range n.Lines {
		glLines = append(glLines, ledgerapp.DeliveryLine{Amount: line.Amount})
	}
	req := ledgerapp.Reverse(ledgerapp.BuildDeliveryNotePosting(ledgerapp.DeliveryNoteRequest{
		PostingDate: n.PostingDate,
		PostingTs:   n.PostingTs,
		VoucherType: "Delivery Note",
		VoucherNo:   n.Name,
		Lines:       glLines,
	}))
	postingKey := stockdomain.BuildCancelPostingKey("Delivery Note", n.Name) + ":gl"
	if _, err := postGL(ctx, o.txScope, n.TenantID, postingKey, o.currency, req); err != nil {
		return err
	}

	n.Status = voucherdomain.StatusCancelled
	return nil
}
