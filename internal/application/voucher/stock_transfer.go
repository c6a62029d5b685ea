package voucher

import (
	"context"
	"fmt"

	stockapp "github.com/erp/stockledger/internal/application/stock"
	voucherdomain "github.com/erp/stockledger/internal/domain/voucher"
)

// StockTransferOrchestrator wires voucherdomain.StockTransfer to the
// stock engine's transferStock primitive. Transfers never touch the GL
// (§4.6), so OnSubmit/OnCancel only call the stock engine.
type StockTransferOrchestrator struct {
	engine    *stockapp.Engine
	canceller *stockapp.CancellationEngine
}

// NewStockTransferOrchestrator creates a StockTransferOrchestrator.
func NewStockTransferOrchestrator(engine *stockapp.Engine, canceller *stockapp.CancellationEngine) *StockTransferOrchestrator {
	return &StockTransferOrchestrator{engine: engine, canceller: canceller}
}

// BeforeSave auto-names the document.
func (o *StockTransferOrchestrator) BeforeSave(ctx context.Context, doc any, user voucherdomain.ActingUser) error {
	t := doc.(*voucherdomain.StockTransfer)
	if t.Name == "" {
		t.Name = voucherdomain.GenerateVoucherName(voucherdomain.PrefixStockTransfer, t.PostingTs)
	}
	return nil
}

// OnSubmit moves each line's quantity from its source to its destination
// warehouse, locking both in deterministic order.
func (o *StockTransferOrchestrator) OnSubmit(ctx context.Context, doc any, user voucherdomain.ActingUser) error {
	t := doc.(*voucherdomain.StockTransfer)
	if err := requireTransition(t.Status, voucherdomain.StatusSubmitted); err != nil {
		return err
	}

	voucher := stockapp.VoucherRef{Type: "Stock Transfer", No: t.Name, PostingTs: t.PostingTs}
	for i, line := range t.Lines {
		in := stockapp.TransferStockInput{
			TenantID: t.TenantID,
			Voucher:  voucher,
			Line:     stockapp.LineRef{Discriminator: fmt.Sprintf("line:%d", i)},
			Item: stockapp.ItemWarehouseRef{
				ItemCode:      line.ItemCode,
				WarehouseCode: line.SourceWarehouse,
				BatchNo:       line.BatchNo,
				UomCode:       line.UomCode,
			},
			DestWarehouseCode: line.DestWarehouse,
			Qty:               line.Qty,
			Strategy:          stockapp.StrategyFifo,
		}
		if err := o.engine.TransferStock(ctx, in, false); err != nil {
			return err
		}
	}

	t.Status = voucherdomain.StatusSubmitted
	return nil
}

// OnCancel reverses each line's transfer via the cancellation engine.
func (o *StockTransferOrchestrator) OnCancel(ctx context.Context, doc any, user voucherdomain.ActingUser) error {
	t := doc.(*voucherdomain.StockTransfer)
	if err := requireTransition(t.Status, voucherdomain.StatusCancelled); err != nil {
		return err
	}
	if err := o.canceller.CancelStockTransfer(ctx, stockapp.CancelStockTransferInput{
		TenantID:    t.TenantID,
		VoucherType: "Stock Transfer",
		VoucherNo:   t.Name,
	}); err != nil {
		return err
	}
	t.Status = voucherdomain.StatusCancelled
	return nil
}
