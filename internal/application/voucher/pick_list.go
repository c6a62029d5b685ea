package voucher

import (
	"context"
	"fmt"

	stockapp "github.com/erp/stockledger/internal/application/stock"
	voucherdomain "github.com/erp/stockledger/internal/domain/voucher"
)

// PickListOrchestrator wires voucherdomain.PickList to the stock engine's
// transferStock primitive, moving each line's quantity within its own
// warehouse into a staging location ahead of shipment, per §4.8's
// "Pick List (transfer into STAGING)".
type PickListOrchestrator struct {
	engine    *stockapp.Engine
	canceller *stockapp.CancellationEngine
}

// NewPickListOrchestrator creates a PickListOrchestrator.
func NewPickListOrchestrator(engine *stockapp.Engine, canceller *stockapp.CancellationEngine) *PickListOrchestrator {
	return &PickListOrchestrator{engine: engine, canceller: canceller}
}

// BeforeSave auto-names the document.
func (o *PickListOrchestrator) BeforeSave(ctx context.Context, doc any, user voucherdomain.ActingUser) error {
	p := doc.(*voucherdomain.PickList)
	if p.Name == "" {
		p.Name = voucherdomain.GenerateVoucherName(voucherdomain.PrefixPickList, p.PostingTs)
	}
	return nil
}

// OnSubmit transfers each line's quantity from its default location into
// the staging location within the same warehouse.
func (o *PickListOrchestrator) OnSubmit(ctx context.Context, doc any, user voucherdomain.ActingUser) error {
	p := doc.(*voucherdomain.PickList)
	if err := requireTransition(p.Status, voucherdomain.StatusSubmitted); err != nil {
		return err
	}

	voucher := stockapp.VoucherRef{Type: "Pick List", No: p.Name, PostingTs: p.PostingTs}
	for i, line := range p.Lines {
		dest := line.StagingLocationID
		in := stockapp.TransferStockInput{
			TenantID: p.TenantID,
			Voucher:  voucher,
			Line:     stockapp.LineRef{Discriminator: fmt.Sprintf("line:%d", i)},
			Item: stockapp.ItemWarehouseRef{
				ItemCode:      line.ItemCode,
				WarehouseCode: line.WarehouseCode,
				BatchNo:       line.BatchNo,
			},
			DestWarehouseCode: line.WarehouseCode,
			DestLocationID:    &dest,
			Qty:               line.Qty,
			Strategy:          stockapp.StrategyFifo,
		}
		if err := o.engine.TransferStock(ctx, in, false); err != nil {
			return err
		}
	}

	p.Status = voucherdomain.StatusSubmitted
	return nil
}

// OnCancel reverses the staging transfer via the cancellation engine,
// per the note in §8 that Pick List reversal shares Stock Transfer's
// cancellation path.
func (o *PickListOrchestrator) OnCancel(ctx context.Context, doc any, user voucherdomain.ActingUser) error {
	p := doc.(*voucherdomain.PickList)
	if err := requireTransition(p.Status, voucherdomain.StatusCancelled); err != nil {
		return err
	}
	if err := o.canceller.CancelStockTransfer(ctx, stockapp.CancelStockTransferInput{
		TenantID:    p.TenantID,
		VoucherType: "Pick List",
		VoucherNo:   p.Name,
	}); err != nil {
		return err
	}
	p.Status = voucherdomain.StatusCancelled
	return nil
}
