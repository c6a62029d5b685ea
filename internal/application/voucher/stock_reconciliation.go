package voucher

import (
	"context"
	"fmt"

	stockapp "github.com/erp/stockledger/internal/application/stock"
	stockdomain "github.com/erp/stockledger/internal/domain/stock"
	voucherdomain "github.com/erp/stockledger/internal/domain/voucher"
)

// StockReconciliationOrchestrator wires voucherdomain.StockReconciliation
// to the stock engine's reconcileStock primitive. Like Stock Transfer,
// reconciliation never touches the GL.
type StockReconciliationOrchestrator struct {
	engine *stockapp.Engine
}

// NewStockReconciliationOrchestrator creates a
// StockReconciliationOrchestrator.
func NewStockReconciliationOrchestrator(engine *stockapp.Engine) *StockReconciliationOrchestrator {
	return &StockReconciliationOrchestrator{engine: engine}
}

// BeforeSave auto-names the document.
func (o *StockReconciliationOrchestrator) BeforeSave(ctx context.Context, doc any, user voucherdomain.ActingUser) error {
	r := doc.(*voucherdomain.StockReconciliation)
	if r.Name == "" {
		r.Name = voucherdomain.GenerateVoucherName(voucherdomain.PrefixStockReconciliation, r.PostingTs)
	}
	return nil
}

// OnSubmit adjusts each line's item/warehouse/batch to its counted
// target quantity.
func (o *StockReconciliationOrchestrator) OnSubmit(ctx context.Context, doc any, user voucherdomain.ActingUser) error {
	r := doc.(*voucherdomain.StockReconciliation)
	if err := requireTransition(r.Status, voucherdomain.StatusSubmitted); err != nil {
		return err
	}

	voucher := stockapp.VoucherRef{Type: "Stock Reconciliation", No: r.Name, PostingTs: r.PostingTs}
	for i, line := range r.Lines {
		in := stockapp.ReconcileStockInput{
			TenantID: r.TenantID,
			Voucher:  voucher,
			Line:     stockapp.LineRef{Discriminator: fmt.Sprintf("line:%d", i)},
			Ref: stockapp.ItemWarehouseRef{
				ItemCode:      line.ItemCode,
				WarehouseCode: line.WarehouseCode,
				BatchNo:       line.BatchNo,
			},
			TargetQty:    line.TargetQty,
			IncreaseRate: line.IncreaseRate,
		}
		if err := o.engine.ReconcileStock(ctx, in, true); err != nil {
			return err
		}
	}

	r.Status = voucherdomain.StatusSubmitted
	return nil
}

// OnCancel is unsupported: a reconciliation has no "before" snapshot to
// restore to, per §4.7's cancellation coverage (Purchase Receipt,
// Delivery Note, Stock Transfer only). A correcting reconciliation must
// be posted instead.
func (o *StockReconciliationOrchestrator) OnCancel(ctx context.Context, doc any, user voucherdomain.ActingUser) error {
	return stockdomain.ErrCancellationUnsupported
}
