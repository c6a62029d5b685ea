package voucher

import (
	"context"
	"fmt"

	stockapp "github.com/erp/stockledger/internal/application/stock"
	voucherdomain "github.com/erp/stockledger/internal/domain/voucher"
)

// SalesOrderOrchestrator wires voucherdomain.SalesOrder to the stock
// engine's reserveStock/unreserveStock primitives for its optional
// reservation, per §4.8's "Sales Order (optional stock reservation)". It
// has no GL effect of its own — billing flows through Invoice instead.
type SalesOrderOrchestrator struct {
	engine *stockapp.Engine
}

// NewSalesOrderOrchestrator creates a SalesOrderOrchestrator.
func NewSalesOrderOrchestrator(engine *stockapp.Engine) *SalesOrderOrchestrator {
	return &SalesOrderOrchestrator{engine: engine}
}

// BeforeSave auto-names the document and recomputes totals.
func (o *SalesOrderOrchestrator) BeforeSave(ctx context.Context, doc any, user voucherdomain.ActingUser) error {
	order := doc.(*voucherdomain.SalesOrder)
	if order.Name == "" {
		order.Name = voucherdomain.GenerateVoucherName(voucherdomain.PrefixSalesOrder, order.TransactionDate)
	}
	order.Recalculate()
	return nil
}

// OnSubmit reserves each line's quantity at its warehouse when
// ReserveOnSubmit is set.
func (o *SalesOrderOrchestrator) OnSubmit(ctx context.Context, doc any, user voucherdomain.ActingUser) error {
	order := doc.(*voucherdomain.SalesOrder)
	if err := requireTransition(order.Status, voucherdomain.StatusSubmitted); err != nil {
		return err
	}

	if order.ReserveOnSubmit {
		voucher := stockapp.VoucherRef{Type: "Sales Order", No: order.Name, PostingTs: order.TransactionDate}
		for i, line := range order.Lines {
			in := stockapp.ReserveUnreserveInput{
				TenantID: order.TenantID,
				Voucher:  voucher,
				Line:     stockapp.LineRef{Discriminator: fmt.Sprintf("line:%d", i)},
				Ref:      stockapp.ItemWarehouseRef{ItemCode: line.ItemCode, WarehouseCode: line.WarehouseCode},
				Qty:      line.Qty,
			}
			if err := o.engine.ReserveStock(ctx, in); err != nil {
				return err
			}
		}
	}

	order.RefreshFulfillmentStatus()
	order.Status = voucherdomain.StatusSubmitted
	return nil
}

// OnCancel releases any reservation this order holds.
func (o *SalesOrderOrchestrator) OnCancel(ctx context.Context, doc any, user voucherdomain.ActingUser) error {
	order := doc.(*voucherdomain.SalesOrder)
	if err := requireTransition(order.Status, voucherdomain.StatusCancelled); err != nil {
		return err
	}

	if order.ReserveOnSubmit {
		voucher := stockapp.VoucherRef{Type: "Sales Order", No: order.Name, PostingTs: order.TransactionDate}
		for i, line := range order.Lines {
			remaining := line.Qty.Sub(line.DeliveredQty)
			if !remaining.IsPositive() {
				continue
			}
			in := stockapp.ReserveUnreserveInput{
				TenantID: order.TenantID,
				Voucher:  voucher,
				Line:     stockapp.LineRef{Discriminator: fmt.Sprintf("cancel:line:%d", i)},
				Ref:      stockapp.ItemWarehouseRef{ItemCode: line.ItemCode, WarehouseCode: line.WarehouseCode},
				Qty:      remaining,
			}
			if err := o.engine.UnreserveStock(ctx, in); err != nil {
				return err
			}
		}
	}

	order.Status = voucherdomain.StatusCancelled
	return nil
}
