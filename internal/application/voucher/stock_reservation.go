package voucher

import (
	"context"
	"fmt"

	stockapp "github.com/erp/stockledger/internal/application/stock"
	voucherdomain "github.com/erp/stockledger/internal/domain/voucher"
)

// StockReservationOrchestrator wires voucherdomain.StockReservation to
// the stock engine's reserveStock/unreserveStock primitives. It never
// touches the GL.
type StockReservationOrchestrator struct {
	engine *stockapp.Engine
}

// NewStockReservationOrchestrator creates a StockReservationOrchestrator.
func NewStockReservationOrchestrator(engine *stockapp.Engine) *StockReservationOrchestrator {
	return &StockReservationOrchestrator{engine: engine}
}

// BeforeSave auto-names the document.
func (o *StockReservationOrchestrator) BeforeSave(ctx context.Context, doc any, user voucherdomain.ActingUser) error {
	r := doc.(*voucherdomain.StockReservation)
	if r.Name == "" {
		r.Name = voucherdomain.GenerateVoucherName(voucherdomain.PrefixStockReservation, r.PostingTs)
	}
	return nil
}

// OnSubmit reserves each line's quantity at its warehouse.
func (o *StockReservationOrchestrator) OnSubmit(ctx context.Context, doc any, user voucherdomain.ActingUser) error {
	r := doc.(*voucherdomain.StockReservation)
	if err := requireTransition(r.Status, voucherdomain.StatusSubmitted); err != nil {
		return err
	}

	voucher := stockapp.VoucherRef{Type: "Stock Reservation", No: r.Name, PostingTs: r.PostingTs}
	for i, line := range r.Lines {
		in := stockapp.ReserveUnreserveInput{
			TenantID: r.TenantID,
			Voucher:  voucher,
			Line:     stockapp.LineRef{Discriminator: fmt.Sprintf("line:%d", i)},
			Ref:      stockapp.ItemWarehouseRef{ItemCode: line.ItemCode, WarehouseCode: line.WarehouseCode},
			Qty:      line.Qty,
		}
		if err := o.engine.ReserveStock(ctx, in); err != nil {
			return err
		}
	}

	r.Status = voucherdomain.StatusSubmitted
	return nil
}

// OnCancel releases each line's reservation.
func (o *StockReservationOrchestrator) OnCancel(ctx context.Context, doc any, user voucherdomain.ActingUser) error {
	r := doc.(*voucherdomain.StockReservation)
	if err := requireTransition(r.Status, voucherdomain.StatusCancelled); err != nil {
		return err
	}

	voucher := stockapp.VoucherRef{Type: "Stock Reservation", No: r.Name, PostingTs: r.PostingTs}
	for i, line := range r.Lines {
		in := stockapp.ReserveUnreserveInput{
			TenantID: r.TenantID,
			Voucher:  voucher,
			Line:     stockapp.LineRef{Discriminator: fmt.Sprintf("cancel:line:%d", i)},
			Ref:      stockapp.ItemWarehouseRef{ItemCode: line.ItemCode, WarehouseCode: line.WarehouseCode},
			Qty:      line.Qty,
		}
		if err := o.engine.UnreserveStock(ctx, in); err != nil {
			return err
		}
	}

	r.Status = voucherdomain.StatusCancelled
	return nil
}
