package voucher

import (
	"context"

	voucherdomain "github.com/erp/stockledger/internal/domain/voucher"
)

// PurchaseOrderOrchestrator wires voucherdomain.PurchaseOrder's lifecycle.
// A Purchase Order has no direct stock or GL effect of its own (§4.8:
// "Purchase Order (no stock movement)") — Purchase Receipt and Purchase
// Invoice reference it and drive its received_qty/billed_qty progress.
type PurchaseOrderOrchestrator struct{}

// NewPurchaseOrderOrchestrator creates a PurchaseOrderOrchestrator.
func NewPurchaseOrderOrchestrator() *PurchaseOrderOrchestrator {
	return &PurchaseOrderOrchestrator{}
}

// BeforeSave auto-names the document and recomputes totals.
func (o *PurchaseOrderOrchestrator) BeforeSave(ctx context.Context, doc any, user voucherdomain.ActingUser) error {
	order := doc.(*voucherdomain.PurchaseOrder)
	if order.Name == "" {
		order.Name = voucherdomain.GenerateVoucherName(voucherdomain.PrefixPurchaseOrder, order.TransactionDate)
	}
	order.Recalculate()
	return nil
}

// OnSubmit transitions the order to Submitted and refreshes its derived
// fulfillment status; no stock or GL side effect.
func (o *PurchaseOrderOrchestrator) OnSubmit(ctx context.Context, doc any, user voucherdomain.ActingUser) error {
	order := doc.(*voucherdomain.PurchaseOrder)
	if err := requireTransition(order.Status, voucherdomain.StatusSubmitted); err != nil {
		return err
	}
	order.RefreshFulfillmentStatus()
	order.Status = voucherdomain.StatusSubmitted
	return nil
}

// OnCancel transitions the order to Cancelled; no reversal needed since
// it never moved stock or posted to the GL.
func (o *PurchaseOrderOrchestrator) OnCancel(ctx context.Context, doc any, user voucherdomain.ActingUser) error {
	order := doc.(*voucherdomain.PurchaseOrder)
	if err := requireTransition(order.Status, voucherdomain.StatusCancelled); err != nil {
		return err
	}
	order.Status = voucherdomain.StatusCancelled
	return nil
}
