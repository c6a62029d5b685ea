package voucher

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is the generic submission lifecycle every voucher kind shares:
// a document is drafted, submitted (which triggers its stock/GL side
// effects), and may only be reversed by cancelling — no other backward
// transition exists. One IsValid/CanTransitionTo pair serves every
// voucher kind, where
// the interesting progression (To Receive/To Bill/Completed, Paid/Overdue,
// ...) is derived state layered on top by each document's own resolver
// rather than a parallel state machine.
type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusSubmitted Status = "SUBMITTED"
	StatusCancelled Status = "CANCELLED"
)

// IsValid reports whether s is one of the three recognized statuses.
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusSubmitted, StatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo allows exactly these moves:
// Draft -> Submitted or Cancelled; Submitted -> Cancelled; Cancelled is
// terminal.
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusDraft:
		return target == StatusSubmitted || target == StatusCancelled
	case StatusSubmitted:
		return target == StatusCancelled
	case StatusCancelled:
		return false
	}
	return false
}

// FulfillmentStatus is the derived, per-line-progress status layered on
// top of Status for documents with delivered/billed/received quantities
// (§4.10): Sales Order, Purchase Order, Invoice, Purchase Invoice.
type FulfillmentStatus string

const (
	FulfillmentToDeliver FulfillmentStatus = "TO_DELIVER"
	FulfillmentToBill    FulfillmentStatus = "TO_BILL"
	FulfillmentToReceive FulfillmentStatus = "TO_RECEIVE"
	FulfillmentCompleted FulfillmentStatus = "COMPLETED"
	FulfillmentUnpaid    FulfillmentStatus = "UNPAID"
	FulfillmentPartly    FulfillmentStatus = "PARTLY_PAID"
	FulfillmentPaid      FulfillmentStatus = "PAID"
	FulfillmentOverdue   FulfillmentStatus = "OVERDUE"
)

// ResolveSalesOrderStatus implements §4.10's Sales Order resolution: all
// delivered and billed -> Completed; all delivered only -> To Bill; else
// To Deliver.
func ResolveSalesOrderStatus(allDelivered, allBilled bool) FulfillmentStatus {
	switch {
	case allDelivered && allBilled:
		return FulfillmentCompleted
	case allDelivered:
		return FulfillmentToBill
	default:
		return FulfillmentToDeliver
	}
}

// ResolvePurchaseOrderStatus mirrors ResolveSalesOrderStatus for Purchase
// Order's received/billed pair, per §4.10 ("mirrors with received_qty ...
// and billed_qty ... -> To Receive -> To Bill -> Completed").
func ResolvePurchaseOrderStatus(allReceived, allBilled bool) FulfillmentStatus {
	switch {
	case allReceived && allBilled:
		return FulfillmentCompleted
	case allReceived:
		return FulfillmentToBill
	default:
		return FulfillmentToReceive
	}
}

// ResolvePaymentStatus implements §4.10's Invoice/Purchase Invoice
// resolution: outstanding ≤ 0 -> Paid; due date passed -> Overdue;
// 0 < outstanding < grandTotal -> Partly Paid; else Unpaid.
func ResolvePaymentStatus(outstanding, grandTotal decimal.Decimal, dueDate, today time.Time) FulfillmentStatus {
	switch {
	case outstanding.LessThanOrEqual(decimal.Zero):
		return FulfillmentPaid
	case dueDate.Before(today):
		return FulfillmentOverdue
	case outstanding.LessThan(grandTotal):
		return FulfillmentPartly
	default:
		return FulfillmentUnpaid
	}
}
