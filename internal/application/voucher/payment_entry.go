package voucher

import (
	"context"
	"time"

	ledgerapp "github.com/erp/stockledger/internal/application/ledger"
	stockapp "github.com/erp/stockledger/internal/application/stock"
	"github.com/erp/stockledger/internal/domain/shared"
	stockdomain "github.com/erp/stockledger/internal/domain/stock"
	voucherdomain "github.com/erp/stockledger/internal/domain/voucher"
	"github.com/google/uuid"
)

// InvoiceLedger is the narrow slice of invoice persistence a Payment
// Entry needs to allocate against outstanding Invoices and Purchase
// Invoices: look one up by name, apply or reverse a payment, save it back.
type InvoiceLedger interface {
	GetInvoice(ctx context.Context, tenantID uuid.UUID, name string) (*voucherdomain.Invoice, error)
	SaveInvoice(ctx context.Context, inv *voucherdomain.Invoice) error
	GetPurchaseInvoice(ctx context.Context, tenantID uuid.UUID, name string) (*voucherdomain.PurchaseInvoice, error)
	SavePurchaseInvoice(ctx context.Context, inv *voucherdomain.PurchaseInvoice) error
}

// PaymentEntryOrchestrator wires voucherdomain.PaymentEntry to the GL
// writer's Payment Entry posting template (§4.9) and allocates its
// references against outstanding invoices per §4.10.
type PaymentEntryOrchestrator struct {
	txScope  stockapp.TransactionScope
	invoices InvoiceLedger
	clock    shared.Clock
	currency string
}

// NewPaymentEntryOrchestrator creates a PaymentEntryOrchestrator.
func NewPaymentEntryOrchestrator(txScope stockapp.TransactionScope, invoices InvoiceLedger, clock shared.Clock, currency string) *PaymentEntryOrchestrator {
	return &PaymentEntryOrchestrator{txScope: txScope, invoices: invoices, clock: clock, currency: currency}
}

// BeforeSave auto-names the document and validates that the references'
// allocated amounts do not exceed PaidAmount.
func (o *PaymentEntryOrchestrator) BeforeSave(ctx context.Context, doc any, user voucherdomain.ActingUser) error {
	p := doc.(*voucherdomain.PaymentEntry)
	if p.Name == "" {
		p.Name = voucherdomain.GenerateVoucherName(voucherdomain.PrefixPaymentEntry, p.PostingTs)
	}
	if p.AllocatedTotal().GreaterThan(p.PaidAmount) {
		return shared.NewDomainError("OVER_ALLOCATED_PAYMENT", "allocated amount exceeds paid amount")
	}
	return nil
}

// OnSubmit posts the Receive/Pay GL entry and reduces outstanding_amount
// on each referenced invoice by its allocated amount.
func (o *PaymentEntryOrchestrator) OnSubmit(ctx context.Context, doc any, user voucherdomain.ActingUser) error {
	p := doc.(*voucherdomain.PaymentEntry)
	if err := requireTransition(p.Status, voucherdomain.StatusSubmitted); err != nil {
		return err
	}

	direction := ledgerapp.PaymentDirectionReceive
	if p.Direction == voucherdomain.PaymentDirectionPay {
		direction = ledgerapp.PaymentDirectionPay
	}
	req := ledgerapp.BuildPaymentEntryPosting(ledgerapp.PaymentEntryRequest{
		PostingDate: p.PostingDate,
		PostingTs:   p.PostingTs,
		VoucherType: "Payment Entry",
		VoucherNo:   p.Name,
		Direction:   direction,
		PaidTo:      p.PaidTo,
		PaidFrom:    p.PaidFrom,
		PaidAmount:  p.PaidAmount,
	})
	postingKey := stockdomain.BuildPostingKey("Payment Entry", p.Name, "gl")
	if _, err := postGL(ctx, o.txScope, p.TenantID, postingKey, o.currency, req); err != nil {
		return err
	}

	if err := o.allocate(ctx, p, p.PostingTs, applyPayment); err != nil {
		return err
	}

	p.Status = voucherdomain.StatusSubmitted
	return nil
}

// OnCancel reverses the GL posting and restores each referenced invoice's
// outstanding_amount.
func (o *PaymentEntryOrchestrator) OnCancel(ctx context.Context, doc any, user voucherdomain.ActingUser) error {
	p := doc.(*voucherdomain.PaymentEntry)
	if err := requireTransition(p.Status, voucherdomain.StatusCancelled); err != nil {
		return err
	}

	direction := ledgerapp.PaymentDirectionReceive
	if p.Direction == voucherdomain.PaymentDirectionPay {
		direction = ledgerapp.PaymentDirectionPay
	}
	req := ledgerapp.Reverse(ledgerapp.BuildPaymentEntryPosting(ledgerapp.PaymentEntryRequest{
		PostingDate: p.PostingDate,
		PostingTs:   p.PostingTs,
		VoucherType: "Payment Entry",
		VoucherNo:   p.Name,
		Direction:   direction,
		PaidTo:      p.PaidTo,
		PaidFrom:    p.PaidFrom,
		PaidAmount:  p.PaidAmount,
	}))
	postingKey := stockdomain.BuildCancelPostingKey("Payment Entry", p.Name) + ":gl"
	if _, err := postGL(ctx, o.txScope, p.TenantID, postingKey, o.currency, req); err != nil {
		return err
	}

	if err := o.allocate(ctx, p, p.PostingTs, reversePayment); err != nil {
		return err
	}

	p.Status = voucherdomain.StatusCancelled
	return nil
}

type allocationMode int

const (
	applyPayment allocationMode = iota
	reversePayment
)

func (o *PaymentEntryOrchestrator) allocate(ctx context.Context, p *voucherdomain.PaymentEntry, today time.Time, mode allocationMode) error {
	for _, ref := range p.References {
		switch ref.ReferenceType {
		case "Invoice":
			inv, err := o.invoices.GetInvoice(ctx, p.TenantID, ref.ReferenceName)
			if err != nil {
				return err
			}
			if mode == applyPayment {
				inv.ApplyPayment(ref.AllocatedAmount, today)
			} else {
				inv.ReversePayment(ref.AllocatedAmount, today)
			}
			if err := o.invoices.SaveInvoice(ctx, inv); err != nil {
				return err
			}
		case "Purchase Invoice":
			inv, err := o.invoices.GetPurchaseInvoice(ctx, p.TenantID, ref.ReferenceName)
			if err != nil {
				return err
			}
			if mode == applyPayment {
				inv.ApplyPayment(ref.AllocatedAmount, today)
			} else {
				inv.ReversePayment(ref.AllocatedAmount, today)
			}
			if err := o.invoices.SavePurchaseInvoice(ctx, inv); err != nil {
				return err
			}
		}
	}
	return nil
}
