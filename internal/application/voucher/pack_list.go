package voucher

import (
	"context"

	voucherdomain "github.com/erp/stockledger/internal/domain/voucher"
)

// PackListOrchestrator wires voucherdomain.PackList's lifecycle. Per
// §4.8's "Pack List (metadata only)", it has no stock or GL side effect —
// it only records how a Pick List's quantities were boxed.
type PackListOrchestrator struct{}

// NewPackListOrchestrator creates a PackListOrchestrator.
func NewPackListOrchestrator() *PackListOrchestrator {
	return &PackListOrchestrator{}
}

// BeforeSave auto-names the document.
func (o *PackListOrchestrator) BeforeSave(ctx context.Context, doc any, user voucherdomain.ActingUser) error {
	p := doc.(*voucherdomain.PackList)
	if p.Name == "" {
		p.Name = voucherdomain.GenerateVoucherName(voucherdomain.PrefixPackList, p.PostingTs)
	}
	return nil
}

// OnSubmit transitions the pack list to Submitted; no stock or GL effect.
func (o *PackListOrchestrator) OnSubmit(ctx context.Context, doc any, user voucherdomain.ActingUser) error {
	p := doc.(*voucherdomain.PackList)
	if err := requireTransition(p.Status, voucherdomain.StatusSubmitted); err != nil {
		return err
	}
	p.Status = voucherdomain.StatusSubmitted
	return nil
}

// OnCancel transitions the pack list to Cancelled.
func (o *PackListOrchestrator) OnCancel(ctx context.Context, doc any, user voucherdomain.ActingUser) error {
	p := doc.(*voucherdomain.PackList)
	if err := requireTransition(p.Status, voucherdomain.StatusCancelled); err != nil {
		return err
	}
	p.Status = voucherdomain.StatusCancelled
	return nil
}
