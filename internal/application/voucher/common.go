// Package voucher orchestrates the voucher kinds of §4.8: each file wires
// one document kind's beforeSave/onSubmit/onCancel hooks to the stock
// engine, the cancellation engine, and the GL writer.
package voucher

import (
	"context"
	"fmt"

	stockapp "github.com/erp/stockledger/internal/application/stock"
	ledgerapp "github.com/erp/stockledger/internal/application/ledger"
	"github.com/erp/stockledger/internal/domain/ledger"
	voucherdomain "github.com/erp/stockledger/internal/domain/voucher"
	"github.com/google/uuid"
)

// postGL runs the GL writer for one voucher's posting lines inside its own
// idempotency-gated transaction. That transaction is separate from any
// stock transaction the calling orchestrator ran before it: a failed GL
// posting does not roll back stock writes that already committed. For
// voucher kinds whose only side effect is a GL posting (Invoice, Purchase
// Invoice, Journal Entry, Payment Entry) it is the whole submit path.
func postGL(ctx context.Context, txScope stockapp.TransactionScope, tenantID uuid.UUID, postingKey, currency string, req ledgerapp.PostingRequest) ([]*ledger.GlEntry, error) {
	req.TenantID = tenantID
	req.Currency = currency
	var entries []*ledger.GlEntry
	err := txScope.Execute(ctx, func(repos stockapp.TransactionalRepositories) error {
		return stockapp.WithPostingKey(ctx, repos.Postings(), tenantID, postingKey, func() error {
			writer := ledgerapp.NewWriter(repos.Accounts(), repos.GlEntries())
			written, err := writer.Post(ctx, req)
			if err != nil {
				return err
			}
			entries = written
			return nil
		})
	})
	return entries, err
}

// requireTransition enforces §4.8's shared submission lifecycle before any
// side-effecting hook runs.
func requireTransition(current voucherdomain.Status, target voucherdomain.Status) error {
	if !current.CanTransitionTo(target) {
		return fmt.Errorf("voucher: cannot transition from %s to %s", current, target)
	}
	return nil
}
