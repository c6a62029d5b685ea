package stock

import (
	"context"
	"errors"

	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/erp/stockledger/internal/domain/stock"
	"github.com/google/uuid"
)

// WithPostingKey is §4.2's idempotency gate: it inserts the StockPosting
// marker row before running fn, inside the same transaction as fn's
// mutations. A duplicate key (unique-constraint violation) short-circuits
// as a no-op — fn is not called and no error surfaces to the caller, since
// a replayed request is expected, not exceptional.
func WithPostingKey(ctx context.Context, postings stock.PostingRepository, tenantID uuid.UUID, postingKey string, fn func() error) error {
	marker := stock.NewStockPosting(tenantID, postingKey)
	if err := postings.Create(ctx, marker); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil
		}
		return err
	}
	return fn()
}
