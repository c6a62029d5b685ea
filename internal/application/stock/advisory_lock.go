package stock

import (
	"context"
	"sort"

	"github.com/google/uuid"
)

// AdvisoryLockGate acquires a transaction-scoped advisory lock, released
// automatically when the enclosing transaction ends. Implementations back
// this with `pg_advisory_xact_lock(hashtext(key))` against the same *gorm.DB
// handle the caller's transaction is using.
type AdvisoryLockGate interface {
	LockXact(ctx context.Context, key string) error
}

// LockKey is the stable `(tenant, warehouse, item)` string hashed into the
// advisory lock of §4.3.
func LockKey(tenantID, warehouseID, itemID uuid.UUID) string {
	return tenantID.String() + ":" + warehouseID.String() + ":" + itemID.String()
}

// AcquireSorted takes one advisory lock per key, sorted ascending so two
// transactions locking the same tuple set always request locks in the same
// order and cannot deadlock — required by §4.3 for transfers, which lock
// both the source and destination (tenant, warehouse, item) tuples.
func AcquireSorted(ctx context.Context, gate AdvisoryLockGate, keys ...string) error {
	sorted := make([]string, len(keys))
	copy(sorted, keys)
	sort.Strings(sorted)
	for _, key := range sorted {
		if err := gate.LockXact(ctx, key); err != nil {
			return err
		}
	}
	return nil
}
