package persistence

import (
	"context"

	stockapp "github.com/erp/stockledger/internal/application/stock"
	"github.com/erp/stockledger/internal/domain/ledger"
	"github.com/erp/stockledger/internal/domain/stock"
	"gorm.io/gorm"
)

// GormStockTransactionScope implements stockapp.TransactionScope: a plain
// GORM transaction whose repositories share one handle, plus the Postgres
// advisory-lock gate of §4.3.
type GormStockTransactionScope struct {
	db *gorm.DB
}

// NewGormStockTransactionScope creates a new GormStockTransactionScope.
func NewGormStockTransactionScope(db *gorm.DB) *GormStockTransactionScope {
	return &GormStockTransactionScope{db: db}
}

// Execute runs fn inside a database transaction, handing it a
// TransactionalRepositories bundle (stock + ledger repos and the advisory
// lock gate) all sharing the same *gorm.DB transaction handle.
func (s *GormStockTransactionScope) Execute(ctx context.Context, fn func(repos stockapp.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormStockTransactionalRepositories{tx: tx})
	})
}

type gormStockTransactionalRepositories struct {
	tx *gorm.DB
}

func (r *gormStockTransactionalRepositories) Balances() stock.BalanceRepository {
	return NewGormBalanceRepository(r.tx)
}

func (r *gormStockTransactionalRepositories) BinBalances() stock.BinBalanceRepository {
	return NewGormBinBalanceRepository(r.tx)
}

func (r *gormStockTransactionalRepositories) Batches() stock.BatchRepository {
	return NewGormBatchRepository(r.tx)
}

func (r *gormStockTransactionalRepositories) Serials() stock.SerialRepository {
	return NewGormSerialRepository(r.tx)
}

func (r *gormStockTransactionalRepositories) FifoLayers() stock.FifoLayerRepository {
	return NewGormFifoLayerRepository(r.tx)
}

func (r *gormStockTransactionalRepositories) LedgerEntries() stock.LedgerEntryRepository {
	return NewGormLedgerEntryRepository(r.tx)
}

func (r *gormStockTransactionalRepositories) LedgerEntrySerials() stock.LedgerEntrySerialRepository {
	return NewGormLedgerEntrySerialRepository(r.tx)
}

func (r *gormStockTransactionalRepositories) Postings() stock.PostingRepository {
	return NewGormPostingRepository(r.tx)
}

func (r *gormStockTransactionalRepositories) Accounts() ledger.AccountRepository {
	return NewGormAccountRepository(r.tx)
}

func (r *gormStockTransactionalRepositories) GlEntries() ledger.GlEntryRepository {
	return NewGormGlEntryRepository(r.tx)
}

func (r *gormStockTransactionalRepositories) Locks() stockapp.AdvisoryLockGate {
	return &GormAdvisoryLockGate{tx: r.tx}
}

// GormAdvisoryLockGate implements stockapp.AdvisoryLockGate with a
// transaction-scoped Postgres advisory lock, automatically released when
// the enclosing transaction commits or rolls back.
type GormAdvisoryLockGate struct {
	tx *gorm.DB
}

// LockXact acquires pg_advisory_xact_lock(hashtext(key)) against the
// caller's transaction.
func (g *GormAdvisoryLockGate) LockXact(ctx context.Context, key string) error {
	return g.tx.WithContext(ctx).Exec("SELECT pg_advisory_xact_lock(hashtext(?))", key).Error
}

var _ stockapp.TransactionScope = (*GormStockTransactionScope)(nil)
var _ stockapp.TransactionalRepositories = (*gormStockTransactionalRepositories)(nil)
var _ stockapp.AdvisoryLockGate = (*GormAdvisoryLockGate)(nil)
