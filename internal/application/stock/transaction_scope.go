package stock

import (
	"context"

	"github.com/erp/stockledger/internal/domain/ledger"
	"github.com/erp/stockledger/internal/domain/stock"
)

// TransactionScope runs a function with repositories scoped to one database
// transaction and one advisory-lock-gated session, covering the stock
// ledger's wider repository set (balances, layers, ledger entries,
// postings, GL) than a single-aggregate transaction would need.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides every repository a stock or GL
// primitive needs, all sharing the transaction's underlying connection.
type TransactionalRepositories interface {
	Balances() stock.BalanceRepository
	BinBalances() stock.BinBalanceRepository
	Batches() stock.BatchRepository
	Serials() stock.SerialRepository
	FifoLayers() stock.FifoLayerRepository
	LedgerEntries() stock.LedgerEntryRepository
	LedgerEntrySerials() stock.LedgerEntrySerialRepository
	Postings() stock.PostingRepository
	Accounts() ledger.AccountRepository
	GlEntries() ledger.GlEntryRepository
	Locks() AdvisoryLockGate
}
