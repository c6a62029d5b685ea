package stock

import (
	"context"
	"time"

	"github.com/erp/stockledger/internal/domain/shared"
	stockdomain "github.com/erp/stockledger/internal/domain/stock"
	"github.com/google/uuid"
)

// CancellationEngine implements §4.7's three reversers. Each is guarded by
// its own `CANCEL:<voucher>:<no>` idempotency key and refuses outright the
// moment it finds downstream consumption — it never reverses beyond the
// earliest consumer, keeping the cost flow append-only.
type CancellationEngine struct {
	txScope TransactionScope
	events  shared.EventPublisher
	clock   shared.Clock
}

// NewCancellationEngine creates a CancellationEngine.
func NewCancellationEngine(txScope TransactionScope, events shared.EventPublisher, clock shared.Clock) *CancellationEngine {
	if clock == nil {
		clock = shared.SystemClock{}
	}
	return &CancellationEngine{txScope: txScope, events: events, clock: clock}
}

// CancelPurchaseReceiptInput names the voucher whose receipt is reversed.
type CancelPurchaseReceiptInput struct {
	TenantID    uuid.UUID
	VoucherType string
	VoucherNo   string
}

// CancelPurchaseReceipt finds every non-cancelled layer this voucher
// created. It refuses if any layer has qtyRemaining < qtyOriginal (some of
// it has already been issued or transferred out). Otherwise it cancels
// each layer, decrements both balance tiers, writes a negative cancel
// ledger row, and deletes the serials that receipt created.
func (c *CancellationEngine) CancelPurchaseReceipt(ctx context.Context, in CancelPurchaseReceiptInput) error {
	return c.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		return WithPostingKey(ctx, repos.Postings(), in.TenantID, stockdomain.BuildCancelPostingKey(in.VoucherType, in.VoucherNo), func() error {
			layers, err := repos.FifoLayers().FindByVoucher(ctx, in.TenantID, in.VoucherType, in.VoucherNo)
			if err != nil {
				return err
			}
			active := make([]*stockdomain.StockFifoLayer, 0, len(layers))
			for i := range layers {
				l := layers[i]
				if l.IsCancelled {
					continue
				}
				if l.IsConsumed() {
					return stockdomain.ErrDownstreamConsumed
				}
				active = append(active, &l)
			}

			postingTs := c.clock.Now()
			for _, layer := range active {
				if err := c.cancelLayer(ctx, repos, layer, postingTs, in.VoucherType, in.VoucherNo); err != nil {
					return err
				}
			}

			entries, err := repos.LedgerEntries().FindByVoucher(ctx, in.TenantID, in.VoucherType, in.VoucherNo)
			if err != nil {
				return err
			}
			for i := range entries {
				links, err := repos.LedgerEntrySerials().FindByLedgerEntry(ctx, in.TenantID, entries[i].ID)
				if err != nil {
					return err
				}
				for _, link := range links {
					if err := repos.Serials().Delete(ctx, in.TenantID, link.SerialID); err != nil {
						return err
					}
				}
			}
			return nil
		})
	})
}

func (c *CancellationEngine) cancelLayer(ctx context.Context, repos TransactionalRepositories, layer *stockdomain.StockFifoLayer, postingTs time.Time, voucherType, voucherNo string) error {
	qty := layer.QtyOriginal
	if err := layer.Cancel(); err != nil {
		return err
	}
	if err := repos.FifoLayers().UpdateRemaining(ctx, layer); err != nil {
		return err
	}

	balance, err := repos.Balances().FindByItemWarehouseForUpdate(ctx, layer.TenantID, layer.ItemID, layer.WarehouseID)
	if err != nil {
		return err
	}
	if err := balance.Issue(qty); err != nil {
		return err
	}
	if err := repos.Balances().SaveWithLock(ctx, balance); err != nil {
		return err
	}

	if layer.LocationID != nil {
		bin, err := repos.BinBalances().FindByBinForUpdate(ctx, layer.TenantID, layer.ItemID, layer.WarehouseID, *layer.LocationID, layer.BatchID)
		if err != nil {
			return err
		}
		if err := bin.Issue(qty); err != nil {
			return err
		}
		if err := repos.BinBalances().Save(ctx, bin); err != nil {
			return err
		}
	}

	cancelEntry := stockdomain.NewStockLedgerEntry(layer.TenantID, layer.ItemID, layer.WarehouseID, qty.Neg(), layer.IncomingRate, nil, layer.LocationID, layer.BatchID, &layer.ID, "CANCEL:"+voucherType, voucherNo, postingTs, postingTs)
	return repos.LedgerEntries().Create(ctx, cancelEntry)
}

// CancelDeliveryNoteInput names the voucher whose issue is reversed.
type CancelDeliveryNoteInput struct {
	TenantID    uuid.UUID
	VoucherType string
	VoucherNo   string
}

// CancelDeliveryNote finds the issue ledger rows this voucher wrote, each
// referencing a consumed FIFO layer. For each it restores `|qty|` to that
// layer (a restore above qtyOriginal fails with ErrReturnExceedsOriginal), re-increments both balance tiers at the
// original source location, writes a positive cancel ledger row, and
// reactivates the serials that issue moved, back to the source bin.
func (c *CancellationEngine) CancelDeliveryNote(ctx context.Context, in CancelDeliveryNoteInput) error {
	return c.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		return WithPostingKey(ctx, repos.Postings(), in.TenantID, stockdomain.BuildCancelPostingKey(in.VoucherType, in.VoucherNo), func() error {
			entries, err := repos.LedgerEntries().FindByVoucher(ctx, in.TenantID, in.VoucherType, in.VoucherNo)
			if err != nil {
				return err
			}
			postingTs := c.clock.Now()
			for i := range entries {
				entry := entries[i]
				if !entry.Qty.IsNegative() {
					continue // only issue legs are reversed here
				}
				if entry.FifoLayerID == nil {
					return stockdomain.ErrLayerCancelled
				}
				layer, err := repos.FifoLayers().FindByID(ctx, in.TenantID, *entry.FifoLayerID)
				if err != nil {
					return err
				}
				restoreQty := entry.Qty.Neg()
				if err := layer.Restore(restoreQty); err != nil {
					return err
				}
				if err := repos.FifoLayers().UpdateRemaining(ctx, layer); err != nil {
					return err
				}

				balance, err := repos.Balances().FindByItemWarehouseForUpdate(ctx, in.TenantID, entry.ItemID, entry.WarehouseID)
				if err != nil {
					return err
				}
				if err := balance.Receive(restoreQty, layer.IncomingRate); err != nil {
					return err
				}
				if err := repos.Balances().SaveWithLock(ctx, balance); err != nil {
					return err
				}

				if entry.FromLocationID != nil {
					bin, err := repos.BinBalances().FindByBinForUpdate(ctx, in.TenantID, entry.ItemID, entry.WarehouseID, *entry.FromLocationID, entry.BatchID)
					if err != nil {
						return err
					}
					if err := bin.UpsertReceive(restoreQty); err != nil {
						return err
					}
					if err := repos.BinBalances().Save(ctx, bin); err != nil {
						return err
					}
				}

				cancelEntry := stockdomain.NewStockLedgerEntry(in.TenantID, entry.ItemID, entry.WarehouseID, restoreQty, layer.IncomingRate, nil, entry.FromLocationID, entry.BatchID, entry.FifoLayerID, "CANCEL:"+in.VoucherType, in.VoucherNo, postingTs, postingTs)
				if err := repos.LedgerEntries().Create(ctx, cancelEntry); err != nil {
					return err
				}

				links, err := repos.LedgerEntrySerials().FindByLedgerEntry(ctx, in.TenantID, entry.ID)
				if err != nil {
					return err
				}
				for _, link := range links {
					if entry.FromLocationID == nil {
						continue
					}
					serial, err := repos.Serials().FindByID(ctx, in.TenantID, link.SerialID)
					if err != nil {
						return err
					}
					serial.Reactivate(entry.WarehouseID, *entry.FromLocationID, entry.BatchID)
					if err := repos.Serials().Save(ctx, serial); err != nil {
						return err
					}
				}
			}
			return nil
		})
	})
}

// CancelStockTransferInput names the voucher whose transfer is reversed.
type CancelStockTransferInput struct {
	TenantID    uuid.UUID
	VoucherType string
	VoucherNo   string
}

// CancelStockTransfer finds destination layers this voucher created. It
// refuses if any destination layer has been consumed. Otherwise, for each
// it verifies the source layer still exists and is not cancelled, cancels
// the destination layer, restores the source layer, adjusts both
// warehouses' balance tiers, writes paired cancel ledger rows, and moves
// any serials back to the source bin.
func (c *CancellationEngine) CancelStockTransfer(ctx context.Context, in CancelStockTransferInput) error {
	return c.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		return WithPostingKey(ctx, repos.Postings(), in.TenantID, stockdomain.BuildCancelPostingKey(in.VoucherType, in.VoucherNo), func() error {
			destLayers, err := repos.FifoLayers().FindByVoucher(ctx, in.TenantID, in.VoucherType, in.VoucherNo)
			if err != nil {
				return err
			}
			active := make([]stockdomain.StockFifoLayer, 0, len(destLayers))
			for _, l := range destLayers {
				if l.IsCancelled {
					continue
				}
				if l.SourceLayerID == nil {
					continue // a layer this voucher both created and consumed elsewhere is handled via its own voucher ref
				}
				if l.IsConsumed() {
					return stockdomain.ErrDownstreamConsumed
				}
				active = append(active, l)
			}

			postingTs := c.clock.Now()
			for i := range active {
				destLayer := &active[i]
				sourceLayer, err := repos.FifoLayers().FindByID(ctx, in.TenantID, *destLayer.SourceLayerID)
				if err != nil {
					return err
				}
				if sourceLayer.IsCancelled {
					return stockdomain.ErrLayerCancelled
				}

				qty := destLayer.QtyRemaining
				if err := destLayer.Cancel(); err != nil {
					return err
				}
				if err := repos.FifoLayers().UpdateRemaining(ctx, destLayer); err != nil {
					return err
				}
				if err := sourceLayer.Restore(qty); err != nil {
					return err
				}
				if err := repos.FifoLayers().UpdateRemaining(ctx, sourceLayer); err != nil {
					return err
				}

				destBalance, err := repos.Balances().FindByItemWarehouseForUpdate(ctx, in.TenantID, destLayer.ItemID, destLayer.WarehouseID)
				if err != nil {
					return err
				}
				if err := destBalance.Issue(qty); err != nil {
					return err
				}
				if err := repos.Balances().SaveWithLock(ctx, destBalance); err != nil {
					return err
				}
				if destLayer.LocationID != nil {
					destBin, err := repos.BinBalances().FindByBinForUpdate(ctx, in.TenantID, destLayer.ItemID, destLayer.WarehouseID, *destLayer.LocationID, destLayer.BatchID)
					if err != nil {
						return err
					}
					if err := destBin.Issue(qty); err != nil {
						return err
					}
					if err := repos.BinBalances().Save(ctx, destBin); err != nil {
						return err
					}
				}

				sourceBalance, err := repos.Balances().FindByItemWarehouseForUpdate(ctx, in.TenantID, sourceLayer.ItemID, sourceLayer.WarehouseID)
				if err != nil {
					return err
				}
				if err := sourceBalance.Receive(qty, sourceLayer.IncomingRate); err != nil {
					return err
				}
				if err := repos.Balances().SaveWithLock(ctx, sourceBalance); err != nil {
					return err
				}
				var sourceBin *stockdomain.BinBalance
				if sourceLayer.LocationID != nil {
					sourceBin, err = repos.BinBalances().FindByBinForUpdate(ctx, in.TenantID, sourceLayer.ItemID, sourceLayer.WarehouseID, *sourceLayer.LocationID, sourceLayer.BatchID)
					if err != nil {
						return err
					}
					if err := sourceBin.UpsertReceive(qty); err != nil {
						return err
					}
					if err := repos.BinBalances().Save(ctx, sourceBin); err != nil {
						return err
					}
				}

				outCancel := stockdomain.NewStockLedgerEntry(in.TenantID, destLayer.ItemID, destLayer.WarehouseID, qty.Neg(), destLayer.IncomingRate, nil, destLayer.LocationID, destLayer.BatchID, &destLayer.ID, "CANCEL:"+in.VoucherType, in.VoucherNo, postingTs, postingTs)
				if err := repos.LedgerEntries().Create(ctx, outCancel); err != nil {
					return err
				}
				inCancel := stockdomain.NewStockLedgerEntry(in.TenantID, sourceLayer.ItemID, sourceLayer.WarehouseID, qty, sourceLayer.IncomingRate, sourceLayer.LocationID, nil, sourceLayer.BatchID, &sourceLayer.ID, "CANCEL:"+in.VoucherType, in.VoucherNo, postingTs, postingTs)
				if err := repos.LedgerEntries().Create(ctx, inCancel); err != nil {
					return err
				}

				if err := relocateSerialsToSource(ctx, repos, in.TenantID, destLayer, sourceLayer); err != nil {
					return err
				}
			}
			return nil
		})
	})
}

func relocateSerialsToSource(ctx context.Context, repos TransactionalRepositories, tenantID uuid.UUID, destLayer, sourceLayer *stockdomain.StockFifoLayer) error {
	if destLayer.LocationID == nil || sourceLayer.LocationID == nil {
		return nil
	}
	serials, err := repos.Serials().FindAvailableByBin(ctx, tenantID, destLayer.ItemID, destLayer.WarehouseID, *destLayer.LocationID)
	if err != nil {
		return err
	}
	for i := range serials {
		s := &serials[i]
		sameBatch := (s.BatchID == nil) == (destLayer.BatchID == nil) &&
			(destLayer.BatchID == nil || *s.BatchID == *destLayer.BatchID)
		if !sameBatch {
			continue
		}
		if err := s.Relocate(sourceLayer.WarehouseID, *sourceLayer.LocationID, sourceLayer.BatchID); err != nil {
			return err
		}
		if err := repos.Serials().Save(ctx, s); err != nil {
			return err
		}
	}
	return nil
}
