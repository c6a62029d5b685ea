package stock

import (
	"context"
	"time"

	"github.com/erp/stockledger/internal/domain/shared"
	stockdomain "github.com/erp/stockledger/internal/domain/stock"
	"github.com/erp/stockledger/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StrategyFifo and StrategyFefo select the FIFO-layer consumption order of
// §4.5; they mirror inventory.BatchOutboundStrategyType's two real
// strategies (Specified has no analog here — a voucher line may not pin a
// specific layer id, only a bin/batch scope).
type Strategy string

const (
	StrategyFifo Strategy = "FIFO"
	StrategyFefo Strategy = "FEFO"
)

// VoucherRef identifies the document a stock primitive is posting for.
type VoucherRef struct {
	Type      string
	No        string
	PostingTs time.Time
}

// LineRef scopes a primitive to one voucher line, used to build the
// deterministic posting key of §4.2.
type LineRef struct {
	Discriminator string
}

func (v VoucherRef) postingKey(line LineRef) string {
	return stockdomain.BuildPostingKey(v.Type, v.No, line.Discriminator)
}

// ItemWarehouseRef carries the codes a primitive resolves before touching
// any balance.
type ItemWarehouseRef struct {
	ItemCode          string
	WarehouseCode     string
	BatchNo           string
	Expiry            *time.Time
	LocationID        *uuid.UUID // explicit location; nil uses the warehouse default
	UomCode           string
	ConversionFactor  *decimal.Decimal
}

// ReceiveStockInput is receiveStock's input of §4.6.
type ReceiveStockInput struct {
	TenantID     uuid.UUID
	Voucher      VoucherRef
	Line         LineRef
	Ref          ItemWarehouseRef
	Qty          decimal.Decimal
	IncomingRate decimal.Decimal
	SerialNos    []string
}

// Engine implements the stock primitives of §4.6, each wrapped by the
// idempotency gate (§4.2) and the advisory concurrency gate (§4.3).
type Engine struct {
	items      stockdomain.ItemLookup
	warehouses stockdomain.WarehouseLookup
	txScope    TransactionScope
	events     shared.EventPublisher
	clock      shared.Clock
}

// NewEngine creates a stock Engine.
func NewEngine(items stockdomain.ItemLookup, warehouses stockdomain.WarehouseLookup, txScope TransactionScope, events shared.EventPublisher, clock shared.Clock) *Engine {
	if clock == nil {
		clock = shared.SystemClock{}
	}
	return &Engine{items: items, warehouses: warehouses, txScope: txScope, events: events, clock: clock}
}

func (e *Engine) postingTs(voucher VoucherRef) time.Time {
	if voucher.PostingTs.IsZero() {
		return e.clock.Now()
	}
	return voucher.PostingTs
}

func (e *Engine) publish(ctx context.Context, events []shared.DomainEvent) {
	if e.events == nil || len(events) == 0 {
		return
	}
	_ = e.events.Publish(ctx, events...)
}

// ReceiveStock posts a receipt: resolves identity, validates quantities,
// increments both balance tiers, appends a FIFO layer, and writes one
// positive ledger leg, optionally creating serial rows.
func (e *Engine) ReceiveStock(ctx context.Context, in ReceiveStockInput) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "stock_engine", "receive_stock")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrProductCode, in.Ref.ItemCode,
		telemetry.SpanAttrQuantity, in.Qty.String(),
	)

	postingTs := e.postingTs(in.Voucher)
	var published []shared.DomainEvent

	err := e.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		return WithPostingKey(ctx, repos.Postings(), in.TenantID, in.Voucher.postingKey(in.Line), func() error {
			ref, err := stockdomain.ResolveItemWarehouseBatch(ctx, e.items, e.warehouses, repos.Batches(), in.TenantID, in.Ref.ItemCode, in.Ref.WarehouseCode, in.Ref.BatchNo, in.Ref.Expiry)
			if err != nil {
				return err
			}
			location, err := stockdomain.ResolveReceivingLocation(ctx, e.warehouses, in.TenantID, ref.Warehouse, in.Ref.LocationID)
			if err != nil {
				return err
			}
			stockQty, stockRate, _, err := stockdomain.ResolveStockQty(ctx, e.items, in.TenantID, ref.Item, in.Qty, in.IncomingRate, in.Ref.UomCode, in.Ref.ConversionFactor)
			if err != nil {
				return err
			}
			if !stockQty.GreaterThan(decimal.Zero) {
				return stockdomain.ErrInvalidQuantity
			}
			if stockRate.IsNegative() {
				return stockdomain.ErrInvalidQuantity
			}

			if err := e.lockTuple(ctx, repos, in.TenantID, ref.Warehouse.ID, ref.Item.ID); err != nil {
				return err
			}

			var batchID *uuid.UUID
			if ref.Batch != nil {
				batchID = &ref.Batch.ID
			}

			if ref.Item.HasSerial {
				if err := validateSerialInput(in.SerialNos, stockQty); err != nil {
					return err
				}
				if err := assertSerialsUnused(ctx, repos.Serials(), in.TenantID, ref.Item.ID, in.SerialNos); err != nil {
					return err
				}
			}

			balance, err := repos.Balances().GetOrCreate(ctx, in.TenantID, ref.Item.ID, ref.Warehouse.ID, false)
			if err != nil {
				return err
			}
			if err := balance.Receive(stockQty, stockRate); err != nil {
				return err
			}
			if err := repos.Balances().SaveWithLock(ctx, balance); err != nil {
				return err
			}

			bin, err := repos.BinBalances().GetOrCreate(ctx, in.TenantID, ref.Item.ID, ref.Warehouse.ID, location.ID, batchID)
			if err != nil {
				return err
			}
			if err := bin.UpsertReceive(stockQty); err != nil {
				return err
			}
			if err := repos.BinBalances().Save(ctx, bin); err != nil {
				return err
			}

			layer, err := stockdomain.NewStockFifoLayer(in.TenantID, ref.Item.ID, ref.Warehouse.ID, &location.ID, batchID, stockQty, stockRate, postingTs, in.Voucher.Type, in.Voucher.No, nil)
			if err != nil {
				return err
			}
			if err := repos.FifoLayers().Create(ctx, layer); err != nil {
				return err
			}

			entry := stockdomain.NewStockLedgerEntry(in.TenantID, ref.Item.ID, ref.Warehouse.ID, stockQty, stockRate, nil, &location.ID, batchID, &layer.ID, in.Voucher.Type, in.Voucher.No, postingTs, postingTs)
			if err := repos.LedgerEntries().Create(ctx, entry); err != nil {
				return err
			}

			if ref.Item.HasSerial {
				if err := createAvailableSerials(ctx, repos.Serials(), repos.LedgerEntrySerials(), in.TenantID, ref.Item.ID, ref.Warehouse.ID, location.ID, batchID, entry.ID, in.SerialNos); err != nil {
					return err
				}
			}

			published = append(published, stockdomain.NewStockReceivedEvent(balance, stockQty, stockRate, in.Voucher.Type, in.Voucher.No))
			return nil
		})
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return err
	}
	telemetry.SetOK(span)
	e.publish(ctx, published)
	return nil
}

// IssueStockInput is issueStock's input of §4.6.
type IssueStockInput struct {
	TenantID          uuid.UUID
	Voucher           VoucherRef
	Line              LineRef
	Ref               ItemWarehouseRef
	Qty               decimal.Decimal
	Strategy          Strategy
	ConsumeReservation bool
	SerialNos         []string
}

// IssueStock posts an issue: resolves identity, checks availability per
// the reservation and negative-stock policy, consumes FIFO layers in
// Strategy order, and writes one negative ledger leg per consumed layer.
func (e *Engine) IssueStock(ctx context.Context, in IssueStockInput, allowNegative bool) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "stock_engine", "issue_stock")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrProductCode, in.Ref.ItemCode,
		telemetry.SpanAttrQuantity, in.Qty.String(),
	)

	postingTs := e.postingTs(in.Voucher)
	var published []shared.DomainEvent

	err := e.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		return WithPostingKey(ctx, repos.Postings(), in.TenantID, in.Voucher.postingKey(in.Line), func() error {
			ref, err := stockdomain.ResolveItemWarehouseBatch(ctx, e.items, e.warehouses, repos.Batches(), in.TenantID, in.Ref.ItemCode, in.Ref.WarehouseCode, in.Ref.BatchNo, in.Ref.Expiry)
			if err != nil {
				return err
			}
			location, err := stockdomain.ResolvePickingLocation(ctx, e.warehouses, in.TenantID, ref.Warehouse, in.Ref.LocationID)
			if err != nil {
				return err
			}
			stockQty, _, _, err := stockdomain.ResolveStockQty(ctx, e.items, in.TenantID, ref.Item, in.Qty, decimal.Zero, in.Ref.UomCode, in.Ref.ConversionFactor)
			if err != nil {
				return err
			}
			if !stockQty.GreaterThan(decimal.Zero) {
				return stockdomain.ErrInvalidQuantity
			}

			if err := e.lockTuple(ctx, repos, in.TenantID, ref.Warehouse.ID, ref.Item.ID); err != nil {
				return err
			}

			balance, err := repos.Balances().FindByItemWarehouseForUpdate(ctx, in.TenantID, ref.Item.ID, ref.Warehouse.ID)
			if err != nil {
				return err
			}
			available := balance.ActualQty
			if !in.ConsumeReservation {
				available = available.Sub(balance.ReservedQty)
			}
			if !allowNegative && available.LessThan(stockQty) {
				return stockdomain.ErrInsufficientBinStock
			}

			var bin *stockdomain.BinBalance
			var batchID *uuid.UUID
			if ref.Batch != nil {
				batchID = &ref.Batch.ID
			}
			if location != nil {
				bin, err = repos.BinBalances().FindByBinForUpdate(ctx, in.TenantID, ref.Item.ID, ref.Warehouse.ID, location.ID, batchID)
				if err != nil {
					return err
				}
				binAvailable := bin.ActualQty
				if !in.ConsumeReservation {
					binAvailable = binAvailable.Sub(bin.ReservedQty)
				}
				if !allowNegative && binAvailable.LessThan(stockQty) {
					return stockdomain.ErrInsufficientBinStock
				}
			}

			var layers []*stockdomain.StockFifoLayer
			if location != nil {
				layers, err = repos.FifoLayers().FindAvailableForUpdate(ctx, in.TenantID, ref.Item.ID, ref.Warehouse.ID)
				if err != nil {
					return err
				}
				layers = filterLayersByLocation(layers, location.ID)
			} else {
				layers, err = repos.FifoLayers().FindAvailableForUpdate(ctx, in.TenantID, ref.Item.ID, ref.Warehouse.ID)
				if err != nil {
					return err
				}
			}

			var result *stockdomain.ConsumptionResult
			if in.Strategy == StrategyFefo {
				expiry, err := loadBatchExpiry(ctx, repos.Batches(), in.TenantID, layers)
				if err != nil {
					return err
				}
				result, err = stockdomain.ConsumeFefo(layers, expiry, stockQty)
				if err != nil {
					return err
				}
			} else {
				result, err = stockdomain.ConsumeFifo(layers, stockQty)
				if err != nil {
					return err
				}
			}
			if err := stockdomain.ApplyConsumptions(layers, result); err != nil {
				return err
			}
			for _, l := range layers {
				if err := repos.FifoLayers().UpdateRemaining(ctx, l); err != nil {
					return err
				}
			}

			if err := balance.Issue(stockQty); err != nil {
				return err
			}
			if in.ConsumeReservation && balance.ReservedQty.GreaterThan(decimal.Zero) {
				balance.Unreserve(stockQty)
			}
			if err := repos.Balances().SaveWithLock(ctx, balance); err != nil {
				return err
			}

			if bin != nil {
				if err := bin.Issue(stockQty); err != nil {
					return err
				}
				if in.ConsumeReservation && bin.ReservedQty.GreaterThan(decimal.Zero) {
					bin.Unreserve(stockQty)
				}
				if err := repos.BinBalances().Save(ctx, bin); err != nil {
					return err
				}
			}

			var serialCursor int
			for _, c := range result.Consumptions {
				legQty := c.DeductedQty.Neg()
				entry := stockdomain.NewStockLedgerEntry(in.TenantID, ref.Item.ID, ref.Warehouse.ID, legQty, c.IncomingRate, c.LocationID, nil, c.BatchID, &c.LayerID, in.Voucher.Type, in.Voucher.No, postingTs, postingTs)
				if err := repos.LedgerEntries().Create(ctx, entry); err != nil {
					return err
				}
				if ref.Item.HasSerial {
					take := c.DeductedQty.IntPart()
					for n := int64(0); n < take && serialCursor < len(in.SerialNos); n++ {
						serial, err := repos.Serials().FindBySerialNoForUpdate(ctx, in.TenantID, ref.Item.ID, in.SerialNos[serialCursor])
						if err != nil {
							return err
						}
						srcWarehouse := ref.Warehouse.ID
						srcLocation := uuid.Nil
						if c.LocationID != nil {
							srcLocation = *c.LocationID
						}
						if err := serial.Issue(srcWarehouse, srcLocation); err != nil {
							return err
						}
						if err := repos.Serials().Save(ctx, serial); err != nil {
							return err
						}
						link := stockdomain.NewStockLedgerEntrySerial(in.TenantID, entry.ID, serial.ID)
						if err := repos.LedgerEntrySerials().Create(ctx, link); err != nil {
							return err
						}
						serialCursor++
					}
				}
			}

			published = append(published, stockdomain.NewStockIssuedEvent(balance, stockQty, result.WeightedAverageCost, in.Voucher.Type, in.Voucher.No))
			if balance.IsBelowThreshold(decimal.Zero) {
				published = append(published, stockdomain.NewStockBelowThresholdEvent(balance, decimal.Zero))
			}
			return nil
		})
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return err
	}
	telemetry.SetOK(span)
	e.publish(ctx, published)
	return nil
}

// TransferStockInput is transferStock's input of §4.6.
type TransferStockInput struct {
	TenantID    uuid.UUID
	Voucher     VoucherRef
	Line        LineRef
	Item        ItemWarehouseRef // WarehouseCode is the source warehouse
	DestWarehouseCode string
	DestLocationID    *uuid.UUID
	Qty         decimal.Decimal
	Strategy    Strategy
}

// TransferStock locks both warehouses in deterministic order, consumes
// source FIFO layers, creates mirrored destination layers, and writes
// paired ledger legs per consumed layer.
func (e *Engine) TransferStock(ctx context.Context, in TransferStockInput, allowNegative bool) error {
	postingTs := e.postingTs(in.Voucher)
	var published []shared.DomainEvent

	err := e.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		return WithPostingKey(ctx, repos.Postings(), in.TenantID, in.Voucher.postingKey(in.Line), func() error {
			srcRef, err := stockdomain.ResolveItemWarehouseBatch(ctx, e.items, e.warehouses, repos.Batches(), in.TenantID, in.Item.ItemCode, in.Item.WarehouseCode, in.Item.BatchNo, in.Item.Expiry)
			if err != nil {
				return err
			}
			destWarehouse, err := e.warehouses.FindByCode(ctx, in.TenantID, in.DestWarehouseCode)
			if err != nil {
				return stockdomain.ErrUnknownWarehouse
			}

			srcLocation, err := stockdomain.ResolvePickingLocation(ctx, e.warehouses, in.TenantID, srcRef.Warehouse, in.Item.LocationID)
			if err != nil {
				return err
			}
			destLocation, err := stockdomain.ResolveReceivingLocation(ctx, e.warehouses, in.TenantID, destWarehouse, in.DestLocationID)
			if err != nil {
				return err
			}

			if err := AcquireSorted(ctx, repos.Locks(),
				LockKey(in.TenantID, srcRef.Warehouse.ID, srcRef.Item.ID),
				LockKey(in.TenantID, destWarehouse.ID, srcRef.Item.ID),
			); err != nil {
				return err
			}

			stockQty, _, _, err := stockdomain.ResolveStockQty(ctx, e.items, in.TenantID, srcRef.Item, in.Qty, decimal.Zero, in.Item.UomCode, in.Item.ConversionFactor)
			if err != nil {
				return err
			}
			if !stockQty.GreaterThan(decimal.Zero) {
				return stockdomain.ErrInvalidQuantity
			}

			srcBalance, err := repos.Balances().FindByItemWarehouseForUpdate(ctx, in.TenantID, srcRef.Item.ID, srcRef.Warehouse.ID)
			if err != nil {
				return err
			}
			if !allowNegative && srcBalance.ActualQty.Sub(srcBalance.ReservedQty).LessThan(stockQty) {
				return stockdomain.ErrInsufficientBinStock
			}

			var batchID *uuid.UUID
			if srcRef.Batch != nil {
				batchID = &srcRef.Batch.ID
			}
			srcBin, err := repos.BinBalances().FindByBinForUpdate(ctx, in.TenantID, srcRef.Item.ID, srcRef.Warehouse.ID, srcLocation.ID, batchID)
			if err != nil {
				return err
			}
			if !allowNegative && srcBin.ActualQty.LessThan(stockQty) {
				return stockdomain.ErrInsufficientBinStock
			}

			layers, err := repos.FifoLayers().FindAvailableForUpdate(ctx, in.TenantID, srcRef.Item.ID, srcRef.Warehouse.ID)
			if err != nil {
				return err
			}
			layers = filterLayersByLocation(layers, srcLocation.ID)

			result, err := stockdomain.ConsumeFifo(layers, stockQty)
			if in.Strategy == StrategyFefo {
				expiry, eerr := loadBatchExpiry(ctx, repos.Batches(), in.TenantID, layers)
				if eerr != nil {
					return eerr
				}
				result, err = stockdomain.ConsumeFefo(layers, expiry, stockQty)
			}
			if err != nil {
				return err
			}
			if err := stockdomain.ApplyConsumptions(layers, result); err != nil {
				return err
			}
			for _, l := range layers {
				if err := repos.FifoLayers().UpdateRemaining(ctx, l); err != nil {
					return err
				}
			}

			if err := srcBalance.Issue(stockQty); err != nil {
				return err
			}
			if err := repos.Balances().SaveWithLock(ctx, srcBalance); err != nil {
				return err
			}
			if err := srcBin.Issue(stockQty); err != nil {
				return err
			}
			if err := repos.BinBalances().Save(ctx, srcBin); err != nil {
				return err
			}

			destBalance, err := repos.Balances().GetOrCreate(ctx, in.TenantID, srcRef.Item.ID, destWarehouse.ID, false)
			if err != nil {
				return err
			}
			destBin, err := repos.BinBalances().GetOrCreate(ctx, in.TenantID, srcRef.Item.ID, destWarehouse.ID, destLocation.ID, batchID)
			if err != nil {
				return err
			}

			for _, c := range result.Consumptions {
				outEntry := stockdomain.NewStockLedgerEntry(in.TenantID, srcRef.Item.ID, srcRef.Warehouse.ID, c.DeductedQty.Neg(), c.IncomingRate, c.LocationID, nil, c.BatchID, &c.LayerID, in.Voucher.Type, in.Voucher.No, postingTs, postingTs)
				if err := repos.LedgerEntries().Create(ctx, outEntry); err != nil {
					return err
				}

				destLayer, err := stockdomain.NewStockFifoLayer(in.TenantID, srcRef.Item.ID, destWarehouse.ID, &destLocation.ID, c.BatchID, c.DeductedQty, c.IncomingRate, postingTs, in.Voucher.Type, in.Voucher.No, &c.LayerID)
				if err != nil {
					return err
				}
				if err := repos.FifoLayers().Create(ctx, destLayer); err != nil {
					return err
				}

				if err := destBalance.Receive(c.DeductedQty, c.IncomingRate); err != nil {
					return err
				}
				if err := destBin.UpsertReceive(c.DeductedQty); err != nil {
					return err
				}

				inEntry := stockdomain.NewStockLedgerEntry(in.TenantID, srcRef.Item.ID, destWarehouse.ID, c.DeductedQty, c.IncomingRate, nil, &destLocation.ID, c.BatchID, &destLayer.ID, in.Voucher.Type, in.Voucher.No, postingTs, postingTs)
				if err := repos.LedgerEntries().Create(ctx, inEntry); err != nil {
					return err
				}
			}

			if err := repos.Balances().SaveWithLock(ctx, destBalance); err != nil {
				return err
			}
			if err := repos.BinBalances().Save(ctx, destBin); err != nil {
				return err
			}

			published = append(published, stockdomain.NewStockTransferredEvent(in.TenantID, srcRef.Item.ID, srcRef.Warehouse.ID, destWarehouse.ID, stockQty, in.Voucher.Type, in.Voucher.No))
			return nil
		})
	})
	if err != nil {
		return err
	}
	e.publish(ctx, published)
	return nil
}

// ReserveUnreserveInput is shared by reserveStock and unreserveStock.
type ReserveUnreserveInput struct {
	TenantID uuid.UUID
	Voucher  VoucherRef
	Line     LineRef
	Ref      ItemWarehouseRef
	Qty      decimal.Decimal
}

// ReserveStock increments reservedQty at warehouse and (if a location is
// supplied) bin scope; no ledger rows are written.
func (e *Engine) ReserveStock(ctx context.Context, in ReserveUnreserveInput) error {
	var published []shared.DomainEvent
	err := e.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		return WithPostingKey(ctx, repos.Postings(), in.TenantID, in.Voucher.postingKey(in.Line), func() error {
			ref, err := stockdomain.ResolveItemWarehouseBatch(ctx, e.items, e.warehouses, repos.Batches(), in.TenantID, in.Ref.ItemCode, in.Ref.WarehouseCode, in.Ref.BatchNo, in.Ref.Expiry)
			if err != nil {
				return err
			}
			if err := e.lockTuple(ctx, repos, in.TenantID, ref.Warehouse.ID, ref.Item.ID); err != nil {
				return err
			}
			balance, err := repos.Balances().FindByItemWarehouseForUpdate(ctx, in.TenantID, ref.Item.ID, ref.Warehouse.ID)
			if err != nil {
				return err
			}
			if err := balance.Reserve(in.Qty); err != nil {
				return err
			}
			if err := repos.Balances().SaveWithLock(ctx, balance); err != nil {
				return err
			}
			if in.Ref.LocationID != nil {
				bin, err := repos.BinBalances().FindByBinForUpdate(ctx, in.TenantID, ref.Item.ID, ref.Warehouse.ID, *in.Ref.LocationID, nil)
				if err != nil {
					return err
				}
				if err := bin.Reserve(in.Qty); err != nil {
					return err
				}
				if err := repos.BinBalances().Save(ctx, bin); err != nil {
					return err
				}
			}
			published = append(published, stockdomain.NewStockReservedEvent(balance, in.Qty, in.Voucher.Type, in.Voucher.No))
			return nil
		})
	})
	if err != nil {
		return err
	}
	e.publish(ctx, published)
	return nil
}

// UnreserveStock decrements reservedQty at warehouse and (if supplied) bin
// scope, refusing to go below zero.
func (e *Engine) UnreserveStock(ctx context.Context, in ReserveUnreserveInput) error {
	var published []shared.DomainEvent
	err := e.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		return WithPostingKey(ctx, repos.Postings(), in.TenantID, in.Voucher.postingKey(in.Line), func() error {
			ref, err := stockdomain.ResolveItemWarehouseBatch(ctx, e.items, e.warehouses, repos.Batches(), in.TenantID, in.Ref.ItemCode, in.Ref.WarehouseCode, in.Ref.BatchNo, in.Ref.Expiry)
			if err != nil {
				return err
			}
			if err := e.lockTuple(ctx, repos, in.TenantID, ref.Warehouse.ID, ref.Item.ID); err != nil {
				return err
			}
			balance, err := repos.Balances().FindByItemWarehouseForUpdate(ctx, in.TenantID, ref.Item.ID, ref.Warehouse.ID)
			if err != nil {
				return err
			}
			if in.Qty.GreaterThan(balance.ReservedQty) {
				return stockdomain.ErrInsufficientReserved
			}
			balance.Unreserve(in.Qty)
			if err := repos.Balances().SaveWithLock(ctx, balance); err != nil {
				return err
			}
			if in.Ref.LocationID != nil {
				bin, err := repos.BinBalances().FindByBinForUpdate(ctx, in.TenantID, ref.Item.ID, ref.Warehouse.ID, *in.Ref.LocationID, nil)
				if err != nil {
					return err
				}
				bin.Unreserve(in.Qty)
				if err := repos.BinBalances().Save(ctx, bin); err != nil {
					return err
				}
			}
			published = append(published, stockdomain.NewStockUnreservedEvent(balance, in.Qty, in.Voucher.Type, in.Voucher.No))
			return nil
		})
	})
	if err != nil {
		return err
	}
	e.publish(ctx, published)
	return nil
}

// ReconcileStockInput is reconcileStock's input of §4.6.
type ReconcileStockInput struct {
	TenantID     uuid.UUID
	Voucher      VoucherRef
	Line         LineRef
	Ref          ItemWarehouseRef
	TargetQty    decimal.Decimal
	IncreaseRate decimal.Decimal
}

// ReconcileStock computes delta = target - currentBinQty and behaves like a
// receive (positive delta, using IncreaseRate) or an issue (negative delta,
// consuming FIFO layers at the bin) with the reconciliation voucher type.
func (e *Engine) ReconcileStock(ctx context.Context, in ReconcileStockInput, allowNegative bool) error {
	if in.Ref.LocationID == nil {
		return stockdomain.ErrNoPickingLocation
	}

	return e.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		return WithPostingKey(ctx, repos.Postings(), in.TenantID, in.Voucher.postingKey(in.Line), func() error {
			ref, err := stockdomain.ResolveItemWarehouseBatch(ctx, e.items, e.warehouses, repos.Batches(), in.TenantID, in.Ref.ItemCode, in.Ref.WarehouseCode, in.Ref.BatchNo, in.Ref.Expiry)
			if err != nil {
				return err
			}
			if err := e.lockTuple(ctx, repos, in.TenantID, ref.Warehouse.ID, ref.Item.ID); err != nil {
				return err
			}
			var batchID *uuid.UUID
			if ref.Batch != nil {
				batchID = &ref.Batch.ID
			}
			currentBin, err := repos.BinBalances().GetOrCreate(ctx, in.TenantID, ref.Item.ID, ref.Warehouse.ID, *in.Ref.LocationID, batchID)
			if err != nil {
				return err
			}
			delta := in.TargetQty.Sub(currentBin.ActualQty)
			if delta.IsZero() {
				return nil
			}

			balance, err := repos.Balances().FindByItemWarehouseForUpdate(ctx, in.TenantID, ref.Item.ID, ref.Warehouse.ID)
			if err != nil {
				return err
			}

			postingTs := e.postingTs(in.Voucher)
			if delta.GreaterThan(decimal.Zero) {
				if err := balance.Receive(delta, in.IncreaseRate); err != nil {
					return err
				}
				if err := currentBin.UpsertReceive(delta); err != nil {
					return err
				}
				layer, err := stockdomain.NewStockFifoLayer(in.TenantID, ref.Item.ID, ref.Warehouse.ID, in.Ref.LocationID, batchID, delta, in.IncreaseRate, postingTs, in.Voucher.Type, in.Voucher.No, nil)
				if err != nil {
					return err
				}
				if err := repos.FifoLayers().Create(ctx, layer); err != nil {
					return err
				}
				entry := stockdomain.NewStockLedgerEntry(in.TenantID, ref.Item.ID, ref.Warehouse.ID, delta, in.IncreaseRate, nil, in.Ref.LocationID, batchID, &layer.ID, in.Voucher.Type, in.Voucher.No, postingTs, postingTs)
				if err := repos.LedgerEntries().Create(ctx, entry); err != nil {
					return err
				}
			} else {
				demand := delta.Neg()
				if !allowNegative && currentBin.ActualQty.LessThan(demand) {
					return stockdomain.ErrInsufficientBinStock
				}
				layers, err := repos.FifoLayers().FindAvailableForUpdate(ctx, in.TenantID, ref.Item.ID, ref.Warehouse.ID)
				if err != nil {
					return err
				}
				layers = filterLayersByLocation(layers, *in.Ref.LocationID)
				result, err := stockdomain.ConsumeFifo(layers, demand)
				if err != nil {
					return err
				}
				if err := stockdomain.ApplyConsumptions(layers, result); err != nil {
					return err
				}
				for _, l := range layers {
					if err := repos.FifoLayers().UpdateRemaining(ctx, l); err != nil {
						return err
					}
				}
				if err := balance.Issue(demand); err != nil {
					return err
				}
				if err := currentBin.Issue(demand); err != nil {
					return err
				}
				for _, c := range result.Consumptions {
					entry := stockdomain.NewStockLedgerEntry(in.TenantID, ref.Item.ID, ref.Warehouse.ID, c.DeductedQty.Neg(), c.IncomingRate, c.LocationID, nil, c.BatchID, &c.LayerID, in.Voucher.Type, in.Voucher.No, postingTs, postingTs)
					if err := repos.LedgerEntries().Create(ctx, entry); err != nil {
						return err
					}
				}
			}

			if err := repos.Balances().SaveWithLock(ctx, balance); err != nil {
				return err
			}
			return repos.BinBalances().Save(ctx, currentBin)
		})
	})
}

func (e *Engine) lockTuple(ctx context.Context, repos TransactionalRepositories, tenantID, warehouseID, itemID uuid.UUID) error {
	return AcquireSorted(ctx, repos.Locks(), LockKey(tenantID, warehouseID, itemID))
}

func filterLayersByLocation(layers []*stockdomain.StockFifoLayer, locationID uuid.UUID) []*stockdomain.StockFifoLayer {
	out := make([]*stockdomain.StockFifoLayer, 0, len(layers))
	for _, l := range layers {
		if l.LocationID == nil || *l.LocationID == locationID {
			out = append(out, l)
		}
	}
	return out
}

func loadBatchExpiry(ctx context.Context, batches stockdomain.BatchRepository, tenantID uuid.UUID, layers []*stockdomain.StockFifoLayer) (map[uuid.UUID]*time.Time, error) {
	expiry := make(map[uuid.UUID]*time.Time)
	for _, l := range layers {
		if l.BatchID == nil {
			continue
		}
		if _, ok := expiry[*l.BatchID]; ok {
			continue
		}
		batch, err := batches.FindByID(ctx, tenantID, *l.BatchID)
		if err != nil {
			return nil, err
		}
		expiry[*l.BatchID] = batch.ExpiryDate
	}
	return expiry, nil
}

func validateSerialInput(serialNos []string, qty decimal.Decimal) error {
	if !qty.Equal(qty.Truncate(0)) {
		return stockdomain.ErrSerialCountMismatch
	}
	if int64(len(serialNos)) != qty.IntPart() {
		return stockdomain.ErrSerialCountMismatch
	}
	seen := make(map[string]struct{}, len(serialNos))
	for _, s := range serialNos {
		if _, ok := seen[s]; ok {
			return stockdomain.ErrDuplicateSerial
		}
		seen[s] = struct{}{}
	}
	return nil
}

func assertSerialsUnused(ctx context.Context, serials stockdomain.SerialRepository, tenantID, itemID uuid.UUID, serialNos []string) error {
	for _, s := range serialNos {
		exists, err := serials.ExistsBySerialNo(ctx, tenantID, itemID, s)
		if err != nil {
			return err
		}
		if exists {
			return stockdomain.ErrSerialAlreadyExists
		}
	}
	return nil
}

func createAvailableSerials(ctx context.Context, serials stockdomain.SerialRepository, links stockdomain.LedgerEntrySerialRepository, tenantID, itemID, warehouseID, locationID uuid.UUID, batchID *uuid.UUID, ledgerEntryID uuid.UUID, serialNos []string) error {
	rows := make([]stockdomain.Serial, 0, len(serialNos))
	for _, s := range serialNos {
		serial, err := stockdomain.NewSerial(tenantID, itemID, s, warehouseID, locationID, batchID)
		if err != nil {
			return err
		}
		rows = append(rows, *serial)
	}
	if err := serials.SaveBatch(ctx, rows); err != nil {
		return err
	}
	for i := range rows {
		link := stockdomain.NewStockLedgerEntrySerial(tenantID, ledgerEntryID, rows[i].ID)
		if err := links.Create(ctx, link); err != nil {
			return err
		}
	}
	return nil
}
