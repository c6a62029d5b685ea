package stock

import (
	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AggregateTypeWarehouseItemBalance is the aggregate type for balance events.
const AggregateTypeWarehouseItemBalance = "WarehouseItemBalance"

// Event type constants for stock movements.
const (
	EventTypeStockReceived       = "StockReceived"
	EventTypeStockIssued         = "StockIssued"
	EventTypeStockTransferred    = "StockTransferred"
	EventTypeStockReserved       = "StockReserved"
	EventTypeStockUnreserved     = "StockUnreserved"
	EventTypeStockBelowThreshold = "StockBelowThreshold"
)

// StockReceivedEvent is published when receiveStock posts a positive
// ledger leg and creates a FIFO layer.
type StockReceivedEvent struct {
	shared.BaseDomainEvent
	ItemID       uuid.UUID       `json:"item_id"`
	WarehouseID  uuid.UUID       `json:"warehouse_id"`
	Qty          decimal.Decimal `json:"qty"`
	IncomingRate decimal.Decimal `json:"incoming_rate"`
	VoucherType  string          `json:"voucher_type"`
	VoucherNo    string          `json:"voucher_no"`
}

// NewStockReceivedEvent creates a new StockReceivedEvent
func NewStockReceivedEvent(balance *WarehouseItemBalance, qty, incomingRate decimal.Decimal, voucherType, voucherNo string) *StockReceivedEvent {
	return &StockReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockReceived, AggregateTypeWarehouseItemBalance, balance.ID, balance.TenantID),
		ItemID:          balance.ItemID,
		WarehouseID:     balance.WarehouseID,
		Qty:             qty,
		IncomingRate:    incomingRate,
		VoucherType:     voucherType,
		VoucherNo:       voucherNo,
	}
}

// StockIssuedEvent is published when issueStock consumes FIFO layers and
// posts negative ledger legs.
type StockIssuedEvent struct {
	shared.BaseDomainEvent
	ItemID              uuid.UUID       `json:"item_id"`
	WarehouseID         uuid.UUID       `json:"warehouse_id"`
	Qty                 decimal.Decimal `json:"qty"`
	WeightedAverageCost decimal.Decimal `json:"weighted_average_cost"`
	VoucherType         string          `json:"voucher_type"`
	VoucherNo           string          `json:"voucher_no"`
}

// NewStockIssuedEvent creates a new StockIssuedEvent
func NewStockIssuedEvent(balance *WarehouseItemBalance, qty, weightedAverageCost decimal.Decimal, voucherType, voucherNo string) *StockIssuedEvent {
	return &StockIssuedEvent{
		BaseDomainEvent:     shared.NewBaseDomainEvent(EventTypeStockIssued, AggregateTypeWarehouseItemBalance, balance.ID, balance.TenantID),
		ItemID:              balance.ItemID,
		WarehouseID:         balance.WarehouseID,
		Qty:                 qty,
		WeightedAverageCost: weightedAverageCost,
		VoucherType:         voucherType,
		VoucherNo:           voucherNo,
	}
}

// StockTransferredEvent is published when transferStock moves layers from
// a source warehouse to a destination warehouse.
type StockTransferredEvent struct {
	shared.BaseDomainEvent
	ItemID            uuid.UUID       `json:"item_id"`
	SourceWarehouseID uuid.UUID       `json:"source_warehouse_id"`
	DestWarehouseID   uuid.UUID       `json:"dest_warehouse_id"`
	Qty               decimal.Decimal `json:"qty"`
	VoucherType       string          `json:"voucher_type"`
	VoucherNo         string          `json:"voucher_no"`
}

// NewStockTransferredEvent creates a new StockTransferredEvent
func NewStockTransferredEvent(tenantID, itemID, sourceWarehouseID, destWarehouseID uuid.UUID, qty decimal.Decimal, voucherType, voucherNo string) *StockTransferredEvent {
	return &StockTransferredEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypeStockTransferred, AggregateTypeWarehouseItemBalance, itemID, tenantID),
		ItemID:            itemID,
		SourceWarehouseID: sourceWarehouseID,
		DestWarehouseID:   destWarehouseID,
		Qty:               qty,
		VoucherType:       voucherType,
		VoucherNo:         voucherNo,
	}
}

// StockReservedEvent is published by reserveStock.
type StockReservedEvent struct {
	shared.BaseDomainEvent
	ItemID      uuid.UUID       `json:"item_id"`
	WarehouseID uuid.UUID       `json:"warehouse_id"`
	Qty         decimal.Decimal `json:"qty"`
	VoucherType string          `json:"voucher_type"`
	VoucherNo   string          `json:"voucher_no"`
}

// NewStockReservedEvent creates a new StockReservedEvent
func NewStockReservedEvent(balance *WarehouseItemBalance, qty decimal.Decimal, voucherType, voucherNo string) *StockReservedEvent {
	return &StockReservedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockReserved, AggregateTypeWarehouseItemBalance, balance.ID, balance.TenantID),
		ItemID:          balance.ItemID,
		WarehouseID:     balance.WarehouseID,
		Qty:             qty,
		VoucherType:     voucherType,
		VoucherNo:       voucherNo,
	}
}

// StockUnreservedEvent is published by unreserveStock.
type StockUnreservedEvent struct {
	shared.BaseDomainEvent
	ItemID      uuid.UUID       `json:"item_id"`
	WarehouseID uuid.UUID       `json:"warehouse_id"`
	Qty         decimal.Decimal `json:"qty"`
	VoucherType string          `json:"voucher_type"`
	VoucherNo   string          `json:"voucher_no"`
}

// NewStockUnreservedEvent creates a new StockUnreservedEvent
func NewStockUnreservedEvent(balance *WarehouseItemBalance, qty decimal.Decimal, voucherType, voucherNo string) *StockUnreservedEvent {
	return &StockUnreservedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockUnreserved, AggregateTypeWarehouseItemBalance, balance.ID, balance.TenantID),
		ItemID:          balance.ItemID,
		WarehouseID:     balance.WarehouseID,
		Qty:             qty,
		VoucherType:     voucherType,
		VoucherNo:       voucherNo,
	}
}

// StockBelowThresholdEvent is published when a balance mutation leaves
// ActualQty below the resolved reorder threshold.
type StockBelowThresholdEvent struct {
	shared.BaseDomainEvent
	ItemID      uuid.UUID       `json:"item_id"`
	WarehouseID uuid.UUID       `json:"warehouse_id"`
	ActualQty   decimal.Decimal `json:"actual_qty"`
	Threshold   decimal.Decimal `json:"threshold"`
}

// NewStockBelowThresholdEvent creates a new StockBelowThresholdEvent
func NewStockBelowThresholdEvent(balance *WarehouseItemBalance, threshold decimal.Decimal) *StockBelowThresholdEvent {
	return &StockBelowThresholdEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockBelowThreshold, AggregateTypeWarehouseItemBalance, balance.ID, balance.TenantID),
		ItemID:          balance.ItemID,
		WarehouseID:     balance.WarehouseID,
		ActualQty:       balance.ActualQty,
		Threshold:       threshold,
	}
}
