package voucher

import (
	"time"

	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseReceiptLine is one line of goods received against a Purchase
// Receipt.
type PurchaseReceiptLine struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key"`
	ReceiptID     uuid.UUID `gorm:"type:uuid;not null;index"`
	ItemCode      string    `gorm:"type:varchar(50);not null"`
	WarehouseCode string    `gorm:"type:varchar(50);not null"`
	BatchNo       string    `gorm:"type:varchar(50)"`
	UomCode       string    `gorm:"type:varchar(20);not null"`
	Qty           decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Rate          decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Amount        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

func (l *PurchaseReceiptLine) recalc() {
	l.Amount = l.Qty.Mul(l.Rate)
}

// PurchaseReceipt records goods physically received into a warehouse
// against a Purchase Order, per §4.8.
type PurchaseReceipt struct {
	shared.TenantAggregateRoot
	Name         string    `gorm:"type:varchar(30);not null;uniqueIndex:idx_purchase_receipt_tenant_name,priority:2"`
	Status       Status    `gorm:"type:varchar(20);not null;default:'DRAFT'"`
	SupplierCode string    `gorm:"type:varchar(50);not null"`
	PostingDate  time.Time `gorm:"not null"`
	PostingTs    time.Time `gorm:"not null"`
	Lines        []PurchaseReceiptLine `gorm:"foreignKey:ReceiptID;references:ID"`
	GrandTotal   decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
}

func (PurchaseReceipt) TableName() string { return "purchase_receipts" }

// Recalculate recomputes each line's amount and the document total. Part
// of beforeSave per §4.8.
func (r *PurchaseReceipt) Recalculate() {
	total := decimal.Zero
	for i := range r.Lines {
		r.Lines[i].recalc()
		total = total.Add(r.Lines[i].Amount)
	}
	r.GrandTotal = total
}

// DeliveryNoteLine is one line of goods shipped out against a Delivery
// Note.
type DeliveryNoteLine struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key"`
	NoteID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemCode      string          `gorm:"type:varchar(50);not null"`
	WarehouseCode string          `gorm:"type:varchar(50);not null"`
	BatchNo       string          `gorm:"type:varchar(50)"`
	UomCode       string          `gorm:"type:varchar(20);not null"`
	Qty           decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Rate          decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Amount        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

func (l *DeliveryNoteLine) recalc() {
	l.Amount = l.Qty.Mul(l.Rate)
}

// DeliveryNote records goods shipped out of a warehouse against a Sales
// Order, per §4.8.
type DeliveryNote struct {
	shared.TenantAggregateRoot
	Name         string    `gorm:"type:varchar(30);not null;uniqueIndex:idx_delivery_note_tenant_name,priority:2"`
	Status       Status    `gorm:"type:varchar(20);not null;default:'DRAFT'"`
	CustomerCode string    `gorm:"type:varchar(50);not null"`
	PostingDate  time.Time `gorm:"not null"`
	PostingTs    time.Time `gorm:"not null"`
	Lines        []DeliveryNoteLine `gorm:"foreignKey:NoteID;references:ID"`
	GrandTotal   decimal.Decimal    `gorm:"type:decimal(18,4);not null;default:0"`
}

func (DeliveryNote) TableName() string { return "delivery_notes" }

// Recalculate recomputes each line's amount and the document total.
func (n *DeliveryNote) Recalculate() {
	total := decimal.Zero
	for i := range n.Lines {
		n.Lines[i].recalc()
		total = total.Add(n.Lines[i].Amount)
	}
	n.GrandTotal = total
}

// StockTransferLine moves one item/batch from a source warehouse/location
// to a destination warehouse/location.
type StockTransferLine struct {
	ID                uuid.UUID       `gorm:"type:uuid;primary_key"`
	TransferID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemCode          string          `gorm:"type:varchar(50);not null"`
	SourceWarehouse   string          `gorm:"type:varchar(50);not null"`
	DestWarehouse     string          `gorm:"type:varchar(50);not null"`
	BatchNo           string          `gorm:"type:varchar(50)"`
	UomCode           string          `gorm:"type:varchar(20);not null"`
	Qty               decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// StockTransfer moves stock between warehouses without touching the GL,
// per §4.6/§4.8.
type StockTransfer struct {
	shared.TenantAggregateRoot
	Name        string    `gorm:"type:varchar(30);not null;uniqueIndex:idx_stock_transfer_tenant_name,priority:2"`
	Status      Status    `gorm:"type:varchar(20);not null;default:'DRAFT'"`
	PostingDate time.Time `gorm:"not null"`
	PostingTs   time.Time `gorm:"not null"`
	Lines       []StockTransferLine `gorm:"foreignKey:TransferID;references:ID"`
}

func (StockTransfer) TableName() string { return "stock_transfers" }

// StockReconciliationLine sets the actual on-hand quantity for an
// item/warehouse/location/batch combination, overriding whatever the
// ledger currently computes.
type StockReconciliationLine struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key"`
	ReconID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemCode      string          `gorm:"type:varchar(50);not null"`
	WarehouseCode string          `gorm:"type:varchar(50);not null"`
	BatchNo       string          `gorm:"type:varchar(50)"`
	TargetQty     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	IncreaseRate  decimal.Decimal `gorm:"type:decimal(18,4)"`
}

// StockReconciliation adjusts actual stock levels to a counted quantity,
// per §4.6/§4.8.
type StockReconciliation struct {
	shared.TenantAggregateRoot
	Name        string    `gorm:"type:varchar(30);not null;uniqueIndex:idx_stock_recon_tenant_name,priority:2"`
	Status      Status    `gorm:"type:varchar(20);not null;default:'DRAFT'"`
	PostingDate time.Time `gorm:"not null"`
	PostingTs   time.Time `gorm:"not null"`
	Lines       []StockReconciliationLine `gorm:"foreignKey:ReconID;references:ID"`
}

func (StockReconciliation) TableName() string { return "stock_reconciliations" }

// StockReservationLine earmarks a quantity of an item/warehouse for a
// pending Sales Order line without moving it.
type StockReservationLine struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key"`
	ReservationID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemCode      string          `gorm:"type:varchar(50);not null"`
	WarehouseCode string          `gorm:"type:varchar(50);not null"`
	Qty           decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// StockReservation reserves stock against a Sales Order, per §4.8's
// "Sales Order (optional stock reservation)".
type StockReservation struct {
	shared.TenantAggregateRoot
	Name                string    `gorm:"type:varchar(30);not null;uniqueIndex:idx_stock_reservation_tenant_name,priority:2"`
	Status              Status    `gorm:"type:varchar(20);not null;default:'DRAFT'"`
	AgainstVoucherType  string    `gorm:"type:varchar(30);not null"`
	AgainstVoucherNo    string    `gorm:"type:varchar(30);not null"`
	PostingTs           time.Time `gorm:"not null"`
	Lines               []StockReservationLine `gorm:"foreignKey:ReservationID;references:ID"`
}

func (StockReservation) TableName() string { return "stock_reservations" }

// PickListLine is one line picked from a bin toward a staging location,
// ahead of a Delivery Note.
type PickListLine struct {
	ID                uuid.UUID       `gorm:"type:uuid;primary_key"`
	PickListID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemCode          string          `gorm:"type:varchar(50);not null"`
	WarehouseCode     string          `gorm:"type:varchar(50);not null"`
	BatchNo           string          `gorm:"type:varchar(50)"`
	StagingLocationID uuid.UUID       `gorm:"type:uuid;not null"`
	Qty               decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// PickList moves picked stock into a STAGING location ahead of shipment;
// onSubmit drives a StockTransfer internally (§4.8's "transfer into
// STAGING").
type PickList struct {
	shared.TenantAggregateRoot
	Name               string    `gorm:"type:varchar(30);not null;uniqueIndex:idx_pick_list_tenant_name,priority:2"`
	Status             Status    `gorm:"type:varchar(20);not null;default:'DRAFT'"`
	AgainstVoucherType string    `gorm:"type:varchar(30);not null"`
	AgainstVoucherNo   string    `gorm:"type:varchar(30);not null"`
	PostingTs          time.Time `gorm:"not null"`
	Lines              []PickListLine `gorm:"foreignKey:PickListID;references:ID"`
}

func (PickList) TableName() string { return "pick_lists" }

// PackListLine records how a picked quantity was packed into a container,
// metadata only — it does not move stock itself (§4.8's "Pack List
// (metadata only)").
type PackListLine struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key"`
	PackListID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemCode      string          `gorm:"type:varchar(50);not null"`
	ContainerNo   string          `gorm:"type:varchar(50);not null"`
	Qty           decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// PackList is a metadata-only record of how pick-listed stock was boxed;
// it has no onSubmit stock or GL side effect.
type PackList struct {
	shared.TenantAggregateRoot
	Name             string    `gorm:"type:varchar(30);not null;uniqueIndex:idx_pack_list_tenant_name,priority:2"`
	Status           Status    `gorm:"type:varchar(20);not null;default:'DRAFT'"`
	AgainstPickList  string    `gorm:"type:varchar(30);not null"`
	PostingTs        time.Time `gorm:"not null"`
	Lines            []PackListLine `gorm:"foreignKey:PackListID;references:ID"`
}

func (PackList) TableName() string { return "pack_lists" }
