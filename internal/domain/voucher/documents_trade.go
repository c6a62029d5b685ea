package voucher

import (
	"time"

	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SalesOrderLine is one ordered item, tracking delivered and billed
// progress for §4.10's derived fulfillment status.
type SalesOrderLine struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemCode      string          `gorm:"type:varchar(50);not null"`
	WarehouseCode string          `gorm:"type:varchar(50)"`
	Qty           decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	DeliveredQty  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	BilledQty     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Rate          decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Amount        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	IncomeAccount string          `gorm:"type:varchar(50)"`
}

func (l *SalesOrderLine) recalc() { l.Amount = l.Qty.Mul(l.Rate) }

func (l *SalesOrderLine) isFullyDelivered() bool { return l.DeliveredQty.GreaterThanOrEqual(l.Qty) }
func (l *SalesOrderLine) isFullyBilled() bool     { return l.BilledQty.GreaterThanOrEqual(l.Qty) }

// SalesOrder is a customer order that may optionally reserve stock and
// drives Delivery Note / Invoice progress, per §4.8/§4.10.
type SalesOrder struct {
	shared.TenantAggregateRoot
	Name              string            `gorm:"type:varchar(30);not null;uniqueIndex:idx_sales_order_tenant_name,priority:2"`
	Status            Status            `gorm:"type:varchar(20);not null;default:'DRAFT'"`
	FulfillmentStatus FulfillmentStatus `gorm:"type:varchar(20);not null;default:'TO_DELIVER'"`
	CustomerCode      string            `gorm:"type:varchar(50);not null"`
	ReserveOnSubmit   bool              `gorm:"not null;default:false"`
	TransactionDate   time.Time         `gorm:"not null"`
	Lines             []SalesOrderLine  `gorm:"foreignKey:OrderID;references:ID"`
	Taxes             []TaxRow          `gorm:"-"`
	NetTotal          decimal.Decimal   `gorm:"type:decimal(18,4);not null;default:0"`
	TotalTaxes        decimal.Decimal   `gorm:"type:decimal(18,4);not null;default:0"`
	GrandTotal        decimal.Decimal   `gorm:"type:decimal(18,4);not null;default:0"`
}

func (SalesOrder) TableName() string { return "sales_orders" }

// Recalculate recomputes line amounts, net_total, taxes and grand_total,
// per §4.8's beforeSave.
func (o *SalesOrder) Recalculate() {
	net := decimal.Zero
	for i := range o.Lines {
		o.Lines[i].recalc()
		net = net.Add(o.Lines[i].Amount)
	}
	o.NetTotal = net
	o.TotalTaxes, o.GrandTotal = ApplyTaxes(net, o.Taxes)
}

// RefreshFulfillmentStatus recomputes FulfillmentStatus from the current
// per-line delivered/billed quantities, per §4.10.
func (o *SalesOrder) RefreshFulfillmentStatus() {
	allDelivered, allBilled := true, true
	for i := range o.Lines {
		if !o.Lines[i].isFullyDelivered() {
			allDelivered = false
		}
		if !o.Lines[i].isFullyBilled() {
			allBilled = false
		}
	}
	o.FulfillmentStatus = ResolveSalesOrderStatus(allDelivered, allBilled)
}

// PurchaseOrderLine is one ordered item, tracking received and billed
// progress. This is the voucher orchestration's own Purchase Order line
// shape.
type PurchaseOrderLine struct {
	ID         uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemCode   string          `gorm:"type:varchar(50);not null"`
	Qty        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ReceivedQty decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	BilledQty  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Rate       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Amount     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

func (l *PurchaseOrderLine) recalc()           { l.Amount = l.Qty.Mul(l.Rate) }
func (l *PurchaseOrderLine) isFullyReceived() bool { return l.ReceivedQty.GreaterThanOrEqual(l.Qty) }
func (l *PurchaseOrderLine) isFullyBilled() bool   { return l.BilledQty.GreaterThanOrEqual(l.Qty) }

// PurchaseOrder is a supplier order with no direct stock movement of its
// own; Purchase Receipt and Purchase Invoice reference it, per §4.8.
type PurchaseOrder struct {
	shared.TenantAggregateRoot
	Name              string              `gorm:"type:varchar(30);not null;uniqueIndex:idx_voucher_purchase_order_tenant_name,priority:2"`
	Status            Status              `gorm:"type:varchar(20);not null;default:'DRAFT'"`
	FulfillmentStatus FulfillmentStatus   `gorm:"type:varchar(20);not null;default:'TO_RECEIVE'"`
	SupplierCode      string              `gorm:"type:varchar(50);not null"`
	TransactionDate   time.Time           `gorm:"not null"`
	Lines             []PurchaseOrderLine `gorm:"foreignKey:OrderID;references:ID"`
	Taxes             []TaxRow            `gorm:"-"`
	NetTotal          decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	TotalTaxes        decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	GrandTotal        decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
}

func (PurchaseOrder) TableName() string { return "voucher_purchase_orders" }

// Recalculate recomputes line amounts, net_total, taxes and grand_total.
func (o *PurchaseOrder) Recalculate() {
	net := decimal.Zero
	for i := range o.Lines {
		o.Lines[i].recalc()
		net = net.Add(o.Lines[i].Amount)
	}
	o.NetTotal = net
	o.TotalTaxes, o.GrandTotal = ApplyTaxes(net, o.Taxes)
}

// RefreshFulfillmentStatus recomputes FulfillmentStatus from the current
// per-line received/billed quantities, per §4.10.
func (o *PurchaseOrder) RefreshFulfillmentStatus() {
	allReceived, allBilled := true, true
	for i := range o.Lines {
		if !o.Lines[i].isFullyReceived() {
			allReceived = false
		}
		if !o.Lines[i].isFullyBilled() {
			allBilled = false
		}
	}
	o.FulfillmentStatus = ResolvePurchaseOrderStatus(allReceived, allBilled)
}

// InvoiceLine is one billed item on a sales Invoice.
type InvoiceLine struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key"`
	InvoiceID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemCode      string          `gorm:"type:varchar(50);not null"`
	Qty           decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Rate          decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Amount        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	IncomeAccount string          `gorm:"type:varchar(50)"`
}

func (l *InvoiceLine) recalc() { l.Amount = l.Qty.Mul(l.Rate) }

// Invoice is a Sales Invoice billing a customer, driving the
// Accounts-Receivable posting of §4.9 and the payment-status derivation
// of §4.10.
type Invoice struct {
	shared.TenantAggregateRoot
	Name              string            `gorm:"type:varchar(30);not null;uniqueIndex:idx_invoice_tenant_name,priority:2"`
	Status            Status            `gorm:"type:varchar(20);not null;default:'DRAFT'"`
	PaymentStatus     FulfillmentStatus `gorm:"type:varchar(20);not null;default:'UNPAID'"`
	CustomerCode      string            `gorm:"type:varchar(50);not null"`
	DebitTo           string            `gorm:"type:varchar(50)"`
	PostingDate       time.Time         `gorm:"not null"`
	PostingTs         time.Time         `gorm:"not null"`
	DueDate           time.Time         `gorm:"not null"`
	Lines             []InvoiceLine     `gorm:"foreignKey:InvoiceID;references:ID"`
	Taxes             []TaxRow          `gorm:"-"`
	NetTotal          decimal.Decimal   `gorm:"type:decimal(18,4);not null;default:0"`
	TotalTaxes        decimal.Decimal   `gorm:"type:decimal(18,4);not null;default:0"`
	GrandTotal        decimal.Decimal   `gorm:"type:decimal(18,4);not null;default:0"`
	OutstandingAmount decimal.Decimal   `gorm:"type:decimal(18,4);not null;default:0"`
}

func (Invoice) TableName() string { return "invoices" }

// Recalculate recomputes line amounts, net_total, taxes, grand_total, and
// (only while still in draft) resets outstanding_amount to grand_total,
// per §4.8: "sets initial outstanding_amount = grand_total for invoices".
func (inv *Invoice) Recalculate() {
	net := decimal.Zero
	for i := range inv.Lines {
		inv.Lines[i].recalc()
		net = net.Add(inv.Lines[i].Amount)
	}
	inv.NetTotal = net
	inv.TotalTaxes, inv.GrandTotal = ApplyTaxes(net, inv.Taxes)
	if inv.Status == StatusDraft {
		inv.OutstandingAmount = inv.GrandTotal
	}
}

// ApplyPayment reduces OutstandingAmount by an allocated payment amount
// and refreshes PaymentStatus, per §4.10.
func (inv *Invoice) ApplyPayment(amount decimal.Decimal, today time.Time) {
	inv.OutstandingAmount = inv.OutstandingAmount.Sub(amount)
	inv.PaymentStatus = ResolvePaymentStatus(inv.OutstandingAmount, inv.GrandTotal, inv.DueDate, today)
}

// ReversePayment restores OutstandingAmount after a Payment Entry
// referencing this invoice is cancelled, and refreshes PaymentStatus.
func (inv *Invoice) ReversePayment(amount decimal.Decimal, today time.Time) {
	inv.OutstandingAmount = inv.OutstandingAmount.Add(amount)
	inv.PaymentStatus = ResolvePaymentStatus(inv.OutstandingAmount, inv.GrandTotal, inv.DueDate, today)
}

// PurchaseInvoiceLine is one billed item on a Purchase Invoice, routed
// either to the stock account (stock items) or an expense account.
type PurchaseInvoiceLine struct {
	ID             uuid.UUID       `gorm:"type:uuid;primary_key"`
	InvoiceID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemCode       string          `gorm:"type:varchar(50);not null"`
	IsStockItem    bool            `gorm:"not null;default:false"`
	StockAccount   string          `gorm:"type:varchar(50)"`
	ExpenseAccount string          `gorm:"type:varchar(50)"`
	Qty            decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Rate           decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Amount         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

func (l *PurchaseInvoiceLine) recalc() { l.Amount = l.Qty.Mul(l.Rate) }

// PurchaseInvoice is a supplier bill driving the Accounts-Payable
// posting of §4.9 and the payment-status derivation of §4.10.
type PurchaseInvoice struct {
	shared.TenantAggregateRoot
	Name              string                `gorm:"type:varchar(30);not null;uniqueIndex:idx_purchase_invoice_tenant_name,priority:2"`
	Status            Status                `gorm:"type:varchar(20);not null;default:'DRAFT'"`
	PaymentStatus     FulfillmentStatus     `gorm:"type:varchar(20);not null;default:'UNPAID'"`
	SupplierCode      string                `gorm:"type:varchar(50);not null"`
	CreditTo          string                `gorm:"type:varchar(50)"`
	PostingDate       time.Time             `gorm:"not null"`
	PostingTs         time.Time             `gorm:"not null"`
	DueDate           time.Time             `gorm:"not null"`
	Lines             []PurchaseInvoiceLine `gorm:"foreignKey:InvoiceID;references:ID"`
	Taxes             []TaxRow              `gorm:"-"`
	NetTotal          decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	TotalTaxes        decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	GrandTotal        decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	OutstandingAmount decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
}

func (PurchaseInvoice) TableName() string { return "purchase_invoices" }

// Recalculate recomputes line amounts, net_total, taxes, grand_total and
// (only while still in draft) resets outstanding_amount to grand_total.
func (inv *PurchaseInvoice) Recalculate() {
	net := decimal.Zero
	for i := range inv.Lines {
		inv.Lines[i].recalc()
		net = net.Add(inv.Lines[i].Amount)
	}
	inv.NetTotal = net
	inv.TotalTaxes, inv.GrandTotal = ApplyTaxes(net, inv.Taxes)
	if inv.Status == StatusDraft {
		inv.OutstandingAmount = inv.GrandTotal
	}
}

// ApplyPayment reduces OutstandingAmount by an allocated payment amount
// and refreshes PaymentStatus.
func (inv *PurchaseInvoice) ApplyPayment(amount decimal.Decimal, today time.Time) {
	inv.OutstandingAmount = inv.OutstandingAmount.Sub(amount)
	inv.PaymentStatus = ResolvePaymentStatus(inv.OutstandingAmount, inv.GrandTotal, inv.DueDate, today)
}

// ReversePayment restores OutstandingAmount after a Payment Entry
// referencing this invoice is cancelled.
func (inv *PurchaseInvoice) ReversePayment(amount decimal.Decimal, today time.Time) {
	inv.OutstandingAmount = inv.OutstandingAmount.Add(amount)
	inv.PaymentStatus = ResolvePaymentStatus(inv.OutstandingAmount, inv.GrandTotal, inv.DueDate, today)
}

// PaymentDirection selects which side of a Payment Entry is posted:
// money received from a customer, or paid out to a supplier.
type PaymentDirection string

const (
	PaymentDirectionReceive PaymentDirection = "Receive"
	PaymentDirectionPay     PaymentDirection = "Pay"
)

// PaymentReference allocates part or all of a Payment Entry's amount
// against one outstanding Invoice or Purchase Invoice.
type PaymentReference struct {
	ID               uuid.UUID       `gorm:"type:uuid;primary_key"`
	PaymentID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	ReferenceType    string          `gorm:"type:varchar(30);not null"` // "Invoice" or "Purchase Invoice"
	ReferenceName    string          `gorm:"type:varchar(30);not null"`
	AllocatedAmount  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// PaymentEntry records money received from or paid to a party, allocated
// across one or more outstanding invoices, per §4.8/§4.9.
type PaymentEntry struct {
	shared.TenantAggregateRoot
	Name        string             `gorm:"type:varchar(30);not null;uniqueIndex:idx_payment_entry_tenant_name,priority:2"`
	Status      Status             `gorm:"type:varchar(20);not null;default:'DRAFT'"`
	Direction   PaymentDirection   `gorm:"type:varchar(10);not null"`
	PaidTo      string             `gorm:"type:varchar(50)"`
	PaidFrom    string             `gorm:"type:varchar(50)"`
	PaidAmount  decimal.Decimal    `gorm:"type:decimal(18,4);not null"`
	PostingDate time.Time          `gorm:"not null"`
	PostingTs   time.Time          `gorm:"not null"`
	References  []PaymentReference `gorm:"foreignKey:PaymentID;references:ID"`
}

func (PaymentEntry) TableName() string { return "payment_entries" }

// AllocatedTotal sums the References' AllocatedAmount.
func (p *PaymentEntry) AllocatedTotal() decimal.Decimal {
	total := decimal.Zero
	for _, ref := range p.References {
		total = total.Add(ref.AllocatedAmount)
	}
	return total
}

// JournalEntryLine is one debit or credit leg of a manual Journal Entry.
type JournalEntryLine struct {
	ID      uuid.UUID       `gorm:"type:uuid;primary_key"`
	EntryID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Account string          `gorm:"type:varchar(50);not null"`
	Debit   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Credit  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// JournalEntry is a manual, direct-to-ledger double-entry posting, per
// §4.8/§4.9: its lines pass through to the GL writer unchanged.
type JournalEntry struct {
	shared.TenantAggregateRoot
	Name        string             `gorm:"type:varchar(30);not null;uniqueIndex:idx_journal_entry_tenant_name,priority:2"`
	Status      Status             `gorm:"type:varchar(20);not null;default:'DRAFT'"`
	PostingDate time.Time          `gorm:"not null"`
	PostingTs   time.Time          `gorm:"not null"`
	Lines       []JournalEntryLine `gorm:"foreignKey:EntryID;references:ID"`
}

func (JournalEntry) TableName() string { return "journal_entries" }

// IsBalanced reports whether the sum of debits equals the sum of credits
// within the 0.01 tolerance required by §4.8's beforeSave validation.
func (j *JournalEntry) IsBalanced() bool {
	debit, credit := decimal.Zero, decimal.Zero
	for _, l := range j.Lines {
		debit = debit.Add(l.Debit)
		credit = credit.Add(l.Credit)
	}
	return debit.Sub(credit).Abs().LessThan(decimal.NewFromFloat(0.01))
}

// QuotationLine is one priced item on a non-binding Quotation.
type QuotationLine struct {
	ID           uuid.UUID       `gorm:"type:uuid;primary_key"`
	QuotationID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemCode     string          `gorm:"type:varchar(50);not null"`
	Qty          decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Rate         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Amount       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

func (l *QuotationLine) recalc() { l.Amount = l.Qty.Mul(l.Rate) }

// Quotation is a non-binding price quote with no stock or GL side effect
// on submit; it is later converted into a Sales Order by copying its
// lines (conversion itself is outside the ledger core's scope).
type Quotation struct {
	shared.TenantAggregateRoot
	Name            string          `gorm:"type:varchar(30);not null;uniqueIndex:idx_quotation_tenant_name,priority:2"`
	Status          Status          `gorm:"type:varchar(20);not null;default:'DRAFT'"`
	PartyCode       string          `gorm:"type:varchar(50);not null"`
	TransactionDate time.Time       `gorm:"not null"`
	Lines           []QuotationLine `gorm:"foreignKey:QuotationID;references:ID"`
	Taxes           []TaxRow        `gorm:"-"`
	NetTotal        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TotalTaxes      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	GrandTotal      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

func (Quotation) TableName() string { return "quotations" }

// Recalculate recomputes line amounts, net_total, taxes and grand_total.
func (q *Quotation) Recalculate() {
	net := decimal.Zero
	for i := range q.Lines {
		q.Lines[i].recalc()
		net = net.Add(q.Lines[i].Amount)
	}
	q.NetTotal = net
	q.TotalTaxes, q.GrandTotal = ApplyTaxes(net, q.Taxes)
}
