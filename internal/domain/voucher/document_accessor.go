package voucher

import "github.com/google/uuid"

// Document is the minimal shape every voucher document exposes to the HTTP
// dispatch layer, which handles all fourteen kinds through one generic
// handler rather than fourteen near-identical ones (the same economy
// GormVoucherDocumentRepository[T] applies at the persistence layer).
type Document interface {
	GetID() uuid.UUID
	GetTenantID() uuid.UUID
	SetTenantID(uuid.UUID)
	DocName() string
	SetDocName(string)
	DocStatus() Status
}

func (r *PurchaseReceipt) DocName() string        { return r.Name }
func (r *PurchaseReceipt) SetDocName(name string) { r.Name = name }
func (r *PurchaseReceipt) DocStatus() Status      { return r.Status }

func (d *DeliveryNote) DocName() string        { return d.Name }
func (d *DeliveryNote) SetDocName(name string) { d.Name = name }
func (d *DeliveryNote) DocStatus() Status      { return d.Status }

func (s *StockTransfer) DocName() string        { return s.Name }
func (s *StockTransfer) SetDocName(name string) { s.Name = name }
func (s *StockTransfer) DocStatus() Status      { return s.Status }

func (s *StockReconciliation) DocName() string        { return s.Name }
func (s *StockReconciliation) SetDocName(name string) { s.Name = name }
func (s *StockReconciliation) DocStatus() Status      { return s.Status }

func (s *StockReservation) DocName() string        { return s.Name }
func (s *StockReservation) SetDocName(name string) { s.Name = name }
func (s *StockReservation) DocStatus() Status      { return s.Status }

func (p *PickList) DocName() string        { return p.Name }
func (p *PickList) SetDocName(name string) { p.Name = name }
func (p *PickList) DocStatus() Status      { return p.Status }

func (p *PackList) DocName() string        { return p.Name }
func (p *PackList) SetDocName(name string) { p.Name = name }
func (p *PackList) DocStatus() Status      { return p.Status }

func (s *SalesOrder) DocName() string        { return s.Name }
func (s *SalesOrder) SetDocName(name string) { s.Name = name }
func (s *SalesOrder) DocStatus() Status      { return s.Status }

func (p *PurchaseOrder) DocName() string        { return p.Name }
func (p *PurchaseOrder) SetDocName(name string) { p.Name = name }
func (p *PurchaseOrder) DocStatus() Status      { return p.Status }

func (i *Invoice) DocName() string        { return i.Name }
func (i *Invoice) SetDocName(name string) { i.Name = name }
func (i *Invoice) DocStatus() Status      { return i.Status }

func (p *PurchaseInvoice) DocName() string        { return p.Name }
func (p *PurchaseInvoice) SetDocName(name string) { p.Name = name }
func (p *PurchaseInvoice) DocStatus() Status      { return p.Status }

func (p *PaymentEntry) DocName() string        { return p.Name }
func (p *PaymentEntry) SetDocName(name string) { p.Name = name }
func (p *PaymentEntry) DocStatus() Status      { return p.Status }

func (j *JournalEntry) DocName() string        { return j.Name }
func (j *JournalEntry) SetDocName(name string) { j.Name = name }
func (j *JournalEntry) DocStatus() Status      { return j.Status }

func (q *Quotation) DocName() string        { return q.Name }
func (q *Quotation) SetDocName(name string) { q.Name = name }
func (q *Quotation) DocStatus() Status      { return q.Status }

var (
	_ Document = (*PurchaseReceipt)(nil)
	_ Document = (*DeliveryNote)(nil)
	_ Document = (*StockTransfer)(nil)
	_ Document = (*StockReconciliation)(nil)
	_ Document = (*StockReservation)(nil)
	_ Document = (*PickList)(nil)
	_ Document = (*PackList)(nil)
	_ Document = (*SalesOrder)(nil)
	_ Document = (*PurchaseOrder)(nil)
	_ Document = (*Invoice)(nil)
	_ Document = (*PurchaseInvoice)(nil)
	_ Document = (*PaymentEntry)(nil)
	_ Document = (*JournalEntry)(nil)
	_ Document = (*Quotation)(nil)
)
