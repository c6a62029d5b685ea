package voucher

import (
	stockapp "github.com/erp/stockledger/internal/application/stock"
	"github.com/erp/stockledger/internal/domain/shared"
	voucherdomain "github.com/erp/stockledger/internal/domain/voucher"
)

// NewRegistry builds the document hook registry of §6, registering one
// orchestrator per voucher kind named in §4.8.
func NewRegistry(engine *stockapp.Engine, canceller *stockapp.CancellationEngine, txScope stockapp.TransactionScope, invoices InvoiceLedger, clock shared.Clock, currency string) *voucherdomain.Registry {
	reg := voucherdomain.NewRegistry()

	reg.Register("Purchase Receipt", NewPurchaseReceiptOrchestrator(engine, canceller, txScope, currency))
	reg.Register("Delivery Note", NewDeliveryNoteOrchestrator(engine, canceller, txScope, currency))
	reg.Register("Stock Transfer", NewStockTransferOrchestrator(engine, canceller))
	reg.Register("Stock Reconciliation", NewStockReconciliationOrchestrator(engine))
	reg.Register("Stock Reservation", NewStockReservationOrchestrator(engine))
	reg.Register("Pick List", NewPickListOrchestrator(engine, canceller))
	reg.Register("Pack List", NewPackListOrchestrator())
	reg.Register("Sales Order", NewSalesOrderOrchestrator(engine))
	reg.Register("Purchase Order", NewPurchaseOrderOrchestrator())
	reg.Register("Invoice", NewInvoiceOrchestrator(txScope, currency))
	reg.Register("Purchase Invoice", NewPurchaseInvoiceOrchestrator(txScope, currency))
	reg.Register("Payment Entry", NewPaymentEntryOrchestrator(txScope, invoices, clock, currency))
	reg.Register("Journal Entry", NewJournalEntryOrchestrator(txScope, currency))
	reg.Register("Quotation", NewQuotationOrchestrator())

	return reg
}
