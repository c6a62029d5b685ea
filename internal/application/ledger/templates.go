package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceLine is one Invoice/Purchase Invoice line's posting-relevant
// shape: an amount plus the account it resolves to (item income/expense
// account, falling back to the tenant defaults named in §4.9).
type InvoiceLine struct {
	Account string
	Amount  decimal.Decimal
}

// TaxLine is one tax row's posting-relevant shape.
type TaxLine struct {
	AccountHead string
	TaxAmount   decimal.Decimal
}

// InvoiceRequest builds the GL posting for a Sales Invoice per §4.9:
// `Dr debit_to (= Accounts Receivable) grand_total; Cr per-item
// item.incomeAccount ?? 'Sales' item.amount; Cr tax.account_head
// tax.tax_amount`.
type InvoiceRequest struct {
	TenantID    uuid.UUID
	Currency    string
	PostingDate time.Time
	PostingTs   time.Time
	VoucherType string
	VoucherNo   string
	DebitTo     string
	GrandTotal  decimal.Decimal
	Items       []InvoiceLine
	Taxes       []TaxLine
}

// BuildInvoicePosting turns an InvoiceRequest into a PostingRequest.
func BuildInvoicePosting(req InvoiceRequest) PostingRequest {
	debitTo := req.DebitTo
	if debitTo == "" {
		debitTo = "Accounts Receivable"
	}
	lines := make([]PostingLine, 0, 1+len(req.Items)+len(req.Taxes))
	lines = append(lines, PostingLine{AccountCode: debitTo, Debit: req.GrandTotal})
	for _, item := range req.Items {
		account := item.Account
		if account == "" {
			account = "Sales"
		}
		lines = append(lines, PostingLine{AccountCode: account, Credit: item.Amount})
	}
	for _, tax := range req.Taxes {
		lines = append(lines, PostingLine{AccountCode: tax.AccountHead, Credit: tax.TaxAmount})
	}
	return newRequest(req.TenantID, req.Currency, req.PostingDate, req.PostingTs, req.VoucherType, req.VoucherNo, lines)
}

// PurchaseInvoiceLine is one Purchase Invoice line's posting-relevant
// shape: the amount plus whether it is a stock item (routes to the stock
// account) or not (routes to the item's expense account, falling back to
// the tenant's catch-all Expenses account).
type PurchaseInvoiceLine struct {
	IsStockItem    bool
	StockAccount   string
	ExpenseAccount string
	Amount         decimal.Decimal
}

// PurchaseInvoiceRequest builds the GL posting for a Purchase Invoice per
// §4.9: `Dr per item to stockAccount (if stock item) or expenseAccount
// (else 'Expenses') item.amount; Cr credit_to (= Accounts Payable)
// grand_total; Cr taxes`.
type PurchaseInvoiceRequest struct {
	TenantID    uuid.UUID
	Currency    string
	PostingDate time.Time
	PostingTs   time.Time
	VoucherType string
	VoucherNo   string
	CreditTo    string
	GrandTotal  decimal.Decimal
	Items       []PurchaseInvoiceLine
	Taxes       []TaxLine
}

// BuildPurchaseInvoicePosting turns a PurchaseInvoiceRequest into a
// PostingRequest.
func BuildPurchaseInvoicePosting(req PurchaseInvoiceRequest) PostingRequest {
	creditTo := req.CreditTo
	if creditTo == "" {
		creditTo = "Accounts Payable"
	}
	lines := make([]PostingLine, 0, len(req.Items)+1+len(req.Taxes))
	for _, item := range req.Items {
		account := item.ExpenseAccount
		if item.IsStockItem {
			account = item.StockAccount
			if account == "" {
				account = "Stock Asset"
			}
		} else if account == "" {
			account = "Expenses"
		}
		lines = append(lines, PostingLine{AccountCode: account, Debit: item.Amount})
	}
	lines = append(lines, PostingLine{AccountCode: creditTo, Credit: req.GrandTotal})
	for _, tax := range req.Taxes {
		lines = append(lines, PostingLine{AccountCode: tax.AccountHead, Credit: tax.TaxAmount})
	}
	return newRequest(req.TenantID, req.Currency, req.PostingDate, req.PostingTs, req.VoucherType, req.VoucherNo, lines)
}

// ReceiptLine is one Purchase Receipt line's posting-relevant shape.
type ReceiptLine struct {
	StockAccount string
	Amount       decimal.Decimal // qty * rate
}

// PurchaseReceiptRequest builds the GL posting for a Purchase Receipt per
// §4.9: `Dr stockAccount per line for qty·rate; Cr 'Creditors' for total`.
type PurchaseReceiptRequest struct {
	TenantID    uuid.UUID
	Currency    string
	PostingDate time.Time
	PostingTs   time.Time
	VoucherType string
	VoucherNo   string
	Lines       []ReceiptLine
}

// BuildPurchaseReceiptPosting turns a PurchaseReceiptRequest into a
// PostingRequest.
func BuildPurchaseReceiptPosting(req PurchaseReceiptRequest) PostingRequest {
	lines := make([]PostingLine, 0, len(req.Lines)+1)
	total := decimal.Zero
	for _, l := range req.Lines {
		account := l.StockAccount
		if account == "" {
			account = "Stock Asset"
		}
		lines = append(lines, PostingLine{AccountCode: account, Debit: l.Amount})
		total = total.Add(l.Amount)
	}
	lines = append(lines, PostingLine{AccountCode: "Creditors", Credit: total})
	return newRequest(req.TenantID, req.Currency, req.PostingDate, req.PostingTs, req.VoucherType, req.VoucherNo, lines)
}

// DeliveryLine is one Delivery Note line's posting-relevant shape.
// ValuationAmount defaults to Amount when unset, per §4.9's
// `item.valuation_amount ?? item.amount`.
type DeliveryLine struct {
	CogsAccount     string
	StockAccount    string
	Amount          decimal.Decimal
	ValuationAmount *decimal.Decimal
}

// DeliveryNoteRequest builds the COGS GL posting for a Delivery Note per
// §4.9: for each line, `Dr cogsAccount, Cr stockAccount` for
// `valuationAmount ?? amount`.
type DeliveryNoteRequest struct {
	TenantID    uuid.UUID
	Currency    string
	PostingDate time.Time
	PostingTs   time.Time
	VoucherType string
	VoucherNo   string
	Lines       []DeliveryLine
}

// BuildDeliveryNotePosting turns a DeliveryNoteRequest into a
// PostingRequest.
func BuildDeliveryNotePosting(req DeliveryNoteRequest) PostingRequest {
	lines := make([]PostingLine, 0, len(req.Lines)*2)
	for _, l := range req.Lines {
		amount := l.Amount
		if l.ValuationAmount != nil {
			amount = *l.ValuationAmount
		}
		cogs := l.CogsAccount
		if cogs == "" {
			cogs = "Cost of Goods Sold"
		}
		stock := l.StockAccount
		if stock == "" {
			stock = "Stock Asset"
		}
		lines = append(lines, PostingLine{AccountCode: cogs, Debit: amount})
		lines = append(lines, PostingLine{AccountCode: stock, Credit: amount})
	}
	return newRequest(req.TenantID, req.Currency, req.PostingDate, req.PostingTs, req.VoucherType, req.VoucherNo, lines)
}

// JournalLine is one Journal Entry line, passed through unchanged.
type JournalLine struct {
	Account string
	Debit   decimal.Decimal
	Credit  decimal.Decimal
}

// JournalEntryRequest builds the GL posting for a Journal Entry per §4.9:
// a pass-through of its own lines.
type JournalEntryRequest struct {
	TenantID    uuid.UUID
	Currency    string
	PostingDate time.Time
	PostingTs   time.Time
	VoucherType string
	VoucherNo   string
	Lines       []JournalLine
}

// BuildJournalEntryPosting turns a JournalEntryRequest into a
// PostingRequest.
func BuildJournalEntryPosting(req JournalEntryRequest) PostingRequest {
	lines := make([]PostingLine, 0, len(req.Lines))
	for _, l := range req.Lines {
		lines = append(lines, PostingLine{AccountCode: l.Account, Debit: l.Debit, Credit: l.Credit})
	}
	return newRequest(req.TenantID, req.Currency, req.PostingDate, req.PostingTs, req.VoucherType, req.VoucherNo, lines)
}

// PaymentDirection selects which side of a Payment Entry is being posted.
type PaymentDirection string

const (
	PaymentDirectionReceive PaymentDirection = "Receive"
	PaymentDirectionPay     PaymentDirection = "Pay"
)

// PaymentEntryRequest builds the GL posting for a Payment Entry per §4.9:
// for Receive, `Dr paid_to, Cr paid_from ?? 'Accounts Receivable'`; for
// Pay, `Dr paid_to ?? 'Accounts Payable', Cr paid_from`.
type PaymentEntryRequest struct {
	TenantID    uuid.UUID
	Currency    string
	PostingDate time.Time
	PostingTs   time.Time
	VoucherType string
	VoucherNo   string
	Direction   PaymentDirection
	PaidTo      string
	PaidFrom    string
	PaidAmount  decimal.Decimal
}

// BuildPaymentEntryPosting turns a PaymentEntryRequest into a
// PostingRequest.
func BuildPaymentEntryPosting(req PaymentEntryRequest) PostingRequest {
	paidTo := req.PaidTo
	paidFrom := req.PaidFrom
	if req.Direction == PaymentDirectionPay {
		if paidTo == "" {
			paidTo = "Accounts Payable"
		}
	} else {
		if paidFrom == "" {
			paidFrom = "Accounts Receivable"
		}
	}
	lines := []PostingLine{
		{AccountCode: paidTo, Debit: req.PaidAmount},
		{AccountCode: paidFrom, Credit: req.PaidAmount},
	}
	return newRequest(req.TenantID, req.Currency, req.PostingDate, req.PostingTs, req.VoucherType, req.VoucherNo, lines)
}

func newRequest(tenantID uuid.UUID, currency string, postingDate, postingTs time.Time, voucherType, voucherNo string, lines []PostingLine) PostingRequest {
	return PostingRequest{
		TenantID:    tenantID,
		Currency:    currency,
		PostingDate: postingDate,
		PostingTs:   postingTs,
		VoucherType: voucherType,
		VoucherNo:   voucherNo,
		Lines:       lines,
	}
}
