package ledgerreport

import (
	"context"
	"time"

	"github.com/erp/stockledger/internal/domain/ledger"
	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// balanceTolerance is the acceptable rounding slack for the quantified
// invariants of §4.11/§8 - |Σdebit−Σcredit| and |Assets−(Liab+Equity)|
// must each fall under this, the same 0.01 discrepancy threshold the
// teacher's TrialBalanceResult severity check uses.
var balanceTolerance = decimal.NewFromFloat(0.01)

// InvoiceLedger is the subset of voucherapp.InvoiceLedger the aging report
// needs; declared locally to avoid a report->voucher package cycle.
type InvoiceLedger interface {
	ListOpenInvoices(ctx context.Context, tenantID uuid.UUID) ([]OpenReceivable, error)
	ListOpenPurchaseInvoices(ctx context.Context, tenantID uuid.UUID) ([]OpenPayable, error)
}

// OpenReceivable is one invoice with a nonzero outstanding balance.
type OpenReceivable struct {
	Name              string
	CustomerCode      string
	PostingDate       time.Time
	DueDate           time.Time
	GrandTotal        decimal.Decimal
	OutstandingAmount decimal.Decimal
}

// OpenPayable is one purchase invoice with a nonzero outstanding balance.
type OpenPayable struct {
	Name              string
	SupplierCode      string
	PostingDate       time.Time
	DueDate           time.Time
	GrandTotal        decimal.Decimal
	OutstandingAmount decimal.Decimal
}

// Service executes the five read-only reports of §4.11 directly against
// GlEntry/account tables, never through the write-side aggregates - the
// same raw-aggregation idiom the teacher's inventory_metrics_provider.go
// uses for its own summary queries.
type Service struct {
	accounts  ledger.AccountRepository
	glEntries ledger.GlEntryRepository
	invoices  InvoiceLedger
}

// NewService creates a new ledgerreport.Service.
func NewService(accounts ledger.AccountRepository, glEntries ledger.GlEntryRepository, invoices InvoiceLedger) *Service {
	return &Service{accounts: accounts, glEntries: glEntries, invoices: invoices}
}

// TrialBalanceRow is one account's debit/credit totals for the period.
type TrialBalanceRow struct {
	AccountCode string
	AccountName string
	RootType    ledger.RootType
	Debit       decimal.Decimal
	Credit      decimal.Decimal
}

// TrialBalance is the Trial Balance report: every account's period
// debit/credit totals plus the overall balanced/unbalanced verdict.
type TrialBalance struct {
	Rows         []TrialBalanceRow
	TotalDebit   decimal.Decimal
	TotalCredit  decimal.Decimal
	IsBalanced   bool
	Discrepancy  decimal.Decimal
}

// GetTrialBalance sums every account's debit/credit activity between
// start and end (nil means unbounded) and checks Σdebit == Σcredit.
func (s *Service) GetTrialBalance(ctx context.Context, tenantID uuid.UUID, start, end *time.Time) (*TrialBalance, error) {
	accounts, err := s.allAccounts(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	tb := &TrialBalance{TotalDebit: decimal.Zero, TotalCredit: decimal.Zero}
	for _, acct := range accounts {
		debit, credit, err := s.glEntries.SumByAccount(ctx, tenantID, acct.GetID(), start, end)
		if err != nil {
			return nil, err
		}
		if debit.IsZero() && credit.IsZero() {
			continue
		}
		tb.Rows = append(tb.Rows, TrialBalanceRow{
			AccountCode: acct.Code,
			AccountName: acct.Name,
			RootType:    acct.RootType,
			Debit:       debit,
			Credit:      credit,
		})
		tb.TotalDebit = tb.TotalDebit.Add(debit)
		tb.TotalCredit = tb.TotalCredit.Add(credit)
	}
	tb.Discrepancy = tb.TotalDebit.Sub(tb.TotalCredit).Abs()
	tb.IsBalanced = tb.Discrepancy.LessThan(balanceTolerance)
	return tb, nil
}

// BalanceSheetSection is one root-type grouping (Asset, Liability, Equity)
// of the Balance Sheet.
type BalanceSheetSection struct {
	RootType ledger.RootType
	Accounts []TrialBalanceRow
	Total    decimal.Decimal
}

// BalanceSheet is the Balance Sheet report as of a point in time, checked
// against the accounting identity Assets = Liabilities + Equity.
type BalanceSheet struct {
	AsOf         time.Time
	Assets       BalanceSheetSection
	Liabilities  BalanceSheetSection
	Equity       BalanceSheetSection
	IsBalanced   bool
	Discrepancy  decimal.Decimal
}

// GetBalanceSheet nets each Asset/Liability/Equity account's debit-credit
// (Asset) or credit-debit (Liability/Equity) activity since inception
// through asOf, then checks Assets - (Liabilities + Equity) ~= 0.
func (s *Service) GetBalanceSheet(ctx context.Context, tenantID uuid.UUID, asOf time.Time) (*BalanceSheet, error) {
	assets, assetTotal, err := s.sectionBalance(ctx, tenantID, ledger.RootTypeAsset, asOf, true)
	if err != nil {
		return nil, err
	}
	liabilities, liabilityTotal, err := s.sectionBalance(ctx, tenantID, ledger.RootTypeLiability, asOf, false)
	if err != nil {
		return nil, err
	}
	equity, equityTotal, err := s.sectionBalance(ctx, tenantID, ledger.RootTypeEquity, asOf, false)
	if err != nil {
		return nil, err
	}

	bs := &BalanceSheet{
		AsOf:        asOf,
		Assets:      BalanceSheetSection{RootType: ledger.RootTypeAsset, Accounts: assets, Total: assetTotal},
		Liabilities: BalanceSheetSection{RootType: ledger.RootTypeLiability, Accounts: liabilities, Total: liabilityTotal},
		Equity:      BalanceSheetSection{RootType: ledger.RootTypeEquity, Accounts: equity, Total: equityTotal},
	}
	bs.Discrepancy = assetTotal.Sub(liabilityTotal.Add(equityTotal)).Abs()
	bs.IsBalanced = bs.Discrepancy.LessThan(balanceTolerance)
	return bs, nil
}

// sectionBalance nets each account of rootType as of asOf. debitPositive
// selects whether the natural balance is Debit-Credit (Asset/Expense) or
// Credit-Debit (Liability/Equity/Income).
func (s *Service) sectionBalance(ctx context.Context, tenantID uuid.UUID, rootType ledger.RootType, asOf time.Time, debitPositive bool) ([]TrialBalanceRow, decimal.Decimal, error) {
	accounts, err := s.accounts.FindByRootType(ctx, tenantID, rootType, shared.Filter{Page: 1, PageSize: 1000})
	if err != nil {
		return nil, decimal.Zero, err
	}

	var rows []TrialBalanceRow
	total := decimal.Zero
	for _, acct := range accounts {
		if acct.IsGroup {
			continue
		}
		debit, credit, err := s.glEntries.SumByAccount(ctx, tenantID, acct.GetID(), nil, &asOf)
		if err != nil {
			return nil, decimal.Zero, err
		}
		var net decimal.Decimal
		if debitPositive {
			net = debit.Sub(credit)
		} else {
			net = credit.Sub(debit)
		}
		if net.IsZero() {
			continue
		}
		rows = append(rows, TrialBalanceRow{AccountCode: acct.Code, AccountName: acct.Name, RootType: acct.RootType, Debit: debit, Credit: credit})
		total = total.Add(net)
	}
	return rows, total, nil
}

// ProfitAndLoss is the P&L statement over a period: net income activity
// less net expense activity.
type ProfitAndLoss struct {
	PeriodStart time.Time
	PeriodEnd   time.Time
	Income      []TrialBalanceRow
	TotalIncome decimal.Decimal
	Expenses    []TrialBalanceRow
	TotalExpense decimal.Decimal
	NetProfit   decimal.Decimal
}

// GetProfitAndLoss nets Income (Credit-Debit) and Expense (Debit-Credit)
// account activity strictly within [start, end].
func (s *Service) GetProfitAndLoss(ctx context.Context, tenantID uuid.UUID, start, end time.Time) (*ProfitAndLoss, error) {
	income, totalIncome, err := s.periodSection(ctx, tenantID, ledger.RootTypeIncome, start, end, false)
	if err != nil {
		return nil, err
	}
	expense, totalExpense, err := s.periodSection(ctx, tenantID, ledger.RootTypeExpense, start, end, true)
	if err != nil {
		return nil, err
	}
	return &ProfitAndLoss{
		PeriodStart:  start,
		PeriodEnd:    end,
		Income:       income,
		TotalIncome:  totalIncome,
		Expenses:     expense,
		TotalExpense: totalExpense,
		NetProfit:    totalIncome.Sub(totalExpense),
	}, nil
}

func (s *Service) periodSection(ctx context.Context, tenantID uuid.UUID, rootType ledger.RootType, start, end time.Time, debitPositive bool) ([]TrialBalanceRow, decimal.Decimal, error) {
	accounts, err := s.accounts.FindByRootType(ctx, tenantID, rootType, shared.Filter{Page: 1, PageSize: 1000})
	if err != nil {
		return nil, decimal.Zero, err
	}
	var rows []TrialBalanceRow
	total := decimal.Zero
	for _, acct := range accounts {
		if acct.IsGroup {
			continue
		}
		debit, credit, err := s.glEntries.SumByAccount(ctx, tenantID, acct.GetID(), &start, &end)
		if err != nil {
			return nil, decimal.Zero, err
		}
		var net decimal.Decimal
		if debitPositive {
			net = debit.Sub(credit)
		} else {
			net = credit.Sub(debit)
		}
		if net.IsZero() {
			continue
		}
		rows = append(rows, TrialBalanceRow{AccountCode: acct.Code, AccountName: acct.Name, RootType: acct.RootType, Debit: debit, Credit: credit})
		total = total.Add(net)
	}
	return rows, total, nil
}

// GeneralLedgerRow is one GL entry annotated with the running balance of
// its account as of that row.
type GeneralLedgerRow struct {
	ledger.GlEntry
	RunningBalance decimal.Decimal
}

// GetGeneralLedger returns every posting-ordered GlEntry for an account
// within [start, end] with a running balance column, per §4.11.
func (s *Service) GetGeneralLedger(ctx context.Context, tenantID, accountID uuid.UUID, start, end time.Time, filter shared.Filter) ([]GeneralLedgerRow, error) {
	entries, err := s.glEntries.FindByAccount(ctx, tenantID, accountID, &start, &end, filter)
	if err != nil {
		return nil, err
	}
	openingDebit, openingCredit, err := s.glEntries.SumByAccount(ctx, tenantID, accountID, nil, &start)
	if err != nil {
		return nil, err
	}
	running := openingDebit.Sub(openingCredit)

	rows := make([]GeneralLedgerRow, 0, len(entries))
	for _, e := range entries {
		running = running.Add(e.DebitBc).Sub(e.CreditBc)
		rows = append(rows, GeneralLedgerRow{GlEntry: e, RunningBalance: running})
	}
	return rows, nil
}

// AgingBucket buckets an outstanding balance by days overdue.
type AgingBucket struct {
	Label string
	Total decimal.Decimal
}

// ReceivableAgingRow is one customer's outstanding invoice bucketed by age.
type ReceivableAgingRow struct {
	OpenReceivable
	DaysOverdue int
	Bucket      string
}

// PayableAgingRow is one supplier's outstanding purchase invoice bucketed
// by age.
type PayableAgingRow struct {
	OpenPayable
	DaysOverdue int
	Bucket      string
}

func agingBucket(daysOverdue int) string {
	switch {
	case daysOverdue <= 0:
		return "current"
	case daysOverdue <= 30:
		return "1-30"
	case daysOverdue <= 60:
		return "31-60"
	case daysOverdue <= 90:
		return "61-90"
	default:
		return "90+"
	}
}

// GetReceivableAging buckets every open invoice by days past its due date
// as of asOf.
func (s *Service) GetReceivableAging(ctx context.Context, tenantID uuid.UUID, asOf time.Time) ([]ReceivableAgingRow, error) {
	open, err := s.invoices.ListOpenInvoices(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	rows := make([]ReceivableAgingRow, 0, len(open))
	for _, inv := range open {
		days := int(asOf.Sub(inv.DueDate).Hours() / 24)
		rows = append(rows, ReceivableAgingRow{OpenReceivable: inv, DaysOverdue: days, Bucket: agingBucket(days)})
	}
	return rows, nil
}

// GetPayableAging buckets every open purchase invoice by days past its
// due date as of asOf.
func (s *Service) GetPayableAging(ctx context.Context, tenantID uuid.UUID, asOf time.Time) ([]PayableAgingRow, error) {
	open, err := s.invoices.ListOpenPurchaseInvoices(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	rows := make([]PayableAgingRow, 0, len(open))
	for _, inv := range open {
		days := int(asOf.Sub(inv.DueDate).Hours() / 24)
		rows = append(rows, PayableAgingRow{OpenPayable: inv, DaysOverdue: days, Bucket: agingBucket(days)})
	}
	return rows, nil
}

func (s *Service) allAccounts(ctx context.Context, tenantID uuid.UUID) ([]ledger.Account, error) {
	var all []ledger.Account
	for _, rt := range []ledger.RootType{ledger.RootTypeAsset, ledger.RootTypeLiability, ledger.RootTypeEquity, ledger.RootTypeIncome, ledger.RootTypeExpense} {
		accounts, err := s.accounts.FindByRootType(ctx, tenantID, rt, shared.Filter{Page: 1, PageSize: 1000})
		if err != nil {
			return nil, err
		}
		for _, a := range accounts {
			if !a.IsGroup {
				all = append(all, a)
			}
		}
	}
	return all, nil
}
