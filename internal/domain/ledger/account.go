package ledger

import (
	"strings"
	"time"

	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/google/uuid"
)

// RootType is one of the five accounting classifications every account
// chart rolls up to.
type RootType string

const (
	RootTypeAsset     RootType = "Asset"
	RootTypeLiability RootType = "Liability"
	RootTypeEquity    RootType = "Equity"
	RootTypeIncome    RootType = "Income"
	RootTypeExpense   RootType = "Expense"
)

// IsValid reports whether r is one of the five recognized root types.
func (r RootType) IsValid() bool {
	switch r {
	case RootTypeAsset, RootTypeLiability, RootTypeEquity, RootTypeIncome, RootTypeExpense:
		return true
	}
	return false
}

// Account is a node of the tenant's chart of accounts.
type Account struct {
	shared.TenantAggregateRoot
	Code              string   `gorm:"type:varchar(50);not null;uniqueIndex:idx_account_tenant_code,priority:2"`
	Name              string   `gorm:"type:varchar(200);not null"`
	RootType          RootType `gorm:"type:varchar(20);not null"`
	AccountType       string   `gorm:"type:varchar(50)"`
	IsGroup           bool     `gorm:"not null;default:false"`
	ParentAccountCode string   `gorm:"type:varchar(50);index"`
}

// TableName returns the table name for GORM
func (Account) TableName() string {
	return "gl_accounts"
}

// NewAccount creates a leaf account under an optional parent.
func NewAccount(tenantID uuid.UUID, code, name string, rootType RootType, accountType, parentAccountCode string) (*Account, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, shared.NewDomainError("INVALID_ACCOUNT_CODE", "account code cannot be empty")
	}
	if !rootType.IsValid() {
		return nil, ErrInvalidRootType
	}
	return &Account{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                code,
		Name:                name,
		RootType:            rootType,
		AccountType:         accountType,
		ParentAccountCode:   parentAccountCode,
	}, nil
}

// NewGroupAccount creates a group (parent-only, non-postable) account.
func NewGroupAccount(tenantID uuid.UUID, code, name string, rootType RootType, parentAccountCode string) (*Account, error) {
	account, err := NewAccount(tenantID, code, name, rootType, "", parentAccountCode)
	if err != nil {
		return nil, err
	}
	account.IsGroup = true
	return account, nil
}

// AssertPostable fails with ErrAccountIsGroup for a group account.
func (a *Account) AssertPostable() error {
	if a.IsGroup {
		return ErrAccountIsGroup
	}
	return nil
}

// Rename updates the account's display name.
func (a *Account) Rename(name string) {
	a.Name = name
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
}

// DefaultAccountTemplate is one row of the small fallback table the GL
// writer consults when a voucher references an account code that does not
// yet exist in the tenant's chart.
type DefaultAccountTemplate struct {
	Code        string
	Name        string
	RootType    RootType
	AccountType string
}

// DefaultAccountTemplates is the fixed fallback table of §4.9: Accounts
// Receivable, Accounts Payable, Stock Asset, Sales, Cost of Goods Sold, and
// a catch-all Expenses account.
var DefaultAccountTemplates = map[string]DefaultAccountTemplate{
	"Accounts Receivable": {Code: "Accounts Receivable", Name: "Accounts Receivable", RootType: RootTypeAsset, AccountType: "Receivable"},
	"Accounts Payable":    {Code: "Accounts Payable", Name: "Accounts Payable", RootType: RootTypeLiability, AccountType: "Payable"},
	"Stock Asset":         {Code: "Stock Asset", Name: "Stock Asset", RootType: RootTypeAsset, AccountType: "Stock"},
	"Sales":               {Code: "Sales", Name: "Sales", RootType: RootTypeIncome, AccountType: ""},
	"Cost of Goods Sold":  {Code: "Cost of Goods Sold", Name: "Cost of Goods Sold", RootType: RootTypeExpense, AccountType: "COGS"},
	"Expenses":            {Code: "Expenses", Name: "Expenses", RootType: RootTypeExpense, AccountType: ""},
}
