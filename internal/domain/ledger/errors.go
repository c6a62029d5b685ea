package ledger

import "github.com/erp/stockledger/internal/domain/shared"

var (
	ErrUnknownAccount      = shared.NewKindedDomainError(shared.KindValidation, "UNKNOWN_ACCOUNT", "account not found and not in the default fallback table")
	ErrAccountIsGroup      = shared.NewKindedDomainError(shared.KindValidation, "ACCOUNT_IS_GROUP", "GL entries cannot post to a group account")
	ErrInvalidRootType     = shared.NewKindedDomainError(shared.KindValidation, "INVALID_ROOT_TYPE", "root type must be one of Asset, Liability, Equity, Income, Expense")
	ErrUnbalancedVoucher   = shared.NewKindedDomainError(shared.KindIntegrity, "UNBALANCED_VOUCHER", "sum of debits does not equal sum of credits for this voucher")
	ErrBothDebitAndCredit  = shared.NewKindedDomainError(shared.KindValidation, "BOTH_DEBIT_AND_CREDIT", "a GL entry cannot carry both a debit and a credit amount")
	ErrZeroAmountEntry     = shared.NewKindedDomainError(shared.KindValidation, "ZERO_AMOUNT_ENTRY", "a GL entry must carry a non-zero debit or credit amount")
)
