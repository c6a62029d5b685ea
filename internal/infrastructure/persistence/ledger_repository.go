package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/erp/stockledger/internal/domain/ledger"
	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormAccountRepository implements ledger.AccountRepository using GORM.
type GormAccountRepository struct {
	db *gorm.DB
}

// NewGormAccountRepository creates a new GormAccountRepository.
func NewGormAccountRepository(db *gorm.DB) *GormAccountRepository {
	return &GormAccountRepository{db: db}
}

func (r *GormAccountRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*ledger.Account, error) {
	var a ledger.Account
	if err := r.db.WithContext(ctx).Where("tenant_id = ? AND id = ?", tenantID, id).First(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *GormAccountRepository) FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*ledger.Account, error) {
	var a ledger.Account
	if err := r.db.WithContext(ctx).Where("tenant_id = ? AND code = ?", tenantID, code).First(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// GetOrCreateDefault looks up an account by code, creating it from
// ledger.DefaultAccountTemplates when absent, per §4.9's fallback table.
func (r *GormAccountRepository) GetOrCreateDefault(ctx context.Context, tenantID uuid.UUID, code string) (*ledger.Account, error) {
	existing, err := r.FindByCode(ctx, tenantID, code)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	tmpl, ok := ledger.DefaultAccountTemplates[code]
	if !ok {
		return nil, ledger.ErrUnknownAccount
	}
	account, aErr := ledger.NewAccount(tenantID, tmpl.Code, tmpl.Name, tmpl.RootType, tmpl.AccountType, "")
	if aErr != nil {
		return nil, aErr
	}
	if err := r.db.WithContext(ctx).Create(account).Error; err != nil {
		if isUniqueViolation(err) {
			return r.FindByCode(ctx, tenantID, code)
		}
		return nil, err
	}
	return account, nil
}

func (r *GormAccountRepository) FindByRootType(ctx context.Context, tenantID uuid.UUID, rootType ledger.RootType, filter shared.Filter) ([]ledger.Account, error) {
	var accounts []ledger.Account
	query := applyPage(r.db.WithContext(ctx).Where("tenant_id = ? AND root_type = ?", tenantID, rootType), filter)
	if err := query.Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}

func (r *GormAccountRepository) FindChildren(ctx context.Context, tenantID uuid.UUID, parentAccountCode string) ([]ledger.Account, error) {
	var accounts []ledger.Account
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND parent_account_code = ?", tenantID, parentAccountCode).
		Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}

func (r *GormAccountRepository) Save(ctx context.Context, account *ledger.Account) error {
	return r.db.WithContext(ctx).Save(account).Error
}

// GormGlEntryRepository implements ledger.GlEntryRepository using GORM.
type GormGlEntryRepository struct {
	db *gorm.DB
}

// NewGormGlEntryRepository creates a new GormGlEntryRepository.
func NewGormGlEntryRepository(db *gorm.DB) *GormGlEntryRepository {
	return &GormGlEntryRepository{db: db}
}

func (r *GormGlEntryRepository) FindByVoucher(ctx context.Context, tenantID uuid.UUID, voucherType, voucherNo string) ([]ledger.GlEntry, error) {
	var entries []ledger.GlEntry
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND voucher_type = ? AND voucher_no = ?", tenantID, voucherType, voucherNo).
		Order("posting_ts ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *GormGlEntryRepository) FindByAccount(ctx context.Context, tenantID, accountID uuid.UUID, start, end *time.Time, filter shared.Filter) ([]ledger.GlEntry, error) {
	var entries []ledger.GlEntry
	query := r.db.WithContext(ctx).Where("tenant_id = ? AND account_id = ? AND is_cancelled = false", tenantID, accountID)
	if start != nil {
		query = query.Where("posting_date >= ?", *start)
	}
	if end != nil {
		query = query.Where("posting_date <= ?", *end)
	}
	query = applyPage(query, filter)
	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *GormGlEntryRepository) FindByDateRange(ctx context.Context, tenantID uuid.UUID, start, end time.Time, filter shared.Filter) ([]ledger.GlEntry, error) {
	var entries []ledger.GlEntry
	query := applyPage(r.db.WithContext(ctx).
		Where("tenant_id = ? AND posting_date >= ? AND posting_date <= ?", tenantID, start, end), filter)
	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// SumByAccount returns (totalDebit, totalCredit) for the Trial Balance and
// Balance Sheet read models, excluding cancelled entries.
func (r *GormGlEntryRepository) SumByAccount(ctx context.Context, tenantID, accountID uuid.UUID, start, end *time.Time) (decimal.Decimal, decimal.Decimal, error) {
	var row struct {
		TotalDebit  decimal.Decimal
		TotalCredit decimal.Decimal
	}
	query := r.db.WithContext(ctx).Model(&ledger.GlEntry{}).
		Select("COALESCE(SUM(debit_bc), 0) AS total_debit, COALESCE(SUM(credit_bc), 0) AS total_credit").
		Where("tenant_id = ? AND account_id = ? AND is_cancelled = false", tenantID, accountID)
	if start != nil {
		query = query.Where("posting_date >= ?", *start)
	}
	if end != nil {
		query = query.Where("posting_date <= ?", *end)
	}
	if err := query.Scan(&row).Error; err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	return row.TotalDebit, row.TotalCredit, nil
}

func (r *GormGlEntryRepository) Create(ctx context.Context, entry *ledger.GlEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *GormGlEntryRepository) CreateBatch(ctx context.Context, entries []*ledger.GlEntry) error {
	if len(entries) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&entries).Error
}

func (r *GormGlEntryRepository) CancelByVoucher(ctx context.Context, tenantID uuid.UUID, voucherType, voucherNo string) error {
	return r.db.WithContext(ctx).Model(&ledger.GlEntry{}).
		Where("tenant_id = ? AND voucher_type = ? AND voucher_no = ?", tenantID, voucherType, voucherNo).
		Updates(map[string]interface{}{"is_cancelled": true, "updated_at": time.Now()}).Error
}
