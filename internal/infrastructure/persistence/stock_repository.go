package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/erp/stockledger/internal/domain/stock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormBalanceRepository implements stock.BalanceRepository using GORM. The
// stock domain types carry their own gorm tags and TableName methods, so
// unlike the product-unit and warehouse repositories this package also holds, there is no
// separate persistence model to translate to and from.
type GormBalanceRepository struct {
	db *gorm.DB
}

// NewGormBalanceRepository creates a new GormBalanceRepository.
func NewGormBalanceRepository(db *gorm.DB) *GormBalanceRepository {
	return &GormBalanceRepository{db: db}
}

func (r *GormBalanceRepository) FindByItemWarehouse(ctx context.Context, tenantID, itemID, warehouseID uuid.UUID) (*stock.WarehouseItemBalance, error) {
	var b stock.WarehouseItemBalance
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND item_id = ? AND warehouse_id = ?", tenantID, itemID, warehouseID).
		First(&b).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *GormBalanceRepository) FindByItemWarehouseForUpdate(ctx context.Context, tenantID, itemID, warehouseID uuid.UUID) (*stock.WarehouseItemBalance, error) {
	var b stock.WarehouseItemBalance
	if err := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("tenant_id = ? AND item_id = ? AND warehouse_id = ?", tenantID, itemID, warehouseID).
		First(&b).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *GormBalanceRepository) GetOrCreate(ctx context.Context, tenantID, itemID, warehouseID uuid.UUID, allowNegative bool) (*stock.WarehouseItemBalance, error) {
	existing, err := r.FindByItemWarehouseForUpdate(ctx, tenantID, itemID, warehouseID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	b := stock.NewWarehouseItemBalance(tenantID, itemID, warehouseID, allowNegative)
	if err := r.db.WithContext(ctx).Create(b).Error; err != nil {
		// another transaction raced us to create the row; re-read under lock
		if isUniqueViolation(err) {
			return r.FindByItemWarehouseForUpdate(ctx, tenantID, itemID, warehouseID)
		}
		return nil, err
	}
	return b, nil
}

func (r *GormBalanceRepository) FindByWarehouse(ctx context.Context, tenantID, warehouseID uuid.UUID, filter shared.Filter) ([]stock.WarehouseItemBalance, error) {
	var balances []stock.WarehouseItemBalance
	query := applyPage(r.db.WithContext(ctx).Where("tenant_id = ? AND warehouse_id = ?", tenantID, warehouseID), filter)
	if err := query.Find(&balances).Error; err != nil {
		return nil, err
	}
	return balances, nil
}

func (r *GormBalanceRepository) FindBelowThreshold(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]stock.WarehouseItemBalance, error) {
	var balances []stock.WarehouseItemBalance
	query := applyPage(r.db.WithContext(ctx).Where("tenant_id = ? AND actual_qty < reserved_qty", tenantID), filter)
	if err := query.Find(&balances).Error; err != nil {
		return nil, err
	}
	return balances, nil
}

func (r *GormBalanceRepository) Save(ctx context.Context, balance *stock.WarehouseItemBalance) error {
	return r.db.WithContext(ctx).Save(balance).Error
}

func (r *GormBalanceRepository) SaveWithLock(ctx context.Context, balance *stock.WarehouseItemBalance) error {
	result := r.db.WithContext(ctx).Model(balance).
		Where("id = ? AND version = ?", balance.ID, balance.Version-1).
		Updates(map[string]interface{}{
			"actual_qty":     balance.ActualQty,
			"reserved_qty":   balance.ReservedQty,
			"valuation_rate": balance.ValuationRate,
			"version":        balance.Version,
			"updated_at":     balance.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewKindedDomainError(shared.KindConcurrency, "OPTIMISTIC_LOCK_FAILED", "balance was modified by another transaction")
	}
	return nil
}

// GormBinBalanceRepository implements stock.BinBalanceRepository.
type GormBinBalanceRepository struct {
	db *gorm.DB
}

// NewGormBinBalanceRepository creates a new GormBinBalanceRepository.
func NewGormBinBalanceRepository(db *gorm.DB) *GormBinBalanceRepository {
	return &GormBinBalanceRepository{db: db}
}

func (r *GormBinBalanceRepository) binQuery(ctx context.Context, tenantID, itemID, warehouseID, locationID uuid.UUID, batchID *uuid.UUID) *gorm.DB {
	q := r.db.WithContext(ctx).Where("tenant_id = ? AND item_id = ? AND warehouse_id = ? AND location_id = ?", tenantID, itemID, warehouseID, locationID)
	if batchID == nil {
		return q.Where("batch_id IS NULL")
	}
	return q.Where("batch_id = ?", *batchID)
}

func (r *GormBinBalanceRepository) FindByBin(ctx context.Context, tenantID, itemID, warehouseID, locationID uuid.UUID, batchID *uuid.UUID) (*stock.BinBalance, error) {
	var b stock.BinBalance
	if err := r.binQuery(ctx, tenantID, itemID, warehouseID, locationID, batchID).First(&b).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *GormBinBalanceRepository) FindByBinForUpdate(ctx context.Context, tenantID, itemID, warehouseID, locationID uuid.UUID, batchID *uuid.UUID) (*stock.BinBalance, error) {
	var b stock.BinBalance
	if err := r.binQuery(ctx, tenantID, itemID, warehouseID, locationID, batchID).
		Clauses(clause.Locking{Strength: "UPDATE"}).First(&b).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *GormBinBalanceRepository) GetOrCreate(ctx context.Context, tenantID, itemID, warehouseID, locationID uuid.UUID, batchID *uuid.UUID) (*stock.BinBalance, error) {
	existing, err := r.FindByBinForUpdate(ctx, tenantID, itemID, warehouseID, locationID, batchID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	b := stock.NewBinBalance(tenantID, itemID, warehouseID, locationID, batchID)
	if err := r.db.WithContext(ctx).Create(b).Error; err != nil {
		if isUniqueViolation(err) {
			return r.FindByBinForUpdate(ctx, tenantID, itemID, warehouseID, locationID, batchID)
		}
		return nil, err
	}
	return b, nil
}

func (r *GormBinBalanceRepository) FindByLocation(ctx context.Context, tenantID, warehouseID, locationID uuid.UUID) ([]stock.BinBalance, error) {
	var balances []stock.BinBalance
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND warehouse_id = ? AND location_id = ?", tenantID, warehouseID, locationID).
		Find(&balances).Error; err != nil {
		return nil, err
	}
	return balances, nil
}

func (r *GormBinBalanceRepository) FindByItemWarehouse(ctx context.Context, tenantID, itemID, warehouseID uuid.UUID) ([]stock.BinBalance, error) {
	var balances []stock.BinBalance
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND item_id = ? AND warehouse_id = ?", tenantID, itemID, warehouseID).
		Find(&balances).Error; err != nil {
		return nil, err
	}
	return balances, nil
}

func (r *GormBinBalanceRepository) Save(ctx context.Context, bin *stock.BinBalance) error {
	return r.db.WithContext(ctx).Save(bin).Error
}

func (r *GormBinBalanceRepository) DeleteEmpty(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("tenant_id = ? AND actual_qty = 0 AND reserved_qty = 0", tenantID).
		Delete(&stock.BinBalance{})
	return result.RowsAffected, result.Error
}

// GormBatchRepository implements stock.BatchRepository.
type GormBatchRepository struct {
	db *gorm.DB
}

// NewGormBatchRepository creates a new GormBatchRepository.
func NewGormBatchRepository(db *gorm.DB) *GormBatchRepository {
	return &GormBatchRepository{db: db}
}

func (r *GormBatchRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*stock.Batch, error) {
	var b stock.Batch
	if err := r.db.WithContext(ctx).Where("tenant_id = ? AND id = ?", tenantID, id).First(&b).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *GormBatchRepository) FindByItemAndNo(ctx context.Context, tenantID, itemID uuid.UUID, batchNo string) (*stock.Batch, error) {
	var b stock.Batch
	if err := r.db.WithContext(ctx).Where("tenant_id = ? AND item_id = ? AND batch_no = ?", tenantID, itemID, batchNo).First(&b).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *GormBatchRepository) GetOrCreate(ctx context.Context, tenantID, itemID uuid.UUID, batchNo string, expiryDate *time.Time) (*stock.Batch, error) {
	existing, err := r.FindByItemAndNo(ctx, tenantID, itemID, batchNo)
	if err == nil {
		if rErr := existing.ReconcileExpiry(expiryDate); rErr != nil {
			return nil, rErr
		}
		if err := r.db.WithContext(ctx).Save(existing).Error; err != nil {
			return nil, err
		}
		return existing, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	b, bErr := stock.NewBatch(tenantID, itemID, batchNo, expiryDate)
	if bErr != nil {
		return nil, bErr
	}
	if err := r.db.WithContext(ctx).Create(b).Error; err != nil {
		if isUniqueViolation(err) {
			return r.FindByItemAndNo(ctx, tenantID, itemID, batchNo)
		}
		return nil, err
	}
	return b, nil
}

func (r *GormBatchRepository) FindByItem(ctx context.Context, tenantID, itemID uuid.UUID, filter shared.Filter) ([]stock.Batch, error) {
	var batches []stock.Batch
	query := applyPage(r.db.WithContext(ctx).Where("tenant_id = ? AND item_id = ?", tenantID, itemID), filter)
	if err := query.Find(&batches).Error; err != nil {
		return nil, err
	}
	return batches, nil
}

func (r *GormBatchRepository) FindExpiringWithin(ctx context.Context, tenantID uuid.UUID, window time.Duration, filter shared.Filter) ([]stock.Batch, error) {
	var batches []stock.Batch
	cutoff := time.Now().Add(window)
	query := applyPage(r.db.WithContext(ctx).
		Where("tenant_id = ? AND expiry_date IS NOT NULL AND expiry_date <= ?", tenantID, cutoff), filter)
	if err := query.Find(&batches).Error; err != nil {
		return nil, err
	}
	return batches, nil
}

func (r *GormBatchRepository) Save(ctx context.Context, batch *stock.Batch) error {
	return r.db.WithContext(ctx).Save(batch).Error
}

// GormSerialRepository implements stock.SerialRepository.
type GormSerialRepository struct {
	db *gorm.DB
}

// NewGormSerialRepository creates a new GormSerialRepository.
func NewGormSerialRepository(db *gorm.DB) *GormSerialRepository {
	return &GormSerialRepository{db: db}
}

func (r *GormSerialRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*stock.Serial, error) {
	var s stock.Serial
	if err := r.db.WithContext(ctx).Where("tenant_id = ? AND id = ?", tenantID, id).First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *GormSerialRepository) FindBySerialNo(ctx context.Context, tenantID, itemID uuid.UUID, serialNo string) (*stock.Serial, error) {
	var s stock.Serial
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND item_id = ? AND serial_no = ?", tenantID, itemID, serialNo).
		First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *GormSerialRepository) FindBySerialNoForUpdate(ctx context.Context, tenantID, itemID uuid.UUID, serialNo string) (*stock.Serial, error) {
	var s stock.Serial
	if err := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("tenant_id = ? AND item_id = ? AND serial_no = ?", tenantID, itemID, serialNo).
		First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *GormSerialRepository) FindAvailableByBin(ctx context.Context, tenantID, itemID, warehouseID, locationID uuid.UUID) ([]stock.Serial, error) {
	var serials []stock.Serial
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND item_id = ? AND warehouse_id = ? AND location_id = ? AND status = ?",
			tenantID, itemID, warehouseID, locationID, stock.SerialStatusAvailable).
		Find(&serials).Error; err != nil {
		return nil, err
	}
	return serials, nil
}

func (r *GormSerialRepository) ExistsBySerialNo(ctx context.Context, tenantID, itemID uuid.UUID, serialNo string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&stock.Serial{}).
		Where("tenant_id = ? AND item_id = ? AND serial_no = ?", tenantID, itemID, serialNo).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormSerialRepository) Save(ctx context.Context, serial *stock.Serial) error {
	return r.db.WithContext(ctx).Save(serial).Error
}

func (r *GormSerialRepository) SaveBatch(ctx context.Context, serials []stock.Serial) error {
	if len(serials) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Save(&serials).Error
}

func (r *GormSerialRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("tenant_id = ? AND id = ?", tenantID, id).Delete(&stock.Serial{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// GormFifoLayerRepository implements stock.FifoLayerRepository.
type GormFifoLayerRepository struct {
	db *gorm.DB
}

// NewGormFifoLayerRepository creates a new GormFifoLayerRepository.
func NewGormFifoLayerRepository(db *gorm.DB) *GormFifoLayerRepository {
	return &GormFifoLayerRepository{db: db}
}

func (r *GormFifoLayerRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*stock.StockFifoLayer, error) {
	var l stock.StockFifoLayer
	if err := r.db.WithContext(ctx).Where("tenant_id = ? AND id = ?", tenantID, id).First(&l).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &l, nil
}

func (r *GormFifoLayerRepository) FindAvailableForUpdate(ctx context.Context, tenantID, itemID, warehouseID uuid.UUID) ([]*stock.StockFifoLayer, error) {
	var layers []*stock.StockFifoLayer
	if err := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("tenant_id = ? AND item_id = ? AND warehouse_id = ? AND is_cancelled = false AND qty_remaining > 0", tenantID, itemID, warehouseID).
		Order("posting_ts ASC").
		Find(&layers).Error; err != nil {
		return nil, err
	}
	return layers, nil
}

func (r *GormFifoLayerRepository) FindByVoucher(ctx context.Context, tenantID uuid.UUID, voucherType, voucherNo string) ([]stock.StockFifoLayer, error) {
	var layers []stock.StockFifoLayer
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND voucher_type = ? AND voucher_no = ?", tenantID, voucherType, voucherNo).
		Find(&layers).Error; err != nil {
		return nil, err
	}
	return layers, nil
}

func (r *GormFifoLayerRepository) FindBySourceLayer(ctx context.Context, tenantID, sourceLayerID uuid.UUID) ([]stock.StockFifoLayer, error) {
	var layers []stock.StockFifoLayer
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND source_layer_id = ?", tenantID, sourceLayerID).
		Find(&layers).Error; err != nil {
		return nil, err
	}
	return layers, nil
}

func (r *GormFifoLayerRepository) Create(ctx context.Context, layer *stock.StockFifoLayer) error {
	return r.db.WithContext(ctx).Create(layer).Error
}

func (r *GormFifoLayerRepository) UpdateRemaining(ctx context.Context, layer *stock.StockFifoLayer) error {
	return r.db.WithContext(ctx).Model(layer).
		Where("id = ?", layer.ID).
		Updates(map[string]interface{}{
			"qty_remaining": layer.QtyRemaining,
			"is_cancelled":  layer.IsCancelled,
		}).Error
}

// GormLedgerEntryRepository implements stock.LedgerEntryRepository.
type GormLedgerEntryRepository struct {
	db *gorm.DB
}

// NewGormLedgerEntryRepository creates a new GormLedgerEntryRepository.
func NewGormLedgerEntryRepository(db *gorm.DB) *GormLedgerEntryRepository {
	return &GormLedgerEntryRepository{db: db}
}

func (r *GormLedgerEntryRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*stock.StockLedgerEntry, error) {
	var e stock.StockLedgerEntry
	if err := r.db.WithContext(ctx).Where("tenant_id = ? AND id = ?", tenantID, id).First(&e).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (r *GormLedgerEntryRepository) FindByVoucher(ctx context.Context, tenantID uuid.UUID, voucherType, voucherNo string) ([]stock.StockLedgerEntry, error) {
	var entries []stock.StockLedgerEntry
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND voucher_type = ? AND voucher_no = ?", tenantID, voucherType, voucherNo).
		Order("posting_ts ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *GormLedgerEntryRepository) FindByItemWarehouse(ctx context.Context, tenantID, itemID, warehouseID uuid.UUID, filter shared.Filter) ([]stock.StockLedgerEntry, error) {
	var entries []stock.StockLedgerEntry
	query := applyPage(r.db.WithContext(ctx).
		Where("tenant_id = ? AND item_id = ? AND warehouse_id = ?", tenantID, itemID, warehouseID), filter)
	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *GormLedgerEntryRepository) FindByDateRange(ctx context.Context, tenantID uuid.UUID, start, end time.Time, filter shared.Filter) ([]stock.StockLedgerEntry, error) {
	var entries []stock.StockLedgerEntry
	query := applyPage(r.db.WithContext(ctx).
		Where("tenant_id = ? AND posting_ts >= ? AND posting_ts <= ?", tenantID, start, end), filter)
	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *GormLedgerEntryRepository) Create(ctx context.Context, entry *stock.StockLedgerEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *GormLedgerEntryRepository) CreateBatch(ctx context.Context, entries []*stock.StockLedgerEntry) error {
	if len(entries) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&entries).Error
}

// GormLedgerEntrySerialRepository implements stock.LedgerEntrySerialRepository.
type GormLedgerEntrySerialRepository struct {
	db *gorm.DB
}

// NewGormLedgerEntrySerialRepository creates a new GormLedgerEntrySerialRepository.
func NewGormLedgerEntrySerialRepository(db *gorm.DB) *GormLedgerEntrySerialRepository {
	return &GormLedgerEntrySerialRepository{db: db}
}

func (r *GormLedgerEntrySerialRepository) FindByLedgerEntry(ctx context.Context, tenantID, ledgerEntryID uuid.UUID) ([]stock.StockLedgerEntrySerial, error) {
	var links []stock.StockLedgerEntrySerial
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND ledger_entry_id = ?", tenantID, ledgerEntryID).
		Find(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}

func (r *GormLedgerEntrySerialRepository) Create(ctx context.Context, link *stock.StockLedgerEntrySerial) error {
	return r.db.WithContext(ctx).Create(link).Error
}

func (r *GormLedgerEntrySerialRepository) CreateBatch(ctx context.Context, links []*stock.StockLedgerEntrySerial) error {
	if len(links) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&links).Error
}

// GormPostingRepository implements stock.PostingRepository, the §4.2
// idempotency gate: Create surfaces a unique-constraint violation on
// (tenant_id, posting_key) as shared.ErrAlreadyExists.
type GormPostingRepository struct {
	db *gorm.DB
}

// NewGormPostingRepository creates a new GormPostingRepository.
func NewGormPostingRepository(db *gorm.DB) *GormPostingRepository {
	return &GormPostingRepository{db: db}
}

func (r *GormPostingRepository) Create(ctx context.Context, posting *stock.StockPosting) error {
	if err := r.db.WithContext(ctx).Create(posting).Error; err != nil {
		if isUniqueViolation(err) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *GormPostingRepository) Exists(ctx context.Context, tenantID uuid.UUID, postingKey string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&stock.StockPosting{}).
		Where("tenant_id = ? AND posting_key = ?", tenantID, postingKey).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyPage applies pagination and ordering the way
// GormProductRepository.applyFilter does, without its search, Filters map
// or default ordering (the stock repositories take their predicates as explicit parameters
// instead of a generic filter map).
func applyPage(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	if filter.OrderBy != "" {
		dir := "ASC"
		if filter.OrderDir == "desc" || filter.OrderDir == "DESC" {
			dir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + dir)
	}
	return query
}

// isUniqueViolation reports whether err is a Postgres unique_violation
// (SQLSTATE 23505), the signal every GetOrCreate race and the posting
// idempotency gate keys off of.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
