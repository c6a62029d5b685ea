package models

import (
	"time"

	"github.com/erp/stockledger/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductUnitModel is the persistence model for the ProductUnit entity.
type ProductUnitModel struct {
	ID                    uuid.UUID       `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	TenantID              uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID             uuid.UUID       `gorm:"type:uuid;not null;index;uniqueIndex:idx_product_unit_code,priority:2"`
	UnitCode              string          `gorm:"type:varchar(20);not null;uniqueIndex:idx_product_unit_code,priority:3"`
	UnitName              string          `gorm:"type:varchar(50);not null"`
	ConversionRate        decimal.Decimal `gorm:"type:decimal(18,6);not null"`
	DefaultPurchasePrice  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	DefaultSellingPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	IsDefaultPurchaseUnit bool            `gorm:"not null;default:false"`
	IsDefaultSalesUnit    bool            `gorm:"not null;default:false"`
	SortOrder             int             `gorm:"not null;default:0"`
	CreatedAt             time.Time       `gorm:"not null;autoCreateTime"`
	UpdatedAt             time.Time       `gorm:"not null;autoUpdateTime"`
}

// TableName returns the table name for GORM
func (ProductUnitModel) TableName() string {
	return "product_units"
}

// ToDomain converts the persistence model to a domain ProductUnit entity.
func (m *ProductUnitModel) ToDomain() *catalog.ProductUnit {
	return &catalog.ProductUnit{
		ID:                    m.ID,
		TenantID:              m.TenantID,
		ProductID:             m.ProductID,
		UnitCode:              m.UnitCode,
		UnitName:              m.UnitName,
		ConversionRate:        m.ConversionRate,
		DefaultPurchasePrice:  m.DefaultPurchasePrice,
		DefaultSellingPrice:   m.DefaultSellingPrice,
		IsDefaultPurchaseUnit: m.IsDefaultPurchaseUnit,
		IsDefaultSalesUnit:    m.IsDefaultSalesUnit,
		SortOrder:             m.SortOrder,
		CreatedAt:             m.CreatedAt,
		UpdatedAt:             m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain ProductUnit entity.
func (m *ProductUnitModel) FromDomain(pu *catalog.ProductUnit) {
	m.ID = pu.ID
	m.TenantID = pu.TenantID
	m.ProductID = pu.ProductID
	m.UnitCode = pu.UnitCode
	m.UnitName = pu.UnitName
	m.ConversionRate = pu.ConversionRate
	m.DefaultPurchasePrice = pu.DefaultPurchasePrice
	m.DefaultSellingPrice = pu.DefaultSellingPrice
	m.IsDefaultPurchaseUnit = pu.IsDefaultPurchaseUnit
	m.IsDefaultSalesUnit = pu.IsDefaultSalesUnit
	m.SortOrder = pu.SortOrder
	m.CreatedAt = pu.CreatedAt
	m.UpdatedAt = pu.UpdatedAt
}

// ProductUnitModelFromDomain creates a new persistence model from a domain ProductUnit entity.
func ProductUnitModelFromDomain(pu *catalog.ProductUnit) *ProductUnitModel {
	m := &ProductUnitModel{}
	m.FromDomain(pu)
	return m
}
