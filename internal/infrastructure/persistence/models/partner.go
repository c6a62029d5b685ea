package models

import (
	"github.com/erp/stockledger/internal/domain/partner"
	"github.com/erp/stockledger/internal/domain/shared"
)

// WarehouseModel is the persistence model for the Warehouse domain entity.
type WarehouseModel struct {
	TenantAggregateModel
	Code        string                  `gorm:"type:varchar(50);not null;uniqueIndex:idx_warehouse_tenant_code,priority:2"`
	Name        string                  `gorm:"type:varchar(200);not null"`
	ShortName   string                  `gorm:"type:varchar(100)"`
	Type        partner.WarehouseType   `gorm:"type:varchar(20);not null;default:'physical'"`
	Status      partner.WarehouseStatus `gorm:"type:varchar(20);not null;default:'active'"`
	ContactName string                  `gorm:"type:varchar(100)"`
	Phone       string                  `gorm:"type:varchar(50);index"`
	Email       string                  `gorm:"type:varchar(200)"`
	Address     string                  `gorm:"type:text"`
	City        string                  `gorm:"type:varchar(100)"`
	Province    string                  `gorm:"type:varchar(100)"`
	PostalCode  string                  `gorm:"type:varchar(20)"`
	Country     string                  `gorm:"type:varchar(100);default:'中国'"`
	IsDefault   bool                    `gorm:"not null;default:false"`
	Capacity    int                     `gorm:"not null;default:0"`
	Notes       string                  `gorm:"type:text"`
	SortOrder   int                     `gorm:"not null;default:0"`
	Attributes  string                  `gorm:"type:jsonb"`
}

// TableName returns the table name for GORM
func (WarehouseModel) TableName() string {
	return "warehouses"
}

// ToDomain converts the persistence model to a domain Warehouse entity.
func (m *WarehouseModel) ToDomain() *partner.Warehouse {
	return &partner.Warehouse{
		TenantAggregateRoot: shared.TenantAggregateRoot{
			BaseAggregateRoot: shared.BaseAggregateRoot{
				BaseEntity: shared.BaseEntity{
					ID:        m.ID,
					CreatedAt: m.CreatedAt,
					UpdatedAt: m.UpdatedAt,
				},
				Version: m.Version,
			},
			TenantID:  m.TenantID,
			CreatedBy: m.CreatedBy,
		},
		Code:        m.Code,
		Name:        m.Name,
		ShortName:   m.ShortName,
		Type:        m.Type,
		Status:      m.Status,
		ContactName: m.ContactName,
		Phone:       m.Phone,
		Email:       m.Email,
		Address:     m.Address,
		City:        m.City,
		Province:    m.Province,
		PostalCode:  m.PostalCode,
		Country:     m.Country,
		IsDefault:   m.IsDefault,
		Capacity:    m.Capacity,
		Notes:       m.Notes,
		SortOrder:   m.SortOrder,
		Attributes:  m.Attributes,
	}
}

// FromDomain populates the persistence model from a domain Warehouse entity.
func (m *WarehouseModel) FromDomain(w *partner.Warehouse) {
	m.FromDomainTenantAggregateRoot(w.TenantAggregateRoot)
	m.Code = w.Code
	m.Name = w.Name
	m.ShortName = w.ShortName
	m.Type = w.Type
	m.Status = w.Status
	m.ContactName = w.ContactName
	m.Phone = w.Phone
	m.Email = w.Email
	m.Address = w.Address
	m.City = w.City
	m.Province = w.Province
	m.PostalCode = w.PostalCode
	m.Country = w.Country
	m.IsDefault = w.IsDefault
	m.Capacity = w.Capacity
	m.Notes = w.Notes
	m.SortOrder = w.SortOrder
	m.Attributes = w.Attributes
}

// WarehouseModelFromDomain creates a new persistence model from a domain Warehouse entity.
func WarehouseModelFromDomain(w *partner.Warehouse) *WarehouseModel {
	m := &WarehouseModel{}
	m.FromDomain(w)
	return m
}
