package stock

import (
	"time"

	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/google/uuid"
)

// SerialStatus is the lifecycle state of a uniquely identified stock unit.
type SerialStatus string

const (
	SerialStatusAvailable SerialStatus = "AVAILABLE"
	SerialStatusIssued    SerialStatus = "ISSUED"
)

// Serial is a uniquely identified stock unit. A serial exists globally at
// most once; an AVAILABLE serial has exactly one current location, an
// ISSUED serial has none.
type Serial struct {
	shared.TenantAggregateRoot
	ItemID      uuid.UUID  `gorm:"type:uuid;not null;index"`
	SerialNo    string     `gorm:"type:varchar(100);not null;uniqueIndex:idx_serial_tenant_no,priority:2"`
	Status      SerialStatus `gorm:"type:varchar(20);not null;default:'AVAILABLE'"`
	WarehouseID *uuid.UUID `gorm:"type:uuid;index"`
	LocationID  *uuid.UUID `gorm:"type:uuid;index"`
	BatchID     *uuid.UUID `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (Serial) TableName() string {
	return "stock_serials"
}

// NewSerial creates a serial in AVAILABLE status at the given bin.
func NewSerial(tenantID, itemID uuid.UUID, serialNo string, warehouseID, locationID uuid.UUID, batchID *uuid.UUID) (*Serial, error) {
	if serialNo == "" {
		return nil, shared.NewDomainError("INVALID_SERIAL_NO", "serial number cannot be empty")
	}
	return &Serial{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ItemID:              itemID,
		SerialNo:            serialNo,
		Status:              SerialStatusAvailable,
		WarehouseID:         &warehouseID,
		LocationID:          &locationID,
		BatchID:             batchID,
	}, nil
}

// Issue transitions the serial to ISSUED and clears its location. It fails
// if the serial is not AVAILABLE at the given source bin.
func (s *Serial) Issue(warehouseID, locationID uuid.UUID) error {
	if s.Status != SerialStatusAvailable {
		return ErrSerialNotAvailable
	}
	if s.WarehouseID == nil || *s.WarehouseID != warehouseID || s.LocationID == nil || *s.LocationID != locationID {
		return ErrSerialNotAvailable
	}
	s.Status = SerialStatusIssued
	s.WarehouseID = nil
	s.LocationID = nil
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// Relocate moves an AVAILABLE serial to a new bin without changing status,
// used by transferStock.
func (s *Serial) Relocate(warehouseID, locationID uuid.UUID, batchID *uuid.UUID) error {
	if s.Status != SerialStatusAvailable {
		return ErrSerialNotAvailable
	}
	s.WarehouseID = &warehouseID
	s.LocationID = &locationID
	s.BatchID = batchID
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// Reactivate transitions an ISSUED serial back to AVAILABLE at a bin, used
// by cancelDeliveryNote.
func (s *Serial) Reactivate(warehouseID, locationID uuid.UUID, batchID *uuid.UUID) {
	s.Status = SerialStatusAvailable
	s.WarehouseID = &warehouseID
	s.LocationID = &locationID
	s.BatchID = batchID
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}
