package partner

import (
	"strings"
	"time"

	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/google/uuid"
)

// Location is a node in a warehouse's location tree. Locations are used as
// the third dimension (alongside item and batch) of bin-level balances.
type Location struct {
	shared.TenantAggregateRoot
	WarehouseID uuid.UUID  `gorm:"type:uuid;not null;index;uniqueIndex:idx_location_warehouse_code,priority:2"`
	ParentID    *uuid.UUID `gorm:"type:uuid;index"`
	Code        string     `gorm:"type:varchar(50);not null;uniqueIndex:idx_location_warehouse_code,priority:3"`
	Name        string     `gorm:"type:varchar(200);not null"`
	Path        string     `gorm:"type:varchar(500);not null;index"` // slash-joined code chain from the warehouse root
	IsPickable  bool       `gorm:"not null;default:false"`
	IsPutaway   bool       `gorm:"not null;default:false"`
	IsStaging   bool       `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (Location) TableName() string {
	return "locations"
}

// Well-known location codes seeded on every warehouse.
const (
	LocationCodeRoot      = "ROOT"
	LocationCodeReceiving = "RECEIVING"
	LocationCodePicking   = "PICKING"
	LocationCodeStaging   = "STAGING"
)

// NewRootLocation creates the top-level ROOT location for a warehouse.
func NewRootLocation(tenantID, warehouseID uuid.UUID) (*Location, error) {
	return newLocation(tenantID, warehouseID, nil, LocationCodeRoot, "Root", LocationCodeRoot, false, false, false)
}

// NewChildLocation creates a location nested under parent, deriving Path from
// the parent's Path plus this location's own code.
func NewChildLocation(tenantID, warehouseID uuid.UUID, parent *Location, code, name string, pickable, putaway, staging bool) (*Location, error) {
	if parent == nil {
		return nil, shared.NewDomainError("INVALID_PARENT", "child location requires a parent")
	}
	path := parent.Path + "/" + strings.ToUpper(code)
	return newLocation(tenantID, warehouseID, &parent.ID, code, name, path, pickable, putaway, staging)
}

func newLocation(tenantID, warehouseID uuid.UUID, parentID *uuid.UUID, code, name, path string, pickable, putaway, staging bool) (*Location, error) {
	if err := validateLocationCode(code); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "location name cannot be empty")
	}

	loc := &Location{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		WarehouseID:         warehouseID,
		ParentID:            parentID,
		Code:                strings.ToUpper(code),
		Name:                name,
		Path:                path,
		IsPickable:          pickable,
		IsPutaway:           putaway,
		IsStaging:           staging,
	}

	return loc, nil
}

// Rename updates the location's display name.
func (l *Location) Rename(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "location name cannot be empty")
	}
	l.Name = name
	l.UpdatedAt = time.Now()
	l.IncrementVersion()
	return nil
}

func validateLocationCode(code string) error {
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "location code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "location code cannot exceed 50 characters")
	}
	for _, r := range code {
		if !((r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-') {
			return shared.NewDomainError("INVALID_CODE", "location code can only contain letters, numbers, underscores, and hyphens")
		}
	}
	return nil
}
