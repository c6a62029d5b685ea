// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer pure and free
// from ORM concerns.
//
// Key Principles:
// 1. Domain entities should be free of GORM tags and infrastructure concerns
// 2. Persistence models contain all GORM annotations and table mappings
// 3. Mappers convert between domain entities and persistence models
// 4. Repositories use persistence models for database operations
//
// Structure:
// - base.go: Base persistence models (BaseModel, TenantAggregateModel, etc.)
// - catalog.go: ProductUnitModel, the UOM master the stock engine resolves
// - partner.go: WarehouseModel, the warehouse master the stock engine resolves
//
// The stock, ledger, and voucher domain types carry their own GORM tags and
// TableName methods and are persisted directly — this package only exists
// for the two masters (item UOM, warehouse) that predate those domains and
// still need a translation layer.
package models
