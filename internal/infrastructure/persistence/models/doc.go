// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer free
// from ORM concerns.
//
// Structure:
// - base.go: BaseModel shared by aggregates with timestamps
// - catalog.go: shops, categories, products, listings and parameters
// - identity.go: users, contacts and email tokens
// - trade.go: orders and order items
//
// The tags mirror migrations/000001_init.up.sql so that AutoMigrate in tests
// produces an equivalent schema.
package models
