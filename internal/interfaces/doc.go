// Package interfaces documents the seams between BookHive's layers.
//
// # Layers
//
// Requests flow through three layers, each depending only on interfaces
// declared by the layer that consumes it:
//
//   - HTTP controllers (internal/http) call CatalogService, AccountService,
//     ReviewService, ReadingService and ActivityLog.
//   - Domain services (internal/catalog, internal/auth, internal/reviews,
//     internal/reading, internal/audit) call narrow store interfaces such as
//     catalog.BookStore or reviews.Checker.
//   - Repositories (internal/database/...) implement those stores with gorm.
//
// Background work goes through tasks.Client (backlite queues) fed by
// scheduler.MaintenanceScheduler, and audit events are mirrored through an
// events.Publisher.
//
// # Adding a New Store
//
//  1. Create a sub-package under internal/database/ with a gorm Repository:
//
//     type Repository struct { db *gorm.DB }
//
//     func NewRepository(db *gorm.DB) *Repository
//
//  2. Declare the interface where it is consumed, listing only the methods
//     that consumer calls.
//
//  3. Add a compile-time check to checks.go:
//
//     var _ loans.Store = (*loansrepo.Repository)(nil)
//
//  4. Wire the repository in internal/entrypoint.
//
// # Compile-Time Interface Checks
//
// Every implementation is checked against the interfaces it is wired to:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// A missing or mistyped method then fails the build instead of the wiring.
package interfaces
