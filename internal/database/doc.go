// Package database provides the data access layer for the application.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup (sqlite or postgres), goose migrations
//	├── errors.go        # Constraint violation detection and translation
//	├── migrations/      # Embedded SQL schema per dialect
//	├── books/           # Catalog records
//	├── users/           # Accounts
//	├── reviews/         # Review ledger
//	├── favorites/       # Reading-status rows (table favorite_pages)
//	├── audit/           # Audit trail
//	└── dbtest/          # Migrated throwaway databases for tests
//
// # Using Sub-packages
//
// Each sub-package provides a Repository type over an explicit *gorm.DB handle:
//
//	db, err := database.NewDatabase(cfg.Database, log)
//	if err := db.Migrate(ctx); err != nil { ... }
//
//	booksRepo := books.NewRepository(db.DB)
//	reviewsRepo := reviews.NewRepository(db.DB)
//
//	book, err := booksRepo.GetByID(ctx, 1)
//
// # Errors
//
// Repositories return errs.NotFound for missing rows and errs.Conflict when a
// unique index rejects a write, so callers never inspect driver errors.
//
// # Referential integrity
//
// Reviews and favorite_pages reference users and books with ON DELETE CASCADE.
// SQLite connections are opened with _foreign_keys=1 so the cascade applies there too.
package database
