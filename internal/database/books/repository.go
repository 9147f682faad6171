// Package books provides database operations for the book catalog.
//
// # Usage
//
//	repo := books.NewRepository(db)
//	fiction, err := repo.SearchByGenre(ctx, "fic")
package books

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/mrlokans/bookhive/internal/database"
	"github.com/mrlokans/bookhive/internal/entities"
)

// Repository handles all book database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns every book ordered by ID.
func (r *Repository) List(ctx context.Context) ([]entities.Book, error) {
	var books []entities.Book
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&books).Error; err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return books, nil
}

// GetByID returns errs.NotFound when no book has the ID.
func (r *Repository) GetByID(ctx context.Context, id uint) (*entities.Book, error) {
	var book entities.Book
	if err := r.db.WithContext(ctx).First(&book, id).Error; err != nil {
		return nil, database.NotFound(err, "book not found")
	}
	return &book, nil
}

// Exists reports whether a book with the ID exists.
func (r *Repository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entities.Book{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("check book exists: %w", err)
	}
	return count > 0, nil
}

// SearchByGenre matches query as a case-insensitive substring of the genre.
// An empty query matches every book.
func (r *Repository) SearchByGenre(ctx context.Context, query string) ([]entities.Book, error) {
	pattern := "%" + escapeLike(strings.ToLower(query)) + "%"
	var books []entities.Book
	err := r.db.WithContext(ctx).
		Where(`LOWER(genre) LIKE ? ESCAPE '\'`, pattern).
		Order("id ASC").
		Find(&books).Error
	if err != nil {
		return nil, fmt.Errorf("search books: %w", err)
	}
	return books, nil
}

// Create inserts the book and fills in its ID and timestamps.
func (r *Repository) Create(ctx context.Context, book *entities.Book) error {
	if err := r.db.WithContext(ctx).Create(book).Error; err != nil {
		return database.TranslateWriteError(err, "book already exists")
	}
	return nil
}

// escapeLike makes LIKE wildcards in user input match literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
