// Package favorites provides database operations for reading-status tracking.
//
// Rows live in the favorite_pages table, one per (user, book).
//
// # Usage
//
//	repo := favorites.NewRepository(db)
//	reading, err := repo.ListByUser(ctx, userID, entities.CurrentlyReading)
package favorites

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/bookhive/internal/database"
	"github.com/mrlokans/bookhive/internal/entities"
	"github.com/mrlokans/bookhive/internal/errs"
)

const notFoundMsg = "favorite not found"

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// favoriteRow is a favorite_pages row joined with its book's summary columns.
type favoriteRow struct {
	ID            uint
	UserID        uint
	BookID        uint
	ReadingStatus entities.ReadingStatus
	CreatedAt     time.Time
	Title         *string
	Author        *string
	Genre         *string
}

func (row favoriteRow) toEntity() entities.FavoriteStatus {
	fav := entities.FavoriteStatus{
		ID:            row.ID,
		UserID:        row.UserID,
		BookID:        row.BookID,
		ReadingStatus: row.ReadingStatus,
		CreatedAt:     row.CreatedAt,
	}
	if row.Title != nil {
		fav.BookDetails = &entities.BookDetails{Title: *row.Title, Author: deref(row.Author), Genre: deref(row.Genre)}
	}
	return fav
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// ListByUser returns the user's rows with book details attached. An empty
// status returns every row.
func (r *Repository) ListByUser(ctx context.Context, userID uint, status entities.ReadingStatus) ([]entities.FavoriteStatus, error) {
	query := r.db.WithContext(ctx).
		Table("favorite_pages AS f").
		Select("f.id, f.user_id, f.book_id, f.reading_status, f.created_at, b.title, b.author, b.genre").
		Joins("LEFT JOIN books b ON b.id = f.book_id").
		Where("f.user_id = ?", userID)
	if status != "" {
		query = query.Where("f.reading_status = ?", status)
	}

	var rows []favoriteRow
	if err := query.Order("f.created_at ASC, f.id ASC").Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}

	result := make([]entities.FavoriteStatus, 0, len(rows))
	for _, row := range rows {
		result = append(result, row.toEntity())
	}
	return result, nil
}

// Get returns the row for the pair or errs.NotFound.
func (r *Repository) Get(ctx context.Context, userID, bookID uint) (*entities.FavoriteStatus, error) {
	var fav entities.FavoriteStatus
	err := r.db.WithContext(ctx).Where("user_id = ? AND book_id = ?", userID, bookID).First(&fav).Error
	if err != nil {
		return nil, database.NotFound(err, notFoundMsg)
	}
	return &fav, nil
}

// Exists reports whether the pair already has a row.
func (r *Repository) Exists(ctx context.Context, userID, bookID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.FavoriteStatus{}).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check favorite exists: %w", err)
	}
	return count > 0, nil
}

// Create inserts a row. A second row for the pair yields errs.Conflict.
func (r *Repository) Create(ctx context.Context, fav *entities.FavoriteStatus) error {
	if err := r.db.WithContext(ctx).Create(fav).Error; err != nil {
		return database.TranslateWriteError(err, "book is already in favorites")
	}
	return nil
}

// UpdateStatus overwrites the status of an existing row and returns it.
func (r *Repository) UpdateStatus(ctx context.Context, userID, bookID uint, status entities.ReadingStatus) (*entities.FavoriteStatus, error) {
	result := r.db.WithContext(ctx).Model(&entities.FavoriteStatus{}).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		Update("reading_status", status)
	if result.Error != nil {
		return nil, database.TranslateWriteError(result.Error, "")
	}
	if result.RowsAffected == 0 {
		return nil, errs.New(errs.NotFound, notFoundMsg)
	}
	return r.Get(ctx, userID, bookID)
}

func (r *Repository) Delete(ctx context.Context, userID, bookID uint) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		Delete(&entities.FavoriteStatus{})
	if result.Error != nil {
		return fmt.Errorf("delete favorite: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.New(errs.NotFound, notFoundMsg)
	}
	return nil
}
