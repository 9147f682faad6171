// Package reviews provides database operations for the review ledger.
//
// At most one review exists per (user, book); the unique index
// idx_reviews_user_book enforces it and Create reports errs.Conflict.
package reviews

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/mrlokans/bookhive/internal/database"
	"github.com/mrlokans/bookhive/internal/entities"
	"github.com/mrlokans/bookhive/internal/errs"
)

const duplicateMsg = "you have already reviewed this book"

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListByBook returns the reviews of a book, oldest first.
func (r *Repository) ListByBook(ctx context.Context, bookID uint) ([]entities.Review, error) {
	var reviews []entities.Review
	err := r.db.WithContext(ctx).Where("book_id = ?", bookID).Order("created_at ASC, id ASC").Find(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("list reviews by book: %w", err)
	}
	return reviews, nil
}

// ListByUser returns the reviews written by a user, oldest first.
func (r *Repository) ListByUser(ctx context.Context, userID uint) ([]entities.Review, error) {
	var reviews []entities.Review
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at ASC, id ASC").Find(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("list reviews by user: %w", err)
	}
	return reviews, nil
}

func (r *Repository) GetByID(ctx context.Context, id uint) (*entities.Review, error) {
	var review entities.Review
	if err := r.db.WithContext(ctx).First(&review, id).Error; err != nil {
		return nil, database.NotFound(err, "review not found")
	}
	return &review, nil
}

// Exists reports whether the user already reviewed the book.
func (r *Repository) Exists(ctx context.Context, userID, bookID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Review{}).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check review exists: %w", err)
	}
	return count > 0, nil
}

func (r *Repository) Create(ctx context.Context, review *entities.Review) error {
	if err := r.db.WithContext(ctx).Create(review).Error; err != nil {
		return database.TranslateWriteError(err, duplicateMsg)
	}
	return nil
}

// Update persists rating and text and bumps updated_at.
func (r *Repository) Update(ctx context.Context, review *entities.Review) error {
	err := r.db.WithContext(ctx).Model(review).
		Select("rating", "review_text", "updated_at").
		Updates(review).Error
	if err != nil {
		return database.TranslateWriteError(err, duplicateMsg)
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&entities.Review{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete review: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.New(errs.NotFound, "review not found")
	}
	return nil
}
