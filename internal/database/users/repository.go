// Package users provides database operations for accounts.
//
// # Usage
//
//	repo := users.NewRepository(db)
//	user, err := repo.GetByUsername(ctx, "jane_smith")
package users

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/mrlokans/bookhive/internal/database"
	"github.com/mrlokans/bookhive/internal/entities"
	"github.com/mrlokans/bookhive/internal/errs"
)

const usernameTakenMsg = "username already exists"

// Repository handles all user database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new users repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns every user ordered by ID.
func (r *Repository) List(ctx context.Context) ([]entities.User, error) {
	var users []entities.User
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (r *Repository) GetByID(ctx context.Context, id uint) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, database.NotFound(err, "user not found")
	}
	return &user, nil
}

func (r *Repository) GetByUsername(ctx context.Context, username string) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, database.NotFound(err, "user not found")
	}
	return &user, nil
}

func (r *Repository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entities.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("check user exists: %w", err)
	}
	return count > 0, nil
}

// UsernameTaken reports whether another user (not exceptID) holds the username.
func (r *Repository) UsernameTaken(ctx context.Context, username string, exceptID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.User{}).
		Where("username = ? AND id <> ?", username, exceptID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check username: %w", err)
	}
	return count > 0, nil
}

// Create inserts the user. A duplicate username yields errs.Conflict.
func (r *Repository) Create(ctx context.Context, user *entities.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return database.TranslateWriteError(err, usernameTakenMsg)
	}
	return nil
}

// Update persists all mutable fields of the user.
func (r *Repository) Update(ctx context.Context, user *entities.User) error {
	err := r.db.WithContext(ctx).Model(user).Select(
		"username", "email", "password_hash", "is_librarian", "profile_image", "updated_at",
	).Updates(user).Error
	if err != nil {
		return database.TranslateWriteError(err, usernameTakenMsg)
	}
	return nil
}

// Delete removes the user. Reviews and reading statuses cascade.
func (r *Repository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&entities.User{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.New(errs.NotFound, "user not found")
	}
	return nil
}
