// Package seed loads a small sample library: three accounts, three books and
// a few reviews and reading statuses.
package seed

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mrlokans/bookhive/internal/auth"
	"github.com/mrlokans/bookhive/internal/entities"
)

type seedUser struct {
	Username    string
	Email       string
	Password    string
	IsLibrarian bool
}

type seedReview struct {
	Username string
	Title    string
	Rating   int
	Text     string
}

type seedFavorite struct {
	Username string
	Title    string
	Status   entities.ReadingStatus
}

var seedUsers = []seedUser{
	{Username: "john_doe", Email: "john@example.com", Password: "password123"},
	{Username: "jane_smith", Email: "jane@example.com", Password: "password123"},
	{Username: "admin_lib", Email: "admin@library.com", Password: "admin123", IsLibrarian: true},
}

var seedBooks = []entities.Book{
	{
		Title:           "The Great Gatsby",
		Author:          "F. Scott Fitzgerald",
		Description:     "A story of decadence and excess.",
		Genre:           "FICTION",
		PublishedDate:   entities.NewDate(1925, 4, 10),
		AvailableCopies: 3,
	},
	{
		Title:           "1984",
		Author:          "George Orwell",
		Description:     "A dystopian novel.",
		Genre:           "FICTION",
		PublishedDate:   entities.NewDate(1949, 6, 8),
		AvailableCopies: 2,
	},
	{
		Title:           "Pride and Prejudice",
		Author:          "Jane Austen",
		Description:     "A romantic novel of manners.",
		Genre:           "FICTION",
		PublishedDate:   entities.NewDate(1813, 1, 28),
		AvailableCopies: 5,
	},
}

var seedReviews = []seedReview{
	{Username: "john_doe", Title: "The Great Gatsby", Rating: 5, Text: "A masterpiece of American literature!"},
	{Username: "jane_smith", Title: "1984", Rating: 4, Text: "A chilling and thought-provoking read."},
}

var seedFavorites = []seedFavorite{
	{Username: "john_doe", Title: "The Great Gatsby", Status: entities.CurrentlyReading},
	{Username: "john_doe", Title: "1984", Status: entities.WantToRead},
	{Username: "jane_smith", Title: "Pride and Prejudice", Status: entities.AlreadyRead},
}

// Result counts the rows inserted by one Run.
type Result struct {
	Users     int
	Books     int
	Reviews   int
	Favorites int
}

// Run inserts the sample data in one transaction. Rows that already exist
// (matched by username, title or user/book pair) are left untouched, so Run
// can be repeated safely.
func Run(ctx context.Context, db *gorm.DB, bcryptCost int, log *zap.Logger) (Result, error) {
	var res Result

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		userIDs := make(map[string]uint, len(seedUsers))
		for _, u := range seedUsers {
			id, created, err := ensureUser(tx, u, bcryptCost)
			if err != nil {
				return err
			}
			userIDs[u.Username] = id
			res.Users += count(created)
		}

		bookIDs := make(map[string]uint, len(seedBooks))
		for _, b := range seedBooks {
			book := b
			created, err := findOrCreate(tx, &book, entities.Book{Title: b.Title})
			if err != nil {
				return fmt.Errorf("seed book %q: %w", b.Title, err)
			}
			bookIDs[b.Title] = book.ID
			res.Books += count(created)
		}

		for _, r := range seedReviews {
			pair := entities.Review{UserID: userIDs[r.Username], BookID: bookIDs[r.Title]}
			review := pair
			review.Rating = r.Rating
			review.ReviewText = r.Text
			created, err := findOrCreate(tx, &review, pair)
			if err != nil {
				return fmt.Errorf("seed review by %s: %w", r.Username, err)
			}
			res.Reviews += count(created)
		}

		for _, f := range seedFavorites {
			pair := entities.FavoriteStatus{UserID: userIDs[f.Username], BookID: bookIDs[f.Title]}
			fav := pair
			fav.ReadingStatus = f.Status
			created, err := findOrCreate(tx, &fav, pair)
			if err != nil {
				return fmt.Errorf("seed favorite for %s: %w", f.Username, err)
			}
			res.Favorites += count(created)
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	log.Info("seeded database",
		zap.Int("users", res.Users),
		zap.Int("books", res.Books),
		zap.Int("reviews", res.Reviews),
		zap.Int("favorites", res.Favorites))
	return res, nil
}

func ensureUser(tx *gorm.DB, u seedUser, bcryptCost int) (uint, bool, error) {
	var existing entities.User
	result := tx.Where("username = ?", u.Username).Limit(1).Find(&existing)
	if result.Error != nil {
		return 0, false, fmt.Errorf("seed user %s: %w", u.Username, result.Error)
	}
	if result.RowsAffected > 0 {
		return existing.ID, false, nil
	}

	hash, err := auth.HashPassword(u.Password, bcryptCost)
	if err != nil {
		return 0, false, err
	}
	user := entities.User{
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: hash,
		IsLibrarian:  u.IsLibrarian,
	}
	if err := tx.Create(&user).Error; err != nil {
		return 0, false, fmt.Errorf("seed user %s: %w", u.Username, err)
	}
	return user.ID, true, nil
}

// findOrCreate loads the row matching where into row, inserting row when
// there is none. It reports whether an insert happened.
func findOrCreate[T any](tx *gorm.DB, row *T, where T) (bool, error) {
	result := tx.Where(&where).Limit(1).Find(row)
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected > 0 {
		return false, nil
	}
	return true, tx.Create(row).Error
}

func count(created bool) int {
	if created {
		return 1
	}
	return 0
}
