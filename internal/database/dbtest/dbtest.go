// Package dbtest opens migrated SQLite databases for tests.
package dbtest

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mrlokans/bookhive/internal/config"
	"github.com/mrlokans/bookhive/internal/database"
	"github.com/mrlokans/bookhive/internal/entities"
)

// New returns a fully migrated database in the test's temp dir. It is closed on cleanup.
func New(t *testing.T) *database.Database {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	path := filepath.Join(t.TempDir(), name+".db")

	db, err := database.NewDatabase(config.Database{Driver: config.DriverSQLite, Path: path}, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, db.Migrate(context.Background()))

	t.Cleanup(func() {
		_ = db.Close()
	})
	return db
}

// CreateUser inserts a user with a placeholder password hash.
func CreateUser(t *testing.T, db *database.Database, username string, librarian bool) *entities.User {
	t.Helper()
	user := &entities.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "not-a-real-hash",
		IsLibrarian:  librarian,
	}
	require.NoError(t, db.DB.Create(user).Error)
	return user
}

// CreateBook inserts a book with the given title and genre.
func CreateBook(t *testing.T, db *database.Database, title, genre string) *entities.Book {
	t.Helper()
	book := &entities.Book{
		Title:           title,
		Author:          "Test Author",
		Description:     "A test book.",
		Genre:           genre,
		PublishedDate:   entities.NewDate(2001, 1, 1),
		AvailableCopies: 2,
	}
	require.NoError(t, db.DB.Create(book).Error)
	return book
}
