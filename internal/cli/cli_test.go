package cli

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mrlokans/bookhive/internal/config"
	"github.com/mrlokans/bookhive/internal/database"
	"github.com/mrlokans/bookhive/internal/entities"
)

// useTempDatabase points the configuration at a fresh SQLite file.
func useTempDatabase(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bookhive.db")
	t.Setenv("DATABASE_DRIVER", config.DriverSQLite)
	t.Setenv("DATABASE_PATH", path)
	t.Setenv("AUTH_BCRYPT_COST", "4")
	t.Setenv("LOG_LEVEL", "error")
	return path
}

func openDatabase(t *testing.T, path string) *database.Database {
	t.Helper()
	db, err := database.NewDatabase(config.Database{Driver: config.DriverSQLite, Path: path}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func stubPasswords(answers ...string) func(string) (string, error) {
	return func(string) (string, error) {
		if len(answers) == 0 {
			return "", errors.New("no more input")
		}
		next := answers[0]
		answers = answers[1:]
		return next, nil
	}
}

func TestRootCommand_Subcommands(t *testing.T) {
	root := NewRootCommand("1.2.3")

	names := make([]string, 0)
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"serve", "migrate", "seed", "create-user"})
	assert.Equal(t, "1.2.3", root.Version)
}

func TestMigrateAndSeed(t *testing.T) {
	path := useTempDatabase(t)

	var out bytes.Buffer
	root := NewRootCommand("test")
	root.SetOut(&out)
	root.SetArgs([]string{"migrate"})
	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "Database is up to date")

	out.Reset()
	root = NewRootCommand("test")
	root.SetOut(&out)
	root.SetArgs([]string{"seed"})
	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "Users:     3 new")

	out.Reset()
	root = NewRootCommand("test")
	root.SetOut(&out)
	root.SetArgs([]string{"seed"})
	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "Books:     0 new")

	db := openDatabase(t, path)
	var books int64
	require.NoError(t, db.DB.Model(&entities.Book{}).Count(&books).Error)
	assert.Equal(t, int64(3), books)
}

func TestCreateUserCommand(t *testing.T) {
	t.Run("creates a librarian", func(t *testing.T) {
		path := useTempDatabase(t)

		cmd := NewCreateUserCommand()
		cmd.readPassword = stubPasswords("s3cretpass", "s3cretpass")
		var out bytes.Buffer
		c := cmd.Cobra()
		c.SetOut(&out)
		c.SetArgs([]string{"--username", "head_librarian", "--email", "head@library.com", "--librarian"})

		require.NoError(t, c.Execute())
		assert.Contains(t, out.String(), `Created librarian "head_librarian"`)

		db := openDatabase(t, path)
		var user entities.User
		require.NoError(t, db.DB.Where("username = ?", "head_librarian").First(&user).Error)
		assert.True(t, user.IsLibrarian)
		assert.NotEqual(t, "s3cretpass", user.PasswordHash)
	})

	t.Run("rejects mismatched confirmation", func(t *testing.T) {
		useTempDatabase(t)

		cmd := NewCreateUserCommand()
		cmd.readPassword = stubPasswords("s3cretpass", "different")
		c := cmd.Cobra()
		c.SetArgs([]string{"--username", "reader"})
		c.SilenceUsage = true
		c.SilenceErrors = true

		assert.EqualError(t, c.Execute(), "passwords do not match")
	})

	t.Run("rejects short passwords before prompting again", func(t *testing.T) {
		cmd := NewCreateUserCommand()
		cmd.readPassword = stubPasswords("short")

		_, err := cmd.promptPassword()
		assert.Error(t, err)
	})

	t.Run("requires a username", func(t *testing.T) {
		cmd := NewCreateUserCommand()
		cmd.readPassword = stubPasswords("s3cretpass", "s3cretpass")
		c := cmd.Cobra()
		c.SetArgs([]string{})
		c.SilenceUsage = true
		c.SilenceErrors = true

		assert.Error(t, c.Execute())
	})
}
