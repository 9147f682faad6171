package reading

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookhive/internal/database/books"
	"github.com/mrlokans/bookhive/internal/database/dbtest"
	"github.com/mrlokans/bookhive/internal/database/favorites"
	"github.com/mrlokans/bookhive/internal/database/users"
	"github.com/mrlokans/bookhive/internal/entities"
	"github.com/mrlokans/bookhive/internal/errs"
)

type recordingAuditor struct {
	mu      sync.Mutex
	actions []string
}

func (a *recordingAuditor) LogChange(_ uint, _ entities.AuditEventType, action, _ string, _ uint, _ string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.actions = append(a.actions, action)
}

func setup(t *testing.T) (*Service, *recordingAuditor, *entities.User, *entities.Book, *entities.Book) {
	db := dbtest.New(t)
	auditor := &recordingAuditor{}
	svc := NewService(favorites.NewRepository(db.DB), users.NewRepository(db.DB), books.NewRepository(db.DB), auditor)
	user := dbtest.CreateUser(t, db, "john_doe", false)
	gatsby := dbtest.CreateBook(t, db, "The Great Gatsby", "FICTION")
	orwell := dbtest.CreateBook(t, db, "1984", "DYSTOPIAN")
	return svc, auditor, user, gatsby, orwell
}

func TestParseStatus(t *testing.T) {
	status, err := ParseStatus("", entities.WantToRead)
	require.NoError(t, err)
	assert.Equal(t, entities.WantToRead, status)

	status, err = ParseStatus("currently_reading", entities.WantToRead)
	require.NoError(t, err)
	assert.Equal(t, entities.CurrentlyReading, status)

	_, err = ParseStatus("ABANDONED", entities.WantToRead)
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestService_AddUpdateList(t *testing.T) {
	ctx := context.Background()
	svc, auditor, user, gatsby, _ := setup(t)

	fav, err := svc.AddFavorite(ctx, user.ID, gatsby.ID, "")
	require.NoError(t, err)
	assert.Equal(t, entities.WantToRead, fav.ReadingStatus)
	require.NotNil(t, fav.BookDetails)
	assert.Equal(t, "The Great Gatsby", fav.BookDetails.Title)

	updated, err := svc.UpdateStatus(ctx, user.ID, gatsby.ID, entities.CurrentlyReading)
	require.NoError(t, err)
	assert.Equal(t, entities.CurrentlyReading, updated.ReadingStatus)

	list, err := svc.ListByUser(ctx, user.ID, "")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, gatsby.ID, list[0].BookID)
	assert.Equal(t, entities.CurrentlyReading, list[0].ReadingStatus)
	require.NotNil(t, list[0].BookDetails)
	assert.Equal(t, "FICTION", list[0].BookDetails.Genre)

	assert.Equal(t, []string{"favorite_add", "favorite_status_update"}, auditor.actions)
}

func TestService_AddFavoriteTwiceConflicts(t *testing.T) {
	ctx := context.Background()
	svc, _, user, gatsby, _ := setup(t)

	_, err := svc.AddFavorite(ctx, user.ID, gatsby.ID, entities.AlreadyRead)
	require.NoError(t, err)

	_, err = svc.AddFavorite(ctx, user.ID, gatsby.ID, entities.WantToRead)
	assert.ErrorIs(t, err, ErrAlreadyFavorite)
	assert.True(t, errors.Is(err, errs.Conflict))
}

func TestService_AddFavoriteErrors(t *testing.T) {
	ctx := context.Background()
	svc, _, user, gatsby, _ := setup(t)

	_, err := svc.AddFavorite(ctx, 999, gatsby.ID, "")
	assert.True(t, errors.Is(err, errs.NotFound))

	_, err = svc.AddFavorite(ctx, user.ID, 999, "")
	assert.True(t, errors.Is(err, errs.NotFound))

	_, err = svc.AddFavorite(ctx, user.ID, gatsby.ID, "FINISHED")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestService_UpdateStatusMissingPair(t *testing.T) {
	ctx := context.Background()
	svc, auditor, user, gatsby, _ := setup(t)

	_, err := svc.UpdateStatus(ctx, user.ID, gatsby.ID, entities.AlreadyRead)
	assert.True(t, errors.Is(err, errs.NotFound))

	_, err = svc.UpdateStatus(ctx, user.ID, gatsby.ID, "DONE")
	assert.ErrorIs(t, err, ErrInvalidStatus)
	assert.Empty(t, auditor.actions)
}

func TestService_AnyTransitionAllowed(t *testing.T) {
	ctx := context.Background()
	svc, _, user, gatsby, _ := setup(t)

	_, err := svc.AddFavorite(ctx, user.ID, gatsby.ID, entities.AlreadyRead)
	require.NoError(t, err)

	for _, status := range []entities.ReadingStatus{entities.WantToRead, entities.CurrentlyReading, entities.AlreadyRead, entities.WantToRead} {
		fav, err := svc.UpdateStatus(ctx, user.ID, gatsby.ID, status)
		require.NoError(t, err)
		assert.Equal(t, status, fav.ReadingStatus)
	}
}

func TestService_ListByStatus(t *testing.T) {
	ctx := context.Background()
	svc, _, user, gatsby, orwell := setup(t)

	_, err := svc.AddFavorite(ctx, user.ID, gatsby.ID, entities.AlreadyRead)
	require.NoError(t, err)
	_, err = svc.AddFavorite(ctx, user.ID, orwell.ID, entities.CurrentlyReading)
	require.NoError(t, err)

	read, err := svc.ListByStatus(ctx, user.ID, entities.AlreadyRead)
	require.NoError(t, err)
	require.Len(t, read, 1)
	assert.Equal(t, gatsby.ID, read[0].BookID)

	filtered, err := svc.ListByUser(ctx, user.ID, entities.CurrentlyReading)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, orwell.ID, filtered[0].BookID)

	_, err = svc.ListByStatus(ctx, user.ID, "")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	none, err := svc.ListByUser(ctx, 999, "")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestService_RemoveFavorite(t *testing.T) {
	ctx := context.Background()
	svc, _, user, gatsby, _ := setup(t)

	_, err := svc.AddFavorite(ctx, user.ID, gatsby.ID, "")
	require.NoError(t, err)

	require.NoError(t, svc.RemoveFavorite(ctx, user.ID, gatsby.ID))

	err = svc.RemoveFavorite(ctx, user.ID, gatsby.ID)
	assert.True(t, errors.Is(err, errs.NotFound))

	list, err := svc.ListByUser(ctx, user.ID, "")
	require.NoError(t, err)
	assert.Empty(t, list)
}
