package reviews

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookhive/internal/database"
	"github.com/mrlokans/bookhive/internal/database/books"
	"github.com/mrlokans/bookhive/internal/database/dbtest"
	reviewsrepo "github.com/mrlokans/bookhive/internal/database/reviews"
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

type fixture struct {
	svc     *Service
	db      *database.Database
	auditor *recordingAuditor
	author  *entities.User
	other   *entities.User
	book    *entities.Book
}

func setup(t *testing.T) fixture {
	db := dbtest.New(t)
	auditor := &recordingAuditor{}
	return fixture{
		svc:     NewService(reviewsrepo.NewRepository(db.DB), users.NewRepository(db.DB), books.NewRepository(db.DB), auditor),
		db:      db,
		auditor: auditor,
		author:  dbtest.CreateUser(t, db, "john_doe", false),
		other:   dbtest.CreateUser(t, db, "jane_smith", false),
		book:    dbtest.CreateBook(t, db, "The Great Gatsby", "FICTION"),
	}
}

func intPtr(v int) *int       { return &v }
func strPtr(s string) *string { return &s }

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("second review of the same book is a conflict", func(t *testing.T) {
		f := setup(t)

		review, err := f.svc.Create(ctx, f.author.ID, f.book.ID, 5, "great")
		require.NoError(t, err)
		assert.NotZero(t, review.ID)
		assert.Equal(t, 5, review.Rating)
		assert.Equal(t, "great", review.ReviewText)

		_, err = f.svc.Create(ctx, f.author.ID, f.book.ID, 3, "again")
		assert.ErrorIs(t, err, ErrAlreadyReviewed)
		assert.True(t, errors.Is(err, errs.Conflict))

		list, err := f.svc.ListByBook(ctx, f.book.ID)
		require.NoError(t, err)
		assert.Len(t, list, 1)
		assert.Equal(t, []string{"review_create"}, f.auditor.actions)
	})

	t.Run("other users can review the same book", func(t *testing.T) {
		f := setup(t)

		_, err := f.svc.Create(ctx, f.author.ID, f.book.ID, 5, "great")
		require.NoError(t, err)
		_, err = f.svc.Create(ctx, f.other.ID, f.book.ID, 2, "meh")
		require.NoError(t, err)

		list, err := f.svc.ListByBook(ctx, f.book.ID)
		require.NoError(t, err)
		assert.Len(t, list, 2)
	})

	tests := []struct {
		name     string
		userID   uint
		bookID   func(f fixture) uint
		rating   int
		text     string
		wantKind errs.Kind
	}{
		{name: "unknown book", userID: 1, bookID: func(fixture) uint { return 999 }, rating: 4, wantKind: errs.NotFound},
		{name: "unknown user", userID: 999, bookID: func(f fixture) uint { return f.book.ID }, rating: 4, wantKind: errs.NotFound},
		{name: "rating too low", userID: 1, bookID: func(f fixture) uint { return f.book.ID }, rating: 0, wantKind: errs.Validation},
		{name: "rating too high", userID: 1, bookID: func(f fixture) uint { return f.book.ID }, rating: 6, wantKind: errs.Validation},
		{name: "text too long", userID: 1, bookID: func(f fixture) uint { return f.book.ID }, rating: 3, text: strings.Repeat("x", maxReviewTextLength+1), wantKind: errs.Validation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setup(t)
			_, err := f.svc.Create(ctx, tt.userID, tt.bookID(f), tt.rating, tt.text)
			require.Error(t, err)
			assert.Equal(t, tt.wantKind, errs.KindOf(err))
			assert.Empty(t, f.auditor.actions)
		})
	}
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("author updates rating and text", func(t *testing.T) {
		f := setup(t)
		review, err := f.svc.Create(ctx, f.author.ID, f.book.ID, 5, "great")
		require.NoError(t, err)

		updated, err := f.svc.Update(ctx, review.ID, f.author.ID, Patch{Rating: intPtr(4), ReviewText: strPtr("still good")})
		require.NoError(t, err)
		assert.Equal(t, 4, updated.Rating)
		assert.Equal(t, "still good", updated.ReviewText)

		list, err := f.svc.ListByUser(ctx, f.author.ID)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, 4, list[0].Rating)
		assert.Equal(t, "still good", list[0].ReviewText)
	})

	t.Run("partial patch keeps other fields", func(t *testing.T) {
		f := setup(t)
		review, err := f.svc.Create(ctx, f.author.ID, f.book.ID, 5, "great")
		require.NoError(t, err)

		updated, err := f.svc.Update(ctx, review.ID, f.author.ID, Patch{Rating: intPtr(2)})
		require.NoError(t, err)
		assert.Equal(t, "great", updated.ReviewText)
	})

	t.Run("non-author is forbidden", func(t *testing.T) {
		f := setup(t)
		review, err := f.svc.Create(ctx, f.author.ID, f.book.ID, 5, "great")
		require.NoError(t, err)

		_, err = f.svc.Update(ctx, review.ID, f.other.ID, Patch{Rating: intPtr(1)})
		assert.ErrorIs(t, err, ErrNotAuthorEdit)
		assert.True(t, errors.Is(err, errs.Forbidden))
	})

	t.Run("invalid rating", func(t *testing.T) {
		f := setup(t)
		review, err := f.svc.Create(ctx, f.author.ID, f.book.ID, 5, "great")
		require.NoError(t, err)

		_, err = f.svc.Update(ctx, review.ID, f.author.ID, Patch{Rating: intPtr(9)})
		assert.ErrorIs(t, err, ErrRatingRange)
	})

	t.Run("missing review", func(t *testing.T) {
		f := setup(t)
		_, err := f.svc.Update(ctx, 999, f.author.ID, Patch{})
		assert.True(t, errors.Is(err, errs.NotFound))
	})
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("non-author is forbidden", func(t *testing.T) {
		f := setup(t)
		review, err := f.svc.Create(ctx, f.author.ID, f.book.ID, 5, "great")
		require.NoError(t, err)

		err = f.svc.Delete(ctx, review.ID, f.other.ID)
		assert.ErrorIs(t, err, ErrNotAuthorDelete)

		list, err := f.svc.ListByBook(ctx, f.book.ID)
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})

	t.Run("author deletes", func(t *testing.T) {
		f := setup(t)
		review, err := f.svc.Create(ctx, f.author.ID, f.book.ID, 5, "great")
		require.NoError(t, err)

		require.NoError(t, f.svc.Delete(ctx, review.ID, f.author.ID))

		list, err := f.svc.ListByBook(ctx, f.book.ID)
		require.NoError(t, err)
		assert.Empty(t, list)
		assert.Equal(t, []string{"review_create", "review_delete"}, f.auditor.actions)

		// The pair can be reviewed again
		_, err = f.svc.Create(ctx, f.author.ID, f.book.ID, 3, "second look")
		assert.NoError(t, err)
	})

	t.Run("missing review", func(t *testing.T) {
		f := setup(t)
		err := f.svc.Delete(ctx, 999, f.author.ID)
		assert.True(t, errors.Is(err, errs.NotFound))
	})
}
