// Package reading tracks where each user is with a book: want to read,
// currently reading or already read.
package reading

import (
	"context"
	"errors"
	"fmt"

	"github.com/mrlokans/bookhive/internal/entities"
	"github.com/mrlokans/bookhive/internal/errs"
)

var (
	ErrAlreadyFavorite = errs.New(errs.Conflict, "book is already in favorites")
	ErrInvalidStatus   = errs.New(errs.Validation, "reading_status must be one of WANT_TO_READ, CURRENTLY_READING, ALREADY_READ")
)

type Store interface {
	ListByUser(ctx context.Context, userID uint, status entities.ReadingStatus) ([]entities.FavoriteStatus, error)
	Exists(ctx context.Context, userID, bookID uint) (bool, error)
	Create(ctx context.Context, fav *entities.FavoriteStatus) error
	UpdateStatus(ctx context.Context, userID, bookID uint, status entities.ReadingStatus) (*entities.FavoriteStatus, error)
	Delete(ctx context.Context, userID, bookID uint) error
}

type UserChecker interface {
	Exists(ctx context.Context, id uint) (bool, error)
}

type BookFinder interface {
	GetByID(ctx context.Context, id uint) (*entities.Book, error)
}

// Auditor records successful mutations.
type Auditor interface {
	LogChange(userID uint, eventType entities.AuditEventType, action, entityType string, entityID uint, description string)
}

type Service struct {
	favorites Store
	users     UserChecker
	books     BookFinder
	auditor   Auditor
}

// NewService creates the reading-status service. auditor may be nil.
func NewService(favorites Store, users UserChecker, books BookFinder, auditor Auditor) *Service {
	return &Service{
		favorites: favorites,
		users:     users,
		books:     books,
		auditor:   auditor,
	}
}

// ParseStatus converts raw input to a status. Empty input yields
// defaultStatus; anything unrecognised is ErrInvalidStatus.
func ParseStatus(raw string, defaultStatus entities.ReadingStatus) (entities.ReadingStatus, error) {
	if raw == "" {
		return defaultStatus, nil
	}
	status, ok := entities.ParseReadingStatus(raw)
	if !ok {
		return "", ErrInvalidStatus
	}
	return status, nil
}

// ListByUser returns the user's books. An empty status returns all of them.
func (s *Service) ListByUser(ctx context.Context, userID uint, status entities.ReadingStatus) ([]entities.FavoriteStatus, error) {
	if status != "" && !status.Valid() {
		return nil, ErrInvalidStatus
	}
	return s.favorites.ListByUser(ctx, userID, status)
}

// ListByStatus returns the user's books in exactly one status.
func (s *Service) ListByStatus(ctx context.Context, userID uint, status entities.ReadingStatus) ([]entities.FavoriteStatus, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	return s.favorites.ListByUser(ctx, userID, status)
}

// AddFavorite starts tracking bookID for userID. An empty status means WANT_TO_READ.
func (s *Service) AddFavorite(ctx context.Context, userID, bookID uint, status entities.ReadingStatus) (*entities.FavoriteStatus, error) {
	if status == "" {
		status = entities.WantToRead
	}
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	ok, err := s.users.Exists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errs.New(errs.NotFound, "user not found")
	}
	book, err := s.books.GetByID(ctx, bookID)
	if err != nil {
		return nil, err
	}

	exists, err := s.favorites.Exists(ctx, userID, bookID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyFavorite
	}

	fav := &entities.FavoriteStatus{
		UserID:        userID,
		BookID:        bookID,
		ReadingStatus: status,
	}
	if err := s.favorites.Create(ctx, fav); err != nil {
		if errors.Is(err, errs.Conflict) {
			return nil, ErrAlreadyFavorite
		}
		return nil, fmt.Errorf("add favorite: %w", err)
	}
	fav.BookDetails = detailsOf(book)

	s.logChange(userID, "favorite_add", fav.ID, fmt.Sprintf("Added %q as %s", book.Title, status))
	return fav, nil
}

// UpdateStatus moves an existing pair to status. Any transition is allowed.
func (s *Service) UpdateStatus(ctx context.Context, userID, bookID uint, status entities.ReadingStatus) (*entities.FavoriteStatus, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	fav, err := s.favorites.UpdateStatus(ctx, userID, bookID, status)
	if err != nil {
		return nil, err
	}
	if book, err := s.books.GetByID(ctx, bookID); err == nil {
		fav.BookDetails = detailsOf(book)
	} else if !errors.Is(err, errs.NotFound) {
		return nil, err
	}

	s.logChange(userID, "favorite_status_update", fav.ID, fmt.Sprintf("Book %d is now %s", bookID, status))
	return fav, nil
}

// RemoveFavorite stops tracking the pair.
func (s *Service) RemoveFavorite(ctx context.Context, userID, bookID uint) error {
	if err := s.favorites.Delete(ctx, userID, bookID); err != nil {
		return err
	}
	s.logChange(userID, "favorite_remove", bookID, fmt.Sprintf("Removed book %d from favorites", bookID))
	return nil
}

func detailsOf(book *entities.Book) *entities.BookDetails {
	return &entities.BookDetails{Title: book.Title, Author: book.Author, Genre: book.Genre}
}

func (s *Service) logChange(userID uint, action string, entityID uint, description string) {
	if s.auditor != nil {
		s.auditor.LogChange(userID, entities.AuditEventFavorite, action, entities.AuditEntityFavorite, entityID, description)
	}
}
