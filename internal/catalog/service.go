// Package catalog implements the book catalog: listing, lookup, genre search
// and librarian-only creation.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mrlokans/bookhive/internal/entities"
	"github.com/mrlokans/bookhive/internal/errs"
	"github.com/mrlokans/bookhive/internal/validate"
)

type BookStore interface {
	List(ctx context.Context) ([]entities.Book, error)
	GetByID(ctx context.Context, id uint) (*entities.Book, error)
	SearchByGenre(ctx context.Context, query string) ([]entities.Book, error)
	Create(ctx context.Context, book *entities.Book) error
}

type UserFinder interface {
	GetByID(ctx context.Context, id uint) (*entities.User, error)
}

type ReviewLister interface {
	ListByBook(ctx context.Context, bookID uint) ([]entities.Review, error)
}

// Auditor records successful mutations.
type Auditor interface {
	LogChange(userID uint, eventType entities.AuditEventType, action, entityType string, entityID uint, description string)
}

type Service struct {
	books     BookStore
	users     UserFinder
	reviews   ReviewLister
	auditor   Auditor
	validator *validate.Validator
}

// NewService creates the catalog service. auditor may be nil.
func NewService(books BookStore, users UserFinder, reviews ReviewLister, auditor Auditor) *Service {
	return &Service{
		books:     books,
		users:     users,
		reviews:   reviews,
		auditor:   auditor,
		validator: validate.New(),
	}
}

// BookInput is the payload for creating a book.
type BookInput struct {
	Title           string  `json:"title" validate:"required,max=200"`
	Author          string  `json:"author" validate:"required,max=200"`
	Description     string  `json:"description" validate:"required"`
	Genre           string  `json:"genre" validate:"required,max=50"`
	PublishedDate   string  `json:"published_date" validate:"required"`
	CoverImage      *string `json:"cover_image" validate:"omitempty,max=255"`
	AvailableCopies *int    `json:"available_copies" validate:"required,gte=0"`
}

// BookDetail is a book together with its reviews.
type BookDetail struct {
	Book    entities.Book     `json:"book"`
	Reviews []entities.Review `json:"reviews"`
}

func (s *Service) ListBooks(ctx context.Context) ([]entities.Book, error) {
	return s.books.List(ctx)
}

func (s *Service) GetBook(ctx context.Context, id uint) (*entities.Book, error) {
	return s.books.GetByID(ctx, id)
}

// GetBookDetail returns the book and every review of it.
func (s *Service) GetBookDetail(ctx context.Context, id uint) (*BookDetail, error) {
	book, err := s.books.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	reviews, err := s.reviews.ListByBook(ctx, id)
	if err != nil {
		return nil, err
	}
	if reviews == nil {
		reviews = []entities.Review{}
	}
	return &BookDetail{Book: *book, Reviews: reviews}, nil
}

// SearchBooks matches query case-insensitively against the genre.
func (s *Service) SearchBooks(ctx context.Context, query string) ([]entities.Book, error) {
	return s.books.SearchByGenre(ctx, strings.TrimSpace(query))
}

// CreateBook adds a book on behalf of requesterID, who must be a librarian.
func (s *Service) CreateBook(ctx context.Context, requesterID uint, in BookInput) (*entities.Book, error) {
	requester, err := s.users.GetByID(ctx, requesterID)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return nil, errs.New(errs.NotFound, "user not found")
		}
		return nil, err
	}
	if !requester.IsLibrarian {
		return nil, errs.New(errs.Forbidden, "only librarians can add books")
	}

	if err := s.validator.Struct(in); err != nil {
		return nil, err
	}
	published, err := entities.ParseDate(in.PublishedDate)
	if err != nil {
		return nil, errs.New(errs.Validation, "published_date must be in YYYY-MM-DD format")
	}

	book := &entities.Book{
		Title:           in.Title,
		Author:          in.Author,
		Description:     in.Description,
		Genre:           in.Genre,
		PublishedDate:   published,
		CoverImage:      in.CoverImage,
		AvailableCopies: *in.AvailableCopies,
	}
	if err := s.books.Create(ctx, book); err != nil {
		return nil, fmt.Errorf("create book: %w", err)
	}

	if s.auditor != nil {
		s.auditor.LogChange(requesterID, entities.AuditEventCatalog, "book_create", entities.AuditEntityBook, book.ID, "Added book: "+book.Title)
	}
	return book, nil
}
