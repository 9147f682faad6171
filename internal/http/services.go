package http

//go:generate go run github.com/golang/mock/mockgen -source=services.go -destination=mocks/mock.go

import (
	"context"

	"github.com/mrlokans/bookhive/internal/auth"
	"github.com/mrlokans/bookhive/internal/catalog"
	"github.com/mrlokans/bookhive/internal/entities"
	"github.com/mrlokans/bookhive/internal/reviews"
)

// Each controller depends on the narrow service interface it calls.

type CatalogService interface {
	ListBooks(ctx context.Context) ([]entities.Book, error)
	GetBookDetail(ctx context.Context, id uint) (*catalog.BookDetail, error)
	SearchBooks(ctx context.Context, query string) ([]entities.Book, error)
	CreateBook(ctx context.Context, requesterID uint, in catalog.BookInput) (*entities.Book, error)
}

type AccountService interface {
	Register(ctx context.Context, in auth.RegisterInput) (*entities.User, error)
	Authenticate(ctx context.Context, username, password string) (*entities.User, error)
	GetUser(ctx context.Context, id uint) (*entities.User, error)
	ListUsers(ctx context.Context) ([]entities.UserSummary, error)
	UpdateUser(ctx context.Context, id uint, currentPassword string, patch auth.UserPatch) (*entities.User, error)
	DeleteUser(ctx context.Context, id uint, password string) error
}

type ReviewService interface {
	ListByBook(ctx context.Context, bookID uint) ([]entities.Review, error)
	ListByUser(ctx context.Context, userID uint) ([]entities.Review, error)
	Create(ctx context.Context, userID, bookID uint, rating int, text string) (*entities.Review, error)
	Update(ctx context.Context, reviewID, requesterID uint, patch reviews.Patch) (*entities.Review, error)
	Delete(ctx context.Context, reviewID, requesterID uint) error
}

type ReadingService interface {
	ListByUser(ctx context.Context, userID uint, status entities.ReadingStatus) ([]entities.FavoriteStatus, error)
	ListByStatus(ctx context.Context, userID uint, status entities.ReadingStatus) ([]entities.FavoriteStatus, error)
	AddFavorite(ctx context.Context, userID, bookID uint, status entities.ReadingStatus) (*entities.FavoriteStatus, error)
	UpdateStatus(ctx context.Context, userID, bookID uint, status entities.ReadingStatus) (*entities.FavoriteStatus, error)
	RemoveFavorite(ctx context.Context, userID, bookID uint) error
}

// ActivityLog records authentication attempts and serves a user's recent activity.
type ActivityLog interface {
	LogAuth(userID uint, action string, ipAddr, userAgent string, success bool)
	RecentEvents(ctx context.Context, userID uint, limit int) ([]entities.AuditEvent, error)
}

// Pinger checks that the database answers.
type Pinger interface {
	Ping(ctx context.Context) error
}
