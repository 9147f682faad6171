// Package reviews implements the review ledger: one review per user and
// book, editable and deletable only by its author.
package reviews

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/mrlokans/bookhive/internal/entities"
	"github.com/mrlokans/bookhive/internal/errs"
)

const maxReviewTextLength = 5000

var (
	ErrAlreadyReviewed = errs.New(errs.Conflict, "you have already reviewed this book")
	ErrNotAuthorEdit   = errs.New(errs.Forbidden, "you can only edit your own reviews")
	ErrNotAuthorDelete = errs.New(errs.Forbidden, "you can only delete your own reviews")
	ErrRatingRange     = errs.Newf(errs.Validation, "rating must be between %d and %d", entities.MinRating, entities.MaxRating)
	ErrTextTooLong     = errs.Newf(errs.Validation, "review_text must be at most %d characters", maxReviewTextLength)
)

type Store interface {
	ListByBook(ctx context.Context, bookID uint) ([]entities.Review, error)
	ListByUser(ctx context.Context, userID uint) ([]entities.Review, error)
	GetByID(ctx context.Context, id uint) (*entities.Review, error)
	Exists(ctx context.Context, userID, bookID uint) (bool, error)
	Create(ctx context.Context, review *entities.Review) error
	Update(ctx context.Context, review *entities.Review) error
	Delete(ctx context.Context, id uint) error
}

// Checker reports whether a referenced record exists.
type Checker interface {
	Exists(ctx context.Context, id uint) (bool, error)
}

// Auditor records successful mutations.
type Auditor interface {
	LogChange(userID uint, eventType entities.AuditEventType, action, entityType string, entityID uint, description string)
}

type Service struct {
	reviews Store
	users   Checker
	books   Checker
	auditor Auditor
}

// NewService creates the review service. auditor may be nil.
func NewService(reviews Store, users, books Checker, auditor Auditor) *Service {
	return &Service{
		reviews: reviews,
		users:   users,
		books:   books,
		auditor: auditor,
	}
}

// Patch holds optional replacements for a review. A nil field is left unchanged.
type Patch struct {
	Rating     *int
	ReviewText *string
}

func (s *Service) ListByBook(ctx context.Context, bookID uint) ([]entities.Review, error) {
	return s.reviews.ListByBook(ctx, bookID)
}

func (s *Service) ListByUser(ctx context.Context, userID uint) ([]entities.Review, error) {
	return s.reviews.ListByUser(ctx, userID)
}

// Create adds userID's review of bookID.
func (s *Service) Create(ctx context.Context, userID, bookID uint, rating int, text string) (*entities.Review, error) {
	if err := s.mustExist(ctx, s.books, bookID, "book not found"); err != nil {
		return nil, err
	}
	if err := s.mustExist(ctx, s.users, userID, "user not found"); err != nil {
		return nil, err
	}

	exists, err := s.reviews.Exists(ctx, userID, bookID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyReviewed
	}

	text = strings.TrimSpace(text)
	if err := validateRating(rating); err != nil {
		return nil, err
	}
	if err := validateText(text); err != nil {
		return nil, err
	}

	review := &entities.Review{
		UserID:     userID,
		BookID:     bookID,
		Rating:     rating,
		ReviewText: text,
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		if errors.Is(err, errs.Conflict) {
			return nil, ErrAlreadyReviewed
		}
		return nil, fmt.Errorf("create review: %w", err)
	}

	s.logChange(userID, "review_create", review.ID, fmt.Sprintf("Reviewed book %d with rating %d", bookID, rating))
	return review, nil
}

// Update applies patch to the review if requesterID wrote it.
func (s *Service) Update(ctx context.Context, reviewID, requesterID uint, patch Patch) (*entities.Review, error) {
	review, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if review.UserID != requesterID {
		return nil, ErrNotAuthorEdit
	}

	if patch.Rating != nil {
		if err := validateRating(*patch.Rating); err != nil {
			return nil, err
		}
		review.Rating = *patch.Rating
	}
	if patch.ReviewText != nil {
		text := strings.TrimSpace(*patch.ReviewText)
		if err := validateText(text); err != nil {
			return nil, err
		}
		review.ReviewText = text
	}

	if err := s.reviews.Update(ctx, review); err != nil {
		return nil, fmt.Errorf("update review: %w", err)
	}

	s.logChange(requesterID, "review_update", review.ID, fmt.Sprintf("Updated review of book %d", review.BookID))
	return review, nil
}

// Delete removes the review if requesterID wrote it.
func (s *Service) Delete(ctx context.Context, reviewID, requesterID uint) error {
	review, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		return err
	}
	if review.UserID != requesterID {
		return ErrNotAuthorDelete
	}
	if err := s.reviews.Delete(ctx, review.ID); err != nil {
		return err
	}

	s.logChange(requesterID, "review_delete", review.ID, fmt.Sprintf("Deleted review of book %d", review.BookID))
	return nil
}

func (s *Service) mustExist(ctx context.Context, c Checker, id uint, msg string) error {
	ok, err := c.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return errs.New(errs.NotFound, msg)
	}
	return nil
}

func (s *Service) logChange(userID uint, action string, reviewID uint, description string) {
	if s.auditor != nil {
		s.auditor.LogChange(userID, entities.AuditEventReview, action, entities.AuditEntityReview, reviewID, description)
	}
}

func validateRating(rating int) error {
	if rating < entities.MinRating || rating > entities.MaxRating {
		return ErrRatingRange
	}
	return nil
}

func validateText(text string) error {
	if utf8.RuneCountInString(text) > maxReviewTextLength {
		return ErrTextTooLong
	}
	return nil
}
