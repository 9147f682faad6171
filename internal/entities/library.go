package entities

import (
	"strings"
	"time"
)

type User struct {
	ID           uint      `gorm:"primaryKey" json:"user_id"`
	Username     string    `gorm:"uniqueIndex;size:150;not null" json:"username"`
	Email        string    `gorm:"size:254" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	IsLibrarian  bool      `gorm:"default:false" json:"is_librarian"`
	ProfileImage *string   `gorm:"size:255" json:"profile_image"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// UserSummary is the public listing view of a user.
type UserSummary struct {
	ID          uint   `json:"user_id"`
	Username    string `json:"username"`
	IsLibrarian bool   `json:"is_librarian"`
}

func (u User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Username: u.Username, IsLibrarian: u.IsLibrarian}
}

type Book struct {
	ID              uint      `gorm:"primaryKey" json:"book_id"`
	Title           string    `gorm:"size:200;not null" json:"title"`
	Author          string    `gorm:"size:200;not null" json:"author"`
	Description     string    `gorm:"type:text" json:"description"`
	Genre           string    `gorm:"size:50;index" json:"genre"`
	PublishedDate   Date      `gorm:"type:date" json:"published_date"`
	CoverImage      *string   `gorm:"size:255" json:"cover_image"`
	AvailableCopies int       `gorm:"not null" json:"available_copies"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (Book) TableName() string {
	return "books"
}

// Review is one user's rating of one book. (UserID, BookID) is unique.
type Review struct {
	ID         uint      `gorm:"primaryKey" json:"review_id"`
	UserID     uint      `gorm:"not null;uniqueIndex:idx_reviews_user_book" json:"user_id"`
	BookID     uint      `gorm:"not null;uniqueIndex:idx_reviews_user_book" json:"book_id"`
	Rating     int       `gorm:"not null" json:"rating"`
	ReviewText string    `gorm:"type:text" json:"review_text"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (Review) TableName() string {
	return "reviews"
}

const (
	MinRating = 1
	MaxRating = 5
)

type ReadingStatus string

const (
	WantToRead       ReadingStatus = "WANT_TO_READ"
	CurrentlyReading ReadingStatus = "CURRENTLY_READING"
	AlreadyRead      ReadingStatus = "ALREADY_READ"
)

// ReadingStatuses lists every valid status.
var ReadingStatuses = []ReadingStatus{WantToRead, CurrentlyReading, AlreadyRead}

func (s ReadingStatus) Valid() bool {
	switch s {
	case WantToRead, CurrentlyReading, AlreadyRead:
		return true
	}
	return false
}

// ParseReadingStatus accepts any letter case, e.g. "already_read".
func ParseReadingStatus(raw string) (ReadingStatus, bool) {
	s := ReadingStatus(strings.ToUpper(strings.TrimSpace(raw)))
	return s, s.Valid()
}

// FavoriteStatus tracks where a user is with a book. (UserID, BookID) is unique.
type FavoriteStatus struct {
	ID            uint          `gorm:"primaryKey" json:"favorite_id"`
	UserID        uint          `gorm:"not null;uniqueIndex:idx_favorite_pages_user_book" json:"user_id"`
	BookID        uint          `gorm:"not null;uniqueIndex:idx_favorite_pages_user_book" json:"book_id"`
	ReadingStatus ReadingStatus `gorm:"size:20;not null;default:WANT_TO_READ" json:"reading_status"`
	CreatedAt     time.Time     `json:"created_at"`

	BookDetails *BookDetails `gorm:"-" json:"book_details"`
}

func (FavoriteStatus) TableName() string {
	return "favorite_pages"
}

// BookDetails is the short book view embedded in favorite listings.
type BookDetails struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	Genre  string `json:"genre"`
}
