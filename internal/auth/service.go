package auth

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/mrlokans/bookhive/internal/config"
	"github.com/mrlokans/bookhive/internal/entities"
	"github.com/mrlokans/bookhive/internal/errs"
)

// Validation patterns
var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_.@+-]{3,150}$`)
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

var (
	ErrInvalidCredentials = errs.New(errs.Unauthorized, "invalid credentials")
	ErrUsernameRequired   = errs.New(errs.Validation, "username is required")
	ErrPasswordRequired   = errs.New(errs.Validation, "password is required")
	ErrUsernameInvalid    = errs.New(errs.Validation, "username must be 3-150 characters: letters, digits and @.+-_ only")
	ErrEmailInvalid       = errs.New(errs.Validation, "invalid email format")
	ErrUsernameTaken      = errs.New(errs.Conflict, "username already exists")
)

// UserStore is the account persistence the service needs.
type UserStore interface {
	List(ctx context.Context) ([]entities.User, error)
	GetByID(ctx context.Context, id uint) (*entities.User, error)
	GetByUsername(ctx context.Context, username string) (*entities.User, error)
	UsernameTaken(ctx context.Context, username string, exceptID uint) (bool, error)
	Create(ctx context.Context, user *entities.User) error
	Update(ctx context.Context, user *entities.User) error
	Delete(ctx context.Context, id uint) error
}

// Auditor records successful mutations.
type Auditor interface {
	LogChange(userID uint, eventType entities.AuditEventType, action, entityType string, entityID uint, description string)
}

// Service handles accounts: registration, credential checks, updates and deletion.
// Every mutation of an existing account requires the account's current password.
type Service struct {
	users   UserStore
	config  config.Auth
	auditor Auditor

	dummyOnce sync.Once
	dummy     []byte
}

// NewService creates a new account service. auditor may be nil.
func NewService(users UserStore, cfg config.Auth, auditor Auditor) *Service {
	return &Service{
		users:   users,
		config:  cfg,
		auditor: auditor,
	}
}

// RegisterInput holds the fields for a new account.
type RegisterInput struct {
	Username    string
	Email       string
	Password    string
	IsLibrarian bool
}

// UserPatch holds optional replacements for mutable account fields. A nil
// field is left unchanged.
type UserPatch struct {
	Username     *string
	Email        *string
	Password     *string
	ProfileImage *string
}

// Register creates an account with a bcrypt-hashed password.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*entities.User, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)

	if username == "" {
		return nil, ErrUsernameRequired
	}
	if in.Password == "" {
		return nil, ErrPasswordRequired
	}
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}

	taken, err := s.users.UsernameTaken(ctx, username, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrUsernameTaken
	}

	passwordHash, err := HashPassword(in.Password, s.config.BcryptCost)
	if err != nil {
		return nil, err
	}

	user := &entities.User{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		IsLibrarian:  in.IsLibrarian,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logChange(user.ID, "user_register", user.ID, "Registered "+user.Username)
	return user, nil
}

// Authenticate validates credentials and returns the user. Unknown usernames
// and wrong passwords both yield ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*entities.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			// Spend the same bcrypt work as a real check so timing does not
			// reveal which usernames exist.
			_ = bcrypt.CompareHashAndPassword(s.dummyHash(), []byte(password))
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := CheckPassword(password, user.PasswordHash); err != nil {
		if errors.Is(err, ErrInvalidPassword) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	return user, nil
}

// dummyHash is a hash at the configured cost that no password matches.
func (s *Service) dummyHash() []byte {
	s.dummyOnce.Do(func() {
		if hash, err := HashPassword("bookhive-unknown-account", s.config.BcryptCost); err == nil {
			s.dummy = []byte(hash)
		}
	})
	return s.dummy
}

func (s *Service) GetUser(ctx context.Context, id uint) (*entities.User, error) {
	return s.users.GetByID(ctx, id)
}

// ListUsers returns the public summary of every account.
func (s *Service) ListUsers(ctx context.Context) ([]entities.UserSummary, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	summaries := make([]entities.UserSummary, 0, len(users))
	for _, u := range users {
		summaries = append(summaries, u.Summary())
	}
	return summaries, nil
}

// UpdateUser applies patch after checking currentPassword.
func (s *Service) UpdateUser(ctx context.Context, id uint, currentPassword string, patch UserPatch) (*entities.User, error) {
	user, err := s.verify(ctx, id, currentPassword)
	if err != nil {
		return nil, err
	}

	if patch.Username != nil {
		username := strings.TrimSpace(*patch.Username)
		if err := validateUsername(username); err != nil {
			return nil, err
		}
		taken, err := s.users.UsernameTaken(ctx, username, user.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrUsernameTaken
		}
		user.Username = username
	}
	if patch.Email != nil {
		email := strings.TrimSpace(*patch.Email)
		if err := validateEmail(email); err != nil {
			return nil, err
		}
		user.Email = email
	}
	if patch.Password != nil {
		hash, err := HashPassword(*patch.Password, s.config.BcryptCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}
	if patch.ProfileImage != nil {
		image := strings.TrimSpace(*patch.ProfileImage)
		if image == "" {
			user.ProfileImage = nil
		} else {
			user.ProfileImage = &image
		}
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	s.logChange(user.ID, "user_update", user.ID, "Updated account "+user.Username)
	return user, nil
}

// DeleteUser removes the account after checking password. The user's reviews
// and reading statuses are removed with it.
func (s *Service) DeleteUser(ctx context.Context, id uint, password string) error {
	user, err := s.verify(ctx, id, password)
	if err != nil {
		return err
	}
	if err := s.users.Delete(ctx, user.ID); err != nil {
		return err
	}
	s.logChange(user.ID, "user_delete", user.ID, "Deleted account "+user.Username)
	return nil
}

// verify loads the user and checks the password.
func (s *Service) verify(ctx context.Context, id uint, password string) (*entities.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := CheckPassword(password, user.PasswordHash); err != nil {
		if errors.Is(err, ErrInvalidPassword) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	return user, nil
}

func (s *Service) logChange(userID uint, action string, entityID uint, description string) {
	if s.auditor != nil {
		s.auditor.LogChange(userID, entities.AuditEventAccount, action, entities.AuditEntityUser, entityID, description)
	}
}

func validateUsername(username string) error {
	if !usernamePattern.MatchString(username) {
		return ErrUsernameInvalid
	}
	return nil
}

// validateEmail allows an empty email; the RFC 5321 length limit is 254.
func validateEmail(email string) error {
	if email == "" {
		return nil
	}
	if len(email) > 254 || !emailPattern.MatchString(email) {
		return ErrEmailInvalid
	}
	return nil
}
