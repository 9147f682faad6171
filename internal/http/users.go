package http

import (
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mrlokans/bookhive/internal/auth"
	"github.com/mrlokans/bookhive/internal/entities"
	"github.com/mrlokans/bookhive/internal/errs"
)

type UsersController struct {
	accounts AccountService
	sessions *auth.SessionManager
	limiter  *auth.LoginLimiter
	activity ActivityLog
	log      *zap.Logger
}

// NewUsersController wires the account endpoints. sessions, limiter and
// activity are optional.
func NewUsersController(accounts AccountService, sessions *auth.SessionManager, limiter *auth.LoginLimiter, activity ActivityLog, log *zap.Logger) *UsersController {
	return &UsersController{
		accounts: accounts,
		sessions: sessions,
		limiter:  limiter,
		activity: activity,
		log:      log,
	}
}

type registerRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email"`
	Password string `json:"password" validate:"required"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Message string               `json:"message"`
	User    entities.UserSummary `json:"user"`
}

type logoutRequest struct {
	UserID uint `json:"user_id"`
}

type deleteAccountRequest struct {
	UserID   uint   `json:"user_id"`
	Password string `json:"password" validate:"required"`
}

type updateUserRequest struct {
	UserID          uint    `json:"user_id"`
	CurrentPassword string  `json:"current_password" validate:"required"`
	NewUsername     *string `json:"new_username"`
	NewEmail        *string `json:"new_email"`
	NewPassword     *string `json:"new_password"`
	ProfileImage    *string `json:"profile_image"`
}

type UpdateUserResponse struct {
	Message string               `json:"message"`
	User    entities.UserSummary `json:"user"`
}

func (uc *UsersController) List(c *gin.Context) {
	users, err := uc.accounts.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, uc.log, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// Register creates a reader account. Librarians are created from the CLI.
func (uc *UsersController) Register(c *gin.Context) {
	var req registerRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, uc.log, err)
		return
	}

	user, err := uc.accounts.Register(c.Request.Context(), auth.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondError(c, uc.log, err)
		return
	}
	c.JSON(http.StatusCreated, user.Summary())
}

func (uc *UsersController) Login(c *gin.Context) {
	var req loginRequest
	if err := decodeJSON(c, &req); err != nil {
		respondError(c, uc.log, err)
		return
	}
	if req.Username == "" || req.Password == "" {
		respondError(c, uc.log, errs.New(errs.Validation, "username and password are required"))
		return
	}

	ip := c.ClientIP()
	if uc.limiter != nil {
		if ok, retryAfter := uc.limiter.Allow(ip, req.Username); !ok {
			uc.tooManyAttempts(c, retryAfter)
			return
		}
	}

	user, err := uc.accounts.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errs.KindOf(err) == errs.Unauthorized {
			uc.logAuth(0, "login_failed", c, false)
			if uc.limiter != nil {
				if locked, lockout := uc.limiter.RecordFailure(ip, req.Username); locked {
					uc.tooManyAttempts(c, lockout)
					return
				}
			}
		}
		respondError(c, uc.log, err)
		return
	}

	if uc.limiter != nil {
		uc.limiter.RecordSuccess(ip, req.Username)
	}
	if uc.sessions != nil {
		if err := uc.sessions.CreateSession(c.Request.Context(), user); err != nil {
			respondError(c, uc.log, fmt.Errorf("create session: %w", err))
			return
		}
	}
	uc.logAuth(user.ID, "login", c, true)

	c.JSON(http.StatusOK, LoginResponse{Message: "Login successful", User: user.Summary()})
}

func (uc *UsersController) tooManyAttempts(c *gin.Context, retryAfter time.Duration) {
	seconds := int(math.Ceil(retryAfter.Seconds()))
	c.Header("Retry-After", fmt.Sprint(seconds))
	c.JSON(http.StatusTooManyRequests, ErrorResponse{Error: "too many failed login attempts, try again later"})
}

// Logout ends the session. Without a session the body's user_id must name an existing user.
func (uc *UsersController) Logout(c *gin.Context) {
	ctx := c.Request.Context()

	if uc.sessions != nil && uc.sessions.IsAuthenticated(ctx) {
		userID := uc.sessions.GetUserID(ctx)
		if err := uc.sessions.DestroySession(ctx); err != nil {
			respondError(c, uc.log, fmt.Errorf("destroy session: %w", err))
			return
		}
		uc.logAuth(userID, "logout", c, true)
		respondMessage(c, "Logout successful")
		return
	}

	var req logoutRequest
	if err := decodeJSON(c, &req); err != nil {
		respondError(c, uc.log, err)
		return
	}
	userID, err := actingUser(c, req.UserID)
	if err != nil {
		respondError(c, uc.log, err)
		return
	}
	if _, err := uc.accounts.GetUser(ctx, userID); err != nil {
		respondError(c, uc.log, err)
		return
	}
	uc.logAuth(userID, "logout", c, true)
	respondMessage(c, "Logout successful")
}

func (uc *UsersController) Update(c *gin.Context) {
	var req updateUserRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, uc.log, err)
		return
	}
	userID, err := actingUser(c, req.UserID)
	if err != nil {
		respondError(c, uc.log, err)
		return
	}

	user, err := uc.accounts.UpdateUser(c.Request.Context(), userID, req.CurrentPassword, auth.UserPatch{
		Username:     req.NewUsername,
		Email:        req.NewEmail,
		Password:     req.NewPassword,
		ProfileImage: req.ProfileImage,
	})
	if err != nil {
		respondError(c, uc.log, err)
		return
	}
	c.JSON(http.StatusOK, UpdateUserResponse{Message: "Profile updated successfully", User: user.Summary()})
}

func (uc *UsersController) Delete(c *gin.Context) {
	var req deleteAccountRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, uc.log, err)
		return
	}
	userID, err := actingUser(c, req.UserID)
	if err != nil {
		respondError(c, uc.log, err)
		return
	}

	ctx := c.Request.Context()
	if err := uc.accounts.DeleteUser(ctx, userID, req.Password); err != nil {
		respondError(c, uc.log, err)
		return
	}
	if uc.sessions != nil && uc.sessions.GetUserID(ctx) == userID {
		if err := uc.sessions.DestroySession(ctx); err != nil {
			uc.log.Warn("failed to destroy session of deleted user", zap.Uint("user_id", userID), zap.Error(err))
		}
	}
	respondMessage(c, "Account deleted successfully")
}

// Activity returns the logged-in user's most recent audit events.
func (uc *UsersController) Activity(c *gin.Context) {
	userID, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, uc.log, err)
		return
	}
	sessionUser := auth.GetUserID(c)
	if sessionUser == 0 {
		respondError(c, uc.log, errs.New(errs.Unauthorized, "login required"))
		return
	}
	if sessionUser != userID {
		respondError(c, uc.log, errs.New(errs.Forbidden, "you can only view your own activity"))
		return
	}
	if uc.activity == nil {
		c.JSON(http.StatusOK, []entities.AuditEvent{})
		return
	}

	events, err := uc.activity.RecentEvents(c.Request.Context(), userID, 50)
	if err != nil {
		respondError(c, uc.log, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

func (uc *UsersController) logAuth(userID uint, action string, c *gin.Context, success bool) {
	if uc.activity != nil {
		uc.activity.LogAuth(userID, action, c.ClientIP(), c.Request.UserAgent(), success)
	}
}
