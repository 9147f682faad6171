package http

import (
	"go.uber.org/zap"

	"github.com/mrlokans/bookhive/internal/auth"
)

// RouterConfig carries the router's dependencies and switches.
type RouterConfig struct {
	// Domain services
	Catalog  CatalogService
	Accounts AccountService
	Reviews  ReviewService
	Reading  ReadingService

	// Sessions and login lockout, both optional
	Sessions     *auth.SessionManager
	LoginLimiter *auth.LoginLimiter

	// Activity feeds login events and /users/:id/activity/ (optional)
	Activity ActivityLog

	// Health
	Database Pinger
	Version  string

	// CSRF protection for session-authenticated requests
	CSRFEnabled   bool
	CSRFSecret    []byte
	SecureCookies bool

	// Per-IP request budget; zero RequestsPerSecond disables it
	RequestsPerSecond float64
	Burst             int

	ReadOnly bool

	Logger *zap.Logger
}
