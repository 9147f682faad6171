package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mrlokans/bookhive/internal/auth"
)

// NewRouter creates the gin engine with middleware and every endpoint.
// Paths keep their trailing slash.
func NewRouter(cfg RouterConfig) *gin.Engine {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	router := gin.New()
	router.RedirectTrailingSlash = false
	router.Use(gin.Recovery())
	router.Use(RequestID())
	router.Use(RequestLogger(log))
	router.Use(auth.SecurityHeadersMiddleware())

	if cfg.RequestsPerSecond > 0 {
		router.Use(NewIPRateLimiter(cfg.RequestsPerSecond, cfg.Burst).Middleware())
	}

	if cfg.Sessions != nil {
		// CSRF goes first so the session context survives its request rewrite
		if cfg.CSRFEnabled && len(cfg.CSRFSecret) > 0 {
			router.Use(auth.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies, cfg.Sessions.Cookie.Name))
		}
		router.Use(cfg.Sessions.SessionLoadSave())
		router.Use(cfg.Sessions.SessionUser())
	}

	if cfg.ReadOnly {
		router.Use(ReadOnly())
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
	})
	router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, ErrorResponse{Error: "method not allowed"})
	})
	router.HandleMethodNotAllowed = true

	health := NewHealthController(cfg.Database, cfg.Version)
	users := NewUsersController(cfg.Accounts, cfg.Sessions, cfg.LoginLimiter, cfg.Activity, log)
	books := NewBooksController(cfg.Catalog, log)
	reviews := NewReviewsController(cfg.Reviews, log)
	favorites := NewFavoritesController(cfg.Reading, log)

	router.GET("/", Index)
	router.GET("/health", health.Status)
	router.GET("/ping", health.Ping)

	// Accounts
	router.GET("/users/", users.List)
	router.POST("/users/register/", users.Register)
	router.POST("/users/login/", users.Login)
	router.POST("/users/logout/", users.Logout)
	router.PUT("/users/update/", users.Update)
	router.DELETE("/users/delete/", users.Delete)
	router.GET("/users/:id/activity/", users.Activity)

	// Catalog
	router.GET("/books/", books.List)
	router.GET("/books/search/", books.Search)
	router.POST("/books/create/", books.Create)
	router.GET("/books/:id/", books.Detail)

	// Reviews
	router.GET("/books/:id/reviews/", reviews.ListByBook)
	router.GET("/users/:id/reviews/", reviews.ListByUser)
	router.POST("/reviews/", reviews.Create)
	router.PUT("/reviews/:id/", reviews.Update)
	router.DELETE("/reviews/:id/delete/", reviews.Delete)

	// Reading status
	router.GET("/users/:id/favorites/", favorites.ListByUser)
	router.GET("/users/:id/reading/:status/", favorites.ListByStatus)
	router.POST("/favorites/add/", favorites.Add)
	router.PUT("/favorites/status/update/", favorites.UpdateStatus)
	router.DELETE("/favorites/:user_id/:book_id/remove/", favorites.Remove)

	return router
}
