package interfaces

// Compile-time checks that concrete types satisfy the interfaces they are
// wired to in internal/entrypoint.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/bookhive/internal/audit"
	"github.com/mrlokans/bookhive/internal/auth"
	"github.com/mrlokans/bookhive/internal/catalog"
	"github.com/mrlokans/bookhive/internal/database"
	auditrepo "github.com/mrlokans/bookhive/internal/database/audit"
	booksrepo "github.com/mrlokans/bookhive/internal/database/books"
	favoritesrepo "github.com/mrlokans/bookhive/internal/database/favorites"
	reviewsrepo "github.com/mrlokans/bookhive/internal/database/reviews"
	usersrepo "github.com/mrlokans/bookhive/internal/database/users"
	"github.com/mrlokans/bookhive/internal/events"
	"github.com/mrlokans/bookhive/internal/http"
	"github.com/mrlokans/bookhive/internal/reading"
	"github.com/mrlokans/bookhive/internal/reviews"
	"github.com/mrlokans/bookhive/internal/scheduler"
	"github.com/mrlokans/bookhive/internal/tasks"
)

// =============================================================================
// Repositories
// =============================================================================

var _ catalog.BookStore = (*booksrepo.Repository)(nil)
var _ catalog.UserFinder = (*usersrepo.Repository)(nil)
var _ catalog.ReviewLister = (*reviewsrepo.Repository)(nil)

var _ auth.UserStore = (*usersrepo.Repository)(nil)

var _ reviews.Store = (*reviewsrepo.Repository)(nil)
var _ reviews.Checker = (*usersrepo.Repository)(nil)
var _ reviews.Checker = (*booksrepo.Repository)(nil)

var _ reading.Store = (*favoritesrepo.Repository)(nil)
var _ reading.UserChecker = (*usersrepo.Repository)(nil)
var _ reading.BookFinder = (*booksrepo.Repository)(nil)

var _ audit.Store = (*auditrepo.Repository)(nil)

// =============================================================================
// Domain Services
// =============================================================================

var _ http.CatalogService = (*catalog.Service)(nil)
var _ http.AccountService = (*auth.Service)(nil)
var _ http.ReviewService = (*reviews.Service)(nil)
var _ http.ReadingService = (*reading.Service)(nil)
var _ http.ActivityLog = (*audit.Service)(nil)
var _ http.Pinger = (*database.Database)(nil)

// Auditors
var _ catalog.Auditor = (*audit.Service)(nil)
var _ auth.Auditor = (*audit.Service)(nil)
var _ reviews.Auditor = (*audit.Service)(nil)
var _ reading.Auditor = (*audit.Service)(nil)

// =============================================================================
// Background Work
// =============================================================================

var _ tasks.AuditEventCleaner = (*audit.Service)(nil)
var _ scheduler.TaskQueue = (*tasks.Client)(nil)

var _ events.Publisher = (*events.KafkaPublisher)(nil)
var _ events.Publisher = events.NopPublisher{}
