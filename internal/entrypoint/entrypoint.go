package entrypoint

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mrlokans/bookhive/internal/audit"
	"github.com/mrlokans/bookhive/internal/auth"
	"github.com/mrlokans/bookhive/internal/catalog"
	"github.com/mrlokans/bookhive/internal/config"
	"github.com/mrlokans/bookhive/internal/database"
	auditrepo "github.com/mrlokans/bookhive/internal/database/audit"
	booksrepo "github.com/mrlokans/bookhive/internal/database/books"
	favoritesrepo "github.com/mrlokans/bookhive/internal/database/favorites"
	reviewsrepo "github.com/mrlokans/bookhive/internal/database/reviews"
	usersrepo "github.com/mrlokans/bookhive/internal/database/users"
	"github.com/mrlokans/bookhive/internal/events"
	http_controllers "github.com/mrlokans/bookhive/internal/http"
	"github.com/mrlokans/bookhive/internal/reading"
	"github.com/mrlokans/bookhive/internal/reviews"
	"github.com/mrlokans/bookhive/internal/scheduler"
	"github.com/mrlokans/bookhive/internal/tasks"
)

// OpenDatabase connects to the configured database and applies migrations.
func OpenDatabase(ctx context.Context, cfg *config.Config, log *zap.Logger) (*database.Database, error) {
	db, err := database.NewDatabase(cfg.Database, log)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return db, nil
}

// NewPublisher returns a Kafka publisher when brokers are configured and a
// no-op publisher otherwise.
func NewPublisher(cfg config.Events, log *zap.Logger) (events.Publisher, error) {
	if len(cfg.Brokers) == 0 {
		return events.NopPublisher{}, nil
	}
	producer, err := events.NewProducer(cfg.Brokers)
	if err != nil {
		return nil, err
	}
	log.Info("publishing activity to kafka", zap.Strings("brokers", cfg.Brokers), zap.String("topic", cfg.Topic))
	return events.NewKafkaPublisher(producer, cfg.Topic, log), nil
}

// Run serves the API until ctx is cancelled or SIGINT/SIGTERM arrives.
func Run(ctx context.Context, cfg *config.Config, version string, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("starting BookHive", zap.String("version", version), zap.String("driver", cfg.Database.Driver))

	db, err := OpenDatabase(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Warn("error closing database", zap.Error(err))
		}
	}()

	publisher, err := NewPublisher(cfg.Events, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Warn("error closing activity publisher", zap.Error(err))
		}
	}()

	auditService := audit.NewService(auditrepo.NewRepository(db.DB), publisher, log)
	defer auditService.Wait()

	users := usersrepo.NewRepository(db.DB)
	books := booksrepo.NewRepository(db.DB)
	reviewStore := reviewsrepo.NewRepository(db.DB)

	sessions, err := newSessionManager(db, cfg.Auth)
	if err != nil {
		return err
	}
	limiter := auth.NewLoginLimiter(cfg.Auth)
	defer limiter.Stop()

	secret, err := csrfSecret(cfg.Auth, log)
	if err != nil {
		return err
	}
	if cfg.HTTP.ReadOnly {
		log.Info("read-only mode enabled, write operations will be rejected")
	}

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		Catalog:           catalog.NewService(books, users, reviewStore, auditService),
		Accounts:          auth.NewService(users, cfg.Auth, auditService),
		Reviews:           reviews.NewService(reviewStore, users, books, auditService),
		Reading:           reading.NewService(favoritesrepo.NewRepository(db.DB), users, books, auditService),
		Sessions:          sessions,
		LoginLimiter:      limiter,
		Activity:          auditService,
		Database:          db,
		Version:           version,
		CSRFEnabled:       cfg.Auth.CSRFEnabled,
		CSRFSecret:        secret,
		SecureCookies:     cfg.Auth.SecureCookies,
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
		Burst:             cfg.RateLimit.Burst,
		ReadOnly:          cfg.HTTP.ReadOnly,
		Logger:            log.Named("http"),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	g, gctx := errgroup.WithContext(ctx)

	if cfg.Tasks.Enabled {
		taskClient, err := startTasks(gctx, g, cfg, auditService, timeout, log)
		if err != nil {
			return err
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Warn("error closing task client", zap.Error(err))
			}
		}()
	}

	g.Go(func() error {
		log.Info("starting server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server", zap.Duration("timeout", timeout))
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("server exiting")
	return nil
}

// startTasks starts the background queue and, when enabled, the cron
// scheduler that feeds it. Both stop when ctx is done; the caller closes
// the returned client.
func startTasks(ctx context.Context, g *errgroup.Group, cfg *config.Config, cleaner tasks.AuditEventCleaner, timeout time.Duration, log *zap.Logger) (*tasks.Client, error) {
	taskClient, err := tasks.NewClient(tasks.ConfigFrom(cfg.Tasks), log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize task queue: %w", err)
	}
	taskClient.Register(tasks.NewCleanupAuditEventsQueue(cleaner, log))
	taskClient.Start(ctx)

	if cfg.Maintenance.Enabled {
		maintenance := scheduler.NewMaintenanceScheduler(taskClient, cfg.Maintenance.Schedule, cfg.Audit.RetentionDays, log)
		if err := maintenance.Start(ctx); err != nil {
			_ = taskClient.Close()
			return nil, err
		}
	}

	g.Go(func() error {
		<-ctx.Done()
		stopCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		taskClient.Stop(stopCtx)
		return nil
	})
	return taskClient, nil
}

// newSessionManager keeps sessions in the SQLite database, or in memory on
// Postgres where the sqlite3 session store does not apply.
func newSessionManager(db *database.Database, cfg config.Auth) (*auth.SessionManager, error) {
	if db.Driver() != config.DriverSQLite {
		return auth.NewSessionManager(nil, cfg), nil
	}
	sqlDB, err := db.SQLDB()
	if err != nil {
		return nil, fmt.Errorf("failed to get SQL DB for sessions: %w", err)
	}
	return auth.NewSessionManager(sqlDB, cfg), nil
}

// csrfSecret decodes AUTH_SESSION_SECRET, generating one when it is unset.
func csrfSecret(cfg config.Auth, log *zap.Logger) ([]byte, error) {
	if !cfg.CSRFEnabled {
		return nil, nil
	}
	if cfg.SessionSecret != "" {
		secret, err := hex.DecodeString(cfg.SessionSecret)
		if err != nil {
			// Not hex, use as raw bytes
			return []byte(cfg.SessionSecret), nil
		}
		return secret, nil
	}

	generated, err := auth.GenerateSessionSecret()
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSRF secret: %w", err)
	}
	log.Warn("generated a CSRF secret, set AUTH_SESSION_SECRET to keep tokens valid across restarts")
	secret, _ := hex.DecodeString(generated)
	return secret, nil
}
