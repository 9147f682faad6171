package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mrlokans/bookhive/internal/config"
	"github.com/mrlokans/bookhive/internal/database/migrations"
	"github.com/mrlokans/bookhive/internal/logger"
)

// goose keeps its dialect and filesystem in package globals.
var gooseMu sync.Mutex

type Database struct {
	DB     *gorm.DB
	driver string
	log    *zap.Logger
}

// NewDatabase opens the configured database. The schema is not touched; call
// Migrate before serving requests.
func NewDatabase(cfg config.Database, log *zap.Logger) (*Database, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case config.DriverSQLite, "":
		dialector = sqlite.Open(sqliteDSN(cfg.Path))
	case config.DriverPostgres:
		if cfg.DSN == "" {
			return nil, fmt.Errorf("DATABASE_DSN is required for the postgres driver")
		}
		dialector = postgres.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.NewGorm(log),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	driver := cfg.Driver
	if driver == "" {
		driver = config.DriverSQLite
	}

	return &Database{DB: db, driver: driver, log: log.Named("database")}, nil
}

// sqliteDSN enables foreign keys on every pooled connection so cascades fire.
func sqliteDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_foreign_keys=1&_busy_timeout=5000"
}

// Migrate applies all pending migrations for the active dialect.
func (d *Database) Migrate(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(logger.NewGoose(d.log))
	if err := goose.SetDialect(d.gooseDialect()); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}
	if err := goose.UpContext(ctx, sqlDB, d.driver); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	version, err := goose.GetDBVersionContext(ctx, sqlDB)
	if err == nil {
		d.log.Info("database schema is up to date", zap.Int64("version", version))
	}
	return nil
}

func (d *Database) gooseDialect() string {
	if d.driver == config.DriverPostgres {
		return "postgres"
	}
	return "sqlite3"
}

// Driver returns the configured driver name, "sqlite" or "postgres".
func (d *Database) Driver() string {
	return d.driver
}

// SQLDB returns the underlying connection pool.
func (d *Database) SQLDB() (*sql.DB, error) {
	return d.DB.DB()
}

// Ping checks connectivity.
func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
