package tasks

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/mikestefanello/backlite"
	"go.uber.org/zap"

	"github.com/mrlokans/bookhive/internal/logger"
)

// Client runs BookHive's background queues on backlite. The queue lives in
// its own SQLite file, separate from the library database whatever its driver.
type Client struct {
	queue   *backlite.Client
	db      *sql.DB
	workers int
	log     *zap.Logger
	running atomic.Bool
}

func openQueueDB(cfg Config) (*sql.DB, error) {
	dsn := cfg.DatabasePath + "?_journal=WAL&_timeout=5000&_busy_timeout=5000"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open tasks database: %w", err)
	}
	// Workers each hold a connection while a task runs, plus headroom for Add.
	db.SetMaxOpenConns(cfg.Workers + 4)
	db.SetMaxIdleConns(cfg.Workers + 1)
	db.SetConnMaxLifetime(time.Hour)
	return db, nil
}

// NewClient opens the queue database and installs the backlite schema.
func NewClient(cfg Config, log *zap.Logger) (*Client, error) {
	db, err := openQueueDB(cfg)
	if err != nil {
		return nil, err
	}

	queue, err := backlite.NewClient(backlite.ClientConfig{
		DB:              db,
		NumWorkers:      cfg.Workers,
		ReleaseAfter:    cfg.ReleaseAfter,
		CleanupInterval: cfg.CleanupInterval,
		Logger:          logger.NewBacklite(log),
	})
	if err == nil {
		err = queue.Install()
	}
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to set up task queue: %w", err)
	}

	return &Client{queue: queue, db: db, workers: cfg.Workers, log: log.Named("tasks")}, nil
}

// Register adds queues. Call it before Start.
func (c *Client) Register(queues ...backlite.Queue) {
	for _, q := range queues {
		c.queue.Register(q)
	}
}

// Start launches the workers and returns. Calling it twice is a no-op.
func (c *Client) Start(ctx context.Context) {
	if !c.running.CompareAndSwap(false, true) {
		return
	}
	c.log.Info("task queue started", zap.Int("workers", c.workers))
	c.queue.Start(ctx)
}

// Stop waits for in-flight tasks until ctx expires and reports whether they
// all finished.
func (c *Client) Stop(ctx context.Context) bool {
	if !c.running.Load() {
		return true
	}
	if !c.queue.Stop(ctx) {
		c.log.Warn("task queue stop timed out with tasks still running")
		return false
	}
	c.log.Info("task queue stopped")
	return true
}

// Close releases the queue database. Call it after Stop.
func (c *Client) Close() error {
	return c.db.Close()
}

// Add enqueues tasks; finish the operation with Save or Ctx(...).Save.
func (c *Client) Add(tasks ...backlite.Task) *backlite.TaskAddOp {
	return c.queue.Add(tasks...)
}

func (c *Client) Status(ctx context.Context, taskID string) (backlite.TaskStatus, error) {
	return c.queue.Status(ctx, taskID)
}
