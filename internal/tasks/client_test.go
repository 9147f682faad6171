package tasks

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mrlokans/bookhive/internal/config"
)

func testConfig(t *testing.T) Config {
	cfg := DefaultConfig()
	cfg.DatabasePath = filepath.Join(t.TempDir(), "bookhive-tasks.db")
	cfg.Workers = 1
	return cfg
}

func TestNewClient(t *testing.T) {
	cfg := testConfig(t)

	client, err := NewClient(cfg, zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, client)

	_, err = os.Stat(cfg.DatabasePath)
	assert.NoError(t, err, "tasks database should be created")

	assert.NoError(t, client.Close())
}

func TestClientStartStop(t *testing.T) {
	client, err := NewClient(testConfig(t), zap.NewNop())
	require.NoError(t, err)
	defer client.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go client.Start(ctx)
	time.Sleep(50 * time.Millisecond)

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer stopCancel()

	assert.True(t, client.Stop(stopCtx), "stop should succeed gracefully")
}

func TestClientStopBeforeStart(t *testing.T) {
	client, err := NewClient(testConfig(t), zap.NewNop())
	require.NoError(t, err)
	defer client.Close()

	assert.True(t, client.Stop(context.Background()))
}

type fakeCleaner struct {
	retentions chan time.Duration
	deleted    int64
}

func (f *fakeCleaner) DeleteOldEvents(_ context.Context, retention time.Duration) (int64, error) {
	f.retentions <- retention
	return f.deleted, nil
}

func TestCleanupAuditEventsTask_RunsThroughQueue(t *testing.T) {
	client, err := NewClient(testConfig(t), zap.NewNop())
	require.NoError(t, err)
	defer client.Close()

	cleaner := &fakeCleaner{retentions: make(chan time.Duration, 1), deleted: 3}
	client.Register(NewCleanupAuditEventsQueue(cleaner, zap.NewNop()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go client.Start(ctx)

	ids, err := client.Add(CleanupAuditEventsTask{RetentionDays: 7}).Save()
	require.NoError(t, err)
	assert.Len(t, ids, 1)

	select {
	case got := <-cleaner.retentions:
		assert.Equal(t, 7*24*time.Hour, got)
	case <-time.After(5 * time.Second):
		t.Fatal("cleanup task was not executed within timeout")
	}

	assert.Eventually(t, func() bool {
		status, err := client.Status(context.Background(), ids[0])
		return err == nil && status == backlite.TaskStatusSuccess
	}, 5*time.Second, 20*time.Millisecond)
}

func TestCleanupAuditEventsProcessor(t *testing.T) {
	t.Run("defaults retention", func(t *testing.T) {
		cleaner := &fakeCleaner{retentions: make(chan time.Duration, 1)}
		process := CleanupAuditEventsProcessor(cleaner, zap.NewNop())

		require.NoError(t, process(context.Background(), CleanupAuditEventsTask{}))
		assert.Equal(t, 30*24*time.Hour, <-cleaner.retentions)
	})

	t.Run("missing cleaner", func(t *testing.T) {
		process := CleanupAuditEventsProcessor(nil, zap.NewNop())
		assert.Error(t, process(context.Background(), CleanupAuditEventsTask{}))
	})
}

func TestCleanupAuditEventsTaskConfig(t *testing.T) {
	var task backlite.Task = CleanupAuditEventsTask{}
	cfg := task.Config()

	assert.Equal(t, "cleanup_audit_events", cfg.Name)
	assert.Equal(t, 3, cfg.MaxAttempts)
	assert.Equal(t, 2*time.Minute, cfg.Timeout)
	assert.NotNil(t, cfg.Retention)
}

func TestConfigFrom(t *testing.T) {
	cfg := ConfigFrom(config.Tasks{Workers: 4, DatabasePath: "/tmp/q.db"})

	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, "/tmp/q.db", cfg.DatabasePath)
	assert.Equal(t, 15*time.Minute, cfg.ReleaseAfter)
	assert.Equal(t, time.Hour, cfg.CleanupInterval)

	assert.Equal(t, DefaultConfig(), ConfigFrom(config.Tasks{}))
}
