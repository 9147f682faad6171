package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mrlokans/bookhive/internal/config"
)

func TestNew(t *testing.T) {
	log, err := New(config.Log{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zapcore.DebugLevel))

	log, err = New(config.Log{Level: "warn", Format: "json"})
	require.NoError(t, err)
	assert.False(t, log.Core().Enabled(zapcore.InfoLevel))

	_, err = New(config.Log{Level: "loud"})
	assert.Error(t, err)
}

func TestGorm_Trace(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	g := NewGorm(zap.New(core))
	sql := func() (string, int64) { return "SELECT 1", 1 }

	t.Run("errors are logged", func(t *testing.T) {
		g.Trace(context.Background(), time.Now(), sql, errors.New("boom"))
		require.Equal(t, 1, logs.FilterMessage("query failed").Len())
	})

	t.Run("record not found is ignored", func(t *testing.T) {
		before := logs.Len()
		g.Trace(context.Background(), time.Now(), sql, gormlogger.ErrRecordNotFound)
		assert.Equal(t, before, logs.Len())
	})

	t.Run("statements logged at info level", func(t *testing.T) {
		g.LogMode(gormlogger.Info).Trace(context.Background(), time.Now(), sql, nil)
		assert.Equal(t, 1, logs.FilterMessage("query").Len())
	})

	t.Run("silent mode logs nothing", func(t *testing.T) {
		before := logs.Len()
		g.LogMode(gormlogger.Silent).Trace(context.Background(), time.Now(), sql, errors.New("boom"))
		assert.Equal(t, before, logs.Len())
	})
}

func TestBacklite(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	b := NewBacklite(zap.New(core))

	b.Info("task processed", "queue", "cleanup_audit_events")
	b.Error("task failed", "error", "boom")

	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "cleanup_audit_events", logs.All()[0].ContextMap()["queue"])
	assert.Equal(t, zapcore.ErrorLevel, logs.All()[1].Level)
}
