// Package logger builds the application's zap logger and the adapters that let
// gorm, goose and backlite write through it.
package logger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mrlokans/bookhive/internal/config"
)

// New creates a zap logger from configuration. Format "console" produces a
// development logger, anything else the JSON production encoder.
func New(cfg config.Log) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", cfg.Level, err)
	}

	var zc zap.Config
	if cfg.Format == "console" {
		zc = zap.NewDevelopmentConfig()
	} else {
		zc = zap.NewProductionConfig()
		zc.EncoderConfig.TimeKey = "time"
		zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	return zc.Build()
}

// Gorm adapts zap to gorm's logger interface. SQL statements are logged at
// debug level, slow queries at warn and failed queries at error.
type Gorm struct {
	log           *zap.Logger
	level         gormlogger.LogLevel
	slowThreshold time.Duration
}

func NewGorm(log *zap.Logger) *Gorm {
	return &Gorm{
		log:           log.Named("gorm").WithOptions(zap.AddCallerSkip(3)),
		level:         gormlogger.Warn,
		slowThreshold: 200 * time.Millisecond,
	}
}

func (g *Gorm) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *g
	clone.level = level
	return &clone
}

func (g *Gorm) Info(_ context.Context, msg string, args ...interface{}) {
	if g.level >= gormlogger.Info {
		g.log.Sugar().Infof(msg, args...)
	}
}

func (g *Gorm) Warn(_ context.Context, msg string, args ...interface{}) {
	if g.level >= gormlogger.Warn {
		g.log.Sugar().Warnf(msg, args...)
	}
}

func (g *Gorm) Error(_ context.Context, msg string, args ...interface{}) {
	if g.level >= gormlogger.Error {
		g.log.Sugar().Errorf(msg, args...)
	}
}

func (g *Gorm) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if g.level <= gormlogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	switch {
	case err != nil && g.level >= gormlogger.Error && !errors.Is(err, gormlogger.ErrRecordNotFound):
		sql, rows := fc()
		g.log.Error("query failed", zap.Error(err), zap.Duration("elapsed", elapsed), zap.Int64("rows", rows), zap.String("sql", sql))
	case elapsed > g.slowThreshold && g.level >= gormlogger.Warn:
		sql, rows := fc()
		g.log.Warn("slow query", zap.Duration("elapsed", elapsed), zap.Int64("rows", rows), zap.String("sql", sql))
	case g.level >= gormlogger.Info:
		sql, rows := fc()
		g.log.Debug("query", zap.Duration("elapsed", elapsed), zap.Int64("rows", rows), zap.String("sql", sql))
	}
}

// Goose satisfies goose.Logger.
type Goose struct {
	log *zap.SugaredLogger
}

func NewGoose(log *zap.Logger) *Goose {
	return &Goose{log: log.Named("migrations").Sugar()}
}

func (g *Goose) Fatalf(format string, v ...interface{}) { g.log.Fatalf(format, v...) }
func (g *Goose) Printf(format string, v ...interface{}) { g.log.Infof(format, v...) }

// Backlite satisfies backlite.Logger. Params are key/value pairs.
type Backlite struct {
	log *zap.SugaredLogger
}

func NewBacklite(log *zap.Logger) *Backlite {
	return &Backlite{log: log.Named("tasks").Sugar()}
}

func (b *Backlite) Info(message string, params ...any)  { b.log.Infow(message, params...) }
func (b *Backlite) Error(message string, params ...any) { b.log.Errorw(message, params...) }
