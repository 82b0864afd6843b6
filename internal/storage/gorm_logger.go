package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const slowQueryThreshold = 200 * time.Millisecond

// gormSlogLogger adapts gorm's logging interface onto slog so database
// traffic lands in the same stream as the rest of the application.
type gormSlogLogger struct {
	logLevel gormlogger.LogLevel
}

func newGormLogger() gormlogger.Interface {
	return &gormSlogLogger{logLevel: gormlogger.Warn}
}

func (l *gormSlogLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.logLevel = level
	return &clone
}

func (l *gormSlogLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.logLevel >= gormlogger.Info {
		slog.Default().Log(ctx, slog.LevelInfo, fmt.Sprintf(msg, data...))
	}
}

func (l *gormSlogLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.logLevel >= gormlogger.Warn {
		slog.Default().Log(ctx, slog.LevelWarn, fmt.Sprintf(msg, data...))
	}
}

func (l *gormSlogLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.logLevel >= gormlogger.Error {
		slog.Default().Log(ctx, slog.LevelError, fmt.Sprintf(msg, data...))
	}
}

func (l *gormSlogLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.logLevel == gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()

	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		if l.logLevel >= gormlogger.Error {
			slog.Default().Log(ctx, slog.LevelError, "query failed",
				"error", err, "sql", sql, "rows", rows, "elapsed", elapsed)
		}
	case elapsed > slowQueryThreshold:
		if l.logLevel >= gormlogger.Warn {
			slog.Default().Log(ctx, slog.LevelWarn, "slow query",
				"sql", sql, "rows", rows, "elapsed", elapsed)
		}
	default:
		if l.logLevel >= gormlogger.Info {
			slog.Default().Log(ctx, slog.LevelInfo, "query",
				"sql", sql, "rows", rows, "elapsed", elapsed)
		}
	}
}
