package logger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// GormLogger routes gorm's statement logging through zerolog.
// Statements are logged at debug level, slow ones at warn, failures at error.
// ErrRecordNotFound is not treated as a failure.
type GormLogger struct {
	logger        zerolog.Logger
	level         gormlogger.LogLevel
	slowThreshold time.Duration
}

// NewGormLogger derives the gorm log level from the application logger's level
func NewGormLogger(l *Logger, slowThreshold time.Duration) *GormLogger {
	level := gormlogger.Warn
	switch l.Level() {
	case zerolog.TraceLevel, zerolog.DebugLevel:
		level = gormlogger.Info
	case zerolog.ErrorLevel:
		level = gormlogger.Error
	case zerolog.FatalLevel, zerolog.PanicLevel, zerolog.Disabled:
		level = gormlogger.Silent
	}

	return &GormLogger{
		logger:        l.logger.With().Str("component", "gorm").Logger(),
		level:         level,
		slowThreshold: slowThreshold,
	}
}

func (g *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *g
	clone.level = level
	return &clone
}

func (g *GormLogger) Info(_ context.Context, msg string, args ...interface{}) {
	if g.level >= gormlogger.Info {
		g.logger.Info().Msg(fmt.Sprintf(msg, args...))
	}
}

func (g *GormLogger) Warn(_ context.Context, msg string, args ...interface{}) {
	if g.level >= gormlogger.Warn {
		g.logger.Warn().Msg(fmt.Sprintf(msg, args...))
	}
}

func (g *GormLogger) Error(_ context.Context, msg string, args ...interface{}) {
	if g.level >= gormlogger.Error {
		g.logger.Error().Msg(fmt.Sprintf(msg, args...))
	}
}

func (g *GormLogger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if g.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	switch {
	case err != nil && g.level >= gormlogger.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		sql, rows := fc()
		g.logger.Error().Err(err).Dur("elapsed", elapsed).Int64("rows", rows).Str("sql", sql).Msg("query failed")
	case g.slowThreshold > 0 && elapsed > g.slowThreshold && g.level >= gormlogger.Warn:
		sql, rows := fc()
		g.logger.Warn().Dur("elapsed", elapsed).Int64("rows", rows).Str("sql", sql).Msg("slow query")
	case g.level >= gormlogger.Info:
		sql, rows := fc()
		g.logger.Debug().Dur("elapsed", elapsed).Int64("rows", rows).Str("sql", sql).Msg("query")
	}
}
