package logger

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/movies-backend/config"
	"github.com/rs/zerolog"
)

type Logger struct {
	logger zerolog.Logger
}

// NewLogger creates a structured logger with validation and defaults
func NewLogger(cfg *config.LoggingConfig) (*Logger, error) {
	level := cfg.Level
	if level == "" {
		level = "info"
	}

	format := cfg.Format
	if format == "" {
		format = "json"
	}

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "movies-backend"
	}

	// Validate log level early to fail fast
	logLevel, err := zerolog.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level '%s': %v", level, err)
	}

	var output io.Writer
	switch format {
	case "console":
		// Human-readable output for development
		output = zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.Kitchen,
		}
	case "json":
		output = os.Stdout
	case "file":
		// JSON to stdout and to a daily file under ./logs
		logDir := "./logs"
		if err := os.MkdirAll(logDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %v", err)
		}

		logFile := fmt.Sprintf("%s/%s-%s.log", logDir, serviceName, time.Now().Format("2006-01-02"))
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %v", err)
		}

		output = io.MultiWriter(os.Stdout, file)
	default:
		return nil, fmt.Errorf("invalid log format '%s': expected console, json or file", format)
	}

	return New(output, logLevel, serviceName), nil
}

// New builds a logger writing JSON lines to w. Used by NewLogger and by tests
// that need to inspect output.
func New(w io.Writer, level zerolog.Level, serviceName string) *Logger {
	l := zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Str("service", serviceName).
		Logger()

	return &Logger{logger: l}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{logger: zerolog.Nop()}
}

func (l *Logger) Debug(msg string) {
	l.logger.Debug().Msg(msg)
}

func (l *Logger) Info(msg string) {
	l.logger.Info().Msg(msg)
}

func (l *Logger) Warn(msg string) {
	l.logger.Warn().Msg(msg)
}

func (l *Logger) Error(msg string) {
	l.logger.Error().Msg(msg)
}

func (l *Logger) Fatal(msg string) {
	l.logger.Fatal().Msg(msg)
}

// Err logs msg at error level with err attached as the "error" field
func (l *Logger) Err(err error, msg string) {
	l.logger.Error().Err(err).Msg(msg)
}

// WithComponent returns a logger instance with component context
func (l *Logger) WithComponent(component string) *Logger {
	return l.WithField("component", component)
}

// WithField returns a child logger carrying key=value on every entry
func (l *Logger) WithField(key, value string) *Logger {
	return &Logger{
		logger: l.logger.With().Str(key, value).Logger(),
	}
}

// Level reports the minimum level this logger emits
func (l *Logger) Level() zerolog.Level {
	return l.logger.GetLevel()
}
