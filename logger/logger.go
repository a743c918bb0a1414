package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger wraps slog.Logger with helpers for the booking domain.
type Logger struct {
	*slog.Logger
}

// New creates a logger writing to stdout. Text output is used while gin runs
// in debug mode, JSON otherwise.
func New(level string) *Logger {
	return NewWithWriter(os.Stdout, level, gin.Mode() != gin.DebugMode)
}

func NewWithWriter(w io.Writer, level string, asJSON bool) *Logger {
	lvl := ParseLevel(level)
	opts := &slog.HandlerOptions{
		Level:     lvl,
		AddSource: lvl == slog.LevelDebug,
	}

	var handler slog.Handler
	if asJSON {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return &Logger{Logger: slog.New(handler)}
}

// Discard returns a logger that drops everything. Handy in tests.
func Discard() *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

// ParseLevel converts a LOG_LEVEL value to slog.Level, defaulting to info.
func ParseLevel(levelStr string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (l *Logger) WithRequestID(requestID string) *Logger {
	return &Logger{Logger: l.Logger.With(slog.String("request_id", requestID))}
}

func (l *Logger) WithError(err error) *Logger {
	return &Logger{Logger: l.Logger.With(slog.String("error", err.Error()))}
}

func (l *Logger) WithComponent(name string) *Logger {
	return &Logger{Logger: l.Logger.With(slog.String("component", name))}
}

// LogHTTPRequest logs a finished HTTP request.
func (l *Logger) LogHTTPRequest(c *gin.Context, duration time.Duration) {
	l.Logger.InfoContext(c.Request.Context(),
		"HTTP Request",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.String("query", c.Request.URL.RawQuery),
		slog.Int("status", c.Writer.Status()),
		slog.Duration("duration", duration),
		slog.String("ip", c.ClientIP()),
		slog.Int("size", c.Writer.Size()),
	)
}

func (l *Logger) LogReservationCreated(ctx context.Context, courtID int, date string, duration int) {
	l.Logger.InfoContext(ctx,
		"Reservation Created",
		slog.Int("court_id", courtID),
		slog.String("date", date),
		slog.Int("duration", duration),
	)
}

func (l *Logger) LogReservationsCancelled(ctx context.Context, courtID, removed int) {
	l.Logger.InfoContext(ctx,
		"Reservations Cancelled",
		slog.Int("court_id", courtID),
		slog.Int("removed", removed),
	)
}

func (l *Logger) LogLightingChanged(ctx context.Context, courtID int, on bool) {
	l.Logger.InfoContext(ctx,
		"Lighting Changed",
		slog.Int("court_id", courtID),
		slog.Bool("on", on),
	)
}

// LogRejected logs an operation refused by the booking rules.
func (l *Logger) LogRejected(ctx context.Context, op string, courtID int, err error) {
	l.Logger.DebugContext(ctx,
		"Operation Rejected",
		slog.String("op", op),
		slog.Int("court_id", courtID),
		slog.String("reason", err.Error()),
	)
}
