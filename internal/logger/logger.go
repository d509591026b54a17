package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
)

type ctxKey struct{}

var (
	mu      sync.RWMutex
	log     = zerolog.New(os.Stdout).With().Timestamp().Logger()
	logFile *os.File
)

// InitLogging configures the global logger. When path is set, logs go to
// both stdout and the file. A file opened by an earlier call is closed.
func InitLogging(path string, level ...string) error {
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack

	lvl := zerolog.InfoLevel
	if len(level) > 0 && level[0] != "" {
		parsed, err := zerolog.ParseLevel(level[0])
		if err != nil {
			return fmt.Errorf("parse log level: %w", err)
		}
		lvl = parsed
	}

	var out io.Writer = os.Stdout
	var f *os.File
	if path != "" {
		var err error
		f, err = os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		out = zerolog.MultiLevelWriter(os.Stdout, f)
	}

	mu.Lock()
	prev := logFile
	logFile = f
	log = zerolog.New(out).Level(lvl).With().Timestamp().Logger()
	mu.Unlock()

	if prev != nil {
		if err := prev.Close(); err != nil {
			return fmt.Errorf("close previous log file: %w", err)
		}
	}
	return nil
}

// Close flushes and closes the log file, if any, and falls back to stdout.
func Close() error {
	mu.Lock()
	f := logFile
	logFile = nil
	if f != nil {
		log = zerolog.New(os.Stdout).Level(log.GetLevel()).With().Timestamp().Logger()
	}
	mu.Unlock()

	if f == nil {
		return nil
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("sync log file: %w", err)
	}
	return f.Close()
}

// SetLogger replaces the global logger.
func SetLogger(l zerolog.Logger) {
	mu.Lock()
	defer mu.Unlock()
	log = l
}

// WithRequestID stores the request id so every log line of a request carries it.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

func from(ctx context.Context) *zerolog.Logger {
	mu.RLock()
	l := log
	mu.RUnlock()
	if id := RequestID(ctx); id != "" {
		l = l.With().Str("request_id", id).Logger()
	}
	return &l
}

func DebugLog(ctx context.Context, format string, args ...interface{}) {
	from(ctx).Debug().Msgf(format, args...)
}

func InfoLog(ctx context.Context, format string, args ...interface{}) {
	from(ctx).Info().Msgf(format, args...)
}

func WarnLog(ctx context.Context, format string, args ...interface{}) {
	from(ctx).Warn().Msgf(format, args...)
}

func ErrorLog(ctx context.Context, format string, args ...interface{}) {
	from(ctx).Error().Msgf(format, args...)
}

// ErrorStack logs err with the stack trace captured by github.com/pkg/errors.
func ErrorStack(ctx context.Context, err error, msg string) {
	from(ctx).Error().Stack().Err(err).Msg(msg)
}
