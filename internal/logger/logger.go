package logger

import (
	"log/slog"
	"os"

	"github.com/google/uuid"
)

// Logger emits one JSON entry per call with the service name, hostname and
// an action tag, matching what the rest of the fleet logs.
type Logger struct {
	service  string
	hostname string
	sl       *slog.Logger
}

func New(service string) *Logger {
	host, _ := os.Hostname()
	sl := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	return &Logger{service: service, hostname: host, sl: sl}
}

func (l *Logger) attrs(action string, fields map[string]any) []any {
	out := []any{
		slog.String("service", l.service),
		slog.String("hostname", l.hostname),
		slog.String("action", action),
	}
	for k, v := range fields {
		out = append(out, slog.Any(k, v))
	}
	return out
}

func (l *Logger) Info(action string, fields map[string]any) {
	l.sl.Info(action, l.attrs(action, fields)...)
}

func (l *Logger) Debug(action string, fields map[string]any) {
	l.sl.Debug(action, l.attrs(action, fields)...)
}

func (l *Logger) Error(action string, err error, fields map[string]any) {
	args := l.attrs(action, fields)
	if err != nil {
		args = append(args, slog.String("error", err.Error()))
	}
	l.sl.Error(action, args...)
}

// GenerateRequestID returns a fresh id for request correlation in logs.
func GenerateRequestID() string { return uuid.NewString() }
