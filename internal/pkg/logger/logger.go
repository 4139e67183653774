package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// New builds the process logger and installs it as the slog default.
// Development: text output at Debug level. Anything else: JSON at Info level.
func New(env string) *slog.Logger {
	return newWithWriter(env, os.Stdout)
}

func newWithWriter(env string, w io.Writer) *slog.Logger {
	var h slog.Handler
	if env == "development" {
		h = slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
	} else {
		h = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	l := slog.New(h)
	slog.SetDefault(l)
	return l
}

// Asynq adapts a slog.Logger to the asynq.Logger interface.
type Asynq struct {
	L *slog.Logger
}

func (a Asynq) Debug(args ...interface{}) { a.L.Debug(fmt.Sprint(args...), "component", "asynq") }
func (a Asynq) Info(args ...interface{})  { a.L.Info(fmt.Sprint(args...), "component", "asynq") }
func (a Asynq) Warn(args ...interface{})  { a.L.Warn(fmt.Sprint(args...), "component", "asynq") }
func (a Asynq) Error(args ...interface{}) { a.L.Error(fmt.Sprint(args...), "component", "asynq") }

// Fatal logs at error level and exits, as asynq expects.
func (a Asynq) Fatal(args ...interface{}) {
	a.L.Error(fmt.Sprint(args...), "component", "asynq")
	os.Exit(1)
}
