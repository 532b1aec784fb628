package logger

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
)

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

// sink is one destination of a fanout. Records below min are not sent to
// it. Write errors of a lossy sink are dropped.
type sink struct {
	h     slog.Handler
	min   slog.Level
	lossy bool
}

// fanout hands every record to each sink that accepts its level.
type fanout struct {
	sinks []sink
}

func (f *fanout) Enabled(ctx context.Context, lvl slog.Level) bool {
	for _, s := range f.sinks {
		if lvl >= s.min && s.h.Enabled(ctx, lvl) {
			return true
		}
	}
	return false
}

func (f *fanout) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, s := range f.sinks {
		if r.Level < s.min || !s.h.Enabled(ctx, r.Level) {
			continue
		}
		if err := s.h.Handle(ctx, r.Clone()); err != nil && !s.lossy {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (f *fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	return f.derive(func(h slog.Handler) slog.Handler { return h.WithAttrs(attrs) })
}

func (f *fanout) WithGroup(name string) slog.Handler {
	return f.derive(func(h slog.Handler) slog.Handler { return h.WithGroup(name) })
}

func (f *fanout) derive(fn func(slog.Handler) slog.Handler) *fanout {
	out := &fanout{sinks: make([]sink, len(f.sinks))}
	for i, s := range f.sinks {
		s.h = fn(s.h)
		out.sinks[i] = s
	}
	return out
}

// New builds the worker logger. Everything goes to out, text or JSON
// depending on env. When errs is not nil, records at error level and above
// are mirrored to it as text.
func New(env string, out, errs io.Writer) *slog.Logger {
	level := slog.LevelDebug
	if env == EnvProd {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	var core slog.Handler
	switch env {
	case EnvDev:
		core = slog.NewJSONHandler(out, opts)
	default:
		core = slog.NewTextHandler(out, opts)
	}

	if errs == nil {
		return slog.New(core)
	}

	return slog.New(&fanout{sinks: []sink{
		{h: core, min: level},
		{h: slog.NewTextHandler(errs, &slog.HandlerOptions{Level: slog.LevelError}), min: slog.LevelError, lossy: true},
	}})
}

// Setup logs to stdout and mirrors errors into the errorLog file, if set.
// The returned close func releases that file.
func Setup(env, errorLog string) (*slog.Logger, func() error) {
	if errorLog == "" {
		return New(env, os.Stdout, nil), func() error { return nil }
	}

	file, err := os.OpenFile(errorLog, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log := New(env, os.Stdout, nil)
		log.Warn("cannot open error log file", slog.String("path", errorLog), slog.String("error", err.Error()))
		return log, func() error { return nil }
	}

	return New(env, os.Stdout, file), file.Close
}
