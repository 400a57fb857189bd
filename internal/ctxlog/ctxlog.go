// Package ctxlog provides context-aware structured logging utilities.
package ctxlog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Dir is where log files are created.
var Dir = "log"

var setup = false

// Setup logs JSON to stderr and to a fresh file named after the program.
func Setup(ctx context.Context, name string) context.Context {
	return setupWith(ctx, name, os.Stderr)
}

// SetupFile logs to the file only, for tools whose stdout and stderr
// belong to the user.
func SetupFile(ctx context.Context, name string) context.Context {
	return setupWith(ctx, name, nil)
}

func setupWith(ctx context.Context, name string, console io.Writer) context.Context {
	if setup {
		return Store(ctx, slog.Default())
	}

	err := os.MkdirAll(Dir, 0755)
	if err != nil {
		panic(fmt.Errorf("create log dir: %w", err))
	}

	logFile, err := os.Create(filepath.Join(Dir, name+"-"+time.Now().Format("2006-01-02-15-04-05.log")))
	if err != nil {
		panic(fmt.Errorf("create log file: %w", err))
	}

	w := io.Writer(logFile)
	if console != nil {
		w = io.MultiWriter(console, logFile)
	}

	logger := slog.New(slog.NewJSONHandler(w, nil)).With("app", name)
	slog.SetDefault(logger)

	setup = true

	return Store(ctx, logger)
}

type ctxKey struct{}

var key ctxKey

func Store(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, key, log)
}

func Get(ctx context.Context) *slog.Logger {
	log, ok := ctx.Value(key).(*slog.Logger)
	if !ok {
		return slog.Default()
	}
	return log
}

func Close(ctx context.Context, name string, closer io.Closer) error {
	logger := Get(ctx)
	err := closer.Close()
	if err != nil {
		logger.Error("failed to close", "closer", name, "error", err)
		return err
	}
	return nil
}

func With(ctx context.Context, kv ...any) context.Context {
	return Store(ctx, Get(ctx).With(kv...))
}

// Discard returns ctx carrying a logger that drops everything.
func Discard(ctx context.Context) context.Context {
	return Store(ctx, slog.New(slog.NewTextHandler(io.Discard, nil)))
}
