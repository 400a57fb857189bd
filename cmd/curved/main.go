package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"curve/internal/config"
	"curve/internal/ctxlog"
	"curve/internal/db"
	"curve/internal/rec"
	"curve/internal/server"
)

func run(ctx context.Context, file string) (err error) {
	defer rec.Error(&err)

	logger := ctxlog.Get(ctx)

	c, err := config.Load(ctx, file)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	var keys server.KeyStore
	if c.DB.File != "" {
		logger.Info("opening db", "file", c.DB.File)
		db.Open(c.DB)
		defer ctxlog.Close(ctx, "db", db.Closer())
		keys = db.Store{}
	} else {
		logger.Warn("no db file configured, named keys disabled")
	}

	logger.Info("starting server")
	srv := server.New(c.Server, keys)

	return srv.Run(ctx)
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	ctx = ctxlog.Setup(ctx, "curved")

	logger := ctxlog.Get(ctx)

	file := config.Default
	if len(os.Args) > 1 {
		file = os.Args[1]
	}

	err := run(ctx, file)
	if err != nil {
		logger.Error("server stopped unexpectedly", "error", err)
		os.Exit(1)
	}
	logger.Info("server gracefully stopped")
}
