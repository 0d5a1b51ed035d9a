package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"vigenere/internal/config"
	"vigenere/internal/ctxlog"
	"vigenere/internal/journal"
	"vigenere/internal/rec"
	"vigenere/internal/server"
)

func run(ctx context.Context, c config.Config) (err error) {
	defer rec.Error(&err)

	logger := ctxlog.Get(ctx)

	if c.Journal.File != "" {
		logger.Info("opening journal")
		journal.Open(c.Journal)
		defer ctxlog.Close(ctx, "journal", journal.Closer())
	}

	logger.Info("starting server")
	srv := server.New(c.Server)

	return srv.Run(ctx)
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	configFile := "config.yaml"
	if len(os.Args) > 1 {
		configFile = os.Args[1]
	}

	c, err := config.Load(ctx, configFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	ctx = ctxlog.Setup(ctx, "serve", c.Log)

	logger := ctxlog.Get(ctx)

	err = run(ctx, c)
	if err != nil {
		logger.Error("server stopped unexpectedly", "error", err)
	} else {
		logger.Info("server gracefully stopped")
	}
}
