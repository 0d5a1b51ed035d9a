package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vigenere/internal/config"
	"vigenere/internal/ctxlog"
	"vigenere/internal/journal"
	"vigenere/internal/key"
	"vigenere/internal/rec"
)

func run(ctx context.Context, c config.Config, remove []string) (err error) {
	defer rec.Error(&err)

	logger := ctxlog.Get(ctx)

	logger.Info("opening journal")
	journal.Open(c.Journal)
	defer ctxlog.Close(ctx, "journal", journal.Closer())

	for _, id := range remove {
		if err := journal.Delete(id); err != nil {
			return fmt.Errorf("delete %q: %w", id, err)
		}
		logger.Info("deleted", "id", id)
	}

	for id, r := range journal.All() {
		// TODO sort by At once the journal grows an index bucket keyed by time
		fmt.Printf("%s\t%s\t%s\t%d lines\n", id, r.At.Format(time.RFC3339), key.Format(r.Key), r.Lines)
	}

	return nil
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if len(os.Args) < 2 {
		fmt.Println("Usage: journal <config> [delete-id...]")
		return
	}

	c, err := config.Load(ctx, os.Args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	ctx = ctxlog.Setup(ctx, "journal", c.Log)

	logger := ctxlog.Get(ctx)

	err = run(ctx, c, os.Args[2:])
	if err != nil {
		logger.Error("stopped unexpectedly", "error", err)
	}
}
