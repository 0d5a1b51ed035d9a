// Package server exposes the decoder over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"vigenere/internal/ctxlog"
)

const defaultMaxBodyBytes = 1 << 20

type Server struct {
	addr            string
	handler         http.Handler
	anti            *antidos
	shutdownTimeout time.Duration
}

func New(config Config) *Server {
	if config.Port == 0 {
		panic("server: port is required")
	}
	if config.AntidosBuckets == 0 {
		panic("server: antidosBuckets is required")
	}
	if config.AntidosPeriod == 0 {
		panic("server: antidosPeriod is required")
	}
	if config.ShutdownTimeout == 0 {
		panic("server: shutdownTimeout is required")
	}
	if config.MaxBodyBytes == 0 {
		config.MaxBodyBytes = defaultMaxBodyBytes
	}

	anti := newAntidos(config.AntidosBuckets, config.AntidosPeriod)

	mux := http.NewServeMux()

	slog.Info("registering handler", "path", "POST /decode", "max_body_bytes", config.MaxBodyBytes)
	mux.Handle("POST /decode", anti.middleware(decodeHandler(config.MaxBodyBytes)))

	slog.Info("registering handler", "path", "GET /decodes/{id}")
	mux.Handle("GET /decodes/{id}", anti.middleware(recordHandler()))

	handler := http.Handler(mux)
	handler = recoverMiddleware(handler)
	handler = logMiddleware(handler)

	return &Server{
		addr:            fmt.Sprintf("0.0.0.0:%d", config.Port),
		handler:         handler,
		anti:            anti,
		shutdownTimeout: config.ShutdownTimeout,
	}
}

func (s *Server) Run(ctx context.Context) error {
	logger := ctxlog.Get(ctx)
	defer s.anti.stop()

	srv := &http.Server{
		Addr:        s.addr,
		Handler:     s.handler,
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	serveErrCh := make(chan error, 1)
	go func() {
		defer cancel()
		logger.Info("server is running", "addr", s.addr)
		serveErrCh <- srv.ListenAndServe()
	}()

	<-ctx.Done()

	logger.Info("server is shutting down")

	stopCtx, stopCancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer stopCancel()
	shutdownErr := srv.Shutdown(stopCtx)

	if errors.Is(shutdownErr, context.DeadlineExceeded) {
		logger.Error("server shutdown timeout exceeded")
	} else if shutdownErr == nil {
		logger.Info("all clients closed successfully")
	}

	serveErr := <-serveErrCh
	if errors.Is(serveErr, http.ErrServerClosed) {
		serveErr = nil
	}

	return errors.Join(serveErr, shutdownErr)
}
