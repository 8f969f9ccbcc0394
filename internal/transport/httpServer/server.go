// Package httpServer owns the HTTP listener lifecycle.
package httpServer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ajinkyagorad/fb-events-map/internal/config"
	"github.com/ajinkyagorad/fb-events-map/internal/transport/httpServer/routers"
)

type HttpServer struct {
	logger *slog.Logger
	server *http.Server
}

func NewHttpServer(logger *slog.Logger, router *routers.Router, cfg config.HttpServer) *HttpServer {
	mux := chi.NewMux()
	router.Mount(mux)

	return &HttpServer{
		logger: logger,
		server: &http.Server{
			Addr:         net.JoinHostPort(cfg.Address, cfg.Port),
			Handler:      mux,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
	}
}

// Listen blocks until the server stops. A clean shutdown is not an error.
func (s *HttpServer) Listen() error {
	op := "httpServer.HttpServer.Listen()"

	s.logger.Info("http server listening",
		slog.String("op", op),
		slog.String("addr", s.server.Addr),
	)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *HttpServer) Shutdown(ctx context.Context) error {
	op := "httpServer.HttpServer.Shutdown()"

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
