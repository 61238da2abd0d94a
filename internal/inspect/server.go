package inspect

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"
)

// ShutdownTimeout bounds a graceful shutdown.
const ShutdownTimeout = 5 * time.Second

// Server runs the inspection handler on a TCP port.
type Server struct {
	logger *slog.Logger
	srv    *http.Server
	ln     net.Listener
}

// Start listens on addr and serves h in the background. Use ":0" to pick a
// free port; Addr reports the bound address.
func Start(addr string, h http.Handler, logger *slog.Logger) (*Server, error) {
	logger.Debug("Configuring inspection server.")
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	s := &Server{
		logger: logger,
		srv:    &http.Server{Handler: h, ReadHeaderTimeout: 5 * time.Second},
		ln:     ln,
	}

	go func() {
		logger.Info("🩺 Inspection server starting", "address", fmt.Sprintf("http://%s/health", ln.Addr()))
		// Serve returns ErrServerClosed on graceful shutdown.
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Inspection server failed unexpectedly", "error", err)
		}
	}()
	return s, nil
}

// Addr returns the address the server is bound to.
func (s *Server) Addr() string {
	return s.ln.Addr().String()
}

// Shutdown stops the server, waiting up to ShutdownTimeout for open requests.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, ShutdownTimeout)
	defer cancel()

	s.logger.Info("🩺 Shutting down inspection server...")
	if err := s.srv.Shutdown(ctx); err != nil {
		s.logger.Error("Inspection server shutdown failed", "error", err)
		return err
	}
	s.logger.Debug("Inspection server shut down gracefully.")
	return nil
}
