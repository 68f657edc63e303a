package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-logr/logr"
	"github.com/mark3labs/mcp-go/server"
)

const shutdownTimeout = 5 * time.Second

// Router mounts the streamable HTTP transport at /mcp next to /health.
func Router(s *server.MCPServer) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", health)
	r.Handle("/mcp", server.NewStreamableHTTPServer(s))
	return r
}

func health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// ServeHTTP listens on port (0 picks a free one) and serves handler until
// ctx is done.
func ServeHTTP(ctx context.Context, port int, handler http.Handler, log logr.Logger) error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	addr := ln.Addr().(*net.TCPAddr)
	log.Info("server running", "url", fmt.Sprintf("http://localhost:%d", addr.Port))
	log.Info("MCP endpoint", "url", fmt.Sprintf("http://localhost:%d/mcp", addr.Port))

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
