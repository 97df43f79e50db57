package httphandler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"
)

// An HTTPServer owns its listener from construction, so an unusable
// address fails at startup rather than after the app reports running.
type HTTPServer struct {
	srv *http.Server
	ln  net.Listener
}

// NewHTTPServer binds addr and limits every request to requestTimeout.
func NewHTTPServer(
	addr string, handler http.Handler, requestTimeout time.Duration,
) (HTTPServer, error) {
	const op = "NewHTTPServer"

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return HTTPServer{}, fmt.Errorf("%s: %w", op, err)
	}

	srv := &http.Server{
		Handler:           http.TimeoutHandler(handler, requestTimeout, "unavailable"),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       30 * time.Second,
	}
	return HTTPServer{srv: srv, ln: ln}, nil
}

// Addr is the bound address, with the port resolved for ":0".
func (s HTTPServer) Addr() string {
	return s.ln.Addr().String()
}

// Run serves until Close. stopFn is called when serving ends for any reason.
func (s HTTPServer) Run(stopFn context.CancelFunc) {
	const op = "HTTPServer.Run"
	log := slog.With("op", op)

	defer stopFn()
	log.Info("listening", "addr", s.Addr())

	err := s.srv.Serve(s.ln)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("unexpected server shutdown", "err", err)
	}
}

func (s HTTPServer) Close(ctx context.Context) {
	const op = "HTTPServer.Close"
	log := slog.With("op", op)

	if err := s.srv.Shutdown(ctx); err != nil {
		log.Error("failed to shutdown gracefully", "err", err)
		return
	}
	log.Info("http server is closed")
}
