// Package mcpserver exposes the control-plane and data-plane services as
// MCP tools over stdio, SSE, or streamable-http transports.
package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/flemzord/zilliz-mcp/internal/cloud"
	"github.com/flemzord/zilliz-mcp/internal/config"
	"github.com/flemzord/zilliz-mcp/internal/vectordb"
)

// Transport selects how the MCP server speaks to its client.
type Transport string

const (
	TransportStdio          Transport = "stdio"
	TransportSSE            Transport = "sse"
	TransportStreamableHTTP Transport = "streamable-http"
)

// ParseTransport validates a transport name from config or flags.
func ParseTransport(name string) (Transport, error) {
	switch Transport(name) {
	case TransportStdio, TransportSSE, TransportStreamableHTTP:
		return Transport(name), nil
	case "":
		return TransportStdio, nil
	}
	return "", fmt.Errorf("unknown transport %q (want stdio, sse, or streamable-http)", name)
}

// Server wires the tool catalogue into an MCP server and runs it over the
// selected transport. Network transports also expose /healthz and /metrics.
type Server struct {
	cfg      config.ServerConfig
	version  string
	cloud    *cloud.Service
	vectordb *vectordb.Service
	logger   *slog.Logger
	gatherer prometheus.Gatherer

	mcp *server.MCPServer
}

// New builds the MCP server with all tools registered. gatherer backs the
// /metrics endpoint on network transports; nil disables it.
func New(cfg config.ServerConfig, version string, cloudSvc *cloud.Service, vdbSvc *vectordb.Service, logger *slog.Logger, gatherer prometheus.Gatherer) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		cfg:      cfg,
		version:  version,
		cloud:    cloudSvc,
		vectordb: vdbSvc,
		logger:   logger.With("component", "mcpserver"),
		gatherer: gatherer,
	}

	srv := server.NewMCPServer(
		"zilliz-mcp",
		version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)
	s.registerTools(srv)
	s.mcp = srv

	return s
}

// MCP returns the underlying MCP server, mainly for tests.
func (s *Server) MCP() *server.MCPServer { return s.mcp }

// Run serves until ctx is cancelled or the transport fails.
func (s *Server) Run(ctx context.Context, transport Transport) error {
	switch transport {
	case TransportStdio:
		return s.runStdio(ctx)
	case TransportSSE:
		return s.runSSE(ctx)
	case TransportStreamableHTTP:
		return s.runStreamableHTTP(ctx)
	}
	return fmt.Errorf("unknown transport %q", transport)
}

func (s *Server) runStdio(ctx context.Context) error {
	s.logger.Info("serving over stdio")
	stdio := server.NewStdioServer(s.mcp)
	return stdio.Listen(ctx, os.Stdin, os.Stdout)
}

func (s *Server) addr() string {
	return net.JoinHostPort(s.cfg.Host, fmt.Sprintf("%d", s.cfg.Port))
}

func (s *Server) runSSE(ctx context.Context) error {
	baseURL := fmt.Sprintf("http://%s", s.addr())
	sse := server.NewSSEServer(
		s.mcp,
		server.WithBaseURL(baseURL),
		server.WithSSEEndpoint("/sse"),
		server.WithMessageEndpoint("/message"),
		server.WithKeepAlive(true),
		server.WithKeepAliveInterval(30*time.Second),
	)

	mux := chi.NewRouter()
	s.mountOps(mux)
	mux.Mount("/", sse)

	return s.serveHTTP(ctx, mux, "sse")
}

func (s *Server) runStreamableHTTP(ctx context.Context) error {
	streamable := server.NewStreamableHTTPServer(s.mcp)

	mux := chi.NewRouter()
	s.mountOps(mux)
	mux.Mount("/mcp", streamable)

	return s.serveHTTP(ctx, mux, "streamable-http")
}

// mountOps adds the operational endpoints shared by the network transports.
func (s *Server) mountOps(mux *chi.Mux) {
	mux.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"status":"ok","version":%q}`, s.version)
	})
	if s.gatherer != nil {
		mux.Get("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}).ServeHTTP)
	}
}

func (s *Server) serveHTTP(ctx context.Context, handler http.Handler, transport string) error {
	httpServer := &http.Server{
		Addr:        s.addr(),
		Handler:     handler,
		ReadTimeout: 30 * time.Second,
	}

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", httpServer.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", httpServer.Addr, err)
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("serving", "transport", transport, "addr", httpServer.Addr)
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("shutting down", "transport", transport)
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return <-errCh
	case err := <-errCh:
		return err
	}
}
