package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/flemzord/zilliz-mcp/internal/cloud"
	"github.com/flemzord/zilliz-mcp/internal/config"
	"github.com/flemzord/zilliz-mcp/internal/mcpserver"
	"github.com/flemzord/zilliz-mcp/internal/refresher"
	"github.com/flemzord/zilliz-mcp/internal/store/sqlite"
	"github.com/flemzord/zilliz-mcp/internal/telemetry"
	"github.com/flemzord/zilliz-mcp/internal/vectordb"
	"github.com/flemzord/zilliz-mcp/internal/zilliz"
)

func startCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start the MCP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfgPath, _ := cmd.Flags().GetString("config")
			if cfgPath == "" {
				cfgPath = resolveConfigPath()
			}

			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}

			transportName, _ := cmd.Flags().GetString("transport")
			transport, err := mcpserver.ParseTransport(transportName)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			// Stdout carries the protocol on the stdio transport, so all
			// logging goes to stderr unconditionally.
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}))

			return run(ctx, cfg, transport, logger)
		},
	}
	cmd.Flags().StringP("config", "c", "", "Path to configuration file")
	cmd.Flags().StringP("transport", "t", "stdio", "Transport: stdio, sse, or streamable-http")
	return cmd
}

func run(ctx context.Context, cfg *config.Config, transport mcpserver.Transport, logger *slog.Logger) error {
	shutdownTraces, err := telemetry.Setup(ctx, cfg.Telemetry.OTLPEndpoint, version, logger)
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), cfg.Zilliz.Timeout)
		defer cancel()
		if err := shutdownTraces(flushCtx); err != nil {
			logger.Warn("trace flush failed", "error", err)
		}
	}()

	registry := prometheus.NewRegistry()

	opts := []zilliz.Option{
		zilliz.WithLogger(logger),
		zilliz.WithMetrics(zilliz.NewMetrics(registry)),
		zilliz.WithUserAgent("zilliz-mcp/" + version),
	}

	switch {
	case cfg.Zilliz.ClusterEndpoint != "":
		opts = append(opts, zilliz.WithEndpointTemplate(cfg.Zilliz.ClusterEndpoint))
	case cfg.Cache.Path != "":
		store, err := sqlite.Open(cfg.Cache.Path, logger)
		if err != nil {
			return err
		}
		defer store.Close()
		opts = append(opts, zilliz.WithEndpointStore(store))
	}

	client := zilliz.New(cfg.Zilliz.CloudURI, cfg.Zilliz.Token, cfg.Zilliz.Timeout, opts...)

	if cfg.Cache.RefreshSchedule != "" {
		if target, ok := client.Resolver().(*zilliz.CachedResolver); ok {
			ref := refresher.New(target, cfg.Cache.RefreshSchedule, logger)
			if err := ref.Start(); err != nil {
				return err
			}
			defer func() { _ = ref.Stop(context.Background()) }()
		} else {
			logger.Warn("refresh schedule ignored: endpoints come from a static template")
		}
	}

	srv := mcpserver.New(
		cfg.Server,
		version,
		cloud.NewService(client, cfg.Zilliz.FreeClusterRegion, logger),
		vectordb.NewService(client, cfg.Zilliz.FreeClusterRegion, logger),
		logger,
		registry,
	)
	return srv.Run(ctx, transport)
}

// resolveConfigPath searches the standard locations. An empty result is
// fine: the loader runs on environment variables alone.
// Search order: $XDG_CONFIG_HOME/zilliz-mcp/config.yaml → ./zilliz-mcp.yaml
func resolveConfigPath() string {
	var candidates []string

	if xdg, ok := os.LookupEnv("XDG_CONFIG_HOME"); ok {
		candidates = append(candidates, filepath.Join(xdg, "zilliz-mcp", "config.yaml"))
	} else if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".config", "zilliz-mcp", "config.yaml"))
	}

	candidates = append(candidates, "zilliz-mcp.yaml")

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
