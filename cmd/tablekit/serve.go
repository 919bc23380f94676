package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/tablekit-dev/tablekit/internal/config"
	"github.com/tablekit-dev/tablekit/pkg/history"
	"github.com/tablekit-dev/tablekit/pkg/live"
	"github.com/tablekit-dev/tablekit/pkg/middleware"
	"github.com/tablekit-dev/tablekit/pkg/source"
	"github.com/tablekit-dev/tablekit/pkg/tablestate"
)

func serveCmd() *cobra.Command {
	var (
		configDir string
		address   string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the live table server",
		Long: `Start the live table server.

Rows are loaded from the configured dataset source, and each WebSocket
session gets its own filter and pagination state. Sessions receive row
patches and URL patches as their state changes.

Examples:
  tablekit serve
  tablekit serve --config ./deploy
  tablekit serve --address :9000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(configDir, address)
		},
	}

	cmd.Flags().StringVarP(&configDir, "config", "c", "", "Directory containing tablekit.json (default: walk up from cwd)")
	cmd.Flags().StringVarP(&address, "address", "a", "", "Listen address (overrides tablekit.json)")

	return cmd
}

func runServe(configDir, address string) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg, err := loadConfig(configDir)
	if err != nil {
		return err
	}
	if address != "" {
		cfg.Address = address
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	src := buildSource(cfg)
	if cfg.Dataset.Source == config.SourceStatic {
		applyDemoTableDefaults(cfg)
	}
	loadCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	rows, err := src.Load(loadCtx)
	cancel()
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}
	logger.Info("dataset loaded", "source", cfg.Dataset.Source, "rows", len(rows))

	factory := tableFactory(cfg, rows)

	var mw []live.EventMiddleware
	if !cfg.Metrics.Disabled {
		mw = append(mw, middleware.Prometheus(middleware.WithNamespace(cfg.Metrics.Namespace)))
	}
	mw = append(mw, middleware.OTel())

	srv := live.NewServer(factory, &live.Config{
		Address:        cfg.Address,
		IdleTimeout:    cfg.IdleTimeoutDuration(),
		MaxSessions:    cfg.MaxSessions,
		AllowedOrigins: cfg.AllowedOrigins,
		Logger:         logger,
	}, mw...)

	if !cfg.Metrics.Disabled {
		middleware.RegisterSessionGauges(srv.Sessions(), prometheus.DefaultRegisterer, cfg.Metrics.Namespace)
	}

	logger.Info("serving", "address", cfg.Address)
	return srv.Start(ctx)
}

// loadConfig resolves the configuration. A missing tablekit.json is not
// fatal: the built-in demo dataset is served with defaults.
func loadConfig(dir string) (*config.Config, error) {
	if dir != "" {
		return config.Load(dir)
	}

	cfg, err := config.LoadFromWorkingDir()
	if errors.Is(err, config.ErrNotFound) {
		return config.New(), nil
	}
	return cfg, err
}

func buildSource(cfg *config.Config) source.Source {
	switch cfg.Dataset.Source {
	case config.SourceFile:
		return source.NewFile(cfg.Dataset.Path)
	case config.SourceS3:
		client := s3.New(s3.Options{Region: cfg.Dataset.Region})
		return source.NewS3(client, cfg.Dataset.Bucket, cfg.Dataset.Key)
	default:
		return source.NewStatic(demoInventory())
	}
}

func tableFactory(cfg *config.Config, rows []source.Row) live.TableFactory {
	tc := cfg.Table
	return func(h history.History) (live.Table, error) {
		ts := tablestate.New(tablestate.Config[source.Row]{
			SearchKeys:          tc.SearchKeys,
			CategoryKey:         tc.CategoryKey,
			StatusKey:           tc.StatusKey,
			InitialItemsPerPage: tc.ItemsPerPage,
			ItemsPerPageOptions: tc.ItemsPerPageOptions,
			URL: tablestate.URLConfig{
				Enabled: true,
				Prefix:  tc.URLPrefix,
				History: h,
			},
		})
		ts.SetItems(rows)
		return live.Bind(ts), nil
	}
}
