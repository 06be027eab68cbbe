package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"modelshare/internal/blob"
	"modelshare/internal/cache"
	"modelshare/internal/config"
	"modelshare/internal/logging"
	"modelshare/internal/metrics"
)

// app carries what every subcommand shares. Storage is opened on first use so
// commands like frame run without a configured backend.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	registry *prometheus.Registry
	metrics  *metrics.Recorder
	stdout   io.Writer

	blobs blob.Store
	cache cache.Cache
}

func newApp(stdout io.Writer) *app { return &app{stdout: stdout} }

func (a *app) rootCmd(stderr io.Writer) *cobra.Command {
	stdout := a.stdout
	var (
		configPath string
		logLevel   string
	)
	cmd := &cobra.Command{
		Use:           "modelshare",
		Short:         "Share 3D model variants with previews and AR companions",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(configPath, logLevel)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	cmd.PersistentFlags().StringVar(&configPath, "config", "modelshare.yaml", "YAML config file; skipped when missing")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log level: debug|info|warn|error")

	cmd.AddCommand(newShareCmd(a))
	cmd.AddCommand(newShareARCmd(a))
	cmd.AddCommand(newFrameCmd(a))
	cmd.AddCommand(newPresetsCmd(a))
	cmd.AddCommand(newViewCmd(a))
	return cmd
}

func (a *app) init(configPath, logLevel string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger
	if cfg.Metrics.Enabled {
		a.registry = prometheus.NewRegistry()
		rec, err := metrics.New(cfg.Metrics.Namespace, a.registry)
		if err != nil {
			return fmt.Errorf("register metrics: %w", err)
		}
		a.metrics = rec
	}
	return nil
}

func (a *app) blobStore(ctx context.Context) (blob.Store, error) {
	if a.blobs != nil {
		return a.blobs, nil
	}
	s, err := blob.Open(ctx, a.cfg.Blob)
	if err != nil {
		return nil, fmt.Errorf("open blob store: %w", err)
	}
	a.logger.Debug("blob store opened", zap.String("driver", string(s.Driver())))
	a.blobs = s
	return s, nil
}

func (a *app) localCache(ctx context.Context) (cache.Cache, error) {
	if a.cache != nil {
		return a.cache, nil
	}
	c, err := cache.Open(ctx, a.cfg.Cache, a.logger)
	if err != nil {
		return nil, err
	}
	a.cache = c
	return c, nil
}

// execute runs root and releases storage and logger whether or not the
// command failed. cobra skips post-run hooks after a RunE error.
func (a *app) execute(root *cobra.Command) error {
	_, err := root.ExecuteC()
	return errors.Join(err, a.close())
}

func (a *app) close() error {
	a.logMetrics()
	var err error
	if a.cache != nil {
		err = a.cache.Close()
		a.cache = nil
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
	return err
}

// logMetrics writes a one-line summary per collected series family.
func (a *app) logMetrics() {
	if a.registry == nil || a.logger == nil {
		return
	}
	families, err := a.registry.Gather()
	if err != nil {
		a.logger.Warn("gather metrics", zap.Error(err))
		return
	}
	for _, mf := range families {
		a.logger.Info("metric", zap.String("name", mf.GetName()), zap.Int("series", len(mf.GetMetric())))
	}
}

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
