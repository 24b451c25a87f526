package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-leadform/internal/config"
	"github.com/goliatone/go-leadform/internal/metrics"
	"github.com/goliatone/go-leadform/internal/server"
	"github.com/goliatone/go-leadform/pkg/intake"
)

func newServeCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the landing page and lead API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.serve(cmd)
		},
	}

	defaults := config.Defaults()
	flags := cmd.Flags()
	flags.String("http.addr", defaults.HTTP.Addr, "listen address")
	flags.Duration("http.shutdown_grace", defaults.HTTP.ShutdownGrace, "graceful shutdown timeout")
	flags.Duration("submit.delay", defaults.Submit.Delay, "simulated submission delay")
	flags.String("intake.mode", defaults.Intake.Mode, "lead intake: simulated, store or remote")
	flags.String("intake.store_path", defaults.Intake.StorePath, "buntdb file used in store mode")
	flags.String("intake.remote_url", defaults.Intake.RemoteURL, "endpoint used in remote mode")
	flags.Duration("intake.remote_timeout", defaults.Intake.RemoteTimeout, "remote intake timeout")
	flags.Int("cache.size", defaults.Cache.Size, "rendered page cache entries, 0 disables")
	return cmd
}

func (a *app) serve(cmd *cobra.Command) error {
	cfg := a.cfg

	backend, err := intake.New(cfg.IntakeBackend())
	if err != nil {
		return err
	}
	defer func() {
		if err := backend.Close(); err != nil {
			a.logger.Warn("close intake", zap.Error(err))
		}
	}()

	observer, err := metrics.NewObserver(metrics.DefaultNamespace, prometheus.DefaultRegisterer)
	if err != nil {
		return err
	}

	pages, themes, err := a.pages()
	if err != nil {
		return err
	}

	srv, err := server.New(cmd.Context(),
		server.WithLogger(a.logger),
		server.WithOrchestrator(pages),
		server.WithThemes(themes, cfg.Theme.Name),
		server.WithDefaultVariant(cfg.Theme.Variant),
		server.WithIntake(backend.Intake),
		server.WithObserver(observer),
		server.WithGatherer(prometheus.DefaultGatherer),
		server.WithLocale(cfg.Locale),
		server.WithCacheSize(cfg.Cache.Size),
		server.WithShutdownGrace(cfg.HTTP.ShutdownGrace),
	)
	if err != nil {
		return err
	}

	a.logger.Info("serving lead page",
		zap.String("addr", cfg.HTTP.Addr),
		zap.String("intake", cfg.Intake.Mode),
		zap.String("locale", cfg.Locale))
	return srv.Run(cmd.Context(), cfg.HTTP.Addr)
}
