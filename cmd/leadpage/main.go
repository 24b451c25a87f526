package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-leadform/internal/config"
	"github.com/goliatone/go-leadform/internal/logging"
	"github.com/goliatone/go-leadform/pkg/orchestrator"
	"github.com/goliatone/go-leadform/pkg/render"
	"github.com/goliatone/go-leadform/pkg/renderers/tui"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// app carries state resolved by the root command for its subcommands.
type app struct {
	out        io.Writer
	configFile string
	cfg        config.Config
	logger     *zap.Logger
	// prompts replaces the terminal driver used by fill.
	prompts tui.PromptDriver
}

func newRootCommand(out, errOut io.Writer) *cobra.Command {
	return rootCommand(&app{out: out}, errOut)
}

func rootCommand(a *app, errOut io.Writer) *cobra.Command {
	if a.logger == nil {
		a.logger = zap.NewNop()
	}

	root := &cobra.Command{
		Use:           "leadpage",
		Short:         "Retirement insurance landing page with lead capture",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(config.WithFile(a.configFile), config.WithFlags(cmd.Flags()))
			if err != nil {
				return err
			}
			a.cfg = cfg

			logger, err := logging.New(logging.Options{Level: cfg.Log.Level, Development: cfg.Log.Development})
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			a.logger = logger
			if cfg.File != "" {
				logger.Debug("config loaded", zap.String("file", cfg.File))
			}
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = a.logger.Sync()
		},
	}
	root.SetOut(a.out)
	root.SetErr(errOut)

	defaults := config.Defaults()
	flags := root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "config file (default ./leadpage.yaml when present)")
	flags.String("log.level", defaults.Log.Level, "log level: debug, info, warn or error")
	flags.Bool("log.development", defaults.Log.Development, "human readable logs")
	flags.String("locale", defaults.Locale, "fallback locale (es or en)")
	flags.String("content.path", defaults.Content.Path, "YAML or JSON file overriding the page copy")
	flags.String("theme.variant", defaults.Theme.Variant, "theme variant, for example dark")

	root.AddCommand(
		newServeCommand(a),
		newRenderCommand(a),
		newFillCommand(a),
		newLeadsCommand(a),
	)
	return root
}

// pages builds the render pipeline from the loaded config.
func (a *app) pages() (*orchestrator.Orchestrator, *render.ThemeSet, error) {
	themes, err := render.NewThemeSet()
	if err != nil {
		return nil, nil, err
	}
	orch := orchestrator.New(
		orchestrator.WithContentFile(a.cfg.Content.Path),
		orchestrator.WithThemeSelector(themes, a.cfg.Theme.Name, a.cfg.Theme.Variant),
	)
	if err := orch.Err(); err != nil {
		return nil, nil, err
	}
	return orch, themes, nil
}
