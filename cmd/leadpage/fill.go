package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-leadform/internal/config"
	"github.com/goliatone/go-leadform/pkg/intake"
	"github.com/goliatone/go-leadform/pkg/lead"
	"github.com/goliatone/go-leadform/pkg/render"
	"github.com/goliatone/go-leadform/pkg/renderers/tui"
)

var errNotInteractive = errors.New("fill needs an interactive terminal")

func newFillCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fill",
		Short: "Fill in the quote form from the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			driver := a.prompts
			if driver == nil {
				if !interactive(os.Stdin.Fd()) {
					return errNotInteractive
				}
				driver = tui.NewSurveyDriver(a.out)
			}
			return a.fill(cmd, driver)
		},
	}

	defaults := config.Defaults()
	flags := cmd.Flags()
	flags.Duration("submit.delay", defaults.Submit.Delay, "simulated submission delay")
	flags.String("intake.mode", defaults.Intake.Mode, "lead intake: simulated, store or remote")
	flags.String("intake.store_path", defaults.Intake.StorePath, "buntdb file used in store mode")
	flags.String("intake.remote_url", defaults.Intake.RemoteURL, "endpoint used in remote mode")
	flags.Duration("intake.remote_timeout", defaults.Intake.RemoteTimeout, "remote intake timeout")
	return cmd
}

func interactive(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// fill prompts for the lead, confirms and submits it. Rejected answers and
// failed intakes loop back to the prompts with the previous values.
func (a *app) fill(cmd *cobra.Command, driver tui.PromptDriver) error {
	ctx := cmd.Context()
	locale := a.cfg.Locale
	catalog := lead.CatalogFor(locale)

	renderer, err := tui.New(
		tui.WithPromptDriver(driver),
		tui.WithTheme(tui.Theme{
			InfoPrefix:  color.CyanString("›") + " ",
			ErrorPrefix: color.RedString("✗") + " ",
		}),
	)
	if err != nil {
		return err
	}

	pages, _, err := a.pages()
	if err != nil {
		return err
	}
	view, err := pages.View(ctx)
	if err != nil {
		return err
	}

	backend, err := intake.New(a.cfg.IntakeBackend())
	if err != nil {
		return err
	}
	defer func() {
		if err := backend.Close(); err != nil {
			a.logger.Warn("close intake", zap.Error(err))
		}
	}()

	canceled := func() error {
		color.New(color.FgYellow).Fprintln(a.out, catalog.Message(lead.MsgCanceled))
		return nil
	}

	opts := render.RenderOptions{Locale: locale}
	for {
		form, err := renderer.Collect(ctx, view, opts)
		if errors.Is(err, tui.ErrAborted) {
			return canceled()
		}
		if err != nil {
			return err
		}

		send, err := renderer.Driver().Confirm(ctx, tui.ConfirmConfig{Message: view.Form.SubmitLabel, Default: true})
		if err != nil {
			return err
		}
		if !send {
			return canceled()
		}

		controller := lead.NewController(
			lead.WithIntake(backend.Intake),
			lead.WithLogger(a.logger),
			lead.WithLocale(locale),
			lead.WithInitialForm(form),
		)
		sub, err := controller.Submit(ctx, lead.Metadata{Locale: locale, UserAgent: "leadpage fill"})
		if err != nil {
			var errs lead.ValidationErrors
			if !errors.As(err, &errs) {
				return err
			}
			opts = render.FromState(controller.State())
			opts.Locale = locale
			continue
		}

		color.New(color.Faint).Fprintln(a.out, view.Form.SubmittingLabel)
		waitErr := sub.Wait(ctx)
		state := controller.State()
		if waitErr == nil {
			color.New(color.FgGreen, color.Bold).Fprintln(a.out, state.Notice)
			fmt.Fprintf(a.out, "ID: %s\n", sub.Lead().ID)
			return nil
		}
		if sub.Outcome() != lead.OutcomeFailed {
			return waitErr
		}

		color.New(color.FgRed).Fprintln(a.out, state.FormError)
		retry, err := renderer.Driver().Confirm(ctx, tui.ConfirmConfig{Message: catalog.Message(lead.MsgRetry), Default: true})
		if err != nil {
			return err
		}
		if !retry {
			return waitErr
		}
		opts = render.FromState(state)
		opts.Locale = locale
	}
}
