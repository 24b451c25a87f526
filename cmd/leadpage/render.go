package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-leadform/pkg/orchestrator"
	"github.com/goliatone/go-leadform/pkg/render"
)

func newRenderCommand(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the static landing page as HTML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pages, _, err := a.pages()
			if err != nil {
				return err
			}

			html, err := pages.Generate(cmd.Context(), orchestrator.Request{
				RenderOptions: render.RenderOptions{Locale: a.cfg.Locale},
			})
			if err != nil {
				return fmt.Errorf("render page: %w", err)
			}

			if output == "" {
				_, err := a.out.Write(html)
				return err
			}
			if err := os.WriteFile(output, html, 0o644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(a.out, "Page written to %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	return cmd
}
