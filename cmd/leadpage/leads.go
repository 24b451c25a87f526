package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-leadform/internal/config"
	"github.com/goliatone/go-leadform/pkg/intake"
)

func newLeadsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "leads",
		Short: "Inspect leads captured in store mode",
	}
	cmd.PersistentFlags().String("intake.store_path", config.Defaults().Intake.StorePath, "buntdb file holding leads")
	cmd.AddCommand(newLeadsListCommand(a))
	return cmd
}

func newLeadsListCommand(a *app) *cobra.Command {
	var (
		limit  int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored leads, newest first",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			store, err := intake.Open(a.cfg.Intake.StorePath)
			if err != nil {
				return err
			}
			defer store.Close()

			leads, err := store.List(limit)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(a.out)
				enc.SetIndent("", "  ")
				return enc.Encode(leads)
			}

			if len(leads) == 0 {
				color.New(color.FgYellow).Fprintln(a.out, "no leads stored")
				return nil
			}

			tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "SEQ\tCREATED\tNOMBRE\tTELEFONO\tEMAIL\tEDAD\tRETIRO\tINGRESOS\tIMPUESTOS")
			for _, stored := range leads {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
					stored.Seq,
					stored.CreatedAt.Format(time.RFC3339),
					stored.Name,
					stored.Phone,
					stored.Email,
					stored.AgeBracket,
					stored.RetirementAge,
					stored.IncomeBracket,
					stored.TaxInterest,
				)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			color.New(color.Faint).Fprintf(a.out, "%d of %d leads\n", len(leads), total(store, len(leads)))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum leads to list, 0 for all")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

func total(store *intake.Store, fallback int) int {
	count, err := store.Count()
	if err != nil {
		return fallback
	}
	return count
}
