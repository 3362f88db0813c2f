package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newSummaryCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print the full-history KPIs of the checklist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			application, err := opts.newApplication()
			if err != nil {
				return err
			}

			view, err := application.Services.Dashboard.Summary(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(view)
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "Registros\t%d\n", view.TotalRecords)
			fmt.Fprintf(tw, "Datas inválidas\t%d\n", view.InvalidDates)
			fmt.Fprintf(tw, "Andar crítico\t%s\n", view.CriticalFloor)
			fmt.Fprintf(tw, "Posição crítica\t%s\n", view.CriticalPosition)
			fmt.Fprintf(tw, "Data crítica\t%s\n", view.CriticalDate)
			fmt.Fprintf(tw, "Observação crítica\t%s\n", view.CriticalObservation)
			fmt.Fprintln(tw)
			for _, c := range view.FloorDistribution {
				fmt.Fprintf(tw, "%s\t%d\n", c.Value, c.Count)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the summary as JSON")
	return cmd
}
