package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"floorcheck/internal/dataset"
)

// fileExporter is implemented by the CSV and XLSX writers
type fileExporter interface {
	WriteFile(path string, ds *dataset.Dataset) error
	FileName() string
}

func newExportCmd(opts *rootOptions) *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the full checklist table to a CSV or XLSX file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			application, err := opts.newApplication()
			if err != nil {
				return err
			}

			var exp fileExporter
			switch strings.ToLower(format) {
			case "csv":
				exp = application.Services.CSV
			case "xlsx":
				exp = application.Services.XLSX
			default:
				return fmt.Errorf("unknown export format %q (want csv or xlsx)", format)
			}
			if output == "" {
				output = exp.FileName()
			}

			ds, err := application.Cache.Get(cmd.Context())
			if err != nil {
				return err
			}
			if err := exp.WriteFile(output, ds); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d linhas exportadas para %s\n", ds.Len(), output)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "csv", "output format: csv or xlsx")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default tabela_completa.<format>)")
	return cmd
}
