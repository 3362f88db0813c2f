package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"floorcheck/pkg/contracts/domain"
)

func newRecipientsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recipients",
		Short: "Manage the alert distribution list",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "Print the current recipients",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				application, err := opts.newApplication()
				if err != nil {
					return err
				}
				view := application.Services.Alerts.Recipients(cmd.Context())
				if view.LoadError != "" {
					fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", view.LoadError)
				}
				printRecipients(cmd.OutOrStdout(), view)
				return nil
			},
		},
		&cobra.Command{
			Use:   "add <email>",
			Short: "Append an address to the list",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				application, err := opts.newApplication()
				if err != nil {
					return err
				}
				view, err := application.Services.Alerts.AddRecipient(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				printRecipients(cmd.OutOrStdout(), view)
				return nil
			},
		},
		&cobra.Command{
			Use:   "reset",
			Short: "Replace the list with the default recipient",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				application, err := opts.newApplication()
				if err != nil {
					return err
				}
				view, err := application.Services.Alerts.ResetRecipients(cmd.Context())
				if err != nil {
					return err
				}
				printRecipients(cmd.OutOrStdout(), view)
				return nil
			},
		},
	)
	return cmd
}

func printRecipients(w io.Writer, view domain.RecipientsView) {
	for _, addr := range view.Recipients {
		fmt.Fprintln(w, addr)
	}
}
