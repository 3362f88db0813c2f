package main

import (
	"fmt"
	"os/user"
	"strings"

	"github.com/spf13/cobra"

	"floorcheck/internal/auth"
)

func newAlertCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alert",
		Short: "Critical floor alerts",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "send <floor>",
		Short: "Email the critical floor alert to every recipient",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := opts.newApplication()
			if err != nil {
				return err
			}

			result, err := application.Services.Alerts.Send(cmd.Context(), strings.Join(args, " "), cliPrincipal())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Alerta enviado: %s -> %s\n",
				result.CriticalFloor, strings.Join(result.Recipients, ", "))
			return nil
		},
	})
	return cmd
}

// cliPrincipal identifies the operator running the command. Shell access to
// the host already grants admin rights over its files.
func cliPrincipal() auth.Principal {
	name := "cli"
	if u, err := user.Current(); err == nil && u.Username != "" {
		name = u.Username
	}
	return auth.Principal{Username: name, Role: auth.RoleAdmin}
}
