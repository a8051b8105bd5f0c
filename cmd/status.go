package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the backend session state",
		Long: `Check whether the persisted backend session is still authenticated
and print the signed-in user. When the session is missing or expired the
backend login URL is printed instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, cleanup, err := newCLIContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			status := sc.AuthClient().CheckStatus(cmd.Context())
			if !status.Authenticated {
				fmt.Println("Not authenticated.")
				loginURL := status.LoginURL
				if loginURL == "" {
					loginURL = sc.AuthClient().LoginURL()
				}
				fmt.Printf("Sign in at: %s\n", loginURL)
				return nil
			}

			fmt.Println("Authenticated.")
			if status.User != nil {
				if status.User.DisplayName != "" {
					fmt.Printf("User:  %s\n", status.User.DisplayName)
				}
				if status.User.Email != "" {
					fmt.Printf("Email: %s\n", status.User.Email)
				}
			}
			return nil
		},
	}
}
