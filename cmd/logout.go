package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the backend session and discard the local cookie",
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, cleanup, err := newCLIContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			// Tell the backend first; the local cookie is cleared even when
			// the backend is unreachable.
			if err := sc.AuthClient().Logout(cmd.Context()); err != nil {
				fmt.Printf("Warning: backend logout failed: %v\n", err)
			}

			if err := sc.SessionJar().Clear(); err != nil {
				return fmt.Errorf("failed to clear session cookie: %w", err)
			}

			fmt.Println("Logged out.")
			return nil
		},
	}
}
