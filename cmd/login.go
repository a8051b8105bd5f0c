package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newLoginCmd() *cobra.Command {
	var (
		wait    bool
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Print the backend login URL and optionally wait for sign-in",
		Long: `Print the backend's login URL. The sign-in itself happens in a
browser; the backend sets the session cookie once the OAuth flow completes.

With --wait, the command polls the session state until the backend reports
the session as authenticated or the timeout expires.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, cleanup, err := newCLIContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			ctx := cmd.Context()

			status := sc.AuthClient().CheckStatus(ctx)
			if status.Authenticated {
				fmt.Println("Already authenticated.")
				return nil
			}

			loginURL := status.LoginURL
			if loginURL == "" {
				loginURL = sc.AuthClient().LoginURL()
			}
			fmt.Printf("Open the following URL in a browser to sign in:\n\n  %s\n\n", loginURL)

			if !wait {
				fmt.Println("Run 'teamscribe status' once the sign-in completes.")
				return nil
			}

			fmt.Println("Waiting for sign-in...")
			deadline := time.Now().Add(timeout)
			for time.Now().Before(deadline) {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(2 * time.Second):
				}

				if sc.AuthClient().CheckStatus(ctx).Authenticated {
					fmt.Println("Authenticated.")
					return nil
				}
			}
			return fmt.Errorf("timed out after %s waiting for sign-in", timeout)
		},
	}

	cmd.Flags().BoolVar(&wait, "wait", false, "Poll the session state until the sign-in completes")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Minute, "How long to wait for sign-in with --wait")

	return cmd
}
