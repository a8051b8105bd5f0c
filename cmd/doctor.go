package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose backend and analyze endpoint connectivity",
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, cleanup, err := newCLIContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			ctx := cmd.Context()
			cfg := sc.Config()
			healthy := true

			fmt.Printf("Backend: %s\n", cfg.BackendURL)
			status := sc.AuthClient().CheckStatus(ctx)
			if status.Authenticated {
				fmt.Println("  session: authenticated")
			} else if sc.SessionJar().HasSession() {
				fmt.Println("  session: cookie present but not accepted (expired?)")
				healthy = false
			} else {
				fmt.Println("  session: no cookie stored, run 'teamscribe login'")
				healthy = false
			}

			candidates := sc.Orchestrator().Candidates()
			fmt.Printf("Analyze endpoints (%d configured):\n", len(candidates))
			responder, probeErr := sc.Orchestrator().ProbeCandidates(ctx)
			for i, candidate := range candidates {
				marker := ""
				if candidate == responder {
					marker = "  [FIRST RESPONDER]"
				}
				fmt.Printf("  %d. %s%s\n", i+1, candidate, marker)
			}
			if probeErr != nil {
				fmt.Printf("  %v\n", probeErr)
				healthy = false
			}

			if !healthy {
				return fmt.Errorf("problems found")
			}
			fmt.Println("All checks passed.")
			return nil
		},
	}
}
