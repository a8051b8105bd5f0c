package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newProcessCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "process <join-url> [join-url...]",
		Short: "Fetch transcripts and forward them to the analyze endpoints",
		Long: `Run the full workflow for one or more meetings: fetch each
transcript from the backend, then hand it to the first analyze endpoint
that answers. Endpoints are attempted in their configured order.

A meeting whose transcript was fetched counts as processed even when no
analyze endpoint responded; the degradation is reported but does not fail
the command.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, cleanup, err := newCLIContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			failed := 0
			for _, joinURL := range args {
				result := sc.Orchestrator().Process(cmd.Context(), joinURL)
				if !result.Success {
					failed++
					fmt.Printf("FAILED: %s\n", result.Err)
					continue
				}

				subject := ""
				if result.Data != nil {
					subject = result.Data.MeetingInfo.Subject
				}
				switch {
				case result.Err != "":
					fmt.Printf("processed %q (analysis degraded: %s)\n", subject, result.Err)
				case result.Analysis != nil && result.Analysis.Data != nil && result.Analysis.Data.PageURL != "":
					fmt.Printf("processed %q -> %s\n", subject, result.Analysis.Data.PageURL)
				default:
					fmt.Printf("processed %q\n", subject)
				}
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d meeting(s) failed", failed, len(args))
			}
			return nil
		},
	}
}
