package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/teamscribe/teamscribe/internal/transcript"
)

func newFetchCmd() *cobra.Command {
	var outputDir string

	cmd := &cobra.Command{
		Use:   "fetch <join-url>",
		Short: "Fetch a meeting transcript and print it as plain text",
		Long: `Fetch the transcript for a Teams meeting identified by its join URL
and print it as plain text. With --output the transcript is written to a
file in the given directory instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, cleanup, err := newCLIContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			resp, err := sc.TranscriptClient().Fetch(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to fetch transcript: %w", err)
			}
			if !resp.Success {
				msg := resp.Message
				if msg == "" {
					msg = "backend declined the fetch"
				}
				return fmt.Errorf("failed to fetch transcript: %s", msg)
			}
			if resp.Data == nil {
				return fmt.Errorf("backend returned no transcript data")
			}

			if outputDir == "" {
				return transcript.WriteText(os.Stdout, resp.Data)
			}

			var sb strings.Builder
			if err := transcript.WriteText(&sb, resp.Data); err != nil {
				return err
			}
			path := filepath.Join(outputDir, transcript.ExportFilename(resp.Data))
			if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
				return fmt.Errorf("failed to write export: %w", err)
			}
			fmt.Printf("Transcript exported to %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Directory to write the export file to (default: print to stdout)")

	return cmd
}
