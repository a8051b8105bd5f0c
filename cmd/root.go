package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/teamscribe/teamscribe/internal/config"
	"github.com/teamscribe/teamscribe/internal/server"
)

// rootCmd represents the base command for the teamscribe application
var rootCmd = &cobra.Command{
	Use:   "teamscribe",
	Short: "Fetches and processes Microsoft Teams meeting transcripts",
	Long: `teamscribe talks to a Teams transcript backend to fetch meeting
transcripts by join URL, forward them to analyze endpoints, and export
them as plain text.

It can run as:
  - A standalone CLI tool (default)
  - An MCP (Model Context Protocol) server for AI assistants`,
	SilenceUsage: true,
}

// Flags that override the environment configuration
var (
	flagBackendURL  string
	flagAnalyzeURLs []string
	flagTestMode    bool
)

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "teamscribe version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagBackendURL, "backend-url", "", "Transcript backend URL (overrides TEAMSCRIBE_BACKEND_URL)")
	rootCmd.PersistentFlags().StringSliceVar(&flagAnalyzeURLs, "analyze-url", nil, "Analyze candidate URL, repeatable; attempted in order (overrides TEAMSCRIBE_ANALYZE_URLS)")
	rootCmd.PersistentFlags().BoolVar(&flagTestMode, "test-mode", true, "Ask analyze endpoints for preview output instead of their production side effect (overrides TEAMSCRIBE_TEST_MODE)")

	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newLoginCmd())
	rootCmd.AddCommand(newLogoutCmd())
	rootCmd.AddCommand(newFetchCmd())
	rootCmd.AddCommand(newProcessCmd())
	rootCmd.AddCommand(newDoctorCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newGenerateDocsCmd())
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("teamscribe version %s\n", version)
		},
	}
}

// loadConfig reads the environment configuration and applies flag overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to load configuration: %w", err)
	}

	if cmd.Flags().Changed("backend-url") {
		cfg.BackendURL = strings.TrimRight(strings.TrimSpace(flagBackendURL), "/")
		// The default candidate list follows the backend URL unless
		// candidates were configured explicitly.
		if os.Getenv("TEAMSCRIBE_ANALYZE_URLS") == "" && !cmd.Flags().Changed("analyze-url") {
			cfg.AnalyzeURLs = config.DefaultAnalyzeURLs(cfg.BackendURL)
		}
	}
	if cmd.Flags().Changed("analyze-url") {
		cfg.AnalyzeURLs = flagAnalyzeURLs
	}
	if cmd.Flags().Changed("test-mode") {
		cfg.TestMode = flagTestMode
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// newLogger builds the CLI logger writing to stderr so command output on
// stdout stays clean.
func newLogger(cfg config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// newCLIContext builds a server context for a one-shot CLI command.
// The returned cleanup function must be called when the command is done.
func newCLIContext(cmd *cobra.Command) (*server.ServerContext, func(), error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}

	sc, err := server.NewServerContext(cmd.Context(), cfg, newLogger(cfg))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create server context: %w", err)
	}
	return sc, func() { _ = sc.Shutdown() }, nil
}
