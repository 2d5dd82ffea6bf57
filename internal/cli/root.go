// Package cli provides the opsboard command-line interface.
package cli

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/opsboard-labs/opsboard/internal/config"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
)

var (
	cfgFile string
	cfg     *config.Config
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "opsboard",
		Short:   "Opsboard - administrative backend",
		Long:    "Opsboard serves the embedded admin console and its backing API from a single binary.",
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}
			var err error
			cfg, err = config.Load(cfgFile, cmd.Root().PersistentFlags())
			return err
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./opsboard.yaml)")
	rootCmd.PersistentFlags().Int("port", 0, "Port to listen on")
	rootCmd.PersistentFlags().String("ui-prefix", "", "Namespace the console is served under")
	rootCmd.PersistentFlags().String("api-prefix", "", "Namespace reserved for API routes")
	rootCmd.PersistentFlags().String("ui-dir", "", "On-disk bundle directory (dev builds only)")
	rootCmd.PersistentFlags().String("database-url", "", "Postgres connection string")
	rootCmd.PersistentFlags().String("uploads-dir", "", "Local object store directory")
	rootCmd.PersistentFlags().String("session-secret", "", "Session cookie signing secret")
	rootCmd.PersistentFlags().String("admin-token", "", "Shared secret exchanged for a session")
	rootCmd.PersistentFlags().StringSlice("proxy-allow-hosts", nil, "Hosts the image proxy may fetch from")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")

	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newAssetsCommand())
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

// Execute runs the CLI with the given context.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

// newLogger builds the process logger. Verbose switches on debug-level
// output, including per-miss asset resolution lines.
func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
