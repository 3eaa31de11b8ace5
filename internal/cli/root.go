// Package cli implements the techhouse command line: the API server and
// offline catalog queries against the same engine.
package cli

import (
	"fmt"
	"slices"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Format  string // "json" | "text"
	EnvFile string
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command of the techhouse CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "techhouse",
		Short: "Tech House storefront catalog",
		Long:  "Serves the Tech House catalog and shop API, and runs catalog queries from the terminal.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			loadEnv(cmd, opts.EnvFile)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.EnvFile, "env-file", ".env", "dotenv file loaded before reading configuration")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewQueryCommand(opts))
	cmd.AddCommand(NewFacetsCommand(opts))

	return cmd
}

// loadEnv reads the dotenv file when present. Variables already set in the
// environment win.
func loadEnv(cmd *cobra.Command, path string) {
	if path == "" {
		return
	}
	if err := godotenv.Load(path); err != nil && cmd.Flags().Changed("env-file") {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: could not load %s: %v\n", path, err)
	}
}
