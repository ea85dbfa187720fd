package cmd

import (
	"fmt"
	"os"

	"github.com/leeoohoo/chatos/internal"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	dbPath  string
	version string = "dev"
	commit  string = "unknown"
	date    string = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "chatos",
	Short: "Inspect and export ChatOS conversation timelines",
	Long: `A CLI tool to reconcile, inspect and export conversation timelines
from a ChatOS message database.

Messages are loaded page by page, tool calls are paired with their
results across pages, context summaries are folded into the assistant
replies they describe, and per-turn process messages can be expanded
inline under the user message that started the turn.

Quick Start:
  chatos sessions                      # List all sessions
  chatos show <session-id>             # View a reconciled timeline
  chatos export <session-id> -f md     # Export as Markdown

For detailed usage, see: https://github.com/leeoohoo/chatos`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		internal.SetVerbose(verbose)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to the ChatOS message database")

	// Set version template to ensure --version flag works
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}

// openSource resolves the database path and opens a message source.
// The caller owns the returned close function.
func openSource() (*internal.SQLiteSource, func(), error) {
	path, err := internal.DefaultDatabasePath(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve database path: %w", err)
	}

	db, err := internal.OpenDatabase(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}

	return internal.NewSQLiteSource(db), func() { _ = db.Close() }, nil
}
