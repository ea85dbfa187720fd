package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/leeoohoo/chatos/internal"
)

var (
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true).
			Underline(true)
)

// healthcheckCmd represents the healthcheck command
var healthcheckCmd = &cobra.Command{
	Use:   "healthcheck",
	Short: "Check if chatos can locate and read the message database",
	Long: `Check the health of chatos by verifying:
  • Database path resolution
  • Database accessibility
  • Messages table schema
  • Session count

This command is useful for debugging storage issues, especially in CI/CD environments.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(sectionStyle.Render("🔍 ChatOS Health Check"))
		fmt.Println()

		// Step 1: Resolve the database path
		fmt.Println(infoStyle.Render("Step 1: Resolving database path..."))
		path, err := internal.DefaultDatabasePath(dbPath)
		if err != nil {
			fmt.Println(errorStyle.Render("❌ Failed to resolve database path:"), err)
			os.Exit(1)
		}
		fmt.Println(successStyle.Render("✅ Database path resolved"))
		fmt.Printf("   Path: %s\n", path)
		fmt.Println()

		// Step 2: Open the database
		fmt.Println(infoStyle.Render("Step 2: Opening database..."))
		if _, statErr := os.Stat(path); statErr != nil {
			fmt.Println(warningStyle.Render("⚠️  Database file does not exist yet:"), path)
		}
		db, err := internal.OpenDatabase(path)
		if err != nil {
			fmt.Println(errorStyle.Render("❌ Failed to open database:"), err)
			os.Exit(1)
		}
		defer func() { _ = db.Close() }()
		fmt.Println(successStyle.Render("✅ Database opened"))
		fmt.Println()

		// Step 3: Verify the messages schema
		fmt.Println(infoStyle.Render("Step 3: Verifying schema..."))
		source := internal.NewSQLiteSource(db)
		if err := source.EnsureSchema(); err != nil {
			fmt.Println(errorStyle.Render("❌ Schema check failed:"), err)
			os.Exit(1)
		}
		fmt.Println(successStyle.Render("✅ Messages table is present"))
		fmt.Println()

		// Step 4: Count sessions
		fmt.Println(infoStyle.Render("Step 4: Counting sessions..."))
		infos, err := source.ListSessions(context.Background())
		if err != nil {
			fmt.Println(errorStyle.Render("❌ Failed to list sessions:"), err)
			os.Exit(1)
		}
		if len(infos) == 0 {
			fmt.Println(warningStyle.Render("⚠️  No sessions found"))
		} else {
			fmt.Println(successStyle.Render(fmt.Sprintf("✅ Found %d session(s)", len(infos))))
		}
		fmt.Println()

		fmt.Println(sectionStyle.Render("Health check passed"))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthcheckCmd)
}
