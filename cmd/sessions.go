package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/leeoohoo/chatos/internal"
)

var (
	// Styles
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true)

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List available sessions",
	Long:  `List all chat sessions stored in the message database.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		source, closeSource, err := openSource()
		if err != nil {
			return err
		}
		defer closeSource()

		infos, err := source.ListSessions(context.Background())
		if err != nil {
			return fmt.Errorf("failed to list sessions: %w", err)
		}

		displaySessions(infos)
		return nil
	},
}

func displaySessions(infos []internal.SessionInfo) {
	if len(infos) == 0 {
		fmt.Println(headerStyle.Render("📋 No sessions found"))
		return
	}

	header := headerStyle.Render(fmt.Sprintf("📋 Found %d session(s)", len(infos)))
	fmt.Println(header)
	fmt.Println()

	// Use tabwriter for aligned columns
	w := tabwriter.NewWriter(lipgloss.DefaultRenderer().Output(), 0, 0, 3, ' ', tabwriter.AlignRight)

	_, _ = fmt.Fprintln(w, titleStyle.Render("ID")+"\t"+titleStyle.Render("Messages")+"\t"+titleStyle.Render("Created")+"\t"+titleStyle.Render("Updated")+"\t")
	_, _ = fmt.Fprintln(w, strings.Repeat("─", 90))

	for _, info := range infos {
		// Show short ID (first 8 chars) for readability
		shortID := info.ID
		if len(shortID) > 8 {
			shortID = shortID[:8]
		}
		id := idStyle.Render(shortID)

		msgCount := countStyle.Render(strconv.Itoa(info.MessageCount))

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t\n", id, msgCount, renderMillis(info.CreatedAt), renderMillis(info.UpdatedAt))
	}

	_ = w.Flush()
	fmt.Println()
	fmt.Println(idStyle.Render("💡 Tip: Use the full ID (e.g., ") +
		lipgloss.NewStyle().Foreground(lipgloss.Color("62")).Render(infos[0].ID) +
		idStyle.Render(") with `chatos show <id>`"))
}

func renderMillis(millis int64) string {
	if millis <= 0 {
		return dateStyle.Render("—")
	}
	t := time.UnixMilli(millis)
	diff := time.Since(t)
	switch {
	case diff < 24*time.Hour:
		return dateStyle.Render(t.Format("Today 15:04"))
	case diff < 7*24*time.Hour:
		return dateStyle.Render(t.Format("Mon 15:04"))
	case diff < 365*24*time.Hour:
		return dateStyle.Render(t.Format("Jan 02 15:04"))
	default:
		return dateStyle.Render(t.Format("2006-01-02"))
	}
}

func init() {
	rootCmd.AddCommand(sessionsCmd)
}
