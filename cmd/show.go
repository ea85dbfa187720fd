package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/leeoohoo/chatos/internal"
)

var (
	showPageSize int
	showAllPages bool
	expandAll    bool
	expandIDs    []string
)

var (
	// Styles for show command
	sessionHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("212")).
				Padding(0, 1).
				MarginBottom(1)

	sessionMetaStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("243")).
				MarginBottom(1)

	userMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("39")).
				Bold(true).
				Padding(0, 1)

	assistantMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("135")).
				Bold(true).
				Padding(0, 1)

	messageContentStyle = lipgloss.NewStyle().
				Padding(0, 2).
				MarginBottom(1)

	thinkingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true).
			Padding(0, 2)

	toolCallStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Padding(0, 2)

	processStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Padding(0, 4)

	timestampStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true)
)

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show <session-id>",
	Short: "Show the reconciled timeline for a session",
	Long: `Display the reconciled message timeline for a chat session.

Pages are loaded newest-first, tool calls are paired with their results
across page boundaries, and context summaries are folded into the
assistant replies they describe. Use --expand to splice a turn's process
messages inline under the user message that started it.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionID := args[0]

		source, closeSource, err := openSource()
		if err != nil {
			return err
		}
		defer closeSource()

		ctx := context.Background()
		rec := internal.NewReconciler(source, internal.NewStateStore())

		if _, err := rec.Load(ctx, sessionID, showPageSize); err != nil {
			return fmt.Errorf("failed to load session %s: %w", sessionID, err)
		}

		if showAllPages {
			for rec.Store().Read().HasMore {
				if _, err := rec.LoadMore(ctx, showPageSize); err != nil {
					return fmt.Errorf("failed to load older messages: %w", err)
				}
			}
		}

		if err := expandRequested(ctx, rec); err != nil {
			return err
		}

		state := rec.Store().Read()
		if len(state.Rendered) == 0 {
			return fmt.Errorf("session not found or empty: %s", sessionID)
		}

		displayTimeline(rec.SessionDocument(), state)
		return nil
	},
}

func expandRequested(ctx context.Context, rec *internal.Reconciler) error {
	targets := expandIDs
	if expandAll {
		targets = nil
		for _, msg := range rec.Store().Read().Messages {
			if msg.Role == internal.RoleUser {
				targets = append(targets, msg.ID)
			}
		}
	}

	for _, id := range targets {
		before := rec.Store().Read().LastError
		if err := rec.Toggle(ctx, id); err != nil {
			return fmt.Errorf("failed to expand turn %s: %w", id, err)
		}
		// Only report an error this toggle produced, not one left over from
		// an earlier turn.
		if after := rec.Store().Read().LastError; after != "" && after != before {
			internal.LogWarn("Could not expand turn %s: %s", id, after)
		}
	}
	return nil
}

func displayTimeline(doc *internal.Session, state internal.TimelineState) {
	header := sessionHeaderStyle.Render(fmt.Sprintf("💬 Session %s", doc.ID))
	fmt.Println(header)

	var metaParts []string
	if doc.Metadata.CreatedAt != "" {
		metaParts = append(metaParts, fmt.Sprintf("Created: %s", doc.Metadata.CreatedAt))
	}
	metaParts = append(metaParts, fmt.Sprintf("Messages: %d", internal.CountBaseMessages(doc.Messages)))
	if state.HasMore {
		metaParts = append(metaParts, "older messages available")
	}
	fmt.Println(sessionMetaStyle.Render(strings.Join(metaParts, " • ")))
	fmt.Println()

	visible := 0
	for _, msg := range doc.Messages {
		if msg.Metadata.Hidden {
			continue
		}
		visible++
	}

	index := 0
	for _, msg := range doc.Messages {
		if msg.Metadata.Hidden {
			continue
		}
		index++
		displayMessage(index, msg, visible)
	}
}

func displayMessage(index int, msg internal.NormalizedMessage, total int) {
	var actorStyle lipgloss.Style
	var actorLabel string

	switch msg.Role {
	case internal.RoleUser:
		actorStyle = userMessageStyle
		actorLabel = "👤 User"
	case internal.RoleAssistant:
		actorStyle = assistantMessageStyle
		actorLabel = "🤖 Assistant"
	default:
		actorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
		actorLabel = fmt.Sprintf("🔧 %s", msg.Role)
	}

	header := actorStyle.Render(actorLabel) + " " + timestampStyle.Render(fmt.Sprintf("[%d/%d]", index, total))
	header += " " + timestampStyle.Render(msg.GetCreatedAt().Format("15:04:05"))
	if !msg.IsBase() {
		header += " " + timestampStyle.Render("(process)")
	}

	fmt.Println(header)
	displaySegments(msg)
	fmt.Println()
}

func displaySegments(msg internal.NormalizedMessage) {
	contentStyle := messageContentStyle
	if !msg.IsBase() {
		contentStyle = processStyle
	}

	segments := msg.Metadata.ContentSegments
	if len(segments) == 0 {
		content := strings.TrimSpace(msg.Content)
		if content == "" {
			fmt.Println(contentStyle.Foreground(lipgloss.Color("240")).Render("(empty message)"))
			return
		}
		fmt.Println(contentStyle.Render(wrapText(content, 80)))
		return
	}

	calls := make(map[string]internal.ToolCall, len(msg.Metadata.ToolCalls))
	for _, call := range msg.Metadata.ToolCalls {
		calls[call.ID] = call
	}

	for _, seg := range segments {
		switch seg.Type {
		case internal.SegmentThinking:
			fmt.Println(thinkingStyle.Render(wrapText(seg.Content, 80)))
		case internal.SegmentText:
			fmt.Println(contentStyle.Render(wrapText(seg.Content, 80)))
		case internal.SegmentToolCall:
			call, ok := calls[seg.ToolCallID]
			if !ok {
				continue
			}
			status := "…"
			if call.Error != "" {
				status = "✗"
			} else if call.Completed {
				status = "✓"
			}
			line := fmt.Sprintf("%s %s", status, call.Name)
			if call.Error != "" {
				line += ": " + firstLine(call.Error)
			} else if call.Result != "" {
				line += " → " + firstLine(call.Result)
			}
			fmt.Println(toolCallStyle.Render(line))
		}
	}
}

func firstLine(text string) string {
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i] + " …"
	}
	if len(text) > 100 {
		text = text[:97] + "..."
	}
	return text
}

func wrapText(text string, width int) string {
	lines := strings.Split(text, "\n")
	var wrapped []string

	for _, line := range lines {
		if len(line) <= width {
			wrapped = append(wrapped, line)
			continue
		}

		words := strings.Fields(line)
		currentLine := ""
		for _, word := range words {
			if len(currentLine)+len(word)+1 > width {
				if currentLine != "" {
					wrapped = append(wrapped, currentLine)
					currentLine = word
				} else {
					wrapped = append(wrapped, word)
					currentLine = ""
				}
			} else {
				if currentLine == "" {
					currentLine = word
				} else {
					currentLine += " " + word
				}
			}
		}
		if currentLine != "" {
			wrapped = append(wrapped, currentLine)
		}
	}

	return strings.Join(wrapped, "\n")
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().IntVarP(&showPageSize, "page-size", "n", 50, "Number of base messages per page")
	showCmd.Flags().BoolVar(&showAllPages, "all", false, "Load the entire session, not just the newest page")
	showCmd.Flags().BoolVar(&expandAll, "expand-all", false, "Expand the turn process under every user message")
	showCmd.Flags().StringSliceVar(&expandIDs, "expand", nil, "User message IDs whose turn process to expand inline")
}
