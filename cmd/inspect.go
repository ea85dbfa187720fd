package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leeoohoo/chatos/internal"
)

var (
	inspectLimit   int
	inspectProcess bool
)

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect <session-id>",
	Short: "Dump raw message rows for a session",
	Long: `Dump the raw, unreconciled message rows for a session.

This shows exactly what the database holds before tool-call pairing,
segmentation and summary folding run, which is useful for debugging
rows that normalize unexpectedly.

Examples:
  chatos inspect abc123                 # Newest page of raw rows
  chatos inspect abc123 --limit 200     # More rows
  chatos inspect abc123 --process       # Include per-turn process rows`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionID := args[0]

		source, closeSource, err := openSource()
		if err != nil {
			return err
		}
		defer closeSource()

		ctx := context.Background()
		rows, err := source.FetchPage(ctx, sessionID, inspectLimit, 0)
		if err != nil {
			return fmt.Errorf("failed to fetch rows: %w", err)
		}
		if len(rows) == 0 {
			fmt.Println(headerStyle.Render("📋 No rows found for session " + sessionID))
			return nil
		}

		fmt.Println(headerStyle.Render(fmt.Sprintf("📋 %d raw row(s) in session %s", len(rows), sessionID)))
		fmt.Println()

		for _, row := range rows {
			dumpRow(row, false)
			if inspectProcess && row.Role == internal.RoleUser {
				procRows, procErr := source.FetchProcess(ctx, sessionID, row.ID)
				if procErr != nil {
					internal.LogWarn("Failed to fetch process rows for %s: %v", row.ID, procErr)
					continue
				}
				for _, procRow := range procRows {
					dumpRow(procRow, true)
				}
			}
		}
		return nil
	},
}

func dumpRow(row internal.RawRow, process bool) {
	indent := ""
	if process {
		indent = "    "
	}

	fmt.Printf("%s%s %s %s\n", indent, idStyle.Render(row.ID), titleStyle.Render(row.Role), renderMillis(row.CreatedAt))
	if row.ParentMessageID != "" {
		fmt.Printf("%s  parent: %s\n", indent, row.ParentMessageID)
	}
	if row.ToolCallID != "" {
		fmt.Printf("%s  tool_call_id: %s\n", indent, row.ToolCallID)
	}
	if row.Content != "" {
		fmt.Printf("%s  content: %s\n", indent, truncateRaw(row.Content))
	}
	if row.Summary != "" {
		fmt.Printf("%s  summary: %s\n", indent, truncateRaw(row.Summary))
	}
	if row.Reasoning != "" {
		fmt.Printf("%s  reasoning: %s\n", indent, truncateRaw(row.Reasoning))
	}
	if len(row.ToolCalls) > 0 {
		fmt.Printf("%s  tool_calls: %s\n", indent, truncateRaw(compactJSON(row.ToolCalls)))
	}
	if len(row.Metadata) > 0 {
		fmt.Printf("%s  metadata: %s\n", indent, truncateRaw(compactJSON(row.Metadata)))
	}
	fmt.Println()
}

func compactJSON(raw json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}

func truncateRaw(text string) string {
	text = strings.ReplaceAll(text, "\n", "\\n")
	if len(text) > 160 {
		return text[:157] + "..."
	}
	return text
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().IntVar(&inspectLimit, "limit", 50, "Maximum number of base rows to dump")
	inspectCmd.Flags().BoolVar(&inspectProcess, "process", false, "Also dump each turn's process rows")
}
