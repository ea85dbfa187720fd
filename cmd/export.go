package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/leeoohoo/chatos/internal"
	"github.com/leeoohoo/chatos/internal/export"
)

var (
	exportFormat   string
	exportOutput   string
	exportPageSize int
	exportExpand   bool
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export <session-id>",
	Short: "Export a reconciled session to file",
	Long: `Export a chat session to various formats (jsonl, md, yaml, json).

The full session is loaded and reconciled before export: all pages are
fetched, tool calls paired with their results, and context summaries
folded. With --expand, each turn's process messages are spliced inline
under the user message that started the turn.

Use 'chatos sessions' to see available session IDs.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionID := args[0]

		exporter, err := export.NewExporter(exportFormat)
		if err != nil {
			return err
		}

		source, closeSource, err := openSource()
		if err != nil {
			return err
		}
		defer closeSource()

		ctx := context.Background()
		rec := internal.NewReconciler(source, internal.NewStateStore())

		if _, err := rec.Load(ctx, sessionID, exportPageSize); err != nil {
			return fmt.Errorf("failed to load session %s: %w", sessionID, err)
		}
		for rec.Store().Read().HasMore {
			if _, err := rec.LoadMore(ctx, exportPageSize); err != nil {
				return fmt.Errorf("failed to load older messages: %w", err)
			}
		}

		if exportExpand {
			for _, msg := range rec.Store().Read().Messages {
				if msg.Role != internal.RoleUser {
					continue
				}
				before := rec.Store().Read().LastError
				if err := rec.Toggle(ctx, msg.ID); err != nil {
					return fmt.Errorf("failed to expand turn %s: %w", msg.ID, err)
				}
				// Only report an error this toggle produced, not one left
				// over from an earlier turn.
				if after := rec.Store().Read().LastError; after != "" && after != before {
					internal.LogWarn("Could not expand turn %s: %s", msg.ID, after)
				}
			}
		}

		doc := rec.SessionDocument()
		if len(doc.Messages) == 0 {
			return fmt.Errorf("session not found or empty: %s", sessionID)
		}

		outputPath := exportOutput
		if outputPath == "" {
			outputPath = fmt.Sprintf("%s.%s", sessionID, exporter.Extension())
		}
		if dir := filepath.Dir(outputPath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return &internal.ExportError{Format: exportFormat, Path: outputPath, Err: err}
			}
		}

		f, err := os.Create(outputPath)
		if err != nil {
			return &internal.ExportError{Format: exportFormat, Path: outputPath, Err: err}
		}
		defer func() { _ = f.Close() }()

		if err := exporter.Export(doc, f); err != nil {
			return &internal.ExportError{Format: exportFormat, Path: outputPath, Err: err}
		}

		internal.LogInfo("Exported %d message(s)", len(doc.Messages))
		fmt.Println(successStyle.Render(fmt.Sprintf("✅ Exported session to %s", outputPath)))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "json", "Export format (jsonl, md, yaml, json)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file path (defaults to <session-id>.<ext>)")
	exportCmd.Flags().IntVar(&exportPageSize, "page-size", 100, "Number of base messages per fetch")
	exportCmd.Flags().BoolVar(&exportExpand, "expand", false, "Splice each turn's process messages inline before export")
}
