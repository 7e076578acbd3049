package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/iksnae/ragchat/internal"
	"github.com/iksnae/ragchat/internal/export"
	"github.com/spf13/cobra"
)

var (
	format      string
	outputDir   string
	exportAll   bool
	exportQuery string
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export threads to files",
	Long: `Export conversation threads to json, jsonl, yaml, md or html.

By default every thread is exported, one file per thread. Use --thread to
export a single thread, or --search to export threads whose title matches.
Pass --out - to write to standard output. Attachment payloads are never
written, only their name, type and size.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		exporter, err := export.NewExporter(format)
		if err != nil {
			return err
		}

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		var threads []internal.Thread
		switch {
		case threadID != "":
			t, err := a.ctrl.Registry().Get(a.resolveThreadID(threadID))
			if err != nil {
				return fmt.Errorf("%w (use 'ragchat threads list' to see available threads)", err)
			}
			threads = []internal.Thread{t}
		case exportQuery != "":
			threads = a.ctrl.Registry().Search(exportQuery, 0)
		default:
			threads = a.ctrl.Registry().ListRecent(0)
		}
		if !exportAll {
			threads = withMessages(a.ctrl, threads)
		}
		if len(threads) == 0 {
			internal.PrintWarning("No threads to export")
			return nil
		}

		if outputDir == "-" {
			for _, t := range threads {
				conv, err := a.ctrl.Conversation(t.ID)
				if err != nil {
					return err
				}
				if err := exporter.Export(conv, cmd.OutOrStdout()); err != nil {
					return &internal.ExportError{Format: format, Path: "-", Err: err}
				}
			}
			return nil
		}

		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return &internal.ExportError{Format: format, Path: outputDir, Err: err}
		}

		var failed []error
		ctx := context.Background()
		err = internal.ShowProgress(ctx, fmt.Sprintf("Exporting %d thread(s) to %s", len(threads), outputDir), func() error {
			for _, t := range threads {
				if err := exportThread(a.ctrl, exporter, t.ID); err != nil {
					internal.LogError("%v", err)
					failed = append(failed, err)
				}
			}
			return nil
		})
		if err != nil {
			return err
		}
		if len(failed) > 0 {
			return fmt.Errorf("%d of %d thread(s) failed to export: %w", len(failed), len(threads), failed[0])
		}

		internal.PrintSuccess(fmt.Sprintf("Export complete: %d thread(s) exported to %s", len(threads), outputDir))
		return nil
	},
}

func exportThread(ctrl *internal.Controller, exporter export.Exporter, id string) error {
	conv, err := ctrl.Conversation(id)
	if err != nil {
		return err
	}
	path := filepath.Join(outputDir, fmt.Sprintf("thread_%s.%s", id, exporter.Extension()))

	file, err := os.Create(path)
	if err != nil {
		return &internal.ExportError{Format: exporter.Extension(), Path: path, Err: err}
	}
	if err := exporter.Export(conv, file); err != nil {
		_ = file.Close()
		return &internal.ExportError{Format: exporter.Extension(), Path: path, Err: err}
	}
	if err := file.Close(); err != nil {
		return &internal.ExportError{Format: exporter.Extension(), Path: path, Err: err}
	}
	return nil
}

// withMessages drops threads with an empty transcript
func withMessages(ctrl *internal.Controller, threads []internal.Thread) []internal.Thread {
	out := make([]internal.Thread, 0, len(threads))
	for _, t := range threads {
		if msgs, err := ctrl.Messages(t.ID); err == nil && len(msgs) > 0 {
			out = append(out, t)
		}
	}
	return out
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&format, "format", "f", "jsonl", "Export format ("+strings.Join(export.Formats, ", ")+")")
	exportCmd.Flags().StringVarP(&outputDir, "out", "o", "./exports", "Output directory, or - for standard output")
	exportCmd.Flags().StringVarP(&threadID, "thread", "t", "", "Export a specific thread by ID")
	exportCmd.Flags().StringVarP(&exportQuery, "search", "s", "", "Export threads whose title contains this text")
	exportCmd.Flags().BoolVar(&exportAll, "include-empty", false, "Also export threads without messages")
}
