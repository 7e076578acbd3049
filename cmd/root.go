package cmd

import (
	"fmt"
	"os"

	"github.com/iksnae/ragchat/internal"
	"github.com/spf13/cobra"
)

var (
	verbose     bool
	storagePath string
	langFlag    string
	themeFlag   string
	endpoint    string
	timeoutSecs int
	threadID    string
	version     string = "dev"
	commit      string = "unknown"
	date        string = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ragchat",
	Short: "Chat with a retrieval-augmented assistant from the terminal",
	Long: `A terminal client for a RAG chat backend.

Conversations are kept as threads in a local SQLite store. Each question is
sent with a bounded slice of the thread history, any staged attachments and
scanned codes; replies come back with numbered citations.

Without an endpoint the client answers locally in demo mode.

Features:
  • Interactive chat with file and photo attachments
  • Multiple threads with automatic titles
  • Citations for every backend answer
  • Export in multiple formats (JSON, JSONL, YAML, Markdown, HTML)
  • End-of-chat feedback and a searchable logbook

Quick Start:
  ragchat chat                               # Start chatting
  ragchat send "How do I reset the spindle?" # One-shot question
  ragchat threads list                       # List conversations
  ragchat export --format md                 # Export as Markdown`,
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
	rootCmd.PersistentFlags().StringVar(&storagePath, "storage", "", "Custom storage location (path to database file or storage directory)")
	rootCmd.PersistentFlags().StringVar(&langFlag, "lang", "", "Interface language (es, en)")
	rootCmd.PersistentFlags().StringVar(&themeFlag, "theme", "", "Theme reported to the backend (dark, light)")
	rootCmd.PersistentFlags().StringVar(&endpoint, "endpoint", "", "Backend endpoint for this run (overrides saved settings)")
	rootCmd.PersistentFlags().IntVar(&timeoutSecs, "timeout", 0, "Request timeout in seconds for this run")

	// Set version template to ensure --version flag works
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}
