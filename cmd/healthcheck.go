package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/iksnae/ragchat/internal"
	"github.com/spf13/cobra"
)

var (
	healthcheckPing bool
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
	Short: "Check that ragchat can store state and reach its backend",
	Long: `Check the health of ragchat by verifying:
  • Storage path detection
  • Local database access and usage
  • Backend configuration
  • Backend reachability (with --ping)
  • Feedback log and logbook locations

This command is useful for debugging configuration issues.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, sectionStyle.Render("🔍 ragchat Health Check"))
		fmt.Fprintln(out)

		// Step 1: Open storage
		fmt.Fprintln(out, infoStyle.Render("Step 1: Opening local storage..."))
		a, err := openApp()
		if err != nil {
			fmt.Fprintln(out, errorStyle.Render("❌ Failed to open storage:"), err)
			return fmt.Errorf("health check failed: %w", err)
		}
		defer a.close()
		fmt.Fprintln(out, successStyle.Render("✅ Storage opened"))
		if verbose {
			fmt.Fprintf(out, "   Base path: %s\n", a.paths.BasePath)
			fmt.Fprintf(out, "   Database: %s\n", a.paths.DatabasePath)
		}
		fmt.Fprintln(out)

		// Step 2: Inspect usage
		fmt.Fprintln(out, infoStyle.Render("Step 2: Checking stored data..."))
		keys, err := a.store.Keys(internal.KeyPrefix)
		if err != nil {
			fmt.Fprintln(out, errorStyle.Render("❌ Failed to read keys:"), err)
			return fmt.Errorf("health check failed: %w", err)
		}
		var total, largest int
		for _, k := range keys {
			total += k.Size
			if k.Size > largest {
				largest = k.Size
			}
		}
		fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("✅ %d key(s), %s, %d thread(s)", len(keys), humanize.Bytes(uint64(total)), a.ctrl.Registry().Len())))
		if a.store.MaxValueSize > 0 && largest > a.store.MaxValueSize*8/10 {
			fmt.Fprintln(out, warningStyle.Render(fmt.Sprintf("⚠️  Largest value is %s, close to the %s per-key quota", humanize.Bytes(uint64(largest)), humanize.Bytes(uint64(a.store.MaxValueSize)))))
		}
		fmt.Fprintln(out)

		// Step 3: Backend configuration
		fmt.Fprintln(out, infoStyle.Render("Step 3: Checking backend configuration..."))
		if a.settings.Offline() {
			fmt.Fprintln(out, warningStyle.Render("⚠️  "+internal.T(a.lang).Offline))
			fmt.Fprintln(out, "   Set one with 'ragchat config set endpoint <url>' or RAG_ENDPOINT")
		} else {
			fmt.Fprintln(out, successStyle.Render("✅ Endpoint configured"))
			if verbose {
				fmt.Fprintf(out, "   Endpoint: %s\n", a.settings.Endpoint)
				fmt.Fprintf(out, "   API key: %s\n", a.settings.MaskedAPIKey())
				fmt.Fprintf(out, "   Timeout: %s\n", a.settings.Timeout())
			}
		}
		fmt.Fprintln(out)

		// Step 4: Ping
		pingFailed := false
		if healthcheckPing {
			fmt.Fprintln(out, infoStyle.Render("Step 4: Pinging backend..."))
			started := time.Now()
			if err := pingBackend(cmd.Context(), a); err != nil {
				pingFailed = true
				fmt.Fprintln(out, errorStyle.Render("❌ Backend did not answer:"), err)
			} else {
				fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("✅ Backend answered in %s", time.Since(started).Round(time.Millisecond))))
			}
			fmt.Fprintln(out)
		}

		// Step 5: Archive locations
		fmt.Fprintln(out, infoStyle.Render("Step 5: Checking feedback log and logbook..."))
		archiveFailed := false
		if err := a.logbook.EnsureDir(); err != nil {
			archiveFailed = true
			fmt.Fprintln(out, errorStyle.Render("❌ Logbook directory is not writable:"), err)
		} else {
			entries, _ := a.logbook.Search("")
			fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("✅ Logbook ready (%d archived chat(s))", len(entries))))
		}
		if verbose {
			fmt.Fprintf(out, "   Feedback: %s\n", a.feedback.Path())
			fmt.Fprintf(out, "   Logbook: %s\n", a.logbook.Dir())
		}
		fmt.Fprintln(out)

		// Summary
		fmt.Fprintln(out, sectionStyle.Render("📊 Summary"))
		fmt.Fprintln(out)
		switch {
		case pingFailed || archiveFailed:
			fmt.Fprintln(out, errorStyle.Render("❌ Health check failed"))
			return fmt.Errorf("health check failed")
		case a.settings.Offline():
			fmt.Fprintln(out, warningStyle.Render("⚠️  Storage available, running in demo mode"))
			return nil
		default:
			fmt.Fprintln(out, successStyle.Render("✅ Health check passed!"))
			return nil
		}
	},
}

// pingBackend sends a throwaway question outside any thread
func pingBackend(ctx context.Context, a *app) error {
	req := &internal.Request{
		ThreadID:    "healthcheck",
		Message:     "ping",
		History:     []internal.Message{},
		Attachments: []internal.OutboundAttachment{},
		QR:          []string{},
		Meta:        internal.RequestMeta{Lang: string(a.lang), Theme: a.theme, TS: time.Now().UnixMilli()},
	}
	_, err := internal.NewSender(a.settings).Send(ctx, req)
	return err
}

func init() {
	rootCmd.AddCommand(healthcheckCmd)
	healthcheckCmd.Flags().BoolVar(&healthcheckPing, "ping", false, "Send a test question to the backend")
}
