package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/iksnae/ragchat/internal"
	"github.com/spf13/cobra"
)

var (
	threadsLimit  int
	threadsSearch string
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

	activeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("135")).
			Bold(true)
)

var threadsCmd = &cobra.Command{
	Use:   "threads",
	Short: "Manage conversation threads",
	Long: `List, create, rename and delete conversation threads.

Thread IDs may be shortened to any unique prefix.`,
}

var threadsListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List threads, most recent first",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		var threads []internal.Thread
		if threadsSearch != "" {
			threads = a.ctrl.Registry().Search(threadsSearch, threadsLimit)
		} else {
			threads = a.ctrl.Registry().ListRecent(threadsLimit)
		}

		counts := make(map[string]int, len(threads))
		for _, t := range threads {
			msgs, err := a.ctrl.Messages(t.ID)
			if err == nil {
				counts[t.ID] = len(msgs)
			}
		}

		displayThreads(cmd.OutOrStdout(), threads, counts, a.ctrl.Snapshot().Active.ID, internal.T(a.lang))
		return nil
	},
}

var threadsNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Start a new empty thread",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		t := a.ctrl.NewThread()
		fmt.Fprintln(cmd.OutOrStdout(), t.ID)
		return nil
	},
}

var threadsRenameCmd = &cobra.Command{
	Use:   "rename <thread-id> <title>",
	Short: "Rename a thread",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		title := strings.Join(args[1:], " ")
		if strings.TrimSpace(title) == "" {
			return fmt.Errorf("title must not be empty")
		}
		if err := a.ctrl.RenameThread(a.resolveThreadID(args[0]), title); err != nil {
			return err
		}
		internal.PrintSuccess("Thread renamed")
		return nil
	},
}

var threadsDeleteCmd = &cobra.Command{
	Use:     "delete <thread-id>...",
	Aliases: []string{"rm"},
	Short:   "Delete threads and their messages",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		for _, id := range args {
			if err := a.ctrl.DeleteThread(a.resolveThreadID(id)); err != nil {
				return err
			}
		}
		internal.PrintSuccess(fmt.Sprintf("Deleted %d thread(s)", len(args)))
		return nil
	},
}

func displayThreads(out io.Writer, threads []internal.Thread, counts map[string]int, activeID string, strs internal.Strings) {
	if len(threads) == 0 {
		fmt.Fprintln(out, headerStyle.Render("📋 "+strs.NoResults))
		return
	}

	fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("📋 Found %d thread(s)", len(threads))))
	fmt.Fprintln(out)

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	_, _ = fmt.Fprintln(w, titleStyle.Render("ID")+"\t"+titleStyle.Render("Title")+"\t"+titleStyle.Render("Messages")+"\t"+titleStyle.Render("Updated")+"\t")
	_, _ = fmt.Fprintln(w, strings.Repeat("─", 90))

	for _, t := range threads {
		title := t.Title
		if title == "" {
			title = strs.NewChat
		}
		if t.ID == activeID {
			title = activeStyle.Render("● " + title)
		}

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t\n",
			idStyle.Render(shortID(t.ID)),
			title,
			countStyle.Render(strconv.Itoa(counts[t.ID])),
			dateStyle.Render(formatWhen(t.UpdatedAt, time.Now())))
	}

	_ = w.Flush()
	fmt.Fprintln(out)
	fmt.Fprintln(out, idStyle.Render("💡 Tip: Use the ID (e.g., ")+
		lipgloss.NewStyle().Foreground(lipgloss.Color("62")).Render(shortID(threads[0].ID))+
		idStyle.Render(") with `ragchat show <id>` or `--thread <id>`"))
}

// shortID keeps the first 8 characters of an ID for display
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// formatWhen renders an epoch-ms timestamp relative to now
func formatWhen(ms int64, now time.Time) string {
	if ms <= 0 {
		return "—"
	}
	t := time.UnixMilli(ms)
	if now.Sub(t) < 7*24*time.Hour {
		return humanize.RelTime(t, now, "ago", "from now")
	}
	if now.Sub(t) < 365*24*time.Hour {
		return t.Format("Jan 02 15:04")
	}
	return t.Format("2006-01-02")
}

func init() {
	rootCmd.AddCommand(threadsCmd)
	threadsCmd.AddCommand(threadsListCmd, threadsNewCmd, threadsRenameCmd, threadsDeleteCmd)
	threadsListCmd.Flags().IntVarP(&threadsLimit, "limit", "n", 0, "Maximum number of threads to list")
	threadsListCmd.Flags().StringVarP(&threadsSearch, "search", "s", "", "Only list threads whose title contains this text")
}
