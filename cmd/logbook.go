package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/iksnae/ragchat/internal"
	"github.com/spf13/cobra"
)

var logbookSearch string

var logbookCmd = &cobra.Command{
	Use:   "logbook",
	Short: "Browse ended chats",
	Long:  `Browse the archive of chats closed with 'ragchat end' or /end.`,
}

var logbookListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List archived chats, newest first",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		entries, err := a.logbook.Search(logbookSearch)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(entries) == 0 {
			fmt.Fprintln(out, headerStyle.Render("📓 "+internal.T(a.lang).NoResults))
			return nil
		}

		fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("📓 %d archived chat(s)", len(entries))))
		w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
		_, _ = fmt.Fprintln(w, titleStyle.Render("ID")+"\t"+titleStyle.Render("Title")+"\t"+titleStyle.Render("Useful")+"\t"+titleStyle.Render("Messages")+"\t"+titleStyle.Render("Ended")+"\t")
		for _, e := range entries {
			useful := "✗"
			if e.Useful {
				useful = "✓"
			}
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t\n",
				idStyle.Render(shortID(e.ID)),
				e.Title,
				useful,
				countStyle.Render(fmt.Sprint(e.MessageCount)),
				dateStyle.Render(formatWhen(e.EndedAt, time.Now())))
		}
		return w.Flush()
	},
}

var logbookShowCmd = &cobra.Command{
	Use:   "show <entry-id>",
	Short: "Show an archived chat",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		id := args[0]
		if entries, err := a.logbook.Search(""); err == nil {
			for _, e := range entries {
				if strings.HasPrefix(e.ID, id) {
					id = e.ID
					break
				}
			}
		}
		conv, err := a.logbook.Load(id)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		displayThreadHeader(out, conv)
		for i, msg := range conv.Messages {
			displayMessage(out, i+1, msg, len(conv.Messages))
		}
		return nil
	},
}

var logbookClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every archived chat",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.logbook.Clear(); err != nil {
			return err
		}
		internal.PrintSuccess("Logbook cleared")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logbookCmd)
	logbookCmd.AddCommand(logbookListCmd, logbookShowCmd, logbookClearCmd)
	logbookListCmd.Flags().StringVarP(&logbookSearch, "search", "s", "", "Only list chats whose title contains this text")
}
