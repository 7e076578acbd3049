package cmd

import (
	"fmt"

	"github.com/iksnae/ragchat/internal"
	"github.com/spf13/cobra"
)

var (
	endUseful      bool
	endNotUseful   bool
	endTitle       string
	endDescription string
	endComments    string
)

var endCmd = &cobra.Command{
	Use:   "end",
	Short: "Rate and close the current chat",
	Long: `End a chat: record a usefulness rating and summary in the feedback log,
archive the transcript in the logbook and clear the thread.

Title and description default to a summary built from the thread. A rating
(--useful or --not-useful) is required.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if endUseful && endNotUseful {
			return fmt.Errorf("--useful and --not-useful are mutually exclusive")
		}

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.selectThread(threadID); err != nil {
			return err
		}

		summary := a.ctrl.SummaryDefaults()
		if cmd.Flags().Changed("title") {
			summary.Title = endTitle
			summary.TitleEdited = true
		}
		if cmd.Flags().Changed("description") {
			summary.Description = endDescription
		}
		summary.Comments = endComments
		switch {
		case endUseful:
			summary.Useful = boolPtr(true)
		case endNotUseful:
			summary.Useful = boolPtr(false)
		}

		if err := a.ctrl.EndChat(summary); err != nil {
			return err
		}
		internal.PrintSuccess(fmt.Sprintf("%s: %s", internal.T(a.lang).EndChat, a.feedback.Path()))
		return nil
	},
}

func boolPtr(b bool) *bool {
	return &b
}

func init() {
	rootCmd.AddCommand(endCmd)
	endCmd.Flags().StringVarP(&threadID, "thread", "t", "", "Thread to end (default: most recent)")
	endCmd.Flags().BoolVar(&endUseful, "useful", false, "Rate the chat as useful")
	endCmd.Flags().BoolVar(&endNotUseful, "not-useful", false, "Rate the chat as not useful")
	endCmd.Flags().StringVar(&endTitle, "title", "", "Summary title")
	endCmd.Flags().StringVar(&endDescription, "description", "", "Summary description")
	endCmd.Flags().StringVar(&endComments, "comments", "", "Additional comments")
}
