package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/ragchat/internal"
	"github.com/spf13/cobra"
)

var (
	limit int
	since string
)

var (
	// Styles for show command
	threadHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("212")).
				Padding(0, 1).
				MarginBottom(1)

	threadMetaStyle = lipgloss.NewStyle().
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
				Padding(0, 2)

	sourceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")).
			Padding(0, 2)

	timestampStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show [thread-id]",
	Short: "Show the messages of a thread",
	Long: `Display the messages of a thread with their citations and attachments.

Without an ID the most recently updated thread is shown.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		id := threadID
		if len(args) > 0 {
			id = args[0]
		}
		if err := a.selectThread(id); err != nil {
			return err
		}
		conv, err := a.ctrl.Conversation(a.ctrl.Snapshot().Active.ID)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		displayThreadHeader(out, conv)

		messagesToShow := conv.Messages
		if since != "" {
			sinceTime, err := time.Parse(time.RFC3339, since)
			if err != nil {
				return fmt.Errorf("invalid --since timestamp format (expected RFC3339): %w", err)
			}
			messagesToShow = messagesSince(messagesToShow, sinceTime)
		}

		totalFiltered := len(messagesToShow)
		if limit > 0 && limit < len(messagesToShow) {
			messagesToShow = messagesToShow[:limit]
		}

		if totalFiltered == 0 {
			fmt.Fprintln(out, timestampStyle.Render(internal.T(a.lang).EmptyState))
			return nil
		}
		for i, msg := range messagesToShow {
			displayMessage(out, i+1, msg, totalFiltered)
		}

		if limit > 0 && limit < totalFiltered {
			fmt.Fprintln(out, lipgloss.NewStyle().
				Foreground(lipgloss.Color("243")).
				Italic(true).
				Render(fmt.Sprintf("... (%d more message(s))", totalFiltered-limit)))
		}
		return nil
	},
}

// messagesSince keeps messages created at or after t. Messages without a
// timestamp are dropped.
func messagesSince(msgs []internal.Message, t time.Time) []internal.Message {
	filtered := make([]internal.Message, 0, len(msgs))
	for _, msg := range msgs {
		if msg.CreatedAt == 0 {
			continue
		}
		if !time.UnixMilli(msg.CreatedAt).Before(t) {
			filtered = append(filtered, msg)
		}
	}
	return filtered
}

func displayThreadHeader(out io.Writer, conv *internal.Conversation) {
	if conv == nil {
		return
	}
	fmt.Fprintln(out, threadHeaderStyle.Render(fmt.Sprintf("💬 %s", conv.Thread.Title)))

	metaParts := []string{fmt.Sprintf("ID: %s", conv.Thread.ID)}
	if created := conv.Thread.GetCreatedAt(); !created.IsZero() {
		metaParts = append(metaParts, fmt.Sprintf("Created: %s", created.Format(time.RFC3339)))
	}
	metaParts = append(metaParts, fmt.Sprintf("Messages: %d", len(conv.Messages)))
	fmt.Fprintln(out, threadMetaStyle.Render(strings.Join(metaParts, " • ")))
	fmt.Fprintln(out)
}

func displayMessage(out io.Writer, index int, msg internal.Message, total int) {
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
	if msg.CreatedAt != 0 {
		header += " " + timestampStyle.Render(time.UnixMilli(msg.CreatedAt).Format("15:04:05"))
	}
	fmt.Fprintln(out, header)

	content := strings.TrimSpace(msg.Content)
	if content != "" {
		fmt.Fprintln(out, messageContentStyle.Render(wrapText(content, 80)))
	} else {
		fmt.Fprintln(out, messageContentStyle.Foreground(lipgloss.Color("240")).Render("(empty message)"))
	}

	for _, att := range msg.Attachments {
		fmt.Fprintln(out, sourceStyle.Render("📎 "+internal.Describe(att)))
	}
	for _, c := range msg.Citations {
		fmt.Fprintln(out, sourceStyle.Render(internal.FormatCitation(c)))
	}

	fmt.Fprintln(out)
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
	showCmd.Flags().IntVarP(&limit, "limit", "n", 0, "Limit number of messages to show")
	showCmd.Flags().StringVar(&since, "since", "", "Show messages since timestamp (RFC3339)")
	showCmd.Flags().StringVarP(&threadID, "thread", "t", "", "Thread to show (same as the positional ID)")
}
