package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/iksnae/ragchat/internal"
)

// MarkdownExporter exports conversations in Markdown format
type MarkdownExporter struct{}

// Export exports a conversation to Markdown format
func (e *MarkdownExporter) Export(conv *internal.Conversation, w io.Writer) error {
	_, _ = fmt.Fprintf(w, "# %s\n\n", conv.Thread.Title)
	_, _ = fmt.Fprintf(w, "**Thread:** %s  \n", conv.Thread.ID)
	if created := conv.Thread.GetCreatedAt(); !created.IsZero() {
		_, _ = fmt.Fprintf(w, "**Created:** %s  \n", created.UTC().Format(time.RFC3339))
	}
	_, _ = fmt.Fprintf(w, "**Messages:** %d\n\n", len(conv.Messages))

	_, _ = fmt.Fprintf(w, "---\n\n")

	for i, msg := range conv.Messages {
		timestamp := ""
		if msg.CreatedAt != 0 {
			timestamp = fmt.Sprintf(" (%s)", time.UnixMilli(msg.CreatedAt).UTC().Format(time.RFC3339))
		}

		_, _ = fmt.Fprintf(w, "**%s:**%s\n\n%s\n\n", msg.Role, timestamp, escapeMarkdown(msg.Content))

		for _, a := range msg.Attachments {
			_, _ = fmt.Fprintf(w, "- 📎 %s\n", internal.Describe(a))
		}
		if len(msg.Citations) > 0 {
			_, _ = fmt.Fprintf(w, "**Sources:**\n\n")
			for _, c := range msg.Citations {
				title := c.Title
				if title == "" {
					title = c.URL
				}
				_, _ = fmt.Fprintf(w, "%d. [%s](%s)\n", c.N, title, c.URL)
			}
		}
		if len(msg.Attachments) > 0 || len(msg.Citations) > 0 {
			_, _ = fmt.Fprintf(w, "\n")
		}

		if i < len(conv.Messages)-1 {
			_, _ = fmt.Fprintf(w, "---\n\n")
		}
	}

	return nil
}

// escapeMarkdown escapes emphasis markers outside fenced code blocks
func escapeMarkdown(text string) string {
	lines := strings.Split(text, "\n")
	var result []string
	inCodeBlock := false

	for _, line := range lines {
		if strings.HasPrefix(line, "```") {
			inCodeBlock = !inCodeBlock
			result = append(result, line)
		} else if inCodeBlock {
			result = append(result, line)
		} else {
			line = strings.ReplaceAll(line, "**", "\\*\\*")
			line = strings.ReplaceAll(line, "__", "\\_\\_")
			result = append(result, line)
		}
	}

	return strings.Join(result, "\n")
}

// Extension returns the file extension for this format
func (e *MarkdownExporter) Extension() string {
	return "md"
}
