package export

import (
	"fmt"
	"html"
	"io"

	"github.com/iksnae/ragchat/internal"
)

// HTMLExporter writes a standalone page with one block per message
type HTMLExporter struct{}

// Export exports a conversation to HTML
func (e *HTMLExporter) Export(conv *internal.Conversation, w io.Writer) error {
	title := html.EscapeString(conv.Thread.Title)
	if _, err := fmt.Fprintf(w, "<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>%s</title>\n</head>\n<body>\n<h1>%s</h1>\n", title, title); err != nil {
		return err
	}

	for _, msg := range conv.Messages {
		_, _ = fmt.Fprintf(w, "<div class=\"message %s\">\n<p>%s</p>\n", msg.Role, internal.RenderHTML(msg.Content))
		for _, a := range msg.Attachments {
			_, _ = fmt.Fprintf(w, "<p class=\"attachment\">%s</p>\n", html.EscapeString(internal.Describe(a)))
		}
		if len(msg.Citations) > 0 {
			_, _ = fmt.Fprintf(w, "<ol class=\"citations\">\n")
			for _, c := range msg.Citations {
				label := c.Title
				if label == "" {
					label = c.URL
				}
				_, _ = fmt.Fprintf(w, "<li value=\"%d\"><a href=\"%s\">%s</a></li>\n", c.N, html.EscapeString(c.URL), html.EscapeString(label))
			}
			_, _ = fmt.Fprintf(w, "</ol>\n")
		}
		_, _ = fmt.Fprintf(w, "</div>\n")
	}

	_, err := fmt.Fprintf(w, "</body>\n</html>\n")
	return err
}

// Extension returns the file extension for this format
func (e *HTMLExporter) Extension() string {
	return "html"
}
