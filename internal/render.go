package internal

import (
	"fmt"
	"html"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	userStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	assistantStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	systemStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Italic(true)
	citationStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

var htmlNewline = strings.NewReplacer("\r\n", "<br/>", "\n", "<br/>")

// RenderHTML escapes message content and keeps its line breaks
func RenderHTML(content string) string {
	return htmlNewline.Replace(html.EscapeString(content))
}

// FormatCitation renders "[n] title - url", leaving out a missing title
func FormatCitation(c Citation) string {
	if c.Title == "" {
		return fmt.Sprintf("[%d] %s", c.N, c.URL)
	}
	return fmt.Sprintf("[%d] %s - %s", c.N, c.Title, c.URL)
}

// FormatMessage renders a message for the terminal
func FormatMessage(m Message) string {
	var label string
	switch m.Role {
	case RoleUser:
		label = userStyle.Render("you")
	case RoleAssistant:
		label = assistantStyle.Render("assistant")
	default:
		label = systemStyle.Render(string(m.Role))
	}

	var b strings.Builder
	b.WriteString(label)
	b.WriteString("\n")
	b.WriteString(m.Content)
	for _, a := range m.Attachments {
		b.WriteString("\n  📎 ")
		b.WriteString(Describe(a))
	}
	for _, c := range m.Citations {
		b.WriteString("\n  ")
		b.WriteString(citationStyle.Render(FormatCitation(c)))
	}
	return b.String()
}
