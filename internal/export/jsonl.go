package export

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/iksnae/ragchat/internal"
)

// JSONLExporter writes one message per line without attachment payloads
type JSONLExporter struct{}

type jsonlLine struct {
	Thread      string              `json:"thread"`
	Role        internal.Role       `json:"role"`
	Content     string              `json:"content"`
	Timestamp   string              `json:"timestamp,omitempty"`
	Citations   []internal.Citation `json:"citations,omitempty"`
	Attachments []string            `json:"attachments,omitempty"`
}

// Export exports a conversation to JSONL format
func (e *JSONLExporter) Export(conv *internal.Conversation, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	for _, msg := range conv.Messages {
		line := jsonlLine{
			Thread:    conv.Thread.ID,
			Role:      msg.Role,
			Content:   msg.Content,
			Citations: msg.Citations,
		}
		if msg.CreatedAt != 0 {
			line.Timestamp = time.UnixMilli(msg.CreatedAt).UTC().Format(time.RFC3339)
		}
		for _, a := range msg.Attachments {
			line.Attachments = append(line.Attachments, a.Name)
		}

		if err := enc.Encode(line); err != nil {
			return fmt.Errorf("failed to encode message: %w", err)
		}
	}

	return nil
}

// Extension returns the file extension for this format
func (e *JSONLExporter) Extension() string {
	return "jsonl"
}
