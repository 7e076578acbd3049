package export

import (
	"io"

	"github.com/iksnae/ragchat/internal"
	"gopkg.in/yaml.v3"
)

// YAMLExporter exports conversations in YAML format. Attachment payloads are
// omitted by the model's yaml tags.
type YAMLExporter struct{}

// Export exports a conversation to YAML format
func (e *YAMLExporter) Export(conv *internal.Conversation, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer func() { _ = enc.Close() }()

	return enc.Encode(conv)
}

// Extension returns the file extension for this format
func (e *YAMLExporter) Extension() string {
	return "yaml"
}
