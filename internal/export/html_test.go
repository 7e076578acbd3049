package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/iksnae/ragchat/internal"
)

func TestHTMLExporter_Export(t *testing.T) {
	conv := internal.CreateTestConversationWithMessages("t1", []internal.Message{
		{Role: internal.RoleUser, Content: "a < b & c\nnext line"},
		{
			Role:      internal.RoleAssistant,
			Content:   "<script>alert(1)</script>",
			Citations: []internal.Citation{{N: 1, URL: "https://example.com/?a=1&b=2", Title: "Manual"}},
		},
	})

	var buf bytes.Buffer
	if err := (&HTMLExporter{}).Export(conv, &buf); err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	output := buf.String()

	for _, want := range []string{
		"<title>Spindle reset</title>",
		"a &lt; b &amp; c<br/>next line",
		"&lt;script&gt;alert(1)&lt;/script&gt;",
		`<a href="https://example.com/?a=1&amp;b=2">Manual</a>`,
	} {
		if !strings.Contains(output, want) {
			t.Errorf("Export() output missing %q\n%s", want, output)
		}
	}
	if strings.Contains(output, "<script>") {
		t.Error("Export() must not emit raw markup from message content")
	}
}

func TestHTMLExporter_Extension(t *testing.T) {
	if got := (&HTMLExporter{}).Extension(); got != "html" {
		t.Errorf("Extension() = %v, want html", got)
	}
}
