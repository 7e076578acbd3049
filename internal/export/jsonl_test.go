package export

import (
	"bufio"
	"bytes"
	"encoding/json"
	"testing"

	"github.com/iksnae/ragchat/internal"
)

func TestJSONLExporter_Export(t *testing.T) {
	tests := []struct {
		name      string
		conv      *internal.Conversation
		wantLines int
	}{
		{
			name:      "basic conversation",
			conv:      internal.CreateTestConversation("t1"),
			wantLines: 2,
		},
		{
			name:      "empty conversation",
			conv:      internal.CreateTestConversationWithMessages("t2", []internal.Message{}),
			wantLines: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := (&JSONLExporter{}).Export(tt.conv, &buf); err != nil {
				t.Fatalf("Export() error = %v", err)
			}

			lines := 0
			scanner := bufio.NewScanner(&buf)
			for scanner.Scan() {
				var obj map[string]interface{}
				if err := json.Unmarshal(scanner.Bytes(), &obj); err != nil {
					t.Errorf("line %d is not valid JSON: %v", lines+1, err)
				}
				if obj["thread"] != tt.conv.Thread.ID {
					t.Errorf("line %d thread = %v, want %v", lines+1, obj["thread"], tt.conv.Thread.ID)
				}
				lines++
			}
			if lines != tt.wantLines {
				t.Errorf("Export() wrote %d lines, want %d", lines, tt.wantLines)
			}
		})
	}
}

func TestJSONLExporter_Export_Fields(t *testing.T) {
	conv := internal.CreateTestConversationWithMessages("t1", []internal.Message{
		{
			Role:      internal.RoleUser,
			Content:   "see photo",
			CreatedAt: 1704067200000,
			Attachments: []internal.Attachment{
				{ID: "a1", Name: "photo.png", MIME: "image/png", DataURL: "data:image/png;base64,AAAA"},
			},
		},
	})

	var buf bytes.Buffer
	if err := (&JSONLExporter{}).Export(conv, &buf); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	var obj map[string]interface{}
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &obj); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if obj["role"] != "user" {
		t.Errorf("role = %v, want user", obj["role"])
	}
	if obj["timestamp"] != "2024-01-01T00:00:00Z" {
		t.Errorf("timestamp = %v, want 2024-01-01T00:00:00Z", obj["timestamp"])
	}
	names, ok := obj["attachments"].([]interface{})
	if !ok || len(names) != 1 || names[0] != "photo.png" {
		t.Errorf("attachments = %v, want [photo.png]", obj["attachments"])
	}
	if bytes.Contains(buf.Bytes(), []byte("base64")) {
		t.Error("Export() should not include attachment payloads")
	}
}

func TestJSONLExporter_Extension(t *testing.T) {
	if got := (&JSONLExporter{}).Extension(); got != "jsonl" {
		t.Errorf("Extension() = %v, want jsonl", got)
	}
}
