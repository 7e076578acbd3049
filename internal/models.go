package internal

import (
	"strings"
	"time"
)

// Role identifies who authored a message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Thread is a persisted conversation with its own message log
type Thread struct {
	ID        string `json:"id" yaml:"id"`
	Title     string `json:"title" yaml:"title"`
	CreatedAt int64  `json:"createdAt" yaml:"created_at"` // epoch ms
	UpdatedAt int64  `json:"updatedAt" yaml:"updated_at"` // epoch ms
	Replies   int    `json:"replies,omitempty" yaml:"replies,omitempty"`
}

// Message is a single entry in a thread transcript
type Message struct {
	ID          string       `json:"id" yaml:"id"`
	Role        Role         `json:"role" yaml:"role"`
	Content     string       `json:"content" yaml:"content"`
	Citations   []Citation   `json:"citations,omitempty" yaml:"citations,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty" yaml:"attachments,omitempty"`
	CreatedAt   int64        `json:"createdAt,omitempty" yaml:"created_at,omitempty"`
}

// Citation is a numbered reference attached to an assistant reply
type Citation struct {
	N     int    `json:"n" yaml:"n"`
	URL   string `json:"url" yaml:"url"`
	Title string `json:"title,omitempty" yaml:"title,omitempty"`
}

// Attachment is a file or photo embedded inline as a data URL
type Attachment struct {
	ID        string `json:"id" yaml:"id"`
	Name      string `json:"name" yaml:"name"`
	MIME      string `json:"mime" yaml:"mime"`
	Size      int64  `json:"size,omitempty" yaml:"size,omitempty"`
	DataURL   string `json:"dataUrl,omitempty" yaml:"-"`
	CreatedAt int64  `json:"createdAt,omitempty" yaml:"created_at,omitempty"`
}

// Conversation pairs a thread with its transcript for rendering and export
type Conversation struct {
	Thread   Thread    `json:"thread" yaml:"thread"`
	Messages []Message `json:"messages" yaml:"messages"`
}

// GetCreatedAt returns the thread creation time
func (t Thread) GetCreatedAt() time.Time {
	if t.CreatedAt == 0 {
		return time.Time{}
	}
	return time.UnixMilli(t.CreatedAt)
}

// GetUpdatedAt returns the last update time, falling back to the creation time
func (t Thread) GetUpdatedAt() time.Time {
	if t.UpdatedAt == 0 {
		return t.GetCreatedAt()
	}
	return time.UnixMilli(t.UpdatedAt)
}

// IsImage reports whether the attachment carries an image payload
func (a Attachment) IsImage() bool {
	return strings.HasPrefix(a.MIME, "image/")
}

// withoutPayload returns a copy of the message with attachment payloads stripped
func (m Message) withoutPayload() Message {
	if len(m.Attachments) == 0 {
		return m
	}
	stripped := make([]Attachment, len(m.Attachments))
	for i, a := range m.Attachments {
		a.DataURL = ""
		stripped[i] = a
	}
	m.Attachments = stripped
	return m
}
