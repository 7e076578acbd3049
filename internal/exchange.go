package internal

import (
	"strings"
)

// AttachmentMarker is the user message content when only attachments were sent
const AttachmentMarker = "(attachment)"

// PendingExchange is the handle for one in-flight request. It resolves
// exactly once against the thread it was issued for.
type PendingExchange struct {
	c *Controller

	ThreadID string
	Request  *Request

	index         int
	placeholderID string
	titleHint     string

	done   bool
	result Message
}

// Resolve replaces the placeholder with the backend reply
func (p *PendingExchange) Resolve(reply *Reply) error {
	if reply == nil {
		reply = &Reply{Text: EmptyReply}
	}
	return p.c.update(func() error {
		if p.done {
			return ErrAlreadyResolved
		}
		p.done = true
		p.finishLocked()

		text := reply.Text
		if strings.TrimSpace(text) == "" {
			text = EmptyReply
		}
		msg := Message{
			ID:        p.c.newID(),
			Role:      RoleAssistant,
			Content:   text,
			Citations: reply.Citations,
			CreatedAt: p.c.now().UnixMilli(),
		}
		p.result = msg
		if !p.replaceLocked(msg) {
			return nil
		}

		candidate := reply.SuggestedTitle
		if strings.TrimSpace(candidate) == "" {
			candidate = p.titleHint
		}
		if renamed, err := p.c.registry.RenameIfUntitled(p.ThreadID, candidate); err != nil {
			sessionLog.Warnf("Failed to title thread %s: %v", p.ThreadID, err)
		} else if renamed {
			sessionLog.Debugf("Titled thread %s", p.ThreadID)
		}
		if err := p.c.registry.RecordReply(p.ThreadID); err != nil {
			sessionLog.Warnf("Failed to record reply on thread %s: %v", p.ThreadID, err)
		}
		return nil
	})
}

// Fail replaces the placeholder with a visible error message
func (p *PendingExchange) Fail(cause error) error {
	return p.c.update(func() error {
		if p.done {
			return ErrAlreadyResolved
		}
		p.done = true
		p.finishLocked()

		content := T(p.c.lang).ErrorPrefix
		if cause != nil {
			content += " " + cause.Error()
		}
		msg := Message{
			ID:        p.c.newID(),
			Role:      RoleAssistant,
			Content:   content,
			CreatedAt: p.c.now().UnixMilli(),
		}
		p.result = msg
		sessionLog.Warnf("Exchange on thread %s failed: %v", p.ThreadID, cause)
		p.replaceLocked(msg)
		return nil
	})
}

// Result returns the message that replaced the placeholder
func (p *PendingExchange) Result() Message {
	p.c.mu.Lock()
	defer p.c.mu.Unlock()
	return p.result
}

func (p *PendingExchange) finishLocked() {
	p.c.state = StateIdle
	p.c.pending = Pending{}
}

// replaceLocked writes msg over the placeholder. It reports false when the
// thread or the placeholder no longer exists, in which case msg is dropped.
func (p *PendingExchange) replaceLocked(msg Message) bool {
	if _, err := p.c.registry.Get(p.ThreadID); err != nil {
		sessionLog.Warnf("Dropping reply for deleted thread %s", p.ThreadID)
		return false
	}
	tr := p.c.transcriptLocked(p.ThreadID)
	if !tr.ReplaceAt(p.index, p.placeholderID, msg) {
		sessionLog.Warnf("Dropping reply for thread %s: placeholder is gone", p.ThreadID)
		return false
	}
	return true
}

// composeContent builds the user message text with scanned codes appended
func composeContent(text string, codes []string) string {
	if len(codes) == 0 {
		if text == "" {
			return AttachmentMarker
		}
		return text
	}
	var b strings.Builder
	if text != "" {
		b.WriteString(text)
		b.WriteString("\n\n")
	}
	b.WriteString("QR codes:")
	for _, code := range codes {
		b.WriteString("\n- ")
		b.WriteString(code)
	}
	return b.String()
}

func titleHint(text string, staged Pending) string {
	switch {
	case text != "":
		return text
	case len(staged.Attachments) > 0:
		return staged.Attachments[0].Name
	case len(staged.Codes) > 0:
		return staged.Codes[0]
	}
	return ""
}
