package internal

// DefaultHistoryLimit is how many recent messages accompany a request
const DefaultHistoryLimit = 20

// Transcript is the ordered message log of one thread. Every mutation
// rewrites the thread's key in the store.
type Transcript struct {
	store    *Store
	threadID string
	messages []Message
}

// LoadTranscript reads the transcript of threadID from store
func LoadTranscript(store *Store, threadID string) *Transcript {
	return &Transcript{
		store:    store,
		threadID: threadID,
		messages: LoadJSON(store, MessagesKey(threadID), []Message{}),
	}
}

// ThreadID returns the owning thread
func (t *Transcript) ThreadID() string {
	return t.threadID
}

// Len returns the number of messages
func (t *Transcript) Len() int {
	return len(t.messages)
}

// Messages returns a copy of the transcript
func (t *Transcript) Messages() []Message {
	out := make([]Message, len(t.messages))
	copy(out, t.messages)
	return out
}

// Append adds messages to the end in order
func (t *Transcript) Append(msgs ...Message) {
	t.messages = append(t.messages, msgs...)
	t.persist()
}

// ReplaceLast replaces the final message. It is a no-op on an empty transcript.
func (t *Transcript) ReplaceLast(msg Message) bool {
	if len(t.messages) == 0 {
		return false
	}
	t.messages[len(t.messages)-1] = msg
	t.persist()
	return true
}

// ReplaceAt replaces the message at index only if it still has expectedID
func (t *Transcript) ReplaceAt(index int, expectedID string, msg Message) bool {
	if index < 0 || index >= len(t.messages) || t.messages[index].ID != expectedID {
		return false
	}
	t.messages[index] = msg
	t.persist()
	return true
}

// Clear empties the transcript
func (t *Transcript) Clear() {
	t.messages = nil
	t.persist()
}

// TruncatedHistory returns the last limit messages. Older messages are dropped.
func (t *Transcript) TruncatedHistory(limit int) []Message {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	start := 0
	if len(t.messages) > limit {
		start = len(t.messages) - limit
	}
	out := make([]Message, len(t.messages)-start)
	copy(out, t.messages[start:])
	return out
}

// AssistantReplies counts assistant messages in the transcript
func (t *Transcript) AssistantReplies() int {
	n := 0
	for _, m := range t.messages {
		if m.Role == RoleAssistant {
			n++
		}
	}
	return n
}

func (t *Transcript) persist() {
	messages := t.messages
	if messages == nil {
		messages = []Message{}
	}
	t.store.SaveJSON(MessagesKey(t.threadID), messages)
}
