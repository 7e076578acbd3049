package internal

// testEpoch is a fixed timestamp (2024-01-01T00:00:00Z) so rendered output is stable
const testEpoch int64 = 1704067200000

// CreateTestConversation creates a conversation with one answered exchange
func CreateTestConversation(id string) *Conversation {
	return CreateTestConversationWithMessages(id, []Message{
		{
			ID:        id + "-u1",
			Role:      RoleUser,
			Content:   "How do I reset the spindle drive?",
			CreatedAt: testEpoch,
		},
		{
			ID:      id + "-a1",
			Role:    RoleAssistant,
			Content: "Power it down and hold RESET for five seconds.",
			Citations: []Citation{
				{N: 1, URL: "https://example.com/manual.pdf", Title: "Maintenance Manual"},
			},
			CreatedAt: testEpoch + 1000,
		},
	})
}

// CreateTestConversationWithMessages creates a conversation with custom messages
func CreateTestConversationWithMessages(id string, messages []Message) *Conversation {
	return &Conversation{
		Thread: Thread{
			ID:        id,
			Title:     "Spindle reset",
			CreatedAt: testEpoch,
			UpdatedAt: testEpoch + 1000,
			Replies:   1,
		},
		Messages: messages,
	}
}
