package domain

// MessageRole represents the sender of a chat message
type MessageRole string

const (
	RoleSystem    MessageRole = "system"
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// Message is one role-tagged entry of a model conversation
type Message struct {
	Role    MessageRole `json:"role"`
	Content string      `json:"content"`
}
