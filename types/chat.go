package types

const (
	ChatMessageRoleUser      = "user"
	ChatMessageRoleSystem    = "system"
	ChatMessageRoleAssistant = "assistant"
)

// Message represents a single turn in a conversation
type Message struct {
	Role    string `json:"role" bson:"role"`
	Content string `json:"content" bson:"content"`
}

// ChatOptions carries sampling parameters for a completion call.
// Zero values mean "use the provider default".
type ChatOptions struct {
	Temperature float32
	TopP        float32
	MaxTokens   int
}

type ChatResponse struct {
	SessionID string    `json:"session_id"`
	Messages  []Message `json:"messages"`
}
