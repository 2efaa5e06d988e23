package conversation

import "context"

const (
	ChatRoleSystem    = "system"
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

// ChatMessage is an internal message representation that can include system prompts.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// LLMClient produces the next assistant utterance for a bounded context of
// one system instruction plus the prior transcript.
type LLMClient interface {
	Complete(ctx context.Context, system string, history []ChatMessage) (string, error)
}
