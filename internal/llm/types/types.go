// Package types holds the provider-neutral chat completion types.
package types

import "context"

// Chat roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn of a conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Completer turns a conversation into the assistant's next reply.
// Implementations must be safe for concurrent use.
type Completer interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}
