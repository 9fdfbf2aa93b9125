package ai

import "context"

// Message is a single chat turn sent to or produced by the model oracle.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Completer turns an ordered message history into the oracle's next reply.
// Implementations make exactly one request per call: retry policy belongs to
// the caller.
type Completer interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}
