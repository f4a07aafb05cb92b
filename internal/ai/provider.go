package ai

import "context"

// Message is one turn of a chat completion request.
type Message struct {
	Role    string // "system" or "user"
	Content string
}

// Completer sends a chat completion request to an LLM and returns the raw
// text response. Reached only through the resilient invoker; no caller talks
// to the provider directly.
type Completer interface {
	Complete(ctx context.Context, messages []Message, temperature float64, maxTokens int) (string, error)
}
