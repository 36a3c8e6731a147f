package ai

import "context"

// TextGenerator is the interface for LLM providers.
type TextGenerator interface {
	// Generate sends a single prompt under a system instruction and returns
	// the raw completion text.
	Generate(ctx context.Context, systemInstruction string, prompt string) (string, error)

	// Chat sends a conversation under a system instruction and returns the
	// assistant's reply.
	Chat(ctx context.Context, systemInstruction string, messages []ChatMessage) (string, error)
}

// ChatMessage represents a message in a chat conversation
type ChatMessage struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}
