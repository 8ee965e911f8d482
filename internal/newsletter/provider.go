package newsletter

import "context"

// Provider defines the interface for LLM chat completion providers
type Provider interface {
	// Name returns the provider name (e.g., "openai")
	Name() string

	// ChatCompletion sends a single, non-streaming chat completion request.
	// Errors wrap one of ErrConnection, ErrTimeout, ErrAuthentication or ErrAPI.
	ChatCompletion(ctx context.Context, request ChatRequest) (*ChatResponse, error)
}

// ChatRequest represents a chat completion request
type ChatRequest struct {
	Model       string
	Temperature float64
	Messages    []ChatMessage
}

// ChatMessage represents a single message in the conversation
type ChatMessage struct {
	Role    string // "system", "user", "assistant"
	Content string
}

// ChatResponse represents a chat completion response
type ChatResponse struct {
	// Content of the first choice; empty when the provider returned no choices
	Content string

	// Finish reason ("stop", "length", etc.)
	FinishReason string

	// Token usage information
	Usage *ChatUsage
}

// ChatUsage represents token usage information
type ChatUsage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}
