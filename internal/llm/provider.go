// Package llm talks to text-completion vendors behind one Provider interface.
//
// Providers return the model's text verbatim. Turning that text into
// structured content is the caller's job, so nothing here validates shape.
package llm

import "context"

// Provider sends one request to a model and returns its text.
type Provider interface {
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID is the model identifier the provider is configured to use.
	ModelID() string
}

// Request describes what to send to the model.
type Request struct {
	// System sets the model's role and constraints.
	System string

	// Messages holds the conversation. Generation here is single-turn, so
	// this is normally one user message.
	Messages []Message

	MaxTokens int

	// Temperature controls randomness, 0.0 - 1.0. Zero leaves the vendor default.
	Temperature float64
}

// Message is a single turn in the conversation.
type Message struct {
	Role    Role
	Content string
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Response holds the model's output.
type Response struct {
	Text string

	Usage Usage

	// Model is the model that actually served the request.
	Model string

	// StopReason is normalized to "end" or "max_tokens".
	StopReason string
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// resolveModel maps a friendly model name to a provider model ID.
// Names not in the map pass through so direct model IDs work.
func resolveModel(name string, models map[string]string) string {
	if id, ok := models[name]; ok {
		return id
	}
	return name
}
