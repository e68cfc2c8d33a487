// Package llm wraps the chat model providers the tutoring service can use.
package llm

import (
	"context"
	"encoding/json"
)

// Provider generates one assistant turn from a prompt.
type Provider interface {
	// Generate sends the request and returns the model's reply. When the
	// request carries a Schema, Response.JSON holds the reply decoded and
	// validated against it.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes what to send to the model.
type Request struct {
	// System is the system prompt.
	System string

	// Messages is the conversation so far, oldest first.
	Messages []Message

	// Schema, when set, asks for a JSON reply conforming to it.
	Schema *Schema

	MaxTokens int

	// Temperature controls randomness, 0.0 - 1.0. Zero leaves the
	// provider default in place.
	Temperature float64
}

// Message is a single conversation turn.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema is a named JSON Schema for structured replies.
type Schema struct {
	// Name is kebab-case, e.g. "session-feedback". Used as the schema name
	// by providers that need one.
	Name string

	Description string

	Definition map[string]any
}

// Response is the model's reply.
type Response struct {
	// Text is the raw reply text.
	Text string

	// JSON is the validated structured reply. Nil when no Schema was sent.
	JSON json.RawMessage

	Usage Usage

	// Model is the model that served the request.
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

// complete fills resp.JSON for structured requests. Every provider calls it
// on the raw reply before returning.
func complete(req Request, resp *Response) (*Response, error) {
	if req.Schema == nil {
		return resp, nil
	}
	if resp.StopReason == "max_tokens" {
		return nil, &ErrMaxTokensExceeded{Content: resp.Text}
	}
	data, err := decodeStructured(req.Schema, resp.Text)
	if err != nil {
		return nil, err
	}
	resp.JSON = data
	return resp, nil
}

type contextKey struct{}

// WithPurpose labels the requests made with ctx, e.g. "conversation".
// The label is stored with each logged request.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, contextKey{}, purpose)
}

// PurposeFrom returns the label set by WithPurpose, or "unknown".
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(contextKey{}).(string); ok && v != "" {
		return v
	}
	return "unknown"
}

// resolveModel maps a friendly model name to a provider model ID. Names not
// in the table are used as-is.
func resolveModel(name string, models map[string]string) string {
	if id, ok := models[name]; ok {
		return id
	}
	return name
}
