package store

import (
	"context"
	"encoding/json"
	"time"
)

// QueryOpts configures list queries with filtering and pagination.
type QueryOpts struct {
	Limit   int       // max results (0 = unlimited)
	Purpose string    // llm events only; empty matches all
	From    time.Time // timestamp >= From
	To      time.Time // timestamp <= To
}

// Conversation is a finished practice session as saved by the service.
type Conversation struct {
	ID       string
	Created  time.Time
	Language string
	Level    string
	Focus    string
	Context  string

	// Turns is the JSON-encoded turn history.
	Turns json.RawMessage

	// Feedback is the JSON-encoded feedback report.
	Feedback json.RawMessage
}

// ConversationRepo persists finished conversations.
type ConversationRepo interface {
	// Save inserts a conversation. Saving an existing id is an error.
	Save(ctx context.Context, c *Conversation) error

	// List returns conversations, newest first.
	List(ctx context.Context, opts QueryOpts) ([]Conversation, error)

	// Get returns the conversation with id, or nil if none exists.
	Get(ctx context.Context, id string) (*Conversation, error)

	// DeleteAll removes every conversation and reports how many were removed.
	DeleteAll(ctx context.Context) (int64, error)
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEvent is a stored LLM request event.
type LLMEvent struct {
	ID        int
	Timestamp time.Time
	LLMRequestEventData
}

// PurposeUsage aggregates LLM usage for one purpose.
type PurposeUsage struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// ModelUsage aggregates LLM usage for one model.
type ModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// EventRepo records and reports LLM request events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns events, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error)

	// GetLLMEvent returns the event with id, or nil if none exists.
	GetLLMEvent(ctx context.Context, id int) (*LLMEvent, error)

	LLMUsageByPurpose(ctx context.Context) ([]PurposeUsage, error)
	LLMUsageByModel(ctx context.Context) ([]ModelUsage, error)

	// DeleteAll removes every event and reports how many were removed.
	DeleteAll(ctx context.Context) (int64, error)
}
