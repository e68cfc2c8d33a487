package session

import (
	"context"

	"github.com/abhisek/lingua/internal/tutor"
)

// Collaborator is the remote tutoring service.
type Collaborator interface {
	StartSession(ctx context.Context, settings tutor.Settings) (*tutor.StartResponse, error)
	Chat(ctx context.Context, req tutor.ChatRequest) (*tutor.ChatResponse, error)
	FinishSession(ctx context.Context, req tutor.FinishRequest) (*tutor.FinishResponse, error)
}

// Call is one accepted command whose outbound request has not completed.
// Do may run on any goroutine; it reads only the values captured when the
// call was created and never touches controller state.
type Call struct {
	id        uint64
	op        Op
	sessionID string
	settings  tutor.Settings
	text      string
	collab    Collaborator
}

// Op returns the outbound call this Call performs.
func (c *Call) Op() Op { return c.op }

// SessionID returns the session the call belongs to. Empty for start calls.
func (c *Call) SessionID() string { return c.sessionID }

// Do performs the outbound request and captures its outcome. It is the
// single suspension point of a command.
func (c *Call) Do(ctx context.Context) Reply {
	r := Reply{call: c}
	switch c.op {
	case OpStart:
		r.start, r.err = c.collab.StartSession(ctx, c.settings)
	case OpChat:
		r.chat, r.err = c.collab.Chat(ctx, tutor.ChatRequest{SessionID: c.sessionID, Text: c.text})
	case OpFinish:
		r.finish, r.err = c.collab.FinishSession(ctx, tutor.FinishRequest{SessionID: c.sessionID})
	}
	if r.err == nil && r.start == nil && r.chat == nil && r.finish == nil {
		r.err = errEmptyResponse
	}
	return r
}

// Reply is the completed outcome of a Call, applied with Controller.Complete.
type Reply struct {
	call   *Call
	start  *tutor.StartResponse
	chat   *tutor.ChatResponse
	finish *tutor.FinishResponse
	err    error
}

// Op returns the call this reply completes.
func (r Reply) Op() Op {
	if r.call == nil {
		return ""
	}
	return r.call.op
}

// Err returns the raw call error, if any.
func (r Reply) Err() error { return r.err }
