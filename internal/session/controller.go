package session

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/abhisek/lingua/internal/sidebar"
	"github.com/abhisek/lingua/internal/transcript"
)

var errEmptyResponse = errors.New("empty response")

// Controller owns the single practice session, its transcript and the
// sidebar. All methods must be called from one goroutine; only Call.Do may
// run elsewhere.
type Controller struct {
	collab     Collaborator
	transcript *transcript.Transcript
	sidebar    *sidebar.Registry
	log        zerolog.Logger

	session Session
	aff     Affordances

	pending map[uint64]*Call
	nextID  uint64
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the diagnostic logger. The default discards output.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Controller) { c.log = l }
}

// NewController creates a controller in the no-session state.
func NewController(collab Collaborator, tr *transcript.Transcript, sb *sidebar.Registry, opts ...Option) *Controller {
	c := &Controller{
		collab:     collab,
		transcript: tr,
		sidebar:    sb,
		log:        zerolog.Nop(),
		aff:        initialAffordances(),
		pending:    make(map[uint64]*Call),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Session returns a copy of the current session.
func (c *Controller) Session() Session { return c.session }

// Affordances returns the current enabled state of the controls.
func (c *Controller) Affordances() Affordances { return c.aff }

// Header returns the practice header for the current session.
func (c *Controller) Header() Header { return headerFor(c.session) }

// Transcript returns the transcript the controller appends to.
func (c *Controller) Transcript() *transcript.Transcript { return c.transcript }

// Sidebar returns the session summary list.
func (c *Controller) Sidebar() *sidebar.Registry { return c.sidebar }

// Phase returns the lifecycle phase.
func (c *Controller) Phase() Phase {
	if c.session.Active {
		return PhaseActive
	}
	return PhaseNoSession
}

// Pending returns the number of calls in flight.
func (c *Controller) Pending() int { return len(c.pending) }

// Dispatch runs a command to completion on the calling goroutine.
func (c *Controller) Dispatch(ctx context.Context, cmd Command) Result {
	call, res := c.Begin(cmd)
	if call == nil {
		return res
	}
	return c.Complete(call.Do(ctx))
}

// Begin checks the command's preconditions and applies its immediate
// effects. It returns the Call to perform, or nil with an OutcomeSkipped
// result when the command does not apply.
func (c *Controller) Begin(cmd Command) (*Call, Result) {
	switch cmd := cmd.(type) {
	case StartCommand:
		return c.beginStart(cmd)
	case SendCommand:
		return c.beginSend(cmd)
	case FinishCommand:
		return c.beginFinish()
	}
	return nil, Result{Outcome: OutcomeSkipped, Reason: "unknown command"}
}

// Complete applies a finished call. Replies for calls this controller did
// not issue, or already completed, are skipped.
func (c *Controller) Complete(r Reply) Result {
	if r.call == nil || c.pending[r.call.id] != r.call {
		return Result{Op: r.Op(), Outcome: OutcomeSkipped, Reason: SkipUnknownCall}
	}
	delete(c.pending, r.call.id)

	switch r.call.op {
	case OpStart:
		return c.completeStart(r)
	case OpChat:
		return c.completeSend(r)
	default:
		return c.completeFinish(r)
	}
}

func (c *Controller) newCall(op Op, sessionID string) *Call {
	c.nextID++
	call := &Call{id: c.nextID, op: op, sessionID: sessionID, collab: c.collab}
	c.pending[call.id] = call
	return call
}

// pendingFor counts in-flight calls that belong to sessionID.
func (c *Controller) pendingFor(sessionID string) int {
	n := 0
	for _, call := range c.pending {
		if call.sessionID == sessionID {
			n++
		}
	}
	return n
}

// canReenableInputs is the race guard for completions: inputs come back only
// while the session is still active and nothing else is in flight for it.
func (c *Controller) canReenableInputs() bool {
	return c.session.Active && c.pendingFor(c.session.ID) == 0
}

func (c *Controller) beginStart(cmd StartCommand) (*Call, Result) {
	c.aff.StartEnabled = false
	c.aff.StartLabel = LabelStarting

	call := c.newCall(OpStart, "")
	call.settings = cmd.Settings

	c.log.Debug().
		Str("language", cmd.Settings.Language).
		Str("level", cmd.Settings.Level).
		Msg("starting session")
	return call, Result{Op: OpStart, Outcome: OutcomePending}
}

func (c *Controller) completeStart(r Reply) Result {
	err := r.err
	if err == nil && r.start.SessionID == "" {
		err = ErrMissingSessionID
	}
	if err != nil {
		c.aff.StartEnabled = true
		c.aff.StartLabel = LabelStart
		if c.session.Active {
			c.aff.StartLabel = LabelRestart
		}
		failed := &RequestFailedError{Op: OpStart, Err: err}
		c.log.Error().Err(failed).Msg("start session failed")
		return Result{Op: OpStart, Outcome: OutcomeFailed, Err: failed, Alert: AlertStartFail}
	}

	settings := r.call.settings
	c.session = Session{
		ID:       r.start.SessionID,
		Active:   true,
		Language: settings.Language,
		Level:    settings.Level,
		Focus:    settings.Focus,
		Context:  settings.Context,
	}

	c.transcript.Start()
	c.transcript.AppendMessage(transcript.SenderAssistant, r.start.AssistantMessage)

	c.aff = Affordances{
		StartEnabled:  true,
		StartLabel:    LabelRestart,
		SendEnabled:   true,
		FinishEnabled: true,
		FinishLabel:   LabelFinish,
	}

	c.sidebar.AddEntry(c.session.ID, settings.Language, settings.Level)

	c.log.Info().Str("session_id", c.session.ID).Msg("session started")
	return Result{Op: OpStart, Outcome: OutcomeOK}
}

func (c *Controller) beginSend(cmd SendCommand) (*Call, Result) {
	text := strings.TrimSpace(cmd.Text)
	if text == "" {
		return nil, Result{Op: OpChat, Outcome: OutcomeSkipped, Reason: SkipEmptyText}
	}
	if !c.session.Active || c.session.ID == "" {
		return nil, Result{Op: OpChat, Outcome: OutcomeSkipped, Reason: SkipNoSession}
	}

	// Phase one: the learner's turn is shown before the reply arrives.
	c.transcript.AppendMessage(transcript.SenderUser, text)
	c.aff.SendEnabled = false
	c.aff.FinishEnabled = false

	call := c.newCall(OpChat, c.session.ID)
	call.text = text
	return call, Result{Op: OpChat, Outcome: OutcomePending}
}

func (c *Controller) completeSend(r Reply) Result {
	// Phase two: exactly one assistant turn per learner turn.
	res := Result{Op: OpChat, Outcome: OutcomeOK}
	if r.err != nil {
		failed := &RequestFailedError{Op: OpChat, Err: r.err}
		c.log.Warn().Err(failed).Str("session_id", r.call.sessionID).Msg("chat failed")
		c.transcript.AppendMessage(transcript.SenderAssistant, FallbackReply)
		res = Result{Op: OpChat, Outcome: OutcomeFailed, Err: failed}
	} else {
		c.transcript.AppendMessage(transcript.SenderAssistant, r.chat.AssistantMessage)
	}

	if c.canReenableInputs() {
		c.aff.SendEnabled = true
		c.aff.FinishEnabled = true
	}
	return res
}

func (c *Controller) beginFinish() (*Call, Result) {
	if !c.session.Active || c.session.ID == "" {
		return nil, Result{Op: OpFinish, Outcome: OutcomeSkipped, Reason: SkipNoSession}
	}

	c.aff.SendEnabled = false
	c.aff.FinishEnabled = false
	c.aff.FinishLabel = LabelFinishing

	return c.newCall(OpFinish, c.session.ID), Result{Op: OpFinish, Outcome: OutcomePending}
}

func (c *Controller) completeFinish(r Reply) Result {
	if r.err != nil {
		failed := &RequestFailedError{Op: OpFinish, Err: r.err}
		c.log.Error().Err(failed).Str("session_id", r.call.sessionID).Msg("finish session failed")
		if r.call.sessionID != c.session.ID {
			// The session was abandoned; the current one keeps its controls.
			return Result{Op: OpFinish, Outcome: OutcomeFailed, Err: failed}
		}

		// Only finish comes back; the message input stays disabled until the
		// learner retries finish or starts a new session.
		c.aff.FinishLabel = LabelFinish
		if c.canReenableInputs() {
			c.aff.FinishEnabled = true
		}
		return Result{Op: OpFinish, Outcome: OutcomeFailed, Err: failed, Alert: AlertFinishFail}
	}

	c.transcript.AppendFeedback(r.finish.Feedback)

	// A session started while finish was in flight is left alone.
	if c.session.ID == r.call.sessionID {
		c.session = Session{}
		c.aff.SendEnabled = false
		c.aff.FinishEnabled = false
		c.aff.FinishLabel = LabelFinish
	}

	c.log.Info().Str("session_id", r.call.sessionID).Bool("saved", r.finish.Saved).Msg("session finished")
	return Result{Op: OpFinish, Outcome: OutcomeOK}
}
