package session

import (
	"errors"
	"fmt"

	"github.com/abhisek/lingua/internal/tutor"
)

// Op names an outbound call to the collaborator.
type Op string

const (
	OpStart  Op = "start-session"
	OpChat   Op = "chat"
	OpFinish Op = "finish-session"
)

// Command is a user action consumed by the Controller.
type Command interface {
	op() Op
}

// StartCommand starts a new session, replacing any current one.
type StartCommand struct {
	Settings tutor.Settings
}

// SendCommand sends one learner message.
type SendCommand struct {
	Text string
}

// FinishCommand ends the current session and requests feedback.
type FinishCommand struct{}

func (StartCommand) op() Op  { return OpStart }
func (SendCommand) op() Op   { return OpChat }
func (FinishCommand) op() Op { return OpFinish }

// Outcome classifies a Result.
type Outcome int

const (
	// OutcomeSkipped means a precondition was not met. Nothing happened and
	// nothing should be shown to the user.
	OutcomeSkipped Outcome = iota

	// OutcomePending means the command was accepted and its call is in flight.
	OutcomePending

	// OutcomeOK means the call completed successfully.
	OutcomeOK

	// OutcomeFailed means the call failed. Err is a *RequestFailedError.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSkipped:
		return "skipped"
	case OutcomePending:
		return "pending"
	case OutcomeOK:
		return "ok"
	case OutcomeFailed:
		return "failed"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// Skip reasons.
const (
	SkipEmptyText   = "empty message"
	SkipNoSession   = "no active session"
	SkipUnknownCall = "unknown call"
)

// Result is returned by every Controller operation.
type Result struct {
	Op      Op
	Outcome Outcome

	// Reason explains an OutcomeSkipped result.
	Reason string

	// Err is set for OutcomeFailed.
	Err error

	// Alert is a blocking notification to show the user, if any.
	Alert string
}

// ErrMissingSessionID is reported when a start call succeeds without an id.
var ErrMissingSessionID = errors.New("collaborator returned no session id")

// RequestFailedError reports a non-success response or transport failure.
type RequestFailedError struct {
	Op  Op
	Err error
}

func (e *RequestFailedError) Error() string {
	return fmt.Sprintf("%s request failed: %v", e.Op, e.Err)
}

func (e *RequestFailedError) Unwrap() error { return e.Err }
