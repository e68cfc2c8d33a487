package session

import (
	"github.com/abhisek/lingua/internal/sidebar"
	"github.com/abhisek/lingua/internal/tutor"
)

// Control labels.
const (
	LabelStart      = "Start Session"
	LabelStarting   = "Starting..."
	LabelRestart    = "Restart Session"
	LabelFinish     = "Finish Session"
	LabelFinishing  = "Finishing..."
	FallbackReply   = "Sorry, I'm having trouble connecting."
	AlertStartFail  = "Could not start session. Please try again."
	AlertFinishFail = "Could not finish session. Please try again."
)

// Session is the single practice conversation known to the client.
// The zero value is the no-session state.
type Session struct {
	// ID is assigned by the collaborator. Empty until a start call succeeds.
	ID string

	// Active is true between a successful start and a successful finish.
	Active bool

	Language string
	Level    string
	Focus    string
	Context  string
}

// Settings returns the settings the session was started with.
func (s Session) Settings() tutor.Settings {
	return tutor.Settings{
		Language: s.Language,
		Level:    s.Level,
		Focus:    s.Focus,
		Context:  s.Context,
	}
}

// Affordances is the enabled state of every user control.
type Affordances struct {
	StartEnabled bool
	StartLabel   string

	// SendEnabled covers both the message input and the send action.
	SendEnabled bool

	FinishEnabled bool
	FinishLabel   string
}

func initialAffordances() Affordances {
	return Affordances{
		StartEnabled: true,
		StartLabel:   LabelStart,
		FinishLabel:  LabelFinish,
	}
}

// Header is the practice header shown above the transcript.
type Header struct {
	Title  string
	Level  string
	Active bool
}

// Phase is a coarse view of the session lifecycle.
type Phase int

const (
	PhaseNoSession Phase = iota
	PhaseActive
)

func (p Phase) String() string {
	if p == PhaseActive {
		return "active"
	}
	return "no-session"
}

func headerFor(s Session) Header {
	if s.Language == "" {
		return Header{Title: "Language Practice"}
	}
	return Header{
		Title:  sidebar.LanguageLabel(s.Language) + " Practice",
		Level:  sidebar.LevelLabel(s.Level),
		Active: s.Active,
	}
}
