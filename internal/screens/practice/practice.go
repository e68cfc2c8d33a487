// Package practice is the main conversation screen.
package practice

import (
	"context"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/lingua/internal/router"
	"github.com/abhisek/lingua/internal/screen"
	"github.com/abhisek/lingua/internal/screens/settings"
	sess "github.com/abhisek/lingua/internal/session"
	"github.com/abhisek/lingua/internal/ui/components"
	"github.com/abhisek/lingua/internal/ui/layout"
)

// CallDoneMsg carries a finished outbound call back to the Update loop. It
// must reach this screen even when another screen is on top of it.
type CallDoneMsg struct {
	reply sess.Reply
}

// Screen implements screen.Screen for the practice conversation. It is the
// only place controller methods are called, so they all run on the Bubble
// Tea Update goroutine.
type Screen struct {
	ctx   context.Context
	ctrl  *sess.Controller
	pane  *Pane
	input components.TextInput

	// alert is a blocking notification. While set, only Esc and Enter
	// are handled and they dismiss it.
	alert string
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)
var _ screen.StatusProvider = (*Screen)(nil)

// New creates the practice screen. pane must be the surface the
// controller's transcript was created with.
func New(ctx context.Context, ctrl *sess.Controller, pane *Pane) *Screen {
	s := &Screen{
		ctx:   ctx,
		ctrl:  ctrl,
		pane:  pane,
		input: components.NewTextInput("Type your message...", 500),
	}
	s.syncInput()
	return s
}

func (s *Screen) Init() tea.Cmd {
	return s.syncInput()
}

func (s *Screen) Title() string {
	return s.ctrl.Header().Title
}

// Status shows the level of the current session in the header.
func (s *Screen) Status() string {
	return s.ctrl.Header().Level
}

// Alert returns the blocking alert being shown, if any.
func (s *Screen) Alert() string {
	return s.alert
}

// Controller returns the session controller.
func (s *Screen) Controller() *sess.Controller {
	return s.ctrl
}

func (s *Screen) KeyHints() []layout.KeyHint {
	if s.alert != "" {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Dismiss"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}

	aff := s.ctrl.Affordances()
	var hints []layout.KeyHint
	if aff.SendEnabled {
		hints = append(hints, layout.KeyHint{Key: "Enter", Description: "Send"})
	}
	if aff.FinishEnabled {
		hints = append(hints, layout.KeyHint{Key: "Ctrl+F", Description: aff.FinishLabel})
	}
	if aff.StartEnabled {
		hints = append(hints, layout.KeyHint{Key: "Ctrl+N", Description: aff.StartLabel})
	}
	hints = append(hints,
		layout.KeyHint{Key: "PgUp/PgDn", Description: "Scroll"},
		layout.KeyHint{Key: "Ctrl+C", Description: "Quit"},
	)
	return hints
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case settings.SubmitMsg:
		return s, s.begin(sess.StartCommand{Settings: msg.Settings})

	case CallDoneMsg:
		res := s.ctrl.Complete(msg.reply)
		s.showAlert(res)
		return s, s.syncInput()

	case tea.KeyPressMsg:
		return s.handleKey(msg)

	case tea.MouseWheelMsg:
		return s, s.pane.Update(msg)
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *Screen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.alert != "" {
		switch key {
		case "esc", "enter":
			s.alert = ""
		}
		return s, nil
	}

	aff := s.ctrl.Affordances()
	switch key {
	case "enter":
		if !aff.SendEnabled {
			return s, nil
		}
		cmd := s.begin(sess.SendCommand{Text: s.input.Value()})
		return s, cmd

	case "ctrl+f":
		if !aff.FinishEnabled {
			return s, nil
		}
		return s, s.begin(sess.FinishCommand{})

	case "ctrl+n":
		if !aff.StartEnabled {
			return s, nil
		}
		form := settings.New(s.ctrl.Session().Settings())
		return s, func() tea.Msg { return router.PushScreenMsg{Screen: form} }

	case "pgup", "pgdown":
		return s, s.pane.Update(msg)

	case "esc":
		return s, nil
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

// begin applies a command's immediate effects and returns the tea.Cmd that
// performs its call, or nil when the command was skipped.
func (s *Screen) begin(c sess.Command) tea.Cmd {
	call, res := s.ctrl.Begin(c)
	if call == nil {
		return nil
	}
	if res.Op == sess.OpChat {
		s.input.Reset()
	}
	ctx := s.ctx
	return tea.Batch(
		s.syncInput(),
		func() tea.Msg { return CallDoneMsg{reply: call.Do(ctx)} },
	)
}

func (s *Screen) showAlert(res sess.Result) {
	if res.Alert != "" {
		s.alert = res.Alert
	}
}

// syncInput enables typing exactly when sending is allowed.
func (s *Screen) syncInput() tea.Cmd {
	enabled := s.ctrl.Affordances().SendEnabled
	if enabled == s.input.Enabled() {
		return nil
	}
	return s.input.SetEnabled(enabled)
}
