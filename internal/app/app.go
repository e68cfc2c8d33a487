// Package app wires the practice client into a Bubble Tea program.
package app

import (
	"context"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/rs/zerolog"

	"github.com/abhisek/lingua/internal/router"
	"github.com/abhisek/lingua/internal/screen"
	"github.com/abhisek/lingua/internal/screens/practice"
	"github.com/abhisek/lingua/internal/screens/welcome"
	"github.com/abhisek/lingua/internal/session"
	"github.com/abhisek/lingua/internal/sidebar"
	"github.com/abhisek/lingua/internal/transcript"
	"github.com/abhisek/lingua/internal/ui/layout"
)

// Options configures the practice client.
type Options struct {
	// Collaborator is the tutoring service. Required.
	Collaborator session.Collaborator

	Logger zerolog.Logger

	// ExportPath, when set, receives the transcript as HTML on exit.
	ExportPath string

	// NoSplash opens the practice screen directly.
	NoSplash bool
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router   *router.Router
	practice *practice.Screen
	width    int
	height   int
}

// newAppModel creates the model with the practice screen at the bottom of
// the stack, behind the splash unless it is disabled.
func newAppModel(ctx context.Context, opts Options) AppModel {
	pane := practice.NewPane()
	ctrl := session.NewController(
		opts.Collaborator,
		transcript.New(pane),
		sidebar.New(),
		session.WithLogger(opts.Logger),
	)
	ps := practice.New(ctx, ctrl, pane)

	var first screen.Screen = ps
	if !opts.NoSplash {
		first = welcome.New(func() screen.Screen { return ps })
	}
	return AppModel{
		router:   router.New(first),
		practice: ps,
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case practice.CallDoneMsg:
		// Replies land on the practice screen even while settings is open.
		_, cmd := m.practice.Update(msg)
		return m, cmd

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

// render draws the full frame: header, active screen and footer.
func (m AppModel) render() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	var title, status string
	if active != nil {
		title = active.Title()
		if sp, ok := active.(screen.StatusProvider); ok {
			status = sp.Status()
		}
	}

	header := layout.RenderHeader(title, status, m.width)

	footerHints := []layout.KeyHint{
		{Key: "Esc", Description: "Back"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
	if kp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = kp.KeyHints()
	}

	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Run starts the Bubble Tea program and blocks until the user quits.
func Run(ctx context.Context, opts Options) error {
	if opts.Collaborator == nil {
		return fmt.Errorf("app: no collaborator configured")
	}

	model := newAppModel(ctx, opts)
	p := tea.NewProgram(model, tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}

	if opts.ExportPath != "" {
		tr := model.practice.Controller().Transcript()
		if err := exportTranscript(opts.ExportPath, tr); err != nil {
			return err
		}
		opts.Logger.Info().Str("path", opts.ExportPath).Int("entries", tr.Len()).Msg("transcript exported")
	}
	return nil
}

func exportTranscript(path string, tr *transcript.Transcript) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	if err := transcript.WriteHTML(f, "Lingua transcript", tr.Entries()); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
