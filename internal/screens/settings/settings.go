// Package settings is the form for choosing a new practice session.
package settings

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/lingua/internal/router"
	"github.com/abhisek/lingua/internal/screen"
	"github.com/abhisek/lingua/internal/sidebar"
	"github.com/abhisek/lingua/internal/tutor"
	"github.com/abhisek/lingua/internal/ui/components"
	"github.com/abhisek/lingua/internal/ui/layout"
	"github.com/abhisek/lingua/internal/ui/theme"
)

// SubmitMsg is sent after the form closes with the chosen settings.
type SubmitMsg struct {
	Settings tutor.Settings
}

// Languages offered by the form, by code.
var Languages = []string{"es", "fr", "de", "it", "pt", "nl", "ja", "ko", "zh", "en"}

// Levels are the CEFR levels.
var Levels = []string{"A1", "A2", "B1", "B2", "C1", "C2"}

const (
	fieldLanguage = iota
	fieldLevel
	fieldFocus
	fieldContext
	fieldCount
)

// Screen implements screen.Screen for the settings form.
type Screen struct {
	language components.Choice
	level    components.Choice
	focus    components.TextInput
	context  components.TextInput
	field    int
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)

// New creates the form prefilled with initial. Empty fields fall back to
// Spanish at B1.
func New(initial tutor.Settings) *Screen {
	if initial.Language == "" {
		initial.Language = "es"
	}
	if initial.Level == "" {
		initial.Level = "B1"
	}

	langOpts := make([]components.Option, len(Languages))
	for i, code := range Languages {
		langOpts[i] = components.Option{Value: code, Label: sidebar.LanguageLabel(code)}
	}
	levelOpts := make([]components.Option, len(Levels))
	for i, l := range Levels {
		levelOpts[i] = components.Option{Value: l, Label: l}
	}

	s := &Screen{
		language: components.NewChoice("Language", langOpts, initial.Language),
		level:    components.NewChoice("Level", levelOpts, initial.Level),
		focus:    components.NewTextInput("e.g. past tense, ordering food", 120),
		context:  components.NewTextInput("e.g. at a hotel reception", 120),
	}
	s.focus.SetValue(initial.Focus)
	s.context.SetValue(initial.Context)
	s.setField(fieldLanguage)
	return s
}

func (s *Screen) Init() tea.Cmd {
	return nil
}

func (s *Screen) Title() string {
	return "New Session"
}

func (s *Screen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "←→", Description: "Change"},
		{Key: "Enter", Description: "Start"},
		{Key: "Esc", Description: "Cancel"},
	}
}

// Settings returns the values currently in the form.
func (s *Screen) Settings() tutor.Settings {
	return tutor.Settings{
		Language: s.language.Value(),
		Level:    s.level.Value(),
		Focus:    s.focus.TrimmedValue(),
		Context:  s.context.TrimmedValue(),
	}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok {
		switch kmsg.String() {
		case "enter":
			return s, s.submit()
		case "tab", "down":
			return s, s.setField((s.field + 1) % fieldCount)
		case "shift+tab", "up":
			return s, s.setField((s.field - 1 + fieldCount) % fieldCount)
		}
	}

	var cmd tea.Cmd
	switch s.field {
	case fieldLanguage:
		s.language, cmd = s.language.Update(msg)
	case fieldLevel:
		s.level, cmd = s.level.Update(msg)
	case fieldFocus:
		s.focus, cmd = s.focus.Update(msg)
	case fieldContext:
		s.context, cmd = s.context.Update(msg)
	}
	return s, cmd
}

// submit closes the form, then hands the settings to the screen below.
func (s *Screen) submit() tea.Cmd {
	settings := s.Settings()
	return tea.Sequence(
		func() tea.Msg { return router.PopScreenMsg{} },
		func() tea.Msg { return SubmitMsg{Settings: settings} },
	)
}

func (s *Screen) setField(f int) tea.Cmd {
	s.field = f
	s.language.Focused = f == fieldLanguage
	s.level.Focused = f == fieldLevel
	var cmds []tea.Cmd
	cmds = append(cmds, s.focus.SetEnabled(f == fieldFocus))
	cmds = append(cmds, s.context.SetEnabled(f == fieldContext))
	return tea.Batch(cmds...)
}

func (s *Screen) View(width, height int) string {
	fieldLabel := func(label string, focused bool) string {
		st := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
		if focused {
			st = st.Foreground(theme.Primary)
		}
		return st.Render(label)
	}

	var b strings.Builder
	b.WriteString(theme.Title.Render("Choose your practice session"))
	b.WriteString("\n\n")
	b.WriteString(s.language.View())
	b.WriteString("\n\n")
	b.WriteString(s.level.View())
	b.WriteString("\n\n")
	b.WriteString(fieldLabel("Focus", s.field == fieldFocus))
	b.WriteString("\n  ")
	b.WriteString(s.focus.Model.View())
	b.WriteString("\n\n")
	b.WriteString(fieldLabel("Setting", s.field == fieldContext))
	b.WriteString("\n  ")
	b.WriteString(s.context.Model.View())

	cardWidth := width - 8
	if cardWidth > 76 {
		cardWidth = 76
	}
	card := theme.Card.Width(cardWidth).Render(b.String())
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}
