package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/lingua/internal/ui/theme"
)

// Option is one selectable value with its display label.
type Option struct {
	Value string
	Label string
}

// Choice is a single-line selector cycled with left/right.
type Choice struct {
	Label    string
	Options  []Option
	Selected int
	Focused  bool
}

// NewChoice creates a selector with the option whose value is initial
// selected, or the first option if none matches.
func NewChoice(label string, options []Option, initial string) Choice {
	c := Choice{Label: label, Options: options}
	for i, o := range options {
		if o.Value == initial {
			c.Selected = i
			break
		}
	}
	return c
}

// Update handles left/right navigation when focused.
func (c Choice) Update(msg tea.Msg) (Choice, tea.Cmd) {
	if !c.Focused || len(c.Options) == 0 {
		return c, nil
	}
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return c, nil
	}

	switch kmsg.String() {
	case "left", "h":
		c.Selected = (c.Selected - 1 + len(c.Options)) % len(c.Options)
	case "right", "l":
		c.Selected = (c.Selected + 1) % len(c.Options)
	}
	return c, nil
}

// Value returns the selected option's value.
func (c Choice) Value() string {
	if len(c.Options) == 0 {
		return ""
	}
	return c.Options[c.Selected].Value
}

// View renders the label and every option, highlighting the selection.
func (c Choice) View() string {
	labelStyle := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	if c.Focused {
		labelStyle = labelStyle.Foreground(theme.Primary)
	}

	parts := make([]string, 0, len(c.Options))
	for i, o := range c.Options {
		switch {
		case i == c.Selected && c.Focused:
			parts = append(parts, theme.Selected.Render("‹ "+o.Label+" ›"))
		case i == c.Selected:
			parts = append(parts, theme.Unselected.Bold(true).Render(o.Label))
		default:
			parts = append(parts, lipgloss.NewStyle().Foreground(theme.TextDim).Render(o.Label))
		}
	}
	return labelStyle.Render(c.Label) + "\n  " + strings.Join(parts, "  ")
}
