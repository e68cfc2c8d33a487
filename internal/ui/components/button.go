package components

import (
	"github.com/abhisek/lingua/internal/ui/theme"
)

// Button is a labelled control that is either enabled or greyed out.
// Key bindings live on the screen; the button only renders state.
type Button struct {
	Label   string
	Key     string
	Enabled bool
}

// NewButton creates a new button.
func NewButton(label, key string, enabled bool) Button {
	return Button{
		Label:   label,
		Key:     key,
		Enabled: enabled,
	}
}

// View renders the button.
func (b Button) View() string {
	label := b.Label
	if b.Key != "" {
		label = b.Key + "  " + label
	}
	if b.Enabled {
		return theme.ButtonActive.Render(label)
	}
	return theme.ButtonInactive.Render(label)
}
