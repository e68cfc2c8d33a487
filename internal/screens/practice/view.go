package practice

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	sess "github.com/abhisek/lingua/internal/session"
	"github.com/abhisek/lingua/internal/sidebar"
	"github.com/abhisek/lingua/internal/ui/components"
	"github.com/abhisek/lingua/internal/ui/layout"
	"github.com/abhisek/lingua/internal/ui/theme"
)

const emptyStateText = "Welcome! Press Ctrl+N to pick a language and level, then start chatting with your tutor."

func (s *Screen) View(width, height int) string {
	if s.alert != "" {
		box := theme.Alert.Render(s.alert + "\n\n" + theme.Hint.Render("Press Esc to dismiss"))
		return layout.Overlay(box, width, height)
	}

	controls := s.renderControls(width)
	inputLine := s.renderInput(width)
	bottom := lipgloss.JoinVertical(lipgloss.Left, controls, inputLine)

	mainHeight := height - lipgloss.Height(bottom) - 1
	if mainHeight < 3 {
		mainHeight = 3
	}

	paneWidth := width - 2
	var side string
	if !layout.IsCompactWidth(width) {
		side = renderSidebar(s.ctrl.Sidebar().Entries(), layout.SidebarWidth, mainHeight)
		paneWidth = width - lipgloss.Width(side) - 3
	}

	var main string
	if s.ctrl.Transcript().IsEmptyState() {
		main = lipgloss.Place(paneWidth, mainHeight, lipgloss.Center, lipgloss.Center,
			theme.Subtitle.Width(paneWidth*2/3).Render(emptyStateText))
	} else {
		s.pane.SetSize(paneWidth, mainHeight)
		main = lipgloss.NewStyle().Width(paneWidth).Height(mainHeight).Render(s.pane.View())
	}

	top := main
	if side != "" {
		top = lipgloss.JoinHorizontal(lipgloss.Top, " "+main, "  ", side)
	}
	return top + "\n" + bottom
}

func (s *Screen) renderControls(width int) string {
	aff := s.ctrl.Affordances()
	start := components.NewButton(aff.StartLabel, "Ctrl+N", aff.StartEnabled)
	finish := components.NewButton(aff.FinishLabel, "Ctrl+F", aff.FinishEnabled)

	row := lipgloss.JoinHorizontal(lipgloss.Center, " ", start.View(), "  ", finish.View())
	if status := s.pendingStatus(); status != "" {
		row = lipgloss.JoinHorizontal(lipgloss.Center, row, "  ", theme.Hint.Render(status))
	}
	return lipgloss.NewStyle().Width(width).Render(row)
}

func (s *Screen) pendingStatus() string {
	if s.ctrl.Pending() == 0 {
		return ""
	}
	aff := s.ctrl.Affordances()
	switch {
	case aff.StartLabel == sess.LabelStarting:
		return "Starting your session..."
	case aff.FinishLabel == sess.LabelFinishing:
		return "Preparing feedback..."
	default:
		return "Tutor is typing..."
	}
}

func (s *Screen) renderInput(width int) string {
	s.input.SetWidth(width - 8)
	return lipgloss.NewStyle().
		Width(width - 2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(inputBorder(s.input.Enabled())).
		Render(s.input.View())
}

func inputBorder(enabled bool) color.Color {
	if enabled {
		return theme.Primary
	}
	return theme.Border
}

func renderSidebar(entries []sidebar.Entry, width, height int) string {
	var b strings.Builder
	b.WriteString(theme.Heading.Render("Sessions"))
	b.WriteString("\n\n")
	if len(entries) == 0 {
		b.WriteString(theme.Hint.Render("No sessions yet"))
	}
	for i, e := range entries {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(theme.Body.Bold(true).Render(e.LanguageLabel))
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render(
			fmt.Sprintf("%s · %s", e.LevelLabel, e.DisplayTime)))
	}
	return theme.Sidebar.
		Width(width).
		Height(height).
		Render(b.String())
}
