package practice

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/lingua/internal/transcript"
	"github.com/abhisek/lingua/internal/tutor"
	"github.com/abhisek/lingua/internal/ui/theme"
)

// renderEntry draws one transcript entry for a pane of the given width.
// All text is sanitized; nothing from the learner or the tutor is
// interpreted as terminal control.
func renderEntry(e transcript.Entry, width int) string {
	if e.Kind == transcript.KindFeedback && e.Feedback != nil {
		return renderFeedback(*e.Feedback, width)
	}
	return renderMessage(e.Sender, e.Text, width)
}

func renderMessage(sender transcript.Sender, text string, width int) string {
	bubbleWidth := width * 3 / 4
	if bubbleWidth < 20 {
		bubbleWidth = width
	}

	name := theme.TutorName.Render(sender.DisplayName())
	bubble := theme.TutorBubble
	align := lipgloss.Left
	if sender == transcript.SenderUser {
		name = theme.UserName.Render(sender.DisplayName())
		bubble = theme.UserBubble
		align = lipgloss.Right
	}

	body := bubble.Width(bubbleWidth).Render(transcript.Sanitize(text))
	block := lipgloss.JoinVertical(align, name, body)
	return lipgloss.PlaceHorizontal(width, align, block)
}

func renderFeedback(r tutor.FeedbackReport, width int) string {
	inner := width - 6
	if inner < 10 {
		inner = 10
	}
	wrap := lipgloss.NewStyle().Width(inner)
	label := lipgloss.NewStyle().Foreground(theme.TextDim)

	var b strings.Builder
	b.WriteString(theme.Title.Render(transcript.HeadingFeedback))
	b.WriteString("\n\n")

	b.WriteString(theme.Heading.Render(transcript.HeadingCorrections))
	b.WriteString("\n")
	if len(r.Corrections) == 0 {
		b.WriteString(theme.Correct.Render(transcript.NoCorrectionsPlaceholder))
		b.WriteString("\n")
	}
	for _, c := range r.Corrections {
		b.WriteString(wrap.Render(label.Render("Your text:   ") + theme.Incorrect.Render(transcript.Sanitize(c.UserText))))
		b.WriteString("\n")
		b.WriteString(wrap.Render(label.Render("Corrected:   ") + theme.Correct.Render(transcript.Sanitize(c.CorrectedText))))
		b.WriteString("\n")
		b.WriteString(wrap.Render(label.Render("Explanation: ") + transcript.Sanitize(c.Explanation)))
		b.WriteString("\n\n")
	}

	writeList(&b, wrap, transcript.HeadingStrengths, r.Strengths)
	writeList(&b, wrap, transcript.HeadingWeaknesses, r.Weaknesses)
	writeList(&b, wrap, transcript.HeadingRecommendations, r.Recommendations)

	return theme.FeedbackCard.Width(width).Render(strings.TrimRight(b.String(), "\n"))
}

func writeList(b *strings.Builder, wrap lipgloss.Style, heading string, items []string) {
	b.WriteString("\n")
	b.WriteString(theme.Heading.Render(heading))
	b.WriteString("\n")
	for _, it := range items {
		b.WriteString(wrap.Render("• " + transcript.Sanitize(it)))
		b.WriteString("\n")
	}
}
