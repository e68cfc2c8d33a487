package transcript

import (
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/abhisek/lingua/internal/tutor"
)

// NoCorrectionsPlaceholder is shown instead of an empty corrections list.
const NoCorrectionsPlaceholder = "No major corrections. Great job!"

// Feedback section headings, shared by the HTML and terminal renderers.
const (
	HeadingFeedback        = "Session Feedback"
	HeadingCorrections     = "Corrections"
	HeadingStrengths       = "Strengths"
	HeadingWeaknesses      = "Areas to Improve"
	HeadingRecommendations = "Recommendations"
)

// html/template escapes every interpolated string, so neither learner input
// nor collaborator text can change the structure around it.
var (
	messageTmpl = template.Must(template.New("message").Parse(
		`<div class="message {{.Sender}}-message">` +
			`<div class="sender-name">{{.Name}}</div>` +
			`<div class="bubble">{{.Text}}</div>` +
			`</div>`))

	feedbackTmpl = template.Must(template.New("feedback").Parse(
		`<div class="feedback-card">` +
			`<h3>{{.Headings.Feedback}}</h3>` +
			`<h4>{{.Headings.Corrections}}</h4>` +
			`<div class="corrections-list">` +
			`{{range .Report.Corrections}}<table class="correction-item">` +
			`<tr><td><b>Your text:</b></td><td>{{.UserText}}</td></tr>` +
			`<tr><td><b>Corrected:</b></td><td>{{.CorrectedText}}</td></tr>` +
			`<tr><td><b>Explanation:</b></td><td>{{.Explanation}}</td></tr>` +
			`</table>{{else}}<p class="no-corrections">{{$.Placeholder}}</p>{{end}}` +
			`</div>` +
			`<h4>{{.Headings.Strengths}}</h4><ul>{{range .Report.Strengths}}<li>{{.}}</li>{{end}}</ul>` +
			`<h4>{{.Headings.Weaknesses}}</h4><ul>{{range .Report.Weaknesses}}<li>{{.}}</li>{{end}}</ul>` +
			`<h4>{{.Headings.Recommendations}}</h4><ul>{{range .Report.Recommendations}}<li>{{.}}</li>{{end}}</ul>` +
			`</div>`))

	pageTmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
<div id="conversation-pane">
{{range .Blocks}}{{.}}
{{end}}</div>
</body>
</html>
`))
)

type feedbackHeadings struct {
	Feedback        string
	Corrections     string
	Strengths       string
	Weaknesses      string
	Recommendations string
}

var headings = feedbackHeadings{
	Feedback:        HeadingFeedback,
	Corrections:     HeadingCorrections,
	Strengths:       HeadingStrengths,
	Weaknesses:      HeadingWeaknesses,
	Recommendations: HeadingRecommendations,
}

// MessageHTML renders a message bubble.
func MessageHTML(sender Sender, text string) (string, error) {
	var b strings.Builder
	err := messageTmpl.Execute(&b, struct {
		Sender Sender
		Name   string
		Text   string
	}{sender, sender.DisplayName(), text})
	if err != nil {
		return "", fmt.Errorf("render message: %w", err)
	}
	return b.String(), nil
}

// FeedbackHTML renders a feedback card. The report's shape is trusted; its
// strings are escaped.
func FeedbackHTML(report tutor.FeedbackReport) (string, error) {
	var b strings.Builder
	err := feedbackTmpl.Execute(&b, struct {
		Headings    feedbackHeadings
		Report      tutor.FeedbackReport
		Placeholder string
	}{headings, report, NoCorrectionsPlaceholder})
	if err != nil {
		return "", fmt.Errorf("render feedback: %w", err)
	}
	return b.String(), nil
}

// EntryHTML renders a single entry.
func EntryHTML(e Entry) (string, error) {
	if e.Kind == KindFeedback && e.Feedback != nil {
		return FeedbackHTML(*e.Feedback)
	}
	return MessageHTML(e.Sender, e.Text)
}

// WriteHTML writes entries as a standalone HTML page.
func WriteHTML(w io.Writer, title string, entries []Entry) error {
	blocks := make([]template.HTML, 0, len(entries))
	for _, e := range entries {
		s, err := EntryHTML(e)
		if err != nil {
			return err
		}
		// Already escaped by the entry templates.
		blocks = append(blocks, template.HTML(s))
	}
	if err := pageTmpl.Execute(w, struct {
		Title  string
		Blocks []template.HTML
	}{title, blocks}); err != nil {
		return fmt.Errorf("write transcript page: %w", err)
	}
	return nil
}
