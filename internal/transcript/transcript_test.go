package transcript

import (
	"strings"
	"testing"

	"github.com/abhisek/lingua/internal/tutor"
)

// recordingSurface implements Surface for testing.
type recordingSurface struct {
	appended []Entry
	scrolls  int
}

func (r *recordingSurface) Append(e Entry)  { r.appended = append(r.appended, e) }
func (r *recordingSurface) ScrollToBottom() { r.scrolls++ }

func TestTranscript_AppendOrder(t *testing.T) {
	surface := &recordingSurface{}
	tr := New(surface)

	tr.AppendMessage(SenderAssistant, "¡Hola!")
	tr.AppendMessage(SenderUser, "Hola, como estas")
	tr.AppendMessage(SenderAssistant, "¡Bien!")

	entries := tr.Entries()
	if len(entries) != 3 {
		t.Fatalf("entries = %d, want 3", len(entries))
	}
	want := []struct {
		sender Sender
		text   string
	}{
		{SenderAssistant, "¡Hola!"},
		{SenderUser, "Hola, como estas"},
		{SenderAssistant, "¡Bien!"},
	}
	for i, w := range want {
		if entries[i].Seq != i+1 {
			t.Errorf("entries[%d].Seq = %d, want %d", i, entries[i].Seq, i+1)
		}
		if entries[i].Sender != w.sender || entries[i].Text != w.text {
			t.Errorf("entries[%d] = %s %q, want %s %q", i, entries[i].Sender, entries[i].Text, w.sender, w.text)
		}
	}

	if len(surface.appended) != 3 {
		t.Errorf("surface appends = %d, want 3", len(surface.appended))
	}
	if surface.scrolls != 3 {
		t.Errorf("surface scrolls = %d, want 3", surface.scrolls)
	}
}

func TestTranscript_EntriesAreCopies(t *testing.T) {
	tr := New(nil)
	tr.AppendFeedback(tutor.FeedbackReport{Strengths: []string{"Good vocabulary"}})

	entries := tr.Entries()
	entries[0].Feedback.Strengths[0] = "mutated"
	entries[0].Text = "mutated"

	again := tr.Entries()
	if again[0].Feedback.Strengths[0] != "Good vocabulary" {
		t.Errorf("stored feedback was mutated through a returned copy")
	}
	if again[0].Text != "" {
		t.Errorf("stored text was mutated through a returned copy")
	}
}

func TestTranscript_FeedbackCopiedOnAppend(t *testing.T) {
	tr := New(nil)
	report := tutor.FeedbackReport{Recommendations: []string{"Practice accents"}}
	tr.AppendFeedback(report)
	report.Recommendations[0] = "changed"

	last, ok := tr.Last()
	if !ok {
		t.Fatal("expected a last entry")
	}
	if last.Kind != KindFeedback {
		t.Errorf("Kind = %v, want KindFeedback", last.Kind)
	}
	if last.Feedback.Recommendations[0] != "Practice accents" {
		t.Errorf("feedback changed after append: %q", last.Feedback.Recommendations[0])
	}
}

func TestTranscript_EmptyState(t *testing.T) {
	tr := New(nil)
	if !tr.IsEmptyState() {
		t.Error("new transcript should be in the empty state")
	}
	tr.Start()
	tr.Start()
	if tr.IsEmptyState() {
		t.Error("Start should leave the empty state")
	}
	if tr.Len() != 0 {
		t.Errorf("Start must not add entries, got %d", tr.Len())
	}
}

func TestMessageHTML_EscapesText(t *testing.T) {
	out, err := MessageHTML(SenderAssistant, `<script>alert("x")</script> & 'quoted'`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{"&lt;script&gt;", "&amp;", "&#34;x&#34;", "&#39;quoted&#39;"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q: %s", want, out)
		}
	}
	if strings.Contains(out, "<script>") {
		t.Errorf("raw markup leaked into output: %s", out)
	}
	if !strings.Contains(out, `class="sender-name">Tutor<`) {
		t.Errorf("expected tutor sender label: %s", out)
	}
}

func TestFeedbackHTML_EmptyCorrectionsPlaceholder(t *testing.T) {
	out, err := FeedbackHTML(tutor.FeedbackReport{
		Strengths:       []string{"Good vocabulary"},
		Recommendations: []string{"Practice accents"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if strings.Count(out, NoCorrectionsPlaceholder) != 1 {
		t.Errorf("expected placeholder exactly once: %s", out)
	}
	if strings.Contains(out, "correction-item") {
		t.Errorf("empty corrections must not render a correction table: %s", out)
	}
	if !strings.Contains(out, "<li>Good vocabulary</li>") {
		t.Errorf("missing strength: %s", out)
	}
	if !strings.Contains(out, "<li>Practice accents</li>") {
		t.Errorf("missing recommendation: %s", out)
	}
}

func TestFeedbackHTML_EscapesAllStrings(t *testing.T) {
	report := tutor.FeedbackReport{
		Corrections: []tutor.Correction{{
			UserText:      "<b>yo</b>",
			CorrectedText: `"yo" & 'tú'`,
			Explanation:   "use </td> carefully",
		}},
		Strengths:       []string{"<i>s</i>"},
		Weaknesses:      []string{"w > 1"},
		Recommendations: []string{"r < 2"},
	}
	out, err := FeedbackHTML(report)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{
		"&lt;b&gt;yo&lt;/b&gt;",
		"&#34;yo&#34; &amp; &#39;tú&#39;",
		"use &lt;/td&gt; carefully",
		"&lt;i&gt;s&lt;/i&gt;",
		"w &gt; 1",
		"r &lt; 2",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if strings.Contains(out, NoCorrectionsPlaceholder) {
		t.Error("placeholder shown despite corrections")
	}
	if strings.Count(out, `class="correction-item"`) != 1 {
		t.Errorf("expected one correction table: %s", out)
	}
}

func TestWriteHTML(t *testing.T) {
	tr := New(nil)
	tr.AppendMessage(SenderAssistant, "¡Hola!")
	tr.AppendMessage(SenderUser, "a < b")
	tr.AppendFeedback(tutor.FeedbackReport{})

	var b strings.Builder
	if err := WriteHTML(&b, "Spanish Practice", tr.Entries()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := b.String()

	if !strings.Contains(out, "<title>Spanish Practice</title>") {
		t.Error("missing title")
	}
	if !strings.Contains(out, "a &lt; b") {
		t.Error("user text not escaped")
	}
	hola := strings.Index(out, "¡Hola!")
	user := strings.Index(out, "a &lt; b")
	card := strings.Index(out, "feedback-card")
	if hola < 0 || user < 0 || card < 0 || !(hola < user && user < card) {
		t.Errorf("entries out of order: hola=%d user=%d card=%d", hola, user, card)
	}
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "¡Bien! Nota: 'cómo' lleva tilde.", "¡Bien! Nota: 'cómo' lleva tilde."},
		{"color codes", "\x1b[31mred\x1b[0m", "red"},
		{"cursor movement", "a\x1b[2Jb", "ab"},
		{"bell and carriage return", "x\a\ry", "xy"},
		{"keeps newlines", "one\ntwo\tthree", "one\ntwo\tthree"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sanitize(tt.in); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
