package transcript

import (
	"slices"

	"github.com/abhisek/lingua/internal/tutor"
)

// Sender identifies who wrote a message.
type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// DisplayName returns the label shown above a message bubble.
func (s Sender) DisplayName() string {
	if s == SenderUser {
		return "You"
	}
	return "Tutor"
}

// Kind distinguishes chat messages from feedback blocks.
type Kind int

const (
	KindMessage Kind = iota
	KindFeedback
)

// Entry is a single immutable transcript record.
type Entry struct {
	// Seq is the 1-based append position.
	Seq int

	Kind   Kind
	Sender Sender

	// Text is the literal message text. Empty for feedback entries.
	Text string

	// Feedback is set for KindFeedback entries only.
	Feedback *tutor.FeedbackReport
}

// Surface is the display a transcript appends to. Implementations receive
// each entry exactly once, in order.
type Surface interface {
	Append(e Entry)
	ScrollToBottom()
}

// Transcript is the ordered, append-only log of everything shown in the
// conversation pane. There is no way to edit or remove an entry.
type Transcript struct {
	entries []Entry
	surface Surface
	started bool
}

// New creates an empty transcript that mirrors appends onto surface.
// A nil surface is allowed.
func New(surface Surface) *Transcript {
	return &Transcript{surface: surface}
}

// AppendMessage adds a message entry and scrolls the surface to it.
func (t *Transcript) AppendMessage(sender Sender, text string) Entry {
	return t.append(Entry{Kind: KindMessage, Sender: sender, Text: text})
}

// AppendFeedback adds a read-only feedback block and scrolls the surface to it.
// The report is copied so later changes by the caller are not visible.
func (t *Transcript) AppendFeedback(report tutor.FeedbackReport) Entry {
	r := cloneReport(report)
	return t.append(Entry{Kind: KindFeedback, Sender: SenderAssistant, Feedback: &r})
}

func (t *Transcript) append(e Entry) Entry {
	e.Seq = len(t.entries) + 1
	t.entries = append(t.entries, e)
	if t.surface != nil {
		t.surface.Append(e)
		t.surface.ScrollToBottom()
	}
	return e
}

// Start leaves the empty state. It is idempotent.
func (t *Transcript) Start() {
	t.started = true
}

// IsEmptyState reports whether the pane still shows its "no session yet" placeholder.
func (t *Transcript) IsEmptyState() bool {
	return !t.started
}

// Entries returns a copy of all entries in append order.
func (t *Transcript) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	for i, e := range t.entries {
		if e.Feedback != nil {
			r := cloneReport(*e.Feedback)
			e.Feedback = &r
		}
		out[i] = e
	}
	return out
}

// Len returns the number of entries.
func (t *Transcript) Len() int {
	return len(t.entries)
}

// Last returns the most recent entry, if any.
func (t *Transcript) Last() (Entry, bool) {
	if len(t.entries) == 0 {
		return Entry{}, false
	}
	e := t.entries[len(t.entries)-1]
	if e.Feedback != nil {
		r := cloneReport(*e.Feedback)
		e.Feedback = &r
	}
	return e, true
}

func cloneReport(r tutor.FeedbackReport) tutor.FeedbackReport {
	return tutor.FeedbackReport{
		Corrections:     slices.Clone(r.Corrections),
		Strengths:       slices.Clone(r.Strengths),
		Weaknesses:      slices.Clone(r.Weaknesses),
		Recommendations: slices.Clone(r.Recommendations),
	}
}
