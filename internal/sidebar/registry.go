package sidebar

import (
	"slices"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// TimeLayout is the clock format shown next to each entry.
const TimeLayout = "15:04"

// Entry summarizes one started session. Entries are written once.
type Entry struct {
	SessionID     string
	Language      string
	LanguageLabel string
	Level         string
	LevelLabel    string
	CreatedAt     time.Time
	DisplayTime   string
}

// Registry is a newest-first list of session summaries. It only grows.
type Registry struct {
	entries []Entry
	now     func() time.Time
}

// New creates an empty registry using the wall clock.
func New() *Registry {
	return NewWithClock(time.Now)
}

// NewWithClock creates an empty registry with an injected clock.
func NewWithClock(now func() time.Time) *Registry {
	return &Registry{now: now}
}

// AddEntry prepends a summary for a newly started session.
func (r *Registry) AddEntry(sessionID, lang, level string) Entry {
	created := r.now()
	e := Entry{
		SessionID:     sessionID,
		Language:      lang,
		LanguageLabel: LanguageLabel(lang),
		Level:         level,
		LevelLabel:    LevelLabel(level),
		CreatedAt:     created,
		DisplayTime:   created.Local().Format(TimeLayout),
	}
	r.entries = slices.Insert(r.entries, 0, e)
	return e
}

// Entries returns a newest-first copy of the list.
func (r *Registry) Entries() []Entry {
	return slices.Clone(r.entries)
}

// Len returns the number of entries.
func (r *Registry) Len() int {
	return len(r.entries)
}

// LanguageLabel returns the English name for a language code such as "es".
// Codes that are not recognized are returned unchanged.
func LanguageLabel(code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return code
	}
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	name := display.English.Tags().Name(tag)
	if name == "" {
		return code
	}
	return name
}

// LevelLabel returns the display label for a CEFR level.
func LevelLabel(level string) string {
	level = strings.TrimSpace(level)
	if level == "" {
		return "Level ?"
	}
	return "Level " + level
}
