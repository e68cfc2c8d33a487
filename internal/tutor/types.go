// Package tutor holds the practice-session wire types and the service that
// answers them with an LLM.
package tutor

// Settings are the learner's choices for a practice session. They are sent
// verbatim as the start-session request body.
type Settings struct {
	// Language is a language code, e.g. "es".
	Language string `json:"language"`

	// Level is a CEFR level label, e.g. "B1".
	Level string `json:"level"`

	// Focus is what the conversation should practice, e.g. "past tense".
	Focus string `json:"focus,omitempty"`

	// Context is the role-play setting, e.g. "at a hotel".
	Context string `json:"context,omitempty"`
}

// StartResponse is the start-session success body.
type StartResponse struct {
	SessionID        string `json:"session_id"`
	AssistantMessage string `json:"assistant_message"`
}

// ChatRequest is the chat request body.
type ChatRequest struct {
	SessionID string `json:"session_id"`
	Text      string `json:"text"`
}

// ChatResponse is the chat success body.
type ChatResponse struct {
	AssistantMessage string `json:"assistant_message"`
	TurnIndex        int    `json:"turn_index"`
}

// FinishRequest is the finish-session request body.
type FinishRequest struct {
	SessionID string `json:"session_id"`
}

// FinishResponse is the finish-session success body.
type FinishResponse struct {
	Feedback FeedbackReport `json:"feedback"`
	Saved    bool           `json:"saved"`
}

// FeedbackReport is the end-of-session assessment. Any list may be empty.
type FeedbackReport struct {
	Corrections     []Correction `json:"corrections"`
	Strengths       []string     `json:"strengths"`
	Weaknesses      []string     `json:"weaknesses"`
	Recommendations []string     `json:"recommendations"`
}

// Correction pairs something the learner wrote with its corrected form.
type Correction struct {
	TurnIndex     int    `json:"turn_index,omitempty"`
	UserText      string `json:"user_text"`
	CorrectedText string `json:"corrected_text"`
	Explanation   string `json:"explanation"`
}

// Turn is one exchange in the service-side conversation history.
type Turn struct {
	User      string `json:"user"`
	Assistant string `json:"assistant"`
}

// normalize replaces nil lists with empty ones so the report encodes as
// arrays rather than null.
func (r *FeedbackReport) normalize() {
	if r.Corrections == nil {
		r.Corrections = []Correction{}
	}
	if r.Strengths == nil {
		r.Strengths = []string{}
	}
	if r.Weaknesses == nil {
		r.Weaknesses = []string{}
	}
	if r.Recommendations == nil {
		r.Recommendations = []string{}
	}
}
