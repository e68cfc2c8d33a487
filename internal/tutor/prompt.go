package tutor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/abhisek/lingua/internal/llm"
)

// OpeningPrompt is the first user turn of every session. It is kept in the
// history so feedback sees the same conversation the model did.
const OpeningPrompt = "Start the conversation."

func buildConversationSystemPrompt(s Settings) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are having a casual conversation in %s at CEFR level %s.\n\n", languageName(s.Language), s.Level)
	fmt.Fprintf(&b, "**Setting:** %s\n", orUnspecified(s.Context))
	fmt.Fprintf(&b, "**Conversation focus:** %s\n", orUnspecified(s.Focus))

	b.WriteString(`
Speak naturally as a person in this situation would.
Keep responses concise (1-2 sentences typically).
Use simple language appropriate for the user's level.
Ask relevant follow-up questions to continue the conversation naturally.
Do not provide explanations, teaching comments, or suggestions in parentheses - just respond as your character would.`)

	return b.String()
}

// conversationMessages replays history as alternating turns and ends with text.
func conversationMessages(history []Turn, text string) []llm.Message {
	msgs := make([]llm.Message, 0, len(history)*2+1)
	for _, t := range history {
		msgs = append(msgs,
			llm.Message{Role: llm.RoleUser, Content: t.User},
			llm.Message{Role: llm.RoleAssistant, Content: t.Assistant},
		)
	}
	return append(msgs, llm.Message{Role: llm.RoleUser, Content: text})
}

func buildFeedbackSystemPrompt(s Settings) string {
	return fmt.Sprintf("You are a friendly and encouraging %s teacher. "+
		"The user has just finished a conversation at CEFR level %s. Setting: %s. Conversation focus: %s.",
		languageName(s.Language), s.Level, orUnspecified(s.Context), orUnspecified(s.Focus))
}

func buildFeedbackUserMessage(history []Turn) (string, error) {
	conv, err := marshalTurns(history)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(`Analyze the provided conversation and return a single JSON object with feedback.
The JSON object must contain four keys: "corrections", "strengths", "weaknesses", and "recommendations".
- "corrections" should be a list of objects, where each object has "turn_index", "user_text", "corrected_text", and "explanation".
- "strengths", "weaknesses", and "recommendations" should be lists of strings.

Guidelines for feedback:
1. Corrections: List only the most important errors. Do not correct every missing punctuation unless it affects meaning. Focus on errors in vocabulary, grammar, and sentence structure.
2. Strengths: Mention 2-3 things the user did well, such as using new vocabulary, correct grammar structures, or natural expressions.
3. Weaknesses: Point out 2-3 areas for improvement, focusing on recurring errors or important aspects for their level. Be constructive and encouraging.
4. Recommendations: Provide 2-3 specific, actionable recommendations for improvement. Avoid vague advice.

Do not include any text or formatting outside of the JSON object itself.

Conversation:
`)
	b.Write(conv)
	return b.String(), nil
}

// marshalTurns encodes history without HTML escaping so learner text reaches
// the model and the store unchanged.
func marshalTurns(history []Turn) ([]byte, error) {
	if history == nil {
		history = []Turn{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(history); err != nil {
		return nil, fmt.Errorf("encode history: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func orUnspecified(s string) string {
	if strings.TrimSpace(s) == "" {
		return "not specified"
	}
	return s
}

// languageName turns a code such as "es" into "Spanish". Anything that does
// not parse as a language tag is assumed to be a name already.
func languageName(code string) string {
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	if name := display.English.Languages().Name(tag); name != "" {
		return name
	}
	return code
}
