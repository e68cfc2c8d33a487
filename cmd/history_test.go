package cmd

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/lingua/internal/store"
	"github.com/abhisek/lingua/internal/transcript"
	"github.com/abhisek/lingua/internal/tutor"
)

func savedConversation(t *testing.T, turns []tutor.Turn, report tutor.FeedbackReport) *store.Conversation {
	t.Helper()
	tj, err := json.Marshal(turns)
	require.NoError(t, err)
	fj, err := json.Marshal(report)
	require.NoError(t, err)
	return &store.Conversation{ID: "c1", Language: "es", Level: "B1", Turns: tj, Feedback: fj}
}

func TestConversationEntries(t *testing.T) {
	c := savedConversation(t,
		[]tutor.Turn{
			{User: tutor.OpeningPrompt, Assistant: "¡Hola!"},
			{User: "Yo es Ana", Assistant: "Mucho gusto."},
		},
		tutor.FeedbackReport{Corrections: []tutor.Correction{{UserText: "Yo es Ana", CorrectedText: "Yo soy Ana"}}},
	)

	entries, err := conversationEntries(c)
	require.NoError(t, err)
	require.Len(t, entries, 4)

	assert.Equal(t, transcript.SenderAssistant, entries[0].Sender)
	assert.Equal(t, "¡Hola!", entries[0].Text)
	assert.Equal(t, transcript.SenderUser, entries[1].Sender)
	assert.Equal(t, "Yo es Ana", entries[1].Text)
	assert.Equal(t, "Mucho gusto.", entries[2].Text)
	assert.Equal(t, transcript.KindFeedback, entries[3].Kind)
	require.NotNil(t, entries[3].Feedback)
	assert.Equal(t, "Yo soy Ana", entries[3].Feedback.Corrections[0].CorrectedText)

	for i, e := range entries {
		assert.Equal(t, i+1, e.Seq)
	}
}

func TestConversationEntriesKeepsOtherFirstTurns(t *testing.T) {
	c := savedConversation(t, []tutor.Turn{{User: "Hola", Assistant: "¡Hola!"}}, tutor.FeedbackReport{})

	entries, err := conversationEntries(c)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "Hola", entries[0].Text)
}

func TestConversationEntriesBadJSON(t *testing.T) {
	c := &store.Conversation{ID: "bad", Turns: json.RawMessage(`{`), Feedback: json.RawMessage(`{}`)}
	_, err := conversationEntries(c)
	assert.Error(t, err)
}

func TestEventCost(t *testing.T) {
	known := store.LLMEvent{LLMRequestEventData: store.LLMRequestEventData{
		Model: "gpt-4o-mini", InputTokens: 1_000_000, OutputTokens: 0,
	}}
	assert.Equal(t, "$0.15", eventCost(known))

	unknown := store.LLMEvent{LLMRequestEventData: store.LLMRequestEventData{Model: "mystery-model"}}
	assert.Equal(t, "?", eventCost(unknown))
}

func TestFormatCost(t *testing.T) {
	assert.Equal(t, "$0.0012", formatCost(0.0012))
	assert.Equal(t, "$1.50", formatCost(1.5))
}
