package tutor

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/abhisek/lingua/internal/llm"
	"github.com/abhisek/lingua/internal/store"
)

const feedbackJSON = "```json\n" + `{
	"corrections": [
		{"turn_index": 2, "user_text": "Yo es Ana", "corrected_text": "Yo soy Ana", "explanation": "Use soy with yo."}
	],
	"strengths": ["Good greetings"],
	"weaknesses": ["Verb agreement"],
	"recommendations": ["Practice ser conjugation"]
}` + "\n```"

func testSettings() Settings {
	return Settings{Language: "es", Level: "B1", Focus: "introductions", Context: "at a cafe"}
}

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func TestService_StartSession(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Text: "  ¡Hola! ¿Qué vas a tomar?  "})
	svc := NewService(mock, nil, DefaultConfig())

	resp, err := svc.StartSession(context.Background(), testSettings())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.SessionID == "" {
		t.Fatal("expected a session id")
	}
	if resp.AssistantMessage != "¡Hola! ¿Qué vas a tomar?" {
		t.Errorf("assistant message = %q", resp.AssistantMessage)
	}
	if svc.ActiveSessions() != 1 {
		t.Errorf("active sessions = %d, want 1", svc.ActiveSessions())
	}

	req := mock.Calls()[0]
	if !strings.Contains(req.System, "conversation in Spanish at CEFR level B1") {
		t.Errorf("system prompt = %q", req.System)
	}
	if !strings.Contains(req.System, "**Setting:** at a cafe") {
		t.Errorf("system prompt missing setting: %q", req.System)
	}
	if len(req.Messages) != 1 || req.Messages[0].Content != OpeningPrompt {
		t.Errorf("messages = %+v", req.Messages)
	}
	if req.Temperature != 0.5 || req.Schema != nil {
		t.Errorf("request = %+v", req)
	}
}

func TestService_StartSessionValidation(t *testing.T) {
	mock := llm.NewMockProvider()
	svc := NewService(mock, nil, DefaultConfig())

	_, err := svc.StartSession(context.Background(), Settings{Language: "es"})
	if !errors.Is(err, ErrInvalidSettings) {
		t.Fatalf("expected ErrInvalidSettings, got: %v", err)
	}
	if mock.CallCount() != 0 {
		t.Errorf("provider called %d times", mock.CallCount())
	}
}

func TestService_StartSessionProviderError(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrProviderUnavailable{}})
	svc := NewService(mock, nil, DefaultConfig())

	_, err := svc.StartSession(context.Background(), testSettings())
	var unavail *llm.ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got: %v", err)
	}
	if svc.ActiveSessions() != 0 {
		t.Errorf("failed start left %d sessions", svc.ActiveSessions())
	}
}

func TestService_StartSessionEmptyReply(t *testing.T) {
	svc := NewService(llm.NewMockProvider(llm.MockResponse{Text: "   "}), nil, DefaultConfig())

	_, err := svc.StartSession(context.Background(), testSettings())
	var inv *llm.ErrInvalidResponse
	if !errors.As(err, &inv) {
		t.Fatalf("expected ErrInvalidResponse, got: %v", err)
	}
}

func TestService_ChatReplaysHistory(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Text: "¡Hola!"},
		llm.MockResponse{Text: "Mucho gusto, Ana."},
		llm.MockResponse{Text: "¿Y qué quieres beber?"},
	)
	svc := NewService(mock, nil, DefaultConfig())

	start, err := svc.StartSession(context.Background(), testSettings())
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	resp, err := svc.Chat(context.Background(), ChatRequest{SessionID: start.SessionID, Text: " Yo es Ana "})
	if err != nil {
		t.Fatalf("chat: %v", err)
	}
	if resp.AssistantMessage != "Mucho gusto, Ana." || resp.TurnIndex != 2 {
		t.Errorf("resp = %+v", resp)
	}

	resp, err = svc.Chat(context.Background(), ChatRequest{SessionID: start.SessionID, Text: "Un café"})
	if err != nil {
		t.Fatalf("chat: %v", err)
	}
	if resp.TurnIndex != 3 {
		t.Errorf("turn index = %d, want 3", resp.TurnIndex)
	}

	last := mock.Calls()[2]
	want := []string{OpeningPrompt, "¡Hola!", "Yo es Ana", "Mucho gusto, Ana.", "Un café"}
	if len(last.Messages) != len(want) {
		t.Fatalf("messages = %+v", last.Messages)
	}
	for i, m := range last.Messages {
		if m.Content != want[i] {
			t.Errorf("message %d = %q, want %q", i, m.Content, want[i])
		}
		wantRole := llm.RoleUser
		if i%2 == 1 {
			wantRole = llm.RoleAssistant
		}
		if m.Role != wantRole {
			t.Errorf("message %d role = %s, want %s", i, m.Role, wantRole)
		}
	}
}

func TestService_ChatErrors(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Text: "¡Hola!"},
		llm.MockResponse{Err: &llm.ErrRateLimit{}},
		llm.MockResponse{Text: "¿Qué tal?"},
	)
	svc := NewService(mock, nil, DefaultConfig())
	start, err := svc.StartSession(context.Background(), testSettings())
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	if _, err := svc.Chat(context.Background(), ChatRequest{SessionID: "nope", Text: "hola"}); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("unknown session: got %v", err)
	}
	if _, err := svc.Chat(context.Background(), ChatRequest{SessionID: start.SessionID, Text: "  "}); !errors.Is(err, ErrEmptyText) {
		t.Errorf("empty text: got %v", err)
	}

	var rl *llm.ErrRateLimit
	if _, err := svc.Chat(context.Background(), ChatRequest{SessionID: start.SessionID, Text: "hola"}); !errors.As(err, &rl) {
		t.Errorf("provider error: got %v", err)
	}

	// The failed turn is not recorded.
	resp, err := svc.Chat(context.Background(), ChatRequest{SessionID: start.SessionID, Text: "hola"})
	if err != nil {
		t.Fatalf("chat: %v", err)
	}
	if resp.TurnIndex != 2 {
		t.Errorf("turn index = %d, want 2", resp.TurnIndex)
	}
}

func TestService_FinishSessionSaves(t *testing.T) {
	st := openTestStore(t)
	created := time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC)

	mock := llm.NewMockProvider(
		llm.MockResponse{Text: "¡Hola!"},
		llm.MockResponse{Text: "Mucho gusto."},
		llm.MockResponse{Text: feedbackJSON},
	)
	svc := NewService(mock, st.ConversationRepo(), DefaultConfig(),
		WithClock(func() time.Time { return created }))

	start, err := svc.StartSession(context.Background(), testSettings())
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := svc.Chat(context.Background(), ChatRequest{SessionID: start.SessionID, Text: "Yo es Ana"}); err != nil {
		t.Fatalf("chat: %v", err)
	}

	resp, err := svc.FinishSession(context.Background(), FinishRequest{SessionID: start.SessionID})
	if err != nil {
		t.Fatalf("finish: %v", err)
	}
	if !resp.Saved {
		t.Error("expected saved")
	}
	fb := resp.Feedback
	if len(fb.Corrections) != 1 || fb.Corrections[0].CorrectedText != "Yo soy Ana" || fb.Corrections[0].TurnIndex != 2 {
		t.Errorf("corrections = %+v", fb.Corrections)
	}
	if len(fb.Strengths) != 1 || len(fb.Weaknesses) != 1 || len(fb.Recommendations) != 1 {
		t.Errorf("feedback = %+v", fb)
	}
	if svc.ActiveSessions() != 0 {
		t.Errorf("active sessions = %d, want 0", svc.ActiveSessions())
	}

	req := mock.Calls()[2]
	if req.Schema != FeedbackSchema {
		t.Error("feedback request should carry the feedback schema")
	}
	if !strings.Contains(req.System, "friendly and encouraging Spanish teacher") {
		t.Errorf("system prompt = %q", req.System)
	}
	if !strings.Contains(req.Messages[0].Content, `{"user":"Yo es Ana","assistant":"Mucho gusto."}`) {
		t.Errorf("feedback prompt missing history: %q", req.Messages[0].Content)
	}

	saved, err := st.ConversationRepo().Get(context.Background(), start.SessionID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if saved == nil {
		t.Fatal("conversation not saved")
	}
	if saved.Language != "es" || saved.Level != "B1" || saved.Focus != "introductions" || saved.Context != "at a cafe" {
		t.Errorf("saved = %+v", saved)
	}
	if !saved.Created.Equal(created) {
		t.Errorf("created = %v, want %v", saved.Created, created)
	}

	var turns []Turn
	if err := json.Unmarshal(saved.Turns, &turns); err != nil {
		t.Fatalf("decode turns: %v", err)
	}
	if len(turns) != 2 || turns[0].User != OpeningPrompt || turns[1].Assistant != "Mucho gusto." {
		t.Errorf("turns = %+v", turns)
	}

	var savedFeedback FeedbackReport
	if err := json.Unmarshal(saved.Feedback, &savedFeedback); err != nil {
		t.Fatalf("decode feedback: %v", err)
	}
	if len(savedFeedback.Corrections) != 1 {
		t.Errorf("saved feedback = %+v", savedFeedback)
	}

	if _, err := svc.Chat(context.Background(), ChatRequest{SessionID: start.SessionID, Text: "hola"}); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("chat after finish: got %v", err)
	}
}

func TestService_FinishSessionEmptyFeedbackLists(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Text: "¡Hola!"},
		llm.MockResponse{Text: `{"corrections":[],"strengths":[],"weaknesses":[],"recommendations":[]}`},
	)
	svc := NewService(mock, nil, DefaultConfig())
	start, err := svc.StartSession(context.Background(), testSettings())
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	resp, err := svc.FinishSession(context.Background(), FinishRequest{SessionID: start.SessionID})
	if err != nil {
		t.Fatalf("finish: %v", err)
	}
	if resp.Saved {
		t.Error("nothing to save to, expected saved false")
	}

	out, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(out), "null") {
		t.Errorf("empty lists should encode as arrays: %s", out)
	}
}

func TestService_FinishSessionInvalidFeedbackKeepsSession(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Text: "¡Hola!"},
		llm.MockResponse{Text: "Great job overall!"},
		llm.MockResponse{Text: `{"corrections":[],"strengths":[],"weaknesses":[],"recommendations":[]}`},
	)
	svc := NewService(mock, nil, DefaultConfig())
	start, err := svc.StartSession(context.Background(), testSettings())
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	_, err = svc.FinishSession(context.Background(), FinishRequest{SessionID: start.SessionID})
	var inv *llm.ErrInvalidResponse
	if !errors.As(err, &inv) {
		t.Fatalf("expected ErrInvalidResponse, got: %v", err)
	}
	if svc.ActiveSessions() != 1 {
		t.Fatalf("session should stay open after a failed finish")
	}

	if _, err := svc.FinishSession(context.Background(), FinishRequest{SessionID: start.SessionID}); err != nil {
		t.Fatalf("retry finish: %v", err)
	}
}

func TestService_FinishUnknownSession(t *testing.T) {
	svc := NewService(llm.NewMockProvider(), nil, DefaultConfig())

	_, err := svc.FinishSession(context.Background(), FinishRequest{SessionID: "missing"})
	if !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got: %v", err)
	}
}

func TestLanguageName(t *testing.T) {
	tests := map[string]string{
		"es":      "Spanish",
		"fr":      "French",
		"Spanish": "Spanish",
		"":        "",
	}
	for in, want := range tests {
		if got := languageName(in); got != want {
			t.Errorf("languageName(%q) = %q, want %q", in, got, want)
		}
	}
}
