package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/lingua/internal/tutor"
)

func TestClient_StartSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/start-session", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var got tutor.Settings
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.Equal(t, tutor.Settings{Language: "es", Level: "B1", Focus: "travel"}, got)

		_ = json.NewEncoder(w).Encode(tutor.StartResponse{SessionID: "s1", AssistantMessage: "¡Hola!"})
	}))
	defer srv.Close()

	c := New(srv.URL + "/")
	resp, err := c.StartSession(context.Background(), tutor.Settings{Language: "es", Level: "B1", Focus: "travel"})

	require.NoError(t, err)
	assert.Equal(t, "s1", resp.SessionID)
	assert.Equal(t, "¡Hola!", resp.AssistantMessage)
}

func TestClient_Chat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat", r.URL.Path)

		var got map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.Equal(t, map[string]string{"session_id": "s1", "text": "hola"}, got)

		_, _ = w.Write([]byte(`{"assistant_message":"¡Bien!","turn_index":0}`))
	}))
	defer srv.Close()

	resp, err := New(srv.URL).Chat(context.Background(), tutor.ChatRequest{SessionID: "s1", Text: "hola"})

	require.NoError(t, err)
	assert.Equal(t, "¡Bien!", resp.AssistantMessage)
	assert.Equal(t, 0, resp.TurnIndex)
}

func TestClient_FinishSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/finish-session", r.URL.Path)
		_, _ = w.Write([]byte(`{
			"feedback": {
				"corrections": [{"user_text": "soy bien", "corrected_text": "estoy bien", "explanation": "estar"}],
				"strengths": ["Good vocabulary"],
				"weaknesses": [],
				"recommendations": ["Practice accents"]
			},
			"saved": true
		}`))
	}))
	defer srv.Close()

	resp, err := New(srv.URL).FinishSession(context.Background(), tutor.FinishRequest{SessionID: "s1"})

	require.NoError(t, err)
	assert.True(t, resp.Saved)
	require.Len(t, resp.Feedback.Corrections, 1)
	assert.Equal(t, "estoy bien", resp.Feedback.Corrections[0].CorrectedText)
	assert.Equal(t, []string{"Good vocabulary"}, resp.Feedback.Strengths)
	assert.Equal(t, []string{"Practice accents"}, resp.Feedback.Recommendations)
}

func TestClient_NonSuccessStatus(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, `{"assistant_message":"ignored"}`},
		{"not found", http.StatusNotFound, `{"detail":"Session not found"}`},
		{"bad gateway html", http.StatusBadGateway, `<html>oops</html>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			resp, err := New(srv.URL).Chat(context.Background(), tutor.ChatRequest{SessionID: "s1", Text: "x"})

			assert.Nil(t, resp)
			var se *StatusError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, tt.status, se.StatusCode)
			assert.Equal(t, "/chat", se.Path)
		})
	}
}

func TestClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := New(url).StartSession(context.Background(), tutor.Settings{Language: "es", Level: "B1"})
	require.Error(t, err)
}

func TestClient_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	_, err := New(srv.URL).StartSession(context.Background(), tutor.Settings{Language: "es", Level: "B1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode /start-session response")
}

func TestNew_DefaultBaseURL(t *testing.T) {
	assert.Equal(t, DefaultBaseURL, New("").BaseURL())
}
