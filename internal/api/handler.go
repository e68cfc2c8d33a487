// Package api serves the tutoring endpoints over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/abhisek/lingua/internal/llm"
	"github.com/abhisek/lingua/internal/tutor"
)

// maxBodyBytes caps request bodies. Chat turns are short.
const maxBodyBytes = 64 << 10

// Tutor is the service behind the endpoints.
type Tutor interface {
	StartSession(ctx context.Context, settings tutor.Settings) (*tutor.StartResponse, error)
	Chat(ctx context.Context, req tutor.ChatRequest) (*tutor.ChatResponse, error)
	FinishSession(ctx context.Context, req tutor.FinishRequest) (*tutor.FinishResponse, error)
}

// Handler serves start-session, chat and finish-session.
type Handler struct {
	tutor Tutor
	log   zerolog.Logger
}

// NewHandler creates a Handler.
func NewHandler(t Tutor, log zerolog.Logger) *Handler {
	return &Handler{tutor: t, log: log}
}

// RegisterRoutes registers the session routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/start-session", h.StartSession)
	r.Post("/chat", h.Chat)
	r.Post("/finish-session", h.FinishSession)
}

// StartSession handles POST /start-session.
func (h *Handler) StartSession(w http.ResponseWriter, r *http.Request) {
	var req tutor.Settings
	if !decode(w, r, &req) {
		return
	}
	resp, err := h.tutor.StartSession(r.Context(), req)
	if err != nil {
		h.fail(w, r, "start-session", err)
		return
	}
	JSON(w, http.StatusOK, resp)
}

// Chat handles POST /chat.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req tutor.ChatRequest
	if !decode(w, r, &req) {
		return
	}
	resp, err := h.tutor.Chat(r.Context(), req)
	if err != nil {
		h.fail(w, r, "chat", err)
		return
	}
	JSON(w, http.StatusOK, resp)
}

// FinishSession handles POST /finish-session.
func (h *Handler) FinishSession(w http.ResponseWriter, r *http.Request) {
	var req tutor.FinishRequest
	if !decode(w, r, &req) {
		return
	}
	resp, err := h.tutor.FinishSession(r.Context(), req)
	if err != nil {
		h.fail(w, r, "finish-session", err)
		return
	}
	JSON(w, http.StatusOK, resp)
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	status := statusFor(err)
	ev := h.log.Warn()
	if status >= http.StatusInternalServerError {
		ev = h.log.Error()
	}
	ev.Err(err).
		Str("op", op).
		Str("request_id", requestID(r)).
		Int("status", status).
		Msg("request failed")
	Error(w, status, http.StatusText(status))
}

// statusFor maps service and provider errors to HTTP statuses.
func statusFor(err error) int {
	var (
		rateLimit   *llm.ErrRateLimit
		invalid     *llm.ErrInvalidResponse
		truncated   *llm.ErrMaxTokensExceeded
		unavailable *llm.ErrProviderUnavailable
	)
	switch {
	case errors.Is(err, tutor.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, tutor.ErrInvalidSettings), errors.Is(err, tutor.ErrEmptyText):
		return http.StatusBadRequest
	case errors.As(err, &rateLimit):
		return http.StatusTooManyRequests
	case errors.As(err, &invalid), errors.As(err, &truncated), errors.As(err, &unavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// decode reads a JSON body into v, writing a 400 on failure.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}
