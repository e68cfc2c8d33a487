package tutor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/abhisek/lingua/internal/llm"
	"github.com/abhisek/lingua/internal/store"
)

var (
	// ErrSessionNotFound is returned for an unknown or finished session id.
	ErrSessionNotFound = errors.New("session not found")

	// ErrInvalidSettings is returned when language or level is missing.
	ErrInvalidSettings = errors.New("language and level are required")

	// ErrEmptyText is returned for a chat turn with no text.
	ErrEmptyText = errors.New("text is required")
)

// conversation is the server-side state of one practice session.
type conversation struct {
	id       string
	created  time.Time
	settings Settings
	history  []Turn
}

// Service runs practice conversations against an LLM provider and saves
// them when they finish. It is safe for concurrent use.
type Service struct {
	provider llm.Provider
	repo     store.ConversationRepo
	cfg      Config
	log      zerolog.Logger

	now   func() time.Time
	newID func() string

	mu       sync.Mutex
	sessions map[string]*conversation
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Service) { s.log = l }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a tutoring service. repo may be nil, in which case
// finished conversations are not saved.
func NewService(provider llm.Provider, repo store.ConversationRepo, cfg Config, opts ...Option) *Service {
	s := &Service{
		provider: provider,
		repo:     repo,
		cfg:      cfg,
		log:      zerolog.Nop(),
		now:      time.Now,
		newID:    uuid.NewString,
		sessions: make(map[string]*conversation),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// ActiveSessions returns the number of sessions not yet finished.
func (s *Service) ActiveSessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// StartSession creates a session and generates the tutor's opening line.
func (s *Service) StartSession(ctx context.Context, settings Settings) (*StartResponse, error) {
	settings.Language = strings.TrimSpace(settings.Language)
	settings.Level = strings.TrimSpace(settings.Level)
	if settings.Language == "" || settings.Level == "" {
		return nil, ErrInvalidSettings
	}

	reply, err := s.reply(ctx, settings, nil, OpeningPrompt)
	if err != nil {
		return nil, fmt.Errorf("opening line: %w", err)
	}

	c := &conversation{
		id:       s.newID(),
		created:  s.now().UTC(),
		settings: settings,
		history:  []Turn{{User: OpeningPrompt, Assistant: reply}},
	}

	s.mu.Lock()
	s.sessions[c.id] = c
	s.mu.Unlock()

	s.log.Info().
		Str("session_id", c.id).
		Str("language", settings.Language).
		Str("level", settings.Level).
		Msg("session started")

	return &StartResponse{SessionID: c.id, AssistantMessage: reply}, nil
}

// Chat adds one learner turn and returns the tutor's reply. TurnIndex counts
// the opening exchange, so the first learner turn is 2.
func (s *Service) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, ErrEmptyText
	}

	settings, history, err := s.snapshot(req.SessionID)
	if err != nil {
		return nil, err
	}

	reply, err := s.reply(ctx, settings, history, text)
	if err != nil {
		return nil, fmt.Errorf("chat reply: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.sessions[req.SessionID]
	if !ok {
		// Finished while the reply was being generated.
		return nil, ErrSessionNotFound
	}
	c.history = append(c.history, Turn{User: text, Assistant: reply})

	return &ChatResponse{AssistantMessage: reply, TurnIndex: len(c.history)}, nil
}

// FinishSession generates feedback, saves the conversation and drops the
// session. A failed feedback request leaves the session open so the caller
// can try again. A failed save is logged and reported as Saved false.
func (s *Service) FinishSession(ctx context.Context, req FinishRequest) (*FinishResponse, error) {
	settings, history, err := s.snapshot(req.SessionID)
	if err != nil {
		return nil, err
	}

	report, err := s.feedback(ctx, settings, history)
	if err != nil {
		return nil, fmt.Errorf("session feedback: %w", err)
	}

	s.mu.Lock()
	c, ok := s.sessions[req.SessionID]
	if ok {
		delete(s.sessions, req.SessionID)
		// Include turns that landed while feedback was generated.
		history = c.history
	}
	s.mu.Unlock()
	if !ok {
		return nil, ErrSessionNotFound
	}

	saved := s.save(ctx, c, history, report)

	s.log.Info().
		Str("session_id", c.id).
		Int("turns", len(history)).
		Int("corrections", len(report.Corrections)).
		Bool("saved", saved).
		Msg("session finished")

	return &FinishResponse{Feedback: *report, Saved: saved}, nil
}

// snapshot copies the settings and history of a live session.
func (s *Service) snapshot(id string) (Settings, []Turn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.sessions[id]
	if !ok {
		return Settings{}, nil, ErrSessionNotFound
	}
	history := make([]Turn, len(c.history))
	copy(history, c.history)
	return c.settings, history, nil
}

func (s *Service) reply(ctx context.Context, settings Settings, history []Turn, text string) (string, error) {
	ctx = llm.WithPurpose(ctx, "conversation")

	resp, err := s.provider.Generate(ctx, llm.Request{
		System:      buildConversationSystemPrompt(settings),
		Messages:    conversationMessages(history, text),
		MaxTokens:   s.cfg.ReplyMaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return "", err
	}

	reply := strings.TrimSpace(resp.Text)
	if reply == "" {
		return "", &llm.ErrInvalidResponse{Content: resp.Text, Err: errors.New("empty reply")}
	}
	return reply, nil
}

func (s *Service) feedback(ctx context.Context, settings Settings, history []Turn) (*FeedbackReport, error) {
	ctx = llm.WithPurpose(ctx, "feedback")

	msg, err := buildFeedbackUserMessage(history)
	if err != nil {
		return nil, err
	}

	resp, err := s.provider.Generate(ctx, llm.Request{
		System:    buildFeedbackSystemPrompt(settings),
		Messages:  []llm.Message{{Role: llm.RoleUser, Content: msg}},
		Schema:    FeedbackSchema,
		MaxTokens: s.cfg.FeedbackMaxTokens,
	})
	if err != nil {
		return nil, err
	}

	var report FeedbackReport
	if err := json.Unmarshal(resp.JSON, &report); err != nil {
		return nil, fmt.Errorf("parse feedback response: %w", err)
	}
	report.normalize()
	return &report, nil
}

func (s *Service) save(ctx context.Context, c *conversation, history []Turn, report *FeedbackReport) bool {
	if s.repo == nil {
		return false
	}

	turns, err := marshalTurns(history)
	if err != nil {
		s.log.Warn().Err(err).Str("session_id", c.id).Msg("failed to encode conversation")
		return false
	}
	fb, err := json.Marshal(report)
	if err != nil {
		s.log.Warn().Err(err).Str("session_id", c.id).Msg("failed to encode feedback")
		return false
	}

	err = s.repo.Save(ctx, &store.Conversation{
		ID:       c.id,
		Created:  c.created,
		Language: c.settings.Language,
		Level:    c.settings.Level,
		Focus:    c.settings.Focus,
		Context:  c.settings.Context,
		Turns:    turns,
		Feedback: fb,
	})
	if err != nil {
		s.log.Warn().Err(err).Str("session_id", c.id).Msg("failed to save conversation")
		return false
	}
	return true
}
