package app

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"

	"github.com/abhisek/lingua/internal/router"
	"github.com/abhisek/lingua/internal/screens/practice"
	"github.com/abhisek/lingua/internal/screens/settings"
	"github.com/abhisek/lingua/internal/transcript"
	"github.com/abhisek/lingua/internal/tutor"
)

type fakeTutor struct{}

func (fakeTutor) StartSession(context.Context, tutor.Settings) (*tutor.StartResponse, error) {
	return &tutor.StartResponse{SessionID: "s1", AssistantMessage: "Bonjour !"}, nil
}

func (fakeTutor) Chat(context.Context, tutor.ChatRequest) (*tutor.ChatResponse, error) {
	return &tutor.ChatResponse{AssistantMessage: "Très bien.", TurnIndex: 2}, nil
}

func (fakeTutor) FinishSession(context.Context, tutor.FinishRequest) (*tutor.FinishResponse, error) {
	return &tutor.FinishResponse{Saved: true}, nil
}

func newTestModel(t *testing.T, noSplash bool) AppModel {
	t.Helper()
	return newAppModel(context.Background(), Options{
		Collaborator: fakeTutor{},
		Logger:       zerolog.Nop(),
		NoSplash:     noSplash,
	})
}

func update(m AppModel, msg tea.Msg) (AppModel, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(AppModel), cmd
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func TestSplashReplacedByPractice(t *testing.T) {
	m := newTestModel(t, false)
	if m.router.Active() == m.practice {
		t.Fatal("expected the splash first")
	}

	m, cmd := update(m, keyPress('x'))
	if cmd == nil {
		t.Fatal("expected a transition command")
	}
	m, _ = update(m, cmd())
	if m.router.Active() != m.practice {
		t.Errorf("active screen = %q, want practice", m.router.Active().Title())
	}
	if m.router.Depth() != 1 {
		t.Errorf("depth = %d, want 1", m.router.Depth())
	}
}

func TestCallResultReachesPracticeUnderSettings(t *testing.T) {
	m := newTestModel(t, true)
	ctrl := m.practice.Controller()

	// Start a session; the call is the only command.
	m, cmd := update(m, settings.SubmitMsg{Settings: tutor.Settings{Language: "fr", Level: "A2"}})
	m, _ = update(m, cmd())
	if !ctrl.Session().Active {
		t.Fatal("expected an active session")
	}

	for _, r := range "Salut" {
		m, _ = update(m, keyPress(r))
	}
	m, chatCmd := update(m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if chatCmd == nil {
		t.Fatal("expected a chat call")
	}

	// Open the settings form while the reply is in flight.
	m, cmd = update(m, tea.KeyPressMsg{Code: 'n', Mod: tea.ModCtrl})
	m, _ = update(m, cmd())
	if m.router.Depth() != 2 {
		t.Fatalf("depth = %d, want settings on top", m.router.Depth())
	}

	msg := chatCmd()
	if _, ok := msg.(practice.CallDoneMsg); !ok {
		t.Fatalf("expected CallDoneMsg, got %T", msg)
	}
	m, _ = update(m, msg)

	last, _ := ctrl.Transcript().Last()
	if last.Sender != transcript.SenderAssistant || last.Text != "Très bien." {
		t.Errorf("last entry = %+v", last)
	}
	if ctrl.Pending() != 0 {
		t.Errorf("pending = %d, want 0", ctrl.Pending())
	}
	if m.router.Depth() != 2 {
		t.Error("settings should still be open")
	}
}

func TestEscPopsSettings(t *testing.T) {
	m := newTestModel(t, true)

	m, cmd := update(m, tea.KeyPressMsg{Code: 'n', Mod: tea.ModCtrl})
	m, _ = update(m, cmd())
	if m.router.Depth() != 2 {
		t.Fatalf("depth = %d", m.router.Depth())
	}

	m, cmd = update(m, tea.KeyPressMsg{Code: tea.KeyEscape})
	msg := cmd()
	if _, ok := msg.(router.PopScreenMsg); !ok {
		t.Fatalf("expected PopScreenMsg, got %T", msg)
	}
	m, _ = update(m, msg)
	if m.router.Depth() != 1 {
		t.Errorf("depth = %d, want 1", m.router.Depth())
	}
}

func TestViewShowsHeader(t *testing.T) {
	m := newTestModel(t, true)
	m, _ = update(m, tea.WindowSizeMsg{Width: 100, Height: 30})

	out := m.render()
	if !strings.Contains(out, "Lingua") || !strings.Contains(out, "Language Practice") {
		t.Errorf("unexpected view:\n%s", out)
	}

	m, _ = update(m, tea.WindowSizeMsg{Width: 40, Height: 10})
	if strings.Contains(m.render(), "Language Practice") {
		t.Error("expected the minimum size message on a tiny terminal")
	}
}

func TestExportTranscript(t *testing.T) {
	m := newTestModel(t, true)
	m, cmd := update(m, settings.SubmitMsg{Settings: tutor.Settings{Language: "fr", Level: "A2"}})
	update(m, cmd())

	path := filepath.Join(t.TempDir(), "out.html")
	if err := exportTranscript(path, m.practice.Controller().Transcript()); err != nil {
		t.Fatalf("export: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(data), "Bonjour !") {
		t.Errorf("export missing opening message:\n%s", data)
	}
}

func TestRunRequiresCollaborator(t *testing.T) {
	if err := Run(context.Background(), Options{}); err == nil {
		t.Error("expected an error without a collaborator")
	}
}
