package store

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"entgo.io/ent"

	"github.com/abhisek/lingua/ent/schema"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)

	for _, table := range []string{"conversations", "llm_events"} {
		var name string
		err := s.DB().QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Fatalf("query sqlite_master for %s: %v", table, err)
		}
	}
}

func TestMigrationMatchesEntSchema(t *testing.T) {
	s := openTestStore(t)

	fieldNames := func(fields []ent.Field) []string {
		var names []string
		for _, f := range fields {
			names = append(names, f.Descriptor().Name)
		}
		return names
	}

	tests := []struct {
		table string
		want  []string
	}{
		{"conversations", fieldNames(schema.Conversation{}.Fields())},
		// ent adds the integer id implicitly.
		{"llm_events", append([]string{"id"}, fieldNames(schema.LLMRequestEvent{}.Fields())...)},
	}

	for _, tt := range tests {
		t.Run(tt.table, func(t *testing.T) {
			rows, err := s.DB().Query("SELECT name FROM pragma_table_info(?) ORDER BY cid", tt.table)
			if err != nil {
				t.Fatalf("table info: %v", err)
			}
			defer rows.Close()

			var got []string
			for rows.Next() {
				var name string
				if err := rows.Scan(&name); err != nil {
					t.Fatalf("scan: %v", err)
				}
				got = append(got, name)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("columns = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOpenTwiceIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "twice.db")
	for i := 0; i < 2; i++ {
		s, err := Open(path)
		if err != nil {
			t.Fatalf("open %d: %v", i, err)
		}
		s.Close()
	}
}

func TestConversationSaveAndGet(t *testing.T) {
	s := openTestStore(t)
	repo := s.ConversationRepo()
	ctx := context.Background()

	created := time.Date(2026, 10, 19, 14, 30, 0, 0, time.UTC)
	in := &Conversation{
		ID:       "s1",
		Created:  created,
		Language: "es",
		Level:    "B1",
		Focus:    "travel",
		Context:  "at a hotel",
		Turns:    json.RawMessage(`[{"user":"Start the conversation.","assistant":"¡Hola!"}]`),
		Feedback: json.RawMessage(`{"corrections":[],"strengths":["Good vocabulary"]}`),
	}
	if err := repo.Save(ctx, in); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := repo.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatal("expected conversation")
	}
	if !got.Created.Equal(created) {
		t.Errorf("created = %v, want %v", got.Created, created)
	}
	if got.Language != "es" || got.Level != "B1" || got.Focus != "travel" || got.Context != "at a hotel" {
		t.Errorf("settings not round-tripped: %+v", got)
	}
	if string(got.Turns) != string(in.Turns) {
		t.Errorf("turns = %s", got.Turns)
	}
	if string(got.Feedback) != string(in.Feedback) {
		t.Errorf("feedback = %s", got.Feedback)
	}
}

func TestConversationGetMissing(t *testing.T) {
	s := openTestStore(t)

	got, err := s.ConversationRepo().Get(context.Background(), "nope")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil, got %+v", got)
	}
}

func TestConversationDuplicateIDFails(t *testing.T) {
	s := openTestStore(t)
	repo := s.ConversationRepo()
	ctx := context.Background()

	c := &Conversation{ID: "dup", Created: time.Now()}
	if err := repo.Save(ctx, c); err != nil {
		t.Fatalf("first save: %v", err)
	}
	if err := repo.Save(ctx, c); err == nil {
		t.Fatal("expected error saving duplicate id")
	}
}

func TestConversationListNewestFirst(t *testing.T) {
	s := openTestStore(t)
	repo := s.ConversationRepo()
	ctx := context.Background()

	base := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		err := repo.Save(ctx, &Conversation{
			ID:      fmt.Sprintf("s%d", i),
			Created: base.Add(time.Duration(i) * time.Hour),
		})
		if err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}

	all, err := repo.List(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("len = %d, want 4", len(all))
	}
	if all[0].ID != "s3" || all[3].ID != "s0" {
		t.Errorf("order = %s..%s, want s3..s0", all[0].ID, all[3].ID)
	}

	limited, err := repo.List(ctx, QueryOpts{Limit: 2, From: base.Add(time.Hour)})
	if err != nil {
		t.Fatalf("list limited: %v", err)
	}
	if len(limited) != 2 || limited[0].ID != "s3" || limited[1].ID != "s2" {
		t.Errorf("limited = %+v", limited)
	}
}

func TestConversationDeleteAll(t *testing.T) {
	s := openTestStore(t)
	repo := s.ConversationRepo()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := repo.Save(ctx, &Conversation{ID: fmt.Sprintf("s%d", i), Created: time.Now()}); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	n, err := repo.DeleteAll(ctx)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if n != 3 {
		t.Errorf("deleted = %d, want 3", n)
	}
	all, _ := repo.List(ctx, QueryOpts{})
	if len(all) != 0 {
		t.Errorf("remaining = %d, want 0", len(all))
	}
}

func TestLLMEventAppendAndQuery(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	events := []LLMRequestEventData{
		{Provider: "openrouter", Model: "m1", Purpose: "conversation", InputTokens: 100, OutputTokens: 20, LatencyMs: 300, Success: true},
		{Provider: "openrouter", Model: "m1", Purpose: "conversation", InputTokens: 200, OutputTokens: 40, LatencyMs: 500, Success: true},
		{Provider: "openrouter", Model: "m2", Purpose: "feedback", InputTokens: 500, OutputTokens: 300, LatencyMs: 900, Success: false, ErrorMessage: "boom"},
	}
	for _, e := range events {
		if err := repo.AppendLLMRequest(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	got, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if got[0].Purpose != "feedback" || got[0].Success || got[0].ErrorMessage != "boom" {
		t.Errorf("newest = %+v", got[0])
	}

	conv, err := repo.QueryLLMEvents(ctx, QueryOpts{Purpose: "conversation", Limit: 1})
	if err != nil {
		t.Fatalf("query purpose: %v", err)
	}
	if len(conv) != 1 || conv[0].InputTokens != 200 {
		t.Errorf("filtered = %+v", conv)
	}

	one, err := repo.GetLLMEvent(ctx, got[2].ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if one == nil || one.LatencyMs != 300 {
		t.Errorf("get = %+v", one)
	}

	missing, err := repo.GetLLMEvent(ctx, 9999)
	if err != nil || missing != nil {
		t.Errorf("get missing = %+v, %v", missing, err)
	}
}

func TestLLMUsageAggregates(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for _, e := range []LLMRequestEventData{
		{Model: "m1", Purpose: "conversation", InputTokens: 100, OutputTokens: 20, LatencyMs: 300, Success: true},
		{Model: "m1", Purpose: "conversation", InputTokens: 200, OutputTokens: 40, LatencyMs: 500, Success: true},
		{Model: "m2", Purpose: "feedback", InputTokens: 500, OutputTokens: 300, LatencyMs: 900, Success: true},
	} {
		if err := repo.AppendLLMRequest(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	if err != nil {
		t.Fatalf("by purpose: %v", err)
	}
	if len(byPurpose) != 2 {
		t.Fatalf("len = %d, want 2", len(byPurpose))
	}
	conv := byPurpose[0]
	if conv.Purpose != "conversation" || conv.Calls != 2 || conv.InputTokens != 300 || conv.OutputTokens != 60 || conv.AvgLatencyMs != 400 {
		t.Errorf("conversation usage = %+v", conv)
	}

	byModel, err := repo.LLMUsageByModel(ctx)
	if err != nil {
		t.Fatalf("by model: %v", err)
	}
	if len(byModel) != 2 || byModel[1].Model != "m2" || byModel[1].InputTokens != 500 {
		t.Errorf("model usage = %+v", byModel)
	}

	n, err := repo.DeleteAll(ctx)
	if err != nil || n != 3 {
		t.Errorf("delete = %d, %v", n, err)
	}
}

func TestDefaultDBPath_Env(t *testing.T) {
	p := filepath.Join(t.TempDir(), "sub", "lingua.db")
	t.Setenv("LINGUA_DB", p)

	got, err := DefaultDBPath()
	if err != nil {
		t.Fatalf("default path: %v", err)
	}
	if got != p {
		t.Errorf("path = %q, want %q", got, p)
	}
}

func TestDefaultDBPath_XDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("LINGUA_DB", "")
	t.Setenv("XDG_DATA_HOME", dir)

	got, err := DefaultDBPath()
	if err != nil {
		t.Fatalf("default path: %v", err)
	}
	want := filepath.Join(dir, "lingua", "lingua.db")
	if got != want {
		t.Errorf("path = %q, want %q", got, want)
	}
}
