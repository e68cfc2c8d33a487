package llm

import (
	"context"
	"testing"

	"google.golang.org/genai"
)

func TestGeminiModelMapping(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"gemini-flash", "gemini-2.5-flash"},
		{"gemini-pro", "gemini-2.5-pro"},
		{"gemini-2.0-flash", "gemini-2.0-flash"},
	}
	for _, tt := range tests {
		got := resolveModel(tt.input, geminiModels)
		if got != tt.expected {
			t.Errorf("resolveModel(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestGeminiSchema(t *testing.T) {
	def := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"corrections": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"user_text":  map[string]any{"type": "string"},
						"turn_index": map[string]any{"type": "integer"},
					},
					"required": []string{"user_text"},
				},
			},
			"strengths": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
			"tone": map[string]any{"type": "string", "enum": []any{"warm", "neutral"}},
		},
		"required": []any{"corrections", "strengths"},
	}

	s := geminiSchema(def)

	if s.Type != genai.TypeObject {
		t.Fatalf("type = %s, want OBJECT", s.Type)
	}
	if len(s.Properties) != 3 {
		t.Fatalf("properties = %d, want 3", len(s.Properties))
	}
	corr := s.Properties["corrections"]
	if corr.Type != genai.TypeArray || corr.Items.Type != genai.TypeObject {
		t.Fatalf("corrections = %+v", corr)
	}
	if corr.Items.Properties["turn_index"].Type != genai.TypeInteger {
		t.Errorf("turn_index type = %s", corr.Items.Properties["turn_index"].Type)
	}
	if len(corr.Items.Required) != 1 {
		t.Errorf("item required = %v", corr.Items.Required)
	}
	if len(s.Properties["tone"].Enum) != 2 {
		t.Errorf("enum = %v", s.Properties["tone"].Enum)
	}
	if len(s.Required) != 2 {
		t.Errorf("required = %v", s.Required)
	}
}

func TestNewGeminiProvider_RequiresKey(t *testing.T) {
	if _, err := NewGeminiProvider(context.Background(), GeminiConfig{}); err == nil {
		t.Fatal("expected error for empty API key")
	}
}
