package tutor

import "github.com/abhisek/lingua/internal/llm"

// FeedbackSchema defines the JSON schema for end-of-session feedback. Every
// key is required and extra keys are rejected so strict structured-output
// modes accept it.
var FeedbackSchema = &llm.Schema{
	Name:        "session-feedback",
	Description: "Corrections, strengths, weaknesses and recommendations for a practice conversation",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"corrections": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"turn_index": map[string]any{
							"type":        "integer",
							"description": "1-based index of the turn containing the error",
						},
						"user_text": map[string]any{
							"type":        "string",
							"description": "What the learner wrote",
						},
						"corrected_text": map[string]any{
							"type":        "string",
							"description": "The corrected sentence",
						},
						"explanation": map[string]any{
							"type":        "string",
							"description": "Short explanation of the correction",
						},
					},
					"required":             []any{"turn_index", "user_text", "corrected_text", "explanation"},
					"additionalProperties": false,
				},
			},
			"strengths": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
			"weaknesses": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
			"recommendations": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
		},
		"required":             []any{"corrections", "strengths", "weaknesses", "recommendations"},
		"additionalProperties": false,
	},
}
