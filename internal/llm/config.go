package llm

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all LLM provider configuration.
type Config struct {
	// Provider selects which LLM provider to use.
	// Values: "openrouter", "anthropic", "openai", "gemini", "mock"
	Provider string

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig

	// Temperature applies to conversation turns. Feedback is always
	// generated at temperature zero.
	Temperature float64

	// Timeout bounds a single request. Zero disables it.
	Timeout time.Duration
}

type AnthropicConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type GeminiConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type OpenRouterConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// DefaultConfig returns the OpenRouter setup the service was first deployed with.
func DefaultConfig() Config {
	return Config{
		Provider:   "openrouter",
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		OpenAI:     OpenAIConfig{Model: "gpt-4o-mini"},
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		OpenRouter: OpenRouterConfig{Model: defaultOpenRouterModel, BaseURL: defaultOpenRouterBaseURL},

		Temperature: 0.5,
		Timeout:     30 * time.Second,
	}
}

// ConfigFromEnv builds a Config from LINGUA_* variables, falling back to the
// plain OPENROUTER_* names and then to defaults.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	setString(&cfg.Provider, "LINGUA_LLM_PROVIDER")

	setString(&cfg.Anthropic.APIKey, "LINGUA_ANTHROPIC_API_KEY")
	setString(&cfg.Anthropic.Model, "LINGUA_ANTHROPIC_MODEL")

	setString(&cfg.OpenAI.APIKey, "LINGUA_OPENAI_API_KEY")
	setString(&cfg.OpenAI.Model, "LINGUA_OPENAI_MODEL")
	setString(&cfg.OpenAI.BaseURL, "LINGUA_OPENAI_BASE_URL")

	setString(&cfg.Gemini.APIKey, "LINGUA_GEMINI_API_KEY")
	setString(&cfg.Gemini.Model, "LINGUA_GEMINI_MODEL")

	setString(&cfg.OpenRouter.APIKey, "OPENROUTER_API_KEY", "LINGUA_OPENROUTER_API_KEY")
	setString(&cfg.OpenRouter.Model, "OPENROUTER_MODEL", "LINGUA_OPENROUTER_MODEL")
	setString(&cfg.OpenRouter.BaseURL, "OPENROUTER_BASE_URL", "LINGUA_OPENROUTER_BASE_URL")

	if v := os.Getenv("LINGUA_LLM_TEMPERATURE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Temperature = f
		}
	}
	if v := os.Getenv("LINGUA_LLM_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Timeout = d
		}
	}

	return cfg
}

// setString copies each set variable into dst, so later names take precedence.
func setString(dst *string, names ...string) {
	for _, n := range names {
		if v := os.Getenv(n); v != "" {
			*dst = v
		}
	}
}

// DiscoverConfig probes standard API key variables in priority order
// (OpenRouter, Gemini, OpenAI, Anthropic) and returns a Config for the first
// provider whose key is found.
func DiscoverConfig() (Config, bool) {
	cfg := ConfigFromEnv()

	if k := os.Getenv("OPENROUTER_API_KEY"); k != "" {
		cfg.Provider = "openrouter"
		cfg.OpenRouter.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("GEMINI_API_KEY"); k != "" {
		cfg.Provider = "gemini"
		cfg.Gemini.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("OPENAI_API_KEY"); k != "" {
		cfg.Provider = "openai"
		cfg.OpenAI.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("ANTHROPIC_API_KEY"); k != "" {
		cfg.Provider = "anthropic"
		cfg.Anthropic.APIKey = k
		return cfg, true
	}

	return Config{}, false
}

// Validate checks that the selected provider has its required API key set.
func (c Config) Validate() error {
	if c.Temperature < 0 || c.Temperature > 1 {
		return fmt.Errorf("LLM temperature %v out of range 0-1", c.Temperature)
	}
	switch c.Provider {
	case "anthropic":
		if c.Anthropic.APIKey == "" {
			return fmt.Errorf("LINGUA_ANTHROPIC_API_KEY is required for the anthropic provider")
		}
	case "openai":
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("LINGUA_OPENAI_API_KEY is required for the openai provider")
		}
	case "gemini":
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("LINGUA_GEMINI_API_KEY is required for the gemini provider")
		}
	case "openrouter":
		if c.OpenRouter.APIKey == "" {
			return fmt.Errorf("OPENROUTER_API_KEY is required for the openrouter provider")
		}
	case "mock":
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	return nil
}
