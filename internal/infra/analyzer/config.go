// Package analyzer sends scanned headline images to a vision model and returns its
// fact-checking commentary. OpenAI and Anthropic Claude are supported.
package analyzer

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	env "headline-desk/pkg/config"
)

// Providers.
const (
	ProviderOpenAI = "openai"
	ProviderClaude = "claude"
	ProviderNone   = "none"
)

// DefaultSystemPrompt instructs the model to assess an image for fake or misleading news.
const DefaultSystemPrompt = "You are a fact-checking assistant. Analyze the uploaded image for signs of fake " +
	"or misleading news. If text is present, extract and analyze it. Explain your reasoning and suggest " +
	"how to verify the claim, also provide a sentiment analysis and author of the claim, also try to " +
	"provide original source."

// Default models per provider.
const (
	DefaultOpenAIModel = "gpt-4.1"
	DefaultClaudeModel = "claude-sonnet-4-5-20250929"
)

// Config holds the analyzer settings.
type Config struct {
	// Provider is openai, claude or none. When ANALYZER_PROVIDER is unset it is derived
	// from whichever API key is present.
	Provider string

	// APIKey for the selected provider (OPENAI_API_KEY or ANTHROPIC_API_KEY).
	APIKey string

	// BaseURL overrides the provider endpoint, e.g. for a proxy or gateway.
	BaseURL string

	Model       string
	MaxTokens   int
	Temperature float64

	// Timeout bounds a single model call.
	Timeout time.Duration

	// SystemPrompt is sent with every image.
	SystemPrompt string
	// UserPrompt is optional text sent alongside the image.
	UserPrompt string
}

// promptFile is the YAML document referenced by ANALYZER_PROMPT_FILE.
// Any field left out keeps the value from the environment.
type promptFile struct {
	SystemPrompt string   `yaml:"system_prompt"`
	UserPrompt   string   `yaml:"user_prompt"`
	Model        string   `yaml:"model"`
	MaxTokens    int      `yaml:"max_tokens"`
	Temperature  *float64 `yaml:"temperature"`
}

// LoadConfig reads ANALYZER_* variables and the optional prompt file.
func LoadConfig() (*Config, error) {
	provider := strings.ToLower(env.GetEnvString("ANALYZER_PROVIDER", ""))
	if provider == "" {
		switch {
		case os.Getenv("OPENAI_API_KEY") != "":
			provider = ProviderOpenAI
		case os.Getenv("ANTHROPIC_API_KEY") != "":
			provider = ProviderClaude
		default:
			provider = ProviderNone
		}
	}

	cfg := &Config{
		Provider:     provider,
		BaseURL:      env.GetEnvString("ANALYZER_BASE_URL", ""),
		MaxTokens:    env.GetEnvInt("ANALYZER_MAX_TOKENS", 700),
		Temperature:  env.GetEnvFloat("ANALYZER_TEMPERATURE", 0.2),
		Timeout:      env.GetEnvDuration("ANALYZER_TIMEOUT", 60*time.Second),
		SystemPrompt: DefaultSystemPrompt,
	}

	switch provider {
	case ProviderOpenAI:
		cfg.APIKey = env.GetEnvString("OPENAI_API_KEY", "")
		cfg.Model = env.GetEnvString("ANALYZER_MODEL", DefaultOpenAIModel)
	case ProviderClaude:
		cfg.APIKey = env.GetEnvString("ANTHROPIC_API_KEY", "")
		cfg.Model = env.GetEnvString("ANALYZER_MODEL", DefaultClaudeModel)
	}

	if path := env.GetEnvString("ANALYZER_PROMPT_FILE", ""); path != "" {
		if err := cfg.applyPromptFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid analyzer configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyPromptFile(path string) error {
	// #nosec G304 -- path comes from operator configuration
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read prompt file: %w", err)
	}

	var pf promptFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return fmt.Errorf("parse prompt file %s: %w", path, err)
	}

	if s := strings.TrimSpace(pf.SystemPrompt); s != "" {
		c.SystemPrompt = s
	}
	if s := strings.TrimSpace(pf.UserPrompt); s != "" {
		c.UserPrompt = s
	}
	if pf.Model != "" {
		c.Model = pf.Model
	}
	if pf.MaxTokens != 0 {
		c.MaxTokens = pf.MaxTokens
	}
	if pf.Temperature != nil {
		c.Temperature = *pf.Temperature
	}
	return nil
}

// Validate checks the configuration for the selected provider.
func (c *Config) Validate() error {
	if err := env.ValidateOneOf(c.Provider, ProviderOpenAI, ProviderClaude, ProviderNone); err != nil {
		return fmt.Errorf("ANALYZER_PROVIDER: %w", err)
	}
	if c.Provider == ProviderNone {
		return nil
	}

	if c.APIKey == "" {
		return fmt.Errorf("api key is required for provider %s", c.Provider)
	}
	if c.Model == "" {
		return fmt.Errorf("model cannot be empty")
	}
	if err := env.ValidateIntRange(c.MaxTokens, 1, 32000); err != nil {
		return fmt.Errorf("ANALYZER_MAX_TOKENS: %w", err)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("ANALYZER_TEMPERATURE must be between 0 and 2, got %v", c.Temperature)
	}
	if err := env.ValidatePositiveDuration(c.Timeout); err != nil {
		return fmt.Errorf("ANALYZER_TIMEOUT: %w", err)
	}
	if strings.TrimSpace(c.SystemPrompt) == "" {
		return fmt.Errorf("system prompt cannot be empty")
	}
	return nil
}
