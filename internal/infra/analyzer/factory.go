package analyzer

import (
	"fmt"
	"net/http"

	"headline-desk/internal/usecase/headline"
)

// New builds the analyzer for cfg.Provider. The none provider yields NoOp.
func New(cfg *Config, httpClient *http.Client) (headline.ImageAnalyzer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Provider {
	case ProviderOpenAI:
		return NewOpenAI(*cfg, httpClient), nil
	case ProviderClaude:
		return NewClaude(*cfg, httpClient), nil
	case ProviderNone:
		return NewNoOp(), nil
	default:
		return nil, fmt.Errorf("unknown analyzer provider %q", cfg.Provider)
	}
}
