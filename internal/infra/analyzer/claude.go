package analyzer

import (
	"context"
	"encoding/base64"
	"errors"
	"log/slog"
	"net/http"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"headline-desk/internal/domain/entity"
	"headline-desk/internal/resilience/circuitbreaker"
	"headline-desk/internal/resilience/retry"
)

// Claude analyzes images with Anthropic's messages API.
type Claude struct {
	client anthropic.Client
	config Config
	caller *caller
}

// NewClaude creates a Claude analyzer. httpClient may be nil.
func NewClaude(cfg Config, httpClient *http.Client) *Claude {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		// retries are handled by the caller so that they share the circuit breaker
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}

	slog.Info("initialized claude analyzer",
		slog.String("model", cfg.Model),
		slog.Int("max_tokens", cfg.MaxTokens))

	return &Claude{
		client: anthropic.NewClient(opts...),
		config: cfg,
		caller: &caller{
			name:    ProviderClaude,
			timeout: cfg.Timeout,
			breaker: circuitbreaker.New(circuitbreaker.ClaudeAPIConfig()),
			retry:   retry.AIAPIConfig(),
			metrics: NewPrometheusMetrics(),
		},
	}
}

// Name implements headline.ImageAnalyzer.
func (c *Claude) Name() string { return ProviderClaude }

// Analyze sends the image with the fact-checking prompt and returns the model's answer.
func (c *Claude) Analyze(ctx context.Context, img *entity.Image) (string, error) {
	return c.caller.call(ctx, img, func(ctx context.Context) (string, error) {
		return c.doAnalyze(ctx, img)
	})
}

func (c *Claude) doAnalyze(ctx context.Context, img *entity.Image) (string, error) {
	blocks := []anthropic.ContentBlockParamUnion{
		anthropic.NewImageBlockBase64(contentType(img), base64.StdEncoding.EncodeToString(img.Data)),
	}
	if c.config.UserPrompt != "" {
		blocks = append(blocks, anthropic.NewTextBlock(c.config.UserPrompt))
	}

	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(c.config.Model),
		MaxTokens:   int64(c.config.MaxTokens),
		Temperature: anthropic.Float(c.config.Temperature),
		System:      []anthropic.TextBlockParam{{Text: c.config.SystemPrompt}},
		Messages:    []anthropic.MessageParam{anthropic.NewUserMessage(blocks...)},
	})
	if err != nil {
		status := 0
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			status = apiErr.StatusCode
		}
		return "", statusError(ProviderClaude, status, err)
	}

	var parts []string
	for _, block := range message.Content {
		if tb, ok := block.AsAny().(anthropic.TextBlock); ok {
			parts = append(parts, tb.Text)
		}
	}
	return joinText(parts)
}

// Breaker returns the circuit breaker guarding the Anthropic API.
func (c *Claude) Breaker() *circuitbreaker.CircuitBreaker { return c.caller.breaker }
