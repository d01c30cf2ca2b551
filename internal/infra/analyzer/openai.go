package analyzer

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	openai "github.com/sashabaranov/go-openai"

	"headline-desk/internal/domain/entity"
	"headline-desk/internal/resilience/circuitbreaker"
	"headline-desk/internal/resilience/retry"
)

// OpenAI analyzes images with an OpenAI chat completion model accepting image input.
type OpenAI struct {
	client *openai.Client
	config Config
	caller *caller
}

// NewOpenAI creates an OpenAI analyzer. httpClient may be nil.
func NewOpenAI(cfg Config, httpClient *http.Client) *OpenAI {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	if httpClient != nil {
		clientCfg.HTTPClient = httpClient
	}

	slog.Info("initialized openai analyzer",
		slog.String("model", cfg.Model),
		slog.Int("max_tokens", cfg.MaxTokens))

	return &OpenAI{
		client: openai.NewClientWithConfig(clientCfg),
		config: cfg,
		caller: &caller{
			name:    ProviderOpenAI,
			timeout: cfg.Timeout,
			breaker: circuitbreaker.New(circuitbreaker.OpenAIAPIConfig()),
			retry:   retry.AIAPIConfig(),
			metrics: NewPrometheusMetrics(),
		},
	}
}

// Name implements headline.ImageAnalyzer.
func (o *OpenAI) Name() string { return ProviderOpenAI }

// Analyze sends the image with the fact-checking prompt and returns the model's answer.
func (o *OpenAI) Analyze(ctx context.Context, img *entity.Image) (string, error) {
	return o.caller.call(ctx, img, func(ctx context.Context) (string, error) {
		return o.doAnalyze(ctx, img)
	})
}

func (o *OpenAI) doAnalyze(ctx context.Context, img *entity.Image) (string, error) {
	var parts []openai.ChatMessagePart
	if o.config.UserPrompt != "" {
		parts = append(parts, openai.ChatMessagePart{
			Type: openai.ChatMessagePartTypeText,
			Text: o.config.UserPrompt,
		})
	}
	parts = append(parts, openai.ChatMessagePart{
		Type: openai.ChatMessagePartTypeImageURL,
		ImageURL: &openai.ChatMessageImageURL{
			URL:    dataURL(img),
			Detail: openai.ImageURLDetailAuto,
		},
	})

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       o.config.Model,
		MaxTokens:   o.config.MaxTokens,
		Temperature: float32(o.config.Temperature),
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: o.config.SystemPrompt},
			{Role: openai.ChatMessageRoleUser, MultiContent: parts},
		},
	})
	if err != nil {
		return "", statusError(ProviderOpenAI, openAIStatus(err), err)
	}

	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	return joinText([]string{resp.Choices[0].Message.Content})
}

func openAIStatus(err error) int {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	return 0
}

// Breaker returns the circuit breaker guarding the OpenAI API.
func (o *OpenAI) Breaker() *circuitbreaker.CircuitBreaker { return o.caller.breaker }
