package llm

import (
	"context"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/arthurmateu/throxy-project/internal/adapters/metrics"
	"github.com/arthurmateu/throxy-project/internal/domain"
	"github.com/arthurmateu/throxy-project/internal/ports"
)

// ProviderConfig configures one OpenAI-compatible backend.
type ProviderConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

type providerClient struct {
	api   *openai.Client
	model string
}

// Client routes chat calls to one of the configured providers. Every
// provider speaks the OpenAI chat-completions dialect; only base URL,
// credential and default model differ.
type Client struct {
	providers map[ports.Provider]*providerClient
	timeout   time.Duration
}

var _ ports.ChatService = (*Client)(nil)

// Option configures the client.
type Option func(*Client)

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

var defaultBaseURLs = map[ports.Provider]string{
	ports.ProviderOpenAI:     "https://api.openai.com/v1",
	ports.ProviderGroq:       "https://api.groq.com/openai/v1",
	ports.ProviderOpenRouter: "https://openrouter.ai/api/v1",
}

// New builds a client from per-provider configs. Providers without an API
// key are registered as absent and fail with domain.ErrNoCredential.
func New(configs map[ports.Provider]ProviderConfig, opts ...Option) *Client {
	c := &Client{
		providers: make(map[ports.Provider]*providerClient, len(configs)),
		timeout:   120 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}

	for provider, cfg := range configs {
		if cfg.APIKey == "" {
			continue
		}
		apiCfg := openai.DefaultConfig(cfg.APIKey)
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = defaultBaseURLs[provider]
		}
		apiCfg.BaseURL = baseURL
		c.providers[provider] = &providerClient{
			api:   openai.NewClientWithConfig(apiCfg),
			model: cfg.Model,
		}
	}
	return c
}

func (c *Client) HasCredential(provider ports.Provider) bool {
	_, ok := c.providers[provider]
	return ok
}

// Chat sends a non-streaming chat completion to the given provider and
// returns the unified result including token usage, cost and duration.
func (c *Client) Chat(ctx context.Context, provider ports.Provider, messages []ports.ChatMessage, opts ports.ChatOptions) (*ports.ChatResult, error) {
	pc, ok := c.providers[provider]
	if !ok {
		return nil, domain.NewDomainError(domain.ErrNoCredential, string(provider))
	}

	model := opts.Model
	if model == "" {
		model = pc.model
	}

	req := openai.ChatCompletionRequest{
		Model:    model,
		Messages: make([]openai.ChatCompletionMessage, 0, len(messages)),
	}
	for _, m := range messages {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}
	if opts.Temperature != nil {
		req.Temperature = *opts.Temperature
	}
	if opts.MaxTokens > 0 {
		req.MaxTokens = opts.MaxTokens
	}
	if opts.JSONMode {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := pc.api.CreateChatCompletion(ctx, req)
	duration := time.Since(start)

	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.LLMRequestsTotal.WithLabelValues(model, status).Inc()
	metrics.LLMRequestDuration.WithLabelValues(model).Observe(duration.Seconds())

	if err != nil {
		return nil, domain.NewDomainError(domain.ErrLLMRequestFailed, err.Error())
	}
	if len(resp.Choices) == 0 {
		return nil, domain.NewDomainError(domain.ErrLLMRequestFailed, "response contained no choices")
	}

	result := &ports.ChatResult{
		Content:      resp.Choices[0].Message.Content,
		InputTokens:  resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
		Model:        resp.Model,
		Cost:         estimateCost(resp.Model, resp.Usage.PromptTokens, resp.Usage.CompletionTokens),
		DurationMs:   duration.Milliseconds(),
	}
	if result.Model == "" {
		result.Model = model
	}
	return result, nil
}
