package ports

import (
	"context"

	"github.com/arthurmateu/throxy-project/internal/domain"
)

// Provider identifies one of the configured OpenAI-compatible LLM backends.
type Provider string

const (
	ProviderOpenAI     Provider = "openai"
	ProviderGroq       Provider = "groq"
	ProviderOpenRouter Provider = "openrouter"
)

// ParseProvider validates a caller-supplied provider name.
func ParseProvider(s string) (Provider, error) {
	switch Provider(s) {
	case ProviderOpenAI, ProviderGroq, ProviderOpenRouter:
		return Provider(s), nil
	}
	return "", domain.NewDomainError(domain.ErrUnknownProvider, s)
}

// ChatMessage is one message in a chat completion request.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatOptions tunes a single chat completion call.
type ChatOptions struct {
	Model       string
	Temperature *float32
	MaxTokens   int
	JSONMode    bool
}

// ChatResult is the unified, provider-agnostic outcome of a chat call.
type ChatResult struct {
	Content      string
	InputTokens  int
	OutputTokens int
	Model        string
	Cost         float64
	DurationMs   int64
}

// ChatService is the only way the core talks to model APIs. Chat returns
// domain.ErrNoCredential (wrapped) when the provider has no configured key.
type ChatService interface {
	Chat(ctx context.Context, provider Provider, messages []ChatMessage, opts ChatOptions) (*ChatResult, error)
	HasCredential(provider Provider) bool
}
