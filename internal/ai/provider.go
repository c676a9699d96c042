// Package ai wraps the LLM gateways used by the arena: fighters generate
// arguments, the referee classifies them, the commentator narrates.
package ai

import "context"

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Provider is a single-model chat completion client.
type Provider interface {
	Chat(ctx context.Context, messages []Message) (string, error)
}

// Options tune a single completion. Zero values mean provider defaults.
type Options struct {
	Temperature float64
	MaxTokens   int
}

// OptionProvider is an optional interface for providers that accept
// per-call sampling options.
type OptionProvider interface {
	ChatWithOptions(ctx context.Context, messages []Message, opts Options) (string, error)
}

// Chat calls ChatWithOptions when the provider supports it, otherwise
// falls back to the plain Chat contract.
func Chat(ctx context.Context, p Provider, messages []Message, opts Options) (string, error) {
	if op, ok := p.(OptionProvider); ok {
		return op.ChatWithOptions(ctx, messages, opts)
	}
	return p.Chat(ctx, messages)
}
