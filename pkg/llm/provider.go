package llm

import (
	"context"
)

// Option allows for optional parameters like Temperature, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Temperature float64
	TopP        float64
	MaxTokens   int
	Model       string // Override default model
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithTopP(topP float64) Option {
	return func(o *Options) {
		o.TopP = topP
	}
}

func WithMaxTokens(maxTokens int) Option {
	return func(o *Options) {
		o.MaxTokens = maxTokens
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

func BuildOptions(opts ...Option) *Options {
	options := &Options{
		Temperature: 0.7, // Default
	}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// Fragment is one piece of a streamed completion. Exactly one fragment with
// Done or Err closes the stream; the channel is closed right after it.
type Fragment struct {
	Text string
	Done bool
	Err  error
}

// Provider defines the contract for any LLM backend
type Provider interface {
	// Generate sends a single prompt and waits for the full response
	Generate(ctx context.Context, systemPrompt, userPrompt string, options ...Option) (string, error)

	// Stream sends a prompt and returns a channel of incremental fragments.
	// The channel is always closed, even on error or cancellation.
	Stream(ctx context.Context, systemPrompt, userPrompt string, options ...Option) (<-chan Fragment, error)
}
