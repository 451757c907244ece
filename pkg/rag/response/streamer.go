// Package response drives streaming generation and the summarization entry
// point used by the memory stage.
package response

import (
	"context"
	"fmt"
	"strings"

	"veritus-be/internal/constant"
	"veritus-be/internal/pkg/logger"
	"veritus-be/pkg/llm"
	"veritus-be/pkg/rag"
	"veritus-be/pkg/rag/prompt"
)

type TokenKind string

const (
	TokenText  TokenKind = "text"
	TokenDone  TokenKind = "done"
	TokenError TokenKind = "error"
)

// StreamToken is one unit of the outbound answer stream. Done and Error are
// terminal: exactly one of them ends every completed stream, and nothing
// follows it.
type StreamToken struct {
	Kind    TokenKind
	Payload string
}

// Options fixes the sampling parameters. Answers run colder than default
// chat use to bias toward literal citation reproduction.
type Options struct {
	Temperature        float64
	TopP               float64
	MaxTokens          int
	SummaryTemperature float64
	SummaryMaxTokens   int
}

func (o Options) withDefaults() Options {
	if o.Temperature == 0 {
		o.Temperature = 0.2
	}
	if o.TopP == 0 {
		o.TopP = 0.9
	}
	if o.MaxTokens == 0 {
		o.MaxTokens = 1500
	}
	if o.SummaryTemperature == 0 {
		o.SummaryTemperature = 0.3
	}
	if o.SummaryMaxTokens == 0 {
		o.SummaryMaxTokens = 800
	}
	return o
}

type Streamer struct {
	provider llm.Provider
	opts     Options
	logger   logger.ILogger
}

func NewStreamer(provider llm.Provider, opts Options, log logger.ILogger) *Streamer {
	return &Streamer{
		provider: provider,
		opts:     opts.withDefaults(),
		logger:   log,
	}
}

// StreamAnswer opens one generation and returns its token stream. The
// channel always closes; on caller cancellation the stream just stops, with
// no terminal token.
func (s *Streamer) StreamAnswer(ctx context.Context, assembled prompt.Assembled, query, lang string) <-chan StreamToken {
	lang = constant.NormalizeLang(lang)
	systemPrompt := constant.LocaleText(constant.SystemPrompts, lang)
	userPrompt := buildAnswerPayload(assembled, query, lang)

	return s.stream(ctx, systemPrompt, userPrompt,
		llm.WithTemperature(s.opts.Temperature),
		llm.WithTopP(s.opts.TopP),
		llm.WithMaxTokens(s.opts.MaxTokens),
	)
}

// SummarizeDocument streams a locale-aware summary of caller-provided text.
func (s *Streamer) SummarizeDocument(ctx context.Context, text, lang string) <-chan StreamToken {
	lang = constant.NormalizeLang(lang)
	userPrompt := fmt.Sprintf(constant.LocaleText(constant.DocumentSummaryPrompts, lang), text)

	return s.stream(ctx, constant.SummarizerSystemPrompt, userPrompt,
		llm.WithTemperature(s.opts.SummaryTemperature),
		llm.WithTopP(s.opts.TopP),
	)
}

// Summarize is the narrow entry point the memory stage uses: same streaming
// discipline as answers, neutral persona, and the fragments are concatenated
// because the consumer persists the whole string.
func (s *Streamer) Summarize(ctx context.Context, text string, lang string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}

	lang = constant.NormalizeLang(lang)
	userPrompt := fmt.Sprintf(constant.LocaleText(constant.SummarizationPrompts, lang), text)

	fragments, err := s.provider.Stream(ctx, constant.SummarizerSystemPrompt, userPrompt,
		llm.WithTemperature(s.opts.SummaryTemperature),
		llm.WithMaxTokens(s.opts.SummaryMaxTokens),
	)
	if err != nil {
		return "", rag.SummarizationError(err)
	}

	var b strings.Builder
	for fragment := range fragments {
		if fragment.Err != nil {
			return "", rag.SummarizationError(fragment.Err)
		}
		if fragment.Done {
			break
		}
		b.WriteString(fragment.Text)
	}
	if err := ctx.Err(); err != nil {
		return "", rag.SummarizationError(err)
	}
	return b.String(), nil
}

// stream adapts the provider's fragment channel into the application token
// stream, enforcing the single-terminal-token rule.
func (s *Streamer) stream(ctx context.Context, systemPrompt, userPrompt string, opts ...llm.Option) <-chan StreamToken {
	out := make(chan StreamToken)

	go func() {
		defer close(out)

		fragments, err := s.provider.Stream(ctx, systemPrompt, userPrompt, opts...)
		if err != nil {
			s.logger.Error("ResponseStreamer", "Failed to open generation stream", map[string]interface{}{
				"error": err.Error(),
			})
			s.emit(ctx, out, StreamToken{Kind: TokenError, Payload: rag.GenerationError(err).Error()})
			return
		}

		for fragment := range fragments {
			// Disconnect must be observable within one token's latency
			if ctx.Err() != nil {
				return
			}

			if fragment.Err != nil {
				s.logger.Error("ResponseStreamer", "Generation stream failed", map[string]interface{}{
					"error": fragment.Err.Error(),
				})
				s.emit(ctx, out, StreamToken{Kind: TokenError, Payload: rag.GenerationError(fragment.Err).Error()})
				return
			}
			if fragment.Done {
				s.emit(ctx, out, StreamToken{Kind: TokenDone, Payload: constant.StreamDoneToken})
				return
			}
			if !s.emit(ctx, out, StreamToken{Kind: TokenText, Payload: fragment.Text}) {
				return
			}
		}
	}()

	return out
}

func (s *Streamer) emit(ctx context.Context, out chan<- StreamToken, token StreamToken) bool {
	select {
	case out <- token:
		return true
	case <-ctx.Done():
		return false
	}
}

// buildAnswerPayload renders the single user turn: summary, labeled
// references, the question, the citation-integrity reminder, and the
// answer-format instruction.
func buildAnswerPayload(assembled prompt.Assembled, query, lang string) string {
	var sections []string

	if assembled.SummaryBlock != "" {
		sections = append(sections, assembled.SummaryBlock)
	}

	contextLabel := constant.LocaleText(constant.ContextLabels, lang)
	sections = append(sections, contextLabel+"\n"+assembled.ReferenceBlock)

	questionLabel := constant.LocaleText(constant.QuestionLabels, lang)
	sections = append(sections, questionLabel+" "+query)

	sections = append(sections, constant.LocaleText(constant.URLValidationWarnings, lang))
	sections = append(sections, constant.LocaleText(constant.ResponseInstructions, lang))

	return strings.Join(sections, "\n\n")
}
