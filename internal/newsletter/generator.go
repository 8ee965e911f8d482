// Package newsletter turns rendered chat contexts into an HTML link newsletter
// using a chat completion provider.
package newsletter

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// GeneratorOptions configures a Generator.
type GeneratorOptions struct {
	Provider     Provider
	Model        string
	Temperature  float64
	SystemPrompt string

	// MarkdownFallback converts an answer without any HTML markup from Markdown to HTML.
	MarkdownFallback bool

	Logger *zap.Logger
}

// Generator sends one completion request per call and post-processes the answer.
type Generator struct {
	provider         Provider
	model            string
	temperature      float64
	systemPrompt     string
	markdownFallback bool
	logger           *zap.Logger
}

// NewGenerator creates a new generator
func NewGenerator(opts GeneratorOptions) *Generator {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{
		provider:         opts.Provider,
		model:            opts.Model,
		temperature:      opts.Temperature,
		systemPrompt:     opts.SystemPrompt,
		markdownFallback: opts.MarkdownFallback,
		logger:           logger,
	}
}

// RunCompletion sends the rendered contexts to the provider and returns the
// first choice's text untouched, or "" when the provider returned no content.
func (g *Generator) RunCompletion(ctx context.Context, rendered string) (string, error) {
	resp, err := g.provider.ChatCompletion(ctx, ChatRequest{
		Model:       g.model,
		Temperature: g.temperature,
		Messages:    BuildMessages(g.systemPrompt, rendered),
	})
	if err != nil {
		return "", err
	}
	if resp == nil {
		return "", nil
	}
	if resp.Usage != nil {
		g.logger.Info("completion usage",
			zap.String("provider", g.provider.Name()),
			zap.String("model", g.model),
			zap.Int("prompt_tokens", resp.Usage.PromptTokens),
			zap.Int("completion_tokens", resp.Usage.CompletionTokens),
			zap.Int("total_tokens", resp.Usage.TotalTokens),
		)
	}
	if resp.FinishReason != "" && resp.FinishReason != "stop" {
		g.logger.Warn("completion did not finish normally", zap.String("finish_reason", resp.FinishReason))
	}
	return resp.Content, nil
}

// Generate returns the trimmed newsletter HTML. It fails with ErrEmptyOutput
// when nothing but whitespace comes back.
func (g *Generator) Generate(ctx context.Context, rendered string) (string, error) {
	content, err := g.RunCompletion(ctx, rendered)
	if err != nil {
		return "", err
	}

	newsletter := strings.TrimSpace(stripCodeFence(content))
	if newsletter == "" {
		return "", ErrEmptyOutput
	}

	if g.markdownFallback && !containsMarkup(newsletter) {
		g.logger.Info("model answered without HTML, converting from markdown")
		converted, err := MarkdownToHTML(newsletter)
		if err != nil {
			return "", err
		}
		newsletter = converted
	}

	return newsletter, nil
}

// stripCodeFence unwraps an answer that is entirely one ``` fenced block.
func stripCodeFence(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") || !strings.HasSuffix(trimmed, "```") || len(trimmed) < 6 {
		return s
	}

	body := strings.TrimSuffix(trimmed, "```")
	newline := strings.IndexByte(body, '\n')
	if newline < 0 {
		return s
	}
	// The opening line carries an optional language tag.
	body = body[newline+1:]
	if strings.Contains(body, "```") {
		return s
	}
	return body
}
