package newsletter

import (
	"context"
	"math"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// OpenAIProvider implements the Provider interface on top of the go-openai client
type OpenAIProvider struct {
	client *openai.Client
	logger *zap.Logger
}

// NewOpenAIProvider creates a new OpenAI provider. An empty baseURL keeps the
// client's default endpoint.
func NewOpenAIProvider(apiKey string, baseURL string, logger *zap.Logger) *OpenAIProvider {
	if logger == nil {
		logger = zap.NewNop()
	}

	clientConfig := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientConfig.BaseURL = baseURL
	}

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(clientConfig),
		logger: logger,
	}
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// ChatCompletion sends a chat completion request to OpenAI.
func (p *OpenAIProvider) ChatCompletion(ctx context.Context, request ChatRequest) (*ChatResponse, error) {
	openaiReq := openai.ChatCompletionRequest{
		Model:       request.Model,
		Temperature: requestTemperature(request.Temperature),
		Messages:    make([]openai.ChatCompletionMessage, len(request.Messages)),
	}
	for i, msg := range request.Messages {
		openaiReq.Messages[i] = openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		}
	}

	p.logger.Debug("sending chat completion",
		zap.String("model", request.Model),
		zap.Float64("temperature", request.Temperature),
		zap.Int("messages", len(request.Messages)),
	)

	resp, err := p.client.CreateChatCompletion(ctx, openaiReq)
	if err != nil {
		p.logger.Debug("chat completion failed", zap.Error(err))
		return nil, classifyError(err)
	}

	result := &ChatResponse{
		Usage: &ChatUsage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}
	if len(resp.Choices) > 0 {
		choice := resp.Choices[0]
		result.Content = choice.Message.Content
		result.FinishReason = string(choice.FinishReason)
	}

	p.logger.Debug("chat completion finished",
		zap.String("finish_reason", result.FinishReason),
		zap.Int("prompt_tokens", result.Usage.PromptTokens),
		zap.Int("completion_tokens", result.Usage.CompletionTokens),
	)

	return result, nil
}

// requestTemperature converts the sampling temperature for the wire. The
// client drops a zero temperature from the request body, so zero is sent as
// the smallest positive float32 instead.
func requestTemperature(t float64) float32 {
	if t == 0 {
		return math.SmallestNonzeroFloat32
	}
	return float32(t)
}
