package services

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIGenerator talks to any OpenAI-compatible chat-completion endpoint (Groq by default).
type OpenAIGenerator struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	slots   rateSlots
}

func NewOpenAIGenerator(apiKey, baseURL, model string, concurrentReqs int, timeout time.Duration) *OpenAIGenerator {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}

	return &OpenAIGenerator{
		client:  openai.NewClientWithConfig(cfg),
		model:   model,
		timeout: timeout,
		slots:   newRateSlots(concurrentReqs),
	}
}

func (g *OpenAIGenerator) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	return g.complete(ctx, prompt, true)
}

func (g *OpenAIGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	return g.complete(ctx, prompt, false)
}

func (g *OpenAIGenerator) complete(ctx context.Context, prompt string, jsonMode bool) (string, error) {
	if err := g.slots.acquire(ctx); err != nil {
		return "", err
	}
	defer g.slots.release()

	ctx, cancel := withCallTimeout(ctx, g.timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}
	if jsonMode {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			switch apiErr.HTTPStatusCode {
			case http.StatusTooManyRequests:
				return "", newError(ErrProvider, "AI provider rate limit reached, please try again later", err)
			case http.StatusUnauthorized, http.StatusForbidden:
				return "", newError(ErrProvider, "AI provider rejected the API credentials", err)
			}
		}
		return "", providerError(ctx, "openai", err)
	}

	if len(resp.Choices) == 0 {
		return "", newError(ErrProvider, "AI provider returned no completion", nil)
	}

	content := resp.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", newError(ErrProvider, "AI provider returned an empty completion", nil)
	}
	return content, nil
}
