package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiGenerator is the Generator backed by Google Gemini.
type GeminiGenerator struct {
	client    *genai.Client
	jsonModel *genai.GenerativeModel
	textModel *genai.GenerativeModel
	timeout   time.Duration
	slots     rateSlots
}

func NewGeminiGenerator(apiKey, modelName string, concurrentReqs int, timeout time.Duration) (*GeminiGenerator, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	jsonModel := client.GenerativeModel(modelName)
	jsonModel.SetTemperature(0.3)
	jsonModel.SetTopP(0.95)
	jsonModel.ResponseMIMEType = "application/json"

	textModel := client.GenerativeModel(modelName)
	textModel.SetTemperature(0.5)

	return &GeminiGenerator{
		client:    client,
		jsonModel: jsonModel,
		textModel: textModel,
		timeout:   timeout,
		slots:     newRateSlots(concurrentReqs),
	}, nil
}

func (g *GeminiGenerator) Close() {
	g.client.Close()
}

func (g *GeminiGenerator) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	return g.generate(ctx, g.jsonModel, prompt)
}

func (g *GeminiGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	return g.generate(ctx, g.textModel, prompt)
}

func (g *GeminiGenerator) generate(ctx context.Context, model *genai.GenerativeModel, prompt string) (string, error) {
	if err := g.slots.acquire(ctx); err != nil {
		return "", err
	}
	defer g.slots.release()

	ctx, cancel := withCallTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", providerError(ctx, "gemini", err)
	}

	for i, cand := range resp.Candidates {
		if cand.FinishReason != genai.FinishReasonStop {
			log.Printf("WARNING: Gemini candidate %d stopped due to %s", i, cand.FinishReason)
		}
	}

	text := extractText(resp)
	if strings.TrimSpace(text) == "" {
		return "", newError(ErrProvider, "AI provider returned an empty completion", nil)
	}
	return text, nil
}

func extractText(resp *genai.GenerateContentResponse) string {
	var text strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if t, ok := part.(genai.Text); ok {
					text.WriteString(string(t))
				}
			}
		}
	}
	return text.String()
}
