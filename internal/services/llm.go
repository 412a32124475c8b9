package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// CompletionRequest is the provider-agnostic shape of a single LLM call.
type CompletionRequest struct {
	System          string
	User            string
	MaxOutputTokens int32
	Temperature     float32
}

// GenerationClient is the only component that performs outbound network
// calls. Implementations carry no retry policy; callers treat every failure
// as terminal for the request.
type GenerationClient interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// GeminiClient calls the Gemini API. A nil inner client means no credential
// was configured and every call returns ErrGenerationUnavailable.
type GeminiClient struct {
	client    *genai.Client
	modelName string
}

func NewGeminiClient(apiKey, modelName string) (*GeminiClient, error) {
	if apiKey == "" {
		return &GeminiClient{modelName: modelName}, nil
	}

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{client: client, modelName: modelName}, nil
}

func (c *GeminiClient) Close() {
	if c.client != nil {
		c.client.Close()
	}
}

func (c *GeminiClient) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	if c.client == nil {
		return "", ErrGenerationUnavailable
	}

	model := c.client.GenerativeModel(c.modelName)
	model.SetTemperature(req.Temperature)
	model.SetTopP(0.95)
	if req.MaxOutputTokens > 0 {
		model.SetMaxOutputTokens(req.MaxOutputTokens)
	}
	if req.System != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(req.System)},
		}
	}

	resp, err := model.GenerateContent(ctx, genai.Text(req.User))
	if err != nil {
		return "", &GenerationError{Err: err}
	}

	text := strings.TrimSpace(extractText(resp))
	if text == "" {
		return "", &GenerationError{Err: fmt.Errorf("model returned empty response")}
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
