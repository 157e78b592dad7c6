package generativeAI

import (
	"context"
	"fmt"
	"os"

	"google.golang.org/genai"
)

// Client is the generative model endpoint contract. The pipeline depends on
// this interface so tests can run against a fake without network access.
type Client interface {
	Complete(ctx context.Context, prompt string, tier ModelTier, temperature float32) (*Completion, error)
}

// Completion is one structured-JSON model answer plus its token cost.
type Completion struct {
	Text        string
	ModelUsed   string
	TotalTokens int
}

// Ensure implementation satisfies the interface
var _ Client = (*AIClient)(nil)

type AIClient struct {
	client *genai.Client
	models ModelStrategy
}

func NewAIClient(ctx context.Context, models ModelStrategy) (*AIClient, error) {
	apiKey := os.Getenv("GOOGLE_GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GOOGLE_GEMINI_API_KEY environment variable is not set")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &AIClient{
		client: client,
		models: models,
	}, nil
}

// Complete runs one JSON-mode generation against the model configured for
// the given tier.
func (ai *AIClient) Complete(ctx context.Context, prompt string, tier ModelTier, temperature float32) (*Completion, error) {
	model := ai.models.ModelFor(tier)

	config := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr[float32](temperature),
		ResponseMIMEType: "application/json",
	}
	result, err := ai.client.Models.GenerateContent(ctx, model, genai.Text(prompt), config)
	if err != nil {
		return nil, fmt.Errorf("failed to generate content with %s: %w", model, err)
	}

	txt := result.Text()
	if txt == "" {
		return nil, fmt.Errorf("no valid content from model %s", model)
	}

	totalTokens := 0
	if result.UsageMetadata != nil {
		totalTokens = int(result.UsageMetadata.TotalTokenCount)
	}

	return &Completion{
		Text:        txt,
		ModelUsed:   model,
		TotalTokens: totalTokens,
	}, nil
}
