package mood

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// DefaultGeminiModel is used when no model is configured.
const DefaultGeminiModel = "gemini-2.0-flash"

// GeminiClient analyzes text with Google's Gemini API.
type GeminiClient struct {
	client *genai.Client
	model  string
}

// NewGeminiClient creates a Gemini analyzer. baseURL overrides the API
// endpoint and is empty outside tests.
func NewGeminiClient(ctx context.Context, apiKey, model, baseURL string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GenAI API key is required")
	}
	if model == "" {
		model = DefaultGeminiModel
	}

	cc := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &GeminiClient{client: client, model: model}, nil
}

// Analyze asks Gemini for a JSON mood analysis of text.
func (g *GeminiClient) Analyze(ctx context.Context, text string) (Analysis, error) {
	if strings.TrimSpace(text) == "" {
		return Analysis{}, ErrEmptyText
	}

	result, err := g.client.Models.GenerateContent(ctx,
		g.model,
		genai.Text(text),
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
			ResponseMIMEType:  "application/json",
			Temperature:       genai.Ptr[float32](0.7),
		},
	)
	if err != nil {
		return Analysis{}, fmt.Errorf("%w: GenAI generate failed: %v", ErrUpstream, err)
	}
	return ParseReply(result.Text())
}
