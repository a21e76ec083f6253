package mood

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultChatEndpoint = "https://api.groq.com/openai/v1"
	DefaultChatModel    = "llama-3.1-8b-instant"
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	Temperature    float64       `json:"temperature"`
	MaxTokens      int           `json:"max_tokens"`
	ResponseFormat struct {
		Type string `json:"type"`
	} `json:"response_format"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// ChatClient talks to an OpenAI-compatible chat completions API (Groq by default).
type ChatClient struct {
	endpoint string
	apiKey   string
	model    string
	client   *http.Client
}

// NewChatClient returns a chat completions analyzer. Empty endpoint and model
// select the Groq defaults.
func NewChatClient(endpoint, apiKey, model string, timeout time.Duration) *ChatClient {
	if endpoint == "" || strings.HasPrefix(endpoint, "http://localhost") {
		endpoint = DefaultChatEndpoint
	}
	if model == "" {
		model = DefaultChatModel
	}
	return &ChatClient{
		endpoint: strings.TrimRight(endpoint, "/"),
		apiKey:   apiKey,
		model:    model,
		client:   &http.Client{Timeout: timeout},
	}
}

// Analyze asks the model for a JSON mood analysis of text.
func (c *ChatClient) Analyze(ctx context.Context, text string) (Analysis, error) {
	if strings.TrimSpace(text) == "" {
		return Analysis{}, ErrEmptyText
	}

	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: text},
		},
		Temperature: 0.7,
		MaxTokens:   300,
	}
	reqBody.ResponseFormat.Type = "json_object"

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return Analysis{}, fmt.Errorf("chat marshal failed: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/chat/completions", bytes.NewReader(jsonData))
	if err != nil {
		return Analysis{}, fmt.Errorf("chat request create failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return Analysis{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Analysis{}, fmt.Errorf("%w: reading response: %v", ErrUpstream, err)
	}

	var chatResp chatResponse
	if err := json.Unmarshal(data, &chatResp); err != nil {
		return Analysis{}, fmt.Errorf("%w: chat decode failed: %v", ErrUpstream, err)
	}
	if resp.StatusCode != http.StatusOK {
		msg := http.StatusText(resp.StatusCode)
		if chatResp.Error != nil && chatResp.Error.Message != "" {
			msg = chatResp.Error.Message
		}
		return Analysis{}, fmt.Errorf("%w: http %d: %s", ErrUpstream, resp.StatusCode, msg)
	}
	if len(chatResp.Choices) == 0 {
		return Analysis{}, fmt.Errorf("%w: no choices in response", ErrMalformed)
	}
	return ParseReply(chatResp.Choices[0].Message.Content)
}
