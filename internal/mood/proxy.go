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

// AnalyzePath is the route served by `moodjournal serve` and called by ProxyClient.
const AnalyzePath = "/api/analyze-mood"

// ProxyClient posts text to a moodjournal server's analyze endpoint.
type ProxyClient struct {
	endpoint string
	token    string
	client   *http.Client
}

// NewProxyClient returns a client for the server at endpoint. The endpoint
// only serves signed-in callers; token is a session token from its login route.
func NewProxyClient(endpoint, token string, timeout time.Duration) *ProxyClient {
	return &ProxyClient{
		endpoint: strings.TrimRight(endpoint, "/"),
		token:    token,
		client:   &http.Client{Timeout: timeout},
	}
}

// Analyze sends {"content": text} and decodes {"summary", "mood"}.
func (p *ProxyClient) Analyze(ctx context.Context, text string) (Analysis, error) {
	if strings.TrimSpace(text) == "" {
		return Analysis{}, ErrEmptyText
	}

	body, err := json.Marshal(map[string]string{"content": text})
	if err != nil {
		return Analysis{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint+AnalyzePath, bytes.NewReader(body))
	if err != nil {
		return Analysis{}, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if p.token != "" {
		req.Header.Set("Authorization", "Bearer "+p.token)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return Analysis{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Analysis{}, fmt.Errorf("%w: reading response: %v", ErrUpstream, err)
	}
	if resp.StatusCode != http.StatusOK {
		return Analysis{}, fmt.Errorf("%w: http %d", ErrUpstream, resp.StatusCode)
	}

	// The server wraps payloads in a {data: ...} envelope; bare replies are accepted too.
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(data, &env); err == nil && len(env.Data) > 0 && string(env.Data) != "null" {
		data = env.Data
	}
	return ParseReply(string(data))
}
