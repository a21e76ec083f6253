// Package mood classifies journal text into a mood label and a short
// supportive summary using a language-model backend.
package mood

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chris-regnier/moodjournal/internal/config"
	"github.com/chris-regnier/moodjournal/internal/entry"
	"go.uber.org/zap"
)

var (
	ErrEmptyText = errors.New("nothing to analyze")
	ErrMalformed = errors.New("malformed mood analysis reply")
	ErrUpstream  = errors.New("mood service error")
)

// FallbackSummary is shown when the mood service cannot be reached.
const FallbackSummary = "I'm here to listen whenever you're ready to share more. Take care of yourself! 💙"

const systemPrompt = `You are a warm, supportive journaling companion. Read the user's journal entry and reply with a JSON object of the form {"summary": string, "mood": string}.
"summary" is two or three encouraging sentences reflecting what the writer shared.
"mood" is exactly one of: happy, sad, peaceful, anxious, excited, thoughtful, neutral.
Reply with the JSON object only.`

// Analysis is the result of classifying one piece of text.
type Analysis struct {
	Summary string     `json:"summary"`
	Mood    entry.Mood `json:"mood"`
}

// Analyzer turns journal text into an Analysis.
type Analyzer interface {
	Analyze(ctx context.Context, text string) (Analysis, error)
}

// AnalyzerFunc adapts a function to the Analyzer interface.
type AnalyzerFunc func(ctx context.Context, text string) (Analysis, error)

// Analyze calls f.
func (f AnalyzerFunc) Analyze(ctx context.Context, text string) (Analysis, error) {
	return f(ctx, text)
}

// ParseReply decodes a model reply. Code fences around the JSON are
// tolerated, unknown moods become neutral, and a blank summary is an error.
func ParseReply(raw string) (Analysis, error) {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	if i, j := strings.Index(s, "{"), strings.LastIndex(s, "}"); i >= 0 && j > i {
		s = s[i : j+1]
	}

	var reply struct {
		Summary string `json:"summary"`
		Mood    string `json:"mood"`
	}
	if err := json.Unmarshal([]byte(s), &reply); err != nil {
		return Analysis{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	summary := strings.TrimSpace(reply.Summary)
	if summary == "" {
		return Analysis{}, fmt.Errorf("%w: empty summary", ErrMalformed)
	}
	m, ok := entry.ParseMood(reply.Mood)
	if !ok {
		m = entry.MoodNeutral
	}
	return Analysis{Summary: summary, Mood: m}, nil
}

// New builds the analyzer selected by cfg.Provider, wrapped with the
// neutral fallback when cfg.Fallback is set.
func New(cfg config.MoodConfig, logger *zap.Logger) (Analyzer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	var (
		a   Analyzer
		err error
	)
	switch strings.ToLower(cfg.Provider) {
	case "", "proxy":
		a = NewProxyClient(cfg.Endpoint, cfg.APIKey, timeout)
	case "openai", "groq":
		a = NewChatClient(cfg.Endpoint, cfg.APIKey, cfg.Model, timeout)
	case "gemini":
		a, err = NewGeminiClient(context.Background(), cfg.APIKey, cfg.Model, "")
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown mood provider %q (use proxy, openai, or gemini)", cfg.Provider)
	}

	if cfg.Fallback {
		a = WithFallback(a, logger)
	}
	return a, nil
}
