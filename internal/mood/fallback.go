package mood

import (
	"context"
	"errors"

	"github.com/chris-regnier/moodjournal/internal/entry"
	"go.uber.org/zap"
)

type fallback struct {
	next   Analyzer
	logger *zap.Logger
}

// WithFallback wraps a so that transport and upstream failures yield the
// neutral placeholder instead of an error. Empty input is still rejected.
func WithFallback(a Analyzer, logger *zap.Logger) Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &fallback{next: a, logger: logger}
}

func (f *fallback) Analyze(ctx context.Context, text string) (Analysis, error) {
	res, err := f.next.Analyze(ctx, text)
	if err == nil {
		return res, nil
	}
	if errors.Is(err, ErrEmptyText) || errors.Is(err, context.Canceled) {
		return Analysis{}, err
	}
	f.logger.Warn("mood analysis failed, using fallback", zap.Error(err))
	return Neutral(), nil
}

// Neutral returns the placeholder analysis.
func Neutral() Analysis {
	return Analysis{Summary: FallbackSummary, Mood: entry.MoodNeutral}
}
