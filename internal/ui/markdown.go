package ui

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/chris-regnier/moodjournal/internal/entry"
)

type rendererKey struct {
	width int
	style string
}

// renderers caches glamour renderers by width and style.
var (
	renderersMu sync.Mutex
	renderers   = map[rendererKey]*glamour.TermRenderer{}
)

func rendererFor(width int, style string) (*glamour.TermRenderer, error) {
	if width < 1 {
		width = 80
	}
	if style == "" {
		style = "dark"
	}
	key := rendererKey{width, style}

	renderersMu.Lock()
	defer renderersMu.Unlock()
	if r, ok := renderers[key]; ok {
		return r, nil
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	renderers[key] = r
	return r, nil
}

// RenderMarkdown renders markdown for the terminal with the given glamour
// style. The source text is returned unchanged if rendering fails.
func RenderMarkdown(content string, width int, style string) string {
	if content == "" {
		return ""
	}
	r, err := rendererFor(width, style)
	if err != nil {
		return content
	}
	out, err := r.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimRight(out, "\n")
}

// EntryMarkdown formats an entry as a markdown document: title heading,
// body, then the mood reflection as a block quote.
func EntryMarkdown(e entry.JournalEntry) string {
	var b strings.Builder
	if t := strings.TrimSpace(e.Title); t != "" {
		fmt.Fprintf(&b, "# %s\n\n", t)
	}
	if c := strings.TrimSpace(e.Content); c != "" {
		b.WriteString(c)
		b.WriteString("\n")
	}
	if s := strings.TrimSpace(e.MoodSummary); s != "" {
		fmt.Fprintf(&b, "\n---\n\n> %s **%s** %s\n", e.EffectiveMood().Icon(), e.EffectiveMood(), s)
	}
	return b.String()
}

// RenderEntry renders an entry's markdown for a pane of the given width.
func RenderEntry(e entry.JournalEntry, width int, style string) string {
	return RenderMarkdown(EntryMarkdown(e), width, style)
}
