package ui

import (
	"strings"
	"testing"

	"github.com/chris-regnier/moodjournal/internal/entry"
)

func TestRenderMarkdown(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		wantContains []string
	}{
		{"plain text", "Hello world", []string{"Hello world"}},
		{"heading", "# Main Title", []string{"Main Title"}},
		{"list", "- Item 1\n- Item 2", []string{"Item 1", "Item 2"}},
		{"emphasis", "This is **bold** and *italic* text", []string{"bold", "italic"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := stripANSI(RenderMarkdown(tt.input, 80, "dark"))
			for _, want := range tt.wantContains {
				if !strings.Contains(got, want) {
					t.Errorf("RenderMarkdown(%q) missing %q in %q", tt.input, want, got)
				}
			}
		})
	}
}

func TestRenderMarkdownEmpty(t *testing.T) {
	if got := RenderMarkdown("", 80, "dark"); got != "" {
		t.Errorf("expected empty output, got %q", got)
	}
}

func TestRenderMarkdownNoTrailingNewline(t *testing.T) {
	if got := RenderMarkdown("text", 80, "notty"); strings.HasSuffix(got, "\n") {
		t.Errorf("output should not end with newline: %q", got)
	}
}

func TestRenderMarkdownBadStyleReturnsSource(t *testing.T) {
	in := "# keep me"
	if got := RenderMarkdown(in, 80, "/no/such/style.json"); got != in {
		t.Errorf("expected source text on failure, got %q", got)
	}
}

func TestRendererCache(t *testing.T) {
	a, err := rendererFor(60, "dark")
	if err != nil {
		t.Fatal(err)
	}
	b, _ := rendererFor(60, "dark")
	if a != b {
		t.Error("expected cached renderer for same width and style")
	}
	c, _ := rendererFor(40, "dark")
	if a == c {
		t.Error("expected a new renderer for a different width")
	}
}

func TestEntryMarkdown(t *testing.T) {
	e := entry.JournalEntry{
		Title:       "Walk",
		Content:     "Went to the park.",
		Mood:        entry.MoodPeaceful,
		MoodSummary: "Sounds restful.",
	}
	md := EntryMarkdown(e)
	for _, want := range []string{"# Walk", "Went to the park.", "> 😌 **peaceful** Sounds restful."} {
		if !strings.Contains(md, want) {
			t.Errorf("EntryMarkdown missing %q in %q", want, md)
		}
	}

	plain := EntryMarkdown(entry.JournalEntry{Content: "only body"})
	if strings.Contains(plain, "#") || strings.Contains(plain, ">") {
		t.Errorf("expected no heading or quote, got %q", plain)
	}
}

func TestRenderEntry(t *testing.T) {
	out := stripANSI(RenderEntry(entry.JournalEntry{Title: "Walk", Content: "park"}, 60, "dark"))
	if !strings.Contains(out, "Walk") || !strings.Contains(out, "park") {
		t.Errorf("rendered entry missing text: %q", out)
	}
}
