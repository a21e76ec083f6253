package ui

import (
	"bytes"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/chris-regnier/moodjournal/internal/config"
)

func TestPagerViewFillsScreen(t *testing.T) {
	theme := ResolveTheme(config.ThemeConfig{Preset: "default-dark"})
	m := pagerModel{content: "Line 1\nLine 2\nLine 3", theme: theme}

	sized, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = sized.(pagerModel)

	lines := strings.Split(stripANSI(m.View()), "\n")
	if len(lines) != 24 {
		t.Errorf("expected 24 lines, got %d", len(lines))
	}
	for i, line := range lines {
		if len(line) < 80 {
			t.Errorf("line %d: expected min width 80, got %d", i, len(line))
		}
	}
}

func TestPagerRespectsMaxWidth(t *testing.T) {
	theme := ResolveTheme(config.ThemeConfig{Preset: "dracula"})
	m := pagerModel{content: "Some content", maxWidth: 60, theme: theme}

	sized, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m = sized.(pagerModel)

	if m.viewport.Width != 60 {
		t.Errorf("viewport width = %d, want 60", m.viewport.Width)
	}
	first := strings.Split(stripANSI(m.View()), "\n")[0]
	if !strings.HasPrefix(first, strings.Repeat(" ", 20)+"Some content") {
		t.Errorf("expected content centered, got %q", first)
	}
}

func TestPagerQuitKeys(t *testing.T) {
	for _, key := range []string{"q", "esc"} {
		m := pagerModel{content: "x"}
		var msg tea.KeyMsg
		if key == "esc" {
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		} else {
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
		}
		_, cmd := m.Update(msg)
		if cmd == nil {
			t.Fatalf("%s: expected quit command", key)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%s: expected tea.QuitMsg", key)
		}
	}
}

func TestPagerWritesDirectlyWhenNotTerminal(t *testing.T) {
	var buf bytes.Buffer
	if err := (Pager{Out: &buf}).Page("hello\n"); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "hello\n" {
		t.Errorf("got %q", buf.String())
	}
}
