package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/chris-regnier/moodjournal/internal/config"
	"github.com/chris-regnier/moodjournal/internal/entry"
)

// Theme holds resolved lipgloss colors for TUI rendering.
type Theme struct {
	Primary       lipgloss.Color
	Secondary     lipgloss.Color
	Accent        lipgloss.Color
	Muted         lipgloss.Color
	Danger        lipgloss.Color
	Background    lipgloss.Color
	MarkdownStyle string
}

var presets = map[string]Theme{
	"default-dark": {
		Primary:       lipgloss.Color("15"),
		Secondary:     lipgloss.Color("243"),
		Accent:        lipgloss.Color("205"),
		Muted:         lipgloss.Color("241"),
		Danger:        lipgloss.Color("9"),
		Background:    lipgloss.Color("235"),
		MarkdownStyle: "dark",
	},
	"default-light": {
		Primary:       lipgloss.Color("0"),
		Secondary:     lipgloss.Color("240"),
		Accent:        lipgloss.Color("163"),
		Muted:         lipgloss.Color("245"),
		Danger:        lipgloss.Color("1"),
		Background:    lipgloss.Color("254"),
		MarkdownStyle: "light",
	},
	"dracula": {
		Primary:       lipgloss.Color("#F8F8F2"),
		Secondary:     lipgloss.Color("#6272A4"),
		Accent:        lipgloss.Color("#FF79C6"),
		Muted:         lipgloss.Color("#6272A4"),
		Danger:        lipgloss.Color("#FF5555"),
		Background:    lipgloss.Color("#282A36"),
		MarkdownStyle: "dracula",
	},
	"catppuccin-mocha": {
		Primary:       lipgloss.Color("#CDD6F4"),
		Secondary:     lipgloss.Color("#585B70"),
		Accent:        lipgloss.Color("#F5C2E7"),
		Muted:         lipgloss.Color("#6C7086"),
		Danger:        lipgloss.Color("#F38BA8"),
		Background:    lipgloss.Color("#1E1E2E"),
		MarkdownStyle: "dark",
	},
	"catppuccin-latte": {
		Primary:       lipgloss.Color("#4C4F69"),
		Secondary:     lipgloss.Color("#9CA0B0"),
		Accent:        lipgloss.Color("#EA76CB"),
		Muted:         lipgloss.Color("#9CA0B0"),
		Danger:        lipgloss.Color("#D20F39"),
		Background:    lipgloss.Color("#EFF1F5"),
		MarkdownStyle: "light",
	},
	"rose-pine": {
		Primary:       lipgloss.Color("#E0DEF4"),
		Secondary:     lipgloss.Color("#6E6A86"),
		Accent:        lipgloss.Color("#EBBCBA"),
		Muted:         lipgloss.Color("#6E6A86"),
		Danger:        lipgloss.Color("#EB6F92"),
		Background:    lipgloss.Color("#191724"),
		MarkdownStyle: "dark",
	},
}

// moodColors tints calendar days and badges by mood.
var moodColors = map[entry.Mood]lipgloss.Color{
	entry.MoodHappy:      lipgloss.Color("#F9E2AF"),
	entry.MoodSad:        lipgloss.Color("#89B4FA"),
	entry.MoodPeaceful:   lipgloss.Color("#A6E3A1"),
	entry.MoodAnxious:    lipgloss.Color("#FAB387"),
	entry.MoodExcited:    lipgloss.Color("#F5C2E7"),
	entry.MoodThoughtful: lipgloss.Color("#CBA6F7"),
	entry.MoodNeutral:    lipgloss.Color("#A6ADC8"),
}

// PresetNames lists the built-in theme presets.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for n := range presets {
		names = append(names, n)
	}
	return names
}

// ResolveTheme starts from the configured preset (default-dark when unknown)
// and applies any explicit color overrides.
func ResolveTheme(cfg config.ThemeConfig) Theme {
	theme, ok := presets[cfg.Preset]
	if !ok {
		theme = presets["default-dark"]
	}

	override := func(dst *lipgloss.Color, v string) {
		if v != "" {
			*dst = lipgloss.Color(v)
		}
	}
	override(&theme.Primary, cfg.Primary)
	override(&theme.Secondary, cfg.Secondary)
	override(&theme.Accent, cfg.Accent)
	override(&theme.Muted, cfg.Muted)
	override(&theme.Danger, cfg.Danger)
	override(&theme.Background, cfg.Background)
	if cfg.MarkdownStyle != "" {
		theme.MarkdownStyle = cfg.MarkdownStyle
	}
	return theme
}

func (t Theme) base() lipgloss.Style {
	return lipgloss.NewStyle().Background(t.Background)
}

func (t Theme) HelpStyle() lipgloss.Style {
	return t.base().Foreground(t.Muted)
}

func (t Theme) HeaderStyle() lipgloss.Style {
	return t.base().Bold(true).Foreground(t.Primary)
}

func (t Theme) AccentStyle() lipgloss.Style {
	return t.base().Foreground(t.Accent)
}

func (t Theme) DangerStyle() lipgloss.Style {
	return t.base().Foreground(t.Danger)
}

func (t Theme) ViewPaneStyle() lipgloss.Style {
	return t.base().Foreground(t.Primary)
}

// PaneStyle is a rounded box used for the calendar and entry panes.
func (t Theme) PaneStyle(focused bool) lipgloss.Style {
	border := t.Secondary
	if focused {
		border = t.Accent
	}
	return t.base().
		Foreground(t.Primary).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		BorderBackground(t.Background).
		Padding(0, 1)
}

// MoodStyle colors text for mood m. Unset moods use the muted color.
func (t Theme) MoodStyle(m entry.Mood) lipgloss.Style {
	c, ok := moodColors[m]
	if !ok {
		c = t.Muted
	}
	return t.base().Foreground(c)
}

// CalendarOptions derives calendar cell styles from the theme.
func (t Theme) CalendarOptions() CalendarOptions {
	return CalendarOptions{
		HeaderStyle:   t.base().Foreground(t.Secondary),
		EmptyStyle:    t.base().Foreground(t.Muted),
		EntryStyle:    t.base().Foreground(t.Primary).Bold(true),
		TodayStyle:    t.base().Underline(true),
		SelectedStyle: lipgloss.NewStyle().Reverse(true).Foreground(t.Accent),
		MoodStyle:     t.MoodStyle,
		ShowHeader:    true,
	}
}

// bgEscapeCode is the raw ANSI sequence selecting the theme background.
func (t Theme) bgEscapeCode() string {
	s := string(t.Background)
	if strings.HasPrefix(s, "#") && len(s) == 7 {
		var r, g, b int
		fmt.Sscanf(s, "#%02x%02x%02x", &r, &g, &b)
		return fmt.Sprintf("\x1b[48;2;%d;%d;%dm", r, g, b)
	}
	return "\x1b[48;5;" + s + "m"
}

// PaintScreen pads every line of content to termWidth, centers it when
// contentWidth is narrower, and fills the remaining rows so the background
// covers the whole terminal.
func (t Theme) PaintScreen(content string, termWidth, termHeight, contentWidth int) string {
	bg := t.base()
	clearEOL := t.bgEscapeCode() + "\x1b[K"

	left := 0
	if contentWidth > 0 && contentWidth < termWidth {
		left = (termWidth - contentWidth) / 2
	}
	leftPad := ""
	if left > 0 {
		leftPad = bg.Render(strings.Repeat(" ", left))
	}

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		right := max(termWidth-left-lipgloss.Width(line), 0)
		var b strings.Builder
		b.WriteString(leftPad)
		b.WriteString(line)
		if right > 0 {
			b.WriteString(bg.Render(strings.Repeat(" ", right)))
		}
		b.WriteString(clearEOL)
		lines[i] = b.String()
	}

	blank := bg.Render(strings.Repeat(" ", termWidth)) + clearEOL
	for len(lines) < termHeight {
		lines = append(lines, blank)
	}
	if termHeight > 0 && len(lines) > termHeight {
		lines = lines[:termHeight]
	}
	return strings.Join(lines, "\n")
}

// ClearLineEnds appends an erase-to-end-of-line in the background color to
// every line.
func (t Theme) ClearLineEnds(content string) string {
	clearEOL := t.bgEscapeCode() + "\x1b[K"
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = line + clearEOL
	}
	return strings.Join(lines, "\n")
}
