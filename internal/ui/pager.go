package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"
)

type pagerModel struct {
	viewport viewport.Model
	content  string
	ready    bool
	maxWidth int
	width    int
	height   int
	theme    Theme
}

func (m pagerModel) Init() tea.Cmd {
	return nil
}

func (m pagerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.viewport = viewport.New(m.contentWidth(), msg.Height-1)
			m.ready = true
		} else {
			m.viewport.Width = m.contentWidth()
			m.viewport.Height = msg.Height - 1
		}
		m.viewport.SetContent(m.content)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m pagerModel) contentWidth() int {
	if m.maxWidth > 0 && m.width > m.maxWidth {
		return m.maxWidth
	}
	return m.width
}

func (m pagerModel) View() string {
	if !m.ready {
		return "Loading..."
	}
	footer := m.theme.HelpStyle().Render(fmt.Sprintf("↑/↓ scroll • %3.f%% • q quit", m.viewport.ScrollPercent()*100))
	return m.theme.PaintScreen(m.viewport.View()+"\n"+footer, m.width, m.height, m.contentWidth())
}

// Pager writes long output through a scrollable viewport when stdout is a
// terminal and the content is taller than it.
type Pager struct {
	MaxWidth int
	Theme    Theme
	Out      io.Writer
}

// Page writes content, paging it when appropriate.
func (p Pager) Page(content string) error {
	out := p.Out
	if out == nil {
		out = os.Stdout
	}
	f, ok := out.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		_, err := fmt.Fprint(out, content)
		return err
	}

	_, height, err := term.GetSize(int(f.Fd()))
	if err != nil || strings.Count(content, "\n")+1 <= height-2 {
		_, err := fmt.Fprint(out, content)
		return err
	}

	m := pagerModel{content: content, maxWidth: p.MaxWidth, theme: p.Theme}
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithOutput(f)).Run()
	return err
}
