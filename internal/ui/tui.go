package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/chris-regnier/moodjournal/internal/editor"
	"github.com/chris-regnier/moodjournal/internal/entry"
	"github.com/chris-regnier/moodjournal/internal/journal"
)

type tuiMode int

const (
	modeBrowse tuiMode = iota
	modeEdit
	modeSearch
	modeHelp
)

const (
	maxTitleLength   = 120
	maxContentLength = 20000
	searchResultRows = 8
	requestTimeout   = 60 * time.Second
)

// TUIConfig holds configuration needed by the TUI.
type TUIConfig struct {
	Editor   string // resolved editor command
	MaxWidth int    // maximum content width (0 = no limit)
	Theme    Theme
	UserName string
}

type loadedMsg struct{ err error }

type savedMsg struct {
	day   string
	entry *entry.JournalEntry
	err   error
}

type moodMsg struct {
	entry entry.JournalEntry
	err   error
}

type editorDoneMsg struct {
	title, content string
	changed        bool
	err            error
}

// tuiModel is the Bubble Tea front end for a journal.EntryViewModel. Every
// state change goes through the view model; the model only holds widget state.
type tuiModel struct {
	vm     *journal.EntryViewModel
	cfg    TUIConfig
	userID string
	ctx    context.Context

	mode     tuiMode
	prevMode tuiMode

	titleInput textinput.Model
	bodyInput  textarea.Model
	bodyFocus  bool

	searchInput textinput.Model
	searchIdx   int

	preview viewport.Model
	spinner spinner.Model

	status string
	width  int
	height int
	ready  bool
}

func newTUIModel(ctx context.Context, vm *journal.EntryViewModel, userID string, cfg TUIConfig) tuiModel {
	ti := textinput.New()
	ti.Placeholder = "Title"
	ti.CharLimit = maxTitleLength
	ti.Prompt = ""

	ta := textarea.New()
	ta.Placeholder = "How was your day?"
	ta.CharLimit = maxContentLength
	ta.ShowLineNumbers = false

	si := textinput.New()
	si.Placeholder = "search entries"
	si.Prompt = "/ "

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = cfg.Theme.AccentStyle()

	return tuiModel{
		vm:          vm,
		cfg:         cfg,
		userID:      userID,
		ctx:         ctx,
		titleInput:  ti,
		bodyInput:   ta,
		searchInput: si,
		spinner:     sp,
	}
}

func (m tuiModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadCmd())
}

func (m tuiModel) loadCmd() tea.Cmd {
	vm, ctx, userID := m.vm, m.ctx, m.userID
	return func() tea.Msg {
		return loadedMsg{err: vm.Initialize(ctx, userID)}
	}
}

func (m tuiModel) saveCmd() tea.Cmd {
	vm, ctx := m.vm, m.ctx
	day := vm.Snapshot().SelectedDate
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, requestTimeout)
		defer cancel()
		e, err := vm.Save(ctx)
		return savedMsg{day: day, entry: e, err: err}
	}
}

func (m tuiModel) moodCmd() tea.Cmd {
	vm, ctx := m.vm, m.ctx
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, requestTimeout)
		defer cancel()
		e, err := vm.RequestMoodAnalysis(ctx)
		return moodMsg{entry: e, err: err}
	}
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.ready = true
		m.layout()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case loadedMsg:
		if msg.err != nil {
			m.status = "Could not load entries: " + msg.err.Error()
		}
		m.refreshPreview()
		return m, nil

	case savedMsg:
		switch {
		case msg.err != nil:
			m.status = "Save failed: " + msg.err.Error()
		case msg.entry == nil:
			m.status = "Nothing to save."
		default:
			m.status = "Saved " + entry.NormalizeDayKey(msg.entry.Date) + "."
		}
		if m.mode != modeEdit && m.vm.Snapshot().Editing {
			// The save came from the external editor.
			return m.settleEditorSave(msg)
		}
		m.syncMode()
		m.refreshPreview()
		return m, nil

	case moodMsg:
		if msg.err != nil {
			m.status = "Mood analysis failed: " + msg.err.Error()
		} else {
			m.status = fmt.Sprintf("Mood for %s: %s %s", entry.NormalizeDayKey(msg.entry.Date), msg.entry.EffectiveMood().Icon(), msg.entry.EffectiveMood())
		}
		m.refreshPreview()
		return m, nil

	case editorDoneMsg:
		if msg.err != nil {
			m.status = "Editor: " + msg.err.Error()
			return m, nil
		}
		if !msg.changed {
			m.status = "No changes."
			return m, nil
		}
		m.vm.BeginEdit()
		m.vm.SetDraft(journal.Draft{Title: msg.title, Content: msg.content})
		m.status = "Saving…"
		return m, m.saveCmd()

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.mode {
		case modeHelp:
			if s := msg.String(); s == "?" || s == "esc" || s == "q" {
				m.mode = m.prevMode
			}
			return m, nil
		case modeEdit:
			return m.updateEdit(msg)
		case modeSearch:
			return m.updateSearch(msg)
		default:
			return m.updateBrowse(msg)
		}
	}

	var cmd tea.Cmd
	m.preview, cmd = m.preview.Update(msg)
	return m, cmd
}

func (m tuiModel) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "?":
		m.prevMode, m.mode = m.mode, modeHelp
		return m, nil
	case "left", "h":
		m.vm.ShiftSelection(-1)
	case "right", "l":
		m.vm.ShiftSelection(1)
	case "up", "k":
		m.vm.ShiftSelection(-7)
	case "down", "j":
		m.vm.ShiftSelection(7)
	case "[":
		m.shiftMonth(-1)
	case "]":
		m.shiftMonth(1)
	case "t":
		m.vm.SelectDay(time.Now())
	case "e", "enter":
		return m.startEdit()
	case "E":
		return m.openExternalEditor()
	case "m":
		st := m.vm.Snapshot()
		if st.Current == nil {
			m.status = journal.ErrNoEntry.Error()
			return m, nil
		}
		if st.MoodPending {
			m.status = journal.ErrMoodPending.Error()
			return m, nil
		}
		m.status = "Reading the mood…"
		return m, m.moodCmd()
	case "/":
		m.mode = modeSearch
		m.searchInput.SetValue(m.vm.Snapshot().SearchQuery)
		m.searchIdx = 0
		cmd := m.searchInput.Focus()
		return m, cmd
	case "pgup", "pgdown", "ctrl+u", "ctrl+d":
		var cmd tea.Cmd
		m.preview, cmd = m.preview.Update(msg)
		return m, cmd
	default:
		return m, nil
	}
	m.vm.ClearError()
	m.refreshPreview()
	return m, nil
}

func (m *tuiModel) shiftMonth(delta int) {
	cur, err := entry.ParseDay(m.vm.Snapshot().SelectedDate)
	if err != nil {
		return
	}
	target := cur.AddDate(0, delta, 0)
	// Clamp so Jan 31 + 1 month lands in February, not March.
	if want := (int(cur.Month())-1+delta+12)%12 + 1; int(target.Month()) != want {
		target = target.AddDate(0, 0, -target.Day())
	}
	m.vm.SelectDay(target)
}

func (m tuiModel) startEdit() (tea.Model, tea.Cmd) {
	m.vm.BeginEdit()
	st := m.vm.Snapshot()
	m.titleInput.SetValue(st.Draft.Title)
	m.bodyInput.SetValue(st.Draft.Content)
	m.mode = modeEdit
	m.bodyFocus = st.Draft.Title != ""
	m.layout()
	cmd := m.focusEditor()
	return m, cmd
}

func (m *tuiModel) focusEditor() tea.Cmd {
	if m.bodyFocus {
		m.titleInput.Blur()
		return m.bodyInput.Focus()
	}
	m.bodyInput.Blur()
	return m.titleInput.Focus()
}

func (m tuiModel) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.vm.CancelEdit()
		m.mode = modeBrowse
		m.status = "Edit cancelled."
		m.refreshPreview()
		return m, nil
	case "ctrl+s":
		if m.vm.Snapshot().Saving {
			m.status = journal.ErrSaveInFlight.Error()
			return m, nil
		}
		m.status = "Saving…"
		return m, m.saveCmd()
	case "tab", "shift+tab":
		m.bodyFocus = !m.bodyFocus
		cmd := m.focusEditor()
		return m, cmd
	case "enter":
		if !m.bodyFocus {
			m.bodyFocus = true
			cmd := m.focusEditor()
			return m, cmd
		}
	}

	var cmd tea.Cmd
	if m.bodyFocus {
		m.bodyInput, cmd = m.bodyInput.Update(msg)
		m.vm.SetDraftContent(m.bodyInput.Value())
	} else {
		m.titleInput, cmd = m.titleInput.Update(msg)
		m.vm.SetDraftTitle(m.titleInput.Value())
	}
	return m, cmd
}

func (m tuiModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	results := m.vm.SearchResults()
	switch msg.String() {
	case "esc":
		m.mode = modeBrowse
		m.searchInput.Blur()
		m.vm.SetSearchQuery("")
		m.searchInput.SetValue("")
		return m, nil
	case "up", "ctrl+p":
		if m.searchIdx > 0 {
			m.searchIdx--
		}
		return m, nil
	case "down", "ctrl+n":
		if m.searchIdx < len(results)-1 {
			m.searchIdx++
		}
		return m, nil
	case "enter":
		if m.searchIdx < len(results) {
			_ = m.vm.SelectDate(results[m.searchIdx].Date)
		}
		m.mode = modeBrowse
		m.searchInput.Blur()
		m.refreshPreview()
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.vm.SetSearchQuery(m.searchInput.Value())
	if n := len(m.vm.SearchResults()); m.searchIdx >= n {
		m.searchIdx = max(n-1, 0)
	}
	return m, cmd
}

func (m tuiModel) openExternalEditor() (tea.Model, tea.Cmd) {
	m.vm.BeginEdit()
	st := m.vm.Snapshot()
	sess, err := editor.NewSession(st.Draft.Title, st.Draft.Content)
	if err != nil {
		m.vm.CancelEdit()
		m.status = "Editor: " + err.Error()
		return m, nil
	}
	c, err := sess.Command(editor.ResolveEditor(m.cfg.Editor))
	if err != nil {
		sess.Cleanup()
		m.vm.CancelEdit()
		m.status = "Editor: " + err.Error()
		return m, nil
	}
	vm := m.vm
	return m, tea.ExecProcess(c, func(err error) tea.Msg {
		defer sess.Cleanup()
		if err != nil {
			vm.CancelEdit()
			return editorDoneMsg{err: err}
		}
		title, content, changed, err := sess.Result()
		if err != nil || !changed {
			vm.CancelEdit()
		}
		return editorDoneMsg{title: title, content: content, changed: changed, err: err}
	})
}

// settleEditorSave resolves a failed or blank save started from the external
// editor so no draft outlives it in browse mode. A failed draft reopens in the
// in-place editor when its day is still selected; otherwise it is discarded.
func (m tuiModel) settleEditorSave(msg savedMsg) (tea.Model, tea.Cmd) {
	st := m.vm.Snapshot()
	if msg.err != nil && msg.entry == nil && st.SelectedDate == msg.day && !st.Draft.Blank() {
		m.status += " Draft kept; ctrl+s to retry."
		return m.startEdit()
	}
	m.vm.CancelEdit()
	m.refreshPreview()
	return m, nil
}

// syncMode leaves edit mode once the view model reports editing has ended.
func (m *tuiModel) syncMode() {
	if m.mode == modeEdit && !m.vm.Snapshot().Editing {
		m.mode = modeBrowse
		m.titleInput.Blur()
		m.bodyInput.Blur()
	}
}

func (m tuiModel) contentWidth() int {
	if m.cfg.MaxWidth > 0 && m.width > m.cfg.MaxWidth {
		return m.cfg.MaxWidth
	}
	return m.width
}

// entryPaneWidth is the inner width of the right-hand pane.
func (m tuiModel) entryPaneWidth() int {
	// calendar pane: grid + border + padding + gap
	return max(m.contentWidth()-(CalendarWidth+4)-1-4, 20)
}

func (m tuiModel) bodyHeight() int {
	return max(m.height-6, 5)
}

func (m *tuiModel) layout() {
	if !m.ready {
		return
	}
	w := m.entryPaneWidth()
	m.titleInput.Width = w
	m.bodyInput.SetWidth(w)
	m.bodyInput.SetHeight(max(m.bodyHeight()-2, 3))
	m.preview = viewport.New(w, m.bodyHeight())
	m.refreshPreview()
}

func (m *tuiModel) refreshPreview() {
	if !m.ready {
		return
	}
	st := m.vm.Snapshot()
	var content string
	switch {
	case st.Loading:
		content = m.cfg.Theme.HelpStyle().Render("Loading entries…")
	case st.Current == nil:
		content = m.cfg.Theme.HelpStyle().Render("No entry for this day.\n\nPress e to write one.")
	default:
		content = RenderEntry(*st.Current, m.entryPaneWidth(), m.cfg.Theme.MarkdownStyle)
	}
	m.preview.SetContent(content)
	m.preview.GotoTop()
}

func (m tuiModel) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.mode == modeHelp {
		return m.cfg.Theme.ClearLineEnds(m.helpOverlay())
	}

	st := m.vm.Snapshot()
	theme := m.cfg.Theme
	cw := m.contentWidth()

	header := theme.HeaderStyle().Width(cw).Render(m.headerText(st))

	sel, _ := entry.ParseDay(st.SelectedDate)
	cal := RenderCalendar(sel, CalendarDays(sel, st.Entries, entry.Today(), st.SelectedDate), theme.CalendarOptions())
	left := theme.PaneStyle(m.mode == modeBrowse).Height(m.bodyHeight()).Render(cal)

	var right string
	switch m.mode {
	case modeEdit:
		right = theme.PaneStyle(true).Height(m.bodyHeight()).Render(
			m.titleInput.View() + "\n" + theme.HelpStyle().Render(strings.Repeat("─", m.entryPaneWidth())) + "\n" + m.bodyInput.View())
	case modeSearch:
		right = theme.PaneStyle(true).Height(m.bodyHeight()).Render(m.searchView(st))
	default:
		right = theme.PaneStyle(false).Height(m.bodyHeight()).Render(m.preview.View())
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top, left, theme.ViewPaneStyle().Render(" "), right)
	footer := theme.HelpStyle().Width(cw).Render(m.footerText(st))

	return theme.PaintScreen(header+"\n"+body+"\n"+footer, m.width, m.height, cw)
}

func (m tuiModel) headerText(st journal.State) string {
	title := "Mood Journal"
	if m.cfg.UserName != "" {
		title += " · " + m.cfg.UserName
	}
	day := st.SelectedDate
	if t, err := entry.ParseDay(day); err == nil {
		day = t.Format("Monday, January 2 2006")
	}
	mood := ""
	if st.Current != nil && st.Current.Mood != "" {
		mood = "  " + journal.MoodIcon(st.Current.Mood)
	}
	return fmt.Sprintf("%s    %s%s", title, day, mood)
}

func (m tuiModel) footerText(st journal.State) string {
	busy := ""
	switch {
	case st.Loading:
		busy = m.spinner.View() + " loading "
	case st.Saving:
		busy = m.spinner.View() + " saving "
	case st.MoodPending:
		busy = m.spinner.View() + " analyzing "
	}

	msg := m.status
	if msg == "" && st.Err != nil {
		msg = st.Err.Error()
	}

	var keys string
	switch m.mode {
	case modeEdit:
		keys = "tab switch field • ctrl+s save • esc cancel"
	case modeSearch:
		keys = "↑/↓ choose • enter open • esc close"
	default:
		keys = "←/→ day • ↑/↓ week • [/] month • e edit • m mood • / search • ? help"
	}
	if msg != "" {
		return busy + msg + "  │  " + keys
	}
	return busy + keys
}

func (m tuiModel) searchView(st journal.State) string {
	var b strings.Builder
	b.WriteString(m.searchInput.View())
	b.WriteString("\n\n")

	results := journal.Filter(st.Entries, st.SearchQuery)
	if len(results) == 0 {
		b.WriteString(m.cfg.Theme.HelpStyle().Render("No matching entries."))
		return b.String()
	}
	start := 0
	if m.searchIdx >= searchResultRows {
		start = m.searchIdx - searchResultRows + 1
	}
	end := min(start+searchResultRows, len(results))
	for i := start; i < end; i++ {
		e := results[i]
		line := fmt.Sprintf("%s %s  %s", entry.NormalizeDayKey(e.Date), journal.MoodIcon(e.Mood), e.Preview(m.entryPaneWidth()-16))
		if i == m.searchIdx {
			b.WriteString(m.cfg.Theme.AccentStyle().Render("▸ " + line))
		} else {
			b.WriteString(m.cfg.Theme.ViewPaneStyle().Render("  " + line))
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "\n%s", m.cfg.Theme.HelpStyle().Render(fmt.Sprintf("%d of %d entries", len(results), len(st.Entries))))
	return b.String()
}

func (m tuiModel) helpOverlay() string {
	help := m.cfg.Theme.PaneStyle(true).
		Padding(1, 2).
		Width(52).
		Render(`Calendar
  ←/→ h/l     previous / next day
  ↑/↓ k/j     previous / next week
  [ / ]       previous / next month
  t           jump to today

Entry
  e, enter    edit in place
  E           edit in $EDITOR
  m           analyze mood
  /           search entries
  pgup/pgdn   scroll

Editing
  tab         switch title / body
  ctrl+s      save
  esc         discard changes

  q           quit     ? close help`)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, help,
		lipgloss.WithWhitespaceBackground(m.cfg.Theme.Background))
}

// RunTUI runs the interactive journal for userID until the user quits.
func RunTUI(ctx context.Context, vm *journal.EntryViewModel, userID string, cfg TUIConfig) error {
	m := newTUIModel(ctx, vm, userID, cfg)
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
