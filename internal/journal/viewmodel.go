// Package journal holds the entry view model: the signed-in user's entries,
// the selected day, and the edit buffer, mediating between the store and the
// mood analyzer. Front ends (terminal UI, MCP tools, CLI commands) drive it
// through named transitions and read it through Snapshot.
package journal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/chris-regnier/moodjournal/internal/entry"
	"github.com/chris-regnier/moodjournal/internal/mood"
	"github.com/chris-regnier/moodjournal/internal/storage"
	"go.uber.org/zap"
)

var (
	ErrNotAuthenticated = errors.New("not signed in")
	ErrNoEntry          = errors.New("no entry for the selected date")
	ErrEmptyContent     = errors.New("entry has no content to analyze")
	ErrEmptySummary     = errors.New("mood analysis returned an empty summary")
	ErrSaveInFlight     = errors.New("a save for this date is already in progress")
	ErrMoodPending      = errors.New("mood analysis already in progress for this entry")
	ErrLoading          = errors.New("entries are still loading")
	ErrStaleSession     = errors.New("session changed while the request was in flight")
)

// Draft is the edit buffer. It is decoupled from the stored entry until saved.
type Draft struct {
	Title   string
	Content string
}

// Blank reports whether both fields are empty after trimming.
func (d Draft) Blank() bool {
	return strings.TrimSpace(d.Title) == "" && strings.TrimSpace(d.Content) == ""
}

// State is a point-in-time copy of the view model.
type State struct {
	UserID       string
	Entries      []entry.JournalEntry
	SelectedDate string
	Current      *entry.JournalEntry
	Draft        Draft
	Editing      bool
	Loading      bool
	Saving       bool
	MoodPending  bool
	SearchQuery  string
	Err          error
}

// EntryViewModel owns the in-memory journal for one session.
//
// The mutex guards state only; it is never held across store or analyzer
// calls, so a front end can read Snapshot while a save or analysis runs.
type EntryViewModel struct {
	store    storage.EntryStore
	analyzer mood.Analyzer
	logger   *zap.Logger
	now      func() time.Time

	mu          sync.Mutex
	generation  uint64
	userID      string
	entries     []entry.JournalEntry
	selected    string
	draft       Draft
	editing     bool
	loading     bool
	saving      map[string]bool // by day key
	moodPending map[string]bool // by entry ID
	query       string
	lastErr     error
}

// Option configures an EntryViewModel.
type Option func(*EntryViewModel)

// WithClock overrides the clock used to pick the initial selected date.
func WithClock(now func() time.Time) Option {
	return func(vm *EntryViewModel) { vm.now = now }
}

// New creates a view model. The selected date starts at today.
func New(store storage.EntryStore, analyzer mood.Analyzer, logger *zap.Logger, opts ...Option) *EntryViewModel {
	if logger == nil {
		logger = zap.NewNop()
	}
	vm := &EntryViewModel{
		store:       store,
		analyzer:    analyzer,
		logger:      logger,
		now:         time.Now,
		saving:      map[string]bool{},
		moodPending: map[string]bool{},
	}
	for _, opt := range opts {
		opt(vm)
	}
	vm.selected = entry.DayKey(vm.now())
	return vm
}

// report records err as the last error and logs it. Callers hold mu.
func (vm *EntryViewModel) report(op string, err error) error {
	vm.lastErr = err
	vm.logger.Warn(op+" failed", zap.String("user_id", vm.userID), zap.Error(err))
	return err
}

// Initialize loads every entry owned by userID with one bulk read. On
// failure the collection stays empty, loading clears, and the error is
// reported. It is never retried automatically.
func (vm *EntryViewModel) Initialize(ctx context.Context, userID string) error {
	vm.mu.Lock()
	if strings.TrimSpace(userID) == "" {
		err := vm.report("initialize", ErrNotAuthenticated)
		vm.mu.Unlock()
		return err
	}
	if vm.loading {
		vm.mu.Unlock()
		return ErrLoading
	}
	vm.generation++
	gen := vm.generation
	vm.userID = userID
	vm.entries = nil
	vm.loading = true
	vm.lastErr = nil
	vm.mu.Unlock()

	entries, err := vm.store.ListEntries(ctx, userID)

	vm.mu.Lock()
	defer vm.mu.Unlock()
	if gen != vm.generation {
		return ErrStaleSession
	}
	vm.loading = false
	if err != nil {
		vm.entries = nil
		vm.entriesUpdated()
		return vm.report("initialize", fmt.Errorf("loading entries: %w", err))
	}
	vm.logger.Debug("entries loaded", zap.String("user_id", userID), zap.Int("count", len(entries)))
	vm.entries = entries
	vm.entriesUpdated()
	return nil
}

// Reset clears all session state, as on sign-out. Responses still in flight
// for the old session are discarded when they arrive.
func (vm *EntryViewModel) Reset() {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.generation++
	vm.userID = ""
	vm.entries = nil
	vm.selected = entry.DayKey(vm.now())
	vm.draft = Draft{}
	vm.editing = false
	vm.loading = false
	vm.saving = map[string]bool{}
	vm.moodPending = map[string]bool{}
	vm.query = ""
	vm.lastErr = nil
}

// EntriesUpdated replaces the collection, e.g. after a manual refresh, and
// reconciles the current entry and draft.
func (vm *EntryViewModel) EntriesUpdated(entries []entry.JournalEntry) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.entries = append([]entry.JournalEntry(nil), entries...)
	vm.entriesUpdated()
}

// entriesUpdated refreshes the draft from the current entry unless the user
// is editing. Callers hold mu.
func (vm *EntryViewModel) entriesUpdated() {
	if vm.editing {
		return
	}
	vm.draft = draftOf(vm.currentIndex(), vm.entries)
}

// currentIndex returns the index of the first entry dated on the selected
// day, or -1. Callers hold mu.
func (vm *EntryViewModel) currentIndex() int {
	return indexByDate(vm.entries, vm.selected)
}

func indexByDate(entries []entry.JournalEntry, day string) int {
	for i := range entries {
		if entry.SameDay(entries[i].Date, day) {
			return i
		}
	}
	return -1
}

func indexByID(entries []entry.JournalEntry, id string) int {
	for i := range entries {
		if entries[i].ID == id {
			return i
		}
	}
	return -1
}

func draftOf(idx int, entries []entry.JournalEntry) Draft {
	if idx < 0 {
		return Draft{}
	}
	return Draft{Title: entries[idx].Title, Content: entries[idx].Content}
}

// SelectDate moves the selection to day ("2006-01-02"; timestamps are
// reduced to their day). While editing, the draft is left untouched.
func (vm *EntryViewModel) SelectDate(day string) error {
	key := entry.NormalizeDayKey(day)
	if _, err := entry.ParseDay(key); err != nil {
		return err
	}
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.selected = key
	vm.entriesUpdated()
	return nil
}

// SelectDay is SelectDate for a time value.
func (vm *EntryViewModel) SelectDay(t time.Time) {
	_ = vm.SelectDate(entry.DayKey(t))
}

// ShiftSelection moves the selected date by days.
func (vm *EntryViewModel) ShiftSelection(days int) {
	vm.mu.Lock()
	cur, err := entry.ParseDay(vm.selected)
	vm.mu.Unlock()
	if err != nil {
		cur = entry.NormalizeDate(vm.now())
	}
	vm.SelectDay(cur.AddDate(0, 0, days))
}

// BeginEdit enters editing mode, starting from the current draft.
func (vm *EntryViewModel) BeginEdit() {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.editing = true
}

// CancelEdit leaves editing mode and restores the draft from the current
// entry. Calling it again has no further effect.
func (vm *EntryViewModel) CancelEdit() {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.editing = false
	vm.entriesUpdated()
}

// SetDraft replaces the edit buffer.
func (vm *EntryViewModel) SetDraft(d Draft) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.draft = d
}

// SetDraftTitle replaces the draft title.
func (vm *EntryViewModel) SetDraftTitle(title string) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.draft.Title = title
}

// SetDraftContent replaces the draft content.
func (vm *EntryViewModel) SetDraftContent(content string) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.draft.Content = content
}

// Save commits the draft for the selected date, updating the current entry
// or inserting a new one. A blank draft is a silent no-op that returns
// (nil, nil). On failure local state is unchanged and the draft is kept.
func (vm *EntryViewModel) Save(ctx context.Context) (*entry.JournalEntry, error) {
	vm.mu.Lock()
	if vm.userID == "" {
		err := vm.report("save", ErrNotAuthenticated)
		vm.mu.Unlock()
		return nil, err
	}
	if vm.draft.Blank() {
		vm.mu.Unlock()
		return nil, nil
	}
	day := vm.selected
	if vm.saving[day] {
		vm.mu.Unlock()
		return nil, ErrSaveInFlight
	}
	title := strings.TrimSpace(vm.draft.Title)
	content := strings.TrimSpace(vm.draft.Content)
	userID := vm.userID
	gen := vm.generation
	var existingID string
	if idx := vm.currentIndex(); idx >= 0 {
		existingID = vm.entries[idx].ID
	}
	vm.saving[day] = true
	vm.mu.Unlock()

	var (
		saved entry.JournalEntry
		err   error
	)
	if existingID != "" {
		saved, err = vm.store.UpdateEntry(ctx, existingID, userID, entry.ContentPatch(title, content))
	} else {
		saved, err = vm.store.InsertEntry(ctx, entry.Record{UserID: userID, Date: day, Title: title, Content: content})
	}

	vm.mu.Lock()
	defer vm.mu.Unlock()
	if gen != vm.generation {
		return nil, ErrStaleSession
	}
	delete(vm.saving, day)
	if err != nil {
		return nil, vm.report("save", fmt.Errorf("saving entry for %s: %w", day, err))
	}

	if idx := indexByID(vm.entries, saved.ID); idx >= 0 {
		vm.entries[idx] = saved
	} else {
		vm.entries = append([]entry.JournalEntry{saved}, vm.entries...)
	}
	if entry.SameDay(vm.selected, day) {
		vm.editing = false
	}
	vm.entriesUpdated()
	vm.lastErr = nil
	vm.logger.Info("entry saved", zap.String("user_id", userID), zap.String("entry_id", saved.ID), zap.String("date", day))

	out := saved
	return &out, nil
}

// RequestMoodAnalysis sends the current entry's content to the analyzer and
// stores the resulting mood and summary. Only those two fields change. The
// patch applies to the entry by ID, even if the selection has moved on.
func (vm *EntryViewModel) RequestMoodAnalysis(ctx context.Context) (entry.JournalEntry, error) {
	vm.mu.Lock()
	if vm.userID == "" {
		err := vm.report("mood analysis", ErrNotAuthenticated)
		vm.mu.Unlock()
		return entry.JournalEntry{}, err
	}
	idx := vm.currentIndex()
	if idx < 0 {
		err := vm.report("mood analysis", ErrNoEntry)
		vm.mu.Unlock()
		return entry.JournalEntry{}, err
	}
	target := vm.entries[idx]
	if strings.TrimSpace(target.Content) == "" {
		err := vm.report("mood analysis", ErrEmptyContent)
		vm.mu.Unlock()
		return entry.JournalEntry{}, err
	}
	if vm.moodPending[target.ID] {
		vm.mu.Unlock()
		return entry.JournalEntry{}, ErrMoodPending
	}
	vm.moodPending[target.ID] = true
	userID := vm.userID
	gen := vm.generation
	vm.mu.Unlock()

	result, err := vm.analyze(ctx, target.Content)
	if err == nil {
		_, err = vm.store.UpdateEntry(ctx, target.ID, userID, entry.MoodPatch(result.Mood, result.Summary))
	}

	vm.mu.Lock()
	defer vm.mu.Unlock()
	if gen != vm.generation {
		return entry.JournalEntry{}, ErrStaleSession
	}
	delete(vm.moodPending, target.ID)
	if err != nil {
		return entry.JournalEntry{}, vm.report("mood analysis", err)
	}

	i := indexByID(vm.entries, target.ID)
	if i < 0 {
		// The collection was replaced while the request ran; the store has it.
		return entry.JournalEntry{}, nil
	}
	vm.entries[i] = entry.MoodPatch(result.Mood, result.Summary).Apply(vm.entries[i])
	vm.entriesUpdated()
	vm.lastErr = nil
	vm.logger.Info("mood recorded", zap.String("entry_id", target.ID), zap.String("mood", string(result.Mood)))
	return vm.entries[i], nil
}

func (vm *EntryViewModel) analyze(ctx context.Context, text string) (mood.Analysis, error) {
	if vm.analyzer == nil {
		return mood.Analysis{}, fmt.Errorf("%w: no analyzer configured", mood.ErrUpstream)
	}
	res, err := vm.analyzer.Analyze(ctx, text)
	if err != nil {
		return mood.Analysis{}, fmt.Errorf("analyzing mood: %w", err)
	}
	if strings.TrimSpace(res.Summary) == "" {
		return mood.Analysis{}, ErrEmptySummary
	}
	if m, ok := entry.ParseMood(string(res.Mood)); ok {
		res.Mood = m
	} else {
		res.Mood = entry.MoodNeutral
	}
	return res, nil
}

// FilteredEntries returns the entries whose title or content contains query,
// case-insensitively. An empty query returns every entry in order.
func (vm *EntryViewModel) FilteredEntries(query string) []entry.JournalEntry {
	vm.mu.Lock()
	entries := vm.entries
	vm.mu.Unlock()
	return Filter(entries, query)
}

// SetSearchQuery records the active search.
func (vm *EntryViewModel) SetSearchQuery(q string) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.query = q
}

// SearchResults is FilteredEntries for the active search query.
func (vm *EntryViewModel) SearchResults() []entry.JournalEntry {
	vm.mu.Lock()
	q := vm.query
	vm.mu.Unlock()
	return vm.FilteredEntries(q)
}

// Filter is the pure form of FilteredEntries. It never modifies entries.
func Filter(entries []entry.JournalEntry, query string) []entry.JournalEntry {
	out := make([]entry.JournalEntry, 0, len(entries))
	if query == "" {
		return append(out, entries...)
	}
	q := strings.ToLower(query)
	for _, e := range entries {
		if strings.Contains(strings.ToLower(e.Title), q) || strings.Contains(strings.ToLower(e.Content), q) {
			out = append(out, e)
		}
	}
	return out
}

// MoodIcon maps a mood label to its glyph; absent or unknown labels are neutral.
func MoodIcon(m entry.Mood) string {
	return entry.MoodIcon(m)
}

// Snapshot returns a copy of the current state.
func (vm *EntryViewModel) Snapshot() State {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	s := State{
		UserID:       vm.userID,
		Entries:      append([]entry.JournalEntry(nil), vm.entries...),
		SelectedDate: vm.selected,
		Draft:        vm.draft,
		Editing:      vm.editing,
		Loading:      vm.loading,
		Saving:       vm.saving[vm.selected],
		SearchQuery:  vm.query,
		Err:          vm.lastErr,
	}
	if idx := vm.currentIndex(); idx >= 0 {
		cur := vm.entries[idx]
		s.Current = &cur
		s.MoodPending = vm.moodPending[cur.ID]
	}
	return s
}

// Current returns the entry for the selected date, if any.
func (vm *EntryViewModel) Current() (entry.JournalEntry, bool) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if idx := vm.currentIndex(); idx >= 0 {
		return vm.entries[idx], true
	}
	return entry.JournalEntry{}, false
}

// Entries returns a copy of the collection in store order.
func (vm *EntryViewModel) Entries() []entry.JournalEntry {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return append([]entry.JournalEntry(nil), vm.entries...)
}

// EntryFor returns the entry dated on day, if any.
func (vm *EntryViewModel) EntryFor(day string) (entry.JournalEntry, bool) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if idx := indexByDate(vm.entries, day); idx >= 0 {
		return vm.entries[idx], true
	}
	return entry.JournalEntry{}, false
}

// ClearError forgets the last reported error.
func (vm *EntryViewModel) ClearError() {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.lastErr = nil
}
