// Package search provides a debounced incremental search control: a text
// input with a results panel, keyboard navigation and pointer selection.
package search

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhath/foodlog/internal/debounce"
)

const (
	defaultDelay      = 300 * time.Millisecond
	defaultMaxVisible = 5
	defaultNoResults  = "No results"
)

var lastID int64

func nextID() int {
	return int(atomic.AddInt64(&lastID, 1))
}

// Options configures a control. DisplayText is required.
type Options[T any] struct {
	Candidates  []T
	DisplayText func(T) string
	// SearchText is matched against the query; defaults to DisplayText.
	SearchText func(T) string
	// Evaluator replaces local filtering when set.
	Evaluator Evaluator[T]

	InitialQuery   string
	Placeholder    string
	Prompt         string
	NoResultsLabel string
	Delay          time.Duration
	LookupTimeout  time.Duration
	MaxVisible     int
	Autofocus      bool

	// OnSelect receives the chosen item, or ok=false when enter is pressed
	// with no results panel open.
	OnSelect func(item T, ok bool) tea.Cmd
	// OnQueryChange receives every raw edit and the canonical text of a
	// chosen item.
	OnQueryChange func(query string) tea.Cmd

	Styles     *Styles
	KeyMap     *KeyMap
	CursorMode cursor.Mode
}

// resultMsg carries a delegated evaluation back to the control that asked.
type resultMsg[T any] struct {
	id      int
	gen     uint64
	query   string
	matches []T
	err     error
}

// Model is the search control state.
type Model[T any] struct {
	id     int
	input  textinput.Model
	keys   KeyMap
	styles Styles

	candidates    []T
	displayText   func(T) string
	searchText    func(T) string
	evaluator     Evaluator[T]
	onSelect      func(T, bool) tea.Cmd
	onQueryChange func(string) tea.Cmd
	noResults     string
	maxVisible    int
	lookupTimeout time.Duration
	cursorMode    cursor.Mode

	debounce debounce.Scheduler[string]
	ctx      context.Context
	cancel   context.CancelFunc

	open       bool
	matches    []T
	hasMatches bool
	matchesFor string
	selected   int
	gen        uint64
	focus      Part
	closed     bool
}

// New creates a control.
func New[T any](opts Options[T]) Model[T] {
	if opts.SearchText == nil {
		opts.SearchText = opts.DisplayText
	}
	if opts.Delay <= 0 {
		opts.Delay = defaultDelay
	}
	if opts.MaxVisible <= 0 {
		opts.MaxVisible = defaultMaxVisible
	}
	if opts.NoResultsLabel == "" {
		opts.NoResultsLabel = defaultNoResults
	}
	styles := DefaultStyles()
	if opts.Styles != nil {
		styles = *opts.Styles
	}
	keys := DefaultKeyMap()
	if opts.KeyMap != nil {
		keys = *opts.KeyMap
	}

	ti := textinput.New()
	ti.Placeholder = opts.Placeholder
	if opts.Prompt != "" {
		ti.Prompt = opts.Prompt
	}
	ti.Cursor.SetMode(opts.CursorMode)
	ti.SetValue(opts.InitialQuery)

	ctx, cancel := context.WithCancel(context.Background())

	m := Model[T]{
		id:            nextID(),
		input:         ti,
		keys:          keys,
		styles:        styles,
		candidates:    opts.Candidates,
		displayText:   opts.DisplayText,
		searchText:    opts.SearchText,
		evaluator:     opts.Evaluator,
		onSelect:      opts.OnSelect,
		onQueryChange: opts.OnQueryChange,
		noResults:     opts.NoResultsLabel,
		maxVisible:    opts.MaxVisible,
		lookupTimeout: opts.LookupTimeout,
		cursorMode:    opts.CursorMode,
		debounce:      debounce.New[string](opts.Delay),
		ctx:           ctx,
		cancel:        cancel,
		selected:      -1,
	}
	if opts.Autofocus {
		m.focus = PartInput
		m.input.Focus()
	}
	return m
}

// Init starts cursor blinking for an autofocused control.
func (m Model[T]) Init() tea.Cmd {
	if m.focus != PartNone && m.cursorMode == cursor.CursorBlink {
		return textinput.Blink
	}
	return nil
}

// ID identifies this control among others on screen.
func (m Model[T]) ID() int { return m.id }

// Value returns the raw query text.
func (m Model[T]) Value() string { return m.input.Value() }

// Open reports whether the results panel is visible.
func (m Model[T]) Open() bool { return m.open }

// Focused reports whether focus is anywhere inside the control.
func (m Model[T]) Focused() bool { return m.focus != PartNone }

// Closed reports whether the control has been torn down.
func (m Model[T]) Closed() bool { return m.closed }

// Matches returns the last result set; ok is false when no evaluation has
// produced results for the current state.
func (m Model[T]) Matches() ([]T, bool) {
	return m.matches, m.hasMatches
}

// Selected returns the highlighted index; ok is false when nothing is.
func (m Model[T]) Selected() (int, bool) {
	return m.selected, m.selected >= 0
}

// SetWidth sets the rendered width of the text field.
func (m Model[T]) SetWidth(w int) Model[T] {
	m.input.Width = max(1, w-len(m.input.Prompt)-1)
	return m
}

// SetCandidates replaces the candidate list. With an active query the
// matches are recomputed immediately against the new list.
func (m Model[T]) SetCandidates(items []T) (Model[T], tea.Cmd) {
	m.candidates = items
	if m.closed || m.input.Value() == "" {
		return m, nil
	}
	m.debounce.Cancel()
	return m.evaluate(m.input.Value())
}

// Update handles keys, mouse presses, debounce ticks and lookup results.
func (m Model[T]) Update(msg tea.Msg) (Model[T], tea.Cmd) {
	if m.closed {
		return m, nil
	}
	if query, ok := m.debounce.Fire(msg); ok {
		return m.evaluate(query)
	}

	switch msg := msg.(type) {
	case resultMsg[T]:
		return m.applyResult(msg), nil
	case pasteMsg:
		if msg.id != m.id || m.focus == PartNone {
			return m, nil
		}
		return m.insert(msg.text)
	case tea.KeyMsg:
		if m.focus == PartNone {
			return m, nil
		}
		return m.handleKey(msg)
	case tea.MouseMsg:
		return m.handleMouse(msg)
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() == before {
		return m, cmd
	}
	m.focus = PartInput
	return m.inputChanged(cmd)
}

// WantsKey reports whether the control consumes msg, so the parent must not
// act on it as well.
func (m Model[T]) WantsKey(msg tea.KeyMsg) bool {
	if m.closed || m.focus == PartNone {
		return false
	}
	switch {
	case key.Matches(msg, m.keys.Accept):
		return true
	case key.Matches(msg, m.keys.Close):
		return m.open
	case key.Matches(msg, m.keys.Next, m.keys.Prev):
		return m.navigable()
	}
	return isEditKey(msg, m.input.KeyMap)
}

func (m Model[T]) handleKey(msg tea.KeyMsg) (Model[T], tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Next):
		if m.navigable() {
			m.selected = (m.selected + 1) % len(m.matches)
		}
		return m, nil

	case key.Matches(msg, m.keys.Prev):
		if m.navigable() {
			if m.selected <= 0 {
				m.selected = len(m.matches) - 1
			} else {
				m.selected--
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.Accept):
		if !m.open {
			var zero T
			return m, m.emitSelect(zero, false)
		}
		if m.selected < 0 || m.selected >= len(m.matches) {
			m.open = false
			return m, nil
		}
		return m.choose(m.matches[m.selected])

	case key.Matches(msg, m.keys.Close):
		m.open = false
		return m, nil

	case key.Matches(msg, m.input.KeyMap.Paste):
		return m, m.paste()
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() == before {
		return m, cmd
	}
	m.focus = PartInput
	return m.inputChanged(cmd)
}

func (m Model[T]) handleMouse(msg tea.MouseMsg) (Model[T], tea.Cmd) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}
	if msg.Y == 0 {
		return m.FocusChanged(m.InputTarget())
	}
	if !m.open {
		return m, nil
	}
	row := msg.Y - resultsTop
	start, end := m.VisibleRange()
	if row < 0 || start+row >= end {
		return m, nil
	}
	var focusCmd tea.Cmd
	m, focusCmd = m.FocusChanged(m.ResultsTarget())
	m, cmd := m.SelectIndex(start + row)
	return m, tea.Batch(focusCmd, cmd)
}

// SelectIndex chooses the i-th visible match, as a click on its row does.
func (m Model[T]) SelectIndex(i int) (Model[T], tea.Cmd) {
	if m.closed || !m.open || i < 0 || i >= len(m.matches) {
		return m, nil
	}
	return m.choose(m.matches[i])
}

func (m Model[T]) inputChanged(cmds ...tea.Cmd) (Model[T], tea.Cmd) {
	text := m.input.Value()
	m.gen++
	if m.onQueryChange != nil {
		cmds = append(cmds, m.onQueryChange(text))
	}
	if text == "" {
		m.debounce.Cancel()
		m.clearMatches()
		return m, tea.Batch(cmds...)
	}
	cmds = append(cmds, m.debounce.Schedule(text))
	return m, tea.Batch(cmds...)
}

func (m Model[T]) evaluate(query string) (Model[T], tea.Cmd) {
	if query == "" || query != m.input.Value() {
		return m, nil
	}
	m.gen++
	if m.evaluator == nil {
		return m.apply(query, Filter(m.candidates, query, m.searchText)), nil
	}
	ev := m.evaluator.Evaluate(query)
	if ev.Fetch == nil {
		return m.apply(query, ev.Matches), nil
	}
	return m, m.fetch(query, ev.Fetch)
}

func (m Model[T]) fetch(query string, fn func(context.Context) ([]T, error)) tea.Cmd {
	id, gen, parent, timeout := m.id, m.gen, m.ctx, m.lookupTimeout
	return func() (msg tea.Msg) {
		defer func() {
			if r := recover(); r != nil {
				msg = resultMsg[T]{id: id, gen: gen, query: query, err: fmt.Errorf("lookup panicked: %v", r)}
			}
		}()
		ctx := parent
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(parent, timeout)
			defer cancel()
		}
		items, err := fn(ctx)
		return resultMsg[T]{id: id, gen: gen, query: query, matches: items, err: err}
	}
}

func (m Model[T]) applyResult(msg resultMsg[T]) Model[T] {
	if msg.id != m.id || msg.gen != m.gen || msg.query != m.input.Value() {
		return m
	}
	if msg.err != nil {
		m.open = false
		return m
	}
	return m.apply(msg.query, msg.matches)
}

func (m Model[T]) apply(query string, matches []T) Model[T] {
	if matches == nil {
		matches = []T{}
	}
	m.matches = matches
	m.hasMatches = true
	m.matchesFor = query
	m.open = m.focus != PartNone
	m.selected = -1
	if len(matches) > 0 {
		m.selected = 0
	}
	return m
}

func (m Model[T]) choose(item T) (Model[T], tea.Cmd) {
	cmds := []tea.Cmd{m.emitSelect(item, true)}
	canonical := m.searchText(item)
	if m.onQueryChange != nil {
		cmds = append(cmds, m.onQueryChange(canonical))
	}
	m.input.SetValue(canonical)
	m.input.CursorEnd()
	m.debounce.Cancel()
	m.gen++
	m.clearMatches()
	return m, tea.Batch(cmds...)
}

func (m Model[T]) emitSelect(item T, ok bool) tea.Cmd {
	if m.onSelect == nil {
		return nil
	}
	return m.onSelect(item, ok)
}

func (m *Model[T]) clearMatches() {
	m.matches = nil
	m.hasMatches = false
	m.matchesFor = ""
	m.selected = -1
	m.open = false
}

func (m Model[T]) navigable() bool {
	return m.open && len(m.matches) > 0
}

// Close tears the control down. Pending debounces are dropped, in-flight
// lookups see their context cancelled and nothing is applied afterwards.
func (m Model[T]) Close() Model[T] {
	if m.closed {
		return m
	}
	m.debounce.Stop()
	if m.cancel != nil {
		m.cancel()
	}
	m.gen++
	m.closed = true
	m.focus = PartNone
	m.input.Blur()
	m.clearMatches()
	return m
}
