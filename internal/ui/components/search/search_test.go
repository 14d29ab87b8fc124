package search

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type selectCall struct {
	item string
	ok   bool
}

type recorder struct {
	selects []selectCall
	queries []string
}

func (r *recorder) onSelect(item string, ok bool) tea.Cmd {
	r.selects = append(r.selects, selectCall{item, ok})
	return nil
}

func (r *recorder) onQueryChange(q string) tea.Cmd {
	r.queries = append(r.queries, q)
	return nil
}

func identity(s string) string { return s }

func newControl(rec *recorder, candidates []string, mutate ...func(*Options[string])) Model[string] {
	opts := Options[string]{
		Candidates:    candidates,
		DisplayText:   identity,
		Delay:         time.Millisecond,
		Autofocus:     true,
		CursorMode:    cursor.CursorStatic,
		OnSelect:      rec.onSelect,
		OnQueryChange: rec.onQueryChange,
	}
	for _, fn := range mutate {
		fn(&opts)
	}
	return New(opts)
}

var (
	keyDown      = tea.KeyMsg{Type: tea.KeyDown}
	keyUp        = tea.KeyMsg{Type: tea.KeyUp}
	keyTab       = tea.KeyMsg{Type: tea.KeyTab}
	keyShiftTab  = tea.KeyMsg{Type: tea.KeyShiftTab}
	keyEnter     = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc       = tea.KeyMsg{Type: tea.KeyEsc}
	keyBackspace = tea.KeyMsg{Type: tea.KeyBackspace}
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// drain runs cmd and every command batched inside it.
func drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, drain(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

// settle feeds every message produced by cmd back into m until quiet.
func settle(m Model[string], cmd tea.Cmd) Model[string] {
	for _, msg := range drain(cmd) {
		var next tea.Cmd
		m, next = m.Update(msg)
		m = settle(m, next)
	}
	return m
}

func typeAndSettle(m Model[string], s string) Model[string] {
	m, cmd := m.Update(runes(s))
	return settle(m, cmd)
}

func press(m Model[string], msg tea.KeyMsg) Model[string] {
	m, cmd := m.Update(msg)
	return settle(m, cmd)
}

func matchesOf(t *testing.T, m Model[string]) []string {
	t.Helper()
	got, ok := m.Matches()
	require.True(t, ok, "matches absent")
	return got
}

func TestFilterIsCaseInsensitiveSubstring(t *testing.T) {
	candidates := []string{"Banana", "Apple", "pineapple"}

	tests := []struct {
		query string
		want  []string
	}{
		{"AN", []string{"Banana"}},
		{"PPLE", []string{"Apple", "pineapple"}},
		{"NEA", []string{"pineapple"}},
		{"aple", []string{}},
		{"", []string{"Banana", "Apple", "pineapple"}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got := Filter(candidates, tt.query, identity)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTypingOpensPanelAfterDebounce(t *testing.T) {
	rec := &recorder{}
	m := newControl(rec, []string{"Banana", "Apple", "pineapple"})

	m, cmd := m.Update(runes("an"))
	assert.Equal(t, "an", m.Value())
	assert.False(t, m.Open(), "panel opened before the quiet period")
	_, ok := m.Matches()
	assert.False(t, ok)

	m = settle(m, cmd)
	assert.True(t, m.Open())
	assert.Equal(t, []string{"Banana"}, matchesOf(t, m))
	idx, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, 0, idx)
	assert.Equal(t, []string{"an"}, rec.queries)
}

func TestDebounceEvaluatesOnlyLatestQuery(t *testing.T) {
	rec := &recorder{}
	m := newControl(rec, []string{"apple", "apricot", "banana"})

	m, first := m.Update(runes("a"))
	m, second := m.Update(runes("p"))
	m, third := m.Update(runes("r"))

	// Older ticks arrive first and must be ignored.
	m = settle(m, first)
	assert.False(t, m.Open())
	m = settle(m, second)
	assert.False(t, m.Open())

	m = settle(m, third)
	assert.True(t, m.Open())
	assert.Equal(t, []string{"apricot"}, matchesOf(t, m))
	assert.Equal(t, []string{"a", "ap", "apr"}, rec.queries)
}

func TestClearingQueryBypassesDebounce(t *testing.T) {
	rec := &recorder{}
	m := newControl(rec, []string{"apple"})
	m = typeAndSettle(m, "ap")
	require.True(t, m.Open())

	m, pending := m.Update(runes("p"))
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlU})
	assert.Nil(t, drain(cmd), "clearing scheduled an evaluation")

	assert.Equal(t, "", m.Value())
	assert.False(t, m.Open())
	_, ok := m.Matches()
	assert.False(t, ok)
	_, ok = m.Selected()
	assert.False(t, ok)

	// The tick scheduled for "app" still arrives; it must not reopen.
	m = settle(m, pending)
	assert.False(t, m.Open())
	_, ok = m.Matches()
	assert.False(t, ok)
	assert.Equal(t, []string{"ap", "app", ""}, rec.queries)
}

func TestArrowKeysWrapAround(t *testing.T) {
	rec := &recorder{}
	m := newControl(rec, []string{"ant", "bat", "cat"})
	m = typeAndSettle(m, "a")
	require.Len(t, matchesOf(t, m), 3)

	m = press(m, keyDown)
	m = press(m, keyDown)
	idx, _ := m.Selected()
	require.Equal(t, 2, idx)

	m = press(m, keyDown)
	idx, _ = m.Selected()
	assert.Equal(t, 0, idx)

	m = press(m, keyUp)
	idx, _ = m.Selected()
	assert.Equal(t, 2, idx)
}

func TestTabNavigatesWhileOpen(t *testing.T) {
	rec := &recorder{}
	m := newControl(rec, []string{"ant", "bat", "cat"})

	assert.False(t, m.WantsKey(keyTab), "tab captured with panel closed")

	m = typeAndSettle(m, "a")
	assert.True(t, m.WantsKey(keyTab))
	assert.True(t, m.WantsKey(keyShiftTab))

	m = press(m, keyTab)
	idx, _ := m.Selected()
	assert.Equal(t, 1, idx)

	m = press(m, keyShiftTab)
	m = press(m, keyShiftTab)
	idx, _ = m.Selected()
	assert.Equal(t, 2, idx)
	assert.True(t, m.Focused())
}

func TestArrowFromNoSelection(t *testing.T) {
	rec := &recorder{}
	m := newControl(rec, []string{"ant", "bat"})
	m = typeAndSettle(m, "a")
	m.selected = -1

	down := press(m, keyDown)
	idx, _ := down.Selected()
	assert.Equal(t, 0, idx)

	up := press(m, keyUp)
	idx, _ = up.Selected()
	assert.Equal(t, 1, idx)
}

func TestEnterWithClosedPanelSelectsNothing(t *testing.T) {
	for _, query := range []string{"", "anything"} {
		t.Run(query, func(t *testing.T) {
			rec := &recorder{}
			m := newControl(rec, []string{"apple"}, func(o *Options[string]) {
				o.InitialQuery = query
			})
			require.False(t, m.Open())
			assert.True(t, m.WantsKey(keyEnter))

			m = press(m, keyEnter)
			require.Len(t, rec.selects, 1)
			assert.Equal(t, selectCall{"", false}, rec.selects[0])
		})
	}
}

func TestEnterSelectsHighlightedMatch(t *testing.T) {
	rec := &recorder{}
	m := newControl(rec, []string{"Apple", "pineapple"})
	m = typeAndSettle(m, "PPLE")
	m = press(m, keyDown)

	m = press(m, keyEnter)
	require.Equal(t, []selectCall{{"pineapple", true}}, rec.selects)
	assert.Equal(t, []string{"PPLE", "pineapple"}, rec.queries)
	assert.Equal(t, "pineapple", m.Value())
	assert.False(t, m.Open())
	_, ok := m.Matches()
	assert.False(t, ok)
	_, ok = m.Selected()
	assert.False(t, ok)
}

func TestEnterOnEmptyResultsOnlyCloses(t *testing.T) {
	rec := &recorder{}
	m := newControl(rec, []string{"apple"})
	m = typeAndSettle(m, "zzz")
	require.True(t, m.Open())
	assert.Empty(t, matchesOf(t, m))
	assert.Contains(t, m.View(), defaultNoResults)

	m = press(m, keyEnter)
	assert.False(t, m.Open())
	assert.Empty(t, rec.selects)
}

func TestEscapeClosesWithoutClearing(t *testing.T) {
	rec := &recorder{}
	m := newControl(rec, []string{"ant", "bat"})
	m = typeAndSettle(m, "a")
	m = press(m, keyDown)
	require.True(t, m.WantsKey(keyEsc))

	m = press(m, keyEsc)
	assert.False(t, m.Open())
	assert.Equal(t, "a", m.Value())
	assert.Equal(t, []string{"ant", "bat"}, matchesOf(t, m))
	idx, _ := m.Selected()
	assert.Equal(t, 1, idx)
	assert.False(t, m.WantsKey(keyEsc))
}

func TestStaleLookupIsDiscarded(t *testing.T) {
	rec := &recorder{}
	results := map[string][]string{
		"a":  {"R1"},
		"ab": {"R2"},
	}
	eval := EvaluatorFunc[string](func(q string) Evaluation[string] {
		return Evaluation[string]{Fetch: func(ctx context.Context) ([]string, error) {
			return results[q], nil
		}}
	})
	m := newControl(rec, nil, func(o *Options[string]) { o.Evaluator = eval })

	m, cmd := m.Update(runes("a"))
	msgs := drain(cmd)
	require.Len(t, msgs, 1)
	m, lookup1 := m.Update(msgs[0])
	require.NotNil(t, lookup1)

	m, cmd = m.Update(runes("b"))
	msgs = drain(cmd)
	require.Len(t, msgs, 1)
	m, lookup2 := m.Update(msgs[0])
	require.NotNil(t, lookup2)

	m = settle(m, lookup2)
	assert.Equal(t, []string{"R2"}, matchesOf(t, m))

	m = settle(m, lookup1)
	assert.Equal(t, []string{"R2"}, matchesOf(t, m))
	assert.True(t, m.Open())
}

func TestFailedLookupKeepsPanelClosed(t *testing.T) {
	rec := &recorder{}
	fail := false
	eval := EvaluatorFunc[string](func(q string) Evaluation[string] {
		return Evaluation[string]{Fetch: func(ctx context.Context) ([]string, error) {
			if fail {
				return nil, errors.New("backend down")
			}
			return []string{"x:" + q}, nil
		}}
	})
	m := newControl(rec, nil, func(o *Options[string]) { o.Evaluator = eval })

	m = typeAndSettle(m, "a")
	require.Equal(t, []string{"x:a"}, matchesOf(t, m))

	fail = true
	m = typeAndSettle(m, "b")
	assert.False(t, m.Open())
	assert.Equal(t, []string{"x:a"}, matchesOf(t, m), "failed lookup replaced matches")
	assert.Equal(t, "ab", m.Value())

	// Still interactive.
	m = press(m, keyBackspace)
	assert.Equal(t, "a", m.Value())
}

func TestPanickingLookupDoesNotCrash(t *testing.T) {
	rec := &recorder{}
	eval := EvaluatorFunc[string](func(q string) Evaluation[string] {
		return Evaluation[string]{Fetch: func(ctx context.Context) ([]string, error) {
			panic("boom")
		}}
	})
	m := newControl(rec, nil, func(o *Options[string]) { o.Evaluator = eval })

	assert.NotPanics(t, func() { m = typeAndSettle(m, "a") })
	assert.False(t, m.Open())
}

func TestSynchronousEvaluator(t *testing.T) {
	rec := &recorder{}
	eval := EvaluatorFunc[string](func(q string) Evaluation[string] {
		return Evaluation[string]{Matches: []string{q + "!"}}
	})
	m := newControl(rec, nil, func(o *Options[string]) { o.Evaluator = eval })

	m = typeAndSettle(m, "hi")
	assert.True(t, m.Open())
	assert.Equal(t, []string{"hi!"}, matchesOf(t, m))
}

func TestFocusInsideControlKeepsPanelOpen(t *testing.T) {
	rec := &recorder{}
	m := newControl(rec, []string{"ant", "bat"})
	m = typeAndSettle(m, "a")
	require.True(t, m.Open())

	m, _ = m.FocusChanged(m.ResultsTarget())
	assert.True(t, m.Open())
	assert.True(t, m.Focused())

	m, _ = m.FocusChanged(m.InputTarget())
	assert.True(t, m.Open())
}

func TestFocusLeavingControlClosesAndCancels(t *testing.T) {
	rec := &recorder{}
	m := newControl(rec, []string{"ant", "bat", "tab"})
	other := newControl(&recorder{}, nil)
	m = typeAndSettle(m, "a")
	require.True(t, m.Open())

	m, pending := m.Update(runes("t"))
	m, _ = m.FocusChanged(other.InputTarget())
	assert.False(t, m.Open())
	assert.False(t, m.Focused())

	m = settle(m, pending)
	assert.False(t, m.Open())
	assert.Equal(t, []string{"ant", "bat", "tab"}, matchesOf(t, m), "cancelled evaluation ran")
}

func TestBlurDiscardsInFlightLookup(t *testing.T) {
	rec := &recorder{}
	eval := EvaluatorFunc[string](func(q string) Evaluation[string] {
		return Evaluation[string]{Fetch: func(ctx context.Context) ([]string, error) {
			return []string{q}, nil
		}}
	})
	m := newControl(rec, nil, func(o *Options[string]) { o.Evaluator = eval })

	m, cmd := m.Update(runes("a"))
	msgs := drain(cmd)
	require.Len(t, msgs, 1)
	m, lookup := m.Update(msgs[0])

	m = m.Blur()
	m = settle(m, lookup)
	assert.False(t, m.Open())
	_, ok := m.Matches()
	assert.False(t, ok)
}

func TestRefocusReopensCurrentMatches(t *testing.T) {
	rec := &recorder{}
	m := newControl(rec, []string{"ant", "bat"})
	m = typeAndSettle(m, "a")
	m = m.Blur()
	require.False(t, m.Open())

	m, _ = m.Focus()
	assert.True(t, m.Open())
}

func TestFocusWithoutMatchesDoesNotEvaluate(t *testing.T) {
	rec := &recorder{}
	m := newControl(rec, []string{"ant"}, func(o *Options[string]) {
		o.InitialQuery = "an"
		o.Autofocus = false
	})
	assert.False(t, m.Focused())

	m, cmd := m.Focus()
	m = settle(m, cmd)
	assert.True(t, m.Focused())
	assert.False(t, m.Open())
	_, ok := m.Matches()
	assert.False(t, ok)
}

func TestUnfocusedControlIgnoresKeys(t *testing.T) {
	rec := &recorder{}
	m := newControl(rec, []string{"ant"}, func(o *Options[string]) { o.Autofocus = false })

	m = press(m, runes("a"))
	m = press(m, keyEnter)
	assert.Equal(t, "", m.Value())
	assert.Empty(t, rec.selects)
	assert.False(t, m.WantsKey(keyEnter))
}

func TestClickSelectsRow(t *testing.T) {
	rec := &recorder{}
	m := newControl(rec, []string{"ant", "bat", "cat"})
	m = typeAndSettle(m, "a")

	click := tea.MouseMsg{X: 4, Y: resultsTop + 1, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
	m, cmd := m.Update(click)
	m = settle(m, cmd)

	require.Equal(t, []selectCall{{"bat", true}}, rec.selects)
	assert.Equal(t, "bat", m.Value())
	assert.False(t, m.Open())
}

func TestClickOutsideRowsIsIgnored(t *testing.T) {
	rec := &recorder{}
	m := newControl(rec, []string{"ant"})
	m = typeAndSettle(m, "a")

	for _, y := range []int{0, 1, resultsTop + 1} {
		click := tea.MouseMsg{X: 4, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
		m, _ = m.Update(click)
	}
	assert.Empty(t, rec.selects)
	assert.True(t, m.Open())
}

func TestClickOnInputReturnsFocusFromResults(t *testing.T) {
	rec := &recorder{}
	m := newControl(rec, []string{"ant", "bat"})
	m = typeAndSettle(m, "a")

	m, _ = m.FocusChanged(m.ResultsTarget())
	require.Equal(t, PartResults, m.focus)

	click := tea.MouseMsg{X: 1, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
	m, _ = m.Update(click)
	assert.Equal(t, PartInput, m.focus)
	assert.True(t, m.Open(), "internal focus move closed the panel")
	assert.Empty(t, rec.selects)
}

func TestClickOnInputFocusesControl(t *testing.T) {
	rec := &recorder{}
	m := newControl(rec, []string{"ant"}, func(o *Options[string]) { o.Autofocus = false })

	click := tea.MouseMsg{X: 1, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
	m, _ = m.Update(click)
	assert.True(t, m.Focused())
	assert.False(t, m.Open())
}

func stubClipboard(t *testing.T, text string, err error) {
	t.Helper()
	orig := readClipboard
	readClipboard = func() (string, error) { return text, err }
	t.Cleanup(func() { readClipboard = orig })
}

func TestPasteRunsInputTransition(t *testing.T) {
	stubClipboard(t, "APPLE", nil)
	rec := &recorder{}
	m := newControl(rec, []string{"Banana", "Apple", "pineapple"})

	m = press(m, tea.KeyMsg{Type: tea.KeyCtrlV})

	assert.Equal(t, "APPLE", m.Value())
	assert.Equal(t, []string{"APPLE"}, rec.queries)
	assert.True(t, m.Open())
	assert.Equal(t, []string{"Apple", "pineapple"}, matchesOf(t, m))
}

func TestPasteAtCursorRefreshesOpenPanel(t *testing.T) {
	stubClipboard(t, "apple\n", nil)
	rec := &recorder{}
	m := newControl(rec, []string{"Banana", "Apple", "pineapple", "pinecone"})
	m = typeAndSettle(m, "pine")
	require.Equal(t, []string{"pineapple", "pinecone"}, matchesOf(t, m))

	m = press(m, tea.KeyMsg{Type: tea.KeyCtrlV})

	assert.Equal(t, "pineapple", m.Value())
	assert.Equal(t, []string{"pine", "pineapple"}, rec.queries)
	assert.Equal(t, []string{"pineapple"}, matchesOf(t, m))
	assert.True(t, m.Open())
}

func TestPasteFailureChangesNothing(t *testing.T) {
	stubClipboard(t, "", errors.New("no clipboard"))
	rec := &recorder{}
	m := newControl(rec, []string{"ant"})
	m = typeAndSettle(m, "a")

	m = press(m, tea.KeyMsg{Type: tea.KeyCtrlV})
	assert.Equal(t, "a", m.Value())
	assert.Equal(t, []string{"a"}, rec.queries)
	assert.True(t, m.Open())
}

func TestPasteForOtherControlIsIgnored(t *testing.T) {
	rec := &recorder{}
	m := newControl(rec, []string{"ant"})

	m, cmd := m.Update(pasteMsg{id: m.ID() + 1000, text: "ant"})
	assert.Nil(t, cmd)
	assert.Equal(t, "", m.Value())
	assert.Empty(t, rec.queries)
}

func TestCandidateChangeRefiltersImmediately(t *testing.T) {
	rec := &recorder{}
	m := newControl(rec, []string{"apple"})
	m = typeAndSettle(m, "an")
	require.Empty(t, matchesOf(t, m))

	m, cmd := m.SetCandidates([]string{"banana", "mango", "kiwi"})
	assert.Nil(t, cmd)
	assert.True(t, m.Open())
	assert.Equal(t, []string{"banana", "mango"}, matchesOf(t, m))
	idx, _ := m.Selected()
	assert.Equal(t, 0, idx)
}

func TestCandidateChangeWithEmptyQuery(t *testing.T) {
	rec := &recorder{}
	m := newControl(rec, []string{"apple"})

	m, cmd := m.SetCandidates([]string{"banana"})
	assert.Nil(t, cmd)
	assert.False(t, m.Open())
	_, ok := m.Matches()
	assert.False(t, ok)
}

func TestCloseIgnoresLateResults(t *testing.T) {
	rec := &recorder{}
	eval := EvaluatorFunc[string](func(q string) Evaluation[string] {
		return Evaluation[string]{Fetch: func(ctx context.Context) ([]string, error) {
			<-ctx.Done()
			return []string{"late"}, ctx.Err()
		}}
	})
	m := newControl(rec, nil, func(o *Options[string]) { o.Evaluator = eval })

	m, cmd := m.Update(runes("a"))
	m, pending := m.Update(runes("b"))
	msgs := drain(pending)
	require.Len(t, msgs, 1)
	m, lookup := m.Update(msgs[0])

	m = m.Close()
	assert.True(t, m.Closed())

	// The cancelled context unblocks the lookup.
	m = settle(m, lookup)
	m = settle(m, cmd)
	m = press(m, keyEnter)

	assert.False(t, m.Open())
	_, ok := m.Matches()
	assert.False(t, ok)
	assert.Empty(t, rec.selects)
	assert.Equal(t, []string{"a", "ab"}, rec.queries)
}

func TestInitialQueryIsNotEvaluated(t *testing.T) {
	rec := &recorder{}
	m := newControl(rec, []string{"apple"}, func(o *Options[string]) { o.InitialQuery = "app" })

	assert.Equal(t, "app", m.Value())
	assert.False(t, m.Open())
	assert.Nil(t, m.Init())
	assert.Empty(t, rec.queries)
}

func TestVisibleRangeCentresSelection(t *testing.T) {
	rec := &recorder{}
	items := []string{"a0", "a1", "a2", "a3", "a4", "a5", "a6", "a7", "a8", "a9"}
	m := newControl(rec, items, func(o *Options[string]) { o.MaxVisible = 4 })
	m = typeAndSettle(m, "a")

	tests := []struct {
		selected   int
		start, end int
	}{
		{0, 0, 4},
		{1, 0, 4},
		{2, 0, 4},
		{5, 3, 7},
		{8, 6, 10},
		{9, 6, 10},
	}
	for _, tt := range tests {
		m.selected = tt.selected
		start, end := m.VisibleRange()
		assert.Equal(t, tt.start, start, "start for selected=%d", tt.selected)
		assert.Equal(t, tt.end, end, "end for selected=%d", tt.selected)
	}

	m.selected = 5
	view := m.View()
	assert.Contains(t, view, "> a5")
	assert.NotContains(t, view, "a0")
	assert.Contains(t, view, "4/10")
}

func TestWantsKeyForEditing(t *testing.T) {
	rec := &recorder{}
	m := newControl(rec, nil)

	assert.True(t, m.WantsKey(runes("x")))
	assert.True(t, m.WantsKey(keyBackspace))
	assert.False(t, m.WantsKey(tea.KeyMsg{Type: tea.KeyCtrlC}))
	assert.False(t, m.WantsKey(keyDown))
}
