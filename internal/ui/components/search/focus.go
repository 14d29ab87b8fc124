package search

import tea "github.com/charmbracelet/bubbletea"

// Part is a focusable element inside a control.
type Part int

const (
	PartNone Part = iota
	PartInput
	PartResults
)

// Target names where focus is going. Owner is the ID of the control that
// owns the element, or zero for anything outside every search control.
type Target struct {
	Owner int
	Part  Part
}

// InputTarget is the control's text field.
func (m Model[T]) InputTarget() Target {
	return Target{Owner: m.id, Part: PartInput}
}

// ResultsTarget is the control's results list.
func (m Model[T]) ResultsTarget() Target {
	return Target{Owner: m.id, Part: PartResults}
}

// Contains reports whether t is inside this control.
func (m Model[T]) Contains(t Target) bool {
	return t.Owner == m.id && t.Part != PartNone
}

// FocusChanged moves focus to t. Moving between the control's own parts
// changes nothing else; leaving the control cancels the pending evaluation,
// invalidates in-flight lookups and closes the panel.
func (m Model[T]) FocusChanged(t Target) (Model[T], tea.Cmd) {
	if m.closed {
		return m, nil
	}

	if m.Contains(t) {
		wasFocused := m.focus != PartNone
		m.focus = t.Part
		if wasFocused {
			return m, nil
		}
		cmd := m.input.Focus()
		q := m.input.Value()
		if q != "" && m.hasMatches && m.matchesFor == q {
			m.open = true
		}
		return m, cmd
	}

	if m.focus == PartNone {
		return m, nil
	}
	m.focus = PartNone
	m.input.Blur()
	m.debounce.Cancel()
	m.gen++
	m.open = false
	return m, nil
}

// Focus gives the text field focus.
func (m Model[T]) Focus() (Model[T], tea.Cmd) {
	return m.FocusChanged(m.InputTarget())
}

// Blur moves focus outside the control.
func (m Model[T]) Blur() Model[T] {
	m, _ = m.FocusChanged(Target{})
	return m
}
