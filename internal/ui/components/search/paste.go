package search

import (
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
)

// readClipboard is replaced in tests.
var readClipboard = clipboard.ReadAll

// pasteMsg carries clipboard text to the control that asked for it.
type pasteMsg struct {
	id   int
	text string
}

func (m Model[T]) paste() tea.Cmd {
	id := m.id
	return func() tea.Msg {
		text, err := readClipboard()
		if err != nil || text == "" {
			return nil
		}
		return pasteMsg{id: id, text: text}
	}
}

// insert puts text at the cursor as if it had been typed.
func (m Model[T]) insert(text string) (Model[T], tea.Cmd) {
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return m, nil
	}
	value := []rune(m.input.Value())
	pos := min(m.input.Position(), len(value))
	ins := []rune(text)

	next := make([]rune, 0, len(value)+len(ins))
	next = append(next, value[:pos]...)
	next = append(next, ins...)
	next = append(next, value[pos:]...)

	m.input.SetValue(string(next))
	m.input.SetCursor(pos + len(ins))
	m.focus = PartInput
	return m.inputChanged()
}
