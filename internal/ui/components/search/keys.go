package search

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// KeyMap defines the keys the control reacts to besides text editing.
type KeyMap struct {
	Next   key.Binding
	Prev   key.Binding
	Accept key.Binding
	Close  key.Binding
}

// DefaultKeyMap returns arrows and tab for navigation, enter and esc.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Next: key.NewBinding(
			key.WithKeys("down", "tab"),
			key.WithHelp("↓/tab", "next"),
		),
		Prev: key.NewBinding(
			key.WithKeys("up", "shift+tab"),
			key.WithHelp("↑/shift+tab", "prev"),
		),
		Accept: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Close: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Prev, k.Accept, k.Close}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// isEditKey reports whether the text input would act on msg.
func isEditKey(msg tea.KeyMsg, km textinput.KeyMap) bool {
	if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace {
		return true
	}
	return key.Matches(msg,
		km.CharacterForward,
		km.CharacterBackward,
		km.WordForward,
		km.WordBackward,
		km.DeleteWordBackward,
		km.DeleteWordForward,
		km.DeleteAfterCursor,
		km.DeleteBeforeCursor,
		km.DeleteCharacterBackward,
		km.DeleteCharacterForward,
		km.LineStart,
		km.LineEnd,
		km.Paste,
	)
}
