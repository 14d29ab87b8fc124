package ui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhath/foodlog/internal/logging"
	"github.com/nhath/foodlog/internal/store"
	"github.com/nhath/foodlog/internal/tags"
	eztable "github.com/nhath/foodlog/internal/ui/components/table"
)

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case entriesLoadedMsg:
		return m.onEntriesLoaded(msg), nil

	case foodsLoadedMsg:
		return m.onFoodsLoaded(msg)

	case entryAddedMsg:
		return m.onEntryAdded(msg)

	case entryDeletedMsg:
		if msg.err != nil {
			return m.setError("delete entry", msg.err), nil
		}
		m.statusMsg = "Entry deleted"
		m.errorMsg = ""
		return m, m.loadEntriesCmd(m.day)

	case entryTaggedMsg:
		if msg.err != nil {
			return m.setError("tag entry", msg.err), nil
		}
		m.statusMsg = fmt.Sprintf("Tagged %s", msg.tag)
		m.errorMsg = ""
		m.focusEntryID = msg.entryID
		return m, m.loadEntriesCmd(m.day)

	case foodChosenMsg:
		return m.onFoodChosen(msg)

	case tagChosenMsg:
		return m.onTagChosen(msg)

	case pickerQueryMsg:
		// Edits of a dismissed picker can arrive after a new one opened.
		if msg.picker != 0 && msg.picker == m.pickerID() {
			m.pickerQuery = msg.query
		}
		return m, nil
	}

	// Debounce ticks, lookup results and cursor blinks belong to the picker.
	return m.updatePicker(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.config.Keys

	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	if m.showHelp {
		if matchKey(msg, keys.Dismiss) || matchKey(msg, keys.Help) || matchKey(msg, keys.Exit) {
			m.showHelp = false
		}
		return m, nil
	}

	if m.picker != pickerNone && m.pickerFocused {
		if m.pickerWantsKey(msg) {
			return m.updatePicker(msg)
		}
		switch {
		case matchKey(msg, keys.Focus):
			return m.focusTable(), nil
		case matchKey(msg, keys.Dismiss):
			return m.dismissPicker(), nil
		}
		return m.updatePicker(msg)
	}

	switch {
	case matchKey(msg, keys.Exit):
		return m, tea.Quit

	case matchKey(msg, keys.Help):
		m.showHelp = true
		return m, nil

	case matchKey(msg, keys.Focus):
		return m.focusPicker()

	case matchKey(msg, keys.Dismiss):
		return m.dismissPicker(), nil

	case matchKey(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m.refreshTable(), nil

	case matchKey(msg, keys.Down):
		if m.cursor < len(m.entries)-1 {
			m.cursor++
		}
		return m.refreshTable(), nil

	case matchKey(msg, keys.PrevDay):
		return m.showDay(m.day.AddDate(0, 0, -1))

	case matchKey(msg, keys.NextDay):
		return m.showDay(m.day.AddDate(0, 0, 1))

	case matchKey(msg, keys.AddFood):
		return m.openFoodPicker()

	case matchKey(msg, keys.AddTag):
		entry, ok := m.selectedEntry()
		if !ok {
			m.errorMsg = "Select an entry to tag"
			return m, nil
		}
		return m.openTagPicker(entry.ID)

	case matchKey(msg, keys.Delete):
		entry, ok := m.selectedEntry()
		if !ok {
			return m, nil
		}
		return m, m.deleteEntryCmd(entry.ID)

	case matchKey(msg, keys.Refresh):
		m.loading = true
		return m, tea.Batch(m.loadEntriesCmd(m.day), m.loadFoodsCmd())
	}

	return m, nil
}

// handleMouse routes left clicks. Coordinates are translated into the
// picker's own space; a click elsewhere moves focus back to the log.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.picker == pickerNone || msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}

	local := msg
	local.X -= pickerOriginX
	local.Y -= pickerOriginY
	if !m.pickerContains(local.X, local.Y) {
		if m.pickerFocused {
			m = m.focusTable()
		}
		return m, nil
	}

	var focusCmd tea.Cmd
	if !m.pickerFocused {
		m, focusCmd = m.focusPicker()
	}
	m, cmd := m.updatePicker(local)
	return m, tea.Batch(focusCmd, cmd)
}

func (m Model) onEntriesLoaded(msg entriesLoadedMsg) Model {
	if !msg.day.Equal(m.day) {
		return m
	}
	m.loading = false
	if msg.err != nil {
		return m.setError("load entries", msg.err)
	}

	m.entries = msg.entries
	if m.focusEntryID != 0 {
		for i, e := range m.entries {
			if e.ID == m.focusEntryID {
				m.cursor = i
				break
			}
		}
		m.focusEntryID = 0
	}
	m.cursor = max(0, min(m.cursor, len(m.entries)-1))
	return m.refreshTable()
}

func (m Model) onFoodsLoaded(msg foodsLoadedMsg) (Model, tea.Cmd) {
	if msg.err != nil {
		return m.setError("load foods", msg.err), nil
	}
	m.foods = msg.foods
	if m.picker != pickerFood {
		return m, nil
	}
	var cmd tea.Cmd
	m.foodPicker, cmd = m.foodPicker.SetCandidates(m.foods)
	return m, cmd
}

func (m Model) onEntryAdded(msg entryAddedMsg) (Model, tea.Cmd) {
	m.loading = false
	if msg.err != nil {
		return m.setError("log food", msg.err), nil
	}

	logging.Info("food logged", "food", msg.entry.Food.Name, "entry", msg.entry.ID)
	m.errorMsg = ""
	m.statusMsg = fmt.Sprintf("Logged %s", msg.entry.Food.Name)
	if msg.created {
		m.statusMsg = fmt.Sprintf("Added and logged %s", msg.entry.Food.Name)
	}
	m.focusEntryID = msg.entry.ID

	cmds := []tea.Cmd{m.loadEntriesCmd(m.day)}
	if msg.created {
		cmds = append(cmds, m.loadFoodsCmd())
	}
	return m, tea.Batch(cmds...)
}

func (m Model) onFoodChosen(msg foodChosenMsg) (Model, tea.Cmd) {
	if m.picker != pickerFood {
		return m, nil
	}
	if msg.ok {
		m = m.dismissPicker()
		m.loading = true
		return m, m.logFoodCmd(msg.food)
	}

	name := strings.TrimSpace(m.foodPicker.Value())
	if name == "" {
		m.statusMsg = "Type a food to log"
		return m, nil
	}
	m = m.dismissPicker()
	m.loading = true
	return m, m.createAndLogCmd(name)
}

func (m Model) onTagChosen(msg tagChosenMsg) (Model, tea.Cmd) {
	if m.picker != pickerTag {
		return m, nil
	}

	tag := msg.tag
	if msg.ok && tag.IsNamespace() {
		// The picker now holds "ns:" and keeps focus for the name.
		m.statusMsg = fmt.Sprintf("Type a %s tag", tag.Namespace)
		return m, nil
	}
	if !msg.ok {
		parsed, ok := tags.Parse(m.tagPicker.Value())
		if !ok {
			m.errorMsg = "Tags look like namespace:name"
			return m, nil
		}
		tag = parsed
	}

	entryID := m.tagEntryID
	m = m.dismissPicker()
	return m, m.tagEntryCmd(entryID, tag)
}

func (m Model) showDay(day time.Time) (Model, tea.Cmd) {
	m.day = startOfDay(day)
	m.entries = nil
	m.cursor = 0
	m.loading = true
	m = m.refreshTable()
	return m, m.loadEntriesCmd(m.day)
}

// refreshTable rebuilds the log table around the cursor
func (m Model) refreshTable() Model {
	m.entryTable = eztable.FromEntries(m.entries).WithHighlightedRow(m.cursor)
	return m
}

// selectedEntry returns the entry under the table cursor
func (m Model) selectedEntry() (store.Entry, bool) {
	id, ok := eztable.EntryID(m.entryTable.HighlightedRow())
	if !ok {
		return store.Entry{}, false
	}
	for _, e := range m.entries {
		if e.ID == id {
			return e, true
		}
	}
	return store.Entry{}, false
}

func (m Model) setError(op string, err error) Model {
	logging.Error(op+" failed", "error", err)
	var qe *store.QueryError
	if errors.As(err, &qe) {
		err = qe.Underlying
	}
	m.loading = false
	m.statusMsg = ""
	m.errorMsg = fmt.Sprintf("%s: %v", op, err)
	return m
}
