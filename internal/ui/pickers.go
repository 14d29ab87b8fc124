package ui

import (
	"fmt"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhath/foodlog/internal/store"
	"github.com/nhath/foodlog/internal/tags"
	"github.com/nhath/foodlog/internal/ui/components/search"
)

// Picker placement inside the screen. The search control's own coordinates
// start after the popup border, its padding and the title line.
const (
	pickerX       = 2
	pickerY       = 1
	pickerOriginX = pickerX + 2
	pickerOriginY = pickerY + 2
	pickerWidth   = 48
)

func foodLabel(f store.Food) string {
	kcal := strconv.FormatFloat(f.Calories, 'f', 0, 64)
	return fmt.Sprintf("%s · %s kcal/%s", f.Name, kcal, f.Unit)
}

func foodName(f store.Food) string { return f.Name }

func tagLabel(t tags.Tag) string { return t.String() }

func (m Model) openFoodPicker() (Model, tea.Cmd) {
	m = m.dismissPicker()

	styles := pickerStyles()
	var id int
	m.foodPicker = search.New(search.Options[store.Food]{
		Candidates:     m.foods,
		DisplayText:    foodLabel,
		SearchText:     foodName,
		Placeholder:    "search foods",
		NoResultsLabel: "No match, enter again to add it",
		Delay:          m.config.Search.FoodDelay(),
		MaxVisible:     m.config.Search.MaxVisible,
		Autofocus:      true,
		OnSelect: func(f store.Food, ok bool) tea.Cmd {
			return func() tea.Msg { return foodChosenMsg{food: f, ok: ok} }
		},
		OnQueryChange: func(q string) tea.Cmd { return queryChanged(id, q) },
		Styles:        &styles,
		CursorMode:    m.cursorMode,
	}).SetWidth(pickerWidth - 4)
	id = m.foodPicker.ID()

	m.picker = pickerFood
	m.pickerFocused = true
	return m, m.foodPicker.Init()
}

func (m Model) openTagPicker(entryID int64) (Model, tea.Cmd) {
	m = m.dismissPicker()

	eval := tags.Evaluator{Namespaces: m.config.Tags.Namespaces}
	if m.tagService != nil {
		eval.Lookup = m.tagService.Lookup
	}

	styles := pickerStyles()
	var id int
	m.tagPicker = search.New(search.Options[tags.Tag]{
		DisplayText:    tagLabel,
		Evaluator:      eval,
		Placeholder:    "namespace:tag",
		NoResultsLabel: "No tags, enter again to create it",
		Delay:          m.config.Search.TagDelay(),
		LookupTimeout:  m.config.Search.LookupTimeout(),
		MaxVisible:     m.config.Search.MaxVisible,
		Autofocus:      true,
		OnSelect: func(t tags.Tag, ok bool) tea.Cmd {
			return func() tea.Msg { return tagChosenMsg{tag: t, ok: ok} }
		},
		OnQueryChange: func(q string) tea.Cmd { return queryChanged(id, q) },
		Styles:        &styles,
		CursorMode:    m.cursorMode,
	}).SetWidth(pickerWidth - 4)
	id = m.tagPicker.ID()

	m.picker = pickerTag
	m.pickerFocused = true
	m.tagEntryID = entryID
	return m, m.tagPicker.Init()
}

func queryChanged(id int, q string) tea.Cmd {
	return func() tea.Msg { return pickerQueryMsg{picker: id, query: q} }
}

// dismissPicker tears the open picker down
func (m Model) dismissPicker() Model {
	switch m.picker {
	case pickerFood:
		m.foodPicker = m.foodPicker.Close()
	case pickerTag:
		m.tagPicker = m.tagPicker.Close()
	}
	m.picker = pickerNone
	m.pickerFocused = false
	m.pickerQuery = ""
	m.tagEntryID = 0
	return m
}

// focusPicker moves focus from the log into the picker
func (m Model) focusPicker() (Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.picker {
	case pickerFood:
		m.foodPicker, cmd = m.foodPicker.Focus()
	case pickerTag:
		m.tagPicker, cmd = m.tagPicker.Focus()
	default:
		return m, nil
	}
	m.pickerFocused = true
	return m, cmd
}

// focusTable moves focus out of the picker, leaving it on screen
func (m Model) focusTable() Model {
	switch m.picker {
	case pickerFood:
		m.foodPicker = m.foodPicker.Blur()
	case pickerTag:
		m.tagPicker = m.tagPicker.Blur()
	}
	m.pickerFocused = false
	return m
}

func (m Model) updatePicker(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.picker {
	case pickerFood:
		m.foodPicker, cmd = m.foodPicker.Update(msg)
	case pickerTag:
		m.tagPicker, cmd = m.tagPicker.Update(msg)
	}
	return m, cmd
}

func (m Model) pickerWantsKey(msg tea.KeyMsg) bool {
	switch m.picker {
	case pickerFood:
		return m.foodPicker.WantsKey(msg)
	case pickerTag:
		return m.tagPicker.WantsKey(msg)
	}
	return false
}

// pickerID is the ID of the open search control, or zero.
func (m Model) pickerID() int {
	switch m.picker {
	case pickerFood:
		return m.foodPicker.ID()
	case pickerTag:
		return m.tagPicker.ID()
	}
	return 0
}

func (m Model) pickerValue() string {
	switch m.picker {
	case pickerFood:
		return m.foodPicker.Value()
	case pickerTag:
		return m.tagPicker.Value()
	}
	return ""
}

func (m Model) pickerOpen() bool {
	switch m.picker {
	case pickerFood:
		return m.foodPicker.Open()
	case pickerTag:
		return m.tagPicker.Open()
	}
	return false
}

func (m Model) pickerView() string {
	switch m.picker {
	case pickerFood:
		return m.foodPicker.View()
	case pickerTag:
		return m.tagPicker.View()
	}
	return ""
}

// pickerContains reports whether a screen cell lies on the control.
func (m Model) pickerContains(x, y int) bool {
	view := m.pickerView()
	return x >= 0 && y >= 0 && x < lipgloss.Width(view) && y < lipgloss.Height(view)
}
