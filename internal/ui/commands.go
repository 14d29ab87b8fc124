package ui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhath/foodlog/internal/logging"
	"github.com/nhath/foodlog/internal/store"
	"github.com/nhath/foodlog/internal/tags"
)

// storeTimeout bounds every database round trip started from the UI.
const storeTimeout = 10 * time.Second

func (m Model) loadEntriesCmd(day time.Time) tea.Cmd {
	st := m.store
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		entries, err := st.ListEntries(ctx, day)
		return entriesLoadedMsg{day: day, entries: entries, err: err}
	}
}

func (m Model) loadFoodsCmd() tea.Cmd {
	st := m.store
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		foods, err := st.ListFoods(ctx)
		return foodsLoadedMsg{foods: foods, err: err}
	}
}

// logFoodCmd logs one serving of food at the current time
func (m Model) logFoodCmd(food store.Food) tea.Cmd {
	st, at := m.store, m.entryTime()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		entry, err := st.AddEntry(ctx, food, 1, at)
		return entryAddedMsg{entry: entry, err: err}
	}
}

// createAndLogCmd logs the food called name, creating it when unknown
func (m Model) createAndLogCmd(name string) tea.Cmd {
	st, at := m.store, m.entryTime()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()

		created := false
		food, err := st.FoodByName(ctx, name)
		if errors.Is(err, store.ErrNotFound) {
			food, err = st.AddFood(ctx, store.Food{Name: name})
			created = err == nil
		}
		if err != nil {
			return entryAddedMsg{err: err}
		}

		entry, err := st.AddEntry(ctx, food, 1, at)
		return entryAddedMsg{entry: entry, created: created, err: err}
	}
}

func (m Model) deleteEntryCmd(id int64) tea.Cmd {
	st := m.store
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		return entryDeletedMsg{id: id, err: st.DeleteEntry(ctx, id)}
	}
}

// tagEntryCmd attaches tag and drops cached lookups so the tag shows up in
// the next search.
func (m Model) tagEntryCmd(entryID int64, tag tags.Tag) tea.Cmd {
	st, svc := m.store, m.tagService
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		if err := st.TagEntry(ctx, entryID, tag); err != nil {
			return entryTaggedMsg{entryID: entryID, tag: tag, err: err}
		}
		if svc != nil {
			svc.Invalidate(ctx)
		}
		logging.Debug("entry tagged", "entry", entryID, "tag", tag.String())
		return entryTaggedMsg{entryID: entryID, tag: tag}
	}
}

// entryTime is now on the viewed day, so entries logged while browsing
// another day land on that day.
func (m Model) entryTime() time.Time {
	now := m.now()
	y, mo, d := m.day.Date()
	return time.Date(y, mo, d, now.Hour(), now.Minute(), now.Second(), 0, now.Location())
}
