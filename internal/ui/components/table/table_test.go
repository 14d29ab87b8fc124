package table

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhath/foodlog/internal/store"
	"github.com/nhath/foodlog/internal/tags"
)

func sampleEntries() []store.Entry {
	at := time.Date(2024, 3, 10, 8, 5, 0, 0, time.UTC)
	return []store.Entry{
		{ID: 7, Food: store.Food{Name: "Apple", Unit: "piece", Calories: 95}, Servings: 2, EatenAt: at,
			Tags: []tags.Tag{{Namespace: "meal", Name: "breakfast"}}},
		{ID: 9, Food: store.Food{Name: "Coffee", Unit: "cup", Calories: 2}, Servings: 1.5, EatenAt: at.Add(time.Hour)},
	}
}

func TestFromEntries(t *testing.T) {
	m := FromEntries(sampleEntries())
	view := m.View()

	assert.Contains(t, view, "Apple")
	assert.Contains(t, view, "08:05")
	assert.Contains(t, view, "2 piece")
	assert.Contains(t, view, "1.5 cup")
	assert.Contains(t, view, "190")
	assert.Contains(t, view, "meal:breakfast")
	assert.Contains(t, view, "2 entries · 193 kcal")

	id, ok := EntryID(m.HighlightedRow())
	require.True(t, ok)
	assert.Equal(t, int64(7), id)

	id, ok = EntryID(m.WithHighlightedRow(1).HighlightedRow())
	require.True(t, ok)
	assert.Equal(t, int64(9), id)
}

func TestFromEntriesEmpty(t *testing.T) {
	m := FromEntries(nil)
	assert.True(t, strings.Contains(m.View(), "Nothing logged"))

	_, ok := EntryID(m.HighlightedRow())
	assert.False(t, ok)
}
