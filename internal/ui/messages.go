package ui

import (
	"time"

	"github.com/nhath/foodlog/internal/store"
	"github.com/nhath/foodlog/internal/tags"
)

// entriesLoadedMsg carries the log of one day
type entriesLoadedMsg struct {
	day     time.Time
	entries []store.Entry
	err     error
}

// foodsLoadedMsg carries the full food list for the food picker
type foodsLoadedMsg struct {
	foods []store.Food
	err   error
}

// entryAddedMsg is sent when a food has been logged
type entryAddedMsg struct {
	entry   store.Entry
	created bool // the food did not exist before
	err     error
}

// entryDeletedMsg is sent when an entry has been removed
type entryDeletedMsg struct {
	id  int64
	err error
}

// entryTaggedMsg is sent when a tag has been attached to an entry
type entryTaggedMsg struct {
	entryID int64
	tag     tags.Tag
	err     error
}

// foodChosenMsg is emitted by the food picker. ok is false when Enter was
// pressed with the results closed.
type foodChosenMsg struct {
	food store.Food
	ok   bool
}

// tagChosenMsg is emitted by the tag picker
type tagChosenMsg struct {
	tag tags.Tag
	ok  bool
}

// pickerQueryMsg reports the current text of the picker with ID picker
type pickerQueryMsg struct {
	picker int
	query  string
}
