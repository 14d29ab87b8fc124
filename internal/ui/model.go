// Package ui is the terminal front end of the food log.
package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	tea "github.com/charmbracelet/bubbletea"
	bbtable "github.com/evertras/bubble-table/table"

	"github.com/nhath/foodlog/internal/config"
	"github.com/nhath/foodlog/internal/store"
	"github.com/nhath/foodlog/internal/tags"
	"github.com/nhath/foodlog/internal/ui/components/search"
	eztable "github.com/nhath/foodlog/internal/ui/components/table"
)

// Store is the persistence the UI needs. *store.Store implements it.
type Store interface {
	ListFoods(ctx context.Context) ([]store.Food, error)
	AddFood(ctx context.Context, f store.Food) (store.Food, error)
	FoodByName(ctx context.Context, name string) (store.Food, error)
	AddEntry(ctx context.Context, food store.Food, servings float64, at time.Time) (store.Entry, error)
	ListEntries(ctx context.Context, day time.Time) ([]store.Entry, error)
	DeleteEntry(ctx context.Context, id int64) error
	TagEntry(ctx context.Context, entryID int64, tag tags.Tag) error
}

// pickerKind is the search control currently shown over the log
type pickerKind int

const (
	pickerNone pickerKind = iota
	pickerFood
	pickerTag
)

// Options wires the model to its collaborators.
type Options struct {
	Config *config.Config
	Store  Store
	// Tags answers namespaced tag lookups; nil disables them.
	Tags *tags.Service
	// DSN is shown in the status bar.
	DSN        string
	Now        func() time.Time
	CursorMode cursor.Mode
}

// Model is the root Bubble Tea model
type Model struct {
	// Core state
	width, height int
	config        *config.Config
	store         Store
	tagService    *tags.Service
	dsn           string
	now           func() time.Time
	cursorMode    cursor.Mode

	// Log
	day          time.Time
	entries      []store.Entry
	entryTable   bbtable.Model
	cursor       int
	focusEntryID int64 // entry to highlight after the next reload
	foods        []store.Food

	// Pickers
	picker        pickerKind
	pickerFocused bool
	foodPicker    search.Model[store.Food]
	tagPicker     search.Model[tags.Tag]
	tagEntryID    int64
	pickerQuery   string

	// Popups
	showHelp bool

	// Status
	loading   bool
	errorMsg  string
	statusMsg string // Success/info notifications (shown in status bar)
}

// NewModel creates a new UI model
func NewModel(opts Options) Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	InitStyles(cfg.Theme)

	return Model{
		config:     cfg,
		store:      opts.Store,
		tagService: opts.Tags,
		dsn:        opts.DSN,
		now:        now,
		cursorMode: opts.CursorMode,
		day:        startOfDay(now()),
		entryTable: eztable.FromEntries(nil),
		loading:    true,
	}
}

// Init loads today's log and the food list
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadEntriesCmd(m.day), m.loadFoodsCmd())
}
