package store

import (
	"context"
	"time"

	"github.com/nhath/foodlog/internal/tags"
)

// Entry is one logged serving of a food.
type Entry struct {
	ID       int64      `json:"id"`
	FoodID   int64      `json:"food_id"`
	Food     Food       `json:"food"`
	Servings float64    `json:"servings"`
	EatenAt  time.Time  `json:"eaten_at"`
	Tags     []tags.Tag `json:"tags,omitempty"`
}

// Calories is the energy of the whole entry.
func (e Entry) Calories() float64 {
	return e.Food.Calories * e.Servings
}

// AddEntry logs servings of food at the given time.
func (s *Store) AddEntry(ctx context.Context, food Food, servings float64, at time.Time) (Entry, error) {
	if servings <= 0 {
		servings = 1
	}
	at = dbTime(at)

	id, err := s.insert(ctx,
		`INSERT INTO entries (food_id, servings, eaten_at) VALUES (?, ?, ?)`,
		food.ID, servings, at)
	if err != nil {
		return Entry{}, WrapQueryError("add entry", err)
	}
	return Entry{ID: id, FoodID: food.ID, Food: food, Servings: servings, EatenAt: at}, nil
}

// ListEntries returns the entries eaten on the local calendar day of day,
// oldest first, with their tags.
func (s *Store) ListEntries(ctx context.Context, day time.Time) ([]Entry, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)

	rows, err := s.query(ctx, `
		SELECT e.id, e.food_id, e.servings, e.eaten_at, f.name, f.unit, f.calories
		FROM entries e JOIN foods f ON f.id = e.food_id
		WHERE e.eaten_at >= ? AND e.eaten_at < ?
		ORDER BY e.eaten_at, e.id`,
		dbTime(start), dbTime(end))
	if err != nil {
		return nil, WrapQueryError("list entries", err)
	}

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.FoodID, &e.Servings, &e.EatenAt,
			&e.Food.Name, &e.Food.Unit, &e.Food.Calories); err != nil {
			rows.Close()
			return nil, WrapQueryError("list entries", err)
		}
		e.Food.ID = e.FoodID
		e.EatenAt = e.EatenAt.In(day.Location())
		entries = append(entries, e)
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return nil, WrapQueryError("list entries", err)
	}

	// SQLite runs on a single connection, so tags are read after rows is closed.
	for i := range entries {
		t, err := s.EntryTags(ctx, entries[i].ID)
		if err != nil {
			return nil, err
		}
		entries[i].Tags = t
	}
	return entries, nil
}

// DeleteEntry removes an entry and its tag links.
func (s *Store) DeleteEntry(ctx context.Context, id int64) error {
	if _, err := s.exec(ctx, `DELETE FROM entry_tags WHERE entry_id = ?`, id); err != nil {
		return WrapQueryError("delete entry", err)
	}
	res, err := s.exec(ctx, `DELETE FROM entries WHERE id = ?`, id)
	if err != nil {
		return WrapQueryError("delete entry", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
