package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/nhath/foodlog/internal/tags"
)

// EnsureTag returns the id of tag, creating it when missing. Namespace and
// name are matched without regard to case.
func (s *Store) EnsureTag(ctx context.Context, tag tags.Tag) (int64, error) {
	ns := strings.TrimSpace(tag.Namespace)
	name := strings.TrimSpace(tag.Name)
	if ns == "" || name == "" {
		return 0, fmt.Errorf("ensure tag %q: namespace and name are required", tag.String())
	}

	var id int64
	err := s.queryRow(ctx,
		`SELECT id FROM tags WHERE LOWER(namespace) = ? AND LOWER(name) = ?`,
		strings.ToLower(ns), strings.ToLower(name)).Scan(&id)
	switch {
	case err == nil:
		return id, nil
	case !errors.Is(err, sql.ErrNoRows):
		return 0, WrapQueryError("ensure tag", err)
	}

	id, err = s.insert(ctx, `INSERT INTO tags (namespace, name) VALUES (?, ?)`, ns, name)
	if err != nil {
		return 0, WrapQueryError("ensure tag", err)
	}
	return id, nil
}

// SearchTags returns up to limit tags in namespace ns whose name contains
// partial, ignoring case. It satisfies tags.Source.
func (s *Store) SearchTags(ctx context.Context, ns, partial string, limit int) ([]tags.Tag, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.query(ctx, `
		SELECT namespace, name FROM tags
		WHERE LOWER(namespace) = ? AND LOWER(name) LIKE ? ESCAPE '!'
		ORDER BY name
		LIMIT ?`,
		strings.ToLower(strings.TrimSpace(ns)), likePattern(strings.TrimSpace(partial)), limit)
	if err != nil {
		return nil, WrapQueryError("search tags", err)
	}
	defer rows.Close()

	found := []tags.Tag{}
	for rows.Next() {
		var t tags.Tag
		if err := rows.Scan(&t.Namespace, &t.Name); err != nil {
			return nil, WrapQueryError("search tags", err)
		}
		found = append(found, t)
	}
	if err := rows.Err(); err != nil {
		return nil, WrapQueryError("search tags", err)
	}
	return found, nil
}

// TagEntry attaches tag to an entry, creating the tag if needed. Attaching
// the same tag twice is a no-op.
func (s *Store) TagEntry(ctx context.Context, entryID int64, tag tags.Tag) error {
	tagID, err := s.EnsureTag(ctx, tag)
	if err != nil {
		return err
	}

	var n int
	if err := s.queryRow(ctx,
		`SELECT COUNT(*) FROM entry_tags WHERE entry_id = ? AND tag_id = ?`,
		entryID, tagID).Scan(&n); err != nil {
		return WrapQueryError("tag entry", err)
	}
	if n > 0 {
		return nil
	}

	if _, err := s.exec(ctx,
		`INSERT INTO entry_tags (entry_id, tag_id) VALUES (?, ?)`,
		entryID, tagID); err != nil {
		return WrapQueryError("tag entry", err)
	}
	return nil
}

// EntryTags lists the tags attached to an entry.
func (s *Store) EntryTags(ctx context.Context, entryID int64) ([]tags.Tag, error) {
	rows, err := s.query(ctx, `
		SELECT t.namespace, t.name
		FROM entry_tags et JOIN tags t ON t.id = et.tag_id
		WHERE et.entry_id = ?
		ORDER BY t.namespace, t.name`, entryID)
	if err != nil {
		return nil, WrapQueryError("entry tags", err)
	}
	defer rows.Close()

	var out []tags.Tag
	for rows.Next() {
		var t tags.Tag
		if err := rows.Scan(&t.Namespace, &t.Name); err != nil {
			return nil, WrapQueryError("entry tags", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, WrapQueryError("entry tags", err)
	}
	return out, nil
}
