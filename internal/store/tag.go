// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"termbase/internal/models"
)

// TagStore manages tags. Tag names are unique in the database.
type TagStore struct {
	db DBTX
}

// NewTagStore returns a new TagStore.
func NewTagStore(db DBTX) *TagStore {
	return &TagStore{db: db}
}

const tagColumns = `id, name, created_at`

func scanTag(scanner rowScanner) (*models.Tag, error) {
	var t models.Tag
	if err := scanner.Scan(&t.ID, &t.Name, &t.CreatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

// FindByName looks up a tag by exact name. Returns nil if not found.
func (s *TagStore) FindByName(ctx context.Context, name string) (*models.Tag, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+tagColumns+` FROM tags WHERE name = $1`, name)
	t, err := scanTag(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find tag by name: %w", err)
	}
	return t, nil
}

// create inserts a tag unless the name is already taken. It returns nil
// when another writer owns the name.
func (s *TagStore) create(ctx context.Context, name string) (*models.Tag, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO tags (name) VALUES ($1)
		ON CONFLICT (name) DO NOTHING
		RETURNING `+tagColumns, name)
	t, err := scanTag(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("create tag: %w", err)
	}
	return t, nil
}

// FindOrCreate returns the tag with the given name, inserting it first if
// needed. The boolean reports whether this call created the row.
//
// The unique constraint on tags.name arbitrates concurrent callers: a
// losing INSERT returns no row and the tag is read back instead.
func (s *TagStore) FindOrCreate(ctx context.Context, name string) (*models.Tag, bool, error) {
	existing, err := s.FindByName(ctx, name)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	created, err := s.create(ctx, name)
	if err != nil {
		return nil, false, err
	}
	if created != nil {
		return created, true, nil
	}

	winner, err := s.FindByName(ctx, name)
	if err != nil {
		return nil, false, err
	}
	if winner == nil {
		return nil, false, fmt.Errorf("find or create tag %q: conflicting row not visible", name)
	}
	return winner, false, nil
}
