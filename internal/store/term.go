// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"termbase/internal/models"
)

// TermStore handles CRUD operations for glossary terms.
type TermStore struct {
	db DBTX
}

// NewTermStore creates a new TermStore with the given database handle.
func NewTermStore(db DBTX) *TermStore {
	return &TermStore{db: db}
}

const termColumns = `id, category_id, name, slug, definition, example, created_at, updated_at`

func scanTerm(scanner rowScanner) (*models.Term, error) {
	var t models.Term
	err := scanner.Scan(
		&t.ID, &t.CategoryID, &t.Name, &t.Slug,
		&t.Definition, &t.Example, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Create inserts a new term and returns it with the generated ID and timestamps.
func (s *TermStore) Create(ctx context.Context, t *models.Term) (*models.Term, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO terms (category_id, name, slug, definition, example)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+termColumns,
		t.CategoryID, t.Name, t.Slug, t.Definition, t.Example,
	)
	created, err := scanTerm(row)
	if err != nil {
		return nil, fmt.Errorf("create term: %w", err)
	}
	return created, nil
}

// FindByID retrieves a term by its UUID. Returns nil if not found.
func (s *TermStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Term, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+termColumns+` FROM terms WHERE id = $1`, id)
	t, err := scanTerm(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find term by id: %w", err)
	}
	return t, nil
}

// ListByCategory returns the terms of one category ordered by name.
func (s *TermStore) ListByCategory(ctx context.Context, categoryID string) ([]models.Term, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+termColumns+` FROM terms WHERE category_id = $1 ORDER BY name, created_at`,
		categoryID,
	)
	if err != nil {
		return nil, fmt.Errorf("list terms: %w", err)
	}
	defer rows.Close()

	var items []models.Term
	for rows.Next() {
		t, err := scanTerm(rows)
		if err != nil {
			return nil, fmt.Errorf("scan term: %w", err)
		}
		items = append(items, *t)
	}
	return items, rows.Err()
}
