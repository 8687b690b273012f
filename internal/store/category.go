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

// CategoryStore manages categories in the database.
type CategoryStore struct {
	db DBTX
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db DBTX) *CategoryStore {
	return &CategoryStore{db: db}
}

const categoryColumns = `id, type, group_name, name, parent_id, depth, sort_order, created_at, updated_at`

// scanCategory scans a row into a Category struct.
func scanCategory(scanner rowScanner, extra ...any) (*models.Category, error) {
	var c models.Category
	var parent sql.NullString
	dest := append([]any{
		&c.ID, &c.Type, &c.Group, &c.Name, &parent,
		&c.Depth, &c.SortOrder, &c.CreatedAt, &c.UpdatedAt,
	}, extra...)
	if err := scanner.Scan(dest...); err != nil {
		return nil, err
	}
	if parent.Valid {
		c.ParentID = &parent.String
	}
	return &c, nil
}

// List returns all categories ordered by depth and sort_order, with term counts.
func (s *CategoryStore) List(ctx context.Context) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.type, c.group_name, c.name, c.parent_id, c.depth, c.sort_order,
		       c.created_at, c.updated_at,
		       COUNT(t.id) AS term_count
		FROM categories c
		LEFT JOIN terms t ON t.category_id = c.id
		GROUP BY c.id
		ORDER BY c.depth, c.sort_order, c.name
	`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		var count int
		c, err := scanCategory(rows, &count)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		c.TermCount = count
		items = append(items, *c)
	}
	return items, rows.Err()
}

// Tree returns categories as a nested tree structure rooted at the groups.
func (s *CategoryStore) Tree(ctx context.Context) ([]models.Category, error) {
	flat, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return BuildTree(flat), nil
}

// BuildTree nests a flat category list under its parents. Categories whose
// parent is missing from the list are treated as roots.
func BuildTree(flat []models.Category) []models.Category {
	known := make(map[string]bool, len(flat))
	for _, c := range flat {
		known[c.ID] = true
	}

	var roots []models.Category
	for _, c := range flat {
		if c.ParentID == nil || !known[*c.ParentID] {
			c.Children = children(flat, c.ID)
			roots = append(roots, c)
		}
	}
	return roots
}

// children recursively collects the subtree below parentID.
func children(flat []models.Category, parentID string) []models.Category {
	var result []models.Category
	for _, c := range flat {
		if c.ParentID != nil && *c.ParentID == parentID {
			c.Children = children(flat, c.ID)
			result = append(result, c)
		}
	}
	return result
}

// FindByID retrieves a category by ID. Returns nil if not found.
func (s *CategoryStore) FindByID(ctx context.Context, id string) (*models.Category, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
	c, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return c, nil
}

// Create inserts a new category and returns it.
func (s *CategoryStore) Create(ctx context.Context, c *models.Category) (*models.Category, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO categories (id, type, group_name, name, parent_id, depth, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+categoryColumns,
		c.ID, c.Type, c.Group, c.Name, c.ParentID, c.Depth, c.SortOrder,
	)
	result, err := scanCategory(row)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return result, nil
}

// Delete removes a category by ID. Children are re-parented (ON DELETE SET NULL).
func (s *CategoryStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}
