package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"termbase/internal/models"
)

// TermTagStore manages the term ↔ tag association rows.
type TermTagStore struct {
	db DBTX
}

// NewTermTagStore returns a new TermTagStore.
func NewTermTagStore(db DBTX) *TermTagStore {
	return &TermTagStore{db: db}
}

// Create links a term to a tag. Every call inserts a fresh row.
func (s *TermTagStore) Create(ctx context.Context, termID, tagID uuid.UUID) (*models.TermTag, error) {
	var tt models.TermTag
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO term_tags (term_id, tag_id) VALUES ($1, $2)
		RETURNING id, term_id, tag_id, created_at`,
		termID, tagID,
	).Scan(&tt.ID, &tt.TermID, &tt.TagID, &tt.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create term tag: %w", err)
	}
	return &tt, nil
}

// TagNames returns the names of the tags linked to a term, in link order.
func (s *TermTagStore) TagNames(ctx context.Context, termID uuid.UUID) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.name
		FROM term_tags tt
		JOIN tags t ON t.id = tt.tag_id
		WHERE tt.term_id = $1
		ORDER BY tt.seq`, termID)
	if err != nil {
		return nil, fmt.Errorf("list term tags: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan term tag: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
