package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// SeedCategory is one row of the built-in category taxonomy.
type SeedCategory struct {
	ID        string
	Type      string
	Group     string
	Name      string
	ParentID  string // empty for top-level groups
	Depth     int
	SortOrder int
}

// DefaultCategories is the taxonomy installed by Seed. Depth 1 rows are
// groups, depth 2 rows are the leaf sub-categories terms attach to.
// Parents must precede their children.
var DefaultCategories = []SeedCategory{
	{ID: "GRP001", Type: "TECH", Group: "Development", Name: "Development", Depth: 1, SortOrder: 0},
	{ID: "CAT001", Type: "TECH", Group: "Development", Name: "Backend", ParentID: "GRP001", Depth: 2, SortOrder: 0},
	{ID: "CAT002", Type: "TECH", Group: "Development", Name: "Frontend", ParentID: "GRP001", Depth: 2, SortOrder: 1},
	{ID: "CAT003", Type: "TECH", Group: "Development", Name: "Testing", ParentID: "GRP001", Depth: 2, SortOrder: 2},
	{ID: "GRP002", Type: "TECH", Group: "Infrastructure", Name: "Infrastructure", Depth: 1, SortOrder: 1},
	{ID: "CAT004", Type: "TECH", Group: "Infrastructure", Name: "Databases", ParentID: "GRP002", Depth: 2, SortOrder: 0},
	{ID: "CAT005", Type: "TECH", Group: "Infrastructure", Name: "Networking", ParentID: "GRP002", Depth: 2, SortOrder: 1},
	{ID: "GRP003", Type: "BIZ", Group: "Business", Name: "Business", Depth: 1, SortOrder: 2},
	{ID: "CAT006", Type: "BIZ", Group: "Business", Name: "Finance", ParentID: "GRP003", Depth: 2, SortOrder: 0},
	{ID: "CAT007", Type: "BIZ", Group: "Business", Name: "Marketing", ParentID: "GRP003", Depth: 2, SortOrder: 1},
}

// Seed installs the default category taxonomy. Rows that already exist are
// left untouched, so Seed is safe to run on every startup.
func Seed(db *sql.DB) error {
	ctx := context.Background()

	var inserted int64
	err := WithTx(ctx, db, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO categories (id, type, group_name, name, parent_id, depth, sort_order)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (id) DO NOTHING`)
		if err != nil {
			return fmt.Errorf("seed prepare: %w", err)
		}
		defer stmt.Close()

		for _, c := range DefaultCategories {
			var parent sql.NullString
			if c.ParentID != "" {
				parent = sql.NullString{String: c.ParentID, Valid: true}
			}
			res, err := stmt.ExecContext(ctx, c.ID, c.Type, c.Group, c.Name, parent, c.Depth, c.SortOrder)
			if err != nil {
				return fmt.Errorf("seed category %s: %w", c.ID, err)
			}
			n, _ := res.RowsAffected()
			inserted += n
		}
		return nil
	})
	if err != nil {
		return err
	}

	if inserted == 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	slog.Info("database seeded with default categories", "inserted", inserted)
	return nil
}
