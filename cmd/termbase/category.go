// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"termbase/internal/cache"
	"termbase/internal/config"
	"termbase/internal/models"
	"termbase/internal/store"
)

var categoryCmd = &cobra.Command{
	Use:   "category",
	Short: "Manage the category taxonomy",
	Long:  `Add or remove categories. Every change is pushed to the shared category cache so running servers stop serving the old entry.`,
}

var categoryAddCmd = &cobra.Command{
	Use:   "add <id> <name>",
	Short: "Add a category",
	Long:  `Add a top-level group, or a leaf sub-category when --parent is given. Only leaf sub-categories accept terms.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		parent, _ := cmd.Flags().GetString("parent")
		typ, _ := cmd.Flags().GetString("type")
		group, _ := cmd.Flags().GetString("group")
		sortOrder, _ := cmd.Flags().GetInt("sort")

		return withCategoryAdmin(cmd.Context(), func(a *categoryAdmin) error {
			c, err := a.add(cmd.Context(), &models.Category{
				ID:        args[0],
				Name:      args[1],
				Type:      typ,
				Group:     group,
				SortOrder: sortOrder,
			}, parent)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %s %q (depth %d)\n", c.ID, c.Name, c.Depth)
			return nil
		})
	},
}

var categoryDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a category without terms",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCategoryAdmin(cmd.Context(), func(a *categoryAdmin) error {
			if err := a.remove(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		})
	},
}

func init() {
	categoryAddCmd.Flags().String("parent", "", "parent group id; makes the category a leaf")
	categoryAddCmd.Flags().String("type", "", "category type (default: parent's type)")
	categoryAddCmd.Flags().String("group", "", "group name (default: parent's group, or the name for groups)")
	categoryAddCmd.Flags().Int("sort", 0, "sort order among siblings")

	categoryCmd.AddCommand(categoryAddCmd, categoryDeleteCmd)
	rootCmd.AddCommand(categoryCmd)
}

// categoryAdmin applies taxonomy changes to PostgreSQL and invalidates
// the cached copies.
type categoryAdmin struct {
	store *store.CategoryStore
	cache *cache.CategoryCache
}

// withCategoryAdmin opens the database and, when reachable, Valkey, then
// runs fn. Without Valkey the change still lands but other instances keep
// their cached entry until it expires.
func withCategoryAdmin(ctx context.Context, fn func(a *categoryAdmin) error) error {
	cfg, err := setup()
	if err != nil {
		return err
	}
	db, err := openMigrated(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	categories, closeCache := openCategoryCache(ctx, cfg, db)
	defer closeCache()

	return fn(&categoryAdmin{store: store.NewCategoryStore(db), cache: categories})
}

// openCategoryCache builds the category cache over db. Valkey is optional
// here; the returned func releases the client.
func openCategoryCache(ctx context.Context, cfg *config.Config, db *sql.DB) (*cache.CategoryCache, func()) {
	source := store.NewCategoryStore(db)
	client, err := cache.ConnectValkey(ctx, cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Warn("valkey unavailable, running servers keep cached categories until they expire",
			"ttl", cfg.CategoryCacheTTL, "error", err)
		return cache.NewCategoryCache(source, nil, cfg.CategoryCacheTTL), func() {}
	}
	return cache.NewCategoryCache(source, client, cfg.CategoryCacheTTL), func() { client.Close() }
}

func (a *categoryAdmin) add(ctx context.Context, c *models.Category, parentID string) (*models.Category, error) {
	var parent *models.Category
	if parentID != "" {
		p, err := a.store.FindByID(ctx, parentID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, fmt.Errorf("parent category %q not found", parentID)
		}
		parent = p
	}
	if err := placeCategory(c, parent); err != nil {
		return nil, err
	}

	created, err := a.store.Create(ctx, c)
	if err != nil {
		return nil, err
	}
	a.cache.Invalidate(ctx, created.ID)
	slog.Info("category added", "id", created.ID, "depth", created.Depth)
	return created, nil
}

func (a *categoryAdmin) remove(ctx context.Context, id string) error {
	c, err := a.store.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		return fmt.Errorf("category %q not found", id)
	}

	// terms.category_id is ON DELETE RESTRICT, so a category in use fails here.
	if err := a.store.Delete(ctx, id); err != nil {
		return err
	}
	// Children become roots, so their cached depth context is stale too.
	a.cache.InvalidateAll(ctx)
	slog.Info("category deleted", "id", id)
	return nil
}

// placeCategory sets c's depth and parent from parent (nil for a top-level
// group) and fills type and group defaults. The taxonomy has two levels.
func placeCategory(c *models.Category, parent *models.Category) error {
	c.ID = strings.TrimSpace(c.ID)
	c.Name = strings.TrimSpace(c.Name)
	if c.ID == "" || c.Name == "" {
		return fmt.Errorf("category id and name are required")
	}

	if parent == nil {
		c.Depth = 1
		c.ParentID = nil
		if c.Group == "" {
			c.Group = c.Name
		}
		return nil
	}

	if parent.Depth >= models.LeafDepth {
		return fmt.Errorf("parent %q has depth %d; sub-categories must sit under a depth-1 group",
			parent.ID, parent.Depth)
	}
	c.Depth = parent.Depth + 1
	pid := parent.ID
	c.ParentID = &pid
	if c.Type == "" {
		c.Type = parent.Type
	}
	if c.Group == "" {
		c.Group = parent.Group
	}
	return nil
}
