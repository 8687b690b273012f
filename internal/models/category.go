// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// LeafDepth is the taxonomy level of sub-categories. Terms can only be
// registered against categories at this depth.
const LeafDepth = 2

// Category is a node in the glossary taxonomy. Depth 1 nodes are groups,
// depth 2 nodes are the sub-categories that hold terms.
type Category struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Group     string    `json:"group"`
	Name      string    `json:"name"`
	ParentID  *string   `json:"parentId,omitempty"`
	Depth     int       `json:"depth"`
	SortOrder int       `json:"sortOrder"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Virtual fields populated by store methods.
	Children  []Category `json:"children,omitempty"`
	TermCount int        `json:"termCount"`
}

// AcceptsTerms reports whether terms may be registered under c.
func (c *Category) AcceptsTerms() bool {
	return c.Depth == LeafDepth
}
