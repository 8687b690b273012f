// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Tag is a free-text label. Names are unique and compared exactly.
type Tag struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// TermTag links a term to a tag.
type TermTag struct {
	ID        uuid.UUID `json:"id"`
	TermID    uuid.UUID `json:"termId"`
	TagID     uuid.UUID `json:"tagId"`
	CreatedAt time.Time `json:"createdAt"`
}
