// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug derives URL-friendly identifiers from glossary term names.
package slug

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// MaxLen caps the rune length of a generated slug.
const MaxLen = 120

var (
	// disallowed matches anything that isn't a letter, digit, space, or hyphen.
	disallowed = regexp.MustCompile(`[^\p{L}\p{N}\s-]`)
	// separators collapses whitespace, underscores and hyphen runs.
	separators = regexp.MustCompile(`[\s_-]+`)
)

// Generate creates a slug from a term name. Letters from any script are
// kept and lowercased; punctuation is dropped.
// Example: "Two-Phase Commit (2PC)" → "two-phase-commit-2pc"
func Generate(s string) string {
	result := strings.ToLower(strings.TrimSpace(s))
	result = strings.ReplaceAll(result, "_", " ")
	result = disallowed.ReplaceAllString(result, "")
	result = separators.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")
	return truncate(result, MaxLen)
}

// truncate shortens s to at most n runes without leaving a trailing hyphen.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return strings.TrimRight(string(runes[:n]), "-")
}
