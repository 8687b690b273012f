package handlers

import (
	"strings"
	"unicode/utf8"

	"termbase/internal/term"
)

// Validation limits for term registration fields.
const (
	maxCategoryIDLen = 64
	maxNameLen       = 200
	maxDefinitionLen = 10_000
	maxExampleLen    = 5_000
	maxTagsLen       = 1_000
	maxBodyBytes     = 64 << 10
)

// validateRegister checks a registration request and returns the first
// error found. Business rules (category existence and depth) are left to
// the term service.
func validateRegister(req term.RegisterRequest) string {
	if strings.TrimSpace(req.CategoryID) == "" {
		return "categoryId is required."
	}
	if utf8.RuneCountInString(req.CategoryID) > maxCategoryIDLen {
		return "categoryId is too long (max 64 characters)."
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return "name is required."
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return "name is too long (max 200 characters)."
	}
	if utf8.RuneCountInString(req.Definition) > maxDefinitionLen {
		return "definition is too long (max 10,000 characters)."
	}
	if utf8.RuneCountInString(req.Example) > maxExampleLen {
		return "example is too long (max 5,000 characters)."
	}
	if utf8.RuneCountInString(req.Tags) > maxTagsLen {
		return "tags are too long (max 1,000 characters)."
	}
	return ""
}
