package term

import "strings"

// TagDelimiter separates tags in the raw tag string, e.g. "#go#backend".
const TagDelimiter = "#"

// ParseTags splits raw on '#', trims each piece, drops empty pieces and
// removes exact duplicates, keeping the first occurrence's position.
// A blank input yields an empty, non-nil slice.
//
// Matching is case-sensitive: "Go" and "go" are different tags.
func ParseTags(raw string) []string {
	tags := []string{}
	if strings.TrimSpace(raw) == "" {
		return tags
	}

	seen := make(map[string]struct{})
	for _, piece := range strings.Split(raw, TagDelimiter) {
		name := strings.TrimSpace(piece)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		tags = append(tags, name)
	}
	return tags
}
