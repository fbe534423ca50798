package store

import "strings"

// LogicalOperator selects how a multi-tag request combines its tags.
type LogicalOperator int

const (
	// Or matches files carrying at least one of the requested tags.
	Or LogicalOperator = iota
	// And matches files whose tag set is a superset of the requested tags.
	And
)

// FileRequest describes a file search: a set of tag contents, the
// operator combining them and a name substring filter. An empty tag set
// ignores tags entirely; an empty search string matches every name.
type FileRequest struct {
	Tags     []string
	Operator LogicalOperator
	Search   string
}

// NormalizedTags returns the request's tags trimmed, lowercased and
// deduplicated. Matching against stored content is case-insensitive, so
// the AND operator must compare distinct matches against the normalized
// count or files would never reach it when the request repeats a tag in
// different casing.
func (req FileRequest) NormalizedTags() []string {
	seen := make(map[string]struct{}, len(req.Tags))
	normalized := make([]string, 0, len(req.Tags))

	for _, tag := range req.Tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		normalized = append(normalized, tag)
	}

	return normalized
}
