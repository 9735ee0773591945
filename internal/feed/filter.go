package feed

import "strings"

// Searchable is anything the search filter can match against
type Searchable interface {
	SearchFields() (tags []string, title, content string)
}

// Filter keeps the items whose tags, title or content contain query,
// ignoring case. A blank query returns items unchanged.
func Filter[T Searchable](items []T, query string) []T {
	if strings.TrimSpace(query) == "" {
		return items
	}
	q := strings.ToLower(query)

	out := make([]T, 0, len(items))
	for _, item := range items {
		tags, title, content := item.SearchFields()
		if strings.Contains(strings.ToLower(strings.Join(tags, " ")), q) ||
			strings.Contains(strings.ToLower(title), q) ||
			strings.Contains(strings.ToLower(content), q) {
			out = append(out, item)
		}
	}
	return out
}
