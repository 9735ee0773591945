package feed

import "strings"

// DefaultCategory is assigned when no keyword matches
const DefaultCategory = "General"

type category struct {
	label    string
	keywords []string
}

// categories are checked in order; the first match wins
var categories = []category{
	{"NASA", []string{"nasa", "space station", "astronaut"}},
	{"SpaceX", []string{"spacex", "falcon", "starship"}},
	{"Astronomy", []string{"star", "galaxy", "telescope", "planet"}},
	{"Technology", []string{"satellite", "rocket", "launch"}},
	{"Discovery", []string{"discover", "found", "new"}},
}

// Classify maps an article title to a category label by keyword match.
func Classify(title string) string {
	lower := strings.ToLower(title)
	for _, c := range categories {
		for _, kw := range c.keywords {
			if strings.Contains(lower, kw) {
				return c.label
			}
		}
	}
	return DefaultCategory
}

// Categories returns every label Classify can produce, in priority order.
func Categories() []string {
	out := make([]string, 0, len(categories)+1)
	for _, c := range categories {
		out = append(out, c.label)
	}
	return append(out, DefaultCategory)
}
