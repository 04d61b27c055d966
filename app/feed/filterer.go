package feed

import (
	"log/slog"
	"strings"
)

type Filterer struct{}

func NewFilterer() *Filterer {
	return &Filterer{}
}

// Run returns the items that pass the source's filter rules. Items excluded
// by a rule are dropped before analysis.
func (f *Filterer) Run(items []Item, filters []ConfigFilter) []Item {
	if len(filters) == 0 {
		return items
	}

	kept := make([]Item, 0, len(items))
	for _, item := range items {
		excluded, reason := f.applyFilters(item, filters)
		if excluded {
			slog.Debug("Item excluded by filter", "source", item.Source, "title", item.Title, "reason", reason)
			continue
		}
		kept = append(kept, item)
	}

	return kept
}

func (f *Filterer) applyFilters(item Item, filters []ConfigFilter) (bool, string) {
	for _, filter := range filters {
		value := f.getFieldValue(item, filter.Field)

		for _, exclude := range filter.Excludes {
			if f.matchesFilter(value, exclude) {
				return true, "excluded by " + filter.Field + " filter: contains '" + exclude + "'"
			}
		}

		if len(filter.Includes) > 0 {
			matched := false
			for _, include := range filter.Includes {
				if f.matchesFilter(value, include) {
					matched = true
					break
				}
			}
			if !matched {
				return true, "excluded by " + filter.Field + " filter: no include matched"
			}
		}
	}

	return false, ""
}

func (f *Filterer) matchesFilter(value, pattern string) bool {
	return strings.Contains(strings.ToLower(value), strings.ToLower(pattern))
}

func (f *Filterer) getFieldValue(item Item, field string) string {
	switch field {
	case "title":
		return item.Title
	case "summary":
		return item.Summary
	case "link":
		return item.Link
	default:
		return ""
	}
}
