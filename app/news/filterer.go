package news

import (
	"fmt"
	"strings"

	"github.com/travelwire/travelwire/app/extract"
)

type Filterer struct{}

func NewFilterer() *Filterer {
	return &Filterer{}
}

func (f *Filterer) Run(entries []Entry, sourceConfig *Config) []Entry {
	filtered := make([]Entry, 0, len(entries))
	for _, entry := range entries {
		isFiltered, filterReason := f.applyFilters(entry, sourceConfig)
		entry.IsFiltered = isFiltered
		entry.FilterReason = filterReason
		filtered = append(filtered, entry)
	}

	return filtered
}

func (f *Filterer) applyFilters(entry Entry, sourceConfig *Config) (bool, string) {
	if sourceConfig.Settings.TopicalFilter && !f.matchesTopic(entry) {
		return true, "Excluded by topical filter: no travel keyword in title or summary"
	}

	for _, filter := range sourceConfig.Filters {
		value := f.getFieldValue(entry, filter.Field)

		for _, exclude := range filter.Excludes {
			if f.matchesFilter(value, exclude) {
				return true, fmt.Sprintf("Excluded by %s filter: contains '%s'", filter.Field, exclude)
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
				return true, fmt.Sprintf("Excluded by %s filter: does not contain any of %v", filter.Field, filter.Includes)
			}
		}
	}

	return false, ""
}

func (f *Filterer) matchesTopic(entry Entry) bool {
	haystack := strings.ToLower(entry.Title + " " + entry.Summary)
	for _, keyword := range extract.TravelKeywords {
		if strings.Contains(haystack, keyword) {
			return true
		}
	}
	return false
}

func (f *Filterer) matchesFilter(value, pattern string) bool {
	return strings.Contains(strings.ToLower(value), strings.ToLower(pattern))
}

func (f *Filterer) getFieldValue(entry Entry, field string) string {
	switch field {
	case "title":
		return entry.Title
	case "summary":
		return entry.Summary
	case "link":
		return entry.Link
	case "source":
		return entry.Source
	default:
		return ""
	}
}
