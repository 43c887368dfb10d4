package news

import (
	"time"
)

// Aggregation types

// Entry is one candidate article discovered on a source, before persistence.
type Entry struct {
	Title         string
	Link          string
	Source        string
	Summary       string
	PublishedHint string // raw textual time indicator from the listing, if any
	PublishedAt   time.Time
	Authors       []string
	Categories    []string

	ContentHash  string
	IsFiltered   bool
	FilterReason string
	Freshness    float64
}

// Configuration types

const (
	SourceKindHTML = "html"
	SourceKindFeed = "feed"
)

type Config struct {
	Name        string          // Derived from filename (without .yml extension)
	URL         string          `yaml:"url"`
	Kind        string          `yaml:"kind"` // "html" (default) or "feed"
	UserDefined bool            `yaml:"-"`    // created through the API, not a YAML file
	Selectors   ConfigSelectors `yaml:"selectors"`
	Settings    ConfigSettings  `yaml:"settings"`
	Filters     []ConfigFilter  `yaml:"filters"`
}

// ConfigSelectors describes how to find entries on a listing page. Every
// field is optional; generic fallbacks apply when a selector is empty.
type ConfigSelectors struct {
	Entry   string `yaml:"entry"`
	Title   string `yaml:"title"`
	Link    string `yaml:"link"`
	Summary string `yaml:"summary"`
	Time    string `yaml:"time"`
}

type ConfigSettings struct {
	Enabled         bool `yaml:"enabled"`
	TopicalFilter   bool `yaml:"topical_filter"`  // require a travel keyword match
	RefreshInterval int  `yaml:"refresh_interval"` // seconds
	MaxItems        int  `yaml:"max_items"`
	Timeout         int  `yaml:"timeout"`         // seconds
	ExtractContent  bool `yaml:"extract_content"` // enable full-article extraction
	Render          bool `yaml:"render"`          // fetch through the headless renderer
}

type ConfigFilter struct {
	Field    string   `yaml:"field"`
	Includes []string `yaml:"includes"`
	Excludes []string `yaml:"excludes"`
}
