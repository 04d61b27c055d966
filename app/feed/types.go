package feed

import (
	"time"
)

// Item is a single raw headline pulled from a news source. Items are
// immutable once decoded; identity for novelty purposes is the
// (Title, Summary) pair.
type Item struct {
	Title       string
	Summary     string
	Link        string
	Source      string
	PublishedAt time.Time
}

// Source wire formats

const (
	FormatRSS      = "rss"
	FormatFMP      = "fmp"
	FormatFMPPress = "fmp_press"
)

// Configuration types

type Config struct {
	Name     string         // Derived from filename (without .yml extension)
	URL      string         `yaml:"url"`
	Format   string         `yaml:"format"`
	Settings ConfigSettings `yaml:"settings"`
	Filters  []ConfigFilter `yaml:"filters"`
}

type ConfigSettings struct {
	Enabled  bool `yaml:"enabled"`
	Timeout  int  `yaml:"timeout"` // seconds
	MaxItems int  `yaml:"max_items"`
}

type ConfigFilter struct {
	Field    string   `yaml:"field"`
	Includes []string `yaml:"includes"`
	Excludes []string `yaml:"excludes"`
}
