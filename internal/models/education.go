package models

import "time"

// EducationTopic is one entry in the curated topic catalog. The catalog
// ships as a YAML file and points at trusted public sources.
type EducationTopic struct {
	ID       string   `json:"id" yaml:"id"`
	Title    string   `json:"title" yaml:"title"`
	URL      string   `json:"url" yaml:"url"`
	Source   string   `json:"source" yaml:"source"`
	Category string   `json:"category" yaml:"category"`
	Tags     []string `json:"tags,omitempty" yaml:"tags"`

	// Summary is the curated fallback text served when fetching is
	// disabled or the source is unreachable.
	Summary string `json:"summary" yaml:"summary"`
}

// EducationCatalog is the YAML catalog file layout.
type EducationCatalog struct {
	Topics []EducationTopic `json:"topics" yaml:"topics"`
}

// EducationArticle is a cached article body for a catalog topic. Bodies
// are refetched when older than the configured refresh interval.
type EducationArticle struct {
	ID      string `json:"id"`
	TopicID string `json:"topic_id" badgerhold:"index"`

	Title    string   `json:"title"`
	URL      string   `json:"url"`
	Source   string   `json:"source"`
	Category string   `json:"category"`
	Tags     []string `json:"tags,omitempty"`
	Summary  string   `json:"summary"`

	ContentMarkdown string    `json:"content_markdown"`
	FetchedAt       time.Time `json:"fetched_at"`
}
