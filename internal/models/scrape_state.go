package models

import "time"

// ModelScrapeState records when a model was last collected
type ModelScrapeState struct {
	BrandID       int       `json:"brand_id"`
	ModelID       int       `json:"model_id"`
	LastParseDate time.Time `json:"last_parse_date"`
}

// BrandScrapeState records when any model of a brand was last collected
type BrandScrapeState struct {
	BrandID       int       `json:"brand_id"`
	LastParseDate time.Time `json:"last_parse_date"`
}

// Freshness classifies how recent the last collection of a brand is
type Freshness string

const (
	FreshnessFresh    Freshness = "fresh"
	FreshnessStale    Freshness = "stale"
	FreshnessOutdated Freshness = "outdated"
	FreshnessNever    Freshness = "never"
)

const (
	FreshWindow = 48 * time.Hour
	StaleWindow = 168 * time.Hour
)

// FreshnessAt classifies a last-parse time relative to now.
func FreshnessAt(lastParse *time.Time, now time.Time) Freshness {
	if lastParse == nil || lastParse.IsZero() {
		return FreshnessNever
	}
	age := now.Sub(*lastParse)
	switch {
	case age < FreshWindow:
		return FreshnessFresh
	case age < StaleWindow:
		return FreshnessStale
	default:
		return FreshnessOutdated
	}
}

// BrandStatus is a brand together with its collection freshness
type BrandStatus struct {
	Brand
	LastParseDate *time.Time `json:"last_parse_date,omitempty"`
	Freshness     Freshness  `json:"freshness"`
	Selected      bool       `json:"selected"`
}

// ModelStatus is a catalog model together with its last collection time
type ModelStatus struct {
	Model
	LastParseDate *time.Time `json:"last_parse_date,omitempty"`
}
