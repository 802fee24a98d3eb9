package models

// RunCounters contains the counters recorded while a collection walks the catalog
type RunCounters struct {
	Brands         int `json:"brands"`
	Models         int `json:"models"`
	Generations    int `json:"generations"`
	Attempts       int `json:"attempts"`
	FailedAttempts int `json:"failed_attempts"`
	EmptyResults   int `json:"empty_results"`
	Aggregates     int `json:"aggregates"`
	FailedWrites   int `json:"failed_writes"`
}
