package models

import (
	"encoding/json"
	"fmt"
	"time"
)

type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// CollectionRun tracks one walk over the selected brands
type CollectionRun struct {
	ID         string     `json:"id"`
	Status     RunStatus  `json:"status"`
	BrandIDs   []int      `json:"brand_ids"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	LastError  string     `json:"last_error,omitempty"`
	RunCounters
}

// Finish marks the run as done at the given time, failed when err is non-nil.
func (r *CollectionRun) Finish(at time.Time, err error) {
	r.FinishedAt = &at
	if err != nil {
		r.Status = RunStatusFailed
		r.LastError = err.Error()
		return
	}
	r.Status = RunStatusCompleted
}

// IsRunning reports whether the run has not finished yet
func (r *CollectionRun) IsRunning() bool {
	return r != nil && r.Status == RunStatusRunning
}

// String returns the JSON string representation of the run
func (r *CollectionRun) String() string {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Sprintf(`{"error":"failed to marshal collection run: %v"}`, err)
	}
	return string(data)
}

// CollectionProgress is a snapshot of where a running collection is
type CollectionProgress struct {
	RunID           string    `json:"run_id"`
	BrandID         int       `json:"brand_id"`
	ModelID         int       `json:"model_id"`
	GenerationID    int       `json:"generation_id"`
	Year            int       `json:"year"`
	ProcessedBrands int       `json:"processed_brands"`
	TotalBrands     int       `json:"total_brands"`
	ProcessedModels int       `json:"processed_models"`
	Attempts        int       `json:"attempts"`
	StartTime       time.Time `json:"start_time"`
	LastUpdateTime  time.Time `json:"last_update_time"`
}
