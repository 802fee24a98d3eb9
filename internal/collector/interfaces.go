package collector

import (
	"context"
	"time"

	"github.com/Kamar-Folarin/mileage-collector/internal/models"
)

// Source is the external data source walked by a collection
type Source interface {
	// ListGenerations lists the generations of a brand's model
	ListGenerations(ctx context.Context, brandID, modelID int) ([]models.Generation, error)

	// ListMileageCars fetches the sold-listing statistics for one model year
	ListMileageCars(ctx context.Context, brandID, modelID, generationID, year int) (*models.MileagePayload, error)
}

// AggregateSink persists aggregate records
type AggregateSink interface {
	CreateMileageCars(ctx context.Context, record *models.MileageCars) error
}

// StateStore provides the model selection and records scrape state
type StateStore interface {
	// SelectedModels returns the models of a brand flagged for collection
	SelectedModels(ctx context.Context, brandID int) ([]models.Model, error)

	// MarkParsed stamps a model and its brand as collected
	MarkParsed(ctx context.Context, brandID, modelID int, at time.Time) error
}

// SelectionSource provides the saved brand selection
type SelectionSource interface {
	LoadSelection(ctx context.Context) ([]int, error)
}

// RefetchSignal is raised once a collection finished
type RefetchSignal interface {
	TriggerRefetch()
}

// ProgressReporter receives progress snapshots of a running collection
type ProgressReporter interface {
	Report(p models.CollectionProgress)
}

// RunStore persists collection run records
type RunStore interface {
	SaveCollectionRun(ctx context.Context, run *models.CollectionRun) error
	GetCollectionRun(ctx context.Context, id string) (*models.CollectionRun, error)
	GetLatestCollectionRun(ctx context.Context) (*models.CollectionRun, error)
}
