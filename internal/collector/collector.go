package collector

import (
	"context"
	"fmt"
	"iter"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Kamar-Folarin/mileage-collector/internal/models"
)

// Collector walks brand -> selected model -> generation -> model year, strictly in order,
// and persists one aggregate per generation that produced sold listings.
type Collector struct {
	source   Source
	sink     AggregateSink
	state    StateStore
	signal   RefetchSignal
	progress ProgressReporter
	logger   *logrus.Logger
	now      func() time.Time
}

// NewCollector creates a collector. progress may be nil.
func NewCollector(
	source Source,
	sink AggregateSink,
	state StateStore,
	signal RefetchSignal,
	progress ProgressReporter,
	logger *logrus.Logger,
) *Collector {
	return &Collector{
		source:   source,
		sink:     sink,
		state:    state,
		signal:   signal,
		progress: progress,
		logger:   logger,
		now:      time.Now,
	}
}

// Run collects the given brands.
//
// A failed fetch for a single model year is logged, counted and otherwise ignored. Failing to
// read a brand's selection, to list a model's generations or to stamp a model aborts the run.
// A failed aggregate write is logged and counted. The refetch signal is raised only when every
// brand was walked.
func (c *Collector) Run(ctx context.Context, runID string, brandIDs []int) (models.RunCounters, error) {
	var counters models.RunCounters
	logger := c.logger.WithFields(logrus.Fields{
		"run_id": runID,
		"brands": brandIDs,
	})
	logger.Info("Starting collection run")

	progress := models.CollectionProgress{
		RunID:       runID,
		TotalBrands: len(brandIDs),
		StartTime:   c.now(),
	}

	for _, brandID := range brandIDs {
		selected, err := c.state.SelectedModels(ctx, brandID)
		if err != nil {
			return counters, fmt.Errorf("failed to load selected models of brand %d: %w", brandID, err)
		}

		brandLogger := logger.WithField("brand_id", brandID)
		brandLogger.WithField("models", len(selected)).Info("Collecting brand")
		progress.BrandID = brandID

		for _, model := range selected {
			if err := ctx.Err(); err != nil {
				return counters, err
			}
			progress.ModelID = model.ID

			if err := c.collectModel(ctx, brandLogger, brandID, model, &counters, &progress); err != nil {
				return counters, err
			}

			if err := c.state.MarkParsed(ctx, brandID, model.ID, c.now()); err != nil {
				return counters, fmt.Errorf("failed to stamp model %d of brand %d: %w", model.ID, brandID, err)
			}
			counters.Models++
			progress.ProcessedModels++
			c.report(progress)
		}

		counters.Brands++
		progress.ProcessedBrands++
		c.report(progress)
	}

	c.signal.TriggerRefetch()

	logger.WithFields(logrus.Fields{
		"models":          counters.Models,
		"generations":     counters.Generations,
		"attempts":        counters.Attempts,
		"failed_attempts": counters.FailedAttempts,
		"aggregates":      counters.Aggregates,
		"failed_writes":   counters.FailedWrites,
	}).Info("Collection run completed")

	return counters, nil
}

func (c *Collector) collectModel(
	ctx context.Context,
	logger *logrus.Entry,
	brandID int,
	model models.Model,
	counters *models.RunCounters,
	progress *models.CollectionProgress,
) error {
	logger = logger.WithField("model_id", model.ID)

	generations, err := c.source.ListGenerations(ctx, brandID, model.ID)
	if err != nil {
		return fmt.Errorf("failed to list generations of model %d: %w", model.ID, err)
	}
	logger.WithField("generations", len(generations)).Debug("Collecting model")

	for _, gen := range generations {
		counters.Generations++
		progress.GenerationID = gen.ID
		genLogger := logger.WithField("generation_id", gen.ID)

		if gen.SpanTooWide() {
			genLogger.WithFields(logrus.Fields{
				"year_from": *gen.YearFrom,
				"year_to":   *gen.YearTo,
			}).Warn("Implausible year range, skipping generation")
			continue
		}

		attempts := c.tracked(Attempts(ctx, c.source, brandID, model.ID, gen, c.now), genLogger, progress)
		results, tally := SoldListings(attempts)

		counters.Attempts += tally.Attempts
		counters.FailedAttempts += tally.Failed
		counters.EmptyResults += tally.Empty

		// cancellation is not a per-year failure
		if err := ctx.Err(); err != nil {
			return err
		}

		record := BuildMileageCars(results)
		if record == nil {
			genLogger.WithField("attempts", tally.Attempts).Debug("No sold listings for generation")
			continue
		}

		if err := c.sink.CreateMileageCars(ctx, record); err != nil {
			counters.FailedWrites++
			genLogger.WithError(err).Error("Failed to save mileage cars")
			continue
		}
		counters.Aggregates++
		genLogger.WithFields(logrus.Fields{
			"years":        record.Years,
			"advert_count": record.AdvertCount,
		}).Info("Saved mileage cars")
	}

	return nil
}

// tracked reports progress and logs failures as attempts pass through
func (c *Collector) tracked(attempts iter.Seq[Attempt], logger *logrus.Entry, progress *models.CollectionProgress) iter.Seq[Attempt] {
	return func(yield func(Attempt) bool) {
		for a := range attempts {
			progress.Year = a.Result.Year
			progress.Attempts++
			c.report(*progress)

			if !a.OK() {
				logger.WithField("year", a.Result.Year).WithError(a.Err).Warn("Mileage fetch failed, skipping year")
			}
			if !yield(a) {
				return
			}
		}
	}
}

func (c *Collector) report(p models.CollectionProgress) {
	if c.progress == nil {
		return
	}
	p.LastUpdateTime = c.now()
	c.progress.Report(p)
}
