package collector

import (
	"context"
	"iter"
	"time"

	"github.com/Kamar-Folarin/mileage-collector/internal/models"
)

// Attempt is the outcome of one fetch for a (brand, model, generation, year) tuple.
// On failure Result still names the tuple and carries an empty payload.
type Attempt struct {
	Result models.ScrapeResult
	Err    error
}

// OK reports whether the fetch succeeded
func (a Attempt) OK() bool {
	return a.Err == nil
}

// Attempts yields one attempt per model year of the generation, fetching lazily as the
// sequence is consumed. A failed fetch is yielded as a failed attempt and never stops the sequence.
func Attempts(ctx context.Context, src Source, brandID, modelID int, gen models.Generation, now func() time.Time) iter.Seq[Attempt] {
	return func(yield func(Attempt) bool) {
		for _, year := range gen.Years() {
			attempt := Attempt{
				Result: models.ScrapeResult{
					BrandID:      brandID,
					ModelID:      modelID,
					GenerationID: gen.ID,
					Year:         year,
				},
			}

			payload, err := src.ListMileageCars(ctx, brandID, modelID, gen.ID, year)
			switch {
			case err != nil:
				attempt.Err = err
			case payload != nil:
				attempt.Result.Data = *payload
			}
			attempt.Result.FetchedAt = now()

			if !yield(attempt) {
				return
			}
		}
	}
}
