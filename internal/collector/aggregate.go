package collector

import (
	"encoding/json"
	"iter"
	"slices"

	"github.com/Kamar-Folarin/mileage-collector/internal/models"
)

// Tally counts what happened to the attempts of one generation
type Tally struct {
	Attempts int
	Failed   int
	Empty    int
}

// SoldListings drains the attempts and keeps the successful results that carry
// at least one sold listing.
func SoldListings(attempts iter.Seq[Attempt]) ([]models.ScrapeResult, Tally) {
	var (
		kept  []models.ScrapeResult
		tally Tally
	)
	for a := range attempts {
		tally.Attempts++
		switch {
		case !a.OK():
			tally.Failed++
		case !a.Result.Data.HasSoldListings():
			tally.Empty++
		default:
			kept = append(kept, a.Result)
		}
	}
	return kept, tally
}

// BuildMileageCars merges the results of one generation into a database record.
// It returns nil when there is nothing to merge.
func BuildMileageCars(results []models.ScrapeResult) *models.MileageCars {
	if len(results) == 0 {
		return nil
	}

	first := results[0]
	record := &models.MileageCars{
		BrandID:      first.BrandID,
		ModelID:      first.ModelID,
		GenerationID: first.GenerationID,
		Years:        make([]int, 0, len(results)),
		SoldAdverts:  []json.RawMessage{},
		Payloads:     make(map[int]json.RawMessage, len(results)),
	}

	for _, r := range results {
		if !slices.Contains(record.Years, r.Year) {
			record.Years = append(record.Years, r.Year)
		}
		record.SoldAdverts = append(record.SoldAdverts, r.Data.LastSoldAdverts...)

		raw, err := json.Marshal(r.Data)
		if err == nil {
			record.Payloads[r.Year] = raw
		}
	}
	slices.Sort(record.Years)
	record.AdvertCount = len(record.SoldAdverts)

	return record
}
