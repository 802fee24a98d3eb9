package models

import "time"

// Brand is a vehicle make as listed by the AV API
type Brand struct {
	ID   int    `json:"id" validate:"required,gt=0"`
	Name string `json:"name" validate:"required"`
}

// Model is a vehicle model of a brand. Checked marks it for the next collection.
type Model struct {
	ID      int    `json:"id" validate:"required,gt=0"`
	Name    string `json:"name"`
	Checked bool   `json:"checked"`
}

// BrandCatalog is the persisted model list of a single brand
type BrandCatalog struct {
	BrandID   int       `json:"brand_id"`
	Models    []Model   `json:"models"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SelectedModels returns the models flagged for collection, in catalog order.
func (c *BrandCatalog) SelectedModels() []Model {
	if c == nil {
		return nil
	}
	selected := make([]Model, 0, len(c.Models))
	for _, m := range c.Models {
		if m.Checked {
			selected = append(selected, m)
		}
	}
	return selected
}

// Generation is a model generation with optional production-year bounds
type Generation struct {
	ID       int    `json:"id" validate:"required,gt=0"`
	Name     string `json:"name"`
	YearFrom *int   `json:"yearFrom,omitempty" validate:"omitempty,gte=0"`
	YearTo   *int   `json:"yearTo,omitempty" validate:"omitempty,gte=0"`
}

// MaxYearSpan is the widest year range a generation may cover
const MaxYearSpan = 100

// Years lists the model years a collection fetches for this generation.
//
// Both bounds present yields every year of the inclusive range (nothing when
// the range is inverted or wider than MaxYearSpan). A single bound yields just
// that year. No bounds yields nothing. A zero or negative bound counts as absent.
func (g Generation) Years() []int {
	from, hasFrom := bound(g.YearFrom)
	to, hasTo := bound(g.YearTo)

	switch {
	case hasFrom && hasTo:
		if to < from || g.SpanTooWide() {
			return nil
		}
		years := make([]int, 0, to-from+1)
		for y := from; y <= to; y++ {
			years = append(years, y)
		}
		return years
	case hasFrom:
		return []int{from}
	case hasTo:
		return []int{to}
	default:
		return nil
	}
}

// SpanTooWide reports a two-bound range covering more than MaxYearSpan years
func (g Generation) SpanTooWide() bool {
	from, hasFrom := bound(g.YearFrom)
	to, hasTo := bound(g.YearTo)
	if !hasFrom || !hasTo || to < from {
		return false
	}
	// both bounds are positive, so the difference cannot overflow
	return to-from >= MaxYearSpan
}

func bound(v *int) (int, bool) {
	if v == nil || *v <= 0 {
		return 0, false
	}
	return *v, true
}

// IntPtr returns a pointer to v
func IntPtr(v int) *int {
	return &v
}
