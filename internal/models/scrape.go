package models

import (
	"encoding/json"
	"time"
)

// MileagePayload is the body returned by the AV API for one (brand, model, generation, year).
// Only lastSoldAdverts is interpreted; the full body is kept verbatim in Raw.
type MileagePayload struct {
	LastSoldAdverts []json.RawMessage `json:"lastSoldAdverts"`
	Raw             json.RawMessage   `json:"-"`
}

// UnmarshalJSON decodes the sold adverts and keeps the original document.
func (p *MileagePayload) UnmarshalJSON(data []byte) error {
	var body struct {
		LastSoldAdverts []json.RawMessage `json:"lastSoldAdverts"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return err
	}
	p.LastSoldAdverts = body.LastSoldAdverts
	p.Raw = append(json.RawMessage(nil), data...)
	return nil
}

// MarshalJSON writes back the original document when there is one.
func (p MileagePayload) MarshalJSON() ([]byte, error) {
	if len(p.Raw) > 0 {
		return p.Raw, nil
	}
	adverts := p.LastSoldAdverts
	if adverts == nil {
		adverts = []json.RawMessage{}
	}
	return json.Marshal(struct {
		LastSoldAdverts []json.RawMessage `json:"lastSoldAdverts"`
	}{adverts})
}

// HasSoldListings reports whether the payload carries at least one sold-listing entry.
func (p *MileagePayload) HasSoldListings() bool {
	return p != nil && len(p.LastSoldAdverts) > 0
}

// ScrapeResult is the outcome of one fetch for a (brand, model, generation, year) tuple
type ScrapeResult struct {
	BrandID      int            `json:"brand_id"`
	ModelID      int            `json:"model_id"`
	GenerationID int            `json:"generation_id"`
	Year         int            `json:"year"`
	Data         MileagePayload `json:"data"`
	FetchedAt    time.Time      `json:"fetched_at"`
}
