package models

import (
	"encoding/json"
	"time"
)

// MileageCars is the database record built from every sold-listing result of one generation
type MileageCars struct {
	ID           int64                   `json:"id"`
	BrandID      int                     `json:"brand_id" binding:"required,gt=0"`
	ModelID      int                     `json:"model_id" binding:"required,gt=0"`
	GenerationID int                     `json:"generation_id" binding:"required,gt=0"`
	Years        []int                   `json:"years"`
	AdvertCount  int                     `json:"advert_count"`
	SoldAdverts  []json.RawMessage       `json:"sold_adverts"`
	Payloads     map[int]json.RawMessage `json:"payloads,omitempty"`
	CreatedAt    time.Time               `json:"created_at"`
}

// MileageCarsFilter narrows a listing of stored records. Zero values match everything.
type MileageCarsFilter struct {
	BrandID      int
	ModelID      int
	GenerationID int
	Limit        int
	Offset       int
}
