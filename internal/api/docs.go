package api

import (
	"github.com/Kamar-Folarin/mileage-collector/internal/models"

	_ "github.com/Kamar-Folarin/mileage-collector/docs"
)

// ErrorResponse represents an API error
// @Description Error response from the API
// @swagger:model ErrorResponse
type ErrorResponse struct {
	// Error message
	// @example brand 9999 not found
	Error string `json:"error" example:"failed to process request"`
}

// SelectionRequest replaces the saved brand selection
// @Description Brand ids to collect by default
// @swagger:model SelectionRequest
type SelectionRequest struct {
	// Brand ids, order is kept and duplicates dropped
	BrandIDs []int `json:"brand_ids" binding:"dive,gt=0" example:"6,8"`
}

// SelectionResponse is the saved brand selection
// @swagger:model SelectionResponse
type SelectionResponse struct {
	BrandIDs []int `json:"brand_ids" example:"6,8"`
}

// ModelSelectionRequest checks exactly the given models of a brand
// @Description Models of the brand to include in collection runs
// @swagger:model ModelSelectionRequest
type ModelSelectionRequest struct {
	ModelIDs []int `json:"model_ids" binding:"dive,gt=0" example:"10,12"`
}

// CollectRequest starts a collection run
// @Description Brand ids to collect, the saved selection when empty
// @swagger:model CollectRequest
type CollectRequest struct {
	BrandIDs []int `json:"brand_ids,omitempty" binding:"dive,gt=0" example:"6"`
}

// RefetchResponse carries the refetch flag raised by a completed collection
// @swagger:model RefetchResponse
type RefetchResponse struct {
	// Whether cars should be reloaded since the last check
	TriggerToRefetchCars bool `json:"trigger_to_refetch_cars" example:"true"`
}

// MileageCarsListResponse is a page of stored aggregate records
// @Description A paginated list of mileage cars records, newest first
// @swagger:model MileageCarsListResponse
type MileageCarsListResponse struct {
	Data   []*models.MileageCars `json:"data"`
	Limit  int                   `json:"limit" example:"50"`
	Offset int                   `json:"offset" example:"0"`
}
