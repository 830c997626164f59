// Package v1 implements the v1 HTTP API of the flowcast backend.
package v1

import (
	"time"

	fc_uuid "github.com/flowcast/backend/internal/uuid"
)

type URIID struct {
	ID fc_uuid.UUID `uri:"id" binding:"required" format:"UUID"` // ID of the resource
}

type QueryMonthRange struct {
	From  time.Time `form:"from" time_format:"2006-01" time_utc:"1" example:"2024-01"`  // First month, in YYYY-MM format
	Until time.Time `form:"until" time_format:"2006-01" time_utc:"1" example:"2024-12"` // Last month, in YYYY-MM format
}

// Pagination contains information about the pagination for list endpoint responses.
type Pagination struct {
	Count  int   `json:"count" example:"25"`  // The amount of records returned in this response
	Offset uint  `json:"offset" example:"50"` // The offset for the first record returned
	Limit  int   `json:"limit" example:"25"`  // The maximum amount of resources to return for this request
	Total  int64 `json:"total" example:"827"` // The total number of resources matching the query
}
