// Package api contains API contract definitions for the floorcheck dashboard.
// Version v1 represents the current stable API version.
package api

// PaginationRequest represents common pagination parameters
type PaginationRequest struct {
	Page     int `json:"page" query:"page" validate:"min=1"`
	PageSize int `json:"page_size" query:"page_size" validate:"min=1,max=500"`
}

// LoginRequest carries dashboard credentials
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AddRecipientRequest appends an address to the alert list
type AddRecipientRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// SendAlertRequest asks for a critical floor alert to be emailed
type SendAlertRequest struct {
	CriticalFloor string `json:"critical_floor" validate:"required,notblank"`
}

// FloorsRequest selects two dates and an optional floor drill-down
type FloorsRequest struct {
	Date1 string `query:"date1" validate:"required,datetime=02/01/2006"`
	Date2 string `query:"date2" validate:"required,datetime=02/01/2006"`
	Floor string `query:"floor"`
}

// PositionsRequest selects a date and an optional position drill-down
type PositionsRequest struct {
	Date     string `query:"date" validate:"required,datetime=02/01/2006"`
	Position string `query:"position"`
}

// ObservationsRequest selects two distinct dates and an optional observation
type ObservationsRequest struct {
	Date1       string `query:"date1" validate:"required,datetime=02/01/2006"`
	Date2       string `query:"date2" validate:"required,datetime=02/01/2006"`
	Observation string `query:"observation"`
}
