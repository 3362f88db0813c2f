package services

import "errors"

// Dashboard errors
var (
	// ErrNoData is returned when the checklist file loads with zero rows.
	ErrNoData = errors.New("no data available")

	// ErrInvalidDate is returned for a date selection that is not DD/MM/YYYY.
	ErrInvalidDate = errors.New("invalid date")

	// ErrSameDates is returned when a comparison needs two distinct dates.
	ErrSameDates = errors.New("the two selected dates are equal")

	// ErrPageOutOfRange is returned for a table page past the last one.
	ErrPageOutOfRange = errors.New("page out of range")
)
