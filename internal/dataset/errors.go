package dataset

import "errors"

var (
	// ErrFileNotFound is returned when the dataset file does not exist or cannot be read.
	ErrFileNotFound = errors.New("dataset file not found")

	// ErrMissingColumn is returned when a canonical column is absent after header repair.
	ErrMissingColumn = errors.New("dataset column missing")

	// ErrMalformed is returned when the file cannot be parsed as delimited text.
	ErrMalformed = errors.New("dataset malformed")

	// ErrUnknownColumn is returned for a column name that is not one of the four logical columns.
	ErrUnknownColumn = errors.New("unknown column")
)
