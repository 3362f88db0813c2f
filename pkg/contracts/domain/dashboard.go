package domain

import (
	"time"
)

// DateLayout is the layout of every date string in the dashboard contracts.
const DateLayout = "02/01/2006"

// NotAvailable stands in for a KPI whose column holds no value in the rows
// it was computed over. The KPI's JSON name is listed in Unavailable.
const NotAvailable = "N/A"

// RecordView is one checklist row as shown in tables
type RecordView struct {
	Date        string `json:"date"`
	Floor       string `json:"floor"`
	Position    string `json:"position"`
	Observation string `json:"observation"`
}

// CountView is a value with its number of occurrences
type CountView struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// DateCountView is the number of records on one date
type DateCountView struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// ComparisonView lines up the count of one value on two dates
type ComparisonView struct {
	Value  string `json:"value"`
	First  int    `json:"first"`
	Second int    `json:"second"`
}

// DatesView lists the dates present in the dataset
type DatesView struct {
	Dates []string `json:"dates"`
}

// SummaryView holds the full-history KPIs
type SummaryView struct {
	TotalRecords        int             `json:"total_records"`
	InvalidDates        int             `json:"invalid_dates"`
	CriticalFloor       string          `json:"critical_floor"`
	CriticalPosition    string          `json:"critical_position"`
	CriticalDate        string          `json:"critical_date"`
	CriticalObservation string          `json:"critical_observation"`
	FloorDistribution   []CountView     `json:"floor_distribution"`
	Trend               []DateCountView `json:"trend"`
	LoadedAt            time.Time       `json:"loaded_at"`
	Unavailable         []string        `json:"unavailable,omitempty"`
}

// FloorDay holds the per-floor KPIs of one date
type FloorDay struct {
	Date                string      `json:"date"`
	Records             int         `json:"records"`
	CriticalFloor       string      `json:"critical_floor"`
	CriticalPosition    string      `json:"critical_position"`
	CriticalObservation string      `json:"critical_observation"`
	Floors              []CountView `json:"floors"`
	Unavailable         []string    `json:"unavailable,omitempty"`
}

// FloorDrilldown details one floor on the first selected date
type FloorDrilldown struct {
	Floor               string       `json:"floor"`
	Date                string       `json:"date"`
	CriticalPosition    string       `json:"critical_position"`
	CriticalObservation string       `json:"critical_observation"`
	Rows                []RecordView `json:"rows"`
	Unavailable         []string     `json:"unavailable,omitempty"`
}

// FloorsView compares floors across two dates
type FloorsView struct {
	First      FloorDay         `json:"first"`
	Second     FloorDay         `json:"second"`
	Comparison []ComparisonView `json:"comparison"`
	Drilldown  *FloorDrilldown  `json:"drilldown,omitempty"`
}

// PositionsView ranks the positions of one date
type PositionsView struct {
	Date             string       `json:"date"`
	Records          int          `json:"records"`
	CriticalPosition string       `json:"critical_position"`
	TopPositions     []CountView  `json:"top_positions"`
	Selected         string       `json:"selected,omitempty"`
	Rows             []RecordView `json:"rows,omitempty"`
}

// ObservationDay holds the observation KPIs of one date
type ObservationDay struct {
	Date                string       `json:"date"`
	Records             int          `json:"records"`
	CriticalObservation string       `json:"critical_observation"`
	CriticalPosition    string       `json:"critical_position"`
	TopObservations     []CountView  `json:"top_observations"`
	Rows                []RecordView `json:"rows,omitempty"`
	Unavailable         []string     `json:"unavailable,omitempty"`
}

// ObservationsView compares observations across two distinct dates
type ObservationsView struct {
	First    ObservationDay `json:"first"`
	Second   ObservationDay `json:"second"`
	Selected string         `json:"selected,omitempty"`
}

// TableView is one page of the raw table
type TableView struct {
	Page       int          `json:"page"`
	PageSize   int          `json:"page_size"`
	TotalRows  int          `json:"total_rows"`
	TotalPages int          `json:"total_pages"`
	Columns    []string     `json:"columns"`
	Rows       []RecordView `json:"rows"`
}
