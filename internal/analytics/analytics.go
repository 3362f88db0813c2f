package analytics

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"floorcheck/internal/dataset"
)

// ErrEmptyResult is returned when an aggregation has no values to work with.
var ErrEmptyResult = errors.New("no data for this selection")

// Count is one value of a column with its number of occurrences.
type Count struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// DateCount is the number of records on one day.
type DateCount struct {
	Date  time.Time `json:"date"`
	Count int       `json:"count"`
}

// CountBy counts the non-empty values of col. The result is ordered by
// descending count; values with equal counts keep the order in which they
// first appear in ds.
func CountBy(ds *dataset.Dataset, col dataset.Column) []Count {
	index := make(map[string]int)
	var counts []Count
	for i := 0; i < ds.Len(); i++ {
		v := ds.At(i).Value(col)
		if v == "" {
			continue
		}
		if pos, ok := index[v]; ok {
			counts[pos].Count++
			continue
		}
		index[v] = len(counts)
		counts = append(counts, Count{Value: v, Count: 1})
	}
	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	return counts
}

// MostFrequent returns the modal value of col. Ties go to the value seen
// first in row order. Empty values and null dates are not counted.
func MostFrequent(ds *dataset.Dataset, col dataset.Column) (string, error) {
	counts := CountBy(ds, col)
	if len(counts) == 0 {
		return "", fmt.Errorf("%w: most frequent %s", ErrEmptyResult, col)
	}
	return counts[0].Value, nil
}

// TopN returns at most n leading entries of counts.
func TopN(counts []Count, n int) []Count {
	if n < 0 {
		n = 0
	}
	if len(counts) <= n {
		return counts
	}
	return counts[:n]
}

// CountMap flattens counts into a lookup table.
func CountMap(counts []Count) map[string]int {
	m := make(map[string]int, len(counts))
	for _, c := range counts {
		m[c.Value] = c.Count
	}
	return m
}

// FilterByDate keeps the rows recorded on the calendar day of d.
func FilterByDate(ds *dataset.Dataset, d time.Time) *dataset.Dataset {
	if d.IsZero() {
		return ds.Where(func(dataset.Record) bool { return false })
	}
	day := dataset.Day(d)
	return ds.Where(func(r dataset.Record) bool {
		return r.HasDate() && r.Date.Equal(day)
	})
}

// FilterBy keeps the rows whose col equals value exactly.
func FilterBy(ds *dataset.Dataset, col dataset.Column, value string) *dataset.Dataset {
	return ds.Where(func(r dataset.Record) bool {
		return r.Value(col) == value
	})
}

// Dates lists the distinct non-null dates of ds in ascending order.
func Dates(ds *dataset.Dataset) []time.Time {
	seen := make(map[time.Time]struct{})
	var dates []time.Time
	for i := 0; i < ds.Len(); i++ {
		r := ds.At(i)
		if !r.HasDate() {
			continue
		}
		if _, ok := seen[r.Date]; ok {
			continue
		}
		seen[r.Date] = struct{}{}
		dates = append(dates, r.Date)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

// Trend counts records per non-null date, oldest first.
func Trend(ds *dataset.Dataset) []DateCount {
	perDay := make(map[time.Time]int)
	for i := 0; i < ds.Len(); i++ {
		r := ds.At(i)
		if r.HasDate() {
			perDay[r.Date]++
		}
	}
	trend := make([]DateCount, 0, len(perDay))
	for d, n := range perDay {
		trend = append(trend, DateCount{Date: d, Count: n})
	}
	sort.Slice(trend, func(i, j int) bool { return trend[i].Date.Before(trend[j].Date) })
	return trend
}
