package domain

import (
	"strconv"
	"time"
)

// NationalRegion is the region key of the synthetic country-wide series.
const NationalRegion = "USA"

// DateLayout is the calendar date format used by the source CSVs and chart axes.
const DateLayout = "2006-01-02"

// Count is a nullable cumulative count. The zero value is null.
type Count struct {
	Value int64
	Valid bool
}

// NewCount returns a valid count.
func NewCount(v int64) Count {
	return Count{Value: v, Valid: true}
}

// Positive reports whether the count is present and strictly greater than zero.
func (c Count) Positive() bool {
	return c.Valid && c.Value > 0
}

func (c Count) String() string {
	if !c.Valid {
		return "<null>"
	}
	return strconv.FormatInt(c.Value, 10)
}

// Record is one row of a case/death table.
type Record struct {
	Region string
	Date   time.Time // UTC midnight
	FIPS   string    // empty when the source has no code
	Cases  Count
	Deaths Count
}

// Key identifies a record within a table.
type Key struct {
	Region string
	Date   time.Time
}

// Key returns the (region, date) key of the record.
func (r Record) Key() Key {
	return Key{Region: r.Region, Date: r.Date}
}

// CountyLabel joins a state and county into the county-table region label.
func CountyLabel(state, county string) string {
	return state + " - " + county
}

// Dataset bundles the two tables produced at startup.
type Dataset struct {
	States   *Table
	Counties *Table

	// Cutoff is the last date included in the national series. Zero when
	// there are no state rows.
	Cutoff   time.Time
	LoadedAt time.Time
}
