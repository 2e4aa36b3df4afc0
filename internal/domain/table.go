package domain

import (
	"cmp"
	"fmt"
	"slices"
	"time"
)

// Table is an immutable set of records sorted by (region, date).
type Table struct {
	rows    []Record
	regions []string
	spans   map[string]span
}

// span is the half-open row range [start, end) holding one region.
type span struct {
	start, end int
}

// NewTable sorts the records by key and indexes them by region.
// It returns an error if any (region, date) key appears more than once.
func NewTable(records []Record) (*Table, error) {
	rows := slices.Clone(records)
	slices.SortStableFunc(rows, compareRecords)

	t := &Table{
		rows:  rows,
		spans: make(map[string]span),
	}

	for i := 0; i < len(rows); {
		region := rows[i].Region
		j := i + 1
		for j < len(rows) && rows[j].Region == region {
			if rows[j].Date.Equal(rows[j-1].Date) {
				return nil, fmt.Errorf("duplicate record for %q on %s", region, rows[j].Date.Format(DateLayout))
			}
			j++
		}
		t.regions = append(t.regions, region)
		t.spans[region] = span{start: i, end: j}
		i = j
	}

	return t, nil
}

func compareRecords(a, b Record) int {
	if c := cmp.Compare(a.Region, b.Region); c != 0 {
		return c
	}
	return a.Date.Compare(b.Date)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Regions returns the distinct region keys in sort order.
func (t *Table) Regions() []string {
	return slices.Clone(t.regions)
}

// Has reports whether the table holds any rows for region.
func (t *Table) Has(region string) bool {
	_, ok := t.spans[region]
	return ok
}

// Series returns the rows for region in date order, or nil if the region is unknown.
func (t *Table) Series(region string) []Record {
	s, ok := t.spans[region]
	if !ok {
		return nil
	}
	return slices.Clone(t.rows[s.start:s.end])
}

// Rows returns a copy of every row in key order.
func (t *Table) Rows() []Record {
	return slices.Clone(t.rows)
}

// Lookup returns the record stored under key.
func (t *Table) Lookup(key Key) (Record, bool) {
	s, ok := t.spans[key.Region]
	if !ok {
		return Record{}, false
	}
	rows := t.rows[s.start:s.end]
	i, found := slices.BinarySearchFunc(rows, key.Date, func(r Record, d time.Time) int {
		return r.Date.Compare(d)
	})
	if !found {
		return Record{}, false
	}
	return rows[i], true
}
