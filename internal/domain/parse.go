package domain

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

var (
	stateColumns  = []string{"date", "state", "fips", "cases", "deaths"}
	countyColumns = []string{"date", "county", "state", "fips", "cases", "deaths"}
)

// ParseStateCSV reads us-states.csv rows. The region of each record is the state name.
func ParseStateCSV(r io.Reader) ([]Record, error) {
	return parseCSV(r, stateColumns, func(row map[string]string) string {
		return row["state"]
	})
}

// ParseCountyCSV reads us-counties.csv rows. The region of each record is the
// "State - County" label.
func ParseCountyCSV(r io.Reader) ([]Record, error) {
	return parseCSV(r, countyColumns, func(row map[string]string) string {
		return CountyLabel(row["state"], row["county"])
	})
}

// parseCSV maps columns by header name so column order in the source may change.
func parseCSV(r io.Reader, required []string, region func(map[string]string) string) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("parse csv: missing header")
		}
		return nil, fmt.Errorf("parse csv header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(strings.ToLower(name))] = i
	}
	for _, col := range required {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("parse csv: missing column %q", col)
		}
	}

	var records []Record
	row := make(map[string]string, len(required))
	for {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse csv: %w", err)
		}
		line, _ := cr.FieldPos(0)

		for _, col := range required {
			row[col] = strings.TrimSpace(fields[idx[col]])
		}

		rec, err := parseRow(row, region(row))
		if err != nil {
			return nil, fmt.Errorf("parse csv line %d: %w", line, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseRow(row map[string]string, region string) (Record, error) {
	date, err := ParseDate(row["date"])
	if err != nil {
		return Record{}, err
	}
	cases, err := parseCount(row["cases"])
	if err != nil {
		return Record{}, fmt.Errorf("cases: %w", err)
	}
	deaths, err := parseCount(row["deaths"])
	if err != nil {
		return Record{}, fmt.Errorf("deaths: %w", err)
	}
	return Record{
		Region: region,
		Date:   date,
		FIPS:   row["fips"],
		Cases:  cases,
		Deaths: deaths,
	}, nil
}

// ParseDate parses a "YYYY-MM-DD" calendar date as UTC midnight.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	return d, nil
}

// parseCount returns a null count for an empty cell. Some revisions of the
// county file write integral counts as floats ("12.0"), which are accepted.
func parseCount(s string) (Count, error) {
	if s == "" {
		return Count{}, nil
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return NewCount(v), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int64(f)) {
		return Count{}, fmt.Errorf("invalid count %q", s)
	}
	return NewCount(int64(f)), nil
}
