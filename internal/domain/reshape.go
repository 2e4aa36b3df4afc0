package domain

import (
	"fmt"
	"slices"
	"time"
)

// Cutoff returns the earliest of the per-region latest report dates, i.e. the
// last date on which every region in records has reported. ok is false when
// records is empty.
func Cutoff(records []Record) (cutoff time.Time, ok bool) {
	latest := make(map[string]time.Time)
	for _, r := range records {
		if d, seen := latest[r.Region]; !seen || r.Date.After(d) {
			latest[r.Region] = r.Date
		}
	}
	for _, d := range latest {
		if !ok || d.Before(cutoff) {
			cutoff, ok = d, true
		}
	}
	return cutoff, ok
}

// NationalTotal sums the state records per date up to and including the
// cutoff and returns them as NationalRegion rows in date order. Null counts
// are skipped; the sums are always valid. FIPS is left null.
func NationalTotal(states []Record) []Record {
	cutoff, ok := Cutoff(states)
	if !ok {
		return nil
	}

	byDate := make(map[time.Time]*Record)
	for _, r := range states {
		if r.Date.After(cutoff) {
			continue
		}
		total, seen := byDate[r.Date]
		if !seen {
			total = &Record{
				Region: NationalRegion,
				Date:   r.Date,
				Cases:  NewCount(0),
				Deaths: NewCount(0),
			}
			byDate[r.Date] = total
		}
		if r.Cases.Valid {
			total.Cases.Value += r.Cases.Value
		}
		if r.Deaths.Valid {
			total.Deaths.Value += r.Deaths.Value
		}
	}

	out := make([]Record, 0, len(byDate))
	for _, r := range byDate {
		out = append(out, *r)
	}
	slices.SortFunc(out, compareRecords)
	return out
}

// BuildStateTable indexes the state records together with the national total.
func BuildStateTable(states []Record) (*Table, error) {
	for _, r := range states {
		if r.Region == NationalRegion {
			return nil, fmt.Errorf("state records must not use reserved region %q", NationalRegion)
		}
	}
	national := NationalTotal(states)
	all := make([]Record, 0, len(states)+len(national))
	all = append(all, states...)
	all = append(all, national...)

	t, err := NewTable(all)
	if err != nil {
		return nil, fmt.Errorf("build state table: %w", err)
	}
	return t, nil
}

// BuildCountyTable indexes the county records by their "State - County" label.
func BuildCountyTable(counties []Record) (*Table, error) {
	t, err := NewTable(counties)
	if err != nil {
		return nil, fmt.Errorf("build county table: %w", err)
	}
	return t, nil
}

// BuildDataset reshapes parsed state and county records into a Dataset
// stamped with the current clock time.
func BuildDataset(states, counties []Record) (*Dataset, error) {
	stateTable, err := BuildStateTable(states)
	if err != nil {
		return nil, err
	}
	countyTable, err := BuildCountyTable(counties)
	if err != nil {
		return nil, err
	}

	cutoff, _ := Cutoff(states)
	return &Dataset{
		States:   stateTable,
		Counties: countyTable,
		Cutoff:   cutoff,
		LoadedAt: clock.Now().UTC(),
	}, nil
}
