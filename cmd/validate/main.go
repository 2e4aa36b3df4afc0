// Command validate loads the NY Times state and county CSVs, reshapes them
// exactly as the dashboard does, and checks the resulting tables for
// integrity: unique keys, national totals that match the state sums, the
// national cutoff, county label shape, and chart traces that only carry
// positive counts.
//
// Usage:
//
//	go run ./cmd/validate                      # fetch the published CSVs
//	go run ./cmd/validate \
//	  -states-file data/us-states.csv \
//	  -counties-file data/us-counties.csv
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/couchcryptid/case-trends-dashboard/internal/adapter/nytimes"
	"github.com/couchcryptid/case-trends-dashboard/internal/chart"
	"github.com/couchcryptid/case-trends-dashboard/internal/config"
	"github.com/couchcryptid/case-trends-dashboard/internal/domain"
	"github.com/couchcryptid/case-trends-dashboard/internal/pipeline"
)

// maxErrors caps the detail kept per phase; the county file has millions of rows.
const maxErrors = 50

// phase tracks pass/fail for a validation phase.
type phase struct {
	name    string
	errors  []string
	dropped int
}

func (p *phase) errorf(format string, args ...any) {
	if len(p.errors) >= maxErrors {
		p.dropped++
		return
	}
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	statesFile := flag.String("states-file", "", "local us-states.csv (default: fetch -states-url)")
	countiesFile := flag.String("counties-file", "", "local us-counties.csv (default: fetch -counties-url)")
	statesURL := flag.String("states-url", config.DefaultStatesURL, "us-states.csv URL")
	countiesURL := flag.String("counties-url", config.DefaultCountiesURL, "us-counties.csv URL")
	timeout := flag.Duration("timeout", 2*time.Minute, "HTTP timeout per CSV")
	flag.Parse()

	var source pipeline.Source = fileSource{states: *statesFile, counties: *countiesFile}
	if *statesFile == "" || *countiesFile == "" {
		if *statesFile != "" || *countiesFile != "" {
			fmt.Fprintln(os.Stderr, "-states-file and -counties-file must be given together")
			flag.Usage()
			os.Exit(1)
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		source = nytimes.NewClient(*statesURL, *countiesURL, *timeout, logger)
	}

	os.Exit(run(context.Background(), source))
}

func run(ctx context.Context, source pipeline.Source) int {
	fmt.Println("=== Case Data Integrity Validation ===")
	fmt.Println()

	states, err := source.States(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load states: %v\n", err)
		return 1
	}
	counties, err := source.Counties(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load counties: %v\n", err)
		return 1
	}

	phases := []*phase{validateUniqueKeys(states, counties)}

	// Duplicate keys make the tables unbuildable; report them and stop.
	ds, err := domain.BuildDataset(states, counties)
	if err == nil {
		phases = append(phases,
			validateNationalTotal(states, ds),
			validateCutoff(states, ds),
			validateCountyLabels(ds),
			validatePositiveTraces(ds),
		)
	} else {
		fmt.Fprintf(os.Stderr, "build dataset: %v\n", err)
	}

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors)+p.dropped)
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Records: %d state CSV, %d county CSV\n", len(states), len(counties))
	if ds != nil {
		fmt.Printf("Regions: %d states (incl. %s), %d counties; national cutoff %s\n",
			len(ds.States.Regions()), domain.NationalRegion, len(ds.Counties.Regions()),
			ds.Cutoff.Format(domain.DateLayout))
	}

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
		if p.dropped > 0 {
			fmt.Printf("  ... and %d more\n", p.dropped)
		}
	}

	if allPassed && ds != nil {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// ── Data loading ──

// fileSource reads the CSVs from disk. It implements pipeline.Source.
type fileSource struct {
	states   string
	counties string
}

func (f fileSource) States(_ context.Context) ([]domain.Record, error) {
	return parseFile(f.states, domain.ParseStateCSV)
}

func (f fileSource) Counties(_ context.Context) ([]domain.Record, error) {
	return parseFile(f.counties, domain.ParseCountyCSV)
}

func parseFile(path string, parse func(io.Reader) ([]domain.Record, error)) ([]domain.Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	records, err := parse(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

// ── Phase 1: Keys ──

func validateUniqueKeys(states, counties []domain.Record) *phase {
	p := &phase{name: "Unique (region, date) keys"}
	for _, set := range [][]domain.Record{states, counties} {
		seen := make(map[domain.Key]bool, len(set))
		for _, r := range set {
			if seen[r.Key()] {
				p.errorf("duplicate %q on %s", r.Region, r.Date.Format(domain.DateLayout))
			}
			seen[r.Key()] = true
		}
	}
	for _, r := range states {
		if r.Region == domain.NationalRegion {
			p.errorf("state CSV uses reserved region %q", domain.NationalRegion)
			break
		}
	}
	return p
}

// ── Phase 2: National total ──

func validateNationalTotal(states []domain.Record, ds *domain.Dataset) *phase {
	p := &phase{name: "USA equals sum of states"}

	type sums struct{ cases, deaths int64 }
	byDate := make(map[time.Time]sums)
	for _, r := range states {
		s := byDate[r.Date]
		if r.Cases.Valid {
			s.cases += r.Cases.Value
		}
		if r.Deaths.Valid {
			s.deaths += r.Deaths.Value
		}
		byDate[r.Date] = s
	}

	for _, usa := range ds.States.Series(domain.NationalRegion) {
		want := byDate[usa.Date]
		day := usa.Date.Format(domain.DateLayout)
		if usa.Cases.Value != want.cases {
			p.errorf("%s cases: USA=%s, states=%d", day, usa.Cases, want.cases)
		}
		if usa.Deaths.Value != want.deaths {
			p.errorf("%s deaths: USA=%s, states=%d", day, usa.Deaths, want.deaths)
		}
		if usa.FIPS != "" {
			p.errorf("%s: USA FIPS should be null, got %q", day, usa.FIPS)
		}
	}
	return p
}

// ── Phase 3: Cutoff ──

func validateCutoff(states []domain.Record, ds *domain.Dataset) *phase {
	p := &phase{name: "USA truncated at national cutoff"}

	latest := make(map[string]time.Time)
	for _, r := range states {
		if r.Date.After(latest[r.Region]) {
			latest[r.Region] = r.Date
		}
	}
	for region, d := range latest {
		if d.Before(ds.Cutoff) {
			p.errorf("%s last reported %s, before cutoff %s",
				region, d.Format(domain.DateLayout), ds.Cutoff.Format(domain.DateLayout))
		}
	}

	usa := ds.States.Series(domain.NationalRegion)
	for _, r := range usa {
		if r.Date.After(ds.Cutoff) {
			p.errorf("USA row on %s is after cutoff %s",
				r.Date.Format(domain.DateLayout), ds.Cutoff.Format(domain.DateLayout))
		}
	}
	if len(usa) > 0 && !usa[len(usa)-1].Date.Equal(ds.Cutoff) {
		p.errorf("last USA row %s does not reach cutoff %s",
			usa[len(usa)-1].Date.Format(domain.DateLayout), ds.Cutoff.Format(domain.DateLayout))
	}
	return p
}

// ── Phase 4: County labels ──

func validateCountyLabels(ds *domain.Dataset) *phase {
	p := &phase{name: `County labels are "State - County"`}

	states := make(map[string]bool)
	for _, s := range ds.States.Regions() {
		states[s] = true
	}

	for _, label := range ds.Counties.Regions() {
		state, county, ok := strings.Cut(label, " - ")
		switch {
		case !ok:
			p.errorf("%q has no separator", label)
		case county == "":
			p.errorf("%q has an empty county", label)
		case !states[state]:
			p.errorf("%q names unknown state %q", label, state)
		}
	}
	return p
}

// ── Phase 5: Chart traces ──

func validatePositiveTraces(ds *domain.Dataset) *phase {
	p := &phase{name: "Chart traces carry only positive counts"}

	fig := chart.Build(ds.States, ds.Counties, ds.States.Regions(), nil)
	if want := 2 * len(ds.States.Regions()); fig.SeriesCount() != want {
		p.errorf("expected %d traces, got %d", want, fig.SeriesCount())
	}
	for _, tr := range fig.Data {
		if len(tr.X) != len(tr.Y) {
			p.errorf("%s: %d dates but %d values", tr.Name, len(tr.X), len(tr.Y))
		}
		for i, y := range tr.Y {
			if y <= 0 {
				p.errorf("%s: non-positive value %d on %s", tr.Name, y, tr.X[i])
			}
		}
	}
	return p
}
