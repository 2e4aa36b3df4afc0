// Package chart turns region selections into plotly-compatible line figures.
package chart

import (
	"slices"

	"github.com/couchcryptid/case-trends-dashboard/internal/domain"
)

const (
	traceType  = "scatter"
	traceMode  = "lines+markers"
	background = "#dbdbdb"
	axisLog    = "log"
)

// Figure is the JSON document handed to Plotly.react on the dashboard page.
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

// Trace is a single plotted line.
type Trace struct {
	Type string   `json:"type"`
	Mode string   `json:"mode"`
	Name string   `json:"name"`
	X    []string `json:"x"` // YYYY-MM-DD
	Y    []int64  `json:"y"`
}

// Layout holds the figure-wide presentation settings.
type Layout struct {
	Autosize     bool   `json:"autosize"`
	Margin       Margin `json:"margin"`
	ShowLegend   bool   `json:"showlegend"`
	YAxis        Axis   `json:"yaxis"`
	PaperBGColor string `json:"paper_bgcolor"`
	PlotBGColor  string `json:"plot_bgcolor"`
}

type Margin struct {
	L int `json:"l"`
	R int `json:"r"`
	T int `json:"t"`
	B int `json:"b"`
}

type Axis struct {
	Type string `json:"type"`
}

// Build returns a figure with a cases trace and a deaths trace for every
// selected region, states first. Unknown or repeated keys are ignored and an
// empty selection contributes nothing.
func Build(states, counties *domain.Table, selectedStates, selectedCounties []string) Figure {
	fig := Figure{
		Data:   []Trace{},
		Layout: defaultLayout(),
	}
	fig.Data = appendTraces(fig.Data, states, selectedStates)
	fig.Data = appendTraces(fig.Data, counties, selectedCounties)
	return fig
}

func defaultLayout() Layout {
	return Layout{
		Autosize:     true,
		Margin:       Margin{L: 0, R: 35, T: 0, B: 0},
		ShowLegend:   true,
		YAxis:        Axis{Type: axisLog},
		PaperBGColor: background,
		PlotBGColor:  background,
	}
}

func appendTraces(traces []Trace, table *domain.Table, selected []string) []Trace {
	if table == nil {
		return traces
	}
	for _, region := range Select(table, selected) {
		series := table.Series(region)
		traces = append(traces,
			positiveTrace(region+" Cases", series, func(r domain.Record) domain.Count { return r.Cases }),
			positiveTrace(region+" Deaths", series, func(r domain.Record) domain.Count { return r.Deaths }),
		)
	}
	return traces
}

// Select narrows keys to the regions present in table, without duplicates,
// in the table's region order.
func Select(table *domain.Table, keys []string) []string {
	if len(keys) == 0 {
		return nil
	}
	var out []string
	for _, k := range keys {
		if table.Has(k) && !slices.Contains(out, k) {
			out = append(out, k)
		}
	}
	slices.Sort(out)
	return out
}

// positiveTrace keeps only the dates where the count is present and above
// zero; zero means "not yet reported" and would break the log axis.
func positiveTrace(name string, series []domain.Record, count func(domain.Record) domain.Count) Trace {
	t := Trace{
		Type: traceType,
		Mode: traceMode,
		Name: name,
		X:    []string{},
		Y:    []int64{},
	}
	for _, r := range series {
		c := count(r)
		if !c.Positive() {
			continue
		}
		t.X = append(t.X, r.Date.Format(domain.DateLayout))
		t.Y = append(t.Y, c.Value)
	}
	return t
}

// SeriesCount returns the number of traces in the figure.
func (f Figure) SeriesCount() int {
	return len(f.Data)
}
