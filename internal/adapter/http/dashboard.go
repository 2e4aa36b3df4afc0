package http

import (
	"embed"
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/couchcryptid/case-trends-dashboard/internal/chart"
	"github.com/couchcryptid/case-trends-dashboard/internal/domain"
	"github.com/couchcryptid/case-trends-dashboard/internal/observability"
)

//go:embed templates/index.html
var templateFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

const sourceURL = "https://github.com/nytimes/covid-19-data"

// DatasetProvider hands out the loaded dataset; ok is false while loading.
type DatasetProvider interface {
	Dataset() (*domain.Dataset, bool)
}

type dashboard struct {
	data    DatasetProvider
	metrics *observability.Metrics
	logger  *slog.Logger
}

func newDashboard(data DatasetProvider, metrics *observability.Metrics, logger *slog.Logger) *dashboard {
	return &dashboard{data: data, metrics: metrics, logger: logger}
}

type indexPage struct {
	Loading  bool
	States   []string
	Counties []string
	Cutoff   string
	LoadedAt string
	Source   string
}

type regionsResponse struct {
	States   []string `json:"states"`
	Counties []string `json:"counties"`
	Cutoff   string   `json:"cutoff,omitempty"`
}

func (d *dashboard) handleIndex(w http.ResponseWriter, _ *http.Request) {
	page := indexPage{Source: sourceURL}
	status := http.StatusOK

	ds, ok := d.data.Dataset()
	if ok {
		page.States = ds.States.Regions()
		page.Counties = ds.Counties.Regions()
		page.Cutoff = formatDate(ds)
		page.LoadedAt = ds.LoadedAt.Format("2006-01-02 15:04 MST")
	} else {
		page.Loading = true
		status = http.StatusServiceUnavailable
		w.Header().Set("Retry-After", "30")
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := indexTemplate.Execute(w, page); err != nil {
		d.logger.Error("render index", "error", err)
	}
}

func (d *dashboard) handleRegions(w http.ResponseWriter, _ *http.Request) {
	ds, ok := d.data.Dataset()
	if !ok {
		writeNotLoaded(w)
		return
	}
	writeJSON(w, http.StatusOK, regionsResponse{
		States:   ds.States.Regions(),
		Counties: ds.Counties.Regions(),
		Cutoff:   formatDate(ds),
	})
}

func (d *dashboard) handleFigure(w http.ResponseWriter, r *http.Request) {
	ds, ok := d.data.Dataset()
	if !ok {
		writeNotLoaded(w)
		return
	}

	q := r.URL.Query()
	fig := chart.Build(ds.States, ds.Counties, q["state"], q["county"])

	d.metrics.FigureRequests.Inc()
	d.metrics.FigureTraces.Observe(float64(fig.SeriesCount()))
	d.logger.Debug("figure built",
		"states", len(q["state"]),
		"counties", len(q["county"]),
		"traces", fig.SeriesCount(),
	)

	writeJSON(w, http.StatusOK, fig)
}

func formatDate(ds *domain.Dataset) string {
	if ds.Cutoff.IsZero() {
		return ""
	}
	return ds.Cutoff.Format(domain.DateLayout)
}

func writeNotLoaded(w http.ResponseWriter) {
	w.Header().Set("Retry-After", "30")
	writeJSON(w, http.StatusServiceUnavailable, map[string]string{
		"status": "loading",
		"error":  "dataset has not been loaded yet",
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // client may have gone away
}
