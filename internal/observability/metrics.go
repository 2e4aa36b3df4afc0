package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the dashboard.
type Metrics struct {
	// Startup load metrics.
	LoadDuration   *prometheus.HistogramVec // labels: dataset={states,counties}
	LoadFailures   *prometheus.CounterVec   // labels: stage={fetch,build}
	TableRows      *prometheus.GaugeVec     // labels: table={states,counties}
	TableRegions   *prometheus.GaugeVec     // labels: table={states,counties}
	NationalCutoff prometheus.Gauge
	DatasetReady   prometheus.Gauge

	// Chart metrics.
	FigureRequests prometheus.Counter
	FigureTraces   prometheus.Histogram
}

// NewMetrics creates and registers all dashboard metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.LoadDuration,
		m.LoadFailures,
		m.TableRows,
		m.TableRegions,
		m.NationalCutoff,
		m.DatasetReady,
		m.FigureRequests,
		m.FigureTraces,
	)

	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		LoadDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "case_dashboard",
			Name:      "load_duration_seconds",
			Help:      "Time to download and parse a source CSV.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}, []string{"dataset"}),
		LoadFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "case_dashboard",
			Name:      "load_failures_total",
			Help:      "Dataset load failures by stage.",
		}, []string{"stage"}),
		TableRows: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "case_dashboard",
			Name:      "table_rows",
			Help:      "Rows held in each loaded table.",
		}, []string{"table"}),
		TableRegions: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "case_dashboard",
			Name:      "table_regions",
			Help:      "Distinct regions in each loaded table.",
		}, []string{"table"}),
		NationalCutoff: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "case_dashboard",
			Name:      "national_cutoff_timestamp_seconds",
			Help:      "Unix time of the last date included in the USA total.",
		}),
		DatasetReady: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "case_dashboard",
			Name:      "dataset_ready",
			Help:      "1 once both tables are loaded, 0 before.",
		}),
		FigureRequests: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "case_dashboard",
			Name:      "figure_requests_total",
			Help:      "Figures built for chart requests.",
		}),
		FigureTraces: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "case_dashboard",
			Name:      "figure_traces",
			Help:      "Number of traces per built figure.",
			Buckets:   []float64{0, 2, 4, 8, 16, 32, 64},
		}),
	}
}
