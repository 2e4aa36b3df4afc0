package chart_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/couchcryptid/case-trends-dashboard/internal/chart"
	"github.com/couchcryptid/case-trends-dashboard/internal/domain"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time {
	return time.Date(2020, time.March, d, 0, 0, 0, 0, time.UTC)
}

func testTables(t *testing.T) (*domain.Table, *domain.Table) {
	t.Helper()

	states, err := domain.BuildStateTable([]domain.Record{
		{Region: "Washington", Date: day(1), Cases: domain.NewCount(0), Deaths: domain.NewCount(0)},
		{Region: "Washington", Date: day(2), Cases: domain.NewCount(5), Deaths: domain.NewCount(0)},
		{Region: "Washington", Date: day(3), Cases: domain.NewCount(9), Deaths: domain.NewCount(1)},
		{Region: "Oregon", Date: day(3), Cases: domain.NewCount(2)},
	})
	require.NoError(t, err)

	counties, err := domain.BuildCountyTable([]domain.Record{
		{Region: "Washington - King", Date: day(2), Cases: domain.NewCount(4), Deaths: domain.NewCount(0)},
		{Region: "Washington - King", Date: day(3), Cases: domain.NewCount(7), Deaths: domain.NewCount(1)},
		{Region: "Oregon - Lane", Date: day(3), Cases: domain.NewCount(0), Deaths: domain.NewCount(0)},
	})
	require.NoError(t, err)

	return states, counties
}

func names(fig chart.Figure) []string {
	out := make([]string, 0, len(fig.Data))
	for _, tr := range fig.Data {
		out = append(out, tr.Name)
	}
	return out
}

func TestBuild_NoSelection(t *testing.T) {
	states, counties := testTables(t)

	fig := chart.Build(states, counties, nil, []string{})

	assert.Zero(t, fig.SeriesCount())
	assert.NotNil(t, fig.Data)
}

func TestBuild_PairPerSelection(t *testing.T) {
	states, counties := testTables(t)

	fig := chart.Build(states, counties, []string{"Washington"}, []string{"Washington - King"})

	assert.Equal(t, []string{
		"Washington Cases", "Washington Deaths",
		"Washington - King Cases", "Washington - King Deaths",
	}, names(fig))
	for _, tr := range fig.Data {
		assert.Equal(t, "scatter", tr.Type)
		assert.Equal(t, "lines+markers", tr.Mode)
	}
}

func TestBuild_OnlyPositiveCounts(t *testing.T) {
	states, counties := testTables(t)

	fig := chart.Build(states, counties, []string{"Washington"}, nil)
	require.Equal(t, 2, fig.SeriesCount())

	want := []chart.Trace{
		{Type: "scatter", Mode: "lines+markers", Name: "Washington Cases",
			X: []string{"2020-03-02", "2020-03-03"}, Y: []int64{5, 9}},
		{Type: "scatter", Mode: "lines+markers", Name: "Washington Deaths",
			X: []string{"2020-03-03"}, Y: []int64{1}},
	}
	if diff := cmp.Diff(want, fig.Data); diff != "" {
		t.Errorf("traces mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_NullCountsAreDropped(t *testing.T) {
	states, counties := testTables(t)

	fig := chart.Build(states, counties, []string{"Oregon"}, nil)
	require.Equal(t, 2, fig.SeriesCount())
	assert.Equal(t, []int64{2}, fig.Data[0].Y)
	assert.Empty(t, fig.Data[1].Y)
}

func TestBuild_NeverPositiveYieldsEmptySeries(t *testing.T) {
	states, counties := testTables(t)

	fig := chart.Build(states, counties, nil, []string{"Oregon - Lane"})
	require.Equal(t, 2, fig.SeriesCount())
	for _, tr := range fig.Data {
		assert.Empty(t, tr.X)
		assert.Empty(t, tr.Y)
	}
}

func TestBuild_NationalTotalSelectable(t *testing.T) {
	states, counties := testTables(t)

	fig := chart.Build(states, counties, []string{domain.NationalRegion}, nil)
	require.Equal(t, 2, fig.SeriesCount())
	assert.Equal(t, "USA Cases", fig.Data[0].Name)
	// Oregon only reports on 03-03, so the national cutoff is 03-03 and
	// every day up to it is included.
	assert.Equal(t, []string{"2020-03-02", "2020-03-03"}, fig.Data[0].X)
	assert.Equal(t, []int64{5, 11}, fig.Data[0].Y)
}

func TestBuild_UnknownAndDuplicateKeys(t *testing.T) {
	states, counties := testTables(t)

	fig := chart.Build(states, counties,
		[]string{"Washington", "Atlantis", "Oregon", "Washington"},
		[]string{"Nowhere - County"},
	)

	assert.Equal(t, []string{
		"Oregon Cases", "Oregon Deaths",
		"Washington Cases", "Washington Deaths",
	}, names(fig))
}

func TestBuild_Layout(t *testing.T) {
	states, counties := testTables(t)
	fig := chart.Build(states, counties, nil, nil)

	assert.True(t, fig.Layout.Autosize)
	assert.True(t, fig.Layout.ShowLegend)
	assert.Equal(t, "log", fig.Layout.YAxis.Type)
	assert.Equal(t, chart.Margin{L: 0, R: 35, T: 0, B: 0}, fig.Layout.Margin)
	assert.Equal(t, "#dbdbdb", fig.Layout.PaperBGColor)
	assert.Equal(t, "#dbdbdb", fig.Layout.PlotBGColor)
}

func TestBuild_NilTables(t *testing.T) {
	fig := chart.Build(nil, nil, []string{"Washington"}, []string{"Washington - King"})
	assert.Zero(t, fig.SeriesCount())
}

func TestFigure_JSON(t *testing.T) {
	states, counties := testTables(t)
	fig := chart.Build(states, counties, nil, []string{"Oregon - Lane"})

	data, err := json.Marshal(fig)
	require.NoError(t, err)

	var doc struct {
		Data []struct {
			Name string `json:"name"`
			X    []any  `json:"x"`
			Y    []any  `json:"y"`
		} `json:"data"`
		Layout map[string]any `json:"layout"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))

	require.Len(t, doc.Data, 2)
	assert.NotNil(t, doc.Data[0].X, "empty traces encode as [] rather than null")
	assert.NotNil(t, doc.Data[0].Y)
	assert.JSONEq(t, `{"type":"log"}`, mustJSON(t, doc.Layout["yaxis"]))
	assert.Equal(t, true, doc.Layout["showlegend"])
}

func TestSelect(t *testing.T) {
	states, _ := testTables(t)

	assert.Nil(t, chart.Select(states, nil))
	assert.Equal(t, []string{"USA", "Washington"}, chart.Select(states, []string{"Washington", "USA", "Guam"}))
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}
