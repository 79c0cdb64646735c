package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/infrazen/console/pkg/domain"
)

func testCards() []domain.ResourceCard {
	return []domain.ResourceCard{
		{ID: "vm-1", Provider: "Selectel", Name: "web-1", Status: "active", MonthlyCost: 1200, RAMMB: 4096},
		{ID: "vm-2", Provider: "Yandex Cloud", Name: "db-1", Status: "active", MonthlyCost: 3400, RAMMB: 8192},
		{ID: "vm-3", Provider: "Selectel", Name: "web-2", Status: "stopped", MonthlyCost: 600, RAMMB: 2048},
	}
}

func TestNewGroupsByProviderInFirstSeenOrder(t *testing.T) {
	inv := New(testCards())

	sections := inv.Sections()
	require.Len(t, sections, 2)
	assert.Equal(t, "Selectel", sections[0].Provider)
	assert.Len(t, sections[0].Cards, 2)
	assert.Equal(t, "Yandex Cloud", sections[1].Provider)
	assert.Len(t, sections[1].Cards, 1)
	assert.False(t, sections[0].Expanded)
}

func TestToggleTwiceRestoresState(t *testing.T) {
	inv := New(testCards())

	s, err := inv.Toggle("Selectel")
	require.NoError(t, err)
	assert.True(t, s.Expanded)
	assert.Equal(t, 180, s.ChevronDegree)

	s, err = inv.Toggle("Selectel")
	require.NoError(t, err)
	assert.False(t, s.Expanded)
	assert.Equal(t, 0, s.ChevronDegree)

	sections := inv.Sections()
	assert.False(t, sections[0].Expanded)
	assert.Equal(t, 0, sections[0].ChevronDegree)
}

func TestToggleUnknownProvider(t *testing.T) {
	inv := New(testCards())
	_, err := inv.Toggle("AWS")
	assert.Error(t, err)
}

func TestChartPrefersEmbeddedSeries(t *testing.T) {
	cards := testCards()
	cards[0].SeriesJSON = `{"dates":["2026-08-01","2026-08-02"],"values":[10.5,11.25]}`
	inv := New(cards)

	chart, err := inv.Chart("vm-1")
	require.NoError(t, err)
	assert.False(t, chart.Synthetic)
	assert.Equal(t, []string{"2026-08-01", "2026-08-02"}, chart.Series.Dates)
	assert.Equal(t, []float64{10.5, 11.25}, chart.Series.Values)
	assert.Equal(t, 4096, chart.TotalRAMMB)
}

func TestChartMalformedJSONFallsBack(t *testing.T) {
	cards := testCards()
	cards[0].SeriesJSON = `{"dates": [`
	inv := New(cards)

	chart, err := inv.Chart("vm-1")
	require.NoError(t, err)
	assert.True(t, chart.Synthetic)
	assert.Len(t, chart.Series.Dates, fallbackDays)
	assert.Len(t, chart.Series.Values, fallbackDays)
	for _, v := range chart.Series.Values {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 100.0)
	}
}

func TestChartBuiltOncePerCard(t *testing.T) {
	inv := New(testCards())

	first, err := inv.Chart("vm-2")
	require.NoError(t, err)
	second, err := inv.Chart("vm-2")
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestSyntheticSeriesIsDeterministic(t *testing.T) {
	a := syntheticSeries("vm-9")
	b := syntheticSeries("vm-9")
	assert.Equal(t, a.Values, b.Values)

	c := syntheticSeries("vm-10")
	assert.NotEqual(t, a.Values, c.Values)
}

func TestChartUnknownCard(t *testing.T) {
	inv := New(testCards())
	_, err := inv.Chart("nope")
	assert.Error(t, err)
}
