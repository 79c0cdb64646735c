package inventory

import (
	"encoding/json"
	"hash/fnv"
	"log/slog"
	"math/rand"
	"time"

	"github.com/infrazen/console/pkg/domain"
)

const fallbackDays = 30

type Chart struct {
	CardID     string             `json:"card_id"`
	Series     domain.ChartSeries `json:"series"`
	TotalRAMMB int                `json:"total_ram_mb"`
	Synthetic  bool               `json:"synthetic"`
}

// buildChart prefers the card's embedded time-series; a missing or malformed
// payload falls back to a synthetic series instead of failing the render. The
// fallback is seeded by the card id so repeated builds draw the same curve.
func buildChart(card domain.ResourceCard) *Chart {
	chart := &Chart{CardID: card.ID, TotalRAMMB: card.RAMMB}

	if card.SeriesJSON != "" {
		var series domain.ChartSeries
		if err := json.Unmarshal([]byte(card.SeriesJSON), &series); err == nil &&
			len(series.Dates) > 0 && len(series.Dates) == len(series.Values) {
			chart.Series = series
			return chart
		} else if err != nil {
			slog.Warn("malformed embedded series, using synthetic data", "cardID", card.ID)
		}
	}

	chart.Series = syntheticSeries(card.ID)
	chart.Synthetic = true
	return chart
}

func syntheticSeries(cardID string) domain.ChartSeries {
	h := fnv.New64a()
	h.Write([]byte(cardID))
	rng := rand.New(rand.NewSource(int64(h.Sum64())))

	series := domain.ChartSeries{
		Dates:  make([]string, fallbackDays),
		Values: make([]float64, fallbackDays),
	}

	value := 40 + rng.Float64()*20
	start := time.Now().AddDate(0, 0, -fallbackDays+1)
	for i := 0; i < fallbackDays; i++ {
		series.Dates[i] = start.AddDate(0, 0, i).Format("2006-01-02")

		value += rng.Float64()*10 - 5
		if value < 0 {
			value = 0
		}
		if value > 100 {
			value = 100
		}
		series.Values[i] = value
	}
	return series
}
