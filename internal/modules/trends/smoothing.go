package trends

import (
	"github.com/aristath/readiness/internal/domain"
	"github.com/aristath/readiness/pkg/formulas"
)

// ReadinessSMA smooths the scored days with a simple moving average of the
// given period. Unscored days are skipped, so each point is dated by the last
// scored day of its window.
func ReadinessSMA(rows []domain.MetricRow, period int) []SmoothedPoint {
	scored := make([]float64, 0, len(rows))
	scoredDates := make([]string, 0, len(rows))
	for _, r := range rows {
		if r.ReadinessScore == nil {
			continue
		}
		scored = append(scored, float64(*r.ReadinessScore))
		scoredDates = append(scoredDates, r.Date)
	}

	sma := formulas.SMA(scored, period)
	points := make([]SmoothedPoint, 0, len(sma))
	for i, v := range sma {
		points = append(points, SmoothedPoint{Date: scoredDates[i+period-1], Value: v})
	}
	return points
}
