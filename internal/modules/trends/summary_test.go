package trends

import (
	"fmt"
	"testing"

	"github.com/aristath/readiness/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	rows := make([]domain.MetricRow, 14)
	for n := range rows {
		rows[n] = domain.MetricRow{
			Date:           fmt.Sprintf("2024-02-%02d", n+1),
			HRV:            f(float64(40 + n)),
			ReadinessScore: i(50 + n),
		}
	}
	rows[3].IsAnomalous = true

	s := Summarize(rows)

	assert.Equal(t, 14, s.Days)
	assert.Equal(t, 1, s.AnomalousDays)
	require.NotNil(t, s.Averages[domain.MetricHRV])
	assert.InDelta(t, 46.5, *s.Averages[domain.MetricHRV], 1e-9)
	assert.Nil(t, s.Averages[domain.MetricSteps])

	require.NotNil(t, s.WeekOverWeek)
	assert.InDelta(t, 7.0, s.WeekOverWeek.Delta, 1e-9)

	assert.Equal(t, 10, s.Streaks.Good)
	assert.Equal(t, 0, s.Streaks.Bad)
	assert.Equal(t, "2024-02-14", s.Best.Date)
	assert.Equal(t, "2024-02-01", s.Worst.Date)

	require.Contains(t, s.Trends, domain.MetricReadinessScore)
	assert.Equal(t, DirectionUp, s.Trends[domain.MetricReadinessScore].Direction)
	assert.NotContains(t, s.Trends, domain.MetricSteps)

	require.Len(t, s.ReadinessSMA, 8)
	assert.Equal(t, SmoothedPoint{Date: "2024-02-07", Value: 53}, s.ReadinessSMA[0])
	assert.Equal(t, SmoothedPoint{Date: "2024-02-14", Value: 60}, s.ReadinessSMA[7])
}

func TestReadinessSMASkipsUnscoredDays(t *testing.T) {
	rows := series(i(10), nil, i(20), i(30), nil)

	points := ReadinessSMA(rows, 2)
	require.Len(t, points, 2)
	assert.Equal(t, SmoothedPoint{Date: "2024-01-03", Value: 15}, points[0])
	assert.Equal(t, SmoothedPoint{Date: "2024-01-04", Value: 25}, points[1])

	assert.Empty(t, ReadinessSMA(rows, 7))
}
