package trends

import (
	"fmt"
	"testing"

	"github.com/aristath/readiness/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f(v float64) *float64 { return &v }
func i(v int) *int         { return &v }

// series builds consecutive January days with the given scores (nil = unscored).
func series(scores ...*int) []domain.MetricRow {
	rows := make([]domain.MetricRow, len(scores))
	for idx, s := range scores {
		rows[idx] = domain.MetricRow{Date: fmt.Sprintf("2024-01-%02d", idx+1), ReadinessScore: s}
	}
	return rows
}

func TestRollingAverage(t *testing.T) {
	rows := []domain.MetricRow{
		{Date: "2024-01-01", HRV: f(40)},
		{Date: "2024-01-02"},
		{Date: "2024-01-03", HRV: f(60)},
	}

	avg := RollingAverage(rows, domain.MetricHRV)
	require.NotNil(t, avg)
	assert.InDelta(t, 50.0, *avg, 1e-9)

	assert.Nil(t, RollingAverage(rows, domain.MetricSteps))
	assert.Nil(t, RollingAverage(nil, domain.MetricHRV))
}

func TestWeekOverWeek(t *testing.T) {
	scores := make([]*int, 0, 14)
	for n := 0; n < 7; n++ {
		scores = append(scores, i(60))
	}
	for n := 0; n < 7; n++ {
		scores = append(scores, i(70))
	}

	wow := WeekOverWeek(series(scores...))
	require.NotNil(t, wow)
	assert.Equal(t, 70.0, wow.Current)
	assert.Equal(t, 60.0, wow.Previous)
	assert.Equal(t, 10.0, wow.Delta)
}

func TestWeekOverWeekOmitted(t *testing.T) {
	assert.Nil(t, WeekOverWeek(series(i(1), i(2), i(3))), "fewer than 14 rows")

	scores := make([]*int, 14)
	for n := 7; n < 14; n++ {
		scores[n] = i(80)
	}
	assert.Nil(t, WeekOverWeek(series(scores...)), "previous half has no score")
}

func TestStreaks(t *testing.T) {
	rows := series(i(50), i(60), nil, i(70), i(80))
	rows[0].IsAnomalous = true

	s := Streaks(rows)
	assert.Equal(t, 2, s.Good, "unscored day breaks the good streak")
	assert.Equal(t, 0, s.Bad)
}

func TestStreaksBad(t *testing.T) {
	rows := series(i(50), i(60), i(70), nil)
	rows[2].IsAnomalous = true
	rows[3].IsAnomalous = true

	s := Streaks(rows)
	assert.Equal(t, 0, s.Good)
	assert.Equal(t, 2, s.Bad)
}

func TestStreaksNotComplementary(t *testing.T) {
	rows := series(i(50), nil)

	s := Streaks(rows)
	assert.Equal(t, 0, s.Good, "non-anomalous unscored day is in neither streak")
	assert.Equal(t, 0, s.Bad)
	assert.Equal(t, StreakSummary{}, Streaks(nil))
}

func TestBestWorstTiesKeepEarliest(t *testing.T) {
	rows := series(i(70), nil, i(90), i(40), i(90), i(40))

	best, worst := BestWorst(rows)
	require.NotNil(t, best)
	require.NotNil(t, worst)
	assert.Equal(t, DayScore{Date: "2024-01-03", Score: 90}, *best)
	assert.Equal(t, DayScore{Date: "2024-01-04", Score: 40}, *worst)

	best, worst = BestWorst(series(nil, nil))
	assert.Nil(t, best)
	assert.Nil(t, worst)
}

func TestMetricTrend(t *testing.T) {
	rows := make([]domain.MetricRow, 14)
	for n := range rows {
		rows[n].Date = fmt.Sprintf("2024-01-%02d", n+1)
		if n < 7 {
			rows[n].RestingHeartRate = f(60)
			rows[n].HRV = f(50)
			rows[n].SleepScore = f(80)
		} else {
			rows[n].RestingHeartRate = f(55)
			rows[n].HRV = f(45)
			rows[n].SleepScore = f(80.4)
		}
	}

	rhr := MetricTrend(rows, domain.MetricRestingHeartRate)
	require.NotNil(t, rhr)
	assert.Equal(t, DirectionDown, rhr.Direction)
	assert.True(t, rhr.Improving, "lower resting heart rate is better")

	hrv := MetricTrend(rows, domain.MetricHRV)
	require.NotNil(t, hrv)
	assert.Equal(t, DirectionDown, hrv.Direction)
	assert.False(t, hrv.Improving)
	assert.InDelta(t, -10.0, hrv.PercentChange, 1e-9)

	sleep := MetricTrend(rows, domain.MetricSleepScore)
	require.NotNil(t, sleep)
	assert.Equal(t, DirectionNeutral, sleep.Direction, "0.5% change is neutral")
	assert.False(t, sleep.Improving)

	assert.Nil(t, MetricTrend(rows, domain.MetricSteps))
	assert.Nil(t, MetricTrend(rows[:13], domain.MetricHRV))
}

func TestMetricTrendZeroPrevious(t *testing.T) {
	rows := make([]domain.MetricRow, 14)
	for n := range rows {
		rows[n].Date = fmt.Sprintf("2024-01-%02d", n+1)
		if n < 7 {
			rows[n].Steps = f(0)
		} else {
			rows[n].Steps = f(1000)
		}
	}
	assert.Nil(t, MetricTrend(rows, domain.MetricSteps))
}

func TestAnalyzerDoesNotMutateInput(t *testing.T) {
	rows := series(i(10), i(20), nil, i(30))
	rows[1].IsAnomalous = true
	before := make([]domain.MetricRow, len(rows))
	copy(before, rows)

	_ = Summarize(rows)
	assert.Equal(t, before, rows)
}
