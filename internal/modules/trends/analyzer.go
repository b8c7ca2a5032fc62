// Package trends derives presentation statistics from an ordered, deduplicated
// row sequence. Every function is pure and leaves its input untouched.
package trends

import (
	"math"

	"github.com/aristath/readiness/internal/domain"
	"github.com/aristath/readiness/pkg/formulas"
)

const (
	// WeekDays is the length of one comparison half.
	WeekDays = 7

	// neutralThresholdPct is the |percent change| under which a trend is neutral.
	neutralThresholdPct = 1.0
)

// Direction of a metric between the previous and the last week.
type Direction string

const (
	DirectionUp      Direction = "up"
	DirectionDown    Direction = "down"
	DirectionNeutral Direction = "neutral"
)

// RollingAverage is the mean of the non-nil values of metric over all rows.
func RollingAverage(rows []domain.MetricRow, metric domain.Metric) *float64 {
	return formulas.MeanOfPresent(values(rows, metric))
}

// WeekComparison compares mean readiness of the last 7 rows with rows 8-14 from the end.
type WeekComparison struct {
	Current  float64 `json:"current"`
	Previous float64 `json:"previous"`
	Delta    float64 `json:"delta"`
}

// WeekOverWeek needs at least 14 rows and a score in each half; otherwise nil.
func WeekOverWeek(rows []domain.MetricRow) *WeekComparison {
	current, previous, ok := halves(rows, domain.MetricReadinessScore)
	if !ok {
		return nil
	}
	return &WeekComparison{Current: current, Previous: previous, Delta: current - previous}
}

// StreakSummary holds the trailing streak lengths.
type StreakSummary struct {
	Good int `json:"good"`
	Bad  int `json:"bad"`
}

// Streaks counts trailing rows backward from the most recent day.
// Good: not anomalous and scored. Bad: anomalous. The two are independent.
func Streaks(rows []domain.MetricRow) StreakSummary {
	var s StreakSummary

	for i := len(rows) - 1; i >= 0; i-- {
		if rows[i].IsAnomalous || rows[i].ReadinessScore == nil {
			break
		}
		s.Good++
	}
	for i := len(rows) - 1; i >= 0; i-- {
		if !rows[i].IsAnomalous {
			break
		}
		s.Bad++
	}
	return s
}

// DayScore names a day and its readiness.
type DayScore struct {
	Date  string `json:"date"`
	Score int    `json:"score"`
}

// BestWorst returns the highest and lowest scored days. Ties keep the earliest
// date for both. Both are nil when no row is scored.
func BestWorst(rows []domain.MetricRow) (best, worst *DayScore) {
	for _, r := range rows {
		if r.ReadinessScore == nil {
			continue
		}
		score := *r.ReadinessScore
		if best == nil || score > best.Score {
			best = &DayScore{Date: r.Date, Score: score}
		}
		if worst == nil || score < worst.Score {
			worst = &DayScore{Date: r.Date, Score: score}
		}
	}
	return best, worst
}

// Trend is a metric's week-over-week direction.
type Trend struct {
	Metric        domain.Metric `json:"metric"`
	Current       float64       `json:"current"`
	Previous      float64       `json:"previous"`
	PercentChange float64       `json:"percentChange"`
	Direction     Direction     `json:"direction"`
	// Improving is true when the direction is good for this metric's polarity.
	// Neutral trends are never improving.
	Improving bool `json:"improving"`
}

// MetricTrend compares the last 7 rows with the 7 before them for one metric.
// Returns nil when either half has no value or the previous mean is zero.
func MetricTrend(rows []domain.MetricRow, metric domain.Metric) *Trend {
	current, previous, ok := halves(rows, metric)
	if !ok {
		return nil
	}
	pct, ok := formulas.PercentChange(previous, current)
	if !ok {
		return nil
	}

	t := &Trend{
		Metric:        metric,
		Current:       current,
		Previous:      previous,
		PercentChange: pct,
		Direction:     DirectionNeutral,
	}
	switch {
	case math.Abs(pct) < neutralThresholdPct:
		t.Direction = DirectionNeutral
	case pct > 0:
		t.Direction = DirectionUp
	default:
		t.Direction = DirectionDown
	}

	if t.Direction != DirectionNeutral {
		t.Improving = (t.Direction == DirectionUp) != metric.LowerIsBetter()
	}
	return t
}

// halves returns the means of the last WeekDays rows and the WeekDays before them.
// Rows with a nil value are skipped inside each half.
func halves(rows []domain.MetricRow, metric domain.Metric) (current, previous float64, ok bool) {
	if len(rows) < 2*WeekDays {
		return 0, 0, false
	}
	n := len(rows)
	cur := formulas.MeanOfPresent(values(rows[n-WeekDays:], metric))
	prev := formulas.MeanOfPresent(values(rows[n-2*WeekDays:n-WeekDays], metric))
	if cur == nil || prev == nil {
		return 0, 0, false
	}
	return *cur, *prev, true
}

func values(rows []domain.MetricRow, metric domain.Metric) []*float64 {
	out := make([]*float64, len(rows))
	for i, r := range rows {
		out[i] = r.Value(metric)
	}
	return out
}
