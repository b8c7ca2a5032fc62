package trends

import "github.com/aristath/readiness/internal/domain"

// Summary bundles every statistic shown alongside the rows.
type Summary struct {
	Days          int                        `json:"days"`
	AnomalousDays int                        `json:"anomalousDays"`
	Averages      map[domain.Metric]*float64 `json:"averages"`
	WeekOverWeek  *WeekComparison            `json:"weekOverWeek,omitempty"`
	Streaks       StreakSummary              `json:"streaks"`
	Best          *DayScore                  `json:"best,omitempty"`
	Worst         *DayScore                  `json:"worst,omitempty"`
	Trends        map[domain.Metric]*Trend   `json:"trends"`
	ReadinessSMA  []SmoothedPoint            `json:"readinessSma"`
}

// SmoothedPoint is one value of the readiness moving average.
type SmoothedPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// Summarize computes the full statistic set over rows.
func Summarize(rows []domain.MetricRow) Summary {
	s := Summary{
		Days:     len(rows),
		Averages: make(map[domain.Metric]*float64, len(domain.AllMetrics)),
		Trends:   make(map[domain.Metric]*Trend, len(domain.AllMetrics)),
	}

	for _, r := range rows {
		if r.IsAnomalous {
			s.AnomalousDays++
		}
	}

	for _, m := range domain.AllMetrics {
		s.Averages[m] = RollingAverage(rows, m)
		if t := MetricTrend(rows, m); t != nil {
			s.Trends[m] = t
		}
	}

	s.WeekOverWeek = WeekOverWeek(rows)
	s.Streaks = Streaks(rows)
	s.Best, s.Worst = BestWorst(rows)
	s.ReadinessSMA = ReadinessSMA(rows, WeekDays)
	return s
}
