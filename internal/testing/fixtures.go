package testing

import (
	"time"

	"github.com/aristath/readiness/internal/domain"
	"github.com/aristath/readiness/internal/modules/metrics"
)

// MetricDays returns n consecutive raw rows ending on end, oldest first.
// Every day carries the same healthy readings.
func MetricDays(end time.Time, n int) []domain.RawRow {
	rows := make([]domain.RawRow, 0, n)
	for i := n - 1; i >= 0; i-- {
		rows = append(rows, domain.RawRow{
			metrics.ColDate:       domain.StringCell(end.AddDate(0, 0, -i).Format(domain.DateLayout)),
			metrics.ColHRV:        domain.DoubleCell(60),
			metrics.ColRestingHR:  domain.DoubleCell(55),
			metrics.ColSleepScore: domain.DoubleCell(80),
			metrics.ColSteps:      domain.IntegerCell(9000),
		})
	}
	return rows
}
