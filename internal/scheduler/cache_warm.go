package scheduler

import (
	"context"
	"time"

	"github.com/aristath/readiness/internal/domain"
	"github.com/aristath/readiness/internal/modules/metrics"
	"github.com/rs/zerolog"
)

// RangeLoader is the part of the metrics service the warm job drives.
type RangeLoader interface {
	Today() string
	Request(ctx context.Context, req metrics.RangeRequest) ([]domain.MetricRow, error)
}

// CacheWarmJob pulls the default window ending today into the range cache so
// the first request of the day does not wait on a remote query.
type CacheWarmJob struct {
	loader  RangeLoader
	days    int
	timeout time.Duration
	log     zerolog.Logger
}

// NewCacheWarmJob creates a warm job for the last days days.
func NewCacheWarmJob(loader RangeLoader, days int, timeout time.Duration, log zerolog.Logger) *CacheWarmJob {
	if days <= 0 {
		days = metrics.DefaultWindowDays
	}
	return &CacheWarmJob{
		loader:  loader,
		days:    days,
		timeout: timeout,
		log:     log.With().Str("job", "metrics_cache_warm").Logger(),
	}
}

// Run requests the window as an explicit range. A preset is answered from the
// cache once it holds enough days and would never pick up today's row.
func (j *CacheWarmJob) Run() error {
	end, err := time.Parse(domain.DateLayout, j.loader.Today())
	if err != nil {
		return err
	}
	req := metrics.RangeRequest{
		Start: end.AddDate(0, 0, -(j.days - 1)).Format(domain.DateLayout),
		End:   end.Format(domain.DateLayout),
	}

	ctx := context.Background()
	if j.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.timeout)
		defer cancel()
	}

	rows, err := j.loader.Request(ctx, req)
	if err != nil {
		return err
	}

	j.log.Info().
		Str("start", req.Start).
		Str("end", req.End).
		Int("rows", len(rows)).
		Msg("Metrics cache warmed")
	return nil
}

// Name returns the job name for scheduling and logging.
func (j *CacheWarmJob) Name() string {
	return "metrics_cache_warm"
}
