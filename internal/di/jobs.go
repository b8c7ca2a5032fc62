package di

import (
	"fmt"

	"github.com/aristath/readiness/internal/clientdata"
	"github.com/aristath/readiness/internal/config"
	"github.com/aristath/readiness/internal/modules/metrics"
	"github.com/aristath/readiness/internal/scheduler"
	"github.com/rs/zerolog"
)

// RegisterJobs creates the background jobs and schedules them. An empty
// schedule disables a job.
func RegisterJobs(container *Container, cfg *config.Config, log zerolog.Logger) (*JobInstances, error) {
	sched := scheduler.New(log)
	jobs := &JobInstances{
		CacheCleanup: clientdata.NewCleanupJob(container.ClientDataRepo, cfg.StaleRetention, log),
		CacheCheck:   scheduler.NewCheckCacheDatabaseJob(container.CacheDB, log),
	}

	if cfg.CacheCleanupSchedule != "" {
		if err := sched.AddJob(cfg.CacheCleanupSchedule, jobs.CacheCleanup); err != nil {
			return nil, fmt.Errorf("failed to register cache cleanup job: %w", err)
		}
	}

	if cfg.CacheCheckSchedule != "" {
		if err := sched.AddJob(cfg.CacheCheckSchedule, jobs.CacheCheck); err != nil {
			return nil, fmt.Errorf("failed to register cache check job: %w", err)
		}
	}

	if len(container.MissingForQueries) == 0 {
		jobs.CacheWarm = scheduler.NewCacheWarmJob(
			container.MetricsService,
			metrics.DefaultWindowDays,
			cfg.Athena.QueryTimeout+cfg.Athena.PollInterval,
			log,
		)
		if cfg.CacheWarmSchedule != "" {
			if err := sched.AddJob(cfg.CacheWarmSchedule, jobs.CacheWarm); err != nil {
				return nil, fmt.Errorf("failed to register cache warm job: %w", err)
			}
		}
	}

	container.Scheduler = sched
	return jobs, nil
}
