package clientdata

import (
	"time"

	"github.com/rs/zerolog"
)

// CleanupJob purges cached explanations that expired more than retention ago.
// Entries expired for less than that remain as stale fallbacks.
type CleanupJob struct {
	repo      *Repository
	retention time.Duration
	log       zerolog.Logger

	Now func() time.Time
}

// NewCleanupJob creates the explanation cache cleanup job. A non-positive
// retention uses StaleRetention.
func NewCleanupJob(repo *Repository, retention time.Duration, log zerolog.Logger) *CleanupJob {
	if retention <= 0 {
		retention = StaleRetention
	}
	return &CleanupJob{
		repo:      repo,
		retention: retention,
		log:       log.With().Str("job", "explanation_cache_cleanup").Logger(),
		Now:       time.Now,
	}
}

// Run deletes explanations past their stale retention.
func (j *CleanupJob) Run() error {
	cutoff := j.Now().Add(-j.retention)

	deleted, err := j.repo.DeleteExpired(TableExplanations, cutoff)
	if err != nil {
		j.log.Error().Err(err).Msg("Failed to purge expired explanations")
		return err
	}

	remaining, err := j.repo.Count(TableExplanations)
	if err != nil {
		j.log.Warn().Err(err).Msg("Failed to count cached explanations")
	}

	event := j.log.Debug()
	if deleted > 0 {
		event = j.log.Info()
	}
	event.Int64("deleted", deleted).
		Int64("remaining", remaining).
		Time("cutoff", cutoff).
		Msg("Explanation cache cleanup completed")
	return nil
}

// Name returns the job name for scheduling and logging.
func (j *CleanupJob) Name() string {
	return "explanation_cache_cleanup"
}
