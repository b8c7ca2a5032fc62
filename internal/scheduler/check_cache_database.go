package scheduler

import (
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"
)

// walFramesWarn is the WAL size, in frames, past which a checkpoint is logged
// as lagging.
const walFramesWarn = 1000

// CheckedDB is a database the integrity job can inspect.
type CheckedDB interface {
	Conn() *sql.DB
	Name() string
}

// CheckCacheDatabaseJob verifies the cache database and truncates its WAL.
type CheckCacheDatabaseJob struct {
	db  CheckedDB
	log zerolog.Logger
}

// NewCheckCacheDatabaseJob creates a CheckCacheDatabaseJob
func NewCheckCacheDatabaseJob(db CheckedDB, log zerolog.Logger) *CheckCacheDatabaseJob {
	return &CheckCacheDatabaseJob{
		db:  db,
		log: log.With().Str("job", "check_cache_database").Logger(),
	}
}

// Name returns the job name
func (j *CheckCacheDatabaseJob) Name() string {
	return "check_cache_database"
}

// Run checks integrity, then checkpoints the WAL
func (j *CheckCacheDatabaseJob) Run() error {
	if j.db == nil {
		j.log.Warn().Msg("Database not initialized, skipping")
		return nil
	}
	conn := j.db.Conn()

	var result string
	if err := conn.QueryRow("PRAGMA quick_check").Scan(&result); err != nil {
		return fmt.Errorf("integrity check on %s failed: %w", j.db.Name(), err)
	}
	if result != "ok" {
		j.log.Error().Str("database", j.db.Name()).Str("result", result).Msg("Cache database integrity check failed")
		return fmt.Errorf("database %s is corrupted: %s", j.db.Name(), result)
	}

	// Returns busy, log frames, checkpointed frames
	var busy, frames, checkpointed int
	if err := conn.QueryRow("PRAGMA wal_checkpoint(TRUNCATE)").Scan(&busy, &frames, &checkpointed); err != nil {
		j.log.Warn().Err(err).Str("database", j.db.Name()).Msg("Failed to checkpoint WAL")
		return nil
	}

	event := j.log.Debug()
	if busy != 0 || frames > walFramesWarn {
		event = j.log.Warn()
	}
	event.Str("database", j.db.Name()).
		Int("busy", busy).
		Int("wal_frames", frames).
		Int("checkpointed", checkpointed).
		Msg("Cache database check completed")
	return nil
}
