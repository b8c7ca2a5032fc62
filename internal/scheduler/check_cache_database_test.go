package scheduler

import (
	"testing"

	testingpkg "github.com/aristath/readiness/internal/testing"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckCacheDatabaseJob_Name(t *testing.T) {
	job := NewCheckCacheDatabaseJob(nil, zerolog.Nop())
	assert.Equal(t, "check_cache_database", job.Name())
}

func TestCheckCacheDatabaseJob_Run_NoDatabase(t *testing.T) {
	job := NewCheckCacheDatabaseJob(nil, zerolog.Nop())
	assert.NoError(t, job.Run())
}

func TestCheckCacheDatabaseJob_Run(t *testing.T) {
	db := testingpkg.NewTestDB(t, "cache")

	_, err := db.Conn().Exec(`INSERT INTO explanations (key, data, expires_at) VALUES ('k', x'00', 0)`)
	require.NoError(t, err)

	job := NewCheckCacheDatabaseJob(db, zerolog.Nop())
	assert.NoError(t, job.Run())
}
