package scheduler

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingJob struct {
	runs int
	err  error
}

func (j *countingJob) Run() error {
	j.runs++
	return j.err
}

func (j *countingJob) Name() string { return "counting" }

func TestAddJobSchedules(t *testing.T) {
	s := New(zerolog.Nop())

	tests := []struct {
		schedule string
		valid    bool
	}{
		{"0 15 6 * * *", true},
		{"@daily", true},
		{"@every 30m", true},
		{"15 6 * * *", false},
		{"not a schedule", false},
	}

	for _, tt := range tests {
		err := s.AddJob(tt.schedule, &countingJob{})
		if tt.valid {
			assert.NoError(t, err, tt.schedule)
		} else {
			assert.Error(t, err, tt.schedule)
		}
	}
	assert.Len(t, s.cron.Entries(), 3)
}

func TestRunNow(t *testing.T) {
	s := New(zerolog.Nop())

	job := &countingJob{}
	require.NoError(t, s.RunNow(job))
	assert.Equal(t, 1, job.runs)

	failing := &countingJob{err: errors.New("boom")}
	assert.Error(t, s.RunNow(failing))
}

func TestRunSwallowsJobErrors(t *testing.T) {
	s := New(zerolog.Nop())
	job := &countingJob{err: errors.New("boom")}

	assert.NotPanics(t, func() { s.run(job) })
	assert.Equal(t, 1, job.runs)
}

func TestStartStop(t *testing.T) {
	s := New(zerolog.Nop())
	require.NoError(t, s.AddJob("@daily", &countingJob{}))

	assert.NotPanics(t, func() {
		s.Start()
		s.Stop()
	})
}
