package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryExecutionAdvance(t *testing.T) {
	q := NewQueryExecution("exec-1", time.Unix(0, 0))
	assert.Equal(t, QuerySubmitted, q.State)

	require.NoError(t, q.Advance(QueryRunning, ""))
	require.NoError(t, q.Advance(QueryRunning, ""))
	require.NoError(t, q.Advance(QueryFailed, "SYNTAX_ERROR"))
	assert.Equal(t, "SYNTAX_ERROR", q.Reason)

	assert.Error(t, q.Advance(QueryRunning, ""), "terminal states are final")
	assert.Error(t, q.Advance(QuerySucceeded, ""), "terminal states are final")
}

func TestQueryExecutionRejectsRegression(t *testing.T) {
	q := NewQueryExecution("exec-2", time.Unix(0, 0))
	require.NoError(t, q.Advance(QueryRunning, ""))
	assert.Error(t, q.Advance(QuerySubmitted, ""))
}

func TestQueryStateIsTerminal(t *testing.T) {
	assert.False(t, QuerySubmitted.IsTerminal())
	assert.False(t, QueryRunning.IsTerminal())
	for _, s := range []QueryState{QuerySucceeded, QueryFailed, QueryCancelled, QueryTimedOut} {
		assert.True(t, s.IsTerminal(), s)
	}
}
