package domain

import (
	"fmt"
	"time"
)

// QueryState is the lifecycle state of a remote query execution.
type QueryState string

const (
	QuerySubmitted QueryState = "SUBMITTED"
	QueryRunning   QueryState = "RUNNING"
	QuerySucceeded QueryState = "SUCCEEDED"
	QueryFailed    QueryState = "FAILED"
	QueryCancelled QueryState = "CANCELLED"
	QueryTimedOut  QueryState = "TIMED_OUT"
)

// IsTerminal reports whether no further transitions are possible.
func (s QueryState) IsTerminal() bool {
	switch s {
	case QuerySucceeded, QueryFailed, QueryCancelled, QueryTimedOut:
		return true
	}
	return false
}

func (s QueryState) rank() int {
	switch s {
	case QuerySubmitted:
		return 0
	case QueryRunning:
		return 1
	default:
		return 2
	}
}

// QueryExecution tracks one submitted query until its terminal state is consumed.
type QueryExecution struct {
	ID        string
	State     QueryState
	StartedAt time.Time
	Reason    string
}

// NewQueryExecution starts tracking a freshly submitted execution.
func NewQueryExecution(id string, startedAt time.Time) *QueryExecution {
	return &QueryExecution{ID: id, State: QuerySubmitted, StartedAt: startedAt}
}

// Advance moves the execution forward. RUNNING may repeat; terminal states are final.
func (q *QueryExecution) Advance(next QueryState, reason string) error {
	if q.State.IsTerminal() {
		return fmt.Errorf("query %s already %s, cannot move to %s", q.ID, q.State, next)
	}
	if next.rank() < q.State.rank() {
		return fmt.Errorf("query %s cannot move back from %s to %s", q.ID, q.State, next)
	}
	q.State = next
	q.Reason = reason
	return nil
}

// Query is one submission to the remote query service.
type Query struct {
	SQL            string
	Database       string
	OutputLocation string
	Workgroup      string // optional
}
