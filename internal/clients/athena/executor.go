// Package athena runs SQL against Amazon Athena and returns typed result rows.
//
// Execution is asynchronous on the Athena side: a query is submitted, its
// status polled at a fixed interval until it reaches a terminal state or the
// time budget runs out, and the result pages are then read in order.
package athena

import (
	"context"
	"fmt"
	"time"

	"github.com/aristath/readiness/internal/domain"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/athena"
	"github.com/aws/aws-sdk-go-v2/service/athena/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	// DefaultPollInterval is the wait between two status polls.
	DefaultPollInterval = time.Second
	// DefaultTimeout is the overall budget from submission to terminal state.
	DefaultTimeout = 60 * time.Second

	resultPageSize int32 = 1000
)

// API is the subset of the Athena client the executor needs.
type API interface {
	StartQueryExecution(ctx context.Context, params *athena.StartQueryExecutionInput, optFns ...func(*athena.Options)) (*athena.StartQueryExecutionOutput, error)
	GetQueryExecution(ctx context.Context, params *athena.GetQueryExecutionInput, optFns ...func(*athena.Options)) (*athena.GetQueryExecutionOutput, error)
	GetQueryResults(ctx context.Context, params *athena.GetQueryResultsInput, optFns ...func(*athena.Options)) (*athena.GetQueryResultsOutput, error)
}

// Observer receives the final state of every execution.
type Observer interface {
	ObserveQuery(state string, elapsed time.Duration)
}

// Executor submits queries and waits for their results.
type Executor struct {
	api          API
	pollInterval time.Duration
	timeout      time.Duration
	observer     Observer
	log          zerolog.Logger

	// Now and Sleep drive the poll loop; tests replace them to simulate time.
	Now   func() time.Time
	Sleep func(ctx context.Context, d time.Duration) error
}

// NewExecutor creates an executor. Non-positive durations fall back to the defaults.
// observer may be nil.
func NewExecutor(api API, pollInterval, timeout time.Duration, observer Observer, log zerolog.Logger) *Executor {
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Executor{
		api:          api,
		pollInterval: pollInterval,
		timeout:      timeout,
		observer:     observer,
		log:          log.With().Str("component", "athena").Logger(),
		Now:          time.Now,
		Sleep:        sleepContext,
	}
}

// sleepContext waits d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Execute runs q to completion and returns its data rows keyed by column name.
//
// Each call is a new execution, even for identical SQL. FAILED and CANCELLED
// surface as a RemoteQueryError carrying Athena's reason; running past the time
// budget surfaces as a TimeoutError. Nothing is retried.
func (e *Executor) Execute(ctx context.Context, q domain.Query) ([]domain.RawRow, error) {
	exec, err := e.submit(ctx, q)
	if err != nil {
		return nil, err
	}

	if err := e.wait(ctx, exec); err != nil {
		return nil, err
	}

	rows, err := e.fetchResults(ctx, exec.ID)
	if err != nil {
		return nil, err
	}

	e.log.Debug().
		Str("execution_id", exec.ID).
		Int("rows", len(rows)).
		Dur("elapsed", e.Now().Sub(exec.StartedAt)).
		Msg("Query results fetched")
	return rows, nil
}

func (e *Executor) submit(ctx context.Context, q domain.Query) (*domain.QueryExecution, error) {
	input := &athena.StartQueryExecutionInput{
		QueryString:        aws.String(q.SQL),
		ClientRequestToken: aws.String(uuid.NewString()),
		QueryExecutionContext: &types.QueryExecutionContext{
			Database: aws.String(q.Database),
		},
		ResultConfiguration: &types.ResultConfiguration{
			OutputLocation: aws.String(q.OutputLocation),
		},
	}
	if q.Workgroup != "" {
		input.WorkGroup = aws.String(q.Workgroup)
	}

	out, err := e.api.StartQueryExecution(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to start query execution: %w", err)
	}

	id := aws.ToString(out.QueryExecutionId)
	if id == "" {
		return nil, &domain.Error{
			Kind:   domain.KindConfiguration,
			Detail: "query submission returned no execution id",
		}
	}

	e.log.Debug().Str("execution_id", id).Str("database", q.Database).Msg("Query submitted")
	return domain.NewQueryExecution(id, e.Now()), nil
}

// wait polls until exec is terminal. It returns nil only for SUCCEEDED.
func (e *Executor) wait(ctx context.Context, exec *domain.QueryExecution) error {
	for {
		state, reason, err := e.poll(ctx, exec.ID)
		if err != nil {
			return err
		}
		if err := exec.Advance(state, reason); err != nil {
			return fmt.Errorf("unexpected state transition: %w", err)
		}

		if exec.State.IsTerminal() {
			e.finish(exec)
			if exec.State == domain.QuerySucceeded {
				return nil
			}
			return domain.NewRemoteQueryError(exec.State, exec.Reason)
		}

		budget := e.timeout
		if e.Now().Sub(exec.StartedAt) >= budget {
			last := exec.State
			_ = exec.Advance(domain.QueryTimedOut, "")
			e.finish(exec)
			return domain.NewTimeoutError(exec.ID, last, budget)
		}

		if err := e.Sleep(ctx, e.pollInterval); err != nil {
			return fmt.Errorf("waiting for query %s: %w", exec.ID, err)
		}
	}
}

func (e *Executor) finish(exec *domain.QueryExecution) {
	elapsed := e.Now().Sub(exec.StartedAt)
	if e.observer != nil {
		e.observer.ObserveQuery(string(exec.State), elapsed)
	}

	ev := e.log.Debug()
	if exec.State != domain.QuerySucceeded {
		ev = e.log.Warn()
	}
	ev.Str("execution_id", exec.ID).
		Str("state", string(exec.State)).
		Str("reason", exec.Reason).
		Dur("elapsed", elapsed).
		Msg("Query finished")
}

func (e *Executor) poll(ctx context.Context, id string) (domain.QueryState, string, error) {
	out, err := e.api.GetQueryExecution(ctx, &athena.GetQueryExecutionInput{
		QueryExecutionId: aws.String(id),
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to get status of query %s: %w", id, err)
	}
	if out.QueryExecution == nil || out.QueryExecution.Status == nil {
		return domain.QueryRunning, "", nil
	}

	status := out.QueryExecution.Status
	return mapState(status.State), statusReason(status), nil
}

// mapState folds Athena's states onto the execution lifecycle. QUEUED and any
// unknown state count as RUNNING.
func mapState(s types.QueryExecutionState) domain.QueryState {
	switch s {
	case types.QueryExecutionStateSucceeded:
		return domain.QuerySucceeded
	case types.QueryExecutionStateFailed:
		return domain.QueryFailed
	case types.QueryExecutionStateCancelled:
		return domain.QueryCancelled
	default:
		return domain.QueryRunning
	}
}

func statusReason(status *types.QueryExecutionStatus) string {
	if reason := aws.ToString(status.StateChangeReason); reason != "" {
		return reason
	}
	if status.AthenaError != nil {
		return aws.ToString(status.AthenaError.ErrorMessage)
	}
	return ""
}

// fetchResults reads every result page. Row 0 of the first page is the header.
func (e *Executor) fetchResults(ctx context.Context, id string) ([]domain.RawRow, error) {
	var (
		rows    []domain.RawRow
		columns []types.ColumnInfo
		token   *string
		first   = true
	)

	for {
		out, err := e.api.GetQueryResults(ctx, &athena.GetQueryResultsInput{
			QueryExecutionId: aws.String(id),
			NextToken:        token,
			MaxResults:       aws.Int32(resultPageSize),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to get results of query %s: %w", id, err)
		}

		if out.ResultSet != nil {
			if columns == nil && out.ResultSet.ResultSetMetadata != nil {
				columns = out.ResultSet.ResultSetMetadata.ColumnInfo
			}

			data := out.ResultSet.Rows
			if first && len(data) > 0 {
				data = data[1:]
			}
			for _, r := range data {
				rows = append(rows, toRawRow(columns, r))
			}
		}
		first = false

		if aws.ToString(out.NextToken) == "" {
			return rows, nil
		}
		token = out.NextToken
	}
}

// toRawRow maps datums to columns by position. Missing trailing datums are absent.
func toRawRow(columns []types.ColumnInfo, row types.Row) domain.RawRow {
	raw := make(domain.RawRow, len(columns))
	for i, col := range columns {
		var datum *string
		if i < len(row.Data) {
			datum = row.Data[i].VarCharValue
		}
		raw[aws.ToString(col.Name)] = domain.ParseCell(aws.ToString(col.Type), datum)
	}
	return raw
}
