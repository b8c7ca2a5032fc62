// Package metrics turns remote query results into cached, scored daily rows.
package metrics

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/aristath/readiness/internal/domain"
	"github.com/rs/zerolog"
)

// DefaultWindowDays is used when a request names neither a range nor a day count.
const DefaultWindowDays = 30

// MaxWindowDays bounds preset day counts.
const MaxWindowDays = 365

// Cache decision outcomes, reported to the recorder.
const (
	DecisionPreset = "preset"
	DecisionWindow = "window"
	DecisionRemote = "remote"
)

// QueryExecutor runs one query against the remote query service.
type QueryExecutor interface {
	Execute(ctx context.Context, q domain.Query) ([]domain.RawRow, error)
}

// DecisionRecorder observes how requests were served and the cache size. May be nil.
type DecisionRecorder interface {
	CacheDecision(decision string)
	SetCachedRows(n int)
}

// QuerySettings are the remote query parameters the service needs.
type QuerySettings struct {
	Table          string
	Database       string
	OutputLocation string
	Workgroup      string
	Missing        []string // configuration items absent at startup
}

// RangeRequest asks for one inclusive date window, optionally as a preset.
type RangeRequest struct {
	Start      string
	End        string
	PresetDays int // 0 when the range is custom
}

// Service serves date-window requests from the range cache, fetching from the
// remote query service only when the cache cannot answer.
type Service struct {
	mu       sync.Mutex
	cache    *RangeCache
	executor QueryExecutor
	settings QuerySettings
	recorder DecisionRecorder
	now      func() time.Time
	log      zerolog.Logger
}

// NewService creates a metrics service with an empty cache.
// A nil executor without a reason in settings.Missing is reported as a missing region.
func NewService(executor QueryExecutor, settings QuerySettings, recorder DecisionRecorder, log zerolog.Logger) *Service {
	if executor == nil && len(settings.Missing) == 0 {
		settings.Missing = []string{"AWS_REGION"}
	}
	return &Service{
		cache:    NewRangeCache(),
		executor: executor,
		settings: settings,
		recorder: recorder,
		now:      time.Now,
		log:      log.With().Str("service", "metrics").Logger(),
	}
}

// SetClock overrides the time source (tests).
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Today returns the current calendar date in domain.DateLayout.
func (s *Service) Today() string {
	return s.now().Format(domain.DateLayout)
}

// ResolveRange turns raw request parameters into a RangeRequest.
// Accepts (start, end), (days) or nothing (the last DefaultWindowDays days ending today).
func (s *Service) ResolveRange(start, end, days string) (RangeRequest, error) {
	if start != "" || end != "" {
		if start == "" || end == "" {
			return RangeRequest{}, domain.NewValidationError("startDate and endDate must be given together")
		}
		if err := domain.ValidateDate(start); err != nil {
			return RangeRequest{}, err
		}
		if err := domain.ValidateDate(end); err != nil {
			return RangeRequest{}, err
		}
		if start > end {
			return RangeRequest{}, domain.NewValidationError(fmt.Sprintf("startDate %s is after endDate %s", start, end))
		}
		return RangeRequest{Start: start, End: end}, nil
	}

	n := DefaultWindowDays
	if days != "" {
		parsed, err := strconv.Atoi(days)
		if err != nil || parsed < 1 || parsed > MaxWindowDays {
			return RangeRequest{}, domain.NewValidationError(fmt.Sprintf("days must be an integer between 1 and %d", MaxWindowDays))
		}
		n = parsed
	}

	today := s.now()
	return RangeRequest{
		Start:      today.AddDate(0, 0, -(n - 1)).Format(domain.DateLayout),
		End:        today.Format(domain.DateLayout),
		PresetDays: n,
	}, nil
}

// Request returns the rows covering the request, in ascending date order.
//
// Decision order: a preset already held in the cache is served from its most
// recent days; a range inside the cached window is filtered locally; anything
// else is fetched for exactly [Start, End] and merged.
func (s *Service) Request(ctx context.Context, req RangeRequest) ([]domain.MetricRow, error) {
	if err := domain.ValidateDate(req.Start); err != nil {
		return nil, err
	}
	if err := domain.ValidateDate(req.End); err != nil {
		return nil, err
	}

	s.mu.Lock()
	if req.PresetDays > 0 && s.cache.Len() >= req.PresetDays {
		rows := s.cache.Latest(req.PresetDays)
		s.mu.Unlock()
		s.record(DecisionPreset)
		s.log.Debug().Int("days", req.PresetDays).Msg("Serving preset from cache")
		return rows, nil
	}
	if s.cache.Covers(req.Start, req.End) {
		rows := s.cache.Window(req.Start, req.End)
		s.mu.Unlock()
		s.record(DecisionWindow)
		s.log.Debug().Str("start", req.Start).Str("end", req.End).Msg("Serving window from cache")
		return rows, nil
	}
	s.mu.Unlock()

	// The lock is not held across the remote call. Merge is idempotent and
	// stale-cache-wins, so concurrent fetches of overlapping windows converge.
	fetched, err := s.fetch(ctx, req.Start, req.End)
	if err != nil {
		return nil, err
	}
	s.record(DecisionRemote)

	s.mu.Lock()
	s.cache.Merge(fetched)
	rows := s.cache.Window(req.Start, req.End)
	size := s.cache.Len()
	s.mu.Unlock()

	if s.recorder != nil {
		s.recorder.SetCachedRows(size)
	}
	s.log.Info().
		Str("start", req.Start).
		Str("end", req.End).
		Int("fetched", len(fetched)).
		Int("cached", size).
		Msg("Merged fetched rows into cache")

	return rows, nil
}

func (s *Service) fetch(ctx context.Context, start, end string) ([]domain.MetricRow, error) {
	if len(s.settings.Missing) > 0 {
		return nil, domain.NewConfigurationError(s.settings.Missing...)
	}

	sql, err := BuildRangeQuery(s.settings.Table, start, end)
	if err != nil {
		return nil, err
	}

	raw, err := s.executor.Execute(ctx, domain.Query{
		SQL:            sql,
		Database:       s.settings.Database,
		OutputLocation: s.settings.OutputLocation,
		Workgroup:      s.settings.Workgroup,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch metrics %s..%s: %w", start, end, err)
	}

	return NormalizeRows(raw), nil
}

// Snapshot returns a copy of every cached row.
func (s *Service) Snapshot() []domain.MetricRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.Rows()
}

// CacheStats describes the cached coverage.
type CacheStats struct {
	Rows      int    `json:"rows"`
	FirstDate string `json:"firstDate,omitempty"`
	LastDate  string `json:"lastDate,omitempty"`
}

// Stats returns the cache size and coverage window.
func (s *Service) Stats() CacheStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	first, last, _ := s.cache.Bounds()
	return CacheStats{Rows: s.cache.Len(), FirstDate: first, LastDate: last}
}

// Reset empties the cache.
func (s *Service) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Reset()
	if s.recorder != nil {
		s.recorder.SetCachedRows(0)
	}
	s.log.Info().Msg("Metrics cache reset")
}

func (s *Service) record(decision string) {
	if s.recorder != nil {
		s.recorder.CacheDecision(decision)
	}
}
