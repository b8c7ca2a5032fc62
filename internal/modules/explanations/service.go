package explanations

import (
	"context"
	"time"

	"github.com/aristath/readiness/internal/clientdata"
	"github.com/aristath/readiness/internal/domain"
	"github.com/rs/zerolog"
)

// Lookup outcomes, reported to the recorder.
const (
	OutcomeCache    = "cache"
	OutcomeRemote   = "remote"
	OutcomeStale    = "stale"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

// ArtifactStore fetches raw artifact bodies by key.
type ArtifactStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
}

// Cache persists decoded explanations between lookups.
type Cache interface {
	GetIfFresh(table, key string, out interface{}) (bool, error)
	Get(table, key string, out interface{}) (bool, error)
	Store(table, key string, data interface{}, ttl time.Duration) error
}

// LookupRecorder observes lookup outcomes. May be nil.
type LookupRecorder interface {
	ExplanationLookup(outcome string)
}

// Settings identify where the subject's artifacts live.
type Settings struct {
	SubjectID string
	TTL       time.Duration
	Missing   []string // configuration items absent at startup
}

// Service resolves explanations cache-first, falling back to stale cache
// entries when the artifact store is unreachable.
type Service struct {
	store    ArtifactStore
	cache    Cache
	settings Settings
	recorder LookupRecorder
	now      func() time.Time
	log      zerolog.Logger
}

// NewService creates an explanation service. cache and recorder may be nil.
// A nil store without a reason in settings.Missing is reported as a missing bucket.
func NewService(store ArtifactStore, cache Cache, settings Settings, recorder LookupRecorder, log zerolog.Logger) *Service {
	if settings.TTL <= 0 {
		settings.TTL = clientdata.TTLExplanation
	}
	if store == nil && len(settings.Missing) == 0 {
		settings.Missing = []string{"EXPLANATIONS_BUCKET_NAME"}
	}
	return &Service{
		store:    store,
		cache:    cache,
		settings: settings,
		recorder: recorder,
		now:      time.Now,
		log:      log.With().Str("service", "explanations").Logger(),
	}
}

// SetClock overrides the time source (tests).
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Yesterday is today minus one calendar day, in the local clock's zone.
func (s *Service) Yesterday() string {
	return s.now().AddDate(0, 0, -1).Format(domain.DateLayout)
}

// Key is the artifact key for one day.
func (s *Service) Key(date string) string {
	return s.settings.SubjectID + "/" + date + ".json"
}

// Latest returns yesterday's explanation, whatever the metrics cache holds.
func (s *Service) Latest(ctx context.Context) (*Explanation, error) {
	return s.Get(ctx, s.Yesterday())
}

// Get returns the explanation for date. Errors are ValidationError for a bad
// date, ConfigurationError when the store is not configured, NotFoundError
// when no artifact exists and ParseError for a malformed artifact.
func (s *Service) Get(ctx context.Context, date string) (*Explanation, error) {
	if err := domain.ValidateDate(date); err != nil {
		return nil, err
	}
	if len(s.settings.Missing) > 0 {
		return nil, domain.NewConfigurationError(s.settings.Missing...)
	}

	key := s.Key(date)

	if e, ok := s.cached(key, true); ok {
		s.record(OutcomeCache)
		return e, nil
	}

	body, err := s.store.Get(ctx, key)
	if err != nil {
		if domain.IsKind(err, domain.KindNotFound) {
			s.record(OutcomeNotFound)
			return nil, err
		}
		if e, ok := s.cached(key, false); ok {
			s.log.Warn().Err(err).Str("date", date).Msg("Artifact store failed, using stale cached explanation")
			s.record(OutcomeStale)
			return e, nil
		}
		s.record(OutcomeError)
		return nil, err
	}

	e, err := Parse(date, body)
	if err != nil {
		s.record(OutcomeError)
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Store(clientdata.TableExplanations, key, e, s.settings.TTL); err != nil {
			s.log.Warn().Err(err).Str("key", key).Msg("Failed to cache explanation")
		}
	}
	s.record(OutcomeRemote)
	return e, nil
}

func (s *Service) cached(key string, freshOnly bool) (*Explanation, bool) {
	if s.cache == nil {
		return nil, false
	}

	var (
		e   Explanation
		ok  bool
		err error
	)
	if freshOnly {
		ok, err = s.cache.GetIfFresh(clientdata.TableExplanations, key, &e)
	} else {
		ok, err = s.cache.Get(clientdata.TableExplanations, key, &e)
	}
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("Explanation cache read failed")
		return nil, false
	}
	if !ok {
		return nil, false
	}
	if e.Insights == nil {
		e.Insights = []string{}
	}
	if e.Flags == nil {
		e.Flags = []string{}
	}
	return &e, true
}

func (s *Service) record(outcome string) {
	if s.recorder != nil {
		s.recorder.ExplanationLookup(outcome)
	}
}
