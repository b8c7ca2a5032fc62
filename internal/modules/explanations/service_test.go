package explanations

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/aristath/readiness/internal/clientdata"
	"github.com/aristath/readiness/internal/domain"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	objects map[string]string
	err     error
	calls   []string
}

func (f *fakeStore) Get(_ context.Context, key string) ([]byte, error) {
	f.calls = append(f.calls, key)
	if f.err != nil {
		return nil, f.err
	}
	body, ok := f.objects[key]
	if !ok {
		return nil, domain.NewNotFoundError(key)
	}
	return []byte(body), nil
}

type outcomes []string

func (o *outcomes) ExplanationLookup(outcome string) { *o = append(*o, outcome) }

func newCache(t *testing.T) *clientdata.Repository {
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`CREATE TABLE explanations (key TEXT PRIMARY KEY, data BLOB NOT NULL, expires_at INTEGER NOT NULL)`)
	require.NoError(t, err)
	return clientdata.NewRepository(db)
}

var quiet = zerolog.New(nil).Level(zerolog.Disabled)

func TestGetFromStore(t *testing.T) {
	store := &fakeStore{objects: map[string]string{
		"subj/2024-01-15.json": `{"explanation":"Rested","flags":"Low Sleep Score"}`,
	}}
	rec := &outcomes{}
	svc := NewService(store, nil, Settings{SubjectID: "subj"}, rec, quiet)

	e, err := svc.Get(context.Background(), "2024-01-15")
	require.NoError(t, err)
	assert.Equal(t, "Rested", e.Explanation)
	assert.Equal(t, []string{"Low Sleep Score"}, e.Flags)
	assert.Equal(t, []string{"subj/2024-01-15.json"}, store.calls)
	assert.Equal(t, outcomes{OutcomeRemote}, *rec)
}

func TestGetInvalidDateMakesNoRemoteCall(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store, nil, Settings{SubjectID: "subj"}, nil, quiet)

	_, err := svc.Get(context.Background(), "2024-13-40")
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindValidation))
	assert.Empty(t, store.calls)
}

func TestGetMissingConfiguration(t *testing.T) {
	svc := NewService(nil, nil, Settings{Missing: []string{"SUBJECT_ID", "EXPLANATIONS_BUCKET_NAME"}}, nil, quiet)

	_, err := svc.Get(context.Background(), "2024-01-15")
	var derr *domain.Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, domain.KindConfiguration, derr.Kind)
	assert.Equal(t, []string{"SUBJECT_ID", "EXPLANATIONS_BUCKET_NAME"}, derr.Missing)
}

func TestGetWithoutStoreNamesBucket(t *testing.T) {
	svc := NewService(nil, nil, Settings{SubjectID: "subj"}, nil, quiet)

	_, err := svc.Get(context.Background(), "2024-01-15")
	var derr *domain.Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, domain.KindConfiguration, derr.Kind)
	assert.Equal(t, []string{"EXPLANATIONS_BUCKET_NAME"}, derr.Missing)
}

func TestGetNotFound(t *testing.T) {
	cache := newCache(t)
	store := &fakeStore{objects: map[string]string{}}
	rec := &outcomes{}
	svc := NewService(store, cache, Settings{SubjectID: "subj"}, rec, quiet)

	_, err := svc.Get(context.Background(), "2024-01-15")
	assert.True(t, domain.IsKind(err, domain.KindNotFound))

	n, err := cache.Count(clientdata.TableExplanations)
	require.NoError(t, err)
	assert.Zero(t, n, "not-found is not cached")
	assert.Equal(t, outcomes{OutcomeNotFound}, *rec)
}

func TestGetParseError(t *testing.T) {
	store := &fakeStore{objects: map[string]string{"subj/2024-01-15.json": `[]`}}
	svc := NewService(store, nil, Settings{SubjectID: "subj"}, nil, quiet)

	_, err := svc.Get(context.Background(), "2024-01-15")
	assert.True(t, domain.IsKind(err, domain.KindParse))
}

func TestGetCachesAndServesFresh(t *testing.T) {
	cache := newCache(t)
	store := &fakeStore{objects: map[string]string{
		"subj/2024-01-15.json": `{"explanation":"Rested","insights":["a"]}`,
	}}
	rec := &outcomes{}
	svc := NewService(store, cache, Settings{SubjectID: "subj", TTL: time.Hour}, rec, quiet)

	first, err := svc.Get(context.Background(), "2024-01-15")
	require.NoError(t, err)
	second, err := svc.Get(context.Background(), "2024-01-15")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, store.calls, 1)
	assert.Equal(t, outcomes{OutcomeRemote, OutcomeCache}, *rec)
}

func TestGetServesStaleWhenStoreFails(t *testing.T) {
	cache := newCache(t)
	require.NoError(t, cache.Store(clientdata.TableExplanations, "subj/2024-01-15.json",
		Explanation{Date: "2024-01-15", Explanation: "Old"}, -time.Hour))

	store := &fakeStore{err: errors.New("throttled")}
	rec := &outcomes{}
	svc := NewService(store, cache, Settings{SubjectID: "subj"}, rec, quiet)

	e, err := svc.Get(context.Background(), "2024-01-15")
	require.NoError(t, err)
	assert.Equal(t, "Old", e.Explanation)
	assert.Equal(t, []string{}, e.Flags)
	assert.Equal(t, outcomes{OutcomeStale}, *rec)
}

func TestGetStoreFailureWithoutCache(t *testing.T) {
	boom := errors.New("throttled")
	svc := NewService(&fakeStore{err: boom}, newCache(t), Settings{SubjectID: "subj"}, nil, quiet)

	_, err := svc.Get(context.Background(), "2024-01-15")
	assert.ErrorIs(t, err, boom)
}

func TestLatestIsYesterday(t *testing.T) {
	store := &fakeStore{objects: map[string]string{
		"subj/2024-02-29.json": `{"explanation":"Leap day"}`,
	}}
	svc := NewService(store, nil, Settings{SubjectID: "subj"}, nil, quiet)
	svc.SetClock(func() time.Time { return time.Date(2024, 3, 1, 0, 30, 0, 0, time.UTC) })

	e, err := svc.Latest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2024-02-29", e.Date)
	assert.Equal(t, "Leap day", e.Explanation)
}
