package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aristath/readiness/internal/domain"
	"github.com/aristath/readiness/internal/modules/explanations"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockExplainer struct {
	mock.Mock
}

func (m *mockExplainer) Get(ctx context.Context, date string) (*explanations.Explanation, error) {
	args := m.Called(ctx, date)
	e, _ := args.Get(0).(*explanations.Explanation)
	return e, args.Error(1)
}

func (m *mockExplainer) Yesterday() string {
	return m.Called().String(0)
}

func newRouter(svc Explainer) chi.Router {
	router := chi.NewRouter()
	router.Route("/api", func(r chi.Router) {
		NewHandler(svc, zerolog.New(nil).Level(zerolog.Disabled)).RegisterRoutes(r)
	})
	return router
}

func do(t *testing.T, router http.Handler, path string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return w, body
}

func TestGetByDate(t *testing.T) {
	svc := &mockExplainer{}
	svc.On("Get", mock.Anything, "2024-01-15").Return(&explanations.Explanation{
		Date:        "2024-01-15",
		Explanation: "Rested",
		Insights:    []string{"HRV up"},
		Flags:       []string{},
	}, nil)

	w, body := do(t, newRouter(svc), "/api/explanations/2024-01-15")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2024-01-15", body["date"])
	assert.Equal(t, "Rested", body["explanation"])
	assert.Equal(t, []interface{}{"HRV up"}, body["insights"])
	assert.Equal(t, []interface{}{}, body["flags"])
	assert.NotContains(t, body, "metricsSummary")
}

func TestGetByDateErrors(t *testing.T) {
	tests := []struct {
		name     string
		date     string
		err      error
		status   int
		kind     string
		validate func(*testing.T, map[string]interface{})
	}{
		{
			name:   "invalid date",
			date:   "2024-13-40",
			err:    domain.NewValidationError(`invalid date "2024-13-40": not a calendar date`),
			status: http.StatusBadRequest,
			kind:   "VALIDATION",
			validate: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, "Invalid date", body["error"])
			},
		},
		{
			name:   "not found",
			date:   "2024-01-01",
			err:    domain.NewNotFoundError("s3://b/k does not exist"),
			status: http.StatusNotFound,
			kind:   "NOT_FOUND",
			validate: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, "2024-01-01", body["date"])
				assert.NotEmpty(t, body["error"])
			},
		},
		{
			name:   "missing configuration",
			date:   "2024-01-01",
			err:    domain.NewConfigurationError("EXPLANATIONS_BUCKET_NAME"),
			status: http.StatusInternalServerError,
			kind:   "CONFIGURATION",
			validate: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, []interface{}{"EXPLANATIONS_BUCKET_NAME"}, body["missingVariables"])
			},
		},
		{
			name:   "store failure",
			date:   "2024-01-01",
			err:    errors.New("access denied"),
			status: http.StatusInternalServerError,
			kind:   "INTERNAL",
			validate: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, "access denied", body["details"])
			},
		},
		{
			name:   "malformed artifact",
			date:   "2024-01-01",
			err:    domain.NewParseError("explanation for 2024-01-01 is not a JSON object", errors.New("bad")),
			status: http.StatusInternalServerError,
			kind:   "PARSE",
			validate: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, "explanation for 2024-01-01 is not a JSON object: bad", body["details"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockExplainer{}
			svc.On("Get", mock.Anything, tt.date).Return(nil, tt.err)

			w, body := do(t, newRouter(svc), "/api/explanations/"+tt.date)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.kind, body["kind"])
			tt.validate(t, body)
		})
	}
}

func TestGetLatestUsesYesterday(t *testing.T) {
	svc := &mockExplainer{}
	svc.On("Yesterday").Return("2024-02-29")
	svc.On("Get", mock.Anything, "2024-02-29").Return(&explanations.Explanation{Date: "2024-02-29"}, nil)

	w, body := do(t, newRouter(svc), "/api/explanations/latest")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2024-02-29", body["date"])
	svc.AssertExpectations(t)
}
