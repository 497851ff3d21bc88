package survey

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sngm3741/survey-creator-api/internal/infrastructure/memory"
	"github.com/sngm3741/survey-creator-api/internal/submission/application"
	"github.com/sngm3741/survey-creator-api/internal/submission/domain"
)

type listedSubmission struct {
	SubmissionID string          `json:"submission_id"`
	CSVUUID      string          `json:"csv_uuid"`
	DisplayText  string          `json:"display_text"`
	AllResponses json.RawMessage `json:"all_responses"`
	Timestamp    string          `json:"timestamp"`
}

type listBody struct {
	Responses []listedSubmission `json:"responses"`
}

type errorBody struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// failingRepository wraps a memory store and fails the configured operations.
type failingRepository struct {
	*memory.SubmissionRepository
	createErr error
	listErr   error
	findErr   error
	block     bool
}

func (r *failingRepository) Create(ctx context.Context, s *domain.Submission) error {
	if r.createErr != nil {
		return r.createErr
	}
	if r.block {
		<-ctx.Done()
		return ctx.Err()
	}
	return r.SubmissionRepository.Create(ctx, s)
}

func (r *failingRepository) ListIDs(ctx context.Context) ([]string, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	return r.SubmissionRepository.ListIDs(ctx)
}

func (r *failingRepository) FindByID(ctx context.Context, id string) (*domain.Submission, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	return r.SubmissionRepository.FindByID(ctx, id)
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestRouter(repo application.SubmissionRepository, mutate ...func(*Config)) http.Handler {
	cfg := Config{
		Logger:              quietLogger(),
		Commands:            application.NewSubmissionCommandService(repo, application.NewTimestampIDGenerator()),
		Queries:             application.NewSubmissionQueryService(repo),
		ExposeStorageErrors: true,
	}
	for _, fn := range mutate {
		fn(&cfg)
	}
	router := chi.NewRouter()
	router.Route("/api", NewHandler(cfg).Register)
	return router
}

func doRequest(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(bytes.NewReader(w.Body.Bytes())).Decode(&out), w.Body.String())
	return out
}

func TestCreateSubmission(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		expectedStatus int
		missing        []string
	}{
		{
			name:           "valid submission",
			body:           `{"uuid":"abc","display_text":"Q1","all_responses":{"a":1}}`,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "whitespace display text is present",
			body:           `{"uuid":"abc","display_text":" ","all_responses":{"a":1}}`,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "non-string uuid",
			body:           `{"uuid":7,"display_text":"Q1","all_responses":{"a":1}}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "only uuid",
			body:           `{"uuid":"x"}`,
			expectedStatus: http.StatusBadRequest,
			missing:        []string{"display_text", "all_responses"},
		},
		{
			name:           "missing uuid",
			body:           `{"display_text":"Q1","all_responses":[1]}`,
			expectedStatus: http.StatusBadRequest,
			missing:        []string{"uuid"},
		},
		{
			name:           "empty display text",
			body:           `{"uuid":"x","display_text":"","all_responses":{"a":1}}`,
			expectedStatus: http.StatusBadRequest,
			missing:        []string{"display_text"},
		},
		{
			name:           "null responses",
			body:           `{"uuid":"x","display_text":"Q","all_responses":null}`,
			expectedStatus: http.StatusBadRequest,
			missing:        []string{"all_responses"},
		},
		{
			name:           "empty body",
			body:           "",
			expectedStatus: http.StatusBadRequest,
			missing:        []string{"uuid", "display_text", "all_responses"},
		},
		{
			name:           "invalid JSON",
			body:           "invalid json",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := memory.NewSubmissionRepository()
			router := newTestRouter(repo)

			w := doRequest(t, router, http.MethodPost, "/api/survey", tt.body)

			require.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

			if tt.expectedStatus == http.StatusOK {
				resp := decode[createSubmissionResponse](t, w)
				assert.Equal(t, "saved", resp.Status)
				assert.True(t, strings.HasPrefix(resp.SubmissionID, "abc-"), resp.SubmissionID)
				assert.Equal(t, 1, repo.Len())
				return
			}

			resp := decode[errorBody](t, w)
			assert.Equal(t, "error", resp.Status)
			assert.NotEmpty(t, resp.Message)
			for _, field := range tt.missing {
				assert.Contains(t, resp.Message, field)
			}
			assert.Zero(t, repo.Len(), "no key may be written on a rejected request")
		})
	}
}

func TestCreateSubmission_UniqueIDsForIdenticalBodies(t *testing.T) {
	repo := memory.NewSubmissionRepository()
	router := newTestRouter(repo)
	body := `{"uuid":"abc","display_text":"Q1","all_responses":{"a":1}}`

	const n = 25
	seen := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		w := doRequest(t, router, http.MethodPost, "/api/survey", body)
		require.Equal(t, http.StatusOK, w.Code)
		resp := decode[createSubmissionResponse](t, w)
		require.NotEmpty(t, resp.SubmissionID)
		seen[resp.SubmissionID] = struct{}{}
	}

	assert.Len(t, seen, n)
	assert.Equal(t, n, repo.Len())
}

func TestCreateSubmission_StorageFailure(t *testing.T) {
	repo := &failingRepository{
		SubmissionRepository: memory.NewSubmissionRepository(),
		createErr:            errors.New("database unavailable"),
	}

	t.Run("verbatim", func(t *testing.T) {
		w := doRequest(t, newTestRouter(repo), http.MethodPost, "/api/survey",
			`{"uuid":"abc","display_text":"Q1","all_responses":{"a":1}}`)

		require.Equal(t, http.StatusInternalServerError, w.Code)
		resp := decode[errorBody](t, w)
		assert.Equal(t, "error", resp.Status)
		assert.Contains(t, resp.Message, "database unavailable")
	})

	t.Run("redacted", func(t *testing.T) {
		router := newTestRouter(repo, func(cfg *Config) { cfg.ExposeStorageErrors = false })
		w := doRequest(t, router, http.MethodPost, "/api/survey",
			`{"uuid":"abc","display_text":"Q1","all_responses":{"a":1}}`)

		require.Equal(t, http.StatusInternalServerError, w.Code)
		resp := decode[errorBody](t, w)
		assert.NotContains(t, resp.Message, "database unavailable")
		assert.NotEmpty(t, resp.Message)
	})
}

func TestCreateSubmission_StoreTimeout(t *testing.T) {
	repo := &failingRepository{SubmissionRepository: memory.NewSubmissionRepository(), block: true}
	router := newTestRouter(repo, func(cfg *Config) { cfg.StoreTimeout = 20 * time.Millisecond })

	w := doRequest(t, router, http.MethodPost, "/api/survey",
		`{"uuid":"abc","display_text":"Q1","all_responses":{"a":1}}`)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, decode[errorBody](t, w).Message, context.DeadlineExceeded.Error())
}

func TestListSubmissions_Empty(t *testing.T) {
	w := doRequest(t, newTestRouter(memory.NewSubmissionRepository()), http.MethodGet, "/api/survey", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"responses":[]}`, w.Body.String())
}

func TestCreateThenList_RoundTrip(t *testing.T) {
	router := newTestRouter(memory.NewSubmissionRepository())

	w := doRequest(t, router, http.MethodPost, "/api/survey",
		`{"uuid":"abc","display_text":"Q1","all_responses":{"a":1}}`)
	require.Equal(t, http.StatusOK, w.Code)
	created := decode[createSubmissionResponse](t, w)

	w = doRequest(t, router, http.MethodGet, "/api/survey", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), `"status"`)

	listed := decode[listBody](t, w)
	require.Len(t, listed.Responses, 1)
	got := listed.Responses[0]
	assert.Equal(t, created.SubmissionID, got.SubmissionID)
	assert.Equal(t, "abc", got.CSVUUID)
	assert.Equal(t, "Q1", got.DisplayText)
	assert.JSONEq(t, `{"a":1}`, string(got.AllResponses))

	ts, err := time.Parse(timestampLayout, got.Timestamp)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), ts, time.Minute)
}

func TestListSubmissions_StorageFailure(t *testing.T) {
	tests := []struct {
		name string
		repo *failingRepository
	}{
		{
			name: "enumeration",
			repo: &failingRepository{SubmissionRepository: memory.NewSubmissionRepository(), listErr: errors.New("outage")},
		},
		{
			name: "fetch",
			repo: &failingRepository{SubmissionRepository: memory.NewSubmissionRepository(), findErr: errors.New("outage")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seed := &domain.Submission{ID: "a-1", CSVUUID: "a", DisplayText: "A", AllResponses: json.RawMessage(`{}`)}
			require.NoError(t, tt.repo.SubmissionRepository.Create(context.Background(), seed))

			w := doRequest(t, newTestRouter(tt.repo), http.MethodGet, "/api/survey", "")

			require.Equal(t, http.StatusInternalServerError, w.Code)
			assert.NotContains(t, w.Body.String(), "responses")
			resp := decode[errorBody](t, w)
			assert.Equal(t, "error", resp.Status)
			assert.Contains(t, resp.Message, "outage")
		})
	}
}
