package registration

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/registration-form/internal/form"
	"github.com/aanand-mishra/registration-form/internal/metrics"
	"github.com/aanand-mishra/registration-form/internal/storage/sqlite"
	"github.com/aanand-mishra/registration-form/internal/types"
	"github.com/aanand-mishra/registration-form/internal/utils/response"
)

type testServer struct {
	store   *sqlite.SQLite
	metrics *metrics.Metrics
	router  *http.ServeMux
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "RegisterForm.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	require.NoError(t, store.CreateTable())

	f := form.New(store)
	m := metrics.New()

	router := http.NewServeMux()
	router.HandleFunc("POST /api/registrations", New(f, m))
	router.HandleFunc("GET /api/registrations/{id}", GetByID(f))
	router.HandleFunc("POST /api/registrations/validate", ValidateField(f, m))

	return &testServer{store: store, metrics: m, router: router}
}

func (s *testServer) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

const janeJSON = `{"name":" Jane ","lastName":"Doe","email":"jane@example.com","birthDate":"1990-05-20","password":"Secret123"}`

func TestSubmitAndFetch(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/api/registrations", janeJSON)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created map[string]int64
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
	assert.Equal(t, int64(1), created["id"])
	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.Submissions.WithLabelValues(metrics.OutcomeStored)))

	rec = s.do(http.MethodGet, "/api/registrations/1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got types.Registration
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, types.Registration{
		ID:        1,
		Name:      "Jane",
		LastName:  "Doe",
		Email:     "jane@example.com",
		BirthDate: "1990-05-20",
		Password:  "Secret123",
	}, got)

	rec = s.do(http.MethodGet, "/api/registrations/2", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodGet, "/api/registrations/abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmitRejections(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantField string
		wantError string
	}{
		{
			name:      "empty body",
			body:      "",
			wantError: "request body is empty",
		},
		{
			name:      "blank field",
			body:      `{"name":"   ","lastName":"Doe","email":"jane@example.com","birthDate":"1990-05-20","password":"Secret123"}`,
			wantError: "field name is required",
		},
		{
			name:      "bad email",
			body:      `{"name":"Jane","lastName":"Doe","email":"jane@example","birthDate":"1990-05-20","password":"Secret123"}`,
			wantField: "email",
			wantError: "Wrong email format",
		},
		{
			name:      "short password",
			body:      `{"name":"Jane","lastName":"Doe","email":"jane@example.com","birthDate":"1990-05-20","password":"short"}`,
			wantField: "password",
			wantError: "too short",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)

			rec := s.do(http.MethodPost, "/api/registrations", tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)

			var resp response.Response
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.Equal(t, response.StatusError, resp.Status)
			assert.Equal(t, tt.wantField, resp.Field)
			assert.Contains(t, resp.Error, tt.wantError)

			got, err := s.store.ReadByID(1)
			require.NoError(t, err)
			assert.Nil(t, got, "nothing may be stored")
		})
	}
}

func TestSubmitStorageFailure(t *testing.T) {
	s := newTestServer(t)
	require.NoError(t, s.store.DropTable())

	rec := s.do(http.MethodPost, "/api/registrations", janeJSON)
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp response.Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Contains(t, resp.Error, "no such table")
	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.Submissions.WithLabelValues(metrics.OutcomeFailed)))
}

func TestValidateFieldHandler(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/api/registrations/validate", `{"field":"password","value":"longenough"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodPost, "/api/registrations/validate", `{"field":"password","value":"short"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp response.Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "password", resp.Field)
	assert.Contains(t, resp.Error, "too short")
	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.FieldRejections.WithLabelValues("password")))

	rec = s.do(http.MethodPost, "/api/registrations/validate", `{"field":"age","value":"30"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
