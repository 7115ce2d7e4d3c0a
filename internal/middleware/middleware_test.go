package middleware

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"coursehub/internal/model"
	"coursehub/internal/service"
	"coursehub/internal/util"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type whoamiOutput struct {
	Body struct {
		UserID string `json:"user_id"`
	}
}

type usersFake map[string]*model.User

func (f usersFake) Get(_ context.Context, id string) (*model.User, error) {
	if id == "broken" {
		return nil, errors.New("connection refused")
	}
	u, ok := f[id]
	if !ok {
		return nil, service.ErrUserNotFound
	}
	return u, nil
}

func newAuthAPI(t *testing.T) humatest.TestAPI {
	_, api := humatest.New(t)
	users := usersFake{
		"user-1":  {UserID: "user-1", IsActive: true},
		"retired": {UserID: "retired", IsActive: false},
	}
	api.UseMiddleware(AuthMiddleware(api, "secret", users, zerolog.Nop()))
	huma.Get(api, "/whoami", func(ctx context.Context, _ *struct{}) (*whoamiOutput, error) {
		out := &whoamiOutput{}
		out.Body.UserID, _ = UserIDFromContext(ctx)
		return out, nil
	})
	return api
}

func TestAuthMiddleware(t *testing.T) {
	api := newAuthAPI(t)
	access, err := util.IssueJWT("secret", "user-1", util.TokenTypeAccess, time.Minute, time.Now())
	require.NoError(t, err)
	refresh, err := util.IssueJWT("secret", "user-1", util.TokenTypeRefresh, time.Minute, time.Now())
	require.NoError(t, err)

	t.Run("anonymous", func(t *testing.T) {
		resp := api.Get("/whoami")
		assert.Equal(t, http.StatusOK, resp.Code)
		assert.Contains(t, resp.Body.String(), `"user_id":""`)
	})

	t.Run("bearer access token", func(t *testing.T) {
		resp := api.Get("/whoami", "Authorization: Bearer "+access)
		assert.Equal(t, http.StatusOK, resp.Code)
		assert.Contains(t, resp.Body.String(), `"user_id":"user-1"`)
	})

	t.Run("JWT prefix", func(t *testing.T) {
		resp := api.Get("/whoami", "Authorization: JWT "+access)
		assert.Equal(t, http.StatusOK, resp.Code)
	})

	tokenFor := func(userID string) string {
		token, err := util.IssueJWT("secret", userID, util.TokenTypeAccess, time.Minute, time.Now())
		require.NoError(t, err)
		return "Authorization: Bearer " + token
	}

	t.Run("user lookup fails", func(t *testing.T) {
		resp := api.Get("/whoami", tokenFor("broken"))
		assert.Equal(t, http.StatusInternalServerError, resp.Code)
	})

	for name, header := range map[string]string{
		"inactive user": tokenFor("retired"),
		"unknown user":  tokenFor("deleted"),
		"refresh token": "Authorization: Bearer " + refresh,
		"garbage":       "Authorization: Bearer nope",
		"bad scheme":    "Authorization: Basic " + access,
		"no token":      "Authorization: Bearer",
	} {
		t.Run(name, func(t *testing.T) {
			resp := api.Get("/whoami", header)
			assert.Equal(t, http.StatusUnauthorized, resp.Code)
		})
	}
}

func TestLoggerMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)
	h := LoggerMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/courses/search_course?search_term=go", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Contains(t, buf.String(), `"status":418`)
	assert.Contains(t, buf.String(), `"path":"/courses/search_course?search_term=go"`)
}

func TestMetricsUsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Metrics())
	r.Get("/courses/course_detail/{course_uuid}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})

	counter := httpRequestsTotal.WithLabelValues(http.MethodGet, "/courses/course_detail/{course_uuid}", "400")
	before := testutil.ToFloat64(counter)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/courses/course_detail/6f1c2b1e-1111-4c1d-9a2b-123456789abc", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}

func TestNormalizePathFallback(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/x/6f1c2b1e-1111-4c1d-9a2b-123456789abc/y", nil)
	assert.Equal(t, unmatchedPath, normalizePath(req))
}

func TestMetricsUnmatchedPathsShareOneSeries(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Metrics())
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {})

	counter := httpRequestsTotal.WithLabelValues(http.MethodGet, unmatchedPath, "404")
	before := testutil.ToFloat64(counter)
	series := testutil.CollectAndCount(httpRequestsTotal)

	for i := 0; i < 20; i++ {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/random-%d", i), nil))
		require.Equal(t, http.StatusNotFound, rec.Code)
	}

	assert.Equal(t, before+20, testutil.ToFloat64(counter))
	assert.LessOrEqual(t, testutil.CollectAndCount(httpRequestsTotal), series+1)
}
