package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lumiere-aesthetics/matching-engine/internal/cache"
	"github.com/lumiere-aesthetics/matching-engine/internal/candidate"
	"github.com/lumiere-aesthetics/matching-engine/internal/matching"
	"github.com/lumiere-aesthetics/matching-engine/internal/observability"
	"github.com/lumiere-aesthetics/matching-engine/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testAPI struct {
	handler http.Handler
	records *storage.RecordRepository
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	ctx := context.Background()

	db, err := storage.Open(ctx, storage.Options{
		Driver:       "sqlite",
		DSN:          "file:router_" + t.Name() + "?mode=memory&cache=shared",
		MaxOpenConns: 1,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, storage.Migrate(ctx, db))

	records := storage.NewRecordRepository(db)
	client := cache.NewMemoryClient(100)
	t.Cleanup(func() { _ = client.Close() })

	logger := observability.NopLogger()
	svc := matching.NewService(records, client, logger, matching.Config{SessionTTL: time.Minute, DeriveRegion: true})

	return &testAPI{
		records: records,
		handler: NewRouter(Dependencies{
			Logger:         logger,
			Service:        svc,
			Records:        records,
			Ready:          db.PingContext,
			AllowedOrigins: []string{"http://localhost:3000"},
			DefaultKind:    candidate.KindPhoto,
		}),
	}
}

func (a *testAPI) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func TestHealthAndReady(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")

	rec = api.do(t, http.MethodGet, "/ready", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyFailure(t *testing.T) {
	svc := matching.NewService(nil, nil, observability.NopLogger(), matching.Config{})
	h := NewRouter(Dependencies{
		Logger:  observability.NopLogger(),
		Service: svc,
		Ready:   func(context.Context) error { return errors.New("db down") },
	})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestSessionFlow(t *testing.T) {
	api := newTestAPI(t)

	for _, payload := range []map[string]interface{}{
		{"id": "lips-filler", "name": "Balance Lips Case", "treatments": []string{"Fillers"}, "areas": "Lips", "caption": "One syringe"},
		{"id": "lips-tox", "name": "Lip Flip", "treatments": []string{"Botox"}, "areas": "Lips"},
		{"id": "skin-laser", "name": "Sun Damage Reset", "treatments": []string{"heat/energy"}, "areas": "Skin All"},
	} {
		rec := api.do(t, http.MethodPut, "/api/v1/records", payload)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}

	rec := api.do(t, http.MethodPost, "/api/v1/sessions", nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var sess struct {
		ID      string `json:"id"`
		Kind    string `json:"kind"`
		Skipped int    `json:"skipped"`
	}
	decode(t, rec, &sess)
	require.NotEmpty(t, sess.ID)
	assert.Equal(t, "photo", sess.Kind)

	rec = api.do(t, http.MethodPost, "/api/v1/sessions/"+sess.ID+"/browse", map[string]string{"issue": "Thin Lips"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var res matching.BrowseResult
	decode(t, rec, &res)
	assert.Equal(t, "Lips", res.Criteria.Region)
	require.Len(t, res.Visible, 1)
	assert.Equal(t, "lips-filler", res.Visible[0].ID)
	assert.False(t, res.Cached)

	rec = api.do(t, http.MethodPost, "/api/v1/sessions/"+sess.ID+"/browse", map[string]string{"issue": "thin lips"})
	decode(t, rec, &res)
	assert.True(t, res.Cached)

	rec = api.do(t, http.MethodPost, "/api/v1/sessions/"+sess.ID+"/candidates/lips-filler/prefill", map[string]interface{}{
		"criteria": map[string]string{"issue": "Thin Lips"},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var prefill map[string]interface{}
	decode(t, rec, &prefill)
	assert.Equal(t, "Filler", prefill["treatment"])
	assert.Equal(t, "Lips", prefill["region"])
	assert.Equal(t, "One syringe", prefill["notes"])

	rec = api.do(t, http.MethodPost, "/api/v1/sessions/"+sess.ID+"/candidates/nope/prefill", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = api.do(t, http.MethodDelete, "/api/v1/sessions/"+sess.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = api.do(t, http.MethodGet, "/api/v1/sessions/"+sess.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	var errBody map[string]string
	decode(t, rec, &errBody)
	assert.Equal(t, "session not found", errBody["error"])
}

func TestBrowseRejectsBadBody(t *testing.T) {
	api := newTestAPI(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/x/browse", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	api.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRecords(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPut, "/api/v1/records", map[string]interface{}{"name": "Smooth Forehead", "kind": "suggestion_card"})
	require.Equal(t, http.StatusOK, rec.Code)
	var stored storage.Record
	decode(t, rec, &stored)
	require.NotEmpty(t, stored.ID)

	rec = api.do(t, http.MethodGet, "/api/v1/records?kind=suggestion_card", nil)
	var list struct {
		Kind    string                   `json:"kind"`
		Records []map[string]interface{} `json:"records"`
	}
	decode(t, rec, &list)
	assert.Equal(t, "suggestion_card", list.Kind)
	require.Len(t, list.Records, 1)

	rec = api.do(t, http.MethodDelete, "/api/v1/records/"+stored.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = api.do(t, http.MethodGet, "/api/v1/records/"+stored.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = api.do(t, http.MethodPut, "/api/v1/records", map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCatalogRoutes(t *testing.T) {
	api := newTestAPI(t)

	tests := []struct {
		name     string
		method   string
		path     string
		body     interface{}
		status   int
		contains string
	}{
		{"areas", http.MethodGet, "/api/v1/taxonomy/areas", nil, http.StatusOK, `"Full Face"`},
		{"suggestions", http.MethodGet, "/api/v1/taxonomy/suggestions", nil, http.StatusOK, `"Balance Lips"`},
		{"suggestion", http.MethodGet, "/api/v1/taxonomy/suggestions/Balance%20Lips", nil, http.StatusOK, `"Gummy Smile"`},
		{"unknown suggestion", http.MethodGet, "/api/v1/taxonomy/suggestions/Grow%20Hair", nil, http.StatusNotFound, "suggestion not found"},
		{"issue", http.MethodGet, "/api/v1/taxonomy/issues/Thin%20Lips", nil, http.StatusOK, `"Proportions"`},
		{"unknown issue", http.MethodGet, "/api/v1/taxonomy/issues/Baldness", nil, http.StatusNotFound, "issue not found"},
		{"treatment", http.MethodGet, "/api/v1/taxonomy/treatments/Fillers", nil, http.StatusOK, `"name":"Filler"`},
		{"excluded treatment", http.MethodGet, "/api/v1/taxonomy/treatments/Facelift", nil, http.StatusNotFound, "excluded"},
		{"normalize", http.MethodPost, "/api/v1/treatments/normalize", map[string][]string{"treatments": {"botox", "Facelift"}}, http.StatusOK, `["Neurotoxin"]`},
		{"finding", http.MethodGet, "/api/v1/recommendations/findings/Thin%20Lips", nil, http.StatusOK, `"Balance Lips"`},
		{"other finding", http.MethodGet, "/api/v1/recommendations/findings/Other%20finding", nil, http.StatusNotFound, "no recommendation"},
		{"products", http.MethodGet, "/api/v1/recommendations/treatments/Neurotoxin/products?context=frown%20lines", nil, http.StatusOK, `"Botox"`},
		{"prefill finding", http.MethodPost, "/api/v1/prefill", map[string]string{"finding": "Thin Lips"}, http.StatusOK, `"treatment":"Filler"`},
		{"prefill missing", http.MethodPost, "/api/v1/prefill", map[string]string{}, http.StatusBadRequest, "finding or treatment is required"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := api.do(t, tc.method, tc.path, tc.body)
			assert.Equal(t, tc.status, rec.Code, rec.Body.String())
			assert.Contains(t, rec.Body.String(), tc.contains)
		})
	}
}

func TestConnectServiceMounted(t *testing.T) {
	api := newTestAPI(t)

	req := httptest.NewRequest(http.MethodPost, "/matching.v1.MatchingService/Normalize", bytes.NewBufferString(`{"treatments":["tox"]}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	api.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"treatments":["Neurotoxin"]}`, rec.Body.String())
}
