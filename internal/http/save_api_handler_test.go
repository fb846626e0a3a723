package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/UMEZAWADAN/SD-5/internal/domain"
	"github.com/UMEZAWADAN/SD-5/internal/service"
	"github.com/UMEZAWADAN/SD-5/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// failingKV 写入总是失败
type failingKV struct{ store.KV }

func (failingKV) Set(context.Context, string, string, time.Duration) error {
	return assert.AnError
}

func newSaveAPIRouter(kv store.KV) *Router {
	logger := zap.NewNop()
	receiver := service.NewAssessmentReceiver(store.NewAssessmentStore(kv, ""), nil, nil, logger, nil)
	r := NewRouter(logger)
	r.RegisterSaveAPIRoutes(NewSaveAPIHandler(receiver, domain.DemoPerson().PersonID, logger))
	return r
}

func TestSaveAll_OK(t *testing.T) {
	kv := store.NewMemoryKV()
	r := newSaveAPIRouter(kv)

	req := httptest.NewRequest(http.MethodPost, "/api/save_all_assessments?person_id=p-9",
		strings.NewReader(`{"kihon":"a","kiroku":"b","shintai":"c","dasc21":"d","dbd13":"e"}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	raw, err := kv.Get(context.Background(), "care-record:assessment:p-9:latest")
	require.NoError(t, err)
	assert.Contains(t, raw, `"dbd13":"e"`)
}

func TestSaveAll_InvalidJSON(t *testing.T) {
	r := newSaveAPIRouter(store.NewMemoryKV())

	req := httptest.NewRequest(http.MethodPost, "/api/save_all_assessments", strings.NewReader(`{"kihon":`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"status":"error"}`, w.Body.String())
}

func TestSaveAll_EmptyBodyKeepsLatest(t *testing.T) {
	kv := store.NewMemoryKV()
	r := newSaveAPIRouter(kv)

	req := httptest.NewRequest(http.MethodPost, "/api/save_all_assessments", strings.NewReader(`{"kihon":"基本"}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/save_all_assessments", http.NoBody)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"status":"error"}`, w.Body.String())

	raw, err := kv.Get(context.Background(), "care-record:assessment:"+domain.DemoPerson().PersonID+":latest")
	require.NoError(t, err)
	assert.Contains(t, raw, `"kihon":"基本"`)
}

func TestSaveAll_StoreFailure(t *testing.T) {
	r := newSaveAPIRouter(failingKV{KV: store.NewMemoryKV()})

	req := httptest.NewRequest(http.MethodPost, "/api/save_all_assessments", strings.NewReader(`{}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"status":"error"}`, w.Body.String())
}

func TestLatest_NotFound(t *testing.T) {
	r := newSaveAPIRouter(store.NewMemoryKV())

	req := httptest.NewRequest(http.MethodGet, "/api/assessments/latest", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `"code":-1`)
}
