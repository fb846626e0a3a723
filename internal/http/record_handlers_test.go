package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/UMEZAWADAN/SD-5/internal/domain"
	"github.com/UMEZAWADAN/SD-5/internal/export"
	"github.com/UMEZAWADAN/SD-5/internal/metrics"
	"github.com/UMEZAWADAN/SD-5/internal/record"
	"github.com/UMEZAWADAN/SD-5/internal/repository"
	"github.com/UMEZAWADAN/SD-5/internal/service"
	"github.com/UMEZAWADAN/SD-5/internal/store"
	"github.com/UMEZAWADAN/SD-5/internal/tabs"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testEnv struct {
	router    *Router
	downloads *export.Registry
	saveAPI   *httptest.Server
	redis     *redis.Client
}

// newTestEnv wires the page against a real save endpoint backed by miniredis
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := zap.NewNop()
	m := metrics.New(nil)
	person := domain.DemoPerson()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	receiver := service.NewAssessmentReceiver(
		store.NewAssessmentStore(store.NewRedisKV(client), ""),
		store.NewStreamSink(client, "care-record:assessments", 0),
		nil, logger, m,
	)
	apiRouter := NewRouter(logger)
	apiRouter.RegisterSaveAPIRoutes(NewSaveAPIHandler(receiver, person.PersonID, logger))
	saveAPI := httptest.NewServer(apiRouter)
	t.Cleanup(saveAPI.Close)

	tc, err := tabs.New(tabs.DefaultTabs())
	require.NoError(t, err)
	visits := service.NewVisitLog(repository.NewMemoryVisitsRepo(), logger, m)
	dispatcher := service.NewSaveDispatcher(saveAPI.URL+"/api/save_all_assessments", 5*time.Second, logger, m)
	ctrl := record.NewController(person, tc, visits, dispatcher, logger)

	downloads := export.NewRegistry()
	router := NewRouter(logger)
	router.RegisterRecordRoutes(NewRecordHandler(ctrl, downloads, m, logger))
	return &testEnv{router: router, downloads: downloads, saveAPI: saveAPI, redis: client}
}

func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeResult(t *testing.T, w *httptest.ResponseRecorder) Result[json.RawMessage] {
	t.Helper()
	var res Result[json.RawMessage]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res), w.Body.String())
	return res
}

func TestPage_RendersTabsScoresAndVisits(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/shousai", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()

	assert.Equal(t, 21, strings.Count(body, `<select name="q`))
	assert.Equal(t, 1, strings.Count(body, `id="dasc21_items"`))
	assert.Equal(t, 1, strings.Count(body, `tab-btn active`))
	assert.Equal(t, 1, strings.Count(body, `tab-content active`))
	assert.Contains(t, body, `id="kihon_form"`)
	assert.Contains(t, body, `id="dbd13_form"`)
	assert.Contains(t, body, `id="visitTableBody"`)
	assert.Contains(t, body, "山田 花子")
}

func TestRoot_RedirectsToPage(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/shousai", w.Header().Get("Location"))
}

func TestActivateTab(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/shousai/tabs/visits", "")
	require.Equal(t, http.StatusOK, w.Code)

	page := env.do(t, http.MethodGet, "/shousai", "").Body.String()
	assert.Contains(t, page, `class="tab-btn active" type="button" data-tab="visits"`)
	assert.Contains(t, page, `id="visits" class="tab-content active"`)
	assert.Equal(t, 1, strings.Count(page, `tab-btn active`))
	assert.Equal(t, 1, strings.Count(page, `tab-content active`))

	w = env.do(t, http.MethodPost, "/shousai/tabs/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSetScore_ReturnsTotalAndTier(t *testing.T) {
	env := newTestEnv(t)

	var w *httptest.ResponseRecorder
	for i := 1; i <= 17; i++ {
		w = env.do(t, http.MethodPost, "/shousai/scores", `{"index":`+itoa(i)+`,"value":"3"}`)
		require.Equal(t, http.StatusOK, w.Code)
	}
	res := decodeResult(t, w)
	var score scoreResponse
	require.NoError(t, json.Unmarshal(res.Result, &score))
	assert.Equal(t, 51, score.Total)
	assert.Equal(t, domain.TierSevere, score.Tier)
	assert.Equal(t, "重度", score.TierLabel)

	// non-numeric value is coerced to 0
	w = env.do(t, http.MethodPost, "/shousai/scores", `{"index":1,"value":"?"}`)
	res = decodeResult(t, w)
	require.NoError(t, json.Unmarshal(res.Result, &score))
	assert.Equal(t, 48, score.Total)
	assert.Equal(t, domain.TierModerate, score.Tier)

	// numeric JSON values are accepted as well
	w = env.do(t, http.MethodPost, "/shousai/scores", `{"index":1,"value":2}`)
	require.Equal(t, http.StatusOK, w.Code)
	res = decodeResult(t, w)
	require.NoError(t, json.Unmarshal(res.Result, &score))
	assert.Equal(t, 50, score.Total)
	assert.Equal(t, domain.TierSevere, score.Tier)

	for _, value := range []string{`7`, `1.5`, `null`, `{"x":1}`, `[3]`, `true`} {
		w = env.do(t, http.MethodPost, "/shousai/scores", `{"index":1,"value":`+value+`}`)
		require.Equal(t, http.StatusOK, w.Code, value)
		res = decodeResult(t, w)
		require.NoError(t, json.Unmarshal(res.Result, &score))
		assert.Equal(t, 48, score.Total, value)
	}

	w = env.do(t, http.MethodPost, "/shousai/scores", `{"index":2}`)
	require.Equal(t, http.StatusOK, w.Code)
	res = decodeResult(t, w)
	require.NoError(t, json.Unmarshal(res.Result, &score))
	assert.Equal(t, 45, score.Total)

	w = env.do(t, http.MethodPost, "/shousai/scores", `{"index":99,"value":"1"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAddVisit_ValidationLeavesListUnchanged(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/shousai/visits", `{"date":"","staff":"A","type":"訪問","note":"x"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	res := decodeResult(t, w)
	assert.Equal(t, "error", res.Type)
	assert.Equal(t, domain.MsgVisitValidation, res.Message)

	w = env.do(t, http.MethodGet, "/shousai/visits", "")
	res = decodeResult(t, w)
	var visits visitsResponse
	require.NoError(t, json.Unmarshal(res.Result, &visits))
	assert.Len(t, visits.Visits, 0)
}

func TestAddVisit_PrependsAndEscapesRows(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/shousai/visits", `{"date":"2025-10-20","staff":"A","type":"訪問","note":"x"}`)
	require.Equal(t, http.StatusOK, w.Code)
	w = env.do(t, http.MethodPost, "/shousai/visits", `{"date":"2025-10-21","staff":"<b>B</b>","type":"電話","note":"<script>alert(1)</script>"}`)
	require.Equal(t, http.StatusOK, w.Code)

	res := decodeResult(t, w)
	assert.Equal(t, "success", res.Type)
	var visits visitsResponse
	require.NoError(t, json.Unmarshal(res.Result, &visits))
	require.Len(t, visits.Visits, 2)
	assert.Equal(t, "2025-10-21", visits.Visits[0].Date)

	assert.NotContains(t, visits.RowsHTML, "<script>")
	assert.Contains(t, visits.RowsHTML, "&lt;script&gt;")
	assert.Contains(t, visits.RowsHTML, "&lt;b&gt;B&lt;/b&gt;")
	assert.Less(t, strings.Index(visits.RowsHTML, "2025-10-21"), strings.Index(visits.RowsHTML, "2025-10-20"))

	page := env.do(t, http.MethodGet, "/shousai", "").Body.String()
	assert.NotContains(t, page, "<script>alert(1)</script>")
}

func TestExport_VisitCSV(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, http.MethodPost, "/shousai/visits", `{"date":"2025-10-20","staff":"A","type":"訪問","note":"x"}`)

	w := env.do(t, http.MethodGet, "/shousai/exports/visit_records.csv", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "date,staff,type,note\n2025-10-20,A,訪問,x", w.Body.String())
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/csv"))
	assert.Equal(t, `attachment; filename="visit_records.csv"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, 0, env.downloads.Outstanding())
}

func TestExport_AssessmentFiles(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, http.MethodPost, "/shousai/scores", `{"index":2,"value":"2"}`)

	w := env.do(t, http.MethodGet, "/shousai/exports/dasc21.csv", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "total,2,tier,mild\n0,2,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0", w.Body.String())
	assert.Equal(t, `attachment; filename="dasc21.csv"`, w.Header().Get("Content-Disposition"))

	w = env.do(t, http.MethodGet, "/shousai/exports/dasc21.xlsx", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, export.MIMEXLSX, w.Header().Get("Content-Type"))

	w = env.do(t, http.MethodGet, "/shousai/exports/secrets.txt", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, 0, env.downloads.Outstanding())
}

func TestSave_RoundTripThroughSaveEndpoint(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPut, "/shousai/forms/kiroku", `{"text":"経過記録"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodPost, "/shousai/save", `{"kihon":"基本","dbd13":"dbd"}`)
	require.Equal(t, http.StatusOK, w.Code)
	res := decodeResult(t, w)
	assert.Equal(t, "success", res.Type)
	assert.Equal(t, domain.MsgSaveOK, res.Message)

	resp, err := http.Get(env.saveAPI.URL + "/api/assessments/latest")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var latest Result[store.SavedAssessment]
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&latest))
	assert.Equal(t, domain.AssessmentForms{Kihon: "基本", Kiroku: "経過記録", Dbd13: "dbd"}, latest.Result.Forms)
	assert.Equal(t, domain.DemoPerson().PersonID, latest.Result.PersonID)
}

func TestSave_EndpointDownReportsFailureOnce(t *testing.T) {
	env := newTestEnv(t)
	env.saveAPI.Close()

	w := env.do(t, http.MethodPost, "/shousai/save", "")
	require.Equal(t, http.StatusOK, w.Code)
	res := decodeResult(t, w)
	assert.Equal(t, "error", res.Type)
	assert.Equal(t, domain.MsgSaveFailed, res.Message)
}

func TestSetForm_UnknownName(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodPut, "/shousai/forms/unknown", `{"text":"x"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStaticAssets(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodGet, "/static/record.js", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, strings.Count(w.Body.String(), `items.addEventListener("change"`))
}

func itoa(i int) string {
	b, _ := json.Marshal(i)
	return string(b)
}
