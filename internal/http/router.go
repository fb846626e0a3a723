package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Router chi 路由 + zap 访问日志
type Router struct {
	mux    *chi.Mux
	logger *zap.Logger
}

func NewRouter(logger *zap.Logger) *Router {
	mux := chi.NewRouter()
	mux.Use(middleware.RequestID)
	mux.Use(middleware.Recoverer)
	mux.Use(accessLog(logger))

	mux.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS()))))

	return &Router{mux: mux, logger: logger}
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// RegisterRecordRoutes 対象者詳細ページ
func (r *Router) RegisterRecordRoutes(h *RecordHandler) {
	r.mux.Get("/", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, "/shousai", http.StatusFound)
	})
	r.mux.Route("/shousai", func(sr chi.Router) {
		sr.Get("/", h.Page)
		sr.Post("/tabs/{key}", h.ActivateTab)
		sr.Put("/forms/{name}", h.SetForm)
		sr.Post("/scores", h.SetScore)
		sr.Get("/visits", h.ListVisits)
		sr.Post("/visits", h.AddVisit)
		sr.Post("/save", h.Save)
		sr.Get("/exports/{file}", h.Export)
	})
}

// RegisterSaveAPIRoutes 保存接口
func (r *Router) RegisterSaveAPIRoutes(h *SaveAPIHandler) {
	r.mux.Post("/api/save_all_assessments", h.SaveAll)
	r.mux.Get("/api/assessments/latest", h.Latest)
}

// RegisterMetrics /metrics
func (r *Router) RegisterMetrics(g prometheus.Gatherer) {
	r.mux.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
}

func accessLog(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("elapsed", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			)
		})
	}
}
