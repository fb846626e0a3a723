package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/UMEZAWADAN/SD-5/internal/domain"
	"github.com/UMEZAWADAN/SD-5/internal/export"
	"github.com/UMEZAWADAN/SD-5/internal/metrics"
	"github.com/UMEZAWADAN/SD-5/internal/record"
	"github.com/UMEZAWADAN/SD-5/internal/service"
	"github.com/UMEZAWADAN/SD-5/internal/tabs"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// RecordHandler 対象者詳細ページ的全部交互
type RecordHandler struct {
	ctrl      *record.Controller
	downloads *export.Registry
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

func NewRecordHandler(ctrl *record.Controller, downloads *export.Registry, m *metrics.Metrics, logger *zap.Logger) *RecordHandler {
	return &RecordHandler{ctrl: ctrl, downloads: downloads, metrics: m, logger: logger}
}

type pageData struct {
	record.State
	FormTexts map[string]string
}

// Value 接受 "3" 或 3；其它任何值都按 0 处理
type scoreRequest struct {
	Index int             `json:"index"`
	Value json.RawMessage `json:"value"`
}

// rawValue 取出可交给 ParseScore 的文本
func (r scoreRequest) rawValue() string {
	var s string
	if err := json.Unmarshal(r.Value, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(r.Value))
}

type scoreResponse struct {
	Total     int         `json:"total"`
	Tier      domain.Tier `json:"tier"`
	TierLabel string      `json:"tier_label"`
}

type visitRequest struct {
	Date  string `json:"date"`
	Staff string `json:"staff"`
	Type  string `json:"type"`
	Note  string `json:"note"`
}

type visitsResponse struct {
	Visits   []domain.VisitEntry `json:"visits"`
	RowsHTML string              `json:"rows_html"`
}

// Page GET /shousai
func (h *RecordHandler) Page(w http.ResponseWriter, r *http.Request) {
	st, err := h.ctrl.Snapshot(r.Context())
	if err != nil {
		h.logger.Error("Failed to load record state", zap.Error(err))
		http.Error(w, "failed to load record", http.StatusInternalServerError)
		return
	}
	texts := make(map[string]string, len(domain.FormNames))
	for _, name := range domain.FormNames {
		texts[name] = st.Forms.Get(name)
	}
	renderPage(w, h.logger, "shousai", pageData{State: st, FormTexts: texts})
}

// ActivateTab POST /shousai/tabs/{key}
func (h *RecordHandler) ActivateTab(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if err := h.ctrl.ActivateTab(key); err != nil {
		if errors.Is(err, tabs.ErrUnknownTab) {
			writeJSON(w, http.StatusNotFound, Fail("unknown tab: "+key))
			return
		}
		writeJSON(w, http.StatusInternalServerError, Fail(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]string{"active": key}))
}

// SetForm PUT /shousai/forms/{name}  body: {"text": "..."}
func (h *RecordHandler) SetForm(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	var payload struct {
		Text string `json:"text"`
	}
	if _, err := readBodyJSON(r, maxBodyBytes, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid body"))
		return
	}
	if err := h.ctrl.SetForm(name, payload.Text); err != nil {
		writeJSON(w, http.StatusNotFound, Fail(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]string{"form": name}))
}

// SetScore POST /shousai/scores  body: {"index": 1, "value": "3"}
// 非数字的 value 按 0 处理，不报错
func (h *RecordHandler) SetScore(w http.ResponseWriter, r *http.Request) {
	var req scoreRequest
	if _, err := readBodyJSON(r, maxBodyBytes, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid body"))
		return
	}
	res, err := h.ctrl.SetScore(req.Index, req.rawValue())
	if err != nil {
		writeJSON(w, http.StatusBadRequest, Fail(err.Error()))
		return
	}
	if h.metrics != nil {
		h.metrics.ScoreRecomputes.Inc()
	}
	writeJSON(w, http.StatusOK, Ok(scoreResponse{Total: res.Total, Tier: res.Tier, TierLabel: res.Tier.Label()}))
}

// ListVisits GET /shousai/visits
func (h *RecordHandler) ListVisits(w http.ResponseWriter, r *http.Request) {
	resp, err := h.visitsResponse(r.Context())
	if err != nil {
		h.logger.Error("Failed to list visits", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("failed to list visits"))
		return
	}
	writeJSON(w, http.StatusOK, Ok(resp))
}

// AddVisit POST /shousai/visits
// 校验失败返回 400 + 错误提示，列表不变；成功后返回重新渲染的全部行
func (h *RecordHandler) AddVisit(w http.ResponseWriter, r *http.Request) {
	var req visitRequest
	if _, err := readBodyJSON(r, maxBodyBytes, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid body"))
		return
	}
	notice, err := h.ctrl.AddVisit(r.Context(), domain.VisitEntry{
		Date:  req.Date,
		Staff: req.Staff,
		Type:  req.Type,
		Note:  req.Note,
	})
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, service.ErrVisitValidation) {
			status = http.StatusBadRequest
		}
		writeJSON(w, status, WithNotice[any](notice, nil))
		return
	}
	resp, err := h.visitsResponse(r.Context())
	if err != nil {
		h.logger.Error("Failed to render visits", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("failed to render visits"))
		return
	}
	writeJSON(w, http.StatusOK, WithNotice(notice, resp))
}

// Save POST /shousai/save
// body 可携带五个文本区域的最新内容；每次调用只返回一个提示
func (h *RecordHandler) Save(w http.ResponseWriter, r *http.Request) {
	var forms map[string]string
	provided, err := readBodyJSON(r, maxBodyBytes, &forms)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid body"))
		return
	}
	if provided {
		for _, name := range domain.FormNames {
			if text, ok := forms[name]; ok {
				_ = h.ctrl.SetForm(name, text)
			}
		}
	}

	notice, err := h.ctrl.Save(r.Context())
	if errors.Is(err, service.ErrSaveInFlight) {
		writeJSON(w, http.StatusConflict, WithNotice[any](notice, nil))
		return
	}
	writeJSON(w, http.StatusOK, WithNotice[any](notice, nil))
}

// Export GET /shousai/exports/{file}
// 临时引用只在本次写出期间有效，写出失败也会释放
func (h *RecordHandler) Export(w http.ResponseWriter, r *http.Request) {
	file := chi.URLParam(r, "file")

	var (
		artifact export.Artifact
		err      error
	)
	switch file {
	case export.VisitsCSVFilename:
		artifact, err = h.ctrl.ExportVisitsCSV(r.Context())
	case export.VisitsXLSXFilename:
		artifact, err = h.ctrl.ExportVisitsXLSX(r.Context())
	case export.AssessmentCSVFilename:
		artifact = h.ctrl.ExportAssessmentCSV()
	case export.AssessmentXLSXFilename:
		artifact, err = h.ctrl.ExportAssessmentXLSX()
	default:
		http.NotFound(w, r)
		return
	}
	if err != nil {
		h.logger.Error("Failed to build export", zap.String("file", file), zap.Error(err))
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}

	err = export.Scoped(h.downloads, artifact, func(ref string) error {
		a, err := h.downloads.Resolve(ref)
		if err != nil {
			return err
		}
		return writeArtifact(w, a)
	})
	if err != nil {
		h.logger.Warn("Export delivery failed", zap.String("file", file), zap.Error(err))
		return
	}
	if h.metrics != nil {
		h.metrics.Exports.WithLabelValues(file).Inc()
	}
}

func (h *RecordHandler) visitsResponse(ctx context.Context) (visitsResponse, error) {
	visits, err := h.ctrl.Visits(ctx)
	if err != nil {
		return visitsResponse{}, err
	}
	rows, err := renderVisitRows(visits)
	if err != nil {
		return visitsResponse{}, err
	}
	return visitsResponse{Visits: visits, RowsHTML: rows}, nil
}

func writeArtifact(w http.ResponseWriter, a export.Artifact) error {
	contentType := a.MIMEType
	if contentType == export.MIMECSV {
		contentType += "; charset=utf-8"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+a.Filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(a.Body)))
	_, err := w.Write(a.Body)
	return err
}
