package httpapi

import (
	"errors"
	"net/http"

	"github.com/UMEZAWADAN/SD-5/internal/domain"
	"github.com/UMEZAWADAN/SD-5/internal/service"
	"github.com/UMEZAWADAN/SD-5/internal/store"

	"go.uber.org/zap"
)

// SaveAPIHandler 保存接口：请求 {kihon,kiroku,shintai,dasc21,dbd13}，响应 {status}
type SaveAPIHandler struct {
	receiver        *service.AssessmentReceiver
	defaultPersonID string
	logger          *zap.Logger
}

func NewSaveAPIHandler(receiver *service.AssessmentReceiver, defaultPersonID string, logger *zap.Logger) *SaveAPIHandler {
	return &SaveAPIHandler{receiver: receiver, defaultPersonID: defaultPersonID, logger: logger}
}

type saveStatus struct {
	Status string `json:"status"`
}

func (h *SaveAPIHandler) personID(r *http.Request) string {
	if id := r.URL.Query().Get("person_id"); id != "" {
		return id
	}
	return h.defaultPersonID
}

// SaveAll POST /api/save_all_assessments
func (h *SaveAPIHandler) SaveAll(w http.ResponseWriter, r *http.Request) {
	var forms domain.AssessmentForms
	provided, err := readBodyJSON(r, maxBodyBytes, &forms)
	if err != nil {
		h.logger.Warn("Invalid save payload", zap.Error(err))
		writeJSON(w, http.StatusBadRequest, saveStatus{Status: "error"})
		return
	}
	// 空 body 不能覆盖已保存的内容
	if !provided {
		h.logger.Warn("Empty save payload")
		writeJSON(w, http.StatusBadRequest, saveStatus{Status: "error"})
		return
	}
	if _, err := h.receiver.Receive(r.Context(), h.personID(r), forms); err != nil {
		writeJSON(w, http.StatusInternalServerError, saveStatus{Status: "error"})
		return
	}
	writeJSON(w, http.StatusOK, saveStatus{Status: "ok"})
}

// Latest GET /api/assessments/latest?person_id=
func (h *SaveAPIHandler) Latest(w http.ResponseWriter, r *http.Request) {
	saved, err := h.receiver.Latest(r.Context(), h.personID(r))
	if err != nil {
		if errors.Is(err, store.ErrMiss) {
			writeJSON(w, http.StatusNotFound, Fail("no saved assessments"))
			return
		}
		h.logger.Error("Failed to load latest assessments", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("failed to load assessments"))
		return
	}
	writeJSON(w, http.StatusOK, Ok(saved))
}
