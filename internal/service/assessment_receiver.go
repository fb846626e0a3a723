package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/UMEZAWADAN/SD-5/internal/domain"
	"github.com/UMEZAWADAN/SD-5/internal/metrics"
	"github.com/UMEZAWADAN/SD-5/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EventSink 保存事件去向（Redis stream）
type EventSink interface {
	Append(ctx context.Context, event any) error
}

// Publisher 保存通知去向（MQTT）
type Publisher interface {
	Publish(payload []byte) error
}

// SaveEvent 保存完成后广播的事件，不含表单正文
type SaveEvent struct {
	SaveID   string    `json:"save_id"`
	PersonID string    `json:"person_id"`
	SavedAt  time.Time `json:"saved_at"`
}

// AssessmentReceiver POST /api/save_all_assessments 的服务端
type AssessmentReceiver struct {
	store     *store.AssessmentStore
	events    EventSink // 可为 nil
	publisher Publisher // 可为 nil
	logger    *zap.Logger
	metrics   *metrics.Metrics
	now       func() time.Time
	marshal   func(v any) ([]byte, error)
}

func NewAssessmentReceiver(s *store.AssessmentStore, events EventSink, publisher Publisher, logger *zap.Logger, m *metrics.Metrics) *AssessmentReceiver {
	return &AssessmentReceiver{
		store:     s,
		events:    events,
		publisher: publisher,
		logger:    logger,
		metrics:   m,
		now:       time.Now,
		marshal:   json.Marshal,
	}
}

// Receive 保存失败返回 error；stream / MQTT 失败只记录日志
func (r *AssessmentReceiver) Receive(ctx context.Context, personID string, forms domain.AssessmentForms) (*store.SavedAssessment, error) {
	saved := store.SavedAssessment{
		SaveID:   uuid.NewString(),
		PersonID: personID,
		Forms:    forms,
		SavedAt:  r.now().UTC(),
	}
	if err := r.store.SaveLatest(ctx, saved); err != nil {
		r.count("error")
		r.logger.Error("Failed to store assessments", zap.String("person_id", personID), zap.Error(err))
		return nil, err
	}
	r.count("ok")

	event := SaveEvent{SaveID: saved.SaveID, PersonID: personID, SavedAt: saved.SavedAt}
	if r.events != nil {
		if err := r.events.Append(ctx, event); err != nil {
			r.logger.Warn("Failed to append save event", zap.String("save_id", saved.SaveID), zap.Error(err))
		}
	}
	if r.publisher != nil {
		if payload, err := r.marshal(event); err != nil {
			r.logger.Warn("Failed to encode save event", zap.String("save_id", saved.SaveID), zap.Error(err))
		} else if err := r.publisher.Publish(payload); err != nil {
			r.logger.Warn("Failed to publish save event", zap.String("save_id", saved.SaveID), zap.Error(err))
		}
	}

	r.logger.Info("Assessments saved", zap.String("person_id", personID), zap.String("save_id", saved.SaveID))
	return &saved, nil
}

// Latest 最近一次保存
func (r *AssessmentReceiver) Latest(ctx context.Context, personID string) (*store.SavedAssessment, error) {
	return r.store.Latest(ctx, personID)
}

func (r *AssessmentReceiver) count(outcome string) {
	if r.metrics != nil {
		r.metrics.SavesReceived.WithLabelValues(outcome).Inc()
	}
}
