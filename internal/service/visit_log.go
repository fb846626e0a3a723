package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/UMEZAWADAN/SD-5/internal/domain"
	"github.com/UMEZAWADAN/SD-5/internal/metrics"
	"github.com/UMEZAWADAN/SD-5/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrVisitValidation 日期或内容为空
var ErrVisitValidation = errors.New("visit date and note are required")

// VisitLog 访问记录：只追加，最新在前
type VisitLog struct {
	repo    repository.VisitsRepository
	logger  *zap.Logger
	metrics *metrics.Metrics
}

func NewVisitLog(repo repository.VisitsRepository, logger *zap.Logger, m *metrics.Metrics) *VisitLog {
	return &VisitLog{repo: repo, logger: logger, metrics: m}
}

// Add 校验失败时返回 ErrVisitValidation 与错误提示，不写入任何数据
func (l *VisitLog) Add(ctx context.Context, entry domain.VisitEntry) (domain.Notice, error) {
	if strings.TrimSpace(entry.Date) == "" || strings.TrimSpace(entry.Note) == "" {
		l.count("invalid")
		return domain.Notice{Type: domain.NoticeError, Message: domain.MsgVisitValidation}, ErrVisitValidation
	}
	if entry.VisitID == "" {
		entry.VisitID = uuid.NewString()
	}
	if err := l.repo.PrependVisit(ctx, &entry); err != nil {
		l.count("error")
		l.logger.Error("Failed to add visit", zap.String("person_id", entry.PersonID), zap.Error(err))
		return domain.Notice{Type: domain.NoticeError, Message: "訪問記録の追加に失敗しました"}, fmt.Errorf("add visit: %w", err)
	}
	l.count("ok")
	l.logger.Info("Visit added",
		zap.String("person_id", entry.PersonID),
		zap.String("visit_id", entry.VisitID),
		zap.String("date", entry.Date),
	)
	return domain.Notice{Type: domain.NoticeSuccess, Message: "訪問記録を追加しました"}, nil
}

// List 最新在前
func (l *VisitLog) List(ctx context.Context, personID string) ([]domain.VisitEntry, error) {
	return l.repo.ListVisits(ctx, personID)
}

func (l *VisitLog) count(outcome string) {
	if l.metrics != nil {
		l.metrics.VisitsAdded.WithLabelValues(outcome).Inc()
	}
}
