package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/UMEZAWADAN/SD-5/internal/domain"
	"github.com/UMEZAWADAN/SD-5/internal/metrics"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

var (
	ErrSaveInFlight = errors.New("save already in flight")
	ErrSaveFailed   = errors.New("save failed")
)

// SaveResponse 保存接口响应，status == "ok" 为成功
type SaveResponse struct {
	Status string `json:"status"`
}

// SaveDispatcher 把五个文本区域打包为一个 JSON 请求发给保存接口
// 单次请求，不重试；失败需用户再次触发
type SaveDispatcher struct {
	httpClient *resty.Client
	endpoint   string
	logger     *zap.Logger
	metrics    *metrics.Metrics

	mu    sync.Mutex
	state domain.SaveState
}

func NewSaveDispatcher(endpoint string, timeout time.Duration, logger *zap.Logger, m *metrics.Metrics) *SaveDispatcher {
	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &SaveDispatcher{
		httpClient: client,
		endpoint:   endpoint,
		logger:     logger,
		metrics:    m,
		state:      domain.SaveIdle,
	}
}

// State 当前请求状态
func (d *SaveDispatcher) State() domain.SaveState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Dispatch 每次调用恰好返回一个提示
// 已有请求未完成时不发送，返回 ErrSaveInFlight
func (d *SaveDispatcher) Dispatch(ctx context.Context, personID string, forms domain.AssessmentForms) (domain.Notice, error) {
	d.mu.Lock()
	if d.state == domain.SavePending {
		d.mu.Unlock()
		d.count("in_flight")
		return domain.Notice{Type: domain.NoticeWarning, Message: domain.MsgSaveInFlight}, ErrSaveInFlight
	}
	d.state = domain.SavePending
	d.mu.Unlock()

	err := d.post(ctx, personID, forms)

	d.mu.Lock()
	if err != nil {
		d.state = domain.SaveFailed
	} else {
		d.state = domain.SaveSuccess
	}
	d.mu.Unlock()

	if err != nil {
		d.count("failed")
		d.logger.Warn("Save dispatch failed", zap.String("person_id", personID), zap.Error(err))
		return domain.Notice{Type: domain.NoticeError, Message: domain.MsgSaveFailed}, err
	}
	d.count("ok")
	d.logger.Info("Save dispatch succeeded", zap.String("person_id", personID))
	return domain.Notice{Type: domain.NoticeSuccess, Message: domain.MsgSaveOK}, nil
}

func (d *SaveDispatcher) post(ctx context.Context, personID string, forms domain.AssessmentForms) error {
	req := d.httpClient.R().
		SetContext(ctx).
		SetBody(forms)
	if personID != "" {
		req.SetQueryParam("person_id", personID)
	}

	resp, err := req.Post(d.endpoint)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSaveFailed, err)
	}

	var result SaveResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return fmt.Errorf("%w: invalid response (http %d): %v", ErrSaveFailed, resp.StatusCode(), err)
	}
	if result.Status != "ok" {
		return fmt.Errorf("%w: status %q (http %d)", ErrSaveFailed, result.Status, resp.StatusCode())
	}
	return nil
}

func (d *SaveDispatcher) count(outcome string) {
	if d.metrics != nil {
		d.metrics.SaveDispatches.WithLabelValues(outcome).Inc()
	}
}
