// Package record 対象者詳細ページの应用状态
// 所有可变状态集中在 Controller 中，HTTP handler 只通过它读写
package record

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/UMEZAWADAN/SD-5/internal/assessment"
	"github.com/UMEZAWADAN/SD-5/internal/domain"
	"github.com/UMEZAWADAN/SD-5/internal/export"
	"github.com/UMEZAWADAN/SD-5/internal/tabs"

	"go.uber.org/zap"
)

var (
	ErrUnknownForm       = errors.New("unknown form")
	ErrItemOutOfRange    = errors.New("assessment item index out of range")
	ErrVisitsUnavailable = errors.New("visit log unavailable")
)

// VisitLog 访问记录存取
type VisitLog interface {
	Add(ctx context.Context, entry domain.VisitEntry) (domain.Notice, error)
	List(ctx context.Context, personID string) ([]domain.VisitEntry, error)
}

// Dispatcher 保存请求
type Dispatcher interface {
	Dispatch(ctx context.Context, personID string, forms domain.AssessmentForms) (domain.Notice, error)
	State() domain.SaveState
}

// State 页面渲染所需的全部状态快照
type State struct {
	Person    domain.Person
	Forms     domain.AssessmentForms
	Scores    []int
	Result    domain.AssessmentResult
	Fields    []assessment.ScoreField
	Controls  []tabs.Control
	Panels    []tabs.Panel
	Visits    []domain.VisitEntry
	SaveState domain.SaveState
}

type Controller struct {
	person     domain.Person
	tabs       *tabs.Controller
	visits     VisitLog
	dispatcher Dispatcher
	logger     *zap.Logger

	mu     sync.Mutex
	forms  domain.AssessmentForms
	scores [domain.AssessmentItemCount]int
}

func NewController(person domain.Person, tc *tabs.Controller, visits VisitLog, dispatcher Dispatcher, logger *zap.Logger) *Controller {
	return &Controller{
		person:     person,
		tabs:       tc,
		visits:     visits,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

func (c *Controller) Person() domain.Person { return c.person }

// Snapshot 读取当前状态
func (c *Controller) Snapshot(ctx context.Context) (State, error) {
	visits, err := c.visits.List(ctx, c.person.PersonID)
	if err != nil {
		return State{}, fmt.Errorf("%w: %v", ErrVisitsUnavailable, err)
	}

	c.mu.Lock()
	forms := c.forms
	scores := c.scoresLocked()
	c.mu.Unlock()

	controls, panels := c.tabs.View()
	return State{
		Person:    c.person,
		Forms:     forms,
		Scores:    scores,
		Result:    assessment.Aggregate(scores),
		Fields:    assessment.Fields(scores),
		Controls:  controls,
		Panels:    panels,
		Visits:    visits,
		SaveState: c.dispatcher.State(),
	}, nil
}

// SetForm 写入五个文本区域之一
func (c *Controller) SetForm(name, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.forms.Set(name, text) {
		return fmt.Errorf("%w: %q", ErrUnknownForm, name)
	}
	return nil
}

// Forms 当前文本区域内容
func (c *Controller) Forms() domain.AssessmentForms {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.forms
}

// SetScore 任一项变化后立即重新合计；raw 无法解析时按 0
func (c *Controller) SetScore(index int, raw string) (domain.AssessmentResult, error) {
	if index < 1 || index > domain.AssessmentItemCount {
		return domain.AssessmentResult{}, fmt.Errorf("%w: %d", ErrItemOutOfRange, index)
	}
	c.mu.Lock()
	c.scores[index-1] = assessment.ParseScore(raw)
	scores := c.scoresLocked()
	c.mu.Unlock()
	return assessment.Aggregate(scores), nil
}

// Result 当前合计与分级
func (c *Controller) Result() domain.AssessmentResult {
	c.mu.Lock()
	scores := c.scoresLocked()
	c.mu.Unlock()
	return assessment.Aggregate(scores)
}

// ActivateTab 切换标签
func (c *Controller) ActivateTab(key string) error {
	return c.tabs.Activate(key)
}

// AddVisit 追加访问记录；person_id 固定为当前对象者
func (c *Controller) AddVisit(ctx context.Context, entry domain.VisitEntry) (domain.Notice, error) {
	entry.PersonID = c.person.PersonID
	return c.visits.Add(ctx, entry)
}

// Visits 最新在前
func (c *Controller) Visits(ctx context.Context) ([]domain.VisitEntry, error) {
	return c.visits.List(ctx, c.person.PersonID)
}

// Save まとめて保存：锁外发送请求
func (c *Controller) Save(ctx context.Context) (domain.Notice, error) {
	return c.dispatcher.Dispatch(ctx, c.person.PersonID, c.Forms())
}

// ExportVisitsCSV visit_records.csv
func (c *Controller) ExportVisitsCSV(ctx context.Context) (export.Artifact, error) {
	visits, err := c.Visits(ctx)
	if err != nil {
		return export.Artifact{}, err
	}
	return export.VisitsCSVArtifact(visits), nil
}

// ExportVisitsXLSX visit_records.xlsx
func (c *Controller) ExportVisitsXLSX(ctx context.Context) (export.Artifact, error) {
	visits, err := c.Visits(ctx)
	if err != nil {
		return export.Artifact{}, err
	}
	return export.VisitsXLSX(visits)
}

// ExportAssessmentCSV dasc21.csv
func (c *Controller) ExportAssessmentCSV() export.Artifact {
	c.mu.Lock()
	scores := c.scoresLocked()
	c.mu.Unlock()
	return export.AssessmentCSVArtifact(scores, assessment.Aggregate(scores))
}

// ExportAssessmentXLSX dasc21.xlsx
func (c *Controller) ExportAssessmentXLSX() (export.Artifact, error) {
	c.mu.Lock()
	scores := c.scoresLocked()
	c.mu.Unlock()
	return export.AssessmentXLSX(assessment.ItemLabels[:], scores, assessment.Aggregate(scores))
}

func (c *Controller) scoresLocked() []int {
	out := make([]int, len(c.scores))
	copy(out, c.scores[:])
	return out
}
