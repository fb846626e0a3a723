package repository

import (
	"context"

	"github.com/UMEZAWADAN/SD-5/internal/domain"
)

// VisitsRepository 访问记录 Repository 接口
// 只有追加与列表；列表顺序为最新在前
type VisitsRepository interface {
	// PrependVisit 追加一条记录，成为列表第一条
	PrependVisit(ctx context.Context, visit *domain.VisitEntry) error

	// ListVisits 按最新在前返回某对象者的全部记录
	ListVisits(ctx context.Context, personID string) ([]domain.VisitEntry, error)
}
