package domain

import "time"

// VisitEntry 访问记录（对应 visits 表）
// 新记录插在列表最前面，创建后不修改、不删除
type VisitEntry struct {
	VisitID   string    `json:"visit_id" db:"visit_id"`
	PersonID  string    `json:"person_id" db:"person_id"`
	Date      string    `json:"date" db:"visit_date"`
	Staff     string    `json:"staff" db:"staff"`
	Type      string    `json:"type" db:"visit_type"`
	Note      string    `json:"note" db:"note"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
