package repository

import (
	"context"
	"sync"

	"github.com/UMEZAWADAN/SD-5/internal/domain"
)

// MemoryVisitsRepo DB 未启用时使用；按 person_id 隔离
type MemoryVisitsRepo struct {
	mu     sync.RWMutex
	visits map[string][]domain.VisitEntry // personID -> newest first
}

func NewMemoryVisitsRepo() *MemoryVisitsRepo {
	return &MemoryVisitsRepo{visits: map[string][]domain.VisitEntry{}}
}

var _ VisitsRepository = (*MemoryVisitsRepo)(nil)

func (r *MemoryVisitsRepo) PrependVisit(_ context.Context, visit *domain.VisitEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	list := r.visits[visit.PersonID]
	next := make([]domain.VisitEntry, 0, len(list)+1)
	next = append(next, *visit)
	next = append(next, list...)
	r.visits[visit.PersonID] = next
	return nil
}

func (r *MemoryVisitsRepo) ListVisits(_ context.Context, personID string) ([]domain.VisitEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := r.visits[personID]
	out := make([]domain.VisitEntry, len(list))
	copy(out, list)
	return out, nil
}
