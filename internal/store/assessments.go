package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/UMEZAWADAN/SD-5/internal/domain"
)

// SavedAssessment 一次"まとめて保存"的内容
type SavedAssessment struct {
	SaveID   string                 `json:"save_id"`
	PersonID string                 `json:"person_id"`
	Forms    domain.AssessmentForms `json:"forms"`
	SavedAt  time.Time              `json:"saved_at"`
}

// AssessmentStore 每个对象者只保留最新一份
type AssessmentStore struct {
	kv     KV
	prefix string
}

func NewAssessmentStore(kv KV, prefix string) *AssessmentStore {
	if prefix == "" {
		prefix = "care-record:assessment:"
	}
	return &AssessmentStore{kv: kv, prefix: prefix}
}

func (s *AssessmentStore) key(personID string) string {
	return s.prefix + personID + ":latest"
}

// SaveLatest 覆盖写入
func (s *AssessmentStore) SaveLatest(ctx context.Context, saved SavedAssessment) error {
	body, err := json.Marshal(saved)
	if err != nil {
		return fmt.Errorf("failed to marshal assessment: %w", err)
	}
	if err := s.kv.Set(ctx, s.key(saved.PersonID), string(body), 0); err != nil {
		return fmt.Errorf("failed to store assessment: %w", err)
	}
	return nil
}

// Latest 未保存过时返回 ErrMiss
func (s *AssessmentStore) Latest(ctx context.Context, personID string) (*SavedAssessment, error) {
	raw, err := s.kv.Get(ctx, s.key(personID))
	if err != nil {
		return nil, err
	}
	var saved SavedAssessment
	if err := json.Unmarshal([]byte(raw), &saved); err != nil {
		return nil, fmt.Errorf("failed to unmarshal assessment: %w", err)
	}
	return &saved, nil
}
