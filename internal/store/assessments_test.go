package store

import (
	"context"
	"testing"
	"time"

	"github.com/UMEZAWADAN/SD-5/internal/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *AssessmentStore) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, NewAssessmentStore(NewRedisKV(client), "")
}

func TestAssessmentStore_SaveAndLoad(t *testing.T) {
	mr, s := setupTestRedis(t)
	ctx := context.Background()

	saved := SavedAssessment{
		SaveID:   "s-1",
		PersonID: "p-1",
		Forms:    domain.AssessmentForms{Kihon: "基本", Dbd13: "dbd"},
		SavedAt:  time.Date(2025, 10, 21, 10, 0, 0, 0, time.UTC),
	}
	require.NoError(t, s.SaveLatest(ctx, saved))
	assert.True(t, mr.Exists("care-record:assessment:p-1:latest"))

	got, err := s.Latest(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, saved, *got)
}

func TestAssessmentStore_OverwritesLatest(t *testing.T) {
	_, s := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, s.SaveLatest(ctx, SavedAssessment{SaveID: "s-1", PersonID: "p-1"}))
	require.NoError(t, s.SaveLatest(ctx, SavedAssessment{SaveID: "s-2", PersonID: "p-1"}))

	got, err := s.Latest(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, "s-2", got.SaveID)
}

func TestAssessmentStore_Miss(t *testing.T) {
	_, s := setupTestRedis(t)
	_, err := s.Latest(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestMemoryKV_BacksAssessmentStore(t *testing.T) {
	ctx := context.Background()
	s := NewAssessmentStore(NewMemoryKV(), "")

	_, err := s.Latest(ctx, "p-1")
	require.ErrorIs(t, err, ErrMiss)

	saved := SavedAssessment{SaveID: "s-1", PersonID: "p-1", Forms: domain.AssessmentForms{Shintai: "良好"}}
	require.NoError(t, s.SaveLatest(ctx, saved))

	got, err := s.Latest(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, "良好", got.Forms.Shintai)
}
