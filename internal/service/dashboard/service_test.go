package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakfield/care-api/internal/model"
)

type countingRepo struct {
	calls int
	stats model.DashboardStats
}

func (r *countingRepo) Stats(ctx context.Context) (*model.DashboardStats, error) {
	r.calls++
	s := r.stats
	return &s, nil
}

func TestStatsAreCached(t *testing.T) {
	repo := &countingRepo{stats: model.DashboardStats{
		TotalPatients:     12,
		PendingTasks:      7,
		ActiveMedications: 31,
		LogsToday:         4,
	}}
	svc := NewService(repo, time.Minute)
	ctx := context.Background()

	first, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 12, first.TotalPatients)
	assert.Equal(t, 7, first.PendingTasks)

	second, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, repo.calls)
}
