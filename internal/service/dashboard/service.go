package dashboard

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/oakfield/care-api/internal/model"
	"github.com/oakfield/care-api/internal/repository"
)

const statsCacheKey = "dashboard:stats"

type DashboardService interface {
	Stats(ctx context.Context) (*model.DashboardStats, error)
}

// Service answers the headline counters. The counts are cheap but the
// dashboard polls them, so results are cached briefly.
type Service struct {
	repo  repository.DashboardRepository
	cache *gocache.Cache
}

func NewService(repo repository.DashboardRepository, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &Service{
		repo:  repo,
		cache: gocache.New(ttl, 2*ttl),
	}
}

func (s *Service) Stats(ctx context.Context) (*model.DashboardStats, error) {
	if cached, ok := s.cache.Get(statsCacheKey); ok {
		return cached.(*model.DashboardStats), nil
	}

	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.SetDefault(statsCacheKey, stats)
	return stats, nil
}
