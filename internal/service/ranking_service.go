package service

import (
	"context"
	"sync"
	"time"

	"github.com/merial523/graduate-git/internal/config"
	"github.com/merial523/graduate-git/internal/model"
	"github.com/merial523/graduate-git/internal/repository"
	"github.com/merial523/graduate-git/pkg/cache"
	"github.com/merial523/graduate-git/pkg/logger"
	"github.com/merial523/graduate-git/pkg/monitoring"
	"go.uber.org/zap"
)

const RankingCacheKey = "badge_ranking_list"

type RankingService struct {
	BadgeRepo *repository.BadgeRepository
	Cache     cache.Cache

	mu    sync.RWMutex
	ttl   time.Duration
	limit int
}

func NewRankingService(badgeRepo *repository.BadgeRepository, c cache.Cache, cfg config.RankingConfig) *RankingService {
	s := &RankingService{BadgeRepo: badgeRepo, Cache: c}
	s.Configure(cfg)
	return s
}

// Configure 配置热更新时调用，已缓存的结果保留到原 TTL
func (s *RankingService) Configure(cfg config.RankingConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ttl = cfg.TTL()
	s.limit = cfg.Limit
	if s.limit <= 0 {
		s.limit = 3
	}
}

func (s *RankingService) settings() (time.Duration, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ttl, s.limit
}

// Ranking 缓存读写失败时退回数据库查询
func (s *RankingService) Ranking(ctx context.Context) ([]model.BadgeRankingEntry, error) {
	ttl, limit := s.settings()

	var cached []model.BadgeRankingEntry
	hit, err := s.Cache.Get(ctx, RankingCacheKey, &cached)
	if err != nil {
		logger.Log.Warn("Ranking cache read failed", zap.Error(err))
	}
	if hit {
		monitoring.CacheLookups.WithLabelValues(RankingCacheKey, "hit").Inc()
		return cached, nil
	}
	monitoring.CacheLookups.WithLabelValues(RankingCacheKey, "miss").Inc()

	ranking, err := s.BadgeRepo.Ranking(ctx, limit)
	if err != nil {
		return nil, err
	}
	if ranking == nil {
		ranking = []model.BadgeRankingEntry{}
	}
	if err := s.Cache.Set(ctx, RankingCacheKey, ranking, ttl); err != nil {
		logger.Log.Warn("Ranking cache write failed", zap.Error(err))
	}
	return ranking, nil
}

// Invalidate 下次读取时重新计算
func (s *RankingService) Invalidate(ctx context.Context) {
	if err := s.Cache.Delete(ctx, RankingCacheKey); err != nil {
		logger.Log.Warn("Ranking cache delete failed", zap.Error(err))
	}
}
