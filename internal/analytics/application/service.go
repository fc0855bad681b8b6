// Package application 实现周度分析查询，带有限时缓存与手动失效。
package application

import (
	"context"
	"time"

	"github.com/wyfcoding/merchantrisk/internal/analytics/domain"
	"github.com/wyfcoding/merchantrisk/pkg/cache"
	"github.com/wyfcoding/merchantrisk/pkg/logger"
	"github.com/wyfcoding/merchantrisk/pkg/metrics"
)

// WeeklyMemoKey 周度分析缓存键
const WeeklyMemoKey = "analytics:weekly"

// AnalyticsService 周度审核分析读服务
type AnalyticsService struct {
	repo    domain.AnalyticsRepository
	store   cache.Store
	metrics *metrics.Metrics
	ttl     time.Duration
}

// NewAnalyticsService 创建分析服务。ttl 为缓存新鲜度预算（可接受的最大陈旧度）。
func NewAnalyticsService(repo domain.AnalyticsRepository, store cache.Store, m *metrics.Metrics, ttl time.Duration) *AnalyticsService {
	return &AnalyticsService{repo: repo, store: store, metrics: m, ttl: ttl}
}

// LoadWeeklyAnalytics 返回按 (周, 状态) 分组的审核计数，周降序、状态升序。
// 结果在 TTL 内复用；审核提交会通过 InvalidateMemo 立即失效。
// 查询失败原样上抛，不降级返回旧数据。
func (s *AnalyticsService) LoadWeeklyAnalytics(ctx context.Context) ([]domain.WeeklyStatusCount, error) {
	var counts []domain.WeeklyStatusCount
	hit, err := s.store.GetJSON(ctx, WeeklyMemoKey, &counts)
	if err != nil {
		logger.Warn(ctx, "Analytics memo read failed, falling back to query", "error", err)
	}
	if hit {
		if s.metrics != nil {
			s.metrics.CacheHitsTotal.WithLabelValues(WeeklyMemoKey).Inc()
		}
		return counts, nil
	}
	if s.metrics != nil {
		s.metrics.CacheMissesTotal.WithLabelValues(WeeklyMemoKey).Inc()
	}

	counts, err = s.repo.LoadWeeklyCounts(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.store.SetJSON(ctx, WeeklyMemoKey, counts, s.ttl); err != nil {
		logger.Warn(ctx, "Analytics memo write failed", "error", err)
	}
	return counts, nil
}

// InvalidateMemo 立即失效周度分析缓存，由审核提交路径同步调用
func (s *AnalyticsService) InvalidateMemo(ctx context.Context) error {
	return s.store.Delete(ctx, WeeklyMemoKey)
}
