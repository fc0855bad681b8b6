// Package mysql 提供了周度分析仓储接口的 MySQL GORM 实现。
package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/wyfcoding/merchantrisk/internal/analytics/domain"
	"github.com/wyfcoding/merchantrisk/pkg/logger"
)

type analyticsRepository struct {
	db *gorm.DB
}

// NewAnalyticsRepository 创建 domain.AnalyticsRepository 的 GORM 实现
func NewAnalyticsRepository(db *gorm.DB) domain.AnalyticsRepository {
	return &analyticsRepository{db: db}
}

// week_start_date 截断到所在周的周一（WEEKDAY 周一为 0）
const weeklyCountsSQL = `
SELECT
    DATE_SUB(DATE(week_start_date), INTERVAL WEEKDAY(week_start_date) DAY) AS review_week,
    status,
    COUNT(*) AS merchant_count
FROM merchant_review_status
GROUP BY review_week, status
ORDER BY review_week DESC, status ASC`

// LoadWeeklyCounts 实现 domain.AnalyticsRepository.LoadWeeklyCounts
func (r *analyticsRepository) LoadWeeklyCounts(ctx context.Context) ([]domain.WeeklyStatusCount, error) {
	var counts []domain.WeeklyStatusCount
	if err := r.db.WithContext(ctx).Raw(weeklyCountsSQL).Scan(&counts).Error; err != nil {
		logger.Error(ctx, "Failed to load weekly review counts", "error", err)
		return nil, err
	}
	return counts, nil
}
