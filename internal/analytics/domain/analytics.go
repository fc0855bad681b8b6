// Package domain 定义周度审核分析的读模型。
package domain

import (
	"context"
	"time"
)

// WeeklyStatusCount 一周内某处置结果的审核行数
type WeeklyStatusCount struct {
	ReviewWeek    time.Time `json:"review_week"`
	Status        string    `json:"status"`
	MerchantCount int64     `json:"merchant_count"`
}

// AnalyticsRepository 周度统计的查询接口，与审核模块共享同一张状态表（只读）
type AnalyticsRepository interface {
	// LoadWeeklyCounts 将 week_start_date 截断到周，按 (周, 状态) 分组计数，
	// 周降序、状态升序返回。
	LoadWeeklyCounts(ctx context.Context) ([]WeeklyStatusCount, error)
}
