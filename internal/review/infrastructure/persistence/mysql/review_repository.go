// Package mysql 提供了审核状态仓储接口的 MySQL GORM 实现。
package mysql

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/wyfcoding/merchantrisk/internal/review/domain"
	"github.com/wyfcoding/merchantrisk/pkg/logger"
)

type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository 创建 domain.ReviewRepository 的 GORM 实现
func NewReviewRepository(db *gorm.DB) domain.ReviewRepository {
	return &reviewRepository{db: db}
}

// candidateRow 队列查询的扫描目标，最新审核字段在从未审核时为 NULL
type candidateRow struct {
	MerchantDescription string
	RiskScore           decimal.Decimal
	ReasonCodes         string
	WeekStartDate       time.Time
	HighRiskFlag        bool
	LatestStatus        *string
	LatestReviewDate    *time.Time
}

// 最新审核按 review_date 倒序取第一条；review_date 相同时按自增 id 倒序，
// 使后插入的行确定性地胜出。联接只按 merchant_description，不按周：
// 商户当前的风险记录匹配其最近一次审核，无论该审核针对哪一周。
const listCandidatesSQL = `
SELECT
    s.merchant_description,
    s.risk_score,
    s.reason_codes,
    s.week_start_date,
    s.high_risk_flag,
    r.status AS latest_status,
    r.review_date AS latest_review_date
FROM merchant_risk_scores s
LEFT JOIN (
    SELECT merchant_description, status, review_date
    FROM (
        SELECT merchant_description, status, review_date,
               ROW_NUMBER() OVER (
                   PARTITION BY merchant_description
                   ORDER BY review_date DESC, id DESC
               ) AS rn
        FROM merchant_review_status
    ) ranked
    WHERE rn = 1
) r ON r.merchant_description = s.merchant_description
WHERE s.high_risk_flag = TRUE
ORDER BY s.risk_score DESC`

// ListHighRiskCandidates 实现 domain.ReviewRepository.ListHighRiskCandidates
func (r *reviewRepository) ListHighRiskCandidates(ctx context.Context) ([]domain.QueueCandidate, error) {
	var rows []candidateRow
	if err := r.db.WithContext(ctx).Raw(listCandidatesSQL).Scan(&rows).Error; err != nil {
		logger.Error(ctx, "Failed to list high risk candidates", "error", err)
		return nil, err
	}

	candidates := make([]domain.QueueCandidate, len(rows))
	for i, row := range rows {
		candidate := domain.QueueCandidate{
			MerchantDescription: row.MerchantDescription,
			RiskScore:           row.RiskScore,
			ReasonCodes:         row.ReasonCodes,
			WeekStartDate:       row.WeekStartDate,
			HighRiskFlag:        row.HighRiskFlag,
		}
		if row.LatestStatus != nil && row.LatestReviewDate != nil {
			candidate.LatestReview = &domain.LatestReview{
				Status:     domain.Status(*row.LatestStatus),
				ReviewDate: *row.LatestReviewDate,
			}
		}
		candidates[i] = candidate
	}
	return candidates, nil
}

// UpsertReview 实现 domain.ReviewRepository.UpsertReview。
// 使用 clause.OnConflict 保证插入或更新是单条原子语句；
// 冲突时不更新 risk_score，保留首次审核时的快照值。
func (r *reviewRepository) UpsertReview(ctx context.Context, review *domain.MerchantReviewStatus) error {
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "merchant_description"},
			{Name: "week_start_date"},
		},
		DoUpdates: clause.AssignmentColumns([]string{"status", "notes", "reviewer", "review_date"}),
	}).Create(review).Error; err != nil {
		logger.Error(ctx, "Failed to upsert merchant review",
			"merchant", review.MerchantDescription,
			"week_start_date", review.WeekStartDate,
			"error", err,
		)
		return err
	}
	return nil
}
