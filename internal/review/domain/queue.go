package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ClearanceWindow 良性处置的有效期。超过该窗口的良性审核视为过期，商户重新入队。
const ClearanceWindow = 90 * 24 * time.Hour

// LatestReview 商户的最新一次审核（跨周，按 review_date 倒序、id 倒序取第一条）
type LatestReview struct {
	Status     Status    `json:"status"`
	ReviewDate time.Time `json:"review_date"`
}

// QueueCandidate 审核队列候选：一条当前风险记录与该商户最新审核的并联
type QueueCandidate struct {
	MerchantDescription string          `json:"merchant_description"`
	RiskScore           decimal.Decimal `json:"risk_score"`
	ReasonCodes         string          `json:"reason_codes"`
	WeekStartDate       time.Time       `json:"week_start_date"`
	HighRiskFlag        bool            `json:"high_risk_flag"`
	LatestReview        *LatestReview   `json:"latest_review,omitempty"`
}

// NeedsReview 判断候选是否需要进入审核队列：
//   - 未被标记为高风险的商户永不入队；
//   - 从未审核过的入队；
//   - 最新审核为良性且 review_date 距今已满 90 天的入队（清白过期）；
//   - 最新审核为待调查的入队；
//   - 最新审核为已封禁的永不入队，封禁在本契约内没有解除路径。
func (c QueueCandidate) NeedsReview(now time.Time) bool {
	if !c.HighRiskFlag {
		return false
	}
	if c.LatestReview == nil {
		return true
	}
	switch c.LatestReview.Status {
	case StatusBenign:
		cutoff := now.Add(-ClearanceWindow)
		return !c.LatestReview.ReviewDate.After(cutoff)
	case StatusPending:
		return true
	default:
		return false
	}
}
