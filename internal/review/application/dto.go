package application

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/wyfcoding/merchantrisk/internal/review/domain"
)

// QueueEntry 审核队列条目 DTO
type QueueEntry struct {
	MerchantDescription string          `json:"merchant_description"`
	RiskScore           decimal.Decimal `json:"risk_score"`
	ReasonCodes         string          `json:"reason_codes"`
	WeekStartDate       time.Time       `json:"week_start_date"`
	LatestStatus        string          `json:"latest_status,omitempty"`
}

// SubmitReviewCommand 审核提交命令。
// 风险评分与周起始日由服务端从队列条目复制，不接受客户端提交；
// Reviewer 来自已认证身份，同样不接受客户端提交。
type SubmitReviewCommand struct {
	MerchantDescription string
	Status              string
	Notes               string
	Reviewer            string
}

// SubmitReviewResult 审核提交结果 DTO
type SubmitReviewResult struct {
	MerchantDescription string          `json:"merchant_description"`
	WeekStartDate       time.Time       `json:"week_start_date"`
	Status              domain.Status   `json:"status"`
	Reviewer            string          `json:"reviewer"`
	RiskScore           decimal.Decimal `json:"risk_score"`
	ReviewDate          time.Time       `json:"review_date"`
}

func toQueueEntry(c domain.QueueCandidate) QueueEntry {
	entry := QueueEntry{
		MerchantDescription: c.MerchantDescription,
		RiskScore:           c.RiskScore,
		ReasonCodes:         c.ReasonCodes,
		WeekStartDate:       c.WeekStartDate,
	}
	if c.LatestReview != nil {
		entry.LatestStatus = string(c.LatestReview.Status)
	}
	return entry
}
