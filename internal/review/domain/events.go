package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// ReviewSubmittedEvent 审核提交成功后对外发布的事件
type ReviewSubmittedEvent struct {
	MerchantDescription string          `json:"merchant_description"`
	WeekStartDate       time.Time       `json:"week_start_date"`
	Status              Status          `json:"status"`
	Reviewer            string          `json:"reviewer"`
	RiskScore           decimal.Decimal `json:"risk_score"`
	ReviewDate          time.Time       `json:"review_date"`
}

// EventPublisher 审核事件发布接口
type EventPublisher interface {
	PublishReviewSubmitted(ctx context.Context, event ReviewSubmittedEvent) error
}
