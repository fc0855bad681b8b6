package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MerchantRiskScore 商户风险评分实体，由上游评分管道写入，本服务只读。
// 上游保证每个 (merchant_description, week_start_date) 至多一行。
type MerchantRiskScore struct {
	ID                  uint64          `gorm:"primaryKey;autoIncrement"`
	MerchantDescription string          `gorm:"column:merchant_description;type:varchar(255);index;not null"`
	RiskScore           decimal.Decimal `gorm:"column:risk_score;type:decimal(10,2);not null"`
	ReasonCodes         string          `gorm:"column:reason_codes;type:text"`
	WeekStartDate       time.Time       `gorm:"column:week_start_date;type:date;not null"`
	HighRiskFlag        bool            `gorm:"column:high_risk_flag;not null"`
}

func (MerchantRiskScore) TableName() string { return "merchant_risk_scores" }

// MerchantReviewStatus 商户审核状态实体，记录每个 (merchant, week) 的最新人工处置。
// 复合自然键上有唯一索引；重复审核同一键时原地覆盖，不保留历史。
// 自增 id 作为 review_date 相同时"最新审核"的确定性次序。
type MerchantReviewStatus struct {
	ID                  uint64          `gorm:"primaryKey;autoIncrement"`
	MerchantDescription string          `gorm:"column:merchant_description;type:varchar(255);not null;uniqueIndex:uk_merchant_week,priority:1"`
	WeekStartDate       time.Time       `gorm:"column:week_start_date;type:date;not null;uniqueIndex:uk_merchant_week,priority:2"`
	Status              string          `gorm:"column:status;type:varchar(32);not null"`
	Notes               string          `gorm:"column:notes;type:text"`
	Reviewer            string          `gorm:"column:reviewer;type:varchar(128);not null"`
	RiskScore           decimal.Decimal `gorm:"column:risk_score;type:decimal(10,2)"`
	ReviewDate          time.Time       `gorm:"column:review_date;not null;index"`
}

func (MerchantReviewStatus) TableName() string { return "merchant_review_status" }
