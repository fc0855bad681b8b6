package domain

import "context"

// ReviewRepository 审核状态表的持久化接口。
// 写路径由本模块独占；读路径与分析模块共享同一张表。
type ReviewRepository interface {
	// ListHighRiskCandidates 返回全部高风险记录，并左联每个商户的最新审核。
	// 过滤与排序之外的队列资格判定由 QueueCandidate.NeedsReview 完成。
	ListHighRiskCandidates(ctx context.Context) ([]QueueCandidate, error)

	// UpsertReview 以 (merchant_description, week_start_date) 为键原子地插入或更新。
	// 冲突时仅更新 status/notes/reviewer/review_date，risk_score 保留首次写入值。
	UpsertReview(ctx context.Context, review *MerchantReviewStatus) error
}
