// Package application 实现审核队列的查询与提交用例，并维护查询结果的缓存与失效。
package application

import (
	"context"
	"errors"
	"time"

	"github.com/wyfcoding/merchantrisk/internal/review/domain"
	"github.com/wyfcoding/merchantrisk/pkg/cache"
	"github.com/wyfcoding/merchantrisk/pkg/logger"
	"github.com/wyfcoding/merchantrisk/pkg/metrics"
)

// QueueMemoKey 审核队列缓存键。队列缓存不设 TTL，只在提交成功后失效。
const QueueMemoKey = "review:queue"

// ErrReviewerRequired 提交时无法解析审核人身份
var ErrReviewerRequired = errors.New("reviewer identity is required")

// MemoInvalidator 其他模块缓存的失效钩子，提交成功后被同步调用
type MemoInvalidator interface {
	InvalidateMemo(ctx context.Context) error
}

// ReviewService 审核队列引擎：队列查询 + 审核提交
type ReviewService struct {
	repo         domain.ReviewRepository
	store        cache.Store
	publisher    domain.EventPublisher
	metrics      *metrics.Metrics
	invalidators []MemoInvalidator
	now          func() time.Time
}

// NewReviewService 创建审核服务。now 为注入的时钟；publisher、m 允许为 nil；
// invalidators 为提交成功后需要同步失效的其他缓存。
func NewReviewService(
	repo domain.ReviewRepository,
	store cache.Store,
	publisher domain.EventPublisher,
	m *metrics.Metrics,
	now func() time.Time,
	invalidators ...MemoInvalidator,
) *ReviewService {
	return &ReviewService{
		repo:         repo,
		store:        store,
		publisher:    publisher,
		metrics:      m,
		invalidators: invalidators,
		now:          now,
	}
}

// LoadReviewQueue 返回当前等待人工处置的商户队列，按风险评分降序。
// 结果缓存至下一次提交成功；空队列是正常状态，返回空切片而非错误。
func (s *ReviewService) LoadReviewQueue(ctx context.Context) ([]QueueEntry, error) {
	var entries []QueueEntry
	hit, err := s.store.GetJSON(ctx, QueueMemoKey, &entries)
	if err != nil {
		logger.Warn(ctx, "Queue memo read failed, falling back to query", "error", err)
	}
	if hit {
		if s.metrics != nil {
			s.metrics.CacheHitsTotal.WithLabelValues(QueueMemoKey).Inc()
		}
		return entries, nil
	}
	if s.metrics != nil {
		s.metrics.CacheMissesTotal.WithLabelValues(QueueMemoKey).Inc()
	}

	candidates, err := s.repo.ListHighRiskCandidates(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	entries = make([]QueueEntry, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate.NeedsReview(now) {
			entries = append(entries, toQueueEntry(candidate))
		}
	}

	if s.metrics != nil {
		s.metrics.ReviewQueueDepth.Set(float64(len(entries)))
	}

	if err := s.store.SetJSON(ctx, QueueMemoKey, entries, 0); err != nil {
		logger.Warn(ctx, "Queue memo write failed", "error", err)
	}
	return entries, nil
}

// GetMerchantDetail 返回队列中指定商户的条目（详情面板）
func (s *ReviewService) GetMerchantDetail(ctx context.Context, merchant string) (*QueueEntry, error) {
	entries, err := s.LoadReviewQueue(ctx)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		if entries[i].MerchantDescription == merchant {
			return &entries[i], nil
		}
	}
	return nil, domain.ErrNotInQueue
}

// SubmitReview 记录一次人工处置：对 (merchant, week) 原子地插入或覆盖审核行。
// 校验失败不产生任何写入；写入成功后同步失效本模块与关联模块的缓存，
// 再发布审核事件（发布失败只记日志，不影响已提交的结果）。
func (s *ReviewService) SubmitReview(ctx context.Context, cmd SubmitReviewCommand) (*SubmitReviewResult, error) {
	status, err := domain.ParseStatus(cmd.Status)
	if err != nil {
		return nil, err
	}
	if cmd.Reviewer == "" {
		return nil, ErrReviewerRequired
	}

	entry, err := s.GetMerchantDetail(ctx, cmd.MerchantDescription)
	if err != nil {
		return nil, err
	}

	now := s.now()
	review := &domain.MerchantReviewStatus{
		MerchantDescription: entry.MerchantDescription,
		WeekStartDate:       entry.WeekStartDate,
		Status:              string(status),
		Notes:               cmd.Notes,
		Reviewer:            cmd.Reviewer,
		RiskScore:           entry.RiskScore,
		ReviewDate:          now,
	}

	if err := s.repo.UpsertReview(ctx, review); err != nil {
		return nil, err
	}

	s.invalidateMemos(ctx)

	if s.metrics != nil {
		s.metrics.ReviewsSubmittedTotal.WithLabelValues(string(status)).Inc()
	}

	event := domain.ReviewSubmittedEvent{
		MerchantDescription: review.MerchantDescription,
		WeekStartDate:       review.WeekStartDate,
		Status:              status,
		Reviewer:            review.Reviewer,
		RiskScore:           review.RiskScore,
		ReviewDate:          review.ReviewDate,
	}
	if s.publisher != nil {
		if err := s.publisher.PublishReviewSubmitted(ctx, event); err != nil {
			logger.Error(ctx, "Failed to publish review submitted event",
				"merchant", review.MerchantDescription, "error", err)
		}
	}

	logger.Info(ctx, "Merchant review submitted",
		"merchant", review.MerchantDescription,
		"week_start_date", review.WeekStartDate,
		"status", status,
		"reviewer", review.Reviewer,
	)

	return &SubmitReviewResult{
		MerchantDescription: review.MerchantDescription,
		WeekStartDate:       review.WeekStartDate,
		Status:              status,
		Reviewer:            review.Reviewer,
		RiskScore:           review.RiskScore,
		ReviewDate:          review.ReviewDate,
	}, nil
}

// invalidateMemos 写入成功后同步失效队列缓存与关联模块缓存。
// 失效失败不回滚已提交的写入，只记录告警。
func (s *ReviewService) invalidateMemos(ctx context.Context) {
	if err := s.store.Delete(ctx, QueueMemoKey); err != nil {
		logger.Warn(ctx, "Failed to invalidate queue memo", "error", err)
	}
	for _, inv := range s.invalidators {
		if err := inv.InvalidateMemo(ctx); err != nil {
			logger.Warn(ctx, "Failed to invalidate linked memo", "error", err)
		}
	}
}
