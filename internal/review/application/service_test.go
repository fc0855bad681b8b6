package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/wyfcoding/merchantrisk/internal/review/domain"
	"github.com/wyfcoding/merchantrisk/pkg/cache"
)

// MockReviewRepository is a mock implementation of domain.ReviewRepository.
type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) ListHighRiskCandidates(ctx context.Context) ([]domain.QueueCandidate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.QueueCandidate), args.Error(1)
}

func (m *MockReviewRepository) UpsertReview(ctx context.Context, review *domain.MerchantReviewStatus) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

// MockEventPublisher is a mock implementation of domain.EventPublisher.
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishReviewSubmitted(ctx context.Context, event domain.ReviewSubmittedEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// fakeInvalidator counts invalidation calls from the submit path.
type fakeInvalidator struct {
	calls int
}

func (f *fakeInvalidator) InvalidateMemo(ctx context.Context) error {
	f.calls++
	return nil
}

var (
	fixedNow = time.Date(2024, 4, 10, 12, 0, 0, 0, time.UTC)
	week     = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
)

func fixedClock() time.Time { return fixedNow }

func acmeCandidate(review *domain.LatestReview) domain.QueueCandidate {
	return domain.QueueCandidate{
		MerchantDescription: "Acme Co",
		RiskScore:           decimal.NewFromInt(91),
		ReasonCodes:         "R01,R07",
		WeekStartDate:       week,
		HighRiskFlag:        true,
		LatestReview:        review,
	}
}

func newService(repo *MockReviewRepository, publisher domain.EventPublisher, invalidators ...MemoInvalidator) *ReviewService {
	return NewReviewService(repo, cache.NewMemory(), publisher, nil, fixedClock, invalidators...)
}

func TestLoadReviewQueue_FiltersByEligibility(t *testing.T) {
	repo := new(MockReviewRepository)
	candidates := []domain.QueueCandidate{
		acmeCandidate(nil),
		{
			MerchantDescription: "Blocked Inc",
			RiskScore:           decimal.NewFromInt(88),
			WeekStartDate:       week,
			HighRiskFlag:        true,
			LatestReview:        &domain.LatestReview{Status: domain.StatusBlocked, ReviewDate: fixedNow.AddDate(0, 0, -200)},
		},
		{
			MerchantDescription: "Expired Ltd",
			RiskScore:           decimal.NewFromInt(70),
			WeekStartDate:       week,
			HighRiskFlag:        true,
			LatestReview:        &domain.LatestReview{Status: domain.StatusBenign, ReviewDate: fixedNow.AddDate(0, 0, -100)},
		},
		{
			MerchantDescription: "Cleared Gmbh",
			RiskScore:           decimal.NewFromInt(65),
			WeekStartDate:       week,
			HighRiskFlag:        true,
			LatestReview:        &domain.LatestReview{Status: domain.StatusBenign, ReviewDate: fixedNow.AddDate(0, 0, -10)},
		},
		{
			MerchantDescription: "Pending LLC",
			RiskScore:           decimal.NewFromInt(50),
			WeekStartDate:       week,
			HighRiskFlag:        true,
			LatestReview:        &domain.LatestReview{Status: domain.StatusPending, ReviewDate: fixedNow.AddDate(0, 0, -5)},
		},
	}
	repo.On("ListHighRiskCandidates", mock.Anything).Return(candidates, nil).Once()

	svc := newService(repo, nil)
	entries, err := svc.LoadReviewQueue(context.Background())

	assert.NoError(t, err)
	merchants := make([]string, len(entries))
	for i, e := range entries {
		merchants[i] = e.MerchantDescription
	}
	// 仓储已按 risk_score 降序返回，过滤保持原有次序
	assert.Equal(t, []string{"Acme Co", "Expired Ltd", "Pending LLC"}, merchants)
	repo.AssertExpectations(t)
}

func TestLoadReviewQueue_MemoizesUntilInvalidated(t *testing.T) {
	repo := new(MockReviewRepository)
	repo.On("ListHighRiskCandidates", mock.Anything).Return([]domain.QueueCandidate{acmeCandidate(nil)}, nil).Once()

	svc := newService(repo, nil)
	ctx := context.Background()

	first, err := svc.LoadReviewQueue(ctx)
	assert.NoError(t, err)
	second, err := svc.LoadReviewQueue(ctx)
	assert.NoError(t, err)
	assert.Equal(t, first, second)

	// Once() 保证第二次读取走缓存而非仓储
	repo.AssertExpectations(t)
}

func TestLoadReviewQueue_EmptyQueueIsNotAnError(t *testing.T) {
	repo := new(MockReviewRepository)
	repo.On("ListHighRiskCandidates", mock.Anything).Return([]domain.QueueCandidate{}, nil).Once()

	svc := newService(repo, nil)
	entries, err := svc.LoadReviewQueue(context.Background())

	assert.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSubmitReview_MissingStatusWritesNothing(t *testing.T) {
	repo := new(MockReviewRepository)
	svc := newService(repo, nil)

	_, err := svc.SubmitReview(context.Background(), SubmitReviewCommand{
		MerchantDescription: "Acme Co",
		Reviewer:            "analyst1",
	})

	assert.ErrorIs(t, err, domain.ErrStatusRequired)
	repo.AssertNotCalled(t, "UpsertReview", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "ListHighRiskCandidates", mock.Anything)
}

func TestSubmitReview_InvalidStatusWritesNothing(t *testing.T) {
	repo := new(MockReviewRepository)
	svc := newService(repo, nil)

	_, err := svc.SubmitReview(context.Background(), SubmitReviewCommand{
		MerchantDescription: "Acme Co",
		Status:              "Approved",
		Reviewer:            "analyst1",
	})

	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
	repo.AssertNotCalled(t, "UpsertReview", mock.Anything, mock.Anything)
}

func TestSubmitReview_MissingReviewerRejected(t *testing.T) {
	repo := new(MockReviewRepository)
	svc := newService(repo, nil)

	_, err := svc.SubmitReview(context.Background(), SubmitReviewCommand{
		MerchantDescription: "Acme Co",
		Status:              string(domain.StatusBenign),
	})

	assert.ErrorIs(t, err, ErrReviewerRequired)
	repo.AssertNotCalled(t, "UpsertReview", mock.Anything, mock.Anything)
}

func TestSubmitReview_MerchantNotInQueue(t *testing.T) {
	repo := new(MockReviewRepository)
	repo.On("ListHighRiskCandidates", mock.Anything).Return([]domain.QueueCandidate{}, nil).Once()

	svc := newService(repo, nil)
	_, err := svc.SubmitReview(context.Background(), SubmitReviewCommand{
		MerchantDescription: "Unknown Co",
		Status:              string(domain.StatusBlocked),
		Reviewer:            "analyst1",
	})

	assert.ErrorIs(t, err, domain.ErrNotInQueue)
	repo.AssertNotCalled(t, "UpsertReview", mock.Anything, mock.Anything)
}

func TestSubmitReview_BlockRemovesMerchantFromQueue(t *testing.T) {
	repo := new(MockReviewRepository)
	publisher := new(MockEventPublisher)
	analytics := &fakeInvalidator{}

	// 首次加载：Acme 从未审核，入队
	repo.On("ListHighRiskCandidates", mock.Anything).
		Return([]domain.QueueCandidate{acmeCandidate(nil)}, nil).Once()
	// 提交后重新加载：最新审核为已封禁，出队
	repo.On("ListHighRiskCandidates", mock.Anything).
		Return([]domain.QueueCandidate{acmeCandidate(&domain.LatestReview{
			Status:     domain.StatusBlocked,
			ReviewDate: fixedNow,
		})}, nil).Once()

	repo.On("UpsertReview", mock.Anything, mock.MatchedBy(func(r *domain.MerchantReviewStatus) bool {
		return r.MerchantDescription == "Acme Co" &&
			r.WeekStartDate.Equal(week) &&
			r.Status == string(domain.StatusBlocked) &&
			r.Notes == "shell company pattern" &&
			r.Reviewer == "analyst1" &&
			r.RiskScore.Equal(decimal.NewFromInt(91)) &&
			r.ReviewDate.Equal(fixedNow)
	})).Return(nil).Once()
	publisher.On("PublishReviewSubmitted", mock.Anything, mock.Anything).Return(nil).Once()

	svc := newService(repo, publisher, analytics)
	ctx := context.Background()

	entries, err := svc.LoadReviewQueue(ctx)
	assert.NoError(t, err)
	assert.Len(t, entries, 1)

	result, err := svc.SubmitReview(ctx, SubmitReviewCommand{
		MerchantDescription: "Acme Co",
		Status:              string(domain.StatusBlocked),
		Notes:               "shell company pattern",
		Reviewer:            "analyst1",
	})
	assert.NoError(t, err)
	assert.Equal(t, domain.StatusBlocked, result.Status)
	assert.Equal(t, fixedNow, result.ReviewDate)
	assert.Equal(t, 1, analytics.calls)

	// 提交使缓存失效，重新加载反映写入结果
	entries, err = svc.LoadReviewQueue(ctx)
	assert.NoError(t, err)
	assert.Empty(t, entries)

	repo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestSubmitReview_WriteFailureIsSurfaced(t *testing.T) {
	repo := new(MockReviewRepository)
	publisher := new(MockEventPublisher)
	writeErr := errors.New("connection lost")

	repo.On("ListHighRiskCandidates", mock.Anything).
		Return([]domain.QueueCandidate{acmeCandidate(nil)}, nil).Once()
	repo.On("UpsertReview", mock.Anything, mock.Anything).Return(writeErr).Once()

	svc := newService(repo, publisher)
	_, err := svc.SubmitReview(context.Background(), SubmitReviewCommand{
		MerchantDescription: "Acme Co",
		Status:              string(domain.StatusBenign),
		Reviewer:            "analyst1",
	})

	assert.ErrorIs(t, err, writeErr)
	publisher.AssertNotCalled(t, "PublishReviewSubmitted", mock.Anything, mock.Anything)
}

func TestSubmitReview_PublishFailureDoesNotFailSubmit(t *testing.T) {
	repo := new(MockReviewRepository)
	publisher := new(MockEventPublisher)

	repo.On("ListHighRiskCandidates", mock.Anything).
		Return([]domain.QueueCandidate{acmeCandidate(nil)}, nil).Once()
	repo.On("UpsertReview", mock.Anything, mock.Anything).Return(nil).Once()
	publisher.On("PublishReviewSubmitted", mock.Anything, mock.Anything).
		Return(errors.New("broker unavailable")).Once()

	svc := newService(repo, publisher)
	result, err := svc.SubmitReview(context.Background(), SubmitReviewCommand{
		MerchantDescription: "Acme Co",
		Status:              string(domain.StatusPending),
		Reviewer:            "analyst1",
	})

	assert.NoError(t, err)
	assert.Equal(t, domain.StatusPending, result.Status)
	publisher.AssertExpectations(t)
}

func TestGetMerchantDetail(t *testing.T) {
	repo := new(MockReviewRepository)
	repo.On("ListHighRiskCandidates", mock.Anything).
		Return([]domain.QueueCandidate{acmeCandidate(nil)}, nil).Once()

	svc := newService(repo, nil)
	ctx := context.Background()

	entry, err := svc.GetMerchantDetail(ctx, "Acme Co")
	assert.NoError(t, err)
	assert.Equal(t, "R01,R07", entry.ReasonCodes)

	_, err = svc.GetMerchantDetail(ctx, "Unknown Co")
	assert.ErrorIs(t, err, domain.ErrNotInQueue)
}
