package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/wyfcoding/merchantrisk/internal/analytics/domain"
	"github.com/wyfcoding/merchantrisk/pkg/cache"
)

// MockAnalyticsRepository is a mock implementation of domain.AnalyticsRepository.
type MockAnalyticsRepository struct {
	mock.Mock
}

func (m *MockAnalyticsRepository) LoadWeeklyCounts(ctx context.Context) ([]domain.WeeklyStatusCount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.WeeklyStatusCount), args.Error(1)
}

func weeklyCounts() []domain.WeeklyStatusCount {
	return []domain.WeeklyStatusCount{
		{ReviewWeek: time.Date(2024, 4, 8, 0, 0, 0, 0, time.UTC), Status: "Pending Investigation", MerchantCount: 3},
		{ReviewWeek: time.Date(2024, 4, 8, 0, 0, 0, 0, time.UTC), Status: "Reviewed - Benign", MerchantCount: 12},
		{ReviewWeek: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), Status: "Reviewed - Blocked", MerchantCount: 5},
	}
}

func TestLoadWeeklyAnalytics_MemoizesWithinTTL(t *testing.T) {
	repo := new(MockAnalyticsRepository)
	repo.On("LoadWeeklyCounts", mock.Anything).Return(weeklyCounts(), nil).Once()

	svc := NewAnalyticsService(repo, cache.NewMemory(), nil, 10*time.Minute)
	ctx := context.Background()

	first, err := svc.LoadWeeklyAnalytics(ctx)
	assert.NoError(t, err)
	assert.Len(t, first, 3)

	second, err := svc.LoadWeeklyAnalytics(ctx)
	assert.NoError(t, err)
	assert.Equal(t, first, second)

	// Once() 保证第二次读取走缓存
	repo.AssertExpectations(t)
}

func TestLoadWeeklyAnalytics_InvalidateForcesReload(t *testing.T) {
	repo := new(MockAnalyticsRepository)
	repo.On("LoadWeeklyCounts", mock.Anything).Return(weeklyCounts(), nil).Times(2)

	svc := NewAnalyticsService(repo, cache.NewMemory(), nil, 10*time.Minute)
	ctx := context.Background()

	_, err := svc.LoadWeeklyAnalytics(ctx)
	assert.NoError(t, err)

	assert.NoError(t, svc.InvalidateMemo(ctx))

	_, err = svc.LoadWeeklyAnalytics(ctx)
	assert.NoError(t, err)

	repo.AssertExpectations(t)
}

func TestLoadWeeklyAnalytics_QueryErrorSurfaced(t *testing.T) {
	repo := new(MockAnalyticsRepository)
	queryErr := errors.New("table not found")
	repo.On("LoadWeeklyCounts", mock.Anything).Return(nil, queryErr).Times(2)

	svc := NewAnalyticsService(repo, cache.NewMemory(), nil, 10*time.Minute)
	ctx := context.Background()

	_, err := svc.LoadWeeklyAnalytics(ctx)
	assert.ErrorIs(t, err, queryErr)

	// 失败结果不缓存，下一次调用重新查询
	_, err = svc.LoadWeeklyAnalytics(ctx)
	assert.ErrorIs(t, err, queryErr)

	repo.AssertExpectations(t)
}

func TestLoadWeeklyAnalytics_EmptyResultIsNotAnError(t *testing.T) {
	repo := new(MockAnalyticsRepository)
	repo.On("LoadWeeklyCounts", mock.Anything).Return([]domain.WeeklyStatusCount{}, nil).Once()

	svc := NewAnalyticsService(repo, cache.NewMemory(), nil, 10*time.Minute)
	counts, err := svc.LoadWeeklyAnalytics(context.Background())

	assert.NoError(t, err)
	assert.Empty(t, counts)
}
