package report

import (
	"context"
	"testing"
	"time"

	"github.com/microcredit/backend/internal/domain/report"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockReportRepository is a mock implementation of report.Repository
type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) GetDashboardSummary(filter report.ReportFilter) (*report.DashboardSummary, error) {
	args := m.Called(filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.DashboardSummary), args.Error(1)
}

func (m *MockReportRepository) GetCollectionTrend(filter report.ReportFilter) ([]report.CollectionTrendPoint, error) {
	args := m.Called(filter)
	return args.Get(0).([]report.CollectionTrendPoint), args.Error(1)
}

func (m *MockReportRepository) GetExpenseBreakdown(filter report.ReportFilter) ([]report.ExpenseBreakdownItem, error) {
	args := m.Called(filter)
	return args.Get(0).([]report.ExpenseBreakdownItem), args.Error(1)
}

func (m *MockReportRepository) GetDelinquentLoans(filter report.ReportFilter) ([]report.DelinquentLoan, error) {
	args := m.Called(filter)
	return args.Get(0).([]report.DelinquentLoan), args.Error(1)
}

// memoryCache is an in-process SummaryCache for tests
type memoryCache struct {
	store map[string]*SummaryResponse
}

func newMemoryCache() *memoryCache {
	return &memoryCache{store: make(map[string]*SummaryResponse)}
}

func (c *memoryCache) Get(ctx context.Context, key string) (*SummaryResponse, error) {
	return c.store[key], nil
}

func (c *memoryCache) Set(ctx context.Context, key string, summary *SummaryResponse) error {
	c.store[key] = summary
	return nil
}

func (c *memoryCache) Invalidate(ctx context.Context) error {
	c.store = make(map[string]*SummaryResponse)
	return nil
}

func expectFullDashboard(repo *MockReportRepository) {
	summary := &report.DashboardSummary{
		ActiveClients:        12,
		ActiveLoans:          20,
		PortfolioOutstanding: decimal.NewFromInt(150000),
		Collected:            decimal.NewFromInt(30000),
		Expenses:             decimal.NewFromInt(8000),
		NetCollection:        decimal.NewFromInt(22000),
	}
	repo.On("GetDashboardSummary", mock.AnythingOfType("report.ReportFilter")).Return(summary, nil)
	repo.On("GetCollectionTrend", mock.AnythingOfType("report.ReportFilter")).Return([]report.CollectionTrendPoint{}, nil)
	repo.On("GetExpenseBreakdown", mock.AnythingOfType("report.ReportFilter")).Return([]report.ExpenseBreakdownItem{}, nil)
	repo.On("GetDelinquentLoans", mock.AnythingOfType("report.ReportFilter")).Return([]report.DelinquentLoan{}, nil)
}

func TestService_Summary(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults to the current month", func(t *testing.T) {
		repo := new(MockReportRepository)
		svc := NewService(repo, nil)
		svc.now = func() time.Time { return time.Date(2024, time.June, 18, 10, 0, 0, 0, time.UTC) }

		repo.On("GetDashboardSummary", mock.MatchedBy(func(f report.ReportFilter) bool {
			return f.StartDate.Equal(time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)) &&
				f.EndDate.Equal(time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC))
		})).Return(&report.DashboardSummary{}, nil)
		repo.On("GetCollectionTrend", mock.Anything).Return([]report.CollectionTrendPoint{}, nil)
		repo.On("GetExpenseBreakdown", mock.Anything).Return([]report.ExpenseBreakdownItem{}, nil)
		repo.On("GetDelinquentLoans", mock.Anything).Return([]report.DelinquentLoan{}, nil)

		_, err := svc.Summary(ctx, SummaryQuery{})
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("serves the second request from cache", func(t *testing.T) {
		repo := new(MockReportRepository)
		cache := newMemoryCache()
		svc := NewService(repo, cache)
		expectFullDashboard(repo)

		first, err := svc.Summary(ctx, SummaryQuery{DateFrom: "2024-06-01", DateTo: "2024-06-30"})
		require.NoError(t, err)
		assert.False(t, first.FromCache)

		second, err := svc.Summary(ctx, SummaryQuery{DateFrom: "2024-06-01", DateTo: "2024-06-30"})
		require.NoError(t, err)
		assert.True(t, second.FromCache)
		repo.AssertNumberOfCalls(t, "GetDashboardSummary", 1)
	})

	t.Run("invalidation forces a fresh read", func(t *testing.T) {
		repo := new(MockReportRepository)
		cache := newMemoryCache()
		svc := NewService(repo, cache)
		expectFullDashboard(repo)

		_, err := svc.Summary(ctx, SummaryQuery{DateFrom: "2024-06-01", DateTo: "2024-06-30"})
		require.NoError(t, err)
		require.NoError(t, cache.Invalidate(ctx))

		_, err = svc.Summary(ctx, SummaryQuery{DateFrom: "2024-06-01", DateTo: "2024-06-30"})
		require.NoError(t, err)
		repo.AssertNumberOfCalls(t, "GetDashboardSummary", 2)
	})

	t.Run("rejects inverted period", func(t *testing.T) {
		svc := NewService(new(MockReportRepository), nil)
		_, err := svc.Summary(ctx, SummaryQuery{DateFrom: "2024-06-30", DateTo: "2024-06-01"})
		assert.Error(t, err)
	})
}
