package finance

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/microcredit/backend/internal/domain/finance"
	"github.com/microcredit/backend/internal/domain/shared"
	"github.com/microcredit/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockExpenseRepository is a mock implementation of finance.Repository
type MockExpenseRepository struct {
	mock.Mock
}

func (m *MockExpenseRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.Expense, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.Expense), args.Error(1)
}

func (m *MockExpenseRepository) FindAll(ctx context.Context, filter finance.ExpenseFilter) ([]finance.Expense, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]finance.Expense), args.Error(1)
}

func (m *MockExpenseRepository) Count(ctx context.Context, filter finance.ExpenseFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockExpenseRepository) SumForPeriod(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockExpenseRepository) SumByCategory(ctx context.Context, from, to time.Time) ([]finance.CategoryTotal, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).([]finance.CategoryTotal), args.Error(1)
}

func (m *MockExpenseRepository) Save(ctx context.Context, expense *finance.Expense) error {
	args := m.Called(ctx, expense)
	return args.Error(0)
}

func (m *MockExpenseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("records an expense", func(t *testing.T) {
		repo := new(MockExpenseRepository)
		svc := NewService(repo)
		repo.On("Save", ctx, mock.AnythingOfType("*finance.Expense")).Return(nil)

		resp, err := svc.Create(ctx, CreateExpenseRequest{
			Category:      "RENT",
			Amount:        decimal.NewFromInt(1500),
			Description:   "office rent june",
			IncurredAt:    "2024-06-01",
			PaymentMethod: "TRANSFER",
		})
		require.NoError(t, err)

		assert.Equal(t, "RENT", resp.Category)
		assert.Equal(t, "2024-06-01", resp.IncurredAt)
		repo.AssertExpectations(t)
	})

	t.Run("rejects unknown category", func(t *testing.T) {
		repo := new(MockExpenseRepository)
		svc := NewService(repo)

		_, err := svc.Create(ctx, CreateExpenseRequest{
			Category:      "FOOD",
			Amount:        decimal.NewFromInt(100),
			Description:   "lunch",
			IncurredAt:    "2024-06-01",
			PaymentMethod: "CASH",
		})
		assert.Error(t, err)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("rejects malformed date", func(t *testing.T) {
		repo := new(MockExpenseRepository)
		svc := NewService(repo)

		_, err := svc.Create(ctx, CreateExpenseRequest{
			Category:      "RENT",
			Amount:        decimal.NewFromInt(100),
			Description:   "rent",
			IncurredAt:    "01/06/2024",
			PaymentMethod: "CASH",
		})
		assert.Error(t, err)
	})
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("partial update keeps the remaining fields", func(t *testing.T) {
		repo := new(MockExpenseRepository)
		svc := NewService(repo)

		stored, err := finance.NewExpense(
			finance.ExpenseCategoryRent,
			valueobject.NewMoneyARSFromFloat(1500),
			"office rent june",
			time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC),
			finance.PaymentMethodTransfer,
		)
		require.NoError(t, err)

		repo.On("FindByID", ctx, stored.ID).Return(stored, nil)
		repo.On("Save", ctx, stored).Return(nil)

		amount := decimal.NewFromFloat(1600.50)
		resp, err := svc.Update(ctx, stored.ID, UpdateExpenseRequest{Amount: &amount})
		require.NoError(t, err)

		assert.Equal(t, "RENT", resp.Category)
		assert.Equal(t, "1600.50", resp.Amount.StringFixed(2))
		assert.Equal(t, "office rent june", resp.Description)
	})

	t.Run("not found bubbles up", func(t *testing.T) {
		repo := new(MockExpenseRepository)
		svc := NewService(repo)
		id := uuid.New()
		repo.On("FindByID", ctx, id).Return(nil, shared.ErrNotFound)

		_, err := svc.Update(ctx, id, UpdateExpenseRequest{})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects unknown category filter", func(t *testing.T) {
		repo := new(MockExpenseRepository)
		svc := NewService(repo)

		_, _, err := svc.List(ctx, ExpenseListFilter{Category: "FOOD"})
		assert.Error(t, err)
	})
}

func TestService_Summary(t *testing.T) {
	ctx := context.Background()

	t.Run("explicit period totals and breaks down by category", func(t *testing.T) {
		repo := new(MockExpenseRepository)
		svc := NewService(repo)

		from := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC)
		repo.On("SumForPeriod", ctx, from, to).Return(decimal.NewFromInt(2100), nil)
		repo.On("SumByCategory", ctx, from, to).Return([]finance.CategoryTotal{
			{Category: finance.ExpenseCategoryRent, Total: decimal.NewFromInt(1500)},
			{Category: finance.ExpenseCategoryUtilities, Total: decimal.NewFromInt(600)},
		}, nil)

		resp, err := svc.Summary(ctx, SummaryQuery{DateFrom: "2024-06-01", DateTo: "2024-06-30"})
		require.NoError(t, err)

		assert.Equal(t, "2024-06-01", resp.DateFrom)
		assert.Equal(t, "2024-06-30", resp.DateTo)
		assert.True(t, resp.Total.Equal(decimal.NewFromInt(2100)))
		require.Len(t, resp.ByCategory, 2)
		assert.Equal(t, "RENT", resp.ByCategory[0].Category)
	})

	t.Run("defaults to the current month", func(t *testing.T) {
		repo := new(MockExpenseRepository)
		svc := NewService(repo)
		svc.now = func() time.Time { return time.Date(2024, time.June, 15, 10, 0, 0, 0, time.UTC) }

		from := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
		repo.On("SumForPeriod", ctx, from, mock.AnythingOfType("time.Time")).Return(decimal.Zero, nil)
		repo.On("SumByCategory", ctx, from, mock.AnythingOfType("time.Time")).Return([]finance.CategoryTotal{}, nil)

		resp, err := svc.Summary(ctx, SummaryQuery{})
		require.NoError(t, err)

		assert.Equal(t, "2024-06-01", resp.DateFrom)
		assert.Equal(t, "2024-06-15", resp.DateTo)
	})

	t.Run("rejects inverted period", func(t *testing.T) {
		repo := new(MockExpenseRepository)
		svc := NewService(repo)

		_, err := svc.Summary(ctx, SummaryQuery{DateFrom: "2024-06-30", DateTo: "2024-06-01"})
		assert.Error(t, err)
		repo.AssertNotCalled(t, "SumForPeriod", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestService_Categories(t *testing.T) {
	svc := NewService(new(MockExpenseRepository))
	categories := svc.Categories()
	assert.Contains(t, categories, "RENT")
	assert.Contains(t, categories, "OTHER")
	assert.Len(t, categories, 7)
}
