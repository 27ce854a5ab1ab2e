package finance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExpenseFilter narrows expense queries
type ExpenseFilter struct {
	Category *ExpenseCategory
	DateFrom *time.Time
	DateTo   *time.Time
	Search   string
	Page     int
	PageSize int
}

// CategoryTotal is one row of the per-category expense breakdown
type CategoryTotal struct {
	Category ExpenseCategory
	Total    decimal.Decimal
}

// Repository defines persistence operations for expenses
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Expense, error)
	FindAll(ctx context.Context, filter ExpenseFilter) ([]Expense, error)
	Count(ctx context.Context, filter ExpenseFilter) (int64, error)
	SumForPeriod(ctx context.Context, from, to time.Time) (decimal.Decimal, error)
	SumByCategory(ctx context.Context, from, to time.Time) ([]CategoryTotal, error)
	Save(ctx context.Context, expense *Expense) error
	Delete(ctx context.Context, id uuid.UUID) error
}
