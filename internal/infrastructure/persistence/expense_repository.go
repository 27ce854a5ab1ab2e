package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/microcredit/backend/internal/domain/finance"
	"github.com/microcredit/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormExpenseRepository implements finance.Repository using GORM
type GormExpenseRepository struct {
	db *gorm.DB
}

// NewGormExpenseRepository creates a new GormExpenseRepository
func NewGormExpenseRepository(db *gorm.DB) *GormExpenseRepository {
	return &GormExpenseRepository{db: db}
}

// FindByID finds an expense by its ID
func (r *GormExpenseRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.Expense, error) {
	var expense finance.Expense
	if err := r.db.WithContext(ctx).First(&expense, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &expense, nil
}

// FindAll finds expenses matching the filter, most recent first
func (r *GormExpenseRepository) FindAll(ctx context.Context, filter finance.ExpenseFilter) ([]finance.Expense, error) {
	query := r.applyFilter(r.db.WithContext(ctx).Model(&finance.Expense{}), filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	var expenses []finance.Expense
	if err := query.Order("incurred_at DESC, created_at DESC").Find(&expenses).Error; err != nil {
		return nil, err
	}
	return expenses, nil
}

// Count counts expenses matching the filter
func (r *GormExpenseRepository) Count(ctx context.Context, filter finance.ExpenseFilter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&finance.Expense{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SumForPeriod sums expenses incurred in [from, to]
func (r *GormExpenseRepository) SumForPeriod(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).
		Model(&finance.Expense{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("incurred_at >= ? AND incurred_at <= ?", from, to).
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

// SumByCategory returns per-category totals for the period, largest first
func (r *GormExpenseRepository) SumByCategory(ctx context.Context, from, to time.Time) ([]finance.CategoryTotal, error) {
	var totals []finance.CategoryTotal
	err := r.db.WithContext(ctx).
		Model(&finance.Expense{}).
		Select("category, COALESCE(SUM(amount), 0) AS total").
		Where("incurred_at >= ? AND incurred_at <= ?", from, to).
		Group("category").
		Order("total DESC").
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	return totals, nil
}

// Save creates or updates an expense
func (r *GormExpenseRepository) Save(ctx context.Context, expense *finance.Expense) error {
	return r.db.WithContext(ctx).Save(expense).Error
}

// Delete deletes an expense
func (r *GormExpenseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&finance.Expense{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormExpenseRepository) applyFilter(query *gorm.DB, filter finance.ExpenseFilter) *gorm.DB {
	if filter.Category != nil {
		query = query.Where("category = ?", *filter.Category)
	}
	if filter.DateFrom != nil {
		query = query.Where("incurred_at >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("incurred_at <= ?", *filter.DateTo)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("description ILIKE ? OR notes ILIKE ?", pattern, pattern)
	}
	return query
}

// Ensure GormExpenseRepository implements finance.Repository
var _ finance.Repository = (*GormExpenseRepository)(nil)
