package persistence

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/microcredit/backend/internal/domain/lending"
	"github.com/microcredit/backend/internal/domain/shared"
	"gorm.io/gorm"
)

const loanCodePrefix = "PRE-"

// GormLoanRepository implements lending.LoanRepository using GORM
type GormLoanRepository struct {
	db *gorm.DB
}

// NewGormLoanRepository creates a new GormLoanRepository
func NewGormLoanRepository(db *gorm.DB) *GormLoanRepository {
	return &GormLoanRepository{db: db}
}

// FindByID finds a loan by its ID
func (r *GormLoanRepository) FindByID(ctx context.Context, id uuid.UUID) (*lending.Loan, error) {
	var loan lending.Loan
	if err := r.db.WithContext(ctx).First(&loan, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &loan, nil
}

// FindByCode finds a loan by its code
func (r *GormLoanRepository) FindByCode(ctx context.Context, code string) (*lending.Loan, error) {
	var loan lending.Loan
	if err := r.db.WithContext(ctx).First(&loan, "code = ?", strings.ToUpper(code)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &loan, nil
}

// FindByClient finds all loans of a client, newest first
func (r *GormLoanRepository) FindByClient(ctx context.Context, clientID uuid.UUID) ([]lending.Loan, error) {
	var loans []lending.Loan
	if err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("created_at DESC").
		Find(&loans).Error; err != nil {
		return nil, err
	}
	return loans, nil
}

// FindActiveByClient finds a client's active loans ordered by start date
func (r *GormLoanRepository) FindActiveByClient(ctx context.Context, clientID uuid.UUID) ([]lending.Loan, error) {
	var loans []lending.Loan
	if err := r.db.WithContext(ctx).
		Where("client_id = ? AND status = ?", clientID, lending.LoanStatusActive).
		Order("start_date ASC").
		Find(&loans).Error; err != nil {
		return nil, err
	}
	return loans, nil
}

// FindAll finds all loans matching the filter
func (r *GormLoanRepository) FindAll(ctx context.Context, filter shared.Filter) ([]lending.Loan, error) {
	var loans []lending.Loan
	query := r.applyFilter(r.db.WithContext(ctx).Model(&lending.Loan{}), filter)

	if err := query.Find(&loans).Error; err != nil {
		return nil, err
	}
	return loans, nil
}

// Count counts loans matching the filter
func (r *GormLoanRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&lending.Loan{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByStatus counts loans in the given status
func (r *GormLoanRepository) CountByStatus(ctx context.Context, status lending.LoanStatus) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&lending.Loan{}).
		Where("status = ?", status).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByCode checks if a loan with the given code exists
func (r *GormLoanRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&lending.Loan{}).
		Where("code = ?", strings.ToUpper(code)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// NextCode returns the next sequential loan code, e.g. "PRE-0007"
func (r *GormLoanRepository) NextCode(ctx context.Context) (string, error) {
	var lastCode string
	err := r.db.WithContext(ctx).
		Model(&lending.Loan{}).
		Select("code").
		Where("code LIKE ?", loanCodePrefix+"%").
		Order("code DESC").
		Limit(1).
		Scan(&lastCode).Error
	if err != nil {
		return "", err
	}

	seq := int64(0)
	if lastCode != "" {
		if n, err := strconv.ParseInt(strings.TrimPrefix(lastCode, loanCodePrefix), 10, 64); err == nil {
			seq = n
		}
	}
	return fmt.Sprintf("%s%04d", loanCodePrefix, seq+1), nil
}

// Save creates or updates a loan
func (r *GormLoanRepository) Save(ctx context.Context, loan *lending.Loan) error {
	return r.db.WithContext(ctx).Save(loan).Error
}

func (r *GormLoanRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, LoanSortFields, "created_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	return query
}

func (r *GormLoanRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("code ILIKE ?", pattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "client_id":
			query = query.Where("client_id = ?", value)
		}
	}

	return query
}

// Ensure GormLoanRepository implements lending.LoanRepository
var _ lending.LoanRepository = (*GormLoanRepository)(nil)
