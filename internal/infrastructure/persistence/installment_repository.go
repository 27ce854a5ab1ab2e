package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/microcredit/backend/internal/domain/lending"
	"github.com/microcredit/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormInstallmentRepository implements lending.InstallmentRepository using GORM
type GormInstallmentRepository struct {
	db *gorm.DB
}

// NewGormInstallmentRepository creates a new GormInstallmentRepository
func NewGormInstallmentRepository(db *gorm.DB) *GormInstallmentRepository {
	return &GormInstallmentRepository{db: db}
}

// FindByID finds an installment by its ID
func (r *GormInstallmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*lending.Installment, error) {
	var inst lending.Installment
	if err := r.db.WithContext(ctx).First(&inst, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &inst, nil
}

// FindByLoan returns the full schedule of a loan in schedule order
func (r *GormInstallmentRepository) FindByLoan(ctx context.Context, loanID uuid.UUID) ([]lending.Installment, error) {
	var installments []lending.Installment
	if err := r.db.WithContext(ctx).
		Where("loan_id = ?", loanID).
		Order("due_date ASC, number ASC").
		Find(&installments).Error; err != nil {
		return nil, err
	}
	return installments, nil
}

// FindPendingByLoans returns unpaid installments of the given loans ordered by
// due date ascending with the installment number as tie-break. Payment
// allocation depends on this ordering.
func (r *GormInstallmentRepository) FindPendingByLoans(ctx context.Context, loanIDs []uuid.UUID) ([]lending.Installment, error) {
	if len(loanIDs) == 0 {
		return []lending.Installment{}, nil
	}

	var installments []lending.Installment
	if err := r.db.WithContext(ctx).
		Where("loan_id IN ? AND amount_paid < amount_due", loanIDs).
		Order("due_date ASC, number ASC").
		Find(&installments).Error; err != nil {
		return nil, err
	}
	return installments, nil
}

// Find returns installments matching the filter in due-date order
func (r *GormInstallmentRepository) Find(ctx context.Context, filter lending.InstallmentFilter) ([]lending.Installment, error) {
	query := r.db.WithContext(ctx).Model(&lending.Installment{})

	if filter.LoanID != nil {
		query = query.Where("loan_id = ?", *filter.LoanID)
	}
	if filter.ClientID != nil {
		query = query.Where(
			"loan_id IN (?)",
			r.db.Model(&lending.Loan{}).Select("id").Where("client_id = ?", *filter.ClientID),
		)
	}
	if filter.DueFrom != nil {
		query = query.Where("due_date >= ?", *filter.DueFrom)
	}
	if filter.DueTo != nil {
		query = query.Where("due_date <= ?", *filter.DueTo)
	}
	if filter.OnlyPending {
		query = query.Where("amount_paid < amount_due")
	}

	var installments []lending.Installment
	if err := query.Order("due_date ASC, number ASC").Find(&installments).Error; err != nil {
		return nil, err
	}
	return installments, nil
}

// HasSchedule checks if a loan already has installments
func (r *GormInstallmentRepository) HasSchedule(ctx context.Context, loanID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&lending.Installment{}).
		Where("loan_id = ?", loanID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountPendingByLoan counts unpaid installments of a loan
func (r *GormInstallmentRepository) CountPendingByLoan(ctx context.Context, loanID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&lending.Installment{}).
		Where("loan_id = ? AND amount_paid < amount_due", loanID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SaveBatch creates or updates multiple installments
func (r *GormInstallmentRepository) SaveBatch(ctx context.Context, installments []*lending.Installment) error {
	if len(installments) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Save(installments).Error
}

// SaveWithLock saves an installment with optimistic locking. The update only
// matches if the stored version is the one the aggregate was loaded with;
// zero rows affected means another transaction got there first.
func (r *GormInstallmentRepository) SaveWithLock(ctx context.Context, installment *lending.Installment) error {
	result := r.db.WithContext(ctx).
		Model(installment).
		Where("id = ? AND version = ?", installment.ID, installment.Version-1).
		Select("amount_paid", "paid_at", "updated_at", "version").
		Updates(installment)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Ensure GormInstallmentRepository implements lending.InstallmentRepository
var _ lending.InstallmentRepository = (*GormInstallmentRepository)(nil)
