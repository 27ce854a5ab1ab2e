package persistence

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/microcredit/backend/internal/domain/billing"
	"github.com/microcredit/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const receiptNumberPrefix = "Rbo - "

// GormReceiptRepository implements billing.Repository using GORM
type GormReceiptRepository struct {
	db *gorm.DB
}

// NewGormReceiptRepository creates a new GormReceiptRepository
func NewGormReceiptRepository(db *gorm.DB) *GormReceiptRepository {
	return &GormReceiptRepository{db: db}
}

// FindByID finds a receipt by its ID
func (r *GormReceiptRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Receipt, error) {
	var receipt billing.Receipt
	if err := r.db.WithContext(ctx).First(&receipt, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &receipt, nil
}

// FindByNumber finds a receipt by its printed number
func (r *GormReceiptRepository) FindByNumber(ctx context.Context, number string) (*billing.Receipt, error) {
	var receipt billing.Receipt
	if err := r.db.WithContext(ctx).First(&receipt, "receipt_number = ?", number).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &receipt, nil
}

// FindAll finds receipts matching the filter, newest payment first
func (r *GormReceiptRepository) FindAll(ctx context.Context, filter billing.ReceiptFilter) ([]billing.Receipt, error) {
	query := r.applyFilter(r.db.WithContext(ctx).Model(&billing.Receipt{}), filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	var receipts []billing.Receipt
	if err := query.Order("payment_date DESC, receipt_number DESC").Find(&receipts).Error; err != nil {
		return nil, err
	}
	return receipts, nil
}

// Count counts receipts matching the filter
func (r *GormReceiptRepository) Count(ctx context.Context, filter billing.ReceiptFilter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&billing.Receipt{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// NextNumber returns the next sequential receipt number. Zero-padded numbers
// sort lexicographically, so the max row carries the latest sequence.
func (r *GormReceiptRepository) NextNumber(ctx context.Context) (string, error) {
	var lastNumber string
	err := r.db.WithContext(ctx).
		Model(&billing.Receipt{}).
		Select("receipt_number").
		Where("receipt_number LIKE ?", receiptNumberPrefix+"%").
		Order("receipt_number DESC").
		Limit(1).
		Scan(&lastNumber).Error
	if err != nil {
		return "", err
	}

	seq := int64(0)
	if lastNumber != "" {
		if n, err := strconv.ParseInt(strings.TrimPrefix(lastNumber, receiptNumberPrefix), 10, 64); err == nil {
			seq = n
		}
	}
	return billing.FormatReceiptNumber(seq + 1), nil
}

// Save creates or updates a receipt
func (r *GormReceiptRepository) Save(ctx context.Context, receipt *billing.Receipt) error {
	return r.db.WithContext(ctx).Save(receipt).Error
}

// SumForPeriod sums receipt totals whose payment date falls in [from, to]
func (r *GormReceiptRepository) SumForPeriod(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).
		Model(&billing.Receipt{}).
		Select("COALESCE(SUM(total_amount), 0)").
		Where("payment_date >= ? AND payment_date <= ?", from, to).
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

func (r *GormReceiptRepository) applyFilter(query *gorm.DB, filter billing.ReceiptFilter) *gorm.DB {
	if filter.ClientID != nil {
		query = query.Where("client_id = ?", *filter.ClientID)
	}
	if filter.LoanID != nil {
		query = query.Where("loan_id = ?", *filter.LoanID)
	}
	if filter.DateFrom != nil {
		query = query.Where("payment_date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("payment_date <= ?", *filter.DateTo)
	}
	if filter.Search != "" {
		query = query.Where("receipt_number ILIKE ?", "%"+filter.Search+"%")
	}
	return query
}

// Ensure GormReceiptRepository implements billing.Repository
var _ billing.Repository = (*GormReceiptRepository)(nil)
