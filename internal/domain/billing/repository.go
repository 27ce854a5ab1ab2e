package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReceiptFilter narrows receipt queries
type ReceiptFilter struct {
	ClientID *uuid.UUID
	LoanID   *uuid.UUID
	DateFrom *time.Time
	DateTo   *time.Time
	Search   string
	Page     int
	PageSize int
}

// Repository defines persistence operations for receipts
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Receipt, error)
	FindByNumber(ctx context.Context, number string) (*Receipt, error)
	FindAll(ctx context.Context, filter ReceiptFilter) ([]Receipt, error)
	Count(ctx context.Context, filter ReceiptFilter) (int64, error)
	// NextNumber returns the next sequential receipt number ("Rbo - %08d").
	NextNumber(ctx context.Context) (string, error)
	Save(ctx context.Context, receipt *Receipt) error
	SumForPeriod(ctx context.Context, from, to time.Time) (decimal.Decimal, error)
}
