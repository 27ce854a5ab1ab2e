package finance

import (
	"time"

	"github.com/google/uuid"
	"github.com/microcredit/backend/internal/domain/finance"
	"github.com/shopspring/decimal"
)

// DateLayout is the wire format for calendar dates
const DateLayout = "2006-01-02"

// CreateExpenseRequest represents a request to record an expense
type CreateExpenseRequest struct {
	Category      string          `json:"category" binding:"required"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	Description   string          `json:"description" binding:"required,min=1,max=500"`
	IncurredAt    string          `json:"incurred_at" binding:"required,datestr"`
	PaymentMethod string          `json:"payment_method" binding:"required,oneof=CASH TRANSFER"`
	Notes         string          `json:"notes"`
}

// UpdateExpenseRequest represents a request to correct an expense
type UpdateExpenseRequest struct {
	Category      *string          `json:"category"`
	Amount        *decimal.Decimal `json:"amount"`
	Description   *string          `json:"description" binding:"omitempty,min=1,max=500"`
	IncurredAt    *string          `json:"incurred_at" binding:"omitempty,datestr"`
	PaymentMethod *string          `json:"payment_method" binding:"omitempty,oneof=CASH TRANSFER"`
	Notes         *string          `json:"notes"`
}

// ExpenseResponse represents an expense in API responses
type ExpenseResponse struct {
	ID            uuid.UUID       `json:"id"`
	Category      string          `json:"category"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description"`
	IncurredAt    string          `json:"incurred_at"`
	PaymentMethod string          `json:"payment_method"`
	Notes         string          `json:"notes"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	Version       int             `json:"version"`
}

// ExpenseListFilter represents filter options for the expense list
type ExpenseListFilter struct {
	Category string `form:"category"`
	DateFrom string `form:"date_from" binding:"omitempty,datestr"`
	DateTo   string `form:"date_to" binding:"omitempty,datestr"`
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// SummaryQuery selects the period for the expense summary
type SummaryQuery struct {
	DateFrom string `form:"date_from" binding:"omitempty,datestr"`
	DateTo   string `form:"date_to" binding:"omitempty,datestr"`
}

// CategorySummary is one row of the per-category breakdown
type CategorySummary struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
}

// ExpenseSummaryResponse totals expenses over a period
type ExpenseSummaryResponse struct {
	DateFrom   string            `json:"date_from"`
	DateTo     string            `json:"date_to"`
	Total      decimal.Decimal   `json:"total"`
	ByCategory []CategorySummary `json:"by_category"`
}

// ToExpenseResponse converts a domain Expense to ExpenseResponse
func ToExpenseResponse(e *finance.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:            e.ID,
		Category:      string(e.Category),
		Amount:        e.Amount,
		Description:   e.Description,
		IncurredAt:    e.IncurredAt.Format(DateLayout),
		PaymentMethod: string(e.PaymentMethod),
		Notes:         e.Notes,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
		Version:       e.Version,
	}
}
