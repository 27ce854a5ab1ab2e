package lending

import (
	"time"

	"github.com/google/uuid"
	"github.com/microcredit/backend/internal/domain/lending"
	"github.com/shopspring/decimal"
)

// DateLayout is the wire format for calendar dates
const DateLayout = "2006-01-02"

// CreateLoanRequest represents a request to originate a loan
type CreateLoanRequest struct {
	Code         string          `json:"code" binding:"max=50"`
	ClientID     uuid.UUID       `json:"client_id" binding:"required"`
	Principal    decimal.Decimal `json:"principal" binding:"required"`
	InterestRate decimal.Decimal `json:"interest_rate"`
	Installments int             `json:"installments" binding:"required,min=1,max=120"`
	StartDate    string          `json:"start_date" binding:"required,datestr"`
	Notes        string          `json:"notes"`
}

// LoanResponse represents a loan in API responses
type LoanResponse struct {
	ID                uuid.UUID       `json:"id"`
	Code              string          `json:"code"`
	ClientID          uuid.UUID       `json:"client_id"`
	Principal         decimal.Decimal `json:"principal"`
	InterestRate      decimal.Decimal `json:"interest_rate"`
	TotalToRepay      decimal.Decimal `json:"total_to_repay"`
	InstallmentsTotal int             `json:"installments_total"`
	StartDate         string          `json:"start_date"`
	EndDate           string          `json:"end_date"`
	Status            string          `json:"status"`
	Notes             string          `json:"notes"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
	Version           int             `json:"version"`
}

// LoanDetailResponse is a loan with its schedule and repayment progress
type LoanDetailResponse struct {
	LoanResponse
	TotalPaid    decimal.Decimal       `json:"total_paid"`
	Balance      decimal.Decimal       `json:"balance"`
	Installments []InstallmentResponse `json:"installments"`
}

// InstallmentResponse represents one installment in API responses
type InstallmentResponse struct {
	ID         uuid.UUID       `json:"id"`
	LoanID     uuid.UUID       `json:"loan_id"`
	Number     int             `json:"number"`
	Code       string          `json:"code"`
	DueDate    string          `json:"due_date"`
	AmountDue  decimal.Decimal `json:"amount_due"`
	AmountPaid decimal.Decimal `json:"amount_paid"`
	Balance    decimal.Decimal `json:"balance"`
	PaidAt     *string         `json:"paid_at"`
	Status     string          `json:"status"`
}

// LoanListFilter represents filter options for the loan list
type LoanListFilter struct {
	Search   string `form:"search"`
	Status   string `form:"status" binding:"omitempty,oneof=ACTIVE FINISHED DEFAULTED CANCELLED"`
	ClientID string `form:"client_id" binding:"omitempty,uuid"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ScheduleQuery represents filter options for the installment schedule
type ScheduleQuery struct {
	ClientID      string `form:"client_id" binding:"omitempty,uuid"`
	LoanID        string `form:"loan_id" binding:"omitempty,uuid"`
	DueFrom       string `form:"due_from" binding:"omitempty,datestr"`
	DueTo         string `form:"due_to" binding:"omitempty,datestr"`
	OnlyPending   bool   `form:"only_pending"`
	ReferenceDate string `form:"reference_date" binding:"omitempty,datestr"`
}

// ScheduleTotals aggregates a schedule page by display status
type ScheduleTotals struct {
	Count        int                      `json:"count"`
	TotalDue     decimal.Decimal          `json:"total_due"`
	TotalPaid    decimal.Decimal          `json:"total_paid"`
	TotalBalance decimal.Decimal          `json:"total_balance"`
	ByStatus     map[string]int           `json:"by_status"`
	BalanceBy    map[string]decimal.Decimal `json:"balance_by_status"`
}

// ScheduleResponse is the enhanced payment schedule: every installment row
// classified against the reference date, plus per-status totals.
type ScheduleResponse struct {
	ReferenceDate string                `json:"reference_date"`
	Installments  []InstallmentResponse `json:"installments"`
	Totals        ScheduleTotals        `json:"totals"`
}

// ToLoanResponse converts a domain Loan to LoanResponse
func ToLoanResponse(l *lending.Loan) LoanResponse {
	return LoanResponse{
		ID:                l.ID,
		Code:              l.Code,
		ClientID:          l.ClientID,
		Principal:         l.Principal,
		InterestRate:      l.InterestRate,
		TotalToRepay:      l.TotalToRepay,
		InstallmentsTotal: l.InstallmentsTotal,
		StartDate:         l.StartDate.Format(DateLayout),
		EndDate:           l.EndDate.Format(DateLayout),
		Status:            string(l.Status),
		Notes:             l.Notes,
		CreatedAt:         l.CreatedAt,
		UpdatedAt:         l.UpdatedAt,
		Version:           l.Version,
	}
}

// ToInstallmentResponse converts a domain Installment to InstallmentResponse,
// classified against the given reference date.
func ToInstallmentResponse(i *lending.Installment, referenceDate time.Time) InstallmentResponse {
	var paidAt *string
	if i.PaidAt != nil {
		s := i.PaidAt.Format(DateLayout)
		paidAt = &s
	}
	return InstallmentResponse{
		ID:         i.ID,
		LoanID:     i.LoanID,
		Number:     i.Number,
		Code:       i.Code,
		DueDate:    i.DueDate.Format(DateLayout),
		AmountDue:  i.AmountDue,
		AmountPaid: i.AmountPaid,
		Balance:    i.Balance().Amount(),
		PaidAt:     paidAt,
		Status:     string(i.Status(referenceDate)),
	}
}
