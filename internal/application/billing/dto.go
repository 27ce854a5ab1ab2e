package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/microcredit/backend/internal/domain/billing"
	"github.com/shopspring/decimal"
)

// DateLayout is the wire format for calendar dates
const DateLayout = "2006-01-02"

// PreviewReceiptRequest asks for a suggested distribution of a payment across
// a loan's pending installments.
type PreviewReceiptRequest struct {
	LoanID uuid.UUID       `json:"loan_id" binding:"required"`
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// ImputationRequest is one operator-confirmed line of a receipt
type ImputationRequest struct {
	InstallmentID uuid.UUID       `json:"installment_id" binding:"required"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
}

// CreateReceiptRequest represents a confirmed receipt submission
type CreateReceiptRequest struct {
	LoanID         uuid.UUID           `json:"loan_id" binding:"required"`
	PaymentDate    string              `json:"payment_date" binding:"required,datestr"`
	CashAmount     decimal.Decimal     `json:"cash_amount"`
	TransferAmount decimal.Decimal     `json:"transfer_amount"`
	Imputations    []ImputationRequest `json:"imputations" binding:"required"`
	Notes          string              `json:"notes"`
}

// ImputationLine is one line of a preview or stored receipt, enriched with
// the installment it targets.
type ImputationLine struct {
	InstallmentID   uuid.UUID       `json:"installment_id"`
	InstallmentCode string          `json:"installment_code"`
	DueDate         string          `json:"due_date"`
	Balance         decimal.Decimal `json:"balance"`
	Amount          decimal.Decimal `json:"amount"`
}

// PreviewReceiptResponse is the suggested allocation for a payment amount
type PreviewReceiptResponse struct {
	LoanID      uuid.UUID        `json:"loan_id"`
	Amount      decimal.Decimal  `json:"amount"`
	Imputations []ImputationLine `json:"imputations"`
	Remaining   decimal.Decimal  `json:"remaining"`
}

// ReceiptResponse represents a stored receipt in API responses
type ReceiptResponse struct {
	ID             uuid.UUID        `json:"id"`
	ReceiptNumber  string           `json:"receipt_number"`
	ClientID       uuid.UUID        `json:"client_id"`
	LoanID         uuid.UUID        `json:"loan_id"`
	PaymentDate    string           `json:"payment_date"`
	CashAmount     decimal.Decimal  `json:"cash_amount"`
	TransferAmount decimal.Decimal  `json:"transfer_amount"`
	TotalAmount    decimal.Decimal  `json:"total_amount"`
	Imputations    []ImputationLine `json:"imputations"`
	LoanFinished   bool             `json:"loan_finished"`
	Notes          string           `json:"notes"`
	CreatedAt      time.Time        `json:"created_at"`
}

// NextNumberResponse carries the next free receipt number
type NextNumberResponse struct {
	ReceiptNumber string `json:"receipt_number"`
}

// ReceiptListFilter represents filter options for the receipt list
type ReceiptListFilter struct {
	ClientID string `form:"client_id" binding:"omitempty,uuid"`
	LoanID   string `form:"loan_id" binding:"omitempty,uuid"`
	DateFrom string `form:"date_from" binding:"omitempty,datestr"`
	DateTo   string `form:"date_to" binding:"omitempty,datestr"`
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ToReceiptResponse converts a domain Receipt to ReceiptResponse. The
// imputation lines carry only what the receipt itself stored; callers enrich
// them with installment codes when the schedule is at hand.
func ToReceiptResponse(r *billing.Receipt) ReceiptResponse {
	lines := make([]ImputationLine, 0, len(r.Imputations))
	for _, imp := range r.Imputations {
		lines = append(lines, ImputationLine{
			InstallmentID: imp.InstallmentID,
			Amount:        imp.Amount,
		})
	}
	return ReceiptResponse{
		ID:             r.ID,
		ReceiptNumber:  r.ReceiptNumber,
		ClientID:       r.ClientID,
		LoanID:         r.LoanID,
		PaymentDate:    r.PaymentDate.Format(DateLayout),
		CashAmount:     r.CashAmount,
		TransferAmount: r.TransferAmount,
		TotalAmount:    r.TotalAmount,
		Imputations:    lines,
		Notes:          r.Notes,
		CreatedAt:      r.CreatedAt,
	}
}
