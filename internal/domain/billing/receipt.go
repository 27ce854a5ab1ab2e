package billing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/microcredit/backend/internal/domain/shared"
	"github.com/microcredit/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// MismatchTolerance is the currency-precision rounding tolerance allowed
// between a receipt's declared total and the sum of its imputations.
var MismatchTolerance = decimal.NewFromFloat(0.01)

// receiptNumberFormat matches the numbering the front office prints on paper
// receipts, e.g. "Rbo - 00000042".
const receiptNumberFormat = "Rbo - %08d"

// FormatReceiptNumber renders a sequential receipt number
func FormatReceiptNumber(seq int64) string {
	return fmt.Sprintf(receiptNumberFormat, seq)
}

// Receipt represents one payment transaction: a cash and/or transfer amount
// received from a client and imputed across one or more installments.
// Imputations are immutable once the receipt is persisted.
type Receipt struct {
	shared.BaseAggregateRoot
	ReceiptNumber  string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	ClientID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	LoanID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	PaymentDate    time.Time       `gorm:"type:date;not null;index"`
	CashAmount     decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	TransferAmount decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	TotalAmount    decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Imputations    Imputations     `gorm:"type:jsonb;default:'[]'"`
	Notes          string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Receipt) TableName() string {
	return "receipts"
}

// NewReceipt creates a receipt after validating the submission invariants
// that the UI does not enforce live:
//   - at least one imputation,
//   - a positive, currency-representable total (cash + transfer),
//   - imputations summing to the declared total within MismatchTolerance.
//
// The per-installment balance cap is re-checked against fresh rows by the
// application service inside the persistence transaction, not here.
func NewReceipt(
	receiptNumber string,
	clientID, loanID uuid.UUID,
	paymentDate time.Time,
	cash, transfer valueobject.Money,
	imputations Imputations,
	notes string,
) (*Receipt, error) {
	if receiptNumber == "" {
		return nil, shared.NewDomainError("INVALID_RECEIPT_NUMBER", "Receipt number cannot be empty")
	}
	if clientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CLIENT", "Client ID cannot be empty")
	}
	if loanID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LOAN", "Loan ID cannot be empty")
	}
	if paymentDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATE", "Payment date is required")
	}
	if cash.IsNegative() || transfer.IsNegative() {
		return nil, shared.ErrInvalidAmount
	}

	total := cash.MustAdd(transfer)
	if !total.IsPositive() || !total.IsRepresentable() {
		return nil, shared.ErrInvalidAmount
	}

	if len(imputations) == 0 {
		return nil, shared.ErrEmptySelection
	}
	for _, imp := range imputations {
		if imp.InstallmentID == uuid.Nil {
			return nil, shared.NewDomainError("INVALID_INSTALLMENT", "Imputation installment ID cannot be empty")
		}
		if !imp.Amount.IsPositive() {
			return nil, shared.ErrInvalidAmount
		}
	}

	if total.Amount().Sub(imputations.Total()).Abs().GreaterThan(MismatchTolerance) {
		return nil, shared.ErrAllocationMismatch
	}

	y, m, d := paymentDate.Date()

	return &Receipt{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ReceiptNumber:     receiptNumber,
		ClientID:          clientID,
		LoanID:            loanID,
		PaymentDate:       time.Date(y, m, d, 0, 0, 0, 0, paymentDate.Location()),
		CashAmount:        cash.Amount(),
		TransferAmount:    transfer.Amount(),
		TotalAmount:       total.Amount(),
		Imputations:       imputations,
		Notes:             notes,
	}, nil
}

// GetTotalAmountMoney returns the total as Money
func (r *Receipt) GetTotalAmountMoney() valueobject.Money {
	return valueobject.NewMoneyARS(r.TotalAmount)
}

// ImputationCount returns the number of installments this receipt touches
func (r *Receipt) ImputationCount() int {
	return len(r.Imputations)
}
