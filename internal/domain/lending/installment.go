package lending

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/microcredit/backend/internal/domain/shared"
	"github.com/microcredit/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Installment represents one scheduled sub-payment of a loan. It is created
// in a batch when the schedule is generated, mutated only by payment
// application, and never deleted. AmountPaid is monotonically non-decreasing;
// the installment reaches its terminal state when the balance hits zero.
type Installment struct {
	shared.BaseAggregateRoot
	LoanID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Number     int             `gorm:"not null"` // sequence within the loan, 1-based
	Code       string          `gorm:"type:varchar(60);not null;uniqueIndex"`
	DueDate    time.Time       `gorm:"type:date;not null;index"`
	AmountDue  decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	AmountPaid decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	PaidAt     *time.Time      `gorm:"type:date"`
}

// TableName returns the table name for GORM
func (Installment) TableName() string {
	return "installments"
}

// NewInstallment creates one installment of a loan schedule
func NewInstallment(loanID uuid.UUID, loanCode string, number int, amountDue valueobject.Money, dueDate time.Time) (*Installment, error) {
	if loanID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LOAN", "Loan ID cannot be empty")
	}
	if number < 1 {
		return nil, shared.NewDomainError("INVALID_INSTALLMENTS", "Installment number must be positive")
	}
	if !amountDue.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Installment amount must be positive")
	}

	return &Installment{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		LoanID:            loanID,
		Number:            number,
		Code:              fmt.Sprintf("%s-C%d", loanCode, number),
		DueDate:           truncateToDate(dueDate),
		AmountDue:         amountDue.Amount(),
		AmountPaid:        decimal.Zero,
	}, nil
}

// Balance returns the remaining unpaid amount, floored at zero. A stored
// paid amount above the amount due is a data error; reads never propagate it
// as a negative balance.
func (i *Installment) Balance() valueobject.Money {
	balance := i.AmountDue.Sub(i.AmountPaid)
	if balance.IsNegative() {
		return valueobject.ZeroARS()
	}
	return valueobject.NewMoneyARS(balance)
}

// IsPaid returns true if the installment has no remaining balance
func (i *Installment) IsPaid() bool {
	return i.AmountPaid.GreaterThanOrEqual(i.AmountDue)
}

// ApplyPayment records part of a payment against this installment. The amount
// must be positive and cannot exceed the current balance; when the balance
// reaches zero the payment date is recorded and the installment is terminal.
func (i *Installment) ApplyPayment(amount valueobject.Money, when time.Time) error {
	if !amount.IsPositive() {
		return shared.ErrInvalidAmount
	}
	if !amount.IsRepresentable() {
		return shared.ErrInvalidAmount
	}
	if amount.Amount().GreaterThan(i.Balance().Amount()) {
		return shared.ErrStaleBalance
	}

	i.AmountPaid = i.AmountPaid.Add(amount.Amount())
	if i.IsPaid() {
		paidAt := truncateToDate(when)
		i.PaidAt = &paidAt
	}
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
	return nil
}

// Status derives the display status for the given reference date
func (i *Installment) Status(referenceDate time.Time) InstallmentStatus {
	return ClassifyInstallment(i.DueDate, referenceDate, i.AmountDue, i.AmountPaid, i.PaidAt)
}
