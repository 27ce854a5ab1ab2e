package lending

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/microcredit/backend/internal/domain/shared"
	"github.com/microcredit/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// LoanStatus represents the lifecycle state of a loan
type LoanStatus string

const (
	LoanStatusActive    LoanStatus = "ACTIVE"    // Disbursed, installments outstanding
	LoanStatusFinished  LoanStatus = "FINISHED"  // All installments fully paid
	LoanStatusDefaulted LoanStatus = "DEFAULTED" // Written off after prolonged arrears
	LoanStatusCancelled LoanStatus = "CANCELLED" // Cancelled before disbursement
)

// IsValid checks if the status is a valid LoanStatus
func (s LoanStatus) IsValid() bool {
	switch s {
	case LoanStatusActive, LoanStatusFinished, LoanStatusDefaulted, LoanStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of LoanStatus
func (s LoanStatus) String() string {
	return string(s)
}

// IsTerminal returns true if the loan is in a terminal state
func (s LoanStatus) IsTerminal() bool {
	return s == LoanStatusFinished || s == LoanStatusDefaulted || s == LoanStatusCancelled
}

// Loan represents a disbursed credit with a monthly repayment schedule.
// It is the aggregate root that owns the ordered collection of installments.
type Loan struct {
	shared.BaseAggregateRoot
	Code              string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	ClientID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	Principal         decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	InterestRate      decimal.Decimal `gorm:"type:decimal(8,4);not null"` // percent, e.g. 15 = 15%
	TotalToRepay      decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	InstallmentsTotal int             `gorm:"not null"`
	StartDate         time.Time       `gorm:"type:date;not null"`
	EndDate           time.Time       `gorm:"type:date;not null"`
	Status            LoanStatus      `gorm:"type:varchar(20);not null;default:'ACTIVE';index"`
	Notes             string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Loan) TableName() string {
	return "loans"
}

// NewLoan creates a new active loan. The total to repay is derived from the
// principal and the interest rate (flat rate over the loan term) and rounded
// to currency precision; installments are generated separately via
// GenerateSchedule.
func NewLoan(code string, clientID uuid.UUID, principal valueobject.Money, interestRate decimal.Decimal, installmentsTotal int, startDate time.Time) (*Loan, error) {
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Loan code cannot be empty")
	}
	if len(code) > 50 {
		return nil, shared.NewDomainError("INVALID_CODE", "Loan code cannot exceed 50 characters")
	}
	if clientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CLIENT", "Client ID cannot be empty")
	}
	if !principal.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Principal must be positive")
	}
	if !principal.IsRepresentable() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Principal must be representable at currency precision")
	}
	if interestRate.IsNegative() {
		return nil, shared.NewDomainError("INVALID_RATE", "Interest rate cannot be negative")
	}
	if installmentsTotal < 1 {
		return nil, shared.NewDomainError("INVALID_INSTALLMENTS", "A loan requires at least one installment")
	}
	if startDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATE", "Start date is required")
	}

	factor := decimal.NewFromInt(1).Add(interestRate.Div(decimal.NewFromInt(100)))
	total := principal.Amount().Mul(factor).Round(valueobject.CurrencyPrecision)

	start := truncateToDate(startDate)

	return &Loan{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(code),
		ClientID:          clientID,
		Principal:         principal.Amount(),
		InterestRate:      interestRate,
		TotalToRepay:      total,
		InstallmentsTotal: installmentsTotal,
		StartDate:         start,
		EndDate:           start.AddDate(0, installmentsTotal, 0),
		Status:            LoanStatusActive,
	}, nil
}

// GenerateSchedule creates the loan's installments: one per month starting one
// month after the start date. The total to repay is split across installments
// with cent-level remainder correction so the schedule sums exactly to it.
func (l *Loan) GenerateSchedule() ([]*Installment, error) {
	if l.Status != LoanStatusActive {
		return nil, shared.NewDomainError("INVALID_STATE", "Schedule can only be generated for an active loan")
	}

	parts, err := valueobject.NewMoneyARS(l.TotalToRepay).Allocate(l.InstallmentsTotal)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_INSTALLMENTS", err.Error())
	}

	installments := make([]*Installment, 0, l.InstallmentsTotal)
	for i := 1; i <= l.InstallmentsTotal; i++ {
		inst, err := NewInstallment(l.ID, l.Code, i, parts[i-1], l.StartDate.AddDate(0, i, 0))
		if err != nil {
			return nil, err
		}
		installments = append(installments, inst)
	}
	return installments, nil
}

// Finish marks the loan as fully repaid. The caller must have verified that
// every installment balance is zero.
func (l *Loan) Finish() error {
	if l.Status != LoanStatusActive {
		return shared.NewDomainError("INVALID_STATE", "Only an active loan can be finished")
	}
	l.Status = LoanStatusFinished
	l.touch()
	return nil
}

// MarkDefaulted marks the loan as defaulted
func (l *Loan) MarkDefaulted() error {
	if l.Status != LoanStatusActive {
		return shared.NewDomainError("INVALID_STATE", "Only an active loan can be marked defaulted")
	}
	l.Status = LoanStatusDefaulted
	l.touch()
	return nil
}

// Cancel cancels the loan
func (l *Loan) Cancel() error {
	if l.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Loan is already in a terminal state")
	}
	l.Status = LoanStatusCancelled
	l.touch()
	return nil
}

// SetNotes sets free-text notes
func (l *Loan) SetNotes(notes string) {
	l.Notes = notes
	l.touch()
}

// IsActive returns true if the loan can receive payments
func (l *Loan) IsActive() bool {
	return l.Status == LoanStatusActive
}

func (l *Loan) touch() {
	l.UpdatedAt = time.Now()
	l.IncrementVersion()
}

// truncateToDate strips the time-of-day component, keeping the calendar date
// in the original location.
func truncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
