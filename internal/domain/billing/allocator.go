package billing

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/microcredit/backend/internal/domain/shared"
	"github.com/microcredit/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// OutstandingInstallment is the allocator's view of one unpaid installment:
// just enough to allocate against it and to verify the caller's ordering.
type OutstandingInstallment struct {
	ID      uuid.UUID
	DueDate time.Time
	Number  int
	Balance valueobject.Money
}

// Imputation assigns part of a single payment to a single installment. The
// slice form implements GORM Scanner/Valuer so receipts store their
// imputations as a JSONB column.
type Imputation struct {
	InstallmentID uuid.UUID       `json:"installment_id"`
	Amount        decimal.Decimal `json:"imputed_amount"`
}

// Imputations is a slice of Imputation stored as JSONB
type Imputations []Imputation

// Value implements driver.Valuer interface for GORM to store as JSONB
func (im Imputations) Value() (driver.Value, error) {
	if im == nil {
		return "[]", nil
	}
	return json.Marshal(im)
}

// Scan implements sql.Scanner interface for GORM to read from JSONB
func (im *Imputations) Scan(value interface{}) error {
	if value == nil {
		*im = Imputations{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan Imputations: unsupported type")
	}

	if len(bytes) == 0 {
		*im = Imputations{}
		return nil
	}

	return json.Unmarshal(bytes, im)
}

// Total returns the sum of all imputed amounts
func (im Imputations) Total() decimal.Decimal {
	total := decimal.Zero
	for _, i := range im {
		total = total.Add(i.Amount)
	}
	return total
}

// AllocationResult is the outcome of distributing a payment. A positive
// Remaining is a valid outcome, not an error: it means the outstanding
// balances could not absorb the full payment and the caller decides whether
// to reject, warn, or carry it forward.
type AllocationResult struct {
	Imputations Imputations
	Remaining   valueobject.Money
}

// AllocatePayment distributes totalAmount across the given installments in
// order: earliest due date first, installment number as tie-break. Each
// installment absorbs min(remaining, balance); the pass stops as soon as the
// payment is exhausted. Arithmetic is exact decimal at currency precision —
// no epsilon comparisons.
//
// The installments must arrive pre-sorted (the same order the operator sees
// on screen); unsorted input is rejected rather than silently re-sorted so
// the suggestion can never diverge from what was displayed.
func AllocatePayment(totalAmount valueobject.Money, installments []OutstandingInstallment) (*AllocationResult, error) {
	if !totalAmount.IsPositive() || !totalAmount.IsRepresentable() {
		return nil, shared.ErrInvalidAmount
	}
	if err := validateAllocationInput(installments); err != nil {
		return nil, err
	}

	imputations := make(Imputations, 0, len(installments))
	remaining := totalAmount

	for _, inst := range installments {
		if remaining.IsZero() {
			break
		}
		take, err := remaining.Min(inst.Balance)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_CURRENCY", err.Error())
		}
		if !take.IsPositive() {
			continue
		}
		imputations = append(imputations, Imputation{
			InstallmentID: inst.ID,
			Amount:        take.Amount(),
		})
		remaining = remaining.MustSubtract(take)
	}

	return &AllocationResult{
		Imputations: imputations,
		Remaining:   remaining,
	}, nil
}

// validateAllocationInput checks the per-installment balance invariant and
// the due-date/number ordering contract.
func validateAllocationInput(installments []OutstandingInstallment) error {
	for i, inst := range installments {
		if inst.ID == uuid.Nil {
			return shared.NewDomainError("INVALID_INSTALLMENT", "Installment ID cannot be empty")
		}
		if !inst.Balance.IsPositive() {
			return shared.NewDomainError("INVALID_BALANCE", "Installment balance must be positive")
		}
		if i == 0 {
			continue
		}
		prev := installments[i-1]
		if inst.DueDate.Before(prev.DueDate) {
			return shared.NewDomainError("UNSORTED_INSTALLMENTS", "Installments must be sorted by due date ascending")
		}
		if inst.DueDate.Equal(prev.DueDate) && inst.Number < prev.Number {
			return shared.NewDomainError("UNSORTED_INSTALLMENTS", "Installments with equal due dates must be sorted by number")
		}
	}
	return nil
}
