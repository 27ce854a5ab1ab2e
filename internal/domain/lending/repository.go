package lending

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/microcredit/backend/internal/domain/shared"
)

// LoanRepository defines persistence operations for loans
type LoanRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Loan, error)
	FindByCode(ctx context.Context, code string) (*Loan, error)
	FindByClient(ctx context.Context, clientID uuid.UUID) ([]Loan, error)
	FindActiveByClient(ctx context.Context, clientID uuid.UUID) ([]Loan, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Loan, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	CountByStatus(ctx context.Context, status LoanStatus) (int64, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	NextCode(ctx context.Context) (string, error)
	Save(ctx context.Context, loan *Loan) error
}

// InstallmentFilter narrows installment queries
type InstallmentFilter struct {
	LoanID      *uuid.UUID
	ClientID    *uuid.UUID
	DueFrom     *time.Time
	DueTo       *time.Time
	OnlyPending bool
}

// InstallmentRepository defines persistence operations for installments.
// Pending-installment queries return rows ordered by due date ascending with
// the installment number as tie-break; the payment allocator depends on that
// ordering contract.
type InstallmentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Installment, error)
	FindByLoan(ctx context.Context, loanID uuid.UUID) ([]Installment, error)
	FindPendingByLoans(ctx context.Context, loanIDs []uuid.UUID) ([]Installment, error)
	Find(ctx context.Context, filter InstallmentFilter) ([]Installment, error)
	HasSchedule(ctx context.Context, loanID uuid.UUID) (bool, error)
	CountPendingByLoan(ctx context.Context, loanID uuid.UUID) (int64, error)
	SaveBatch(ctx context.Context, installments []*Installment) error
	// SaveWithLock persists the installment only if the stored version matches
	// the version the aggregate was loaded with; a mismatch reports a
	// concurrency conflict.
	SaveWithLock(ctx context.Context, installment *Installment) error
}
