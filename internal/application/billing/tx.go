package billing

import (
	"context"

	"github.com/microcredit/backend/internal/domain/billing"
	"github.com/microcredit/backend/internal/domain/lending"
)

// TransactionalRepositories provides access to the repositories participating
// in a receipt submission, all scoped to the same database transaction.
type TransactionalRepositories interface {
	Receipts() billing.Repository
	Installments() lending.InstallmentRepository
	Loans() lending.LoanRepository
}

// TransactionScope executes a function atomically. If the function returns an
// error the whole transaction is rolled back.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}
