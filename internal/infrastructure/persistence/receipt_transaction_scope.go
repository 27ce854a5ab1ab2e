package persistence

import (
	"context"

	appbilling "github.com/microcredit/backend/internal/application/billing"
	"github.com/microcredit/backend/internal/domain/billing"
	"github.com/microcredit/backend/internal/domain/lending"
	"gorm.io/gorm"
)

// GormReceiptTransactionScope implements the receipt submission transaction
// boundary using GORM transactions. Everything the submission touches, the
// receipt row, the installment updates and the loan status, commits or rolls
// back together.
type GormReceiptTransactionScope struct {
	db *gorm.DB
}

// NewGormReceiptTransactionScope creates a new GormReceiptTransactionScope
func NewGormReceiptTransactionScope(db *gorm.DB) *GormReceiptTransactionScope {
	return &GormReceiptTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormReceiptTransactionScope) Execute(ctx context.Context, fn func(repos appbilling.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// gormTransactionalRepositories provides repositories scoped to one transaction
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// Receipts returns the receipt repository scoped to the current transaction
func (r *gormTransactionalRepositories) Receipts() billing.Repository {
	return NewGormReceiptRepository(r.tx)
}

// Installments returns the installment repository scoped to the current transaction
func (r *gormTransactionalRepositories) Installments() lending.InstallmentRepository {
	return NewGormInstallmentRepository(r.tx)
}

// Loans returns the loan repository scoped to the current transaction
func (r *gormTransactionalRepositories) Loans() lending.LoanRepository {
	return NewGormLoanRepository(r.tx)
}

// Ensure GormReceiptTransactionScope implements TransactionScope
var _ appbilling.TransactionScope = (*GormReceiptTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements TransactionalRepositories
var _ appbilling.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
