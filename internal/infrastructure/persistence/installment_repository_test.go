package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/microcredit/backend/internal/domain/lending"
	"github.com/microcredit/backend/internal/domain/shared"
	"github.com/microcredit/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPaidInstallment(t *testing.T) *lending.Installment {
	t.Helper()
	inst, err := lending.NewInstallment(
		uuid.New(), "PRE-0001", 1,
		valueobject.NewMoneyARS(decimal.NewFromInt(100)),
		time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	require.NoError(t, inst.ApplyPayment(valueobject.NewMoneyARS(decimal.NewFromInt(40)), time.Now()))
	return inst
}

func TestGormInstallmentRepository_SaveWithLock(t *testing.T) {
	t.Run("updates the row when the version matches", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormInstallmentRepository(gormDB)

		inst := newPaidInstallment(t)

		mock.ExpectExec(`UPDATE "installments" SET .* WHERE \(id = \$\d+ AND version = \$\d+\).*`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.SaveWithLock(context.Background(), inst)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("reports a conflict when no row matches the loaded version", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormInstallmentRepository(gormDB)

		inst := newPaidInstallment(t)

		mock.ExpectExec(`UPDATE "installments" SET .* WHERE \(id = \$\d+ AND version = \$\d+\).*`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.SaveWithLock(context.Background(), inst)

		assert.Equal(t, shared.ErrConcurrencyConflict, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormInstallmentRepository_FindPendingByLoans(t *testing.T) {
	t.Run("empty loan list short-circuits", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormInstallmentRepository(gormDB)

		installments, err := repo.FindPendingByLoans(context.Background(), nil)

		assert.NoError(t, err)
		assert.Empty(t, installments)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("orders pending rows by due date then number", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormInstallmentRepository(gormDB)

		loanID := uuid.New()
		rows := sqlmock.NewRows([]string{"id", "loan_id", "number", "code", "due_date", "amount_due", "amount_paid", "version"}).
			AddRow(uuid.New(), loanID, 1, "PRE-0001-C1", time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC), decimal.NewFromInt(100), decimal.Zero, 1).
			AddRow(uuid.New(), loanID, 2, "PRE-0001-C2", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), decimal.NewFromInt(100), decimal.Zero, 1)

		mock.ExpectQuery(`SELECT \* FROM "installments" WHERE loan_id IN \(\$1\) AND amount_paid < amount_due ORDER BY due_date ASC, number ASC`).
			WithArgs(loanID).
			WillReturnRows(rows)

		installments, err := repo.FindPendingByLoans(context.Background(), []uuid.UUID{loanID})

		assert.NoError(t, err)
		require.Len(t, installments, 2)
		assert.Equal(t, 1, installments[0].Number)
		assert.Equal(t, 2, installments[1].Number)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
