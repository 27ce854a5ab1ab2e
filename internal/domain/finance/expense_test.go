package finance

import (
	"strings"
	"testing"
	"time"

	"github.com/microcredit/backend/internal/domain/shared"
	"github.com/microcredit/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestExpense(t *testing.T) *Expense {
	expense, err := NewExpense(
		ExpenseCategoryRent,
		valueobject.NewMoneyARSFromFloat(1500),
		"office rent june",
		time.Date(2024, time.June, 1, 11, 45, 0, 0, time.UTC),
		PaymentMethodTransfer,
	)
	require.NoError(t, err)
	return expense
}

func TestNewExpense(t *testing.T) {
	t.Run("creates expense with date-only incurred timestamp", func(t *testing.T) {
		expense := newTestExpense(t)
		assert.Equal(t, ExpenseCategoryRent, expense.Category)
		assert.Equal(t, "1500.00", expense.Amount.StringFixed(2))
		assert.Equal(t, time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC), expense.IncurredAt)
		assert.Equal(t, 1, expense.GetVersion())
	})

	t.Run("rejects invalid inputs", func(t *testing.T) {
		amount := valueobject.NewMoneyARSFromFloat(100)
		incurred := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)

		_, err := NewExpense(ExpenseCategory("FOOD"), amount, "lunch", incurred, PaymentMethodCash)
		assert.Error(t, err)

		_, err = NewExpense(ExpenseCategoryOther, valueobject.ZeroARS(), "x", incurred, PaymentMethodCash)
		assert.ErrorIs(t, err, shared.ErrInvalidAmount)

		_, err = NewExpense(ExpenseCategoryOther, amount, "", incurred, PaymentMethodCash)
		assert.Error(t, err)

		_, err = NewExpense(ExpenseCategoryOther, amount, strings.Repeat("x", 501), incurred, PaymentMethodCash)
		assert.Error(t, err)

		_, err = NewExpense(ExpenseCategoryOther, amount, "x", time.Time{}, PaymentMethodCash)
		assert.Error(t, err)

		_, err = NewExpense(ExpenseCategoryOther, amount, "x", incurred, PaymentMethod("CHECK"))
		assert.Error(t, err)
	})
}

func TestExpense_Update(t *testing.T) {
	expense := newTestExpense(t)
	v := expense.GetVersion()

	err := expense.Update(
		ExpenseCategoryUtilities,
		valueobject.NewMoneyARSFromFloat(320.50),
		"electricity june",
		time.Date(2024, time.June, 5, 0, 0, 0, 0, time.UTC),
		PaymentMethodCash,
	)
	require.NoError(t, err)

	assert.Equal(t, ExpenseCategoryUtilities, expense.Category)
	assert.Equal(t, "320.50", expense.Amount.StringFixed(2))
	assert.Equal(t, v+1, expense.GetVersion())

	assert.Error(t, expense.Update(
		ExpenseCategoryUtilities,
		valueobject.NewMoneyARSFromFloat(-5),
		"electricity june",
		time.Date(2024, time.June, 5, 0, 0, 0, 0, time.UTC),
		PaymentMethodCash,
	))
}

func TestExpenseCategory(t *testing.T) {
	for _, c := range AllExpenseCategories() {
		assert.True(t, c.IsValid(), "category %s", c)
	}
	assert.False(t, ExpenseCategory("FOOD").IsValid())
	assert.Equal(t, "TAXES", ExpenseCategoryTaxes.String())
}

func TestPaymentMethod(t *testing.T) {
	assert.True(t, PaymentMethodCash.IsValid())
	assert.True(t, PaymentMethodTransfer.IsValid())
	assert.False(t, PaymentMethod("CHECK").IsValid())
}
