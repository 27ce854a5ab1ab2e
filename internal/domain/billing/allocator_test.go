package billing

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/microcredit/backend/internal/domain/shared"
	"github.com/microcredit/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func outstanding(number int, due time.Time, balance float64) OutstandingInstallment {
	return OutstandingInstallment{
		ID:      uuid.New(),
		DueDate: due,
		Number:  number,
		Balance: valueobject.NewMoneyARSFromFloat(balance),
	}
}

func assertDomainCode(t *testing.T, err error, code string) {
	t.Helper()
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr), "expected a domain error, got %v", err)
	assert.Equal(t, code, domainErr.Code)
}

func TestAllocatePayment(t *testing.T) {
	jun := date(2024, time.June, 10)
	jul := date(2024, time.July, 10)

	t.Run("payment covers first installment and part of the second", func(t *testing.T) {
		a := outstanding(1, jun, 100)
		b := outstanding(2, jul, 50)

		result, err := AllocatePayment(valueobject.NewMoneyARSFromFloat(120), []OutstandingInstallment{a, b})
		require.NoError(t, err)

		require.Len(t, result.Imputations, 2)
		assert.Equal(t, a.ID, result.Imputations[0].InstallmentID)
		assert.Equal(t, "100.00", result.Imputations[0].Amount.StringFixed(2))
		assert.Equal(t, b.ID, result.Imputations[1].InstallmentID)
		assert.Equal(t, "20.00", result.Imputations[1].Amount.StringFixed(2))
		assert.True(t, result.Remaining.IsZero())
	})

	t.Run("partial payment leaves the installment open", func(t *testing.T) {
		a := outstanding(1, jun, 100)

		result, err := AllocatePayment(valueobject.NewMoneyARSFromFloat(50), []OutstandingInstallment{a})
		require.NoError(t, err)

		require.Len(t, result.Imputations, 1)
		assert.Equal(t, "50.00", result.Imputations[0].Amount.StringFixed(2))
		assert.True(t, result.Remaining.IsZero())
	})

	t.Run("no outstanding installments returns the full remainder", func(t *testing.T) {
		result, err := AllocatePayment(valueobject.NewMoneyARSFromFloat(75), nil)
		require.NoError(t, err)

		assert.Empty(t, result.Imputations)
		assert.Equal(t, "75.00", result.Remaining.StringFixed(2))
	})

	t.Run("payment exceeding all balances reports the surplus", func(t *testing.T) {
		a := outstanding(1, jun, 30)
		b := outstanding(2, jul, 30)

		result, err := AllocatePayment(valueobject.NewMoneyARSFromFloat(100), []OutstandingInstallment{a, b})
		require.NoError(t, err)

		require.Len(t, result.Imputations, 2)
		assert.Equal(t, "30.00", result.Imputations[0].Amount.StringFixed(2))
		assert.Equal(t, "30.00", result.Imputations[1].Amount.StringFixed(2))
		assert.Equal(t, "40.00", result.Remaining.StringFixed(2))
	})

	t.Run("stops at the first installment the payment cannot reach", func(t *testing.T) {
		a := outstanding(1, jun, 100)
		b := outstanding(2, jul, 100)
		c := outstanding(3, date(2024, time.August, 10), 100)

		result, err := AllocatePayment(valueobject.NewMoneyARSFromFloat(150), []OutstandingInstallment{a, b, c})
		require.NoError(t, err)

		require.Len(t, result.Imputations, 2)
		assert.Equal(t, a.ID, result.Imputations[0].InstallmentID)
		assert.Equal(t, b.ID, result.Imputations[1].InstallmentID)
	})

	t.Run("equal due dates break ties by installment number", func(t *testing.T) {
		a := outstanding(1, jun, 40)
		b := outstanding(2, jun, 40)

		result, err := AllocatePayment(valueobject.NewMoneyARSFromFloat(60), []OutstandingInstallment{a, b})
		require.NoError(t, err)

		require.Len(t, result.Imputations, 2)
		assert.Equal(t, a.ID, result.Imputations[0].InstallmentID)
		assert.Equal(t, "40.00", result.Imputations[0].Amount.StringFixed(2))
		assert.Equal(t, "20.00", result.Imputations[1].Amount.StringFixed(2))
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		_, err := AllocatePayment(valueobject.ZeroARS(), []OutstandingInstallment{outstanding(1, jun, 100)})
		assert.ErrorIs(t, err, shared.ErrInvalidAmount)

		_, err = AllocatePayment(valueobject.NewMoneyARSFromFloat(-10), nil)
		assert.ErrorIs(t, err, shared.ErrInvalidAmount)
	})

	t.Run("rejects sub-cent amount", func(t *testing.T) {
		sub, err := valueobject.NewMoneyARSFromString("10.005")
		require.NoError(t, err)
		_, err = AllocatePayment(sub, []OutstandingInstallment{outstanding(1, jun, 100)})
		assert.ErrorIs(t, err, shared.ErrInvalidAmount)
	})

	t.Run("rejects unsorted due dates", func(t *testing.T) {
		a := outstanding(1, jul, 100)
		b := outstanding(2, jun, 100)
		_, err := AllocatePayment(valueobject.NewMoneyARSFromFloat(50), []OutstandingInstallment{a, b})
		assertDomainCode(t, err, "UNSORTED_INSTALLMENTS")
	})

	t.Run("rejects unsorted numbers on equal due dates", func(t *testing.T) {
		a := outstanding(2, jun, 100)
		b := outstanding(1, jun, 100)
		_, err := AllocatePayment(valueobject.NewMoneyARSFromFloat(50), []OutstandingInstallment{a, b})
		assertDomainCode(t, err, "UNSORTED_INSTALLMENTS")
	})

	t.Run("rejects non-positive balances", func(t *testing.T) {
		bad := OutstandingInstallment{ID: uuid.New(), DueDate: jun, Number: 1, Balance: valueobject.ZeroARS()}
		_, err := AllocatePayment(valueobject.NewMoneyARSFromFloat(50), []OutstandingInstallment{bad})
		assertDomainCode(t, err, "INVALID_BALANCE")
	})
}

func TestAllocatePayment_Properties(t *testing.T) {
	installments := []OutstandingInstallment{
		outstanding(1, date(2024, time.March, 10), 333.34),
		outstanding(2, date(2024, time.April, 10), 333.33),
		outstanding(3, date(2024, time.May, 10), 333.33),
	}
	amounts := []float64{0.01, 100, 333.34, 500, 999.99, 1000, 1500.55}

	for _, amount := range amounts {
		payment := valueobject.NewMoneyARSFromFloat(amount)
		result, err := AllocatePayment(payment, installments)
		require.NoError(t, err)

		// Conservation: imputed + remaining == payment.
		assert.True(t, result.Imputations.Total().Add(result.Remaining.Amount()).Equal(payment.Amount()),
			"amount %v: imputed %v + remaining %v", amount, result.Imputations.Total(), result.Remaining)

		// Cap: no imputation exceeds the installment balance.
		for i, imp := range result.Imputations {
			assert.True(t, imp.Amount.LessThanOrEqual(installments[i].Balance.Amount()))
			assert.True(t, imp.Amount.IsPositive())
		}

		// Order: imputations follow the input sequence.
		for i, imp := range result.Imputations {
			assert.Equal(t, installments[i].ID, imp.InstallmentID)
		}

		// Determinism: a second pass over the same input is identical.
		again, err := AllocatePayment(payment, installments)
		require.NoError(t, err)
		assert.Equal(t, result, again)
	}
}

func TestAllocatePayment_DoesNotMutateInput(t *testing.T) {
	installments := []OutstandingInstallment{
		outstanding(1, date(2024, time.March, 10), 100),
		outstanding(2, date(2024, time.April, 10), 100),
	}
	before := make([]OutstandingInstallment, len(installments))
	copy(before, installments)

	_, err := AllocatePayment(valueobject.NewMoneyARSFromFloat(150), installments)
	require.NoError(t, err)
	assert.Equal(t, before, installments)
}
