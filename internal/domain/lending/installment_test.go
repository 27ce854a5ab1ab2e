package lending

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/microcredit/backend/internal/domain/shared"
	"github.com/microcredit/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestInstallment(t *testing.T, amount float64) *Installment {
	inst, err := NewInstallment(
		uuid.New(),
		"PRE-0001",
		1,
		valueobject.NewMoneyARSFromFloat(amount),
		date(2024, time.June, 10),
	)
	require.NoError(t, err)
	return inst
}

func TestNewInstallment(t *testing.T) {
	t.Run("creates unpaid installment", func(t *testing.T) {
		inst := newTestInstallment(t, 250)
		assert.Equal(t, "PRE-0001-C1", inst.Code)
		assert.True(t, inst.AmountPaid.IsZero())
		assert.Nil(t, inst.PaidAt)
		assert.False(t, inst.IsPaid())
		assert.Equal(t, "250.00", inst.Balance().StringFixed(2))
	})

	t.Run("rejects invalid inputs", func(t *testing.T) {
		amount := valueobject.NewMoneyARSFromFloat(100)
		due := date(2024, time.June, 10)

		_, err := NewInstallment(uuid.Nil, "PRE-1", 1, amount, due)
		assert.Error(t, err)

		_, err = NewInstallment(uuid.New(), "PRE-1", 0, amount, due)
		assert.Error(t, err)

		_, err = NewInstallment(uuid.New(), "PRE-1", 1, valueobject.ZeroARS(), due)
		assert.Error(t, err)
	})
}

func TestInstallment_ApplyPayment(t *testing.T) {
	t.Run("partial payment keeps installment open", func(t *testing.T) {
		inst := newTestInstallment(t, 100)
		err := inst.ApplyPayment(valueobject.NewMoneyARSFromFloat(40), date(2024, time.June, 5))
		require.NoError(t, err)

		assert.Equal(t, "60.00", inst.Balance().StringFixed(2))
		assert.False(t, inst.IsPaid())
		assert.Nil(t, inst.PaidAt)
	})

	t.Run("payment reaching zero records the paid date", func(t *testing.T) {
		inst := newTestInstallment(t, 100)
		require.NoError(t, inst.ApplyPayment(valueobject.NewMoneyARSFromFloat(40), date(2024, time.June, 5)))
		require.NoError(t, inst.ApplyPayment(valueobject.NewMoneyARSFromFloat(60), date(2024, time.June, 8)))

		assert.True(t, inst.IsPaid())
		require.NotNil(t, inst.PaidAt)
		assert.Equal(t, date(2024, time.June, 8), *inst.PaidAt)
		assert.True(t, inst.Balance().IsZero())
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		inst := newTestInstallment(t, 100)
		err := inst.ApplyPayment(valueobject.ZeroARS(), date(2024, time.June, 5))
		assert.ErrorIs(t, err, shared.ErrInvalidAmount)
	})

	t.Run("rejects amount above balance", func(t *testing.T) {
		inst := newTestInstallment(t, 100)
		err := inst.ApplyPayment(valueobject.NewMoneyARSFromFloat(100.01), date(2024, time.June, 5))

		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "STALE_BALANCE", domainErr.Code)
		assert.True(t, inst.AmountPaid.IsZero(), "rejected payment must not mutate the installment")
	})

	t.Run("rejects sub-cent amounts", func(t *testing.T) {
		inst := newTestInstallment(t, 100)
		sub, err := valueobject.NewMoneyARSFromString("10.005")
		require.NoError(t, err)
		assert.ErrorIs(t, inst.ApplyPayment(sub, date(2024, time.June, 5)), shared.ErrInvalidAmount)
	})

	t.Run("version bumps on every applied payment", func(t *testing.T) {
		inst := newTestInstallment(t, 100)
		v := inst.GetVersion()
		require.NoError(t, inst.ApplyPayment(valueobject.NewMoneyARSFromFloat(10), date(2024, time.June, 5)))
		assert.Equal(t, v+1, inst.GetVersion())
	})
}

func TestInstallment_BalanceFloorsNegative(t *testing.T) {
	inst := newTestInstallment(t, 100)
	inst.AmountPaid = decimal.NewFromInt(120) // corrupt row
	assert.True(t, inst.Balance().IsZero())
}

func TestInstallment_Status(t *testing.T) {
	inst := newTestInstallment(t, 100)
	assert.Equal(t, InstallmentStatusUpcoming, inst.Status(date(2024, time.June, 1)))
	assert.Equal(t, InstallmentStatusDueToday, inst.Status(date(2024, time.June, 10)))
	assert.Equal(t, InstallmentStatusOverdue, inst.Status(date(2024, time.June, 11)))

	require.NoError(t, inst.ApplyPayment(valueobject.NewMoneyARSFromFloat(100), date(2024, time.June, 9)))
	assert.Equal(t, InstallmentStatusPaidEarly, inst.Status(date(2024, time.July, 1)))
}
