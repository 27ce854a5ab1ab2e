package billing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/microcredit/backend/internal/domain/shared"
	"github.com/microcredit/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testImputations(amounts ...float64) Imputations {
	imps := make(Imputations, 0, len(amounts))
	for _, a := range amounts {
		imps = append(imps, Imputation{
			InstallmentID: uuid.New(),
			Amount:        decimal.NewFromFloat(a),
		})
	}
	return imps
}

func TestFormatReceiptNumber(t *testing.T) {
	assert.Equal(t, "Rbo - 00000001", FormatReceiptNumber(1))
	assert.Equal(t, "Rbo - 00000042", FormatReceiptNumber(42))
	assert.Equal(t, "Rbo - 12345678", FormatReceiptNumber(12345678))
}

func TestNewReceipt(t *testing.T) {
	clientID := uuid.New()
	loanID := uuid.New()
	paymentDate := time.Date(2024, time.June, 10, 15, 30, 0, 0, time.UTC)

	t.Run("creates receipt with cash and transfer split", func(t *testing.T) {
		receipt, err := NewReceipt(
			"Rbo - 00000001",
			clientID, loanID,
			paymentDate,
			valueobject.NewMoneyARSFromFloat(80),
			valueobject.NewMoneyARSFromFloat(40),
			testImputations(100, 20),
			"paid at branch",
		)
		require.NoError(t, err)

		assert.Equal(t, "120.00", receipt.TotalAmount.StringFixed(2))
		assert.Equal(t, 2, receipt.ImputationCount())
		assert.Equal(t, 1, receipt.GetVersion())
		assert.Equal(t, time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC), receipt.PaymentDate,
			"payment date is stored without time of day")
	})

	t.Run("cash only", func(t *testing.T) {
		receipt, err := NewReceipt(
			"Rbo - 00000002",
			clientID, loanID,
			paymentDate,
			valueobject.NewMoneyARSFromFloat(50),
			valueobject.ZeroARS(),
			testImputations(50),
			"",
		)
		require.NoError(t, err)
		assert.Equal(t, "50.00", receipt.TotalAmount.StringFixed(2))
	})

	t.Run("rejects empty imputations", func(t *testing.T) {
		_, err := NewReceipt(
			"Rbo - 00000003",
			clientID, loanID,
			paymentDate,
			valueobject.NewMoneyARSFromFloat(50),
			valueobject.ZeroARS(),
			nil,
			"",
		)
		assert.ErrorIs(t, err, shared.ErrEmptySelection)
	})

	t.Run("rejects zero total", func(t *testing.T) {
		_, err := NewReceipt(
			"Rbo - 00000004",
			clientID, loanID,
			paymentDate,
			valueobject.ZeroARS(),
			valueobject.ZeroARS(),
			testImputations(10),
			"",
		)
		assert.ErrorIs(t, err, shared.ErrInvalidAmount)
	})

	t.Run("rejects negative cash or transfer", func(t *testing.T) {
		_, err := NewReceipt(
			"Rbo - 00000005",
			clientID, loanID,
			paymentDate,
			valueobject.NewMoneyARSFromFloat(-10),
			valueobject.NewMoneyARSFromFloat(60),
			testImputations(50),
			"",
		)
		assert.ErrorIs(t, err, shared.ErrInvalidAmount)
	})

	t.Run("rejects non-positive imputation amount", func(t *testing.T) {
		imps := Imputations{{InstallmentID: uuid.New(), Amount: decimal.Zero}}
		_, err := NewReceipt(
			"Rbo - 00000006",
			clientID, loanID,
			paymentDate,
			valueobject.NewMoneyARSFromFloat(50),
			valueobject.ZeroARS(),
			imps,
			"",
		)
		assert.ErrorIs(t, err, shared.ErrInvalidAmount)
	})

	t.Run("rejects mismatch beyond tolerance", func(t *testing.T) {
		_, err := NewReceipt(
			"Rbo - 00000007",
			clientID, loanID,
			paymentDate,
			valueobject.NewMoneyARSFromFloat(100),
			valueobject.ZeroARS(),
			testImputations(50, 49.98),
			"",
		)
		assert.ErrorIs(t, err, shared.ErrAllocationMismatch)
	})

	t.Run("accepts mismatch within tolerance", func(t *testing.T) {
		receipt, err := NewReceipt(
			"Rbo - 00000008",
			clientID, loanID,
			paymentDate,
			valueobject.NewMoneyARSFromFloat(100),
			valueobject.ZeroARS(),
			testImputations(50, 49.99),
			"",
		)
		require.NoError(t, err)
		assert.Equal(t, "100.00", receipt.TotalAmount.StringFixed(2))
	})

	t.Run("rejects missing identifiers", func(t *testing.T) {
		cash := valueobject.NewMoneyARSFromFloat(50)
		imps := testImputations(50)

		_, err := NewReceipt("", clientID, loanID, paymentDate, cash, valueobject.ZeroARS(), imps, "")
		assert.Error(t, err)

		_, err = NewReceipt("Rbo - 00000009", uuid.Nil, loanID, paymentDate, cash, valueobject.ZeroARS(), imps, "")
		assert.Error(t, err)

		_, err = NewReceipt("Rbo - 00000009", clientID, uuid.Nil, paymentDate, cash, valueobject.ZeroARS(), imps, "")
		assert.Error(t, err)

		_, err = NewReceipt("Rbo - 00000009", clientID, loanID, time.Time{}, cash, valueobject.ZeroARS(), imps, "")
		assert.Error(t, err)
	})
}

func TestImputations_ScanValue(t *testing.T) {
	imps := testImputations(100, 20)

	value, err := imps.Value()
	require.NoError(t, err)

	var restored Imputations
	require.NoError(t, restored.Scan(value))
	require.Len(t, restored, 2)
	assert.Equal(t, imps[0].InstallmentID, restored[0].InstallmentID)
	assert.True(t, imps[0].Amount.Equal(restored[0].Amount))

	var empty Imputations
	require.NoError(t, empty.Scan(nil))
	assert.Empty(t, empty)

	assert.Error(t, restored.Scan(42))
}
