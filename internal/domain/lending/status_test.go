package lending

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := date(y, m, d)
	return &t
}

func TestClassifyInstallment(t *testing.T) {
	due := date(2024, time.January, 10)
	hundred := decimal.NewFromInt(100)

	tests := []struct {
		name       string
		due        time.Time
		reference  time.Time
		amountDue  decimal.Decimal
		amountPaid decimal.Decimal
		paidAt     *time.Time
		want       InstallmentStatus
	}{
		{"unpaid before due date", due, date(2024, time.January, 5), hundred, decimal.Zero, nil, InstallmentStatusUpcoming},
		{"unpaid on due date", due, date(2024, time.January, 10), hundred, decimal.Zero, nil, InstallmentStatusDueToday},
		{"unpaid past due date", due, date(2024, time.January, 15), hundred, decimal.Zero, nil, InstallmentStatusOverdue},
		{"partially paid past due date", due, date(2024, time.January, 15), hundred, decimal.NewFromInt(60), nil, InstallmentStatusOverdue},
		{"paid before due date", due, date(2024, time.February, 1), hundred, hundred, datePtr(2024, time.January, 8), InstallmentStatusPaidEarly},
		{"paid on due date", due, date(2024, time.February, 1), hundred, hundred, datePtr(2024, time.January, 10), InstallmentStatusPaidOnTime},
		{"paid after due date", due, date(2024, time.February, 1), hundred, hundred, datePtr(2024, time.January, 20), InstallmentStatusPaidLate},
		{"overpaid counts as paid", due, date(2024, time.February, 1), hundred, decimal.NewFromInt(120), datePtr(2024, time.January, 10), InstallmentStatusPaidOnTime},
		{"paid without recorded date falls back to on time", due, date(2024, time.February, 1), hundred, hundred, nil, InstallmentStatusPaidOnTime},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyInstallment(tt.due, tt.reference, tt.amountDue, tt.amountPaid, tt.paidAt)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassifyInstallment_IgnoresTimeOfDay(t *testing.T) {
	due := time.Date(2024, time.March, 15, 23, 59, 0, 0, time.UTC)
	ref := time.Date(2024, time.March, 15, 0, 1, 0, 0, time.UTC)

	got := ClassifyInstallment(due, ref, decimal.NewFromInt(50), decimal.Zero, nil)
	assert.Equal(t, InstallmentStatusDueToday, got)
}

func TestClassifyInstallment_IsPure(t *testing.T) {
	due := date(2024, time.January, 10)
	ref := date(2024, time.January, 15)
	amountDue := decimal.NewFromInt(100)

	first := ClassifyInstallment(due, ref, amountDue, decimal.Zero, nil)
	second := ClassifyInstallment(due, ref, amountDue, decimal.Zero, nil)
	assert.Equal(t, first, second)
	assert.Equal(t, InstallmentStatusOverdue, first)
}

func TestInstallmentStatus_IsValid(t *testing.T) {
	for _, s := range AllInstallmentStatuses() {
		assert.True(t, s.IsValid(), "%s should be valid", s)
	}
	assert.False(t, InstallmentStatus("PENDING").IsValid())
	assert.False(t, InstallmentStatus("").IsValid())
}

func TestInstallmentStatus_IsPaid(t *testing.T) {
	assert.True(t, InstallmentStatusPaidEarly.IsPaid())
	assert.True(t, InstallmentStatusPaidOnTime.IsPaid())
	assert.True(t, InstallmentStatusPaidLate.IsPaid())
	assert.False(t, InstallmentStatusOverdue.IsPaid())
	assert.False(t, InstallmentStatusUpcoming.IsPaid())
	assert.False(t, InstallmentStatusDueToday.IsPaid())
}
