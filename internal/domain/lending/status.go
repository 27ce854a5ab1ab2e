package lending

import (
	"time"

	"github.com/shopspring/decimal"
)

// InstallmentStatus is the derived display status of an installment. It is a
// closed set: three states for unpaid installments relative to a reference
// date, three for paid ones relative to their due date.
type InstallmentStatus string

const (
	InstallmentStatusUpcoming   InstallmentStatus = "UPCOMING"
	InstallmentStatusDueToday   InstallmentStatus = "DUE_TODAY"
	InstallmentStatusOverdue    InstallmentStatus = "OVERDUE"
	InstallmentStatusPaidEarly  InstallmentStatus = "PAID_EARLY"
	InstallmentStatusPaidOnTime InstallmentStatus = "PAID_ON_TIME"
	InstallmentStatusPaidLate   InstallmentStatus = "PAID_LATE"
)

// IsValid checks if the status is a valid InstallmentStatus
func (s InstallmentStatus) IsValid() bool {
	switch s {
	case InstallmentStatusUpcoming, InstallmentStatusDueToday, InstallmentStatusOverdue,
		InstallmentStatusPaidEarly, InstallmentStatusPaidOnTime, InstallmentStatusPaidLate:
		return true
	}
	return false
}

// String returns the string representation of InstallmentStatus
func (s InstallmentStatus) String() string {
	return string(s)
}

// IsPaid returns true for the three paid statuses
func (s InstallmentStatus) IsPaid() bool {
	return s == InstallmentStatusPaidEarly || s == InstallmentStatusPaidOnTime || s == InstallmentStatusPaidLate
}

// AllInstallmentStatuses lists every status in bucket-display order
func AllInstallmentStatuses() []InstallmentStatus {
	return []InstallmentStatus{
		InstallmentStatusUpcoming,
		InstallmentStatusDueToday,
		InstallmentStatusOverdue,
		InstallmentStatusPaidEarly,
		InstallmentStatusPaidOnTime,
		InstallmentStatusPaidLate,
	}
}

// ClassifyInstallment derives the display status of an installment. It is a
// pure function: the reference date is passed in explicitly and the clock is
// never read here, so identical inputs always yield identical output.
//
// A fully paid installment with no recorded payment date (legacy rows) is
// reported as PAID_ON_TIME rather than rejected.
func ClassifyInstallment(dueDate, referenceDate time.Time, amountDue, amountPaid decimal.Decimal, paidAt *time.Time) InstallmentStatus {
	due := truncateToDate(dueDate)

	if amountPaid.GreaterThanOrEqual(amountDue) {
		if paidAt == nil {
			return InstallmentStatusPaidOnTime
		}
		paid := truncateToDate(*paidAt)
		switch {
		case paid.Before(due):
			return InstallmentStatusPaidEarly
		case paid.After(due):
			return InstallmentStatusPaidLate
		default:
			return InstallmentStatusPaidOnTime
		}
	}

	ref := truncateToDate(referenceDate)
	switch {
	case due.Before(ref):
		return InstallmentStatusOverdue
	case due.After(ref):
		return InstallmentStatusUpcoming
	default:
		return InstallmentStatusDueToday
	}
}
