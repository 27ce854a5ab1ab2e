package finance

import (
	"time"

	"github.com/microcredit/backend/internal/domain/shared"
	"github.com/microcredit/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ExpenseCategory represents the category of an operating expense
type ExpenseCategory string

const (
	ExpenseCategoryRent      ExpenseCategory = "RENT"
	ExpenseCategoryUtilities ExpenseCategory = "UTILITIES"
	ExpenseCategorySalary    ExpenseCategory = "SALARY"
	ExpenseCategoryOffice    ExpenseCategory = "OFFICE"
	ExpenseCategoryTravel    ExpenseCategory = "TRAVEL"
	ExpenseCategoryTaxes     ExpenseCategory = "TAXES"
	ExpenseCategoryOther     ExpenseCategory = "OTHER"
)

// IsValid checks if the category is a valid ExpenseCategory
func (c ExpenseCategory) IsValid() bool {
	switch c {
	case ExpenseCategoryRent, ExpenseCategoryUtilities, ExpenseCategorySalary,
		ExpenseCategoryOffice, ExpenseCategoryTravel, ExpenseCategoryTaxes,
		ExpenseCategoryOther:
		return true
	}
	return false
}

// String returns the string representation of ExpenseCategory
func (c ExpenseCategory) String() string {
	return string(c)
}

// AllExpenseCategories returns every valid category, for dropdowns and validation
func AllExpenseCategories() []ExpenseCategory {
	return []ExpenseCategory{
		ExpenseCategoryRent,
		ExpenseCategoryUtilities,
		ExpenseCategorySalary,
		ExpenseCategoryOffice,
		ExpenseCategoryTravel,
		ExpenseCategoryTaxes,
		ExpenseCategoryOther,
	}
}

// PaymentMethod represents how an expense was paid
type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "CASH"
	PaymentMethodTransfer PaymentMethod = "TRANSFER"
)

// IsValid checks if the method is a valid PaymentMethod
func (m PaymentMethod) IsValid() bool {
	return m == PaymentMethodCash || m == PaymentMethodTransfer
}

// String returns the string representation of PaymentMethod
func (m PaymentMethod) String() string {
	return string(m)
}

// Expense represents one operating expense of the office: rent, salaries,
// taxes and the like. Expenses are recorded after the fact by the operator,
// so there is no approval workflow.
type Expense struct {
	shared.BaseAggregateRoot
	Category      ExpenseCategory `gorm:"type:varchar(20);not null;index"`
	Amount        decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Description   string          `gorm:"type:varchar(500);not null"`
	IncurredAt    time.Time       `gorm:"type:date;not null;index"`
	PaymentMethod PaymentMethod   `gorm:"type:varchar(20);not null"`
	Notes         string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Expense) TableName() string {
	return "expenses"
}

// NewExpense creates a new expense record
func NewExpense(
	category ExpenseCategory,
	amount valueobject.Money,
	description string,
	incurredAt time.Time,
	paymentMethod PaymentMethod,
) (*Expense, error) {
	if err := validateExpense(category, amount, description, paymentMethod); err != nil {
		return nil, err
	}
	if incurredAt.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATE", "Incurred date is required")
	}

	return &Expense{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Category:          category,
		Amount:            amount.Amount(),
		Description:       description,
		IncurredAt:        truncateToDate(incurredAt),
		PaymentMethod:     paymentMethod,
	}, nil
}

// Update replaces the expense details
func (e *Expense) Update(
	category ExpenseCategory,
	amount valueobject.Money,
	description string,
	incurredAt time.Time,
	paymentMethod PaymentMethod,
) error {
	if err := validateExpense(category, amount, description, paymentMethod); err != nil {
		return err
	}
	if incurredAt.IsZero() {
		return shared.NewDomainError("INVALID_DATE", "Incurred date is required")
	}

	e.Category = category
	e.Amount = amount.Amount()
	e.Description = description
	e.IncurredAt = truncateToDate(incurredAt)
	e.PaymentMethod = paymentMethod
	e.UpdatedAt = time.Now()
	e.IncrementVersion()

	return nil
}

// SetNotes sets the free-form notes
func (e *Expense) SetNotes(notes string) {
	e.Notes = notes
	e.UpdatedAt = time.Now()
	e.IncrementVersion()
}

// GetAmountMoney returns the amount as Money
func (e *Expense) GetAmountMoney() valueobject.Money {
	return valueobject.NewMoneyARS(e.Amount)
}

func validateExpense(category ExpenseCategory, amount valueobject.Money, description string, paymentMethod PaymentMethod) error {
	if !category.IsValid() {
		return shared.NewDomainError("INVALID_CATEGORY", "Expense category is not valid")
	}
	if !amount.IsPositive() || !amount.IsRepresentable() {
		return shared.ErrInvalidAmount
	}
	if description == "" {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot be empty")
	}
	if len(description) > 500 {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot exceed 500 characters")
	}
	if !paymentMethod.IsValid() {
		return shared.NewDomainError("INVALID_PAYMENT_METHOD", "Payment method is not valid")
	}
	return nil
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
