package report

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DashboardSummary is the read model behind the landing dashboard: portfolio
// size, collection performance for the period, and expenses against income.
type DashboardSummary struct {
	PeriodStart time.Time `json:"period_start"`
	PeriodEnd   time.Time `json:"period_end"`

	ActiveClients int64 `json:"active_clients"`
	ActiveLoans   int64 `json:"active_loans"`

	PortfolioOutstanding decimal.Decimal `json:"portfolio_outstanding"` // Unpaid balance across active loans
	OverdueBalance       decimal.Decimal `json:"overdue_balance"`       // Unpaid balance past due date
	OverdueInstallments  int64           `json:"overdue_installments"`

	Collected     decimal.Decimal `json:"collected"`      // Receipts within the period
	Expenses      decimal.Decimal `json:"expenses"`       // Expenses within the period
	NetCollection decimal.Decimal `json:"net_collection"` // Collected - Expenses
}

// CollectionTrendPoint is one month of collections against disbursements
type CollectionTrendPoint struct {
	Year      int             `json:"year"`
	Month     int             `json:"month"`
	Collected decimal.Decimal `json:"collected"`
	Lent      decimal.Decimal `json:"lent"`
}

// ExpenseBreakdownItem is one category's share of the period's expenses
type ExpenseBreakdownItem struct {
	Category   string          `json:"category"`
	Total      decimal.Decimal `json:"total"`
	Percentage decimal.Decimal `json:"percentage"`
}

// DelinquentLoan is one row of the overdue ranking
type DelinquentLoan struct {
	LoanID         uuid.UUID       `json:"loan_id"`
	LoanCode       string          `json:"loan_code"`
	ClientID       uuid.UUID       `json:"client_id"`
	ClientName     string          `json:"client_name"`
	OverdueBalance decimal.Decimal `json:"overdue_balance"`
	OldestDueDate  time.Time       `json:"oldest_due_date"`
	DaysOverdue    int             `json:"days_overdue"`
}

// ReportFilter defines the period for dashboard queries
type ReportFilter struct {
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	TopN      int       `json:"top_n,omitempty"`
}

// Repository defines the read-only queries behind the dashboard. These run
// straight against the database; the application layer caches the results.
type Repository interface {
	GetDashboardSummary(filter ReportFilter) (*DashboardSummary, error)
	GetCollectionTrend(filter ReportFilter) ([]CollectionTrendPoint, error)
	GetExpenseBreakdown(filter ReportFilter) ([]ExpenseBreakdownItem, error)
	GetDelinquentLoans(filter ReportFilter) ([]DelinquentLoan, error)
}
