package persistence

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/microcredit/backend/internal/domain/lending"
	"github.com/microcredit/backend/internal/domain/report"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormReportRepository implements report.Repository using GORM
type GormReportRepository struct {
	db *gorm.DB
}

// NewGormReportRepository creates a new GormReportRepository
func NewGormReportRepository(db *gorm.DB) *GormReportRepository {
	return &GormReportRepository{db: db}
}

// GetDashboardSummary returns the headline numbers for the period
func (r *GormReportRepository) GetDashboardSummary(filter report.ReportFilter) (*report.DashboardSummary, error) {
	summary := &report.DashboardSummary{
		PeriodStart: filter.StartDate,
		PeriodEnd:   filter.EndDate,
	}

	if err := r.db.Table("clients").
		Where("status = ?", "ACTIVE").
		Count(&summary.ActiveClients).Error; err != nil {
		return nil, err
	}

	if err := r.db.Table("loans").
		Where("status = ?", lending.LoanStatusActive).
		Count(&summary.ActiveLoans).Error; err != nil {
		return nil, err
	}

	// Outstanding balance across active loans
	if err := r.db.Table("installments i").
		Select("COALESCE(SUM(i.amount_due - i.amount_paid), 0)").
		Joins("JOIN loans l ON l.id = i.loan_id").
		Where("l.status = ?", lending.LoanStatusActive).
		Where("i.amount_paid < i.amount_due").
		Scan(&summary.PortfolioOutstanding).Error; err != nil {
		return nil, err
	}

	// Overdue slice of the outstanding balance, measured at the period end
	type overdueRow struct {
		Balance decimal.Decimal
		Count   int64
	}
	var overdue overdueRow
	if err := r.db.Table("installments i").
		Select("COALESCE(SUM(i.amount_due - i.amount_paid), 0) AS balance, COUNT(*) AS count").
		Joins("JOIN loans l ON l.id = i.loan_id").
		Where("l.status = ?", lending.LoanStatusActive).
		Where("i.amount_paid < i.amount_due").
		Where("i.due_date < ?", filter.EndDate).
		Scan(&overdue).Error; err != nil {
		return nil, err
	}
	summary.OverdueBalance = overdue.Balance
	summary.OverdueInstallments = overdue.Count

	if err := r.db.Table("receipts").
		Select("COALESCE(SUM(total_amount), 0)").
		Where("payment_date BETWEEN ? AND ?", filter.StartDate, filter.EndDate).
		Scan(&summary.Collected).Error; err != nil {
		return nil, err
	}

	if err := r.db.Table("expenses").
		Select("COALESCE(SUM(amount), 0)").
		Where("incurred_at BETWEEN ? AND ?", filter.StartDate, filter.EndDate).
		Scan(&summary.Expenses).Error; err != nil {
		return nil, err
	}

	summary.NetCollection = summary.Collected.Sub(summary.Expenses)

	return summary, nil
}

// GetCollectionTrend returns monthly collections against disbursements for
// the period, oldest month first
func (r *GormReportRepository) GetCollectionTrend(filter report.ReportFilter) ([]report.CollectionTrendPoint, error) {
	type monthRow struct {
		Year  int
		Month int
		Total decimal.Decimal
	}

	var collected []monthRow
	if err := r.db.Table("receipts").
		Select("EXTRACT(YEAR FROM payment_date)::int AS year, EXTRACT(MONTH FROM payment_date)::int AS month, COALESCE(SUM(total_amount), 0) AS total").
		Where("payment_date BETWEEN ? AND ?", filter.StartDate, filter.EndDate).
		Group("year, month").
		Order("year, month").
		Scan(&collected).Error; err != nil {
		return nil, err
	}

	var lent []monthRow
	if err := r.db.Table("loans").
		Select("EXTRACT(YEAR FROM start_date)::int AS year, EXTRACT(MONTH FROM start_date)::int AS month, COALESCE(SUM(principal), 0) AS total").
		Where("start_date BETWEEN ? AND ?", filter.StartDate, filter.EndDate).
		Where("status <> ?", lending.LoanStatusCancelled).
		Group("year, month").
		Order("year, month").
		Scan(&lent).Error; err != nil {
		return nil, err
	}

	type key struct{ year, month int }
	points := make(map[key]*report.CollectionTrendPoint)
	order := make([]key, 0, len(collected)+len(lent))

	upsert := func(year, month int) *report.CollectionTrendPoint {
		k := key{year, month}
		if p, ok := points[k]; ok {
			return p
		}
		p := &report.CollectionTrendPoint{
			Year:      year,
			Month:     month,
			Collected: decimal.Zero,
			Lent:      decimal.Zero,
		}
		points[k] = p
		order = append(order, k)
		return p
	}

	for _, row := range collected {
		upsert(row.Year, row.Month).Collected = row.Total
	}
	for _, row := range lent {
		upsert(row.Year, row.Month).Lent = row.Total
	}

	trend := make([]report.CollectionTrendPoint, 0, len(order))
	for _, k := range order {
		trend = append(trend, *points[k])
	}

	// Months present only in the lent pass land at the end
	sort.Slice(trend, func(i, j int) bool {
		if trend[i].Year != trend[j].Year {
			return trend[i].Year < trend[j].Year
		}
		return trend[i].Month < trend[j].Month
	})

	return trend, nil
}

// GetExpenseBreakdown returns the period's expenses per category with each
// category's percentage of the total
func (r *GormReportRepository) GetExpenseBreakdown(filter report.ReportFilter) ([]report.ExpenseBreakdownItem, error) {
	type categoryRow struct {
		Category string
		Total    decimal.Decimal
	}

	var rows []categoryRow
	if err := r.db.Table("expenses").
		Select("category, COALESCE(SUM(amount), 0) AS total").
		Where("incurred_at BETWEEN ? AND ?", filter.StartDate, filter.EndDate).
		Group("category").
		Order("total DESC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	grandTotal := decimal.Zero
	for _, row := range rows {
		grandTotal = grandTotal.Add(row.Total)
	}

	items := make([]report.ExpenseBreakdownItem, len(rows))
	for i, row := range rows {
		items[i] = report.ExpenseBreakdownItem{
			Category: row.Category,
			Total:    row.Total,
		}
		if !grandTotal.IsZero() {
			items[i].Percentage = row.Total.Div(grandTotal).Mul(decimal.NewFromInt(100)).Round(2)
		}
	}

	return items, nil
}

// GetDelinquentLoans ranks active loans by overdue balance at the period end
func (r *GormReportRepository) GetDelinquentLoans(filter report.ReportFilter) ([]report.DelinquentLoan, error) {
	topN := filter.TopN
	if topN <= 0 {
		topN = 10
	}

	type delinquentRow struct {
		LoanID         string
		LoanCode       string
		ClientID       string
		FirstName      string
		LastName       string
		OverdueBalance decimal.Decimal
		OldestDueDate  time.Time
	}

	var rows []delinquentRow
	if err := r.db.Table("installments i").
		Select(`l.id AS loan_id, l.code AS loan_code, c.id AS client_id,
			c.first_name, c.last_name,
			COALESCE(SUM(i.amount_due - i.amount_paid), 0) AS overdue_balance,
			MIN(i.due_date) AS oldest_due_date`).
		Joins("JOIN loans l ON l.id = i.loan_id").
		Joins("JOIN clients c ON c.id = l.client_id").
		Where("l.status = ?", lending.LoanStatusActive).
		Where("i.amount_paid < i.amount_due").
		Where("i.due_date < ?", filter.EndDate).
		Group("l.id, l.code, c.id, c.first_name, c.last_name").
		Order("overdue_balance DESC").
		Limit(topN).
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	loans := make([]report.DelinquentLoan, 0, len(rows))
	for _, row := range rows {
		loan := report.DelinquentLoan{
			LoanCode:       row.LoanCode,
			ClientName:     row.FirstName + " " + row.LastName,
			OverdueBalance: row.OverdueBalance,
			OldestDueDate:  row.OldestDueDate,
			DaysOverdue:    int(filter.EndDate.Sub(row.OldestDueDate).Hours() / 24),
		}
		if id, err := uuid.Parse(row.LoanID); err == nil {
			loan.LoanID = id
		}
		if id, err := uuid.Parse(row.ClientID); err == nil {
			loan.ClientID = id
		}
		loans = append(loans, loan)
	}

	return loans, nil
}

// Ensure GormReportRepository implements report.Repository
var _ report.Repository = (*GormReportRepository)(nil)
