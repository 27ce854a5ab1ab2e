package finance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/microcredit/backend/internal/domain/finance"
	"github.com/microcredit/backend/internal/domain/shared"
	"github.com/microcredit/backend/internal/domain/shared/valueobject"
)

// Service handles expense recording and maintenance
type Service struct {
	expenseRepo finance.Repository
	now         func() time.Time
}

// NewService creates a new finance Service
func NewService(expenseRepo finance.Repository) *Service {
	return &Service{
		expenseRepo: expenseRepo,
		now:         time.Now,
	}
}

// Create records a new expense
func (s *Service) Create(ctx context.Context, req CreateExpenseRequest) (*ExpenseResponse, error) {
	incurredAt, err := time.Parse(DateLayout, req.IncurredAt)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_DATE", "Incurred date must be formatted as YYYY-MM-DD")
	}

	expense, err := finance.NewExpense(
		finance.ExpenseCategory(req.Category),
		valueobject.NewMoneyARS(req.Amount),
		req.Description,
		incurredAt,
		finance.PaymentMethod(req.PaymentMethod),
	)
	if err != nil {
		return nil, err
	}
	if req.Notes != "" {
		expense.SetNotes(req.Notes)
	}

	if err := s.expenseRepo.Save(ctx, expense); err != nil {
		return nil, err
	}

	response := ToExpenseResponse(expense)
	return &response, nil
}

// GetByID retrieves an expense by ID
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*ExpenseResponse, error) {
	expense, err := s.expenseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	response := ToExpenseResponse(expense)
	return &response, nil
}

// List retrieves expenses with filtering and pagination
func (s *Service) List(ctx context.Context, filter ExpenseListFilter) ([]ExpenseResponse, int64, error) {
	domainFilter := finance.ExpenseFilter{
		Search:   filter.Search,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}
	if domainFilter.Page <= 0 {
		domainFilter.Page = 1
	}
	if domainFilter.PageSize <= 0 {
		domainFilter.PageSize = 20
	}

	if filter.Category != "" {
		category := finance.ExpenseCategory(filter.Category)
		if !category.IsValid() {
			return nil, 0, shared.NewDomainError("INVALID_CATEGORY", "Expense category is not valid")
		}
		domainFilter.Category = &category
	}
	if filter.DateFrom != "" {
		from, err := time.Parse(DateLayout, filter.DateFrom)
		if err != nil {
			return nil, 0, shared.NewDomainError("INVALID_DATE", "date_from must be formatted as YYYY-MM-DD")
		}
		domainFilter.DateFrom = &from
	}
	if filter.DateTo != "" {
		to, err := time.Parse(DateLayout, filter.DateTo)
		if err != nil {
			return nil, 0, shared.NewDomainError("INVALID_DATE", "date_to must be formatted as YYYY-MM-DD")
		}
		domainFilter.DateTo = &to
	}

	expenses, err := s.expenseRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.expenseRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ExpenseResponse, 0, len(expenses))
	for i := range expenses {
		responses = append(responses, ToExpenseResponse(&expenses[i]))
	}
	return responses, total, nil
}

// Update corrects an expense record
func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateExpenseRequest) (*ExpenseResponse, error) {
	expense, err := s.expenseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	category := expense.Category
	amount := expense.GetAmountMoney()
	description := expense.Description
	incurredAt := expense.IncurredAt
	paymentMethod := expense.PaymentMethod

	if req.Category != nil {
		category = finance.ExpenseCategory(*req.Category)
	}
	if req.Amount != nil {
		amount = valueobject.NewMoneyARS(*req.Amount)
	}
	if req.Description != nil {
		description = *req.Description
	}
	if req.IncurredAt != nil {
		incurredAt, err = time.Parse(DateLayout, *req.IncurredAt)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_DATE", "Incurred date must be formatted as YYYY-MM-DD")
		}
	}
	if req.PaymentMethod != nil {
		paymentMethod = finance.PaymentMethod(*req.PaymentMethod)
	}

	if err := expense.Update(category, amount, description, incurredAt, paymentMethod); err != nil {
		return nil, err
	}
	if req.Notes != nil {
		expense.SetNotes(*req.Notes)
	}

	if err := s.expenseRepo.Save(ctx, expense); err != nil {
		return nil, err
	}

	response := ToExpenseResponse(expense)
	return &response, nil
}

// Delete removes an expense record
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.expenseRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.expenseRepo.Delete(ctx, id)
}

// Summary totals expenses for a period, broken down by category. The period
// defaults to the current month.
func (s *Service) Summary(ctx context.Context, query SummaryQuery) (*ExpenseSummaryResponse, error) {
	today := s.now()
	from := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
	to := today

	var err error
	if query.DateFrom != "" {
		from, err = time.Parse(DateLayout, query.DateFrom)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_DATE", "date_from must be formatted as YYYY-MM-DD")
		}
	}
	if query.DateTo != "" {
		to, err = time.Parse(DateLayout, query.DateTo)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_DATE", "date_to must be formatted as YYYY-MM-DD")
		}
	}
	if to.Before(from) {
		return nil, shared.NewDomainError("INVALID_PERIOD", "date_to must not precede date_from")
	}

	total, err := s.expenseRepo.SumForPeriod(ctx, from, to)
	if err != nil {
		return nil, err
	}
	byCategory, err := s.expenseRepo.SumByCategory(ctx, from, to)
	if err != nil {
		return nil, err
	}

	rows := make([]CategorySummary, 0, len(byCategory))
	for _, ct := range byCategory {
		rows = append(rows, CategorySummary{
			Category: string(ct.Category),
			Total:    ct.Total,
		})
	}

	return &ExpenseSummaryResponse{
		DateFrom:   from.Format(DateLayout),
		DateTo:     to.Format(DateLayout),
		Total:      total,
		ByCategory: rows,
	}, nil
}

// Categories lists the valid expense categories for form dropdowns
func (s *Service) Categories() []string {
	categories := finance.AllExpenseCategories()
	out := make([]string, 0, len(categories))
	for _, c := range categories {
		out = append(out, string(c))
	}
	return out
}
