package lending

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/microcredit/backend/internal/domain/client"
	"github.com/microcredit/backend/internal/domain/lending"
	"github.com/microcredit/backend/internal/domain/shared"
	"github.com/microcredit/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Service handles loan origination and schedule queries
type Service struct {
	loanRepo        lending.LoanRepository
	installmentRepo lending.InstallmentRepository
	clientRepo      client.Repository
	now             func() time.Time
}

// NewService creates a new lending Service
func NewService(loanRepo lending.LoanRepository, installmentRepo lending.InstallmentRepository, clientRepo client.Repository) *Service {
	return &Service{
		loanRepo:        loanRepo,
		installmentRepo: installmentRepo,
		clientRepo:      clientRepo,
		now:             time.Now,
	}
}

// Create originates a loan for an active client and generates its full
// installment schedule in the same call.
func (s *Service) Create(ctx context.Context, req CreateLoanRequest) (*LoanDetailResponse, error) {
	c, err := s.clientRepo.FindByID(ctx, req.ClientID)
	if err != nil {
		return nil, err
	}
	if !c.IsActive() {
		return nil, shared.NewDomainError("CLIENT_INACTIVE", "Loans can only be originated for active clients")
	}

	startDate, err := time.Parse(DateLayout, req.StartDate)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_DATE", "Start date must be formatted as YYYY-MM-DD")
	}

	code := req.Code
	if code == "" {
		code, err = s.loanRepo.NextCode(ctx)
		if err != nil {
			return nil, err
		}
	} else {
		exists, err := s.loanRepo.ExistsByCode(ctx, code)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Loan with this code already exists")
		}
	}

	principal, err := valueobject.NewMoneyARSFromString(req.Principal.String())
	if err != nil {
		return nil, shared.ErrInvalidAmount
	}

	loan, err := lending.NewLoan(code, req.ClientID, principal, req.InterestRate, req.Installments, startDate)
	if err != nil {
		return nil, err
	}
	if req.Notes != "" {
		loan.SetNotes(req.Notes)
	}

	installments, err := loan.GenerateSchedule()
	if err != nil {
		return nil, err
	}

	if err := s.loanRepo.Save(ctx, loan); err != nil {
		return nil, err
	}
	if err := s.installmentRepo.SaveBatch(ctx, installments); err != nil {
		return nil, err
	}

	return s.toDetail(loan, installments), nil
}

// GetByID retrieves a loan with its schedule and repayment progress
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*LoanDetailResponse, error) {
	loan, err := s.loanRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	installments, err := s.installmentRepo.FindByLoan(ctx, id)
	if err != nil {
		return nil, err
	}

	ptrs := make([]*lending.Installment, len(installments))
	for i := range installments {
		ptrs[i] = &installments[i]
	}
	return s.toDetail(loan, ptrs), nil
}

// List retrieves loans with filtering and pagination
func (s *Service) List(ctx context.Context, filter LoanListFilter) ([]LoanResponse, int64, error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}
	domainFilter.Search = filter.Search
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.ClientID != "" {
		domainFilter.Filters["client_id"] = filter.ClientID
	}

	loans, err := s.loanRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.loanRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]LoanResponse, 0, len(loans))
	for i := range loans {
		responses = append(responses, ToLoanResponse(&loans[i]))
	}
	return responses, total, nil
}

// Cancel cancels a loan that has received no payments yet
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) (*LoanResponse, error) {
	loan, err := s.loanRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	installments, err := s.installmentRepo.FindByLoan(ctx, id)
	if err != nil {
		return nil, err
	}
	for i := range installments {
		if installments[i].AmountPaid.IsPositive() {
			return nil, shared.NewDomainError("HAS_PAYMENTS", "A loan with recorded payments cannot be cancelled")
		}
	}

	if err := loan.Cancel(); err != nil {
		return nil, err
	}
	if err := s.loanRepo.Save(ctx, loan); err != nil {
		return nil, err
	}

	response := ToLoanResponse(loan)
	return &response, nil
}

// MarkDefaulted writes off a loan after prolonged arrears
func (s *Service) MarkDefaulted(ctx context.Context, id uuid.UUID) (*LoanResponse, error) {
	loan, err := s.loanRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := loan.MarkDefaulted(); err != nil {
		return nil, err
	}
	if err := s.loanRepo.Save(ctx, loan); err != nil {
		return nil, err
	}

	response := ToLoanResponse(loan)
	return &response, nil
}

// GenerateSchedule regenerates the installment schedule for a loan that was
// saved without one, typically after a partial migration.
func (s *Service) GenerateSchedule(ctx context.Context, id uuid.UUID) (*LoanDetailResponse, error) {
	loan, err := s.loanRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	exists, err := s.installmentRepo.HasSchedule(ctx, id)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("INVALID_STATE", "Loan already has an installment schedule")
	}

	installments, err := loan.GenerateSchedule()
	if err != nil {
		return nil, err
	}
	if err := s.installmentRepo.SaveBatch(ctx, installments); err != nil {
		return nil, err
	}

	return s.toDetail(loan, installments), nil
}

// Schedule returns the classified installment schedule across loans. Filters
// narrow by client, loan and due-date window; the reference date defaults to
// today.
func (s *Service) Schedule(ctx context.Context, query ScheduleQuery) (*ScheduleResponse, error) {
	filter := lending.InstallmentFilter{OnlyPending: query.OnlyPending}

	if query.LoanID != "" {
		loanID, err := uuid.Parse(query.LoanID)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_LOAN", "Loan ID is not a valid UUID")
		}
		filter.LoanID = &loanID
	}
	if query.ClientID != "" {
		clientID, err := uuid.Parse(query.ClientID)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_CLIENT", "Client ID is not a valid UUID")
		}
		filter.ClientID = &clientID
	}
	if query.DueFrom != "" {
		from, err := time.Parse(DateLayout, query.DueFrom)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_DATE", "due_from must be formatted as YYYY-MM-DD")
		}
		filter.DueFrom = &from
	}
	if query.DueTo != "" {
		to, err := time.Parse(DateLayout, query.DueTo)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_DATE", "due_to must be formatted as YYYY-MM-DD")
		}
		filter.DueTo = &to
	}

	referenceDate := s.now()
	if query.ReferenceDate != "" {
		parsed, err := time.Parse(DateLayout, query.ReferenceDate)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_DATE", "reference_date must be formatted as YYYY-MM-DD")
		}
		referenceDate = parsed
	}

	installments, err := s.installmentRepo.Find(ctx, filter)
	if err != nil {
		return nil, err
	}

	rows := make([]InstallmentResponse, 0, len(installments))
	totals := ScheduleTotals{
		TotalDue:     decimal.Zero,
		TotalPaid:    decimal.Zero,
		TotalBalance: decimal.Zero,
		ByStatus:     make(map[string]int),
		BalanceBy:    make(map[string]decimal.Decimal),
	}

	for i := range installments {
		row := ToInstallmentResponse(&installments[i], referenceDate)
		rows = append(rows, row)

		totals.Count++
		totals.TotalDue = totals.TotalDue.Add(row.AmountDue)
		totals.TotalPaid = totals.TotalPaid.Add(row.AmountPaid)
		totals.TotalBalance = totals.TotalBalance.Add(row.Balance)
		totals.ByStatus[row.Status]++
		totals.BalanceBy[row.Status] = totals.BalanceBy[row.Status].Add(row.Balance)
	}

	return &ScheduleResponse{
		ReferenceDate: referenceDate.Format(DateLayout),
		Installments:  rows,
		Totals:        totals,
	}, nil
}

func (s *Service) toDetail(loan *lending.Loan, installments []*lending.Installment) *LoanDetailResponse {
	referenceDate := s.now()

	detail := &LoanDetailResponse{
		LoanResponse: ToLoanResponse(loan),
		TotalPaid:    decimal.Zero,
		Installments: make([]InstallmentResponse, 0, len(installments)),
	}
	for _, inst := range installments {
		detail.TotalPaid = detail.TotalPaid.Add(inst.AmountPaid)
		detail.Installments = append(detail.Installments, ToInstallmentResponse(inst, referenceDate))
	}
	detail.Balance = loan.TotalToRepay.Sub(detail.TotalPaid)
	return detail
}
