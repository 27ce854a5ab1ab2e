package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/microcredit/backend/internal/domain/billing"
	"github.com/microcredit/backend/internal/domain/lending"
	"github.com/microcredit/backend/internal/domain/shared"
	"github.com/microcredit/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// DashboardInvalidator drops cached dashboard aggregates after a receipt
// changes the numbers behind them.
type DashboardInvalidator interface {
	Invalidate(ctx context.Context) error
}

// Service handles payment receipt preview and submission
type Service struct {
	loanRepo        lending.LoanRepository
	installmentRepo lending.InstallmentRepository
	receiptRepo     billing.Repository
	txScope         TransactionScope
	invalidator     DashboardInvalidator
	now             func() time.Time
}

// NewService creates a new billing Service. The invalidator may be nil when
// no dashboard cache is configured.
func NewService(
	loanRepo lending.LoanRepository,
	installmentRepo lending.InstallmentRepository,
	receiptRepo billing.Repository,
	txScope TransactionScope,
	invalidator DashboardInvalidator,
) *Service {
	return &Service{
		loanRepo:        loanRepo,
		installmentRepo: installmentRepo,
		receiptRepo:     receiptRepo,
		txScope:         txScope,
		invalidator:     invalidator,
		now:             time.Now,
	}
}

// Preview distributes a payment amount across the loan's pending installments
// and returns the suggestion without persisting anything. The operator may
// edit the lines before confirming.
func (s *Service) Preview(ctx context.Context, req PreviewReceiptRequest) (*PreviewReceiptResponse, error) {
	loan, err := s.loanRepo.FindByID(ctx, req.LoanID)
	if err != nil {
		return nil, err
	}
	if !loan.IsActive() {
		return nil, shared.NewDomainError("LOAN_NOT_ACTIVE", "Payments can only be received on active loans")
	}

	amount, err := toMoney(req.Amount)
	if err != nil {
		return nil, err
	}

	pending, err := s.installmentRepo.FindPendingByLoans(ctx, []uuid.UUID{loan.ID})
	if err != nil {
		return nil, err
	}

	outstanding := make([]billing.OutstandingInstallment, 0, len(pending))
	for i := range pending {
		outstanding = append(outstanding, billing.OutstandingInstallment{
			ID:      pending[i].ID,
			DueDate: pending[i].DueDate,
			Number:  pending[i].Number,
			Balance: pending[i].Balance(),
		})
	}

	result, err := billing.AllocatePayment(amount, outstanding)
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]*lending.Installment, len(pending))
	for i := range pending {
		byID[pending[i].ID] = &pending[i]
	}

	lines := make([]ImputationLine, 0, len(result.Imputations))
	for _, imp := range result.Imputations {
		inst := byID[imp.InstallmentID]
		lines = append(lines, ImputationLine{
			InstallmentID:   inst.ID,
			InstallmentCode: inst.Code,
			DueDate:         inst.DueDate.Format(DateLayout),
			Balance:         inst.Balance().Amount(),
			Amount:          imp.Amount,
		})
	}

	return &PreviewReceiptResponse{
		LoanID:      loan.ID,
		Amount:      amount.Amount(),
		Imputations: lines,
		Remaining:   result.Remaining.Amount(),
	}, nil
}

// NextNumber returns the next free receipt number for display on the form
func (s *Service) NextNumber(ctx context.Context) (*NextNumberResponse, error) {
	number, err := s.receiptRepo.NextNumber(ctx)
	if err != nil {
		return nil, err
	}
	return &NextNumberResponse{ReceiptNumber: number}, nil
}

// Create validates and persists a confirmed receipt. All checks run against
// freshly loaded installments inside one transaction: the installments must
// belong to the loan, every line must fit the current balance, and the lines
// must sum to the declared total. Any failure rolls the whole receipt back.
func (s *Service) Create(ctx context.Context, req CreateReceiptRequest) (*ReceiptResponse, error) {
	paymentDate, err := time.Parse(DateLayout, req.PaymentDate)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_DATE", "Payment date must be formatted as YYYY-MM-DD")
	}
	if len(req.Imputations) == 0 {
		return nil, shared.ErrEmptySelection
	}

	cash, err := toMoney(req.CashAmount)
	if err != nil {
		return nil, err
	}
	transfer, err := toMoney(req.TransferAmount)
	if err != nil {
		return nil, err
	}

	var response *ReceiptResponse

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		loan, err := repos.Loans().FindByID(ctx, req.LoanID)
		if err != nil {
			return err
		}
		if !loan.IsActive() {
			return shared.NewDomainError("LOAN_NOT_ACTIVE", "Payments can only be received on active loans")
		}

		installments, err := repos.Installments().FindByLoan(ctx, loan.ID)
		if err != nil {
			return err
		}
		byID := make(map[uuid.UUID]*lending.Installment, len(installments))
		for i := range installments {
			byID[installments[i].ID] = &installments[i]
		}

		imputations := make(billing.Imputations, 0, len(req.Imputations))
		for _, line := range req.Imputations {
			if _, ok := byID[line.InstallmentID]; !ok {
				return shared.NewDomainError("INVALID_INSTALLMENT", "Installment does not belong to the loan")
			}
			imputations = append(imputations, billing.Imputation{
				InstallmentID: line.InstallmentID,
				Amount:        line.Amount,
			})
		}

		number, err := repos.Receipts().NextNumber(ctx)
		if err != nil {
			return err
		}

		receipt, err := billing.NewReceipt(number, loan.ClientID, loan.ID, paymentDate, cash, transfer, imputations, req.Notes)
		if err != nil {
			return err
		}

		for _, line := range req.Imputations {
			inst := byID[line.InstallmentID]
			amount, err := toMoney(line.Amount)
			if err != nil {
				return err
			}
			if err := inst.ApplyPayment(amount, paymentDate); err != nil {
				return err
			}
			if err := repos.Installments().SaveWithLock(ctx, inst); err != nil {
				return err
			}
		}

		if err := repos.Receipts().Save(ctx, receipt); err != nil {
			return err
		}

		finished := true
		for i := range installments {
			if !installments[i].IsPaid() {
				finished = false
				break
			}
		}
		if finished {
			if err := loan.Finish(); err != nil {
				return err
			}
			if err := repos.Loans().Save(ctx, loan); err != nil {
				return err
			}
		}

		resp := ToReceiptResponse(receipt)
		resp.LoanFinished = finished
		for i := range resp.Imputations {
			if inst, ok := byID[resp.Imputations[i].InstallmentID]; ok {
				resp.Imputations[i].InstallmentCode = inst.Code
				resp.Imputations[i].DueDate = inst.DueDate.Format(DateLayout)
				resp.Imputations[i].Balance = inst.Balance().Amount()
			}
		}
		response = &resp
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.invalidator != nil {
		_ = s.invalidator.Invalidate(ctx)
	}

	return response, nil
}

// GetByID retrieves a stored receipt
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*ReceiptResponse, error) {
	receipt, err := s.receiptRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	response := ToReceiptResponse(receipt)
	return &response, nil
}

// List retrieves receipts with filtering and pagination
func (s *Service) List(ctx context.Context, filter ReceiptListFilter) ([]ReceiptResponse, int64, error) {
	domainFilter := billing.ReceiptFilter{
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

	if filter.ClientID != "" {
		clientID, err := uuid.Parse(filter.ClientID)
		if err != nil {
			return nil, 0, shared.NewDomainError("INVALID_CLIENT", "Client ID is not a valid UUID")
		}
		domainFilter.ClientID = &clientID
	}
	if filter.LoanID != "" {
		loanID, err := uuid.Parse(filter.LoanID)
		if err != nil {
			return nil, 0, shared.NewDomainError("INVALID_LOAN", "Loan ID is not a valid UUID")
		}
		domainFilter.LoanID = &loanID
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

	receipts, err := s.receiptRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.receiptRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ReceiptResponse, 0, len(receipts))
	for i := range receipts {
		responses = append(responses, ToReceiptResponse(&receipts[i]))
	}
	return responses, total, nil
}

func toMoney(amount decimal.Decimal) (valueobject.Money, error) {
	money := valueobject.NewMoneyARS(amount)
	if !money.IsRepresentable() {
		return valueobject.ZeroARS(), shared.ErrInvalidAmount
	}
	if money.IsNegative() {
		return valueobject.ZeroARS(), shared.ErrInvalidAmount
	}
	return money, nil
}
