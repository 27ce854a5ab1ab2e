package client

import (
	"context"

	"github.com/google/uuid"
	"github.com/microcredit/backend/internal/domain/client"
	"github.com/microcredit/backend/internal/domain/lending"
	"github.com/microcredit/backend/internal/domain/shared"
)

// Service handles client registration and maintenance
type Service struct {
	clientRepo client.Repository
	loanRepo   lending.LoanRepository
}

// NewService creates a new client Service
func NewService(clientRepo client.Repository, loanRepo lending.LoanRepository) *Service {
	return &Service{
		clientRepo: clientRepo,
		loanRepo:   loanRepo,
	}
}

// Create registers a new client. When no code is provided one is generated
// from the repository sequence.
func (s *Service) Create(ctx context.Context, req CreateClientRequest) (*ClientResponse, error) {
	code := req.Code
	if code == "" {
		var err error
		code, err = s.clientRepo.NextCode(ctx)
		if err != nil {
			return nil, err
		}
	} else {
		exists, err := s.clientRepo.ExistsByCode(ctx, code)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Client with this code already exists")
		}
	}

	if req.DocumentNumber != "" {
		exists, err := s.clientRepo.ExistsByDocumentNumber(ctx, req.DocumentNumber)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Client with this document number already exists")
		}
	}

	c, err := client.NewClient(code, req.FirstName, req.LastName)
	if err != nil {
		return nil, err
	}

	if err := c.SetDocumentNumber(req.DocumentNumber); err != nil {
		return nil, err
	}
	if req.Phone != "" || req.Email != "" || req.Address != "" {
		if err := c.SetContact(req.Phone, req.Email, req.Address); err != nil {
			return nil, err
		}
	}
	if req.Notes != "" {
		c.SetNotes(req.Notes)
	}

	if err := s.clientRepo.Save(ctx, c); err != nil {
		return nil, err
	}

	response := ToClientResponse(c)
	return &response, nil
}

// GetByID retrieves a client by ID
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*ClientResponse, error) {
	c, err := s.clientRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	response := ToClientResponse(c)
	return &response, nil
}

// List retrieves clients with filtering and pagination
func (s *Service) List(ctx context.Context, filter ClientListFilter) ([]ClientResponse, int64, error) {
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

	clients, err := s.clientRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.clientRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ClientResponse, 0, len(clients))
	for i := range clients {
		responses = append(responses, ToClientResponse(&clients[i]))
	}
	return responses, total, nil
}

// Update modifies a client's details
func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateClientRequest) (*ClientResponse, error) {
	c, err := s.clientRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil || req.LastName != nil {
		firstName := c.FirstName
		lastName := c.LastName
		if req.FirstName != nil {
			firstName = *req.FirstName
		}
		if req.LastName != nil {
			lastName = *req.LastName
		}
		if err := c.Update(firstName, lastName); err != nil {
			return nil, err
		}
	}

	if req.DocumentNumber != nil && *req.DocumentNumber != c.DocumentNumber {
		if *req.DocumentNumber != "" {
			exists, err := s.clientRepo.ExistsByDocumentNumber(ctx, *req.DocumentNumber)
			if err != nil {
				return nil, err
			}
			if exists {
				return nil, shared.NewDomainError("ALREADY_EXISTS", "Client with this document number already exists")
			}
		}
		if err := c.SetDocumentNumber(*req.DocumentNumber); err != nil {
			return nil, err
		}
	}

	if req.Phone != nil || req.Email != nil || req.Address != nil {
		phone, email, address := c.Phone, c.Email, c.Address
		if req.Phone != nil {
			phone = *req.Phone
		}
		if req.Email != nil {
			email = *req.Email
		}
		if req.Address != nil {
			address = *req.Address
		}
		if err := c.SetContact(phone, email, address); err != nil {
			return nil, err
		}
	}

	if req.Notes != nil {
		c.SetNotes(*req.Notes)
	}

	if err := s.clientRepo.Save(ctx, c); err != nil {
		return nil, err
	}

	response := ToClientResponse(c)
	return &response, nil
}

// Deactivate marks a client inactive. Clients with active loans cannot be
// deactivated.
func (s *Service) Deactivate(ctx context.Context, id uuid.UUID) (*ClientResponse, error) {
	c, err := s.clientRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	loans, err := s.loanRepo.FindActiveByClient(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(loans) > 0 {
		return nil, shared.NewDomainError("HAS_ACTIVE_LOANS", "Client has active loans and cannot be deactivated")
	}

	c.Deactivate()
	if err := s.clientRepo.Save(ctx, c); err != nil {
		return nil, err
	}

	response := ToClientResponse(c)
	return &response, nil
}

// Activate marks a client active again
func (s *Service) Activate(ctx context.Context, id uuid.UUID) (*ClientResponse, error) {
	c, err := s.clientRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	c.Activate()
	if err := s.clientRepo.Save(ctx, c); err != nil {
		return nil, err
	}

	response := ToClientResponse(c)
	return &response, nil
}

// BulkActivate marks the given clients active. Missing IDs fail the whole
// batch before any write.
func (s *Service) BulkActivate(ctx context.Context, ids []uuid.UUID) ([]ClientResponse, error) {
	if len(ids) == 0 {
		return nil, shared.NewDomainError("EMPTY_SELECTION", "At least one client must be selected")
	}

	clients := make([]*client.Client, 0, len(ids))
	for _, id := range ids {
		c, err := s.clientRepo.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}

	responses := make([]ClientResponse, 0, len(clients))
	for _, c := range clients {
		c.Activate()
		if err := s.clientRepo.Save(ctx, c); err != nil {
			return nil, err
		}
		responses = append(responses, ToClientResponse(c))
	}

	return responses, nil
}

// Delete removes a client. Clients with any loan history are kept; deactivate
// them instead.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.clientRepo.FindByID(ctx, id); err != nil {
		return err
	}

	loans, err := s.loanRepo.FindByClient(ctx, id)
	if err != nil {
		return err
	}
	for _, l := range loans {
		if l.IsActive() {
			return shared.NewDomainError("HAS_ACTIVE_LOANS", "Client has active loans and cannot be deleted")
		}
	}
	if len(loans) > 0 {
		return shared.NewDomainError("HAS_PAYMENTS", "Client has loan history and cannot be deleted")
	}

	return s.clientRepo.Delete(ctx, id)
}
