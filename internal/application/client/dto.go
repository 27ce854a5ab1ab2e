package client

import (
	"time"

	"github.com/google/uuid"
	"github.com/microcredit/backend/internal/domain/client"
)

// CreateClientRequest represents a request to register a new client
type CreateClientRequest struct {
	Code           string `json:"code" binding:"max=50"`
	FirstName      string `json:"first_name" binding:"required,min=1,max=100"`
	LastName       string `json:"last_name" binding:"required,min=1,max=100"`
	DocumentNumber string `json:"document_number" binding:"required"`
	Phone          string `json:"phone" binding:"max=50"`
	Email          string `json:"email" binding:"omitempty,email,max=200"`
	Address        string `json:"address" binding:"max=500"`
	Notes          string `json:"notes"`
}

// UpdateClientRequest represents a request to update a client
type UpdateClientRequest struct {
	FirstName      *string `json:"first_name" binding:"omitempty,min=1,max=100"`
	LastName       *string `json:"last_name" binding:"omitempty,min=1,max=100"`
	DocumentNumber *string `json:"document_number"`
	Phone          *string `json:"phone" binding:"omitempty,max=50"`
	Email          *string `json:"email" binding:"omitempty,email,max=200"`
	Address        *string `json:"address" binding:"omitempty,max=500"`
	Notes          *string `json:"notes"`
}

// BulkActivateRequest carries the client IDs to activate in one batch
type BulkActivateRequest struct {
	IDs []uuid.UUID `json:"ids" binding:"required,min=1"`
}

// ClientResponse represents a client in API responses
type ClientResponse struct {
	ID             uuid.UUID `json:"id"`
	Code           string    `json:"code"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	FullName       string    `json:"full_name"`
	DocumentNumber string    `json:"document_number"`
	Phone          string    `json:"phone"`
	Email          string    `json:"email"`
	Address        string    `json:"address"`
	Status         string    `json:"status"`
	Notes          string    `json:"notes"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	Version        int       `json:"version"`
}

// ClientListFilter represents filter options for the client list
type ClientListFilter struct {
	Search   string `form:"search"`
	Status   string `form:"status" binding:"omitempty,oneof=ACTIVE INACTIVE"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToClientResponse converts a domain Client to ClientResponse
func ToClientResponse(c *client.Client) ClientResponse {
	return ClientResponse{
		ID:             c.ID,
		Code:           c.Code,
		FirstName:      c.FirstName,
		LastName:       c.LastName,
		FullName:       c.FullName(),
		DocumentNumber: c.DocumentNumber,
		Phone:          c.Phone,
		Email:          c.Email,
		Address:        c.Address,
		Status:         string(c.Status),
		Notes:          c.Notes,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
		Version:        c.Version,
	}
}
