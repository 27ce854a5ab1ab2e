package client

import (
	"context"

	"github.com/google/uuid"
	"github.com/microcredit/backend/internal/domain/shared"
)

// Repository defines persistence operations for clients
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Client, error)
	FindByCode(ctx context.Context, code string) (*Client, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Client, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	ExistsByDocumentNumber(ctx context.Context, dni string) (bool, error)
	NextCode(ctx context.Context) (string, error)
	Save(ctx context.Context, c *Client) error
	Delete(ctx context.Context, id uuid.UUID) error
}
