package persistence

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/microcredit/backend/internal/domain/client"
	"github.com/microcredit/backend/internal/domain/shared"
	"gorm.io/gorm"
)

const clientCodePrefix = "CLI-"

// GormClientRepository implements client.Repository using GORM
type GormClientRepository struct {
	db *gorm.DB
}

// NewGormClientRepository creates a new GormClientRepository
func NewGormClientRepository(db *gorm.DB) *GormClientRepository {
	return &GormClientRepository{db: db}
}

// FindByID finds a client by its ID
func (r *GormClientRepository) FindByID(ctx context.Context, id uuid.UUID) (*client.Client, error) {
	var c client.Client
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// FindByCode finds a client by its code
func (r *GormClientRepository) FindByCode(ctx context.Context, code string) (*client.Client, error) {
	var c client.Client
	if err := r.db.WithContext(ctx).First(&c, "code = ?", strings.ToUpper(code)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// FindAll finds all clients matching the filter
func (r *GormClientRepository) FindAll(ctx context.Context, filter shared.Filter) ([]client.Client, error) {
	var clients []client.Client
	query := r.applyFilter(r.db.WithContext(ctx).Model(&client.Client{}), filter)

	if err := query.Find(&clients).Error; err != nil {
		return nil, err
	}
	return clients, nil
}

// Count counts clients matching the filter
func (r *GormClientRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&client.Client{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByCode checks if a client with the given code exists
func (r *GormClientRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&client.Client{}).
		Where("code = ?", strings.ToUpper(code)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ExistsByDocumentNumber checks if a client with the given DNI exists
func (r *GormClientRepository) ExistsByDocumentNumber(ctx context.Context, dni string) (bool, error) {
	if dni == "" {
		return false, nil
	}
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&client.Client{}).
		Where("document_number = ?", dni).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// NextCode returns the next sequential client code, e.g. "CLI-0042".
// Zero-padded codes sort lexicographically, so the max is the latest.
func (r *GormClientRepository) NextCode(ctx context.Context) (string, error) {
	var lastCode string
	err := r.db.WithContext(ctx).
		Model(&client.Client{}).
		Select("code").
		Where("code LIKE ?", clientCodePrefix+"%").
		Order("code DESC").
		Limit(1).
		Scan(&lastCode).Error
	if err != nil {
		return "", err
	}

	seq := int64(0)
	if lastCode != "" {
		if n, err := strconv.ParseInt(strings.TrimPrefix(lastCode, clientCodePrefix), 10, 64); err == nil {
			seq = n
		}
	}
	return fmt.Sprintf("%s%04d", clientCodePrefix, seq+1), nil
}

// Save creates or updates a client
func (r *GormClientRepository) Save(ctx context.Context, c *client.Client) error {
	return r.db.WithContext(ctx).Save(c).Error
}

// Delete deletes a client
func (r *GormClientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&client.Client{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormClientRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, ClientSortFields, "created_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	return query
}

func (r *GormClientRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where(
			"first_name ILIKE ? OR last_name ILIKE ? OR code ILIKE ? OR document_number ILIKE ?",
			pattern, pattern, pattern, pattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		}
	}

	return query
}

// Ensure GormClientRepository implements client.Repository
var _ client.Repository = (*GormClientRepository)(nil)
