package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pulzar/backend/internal/domain/catalog"
	"github.com/pulzar/backend/internal/domain/shared"
)

// GormIdentifierRepository implements IdentifierRepository using GORM
type GormIdentifierRepository struct {
	db *gorm.DB
}

// NewGormIdentifierRepository creates a new GormIdentifierRepository
func NewGormIdentifierRepository(db *gorm.DB) *GormIdentifierRepository {
	return &GormIdentifierRepository{db: db}
}

// FindByID finds an identifier by ID within an organization
func (r *GormIdentifierRepository) FindByID(ctx context.Context, orgID, id uuid.UUID) (*catalog.Identifier, error) {
	var identifier catalog.Identifier
	if err := r.db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, id).
		First(&identifier).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &identifier, nil
}

// FindByValue finds an identifier by exact value within an organization
func (r *GormIdentifierRepository) FindByValue(ctx context.Context, orgID uuid.UUID, value string) (*catalog.Identifier, error) {
	var identifier catalog.Identifier
	if err := r.db.WithContext(ctx).
		Where("org_id = ? AND value = ?", orgID, value).
		First(&identifier).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &identifier, nil
}

// Save creates or updates an identifier
func (r *GormIdentifierRepository) Save(ctx context.Context, identifier *catalog.Identifier) error {
	if err := r.db.WithContext(ctx).Save(identifier).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Delete deletes an identifier within an organization
func (r *GormIdentifierRepository) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&catalog.Identifier{}, "org_id = ? AND id = ?", orgID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormIdentifierRepository implements IdentifierRepository
var _ catalog.IdentifierRepository = (*GormIdentifierRepository)(nil)
