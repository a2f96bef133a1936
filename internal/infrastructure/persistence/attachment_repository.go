package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pulzar/backend/internal/domain/catalog"
	"github.com/pulzar/backend/internal/domain/shared"
)

// GormAttachmentRepository implements AttachmentRepository using GORM
type GormAttachmentRepository struct {
	db *gorm.DB
}

// NewGormAttachmentRepository creates a new GormAttachmentRepository
func NewGormAttachmentRepository(db *gorm.DB) *GormAttachmentRepository {
	return &GormAttachmentRepository{db: db}
}

// FindByID finds an attachment by ID within an organization
func (r *GormAttachmentRepository) FindByID(ctx context.Context, orgID, id uuid.UUID) (*catalog.Attachment, error) {
	var attachment catalog.Attachment
	if err := r.db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, id).
		First(&attachment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &attachment, nil
}

// FindByItem finds all attachments of an item, primary first
func (r *GormAttachmentRepository) FindByItem(ctx context.Context, orgID, itemID uuid.UUID) ([]catalog.Attachment, error) {
	var attachments []catalog.Attachment
	if err := r.db.WithContext(ctx).
		Where("org_id = ? AND item_id = ?", orgID, itemID).
		Order("is_primary DESC, created_at ASC").
		Find(&attachments).Error; err != nil {
		return nil, err
	}
	return attachments, nil
}

// Save creates or updates an attachment
func (r *GormAttachmentRepository) Save(ctx context.Context, attachment *catalog.Attachment) error {
	return r.db.WithContext(ctx).Save(attachment).Error
}

// SetPrimary marks one attachment of an item primary and clears the flag on
// the item's other attachments
func (r *GormAttachmentRepository) SetPrimary(ctx context.Context, orgID, itemID, attachmentID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&catalog.Attachment{}).
			Where("org_id = ? AND item_id = ? AND id = ?", orgID, itemID, attachmentID).
			Update("is_primary", true)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}

		return tx.Model(&catalog.Attachment{}).
			Where("org_id = ? AND item_id = ? AND id != ?", orgID, itemID, attachmentID).
			Update("is_primary", false).Error
	})
}

// Delete deletes an attachment within an organization
func (r *GormAttachmentRepository) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&catalog.Attachment{}, "org_id = ? AND id = ?", orgID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormAttachmentRepository implements AttachmentRepository
var _ catalog.AttachmentRepository = (*GormAttachmentRepository)(nil)
