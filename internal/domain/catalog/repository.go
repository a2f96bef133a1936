package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/pulzar/backend/internal/domain/shared"
)

// IdentifierRepository defines the interface for identifier persistence
type IdentifierRepository interface {
	// FindByID finds an identifier by ID within an organization
	FindByID(ctx context.Context, orgID, id uuid.UUID) (*Identifier, error)

	// FindByValue finds an identifier by exact value within an organization
	FindByValue(ctx context.Context, orgID uuid.UUID, value string) (*Identifier, error)

	// Save creates or updates an identifier
	Save(ctx context.Context, identifier *Identifier) error

	// Delete deletes an identifier within an organization
	Delete(ctx context.Context, orgID, id uuid.UUID) error
}

// ItemRepository defines the interface for item persistence
type ItemRepository interface {
	// FindByID finds an item by ID within an organization
	FindByID(ctx context.Context, orgID, id uuid.UUID) (*Item, error)

	// FindBySKU finds an item by SKU within an organization
	FindBySKU(ctx context.Context, orgID uuid.UUID, sku string) (*Item, error)

	// FindAll finds all items for an organization matching the filter
	FindAll(ctx context.Context, orgID uuid.UUID, filter shared.Filter) ([]Item, error)

	// Count counts items for an organization matching the filter
	Count(ctx context.Context, orgID uuid.UUID, filter shared.Filter) (int64, error)

	// Save creates or updates an item
	Save(ctx context.Context, item *Item) error

	// Delete deletes an item within an organization
	Delete(ctx context.Context, orgID, id uuid.UUID) error
}

// AttachmentRepository defines the interface for attachment persistence
type AttachmentRepository interface {
	// FindByID finds an attachment by ID within an organization
	FindByID(ctx context.Context, orgID, id uuid.UUID) (*Attachment, error)

	// FindByItem finds all attachments of an item
	FindByItem(ctx context.Context, orgID, itemID uuid.UUID) ([]Attachment, error)

	// Save creates or updates an attachment
	Save(ctx context.Context, attachment *Attachment) error

	// SetPrimary marks one attachment of an item primary and clears the flag
	// on the item's other attachments
	SetPrimary(ctx context.Context, orgID, itemID, attachmentID uuid.UUID) error

	// Delete deletes an attachment within an organization
	Delete(ctx context.Context, orgID, id uuid.UUID) error
}
