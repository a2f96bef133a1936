package catalog

import (
	"github.com/google/uuid"

	"github.com/pulzar/backend/internal/domain/shared"
)

// Attachment is a file attached to an item. The binary payload lives in
// object storage under ObjectKey; the row carries metadata only.
type Attachment struct {
	shared.OrgEntity
	ItemID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Kind        string    `gorm:"type:varchar(20);not null;default:'image'"`
	Title       string    `gorm:"type:varchar(200);not null;default:''"`
	ObjectKey   string    `gorm:"type:varchar(500);not null"`
	ContentType string    `gorm:"type:varchar(100);not null;default:'application/octet-stream'"`
	IsPrimary   bool      `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (Attachment) TableName() string {
	return "attachments"
}

// NewAttachment creates attachment metadata for an item
func NewAttachment(orgID, itemID uuid.UUID, kind, title, objectKey, contentType string) (*Attachment, error) {
	if objectKey == "" {
		return nil, shared.NewDomainError("INVALID_OBJECT_KEY", "Attachment object key cannot be empty")
	}
	if kind == "" {
		kind = "image"
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return &Attachment{
		OrgEntity:   shared.NewOrgEntity(orgID),
		ItemID:      itemID,
		Kind:        kind,
		Title:       title,
		ObjectKey:   objectKey,
		ContentType: contentType,
	}, nil
}
