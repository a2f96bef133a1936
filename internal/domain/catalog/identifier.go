package catalog

import (
	"strings"

	"github.com/google/uuid"

	"github.com/pulzar/backend/internal/domain/shared"
)

// IdentifierType is the persisted classification of a scanned value
type IdentifierType string

const (
	IdentifierTypeGTIN13 IdentifierType = "GTIN13"
	IdentifierTypeEAN8   IdentifierType = "EAN8"
	IdentifierTypeOther  IdentifierType = "OTHER"
)

// Identifier is a normalized scanned value scoped to an organization.
// Unique per organization by value; never mutated after creation. Many
// identifiers may point at one item.
type Identifier struct {
	shared.BaseEntity
	OrgID     uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_identifier_org_value,priority:1"`
	Value     string         `gorm:"type:varchar(100);not null;uniqueIndex:idx_identifier_org_value,priority:2"`
	Type      IdentifierType `gorm:"type:varchar(20);not null"`
	Symbology string         `gorm:"type:varchar(20);not null;default:''"`
	Valid     bool           `gorm:"not null;default:false"`
	ItemID    *uuid.UUID     `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (Identifier) TableName() string {
	return "identifiers"
}

// NewIdentifier creates a classified identifier for an organization
func NewIdentifier(orgID uuid.UUID, value string, c Classification) (*Identifier, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, shared.NewDomainError("INVALID_VALUE", "Identifier value cannot be empty")
	}
	if len(value) > 100 {
		return nil, shared.NewDomainError("INVALID_VALUE", "Identifier value cannot exceed 100 characters")
	}
	return &Identifier{
		BaseEntity: shared.NewBaseEntity(),
		OrgID:      orgID,
		Value:      value,
		Type:       c.IdentifierType(),
		Symbology:  c.Symbology(),
		Valid:      c.Valid,
	}, nil
}

// LinkItem attaches the identifier to an item. An identifier resolves to at
// most one item.
func (i *Identifier) LinkItem(itemID uuid.UUID) {
	i.ItemID = &itemID
}

// UnlinkItem detaches the identifier from its item
func (i *Identifier) UnlinkItem() {
	i.ItemID = nil
}

// HasItem reports whether the identifier is linked to an item
func (i *Identifier) HasItem() bool {
	return i.ItemID != nil
}
