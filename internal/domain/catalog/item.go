package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pulzar/backend/internal/domain/shared"
)

// ItemStatus represents the lifecycle status of a catalog item
type ItemStatus string

const (
	ItemStatusPending  ItemStatus = "pending"
	ItemStatusActive   ItemStatus = "active"
	ItemStatusArchived ItemStatus = "archived"
)

// Item is a sellable/stockable catalog entry. Items created by the scan
// pipeline start blank and are filled in by external enrichment.
type Item struct {
	shared.OrgEntity
	Name        string          `gorm:"type:varchar(200);not null;default:''"`
	Description string          `gorm:"type:text;not null;default:''"`
	SKU         string          `gorm:"type:varchar(50);not null;default:'';index"`
	Price       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Stock       int             `gorm:"not null;default:0"`
	Status      ItemStatus      `gorm:"type:varchar(20);not null;default:'pending'"`
}

// TableName returns the table name for GORM
func (Item) TableName() string {
	return "items"
}

// NewBlankItem creates an empty pending item, the shape the scan pipeline
// creates when an identifier resolves to no existing item.
func NewBlankItem(orgID uuid.UUID) *Item {
	return &Item{
		OrgEntity: shared.NewOrgEntity(orgID),
		Price:     decimal.Zero,
		Status:    ItemStatusPending,
	}
}

// ItemUpdate carries a partial update to an item's editable fields
type ItemUpdate struct {
	Name        *string
	Description *string
	SKU         *string
	Price       *decimal.Decimal
	Stock       *int
	Status      *ItemStatus
}

// Apply writes the non-nil fields of the update onto the item
func (i *Item) Apply(u ItemUpdate) error {
	if u.Name != nil {
		if len(*u.Name) > 200 {
			return shared.NewDomainError("INVALID_NAME", "Item name cannot exceed 200 characters")
		}
		i.Name = *u.Name
	}
	if u.Description != nil {
		i.Description = *u.Description
	}
	if u.SKU != nil {
		if len(*u.SKU) > 50 {
			return shared.NewDomainError("INVALID_SKU", "SKU cannot exceed 50 characters")
		}
		i.SKU = *u.SKU
	}
	if u.Price != nil {
		if u.Price.IsNegative() {
			return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
		}
		i.Price = *u.Price
	}
	if u.Stock != nil {
		if *u.Stock < 0 {
			return shared.NewDomainError("INVALID_STOCK", "Stock cannot be negative")
		}
		i.Stock = *u.Stock
	}
	if u.Status != nil {
		switch *u.Status {
		case ItemStatusPending, ItemStatusActive, ItemStatusArchived:
			i.Status = *u.Status
		default:
			return shared.NewDomainError("INVALID_STATUS", "Unknown item status")
		}
	}
	i.UpdatedAt = time.Now()
	return nil
}

// Enrich fills blank name/description from an external lookup and the blank
// SKU from the scanned value. Non-blank fields are never overwritten; price
// and stock are never auto-populated. Returns true when anything changed.
func (i *Item) Enrich(mapped MappedProduct, scannedValue string) bool {
	changed := false
	if mapped.Name != "" && strings.TrimSpace(i.Name) == "" {
		i.Name = mapped.Name
		changed = true
	}
	if mapped.Description != "" && strings.TrimSpace(i.Description) == "" {
		i.Description = mapped.Description
		changed = true
	}
	if strings.TrimSpace(i.SKU) == "" && scannedValue != "" {
		i.SKU = scannedValue
		changed = true
	}
	if changed {
		i.UpdatedAt = time.Now()
	}
	return changed
}
