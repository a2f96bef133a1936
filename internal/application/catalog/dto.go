package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pulzar/backend/internal/domain/catalog"
)

// UpdateItemRequest represents a request to update an item's editable fields
type UpdateItemRequest struct {
	Name        *string          `json:"name" binding:"omitempty,max=200"`
	Description *string          `json:"description" binding:"omitempty,max=2000"`
	SKU         *string          `json:"sku" binding:"omitempty,max=50"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *int             `json:"stock" binding:"omitempty,min=0"`
	Status      *string          `json:"status" binding:"omitempty,oneof=pending active archived"`
}

// ItemResponse represents an item in API responses
type ItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	OrgID       uuid.UUID       `json:"org_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	SKU         string          `json:"sku"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ItemListFilter represents filter options for the item list
type ItemListFilter struct {
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// IdentifierResponse represents an identifier in API responses
type IdentifierResponse struct {
	ID        uuid.UUID  `json:"id"`
	Value     string     `json:"value"`
	Type      string     `json:"type"`
	Symbology string     `json:"symbology,omitempty"`
	Valid     bool       `json:"valid"`
	ItemID    *uuid.UUID `json:"item_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// AttachmentResponse represents an attachment in API responses
type AttachmentResponse struct {
	ID          uuid.UUID `json:"id"`
	ItemID      uuid.UUID `json:"item_id"`
	Kind        string    `json:"kind"`
	Title       string    `json:"title"`
	ContentType string    `json:"content_type"`
	IsPrimary   bool      `json:"is_primary"`
	URL         string    `json:"url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// InitiateUploadRequest represents a request to start an attachment upload
type InitiateUploadRequest struct {
	Kind        string `json:"kind" binding:"omitempty,oneof=image document"`
	Title       string `json:"title" binding:"omitempty,max=200"`
	FileName    string `json:"file_name" binding:"required,max=255"`
	ContentType string `json:"content_type" binding:"required,max=100"`
}

// InitiateUploadResponse carries the presigned URL for a new attachment
type InitiateUploadResponse struct {
	AttachmentID uuid.UUID `json:"attachment_id"`
	UploadURL    string    `json:"upload_url"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// ToItemResponse converts a domain Item to ItemResponse
func ToItemResponse(i *catalog.Item) ItemResponse {
	return ItemResponse{
		ID:          i.ID,
		OrgID:       i.OrgID,
		Name:        i.Name,
		Description: i.Description,
		SKU:         i.SKU,
		Price:       i.Price,
		Stock:       i.Stock,
		Status:      string(i.Status),
		CreatedAt:   i.CreatedAt,
		UpdatedAt:   i.UpdatedAt,
	}
}

// ToItemResponses converts a slice of domain Items to ItemResponses
func ToItemResponses(items []catalog.Item) []ItemResponse {
	responses := make([]ItemResponse, len(items))
	for i := range items {
		responses[i] = ToItemResponse(&items[i])
	}
	return responses
}

// ToIdentifierResponse converts a domain Identifier to IdentifierResponse
func ToIdentifierResponse(i *catalog.Identifier) IdentifierResponse {
	return IdentifierResponse{
		ID:        i.ID,
		Value:     i.Value,
		Type:      string(i.Type),
		Symbology: i.Symbology,
		Valid:     i.Valid,
		ItemID:    i.ItemID,
		CreatedAt: i.CreatedAt,
	}
}

// ToAttachmentResponse converts a domain Attachment to AttachmentResponse
func ToAttachmentResponse(a *catalog.Attachment) AttachmentResponse {
	return AttachmentResponse{
		ID:          a.ID,
		ItemID:      a.ItemID,
		Kind:        a.Kind,
		Title:       a.Title,
		ContentType: a.ContentType,
		IsPrimary:   a.IsPrimary,
		CreatedAt:   a.CreatedAt,
	}
}
