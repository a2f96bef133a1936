package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pulzar/backend/internal/domain/trade"
)

// AddScanRequest represents a scanned value to add to an order
type AddScanRequest struct {
	Value string `json:"value" binding:"required,max=2000"`
}

// OrderLineResponse represents an order line in API responses
type OrderLineResponse struct {
	ID       uuid.UUID       `json:"id"`
	ItemID   uuid.UUID       `json:"item_id"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Total    decimal.Decimal `json:"total"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID        uuid.UUID           `json:"id"`
	Status    string              `json:"status"`
	Total     decimal.Decimal     `json:"total"`
	Lines     []OrderLineResponse `json:"lines,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// ToOrderLineResponse converts a domain OrderLine to OrderLineResponse
func ToOrderLineResponse(l *trade.OrderLine) OrderLineResponse {
	return OrderLineResponse{
		ID:       l.ID,
		ItemID:   l.ItemID,
		Quantity: l.Quantity,
		Price:    l.Price,
		Total:    l.Total,
	}
}

// ToOrderResponse converts a domain Order and its lines to OrderResponse
func ToOrderResponse(o *trade.Order, lines []trade.OrderLine) OrderResponse {
	response := OrderResponse{
		ID:        o.ID,
		Status:    string(o.Status),
		Total:     o.Total,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
	for i := range lines {
		response.Lines = append(response.Lines, ToOrderLineResponse(&lines[i]))
	}
	return response
}
