package trade

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// FindByID finds an order by ID within an organization
	FindByID(ctx context.Context, orgID, id uuid.UUID) (*Order, error)

	// FindNewestOpen finds the most recently created open order, or
	// shared.ErrNotFound when none exists
	FindNewestOpen(ctx context.Context, orgID uuid.UUID) (*Order, error)

	// Save creates or updates an order
	Save(ctx context.Context, order *Order) error

	// IncrementTotal atomically adds delta to the order's denormalized total
	IncrementTotal(ctx context.Context, orgID, orderID uuid.UUID, delta decimal.Decimal) error

	// SaveLine creates or updates an order line
	SaveLine(ctx context.Context, line *OrderLine) error

	// FindLine finds a line of an order
	FindLine(ctx context.Context, orderID, lineID uuid.UUID) (*OrderLine, error)

	// FindLines finds all lines of an order
	FindLines(ctx context.Context, orderID uuid.UUID) ([]OrderLine, error)

	// DeleteLine deletes a line of an order
	DeleteLine(ctx context.Context, orderID, lineID uuid.UUID) error
}
