package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pulzar/backend/internal/domain/shared"
)

// OrderStatus represents the status of a point-of-sale order
type OrderStatus string

const (
	OrderStatusOpen   OrderStatus = "open"
	OrderStatusClosed OrderStatus = "closed"
)

// Order is a point-of-sale order. Total is denormalized and kept in sync by
// atomic increments as lines are added and removed; the intended invariant
// is total == sum of line totals, not enforced transactionally across the
// whole aggregate.
type Order struct {
	shared.OrgEntity
	Status OrderStatus     `gorm:"type:varchar(20);not null;default:'open';index"`
	Total  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// NewOrder creates an open order with a zero total
func NewOrder(orgID uuid.UUID) *Order {
	return &Order{
		OrgEntity: shared.NewOrgEntity(orgID),
		Status:    OrderStatusOpen,
		Total:     decimal.Zero,
	}
}

// IsOpen reports whether lines can still be added
func (o *Order) IsOpen() bool {
	return o.Status == OrderStatusOpen
}

// Close closes the order
func (o *Order) Close() error {
	if o.Status == OrderStatusClosed {
		return shared.NewDomainError("ALREADY_CLOSED", "Order is already closed")
	}
	o.Status = OrderStatusClosed
	o.UpdatedAt = time.Now()
	return nil
}

// OrderLine is one scanned item on an order
type OrderLine struct {
	shared.BaseEntity
	OrderID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity int             `gorm:"not null;default:1"`
	Price    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Total    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (OrderLine) TableName() string {
	return "order_lines"
}

// NewOrderLine creates a line for one unit of an item at the given price
func NewOrderLine(orderID, itemID uuid.UUID, price decimal.Decimal) *OrderLine {
	quantity := 1
	return &OrderLine{
		BaseEntity: shared.NewBaseEntity(),
		OrderID:    orderID,
		ItemID:     itemID,
		Quantity:   quantity,
		Price:      price,
		Total:      price.Mul(decimal.NewFromInt(int64(quantity))),
	}
}
