package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/pulzar/backend/internal/domain/shared"
	"github.com/pulzar/backend/internal/domain/trade"
)

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID finds an order by ID within an organization
func (r *GormOrderRepository) FindByID(ctx context.Context, orgID, id uuid.UUID) (*trade.Order, error) {
	var order trade.Order
	if err := r.db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, id).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindNewestOpen finds the most recently created open order
func (r *GormOrderRepository) FindNewestOpen(ctx context.Context, orgID uuid.UUID) (*trade.Order, error) {
	var order trade.Order
	if err := r.db.WithContext(ctx).
		Where("org_id = ? AND status = ?", orgID, trade.OrderStatusOpen).
		Order("created_at DESC").
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// Save creates or updates an order
func (r *GormOrderRepository) Save(ctx context.Context, order *trade.Order) error {
	return r.db.WithContext(ctx).Save(order).Error
}

// IncrementTotal atomically adds delta to the order's denormalized total
func (r *GormOrderRepository) IncrementTotal(ctx context.Context, orgID, orderID uuid.UUID, delta decimal.Decimal) error {
	result := r.db.WithContext(ctx).Model(&trade.Order{}).
		Where("org_id = ? AND id = ?", orgID, orderID).
		Update("total", gorm.Expr("total + ?", delta))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// SaveLine creates or updates an order line
func (r *GormOrderRepository) SaveLine(ctx context.Context, line *trade.OrderLine) error {
	return r.db.WithContext(ctx).Save(line).Error
}

// FindLine finds a line of an order
func (r *GormOrderRepository) FindLine(ctx context.Context, orderID, lineID uuid.UUID) (*trade.OrderLine, error) {
	var line trade.OrderLine
	if err := r.db.WithContext(ctx).
		Where("order_id = ? AND id = ?", orderID, lineID).
		First(&line).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &line, nil
}

// FindLines finds all lines of an order, oldest first
func (r *GormOrderRepository) FindLines(ctx context.Context, orderID uuid.UUID) ([]trade.OrderLine, error) {
	var lines []trade.OrderLine
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}

// DeleteLine deletes a line of an order
func (r *GormOrderRepository) DeleteLine(ctx context.Context, orderID, lineID uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&trade.OrderLine{}, "order_id = ? AND id = ?", orderID, lineID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormOrderRepository implements OrderRepository
var _ trade.OrderRepository = (*GormOrderRepository)(nil)
