package trade

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pulzar/backend/internal/domain/catalog"
	"github.com/pulzar/backend/internal/domain/shared"
	"github.com/pulzar/backend/internal/domain/trade"
)

// OrderService handles point-of-sale order operations
type OrderService struct {
	orderRepo      trade.OrderRepository
	identifierRepo catalog.IdentifierRepository
	itemRepo       catalog.ItemRepository
	logger         *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(
	orderRepo trade.OrderRepository,
	identifierRepo catalog.IdentifierRepository,
	itemRepo catalog.ItemRepository,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		orderRepo:      orderRepo,
		identifierRepo: identifierRepo,
		itemRepo:       itemRepo,
		logger:         logger.Named("order_service"),
	}
}

// GetOrCreateOpen returns the newest open order, creating one when the
// organization has none. The open order is the implicit target of scans at
// the register.
func (s *OrderService) GetOrCreateOpen(ctx context.Context, orgID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindNewestOpen(ctx, orgID)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		order = trade.NewOrder(orgID)
		if err := s.orderRepo.Save(ctx, order); err != nil {
			return nil, err
		}
		s.logger.Info("opened new order", zap.String("order_id", order.ID.String()))
	}

	return s.buildResponse(ctx, order)
}

// Get retrieves an order with its lines
func (s *OrderService) Get(ctx context.Context, orgID, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orgID, orderID)
	if err != nil {
		return nil, err
	}
	return s.buildResponse(ctx, order)
}

// AddScan resolves a scanned value to an item and appends a one-unit line to
// the order, keeping the denormalized total in sync with an atomic increment.
func (s *OrderService) AddScan(ctx context.Context, orgID, orderID uuid.UUID, value string) (*OrderLineResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orgID, orderID)
	if err != nil {
		return nil, err
	}
	if !order.IsOpen() {
		return nil, shared.NewDomainError("ORDER_CLOSED", "Cannot add lines to a closed order")
	}

	normalized := catalog.NormalizeScannedInput(value)
	item, err := s.resolveItem(ctx, orgID, normalized)
	if err != nil {
		return nil, err
	}

	line := trade.NewOrderLine(order.ID, item.ID, item.Price)
	if err := s.orderRepo.SaveLine(ctx, line); err != nil {
		return nil, err
	}
	if err := s.orderRepo.IncrementTotal(ctx, orgID, order.ID, line.Total); err != nil {
		return nil, err
	}

	s.logger.Info("added scan to order",
		zap.String("order_id", order.ID.String()),
		zap.String("item_id", item.ID.String()),
		zap.String("line_total", line.Total.String()))

	response := ToOrderLineResponse(line)
	return &response, nil
}

// resolveItem maps a scanned value to an item, first through the identifier
// table, then by treating the value as a SKU.
func (s *OrderService) resolveItem(ctx context.Context, orgID uuid.UUID, value string) (*catalog.Item, error) {
	identifier, err := s.identifierRepo.FindByValue(ctx, orgID, value)
	if err == nil {
		if !identifier.HasItem() {
			return nil, shared.NewDomainError("UNRESOLVED_SCAN", "Identifier is not linked to an item")
		}
		return s.itemRepo.FindByID(ctx, orgID, *identifier.ItemID)
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	item, err := s.itemRepo.FindBySKU(ctx, orgID, value)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("UNRESOLVED_SCAN", "Scanned value matches no identifier or SKU")
		}
		return nil, err
	}
	return item, nil
}

// RemoveLine deletes a line from an order and decrements the total
func (s *OrderService) RemoveLine(ctx context.Context, orgID, orderID, lineID uuid.UUID) error {
	order, err := s.orderRepo.FindByID(ctx, orgID, orderID)
	if err != nil {
		return err
	}
	if !order.IsOpen() {
		return shared.NewDomainError("ORDER_CLOSED", "Cannot remove lines from a closed order")
	}

	line, err := s.orderRepo.FindLine(ctx, orderID, lineID)
	if err != nil {
		return err
	}

	if err := s.orderRepo.DeleteLine(ctx, orderID, lineID); err != nil {
		return err
	}
	return s.orderRepo.IncrementTotal(ctx, orgID, orderID, line.Total.Neg())
}

// Close closes an order so no more lines can be added
func (s *OrderService) Close(ctx context.Context, orgID, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orgID, orderID)
	if err != nil {
		return nil, err
	}
	if err := order.Close(); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}
	return s.buildResponse(ctx, order)
}

func (s *OrderService) buildResponse(ctx context.Context, order *trade.Order) (*OrderResponse, error) {
	lines, err := s.orderRepo.FindLines(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(order, lines)
	return &response, nil
}
