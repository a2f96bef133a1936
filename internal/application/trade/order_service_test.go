package trade

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pulzar/backend/internal/domain/catalog"
	"github.com/pulzar/backend/internal/domain/shared"
	"github.com/pulzar/backend/internal/domain/trade"
)

// ============================================================================
// Mocks
// ============================================================================

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, orgID, id uuid.UUID) (*trade.Order, error) {
	args := m.Called(ctx, orgID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Order), args.Error(1)
}

func (m *MockOrderRepository) FindNewestOpen(ctx context.Context, orgID uuid.UUID) (*trade.Order, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Order), args.Error(1)
}

func (m *MockOrderRepository) Save(ctx context.Context, order *trade.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) IncrementTotal(ctx context.Context, orgID, orderID uuid.UUID, delta decimal.Decimal) error {
	args := m.Called(ctx, orgID, orderID, delta)
	return args.Error(0)
}

func (m *MockOrderRepository) SaveLine(ctx context.Context, line *trade.OrderLine) error {
	args := m.Called(ctx, line)
	return args.Error(0)
}

func (m *MockOrderRepository) FindLine(ctx context.Context, orderID, lineID uuid.UUID) (*trade.OrderLine, error) {
	args := m.Called(ctx, orderID, lineID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.OrderLine), args.Error(1)
}

func (m *MockOrderRepository) FindLines(ctx context.Context, orderID uuid.UUID) ([]trade.OrderLine, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]trade.OrderLine), args.Error(1)
}

func (m *MockOrderRepository) DeleteLine(ctx context.Context, orderID, lineID uuid.UUID) error {
	args := m.Called(ctx, orderID, lineID)
	return args.Error(0)
}

type MockIdentifierRepository struct {
	mock.Mock
}

func (m *MockIdentifierRepository) FindByID(ctx context.Context, orgID, id uuid.UUID) (*catalog.Identifier, error) {
	args := m.Called(ctx, orgID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Identifier), args.Error(1)
}

func (m *MockIdentifierRepository) FindByValue(ctx context.Context, orgID uuid.UUID, value string) (*catalog.Identifier, error) {
	args := m.Called(ctx, orgID, value)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Identifier), args.Error(1)
}

func (m *MockIdentifierRepository) Save(ctx context.Context, identifier *catalog.Identifier) error {
	args := m.Called(ctx, identifier)
	return args.Error(0)
}

func (m *MockIdentifierRepository) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	args := m.Called(ctx, orgID, id)
	return args.Error(0)
}

type MockItemRepository struct {
	mock.Mock
}

func (m *MockItemRepository) FindByID(ctx context.Context, orgID, id uuid.UUID) (*catalog.Item, error) {
	args := m.Called(ctx, orgID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Item), args.Error(1)
}

func (m *MockItemRepository) FindBySKU(ctx context.Context, orgID uuid.UUID, sku string) (*catalog.Item, error) {
	args := m.Called(ctx, orgID, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Item), args.Error(1)
}

func (m *MockItemRepository) FindAll(ctx context.Context, orgID uuid.UUID, filter shared.Filter) ([]catalog.Item, error) {
	args := m.Called(ctx, orgID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Item), args.Error(1)
}

func (m *MockItemRepository) Count(ctx context.Context, orgID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, orgID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockItemRepository) Save(ctx context.Context, item *catalog.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockItemRepository) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	args := m.Called(ctx, orgID, id)
	return args.Error(0)
}

// ============================================================================
// Tests
// ============================================================================

func newOrderService(t *testing.T) (*OrderService, *MockOrderRepository, *MockIdentifierRepository, *MockItemRepository) {
	t.Helper()
	orderRepo := new(MockOrderRepository)
	identifierRepo := new(MockIdentifierRepository)
	itemRepo := new(MockItemRepository)
	svc := NewOrderService(orderRepo, identifierRepo, itemRepo, zap.NewNop())
	return svc, orderRepo, identifierRepo, itemRepo
}

func TestOrderService_GetOrCreateOpen(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New()

	t.Run("returns existing open order", func(t *testing.T) {
		svc, orderRepo, _, _ := newOrderService(t)
		order := trade.NewOrder(orgID)
		orderRepo.On("FindNewestOpen", ctx, orgID).Return(order, nil)
		orderRepo.On("FindLines", ctx, order.ID).Return([]trade.OrderLine{}, nil)

		got, err := svc.GetOrCreateOpen(ctx, orgID)
		require.NoError(t, err)
		assert.Equal(t, order.ID, got.ID)
		orderRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("creates an order when none is open", func(t *testing.T) {
		svc, orderRepo, _, _ := newOrderService(t)
		orderRepo.On("FindNewestOpen", ctx, orgID).Return(nil, shared.ErrNotFound)
		orderRepo.On("Save", ctx, mock.AnythingOfType("*trade.Order")).Return(nil)
		orderRepo.On("FindLines", ctx, mock.AnythingOfType("uuid.UUID")).Return([]trade.OrderLine{}, nil)

		got, err := svc.GetOrCreateOpen(ctx, orgID)
		require.NoError(t, err)
		assert.Equal(t, "open", got.Status)
		assert.True(t, got.Total.IsZero())
		orderRepo.AssertExpectations(t)
	})
}

func TestOrderService_AddScan(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New()

	t.Run("appends a line and increments the total", func(t *testing.T) {
		svc, orderRepo, identifierRepo, itemRepo := newOrderService(t)
		order := trade.NewOrder(orgID)
		item := catalog.NewBlankItem(orgID)
		item.Price = decimal.RequireFromString("2.50")
		identifier, err := catalog.NewIdentifier(orgID, "96385074", catalog.ClassifyIdentifier("96385074"))
		require.NoError(t, err)
		identifier.LinkItem(item.ID)

		orderRepo.On("FindByID", ctx, orgID, order.ID).Return(order, nil)
		identifierRepo.On("FindByValue", ctx, orgID, "96385074").Return(identifier, nil)
		itemRepo.On("FindByID", ctx, orgID, item.ID).Return(item, nil)
		orderRepo.On("SaveLine", ctx, mock.AnythingOfType("*trade.OrderLine")).Return(nil)
		orderRepo.On("IncrementTotal", ctx, orgID, order.ID, decimal.RequireFromString("2.50")).Return(nil)

		line, err := svc.AddScan(ctx, orgID, order.ID, "96385074")
		require.NoError(t, err)
		assert.Equal(t, 1, line.Quantity)
		assert.True(t, line.Total.Equal(decimal.RequireFromString("2.50")))
		orderRepo.AssertExpectations(t)
	})

	t.Run("rejects a closed order", func(t *testing.T) {
		svc, orderRepo, _, _ := newOrderService(t)
		order := trade.NewOrder(orgID)
		require.NoError(t, order.Close())
		orderRepo.On("FindByID", ctx, orgID, order.ID).Return(order, nil)

		_, err := svc.AddScan(ctx, orgID, order.ID, "96385074")
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ORDER_CLOSED", domainErr.Code)
	})

	t.Run("falls back to SKU when no identifier matches", func(t *testing.T) {
		svc, orderRepo, identifierRepo, itemRepo := newOrderService(t)
		order := trade.NewOrder(orgID)
		item := catalog.NewBlankItem(orgID)
		item.SKU = "WIDGET-7"
		item.Price = decimal.RequireFromString("1.25")

		orderRepo.On("FindByID", ctx, orgID, order.ID).Return(order, nil)
		identifierRepo.On("FindByValue", ctx, orgID, "WIDGET-7").Return(nil, shared.ErrNotFound)
		itemRepo.On("FindBySKU", ctx, orgID, "WIDGET-7").Return(item, nil)
		orderRepo.On("SaveLine", ctx, mock.AnythingOfType("*trade.OrderLine")).Return(nil)
		orderRepo.On("IncrementTotal", ctx, orgID, order.ID, decimal.RequireFromString("1.25")).Return(nil)

		line, err := svc.AddScan(ctx, orgID, order.ID, "WIDGET-7")
		require.NoError(t, err)
		assert.Equal(t, item.ID, line.ItemID)
	})

	t.Run("rejects an unknown scan", func(t *testing.T) {
		svc, orderRepo, identifierRepo, itemRepo := newOrderService(t)
		order := trade.NewOrder(orgID)
		orderRepo.On("FindByID", ctx, orgID, order.ID).Return(order, nil)
		identifierRepo.On("FindByValue", ctx, orgID, "00000000").Return(nil, shared.ErrNotFound)
		itemRepo.On("FindBySKU", ctx, orgID, "00000000").Return(nil, shared.ErrNotFound)

		_, err := svc.AddScan(ctx, orgID, order.ID, "00000000")
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "UNRESOLVED_SCAN", domainErr.Code)
	})

	t.Run("rejects an identifier without an item", func(t *testing.T) {
		svc, orderRepo, identifierRepo, _ := newOrderService(t)
		order := trade.NewOrder(orgID)
		identifier, err := catalog.NewIdentifier(orgID, "96385074", catalog.ClassifyIdentifier("96385074"))
		require.NoError(t, err)

		orderRepo.On("FindByID", ctx, orgID, order.ID).Return(order, nil)
		identifierRepo.On("FindByValue", ctx, orgID, "96385074").Return(identifier, nil)

		_, err = svc.AddScan(ctx, orgID, order.ID, "96385074")
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "UNRESOLVED_SCAN", domainErr.Code)
	})

	t.Run("normalizes scanner artifacts before resolving", func(t *testing.T) {
		svc, orderRepo, identifierRepo, itemRepo := newOrderService(t)
		order := trade.NewOrder(orgID)
		item := catalog.NewBlankItem(orgID)
		identifier, err := catalog.NewIdentifier(orgID, "96385074", catalog.ClassifyIdentifier("96385074"))
		require.NoError(t, err)
		identifier.LinkItem(item.ID)

		orderRepo.On("FindByID", ctx, orgID, order.ID).Return(order, nil)
		identifierRepo.On("FindByValue", ctx, orgID, "96385074").Return(identifier, nil)
		itemRepo.On("FindByID", ctx, orgID, item.ID).Return(item, nil)
		orderRepo.On("SaveLine", ctx, mock.AnythingOfType("*trade.OrderLine")).Return(nil)
		orderRepo.On("IncrementTotal", ctx, orgID, order.ID, mock.AnythingOfType("decimal.Decimal")).Return(nil)

		_, err = svc.AddScan(ctx, orgID, order.ID, "  96385074  ")
		require.NoError(t, err)
		identifierRepo.AssertCalled(t, "FindByValue", ctx, orgID, "96385074")
	})
}

func TestOrderService_RemoveLine(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New()

	t.Run("deletes the line and decrements the total", func(t *testing.T) {
		svc, orderRepo, _, _ := newOrderService(t)
		order := trade.NewOrder(orgID)
		line := trade.NewOrderLine(order.ID, uuid.New(), decimal.RequireFromString("3.75"))

		orderRepo.On("FindByID", ctx, orgID, order.ID).Return(order, nil)
		orderRepo.On("FindLine", ctx, order.ID, line.ID).Return(line, nil)
		orderRepo.On("DeleteLine", ctx, order.ID, line.ID).Return(nil)
		orderRepo.On("IncrementTotal", ctx, orgID, order.ID, decimal.RequireFromString("-3.75")).Return(nil)

		require.NoError(t, svc.RemoveLine(ctx, orgID, order.ID, line.ID))
		orderRepo.AssertExpectations(t)
	})

	t.Run("propagates missing line", func(t *testing.T) {
		svc, orderRepo, _, _ := newOrderService(t)
		order := trade.NewOrder(orgID)
		lineID := uuid.New()

		orderRepo.On("FindByID", ctx, orgID, order.ID).Return(order, nil)
		orderRepo.On("FindLine", ctx, order.ID, lineID).Return(nil, shared.ErrNotFound)

		err := svc.RemoveLine(ctx, orgID, order.ID, lineID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		orderRepo.AssertNotCalled(t, "DeleteLine", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestOrderService_Close(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New()

	t.Run("closes an open order", func(t *testing.T) {
		svc, orderRepo, _, _ := newOrderService(t)
		order := trade.NewOrder(orgID)

		orderRepo.On("FindByID", ctx, orgID, order.ID).Return(order, nil)
		orderRepo.On("Save", ctx, order).Return(nil)
		orderRepo.On("FindLines", ctx, order.ID).Return([]trade.OrderLine{}, nil)

		got, err := svc.Close(ctx, orgID, order.ID)
		require.NoError(t, err)
		assert.Equal(t, "closed", got.Status)
	})

	t.Run("rejects double close", func(t *testing.T) {
		svc, orderRepo, _, _ := newOrderService(t)
		order := trade.NewOrder(orgID)
		require.NoError(t, order.Close())

		orderRepo.On("FindByID", ctx, orgID, order.ID).Return(order, nil)

		_, err := svc.Close(ctx, orgID, order.ID)
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_CLOSED", domainErr.Code)
	})
}
