package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pulzar/backend/internal/domain/catalog"
	"github.com/pulzar/backend/internal/domain/shared"
)

// ItemService handles catalog item operations
type ItemService struct {
	itemRepo       catalog.ItemRepository
	identifierRepo catalog.IdentifierRepository
	logger         *zap.Logger
}

// NewItemService creates a new ItemService
func NewItemService(
	itemRepo catalog.ItemRepository,
	identifierRepo catalog.IdentifierRepository,
	logger *zap.Logger,
) *ItemService {
	return &ItemService{
		itemRepo:       itemRepo,
		identifierRepo: identifierRepo,
		logger:         logger.Named("item_service"),
	}
}

// Get retrieves an item by ID
func (s *ItemService) Get(ctx context.Context, orgID, itemID uuid.UUID) (*ItemResponse, error) {
	item, err := s.itemRepo.FindByID(ctx, orgID, itemID)
	if err != nil {
		return nil, err
	}

	response := ToItemResponse(item)
	return &response, nil
}

// List retrieves a page of items
func (s *ItemService) List(ctx context.Context, orgID uuid.UUID, filter ItemListFilter) (*shared.Paginated[ItemResponse], error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}
	domainFilter.Search = filter.Search

	items, err := s.itemRepo.FindAll(ctx, orgID, domainFilter)
	if err != nil {
		return nil, err
	}

	total, err := s.itemRepo.Count(ctx, orgID, domainFilter)
	if err != nil {
		return nil, err
	}

	page := shared.NewPaginated(ToItemResponses(items), total, domainFilter.Page, domainFilter.PageSize)
	return &page, nil
}

// Update applies a partial update to an item
func (s *ItemService) Update(ctx context.Context, orgID, itemID uuid.UUID, req UpdateItemRequest) (*ItemResponse, error) {
	item, err := s.itemRepo.FindByID(ctx, orgID, itemID)
	if err != nil {
		return nil, err
	}

	update := catalog.ItemUpdate{
		Name:        req.Name,
		Description: req.Description,
		SKU:         req.SKU,
		Price:       req.Price,
		Stock:       req.Stock,
	}
	if req.Status != nil {
		status := catalog.ItemStatus(*req.Status)
		update.Status = &status
	}

	if err := item.Apply(update); err != nil {
		return nil, err
	}

	if err := s.itemRepo.Save(ctx, item); err != nil {
		return nil, err
	}

	response := ToItemResponse(item)
	return &response, nil
}

// GetIdentifier retrieves an identifier by ID
func (s *ItemService) GetIdentifier(ctx context.Context, orgID, identifierID uuid.UUID) (*IdentifierResponse, error) {
	identifier, err := s.identifierRepo.FindByID(ctx, orgID, identifierID)
	if err != nil {
		return nil, err
	}

	response := ToIdentifierResponse(identifier)
	return &response, nil
}

// CreateItemForIdentifier creates a blank item for an identifier that lost
// its item, and links it. Fails when the identifier is already linked.
func (s *ItemService) CreateItemForIdentifier(ctx context.Context, orgID, identifierID uuid.UUID) (*ItemResponse, error) {
	identifier, err := s.identifierRepo.FindByID(ctx, orgID, identifierID)
	if err != nil {
		return nil, err
	}
	if identifier.HasItem() {
		return nil, shared.NewDomainError("IDENTIFIER_LINKED", "Identifier is already linked to an item")
	}

	item := catalog.NewBlankItem(orgID)
	item.SKU = identifier.Value
	if err := s.itemRepo.Save(ctx, item); err != nil {
		return nil, err
	}

	identifier.LinkItem(item.ID)
	if err := s.identifierRepo.Save(ctx, identifier); err != nil {
		return nil, err
	}

	s.logger.Info("created item for identifier",
		zap.String("identifier_id", identifier.ID.String()),
		zap.String("item_id", item.ID.String()))

	response := ToItemResponse(item)
	return &response, nil
}

// UnlinkIdentifier detaches an identifier from its item. The item itself is
// kept; other identifiers may still point at it.
func (s *ItemService) UnlinkIdentifier(ctx context.Context, orgID, identifierID uuid.UUID) (*IdentifierResponse, error) {
	identifier, err := s.identifierRepo.FindByID(ctx, orgID, identifierID)
	if err != nil {
		return nil, err
	}
	if !identifier.HasItem() {
		return nil, shared.NewDomainError("IDENTIFIER_NOT_LINKED", "Identifier is not linked to an item")
	}

	identifier.UnlinkItem()
	if err := s.identifierRepo.Save(ctx, identifier); err != nil {
		return nil, err
	}

	response := ToIdentifierResponse(identifier)
	return &response, nil
}

// Delete removes an item and unlinks any identifier pointing at it
func (s *ItemService) Delete(ctx context.Context, orgID, itemID uuid.UUID) error {
	if _, err := s.itemRepo.FindByID(ctx, orgID, itemID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.ErrNotFound
		}
		return err
	}
	return s.itemRepo.Delete(ctx, orgID, itemID)
}
