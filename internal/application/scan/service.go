package scan

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pulzar/backend/internal/domain/catalog"
	"github.com/pulzar/backend/internal/domain/scan"
	"github.com/pulzar/backend/internal/domain/shared"
)

// ProductLookup resolves external product data for a scanned code. Returns
// (nil, nil) when no source had a match.
type ProductLookup interface {
	Lookup(ctx context.Context, code string) (*catalog.ExternalProduct, error)
}

// Service ingests raw scans and runs the analysis pipeline over them
type Service struct {
	eventRepo       scan.EventRepository
	identifierRepo  catalog.IdentifierRepository
	itemRepo        catalog.ItemRepository
	lookup          ProductLookup
	pipelineTimeout time.Duration
	logger          *zap.Logger
	wg              sync.WaitGroup
}

// NewService creates a new scan Service. lookup may be nil when enrichment is
// disabled.
func NewService(
	eventRepo scan.EventRepository,
	identifierRepo catalog.IdentifierRepository,
	itemRepo catalog.ItemRepository,
	lookup ProductLookup,
	pipelineTimeout time.Duration,
	logger *zap.Logger,
) *Service {
	if pipelineTimeout <= 0 {
		pipelineTimeout = 60 * time.Second
	}
	return &Service{
		eventRepo:       eventRepo,
		identifierRepo:  identifierRepo,
		itemRepo:        itemRepo,
		lookup:          lookup,
		pipelineTimeout: pipelineTimeout,
		logger:          logger.Named("scan_service"),
	}
}

// Submit records a raw scan and kicks off its processing pipeline. When the
// value is a barcode already known to the organization, the identifier and
// item are resolved synchronously so the caller can react immediately; the
// pipeline still runs for enrichment.
func (s *Service) Submit(ctx context.Context, orgID uuid.UUID, userID, raw string) (*SubmitScanResponse, error) {
	normalized := catalog.NormalizeScannedInput(raw)
	if normalized == "" {
		return nil, shared.NewDomainError("EMPTY_SCAN", "Scanned value cannot be empty")
	}

	event, err := scan.NewEvent(orgID, normalized, userID)
	if err != nil {
		return nil, err
	}
	if err := s.eventRepo.Save(ctx, event); err != nil {
		return nil, err
	}

	response := &SubmitScanResponse{
		EventID: event.ID,
		Status:  string(scan.StatusCreated),
	}

	// Fast path for codes the organization has seen before
	if catalog.DetectInput(normalized) == catalog.InputBarcode {
		identifier, err := s.identifierRepo.FindByValue(ctx, orgID, normalized)
		if err == nil && identifier.HasItem() {
			response.IdentifierID = &identifier.ID
			response.ItemID = identifier.ItemID

			classification := catalog.ClassifyIdentifier(normalized)
			mergeErr := event.MergeContent(func(c *scan.Content) {
				analysis := c.EnsureAnalysis()
				analysis.Identifier = &scan.IdentifierAnalysis{
					Value:     normalized,
					Type:      string(classification.IdentifierType()),
					Symbology: classification.Symbology(),
					Valid:     classification.Valid,
				}
				analysis.Resolved = &scan.ResolvedAnalysis{
					IdentifierID: identifier.ID,
					ItemID:       identifier.ItemID,
				}
			})
			if mergeErr == nil {
				if err := s.eventRepo.Save(ctx, event); err != nil {
					s.logger.Warn("failed to persist fast-path resolution",
						zap.String("event_id", event.ID.String()), zap.Error(err))
				}
			}
		}
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		pipelineCtx, cancel := context.WithTimeout(context.Background(), s.pipelineTimeout)
		defer cancel()
		if err := s.ProcessEvent(pipelineCtx, orgID, event.ID); err != nil {
			s.logger.Error("scan pipeline failed",
				zap.String("event_id", event.ID.String()),
				zap.Error(err))
		}
	}()

	return response, nil
}

// Wait blocks until all in-flight pipeline runs finish. Used on shutdown.
func (s *Service) Wait() {
	s.wg.Wait()
}

// GetEvent retrieves a scan event
func (s *Service) GetEvent(ctx context.Context, orgID, eventID uuid.UUID) (*EventResponse, error) {
	event, err := s.eventRepo.FindByID(ctx, orgID, eventID)
	if err != nil {
		return nil, err
	}
	response, err := ToEventResponse(event)
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// ListEvents retrieves a page of scan events, newest first
func (s *Service) ListEvents(ctx context.Context, orgID uuid.UUID, filter EventListFilter) (*shared.Paginated[EventResponse], error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}

	events, err := s.eventRepo.FindAll(ctx, orgID, domainFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.eventRepo.Count(ctx, orgID, domainFilter)
	if err != nil {
		return nil, err
	}

	page := shared.NewPaginated(ToEventResponses(events), total, domainFilter.Page, domainFilter.PageSize)
	return &page, nil
}

// ProcessEvent runs the analysis pipeline over one event. Failures are
// recorded on the event; a failed run is terminal and never retried.
func (s *Service) ProcessEvent(ctx context.Context, orgID, eventID uuid.UUID) (err error) {
	event, err := s.eventRepo.FindByID(ctx, orgID, eventID)
	if err != nil {
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("scan pipeline panicked: %v", r)
			s.failEvent(ctx, event, err)
		}
	}()

	content, err := event.DecodeContent()
	if err != nil {
		return err
	}
	raw := content.Payload.Raw
	kind := catalog.DetectInput(raw)

	if err := event.MergeContent(func(c *scan.Content) {
		c.Status = scan.StatusProcessing
		c.Type = string(kind)
	}); err != nil {
		return err
	}
	if err := s.eventRepo.Save(ctx, event); err != nil {
		return err
	}

	switch kind {
	case catalog.InputBarcode:
		err = s.processBarcode(ctx, orgID, event, raw)
	case catalog.InputURL:
		err = s.processURL(ctx, event, raw)
	default:
		err = s.finishEvent(ctx, event)
	}
	if err != nil {
		s.failEvent(ctx, event, err)
		return err
	}
	return nil
}

func (s *Service) processBarcode(ctx context.Context, orgID uuid.UUID, event *scan.Event, raw string) error {
	classification := catalog.ClassifyIdentifier(raw)

	if err := event.MergeContent(func(c *scan.Content) {
		c.Payload.Identifier = raw
		c.EnsureAnalysis().Identifier = &scan.IdentifierAnalysis{
			Value:     raw,
			Type:      string(classification.IdentifierType()),
			Symbology: classification.Symbology(),
			Valid:     classification.Valid,
		}
	}); err != nil {
		return err
	}

	identifier, item, err := s.resolve(ctx, orgID, raw, classification)
	if err != nil {
		return err
	}

	if err := event.MergeContent(func(c *scan.Content) {
		c.EnsureAnalysis().Resolved = &scan.ResolvedAnalysis{
			IdentifierID: identifier.ID,
			ItemID:       identifier.ItemID,
		}
	}); err != nil {
		return err
	}
	if err := s.eventRepo.Save(ctx, event); err != nil {
		return err
	}

	if s.lookup != nil {
		if err := s.enrich(ctx, event, item, raw); err != nil {
			return err
		}
	}

	return s.finishEvent(ctx, event)
}

func (s *Service) enrich(ctx context.Context, event *scan.Event, item *catalog.Item, raw string) error {
	product, err := s.lookup.Lookup(ctx, raw)
	if err != nil {
		return fmt.Errorf("product lookup failed: %w", err)
	}

	lookupResult := &scan.ProductLookupAnalysis{
		OK:        product != nil,
		Provider:  "ai",
		FetchedAt: time.Now().UTC(),
	}
	if product != nil {
		lookupResult.Provider = product.Source
		mapped := product.Mapped
		lookupResult.Mapped = &mapped
		lookupResult.Raw = product.Raw

		if item != nil && item.Enrich(product.Mapped, raw) {
			if err := s.itemRepo.Save(ctx, item); err != nil {
				return fmt.Errorf("failed to save enriched item: %w", err)
			}
			s.logger.Info("item enriched",
				zap.String("item_id", item.ID.String()),
				zap.String("provider", product.Source))
		}
	}

	return event.MergeContent(func(c *scan.Content) {
		c.EnsureAnalysis().ProductLookup = lookupResult
	})
}

func (s *Service) processURL(ctx context.Context, event *scan.Event, raw string) error {
	normalized := catalog.NormalizeURL(raw)
	if err := event.MergeContent(func(c *scan.Content) {
		c.Payload.URL = normalized
		c.EnsureAnalysis().URL = &scan.URLAnalysis{
			Value:    normalized,
			Original: raw,
		}
	}); err != nil {
		return err
	}
	return s.finishEvent(ctx, event)
}

// resolve finds or creates the identifier for a scanned value, and the item
// it points at. A fresh identifier gets a blank item; a dangling item link is
// repaired with a new blank item.
func (s *Service) resolve(ctx context.Context, orgID uuid.UUID, value string, classification catalog.Classification) (*catalog.Identifier, *catalog.Item, error) {
	identifier, err := s.identifierRepo.FindByValue(ctx, orgID, value)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, nil, err
		}
		return s.create(ctx, orgID, value, classification)
	}

	if identifier.HasItem() {
		item, err := s.itemRepo.FindByID(ctx, orgID, *identifier.ItemID)
		if err == nil {
			return identifier, item, nil
		}
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, nil, err
		}
		s.logger.Warn("identifier points at a missing item",
			zap.String("identifier_id", identifier.ID.String()),
			zap.String("item_id", identifier.ItemID.String()))
	}

	item := catalog.NewBlankItem(orgID)
	if err := s.itemRepo.Save(ctx, item); err != nil {
		return nil, nil, err
	}
	identifier.LinkItem(item.ID)
	if err := s.identifierRepo.Save(ctx, identifier); err != nil {
		return nil, nil, err
	}
	return identifier, item, nil
}

func (s *Service) create(ctx context.Context, orgID uuid.UUID, value string, classification catalog.Classification) (*catalog.Identifier, *catalog.Item, error) {
	identifier, err := catalog.NewIdentifier(orgID, value, classification)
	if err != nil {
		return nil, nil, err
	}

	item := catalog.NewBlankItem(orgID)
	if err := s.itemRepo.Save(ctx, item); err != nil {
		return nil, nil, err
	}
	identifier.LinkItem(item.ID)

	if err := s.identifierRepo.Save(ctx, identifier); err != nil {
		// Lost the creation race with a concurrent scan of the same value
		if errors.Is(err, shared.ErrAlreadyExists) {
			_ = s.itemRepo.Delete(ctx, orgID, item.ID)
			existing, findErr := s.identifierRepo.FindByValue(ctx, orgID, value)
			if findErr != nil {
				return nil, nil, findErr
			}
			return s.resolveExisting(ctx, orgID, existing)
		}
		return nil, nil, err
	}

	s.logger.Info("created identifier with blank item",
		zap.String("value", value),
		zap.String("identifier_id", identifier.ID.String()),
		zap.String("item_id", item.ID.String()))
	return identifier, item, nil
}

func (s *Service) resolveExisting(ctx context.Context, orgID uuid.UUID, identifier *catalog.Identifier) (*catalog.Identifier, *catalog.Item, error) {
	if !identifier.HasItem() {
		return identifier, nil, nil
	}
	item, err := s.itemRepo.FindByID(ctx, orgID, *identifier.ItemID)
	if err != nil {
		return nil, nil, err
	}
	return identifier, item, nil
}

func (s *Service) finishEvent(ctx context.Context, event *scan.Event) error {
	if err := event.MergeContent(func(c *scan.Content) {
		c.Status = scan.StatusDone
	}); err != nil {
		return err
	}
	return s.eventRepo.Save(ctx, event)
}

// failEvent marks the event failed, best effort. The pipeline error is the
// one reported; persistence problems here are only logged.
func (s *Service) failEvent(ctx context.Context, event *scan.Event, cause error) {
	mergeErr := event.MergeContent(func(c *scan.Content) {
		c.Status = scan.StatusError
		c.Error = cause.Error()
	})
	if mergeErr == nil {
		mergeErr = s.eventRepo.Save(ctx, event)
	}
	if mergeErr != nil {
		s.logger.Error("failed to record pipeline failure",
			zap.String("event_id", event.ID.String()),
			zap.Error(mergeErr))
	}
}
