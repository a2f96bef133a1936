package scan

import (
	"context"

	"github.com/google/uuid"

	"github.com/pulzar/backend/internal/domain/shared"
)

// EventRepository defines the interface for scan event persistence
type EventRepository interface {
	// FindByID finds an event by ID within an organization
	FindByID(ctx context.Context, orgID, id uuid.UUID) (*Event, error)

	// FindAll finds events for an organization, newest first
	FindAll(ctx context.Context, orgID uuid.UUID, filter shared.Filter) ([]Event, error)

	// Count counts events for an organization
	Count(ctx context.Context, orgID uuid.UUID, filter shared.Filter) (int64, error)

	// Save creates or updates an event
	Save(ctx context.Context, event *Event) error
}
