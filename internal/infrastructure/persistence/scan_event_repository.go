package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pulzar/backend/internal/domain/scan"
	"github.com/pulzar/backend/internal/domain/shared"
)

// GormEventRepository implements scan.EventRepository using GORM
type GormEventRepository struct {
	db *gorm.DB
}

// NewGormEventRepository creates a new GormEventRepository
func NewGormEventRepository(db *gorm.DB) *GormEventRepository {
	return &GormEventRepository{db: db}
}

// FindByID finds an event by ID within an organization
func (r *GormEventRepository) FindByID(ctx context.Context, orgID, id uuid.UUID) (*scan.Event, error) {
	var event scan.Event
	if err := r.db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, id).
		First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &event, nil
}

// FindAll finds events for an organization, newest first
func (r *GormEventRepository) FindAll(ctx context.Context, orgID uuid.UUID, filter shared.Filter) ([]scan.Event, error) {
	var events []scan.Event
	query := r.db.WithContext(ctx).Model(&scan.Event{}).
		Where("org_id = ?", orgID).
		Order("created_at DESC")

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if err := query.Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

// Count counts events for an organization
func (r *GormEventRepository) Count(ctx context.Context, orgID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&scan.Event{}).
		Where("org_id = ?", orgID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates an event
func (r *GormEventRepository) Save(ctx context.Context, event *scan.Event) error {
	return r.db.WithContext(ctx).Save(event).Error
}

// Ensure GormEventRepository implements EventRepository
var _ scan.EventRepository = (*GormEventRepository)(nil)
