package shared

import (
	"time"

	"github.com/google/uuid"
)

// Entity is the base interface for all domain entities
type Entity interface {
	GetID() uuid.UUID
	GetCreatedAt() time.Time
	GetUpdatedAt() time.Time
}

// BaseEntity provides common fields for all entities
type BaseEntity struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// GetID returns the entity ID
func (e *BaseEntity) GetID() uuid.UUID {
	return e.ID
}

// GetCreatedAt returns the creation timestamp
func (e *BaseEntity) GetCreatedAt() time.Time {
	return e.CreatedAt
}

// GetUpdatedAt returns the last update timestamp
func (e *BaseEntity) GetUpdatedAt() time.Time {
	return e.UpdatedAt
}

// NewBaseEntity creates a new base entity with generated ID
func NewBaseEntity() BaseEntity {
	now := time.Now()
	return BaseEntity{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// OrgEntity is an entity owned by one organization. The organization is the
// tenant boundary: every query against an OrgEntity filters by OrgID.
type OrgEntity struct {
	BaseEntity
	OrgID uuid.UUID `gorm:"type:uuid;not null;index"`
}

// NewOrgEntity creates a new organization-scoped entity
func NewOrgEntity(orgID uuid.UUID) OrgEntity {
	return OrgEntity{
		BaseEntity: NewBaseEntity(),
		OrgID:      orgID,
	}
}

// GetOrgID returns the owning organization ID
func (e *OrgEntity) GetOrgID() uuid.UUID {
	return e.OrgID
}
