package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/pulzar/backend/internal/domain/catalog"
	"github.com/pulzar/backend/internal/domain/shared"
)

// MockItemRepository is a mock implementation of ItemRepository
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

// MockIdentifierRepository is a mock implementation of IdentifierRepository
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

// MockAttachmentRepository is a mock implementation of AttachmentRepository
type MockAttachmentRepository struct {
	mock.Mock
}

func (m *MockAttachmentRepository) FindByID(ctx context.Context, orgID, id uuid.UUID) (*catalog.Attachment, error) {
	args := m.Called(ctx, orgID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Attachment), args.Error(1)
}

func (m *MockAttachmentRepository) FindByItem(ctx context.Context, orgID, itemID uuid.UUID) ([]catalog.Attachment, error) {
	args := m.Called(ctx, orgID, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Attachment), args.Error(1)
}

func (m *MockAttachmentRepository) Save(ctx context.Context, attachment *catalog.Attachment) error {
	args := m.Called(ctx, attachment)
	return args.Error(0)
}

func (m *MockAttachmentRepository) SetPrimary(ctx context.Context, orgID, itemID, attachmentID uuid.UUID) error {
	args := m.Called(ctx, orgID, itemID, attachmentID)
	return args.Error(0)
}

func (m *MockAttachmentRepository) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	args := m.Called(ctx, orgID, id)
	return args.Error(0)
}

// MockObjectStorage is a mock implementation of ObjectStorageService
type MockObjectStorage struct {
	mock.Mock
}

func (m *MockObjectStorage) GenerateUploadURL(ctx context.Context, objectKey, contentType string, expiresIn time.Duration) (string, time.Time, error) {
	args := m.Called(ctx, objectKey, contentType, expiresIn)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockObjectStorage) GenerateDownloadURL(ctx context.Context, objectKey string, expiresIn time.Duration) (string, time.Time, error) {
	args := m.Called(ctx, objectKey, expiresIn)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockObjectStorage) DeleteObject(ctx context.Context, objectKey string) error {
	args := m.Called(ctx, objectKey)
	return args.Error(0)
}

func (m *MockObjectStorage) ObjectExists(ctx context.Context, objectKey string) (bool, error) {
	args := m.Called(ctx, objectKey)
	return args.Bool(0), args.Error(1)
}
