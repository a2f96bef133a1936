package catalog

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pulzar/backend/internal/domain/catalog"
	"github.com/pulzar/backend/internal/domain/shared"
)

// allowedContentTypes is the whitelist for attachment uploads. SVG is
// excluded because it can carry scripts.
var allowedContentTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/gif":       true,
	"image/webp":      true,
	"application/pdf": true,
	"text/plain":      true,
}

// ObjectStorageService defines the interface for object storage operations,
// implemented by the infrastructure layer (S3-compatible backends)
type ObjectStorageService interface {
	// GenerateUploadURL generates a presigned URL for uploading an object
	GenerateUploadURL(ctx context.Context, objectKey, contentType string, expiresIn time.Duration) (string, time.Time, error)

	// GenerateDownloadURL generates a presigned URL for downloading an object
	GenerateDownloadURL(ctx context.Context, objectKey string, expiresIn time.Duration) (string, time.Time, error)

	// DeleteObject deletes an object from storage
	DeleteObject(ctx context.Context, objectKey string) error

	// ObjectExists checks if an object exists in storage
	ObjectExists(ctx context.Context, objectKey string) (bool, error)
}

// AttachmentServiceConfig holds configuration for the attachment service
type AttachmentServiceConfig struct {
	UploadURLExpiry       time.Duration
	DownloadURLExpiry     time.Duration
	MaxAttachmentsPerItem int
}

// DefaultAttachmentServiceConfig returns the default configuration
func DefaultAttachmentServiceConfig() AttachmentServiceConfig {
	return AttachmentServiceConfig{
		UploadURLExpiry:       15 * time.Minute,
		DownloadURLExpiry:     1 * time.Hour,
		MaxAttachmentsPerItem: 20,
	}
}

// AttachmentService handles item attachment operations
type AttachmentService struct {
	attachmentRepo catalog.AttachmentRepository
	itemRepo       catalog.ItemRepository
	storage        ObjectStorageService
	config         AttachmentServiceConfig
	logger         *zap.Logger
}

// NewAttachmentService creates a new AttachmentService
func NewAttachmentService(
	attachmentRepo catalog.AttachmentRepository,
	itemRepo catalog.ItemRepository,
	storage ObjectStorageService,
	logger *zap.Logger,
) *AttachmentService {
	return &AttachmentService{
		attachmentRepo: attachmentRepo,
		itemRepo:       itemRepo,
		storage:        storage,
		config:         DefaultAttachmentServiceConfig(),
		logger:         logger.Named("attachment_service"),
	}
}

// SetConfig sets the service configuration
func (s *AttachmentService) SetConfig(config AttachmentServiceConfig) {
	s.config = config
}

// InitiateUpload creates an attachment record and returns a presigned upload
// URL for the client to push the binary to
func (s *AttachmentService) InitiateUpload(
	ctx context.Context,
	orgID, itemID uuid.UUID,
	req InitiateUploadRequest,
) (*InitiateUploadResponse, error) {
	if _, err := s.itemRepo.FindByID(ctx, orgID, itemID); err != nil {
		return nil, err
	}

	existing, err := s.attachmentRepo.FindByItem(ctx, orgID, itemID)
	if err != nil {
		return nil, err
	}
	if len(existing) >= s.config.MaxAttachmentsPerItem {
		return nil, shared.NewDomainError("ATTACHMENT_LIMIT_EXCEEDED",
			fmt.Sprintf("Maximum %d attachments per item allowed", s.config.MaxAttachmentsPerItem))
	}

	if !allowedContentTypes[strings.ToLower(req.ContentType)] {
		return nil, shared.NewDomainError("DISALLOWED_CONTENT_TYPE",
			fmt.Sprintf("Content type '%s' is not allowed", req.ContentType))
	}

	objectKey := s.generateObjectKey(orgID, itemID, req.FileName)

	attachment, err := catalog.NewAttachment(orgID, itemID, req.Kind, req.Title, objectKey, req.ContentType)
	if err != nil {
		return nil, err
	}

	if err := s.attachmentRepo.Save(ctx, attachment); err != nil {
		return nil, err
	}

	uploadURL, expiresAt, err := s.storage.GenerateUploadURL(ctx, objectKey, req.ContentType, s.config.UploadURLExpiry)
	if err != nil {
		// Don't leave an orphan record behind
		_ = s.attachmentRepo.Delete(ctx, orgID, attachment.ID)
		return nil, shared.NewDomainError("UPLOAD_URL_FAILED", "Failed to generate upload URL")
	}

	return &InitiateUploadResponse{
		AttachmentID: attachment.ID,
		UploadURL:    uploadURL,
		ExpiresAt:    expiresAt,
	}, nil
}

// ListByItem retrieves all attachments of an item, with download URLs
func (s *AttachmentService) ListByItem(ctx context.Context, orgID, itemID uuid.UUID) ([]AttachmentResponse, error) {
	attachments, err := s.attachmentRepo.FindByItem(ctx, orgID, itemID)
	if err != nil {
		return nil, err
	}

	responses := make([]AttachmentResponse, len(attachments))
	for i := range attachments {
		responses[i] = ToAttachmentResponse(&attachments[i])
		s.enrichWithURL(ctx, &responses[i], &attachments[i])
	}
	return responses, nil
}

// SetPrimary marks an attachment as its item's primary image
func (s *AttachmentService) SetPrimary(ctx context.Context, orgID, attachmentID uuid.UUID) (*AttachmentResponse, error) {
	attachment, err := s.attachmentRepo.FindByID(ctx, orgID, attachmentID)
	if err != nil {
		return nil, err
	}
	if attachment.Kind != "image" {
		return nil, shared.NewDomainError("NOT_AN_IMAGE", "Only image attachments can be set as primary")
	}

	if err := s.attachmentRepo.SetPrimary(ctx, orgID, attachment.ItemID, attachmentID); err != nil {
		return nil, err
	}

	attachment.IsPrimary = true
	response := ToAttachmentResponse(attachment)
	s.enrichWithURL(ctx, &response, attachment)
	return &response, nil
}

// Delete removes an attachment and its storage object
func (s *AttachmentService) Delete(ctx context.Context, orgID, attachmentID uuid.UUID) error {
	attachment, err := s.attachmentRepo.FindByID(ctx, orgID, attachmentID)
	if err != nil {
		return err
	}

	// The storage object may already be gone; the row is authoritative
	if err := s.storage.DeleteObject(ctx, attachment.ObjectKey); err != nil {
		s.logger.Warn("failed to delete attachment object",
			zap.String("attachment_id", attachment.ID.String()),
			zap.String("object_key", attachment.ObjectKey),
			zap.Error(err))
	}

	return s.attachmentRepo.Delete(ctx, orgID, attachmentID)
}

func (s *AttachmentService) generateObjectKey(orgID, itemID uuid.UUID, fileName string) string {
	ext := filepath.Ext(fileName)
	return fmt.Sprintf("orgs/%s/items/%s/attachments/%s%s",
		orgID.String(), itemID.String(), uuid.New().String(), ext)
}

func (s *AttachmentService) enrichWithURL(ctx context.Context, response *AttachmentResponse, attachment *catalog.Attachment) {
	url, _, err := s.storage.GenerateDownloadURL(ctx, attachment.ObjectKey, s.config.DownloadURLExpiry)
	if err != nil {
		s.logger.Warn("failed to generate download URL",
			zap.String("attachment_id", attachment.ID.String()),
			zap.Error(err))
		return
	}
	response.URL = url
}
