package handler

import (
	"github.com/gin-gonic/gin"

	catalogapp "github.com/pulzar/backend/internal/application/catalog"
	"github.com/pulzar/backend/internal/interfaces/http/middleware"
)

// AttachmentHandler handles item attachment API endpoints
type AttachmentHandler struct {
	BaseHandler
	attachmentService *catalogapp.AttachmentService
}

// NewAttachmentHandler creates a new AttachmentHandler
func NewAttachmentHandler(attachmentService *catalogapp.AttachmentService) *AttachmentHandler {
	return &AttachmentHandler{
		attachmentService: attachmentService,
	}
}

// InitiateUpload godoc
// @Summary      Initiate an attachment upload
// @Description  Creates an attachment record and returns a presigned URL the
// @Description  client uploads the file to directly
// @Tags         attachments
// @Accept       json
// @Produce      json
// @Param        id path string true "Item ID"
// @Param        request body catalogapp.InitiateUploadRequest true "Upload request"
// @Success      201 {object} dto.Response{data=catalogapp.InitiateUploadResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /catalog/items/{id}/attachments [post]
func (h *AttachmentHandler) InitiateUpload(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	itemID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid item ID")
		return
	}

	var req catalogapp.InitiateUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	response, err := h.attachmentService.InitiateUpload(c.Request.Context(), orgID, itemID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, response)
}

// ListByItem godoc
// @Summary      List item attachments
// @Description  Returns attachments for an item with short-lived download URLs
// @Tags         attachments
// @Produce      json
// @Param        id path string true "Item ID"
// @Success      200 {object} dto.Response{data=[]catalogapp.AttachmentResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /catalog/items/{id}/attachments [get]
func (h *AttachmentHandler) ListByItem(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	itemID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid item ID")
		return
	}

	responses, err := h.attachmentService.ListByItem(c.Request.Context(), orgID, itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, responses)
}

// SetPrimary godoc
// @Summary      Set the primary image
// @Description  Marks an image attachment as the item's primary image
// @Tags         attachments
// @Produce      json
// @Param        id path string true "Item ID"
// @Param        attachmentId path string true "Attachment ID"
// @Success      200 {object} dto.Response{data=catalogapp.AttachmentResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /catalog/items/{id}/attachments/{attachmentId}/primary [post]
func (h *AttachmentHandler) SetPrimary(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	attachmentID, err := parseIDParam(c, "attachmentId")
	if err != nil {
		h.BadRequest(c, "Invalid attachment ID")
		return
	}

	response, err := h.attachmentService.SetPrimary(c.Request.Context(), orgID, attachmentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, response)
}

// Delete godoc
// @Summary      Delete an attachment
// @Tags         attachments
// @Param        id path string true "Item ID"
// @Param        attachmentId path string true "Attachment ID"
// @Success      204 "No Content"
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /catalog/items/{id}/attachments/{attachmentId} [delete]
func (h *AttachmentHandler) Delete(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	attachmentID, err := parseIDParam(c, "attachmentId")
	if err != nil {
		h.BadRequest(c, "Invalid attachment ID")
		return
	}

	if err := h.attachmentService.Delete(c.Request.Context(), orgID, attachmentID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// RegisterRoutes registers attachment routes under the item resource
func (h *AttachmentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	attachments := rg.Group("/catalog/items/:id/attachments")
	{
		attachments.POST("", h.InitiateUpload)
		attachments.GET("", h.ListByItem)
		attachments.POST("/:attachmentId/primary", h.SetPrimary)
		attachments.DELETE("/:attachmentId", h.Delete)
	}
}
