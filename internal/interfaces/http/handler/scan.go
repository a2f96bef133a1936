package handler

import (
	"github.com/gin-gonic/gin"

	scanapp "github.com/pulzar/backend/internal/application/scan"
	"github.com/pulzar/backend/internal/interfaces/http/middleware"
)

// ScanHandler handles scan ingestion API endpoints
type ScanHandler struct {
	BaseHandler
	scanService *scanapp.Service
}

// NewScanHandler creates a new ScanHandler
func NewScanHandler(scanService *scanapp.Service) *ScanHandler {
	return &ScanHandler{
		scanService: scanService,
	}
}

// Submit godoc
// @Summary      Submit a scan
// @Description  Accepts a raw scanner input and queues it for analysis. Known
// @Description  barcodes resolve synchronously; everything else is processed
// @Description  in the background.
// @Tags         scans
// @Accept       json
// @Produce      json
// @Param        request body scanapp.SubmitScanRequest true "Scan submission request"
// @Success      202 {object} dto.Response{data=scanapp.SubmitScanResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /scans [post]
func (h *ScanHandler) Submit(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	var req scanapp.SubmitScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	response, err := h.scanService.Submit(c.Request.Context(), orgID, getUserID(c), req.Value)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Accepted(c, response)
}

// GetByID godoc
// @Summary      Get a scan event
// @Description  Returns a scan event with its analysis results
// @Tags         scans
// @Produce      json
// @Param        id path string true "Scan event ID"
// @Success      200 {object} dto.Response{data=scanapp.EventResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /scans/{id} [get]
func (h *ScanHandler) GetByID(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	eventID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid scan event ID")
		return
	}

	response, err := h.scanService.GetEvent(c.Request.Context(), orgID, eventID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, response)
}

// List godoc
// @Summary      List scan events
// @Description  Returns scan events for the organization, newest first
// @Tags         scans
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]scanapp.EventResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /scans [get]
func (h *ScanHandler) List(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	var filter scanapp.EventListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.scanService.ListEvents(c.Request.Context(), orgID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// RegisterRoutes registers scan routes
func (h *ScanHandler) RegisterRoutes(rg *gin.RouterGroup) {
	scans := rg.Group("/scans")
	{
		scans.POST("", h.Submit)
		scans.GET("", h.List)
		scans.GET("/:id", h.GetByID)
	}
}
