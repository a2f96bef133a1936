package handler

import (
	"github.com/gin-gonic/gin"

	catalogapp "github.com/pulzar/backend/internal/application/catalog"
	"github.com/pulzar/backend/internal/interfaces/http/middleware"
)

// ItemHandler handles catalog item and identifier API endpoints
type ItemHandler struct {
	BaseHandler
	itemService *catalogapp.ItemService
}

// NewItemHandler creates a new ItemHandler
func NewItemHandler(itemService *catalogapp.ItemService) *ItemHandler {
	return &ItemHandler{
		itemService: itemService,
	}
}

// List godoc
// @Summary      List items
// @Description  Returns catalog items with optional search and pagination
// @Tags         items
// @Produce      json
// @Param        search query string false "Search in name, description and SKU"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]catalogapp.ItemResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /catalog/items [get]
func (h *ItemHandler) List(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	var filter catalogapp.ItemListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.itemService.List(c.Request.Context(), orgID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// GetByID godoc
// @Summary      Get an item
// @Tags         items
// @Produce      json
// @Param        id path string true "Item ID"
// @Success      200 {object} dto.Response{data=catalogapp.ItemResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /catalog/items/{id} [get]
func (h *ItemHandler) GetByID(c *gin.Context) {
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

	response, err := h.itemService.Get(c.Request.Context(), orgID, itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, response)
}

// Update godoc
// @Summary      Update an item
// @Description  Applies a partial update to an item. Only provided fields change.
// @Tags         items
// @Accept       json
// @Produce      json
// @Param        id path string true "Item ID"
// @Param        request body catalogapp.UpdateItemRequest true "Item update request"
// @Success      200 {object} dto.Response{data=catalogapp.ItemResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /catalog/items/{id} [put]
func (h *ItemHandler) Update(c *gin.Context) {
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

	var req catalogapp.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	response, err := h.itemService.Update(c.Request.Context(), orgID, itemID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, response)
}

// Delete godoc
// @Summary      Delete an item
// @Tags         items
// @Param        id path string true "Item ID"
// @Success      204 "No Content"
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /catalog/items/{id} [delete]
func (h *ItemHandler) Delete(c *gin.Context) {
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

	if err := h.itemService.Delete(c.Request.Context(), orgID, itemID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// GetIdentifier godoc
// @Summary      Get an identifier
// @Tags         identifiers
// @Produce      json
// @Param        id path string true "Identifier ID"
// @Success      200 {object} dto.Response{data=catalogapp.IdentifierResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /catalog/identifiers/{id} [get]
func (h *ItemHandler) GetIdentifier(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	identifierID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid identifier ID")
		return
	}

	response, err := h.itemService.GetIdentifier(c.Request.Context(), orgID, identifierID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, response)
}

// CreateItemForIdentifier godoc
// @Summary      Create an item for an identifier
// @Description  Creates a blank item and links it to an identifier that has no
// @Description  item yet
// @Tags         identifiers
// @Produce      json
// @Param        id path string true "Identifier ID"
// @Success      201 {object} dto.Response{data=catalogapp.ItemResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /catalog/identifiers/{id}/item [post]
func (h *ItemHandler) CreateItemForIdentifier(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	identifierID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid identifier ID")
		return
	}

	response, err := h.itemService.CreateItemForIdentifier(c.Request.Context(), orgID, identifierID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, response)
}

// UnlinkIdentifier godoc
// @Summary      Unlink an identifier from its item
// @Tags         identifiers
// @Produce      json
// @Param        id path string true "Identifier ID"
// @Success      200 {object} dto.Response{data=catalogapp.IdentifierResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /catalog/identifiers/{id}/item [delete]
func (h *ItemHandler) UnlinkIdentifier(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "Invalid organization ID")
		return
	}

	identifierID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid identifier ID")
		return
	}

	response, err := h.itemService.UnlinkIdentifier(c.Request.Context(), orgID, identifierID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, response)
}

// RegisterRoutes registers item and identifier routes
func (h *ItemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	items := rg.Group("/catalog/items")
	{
		items.GET("", h.List)
		items.GET("/:id", h.GetByID)
		items.PUT("/:id", h.Update)
		items.DELETE("/:id", h.Delete)
	}

	identifiers := rg.Group("/catalog/identifiers")
	{
		identifiers.GET("/:id", h.GetIdentifier)
		identifiers.POST("/:id/item", h.CreateItemForIdentifier)
		identifiers.DELETE("/:id/item", h.UnlinkIdentifier)
	}
}
