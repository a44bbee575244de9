package handler

import (
	"net/http"

	"restaurant-pos/internal/middleware"
	"restaurant-pos/internal/service"
	"restaurant-pos/pkg/response"

	"github.com/gin-gonic/gin"
)

type InventoryHandler struct {
	inventoryService service.InventoryService
}

func NewInventoryHandler(inventoryService service.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService}
}

func (h *InventoryHandler) RegisterRoutes(router *gin.RouterGroup) {
	inventory := router.Group("/api/inventory")
	{
		inventory.GET("", h.List)
		inventory.POST("", middleware.RequirePermission("edit_inventory"), h.Create)
		inventory.PUT("/:id", middleware.RequirePermission("edit_inventory"), h.Update)
		inventory.DELETE("/:id", middleware.RequirePermission("edit_inventory"), h.Delete)
	}
}

// List handles GET /api/inventory
// @Summary      List inventory
// @Description  Lists stock items with their low-stock flag
// @Tags         inventory
// @Produce      json
// @Success      200  {object}  response.Response{data=[]service.InventoryItemResponse}
// @Router       /api/inventory [get]
func (h *InventoryHandler) List(c *gin.Context) {
	items, err := h.inventoryService.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, items))
}

// Create handles POST /api/inventory
// @Summary      Create inventory item
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateInventoryItemRequest  true  "Create Inventory Payload"
// @Success      201      {object}  response.Response{data=service.InventoryItemResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/inventory [post]
func (h *InventoryHandler) Create(c *gin.Context) {
	var req service.CreateInventoryItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	item, err := h.inventoryService.Create(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, item))
}

// Update handles PUT /api/inventory/:id
// @Summary      Update inventory item
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      int                                 true  "Inventory Item ID"
// @Param        payload  body      service.UpdateInventoryItemRequest  true  "Update Inventory Payload"
// @Success      200      {object}  response.Response{data=service.InventoryItemResponse}
// @Failure      404      {object}  response.Response
// @Router       /api/inventory/{id} [put]
func (h *InventoryHandler) Update(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		fail(c, err)
		return
	}

	var req service.UpdateInventoryItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	item, err := h.inventoryService.Update(c.Request.Context(), id, req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, item))
}

// Delete handles DELETE /api/inventory/:id
// @Summary      Delete inventory item
// @Tags         inventory
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Inventory Item ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/inventory/{id} [delete]
func (h *InventoryHandler) Delete(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		fail(c, err)
		return
	}
	if err := h.inventoryService.Delete(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Inventory item deleted"))
}
