package handler

import (
	"net/http"

	"restaurant-pos/internal/middleware"
	"restaurant-pos/internal/service"
	"restaurant-pos/pkg/response"

	"github.com/gin-gonic/gin"
)

type MenuHandler struct {
	menuService service.MenuService
}

func NewMenuHandler(menuService service.MenuService) *MenuHandler {
	return &MenuHandler{menuService: menuService}
}

func (h *MenuHandler) RegisterRoutes(router *gin.RouterGroup) {
	menu := router.Group("/api/menu")
	{
		// Reads are public so the QR ordering page can render the menu.
		menu.GET("", h.List)
		menu.GET("/:id", h.Get)

		menu.POST("", middleware.RequirePermission("create_menu_item"), h.Create)
		menu.PUT("/:id", middleware.RequirePermission("edit_menu_item"), h.Update)
		menu.DELETE("/:id", middleware.RequirePermission("delete_menu_item"), h.Delete)
	}
}

// List handles GET /api/menu
// @Summary      List menu items
// @Tags         menu
// @Produce      json
// @Param        category  query     string  false  "Filter by category"
// @Success      200       {object}  response.Response{data=[]service.MenuItemResponse}
// @Router       /api/menu [get]
func (h *MenuHandler) List(c *gin.Context) {
	items, err := h.menuService.List(c.Request.Context(), c.Query("category"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, items))
}

// Get handles GET /api/menu/:id
// @Summary      Get menu item
// @Tags         menu
// @Produce      json
// @Param        id   path      int  true  "Menu Item ID"
// @Success      200  {object}  response.Response{data=service.MenuItemResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/menu/{id} [get]
func (h *MenuHandler) Get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		fail(c, err)
		return
	}
	item, err := h.menuService.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, item))
}

// Create handles POST /api/menu
// @Summary      Create menu item
// @Tags         menu
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateMenuItemRequest  true  "Create Menu Item Payload"
// @Success      201      {object}  response.Response{data=service.MenuItemResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/menu [post]
func (h *MenuHandler) Create(c *gin.Context) {
	var req service.CreateMenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	item, err := h.menuService.Create(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, item))
}

// Update handles PUT /api/menu/:id
// @Summary      Update menu item
// @Tags         menu
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      int                            true  "Menu Item ID"
// @Param        payload  body      service.UpdateMenuItemRequest  true  "Update Menu Item Payload"
// @Success      200      {object}  response.Response{data=service.MenuItemResponse}
// @Failure      404      {object}  response.Response
// @Router       /api/menu/{id} [put]
func (h *MenuHandler) Update(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		fail(c, err)
		return
	}

	var req service.UpdateMenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	item, err := h.menuService.Update(c.Request.Context(), id, req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, item))
}

// Delete handles DELETE /api/menu/:id
// @Summary      Delete menu item
// @Description  Removes a menu item. Past order lines keep their snapshots.
// @Tags         menu
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Menu Item ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/menu/{id} [delete]
func (h *MenuHandler) Delete(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		fail(c, err)
		return
	}
	if err := h.menuService.Delete(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Menu item deleted"))
}
