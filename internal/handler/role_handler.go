package handler

import (
	"net/http"

	"restaurant-pos/internal/middleware"
	"restaurant-pos/internal/service"
	"restaurant-pos/pkg/response"

	"github.com/gin-gonic/gin"
)

type RoleHandler struct {
	roleService service.RoleService
}

func NewRoleHandler(roleService service.RoleService) *RoleHandler {
	return &RoleHandler{roleService: roleService}
}

func (h *RoleHandler) RegisterRoutes(router *gin.RouterGroup) {
	roles := router.Group("/api/roles", middleware.RequireAdmin())
	{
		roles.GET("", h.ListRoles)
		roles.GET("/:id", h.GetRole)
		roles.POST("", h.CreateRole)
		roles.PUT("/:id/permissions", h.UpdateRolePermissions)
	}

	perms := router.Group("/api/permissions", middleware.RequireAdmin())
	{
		perms.GET("", h.ListPermissions)
		perms.POST("", h.CreatePermission)
	}

	router.GET("/api/my-permissions", middleware.RequireAuth(), h.MyPermissions)
}

// ListRoles handles GET /api/roles
// @Summary      List roles
// @Description  Lists every role with its permission grants
// @Tags         roles
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]service.RoleResponse}
// @Router       /api/roles [get]
func (h *RoleHandler) ListRoles(c *gin.Context) {
	roles, err := h.roleService.ListRoles(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, roles))
}

// GetRole handles GET /api/roles/:id
// @Summary      Get role
// @Tags         roles
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Role ID"
// @Success      200  {object}  response.Response{data=service.RoleResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/roles/{id} [get]
func (h *RoleHandler) GetRole(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		fail(c, err)
		return
	}
	role, err := h.roleService.GetRole(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, role))
}

// CreateRole handles POST /api/roles
// @Summary      Create role
// @Description  Creates a custom role. Unknown permission names are dropped.
// @Tags         roles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateRoleRequest  true  "Create Role Payload"
// @Success      201      {object}  response.Response{data=service.RoleResponse}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/roles [post]
func (h *RoleHandler) CreateRole(c *gin.Context) {
	var req service.CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	role, err := h.roleService.CreateRole(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}

	middleware.ClearPermissionCache(role.Name)
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, role))
}

// UpdateRolePermissions handles PUT /api/roles/:id/permissions
// @Summary      Replace role permissions
// @Description  Replaces the role's grant set wholesale. Unknown names are dropped.
// @Tags         roles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      int                                   true  "Role ID"
// @Param        payload  body      service.UpdateRolePermissionsRequest  true  "Permission names"
// @Success      200      {object}  response.Response{data=service.RoleResponse}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/roles/{id}/permissions [put]
func (h *RoleHandler) UpdateRolePermissions(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		fail(c, err)
		return
	}

	var req service.UpdateRolePermissionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	role, err := h.roleService.UpdateRolePermissions(c.Request.Context(), id, req)
	if err != nil {
		fail(c, err)
		return
	}

	middleware.ClearPermissionCache(role.Name)
	c.JSON(http.StatusOK, response.Success(http.StatusOK, role))
}

// ListPermissions handles GET /api/permissions
// @Summary      List permissions
// @Description  Lists the full permission registry grouped by category
// @Tags         roles
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]service.PermissionResponse}
// @Router       /api/permissions [get]
func (h *RoleHandler) ListPermissions(c *gin.Context) {
	perms, err := h.roleService.ListPermissions(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, perms))
}

// CreatePermission handles POST /api/permissions
// @Summary      Create permission
// @Description  Registers a new permission name. Duplicate names conflict.
// @Tags         roles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreatePermissionRequest  true  "Create Permission Payload"
// @Success      201      {object}  response.Response{data=service.PermissionResponse}
// @Failure      409      {object}  response.Response
// @Router       /api/permissions [post]
func (h *RoleHandler) CreatePermission(c *gin.Context) {
	var req service.CreatePermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	perm, err := h.roleService.CreatePermission(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}

	// New permissions can expand the admin wildcard.
	middleware.ClearPermissionCache("")
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, perm))
}

// MyPermissions handles GET /api/my-permissions
// @Summary      Get caller permissions
// @Description  Returns the caller's effective permission names; admins get ["*"]
// @Tags         roles
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=object}
// @Router       /api/my-permissions [get]
func (h *RoleHandler) MyPermissions(c *gin.Context) {
	role := c.GetString("userRole")
	perms, err := h.roleService.MyPermissions(c.Request.Context(), role)
	if err != nil {
		fail(c, err)
		return
	}
	if perms == nil {
		perms = []string{}
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"role":        role,
		"permissions": perms,
	}))
}
