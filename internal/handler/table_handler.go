package handler

import (
	"net/http"

	"restaurant-pos/internal/middleware"
	"restaurant-pos/internal/service"
	"restaurant-pos/pkg/response"

	"github.com/gin-gonic/gin"
)

type TableHandler struct {
	tableService service.TableService
}

func NewTableHandler(tableService service.TableService) *TableHandler {
	return &TableHandler{tableService: tableService}
}

func (h *TableHandler) RegisterRoutes(router *gin.RouterGroup) {
	tables := router.Group("/api/tables")
	{
		tables.GET("", h.List)
		tables.PUT("/:name/clean", middleware.RequireAuth(), h.MarkClean)
	}
}

// List handles GET /api/tables
// @Summary      List tables
// @Description  Returns the floor layout with statuses derived from active orders and bills
// @Tags         tables
// @Produce      json
// @Success      200  {object}  response.Response{data=[]service.TableResponse}
// @Router       /api/tables [get]
func (h *TableHandler) List(c *gin.Context) {
	tables, err := h.tableService.ListTables(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, tables))
}

// MarkClean handles PUT /api/tables/:name/clean
// @Summary      Mark table cleaning
// @Description  Flips the table to cleaning; it returns to available after a fixed delay
// @Tags         tables
// @Produce      json
// @Security     BearerAuth
// @Param        name  path      string  true  "Table name"
// @Success      200   {object}  response.Response{data=service.TableResponse}
// @Failure      404   {object}  response.Response
// @Router       /api/tables/{name}/clean [put]
func (h *TableHandler) MarkClean(c *gin.Context) {
	table, err := h.tableService.MarkClean(c.Request.Context(), c.Param("name"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, table))
}
