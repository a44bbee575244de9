package handler

import (
	"net/http"

	"restaurant-pos/internal/middleware"
	"restaurant-pos/internal/service"
	"restaurant-pos/pkg/pagination"
	"restaurant-pos/pkg/response"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	orderService service.OrderService
}

func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

func (h *OrderHandler) RegisterRoutes(router *gin.RouterGroup) {
	orders := router.Group("/api/orders")
	{
		// Public reads and guest ordering via table QR codes.
		orders.GET("", h.List)
		orders.GET("/:id", h.Get)
		orders.GET("/:id/bill", h.GetBill)
		orders.POST("", middleware.OptionalAuth(), h.Create)

		orders.GET("/status/delivered", middleware.RequireAuth(), h.ListDelivered)
		orders.PUT("/:id", middleware.RequireAuth(), h.Update)
		orders.PUT("/:id/request-bill", middleware.RequireAuth(), h.RequestBill)
		orders.PUT("/:id/prepare", middleware.RequirePermission("mark_order_preparing"), h.MarkPreparing)
		orders.PUT("/:id/ready", middleware.RequirePermission("mark_order_ready"), h.MarkReady)
		orders.PUT("/:id/confirm-delivery", middleware.RequirePermission("confirm_order_delivery"), h.ConfirmDelivery)
		orders.PUT("/:id/complete-payment", middleware.RequirePermission("process_payments"), h.CompletePayment)
		orders.DELETE("/:id", middleware.RequirePermission("delete_order"), h.Delete)
	}
}

// Create handles POST /api/orders
// @Summary      Place order
// @Description  Places a new order. Guests ordering via a table QR code need no token.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateOrderRequest  true  "Order Payload"
// @Success      201      {object}  response.Response{data=service.OrderResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c *gin.Context) {
	var req service.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	order, err := h.orderService.Create(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, order))
}

// List handles GET /api/orders
// @Summary      List orders
// @Tags         orders
// @Produce      json
// @Param        status      query     string  false  "Filter by status"
// @Param        type        query     string  false  "Filter by type (DINE_IN, TAKEAWAY)"
// @Param        table_name  query     string  false  "Filter by table"
// @Param        page        query     int     false  "Page number"
// @Param        limit       query     int     false  "Items per page"
// @Success      200         {object}  response.Response{data=object}
// @Router       /api/orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	p := pagination.Parse(c)
	orders, total, err := h.orderService.List(c.Request.Context(), service.OrderFilter{
		Status:    c.Query("status"),
		Type:      c.Query("type"),
		TableName: c.Query("table_name"),
		Page:      p.Page,
		Limit:     p.Limit,
	})
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"orders": orders,
		"total":  total,
		"page":   p.Page,
		"limit":  p.Limit,
	}))
}

// Get handles GET /api/orders/:id
// @Summary      Get order
// @Tags         orders
// @Produce      json
// @Param        id   path      int  true  "Order ID"
// @Success      200  {object}  response.Response{data=service.OrderResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) Get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		fail(c, err)
		return
	}
	order, err := h.orderService.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}

// ListDelivered handles GET /api/orders/status/delivered
// @Summary      List delivered orders
// @Description  Delivered orders awaiting payment, newest delivery first
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]service.OrderResponse}
// @Router       /api/orders/status/delivered [get]
func (h *OrderHandler) ListDelivered(c *gin.Context) {
	orders, err := h.orderService.ListDelivered(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, orders))
}

// Update handles PUT /api/orders/:id
// @Summary      Update order
// @Description  Generic order write: status, total, bill flag, or wholesale item replacement
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      int                         true  "Order ID"
// @Param        payload  body      service.UpdateOrderRequest  true  "Update Payload"
// @Success      200      {object}  response.Response{data=service.OrderResponse}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/orders/{id} [put]
func (h *OrderHandler) Update(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		fail(c, err)
		return
	}

	var req service.UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	order, err := h.orderService.Update(c.Request.Context(), id, req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}

// MarkPreparing handles PUT /api/orders/:id/prepare
// @Summary      Mark order preparing
// @Description  KDS transition pending → preparing
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Order ID"
// @Success      200  {object}  response.Response{data=service.OrderResponse}
// @Failure      422  {object}  response.Response
// @Router       /api/orders/{id}/prepare [put]
func (h *OrderHandler) MarkPreparing(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		fail(c, err)
		return
	}
	order, err := h.orderService.MarkPreparing(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}

// MarkReady handles PUT /api/orders/:id/ready
// @Summary      Mark order ready
// @Description  KDS transition preparing → ready
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Order ID"
// @Success      200  {object}  response.Response{data=service.OrderResponse}
// @Failure      422  {object}  response.Response
// @Router       /api/orders/{id}/ready [put]
func (h *OrderHandler) MarkReady(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		fail(c, err)
		return
	}
	order, err := h.orderService.MarkReady(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}

// RequestBill handles PUT /api/orders/:id/request-bill
// @Summary      Request bill
// @Description  Flags the order as wanting the bill; notifies waiters
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Order ID"
// @Success      200  {object}  response.Response{data=service.OrderResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/orders/{id}/request-bill [put]
func (h *OrderHandler) RequestBill(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		fail(c, err)
		return
	}
	order, err := h.orderService.RequestBill(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}

// ConfirmDelivery handles PUT /api/orders/:id/confirm-delivery
// @Summary      Confirm delivery
// @Description  Marks a ready order delivered and generates its bill atomically
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      int                             true   "Order ID"
// @Param        payload  body      service.ConfirmDeliveryRequest  false  "Tax rate override"
// @Success      200      {object}  response.Response{data=object}
// @Failure      409      {object}  response.Response
// @Failure      422  {object}  response.Response
// @Router       /api/orders/{id}/confirm-delivery [put]
func (h *OrderHandler) ConfirmDelivery(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		fail(c, err)
		return
	}

	var req service.ConfirmDeliveryRequest
	// Body is optional; absence means the default tax rate.
	_ = c.ShouldBindJSON(&req)

	order, bill, err := h.orderService.ConfirmDelivery(c.Request.Context(), id, req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"order": order,
		"bill":  bill,
	}))
}

// CompletePayment handles PUT /api/orders/:id/complete-payment
// @Summary      Complete payment
// @Description  Closes the order and marks its bill paid. Defaults to cash.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      int                             true   "Order ID"
// @Param        payload  body      service.CompletePaymentRequest  false  "Payment method"
// @Success      200      {object}  response.Response{data=service.OrderResponse}
// @Failure      404      {object}  response.Response
// @Router       /api/orders/{id}/complete-payment [put]
func (h *OrderHandler) CompletePayment(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		fail(c, err)
		return
	}

	var req service.CompletePaymentRequest
	// Body is optional; an empty one means cash.
	_ = c.ShouldBindJSON(&req)

	order, err := h.orderService.CompletePayment(c.Request.Context(), id, req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}

// GetBill handles GET /api/orders/:id/bill
// @Summary      Get order bill
// @Tags         orders
// @Produce      json
// @Param        id   path      int  true  "Order ID"
// @Success      200  {object}  response.Response{data=service.BillResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/orders/{id}/bill [get]
func (h *OrderHandler) GetBill(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		fail(c, err)
		return
	}
	bill, err := h.orderService.GetBill(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, bill))
}

// Delete handles DELETE /api/orders/:id
// @Summary      Delete order
// @Description  Removes an order and its line items. Used for cancellations.
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Order ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/orders/{id} [delete]
func (h *OrderHandler) Delete(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		fail(c, err)
		return
	}
	if err := h.orderService.Delete(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Order deleted"))
}
