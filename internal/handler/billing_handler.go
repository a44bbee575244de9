package handler

import (
	"net/http"

	"restaurant-pos/internal/billing"
	"restaurant-pos/internal/middleware"
	"restaurant-pos/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// BillingPreviewRequest is an ad-hoc totals computation for the billing
// screen. Nothing is persisted.
type BillingPreviewRequest struct {
	Items []struct {
		Price    decimal.Decimal `json:"price" binding:"required"`
		Quantity int             `json:"quantity" binding:"required,min=1"`
	} `json:"items" binding:"required,min=1,dive"`
	Discount     decimal.Decimal  `json:"discount"`
	DiscountKind string           `json:"discount_kind" binding:"omitempty,oneof=percent fixed"`
	TaxRate      *decimal.Decimal `json:"tax_rate"`
}

type BillingHandler struct{}

func NewBillingHandler() *BillingHandler {
	return &BillingHandler{}
}

func (h *BillingHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/api/billing/preview", middleware.RequirePermission("view_billing"), h.Preview)
}

// Preview handles POST /api/billing/preview
// @Summary      Preview bill totals
// @Description  Computes subtotal, discount, tax and total for a set of line items without persisting anything
// @Tags         billing
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      BillingPreviewRequest  true  "Preview Payload"
// @Success      200      {object}  response.Response{data=billing.Totals}
// @Failure      400      {object}  response.Response
// @Router       /api/billing/preview [post]
func (h *BillingHandler) Preview(c *gin.Context) {
	var req BillingPreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	lines := make([]billing.LineItem, 0, len(req.Items))
	for _, it := range req.Items {
		lines = append(lines, billing.LineItem{Price: it.Price, Quantity: it.Quantity})
	}

	kind := billing.DiscountKind(req.DiscountKind)
	if kind == "" {
		kind = billing.DiscountPercent
	}
	taxRate := billing.DefaultTaxRate
	if req.TaxRate != nil {
		taxRate = *req.TaxRate
	}

	totals := billing.ComputeTotals(lines, req.Discount, kind, taxRate)
	c.JSON(http.StatusOK, response.Success(http.StatusOK, totals))
}
