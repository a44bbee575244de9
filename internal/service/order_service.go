package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"restaurant-pos/internal/billing"
	"restaurant-pos/internal/model"
	"restaurant-pos/internal/repository"
	"restaurant-pos/internal/websocket"
	"restaurant-pos/pkg/apperr"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- DTOs ---

type OrderItemRequest struct {
	MenuItemID *uint           `json:"menu_item_id"`
	Name       string          `json:"name"`
	Quantity   int             `json:"quantity" binding:"required,min=1"`
	Price      decimal.Decimal `json:"price"`
}

type CreateOrderRequest struct {
	TableName string             `json:"table_name"`
	Type      string             `json:"type" binding:"required,oneof=DINE_IN TAKEAWAY"`
	Total     decimal.Decimal    `json:"total"`
	Items     []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

// UpdateOrderRequest is the generic order write. Status accepts any
// lifecycle value without transition checks; Items, when present,
// replaces the line items wholesale.
type UpdateOrderRequest struct {
	Status        *string            `json:"status"`
	Total         *decimal.Decimal   `json:"total"`
	BillRequested *bool              `json:"bill_requested"`
	Items         []OrderItemRequest `json:"items"`
}

type CompletePaymentRequest struct {
	PaymentMethod string `json:"payment_method"`
}

type ConfirmDeliveryRequest struct {
	TaxRate *decimal.Decimal `json:"tax_rate"`
}

type OrderFilter struct {
	Status    string
	Type      string
	TableName string
	Page      int
	Limit     int
}

type OrderItemResponse struct {
	ID         uint            `json:"id"`
	MenuItemID *uint           `json:"menu_item_id"`
	Name       string          `json:"name"`
	Quantity   int             `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
}

type OrderResponse struct {
	ID            uint                `json:"id"`
	TableName     string              `json:"table_name"`
	Type          string              `json:"type"`
	Status        string              `json:"status"`
	Total         decimal.Decimal     `json:"total"`
	Timestamp     string              `json:"timestamp"`
	BillRequested bool                `json:"bill_requested"`
	DeliveredAt   *string             `json:"delivered_at"`
	BillGenerated bool                `json:"bill_generated"`
	PaymentMethod *string             `json:"payment_method"`
	Items         []OrderItemResponse `json:"items"`
}

type BillResponse struct {
	ID            uint            `json:"id"`
	OrderID       uint            `json:"order_id"`
	BillNumber    string          `json:"bill_number"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Tax           decimal.Decimal `json:"tax"`
	Total         decimal.Decimal `json:"total"`
	PaymentMethod *string         `json:"payment_method"`
	Status        string          `json:"status"`
	GeneratedAt   string          `json:"generated_at"`
	PaidAt        *string         `json:"paid_at"`
}

// --- Interface ---

type OrderService interface {
	Create(ctx context.Context, req CreateOrderRequest) (*OrderResponse, error)
	Get(ctx context.Context, id uint) (*OrderResponse, error)
	List(ctx context.Context, filter OrderFilter) ([]OrderResponse, int64, error)
	ListDelivered(ctx context.Context) ([]OrderResponse, error)
	Update(ctx context.Context, id uint, req UpdateOrderRequest) (*OrderResponse, error)
	MarkPreparing(ctx context.Context, id uint) (*OrderResponse, error)
	MarkReady(ctx context.Context, id uint) (*OrderResponse, error)
	RequestBill(ctx context.Context, id uint) (*OrderResponse, error)
	ConfirmDelivery(ctx context.Context, id uint, req ConfirmDeliveryRequest) (*OrderResponse, *BillResponse, error)
	CompletePayment(ctx context.Context, id uint, req CompletePaymentRequest) (*OrderResponse, error)
	GetBill(ctx context.Context, orderID uint) (*BillResponse, error)
	Delete(ctx context.Context, id uint) error
}

type orderService struct {
	orders    repository.OrderRepository
	bills     repository.BillRepository
	menu      repository.MenuRepository
	txManager repository.TransactionManager
	hub       *websocket.Hub
}

func NewOrderService(orders repository.OrderRepository, bills repository.BillRepository, menu repository.MenuRepository, txManager repository.TransactionManager, hub *websocket.Hub) OrderService {
	return &orderService{orders: orders, bills: bills, menu: menu, txManager: txManager, hub: hub}
}

// --- Implementation ---

// Create places a new order. Guests scanning a table QR code hit this
// without an account, so it carries no caller identity. Item names and
// prices are snapshotted from the menu when a menu_item_id is given.
func (s *orderService) Create(ctx context.Context, req CreateOrderRequest) (*OrderResponse, error) {
	tableName := strings.TrimSpace(req.TableName)
	if req.Type == model.OrderTypeTakeaway && tableName == "" {
		tableName = model.TakeawayTable
	}
	if tableName == "" {
		return nil, apperr.Wrap(apperr.ErrValidation, "table_name is required for dine-in orders")
	}

	items, err := s.buildItems(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	order := &model.Order{
		TableName: tableName,
		Type:      req.Type,
		Status:    model.OrderStatusPending,
		Total:     req.Total,
		Timestamp: time.Now(),
		Items:     items,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	resp := toOrderResponse(order)
	s.hub.PublishJSON(websocket.EventOrderCreated, resp)
	s.hub.PublishJSON(websocket.EventTableUpdated, nil)
	return resp, nil
}

// buildItems resolves menu references into denormalized line items. Items
// without a menu_item_id must carry their own name and price.
func (s *orderService) buildItems(ctx context.Context, reqs []OrderItemRequest) ([]model.OrderItem, error) {
	ids := make([]uint, 0, len(reqs))
	for _, it := range reqs {
		if it.MenuItemID != nil {
			ids = append(ids, *it.MenuItemID)
		}
	}

	menuByID := make(map[uint]model.MenuItem)
	if len(ids) > 0 {
		menuItems, err := s.menu.FindByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		for _, m := range menuItems {
			menuByID[m.ID] = m
		}
	}

	items := make([]model.OrderItem, 0, len(reqs))
	for _, it := range reqs {
		item := model.OrderItem{
			MenuItemID: it.MenuItemID,
			Name:       it.Name,
			Quantity:   it.Quantity,
			Price:      it.Price,
		}
		if it.MenuItemID != nil {
			m, ok := menuByID[*it.MenuItemID]
			if !ok {
				return nil, apperr.Wrapf(apperr.ErrValidation, "menu item %d does not exist", *it.MenuItemID)
			}
			item.Name = m.Name
			item.Price = m.Price
		} else if item.Name == "" {
			return nil, apperr.Wrap(apperr.ErrValidation, "item name is required when menu_item_id is absent")
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *orderService) Get(ctx context.Context, id uint) (*OrderResponse, error) {
	order, err := s.orders.FindByIDWithItems(ctx, id)
	if err != nil {
		return nil, err
	}
	return toOrderResponse(order), nil
}

func (s *orderService) List(ctx context.Context, filter OrderFilter) ([]OrderResponse, int64, error) {
	if filter.Status != "" && !model.ValidOrderStatus(filter.Status) {
		return nil, 0, apperr.Wrapf(apperr.ErrValidation, "unknown status '%s'", filter.Status)
	}
	offset := (filter.Page - 1) * filter.Limit
	orders, total, err := s.orders.List(ctx, repository.OrderFilter{
		Status:    filter.Status,
		Type:      filter.Type,
		TableName: filter.TableName,
	}, offset, filter.Limit)
	if err != nil {
		return nil, 0, err
	}

	res := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		res = append(res, *toOrderResponse(&orders[i]))
	}
	return res, total, nil
}

func (s *orderService) ListDelivered(ctx context.Context) ([]OrderResponse, error) {
	orders, err := s.orders.ListDelivered(ctx)
	if err != nil {
		return nil, err
	}
	res := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		res = append(res, *toOrderResponse(&orders[i]))
	}
	return res, nil
}

// Update is the generic order write. A status given here is validated
// against the known set but not against the transition graph; the POS
// front desk uses it to correct mistakes.
func (s *orderService) Update(ctx context.Context, id uint, req UpdateOrderRequest) (*OrderResponse, error) {
	order, err := s.orders.FindByIDWithItems(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Status != nil {
		if !model.ValidOrderStatus(*req.Status) {
			return nil, apperr.Wrapf(apperr.ErrValidation, "unknown status '%s'", *req.Status)
		}
		order.Status = *req.Status
	}
	if req.Total != nil {
		order.Total = *req.Total
	}
	if req.BillRequested != nil {
		order.BillRequested = *req.BillRequested
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.orders.Update(txCtx, order); err != nil {
			return err
		}
		if req.Items != nil {
			items, err := s.buildItems(txCtx, req.Items)
			if err != nil {
				return err
			}
			return s.orders.ReplaceItems(txCtx, order.ID, items)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.refreshAndBroadcast(ctx, id)
}

// MarkPreparing moves a pending order into the kitchen.
func (s *orderService) MarkPreparing(ctx context.Context, id uint) (*OrderResponse, error) {
	return s.transition(ctx, id, model.OrderStatusPending, model.OrderStatusPreparing)
}

// MarkReady flags a preparing order for pickup.
func (s *orderService) MarkReady(ctx context.Context, id uint) (*OrderResponse, error) {
	return s.transition(ctx, id, model.OrderStatusPreparing, model.OrderStatusReady)
}

func (s *orderService) transition(ctx context.Context, id uint, from, to string) (*OrderResponse, error) {
	order, err := s.orders.FindByIDWithItems(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Status != from {
		return nil, apperr.Wrapf(apperr.ErrInvalidState, "order %d is %s, expected %s", id, order.Status, from)
	}
	if err := s.orders.UpdateStatus(ctx, id, to); err != nil {
		return nil, err
	}
	return s.refreshAndBroadcast(ctx, id)
}

// RequestBill flags the order as wanting the bill. Unconditional: any
// lifecycle state may ask, the flag only drives the waiter notification.
func (s *orderService) RequestBill(ctx context.Context, id uint) (*OrderResponse, error) {
	order, err := s.orders.FindByIDWithItems(ctx, id)
	if err != nil {
		return nil, err
	}
	order.BillRequested = true
	if err := s.orders.Update(ctx, order); err != nil {
		return nil, err
	}
	return s.refreshAndBroadcast(ctx, id)
}

// ConfirmDelivery flips a ready order to delivered and generates its
// bill in the same transaction. A second confirmation, concurrent or
// later, gets Conflict once a bill exists and InvalidState once the
// status has moved on.
func (s *orderService) ConfirmDelivery(ctx context.Context, id uint, req ConfirmDeliveryRequest) (*OrderResponse, *BillResponse, error) {
	order, err := s.orders.FindByIDWithItems(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if order.Status != model.OrderStatusReady {
		return nil, nil, apperr.Wrapf(apperr.ErrInvalidState, "order %d is %s, expected ready", id, order.Status)
	}

	var bill *model.Bill
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.bills.FindByOrderID(txCtx, id); err == nil {
			return apperr.Wrapf(apperr.ErrConflict, "order %d already has a bill", id)
		} else if !errors.Is(err, apperr.ErrNotFound) {
			return err
		}

		now := time.Now()
		affected, err := s.orders.MarkDelivered(txCtx, id, now)
		if err != nil {
			return err
		}
		if affected == 0 {
			return apperr.Wrapf(apperr.ErrInvalidState, "order %d left the ready state", id)
		}

		lines := make([]billing.LineItem, 0, len(order.Items))
		for _, it := range order.Items {
			lines = append(lines, billing.LineItem{Price: it.Price, Quantity: it.Quantity})
		}
		taxRate := billing.DefaultTaxRate
		if req.TaxRate != nil {
			taxRate = *req.TaxRate
		}
		totals := billing.ComputeTotals(lines, decimal.Zero, billing.DiscountPercent, taxRate)

		bill = &model.Bill{
			OrderID:     id,
			BillNumber:  generateBillNumber(),
			Subtotal:    totals.Subtotal,
			Tax:         totals.Tax,
			Total:       totals.Total,
			Status:      model.BillStatusPending,
			GeneratedAt: now,
		}
		return s.bills.Create(txCtx, bill)
	})
	if err != nil {
		return nil, nil, err
	}

	resp, err := s.refreshAndBroadcast(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return resp, toBillResponse(bill), nil
}

// CompletePayment closes the order. The bill, if one exists, is marked
// paid; orders settled without a generated bill complete anyway.
func (s *orderService) CompletePayment(ctx context.Context, id uint, req CompletePaymentRequest) (*OrderResponse, error) {
	order, err := s.orders.FindByIDWithItems(ctx, id)
	if err != nil {
		return nil, err
	}

	method := req.PaymentMethod
	if method == "" {
		method = "cash"
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		order.Status = model.OrderStatusCompleted
		order.PaymentMethod = &method
		if err := s.orders.Update(txCtx, order); err != nil {
			return err
		}

		bill, err := s.bills.FindByOrderID(txCtx, id)
		if err != nil {
			if errors.Is(err, apperr.ErrNotFound) {
				return nil
			}
			return err
		}
		now := time.Now()
		bill.Status = model.BillStatusPaid
		bill.PaymentMethod = &method
		bill.PaidAt = &now
		return s.bills.Update(txCtx, bill)
	})
	if err != nil {
		return nil, err
	}

	return s.refreshAndBroadcast(ctx, id)
}

func (s *orderService) GetBill(ctx context.Context, orderID uint) (*BillResponse, error) {
	bill, err := s.bills.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return toBillResponse(bill), nil
}

func (s *orderService) Delete(ctx context.Context, id uint) error {
	if err := s.orders.Delete(ctx, id); err != nil {
		return err
	}
	s.hub.PublishJSON(websocket.EventOrderDeleted, map[string]uint{"id": id})
	s.hub.PublishJSON(websocket.EventTableUpdated, nil)
	return nil
}

// refreshAndBroadcast reloads the order and pushes it to subscribers.
func (s *orderService) refreshAndBroadcast(ctx context.Context, id uint) (*OrderResponse, error) {
	order, err := s.orders.FindByIDWithItems(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toOrderResponse(order)
	s.hub.PublishJSON(websocket.EventOrderUpdated, resp)
	s.hub.PublishJSON(websocket.EventTableUpdated, nil)
	return resp, nil
}

// --- Helpers ---

func generateBillNumber() string {
	return fmt.Sprintf("BILL-%s-%s", time.Now().Format("20060102"), strings.ToUpper(uuid.NewString()[:8]))
}

func toOrderResponse(o *model.Order) *OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, OrderItemResponse{
			ID:         it.ID,
			MenuItemID: it.MenuItemID,
			Name:       it.Name,
			Quantity:   it.Quantity,
			Price:      it.Price,
		})
	}

	var deliveredAt *string
	if o.DeliveredAt != nil {
		v := o.DeliveredAt.Format(time.RFC3339)
		deliveredAt = &v
	}

	return &OrderResponse{
		ID:            o.ID,
		TableName:     o.TableName,
		Type:          o.Type,
		Status:        o.Status,
		Total:         o.Total,
		Timestamp:     o.Timestamp.Format(time.RFC3339),
		BillRequested: o.BillRequested,
		DeliveredAt:   deliveredAt,
		BillGenerated: o.BillGenerated,
		PaymentMethod: o.PaymentMethod,
		Items:         items,
	}
}

func toBillResponse(b *model.Bill) *BillResponse {
	var paidAt *string
	if b.PaidAt != nil {
		v := b.PaidAt.Format(time.RFC3339)
		paidAt = &v
	}
	return &BillResponse{
		ID:            b.ID,
		OrderID:       b.OrderID,
		BillNumber:    b.BillNumber,
		Subtotal:      b.Subtotal,
		Tax:           b.Tax,
		Total:         b.Total,
		PaymentMethod: b.PaymentMethod,
		Status:        b.Status,
		GeneratedAt:   b.GeneratedAt.Format(time.RFC3339),
		PaidAt:        paidAt,
	}
}
