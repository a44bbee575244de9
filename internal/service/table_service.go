package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"restaurant-pos/internal/model"
	"restaurant-pos/internal/repository"
	"restaurant-pos/internal/websocket"
	"restaurant-pos/pkg/apperr"
)

// Table statuses. cleaning is an in-memory overlay, never persisted.
const (
	TableAvailable      = "available"
	TableOccupied       = "occupied"
	TableWaitingPayment = "waiting_payment"
	TableCleaning       = "cleaning"
)

// cleaningDelay is how long a table stays in the cleaning state after
// MarkClean before flipping back to available.
const cleaningDelay = 30 * time.Second

// TableResponse is a table with its derived status.
type TableResponse struct {
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
	Status   string `json:"status"`
	OrderID  *uint  `json:"order_id,omitempty"`
}

// --- Interface ---

type TableService interface {
	ListTables(ctx context.Context) ([]TableResponse, error)
	MarkClean(ctx context.Context, tableName string) (*TableResponse, error)
}

type tableDef struct {
	Name     string
	Capacity int
}

type tableService struct {
	orders  repository.OrderRepository
	bills   repository.BillRepository
	hub     *websocket.Hub
	catalog []tableDef

	mu       sync.Mutex
	cleaning map[string]bool
}

// NewTableService builds the service with a fixed floor of tableCount
// four-seat tables named T1..Tn.
func NewTableService(orders repository.OrderRepository, bills repository.BillRepository, hub *websocket.Hub, tableCount int) TableService {
	catalog := make([]tableDef, 0, tableCount)
	for i := 1; i <= tableCount; i++ {
		catalog = append(catalog, tableDef{Name: fmt.Sprintf("T%d", i), Capacity: 4})
	}
	return &tableService{
		orders:   orders,
		bills:    bills,
		hub:      hub,
		catalog:  catalog,
		cleaning: make(map[string]bool),
	}
}

// DeriveTableStatus computes a table's status from its most recent active
// order. No order means available. A non-delivered order means occupied.
// A delivered order waits for payment until its bill is paid, after which
// the table is occupied again until staff clean it.
func DeriveTableStatus(order *model.Order, bill *model.Bill) string {
	if order == nil {
		return TableAvailable
	}
	if order.Status != model.OrderStatusDelivered {
		return TableOccupied
	}
	if bill == nil || bill.Status != model.BillStatusPaid {
		return TableWaitingPayment
	}
	return TableOccupied
}

func (s *tableService) ListTables(ctx context.Context) ([]TableResponse, error) {
	names := make([]string, 0, len(s.catalog))
	for _, t := range s.catalog {
		names = append(names, t.Name)
	}

	orders, err := s.orders.ListByTables(ctx, names)
	if err != nil {
		return nil, err
	}

	// Newest active order per table (query is ordered newest first).
	latest := make(map[string]*model.Order, len(names))
	for i := range orders {
		o := &orders[i]
		if _, ok := latest[o.TableName]; !ok {
			latest[o.TableName] = o
		}
	}

	s.mu.Lock()
	cleaningSnapshot := make(map[string]bool, len(s.cleaning))
	for k, v := range s.cleaning {
		cleaningSnapshot[k] = v
	}
	s.mu.Unlock()

	res := make([]TableResponse, 0, len(s.catalog))
	for _, t := range s.catalog {
		resp := TableResponse{Name: t.Name, Capacity: t.Capacity, Status: TableAvailable}

		if cleaningSnapshot[t.Name] {
			resp.Status = TableCleaning
			res = append(res, resp)
			continue
		}

		order := latest[t.Name]
		var bill *model.Bill
		if order != nil && order.Status == model.OrderStatusDelivered {
			b, err := s.bills.FindByOrderID(ctx, order.ID)
			switch {
			case err == nil:
				bill = b
			case errors.Is(err, apperr.ErrNotFound):
				// Delivered without a bill reads as waiting_payment.
			default:
				return nil, err
			}
		}
		resp.Status = DeriveTableStatus(order, bill)
		if order != nil {
			id := order.ID
			resp.OrderID = &id
		}
		res = append(res, resp)
	}
	return res, nil
}

// MarkClean flips a table into the transient cleaning state and schedules
// the return to available. The state lives only in memory; a restart
// loses it and the table reads as available again.
func (s *tableService) MarkClean(ctx context.Context, tableName string) (*TableResponse, error) {
	var def *tableDef
	for i := range s.catalog {
		if s.catalog[i].Name == tableName {
			def = &s.catalog[i]
			break
		}
	}
	if def == nil {
		return nil, apperr.Wrapf(apperr.ErrNotFound, "table '%s' does not exist", tableName)
	}

	// Cleaning closes out a delivered order still attached to the table.
	if orders, err := s.orders.ListByTables(ctx, []string{tableName}); err == nil && len(orders) > 0 {
		if latest := orders[0]; latest.Status == model.OrderStatusDelivered {
			if err := s.orders.UpdateStatus(ctx, latest.ID, model.OrderStatusCompleted); err != nil {
				return nil, err
			}
		}
	}

	s.mu.Lock()
	s.cleaning[tableName] = true
	s.mu.Unlock()

	time.AfterFunc(cleaningDelay, func() {
		s.mu.Lock()
		delete(s.cleaning, tableName)
		s.mu.Unlock()
		s.hub.PublishJSON(websocket.EventTableUpdated, map[string]string{
			"name":   tableName,
			"status": TableAvailable,
		})
	})

	resp := &TableResponse{Name: def.Name, Capacity: def.Capacity, Status: TableCleaning}
	s.hub.PublishJSON(websocket.EventTableUpdated, resp)
	return resp, nil
}
