package service

import (
	"context"

	"restaurant-pos/internal/model"
	"restaurant-pos/internal/repository"
	"restaurant-pos/internal/websocket"

	"github.com/shopspring/decimal"
)

// --- DTOs ---

type CreateInventoryItemRequest struct {
	Name         string          `json:"name" binding:"required"`
	CurrentStock decimal.Decimal `json:"current_stock"`
	MinStock     decimal.Decimal `json:"min_stock"`
}

type UpdateInventoryItemRequest struct {
	Name         *string          `json:"name"`
	CurrentStock *decimal.Decimal `json:"current_stock"`
	MinStock     *decimal.Decimal `json:"min_stock"`
}

type InventoryItemResponse struct {
	ID           uint            `json:"id"`
	Name         string          `json:"name"`
	CurrentStock decimal.Decimal `json:"current_stock"`
	MinStock     decimal.Decimal `json:"min_stock"`
	LowStock     bool            `json:"low_stock"`
}

// --- Interface ---

type InventoryService interface {
	Create(ctx context.Context, req CreateInventoryItemRequest) (*InventoryItemResponse, error)
	List(ctx context.Context) ([]InventoryItemResponse, error)
	Update(ctx context.Context, id uint, req UpdateInventoryItemRequest) (*InventoryItemResponse, error)
	Delete(ctx context.Context, id uint) error
}

type inventoryService struct {
	inventory repository.InventoryRepository
	hub       *websocket.Hub
}

func NewInventoryService(inventory repository.InventoryRepository, hub *websocket.Hub) InventoryService {
	return &inventoryService{inventory: inventory, hub: hub}
}

func (s *inventoryService) Create(ctx context.Context, req CreateInventoryItemRequest) (*InventoryItemResponse, error) {
	item := &model.InventoryItem{
		Name:         req.Name,
		CurrentStock: req.CurrentStock,
		MinStock:     req.MinStock,
	}
	if err := s.inventory.Create(ctx, item); err != nil {
		return nil, err
	}
	resp := toInventoryResponse(item)
	s.hub.PublishJSON(websocket.EventInventoryUpdated, resp)
	return resp, nil
}

func (s *inventoryService) List(ctx context.Context) ([]InventoryItemResponse, error) {
	items, err := s.inventory.List(ctx)
	if err != nil {
		return nil, err
	}
	res := make([]InventoryItemResponse, 0, len(items))
	for i := range items {
		res = append(res, *toInventoryResponse(&items[i]))
	}
	return res, nil
}

func (s *inventoryService) Update(ctx context.Context, id uint, req UpdateInventoryItemRequest) (*InventoryItemResponse, error) {
	item, err := s.inventory.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.CurrentStock != nil {
		item.CurrentStock = *req.CurrentStock
	}
	if req.MinStock != nil {
		item.MinStock = *req.MinStock
	}

	if err := s.inventory.Update(ctx, item); err != nil {
		return nil, err
	}
	resp := toInventoryResponse(item)
	s.hub.PublishJSON(websocket.EventInventoryUpdated, resp)
	return resp, nil
}

func (s *inventoryService) Delete(ctx context.Context, id uint) error {
	if err := s.inventory.Delete(ctx, id); err != nil {
		return err
	}
	s.hub.PublishJSON(websocket.EventInventoryUpdated, map[string]uint{"deleted_id": id})
	return nil
}

func toInventoryResponse(i *model.InventoryItem) *InventoryItemResponse {
	return &InventoryItemResponse{
		ID:           i.ID,
		Name:         i.Name,
		CurrentStock: i.CurrentStock,
		MinStock:     i.MinStock,
		LowStock:     i.LowStock(),
	}
}
