package service

import (
	"context"

	"restaurant-pos/internal/model"
	"restaurant-pos/internal/repository"

	"github.com/shopspring/decimal"
)

// --- DTOs ---

type CreateMenuItemRequest struct {
	Name        string          `json:"name" binding:"required"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	Category    string          `json:"category" binding:"required"`
	Description string          `json:"description"`
}

type UpdateMenuItemRequest struct {
	Name        *string          `json:"name"`
	Price       *decimal.Decimal `json:"price"`
	Category    *string          `json:"category"`
	Description *string          `json:"description"`
}

type MenuItemResponse struct {
	ID          uint            `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
}

// --- Interface ---

type MenuService interface {
	Create(ctx context.Context, req CreateMenuItemRequest) (*MenuItemResponse, error)
	Get(ctx context.Context, id uint) (*MenuItemResponse, error)
	List(ctx context.Context, category string) ([]MenuItemResponse, error)
	Update(ctx context.Context, id uint, req UpdateMenuItemRequest) (*MenuItemResponse, error)
	Delete(ctx context.Context, id uint) error
}

type menuService struct {
	menu repository.MenuRepository
}

func NewMenuService(menu repository.MenuRepository) MenuService {
	return &menuService{menu: menu}
}

func (s *menuService) Create(ctx context.Context, req CreateMenuItemRequest) (*MenuItemResponse, error) {
	item := &model.MenuItem{
		Name:        req.Name,
		Price:       req.Price,
		Category:    req.Category,
		Description: req.Description,
	}
	if err := s.menu.Create(ctx, item); err != nil {
		return nil, err
	}
	return toMenuItemResponse(item), nil
}

func (s *menuService) Get(ctx context.Context, id uint) (*MenuItemResponse, error) {
	item, err := s.menu.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toMenuItemResponse(item), nil
}

func (s *menuService) List(ctx context.Context, category string) ([]MenuItemResponse, error) {
	items, err := s.menu.List(ctx, category)
	if err != nil {
		return nil, err
	}
	res := make([]MenuItemResponse, 0, len(items))
	for i := range items {
		res = append(res, *toMenuItemResponse(&items[i]))
	}
	return res, nil
}

func (s *menuService) Update(ctx context.Context, id uint, req UpdateMenuItemRequest) (*MenuItemResponse, error) {
	item, err := s.menu.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Price != nil {
		item.Price = *req.Price
	}
	if req.Category != nil {
		item.Category = *req.Category
	}
	if req.Description != nil {
		item.Description = *req.Description
	}

	if err := s.menu.Update(ctx, item); err != nil {
		return nil, err
	}
	return toMenuItemResponse(item), nil
}

// Delete removes the menu item. Historical order lines keep their
// snapshotted name and price.
func (s *menuService) Delete(ctx context.Context, id uint) error {
	return s.menu.Delete(ctx, id)
}

func toMenuItemResponse(m *model.MenuItem) *MenuItemResponse {
	return &MenuItemResponse{
		ID:          m.ID,
		Name:        m.Name,
		Price:       m.Price,
		Category:    m.Category,
		Description: m.Description,
	}
}
