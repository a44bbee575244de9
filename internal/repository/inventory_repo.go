package repository

import (
	"context"

	"restaurant-pos/internal/model"

	"gorm.io/gorm"
)

type InventoryRepository interface {
	Create(ctx context.Context, item *model.InventoryItem) error
	Update(ctx context.Context, item *model.InventoryItem) error
	Delete(ctx context.Context, id uint) error
	GetByID(ctx context.Context, id uint) (*model.InventoryItem, error)
	List(ctx context.Context) ([]model.InventoryItem, error)
}

type inventoryRepository struct {
	db *gorm.DB
}

func NewInventoryRepository(db *gorm.DB) InventoryRepository {
	return &inventoryRepository{db: db}
}

func (r *inventoryRepository) Create(ctx context.Context, item *model.InventoryItem) error {
	return translate(dbFrom(ctx, r.db).Create(item).Error)
}

func (r *inventoryRepository) Update(ctx context.Context, item *model.InventoryItem) error {
	return translate(dbFrom(ctx, r.db).Save(item).Error)
}

func (r *inventoryRepository) Delete(ctx context.Context, id uint) error {
	res := dbFrom(ctx, r.db).Delete(&model.InventoryItem{}, "id = ?", id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *inventoryRepository) GetByID(ctx context.Context, id uint) (*model.InventoryItem, error) {
	var item model.InventoryItem
	if err := dbFrom(ctx, r.db).First(&item, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &item, nil
}

func (r *inventoryRepository) List(ctx context.Context) ([]model.InventoryItem, error) {
	var items []model.InventoryItem
	if err := dbFrom(ctx, r.db).Order("name ASC").Find(&items).Error; err != nil {
		return nil, translate(err)
	}
	return items, nil
}
