package repository

import (
	"context"

	"restaurant-pos/internal/model"

	"gorm.io/gorm"
)

type MenuRepository interface {
	Create(ctx context.Context, item *model.MenuItem) error
	Update(ctx context.Context, item *model.MenuItem) error
	Delete(ctx context.Context, id uint) error
	GetByID(ctx context.Context, id uint) (*model.MenuItem, error)
	List(ctx context.Context, category string) ([]model.MenuItem, error)
	FindByIDs(ctx context.Context, ids []uint) ([]model.MenuItem, error)
}

type menuRepository struct {
	db *gorm.DB
}

func NewMenuRepository(db *gorm.DB) MenuRepository {
	return &menuRepository{db: db}
}

func (r *menuRepository) Create(ctx context.Context, item *model.MenuItem) error {
	return translate(dbFrom(ctx, r.db).Create(item).Error)
}

func (r *menuRepository) Update(ctx context.Context, item *model.MenuItem) error {
	return translate(dbFrom(ctx, r.db).Save(item).Error)
}

func (r *menuRepository) Delete(ctx context.Context, id uint) error {
	res := dbFrom(ctx, r.db).Delete(&model.MenuItem{}, "id = ?", id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *menuRepository) GetByID(ctx context.Context, id uint) (*model.MenuItem, error) {
	var item model.MenuItem
	if err := dbFrom(ctx, r.db).First(&item, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &item, nil
}

func (r *menuRepository) List(ctx context.Context, category string) ([]model.MenuItem, error) {
	q := dbFrom(ctx, r.db).Order("category ASC, name ASC")
	if category != "" {
		q = q.Where("category = ?", category)
	}
	var items []model.MenuItem
	if err := q.Find(&items).Error; err != nil {
		return nil, translate(err)
	}
	return items, nil
}

func (r *menuRepository) FindByIDs(ctx context.Context, ids []uint) ([]model.MenuItem, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var items []model.MenuItem
	if err := dbFrom(ctx, r.db).Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, translate(err)
	}
	return items, nil
}
