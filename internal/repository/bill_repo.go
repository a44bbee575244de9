package repository

import (
	"context"

	"restaurant-pos/internal/model"

	"gorm.io/gorm"
)

type BillRepository interface {
	Create(ctx context.Context, bill *model.Bill) error
	FindByOrderID(ctx context.Context, orderID uint) (*model.Bill, error)
	Update(ctx context.Context, bill *model.Bill) error
	List(ctx context.Context, offset, limit int) ([]model.Bill, int64, error)
}

type billRepository struct {
	db *gorm.DB
}

func NewBillRepository(db *gorm.DB) BillRepository {
	return &billRepository{db: db}
}

func (r *billRepository) Create(ctx context.Context, bill *model.Bill) error {
	return translate(dbFrom(ctx, r.db).Create(bill).Error)
}

func (r *billRepository) FindByOrderID(ctx context.Context, orderID uint) (*model.Bill, error) {
	var bill model.Bill
	if err := dbFrom(ctx, r.db).First(&bill, "order_id = ?", orderID).Error; err != nil {
		return nil, translate(err)
	}
	return &bill, nil
}

func (r *billRepository) Update(ctx context.Context, bill *model.Bill) error {
	return translate(dbFrom(ctx, r.db).Save(bill).Error)
}

func (r *billRepository) List(ctx context.Context, offset, limit int) ([]model.Bill, int64, error) {
	db := dbFrom(ctx, r.db).Model(&model.Bill{})

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}

	var bills []model.Bill
	if err := db.Order("generated_at DESC").Offset(offset).Limit(limit).Find(&bills).Error; err != nil {
		return nil, 0, translate(err)
	}
	return bills, total, nil
}
