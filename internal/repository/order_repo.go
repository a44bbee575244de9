package repository

import (
	"context"
	"time"

	"restaurant-pos/internal/model"

	"gorm.io/gorm"
)

// OrderFilter narrows List queries. Zero values mean "no filter".
type OrderFilter struct {
	Status    string
	Type      string
	TableName string
}

type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	FindByIDWithItems(ctx context.Context, id uint) (*model.Order, error)
	List(ctx context.Context, filter OrderFilter, offset, limit int) ([]model.Order, int64, error)
	ListByTables(ctx context.Context, tableNames []string) ([]model.Order, error)
	ListDelivered(ctx context.Context) ([]model.Order, error)
	Update(ctx context.Context, order *model.Order) error
	UpdateStatus(ctx context.Context, id uint, status string) error
	MarkDelivered(ctx context.Context, id uint, deliveredAt time.Time) (int64, error)
	ReplaceItems(ctx context.Context, orderID uint, items []model.OrderItem) error
	Delete(ctx context.Context, id uint) error
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	return translate(dbFrom(ctx, r.db).Create(order).Error)
}

func (r *orderRepository) FindByIDWithItems(ctx context.Context, id uint) (*model.Order, error) {
	var order model.Order
	if err := dbFrom(ctx, r.db).Preload("Items").First(&order, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &order, nil
}

func (r *orderRepository) List(ctx context.Context, filter OrderFilter, offset, limit int) ([]model.Order, int64, error) {
	db := dbFrom(ctx, r.db).Model(&model.Order{})
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if filter.Type != "" {
		db = db.Where("type = ?", filter.Type)
	}
	if filter.TableName != "" {
		db = db.Where("table_name = ?", filter.TableName)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}

	var orders []model.Order
	if err := db.
		Preload("Items").
		Order("timestamp DESC").
		Offset(offset).Limit(limit).
		Find(&orders).Error; err != nil {
		return nil, 0, translate(err)
	}
	return orders, total, nil
}

// ListByTables returns every non-completed order for the named tables,
// newest first, for table status derivation.
func (r *orderRepository) ListByTables(ctx context.Context, tableNames []string) ([]model.Order, error) {
	var orders []model.Order
	if err := dbFrom(ctx, r.db).
		Where("table_name IN ? AND status <> ?", tableNames, model.OrderStatusCompleted).
		Order("timestamp DESC").
		Find(&orders).Error; err != nil {
		return nil, translate(err)
	}
	return orders, nil
}

func (r *orderRepository) ListDelivered(ctx context.Context) ([]model.Order, error) {
	var orders []model.Order
	if err := dbFrom(ctx, r.db).
		Preload("Items").
		Where("status = ?", model.OrderStatusDelivered).
		Order("delivered_at DESC").
		Find(&orders).Error; err != nil {
		return nil, translate(err)
	}
	return orders, nil
}

func (r *orderRepository) Update(ctx context.Context, order *model.Order) error {
	return translate(dbFrom(ctx, r.db).Omit("Items").Save(order).Error)
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	res := dbFrom(ctx, r.db).Model(&model.Order{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound)
	}
	return nil
}

// MarkDelivered flips a ready order to delivered in a single guarded
// update. Returns the affected row count; zero means the order was not
// in the ready state when the write landed.
func (r *orderRepository) MarkDelivered(ctx context.Context, id uint, deliveredAt time.Time) (int64, error) {
	res := dbFrom(ctx, r.db).Model(&model.Order{}).
		Where("id = ? AND status = ?", id, model.OrderStatusReady).
		Updates(map[string]interface{}{
			"status":         model.OrderStatusDelivered,
			"delivered_at":   deliveredAt,
			"bill_generated": true,
		})
	if res.Error != nil {
		return 0, translate(res.Error)
	}
	return res.RowsAffected, nil
}

// ReplaceItems deletes the order's line items and recreates them from
// the given slice.
func (r *orderRepository) ReplaceItems(ctx context.Context, orderID uint, items []model.OrderItem) error {
	db := dbFrom(ctx, r.db)
	if err := db.Where("order_id = ?", orderID).Delete(&model.OrderItem{}).Error; err != nil {
		return translate(err)
	}
	for i := range items {
		items[i].ID = 0
		items[i].OrderID = orderID
	}
	if len(items) == 0 {
		return nil
	}
	return translate(db.Create(&items).Error)
}

func (r *orderRepository) Delete(ctx context.Context, id uint) error {
	res := dbFrom(ctx, r.db).Select("Items").Delete(&model.Order{ID: id})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound)
	}
	return nil
}
