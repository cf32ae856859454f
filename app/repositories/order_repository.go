package repositories

import (
	"context"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/pkg/orm"
)

var productName = orm.Join{Table: "products", ForeignKey: "product_id", Column: "name", As: "product_name"}

// OrderRepository handles the orders table.
type OrderRepository struct {
	gw *orm.Gateway
}

func NewOrderRepository(gw *orm.Gateway) *OrderRepository {
	return &OrderRepository{gw: gw}
}

func (r *OrderRepository) Create(ctx context.Context, o *models.Order) error {
	return r.gw.Model(&models.Order{}).Insert(ctx, o)
}

// AllWithProduct lists orders newest first with the product name joined in.
func (r *OrderRepository) AllWithProduct(ctx context.Context) ([]models.OrderRow, error) {
	rows := []models.OrderRow{}
	err := r.gw.Model(&models.Order{}).
		With(productName).
		Order("created_at", false).
		Order("id", false).
		Select(ctx, &rows)
	return rows, err
}

func (r *OrderRepository) SetStatus(ctx context.Context, id uint, status models.OrderStatus) error {
	return r.gw.Model(&models.Order{}).Eq("id", id).Update(ctx, map[string]any{"status": string(status)})
}

func (r *OrderRepository) Delete(ctx context.Context, id uint) error {
	return r.gw.Model(&models.Order{}).Eq("id", id).Delete(ctx)
}
