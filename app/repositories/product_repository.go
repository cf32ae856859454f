package repositories

import (
	"context"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/pkg/orm"
)

var categoryName = orm.Join{Table: "categories", ForeignKey: "category_id", Column: "name", As: "category_name"}

// ProductRepository handles the products table. Rows come back with the
// images column still encoded; callers Expand them.
type ProductRepository struct {
	gw *orm.Gateway
}

func NewProductRepository(gw *orm.Gateway) *ProductRepository {
	return &ProductRepository{gw: gw}
}

// AllWithCategory lists products with their category name joined in.
func (r *ProductRepository) AllWithCategory(ctx context.Context) ([]models.ProductRow, error) {
	rows := []models.ProductRow{}
	err := r.gw.Model(&models.Product{}).With(categoryName).Order("id", true).Select(ctx, &rows)
	return rows, err
}

// Find returns orm.ErrNotFound when the product does not exist.
func (r *ProductRepository) Find(ctx context.Context, id uint) (models.Product, error) {
	var p models.Product
	err := r.gw.Model(&models.Product{}).Eq("id", id).Single(ctx, &p)
	return p, err
}

func (r *ProductRepository) Create(ctx context.Context, p *models.Product) error {
	return r.gw.Model(&models.Product{}).Insert(ctx, p)
}

// Update writes the given columns. A nil value stores NULL.
func (r *ProductRepository) Update(ctx context.Context, id uint, values map[string]any) error {
	return r.gw.Model(&models.Product{}).Eq("id", id).Update(ctx, values)
}

func (r *ProductRepository) Delete(ctx context.Context, id uint) error {
	return r.gw.Model(&models.Product{}).Eq("id", id).Delete(ctx)
}
