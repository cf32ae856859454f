package repositories

import (
	"context"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/pkg/orm"
)

// CategoryRepository handles the categories table.
type CategoryRepository struct {
	gw *orm.Gateway
}

func NewCategoryRepository(gw *orm.Gateway) *CategoryRepository {
	return &CategoryRepository{gw: gw}
}

// All returns every category ordered by name.
func (r *CategoryRepository) All(ctx context.Context) ([]models.Category, error) {
	categories := []models.Category{}
	err := r.gw.Model(&models.Category{}).Order("name", true).Order("id", true).Select(ctx, &categories)
	return categories, err
}

func (r *CategoryRepository) Create(ctx context.Context, c *models.Category) error {
	return r.gw.Model(&models.Category{}).Insert(ctx, c)
}

func (r *CategoryRepository) Rename(ctx context.Context, id uint, name string) error {
	return r.gw.Model(&models.Category{}).Eq("id", id).Update(ctx, map[string]any{"name": name})
}

// Delete removes the category only; products keep their category_id.
func (r *CategoryRepository) Delete(ctx context.Context, id uint) error {
	return r.gw.Model(&models.Category{}).Eq("id", id).Delete(ctx)
}
