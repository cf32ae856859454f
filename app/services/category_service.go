package services

import (
	"context"
	"strings"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/pkg/validate"
)

type CategoryService struct {
	categories *repositories.CategoryRepository
}

func NewCategoryService(categories *repositories.CategoryRepository) *CategoryService {
	return &CategoryService{categories: categories}
}

// List returns all categories ordered by name.
func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	return s.categories.All(ctx)
}

func (s *CategoryService) Create(ctx context.Context, name string) (models.Category, error) {
	if err := requireName(name); err != nil {
		return models.Category{}, err
	}
	c := models.Category{Name: strings.TrimSpace(name)}
	if err := s.categories.Create(ctx, &c); err != nil {
		return models.Category{}, err
	}
	return c, nil
}

// Rename does not report whether id existed.
func (s *CategoryService) Rename(ctx context.Context, id uint, name string) error {
	if err := requireName(name); err != nil {
		return err
	}
	return s.categories.Rename(ctx, id, strings.TrimSpace(name))
}

// Delete leaves products that reference the category untouched.
func (s *CategoryService) Delete(ctx context.Context, id uint) error {
	return s.categories.Delete(ctx, id)
}

func requireName(name string) error {
	if strings.TrimSpace(name) == "" {
		return validate.Field("name", "The name field is required.")
	}
	return nil
}
