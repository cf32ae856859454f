package services

import (
	"context"
	"strings"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/pkg/storage"
	"github.com/shashiranjanraj/storefront/pkg/validate"
)

// ProductFields are the editable columns of a new product.
type ProductFields struct {
	Name        string
	Price       float64
	Description *string
	CategoryID  *uint
	Colors      *string
	Sizes       *string
}

// ProductChanges replaces a product's editable columns. Name and Price are
// left alone when nil; the optional columns are always written, so nil
// clears them.
type ProductChanges struct {
	Name        *string
	Price       *float64
	Description *string
	CategoryID  *uint
	Colors      *string
	Sizes       *string
}

type ProductService struct {
	products *repositories.ProductRepository
	disk     storage.Disk
}

func NewProductService(products *repositories.ProductRepository, disk storage.Disk) *ProductService {
	return &ProductService{products: products, disk: disk}
}

// List returns every product with its category name and decoded gallery.
func (s *ProductService) List(ctx context.Context) ([]models.ProductRow, error) {
	rows, err := s.products.AllWithCategory(ctx)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].Expand()
	}
	return rows, nil
}

// Get returns orm.ErrNotFound when id does not exist.
func (s *ProductService) Get(ctx context.Context, id uint) (models.Product, error) {
	p, err := s.products.Find(ctx, id)
	if err != nil {
		return models.Product{}, err
	}
	p.Expand()
	return p, nil
}

// Create stores the uploads in order, the first becoming the primary image,
// then inserts the row. Stored files are removed again if the insert fails.
func (s *ProductService) Create(ctx context.Context, in ProductFields, uploads []storage.Upload) (models.Product, error) {
	if strings.TrimSpace(in.Name) == "" {
		return models.Product{}, validate.Field("name", "The name field is required.")
	}

	stored, err := storage.SaveUploads(ctx, s.disk, uploads)
	if err != nil {
		return models.Product{}, err
	}
	paths := storage.URLs(stored)

	p := models.Product{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       in.Price,
		CategoryID:  in.CategoryID,
		Colors:      in.Colors,
		Sizes:       in.Sizes,
	}
	if len(paths) > 0 {
		p.Image = &paths[0]
	}
	raw := models.EncodeImages(paths)
	p.ImagesRaw = &raw

	if err := s.products.Create(ctx, &p); err != nil {
		storage.Remove(ctx, s.disk, stored)
		return models.Product{}, err
	}
	p.Expand()
	return p, nil
}

// Update applies ch to product id. New uploads replace the whole gallery;
// without uploads the stored images are kept.
func (s *ProductService) Update(ctx context.Context, id uint, ch ProductChanges, uploads []storage.Upload) error {
	if _, err := s.products.Find(ctx, id); err != nil {
		return err
	}

	values := map[string]any{
		"description": ch.Description,
		"category_id": ch.CategoryID,
		"colors":      ch.Colors,
		"sizes":       ch.Sizes,
	}
	if ch.Name != nil {
		if strings.TrimSpace(*ch.Name) == "" {
			return validate.Field("name", "The name field is required.")
		}
		values["name"] = strings.TrimSpace(*ch.Name)
	}
	if ch.Price != nil {
		values["price"] = *ch.Price
	}

	var stored []storage.Stored
	if len(uploads) > 0 {
		var err error
		if stored, err = storage.SaveUploads(ctx, s.disk, uploads); err != nil {
			return err
		}
		paths := storage.URLs(stored)
		values["image"] = paths[0]
		values["images"] = models.EncodeImages(paths)
	}

	if err := s.products.Update(ctx, id, values); err != nil {
		storage.Remove(ctx, s.disk, stored)
		return err
	}
	return nil
}

// Delete removes the row. Its image files stay on disk and orders keep
// pointing at the id.
func (s *ProductService) Delete(ctx context.Context, id uint) error {
	return s.products.Delete(ctx, id)
}
