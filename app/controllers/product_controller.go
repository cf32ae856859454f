package controllers

import (
	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/bind"
	"github.com/shashiranjanraj/storefront/pkg/ctx"
	"github.com/shashiranjanraj/storefront/pkg/storage"
)

type productRequest struct {
	Name        bind.Text `json:"name"        validate:"required"`
	Price       bind.Text `json:"price"       validate:"required,numeric"`
	Description bind.Text `json:"description"`
	CategoryID  bind.Text `json:"category_id"`
	Colors      bind.Text `json:"colors"`
	Sizes       bind.Text `json:"sizes"`
}

// productUpdateRequest has no required fields: a missing name or price
// keeps the stored one.
type productUpdateRequest struct {
	Name        bind.Text `json:"name"`
	Price       bind.Text `json:"price"       validate:"nullable,numeric"`
	Description bind.Text `json:"description"`
	CategoryID  bind.Text `json:"category_id"`
	Colors      bind.Text `json:"colors"`
	Sizes       bind.Text `json:"sizes"`
}

type ProductController struct {
	products *services.ProductService
}

func NewProductController(products *services.ProductService) *ProductController {
	return &ProductController{products: products}
}

func (pc *ProductController) Index(c *ctx.Context) {
	rows, err := pc.products.List(c.Context())
	if err != nil {
		fail(c, "product", err)
		return
	}
	c.Success(rows)
}

func (pc *ProductController) Show(c *ctx.Context) {
	id, ok := c.ParamID("id")
	if !ok {
		return
	}
	p, err := pc.products.Get(c.Context(), id)
	if err != nil {
		fail(c, "product", err)
		return
	}
	c.Success(p)
}

// Store accepts up to storage.MaxUploads files in the "images" field.
func (pc *ProductController) Store(c *ctx.Context) {
	var req productRequest
	if !c.Bind(&req) {
		return
	}
	amount, err := price(req.Price)
	if err != nil {
		fail(c, "product", err)
		return
	}

	p, err := pc.products.Create(c.Context(), services.ProductFields{
		Name:        req.Name.String(),
		Price:       amount,
		Description: req.Description.Ptr(),
		CategoryID:  optionalID(req.CategoryID),
		Colors:      req.Colors.Ptr(),
		Sizes:       req.Sizes.Ptr(),
	}, storage.FromMultipart(c.Files("images")))
	if err != nil {
		fail(c, "product", err)
		return
	}
	audit(c, "product created", "product_id", p.ID, "images", len(p.Images))
	c.Success(p)
}

func (pc *ProductController) Update(c *ctx.Context) {
	id, ok := c.ParamID("id")
	if !ok {
		return
	}
	var req productUpdateRequest
	if !c.Bind(&req) {
		return
	}

	changes := services.ProductChanges{
		Name:        req.Name.Ptr(),
		Description: req.Description.Ptr(),
		CategoryID:  optionalID(req.CategoryID),
		Colors:      req.Colors.Ptr(),
		Sizes:       req.Sizes.Ptr(),
	}
	if !req.Price.Blank() {
		amount, err := price(req.Price)
		if err != nil {
			fail(c, "product", err)
			return
		}
		changes.Price = &amount
	}

	if err := pc.products.Update(c.Context(), id, changes, storage.FromMultipart(c.Files("images"))); err != nil {
		fail(c, "product", err)
		return
	}
	audit(c, "product updated", "product_id", id)
	c.Message("Product updated")
}

func (pc *ProductController) Destroy(c *ctx.Context) {
	id, ok := c.ParamID("id")
	if !ok {
		return
	}
	if err := pc.products.Delete(c.Context(), id); err != nil {
		fail(c, "product", err)
		return
	}
	audit(c, "product deleted", "product_id", id)
	c.Message("Product deleted")
}
