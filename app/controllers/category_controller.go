package controllers

import (
	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/bind"
	"github.com/shashiranjanraj/storefront/pkg/ctx"
)

type categoryRequest struct {
	Name bind.Text `json:"name" validate:"required"`
}

type CategoryController struct {
	categories *services.CategoryService
}

func NewCategoryController(categories *services.CategoryService) *CategoryController {
	return &CategoryController{categories: categories}
}

func (cc *CategoryController) Index(c *ctx.Context) {
	list, err := cc.categories.List(c.Context())
	if err != nil {
		fail(c, "category", err)
		return
	}
	c.Success(list)
}

func (cc *CategoryController) Store(c *ctx.Context) {
	var req categoryRequest
	if !c.Bind(&req) {
		return
	}
	category, err := cc.categories.Create(c.Context(), req.Name.String())
	if err != nil {
		fail(c, "category", err)
		return
	}
	audit(c, "category created", "category_id", category.ID)
	c.Success(category)
}

func (cc *CategoryController) Update(c *ctx.Context) {
	id, ok := c.ParamID("id")
	if !ok {
		return
	}
	var req categoryRequest
	if !c.Bind(&req) {
		return
	}
	if err := cc.categories.Rename(c.Context(), id, req.Name.String()); err != nil {
		fail(c, "category", err)
		return
	}
	audit(c, "category renamed", "category_id", id)
	c.Message("Category updated")
}

func (cc *CategoryController) Destroy(c *ctx.Context) {
	id, ok := c.ParamID("id")
	if !ok {
		return
	}
	if err := cc.categories.Delete(c.Context(), id); err != nil {
		fail(c, "category", err)
		return
	}
	audit(c, "category deleted", "category_id", id)
	c.Message("Category deleted")
}
