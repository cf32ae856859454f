// Package graph exposes the public catalogue as a read-only GraphQL schema:
//
//	{ categories { id name } products { id name price category_name images } }
//	{ product(id: 3) { name images } }
package graph

import (
	"errors"
	"time"

	"github.com/graphql-go/graphql"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/services"
	sgraphql "github.com/shashiranjanraj/storefront/pkg/graphql"
	"github.com/shashiranjanraj/storefront/pkg/orm"
)

var categoryType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Category",
	Fields: graphql.Fields{
		"id":         &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"name":       &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"created_at": &graphql.Field{Type: graphql.String},
	},
})

var productType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Product",
	Fields: graphql.Fields{
		"id":            &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"name":          &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"description":   &graphql.Field{Type: graphql.String},
		"price":         &graphql.Field{Type: graphql.NewNonNull(graphql.Float)},
		"category_id":   &graphql.Field{Type: graphql.Int},
		"category_name": &graphql.Field{Type: graphql.String},
		"colors":        &graphql.Field{Type: graphql.String},
		"sizes":         &graphql.Field{Type: graphql.String},
		"image":         &graphql.Field{Type: graphql.String},
		"images":        &graphql.Field{Type: graphql.NewList(graphql.String)},
		"created_at":    &graphql.Field{Type: graphql.String},
	},
})

// Schema builds the catalogue schema over the given services.
func Schema(categories *services.CategoryService, products *services.ProductService) (graphql.Schema, error) {
	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"categories": &graphql.Field{
				Type: graphql.NewList(categoryType),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					list, err := categories.List(p.Context)
					if err != nil {
						return nil, err
					}
					out := make([]map[string]any, len(list))
					for i, c := range list {
						out[i] = categoryFields(c)
					}
					return out, nil
				},
			},
			"products": &graphql.Field{
				Type: graphql.NewList(productType),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					rows, err := products.List(p.Context)
					if err != nil {
						return nil, err
					}
					out := make([]map[string]any, len(rows))
					for i, r := range rows {
						out[i] = productFields(r.Product, r.CategoryName)
					}
					return out, nil
				},
			},
			"product": &graphql.Field{
				Type: productType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					id, _ := p.Args["id"].(int)
					if id <= 0 {
						return nil, nil
					}
					prod, err := products.Get(p.Context, uint(id))
					if errors.Is(err, orm.ErrNotFound) {
						return nil, nil
					}
					if err != nil {
						return nil, err
					}
					return productFields(prod, nil), nil
				},
			},
		},
	})
	return sgraphql.NewSchema(query)
}

func categoryFields(c models.Category) map[string]any {
	return map[string]any{
		"id":         int(c.ID),
		"name":       c.Name,
		"created_at": stamp(c.CreatedAt),
	}
}

func productFields(p models.Product, categoryName *string) map[string]any {
	return map[string]any{
		"id":            int(p.ID),
		"name":          p.Name,
		"description":   deref(p.Description),
		"price":         p.Price,
		"category_id":   derefID(p.CategoryID),
		"category_name": deref(categoryName),
		"colors":        deref(p.Colors),
		"sizes":         deref(p.Sizes),
		"image":         deref(p.Image),
		"images":        p.Images,
		"created_at":    stamp(p.CreatedAt),
	}
}

func deref(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func derefID(id *uint) any {
	if id == nil {
		return nil
	}
	return int(*id)
}

func stamp(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}
