// Package routes wires repositories, services and controllers to URLs.
package routes

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/shashiranjanraj/storefront/app/controllers"
	"github.com/shashiranjanraj/storefront/app/graph"
	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/crypt"
	"github.com/shashiranjanraj/storefront/pkg/ctx"
	"github.com/shashiranjanraj/storefront/pkg/event"
	"github.com/shashiranjanraj/storefront/pkg/graphql"
	"github.com/shashiranjanraj/storefront/pkg/logger"
	"github.com/shashiranjanraj/storefront/pkg/middleware"
	"github.com/shashiranjanraj/storefront/pkg/orm"
	"github.com/shashiranjanraj/storefront/pkg/router"
	"github.com/shashiranjanraj/storefront/pkg/storage"
	"github.com/shashiranjanraj/storefront/pkg/ws"
)

// Deps are the collaborators the routes are built on.
type Deps struct {
	Gateway *orm.Gateway
	Disk    storage.Disk
	Hasher  crypt.Hasher
	Events  *event.Dispatcher
	Feed    *ws.Hub

	// ContentRoot holds the HTML pages, CSSRoot the stylesheets. UploadRoot
	// is served under /uploads when set.
	ContentRoot string
	CSSRoot     string
	UploadRoot  string
}

// API holds the built controllers.
type API struct {
	deps       Deps
	auth       *controllers.AuthController
	categories *controllers.CategoryController
	products   *controllers.ProductController
	orders     *controllers.OrderController
	pages      *controllers.PageController
	graphql    http.HandlerFunc
}

// New builds every layer and forwards order events to the feed.
func New(d Deps) (*API, error) {
	if d.Hasher == nil {
		d.Hasher = crypt.Plaintext{}
	}
	if d.Events == nil {
		d.Events = event.NewDispatcher()
	}
	if d.Feed == nil {
		d.Feed = ws.NewHub()
	}

	productRepo := repositories.NewProductRepository(d.Gateway)
	authSvc := services.NewAuthService(repositories.NewAdminRepository(d.Gateway), d.Hasher)
	categorySvc := services.NewCategoryService(repositories.NewCategoryRepository(d.Gateway))
	productSvc := services.NewProductService(productRepo, d.Disk)
	orderSvc := services.NewOrderService(repositories.NewOrderRepository(d.Gateway), productRepo, d.Events)

	schema, err := graph.Schema(categorySvc, productSvc)
	if err != nil {
		return nil, err
	}

	publish := func(ctx context.Context, e event.Event) {
		b, err := json.Marshal(e.Payload)
		if err != nil {
			logger.WithCtx(ctx).Warn("order feed: encode event", "event", e.Name, "error", err)
			return
		}
		d.Feed.Publish(b)
	}
	d.Events.Listen(services.EventOrderCreated, publish)
	d.Events.Listen(services.EventOrderConfirmed, publish)

	return &API{
		deps:       d,
		auth:       controllers.NewAuthController(authSvc, d.ContentRoot),
		categories: controllers.NewCategoryController(categorySvc),
		products:   controllers.NewProductController(productSvc),
		orders:     controllers.NewOrderController(orderSvc),
		pages:      controllers.NewPageController(d.ContentRoot),
		graphql:    graphql.Handler(schema),
	}, nil
}

// Register mounts the route table on r.
func (a *API) Register(r *router.Router) {
	gate := middleware.RequireSession

	r.Get("/", "home", ctx.Wrap(a.pages.Home))
	r.Post("/login", "auth.login", ctx.Wrap(a.auth.Login))
	r.Post("/logout", "auth.logout", ctx.Wrap(a.auth.Logout))

	r.Get("/categories", "categories.index", ctx.Wrap(a.categories.Index))
	r.Post("/categories", "categories.store", ctx.Wrap(a.categories.Store), gate)
	r.Put("/categories/{id}", "categories.update", ctx.Wrap(a.categories.Update), gate)
	r.Delete("/categories/{id}", "categories.destroy", ctx.Wrap(a.categories.Destroy), gate)

	r.Get("/products", "products.index", ctx.Wrap(a.products.Index))
	r.Get("/products/{id}", "products.show", ctx.Wrap(a.products.Show))
	r.Post("/products", "products.store", ctx.Wrap(a.products.Store), gate)
	r.Put("/products/{id}", "products.update", ctx.Wrap(a.products.Update), gate)
	r.Delete("/products/{id}", "products.destroy", ctx.Wrap(a.products.Destroy), gate)

	r.Post("/orders", "orders.store", ctx.Wrap(a.orders.Store))
	r.Get("/orders", "orders.index", ctx.Wrap(a.orders.Index), gate)
	r.Get("/orders/feed", "orders.feed", a.deps.Feed.ServeHTTP, gate)
	r.Put("/orders/{id}/confirm", "orders.confirm", ctx.Wrap(a.orders.Confirm), gate)
	r.Delete("/orders/{id}", "orders.destroy", ctx.Wrap(a.orders.Destroy), gate)

	r.Get("/graphql", "graphql.query", a.graphql)
	r.Post("/graphql", "graphql.execute", a.graphql)

	r.Handle(controllers.AdminPrefix+"/*", "pages.admin",
		controllers.Static(a.deps.ContentRoot, ""), middleware.RequireSessionPage)
	if a.deps.CSSRoot != "" {
		r.Handle("/CSS/*", "assets.css", controllers.Static(a.deps.CSSRoot, "/CSS"))
	}
	if a.deps.UploadRoot != "" {
		r.Handle("/uploads/*", "assets.uploads", controllers.Static(a.deps.UploadRoot, "/uploads"))
	}
	r.NotFound(a.pages.Fallback)
}
