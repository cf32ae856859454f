// Package app assembles the HTTP application: the global middleware stack,
// the /metrics endpoint and the route callbacks.
//
//	handler := app.New().
//	    Sessions(store, session.DefaultOptions()).
//	    Routes(api.Register).
//	    Handler()
package app

import (
	"net/http"

	"github.com/shashiranjanraj/storefront/pkg/metrics"
	"github.com/shashiranjanraj/storefront/pkg/middleware"
	"github.com/shashiranjanraj/storefront/pkg/reqid"
	"github.com/shashiranjanraj/storefront/pkg/router"
	"github.com/shashiranjanraj/storefront/pkg/session"
)

// Application collects what the HTTP kernel needs. Build one with New.
type Application struct {
	routesFns   []func(*router.Router)
	sessions    session.Store
	sessionOpts session.Options
	cors        middleware.CORSOptions
}

// New returns an application with default CORS and session options. Without
// a call to Sessions, sessions live in an unswept in-memory store.
func New() *Application {
	return &Application{
		sessionOpts: session.DefaultOptions(),
		cors:        middleware.DefaultCORSOptions(),
	}
}

// Routes adds a route-registration callback. Callbacks run in order.
func (a *Application) Routes(fn func(*router.Router)) *Application {
	a.routesFns = append(a.routesFns, fn)
	return a
}

func (a *Application) Sessions(store session.Store, opts session.Options) *Application {
	a.sessions, a.sessionOpts = store, opts
	return a
}

// CORS replaces the same-origin default.
func (a *Application) CORS(opts middleware.CORSOptions) *Application {
	a.cors = opts
	return a
}

// Router builds the router. The global stack, outermost first:
//
//  1. metrics, so latency covers everything below
//  2. panic recovery
//  3. request ID, before anything logs
//  4. access log
//  5. CORS
//  6. session loading
func (a *Application) Router() *router.Router {
	store := a.sessions
	if store == nil {
		store = session.NewMemoryStore(0)
	}

	r := router.New()
	r.Use(
		metrics.Middleware(),
		middleware.Recovery,
		reqid.Middleware(),
		middleware.Logger,
		middleware.CORS(a.cors),
		session.Middleware(store, a.sessionOpts),
	)

	r.Get("/metrics", "metrics", metrics.Handler())

	for _, fn := range a.routesFns {
		fn(r)
	}
	return r
}

// Handler is Router().Handler().
func (a *Application) Handler() http.Handler {
	return a.Router().Handler()
}
