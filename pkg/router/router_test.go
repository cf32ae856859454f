package router_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/storefront/pkg/router"
)

func text(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) { _, _ = io.WriteString(w, body) }
}

func tag(v string) router.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Add("X-Chain", v)
			next.ServeHTTP(w, r)
		})
	}
}

func serve(r *router.Router, method, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestRouter_MethodsAndGroups(t *testing.T) {
	r := router.New()
	r.Get("/categories", "categories.index", text("list"))

	admin := r.Group("", tag("auth"))
	admin.Put("/categories/{id}", "categories.update", text("put"))
	admin.Delete("/categories/{id}", "categories.destroy", text("del"), tag("route"))

	assert.Equal(t, "list", serve(r, http.MethodGet, "/categories").Body.String())

	rec := serve(r, http.MethodPut, "/categories/4")
	assert.Equal(t, "put", rec.Body.String())
	assert.Equal(t, []string{"auth"}, rec.Header().Values("X-Chain"))

	rec = serve(r, http.MethodDelete, "/categories/4")
	assert.Equal(t, []string{"auth", "route"}, rec.Header().Values("X-Chain"))

	assert.Equal(t, http.StatusMethodNotAllowed, serve(r, http.MethodPatch, "/categories/4").Code)
}

func TestRouter_HandleAndNotFound(t *testing.T) {
	r := router.New()
	r.Handle("/CSS/*", "", http.StripPrefix("/CSS", text("css")))
	r.NotFound(text("fallback"))

	assert.Equal(t, "css", serve(r, http.MethodGet, "/CSS/site.css").Body.String())
	assert.Equal(t, "fallback", serve(r, http.MethodGet, "/nope.html").Body.String())
}

func TestRouter_Routes(t *testing.T) {
	r := router.New()
	r.Post("/orders", "orders.store", text(""))
	r.Group("/orders").Put("/{id}/confirm", "orders.confirm", text(""))

	assert.Equal(t, []router.RouteInfo{
		{Method: http.MethodPost, Path: "/orders", Name: "orders.store"},
		{Method: http.MethodPut, Path: "/orders/{id}/confirm", Name: "orders.confirm"},
	}, r.Routes())
}
