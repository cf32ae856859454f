// Package ctx gives handlers one value for the request and the response:
//
//	func (c *OrderController) Confirm(x *ctx.Context) {
//	    id, ok := x.ParamID("id")
//	    ...
//	    x.Message("Order confirmed")
//	}
//
//	r.Put("/orders/{id}/confirm", "orders.confirm", ctx.Wrap(orders.Confirm))
package ctx

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/shashiranjanraj/storefront/pkg/bind"
	"github.com/shashiranjanraj/storefront/pkg/response"
	"github.com/shashiranjanraj/storefront/pkg/session"
	"github.com/shashiranjanraj/storefront/pkg/validate"
)

type HandlerFunc func(c *Context)

// Wrap adapts a HandlerFunc for the router.
func Wrap(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := acquire(w, r)
		defer release(c)
		h(c)
	}
}

type Context struct {
	W http.ResponseWriter
	R *http.Request
}

var pool = sync.Pool{
	New: func() any { return &Context{} },
}

func acquire(w http.ResponseWriter, r *http.Request) *Context {
	c := pool.Get().(*Context)
	c.W, c.R = w, r
	return c
}

func release(c *Context) {
	c.W, c.R = nil, nil
	pool.Put(c)
}

// Context returns the request context.
func (c *Context) Context() context.Context { return c.R.Context() }

// Param returns a URL path parameter.
func (c *Context) Param(key string) string {
	return chi.URLParam(c.R, key)
}

// ParamID parses a positive integer path parameter. On failure it answers
// 400 and returns false.
func (c *Context) ParamID(key string) (uint, bool) {
	n, err := strconv.ParseUint(c.Param(key), 10, 64)
	if err != nil || n == 0 {
		c.Validation(validate.Field(key, "The "+key+" must be a positive integer."))
		return 0, false
	}
	return uint(n), true
}

func (c *Context) Query(key string) string {
	return c.R.URL.Query().Get(key)
}

func (c *Context) Header(key string) string {
	return c.R.Header.Get(key)
}

// AcceptsJSON reports whether the client asked for JSON.
func (c *Context) AcceptsJSON() bool {
	return response.AcceptsJSON(c.R)
}

// Session returns the request's session.
func (c *Context) Session() *session.Session {
	return session.FromCtx(c.R.Context())
}

// Identity returns the caller verified by the auth gate.
func (c *Context) Identity() (session.Identity, bool) {
	return session.IdentityFrom(c.R.Context())
}

// Bind decodes and validates the body into dest. On failure it answers
// (400 for bad input, 413 for an oversized body) and returns false.
func (c *Context) Bind(dest any) bool {
	err := bind.Body(c.R, dest)
	if err == nil {
		return true
	}

	var errs validate.Errors
	switch {
	case errors.As(err, &errs):
		c.Validation(errs)
	case errors.Is(err, bind.ErrBodyTooLarge):
		c.Error(http.StatusRequestEntityTooLarge, "request body too large")
	default:
		c.Error(http.StatusBadRequest, err.Error())
	}
	return false
}

// Files returns the uploaded files of a bound multipart request.
func (c *Context) Files(field string) []*multipart.FileHeader {
	return bind.Files(c.R, field)
}

func (c *Context) JSON(code int, v any) { response.JSON(c.W, code, v) }

func (c *Context) Success(v any) { response.Success(c.W, v) }

func (c *Context) Message(msg string) { response.Message(c.W, msg) }

func (c *Context) Error(code int, msg string) { response.Error(c.W, code, msg) }

func (c *Context) Validation(errs validate.Errors) { response.Validation(c.W, errs) }

func (c *Context) NotFound(msg string) { c.Error(http.StatusNotFound, msg) }

// Reject answers JSON or HTML depending on Accept.
func (c *Context) Reject(code int, msg string) {
	response.Reject(c.W, c.R, code, msg)
}

// File serves a file from disk.
func (c *Context) File(path string) {
	http.ServeFile(c.W, c.R, path)
}
