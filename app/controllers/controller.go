// Package controllers translates HTTP requests into service calls and
// service results into the JSON the storefront pages consume.
package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/bind"
	"github.com/shashiranjanraj/storefront/pkg/ctx"
	"github.com/shashiranjanraj/storefront/pkg/logger"
	"github.com/shashiranjanraj/storefront/pkg/orm"
	"github.com/shashiranjanraj/storefront/pkg/storage"
	"github.com/shashiranjanraj/storefront/pkg/validate"
)

// fail maps a service error to a response. Unclassified errors are returned
// to the client verbatim with a 500.
func fail(c *ctx.Context, resource string, err error) {
	var errs validate.Errors
	switch {
	case errors.As(err, &errs):
		c.Validation(errs)
	case errors.Is(err, storage.ErrTooManyFiles):
		c.Validation(validate.Field("images", err.Error()))
	case errors.Is(err, services.ErrProductNotFound):
		c.Error(http.StatusBadRequest, services.ErrProductNotFound.Error())
	case errors.Is(err, orm.ErrNotFound):
		c.NotFound(resource + " not found")
	default:
		logger.WithCtx(c.Context()).Error("request failed", "resource", resource, "error", err)
		c.Error(http.StatusInternalServerError, err.Error())
	}
}

// audit logs an admin action with the username the auth gate verified.
func audit(c *ctx.Context, msg string, args ...any) {
	id, _ := c.Identity()
	logger.WithCtx(c.Context()).Info(msg, append([]any{"username", id.Username}, args...)...)
}

// optionalID parses a nullable foreign key. Anything that is not a positive
// integer becomes nil.
func optionalID(t bind.Text) *uint {
	n, err := strconv.ParseUint(strings.TrimSpace(t.String()), 10, 64)
	if err != nil || n == 0 {
		return nil
	}
	id := uint(n)
	return &id
}

func price(t bind.Text) (float64, error) {
	f, err := t.Float()
	if err != nil {
		return 0, validate.Field("price", "The price field must be a number.")
	}
	return f, nil
}
