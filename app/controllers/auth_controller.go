package controllers

import (
	"errors"
	"net/http"
	"path/filepath"

	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/bind"
	"github.com/shashiranjanraj/storefront/pkg/ctx"
	"github.com/shashiranjanraj/storefront/pkg/logger"
)

type loginRequest struct {
	Username bind.Text `json:"username"`
	Password bind.Text `json:"password"`
}

type loginResponse struct {
	Message  string `json:"message"`
	Username string `json:"username"`
}

type AuthController struct {
	auth        *services.AuthService
	contentRoot string
}

// NewAuthController serves the admin page from contentRoot after a
// browser login.
func NewAuthController(auth *services.AuthService, contentRoot string) *AuthController {
	return &AuthController{auth: auth, contentRoot: contentRoot}
}

// Login authenticates the session. Failures leave the session untouched.
func (ac *AuthController) Login(c *ctx.Context) {
	var req loginRequest
	if !c.Bind(&req) {
		return
	}

	admin, err := ac.auth.Login(c.Context(), req.Username.String(), req.Password.String())
	switch {
	case errors.Is(err, services.ErrUserNotFound), errors.Is(err, services.ErrWrongPassword):
		c.Reject(http.StatusUnauthorized, err.Error())
		return
	case err != nil:
		logger.WithCtx(c.Context()).Error("login lookup failed", "error", err)
		c.Reject(http.StatusInternalServerError, err.Error())
		return
	}

	sess := c.Session()
	if err := sess.Renew(); err != nil {
		c.Reject(http.StatusInternalServerError, err.Error())
		return
	}
	sess.SetAuthenticated(admin.Username)
	if err := sess.Save(c.Context(), c.W); err != nil {
		logger.WithCtx(c.Context()).Error("session save failed", "error", err)
		c.Reject(http.StatusInternalServerError, err.Error())
		return
	}
	logger.WithCtx(c.Context()).Info("admin logged in", "username", admin.Username)

	if c.AcceptsJSON() {
		c.Success(loginResponse{Message: "Logged in", Username: admin.Username})
		return
	}
	c.File(filepath.Join(ac.contentRoot, "Admin-Html", "admin.html"))
}

func (ac *AuthController) Logout(c *ctx.Context) {
	if err := c.Session().Destroy(c.Context(), c.W); err != nil {
		logger.WithCtx(c.Context()).Error("logout failed", "error", err)
		c.Error(http.StatusInternalServerError, "logout failed")
		return
	}
	c.Message("Logged out")
}
