package middleware

import (
	"net/http"

	"github.com/shashiranjanraj/storefront/pkg/response"
	"github.com/shashiranjanraj/storefront/pkg/session"
)

const (
	deniedJSON = "access denied, please log in"
	deniedHTML = "access denied"
)

// RequireSession lets authenticated sessions through with their identity in
// the request context. Everyone else gets a 401: JSON when Accept names
// application/json, a bare <h2> otherwise.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := session.FromCtx(r.Context())
		if !sess.Authenticated() {
			if response.AcceptsJSON(r) {
				response.Error(w, http.StatusUnauthorized, deniedJSON)
			} else {
				response.Heading(w, http.StatusUnauthorized, deniedHTML)
			}
			return
		}

		ctx := session.WithIdentity(r.Context(), session.Identity{Username: sess.Username()})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireSessionPage guards static admin pages and always rejects in HTML.
func RequireSessionPage(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := session.FromCtx(r.Context())
		if !sess.Authenticated() {
			response.Heading(w, http.StatusUnauthorized, deniedHTML)
			return
		}
		ctx := session.WithIdentity(r.Context(), session.Identity{Username: sess.Username()})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
